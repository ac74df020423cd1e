package hawk

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"
)

// credentialsFile is the YAML document shape accepted by LoadCredentials:
//
//	credentials:
//	  - id: test-client
//	    key: werxhqb98rpaxn39848xrunpaw3489ruxnpa98w4rxn
//	    algorithm: sha256
type credentialsFile struct {
	Credentials []credentialsEntry `yaml:"credentials"`
}

type credentialsEntry struct {
	ID        string `yaml:"id"`
	Key       string `yaml:"key"`
	Algorithm string `yaml:"algorithm"`
}

// CredentialsStore is an immutable in-memory credentials set loaded from a
// YAML document. It is a convenience collaborator for the middleware; any
// other store can serve by providing a CredentialsLookupFunc.
type CredentialsStore struct {
	byID map[string]*Credentials
}

// LoadCredentials parses a YAML credentials document. Every entry needs a
// non-empty id and key and a known algorithm; duplicate ids are rejected.
func LoadCredentials(r io.Reader) (*CredentialsStore, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var file credentialsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("hawk: parsing credentials: %w", err)
	}

	store := &CredentialsStore{byID: make(map[string]*Credentials, len(file.Credentials))}

	for _, entry := range file.Credentials {
		if entry.ID == "" || entry.Key == "" {
			return nil, fmt.Errorf("%w: credentials entry requires id and key", ErrMissingCredentials)
		}

		if _, exists := store.byID[entry.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate credentials id %q", ErrMissingCredentials, entry.ID)
		}

		key, err := NewKey([]byte(entry.Key), Algorithm(entry.Algorithm))
		if err != nil {
			return nil, fmt.Errorf("credentials id %q: %w", entry.ID, err)
		}

		store.byID[entry.ID] = &Credentials{ID: entry.ID, Key: key}
	}

	return store, nil
}

// LoadCredentialsFile reads and parses a YAML credentials file.
func LoadCredentialsFile(path string) (*CredentialsStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadCredentials(f)
}

// Get returns the credentials for id.
func (s *CredentialsStore) Get(id string) (*Credentials, bool) {
	creds, ok := s.byID[id]

	return creds, ok
}

// Len returns the number of credentials in the store.
func (s *CredentialsStore) Len() int {
	return len(s.byID)
}

// Lookup satisfies CredentialsLookupFunc:
//
//	mw, err := hawk.Middleware(hawk.MiddlewareConfig{Lookup: store.Lookup})
func (s *CredentialsStore) Lookup(_ *http.Request, id string) (*Credentials, error) {
	creds, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCredentials, id)
	}

	return creds, nil
}
