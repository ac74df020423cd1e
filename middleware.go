package hawk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CredentialsLookupFunc resolves the credentials for a peer-asserted id.
// It is called after header or bewit parsing and before any MAC work. The
// request is provided for context (e.g., to scope key sets by host). A
// non-nil error rejects the request; the engine treats an unknown id as a
// validation failure, never as a crash.
type CredentialsLookupFunc func(r *http.Request, id string) (*Credentials, error)

// MiddlewareConfig configures server-side request authentication.
type MiddlewareConfig struct {
	// Lookup resolves credentials by id. Required.
	Lookup CredentialsLookupFunc

	// Skew is the timestamp tolerance for header authentication.
	// Zero means DefaultSkew.
	Skew time.Duration

	// NonceCheck rejects replayed nonces. Strongly recommended for
	// production; without it a captured request replays freely within
	// the skew window.
	NonceCheck NonceCheckFunc

	// RequireHash makes the middleware recompute the payload hash over
	// the request body and Content-Type and require the header to declare
	// a matching hash.
	RequireHash bool

	// AllowBewit accepts a bewit query parameter on GET and HEAD requests
	// that carry no Authorization header.
	AllowBewit bool

	// OnError is called when authentication fails. When nil, a plain 401
	// with a "WWW-Authenticate: Hawk" challenge is sent. The error is for
	// local diagnostics only and must not be echoed to the peer, so that
	// a forger cannot distinguish a MAC failure from a parse failure.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware returns a net/http middleware that authenticates incoming
// requests with Hawk. On success the handler runs with a ServerAuth value
// in the request context; on failure OnError is invoked and the handler
// never runs.
//
// It returns ErrNoLookup if cfg.Lookup is nil.
func Middleware(cfg MiddlewareConfig) (func(http.Handler) http.Handler, error) {
	if cfg.Lookup == nil {
		return nil, ErrNoLookup
	}

	onError := cfg.OnError
	if onError == nil {
		onError = defaultOnError
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, err := authenticate(r, cfg)
			if err != nil {
				onError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), serverAuthKey{}, auth)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

// ServerAuth is the outcome of a successful server-side authentication.
type ServerAuth struct {
	// Credentials are the resolved credentials the request validated
	// against.
	Credentials *Credentials

	// Request is the canonical request the MAC was verified over.
	Request *Request

	// Header is the validated request header. Nil when the request was
	// authenticated with a bewit.
	Header *Header

	// Bewit is the validated bewit. Nil when the request was
	// authenticated with a header.
	Bewit *Bewit
}

type serverAuthKey struct{}

// ServerAuthFromContext returns the ServerAuth stored by Middleware, or nil
// when the request did not pass through it.
func ServerAuthFromContext(ctx context.Context) *ServerAuth {
	if auth, ok := ctx.Value(serverAuthKey{}).(*ServerAuth); ok {
		return auth
	}

	return nil
}

// SignResponse produces a Server-Authorization header value for the reply,
// bound to the authenticated request. Hash, when non-nil, is the payload
// hash of the response body; ext is optional application data. Bewit
// requests have no nonce to bind to, so their responses cannot be signed.
func (a *ServerAuth) SignResponse(ext string, hash []byte) (string, error) {
	if a.Header == nil {
		return "", fmt.Errorf("%w: bewit responses are not signed", ErrInvalidRequest)
	}

	resp := a.Request.MakeResponse(a.Header)
	resp.Ext = ext
	resp.Hash = hash

	h, err := resp.MakeHeader(a.Credentials.Key)
	if err != nil {
		return "", err
	}

	return h.Render()
}

func authenticate(r *http.Request, cfg MiddlewareConfig) (*ServerAuth, error) {
	value := r.Header.Get("Authorization")
	if value == "" && cfg.AllowBewit {
		return authenticateBewit(r, cfg)
	}

	h, err := ParseHeader(value)
	if err != nil {
		return nil, err
	}

	if h.ID == "" {
		return nil, fmt.Errorf("%w: request header requires id", ErrMalformedHeader)
	}

	creds, err := cfg.Lookup(r, h.ID)
	if err != nil {
		return nil, err
	}

	req, err := RequestFromHTTP(r)
	if err != nil {
		return nil, err
	}

	if cfg.RequireHash {
		body, err := readAndRestoreBody(r)
		if err != nil {
			return nil, err
		}

		hash, err := HashPayload(r.Header.Get("Content-Type"), creds.Key.Algorithm(), body)
		if err != nil {
			return nil, err
		}

		req.Hash = hash
	}

	err = req.ValidateHeader(h, ValidateConfig{
		Key:        creds.Key,
		Skew:       cfg.Skew,
		NonceCheck: cfg.NonceCheck,
	})
	if err != nil {
		return nil, err
	}

	return &ServerAuth{Credentials: creds, Request: req, Header: h}, nil
}

func authenticateBewit(r *http.Request, cfg MiddlewareConfig) (*ServerAuth, error) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return nil, fmt.Errorf("%w: bewit allowed only on GET and HEAD", ErrBewitMalformed)
	}

	b, stripped, err := ExtractBewit(r.URL.RequestURI())
	if err != nil {
		return nil, err
	}

	creds, err := cfg.Lookup(r, b.ID)
	if err != nil {
		return nil, err
	}

	req, err := RequestFromHTTP(r)
	if err != nil {
		return nil, err
	}

	req.Path = stripped

	if err := req.ValidateBewit(b, ValidateConfig{Key: creds.Key}); err != nil {
		return nil, err
	}

	return &ServerAuth{Credentials: creds, Request: req, Bewit: b}, nil
}

// defaultOnError writes a 401 with the Hawk challenge and no body.
func defaultOnError(w http.ResponseWriter, _ *http.Request, _ error) {
	w.Header().Set("WWW-Authenticate", headerScheme)
	w.WriteHeader(http.StatusUnauthorized)
}

// readAndRestoreBody reads the entire request body and replaces it with a
// new reader so the body can be consumed again by downstream handlers.
func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
