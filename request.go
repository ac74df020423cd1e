package hawk

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// nonceSize is the number of random bytes used to generate a nonce.
const nonceSize = 8

// GenerateNonce returns a cryptographically random nonce string: 8 random
// bytes encoded as unpadded base64url (11 characters).
func GenerateNonce() (string, error) {
	b := make([]byte, nonceSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Request is the canonical view of one HTTP request: the fields covered by
// the MAC, assembled from whatever transport delivers the request. It is
// built once per exchange and not mutated afterwards.
type Request struct {
	Method string
	Host   string
	Port   uint16

	// Path is the request path including the query string.
	Path string

	// Hash is this side's payload hash. On the client it is sent in the
	// header; on the server it is the locally recomputed digest that the
	// peer's declared hash must match.
	Hash []byte

	// Ext is optional application data covered by the MAC.
	Ext string

	// App and Dlg are the Oz delegation extension fields. When App is set
	// both are bound into the MAC; a peer that does not set them must
	// leave both empty.
	App string
	Dlg string
}

// NewRequest creates a Request from explicit transport fields.
func NewRequest(method, host string, port uint16, path string) *Request {
	return &Request{
		Method: method,
		Host:   host,
		Port:   port,
		Path:   normalizePath(path),
	}
}

// RequestFromURL creates a Request from an absolute URL, deriving the port
// from the scheme (80 for http, 443 for https) when the URL does not name
// one.
func RequestFromURL(method string, u *url.URL) (*Request, error) {
	if u == nil || u.Host == "" {
		return nil, fmt.Errorf("%w: url has no host", ErrInvalidRequest)
	}

	port, err := urlPort(u)
	if err != nil {
		return nil, err
	}

	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return NewRequest(method, u.Hostname(), port, path), nil
}

// RequestFromHTTP creates a Request from an incoming server-side request.
// Host and port come from the Host header, with the port defaulting by
// whether the connection carried TLS.
func RequestFromHTTP(r *http.Request) (*Request, error) {
	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}

	if host == "" {
		return nil, fmt.Errorf("%w: request has no host", ErrInvalidRequest)
	}

	port := uint16(80)
	if r.TLS != nil {
		port = 443
	}

	if h, p, err := net.SplitHostPort(host); err == nil {
		parsed, perr := parsePort(p)
		if perr != nil {
			return nil, perr
		}

		host = h
		port = parsed
	}

	return NewRequest(r.Method, host, port, r.URL.RequestURI()), nil
}

// ValidateConfig configures header and bewit validation.
type ValidateConfig struct {
	// Key is the shared key resolved from the peer-asserted id. Looking
	// the key up is the caller's job; the engine never trusts the id for
	// anything else. Required.
	Key *Key

	// Skew is the symmetric timestamp tolerance. Zero means DefaultSkew.
	// Not consulted for bewits, whose expiry is one-sided.
	Skew time.Duration

	// NonceCheck, when set, rejects replayed (id, nonce) pairs. It is
	// called only after the MAC has verified, so an attacker cannot
	// poison the tracker with forged nonces.
	NonceCheck NonceCheckFunc

	// Now overrides the validation clock. Zero means time.Now().
	Now time.Time
}

func (cfg ValidateConfig) now() time.Time {
	if cfg.Now.IsZero() {
		return time.Now()
	}

	return cfg.Now
}

func (cfg ValidateConfig) skew() time.Duration {
	if cfg.Skew == 0 {
		return DefaultSkew
	}

	return cfg.Skew
}

// MakeHeader signs the request: it stamps the current time, generates a
// fresh nonce, and returns a Header ready to render into an Authorization
// header value.
func (r *Request) MakeHeader(creds *Credentials) (*Header, error) {
	if creds == nil || creds.Key == nil {
		return nil, ErrMissingCredentials
	}

	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}

	ts := time.Now().Unix()

	mac, err := creds.Key.Sign(canonicalString(canonicalInput{
		tag:    tagHeader,
		ts:     ts,
		nonce:  nonce,
		method: r.Method,
		path:   r.Path,
		host:   r.Host,
		port:   r.Port,
		hash:   r.Hash,
		ext:    r.Ext,
		app:    r.App,
		dlg:    r.Dlg,
	}))
	if err != nil {
		return nil, err
	}

	return &Header{
		ID:    creds.ID,
		TS:    ts,
		Nonce: nonce,
		Hash:  r.Hash,
		Ext:   r.Ext,
		MAC:   mac,
		App:   r.App,
		Dlg:   r.Dlg,
	}, nil
}

// ValidateHeader checks an incoming request header against this request.
// The canonical string is rebuilt from the header's own ts, nonce, hash,
// ext, app and dlg plus the request's transport fields; the header's MAC is
// compared against the recomputation, never trusted.
//
// When the request carries a locally computed payload Hash, the header must
// declare a matching hash or validation fails with ErrHashMismatch.
func (r *Request) ValidateHeader(h *Header, cfg ValidateConfig) error {
	if cfg.Key == nil {
		return ErrMissingCredentials
	}

	if h == nil || len(h.MAC) == 0 {
		return fmt.Errorf("%w: missing mac attribute", ErrMalformedHeader)
	}

	if h.TS == 0 || h.Nonce == "" {
		return fmt.Errorf("%w: request header requires ts and nonce", ErrMalformedHeader)
	}

	ok, err := cfg.Key.Verify(canonicalString(canonicalInput{
		tag:    tagHeader,
		ts:     h.TS,
		nonce:  h.Nonce,
		method: r.Method,
		path:   r.Path,
		host:   r.Host,
		port:   r.Port,
		hash:   h.Hash,
		ext:    h.Ext,
		app:    h.App,
		dlg:    h.Dlg,
	}), h.MAC)
	if err != nil {
		return err
	}

	if !ok {
		return ErrMacMismatch
	}

	if !freshWithin(h.TS, cfg.now(), cfg.skew()) {
		return ErrStaleTimestamp
	}

	if cfg.NonceCheck != nil && cfg.NonceCheck(h.ID, h.Nonce, time.Unix(h.TS, 0)) {
		return ErrReplay
	}

	if len(r.Hash) > 0 && !bytes.Equal(r.Hash, h.Hash) {
		return ErrHashMismatch
	}

	return nil
}

// MakeBewit signs a bewit valid for ttl from now. The request path must not
// already contain a bewit parameter.
func (r *Request) MakeBewit(creds *Credentials, ttl time.Duration) (*Bewit, error) {
	if creds == nil || creds.Key == nil {
		return nil, ErrMissingCredentials
	}

	expiry := time.Now().Add(ttl).Unix()

	mac, err := creds.Key.Sign(canonicalString(canonicalInput{
		tag:  tagBewit,
		ts:   expiry,
		path: r.Path,
		host: r.Host,
		port: r.Port,
		hash: r.Hash,
		ext:  r.Ext,
	}))
	if err != nil {
		return nil, err
	}

	return &Bewit{ID: creds.ID, TS: expiry, MAC: mac, Ext: r.Ext}, nil
}

// ValidateBewit checks a bewit against this request. The request path must
// be the one returned by ExtractBewit, with the bewit parameter already
// removed, so that it matches what the issuer signed. Only cfg.Key and
// cfg.Now are consulted: bewits have no nonce and no skew window.
func (r *Request) ValidateBewit(b *Bewit, cfg ValidateConfig) error {
	if cfg.Key == nil {
		return ErrMissingCredentials
	}

	if b == nil || len(b.MAC) == 0 {
		return fmt.Errorf("%w: missing mac", ErrBewitMalformed)
	}

	ok, err := cfg.Key.Verify(canonicalString(canonicalInput{
		tag:  tagBewit,
		ts:   b.TS,
		path: r.Path,
		host: r.Host,
		port: r.Port,
		hash: r.Hash,
		ext:  b.Ext,
	}), b.MAC)
	if err != nil {
		return err
	}

	if !ok {
		return ErrMacMismatch
	}

	if expired(b.TS, cfg.now()) {
		return ErrBewitExpired
	}

	return nil
}

// MakeResponse builds the reply-leg value for this request. The response
// MAC binds to the request header's ts and nonce, so a signed response
// cannot be replayed as the answer to a different request. Both sides call
// this with the same request header: the server with the one it validated,
// the client with the one it sent.
func (r *Request) MakeResponse(h *Header) *Response {
	return &Response{
		host:  r.Host,
		port:  r.Port,
		path:  r.Path,
		ts:    h.TS,
		nonce: h.Nonce,
	}
}

func urlPort(u *url.URL) (uint16, error) {
	if p := u.Port(); p != "" {
		return parsePort(p)
	}

	switch u.Scheme {
	case "http":
		return 80, nil
	case "https":
		return 443, nil
	default:
		return 0, fmt.Errorf("%w: no port for scheme %q", ErrInvalidRequest, u.Scheme)
	}
}

func parsePort(p string) (uint16, error) {
	port, err := strconv.ParseUint(p, 10, 16)
	if err != nil || port == 0 {
		return 0, fmt.Errorf("%w: invalid port %q", ErrInvalidRequest, p)
	}

	return uint16(port), nil
}
