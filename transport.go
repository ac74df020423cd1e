package hawk

import (
	"bytes"
	"io"
	"net/http"
)

// TransportConfig configures client-side request signing.
type TransportConfig struct {
	// Credentials sign every outgoing request. Required.
	Credentials *Credentials

	// HashPayload binds a payload hash over the request body and
	// Content-Type into the MAC. Requests must have GetBody set (true for
	// requests built by http.NewRequest with byte or string readers).
	HashPayload bool

	// Ext is optional application data attached to every request.
	Ext string

	// RequireServerAuth validates the Server-Authorization header on
	// every response. Responses without one fail with
	// ErrMissingServerAuth. When the server's header declares a payload
	// hash, the response body is read and the hash verified against it.
	RequireServerAuth bool
}

// Transport is an http.RoundTripper that authenticates outgoing requests
// with Hawk and optionally authenticates the responses.
//
// Use NewTransport to create one with a configured *http.Transport for
// proxy, TLS, and timeout settings.
type Transport struct {
	base   http.RoundTripper
	config TransportConfig
}

// NewTransport creates a signing Transport that delegates to base after
// signing each request. When base is nil, a clone of http.DefaultTransport
// is used, giving an independent connection pool with default proxy, TLS,
// and timeout settings.
func NewTransport(base *http.Transport, cfg TransportConfig) (*Transport, error) {
	if cfg.Credentials == nil || cfg.Credentials.Key == nil {
		return nil, ErrMissingCredentials
	}

	var rt http.RoundTripper
	if base != nil {
		rt = base
	} else {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Transport{base: rt, config: cfg}, nil
}

// RoundTrip signs the request and delegates to the base transport. The
// original request is cloned before signing to avoid mutation. When
// response authentication is enabled, the response is validated before
// being returned; an invalid response is closed and an error returned in
// its place.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if clone.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}

		clone.Body = body
	}

	hawkReq, err := RequestFromURL(clone.Method, clone.URL)
	if err != nil {
		return nil, err
	}

	hawkReq.Ext = t.config.Ext

	if t.config.HashPayload {
		body, err := readAndRestoreBody(clone)
		if err != nil {
			return nil, err
		}

		hash, err := HashPayload(clone.Header.Get("Content-Type"), t.config.Credentials.Key.Algorithm(), body)
		if err != nil {
			return nil, err
		}

		hawkReq.Hash = hash
	}

	header, err := hawkReq.MakeHeader(t.config.Credentials)
	if err != nil {
		return nil, err
	}

	value, err := header.Render()
	if err != nil {
		return nil, err
	}

	clone.Header.Set("Authorization", value)

	resp, err := t.base.RoundTrip(clone)
	if err != nil {
		return nil, err
	}

	if t.config.RequireServerAuth {
		if err := t.validateResponse(hawkReq, header, resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}

	return resp, nil
}

// validateResponse authenticates the Server-Authorization header against
// the request that was sent. The response body is read and restored when
// the server declared a payload hash.
func (t *Transport) validateResponse(hawkReq *Request, sent *Header, resp *http.Response) error {
	value := resp.Header.Get("Server-Authorization")
	if value == "" {
		return ErrMissingServerAuth
	}

	h, err := ParseHeader(value)
	if err != nil {
		return err
	}

	hawkResp := hawkReq.MakeResponse(sent)
	hawkResp.Ext = h.Ext

	if len(h.Hash) > 0 {
		body, err := readAndRestoreResponseBody(resp)
		if err != nil {
			return err
		}

		hash, err := HashPayload(resp.Header.Get("Content-Type"), t.config.Credentials.Key.Algorithm(), body)
		if err != nil {
			return err
		}

		hawkResp.Hash = hash
	}

	return hawkResp.ValidateHeader(h, t.config.Credentials.Key)
}

// readAndRestoreResponseBody reads the entire response body and replaces it
// with a new reader so the caller can still consume it.
func readAndRestoreResponseBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
