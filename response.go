package hawk

import (
	"bytes"
	"fmt"
)

// Response is the canonical view of the reply leg. It is created with
// Request.MakeResponse, which binds it to the request's transport fields
// and to the request header's ts and nonce; the response then contributes
// only its own Hash and Ext.
type Response struct {
	host  string
	port  uint16
	path  string
	ts    int64
	nonce string

	// Hash is this side's response payload hash: on the server the digest
	// sent in the header, on the client the digest recomputed from the
	// received body.
	Hash []byte

	// Ext is optional application data covered by the response MAC.
	Ext string
}

// MakeHeader signs the response. The returned header carries only mac and
// the optional hash and ext: id, ts, nonce, app and dlg are never present
// on a Server-Authorization header, since the MAC is already bound to the
// request's values.
func (resp *Response) MakeHeader(key *Key) (*Header, error) {
	if key == nil {
		return nil, ErrMissingCredentials
	}

	mac, err := key.Sign(canonicalString(canonicalInput{
		tag:   tagResponse,
		ts:    resp.ts,
		nonce: resp.nonce,
		path:  resp.path,
		host:  resp.host,
		port:  resp.port,
		hash:  resp.Hash,
		ext:   resp.Ext,
	}))
	if err != nil {
		return nil, err
	}

	return &Header{Hash: resp.Hash, Ext: resp.Ext, MAC: mac}, nil
}

// ValidateHeader checks a Server-Authorization header against this
// response. There is no freshness window: the MAC binding to the original
// request's ts and nonce already ties the response to a single exchange.
//
// When the response carries a locally recomputed payload Hash, the header
// must declare a matching hash or validation fails with ErrHashMismatch.
func (resp *Response) ValidateHeader(h *Header, key *Key) error {
	if key == nil {
		return ErrMissingCredentials
	}

	if h == nil || len(h.MAC) == 0 {
		return fmt.Errorf("%w: missing mac attribute", ErrMalformedHeader)
	}

	ok, err := key.Verify(canonicalString(canonicalInput{
		tag:   tagResponse,
		ts:    resp.ts,
		nonce: resp.nonce,
		path:  resp.path,
		host:  resp.host,
		port:  resp.port,
		hash:  h.Hash,
		ext:   h.Ext,
	}), h.MAC)
	if err != nil {
		return err
	}

	if !ok {
		return ErrMacMismatch
	}

	if len(resp.Hash) > 0 && !bytes.Equal(resp.Hash, h.Hash) {
		return ErrHashMismatch
	}

	return nil
}
