package hawk

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
)

// Algorithm identifies the digest used for MAC computation and payload
// hashing. The algorithm travels on the Key, never on the wire: both peers
// must agree on it out of band alongside the shared secret.
type Algorithm string

const (
	// SHA1 uses HMAC-SHA1 (20-byte digests). Supported for
	// interoperability with older deployments; prefer SHA256.
	SHA1 Algorithm = "sha1"

	// SHA256 uses HMAC-SHA256 (32-byte digests).
	SHA256 Algorithm = "sha256"
)

// String returns the algorithm identifier.
func (a Algorithm) String() string {
	return string(a)
}

// hashNew returns the constructor for the algorithm's underlying digest.
func (a Algorithm) hashNew() (func() hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
	}
}
