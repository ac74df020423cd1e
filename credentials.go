package hawk

import "crypto/hmac"

// Key pairs a shared secret with the digest algorithm used for MAC
// computation. Any secret length is accepted (HMAC permits it), but the
// bytes and algorithm must match what the peer uses or every MAC will
// mismatch.
type Key struct {
	secret []byte
	alg    Algorithm
}

// NewKey creates a Key from a shared secret and a digest algorithm.
// The secret is copied. Returns ErrUnknownAlgorithm for an algorithm the
// engine does not implement.
func NewKey(secret []byte, alg Algorithm) (*Key, error) {
	if _, err := alg.hashNew(); err != nil {
		return nil, err
	}

	secretCopy := make([]byte, len(secret))
	copy(secretCopy, secret)

	return &Key{secret: secretCopy, alg: alg}, nil
}

// Algorithm returns the digest algorithm carried by the key.
func (k *Key) Algorithm() Algorithm {
	return k.alg
}

// Sign computes the keyed MAC over message.
func (k *Key) Sign(message []byte) ([]byte, error) {
	newHash, err := k.alg.hashNew()
	if err != nil {
		return nil, err
	}

	mac := hmac.New(newHash, k.secret)
	mac.Write(message)

	return mac.Sum(nil), nil
}

// Verify recomputes the MAC over message and compares it against candidate
// in constant time. A short-circuiting comparison here would leak matching
// prefix length to a remote attacker.
func (k *Key) Verify(message, candidate []byte) (bool, error) {
	expected, err := k.Sign(message)
	if err != nil {
		return false, err
	}

	return hmac.Equal(expected, candidate), nil
}

// Credentials identify one party of the exchange: an opaque identifier the
// peer uses to look up the shared key, plus the key itself. The engine
// borrows credentials for the duration of a single operation and never
// retains them.
type Credentials struct {
	ID  string
	Key *Key
}
