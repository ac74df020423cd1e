package hawk

import "time"

// DefaultSkew is the timestamp tolerance applied when a validation config
// does not set one.
const DefaultSkew = 60 * time.Second

// NonceCheckFunc reports whether the (id, nonce) pair was already seen at
// or around ts. Returning true rejects the request with ErrReplay.
//
// The engine keeps no nonce state of its own: without a configured check,
// replay protection is the integrator's responsibility. Production
// server-side deployments should supply one (see ReplayCache) scoped to at
// least the freshness window.
type NonceCheckFunc func(id, nonce string, ts time.Time) bool

// freshWithin reports whether ts is within skew of now, inclusive on both
// sides: |now - ts| == skew is still fresh.
func freshWithin(ts int64, now time.Time, skew time.Duration) bool {
	delta := now.Unix() - ts
	if delta < 0 {
		delta = -delta
	}

	return time.Duration(delta)*time.Second <= skew
}

// expired reports whether a bewit expiry timestamp has passed. Expiry is
// one-sided: there is no skew grace for an expired bewit.
func expired(expiry int64, now time.Time) bool {
	return now.Unix() > expiry
}
