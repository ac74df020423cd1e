package hawk

import "errors"

// Header errors.
var (
	// ErrMalformedHeader is returned when an Authorization or
	// Server-Authorization header value cannot be parsed: wrong scheme
	// prefix, unbalanced quoting, duplicate attributes, or a missing
	// required attribute.
	ErrMalformedHeader = errors.New("hawk: malformed authorization header")

	// ErrInvalidAttribute is returned when rendering a header whose
	// attribute value contains characters that are not legal in an HTTP
	// header field value.
	ErrInvalidAttribute = errors.New("hawk: invalid attribute value")
)

// Bewit errors.
var (
	// ErrBewitMissing is returned when no bewit query parameter is present
	// in the path.
	ErrBewitMissing = errors.New("hawk: no bewit parameter found")

	// ErrBewitMalformed is returned when a bewit token cannot be decoded
	// or does not contain exactly the id, ts, mac and ext fields.
	ErrBewitMalformed = errors.New("hawk: malformed bewit")

	// ErrBewitExpired is returned when a bewit's expiry timestamp is in
	// the past. Bewit expiry is one-sided: there is no skew grace.
	ErrBewitExpired = errors.New("hawk: bewit expired")
)

// Verification errors. Integrations must not reveal which of these occurred
// to the remote peer; all of them should surface as the same 401 challenge.
var (
	// ErrMacMismatch is returned when the recomputed MAC does not match
	// the one carried on the wire.
	ErrMacMismatch = errors.New("hawk: mac verification failed")

	// ErrStaleTimestamp is returned when a header timestamp falls outside
	// the allowed clock-skew window.
	ErrStaleTimestamp = errors.New("hawk: timestamp outside allowed skew")

	// ErrHashMismatch is returned when a payload hash is declared but does
	// not match the digest recomputed over the delivered body.
	ErrHashMismatch = errors.New("hawk: payload hash mismatch")

	// ErrReplay is returned when the configured nonce check reports the
	// (id, nonce) pair as already seen within the freshness window.
	ErrReplay = errors.New("hawk: nonce already seen")
)

// Key material errors.
var (
	// ErrUnknownAlgorithm is returned when a Key names a digest algorithm
	// the engine does not implement.
	ErrUnknownAlgorithm = errors.New("hawk: unknown digest algorithm")

	// ErrMissingCredentials is returned by operations that require
	// credentials or a key when none were supplied.
	ErrMissingCredentials = errors.New("hawk: credentials must not be nil")

	// ErrUnknownCredentials is returned by CredentialsStore when no
	// credentials exist for an id.
	ErrUnknownCredentials = errors.New("hawk: unknown credentials id")
)

// Integration errors.
var (
	// ErrInvalidRequest is returned when a Request cannot be constructed
	// from the supplied transport fields.
	ErrInvalidRequest = errors.New("hawk: invalid request")

	// ErrNoLookup is returned when MiddlewareConfig has no credentials
	// lookup configured.
	ErrNoLookup = errors.New("hawk: credentials lookup must not be nil")

	// ErrMissingServerAuth is returned when response authentication is
	// required but the response carries no Server-Authorization header.
	ErrMissingServerAuth = errors.New("hawk: missing server-authorization header")
)
