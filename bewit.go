package hawk

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// bewitParam is the query parameter name carrying the token.
const bewitParam = "bewit"

// Bewit is a self-contained, URL-embeddable credential: it authorizes
// requests for one resource until its expiry timestamp without any
// Authorization header. The token travels as an ordinary query parameter named "bewit"
// and is excised from the path before canonicalization, so the MAC covers
// the path exactly as the issuer signed it.
type Bewit struct {
	// ID identifies the credentials used to sign the bewit.
	ID string

	// TS is the expiry timestamp in seconds since epoch, not the issue
	// time. A bewit is valid while now <= TS.
	TS int64

	// MAC is the signature over the bewit canonical string.
	MAC []byte

	// Ext is optional application data covered by the MAC.
	Ext string
}

// String encodes the bewit as an unpadded base64url token of
// id\nts\nmac\next. All four fields are always present; an absent ext is an
// empty fourth field.
func (b *Bewit) String() string {
	raw := strings.Join([]string{
		b.ID,
		strconv.FormatInt(b.TS, 10),
		base64.StdEncoding.EncodeToString(b.MAC),
		b.Ext,
	}, "\n")

	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseBewit decodes a bewit token. The decoded value must contain exactly
// the id, ts, mac and ext fields separated by three newlines; anything else
// is ErrBewitMalformed. An empty ext field parses as absent.
func ParseBewit(token string) (*Bewit, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64url token", ErrBewitMalformed)
	}

	parts := strings.Split(string(raw), "\n")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: expected 4 fields, got %d", ErrBewitMalformed, len(parts))
	}

	id, tsRaw, macRaw, ext := parts[0], parts[1], parts[2], parts[3]

	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrBewitMalformed)
	}

	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expiry timestamp", ErrBewitMalformed)
	}

	mac, err := base64.StdEncoding.DecodeString(macRaw)
	if err != nil || len(mac) == 0 {
		return nil, fmt.Errorf("%w: invalid mac", ErrBewitMalformed)
	}

	return &Bewit{ID: id, TS: ts, MAC: mac, Ext: ext}, nil
}

// ExtractBewit locates the bewit query parameter anywhere in the path's
// query string, parses it, and returns the path with the parameter removed
// and every other parameter left in place. The returned path is what the
// issuer canonicalized when signing.
//
// Returns ErrBewitMissing when the path has no bewit parameter and
// ErrBewitMalformed when it has more than one or the token does not decode.
func ExtractBewit(path string) (*Bewit, string, error) {
	base, query, ok := strings.Cut(path, "?")
	if !ok || query == "" {
		return nil, "", ErrBewitMissing
	}

	params := strings.Split(query, "&")

	token := ""
	kept := params[:0]

	for _, param := range params {
		value, found := strings.CutPrefix(param, bewitParam+"=")
		if !found {
			kept = append(kept, param)
			continue
		}

		if token != "" {
			return nil, "", fmt.Errorf("%w: multiple bewit parameters", ErrBewitMalformed)
		}

		token = value
	}

	if token == "" {
		return nil, "", ErrBewitMissing
	}

	b, err := ParseBewit(token)
	if err != nil {
		return nil, "", err
	}

	stripped := base
	if len(kept) > 0 {
		stripped += "?" + strings.Join(kept, "&")
	}

	return b, stripped, nil
}

// InsertBewit appends the bewit as an ordinary query parameter, preserving
// the order of any parameters already present.
func InsertBewit(path string, b *Bewit) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep + bewitParam + "=" + b.String()
}
