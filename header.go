package hawk

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Header is the parsed attribute set of an Authorization or
// Server-Authorization header value.
//
// Every field except MAC is optional, and presence is meaningful: a request
// header carries id, ts, nonce and mac (plus optional hash, ext, app, dlg),
// while a response header carries only mac and optional hash and ext. Empty
// string and nil mean absent; absent attributes are omitted when rendering.
type Header struct {
	ID    string
	TS    int64
	Nonce string
	Hash  []byte
	Ext   string
	MAC   []byte
	App   string
	Dlg   string
}

// headerScheme is the authentication scheme prefix, matched
// case-insensitively on parse per RFC 9110 Section 11.1.
const headerScheme = "Hawk"

// ParseHeader parses a single Authorization or Server-Authorization header
// value of the form:
//
//	Hawk id="dh37fgj492je", ts="1353832234", nonce="j4h3g2", mac="..."
//
// Unknown attributes are ignored for forward compatibility. A duplicated
// attribute makes the whole header malformed: duplicate-attribute injection
// is a spoofing vector, so the stricter policy is applied rather than
// first-wins or last-wins. The mac attribute is required.
func ParseHeader(value string) (*Header, error) {
	rest, ok := cutScheme(value)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s scheme prefix", ErrMalformedHeader, headerScheme)
	}

	attrs, err := parseAttributes(rest)
	if err != nil {
		return nil, err
	}

	var h Header
	seen := make(map[string]bool, len(attrs))

	for _, attr := range attrs {
		switch attr.key {
		case "id", "ts", "nonce", "hash", "ext", "mac", "app", "dlg":
			if seen[attr.key] {
				return nil, fmt.Errorf("%w: duplicate attribute %q", ErrMalformedHeader, attr.key)
			}

			seen[attr.key] = true

		default:
			// Unknown attribute, skip.
			continue
		}

		switch attr.key {
		case "id":
			h.ID = attr.value

		case "ts":
			ts, err := strconv.ParseInt(attr.value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid ts attribute", ErrMalformedHeader)
			}

			h.TS = ts

		case "nonce":
			h.Nonce = attr.value

		case "hash":
			hash, err := base64.StdEncoding.DecodeString(attr.value)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid base64 in hash attribute", ErrMalformedHeader)
			}

			h.Hash = hash

		case "ext":
			h.Ext = attr.value

		case "mac":
			mac, err := base64.StdEncoding.DecodeString(attr.value)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid base64 in mac attribute", ErrMalformedHeader)
			}

			h.MAC = mac

		case "app":
			h.App = attr.value

		case "dlg":
			h.Dlg = attr.value
		}
	}

	if len(h.MAC) == 0 {
		return nil, fmt.Errorf("%w: missing mac attribute", ErrMalformedHeader)
	}

	return &h, nil
}

// Render serializes the header into its wire form, attributes in canonical
// order (id, ts, nonce, hash, ext, mac, app, dlg), absent attributes
// omitted. Double quotes and backslashes in values are backslash-escaped.
// Values containing bytes that are not legal in an HTTP header field value
// are rejected with ErrInvalidAttribute rather than escaped, since there is
// no unambiguous escape for them on the decode side.
func (h *Header) Render() (string, error) {
	if len(h.MAC) == 0 {
		return "", fmt.Errorf("%w: missing mac attribute", ErrMalformedHeader)
	}

	var b strings.Builder
	b.WriteString(headerScheme)

	first := true
	write := func(key, value string) error {
		if !httpguts.ValidHeaderFieldValue(value) {
			return fmt.Errorf("%w: %s", ErrInvalidAttribute, key)
		}

		if first {
			b.WriteByte(' ')
			first = false
		} else {
			b.WriteString(", ")
		}

		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(escapeAttribute(value))
		b.WriteByte('"')

		return nil
	}

	if h.ID != "" {
		if err := write("id", h.ID); err != nil {
			return "", err
		}
	}

	if h.TS != 0 {
		if err := write("ts", strconv.FormatInt(h.TS, 10)); err != nil {
			return "", err
		}
	}

	if h.Nonce != "" {
		if err := write("nonce", h.Nonce); err != nil {
			return "", err
		}
	}

	if len(h.Hash) > 0 {
		if err := write("hash", base64.StdEncoding.EncodeToString(h.Hash)); err != nil {
			return "", err
		}
	}

	if h.Ext != "" {
		if err := write("ext", h.Ext); err != nil {
			return "", err
		}
	}

	if err := write("mac", base64.StdEncoding.EncodeToString(h.MAC)); err != nil {
		return "", err
	}

	if h.App != "" {
		if err := write("app", h.App); err != nil {
			return "", err
		}
	}

	if h.Dlg != "" {
		if err := write("dlg", h.Dlg); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}

// attribute is a single key="value" pair from the header attribute list.
type attribute struct {
	key   string
	value string
}

// cutScheme strips the scheme token and the whitespace after it, matching
// the scheme case-insensitively. Returns false when the value does not
// start with the scheme or the scheme is not followed by whitespace.
func cutScheme(value string) (string, bool) {
	if len(value) < len(headerScheme) {
		return "", false
	}

	if !strings.EqualFold(value[:len(headerScheme)], headerScheme) {
		return "", false
	}

	rest := value[len(headerScheme):]
	if rest == "" {
		// Scheme with no attributes at all; let the mac check reject it.
		return "", true
	}

	if rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}

	return strings.TrimLeft(rest, " \t"), true
}

// parseAttributes scans a comma-separated list of key="value" pairs.
// Values must be double-quoted; backslash escapes inside values are
// unescaped. Unbalanced quoting, a missing '=' or a bare (unquoted) value
// makes the list malformed.
func parseAttributes(s string) ([]attribute, error) {
	var attrs []attribute

	i := 0
	for i < len(s) {
		// Skip separators between attributes.
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}

		if i >= len(s) {
			break
		}

		// Attribute key up to '='.
		start := i
		for i < len(s) && s[i] != '=' {
			i++
		}

		if i >= len(s) {
			return nil, fmt.Errorf("%w: attribute without value", ErrMalformedHeader)
		}

		key := strings.TrimRight(s[start:i], " \t")
		if key == "" {
			return nil, fmt.Errorf("%w: empty attribute key", ErrMalformedHeader)
		}

		i++ // consume '='
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}

		if i >= len(s) || s[i] != '"' {
			return nil, fmt.Errorf("%w: attribute value not quoted", ErrMalformedHeader)
		}

		i++ // consume opening quote

		var value strings.Builder
		closed := false
		for i < len(s) {
			ch := s[i]

			if ch == '\\' && i+1 < len(s) {
				value.WriteByte(s[i+1])
				i += 2

				continue
			}

			if ch == '"' {
				closed = true
				i++

				break
			}

			value.WriteByte(ch)
			i++
		}

		if !closed {
			return nil, fmt.Errorf("%w: unbalanced quotes", ErrMalformedHeader)
		}

		attrs = append(attrs, attribute{key: key, value: value.String()})

		// After a closing quote only whitespace then ',' or end is legal.
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}

		if i < len(s) {
			if s[i] != ',' {
				return nil, fmt.Errorf("%w: unexpected character after attribute value", ErrMalformedHeader)
			}

			i++
		}
	}

	return attrs, nil
}

// escapeAttribute backslash-escapes double quotes and backslashes.
func escapeAttribute(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2)

	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}

		b.WriteByte(s[i])
	}

	return b.String()
}
