package hawk

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// Resource kind tags. The tag is the first line of every canonical string,
// so a MAC computed for one purpose can never validate for another.
const (
	tagHeader   = "hawk.1.header"
	tagResponse = "hawk.1.response"
	tagBewit    = "hawk.1.bewit"
	tagPayload  = "hawk.1.payload"
)

// canonicalInput collects every field that participates in MAC computation.
// It is the only place where absent optional values (hash, ext, app, dlg)
// collapse to empty lines; keeping that mapping here guarantees the sign and
// verify paths can never disagree about it.
type canonicalInput struct {
	tag    string
	ts     int64
	nonce  string
	method string
	path   string
	host   string
	port   uint16
	hash   []byte
	ext    string
	app    string
	dlg    string
}

// canonicalString renders the newline-terminated field sequence that gets
// MAC'd. Header and response strings carry nonce and method lines (empty
// for responses); bewit strings omit them entirely. The app and dlg lines
// are appended only when app is set, and then always as a pair, so that
// peers that never set them produce byte-identical strings.
//
// The output feeds directly into HMAC input and must never be logged.
func canonicalString(in canonicalInput) []byte {
	var b strings.Builder

	b.WriteString(in.tag)
	b.WriteByte('\n')
	b.WriteString(strconv.FormatInt(in.ts, 10))
	b.WriteByte('\n')

	if in.tag != tagBewit {
		b.WriteString(in.nonce)
		b.WriteByte('\n')
		b.WriteString(strings.ToUpper(in.method))
		b.WriteByte('\n')
	}

	b.WriteString(normalizePath(in.path))
	b.WriteByte('\n')
	b.WriteString(strings.ToLower(in.host))
	b.WriteByte('\n')
	b.WriteString(strconv.FormatUint(uint64(in.port), 10))
	b.WriteByte('\n')

	if len(in.hash) > 0 {
		b.WriteString(base64.StdEncoding.EncodeToString(in.hash))
	}
	b.WriteByte('\n')

	b.WriteString(in.ext)
	b.WriteByte('\n')

	if in.app != "" {
		b.WriteString(in.app)
		b.WriteByte('\n')
		b.WriteString(in.dlg)
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

// normalizePath guarantees the canonical path begins with "/". The query
// string is part of the path and is preserved as-is.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}

	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}

	return path
}
