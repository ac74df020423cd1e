package hawk

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalString(t *testing.T) {
	t.Run("header", func(t *testing.T) {
		got := canonicalString(canonicalInput{
			tag:    tagHeader,
			ts:     1353832234,
			nonce:  "j4h3g2",
			method: "post",
			path:   "/resource/1?b=1&a=2",
			host:   "Example.COM",
			port:   8000,
			ext:    "some-app-ext-data",
		})

		want := "hawk.1.header\n" +
			"1353832234\n" +
			"j4h3g2\n" +
			"POST\n" +
			"/resource/1?b=1&a=2\n" +
			"example.com\n" +
			"8000\n" +
			"\n" +
			"some-app-ext-data\n"

		assert.Equal(t, want, string(got))
	})

	t.Run("header with hash", func(t *testing.T) {
		hash := []byte{0x01, 0x02, 0x03}

		got := canonicalString(canonicalInput{
			tag:    tagHeader,
			ts:     1353832234,
			nonce:  "j4h3g2",
			method: "POST",
			path:   "/resource",
			host:   "example.com",
			port:   80,
			hash:   hash,
		})

		want := "hawk.1.header\n" +
			"1353832234\n" +
			"j4h3g2\n" +
			"POST\n" +
			"/resource\n" +
			"example.com\n" +
			"80\n" +
			base64.StdEncoding.EncodeToString(hash) + "\n" +
			"\n"

		assert.Equal(t, want, string(got))
	})

	t.Run("nil and empty hash produce the same string", func(t *testing.T) {
		in := canonicalInput{
			tag:    tagHeader,
			ts:     1,
			nonce:  "n",
			method: "GET",
			path:   "/",
			host:   "example.com",
			port:   80,
		}

		withNil := canonicalString(in)

		in.hash = []byte{}
		withEmpty := canonicalString(in)

		assert.Equal(t, withNil, withEmpty)
	})

	t.Run("app adds app and dlg lines as a pair", func(t *testing.T) {
		in := canonicalInput{
			tag:    tagHeader,
			ts:     1,
			nonce:  "n",
			method: "GET",
			path:   "/",
			host:   "example.com",
			port:   80,
		}

		plain := canonicalString(in)

		in.app = "my-app"
		withApp := canonicalString(in)

		assert.Equal(t, string(plain)+"my-app\n\n", string(withApp))

		in.dlg = "my-dlg"
		withDlg := canonicalString(in)

		assert.Equal(t, string(plain)+"my-app\nmy-dlg\n", string(withDlg))
	})

	t.Run("response carries the request nonce and an empty method line", func(t *testing.T) {
		got := canonicalString(canonicalInput{
			tag:   tagResponse,
			ts:    1353832234,
			nonce: "j4h3g2",
			path:  "/resource",
			host:  "example.com",
			port:  80,
			ext:   "server-ext",
		})

		want := "hawk.1.response\n" +
			"1353832234\n" +
			"j4h3g2\n" +
			"\n" +
			"/resource\n" +
			"example.com\n" +
			"80\n" +
			"\n" +
			"server-ext\n"

		assert.Equal(t, want, string(got))
	})

	t.Run("bewit has no nonce or method lines", func(t *testing.T) {
		got := canonicalString(canonicalInput{
			tag:  tagBewit,
			ts:   1353832800,
			path: "/resource?a=1",
			host: "example.com",
			port: 443,
		})

		want := "hawk.1.bewit\n" +
			"1353832800\n" +
			"/resource?a=1\n" +
			"example.com\n" +
			"443\n" +
			"\n" +
			"\n"

		assert.Equal(t, want, string(got))
	})

	t.Run("tag separates header and response macs", func(t *testing.T) {
		in := canonicalInput{
			ts:   1,
			path: "/",
			host: "example.com",
			port: 80,
		}

		in.tag = tagHeader
		header := canonicalString(in)

		in.tag = tagResponse
		response := canonicalString(in)

		assert.NotEqual(t, header, response)
	})
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty becomes root", in: "", want: "/"},
		{name: "missing slash is prefixed", in: "resource", want: "/resource"},
		{name: "rooted path unchanged", in: "/resource", want: "/resource"},
		{name: "query preserved", in: "/resource?b=1&a=2", want: "/resource?b=1&a=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.in))
		})
	}
}
