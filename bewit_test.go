package hawk

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBewit() *Bewit {
	return &Bewit{
		ID:  "test-client",
		TS:  1353832800,
		MAC: []byte("0123456789abcdef0123456789abcdef"),
		Ext: "some-data",
	}
}

func TestBewitToken(t *testing.T) {
	t.Run("encodes four newline-separated fields", func(t *testing.T) {
		raw, err := base64.RawURLEncoding.DecodeString(testBewit().String())
		require.NoError(t, err)

		parts := strings.Split(string(raw), "\n")
		require.Len(t, parts, 4)

		assert.Equal(t, "test-client", parts[0])
		assert.Equal(t, "1353832800", parts[1])
		assert.Equal(t, base64.StdEncoding.EncodeToString(testBewit().MAC), parts[2])
		assert.Equal(t, "some-data", parts[3])
	})

	t.Run("empty ext still yields four fields", func(t *testing.T) {
		b := testBewit()
		b.Ext = ""

		raw, err := base64.RawURLEncoding.DecodeString(b.String())
		require.NoError(t, err)

		assert.Len(t, strings.Split(string(raw), "\n"), 4)
	})

	t.Run("round trip", func(t *testing.T) {
		b := testBewit()

		parsed, err := ParseBewit(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, parsed)
	})

	t.Run("round trip without ext", func(t *testing.T) {
		b := testBewit()
		b.Ext = ""

		parsed, err := ParseBewit(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, parsed)
	})
}

func TestParseBewit(t *testing.T) {
	encode := func(fields ...string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(fields, "\n")))
	}

	macB64 := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))

	t.Run("not base64url", func(t *testing.T) {
		_, err := ParseBewit("not/valid+base64url!")
		assert.ErrorIs(t, err, ErrBewitMalformed)
	})

	t.Run("too few fields", func(t *testing.T) {
		_, err := ParseBewit(encode("id", "1353832800", macB64))
		assert.ErrorIs(t, err, ErrBewitMalformed)
	})

	t.Run("too many fields", func(t *testing.T) {
		_, err := ParseBewit(encode("id", "1353832800", macB64, "ext", "extra"))
		assert.ErrorIs(t, err, ErrBewitMalformed)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := ParseBewit(encode("", "1353832800", macB64, ""))
		assert.ErrorIs(t, err, ErrBewitMalformed)
	})

	t.Run("invalid expiry", func(t *testing.T) {
		_, err := ParseBewit(encode("id", "soon", macB64, ""))
		assert.ErrorIs(t, err, ErrBewitMalformed)
	})

	t.Run("invalid mac encoding", func(t *testing.T) {
		_, err := ParseBewit(encode("id", "1353832800", "%%%", ""))
		assert.ErrorIs(t, err, ErrBewitMalformed)
	})

	t.Run("empty mac", func(t *testing.T) {
		_, err := ParseBewit(encode("id", "1353832800", "", ""))
		assert.ErrorIs(t, err, ErrBewitMalformed)
	})

	t.Run("tolerates padded tokens", func(t *testing.T) {
		b := testBewit()

		padded := base64.URLEncoding.EncodeToString([]byte(strings.Join([]string{
			b.ID, "1353832800", base64.StdEncoding.EncodeToString(b.MAC), b.Ext,
		}, "\n")))

		parsed, err := ParseBewit(padded)
		require.NoError(t, err)
		assert.Equal(t, b.ID, parsed.ID)
	})
}

func TestExtractBewit(t *testing.T) {
	token := testBewit().String()

	t.Run("sole parameter", func(t *testing.T) {
		b, stripped, err := ExtractBewit("/resource?bewit=" + token)
		require.NoError(t, err)

		assert.Equal(t, "test-client", b.ID)
		assert.Equal(t, "/resource", stripped)
	})

	t.Run("other parameters keep their order", func(t *testing.T) {
		b, stripped, err := ExtractBewit("/resource?b=1&bewit=" + token + "&a=2")
		require.NoError(t, err)

		assert.Equal(t, "test-client", b.ID)
		assert.Equal(t, "/resource?b=1&a=2", stripped)
	})

	t.Run("bewit first", func(t *testing.T) {
		_, stripped, err := ExtractBewit("/resource?bewit=" + token + "&foo=bar")
		require.NoError(t, err)
		assert.Equal(t, "/resource?foo=bar", stripped)
	})

	t.Run("no query string", func(t *testing.T) {
		_, _, err := ExtractBewit("/resource")
		assert.ErrorIs(t, err, ErrBewitMissing)
	})

	t.Run("no bewit parameter", func(t *testing.T) {
		_, _, err := ExtractBewit("/resource?foo=bar")
		assert.ErrorIs(t, err, ErrBewitMissing)
	})

	t.Run("multiple bewit parameters", func(t *testing.T) {
		_, _, err := ExtractBewit("/resource?bewit=" + token + "&bewit=" + token)
		assert.ErrorIs(t, err, ErrBewitMalformed)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, _, err := ExtractBewit("/resource?bewit=!!!")
		assert.ErrorIs(t, err, ErrBewitMalformed)
	})
}

func TestInsertBewit(t *testing.T) {
	b := testBewit()

	t.Run("appends as first parameter", func(t *testing.T) {
		assert.Equal(t, "/resource?bewit="+b.String(), InsertBewit("/resource", b))
	})

	t.Run("appends after existing parameters", func(t *testing.T) {
		assert.Equal(t, "/resource?foo=bar&bewit="+b.String(), InsertBewit("/resource?foo=bar", b))
	})

	t.Run("excision is idempotent", func(t *testing.T) {
		original := "/resource?foo=bar"

		parsed, stripped, err := ExtractBewit(InsertBewit(original, b))
		require.NoError(t, err)

		assert.Equal(t, original, stripped)
		assert.Equal(t, b, parsed)

		again, strippedAgain, err := ExtractBewit(InsertBewit(stripped, parsed))
		require.NoError(t, err)
		assert.Equal(t, original, strippedAgain)
		assert.Equal(t, b, again)
	})
}
