package hawk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *Key {
	t.Helper()

	key, err := NewKey(bytes.Repeat([]byte{0x01}, 32), SHA256)
	require.NoError(t, err)

	return key
}

func testCredentials(t *testing.T) *Credentials {
	t.Helper()

	return &Credentials{ID: "test-client", Key: testKey(t)}
}

func TestNewKey(t *testing.T) {
	t.Run("rejects unknown algorithm", func(t *testing.T) {
		_, err := NewKey([]byte("secret"), Algorithm("md5"))
		assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	})

	t.Run("accepts any secret length", func(t *testing.T) {
		for _, size := range []int{0, 1, 16, 64, 200} {
			_, err := NewKey(make([]byte, size), SHA256)
			assert.NoError(t, err)
		}
	})

	t.Run("copies the secret", func(t *testing.T) {
		secret := []byte("mutable secret")

		key, err := NewKey(secret, SHA256)
		require.NoError(t, err)

		before, err := key.Sign([]byte("message"))
		require.NoError(t, err)

		secret[0] ^= 0xff

		after, err := key.Sign([]byte("message"))
		require.NoError(t, err)

		assert.Equal(t, before, after)
	})

	t.Run("algorithm accessor", func(t *testing.T) {
		key, err := NewKey([]byte("secret"), SHA1)
		require.NoError(t, err)
		assert.Equal(t, SHA1, key.Algorithm())
	})
}

func TestKeySignVerify(t *testing.T) {
	t.Run("sign is deterministic", func(t *testing.T) {
		key := testKey(t)

		first, err := key.Sign([]byte("message"))
		require.NoError(t, err)

		second, err := key.Sign([]byte("message"))
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, first, 32)
	})

	t.Run("verify accepts a valid mac", func(t *testing.T) {
		key := testKey(t)

		mac, err := key.Sign([]byte("message"))
		require.NoError(t, err)

		ok, err := key.Verify([]byte("message"), mac)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("verify rejects a mac for a different message", func(t *testing.T) {
		key := testKey(t)

		mac, err := key.Sign([]byte("message"))
		require.NoError(t, err)

		ok, err := key.Verify([]byte("Message"), mac)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("verify rejects a truncated mac", func(t *testing.T) {
		key := testKey(t)

		mac, err := key.Sign([]byte("message"))
		require.NoError(t, err)

		ok, err := key.Verify([]byte("message"), mac[:16])
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("verify rejects a mac from a different key", func(t *testing.T) {
		key := testKey(t)

		other, err := NewKey(bytes.Repeat([]byte{0x02}, 32), SHA256)
		require.NoError(t, err)

		mac, err := other.Sign([]byte("message"))
		require.NoError(t, err)

		ok, err := key.Verify([]byte("message"), mac)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("sha1 and sha256 macs differ", func(t *testing.T) {
		secret := []byte("shared secret")

		sha1Key, err := NewKey(secret, SHA1)
		require.NoError(t, err)

		sha256Key, err := NewKey(secret, SHA256)
		require.NoError(t, err)

		first, err := sha1Key.Sign([]byte("message"))
		require.NoError(t, err)

		second, err := sha256Key.Sign([]byte("message"))
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}
