package edkey

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportJWK(t *testing.T) {
	t.Run("private and public exports share x", func(t *testing.T) {
		for range 20 {
			priv, pub, err := GenerateKeyPair()
			require.NoError(t, err)

			privJWK, err := ExportJWK(priv)
			require.NoError(t, err)

			pubJWK, err := ExportJWK(pub)
			require.NoError(t, err)

			assert.Equal(t, pubJWK.X, privJWK.X)
			assert.NotEmpty(t, privJWK.D)
			assert.Empty(t, pubJWK.D)
		}
	})

	t.Run("members", func(t *testing.T) {
		priv, pub, err := GenerateKeyPair()
		require.NoError(t, err)

		jwk, err := ExportJWK(priv)
		require.NoError(t, err)

		assert.Equal(t, KeyTypeOKP, jwk.Kty)
		assert.Equal(t, CurveEd25519, jwk.Crv)
		assert.Empty(t, jwk.Kid)
		assert.Empty(t, jwk.Alg)
		assert.Equal(t, base64.RawURLEncoding.EncodeToString(pub), jwk.X)
		assert.Equal(t, base64.RawURLEncoding.EncodeToString(priv.Seed()), jwk.D)
		assert.NotContains(t, jwk.X, "=")
	})

	t.Run("invalid lengths", func(t *testing.T) {
		for _, size := range []int{0, 10, 31, 33, 47, 49, 50, 64} {
			_, err := ExportJWK(make([]byte, size))
			assert.ErrorIs(t, err, ErrInvalidKey, "size %d", size)
		}
	})
}

func TestPublicJWK(t *testing.T) {
	priv, pub, err := GenerateKeyPair()
	require.NoError(t, err)

	jwk, err := PublicJWK(priv, "key-1")
	require.NoError(t, err)

	assert.Equal(t, "key-1", jwk.Kid)
	assert.Equal(t, AlgEdDSA, jwk.Alg)
	assert.Equal(t, UseSignature, jwk.Use)
	assert.Empty(t, jwk.D)

	data, err := json.Marshal(jwk)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kid":"key-1","alg":"EdDSA","use":"sig","kty":"OKP","crv":"Ed25519","x":"`+
		base64.RawURLEncoding.EncodeToString(pub)+`"}`, string(data))

	_, err = PublicJWK(make([]byte, 3), "k")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestJWKPublicKey(t *testing.T) {
	_, pub, err := GenerateKeyPair()
	require.NoError(t, err)

	jwk, err := ExportJWK(pub)
	require.NoError(t, err)

	t.Run("decodes x", func(t *testing.T) {
		key, err := jwk.PublicKey()
		require.NoError(t, err)
		assert.Equal(t, ed25519.PublicKey(pub), key)
	})

	t.Run("unsupported key type", func(t *testing.T) {
		other := jwk
		other.Kty = "EC"

		_, err := other.PublicKey()
		assert.ErrorIs(t, err, ErrUnsupportedJWK)
	})

	t.Run("bad x", func(t *testing.T) {
		other := jwk
		other.X = "***"

		_, err := other.PublicKey()
		assert.ErrorIs(t, err, ErrInvalidKey)

		other.X = base64.RawURLEncoding.EncodeToString([]byte("short"))
		_, err = other.PublicKey()
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestJWKPrivateKey(t *testing.T) {
	priv, pub, err := GenerateKeyPair()
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		jwk, err := ExportJWK(priv)
		require.NoError(t, err)

		key, err := jwk.PrivateKey()
		require.NoError(t, err)
		assert.Equal(t, priv, key)
	})

	t.Run("public only", func(t *testing.T) {
		jwk, err := ExportJWK(pub)
		require.NoError(t, err)

		_, err = jwk.PrivateKey()
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("unsupported curve", func(t *testing.T) {
		_, err := JWK{Kty: KeyTypeOKP, Crv: "Ed448", D: "AA"}.PrivateKey()
		assert.ErrorIs(t, err, ErrUnsupportedJWK)
	})

	t.Run("bad seed", func(t *testing.T) {
		_, err := JWK{Kty: KeyTypeOKP, Crv: CurveEd25519, D: "AAAA"}.PrivateKey()
		assert.ErrorIs(t, err, ErrInvalidKey)

		_, err = JWK{Kty: KeyTypeOKP, Crv: CurveEd25519, D: "@@"}.PrivateKey()
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}
