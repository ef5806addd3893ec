package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/paysig/edkey"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func writeKey(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()

	code, _, stderr := runCLI(t, "keygen", "-dir", dir, "-name", "client", "-kid", "k1")
	require.Equal(t, 0, code, stderr)

	return dir, filepath.Join(dir, "client.pem")
}

func TestRun(t *testing.T) {
	t.Run("no arguments", func(t *testing.T) {
		code, _, stderr := runCLI(t)
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr, "usage: paysig")
	})

	t.Run("unknown command", func(t *testing.T) {
		code, _, stderr := runCLI(t, "frobnicate")
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr, `unknown command "frobnicate"`)
	})

	t.Run("bad flag", func(t *testing.T) {
		code, _, _ := runCLI(t, "keygen", "-nope")
		assert.Equal(t, 2, code)
	})

	t.Run("stray arguments", func(t *testing.T) {
		code, _, stderr := runCLI(t, "keygen", "extra")
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr, "unexpected arguments: extra")
	})
}

func TestKeygen(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, "keygen")
		require.Equal(t, 0, code, stderr)

		key, err := edkey.DecodePEM(stdout)
		require.NoError(t, err)
		assert.True(t, edkey.IsEd25519(key))
		assert.Contains(t, stderr, "generated key")
	})

	t.Run("directory", func(t *testing.T) {
		_, path := writeKey(t)

		_, err := edkey.LoadKey(path)
		assert.NoError(t, err)
	})

	t.Run("debug flag", func(t *testing.T) {
		code, _, stderr := runCLI(t, "-v", "keygen", "-dir", t.TempDir())
		require.Equal(t, 0, code)
		assert.Contains(t, stderr, "generated private key")
	})
}

func TestJWK(t *testing.T) {
	_, path := writeKey(t)

	t.Run("single key", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, "jwk", "-key", path, "-kid", "k1")
		require.Equal(t, 0, code, stderr)

		var jwk edkey.JWK
		require.NoError(t, json.Unmarshal([]byte(stdout), &jwk))
		assert.Equal(t, "k1", jwk.Kid)
		assert.Equal(t, "OKP", jwk.Kty)
		assert.Empty(t, jwk.D)
	})

	t.Run("key set", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, "jwk", "-key", path, "-kid", "k1", "-set")
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, `"keys": [`)
	})

	t.Run("missing flags", func(t *testing.T) {
		code, _, stderr := runCLI(t, "jwk", "-key", path)
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr, "-key and -kid are required")
	})

	t.Run("bad key", func(t *testing.T) {
		code, _, stderr := runCLI(t, "jwk", "-key", "garbage", "-kid", "k1")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "command failed")
	})
}

func TestSignAndVerify(t *testing.T) {
	dir, path := writeKey(t)

	code, stdout, stderr := runCLI(t, "jwk", "-key", path, "-kid", "k1", "-set")
	require.Equal(t, 0, code, stderr)

	jwksPath := filepath.Join(dir, "jwks.json")
	require.NoError(t, os.WriteFile(jwksPath, []byte(stdout), 0o600))

	request := []string{"-method", "POST", "-url", "https://example.com/grant", "-body", `{"foo":"bar"}`}

	code, signed, stderr := runCLI(t, append([]string{"sign", "-key", path, "-kid", "k1"}, request...)...)
	require.Equal(t, 0, code, stderr)

	assert.Regexp(t, regexp.MustCompile(`(?m)^Signature-Input: sig1=\("@method" "@target-uri" "content-digest" "content-length" "content-type"\);keyid="k1";created=\d{10}$`), signed)
	assert.Regexp(t, regexp.MustCompile(`(?m)^Signature: sig1=:[A-Za-z0-9+/]{86}==:$`), signed)
	assert.Contains(t, signed, "Content-Length: 13\n")

	var headerArgs []string
	for _, line := range strings.Split(strings.TrimSpace(signed), "\n") {
		headerArgs = append(headerArgs, "-header", line)
	}

	t.Run("valid", func(t *testing.T) {
		args := append([]string{"verify", "-jwks", jwksPath}, request...)
		code, stdout, stderr := runCLI(t, append(args, headerArgs...)...)
		require.Equal(t, 0, code, stderr)
		assert.Equal(t, "signature ok\n", stdout)
	})

	t.Run("tampered body", func(t *testing.T) {
		args := []string{"verify", "-jwks", jwksPath, "-method", "POST", "-url", "https://example.com/grant", "-body", `{"foo":"baz"}`}
		code, _, stderr := runCLI(t, append(args, headerArgs...)...)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "digest mismatch")
	})

	t.Run("unknown key", func(t *testing.T) {
		code, other, stderr := runCLI(t, "jwk", "-key", path, "-kid", "other", "-set")
		require.Equal(t, 0, code, stderr)

		otherPath := filepath.Join(dir, "other.json")
		require.NoError(t, os.WriteFile(otherPath, []byte(other), 0o600))

		args := append([]string{"verify", "-jwks", otherPath}, request...)
		code, _, stderr = runCLI(t, append(args, headerArgs...)...)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "unknown key")
	})

	t.Run("missing jwks", func(t *testing.T) {
		code, _, _ := runCLI(t, append([]string{"verify"}, request...)...)
		assert.Equal(t, 2, code)
	})

	t.Run("sign from config", func(t *testing.T) {
		cfgPath := filepath.Join(dir, "paysig.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("key_id: k1\nprivate_key: "+path+"\ndigest: sha-256\n"), 0o600))

		t.Setenv("PAYSIG_KEY_ID", "")
		t.Setenv("PAYSIG_PRIVATE_KEY", "")
		t.Setenv("PAYSIG_KEY_DIR", "")

		code, out, stderr := runCLI(t, append([]string{"sign", "-config", cfgPath}, request...)...)
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, out, "Content-Digest: sha-256=:")
	})

	t.Run("sign without key", func(t *testing.T) {
		t.Setenv("PAYSIG_KEY_ID", "")
		t.Setenv("PAYSIG_PRIVATE_KEY", "")
		t.Setenv("PAYSIG_KEY_DIR", "")

		code, _, stderr := runCLI(t, append([]string{"sign", "-kid", "k1"}, request...)...)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "private_key or generate is required")
	})

	t.Run("sign without url", func(t *testing.T) {
		code, _, stderr := runCLI(t, "sign", "-key", path, "-kid", "k1")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "-url is required")
	})
}
