package httpsig

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read error") }
func (errReader) Close() error             { return nil }

func TestRequestHeader(t *testing.T) {
	req := Request{Headers: map[string]string{
		"content-type":  "application/json",
		"Authorization": "GNAP x",
	}}

	v, ok := req.Header("Content-Type")
	assert.True(t, ok)
	assert.Equal(t, "application/json", v)

	v, ok = req.Header("authorization")
	assert.True(t, ok)
	assert.Equal(t, "GNAP x", v)

	_, ok = req.Header("Signature")
	assert.False(t, ok)

	_, ok = Request{}.Header("Authorization")
	assert.False(t, ok)
}

func TestRequestSetHeader(t *testing.T) {
	req := Request{Headers: map[string]string{"content-type": "text/plain"}}.clone()

	req.setHeader(HeaderContentType, "application/json")

	assert.Equal(t, map[string]string{"Content-Type": "application/json"}, req.Headers)
}

func TestRequestValidateHeaders(t *testing.T) {
	assert.NoError(t, Request{Headers: map[string]string{"X-Trace": "abc"}}.validateHeaders())

	err := Request{Headers: map[string]string{"Bad Name": "v"}}.validateHeaders()
	assert.ErrorIs(t, err, ErrInvalidHeader)

	err = Request{Headers: map[string]string{"X-Value": "line\nbreak"}}.validateHeaders()
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestFromHTTPRequest(t *testing.T) {
	t.Run("copies method url headers and body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "https://example.com/quotes?x=1", strings.NewReader(`{"a":1}`))
		r.Header.Set("Authorization", "GNAP t")
		r.Header.Add("Accept", "application/json")
		r.Header.Add("Accept", "text/plain")

		req, err := FromHTTPRequest(r)
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://example.com/quotes?x=1", req.URL)
		assert.Equal(t, `{"a":1}`, req.Body)
		assert.Equal(t, "GNAP t", req.Headers["Authorization"])
		assert.Equal(t, "application/json, text/plain", req.Headers["Accept"])
		assert.Equal(t, "7", req.Headers["Content-Length"])

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(body))
	})

	t.Run("no body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)

		req, err := FromHTTPRequest(r)
		require.NoError(t, err)
		assert.False(t, req.HasBody())
		assert.NotContains(t, req.Headers, "Content-Length")
	})

	t.Run("broken body reader", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "https://example.com/", errReader{})

		_, err := FromHTTPRequest(r)
		assert.Error(t, err)
	})
}

func TestApplySignature(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "https://example.com/", nil)

	ApplySignature(r, Request{Headers: map[string]string{
		"content-digest":  "sha-512=:AA==:",
		"Content-Type":    "application/json",
		"Content-Length":  "2",
		"Signature":       "sig1=:AA==:",
		"Signature-Input": `sig1=("@method");keyid="k"`,
		"X-Other":         "ignored",
	}})

	assert.Equal(t, "sha-512=:AA==:", r.Header.Get("Content-Digest"))
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	assert.Equal(t, "sig1=:AA==:", r.Header.Get("Signature"))
	assert.Equal(t, `sig1=("@method");keyid="k"`, r.Header.Get("Signature-Input"))
	assert.Empty(t, r.Header.Get("Content-Length"))
	assert.Empty(t, r.Header.Get("X-Other"))
}
