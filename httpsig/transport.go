package httpsig

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Transport is an http.RoundTripper that signs outgoing requests using
// HTTP Message Signatures (RFC 9421).
//
// Only requests for which RequestShouldBeAuthorized holds are signed:
// POST requests and requests already carrying an Authorization header.
// Everything else, and every request when no key is configured, is sent
// unchanged.
type Transport struct {
	base    http.RoundTripper
	options SignOptions
	logger  *zerolog.Logger
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithLogger sets the logger used for signing events.
func WithLogger(logger *zerolog.Logger) TransportOption {
	return func(t *Transport) {
		t.logger = logger
	}
}

// NewTransport creates a signing Transport that delegates to base after
// signing each request. When base is nil, a clone of http.DefaultTransport
// is used, giving an independent connection pool with default proxy, TLS,
// and timeout settings.
func NewTransport(base *http.Transport, opts SignOptions, options ...TransportOption) *Transport {
	var rt http.RoundTripper
	if base != nil {
		rt = base
	} else {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}

	nop := zerolog.Nop()

	t := &Transport{
		base:    rt,
		options: opts,
		logger:  &nop,
	}

	for _, o := range options {
		o(t)
	}

	return t
}

// RoundTrip signs the request and then delegates to the base transport.
// The original request is cloned before signing to avoid mutation.
// When GetBody is available, the clone receives its own body copy so
// that digest computation does not consume the caller's body.
//
// Requests that are not signed are passed through without touching the
// body.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	gate := Request{Method: req.Method, Headers: headerValues(req.Header)}
	if !t.options.Enabled() || !RequestShouldBeAuthorized(gate) {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())

	if clone.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}

		clone.Body = body
	}

	view, err := FromHTTPRequest(clone)
	if err != nil {
		return nil, err
	}

	signed, err := SignRequest(view, t.options)
	if err != nil {
		t.logger.Error().Err(err).Str("method", view.Method).Str("url", view.URL).Msg("signing request failed")
		return nil, err
	}

	ApplySignature(clone, signed)

	t.logger.Debug().Str("method", view.Method).Str("url", view.URL).Str("keyid", t.options.KeyID).Msg("signed request")

	return t.base.RoundTrip(clone)
}
