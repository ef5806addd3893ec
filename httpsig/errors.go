package httpsig

import "errors"

// Request errors.
var (
	// ErrInvalidHeader is returned when a request header name or value
	// cannot be carried on the wire.
	ErrInvalidHeader = errors.New("httpsig: invalid header field")

	// ErrUnknownComponent is returned when a covered component cannot be
	// derived from the request.
	ErrUnknownComponent = errors.New("httpsig: unknown component identifier")
)

// Key material errors.
var (
	// ErrInvalidKey is returned when key material is invalid (wrong size,
	// wrong curve, etc.).
	ErrInvalidKey = errors.New("httpsig: invalid key material")
)

// Verification errors.
var (
	// ErrNoResolver is returned when VerifyConfig has no KeyResolver configured.
	ErrNoResolver = errors.New("httpsig: key resolver must not be nil")

	// ErrSignatureNotFound is returned when the Signature or Signature-Input
	// header, or the expected label within them, is missing.
	ErrSignatureNotFound = errors.New("httpsig: signature not found")

	// ErrSignatureInvalid is returned when signature verification fails.
	ErrSignatureInvalid = errors.New("httpsig: signature verification failed")

	// ErrSignatureExpired is returned when the signature has exceeded its
	// maximum allowed age.
	ErrSignatureExpired = errors.New("httpsig: signature expired")

	// ErrCreatedRequired is returned when the signature does not carry a
	// created parameter.
	ErrCreatedRequired = errors.New("httpsig: created parameter required")

	// ErrUnsupportedAlgorithm is returned when Signature-Input names an alg
	// other than ed25519.
	ErrUnsupportedAlgorithm = errors.New("httpsig: unsupported signature algorithm")

	// ErrComponentMismatch is returned when the covered components claimed
	// in Signature-Input differ from the components the request requires.
	ErrComponentMismatch = errors.New("httpsig: covered components do not match request")

	// ErrMalformedHeader is returned when Signature, Signature-Input or
	// Content-Digest headers cannot be parsed.
	ErrMalformedHeader = errors.New("httpsig: malformed signature header")
)

// Digest errors.
var (
	// ErrDigestMismatch is returned when Content-Digest verification fails.
	ErrDigestMismatch = errors.New("httpsig: content digest mismatch")

	// ErrDigestNotFound is returned when a request with a body carries no
	// Content-Digest header.
	ErrDigestNotFound = errors.New("httpsig: content digest not found")

	// ErrUnsupportedDigest is returned when the digest algorithm is not
	// supported.
	ErrUnsupportedDigest = errors.New("httpsig: unsupported digest algorithm")
)
