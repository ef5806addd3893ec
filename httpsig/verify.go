package httpsig

import (
	"crypto/ed25519"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

// KeyResolver returns a Verifier for the given key ID. It is called during
// request verification to look up the client's public key. The request is
// provided for context (e.g., to select keys based on the target URI).
type KeyResolver func(r Request, keyID string) (Verifier, error)

// StaticKeyResolver resolves every key ID to key.
func StaticKeyResolver(key ed25519.PublicKey) KeyResolver {
	return func(_ Request, keyID string) (Verifier, error) {
		return NewEd25519Verifier(keyID, key)
	}
}

// VerifyConfig configures HTTP request signature verification per RFC 9421.
type VerifyConfig struct {
	// Resolver looks up a Verifier for a given key ID. Required.
	Resolver KeyResolver

	// Label identifies which signature to verify. Defaults to "sig1".
	Label string

	// MaxAge is the maximum acceptable age of the signature. When non-zero,
	// signatures older than MaxAge, or created in the future, are rejected.
	MaxAge time.Duration
}

// ValidateSignatureHeaders checks that r carries Signature and
// Signature-Input headers for the "sig1" label and that the covered
// components are exactly those Components selects for r.
func ValidateSignatureHeaders(r Request) error {
	_, _, err := signatureFor(r, DefaultLabel)
	return err
}

// ValidateSignature verifies the signature on r against publicKey,
// including the Content-Digest of the body.
func ValidateSignature(r Request, publicKey ed25519.PublicKey) error {
	return Verify(r, VerifyConfig{Resolver: StaticKeyResolver(publicKey)})
}

// Verify verifies the signature on r. The signature base is rebuilt from
// the request using the claimed parameters, after checking the claimed
// components against Components(r) and the body against Content-Digest.
// The created parameter is mandatory and an alg parameter, when present,
// must be ed25519.
func Verify(r Request, cfg VerifyConfig) error {
	_, err := verify(r, cfg)
	return err
}

// verify checks r and returns the key id of the accepted signature.
func verify(r Request, cfg VerifyConfig) (string, error) {
	if cfg.Resolver == nil {
		return "", ErrNoResolver
	}

	label := cfg.Label
	if label == "" {
		label = DefaultLabel
	}

	params, sig, err := signatureFor(r, label)
	if err != nil {
		return "", err
	}

	if r.HasBody() {
		if err := VerifyContentDigest(r); err != nil {
			return "", err
		}
	}

	if params.Algorithm != "" && params.Algorithm != AlgorithmEd25519.String() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, params.Algorithm)
	}

	if params.Created.IsZero() {
		return "", ErrCreatedRequired
	}

	if cfg.MaxAge > 0 {
		age := time.Since(params.Created)
		if age < 0 || age > cfg.MaxAge {
			return "", ErrSignatureExpired
		}
	}

	verifier, err := cfg.Resolver(r, params.KeyID)
	if err != nil {
		return "", err
	}

	base, _, err := BuildSignatureBase(r, params)
	if err != nil {
		return "", err
	}

	if err := verifier.Verify([]byte(base), sig); err != nil {
		return "", err
	}

	return params.KeyID, nil
}

// VerifyRequest verifies the signature on an incoming *http.Request. The
// body is restored so handlers can read it.
func VerifyRequest(r *http.Request, cfg VerifyConfig) error {
	req, err := FromHTTPRequest(r)
	if err != nil {
		return err
	}

	return Verify(req, cfg)
}

// signatureFor parses the signature headers of r for label and checks the
// covered components.
func signatureFor(r Request, label string) (SignatureParams, []byte, error) {
	input, ok := r.Header(HeaderSignatureInput)
	if !ok || input == "" {
		return SignatureParams{}, nil, fmt.Errorf("%w: missing %s header", ErrSignatureNotFound, HeaderSignatureInput)
	}

	sigHeader, ok := r.Header(HeaderSignature)
	if !ok || sigHeader == "" {
		return SignatureParams{}, nil, fmt.Errorf("%w: missing %s header", ErrSignatureNotFound, HeaderSignature)
	}

	params, err := parseSignatureInput(input, label)
	if err != nil {
		return SignatureParams{}, nil, err
	}

	sig, err := parseSignature(sigHeader, label)
	if err != nil {
		return SignatureParams{}, nil, err
	}

	expected := Components(r)
	if !slices.Equal(expected, params.Components) {
		return SignatureParams{}, nil, fmt.Errorf("%w: got (%s), want (%s)", ErrComponentMismatch,
			strings.Join(params.Components, " "), strings.Join(expected, " "))
	}

	return params, sig, nil
}
