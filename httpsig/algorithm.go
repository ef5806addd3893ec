package httpsig

// Algorithm is an HTTP Signature Algorithms Registry name (RFC 9421
// Section 6.2).
type Algorithm string

// AlgorithmEd25519 is the only algorithm Open Payments accepts.
const AlgorithmEd25519 Algorithm = "ed25519"

func (a Algorithm) String() string { return string(a) }

// Signer signs signature bases.
type Signer interface {
	Sign(base []byte) ([]byte, error)
	Algorithm() Algorithm
	KeyID() string
}

// Verifier checks signatures over signature bases. Verify returns
// ErrSignatureInvalid when the signature does not match.
type Verifier interface {
	Verify(base, signature []byte) error
	Algorithm() Algorithm
	KeyID() string
}
