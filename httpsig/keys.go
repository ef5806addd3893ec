package httpsig

import (
	"crypto/ed25519"
	"fmt"

	"github.com/vitalvas/paysig/edkey"
)

type ed25519Signer struct {
	key   ed25519.PrivateKey
	keyID string
}

// NewEd25519Signer creates a Signer from a PKCS#8 encoded Ed25519 key.
func NewEd25519Signer(keyID string, key edkey.PrivateKey) (Signer, error) {
	if err := edkey.CheckEd25519(key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	std, err := key.Ed25519()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return &ed25519Signer{key: std, keyID: keyID}, nil
}

func (s *ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.key, message), nil
}

func (s *ed25519Signer) Algorithm() Algorithm { return AlgorithmEd25519 }
func (s *ed25519Signer) KeyID() string        { return s.keyID }

type ed25519Verifier struct {
	key   ed25519.PublicKey
	keyID string
}

// NewEd25519Verifier creates a Verifier using Ed25519.
func NewEd25519Verifier(keyID string, key ed25519.PublicKey) (Verifier, error) {
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 public key must be %d bytes", ErrInvalidKey, ed25519.PublicKeySize)
	}

	return &ed25519Verifier{key: key, keyID: keyID}, nil
}

func (v *ed25519Verifier) Verify(message, signature []byte) error {
	if !ed25519.Verify(v.key, message, signature) {
		return ErrSignatureInvalid
	}

	return nil
}

func (v *ed25519Verifier) Algorithm() Algorithm { return AlgorithmEd25519 }
func (v *ed25519Verifier) KeyID() string        { return v.keyID }

// Sign produces the 64-byte Ed25519 signature of a signature base.
func Sign(base []byte, key edkey.PrivateKey) ([]byte, error) {
	signer, err := NewEd25519Signer("", key)
	if err != nil {
		return nil, err
	}

	return signer.Sign(base)
}
