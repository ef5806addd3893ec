package edkey

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/pem"
	"fmt"

	"filippo.io/edwards25519"
)

const (
	// PrivateKeySize is the length of a PKCS#8 encoded Ed25519 private key.
	PrivateKeySize = 48

	// PublicKeySize is the length of a raw Ed25519 public key.
	PublicKeySize = ed25519.PublicKeySize

	// SeedSize is the length of the private seed carried in a PrivateKey.
	SeedSize = ed25519.SeedSize

	pemBlockType = "PRIVATE KEY"
)

// pkcs8Prefix is the DER encoding of PrivateKeyInfo for Ed25519 up to the
// start of the 32-byte seed.
var pkcs8Prefix = []byte{
	0x30, 0x2e, 0x02, 0x01, 0x00, 0x30, 0x05, 0x06,
	0x03, 0x2b, 0x65, 0x70, 0x04, 0x22, 0x04, 0x20,
}

// PrivateKey is a PKCS#8 DER encoded Ed25519 private key.
type PrivateKey []byte

// PublicKey is a raw Ed25519 public key.
type PublicKey []byte

// GenerateKeyPair creates a new Ed25519 key pair using crypto/rand.
func GenerateKeyPair() (PrivateKey, PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	return newPrivateKey(priv.Seed()), PublicKey(pub), nil
}

// FromEd25519 wraps a standard library Ed25519 private key.
func FromEd25519(key ed25519.PrivateKey) (PrivateKey, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: ed25519 private key must be %d bytes", ErrInvalidKey, ed25519.PrivateKeySize)
	}

	return newPrivateKey(key.Seed()), nil
}

func newPrivateKey(seed []byte) PrivateKey {
	key := make(PrivateKey, 0, PrivateKeySize)
	key = append(key, pkcs8Prefix...)

	return append(key, seed...)
}

// Seed returns the 32-byte private seed.
func (k PrivateKey) Seed() []byte {
	if len(k) != PrivateKeySize {
		return nil
	}

	seed := make([]byte, SeedSize)
	copy(seed, k[len(pkcs8Prefix):])

	return seed
}

// Ed25519 expands the key into the standard library representation.
func (k PrivateKey) Ed25519() (ed25519.PrivateKey, error) {
	if len(k) != PrivateKeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes", ErrInvalidKey, PrivateKeySize)
	}

	return ed25519.NewKeyFromSeed(k[len(pkcs8Prefix):]), nil
}

// Public derives the public key.
func (k PrivateKey) Public() (PublicKey, error) {
	if len(k) != PrivateKeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes", ErrInvalidKey, PrivateKeySize)
	}

	return derivePublic(k[len(pkcs8Prefix):])
}

// derivePublic computes A = s*B where s is the clamped lower half of
// SHA-512(seed) per RFC 8032 Section 5.1.5.
func derivePublic(seed []byte) (PublicKey, error) {
	h := sha512.Sum512(seed)

	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return PublicKey(new(edwards25519.Point).ScalarBaseMult(s).Bytes()), nil
}

// ExportPKCS8 encodes the private key as a PEM "PRIVATE KEY" block. The
// 48-byte key encodes to a single 64 character base64 line.
func ExportPKCS8(key PrivateKey) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: pemBlockType, Bytes: key}))
}

// DecodePEM strips the PEM armor from text and returns the raw key bytes.
// The key must be 48 bytes long; the curve is not checked.
func DecodePEM(text string) (PrivateKey, error) {
	der, err := pemBody(text)
	if err != nil {
		return nil, err
	}

	if len(der) != PrivateKeySize {
		return nil, fmt.Errorf("%w: invalid key length %d", ErrInvalidKey, len(der))
	}

	return PrivateKey(der), nil
}

// pemBody returns the DER bytes of the first "PRIVATE KEY" block in text.
func pemBody(text string) ([]byte, error) {
	block, _ := pem.Decode(bytes.TrimSpace([]byte(text)))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	if block.Type != pemBlockType {
		return nil, fmt.Errorf("%w: unsupported PEM type %q", ErrInvalidKey, block.Type)
	}

	return block.Bytes, nil
}
