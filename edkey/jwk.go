package edkey

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
)

// JWK member values for Ed25519 keys per RFC 8037.
const (
	KeyTypeOKP   = "OKP"
	CurveEd25519 = "Ed25519"
	AlgEdDSA     = "EdDSA"
	UseSignature = "sig"
)

// JWK is a JSON Web Key (RFC 7517) in OKP/Ed25519 form.
type JWK struct {
	Kid string `json:"kid,omitempty"`
	Alg string `json:"alg,omitempty"`
	Use string `json:"use,omitempty"`
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	D   string `json:"d,omitempty"`
}

// ExportJWK converts raw key material into a JWK without kid or alg.
// A 48-byte private key yields both x and d; a 32-byte public key yields
// x only.
func ExportJWK(key []byte) (JWK, error) {
	jwk := JWK{Kty: KeyTypeOKP, Crv: CurveEd25519}

	switch len(key) {
	case PrivateKeySize:
		seed := key[len(pkcs8Prefix):]

		pub, err := derivePublic(seed)
		if err != nil {
			return JWK{}, err
		}

		jwk.X = base64.RawURLEncoding.EncodeToString(pub)
		jwk.D = base64.RawURLEncoding.EncodeToString(seed)

	case PublicKeySize:
		jwk.X = base64.RawURLEncoding.EncodeToString(key)

	default:
		return JWK{}, fmt.Errorf("%w: invalid key length %d", ErrInvalidKey, len(key))
	}

	return jwk, nil
}

// PublicJWK returns the key discovery form of the public half of key:
// kid, alg "EdDSA" and use "sig" are set and d is omitted.
func PublicJWK(key []byte, kid string) (JWK, error) {
	jwk, err := ExportJWK(key)
	if err != nil {
		return JWK{}, err
	}

	jwk.D = ""
	jwk.Kid = kid
	jwk.Alg = AlgEdDSA
	jwk.Use = UseSignature

	return jwk, nil
}

// PublicKey decodes the x member into an Ed25519 public key.
func (j JWK) PublicKey() (ed25519.PublicKey, error) {
	if j.Kty != KeyTypeOKP || j.Crv != CurveEd25519 {
		return nil, fmt.Errorf("%w: kty=%s crv=%s", ErrUnsupportedJWK, j.Kty, j.Crv)
	}

	x, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid x: %v", ErrInvalidKey, err)
	}

	if len(x) != PublicKeySize {
		return nil, fmt.Errorf("%w: invalid key length %d", ErrInvalidKey, len(x))
	}

	return ed25519.PublicKey(x), nil
}

// PrivateKey rebuilds the PKCS#8 private key from the d member.
func (j JWK) PrivateKey() (PrivateKey, error) {
	if j.Kty != KeyTypeOKP || j.Crv != CurveEd25519 {
		return nil, fmt.Errorf("%w: kty=%s crv=%s", ErrUnsupportedJWK, j.Kty, j.Crv)
	}

	if j.D == "" {
		return nil, fmt.Errorf("%w: missing private key material", ErrInvalidKey)
	}

	seed, err := base64.RawURLEncoding.DecodeString(j.D)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid d: %v", ErrInvalidKey, err)
	}

	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: invalid seed length %d", ErrInvalidKey, len(seed))
	}

	return newPrivateKey(seed), nil
}
