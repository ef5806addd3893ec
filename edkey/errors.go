package edkey

import (
	"errors"
	"fmt"
)

// Key material errors.
var (
	// ErrInvalidKey is returned when key material has the wrong length or
	// cannot be decoded.
	ErrInvalidKey = errors.New("edkey: invalid key material")

	// ErrWrongCurve is returned when a PKCS#8 key is well formed but does
	// not carry the Ed25519 algorithm identifier.
	ErrWrongCurve = fmt.Errorf("%w: wrong curve", ErrInvalidKey)

	// ErrUnsupportedJWK is returned when a JWK is not an OKP/Ed25519 key.
	ErrUnsupportedJWK = errors.New("edkey: unsupported jwk")
)

// Key source errors.
var (
	// ErrFileAccess is returned when a key file cannot be read.
	ErrFileAccess = errors.New("edkey: could not load file")

	// ErrNotAFile is returned by Resolve when the reference points to an
	// existing file that does not hold a usable key.
	ErrNotAFile = errors.New("edkey: key is not a valid file")

	// ErrNotAPathOrKey is returned by Resolve when the reference is neither
	// an existing file nor a base64 encoded key.
	ErrNotAPathOrKey = errors.New("edkey: key is not a valid path or file")
)
