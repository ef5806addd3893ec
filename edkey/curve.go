package edkey

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// algorithmElementSize is the encoded size of AlgorithmIdentifier holding
// only the Ed25519 OID: SEQUENCE header (2) + OID header (2) + OID (3).
const algorithmElementSize = 7

// oidEd25519 is curveEd25519 per RFC 8410.
var oidEd25519 = asn1.ObjectIdentifier{1, 3, 101, 112}

// CheckEd25519 inspects a PKCS#8 PrivateKeyInfo and reports why it is not
// an Ed25519 key. It returns nil for Ed25519 keys and an error wrapping
// ErrWrongCurve otherwise. Only the fixed Ed25519 shape is accepted:
//
//	SEQUENCE (48 bytes) {
//	    INTEGER version
//	    SEQUENCE (7 bytes) { OBJECT IDENTIFIER 1.3.101.112 }
//	    OCTET STRING privateKey
//	}
func CheckEd25519(key []byte) error {
	if len(key) != PrivateKeySize {
		return notEd25519("key is %d bytes, want %d", len(key), PrivateKeySize)
	}

	input := cryptobyte.String(key)

	var info cryptobyte.String
	if !input.ReadASN1(&info, cbasn1.SEQUENCE) || !input.Empty() {
		return notEd25519("outer sequence does not span the key")
	}

	var version, algorithm, privateKey cryptobyte.String
	var versionTag, algorithmTag, privateKeyTag cbasn1.Tag

	if !info.ReadAnyASN1Element(&version, &versionTag) ||
		!info.ReadAnyASN1Element(&algorithm, &algorithmTag) ||
		!info.ReadAnyASN1Element(&privateKey, &privateKeyTag) ||
		!info.Empty() {
		return notEd25519("sequence must hold exactly 3 elements")
	}

	if versionTag != cbasn1.INTEGER || privateKeyTag != cbasn1.OCTET_STRING {
		return notEd25519("unexpected element types")
	}

	if algorithmTag != cbasn1.SEQUENCE || len(algorithm) != algorithmElementSize {
		return notEd25519("invalid algorithm sequence")
	}

	var algorithmSeq cryptobyte.String
	if !algorithm.ReadASN1(&algorithmSeq, cbasn1.SEQUENCE) {
		return notEd25519("invalid algorithm sequence")
	}

	var oid asn1.ObjectIdentifier
	if !algorithmSeq.ReadASN1ObjectIdentifier(&oid) || !algorithmSeq.Empty() {
		return notEd25519("algorithm sequence must hold a single object identifier")
	}

	if !oid.Equal(oidEd25519) {
		return notEd25519("algorithm %s is not curveEd25519", oid)
	}

	return nil
}

// IsEd25519 reports whether key is a PKCS#8 encoded Ed25519 private key.
func IsEd25519(key []byte) bool {
	return CheckEd25519(key) == nil
}

func notEd25519(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrWrongCurve, fmt.Sprintf(format, args...))
}
