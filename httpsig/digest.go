package httpsig

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"

	"github.com/dunglas/httpsfv"
)

// DigestAlgorithm identifies the hash algorithm for Content-Digest
// per RFC 9530.
type DigestAlgorithm string

const (
	// DigestSHA256 uses SHA-256 for content digest.
	DigestSHA256 DigestAlgorithm = "sha-256"

	// DigestSHA512 uses SHA-512 for content digest. It is the algorithm
	// Open Payments uses.
	DigestSHA512 DigestAlgorithm = "sha-512"
)

// hashFunc returns the hash constructor for alg.
func (alg DigestAlgorithm) hashFunc() (func() hash.Hash, error) {
	switch alg {
	case DigestSHA256:
		return sha256.New, nil
	case DigestSHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDigest, alg)
	}
}

// Supported reports whether alg is a known digest algorithm.
func (alg DigestAlgorithm) Supported() bool {
	_, err := alg.hashFunc()
	return err == nil
}

// ContentDigest returns the Content-Digest header value for body, e.g.
// "sha-512=:<base64>:".
func ContentDigest(body []byte, alg DigestAlgorithm) (string, error) {
	digest, err := computeDigest(body, alg)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s=:%s:", alg, base64.StdEncoding.EncodeToString(digest)), nil
}

// VerifyContentDigest checks the Content-Digest header of r against its
// body. The header may carry several digests; the first one with a
// supported algorithm is verified.
func VerifyContentDigest(r Request) error {
	header, ok := r.Header(HeaderContentDigest)
	if !ok || header == "" {
		return ErrDigestNotFound
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return fmt.Errorf("%w: content digest: %v", ErrMalformedHeader, err)
	}

	for _, name := range dict.Names() {
		alg := DigestAlgorithm(name)
		if _, err := alg.hashFunc(); err != nil {
			continue
		}

		member, _ := dict.Get(name)

		item, ok := member.(httpsfv.Item)
		if !ok {
			return fmt.Errorf("%w: digest %s is not an item", ErrMalformedHeader, name)
		}

		actual, ok := item.Value.([]byte)
		if !ok {
			return fmt.Errorf("%w: digest %s is not a byte sequence", ErrMalformedHeader, name)
		}

		expected, err := computeDigest([]byte(r.Body), alg)
		if err != nil {
			return err
		}

		if !bytes.Equal(expected, actual) {
			return ErrDigestMismatch
		}

		return nil
	}

	return ErrUnsupportedDigest
}

// computeDigest computes the hash of data using the specified algorithm.
func computeDigest(data []byte, alg DigestAlgorithm) ([]byte, error) {
	newHash, err := alg.hashFunc()
	if err != nil {
		return nil, err
	}

	h := newHash()
	h.Write(data)

	return h.Sum(nil), nil
}
