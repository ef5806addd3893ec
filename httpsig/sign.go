package httpsig

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vitalvas/paysig/edkey"
)

// defaultContentType is stamped on signed requests with a body that do not
// declare a Content-Type.
const defaultContentType = "application/json"

// SignatureHeaders holds the header values attached to an authenticated
// request.
type SignatureHeaders struct {
	Signature      string
	SignatureInput string
}

// HeaderOptions configures CreateSignatureHeaders.
type HeaderOptions struct {
	Request    Request
	PrivateKey edkey.PrivateKey
	KeyID      string

	// Created sets the signature creation time. When zero, time.Now() is
	// used.
	Created time.Time
}

// CreateSignatureHeaders signs the request components selected by
// Components and returns the Signature and Signature-Input values under the
// "sig1" label. The request must already carry the content headers when it
// has a body; SignRequest takes care of that.
func CreateSignatureHeaders(opts HeaderOptions) (SignatureHeaders, error) {
	signer, err := NewEd25519Signer(opts.KeyID, opts.PrivateKey)
	if err != nil {
		return SignatureHeaders{}, err
	}

	return createSignatureHeaders(opts.Request, signer, opts.Created)
}

func createSignatureHeaders(r Request, signer Signer, created time.Time) (SignatureHeaders, error) {
	if created.IsZero() {
		created = time.Now()
	}

	params := SignatureParams{
		Components: Components(r),
		KeyID:      signer.KeyID(),
		Created:    created,
	}

	base, sigParamsStr, err := BuildSignatureBase(r, params)
	if err != nil {
		return SignatureHeaders{}, err
	}

	sig, err := signer.Sign([]byte(base))
	if err != nil {
		return SignatureHeaders{}, err
	}

	return SignatureHeaders{
		Signature:      DefaultLabel + "=:" + base64.StdEncoding.EncodeToString(sig) + ":",
		SignatureInput: DefaultLabel + "=" + sigParamsStr,
	}, nil
}

// SignOptions configures SignRequest.
type SignOptions struct {
	// PrivateKey is the PKCS#8 Ed25519 key. Signing is skipped when empty.
	PrivateKey edkey.PrivateKey

	// KeyID is the keyid signature parameter. Signing is skipped when
	// empty.
	KeyID string

	// Digest selects the Content-Digest algorithm. Defaults to DigestSHA512.
	Digest DigestAlgorithm

	// Created sets the signature creation time. When zero, time.Now() is
	// used.
	Created time.Time
}

// Enabled reports whether opts carries enough material to sign.
func (o SignOptions) Enabled() bool {
	return len(o.PrivateKey) > 0 && o.KeyID != ""
}

// SignRequest returns a copy of r with Signature and Signature-Input
// headers added. When r has a body, Content-Digest, Content-Length and
// Content-Type are stamped first so they are both sent and signed.
//
// Without a private key or key id, r is returned unchanged.
func SignRequest(r Request, opts SignOptions) (Request, error) {
	if !opts.Enabled() {
		return r, nil
	}

	if err := r.validateHeaders(); err != nil {
		return r, err
	}

	signer, err := NewEd25519Signer(opts.KeyID, opts.PrivateKey)
	if err != nil {
		return r, err
	}

	digestAlg := opts.Digest
	if digestAlg == "" {
		digestAlg = DigestSHA512
	}

	out := r.clone()

	if out.HasBody() {
		digest, err := ContentDigest([]byte(out.Body), digestAlg)
		if err != nil {
			return r, err
		}

		out.setHeader(HeaderContentDigest, digest)
		out.setHeader(HeaderContentLength, strconv.Itoa(len(out.Body)))

		if _, ok := out.Header(HeaderContentType); !ok {
			out.setHeader(HeaderContentType, defaultContentType)
		}
	}

	headers, err := createSignatureHeaders(out, signer, opts.Created)
	if err != nil {
		return r, err
	}

	out.setHeader(HeaderSignature, headers.Signature)
	out.setHeader(HeaderSignatureInput, headers.SignatureInput)

	return out, nil
}

// RequestShouldBeAuthorized reports whether r needs a signature: POST
// requests and requests that already carry an Authorization header.
func RequestShouldBeAuthorized(r Request) bool {
	if strings.EqualFold(r.Method, http.MethodPost) {
		return true
	}

	_, ok := r.Header(HeaderAuthorization)

	return ok
}
