package httpsig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dunglas/httpsfv"
)

// DefaultLabel is the signature label used in Signature and
// Signature-Input headers.
const DefaultLabel = "sig1"

// SignatureParams holds the covered components and parameters that make up
// the @signature-params component of the signature base.
type SignatureParams struct {
	Components []string
	KeyID      string
	Created    time.Time

	// Algorithm is the alg parameter when the signer sent one. It is never
	// emitted by this package.
	Algorithm string

	// raw is the received serialization, reused on verification so that
	// parameters this package does not set are still reproduced.
	raw string
}

// BuildSignatureBase constructs the signature base string per RFC 9421
// Section 2.5. Each covered component produces a line
// "<component-id>": <value>\n and the final line is
// "@signature-params": <params>. The serialized params are returned as the
// second value for use in the Signature-Input header.
func BuildSignatureBase(r Request, params SignatureParams) (string, string, error) {
	var base strings.Builder

	for _, id := range params.Components {
		val, err := componentValue(id, r)
		if err != nil {
			return "", "", err
		}

		fmt.Fprintf(&base, "%q: %s\n", id, val)
	}

	sigParamsStr := params.raw
	if sigParamsStr == "" {
		sigParamsStr = serializeSignatureParams(params)
	}

	fmt.Fprintf(&base, "\"@signature-params\": %s", sigParamsStr)

	return base.String(), sigParamsStr, nil
}

// serializeSignatureParams produces the inner-list representation of the
// signature parameters per RFC 9421 Section 2.3 and RFC 8941 Section 3.1.1.
//
// Format: (<component-ids>);keyid="<id>";created=<unix>
func serializeSignatureParams(params SignatureParams) string {
	var b strings.Builder

	b.WriteByte('(')
	for i, id := range params.Components {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(strconv.Quote(id))
	}
	b.WriteByte(')')

	b.WriteString(";keyid=")
	b.WriteString(quoteRFC8941(params.KeyID))

	if !params.Created.IsZero() {
		fmt.Fprintf(&b, ";created=%d", params.Created.Unix())
	}

	return b.String()
}

// parseSignatureInput finds label in a Signature-Input header and returns
// its parameters.
func parseSignatureInput(header, label string) (SignatureParams, error) {
	var params SignatureParams

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return params, fmt.Errorf("%w: signature-input: %v", ErrMalformedHeader, err)
	}

	member, ok := dict.Get(label)
	if !ok {
		return params, fmt.Errorf("%w: label %q", ErrSignatureNotFound, label)
	}

	inner, ok := member.(httpsfv.InnerList)
	if !ok {
		return params, fmt.Errorf("%w: signature-input %q is not an inner list", ErrMalformedHeader, label)
	}

	for _, item := range inner.Items {
		id, ok := item.Value.(string)
		if !ok {
			return params, fmt.Errorf("%w: component identifier must be a string", ErrMalformedHeader)
		}

		params.Components = append(params.Components, id)
	}

	if inner.Params == nil {
		return params, fmt.Errorf("%w: missing keyid parameter", ErrMalformedHeader)
	}

	if v, ok := inner.Params.Get("keyid"); ok {
		keyID, ok := v.(string)
		if !ok {
			return params, fmt.Errorf("%w: keyid must be a string", ErrMalformedHeader)
		}

		params.KeyID = keyID
	}

	if v, ok := inner.Params.Get("created"); ok {
		created, ok := v.(int64)
		if !ok {
			return params, fmt.Errorf("%w: created must be an integer", ErrMalformedHeader)
		}

		params.Created = time.Unix(created, 0)
	}

	if v, ok := inner.Params.Get("alg"); ok {
		alg, ok := v.(string)
		if !ok {
			return params, fmt.Errorf("%w: alg must be a string", ErrMalformedHeader)
		}

		params.Algorithm = alg
	}

	if params.KeyID == "" {
		return params, fmt.Errorf("%w: missing keyid parameter", ErrMalformedHeader)
	}

	params.raw, err = httpsfv.Marshal(httpsfv.List{inner})
	if err != nil {
		return params, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	return params, nil
}

// parseSignature extracts the byte sequence stored under label in a
// Signature header.
func parseSignature(header, label string) ([]byte, error) {
	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %v", ErrMalformedHeader, err)
	}

	member, ok := dict.Get(label)
	if !ok {
		return nil, fmt.Errorf("%w: label %q", ErrSignatureNotFound, label)
	}

	item, ok := member.(httpsfv.Item)
	if !ok {
		return nil, fmt.Errorf("%w: signature %q is not an item", ErrMalformedHeader, label)
	}

	sig, ok := item.Value.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: signature value not byte-sequence encoded", ErrMalformedHeader)
	}

	return sig, nil
}

// quoteRFC8941 produces an RFC 8941 quoted-string. Only backslash and
// double-quote are escaped (Section 3.3.3); no other escape sequences
// are permitted.
func quoteRFC8941(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' || ch == '"' {
			b.WriteByte('\\')
		}

		b.WriteByte(ch)
	}

	b.WriteByte('"')

	return b.String()
}
