package httpsig

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Header names set or read while signing.
const (
	HeaderAuthorization  = "Authorization"
	HeaderContentDigest  = "Content-Digest"
	HeaderContentLength  = "Content-Length"
	HeaderContentType    = "Content-Type"
	HeaderSignature      = "Signature"
	HeaderSignatureInput = "Signature-Input"
)

// Request is the view of an HTTP request that is signed or verified.
// Header names are matched case-insensitively. An empty Body means the
// request has no body.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

// Header returns the value of the named header, ignoring case.
func (r Request) Header(name string) (string, bool) {
	if v, ok := r.Headers[name]; ok {
		return v, true
	}

	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}

	return "", false
}

// HasBody reports whether the request carries a body.
func (r Request) HasBody() bool {
	return r.Body != ""
}

// clone returns a copy of r whose header map can be modified freely.
func (r Request) clone() Request {
	out := r
	out.Headers = make(map[string]string, len(r.Headers)+5)
	maps.Copy(out.Headers, r.Headers)

	return out
}

// setHeader sets name to value, replacing any differently cased key.
func (r Request) setHeader(name, value string) {
	for k := range r.Headers {
		if k != name && strings.EqualFold(k, name) {
			delete(r.Headers, k)
		}
	}

	r.Headers[name] = value
}

// validateHeaders rejects header names and values that are not valid on
// the wire per RFC 9110.
func (r Request) validateHeaders() error {
	for k, v := range r.Headers {
		if !httpguts.ValidHeaderFieldName(k) {
			return fmt.Errorf("%w: name %q", ErrInvalidHeader, k)
		}

		if !httpguts.ValidHeaderFieldValue(v) {
			return fmt.Errorf("%w: value of %q", ErrInvalidHeader, k)
		}
	}

	return nil
}

// FromHTTPRequest builds a Request from r. The body is read and replaced
// so it can be consumed again. Multiple values of a header are joined
// with ", ".
func FromHTTPRequest(r *http.Request) (Request, error) {
	body, err := readAndRestoreBody(r)
	if err != nil {
		return Request{}, err
	}

	headers := headerValues(r.Header)

	if _, ok := headers[HeaderContentLength]; !ok && len(body) > 0 {
		headers[HeaderContentLength] = strconv.Itoa(len(body))
	}

	return Request{
		Method:  r.Method,
		URL:     targetURI(r),
		Headers: headers,
		Body:    string(body),
	}, nil
}

// headerValues flattens h, joining multiple values with ", ".
func headerValues(h http.Header) map[string]string {
	headers := make(map[string]string, len(h)+1)
	for k, values := range h {
		headers[k] = strings.Join(values, ", ")
	}

	return headers
}

// ApplySignature copies the headers produced by SignRequest onto r.
// Content-Length is carried by r.ContentLength and is left untouched.
func ApplySignature(r *http.Request, signed Request) {
	for _, name := range []string{HeaderContentDigest, HeaderContentType, HeaderSignature, HeaderSignatureInput} {
		if v, ok := signed.Header(name); ok {
			r.Header.Set(name, v)
		}
	}
}

// readAndRestoreBody reads the entire request body and replaces it with a
// new reader so the body can be consumed again by downstream handlers.
func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
