package httpsig

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Covered component identifiers used by Open Payments.
const (
	ComponentMethod        = "@method"
	ComponentTargetURI     = "@target-uri"
	ComponentAuthorization = "authorization"
	ComponentContentDigest = "content-digest"
	ComponentContentLength = "content-length"
	ComponentContentType   = "content-type"
)

// Components returns the covered components for r in signing order:
// @method and @target-uri always, authorization when the request carries
// an Authorization header, and the content headers when it has a body.
func Components(r Request) []string {
	components := []string{ComponentMethod, ComponentTargetURI}

	if _, ok := r.Header(HeaderAuthorization); ok {
		components = append(components, ComponentAuthorization)
	}

	if r.HasBody() {
		components = append(components, ComponentContentDigest, ComponentContentLength, ComponentContentType)
	}

	return components
}

// componentValue extracts the value of a covered component per RFC 9421
// Section 2. Derived components start with "@"; anything else names a
// header field.
func componentValue(id string, r Request) (string, error) {
	switch id {
	case ComponentMethod:
		return r.Method, nil

	case ComponentTargetURI:
		return r.URL, nil
	}

	if strings.HasPrefix(id, "@") {
		return "", fmt.Errorf("%w: %s", ErrUnknownComponent, id)
	}

	if id != strings.ToLower(id) || !httpguts.ValidHeaderFieldName(id) {
		return "", fmt.Errorf("%w: invalid header name %q", ErrUnknownComponent, id)
	}

	v, ok := r.Header(id)
	if !ok {
		return "", fmt.Errorf("%w: header %q not present", ErrUnknownComponent, id)
	}

	return strings.TrimSpace(v), nil
}

// authority returns the authority component (host[:port]) from the request.
func authority(r *http.Request) string {
	if r.Host != "" {
		return strings.ToLower(r.Host)
	}

	if r.URL != nil && r.URL.Host != "" {
		return strings.ToLower(r.URL.Host)
	}

	return ""
}

// scheme returns the request scheme (http or https).
func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}

	if r.URL != nil && r.URL.Scheme != "" {
		return strings.ToLower(r.URL.Scheme)
	}

	return "http"
}

// targetURI reconstructs the full target URI for the request, so that a
// client and a server see the same value for @target-uri.
func targetURI(r *http.Request) string {
	path := r.URL.EscapedPath()
	if path == "" {
		path = "/"
	}

	uri := scheme(r) + "://" + authority(r) + path
	if r.URL.RawQuery != "" {
		uri += "?" + r.URL.RawQuery
	}

	return uri
}
