// Package httpsig implements the Open Payments profile of HTTP Message
// Signatures (RFC 9421) with Content-Digest support per RFC 9530.
//
// Every signature uses Ed25519, the "sig1" label and the parameters
// keyid and created. The covered components depend only on the shape of
// the request:
//
//   - "@method" and "@target-uri" always
//   - "authorization" when an Authorization header is present
//   - "content-digest", "content-length" and "content-type" when the
//     request has a body
//
// # Signing Requests
//
// SignRequest returns a copy of the request with the content headers and
// the Signature and Signature-Input headers added. Signing is skipped when
// no key or key id is configured:
//
//	signed, err := httpsig.SignRequest(httpsig.Request{
//	    Method:  http.MethodPost,
//	    URL:     "https://auth.example.com/",
//	    Headers: map[string]string{"Authorization": "GNAP token"},
//	    Body:    `{"foo":"bar"}`,
//	}, httpsig.SignOptions{
//	    PrivateKey: key,
//	    KeyID:      "my-key-id",
//	})
//
// # Verifying Requests
//
// ValidateSignature verifies a request against a known public key. Verify
// takes a KeyResolver for looking keys up by key id:
//
//	err := httpsig.Verify(req, httpsig.VerifyConfig{
//	    Resolver: resolver,
//	    MaxAge:   5 * time.Minute,
//	})
//
// # Client Transport
//
// NewTransport creates an http.RoundTripper that signs outgoing requests
// for which RequestShouldBeAuthorized holds:
//
//	client := &http.Client{
//	    Transport: httpsig.NewTransport(nil, httpsig.SignOptions{
//	        PrivateKey: key,
//	        KeyID:      "my-key-id",
//	    }),
//	}
//
// # Server Middleware
//
// Middleware verifies signatures on incoming requests and answers 401
// Unauthorized on failure. Handlers read the accepted key id with KeyID:
//
//	mw, err := httpsig.Middleware(httpsig.MiddlewareConfig{
//	    Verify: httpsig.VerifyConfig{Resolver: resolver},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	handler = mw(handler)
package httpsig
