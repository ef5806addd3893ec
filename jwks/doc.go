// Package jwks publishes and resolves Ed25519 client keys in JSON Web Key
// Set form.
//
// A Set holds public JWKs indexed by key id. It can be served to peers
// with Handler and plugged into signature verification with Resolver:
//
//	set := jwks.NewSet()
//	set.Add(jwk)
//
//	http.Handle("/jwks.json", jwks.Handler(set))
//
//	mw, err := httpsig.Middleware(httpsig.MiddlewareConfig{
//		Verify: httpsig.VerifyConfig{Resolver: set.Resolver()},
//	})
package jwks
