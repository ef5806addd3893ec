// Package edkey handles Ed25519 key material used to sign Open Payments
// requests.
//
// Private keys are carried as their 48-byte PKCS#8 DER encoding (a fixed
// 16-byte prefix followed by the 32-byte seed); public keys are the raw
// 32-byte point. Both can be exported as JSON Web Keys (RFC 8037 OKP form)
// and private keys as a PEM "PRIVATE KEY" block.
//
// # Generating Keys
//
//	priv, pub, err := edkey.GenerateKeyPair()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pemText := edkey.ExportPKCS8(priv)
//	jwk, err := edkey.ExportJWK(pub)
//
// # Loading Keys
//
// LoadKey reads a PEM file and rejects anything that is not an Ed25519
// PKCS#8 key. LoadOrGenerateKey falls back to generating (and optionally
// persisting) a new key when loading fails for any reason:
//
//	key, err := edkey.LoadOrGenerateKey("/etc/paysig/key.pem", &edkey.GenerateOptions{
//	    Dir: "/etc/paysig",
//	})
//
// Callers that must tell a missing key apart from a corrupt one should call
// LoadKey directly and inspect the error with errors.Is.
package edkey
