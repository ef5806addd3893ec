package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/vitalvas/paysig/config"
	"github.com/vitalvas/paysig/edkey"
	"github.com/vitalvas/paysig/httpsig"
	"github.com/vitalvas/paysig/jwks"
)

func runKeygen(env *environment, args []string) error {
	fs := newFlagSet(env, "keygen")
	dir := fs.String("dir", "", "write the key to this directory instead of stdout")
	name := fs.String("name", "", "file name without extension")
	kid := fs.String("kid", "", "key id for the printed JWK (default: random UUID)")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *kid == "" {
		*kid = uuid.NewString()
	}

	key, err := edkey.GenerateKey(&edkey.GenerateOptions{
		Dir:      *dir,
		FileName: *name,
		Logger:   env.logger,
	})
	if err != nil {
		return err
	}

	if *dir == "" {
		fmt.Fprint(env.stdout, edkey.ExportPKCS8(key))
	}

	jwk, err := edkey.PublicJWK(key, *kid)
	if err != nil {
		return err
	}

	env.logger.Info().Str("kid", *kid).Str("x", jwk.X).Msg("generated key")

	return nil
}

func runJWK(env *environment, args []string) error {
	fs := newFlagSet(env, "jwk")
	ref := fs.String("key", "", "private key path or base64 PEM")
	kid := fs.String("kid", "", "key id")
	set := fs.Bool("set", false, "wrap the key in a key set document")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *ref == "" || *kid == "" {
		fmt.Fprintln(env.stderr, "-key and -kid are required")
		return errUsage
	}

	key, err := edkey.Resolve(*ref)
	if err != nil {
		return err
	}

	var out any

	if *set {
		s, err := jwks.NewSet()
		if err != nil {
			return err
		}

		if err := s.AddPrivateKey(*kid, key); err != nil {
			return err
		}

		out = s
	} else {
		jwk, err := edkey.PublicJWK(key, *kid)
		if err != nil {
			return err
		}

		out = jwk
	}

	return writeJSON(env, out)
}

func runSign(env *environment, args []string) error {
	fs := newFlagSet(env, "sign")
	configPath := fs.String("config", "", "YAML configuration file")
	ref := fs.String("key", "", "private key path or base64 PEM")
	kid := fs.String("kid", "", "key id")
	digest := fs.String("digest", "", "content digest algorithm (sha-256 or sha-512)")

	var rf requestFlags
	rf.register(fs)

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cfg := &config.Config{}

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	if *ref != "" {
		cfg.PrivateKey = *ref
	}

	if *kid != "" {
		cfg.KeyID = *kid
	}

	if *digest != "" {
		cfg.Digest = httpsig.DigestAlgorithm(*digest)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := cfg.SignOptions(env.logger)
	if err != nil {
		return err
	}

	req, err := rf.request()
	if err != nil {
		return err
	}

	signed, err := httpsig.SignRequest(req, opts)
	if err != nil {
		return err
	}

	for _, name := range []string{
		httpsig.HeaderContentDigest,
		httpsig.HeaderContentLength,
		httpsig.HeaderContentType,
		httpsig.HeaderSignatureInput,
		httpsig.HeaderSignature,
	} {
		if v, ok := signed.Header(name); ok {
			fmt.Fprintf(env.stdout, "%s: %s\n", name, v)
		}
	}

	env.logger.Debug().Str("kid", opts.KeyID).Str("url", req.URL).Msg("signed request")

	return nil
}

func runVerify(env *environment, args []string) error {
	fs := newFlagSet(env, "verify")
	jwksPath := fs.String("jwks", "", "key set document holding the client keys")

	var rf requestFlags
	rf.register(fs)

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *jwksPath == "" {
		fmt.Fprintln(env.stderr, "-jwks is required")
		return errUsage
	}

	data, err := os.ReadFile(*jwksPath)
	if err != nil {
		return err
	}

	var set jwks.Set
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("%s: %w", *jwksPath, err)
	}

	req, err := rf.request()
	if err != nil {
		return err
	}

	if err := httpsig.Verify(req, httpsig.VerifyConfig{Resolver: set.Resolver()}); err != nil {
		if errors.Is(err, jwks.ErrKeyNotFound) {
			return fmt.Errorf("unknown key: %w", err)
		}

		return err
	}

	fmt.Fprintln(env.stdout, "signature ok")

	return nil
}

func writeJSON(env *environment, v any) error {
	enc := json.NewEncoder(env.stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
