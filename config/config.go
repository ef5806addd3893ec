// Package config loads client signing configuration from YAML with
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/paysig/edkey"
	"github.com/vitalvas/paysig/httpsig"
)

// Environment variables that override file values.
const (
	EnvKeyID      = "PAYSIG_KEY_ID"
	EnvPrivateKey = "PAYSIG_PRIVATE_KEY"
	EnvKeyDir     = "PAYSIG_KEY_DIR"
)

var (
	// ErrMissingKeyID is returned when no key id is configured.
	ErrMissingKeyID = errors.New("config: key_id is required")

	// ErrMissingKey is returned when neither private_key nor generate is
	// configured.
	ErrMissingKey = errors.New("config: private_key or generate is required")

	// ErrUnsupportedDigest is returned for an unknown digest algorithm.
	ErrUnsupportedDigest = errors.New("config: unsupported digest")
)

// Config describes how a client signs its requests.
type Config struct {
	// KeyID is the keyid signature parameter.
	KeyID string `yaml:"key_id"`

	// PrivateKey is a path to a PEM file or a base64 encoded PEM key.
	PrivateKey string `yaml:"private_key"`

	// Generate enables key generation when PrivateKey cannot be loaded.
	Generate *Generate `yaml:"generate,omitempty"`

	// Digest is the Content-Digest algorithm. Defaults to sha-512.
	Digest httpsig.DigestAlgorithm `yaml:"digest"`
}

// Generate controls where generated keys are written.
type Generate struct {
	Dir      string `yaml:"dir"`
	FileName string `yaml:"file_name"`
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. An empty path configures from the environment
// only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	cfg.FromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// FromEnv applies non-empty environment overrides to c.
func (c *Config) FromEnv() {
	if v, ok := os.LookupEnv(EnvKeyID); ok && v != "" {
		c.KeyID = v
	}

	if v, ok := os.LookupEnv(EnvPrivateKey); ok && v != "" {
		c.PrivateKey = v
	}

	if v, ok := os.LookupEnv(EnvKeyDir); ok && v != "" {
		if c.Generate == nil {
			c.Generate = &Generate{}
		}

		c.Generate.Dir = v
	}
}

// Validate checks c and fills in defaults.
func (c *Config) Validate() error {
	if c.KeyID == "" {
		return ErrMissingKeyID
	}

	if c.PrivateKey == "" && c.Generate == nil {
		return ErrMissingKey
	}

	if c.Digest == "" {
		c.Digest = httpsig.DigestSHA512
	}

	if !c.Digest.Supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedDigest, c.Digest)
	}

	return nil
}

// SignOptions resolves the configured key into httpsig options. With
// generate set, a private_key path that cannot be loaded is replaced by a
// new key; a base64 encoded private_key is always used as is.
func (c *Config) SignOptions(logger *zerolog.Logger) (httpsig.SignOptions, error) {
	key, err := c.resolveKey(logger)
	if err != nil {
		return httpsig.SignOptions{}, err
	}

	return httpsig.SignOptions{
		PrivateKey: key,
		KeyID:      c.KeyID,
		Digest:     c.Digest,
	}, nil
}

func (c *Config) resolveKey(logger *zerolog.Logger) (edkey.PrivateKey, error) {
	if c.Generate == nil {
		return edkey.Resolve(c.PrivateKey)
	}

	if c.PrivateKey != "" {
		if key, ok := edkey.LoadBase64Key(c.PrivateKey); ok {
			return key, nil
		}
	}

	return edkey.LoadOrGenerateKey(c.PrivateKey, &edkey.GenerateOptions{
		Dir:      c.Generate.Dir,
		FileName: c.Generate.FileName,
		Logger:   logger,
	})
}
