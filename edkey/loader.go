package edkey

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// GenerateOptions controls where GenerateKey persists new keys.
type GenerateOptions struct {
	// Dir receives the PEM file. It is created when missing. When empty,
	// the key is not written to disk.
	Dir string

	// FileName is the file name without the ".pem" extension. Defaults to
	// "private-key-<unix milliseconds>".
	FileName string

	// Logger receives debug events. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

func (o *GenerateOptions) logger() *zerolog.Logger {
	if o == nil || o.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}

	return o.Logger
}

// LoadKey reads a PEM encoded PKCS#8 Ed25519 private key from path.
func LoadKey(path string) (PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileAccess, path, err)
	}

	return decodeKey(string(data))
}

// LoadBase64Key decodes a base64 encoded PEM key. It reports false instead
// of an error when the value is not a usable Ed25519 key.
func LoadBase64Key(encoded string) (PrivateKey, bool) {
	text, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, false
	}

	key, err := decodeKey(string(text))
	if err != nil {
		return nil, false
	}

	return key, true
}

// ParseKey validates an in-memory PKCS#8 key.
func ParseKey(raw []byte) (PrivateKey, error) {
	if len(raw) != PrivateKeySize {
		return nil, fmt.Errorf("%w: invalid key length %d", ErrInvalidKey, len(raw))
	}

	if err := CheckEd25519(raw); err != nil {
		return nil, err
	}

	key := make(PrivateKey, PrivateKeySize)
	copy(key, raw)

	return key, nil
}

// decodeKey removes the PEM armor and checks the curve. Bodies of any
// length are decoded so that non-Ed25519 keys report ErrWrongCurve.
func decodeKey(text string) (PrivateKey, error) {
	der, err := pemBody(text)
	if err != nil {
		return nil, err
	}

	if err := CheckEd25519(der); err != nil {
		return nil, err
	}

	return PrivateKey(der), nil
}

// GenerateKey creates a new private key and, when opts.Dir is set, writes
// it to opts.Dir/opts.FileName.pem.
func GenerateKey(opts *GenerateOptions) (PrivateKey, error) {
	priv, _, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	if opts == nil || opts.Dir == "" {
		return priv, nil
	}

	if err := os.MkdirAll(opts.Dir, dirPerm); err != nil {
		return nil, err
	}

	name := opts.FileName
	if name == "" {
		name = "private-key-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	path := filepath.Join(opts.Dir, name+".pem")
	if err := os.WriteFile(path, []byte(ExportPKCS8(priv)), filePerm); err != nil {
		return nil, err
	}

	opts.logger().Debug().Str("path", path).Msg("generated private key")

	return priv, nil
}

// LoadOrGenerateKey loads the key at path and falls back to GenerateKey
// on any failure, including an empty path.
func LoadOrGenerateKey(path string, opts *GenerateOptions) (PrivateKey, error) {
	if path != "" {
		key, err := LoadKey(path)
		if err == nil {
			return key, nil
		}

		opts.logger().Debug().Err(err).Str("path", path).Msg("loading private key failed, generating a new one")
	}

	return GenerateKey(opts)
}

// Resolve loads a key from a reference that is either a path to a PEM
// file or a base64 encoded PEM key.
func Resolve(ref string) (PrivateKey, error) {
	if info, err := os.Stat(ref); err == nil {
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrNotAFile, ref)
		}

		key, err := LoadKey(ref)
		if err != nil {
			return nil, errors.Join(ErrNotAFile, err)
		}

		return key, nil
	}

	key, ok := LoadBase64Key(ref)
	if !ok {
		return nil, ErrNotAPathOrKey
	}

	return key, nil
}
