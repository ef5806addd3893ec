package jwks

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vitalvas/paysig/edkey"
	"github.com/vitalvas/paysig/httpsig"
)

var (
	// ErrKeyNotFound is returned when no key matches a key id.
	ErrKeyNotFound = errors.New("jwks: key not found")

	// ErrMissingKeyID is returned when a key without kid is added.
	ErrMissingKeyID = errors.New("jwks: key id is required")

	// ErrPrivateMaterial is returned when a key carrying d is added.
	ErrPrivateMaterial = errors.New("jwks: key carries private material")
)

// Set is a collection of public Ed25519 JWKs safe for concurrent use.
// Keys keep insertion order; adding a key with an existing kid replaces it
// in place.
type Set struct {
	mu   sync.RWMutex
	keys []edkey.JWK
}

type document struct {
	Keys []edkey.JWK `json:"keys"`
}

// NewSet returns a set holding keys.
func NewSet(keys ...edkey.JWK) (*Set, error) {
	s := &Set{}

	for _, k := range keys {
		if err := s.Add(k); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Add validates key and stores it under its kid.
func (s *Set) Add(key edkey.JWK) error {
	if key.Kid == "" {
		return ErrMissingKeyID
	}

	if key.D != "" {
		return fmt.Errorf("%w: kid %s", ErrPrivateMaterial, key.Kid)
	}

	if _, err := key.PublicKey(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.keys, func(k edkey.JWK) bool { return k.Kid == key.Kid })
	if idx >= 0 {
		s.keys[idx] = key
		return nil
	}

	s.keys = append(s.keys, key)

	return nil
}

// AddPrivateKey publishes the public half of key under kid.
func (s *Set) AddPrivateKey(kid string, key edkey.PrivateKey) error {
	jwk, err := edkey.PublicJWK(key, kid)
	if err != nil {
		return err
	}

	return s.Add(jwk)
}

// Remove drops the key with the given kid. It reports whether a key was
// removed.
func (s *Set) Remove(kid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.keys)
	s.keys = slices.DeleteFunc(s.keys, func(k edkey.JWK) bool { return k.Kid == kid })

	return len(s.keys) != before
}

// Find returns the key with the given kid.
func (s *Set) Find(kid string) (edkey.JWK, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, k := range s.keys {
		if k.Kid == kid {
			return k, nil
		}
	}

	return edkey.JWK{}, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
}

// Keys returns a copy of the stored keys.
func (s *Set) Keys() []edkey.JWK {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.keys)
}

// Len returns the number of stored keys.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.keys)
}

// MarshalJSON encodes the set as {"keys":[...]}.
func (s *Set) MarshalJSON() ([]byte, error) {
	keys := s.Keys()
	if keys == nil {
		keys = []edkey.JWK{}
	}

	return json.Marshal(document{Keys: keys})
}

// UnmarshalJSON replaces the contents of the set. Every key is validated
// as if passed to Add.
func (s *Set) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	fresh, err := NewSet(doc.Keys...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.keys = fresh.keys
	s.mu.Unlock()

	return nil
}

// Resolver returns an httpsig.KeyResolver backed by the set. The lookup
// happens per request, so keys added later are honoured.
func (s *Set) Resolver() httpsig.KeyResolver {
	return func(_ httpsig.Request, keyID string) (httpsig.Verifier, error) {
		jwk, err := s.Find(keyID)
		if err != nil {
			return nil, err
		}

		pub, err := jwk.PublicKey()
		if err != nil {
			return nil, err
		}

		return httpsig.NewEd25519Verifier(keyID, pub)
	}
}
