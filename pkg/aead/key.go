package aead

import (
	"crypto/cipher"
	"errors"
	"fmt"
)

var (
	// ErrUnknownAlgorithm is returned for algorithm ids or names outside the registry.
	ErrUnknownAlgorithm = errors.New("unknown AEAD algorithm")
	// ErrKeySize is returned when raw key material has the wrong length.
	ErrKeySize = errors.New("invalid key size")
)

// Key binds raw key material to the algorithm it was generated for.
// A Key can only be used with streams configured for the same algorithm.
type Key struct {
	algorithm Algorithm
	bytes     []byte
}

// NewKey wraps raw key material for the given algorithm.
// The bytes are copied; the caller keeps ownership of raw.
func NewKey(algorithm Algorithm, raw []byte) (Key, error) {
	if !algorithm.Valid() {
		return Key{}, fmt.Errorf("%w: id %d", ErrUnknownAlgorithm, uint8(algorithm))
	}

	if len(raw) != algorithm.KeySize() {
		return Key{}, fmt.Errorf("%w: %s requires %d bytes, got %d",
			ErrKeySize, algorithm, algorithm.KeySize(), len(raw))
	}

	material := make([]byte, len(raw))
	copy(material, raw)

	return Key{algorithm: algorithm, bytes: material}, nil
}

// Algorithm returns the algorithm the key belongs to.
func (k Key) Algorithm() Algorithm {
	return k.algorithm
}

// Bytes returns the raw key material. The returned slice is shared; callers
// must not modify it.
func (k Key) Bytes() []byte {
	return k.bytes
}

// AEAD constructs the cipher.AEAD primitive for the key.
func (k Key) AEAD() (cipher.AEAD, error) {
	return k.algorithm.New(k.bytes)
}
