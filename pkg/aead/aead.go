// Package aead defines the authenticated-encryption algorithms the streaming
// format can carry and the typed keys that select them.
//
// Every algorithm is exposed through the standard crypto/cipher.AEAD interface
// so callers control the nonce explicitly; nonce management belongs to the
// stream format, not to the primitive.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm identifies an AEAD construction. The numeric values are part of
// the on-disk format and must never be reassigned.
type Algorithm uint8

const (
	// AES256GCM is AES-256 in Galois/Counter Mode (12-byte nonce).
	AES256GCM Algorithm = 1 + iota
	// ChaCha20Poly1305 is the RFC 8439 construction (12-byte nonce).
	ChaCha20Poly1305
	// XChaCha20Poly1305 is the extended-nonce variant (24-byte nonce).
	XChaCha20Poly1305
)

// ParseAlgorithm converts a user-facing algorithm name into an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "aes256-gcm":
		return AES256GCM, nil
	case "chacha20-poly1305":
		return ChaCha20Poly1305, nil
	case "xchacha20-poly1305":
		return XChaCha20Poly1305, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// String returns the user-facing name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AES256GCM:
		return "aes256-gcm"
	case ChaCha20Poly1305:
		return "chacha20-poly1305"
	case XChaCha20Poly1305:
		return "xchacha20-poly1305"
	default:
		return fmt.Sprintf("algorithm(%d)", uint8(a))
	}
}

// Valid reports whether a names a supported algorithm.
func (a Algorithm) Valid() bool {
	switch a {
	case AES256GCM, ChaCha20Poly1305, XChaCha20Poly1305:
		return true
	default:
		return false
	}
}

// KeySize returns the required key length in bytes.
func (a Algorithm) KeySize() int {
	return chacha20poly1305.KeySize // 32 for every supported algorithm
}

// NonceSize returns the nonce length in bytes the algorithm expects.
func (a Algorithm) NonceSize() int {
	if a == XChaCha20Poly1305 {
		return chacha20poly1305.NonceSizeX
	}

	return chacha20poly1305.NonceSize
}

// TagSize returns the authentication tag length in bytes.
func (a Algorithm) TagSize() int {
	return 16
}

// New constructs the cipher.AEAD primitive for the algorithm.
func (a Algorithm) New(key []byte) (cipher.AEAD, error) {
	if len(key) != a.KeySize() {
		return nil, fmt.Errorf("%w: %s requires %d bytes, got %d", ErrKeySize, a, a.KeySize(), len(key))
	}

	switch a {
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("creating AES cipher: %w", err)
		}

		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("creating GCM: %w", err)
		}

		return gcm, nil
	case ChaCha20Poly1305:
		primitive, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("creating ChaCha20-Poly1305: %w", err)
		}

		return primitive, nil
	case XChaCha20Poly1305:
		primitive, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, fmt.Errorf("creating XChaCha20-Poly1305: %w", err)
		}

		return primitive, nil
	default:
		return nil, fmt.Errorf("%w: id %d", ErrUnknownAlgorithm, uint8(a))
	}
}
