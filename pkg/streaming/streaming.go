// Package streaming implements chunked authenticated encryption over ordinary
// byte streams.
//
// Plaintext is split into fixed-size chunks, each sealed independently with a
// nonce derived from a per-stream base nonce and a monotonically increasing
// chunk counter. The Encryptor is an io.WriteCloser that emits
// ciphertext+tag frames; the Decryptor is an io.Reader that authenticates and
// reassembles them. Neither holds more than one chunk in memory, so streams of
// arbitrary length can be processed.
//
// Callers supply the framing parameters (typically read from a container
// header) and a typed key; the package chooses nothing on its own.
package streaming

import (
	"fmt"

	"github.com/ShaoG-R/seal-flow/pkg/aead"
)

// Params are the fixed framing parameters of one stream. They are immutable
// for the stream's lifetime and must be identical on both ends.
type Params struct {
	// Algorithm selects the AEAD construction; it must match the key.
	Algorithm aead.Algorithm

	// ChunkSize is the plaintext bytes per chunk. Every emitted frame is
	// ChunkSize+TagSize bytes except possibly the last.
	ChunkSize int

	// BaseNonce is the per-stream random nonce the per-chunk nonces are
	// derived from. Its length must equal the algorithm's nonce size.
	BaseNonce []byte

	// AAD is optional additional authenticated data, passed unchanged to
	// every chunk. Nil and empty are equivalent.
	AAD []byte
}

// validate checks the parameters against the key before any bytes move.
func (p Params) validate(key aead.Key) error {
	if !p.Algorithm.Valid() {
		return fmt.Errorf("%w: algorithm id %d", ErrInvalidParams, uint8(p.Algorithm))
	}

	if key.Algorithm() != p.Algorithm {
		return fmt.Errorf("%w: key is %s, stream is %s", ErrKeyMismatch, key.Algorithm(), p.Algorithm)
	}

	if p.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size %d", ErrInvalidParams, p.ChunkSize)
	}

	if len(p.BaseNonce) != p.Algorithm.NonceSize() {
		return fmt.Errorf("%w: base nonce is %d bytes, %s requires %d",
			ErrInvalidParams, len(p.BaseNonce), p.Algorithm, p.Algorithm.NonceSize())
	}

	return nil
}
