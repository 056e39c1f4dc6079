package streaming

import (
	"crypto/cipher"
	"fmt"
	"io"

	"github.com/ShaoG-R/seal-flow/pkg/aead"
)

// Encryptor splits a plaintext stream into chunks and writes one
// ciphertext+tag frame per chunk to the underlying sink.
//
// Close seals the trailing partial chunk and must be called on every exit
// path; dropping an Encryptor without Close silently discards any buffered
// plaintext shorter than one chunk.
type Encryptor struct {
	w         io.Writer
	primitive cipher.AEAD

	chunkSize int
	baseNonce []byte
	aad       []byte

	// buf holds plaintext not yet forming a full chunk; len(buf) < chunkSize
	// between Write calls.
	buf    []byte
	sealed []byte
	nonce  []byte

	index  uint64
	closed bool
}

var _ io.WriteCloser = (*Encryptor)(nil)

// NewEncryptor starts an encrypting stream writing frames to w.
// It fails before any bytes are processed if the key's algorithm does not
// match params.Algorithm or the parameters are malformed.
func NewEncryptor(w io.Writer, key aead.Key, params Params) (*Encryptor, error) {
	if err := params.validate(key); err != nil {
		return nil, err
	}

	primitive, err := key.AEAD()
	if err != nil {
		return nil, fmt.Errorf("creating AEAD primitive: %w", err)
	}

	return &Encryptor{
		w:         w,
		primitive: primitive,
		chunkSize: params.ChunkSize,
		baseNonce: params.BaseNonce,
		aad:       params.AAD,
		buf:       make([]byte, 0, params.ChunkSize),
		sealed:    make([]byte, 0, params.ChunkSize+primitive.Overhead()),
		nonce:     make([]byte, primitive.NonceSize()),
	}, nil
}

// Write implements io.Writer, sealing a frame every time a full chunk of
// plaintext is available. The whole input is always consumed; full chunks are
// sealed directly from p without an intermediate copy.
func (e *Encryptor) Write(p []byte) (int, error) {
	if e.closed {
		return 0, ErrClosed
	}

	total := len(p)

	if len(e.buf) > 0 {
		fill := min(e.chunkSize-len(e.buf), len(p))
		e.buf = append(e.buf, p[:fill]...)
		p = p[fill:]

		if len(e.buf) == e.chunkSize {
			if err := e.sealChunk(e.buf); err != nil {
				return 0, err
			}

			e.buf = e.buf[:0]
		}
	}

	for len(p) >= e.chunkSize {
		if err := e.sealChunk(p[:e.chunkSize]); err != nil {
			return 0, err
		}

		p = p[e.chunkSize:]
	}

	e.buf = append(e.buf, p...)

	return total, nil
}

// Close seals any buffered trailing plaintext as a final short chunk and
// flushes the sink if it supports flushing. The Encryptor is unusable
// afterward; further Writes return ErrClosed. Close is idempotent.
func (e *Encryptor) Close() error {
	if e.closed {
		return nil
	}

	e.closed = true

	if len(e.buf) > 0 {
		if err := e.sealChunk(e.buf); err != nil {
			return err
		}

		e.buf = e.buf[:0]
	}

	if flusher, ok := e.w.(interface{ Flush() error }); ok {
		if err := flusher.Flush(); err != nil {
			return fmt.Errorf("flushing sink: %w", err)
		}
	}

	return nil
}

// sealChunk encrypts one chunk under the nonce for the current index and
// writes the resulting frame. The index only advances after a successful
// sink write so ordering stays strictly sequential.
func (e *Encryptor) sealChunk(chunk []byte) error {
	nonce := deriveNonce(e.nonce, e.baseNonce, e.index)

	frame := e.primitive.Seal(e.sealed[:0], nonce, chunk, e.aad)

	if _, err := e.w.Write(frame); err != nil {
		return fmt.Errorf("writing frame %d: %w", e.index, err)
	}

	e.index++

	return nil
}
