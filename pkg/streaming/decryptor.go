package streaming

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"io"

	"github.com/ShaoG-R/seal-flow/pkg/aead"
)

// Decryptor reads ciphertext+tag frames from the underlying source,
// authenticates each one, and exposes the recovered plaintext as an
// io.Reader. Any authentication or framing failure is terminal: the error is
// sticky and no plaintext at or beyond the failing chunk is ever returned.
type Decryptor struct {
	r         io.Reader
	primitive cipher.AEAD

	frameSize int
	baseNonce []byte
	aad       []byte

	frame []byte
	nonce []byte

	// plain holds the current decrypted chunk, off the read cursor into it.
	plain []byte
	off   int

	index uint64
	done  bool
	err   error
}

var _ io.Reader = (*Decryptor)(nil)

// NewDecryptor starts a decrypting stream reading frames from r.
// The parameters must be identical to the ones the stream was encrypted with.
func NewDecryptor(r io.Reader, key aead.Key, params Params) (*Decryptor, error) {
	if err := params.validate(key); err != nil {
		return nil, err
	}

	primitive, err := key.AEAD()
	if err != nil {
		return nil, fmt.Errorf("creating AEAD primitive: %w", err)
	}

	frameSize := params.ChunkSize + primitive.Overhead()

	return &Decryptor{
		r:         r,
		primitive: primitive,
		frameSize: frameSize,
		baseNonce: params.BaseNonce,
		aad:       params.AAD,
		frame:     make([]byte, frameSize),
		nonce:     make([]byte, primitive.NonceSize()),
		plain:     make([]byte, 0, params.ChunkSize),
	}, nil
}

// Read implements io.Reader. It serves buffered plaintext first and pulls,
// authenticates, and buffers exactly one frame from the source when the
// buffer runs dry. A caller reading in pieces smaller than one chunk is
// served across multiple calls without touching the source.
func (d *Decryptor) Read(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}

	if d.off < len(d.plain) {
		n := copy(p, d.plain[d.off:])
		d.off += n

		return n, nil
	}

	if d.done {
		return 0, io.EOF
	}

	total, err := d.fillFrame()
	if err != nil {
		return 0, err
	}

	if total == 0 {
		// Clean end of stream: the source ended exactly on a frame boundary.
		return 0, io.EOF
	}

	if err := d.openFrame(total); err != nil {
		d.err = err

		return 0, err
	}

	n := copy(p, d.plain)
	d.off = n

	return n, nil
}

// fillFrame accumulates up to one full frame from the source, looping over
// short reads. End-of-input sets the terminal flag and returns however many
// bytes were gathered; source errors propagate verbatim and poison the
// stream.
func (d *Decryptor) fillFrame() (int, error) {
	total := 0

	for total < d.frameSize {
		n, err := d.r.Read(d.frame[total:])
		total += n

		if err != nil {
			if errors.Is(err, io.EOF) {
				d.done = true

				break
			}

			d.err = fmt.Errorf("reading frame %d: %w", d.index, err)

			return 0, d.err
		}
	}

	return total, nil
}

// openFrame authenticates and decrypts one accumulated frame. A frame
// shorter than the full frame size is only legal as the stream's final
// chunk, and even then must be long enough to carry a tag.
func (d *Decryptor) openFrame(size int) error {
	if size < d.primitive.Overhead() {
		return fmt.Errorf("chunk %d: %d trailing bytes: %w", d.index, size, ErrTruncated)
	}

	nonce := deriveNonce(d.nonce, d.baseNonce, d.index)

	plain, err := d.primitive.Open(d.plain[:0], nonce, d.frame[:size], d.aad)
	if err != nil {
		return fmt.Errorf("chunk %d: %w", d.index, ErrAuthentication)
	}

	d.plain = plain
	d.off = 0
	d.index++

	return nil
}
