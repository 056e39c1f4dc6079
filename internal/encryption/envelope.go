package encryption

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/ShaoG-R/seal-flow/pkg/aead"
)

const (
	envelopeMagic    = "SEAL"
	envelopeVersion  = byte(1)
	envelopeFlagExec = 0x01

	// saltSize is the per-file HKDF salt length.
	saltSize = 16

	// maxChunkSize bounds the chunk size accepted from a header, so a
	// corrupt or hostile header cannot force an oversized allocation.
	maxChunkSize = 16 << 20

	// fixedHeaderSize covers magic, version, flags, algorithm id, and the
	// big-endian chunk size. The salt and base nonce follow.
	fixedHeaderSize = len(envelopeMagic) + 3 + 4
)

// ErrProcessing indicates an error while reading or writing the envelope.
var ErrProcessing = errors.New("envelope processing error")

// envelope is the container header written ahead of the encrypted stream.
// Its serialized form doubles as the AAD for every chunk, binding the
// ciphertext to the parameters that produced it.
type envelope struct {
	algorithm  aead.Algorithm
	chunkSize  uint32
	executable bool
	salt       []byte
	baseNonce  []byte
}

// marshal serializes the envelope header.
func (e envelope) marshal() []byte {
	header := make([]byte, 0, fixedHeaderSize+len(e.salt)+len(e.baseNonce))

	header = append(header, envelopeMagic...)
	header = append(header, envelopeVersion)

	var flags byte
	if e.executable {
		flags |= envelopeFlagExec
	}

	header = append(header, flags, byte(e.algorithm))
	header = binary.BigEndian.AppendUint32(header, e.chunkSize)
	header = append(header, e.salt...)
	header = append(header, e.baseNonce...)

	return header
}

// readEnvelope parses the container header from the start of an encrypted
// stream and returns it together with the exact serialized bytes, which the
// caller needs as the stream AAD.
func readEnvelope(r io.Reader) (envelope, []byte, error) {
	fixed := make([]byte, fixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return envelope{}, nil, fmt.Errorf("%w: reading header: %w", ErrProcessing, err)
	}

	if !bytes.Equal(fixed[:len(envelopeMagic)], []byte(envelopeMagic)) {
		return envelope{}, nil, fmt.Errorf("%w: invalid magic", ErrProcessing)
	}

	version := fixed[len(envelopeMagic)]
	if version != envelopeVersion {
		return envelope{}, nil, fmt.Errorf("%w: unsupported version %d", ErrProcessing, version)
	}

	flags := fixed[len(envelopeMagic)+1]

	algorithm := aead.Algorithm(fixed[len(envelopeMagic)+2])
	if !algorithm.Valid() {
		return envelope{}, nil, fmt.Errorf("%w: unsupported algorithm id %d",
			ErrProcessing, fixed[len(envelopeMagic)+2])
	}

	chunkSize := binary.BigEndian.Uint32(fixed[fixedHeaderSize-4:])
	if chunkSize == 0 || chunkSize > maxChunkSize {
		return envelope{}, nil, fmt.Errorf("%w: chunk size %d out of range", ErrProcessing, chunkSize)
	}

	variable := make([]byte, saltSize+algorithm.NonceSize())
	if _, err := io.ReadFull(r, variable); err != nil {
		return envelope{}, nil, fmt.Errorf("%w: reading salt and nonce: %w", ErrProcessing, err)
	}

	env := envelope{
		algorithm:  algorithm,
		chunkSize:  chunkSize,
		executable: flags&envelopeFlagExec != 0,
		salt:       variable[:saltSize],
		baseNonce:  variable[saltSize:],
	}

	return env, append(fixed, variable...), nil
}

// deriveStreamKey derives the per-file stream key from the master key and the
// envelope's salt. Each file gets a fresh (key, base nonce) pair, so nonce
// reuse across files sharing one master key cannot occur.
func deriveStreamKey(master []byte, algorithm aead.Algorithm, salt []byte) (aead.Key, error) {
	info := []byte("seal-flow/v1/" + algorithm.String())

	derived := make([]byte, algorithm.KeySize())
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, salt, info), derived); err != nil {
		return aead.Key{}, fmt.Errorf("deriving stream key: %w", err)
	}

	return aead.NewKey(algorithm, derived)
}
