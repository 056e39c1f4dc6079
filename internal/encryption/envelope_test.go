package encryption

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ShaoG-R/seal-flow/pkg/aead"
)

func testEnvelope() envelope {
	salt := make([]byte, saltSize)
	for i := range salt {
		salt[i] = byte(i)
	}

	baseNonce := make([]byte, aead.XChaCha20Poly1305.NonceSize())
	for i := range baseNonce {
		baseNonce[i] = byte(0x40 + i)
	}

	return envelope{
		algorithm:  aead.XChaCha20Poly1305,
		chunkSize:  64 * 1024,
		executable: true,
		salt:       salt,
		baseNonce:  baseNonce,
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := testEnvelope()
	header := env.marshal()

	parsed, headerBytes, err := readEnvelope(bytes.NewReader(header))
	if err != nil {
		t.Fatalf("reading envelope: %v", err)
	}

	if !bytes.Equal(headerBytes, header) {
		t.Error("returned header bytes differ from the serialized form")
	}

	if parsed.algorithm != env.algorithm {
		t.Errorf("algorithm = %v, want %v", parsed.algorithm, env.algorithm)
	}

	if parsed.chunkSize != env.chunkSize {
		t.Errorf("chunk size = %d, want %d", parsed.chunkSize, env.chunkSize)
	}

	if !parsed.executable {
		t.Error("executable flag lost")
	}

	if !bytes.Equal(parsed.salt, env.salt) {
		t.Error("salt mismatch")
	}

	if !bytes.Equal(parsed.baseNonce, env.baseNonce) {
		t.Error("base nonce mismatch")
	}
}

func TestReadEnvelopeRejectsMalformedHeaders(t *testing.T) {
	valid := testEnvelope().marshal()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{name: "bad magic", mutate: func(h []byte) []byte {
			h[0] = 'X'

			return h
		}},
		{name: "unsupported version", mutate: func(h []byte) []byte {
			h[len(envelopeMagic)] = 99

			return h
		}},
		{name: "unknown algorithm", mutate: func(h []byte) []byte {
			h[len(envelopeMagic)+2] = 0xEE

			return h
		}},
		{name: "zero chunk size", mutate: func(h []byte) []byte {
			copy(h[fixedHeaderSize-4:fixedHeaderSize], []byte{0, 0, 0, 0})

			return h
		}},
		{name: "oversized chunk", mutate: func(h []byte) []byte {
			copy(h[fixedHeaderSize-4:fixedHeaderSize], []byte{0xFF, 0xFF, 0xFF, 0xFF})

			return h
		}},
		{name: "truncated fixed header", mutate: func(h []byte) []byte {
			return h[:4]
		}},
		{name: "truncated salt and nonce", mutate: func(h []byte) []byte {
			return h[:fixedHeaderSize+5]
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			header := tc.mutate(append([]byte(nil), valid...))

			if _, _, err := readEnvelope(bytes.NewReader(header)); !errors.Is(err, ErrProcessing) {
				t.Fatalf("error = %v, want ErrProcessing", err)
			}
		})
	}
}

func TestDeriveStreamKey(t *testing.T) {
	master := bytes.Repeat([]byte{0x11}, 32)
	saltA := bytes.Repeat([]byte{0xAA}, saltSize)
	saltB := bytes.Repeat([]byte{0xBB}, saltSize)

	keyA1, err := deriveStreamKey(master, aead.AES256GCM, saltA)
	if err != nil {
		t.Fatalf("deriving key: %v", err)
	}

	keyA2, err := deriveStreamKey(master, aead.AES256GCM, saltA)
	if err != nil {
		t.Fatalf("deriving key: %v", err)
	}

	if !bytes.Equal(keyA1.Bytes(), keyA2.Bytes()) {
		t.Error("derivation is not deterministic")
	}

	keyB, err := deriveStreamKey(master, aead.AES256GCM, saltB)
	if err != nil {
		t.Fatalf("deriving key: %v", err)
	}

	if bytes.Equal(keyA1.Bytes(), keyB.Bytes()) {
		t.Error("different salts derived the same key")
	}

	keyOther, err := deriveStreamKey(master, aead.ChaCha20Poly1305, saltA)
	if err != nil {
		t.Fatalf("deriving key: %v", err)
	}

	if bytes.Equal(keyA1.Bytes(), keyOther.Bytes()) {
		t.Error("different algorithms derived the same key material")
	}
}

func TestReadEnvelopeEmptyStream(t *testing.T) {
	_, _, err := readEnvelope(bytes.NewReader(nil))
	if !errors.Is(err, ErrProcessing) || !errors.Is(err, io.EOF) {
		t.Fatalf("error = %v, want ErrProcessing wrapping EOF", err)
	}
}
