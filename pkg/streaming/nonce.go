package streaming

import "encoding/binary"

// chunkIndexSize is the number of trailing nonce bytes the counter occupies.
const chunkIndexSize = 8

// deriveNonce combines the per-stream base nonce with a chunk index by XORing
// the big-endian 64-bit index into the trailing bytes of the base nonce.
//
// For a fixed base nonce the mapping is injective over the full uint64 range,
// so no two chunks of one stream ever share a nonce. The scheme is fixed for
// format version 1; changing it breaks every existing stream.
//
// dst must be len(base) bytes, base must be at least chunkIndexSize bytes.
// Every supported algorithm uses 12- or 24-byte nonces.
func deriveNonce(dst, base []byte, index uint64) []byte {
	copy(dst, base)

	tail := dst[len(dst)-chunkIndexSize:]
	binary.BigEndian.PutUint64(tail, binary.BigEndian.Uint64(tail)^index)

	return dst
}
