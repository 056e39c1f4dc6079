package streaming

import "errors"

var (
	// ErrInvalidParams is returned when stream parameters are malformed.
	ErrInvalidParams = errors.New("invalid stream parameters")
	// ErrKeyMismatch is returned when the key's algorithm does not match the
	// stream's configured algorithm.
	ErrKeyMismatch = errors.New("key algorithm does not match stream algorithm")
	// ErrAuthentication is returned when a chunk fails tag verification.
	// The stream is unusable afterward; no plaintext from the failing chunk
	// or beyond is ever surfaced.
	ErrAuthentication = errors.New("chunk authentication failed")
	// ErrTruncated is returned when the stream ends inside a frame, leaving
	// a remainder too short to carry an authentication tag.
	ErrTruncated = errors.New("truncated stream")
	// ErrClosed is returned when writing to an encryptor after Close.
	ErrClosed = errors.New("write after close")
)
