package encryption

// Result carries the outcome of processing a single file to the printer
// goroutine.
type Result struct {
	// Input is the source file path.
	Input string
	// Output is the written file path, empty on failure.
	Output string
	// OutputSize is the size of the written file in bytes.
	OutputSize int64
	// Error is the failure, if any.
	Error error
}
