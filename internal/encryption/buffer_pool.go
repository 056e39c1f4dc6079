package encryption

import (
	"fmt"
	"io"
	"sync"
)

const copyBufferSize = 32 * 1024

// copyBuffers pools the buffers used to stream file contents through the
// encryptor/decryptor, shared across the parallel workers.
//
//nolint:gochecknoglobals
var copyBuffers = sync.Pool{
	New: func() any {
		return make([]byte, copyBufferSize)
	},
}

// copyPooled copies src to dst through a pooled buffer.
func copyPooled(dst io.Writer, src io.Reader) error {
	buf, ok := copyBuffers.Get().([]byte)
	if !ok {
		return fmt.Errorf("%w: invalid buffer type from pool", ErrProcessing)
	}

	defer copyBuffers.Put(buf) //nolint:staticcheck

	if _, err := io.CopyBuffer(dst, src, buf); err != nil {
		return err //nolint:wrapcheck // callers add the direction context
	}

	return nil
}
