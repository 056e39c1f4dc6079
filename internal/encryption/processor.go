package encryption

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ShaoG-R/seal-flow/internal/config"
	"github.com/ShaoG-R/seal-flow/internal/fileutil"
	"github.com/ShaoG-R/seal-flow/pkg/aead"
	"github.com/ShaoG-R/seal-flow/pkg/streaming"
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// algorithm is the AEAD construction used when encrypting; on decrypt
	// the envelope header decides
	algorithm aead.Algorithm

	// master stores the raw master key bytes
	master []byte

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a new Processor with the given configuration.
func NewProcessor(cfg *config.Config) (*Processor, error) {
	master, err := cfg.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	algorithm, err := aead.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	if len(master) != algorithm.KeySize() {
		return nil, fmt.Errorf("key must be %d bytes (%d hex characters)",
			algorithm.KeySize(), algorithm.KeySize()*2)
	}

	return &Processor{
		cfg:       cfg,
		algorithm: algorithm,
		master:    master,
		results:   make(chan Result, len(cfg.Files)),
	}, nil
}

// ProcessFiles concurrently processes all files specified in the
// configuration. Returns the number of successfully processed files, the
// number of errors, and the total output size.
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error)
			} else {
				processed++

				totalSize += result.OutputSize

				if !p.cfg.Quiet {
					fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
				}
			}

			if p.cfg.Delete && result.Error == nil {
				if err := os.Remove(result.Input); err != nil {
					fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", result.Input, err)
				} else if !p.cfg.Quiet {
					fmt.Printf("Deleted %q\n", result.Input) //nolint:forbidigo
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		file := file
		group.Go(func() error {
			outPath := p.outputPath(file)

			size, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// Encrypt writes a fresh envelope header to writer and streams reader through
// a chunked encryptor. The header authenticates every chunk as AAD.
func (p *Processor) Encrypt(reader io.Reader, writer io.Writer, executable bool) error {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}

	baseNonce := make([]byte, p.algorithm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, baseNonce); err != nil {
		return fmt.Errorf("generating base nonce: %w", err)
	}

	env := envelope{
		algorithm:  p.algorithm,
		chunkSize:  uint32(p.cfg.ChunkSize), //nolint:gosec // validated to be positive and bounded
		executable: executable,
		salt:       salt,
		baseNonce:  baseNonce,
	}

	header := env.marshal()
	if _, err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	key, err := deriveStreamKey(p.master, p.algorithm, salt)
	if err != nil {
		return err
	}

	enc, err := streaming.NewEncryptor(writer, key, streaming.Params{
		Algorithm: p.algorithm,
		ChunkSize: p.cfg.ChunkSize,
		BaseNonce: baseNonce,
		AAD:       header,
	})
	if err != nil {
		return fmt.Errorf("starting encryptor: %w", err)
	}

	if err := copyPooled(enc, reader); err != nil {
		return fmt.Errorf("encrypting stream: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("sealing final chunk: %w", err)
	}

	return nil
}

// Decrypt parses the envelope header from reader and streams the chunked
// ciphertext through an authenticating decryptor into writer. It returns
// whether the original file was executable.
func (p *Processor) Decrypt(reader io.Reader, writer io.Writer) (bool, error) {
	env, header, err := readEnvelope(reader)
	if err != nil {
		return false, err
	}

	key, err := deriveStreamKey(p.master, env.algorithm, env.salt)
	if err != nil {
		return false, err
	}

	dec, err := streaming.NewDecryptor(reader, key, streaming.Params{
		Algorithm: env.algorithm,
		ChunkSize: int(env.chunkSize),
		BaseNonce: env.baseNonce,
		AAD:       header,
	})
	if err != nil {
		return false, fmt.Errorf("starting decryptor: %w", err)
	}

	if err := copyPooled(writer, dec); err != nil {
		return false, fmt.Errorf("decrypting stream: %w", err)
	}

	return env.executable, nil
}

// processFile handles the encryption or decryption of a single file.
// It creates a temporary file for output and performs an atomic rename on
// completion.
func (p *Processor) processFile(filename, outPath string) (size int64, err error) {
	staged, err := fileutil.Stage(filename, outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer staged.DiscardOnError(&err)

	inFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return 0, fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	executable := staged.Exec

	if p.cfg.Decrypt {
		executable, err = p.Decrypt(inFile, staged.File)
		if err != nil {
			return 0, fmt.Errorf("decrypting file: %w", err)
		}
	} else {
		if err := p.Encrypt(inFile, staged.File, staged.Exec); err != nil {
			return 0, fmt.Errorf("encrypting file: %w", err)
		}
	}

	if err := inFile.Close(); err != nil {
		return 0, fmt.Errorf("closing input file: %w", err)
	}

	if err := staged.Commit(outPath, executable); err != nil {
		return 0, err
	}

	size, err = fileutil.Finalize(outPath, p.cfg.PreserveTimestamps, staged.Src.ModTime())
	if err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	return size, nil
}

// outputPath generates the output file path based on the input filename and
// the configured suffixes.
func (p *Processor) outputPath(filename string) string {
	ext := p.cfg.Suffixes.Encrypt

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.Suffixes.Encrypt)
		ext = p.cfg.Suffixes.Decrypt
	}

	return filepath.Join(filepath.Dir(filename),
		filepath.Base(filename)+ext)
}
