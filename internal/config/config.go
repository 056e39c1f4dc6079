// Package config holds the runtime configuration and its validation.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ShaoG-R/seal-flow/pkg/aead"
)

// Suffixes configures the filename suffix handling for both directions.
type Suffixes struct {
	// Encrypt is appended to encrypted output files.
	Encrypt string `mapstructure:"encrypt-ext"`
	// Decrypt is appended to decrypted output files after stripping Encrypt.
	Decrypt string `mapstructure:"decrypt-ext"`
}

// Config is the full runtime configuration, populated from flags and
// environment variables.
type Config struct {
	// Key is the hex-encoded master key.
	Key string `mapstructure:"key" validate:"required_without=KeyFile,excluded_with=KeyFile,omitempty,hexadecimal"`
	// KeyFile is a path to a file holding the hex-encoded master key.
	KeyFile string `mapstructure:"key-file"`

	// Algorithm selects the AEAD construction for encryption.
	Algorithm string `mapstructure:"algorithm" validate:"oneof=aes256-gcm chacha20-poly1305 xchacha20-poly1305"`
	// ChunkSize is the plaintext bytes per encrypted chunk.
	ChunkSize int `mapstructure:"chunk-size" validate:"gt=0,lte=16777216"`

	// Parallel bounds the number of files processed concurrently.
	Parallel int `mapstructure:"parallel" validate:"gt=0"`

	Quiet              bool `mapstructure:"quiet"`
	Delete             bool `mapstructure:"delete"`
	Stats              bool `mapstructure:"stats"`
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	// Decrypt switches the processor direction; set by the subcommand.
	Decrypt bool `mapstructure:"-"`

	Suffixes Suffixes `mapstructure:",squash"`

	// Include/Exclude are find -path style glob patterns applied while
	// walking directories.
	Include     []string `mapstructure:"include"`
	Exclude     []string `mapstructure:"exclude"`
	IncludeFrom string   `mapstructure:"include-from"`
	ExcludeFrom string   `mapstructure:"exclude-from"`

	// Files are the positional arguments: files taken as-is, directories
	// walked and filtered.
	Files []string `mapstructure:"-" validate:"min=1"`
}

// Validate checks the configuration against the struct tags and the key
// material constraints.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	key, err := c.MasterKey()
	if err != nil {
		return err
	}

	algorithm, err := aead.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}

	if len(key) != algorithm.KeySize() {
		return fmt.Errorf("key must be %d bytes (%d hex characters), got %d bytes",
			algorithm.KeySize(), algorithm.KeySize()*2, len(key))
	}

	return nil
}

// MasterKey resolves the raw master key bytes from --key or --key-file.
func (c *Config) MasterKey() ([]byte, error) {
	encoded := c.Key

	if c.KeyFile != "" {
		data, err := os.ReadFile(c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}

		encoded = strings.TrimSpace(string(data))
	}

	key, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding key: %w", err)
	}

	return key, nil
}
