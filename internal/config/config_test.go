package config_test

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/ShaoG-R/seal-flow/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Key:       hex.EncodeToString(bytes.Repeat([]byte{0x24}, 32)),
		Algorithm: "aes256-gcm",
		ChunkSize: 64 * 1024,
		Parallel:  4,
		Files:     []string{"file.txt"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "missing key", mutate: func(c *config.Config) { c.Key = "" }, wantErr: true},
		{name: "key and key file", mutate: func(c *config.Config) { c.KeyFile = "some/path" }, wantErr: true},
		{name: "non-hex key", mutate: func(c *config.Config) { c.Key = "zz" }, wantErr: true},
		{name: "short key", mutate: func(c *config.Config) { c.Key = "abcd" }, wantErr: true},
		{name: "unknown algorithm", mutate: func(c *config.Config) { c.Algorithm = "des" }, wantErr: true},
		{name: "zero chunk size", mutate: func(c *config.Config) { c.ChunkSize = 0 }, wantErr: true},
		{name: "oversized chunk", mutate: func(c *config.Config) { c.ChunkSize = 1 << 30 }, wantErr: true},
		{name: "zero parallel", mutate: func(c *config.Config) { c.Parallel = 0 }, wantErr: true},
		{name: "no files", mutate: func(c *config.Config) { c.Files = nil }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestMasterKeyFromFile(t *testing.T) {
	raw := bytes.Repeat([]byte{0x77}, 32)

	path := filepath.Join(t.TempDir(), "master.key")
	if err := os.WriteFile(path, []byte(hex.EncodeToString(raw)+"\n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	cfg := validConfig()
	cfg.Key = ""
	cfg.KeyFile = path

	key, err := cfg.MasterKey()
	if err != nil {
		t.Fatalf("resolving key: %v", err)
	}

	if !bytes.Equal(key, raw) {
		t.Error("key from file mismatches source material")
	}
}

func TestMasterKeyFileOverridesInline(t *testing.T) {
	fromFile := bytes.Repeat([]byte{0xAB}, 32)

	path := filepath.Join(t.TempDir(), "master.key")
	if err := os.WriteFile(path, []byte(hex.EncodeToString(fromFile)), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	cfg := validConfig()
	cfg.KeyFile = path

	key, err := cfg.MasterKey()
	if err != nil {
		t.Fatalf("resolving key: %v", err)
	}

	if !bytes.Equal(key, fromFile) {
		t.Error("key file should take precedence when set")
	}
}
