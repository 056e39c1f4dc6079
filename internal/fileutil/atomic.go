// Package fileutil provides atomic output-file helpers shared by the
// processing pipeline.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const executableBits = 0o111

// Staged is an output file being written under a temporary name, renamed
// into place only on success.
type Staged struct {
	// Src describes the source file the output is derived from.
	Src os.FileInfo
	// Exec reports whether the source had any execute bit set.
	Exec bool
	// File is the open temporary file to write to.
	File *os.File
	// Path is the temporary file's name.
	Path string
}

// Stage stats the source file and opens a temporary file next to outPath so
// the final rename never crosses filesystems. Caller must defer
// DiscardOnError.
func Stage(source, outPath string) (*Staged, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", source, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &Staged{
		Src:  info,
		Exec: info.Mode()&executableBits != 0,
		File: tmp,
		Path: tmp.Name(),
	}, nil
}

// Commit sets permissions, closes the temporary file, and renames it to
// outPath.
func (s *Staged) Commit(outPath string, executable bool) error {
	const ownerReadWrite = 0o600

	perm := os.FileMode(ownerReadWrite)

	if executable {
		perm |= executableBits
	}

	if err := os.Chmod(s.Path, perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := s.File.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(s.Path, outPath); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	return nil
}

// DiscardOnError closes the temporary file and removes it if the surrounding
// operation failed.
func (s *Staged) DiscardOnError(errp *error) {
	s.File.Close() //nolint:gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(s.Path) //nolint:gosec // best-effort cleanup
	}
}

// Finalize optionally restores the source timestamps on outPath and returns
// the output file size.
func Finalize(outPath string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps {
		if err := os.Chtimes(outPath, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return info.Size(), nil
}
