// Package output writes a generated file to its destination without leaving a
// partially written file behind.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrDestinationExists is returned when the destination exists and Overwrite is off.
	ErrDestinationExists = errors.New("destination file already exists")
)

// Options configures WriteFile.
type Options struct {
	// Overwrite replaces an existing destination.
	Overwrite bool

	// Perm is the mode of a newly created file. Zero means 0o644.
	Perm os.FileMode
}

// WriteError is returned when the destination cannot be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteFile creates path and fills it with the output of fn.
//
// It will:
// - Create the destination directory if it doesn't exist
// - Never overwrite an existing file (unless Overwrite is true)
// - Leave no partial file at path if fn or any write fails
//
// With Overwrite, content is staged in a temporary file next to path and renamed
// into place, so an existing destination is only replaced once fully written.
func WriteFile(path string, opts Options, fn func(w io.Writer) error) error {
	if err := writeFile(path, opts, fn); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func writeFile(path string, opts Options, fn func(w io.Writer) error) error {
	perm := opts.Perm
	if perm == 0 {
		perm = 0o644
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if !opts.Overwrite {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err != nil {
			if os.IsExist(err) {
				return ErrDestinationExists
			}
			return fmt.Errorf("create destination: %w", err)
		}
		if err := fill(f, fn); err != nil {
			_ = os.Remove(path)
			return err
		}
		return nil
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	if err := fill(f, fn); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// fill runs fn against f, syncs and closes it. f is always closed.
func fill(f *os.File, fn func(w io.Writer) error) error {
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}

	// Ensure data is written to disk
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
