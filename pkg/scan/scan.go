package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Options configures List.
type Options struct {
	// Extensions are matched case-insensitively against each file name's final
	// extension. A leading dot is optional.
	Extensions []string
}

// DefaultOptions matches ".jpg" only; ".jpeg" is not included.
func DefaultOptions() Options {
	return Options{
		Extensions: []string{".jpg"},
	}
}

// DirectoryError is returned when the source folder cannot be listed.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("read directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// ErrNotDirectory is wrapped by DirectoryError when root is a file.
var ErrNotDirectory = errors.New("not a directory")

// List returns the names of the regular files directly inside root whose extension
// matches opts. Symbolic links count when they resolve to a regular file.
// Subdirectories are not descended into.
//
// Names are relative to root and returned in directory-listing order, which for
// fs.ReadDir is sorted by file name.
func List(fsys fs.FS, root string, opts Options) ([]string, error) {
	exts := normalizeExts(opts.Extensions)

	info, err := fs.Stat(fsys, root)
	if err != nil {
		return nil, &DirectoryError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &DirectoryError{Path: root, Err: ErrNotDirectory}
	}

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, &DirectoryError{Path: root, Err: err}
	}

	matches := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !exts[strings.ToLower(path.Ext(e.Name()))] {
			continue
		}
		if e.Type()&fs.ModeSymlink != 0 {
			// Follow the link; dangling links and links to directories are dropped.
			info, err := fs.Stat(fsys, path.Join(root, e.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		} else if !e.Type().IsRegular() {
			continue
		}
		matches = append(matches, e.Name())
	}
	return matches, nil
}

func normalizeExts(exts []string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, ext := range exts {
		e := strings.TrimSpace(strings.ToLower(ext))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		m[e] = true
	}
	return m
}
