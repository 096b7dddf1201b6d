// Package batch extracts camera metadata from every JPEG in a folder and writes it as a
// single CSV file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/quidome/exifcsv/pkg/metadata"
	"github.com/quidome/exifcsv/pkg/output"
	"github.com/quidome/exifcsv/pkg/report"
	"github.com/quidome/exifcsv/pkg/scan"
)

// DecodePolicy decides what happens when a file's EXIF data cannot be decoded.
type DecodePolicy int

const (
	// Abort fails the whole run; no CSV is written.
	Abort DecodePolicy = iota
	// Skip logs the file and leaves it out of the output.
	Skip
)

func (p DecodePolicy) String() string {
	switch p {
	case Abort:
		return "abort"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("DecodePolicy(%d)", int(p))
	}
}

// Options configures Run and Export.
type Options struct {
	Scan scan.Options

	// Decoder defaults to metadata.ExifDecoder.
	Decoder metadata.Decoder

	OnDecodeError DecodePolicy

	// Columns defaults to report.DefaultColumns.
	Columns []report.Column

	Output output.Options
}

// DefaultOptions aborts on the first undecodable file and overwrites the destination.
func DefaultOptions() Options {
	return Options{
		Scan:          scan.DefaultOptions(),
		Decoder:       metadata.ExifDecoder(),
		OnDecodeError: Abort,
		Columns:       report.DefaultColumns(),
		Output:        output.Options{Overwrite: true},
	}
}

// Result holds the rows of a run in listing order.
type Result struct {
	Rows []metadata.Row

	// Skipped lists files left out under the Skip policy.
	Skipped []string
}

// Summary describes a completed Export.
type Summary struct {
	Destination string
	Rows        int
	Skipped     int

	// SkippedFiles names the files left out under the Skip policy.
	SkippedFiles []string
}

// Run extracts one row per matching file directly inside root.
//
// Files are read and decoded one at a time in listing order. ctx is checked before
// each file.
func Run(ctx context.Context, fsys fs.FS, root string, opts Options) (Result, error) {
	return run(ctx, fsys, root, "", opts)
}

// run is Run with file paths reported relative to base when base is set.
func run(ctx context.Context, fsys fs.FS, root, base string, opts Options) (Result, error) {
	names, err := scan.List(fsys, root, opts.Scan)
	if err != nil {
		return Result{}, err
	}

	dec := opts.Decoder
	if dec == nil {
		dec = metadata.ExifDecoder()
	}

	result := Result{Rows: make([]metadata.Row, 0, len(names))}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		p := path.Join(root, name)
		display := p
		if base != "" {
			display = filepath.Join(base, filepath.FromSlash(p))
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			var pathErr *fs.PathError
			if errors.As(err, &pathErr) {
				pathErr.Path = display
			}
			return Result{}, err
		}

		row, err := metadata.Extract(display, data, dec)
		if err != nil {
			if opts.OnDecodeError == Skip {
				klog.Warningf("skipping %s: %v", display, err)
				result.Skipped = append(result.Skipped, display)
				continue
			}
			return Result{}, err
		}

		klog.V(1).Infof("%s: make=%q model=%q exposure=%q", display, row.Make, row.Model, row.Exposure)
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// Export runs over the folder src and writes the rows to the CSV file dst.
//
// The destination is written only after every file has been processed, so a failed
// run leaves no partial output.
func Export(ctx context.Context, src, dst string, opts Options) (Summary, error) {
	result, err := run(ctx, os.DirFS(src), ".", src, opts)
	if err != nil {
		var dirErr *scan.DirectoryError
		if errors.As(err, &dirErr) {
			dirErr.Path = src
		}
		return Summary{}, err
	}

	cols := opts.Columns
	if len(cols) == 0 {
		cols = report.DefaultColumns()
	}

	err = output.WriteFile(dst, opts.Output, func(w io.Writer) error {
		return report.Write(w, cols, report.Rows(result.Rows))
	})
	if err != nil {
		return Summary{}, err
	}

	klog.V(1).Infof("wrote %d rows to %s", len(result.Rows), dst)
	return Summary{
		Destination: dst,
		Rows:        len(result.Rows),
		Skipped:     len(result.Skipped),

		SkippedFiles: result.Skipped,
	}, nil
}
