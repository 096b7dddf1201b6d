// Package report serializes rows as CSV under a fixed set of columns.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/quidome/exifcsv/pkg/metadata"
)

// Column maps a record key to its header label.
type Column struct {
	Key    string
	Header string
}

// Record is a row that can render a cell per column key.
type Record interface {
	Cell(key string) string
}

// DefaultColumns returns the camera metadata columns in output order.
//
// Each call returns a new slice, so callers may not alter the shared schema.
func DefaultColumns() []Column {
	return []Column{
		{Key: metadata.KeyFilename, Header: "Filename"},
		{Key: metadata.KeyMake, Header: "Maker"},
		{Key: metadata.KeyModel, Header: "Model"},
		{Key: metadata.KeyFocalLength, Header: "Focal Length"},
		{Key: metadata.KeyAperture, Header: "Aperture"},
		{Key: metadata.KeyFStop, Header: "F-stop"},
		{Key: metadata.KeyExposure, Header: "Shutter Speed"},
		{Key: metadata.KeyISO, Header: "ISO"},
		{Key: metadata.KeyFlash, Header: "Flash"},
	}
}

// Write writes a header line followed by one line per record.
//
// The header is written even when there are no records.
func Write(w io.Writer, cols []Column, records []Record) error {
	cw := csv.NewWriter(w)

	line := make([]string, len(cols))
	for i, c := range cols {
		line[i] = c.Header
	}
	if err := cw.Write(line); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for n, r := range records {
		for i, c := range cols {
			line[i] = r.Cell(c.Key)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write record %d: %w", n, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Rows adapts metadata rows to records.
func Rows(rows []metadata.Row) []Record {
	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = r
	}
	return records
}
