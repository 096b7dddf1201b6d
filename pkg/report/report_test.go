package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/quidome/exifcsv/pkg/metadata"
)

const header = "Filename,Maker,Model,Focal Length,Aperture,F-stop,Shutter Speed,ISO,Flash\n"

func TestWrite_HeaderOnlyForNoRows(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, DefaultColumns(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != header {
		t.Fatalf("unexpected output\n got: %q\nwant: %q", buf.String(), header)
	}
}

func TestWrite_Rows(t *testing.T) {
	rows := []metadata.Row{
		{
			Filename: "sunset",
			Make:     metadata.String("Canon"),
			Model:    metadata.String("EOS R5"),
			FStop:    metadata.Number(2.8),
			Exposure: metadata.String("1/500"),
			ISO:      metadata.Number(400),
		},
		{
			Filename:    "quoted",
			Make:        metadata.String(`Acme, "Pro"`),
			Model:       metadata.String("line\nbreak"),
			FocalLength: metadata.Number(35),
			Aperture:    metadata.Number(2.97),
			Flash:       metadata.Number(0),
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, DefaultColumns(), Rows(rows)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := header +
		"sunset,Canon,EOS R5,,,2.8,1/500,400,\n" +
		"quoted,\"Acme, \"\"Pro\"\"\",\"line\nbreak\",35,2.97,,,,0\n"
	if buf.String() != want {
		t.Fatalf("unexpected output\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestDefaultColumns_ReturnsCopy(t *testing.T) {
	cols := DefaultColumns()
	cols[0].Header = "changed"

	if DefaultColumns()[0].Header != "Filename" {
		t.Fatalf("DefaultColumns shares its backing array")
	}
}

func TestWrite_PropagatesWriterError(t *testing.T) {
	err := Write(failingWriter{}, DefaultColumns(), nil)
	if !errors.Is(err, errWrite) {
		t.Fatalf("expected write error, got %v", err)
	}
}

var errWrite = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}
