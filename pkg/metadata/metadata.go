package metadata

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// Tags maps EXIF field names to their decoded values.
type Tags map[exif.FieldName]Value

// Get returns the value for name, or an absent Value.
func (t Tags) Get(name exif.FieldName) Value {
	return t[name]
}

// Column keys understood by Row.Cell.
const (
	KeyFilename    = "filename"
	KeyMake        = "make"
	KeyModel       = "model"
	KeyFocalLength = "focalLength"
	KeyAperture    = "aperture"
	KeyFStop       = "fStop"
	KeyExposure    = "exposure"
	KeyISO         = "iso"
	KeyFlash       = "flash"
)

// Row is the flattened camera metadata of one image.
type Row struct {
	// Filename is the source base name without its extension.
	Filename string

	Make  Value
	Model Value

	// FocalLength is in millimeters.
	FocalLength Value

	// Aperture is ApertureValue in APEX units, not an f-number.
	Aperture Value

	// FStop is the f-number, e.g. 2.8.
	FStop Value

	// Exposure is the shutter speed formatted as "1/N".
	Exposure Value

	ISO Value

	// Flash is the raw EXIF flash code.
	Flash Value
}

// Cell returns the rendered value for a column key. Unknown keys render as "".
func (r Row) Cell(key string) string {
	switch key {
	case KeyFilename:
		return r.Filename
	case KeyMake:
		return r.Make.Text()
	case KeyModel:
		return r.Model.Text()
	case KeyFocalLength:
		return r.FocalLength.Text()
	case KeyAperture:
		return r.Aperture.Text()
	case KeyFStop:
		return r.FStop.Text()
	case KeyExposure:
		return r.Exposure.Text()
	case KeyISO:
		return r.ISO.Text()
	case KeyFlash:
		return r.Flash.Text()
	default:
		return ""
	}
}

// DecodeError is returned when an image's EXIF data cannot be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode exif %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Extract decodes data with dec and builds the row for the file name.
//
// name may be a bare file name or a path; only its base name is used.
// If dec is nil, ExifDecoder is used.
func Extract(name string, data []byte, dec Decoder) (Row, error) {
	if dec == nil {
		dec = ExifDecoder()
	}

	tags, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return Row{}, &DecodeError{Path: name, Err: err}
	}

	return FromTags(name, tags), nil
}

// FromTags builds a row from already decoded tags.
func FromTags(name string, tags Tags) Row {
	return Row{
		Filename:    StripExt(name),
		Make:        tags.Get(exif.Make),
		Model:       tags.Get(exif.Model),
		FocalLength: tags.Get(exif.FocalLength),
		Aperture:    tags.Get(exif.ApertureValue),
		FStop:       tags.Get(exif.FNumber),
		Exposure:    ShutterSpeed(tags.Get(exif.ExposureTime)),
		ISO:         tags.Get(exif.ISOSpeedRatings),
		Flash:       tags.Get(exif.Flash),
	}
}

// ShutterSpeed formats an exposure time in seconds as "1/N", where N is the
// reciprocal rounded half away from zero.
//
// The result is absent when the exposure is absent, not a number, not positive, or
// so small that its reciprocal overflows. Exposures of one second or longer yield
// "1/1" or "1/0".
func ShutterSpeed(exposure Value) Value {
	t, ok := exposure.Float()
	if !ok || math.IsNaN(t) || t <= 0 {
		return Value{}
	}

	reciprocal := math.Round(1 / t)
	if math.IsInf(reciprocal, 0) || reciprocal >= math.MaxInt64 {
		return Value{}
	}

	return String("1/" + strconv.FormatInt(int64(reciprocal), 10))
}

// StripExt returns the base name of path without its final extension.
func StripExt(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		// Dot files such as ".jpg" have no extension.
		return base
	}
	return strings.TrimSuffix(base, ext)
}
