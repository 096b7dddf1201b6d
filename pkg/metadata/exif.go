package metadata

import (
	"errors"
	"fmt"
	"io"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Decoder decodes the EXIF segment of an image stream into tags.
//
// Implementations return an error when the stream is not a decodable JPEG/EXIF
// container.
type Decoder interface {
	Decode(r io.Reader) (Tags, error)
}

// ExifDecoder returns the default goexif-backed Decoder.
func ExifDecoder() Decoder {
	return exifDecoder{}
}

type exifDecoder struct{}

func (exifDecoder) Decode(r io.Reader) (Tags, error) {
	x, err := exif.Decode(r)
	if err != nil {
		// A non-critical error still comes with a usable, partially decoded result.
		if x == nil || exif.IsCriticalError(err) {
			return nil, err
		}
	}
	if x == nil {
		return nil, errors.New("no exif data")
	}

	w := &tagWalker{tags: make(Tags)}
	if err := x.Walk(w); err != nil {
		return nil, err
	}
	return w.tags, nil
}

type tagWalker struct {
	tags Tags
}

func (w *tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if v, ok := tagValue(tag); ok {
		w.tags[name] = v
	}
	return nil
}

// tagValue converts the first component of a tag into a Value.
func tagValue(tag *tiff.Tag) (Value, bool) {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return Value{}, false
		}
		return String(s), true
	case tiff.IntVal:
		if tag.Count == 0 {
			return Value{}, false
		}
		n, err := tag.Int64(0)
		if err != nil {
			return Value{}, false
		}
		return Number(float64(n)), true
	case tiff.RatVal:
		if tag.Count == 0 {
			return Value{}, false
		}
		num, den, err := tag.Rat2(0)
		if err != nil {
			return Value{}, false
		}
		// big.NewRat panics on a zero denominator; keep the raw fraction as text.
		if den == 0 {
			return String(fmt.Sprintf("%d/%d", num, den)), true
		}
		return Number(float64(num) / float64(den)), true
	case tiff.FloatVal:
		if tag.Count == 0 {
			return Value{}, false
		}
		f, err := tag.Float(0)
		if err != nil {
			return Value{}, false
		}
		return Number(f), true
	default:
		return Value{}, false
	}
}
