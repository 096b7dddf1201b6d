// Package exiftest builds minimal JPEG files carrying an EXIF segment for tests.
package exiftest

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"
)

// TIFF field types.
const (
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

// Tag IDs used by the fixtures.
const (
	TagMake          uint16 = 0x010F
	TagModel         uint16 = 0x0110
	TagExifIFD       uint16 = 0x8769
	TagExposureTime  uint16 = 0x829A
	TagFNumber       uint16 = 0x829D
	TagISO           uint16 = 0x8827
	TagApertureValue uint16 = 0x9202
	TagFlash         uint16 = 0x9209
	TagFocalLength   uint16 = 0x920A
)

// Field is a single IFD entry.
type Field struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte // little-endian encoded value
}

// ASCII returns a NUL-terminated string field.
func ASCII(tag uint16, s string) Field {
	data := append([]byte(s), 0)
	return Field{Tag: tag, Type: typeASCII, Count: uint32(len(data)), Data: data}
}

// Short returns a single SHORT field.
func Short(tag uint16, v uint16) Field {
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, v)
	return Field{Tag: tag, Type: typeShort, Count: 1, Data: data}
}

// Rational returns a single RATIONAL field.
func Rational(tag uint16, num, den uint32) Field {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data[0:4], num)
	binary.LittleEndian.PutUint32(data[4:8], den)
	return Field{Tag: tag, Type: typeRational, Count: 1, Data: data}
}

// Camera describes the tags of a fixture image. Zero fields are left out.
type Camera struct {
	Make  string
	Model string

	// Rationals are given as [numerator, denominator].
	ExposureTime  [2]uint32
	FNumber       [2]uint32
	FocalLength   [2]uint32
	ApertureValue [2]uint32

	ISO   uint16
	Flash *uint16
}

// JPEG returns a JPEG stream with an EXIF segment for c.
func (c Camera) JPEG() []byte {
	var ifd0, sub []Field
	if c.Make != "" {
		ifd0 = append(ifd0, ASCII(TagMake, c.Make))
	}
	if c.Model != "" {
		ifd0 = append(ifd0, ASCII(TagModel, c.Model))
	}
	addRat := func(tag uint16, r [2]uint32) {
		if r != [2]uint32{} {
			sub = append(sub, Rational(tag, r[0], r[1]))
		}
	}
	addRat(TagExposureTime, c.ExposureTime)
	addRat(TagFNumber, c.FNumber)
	addRat(TagFocalLength, c.FocalLength)
	addRat(TagApertureValue, c.ApertureValue)
	if c.ISO != 0 {
		sub = append(sub, Short(TagISO, c.ISO))
	}
	if c.Flash != nil {
		sub = append(sub, Short(TagFlash, *c.Flash))
	}
	return JPEG(ifd0, sub)
}

// JPEG assembles SOI, an APP1 Exif segment holding ifd0 and an optional Exif
// sub-IFD, and EOI.
func JPEG(ifd0, exifIFD []Field) []byte {
	tiff := TIFF(ifd0, exifIFD)

	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8})
	b.Write([]byte{0xFF, 0xE1})
	seglen := 2 + 6 + len(tiff)
	if seglen > math.MaxUint16 {
		panic("exiftest: exif segment too large")
	}
	_ = binary.Write(&b, binary.BigEndian, uint16(seglen))
	b.WriteString("Exif\x00\x00")
	b.Write(tiff)
	b.Write([]byte{0xFF, 0xD9})
	return b.Bytes()
}

// TIFF returns a little-endian TIFF structure with IFD0 and an optional Exif
// sub-IFD linked from IFD0.
func TIFF(ifd0, exifIFD []Field) []byte {
	ifd0 = append([]Field(nil), ifd0...)
	if len(exifIFD) > 0 {
		// Placeholder, patched once the sub-IFD offset is known.
		ifd0 = append(ifd0, Field{Tag: TagExifIFD, Type: typeLong, Count: 1, Data: make([]byte, 4)})
	}

	const headerLen = 8
	ifd0Off := uint32(headerLen)
	ifd0Len := ifdLen(ifd0)
	subOff := ifd0Off + ifd0Len

	if len(exifIFD) > 0 {
		for i := range ifd0 {
			if ifd0[i].Tag == TagExifIFD {
				binary.LittleEndian.PutUint32(ifd0[i].Data, subOff)
			}
		}
	}

	var b bytes.Buffer
	b.WriteString("II")
	_ = binary.Write(&b, binary.LittleEndian, uint16(42))
	_ = binary.Write(&b, binary.LittleEndian, ifd0Off)
	writeIFD(&b, ifd0, ifd0Off)
	if len(exifIFD) > 0 {
		writeIFD(&b, exifIFD, subOff)
	}
	return b.Bytes()
}

// ifdLen is the encoded size of an IFD including its out-of-line values.
func ifdLen(fields []Field) uint32 {
	n := uint32(2 + 12*len(fields) + 4)
	for _, f := range fields {
		if len(f.Data) > 4 {
			n += uint32(len(f.Data))
		}
	}
	return n
}

func writeIFD(b *bytes.Buffer, fields []Field, off uint32) {
	fields = append([]Field(nil), fields...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Tag < fields[j].Tag })

	dataOff := off + uint32(2+12*len(fields)+4)
	var extra bytes.Buffer

	_ = binary.Write(b, binary.LittleEndian, uint16(len(fields)))
	for _, f := range fields {
		_ = binary.Write(b, binary.LittleEndian, f.Tag)
		_ = binary.Write(b, binary.LittleEndian, f.Type)
		_ = binary.Write(b, binary.LittleEndian, f.Count)
		if len(f.Data) <= 4 {
			v := make([]byte, 4)
			copy(v, f.Data)
			b.Write(v)
			continue
		}
		_ = binary.Write(b, binary.LittleEndian, dataOff+uint32(extra.Len()))
		extra.Write(f.Data)
	}
	_ = binary.Write(b, binary.LittleEndian, uint32(0))
	b.Write(extra.Bytes())
}

// Uint16 returns a pointer to v, for Camera.Flash.
func Uint16(v uint16) *uint16 {
	return &v
}
