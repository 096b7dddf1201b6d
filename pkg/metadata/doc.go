// Package metadata turns the EXIF segment of a JPEG image into a flat row of camera
// settings.
//
// Decoding is delegated to a Decoder (by default backed by goexif). Extract selects a
// fixed set of tags and derives a display form of the shutter speed. Tags that are not
// present in the image stay absent in the row.
package metadata
