package tiffio

import "errors"

var (
	// ErrBadMagic is returned when a file does not start with a
	// recognized TIFF byte-order mark.
	ErrBadMagic = errors.New("tiffio: not a TIFF file")

	// ErrUnsupported is returned when a TIFF carries a layout this
	// package cannot decode (wrong sample format, planar config, etc).
	ErrUnsupported = errors.New("tiffio: unsupported TIFF layout")

	// ErrShape is returned when rows/cols are non-positive.
	ErrShape = errors.New("tiffio: rows and cols must be positive")
)
