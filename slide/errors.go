package slide

import "errors"

var (
	// ErrUnreadableSlide is returned when a Reader cannot open its
	// underlying file at all (corrupt header, unsupported container).
	ErrUnreadableSlide = errors.New("slide: unreadable slide")

	// ErrMissingMetadata is returned when physical pixel size or channel
	// count cannot be determined from the slide's own metadata.
	ErrMissingMetadata = errors.New("slide: missing required metadata")

	// ErrNoPyramidLevels is returned by level selection when a Reader
	// reports an empty pyramid.
	ErrNoPyramidLevels = errors.New("slide: pyramid has no levels")
)
