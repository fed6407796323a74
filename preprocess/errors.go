package preprocess

import "errors"

var (
	// ErrNoChannels is returned when For is asked to extract a
	// fluorescence channel from a Plane with zero channels.
	ErrNoChannels = errors.New("preprocess: plane has no channels")

	// ErrChannelNotFound is returned when the designated fluorescence
	// channel name isn't present on the slide.
	ErrChannelNotFound = errors.New("preprocess: designated channel not found")

	// ErrSizeContract is returned when max_proc_dim exceeds max_img_dim.
	ErrSizeContract = errors.New("preprocess: max_proc_dim must be <= max_img_dim")
)
