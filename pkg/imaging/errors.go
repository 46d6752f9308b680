package imaging

import "errors"

var (
	// ErrNoFrames indicates a file decoded successfully but produced no
	// renderable frames.
	ErrNoFrames = errors.New("image contains no frames")

	// ErrTooLarge indicates a decode was refused because the image exceeds
	// the configured pixel budget.
	ErrTooLarge = errors.New("image exceeds pixel budget")
)
