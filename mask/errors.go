package mask

import "errors"

// ErrEmptyBounds is returned when a mask is requested for an empty rectangle.
var ErrEmptyBounds = errors.New("mask: empty bounds")
