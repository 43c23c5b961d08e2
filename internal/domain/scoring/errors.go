package scoring

import "errors"

// Sentinel error kinds for score replay.
var (
	ErrSectionNotFound = errors.New("section not found")
)
