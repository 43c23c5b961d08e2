package repository

import "errors"

// Sentinel kinds for section store errors.
var (
	ErrNotFound         = errors.New("match not found")
	ErrDuplicateSection = errors.New("duplicate section id")
	ErrTooManySections  = errors.New("too many sections")
	ErrInvalidMatchID   = errors.New("invalid match id")
	ErrInvalidSectionID = errors.New("invalid section id")
)
