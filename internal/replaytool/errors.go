package replaytool

import "errors"

// Sentinel error kinds for the replay tool.
var (
	ErrInvalidInput     = errors.New("invalid input document")
	ErrSectionsNotFound = errors.New("sections not found in input")
	ErrRemote           = errors.New("remote request failed")
	ErrMissingInput     = errors.New("missing input file")
)
