package rally

import "errors"

// Sentinel error kinds for point extraction.
var (
	ErrMalformedSection     = errors.New("malformed section")
	ErrInvalidDefaultWinner = errors.New("invalid default winner")
)
