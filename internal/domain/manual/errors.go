package manual

import "errors"

// Sentinel error kinds for manual score editing.
var (
	ErrInvalidPlayerIndex = errors.New("invalid player index")
	ErrInvalidDirection   = errors.New("invalid direction")
)
