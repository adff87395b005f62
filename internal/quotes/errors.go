package quotes

import "errors"

// Sentinel errors for the quotes package.
var (
	// ErrInvalidEscapePattern is returned by NewScanner when a custom
	// contraction table entry cannot be used.
	ErrInvalidEscapePattern = errors.New("invalid escape pattern")
)
