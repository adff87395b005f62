package script

import "errors"

// Sentinel errors for the script package.
var (
	// ErrNoMatchFunction is returned by NewRule when the chunk does
	// not define a global match function.
	ErrNoMatchFunction = errors.New("script does not define a match function")
)
