package config

import "errors"

// Sentinel errors for the config package.
var (
	// ErrUnknownRuleKind is recorded when a rule table names a kind
	// the engine does not implement.
	ErrUnknownRuleKind = errors.New("unknown rule kind")

	// ErrInvalidJSON is returned when a JSON rule document cannot be
	// parsed at all.
	ErrInvalidJSON = errors.New("invalid rule JSON")
)
