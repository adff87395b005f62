// Package rules turns heterogeneous rule configurations into raw,
// possibly overlapping annotated ranges over flattened document text.
//
// Rules are matched in list order; within one rule, ranges follow
// match-discovery order (left to right). This ordering is part of the
// contract: the segmenter preserves it, and rendering depends on it
// being reproducible.
//
// Failure policy: a rule with an unparseable regex contributes zero
// ranges; all other rules proceed. Nothing in this package returns a
// per-match error.
//
// Patterns are compiled once at rule construction and reused across
// rebuilds; matching holds no scan state between calls.
package rules
