// Package annotation provides shared value types for the highlight engine.
// This package breaks import cycles between the rule matcher, the
// segmenter, and the rebuild orchestrator.
package annotation

import "fmt"

// Kind identifies the rule family that produced an annotation.
type Kind int

// Annotation kinds.
const (
	KindSpellcheck Kind = iota
	KindKeyword
	KindTag
	KindQuote
	KindLink
	KindMention
	KindSpecialChar
	KindScript
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSpellcheck:
		return "spellcheck"
	case KindKeyword:
		return "keyword"
	case KindTag:
		return "tag"
	case KindQuote:
		return "quote"
	case KindLink:
		return "link"
	case KindMention:
		return "mention"
	case KindSpecialChar:
		return "specialchar"
	case KindScript:
		return "script"
	default:
		return "unknown"
	}
}

// KindFromString parses a kind name. Unknown names map to KindKeyword.
func KindFromString(s string) Kind {
	switch s {
	case "spellcheck":
		return KindSpellcheck
	case "keyword", "glossary", "term":
		return KindKeyword
	case "tag", "placeholder":
		return KindTag
	case "quote":
		return KindQuote
	case "link", "url":
		return KindLink
	case "mention":
		return KindMention
	case "specialchar", "special-char":
		return KindSpecialChar
	case "script", "lua":
		return KindScript
	default:
		return KindKeyword
	}
}

// Annotation is the typed payload attached to a text range.
// Only the fields relevant to the Kind are populated.
type Annotation struct {
	Kind Kind

	// ID is a stable identifier derived from (kind, start, end).
	ID string

	// Match is the matched text.
	Match string

	// Spellcheck payload.
	Message     string
	Suggestions []string

	// Keyword/glossary payload.
	Label       string
	Term        string
	Description string

	// Symbol is a visible substitute for invisible or atomic matches.
	Symbol string

	// CodePoints lists the normalized code points of an atomic or
	// special-char match (e.g. "U+00A0").
	CodePoints []string

	// Mention payload.
	User string
}

// RawRange is an unmerged, possibly overlapping interval produced by a
// single rule match. The interval is half-open: [Start, End), End > Start.
// Offsets are byte offsets into the flattened document text.
type RawRange struct {
	Start      int
	End        int
	Annotation Annotation
}

// Len returns the interval length in bytes.
func (r RawRange) Len() int {
	return r.End - r.Start
}

// Contains reports whether the half-open interval covers offset.
func (r RawRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Covers reports whether r fully covers the interval [start, end).
func (r RawRange) Covers(start, end int) bool {
	return r.Start <= start && r.End >= end
}

// String returns a string representation of the range.
func (r RawRange) String() string {
	return fmt.Sprintf("RawRange(%s [%d,%d))", r.Annotation.Kind, r.Start, r.End)
}

// HighlightSegment is a maximal sub-interval over which the exact same
// set of RawRanges applies. Segments produced by the segmenter are
// pairwise non-overlapping and collectively cover the union of all
// input intervals.
type HighlightSegment struct {
	Start       int
	End         int
	Annotations []RawRange
}

// Nested reports whether more than one annotation covers the segment.
func (s HighlightSegment) Nested() bool {
	return len(s.Annotations) > 1
}

// String returns a string representation of the segment.
func (s HighlightSegment) String() string {
	return fmt.Sprintf("Segment([%d,%d) x%d)", s.Start, s.End, len(s.Annotations))
}

// ID derives the stable identifier for an annotation covering
// [start, end). Identical inputs always yield the same identifier, so
// ids survive rebuilds as long as the underlying match does.
func ID(kind Kind, start, end int) string {
	return fmt.Sprintf("%s:%d:%d", kind, start, end)
}
