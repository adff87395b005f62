// Package quotes detects quoted ranges in raw text.
//
// The scanner is a single left-to-right pass that tracks at most one
// open pointer per quote type (single, double). Same-type quotes
// therefore never nest: a second double quote while one is open always
// closes it. Cross-type nesting works to exactly one level by
// construction of the two independent pointers. This limitation is
// intentional and load-bearing for the rest of the engine; do not
// replace it with a nesting stack.
package quotes

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Type identifies the quote character family.
type Type int

// Quote types.
const (
	Single Type = iota
	Double
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Single:
		return "single"
	case Double:
		return "double"
	default:
		return "unknown"
	}
}

// Range is one detected quote range. Start and End are the byte
// offsets of the delimiter characters themselves. An unterminated
// range has Closed == false and End == -1.
type Range struct {
	Start   int
	End     int
	Type    Type
	Content string
	Closed  bool
}

// englishPatterns is the default contraction suffix table. Each entry
// is matched around an apostrophe; the character immediately before
// the suffix must be a word character for the apostrophe to be treated
// as plain text.
var englishPatterns = []string{"n't", "'s", "'re", "'ve", "'ll", "'d", "'m", "'em"}

// Scanner detects quote ranges in text. A Scanner is immutable after
// construction and safe for concurrent use.
type Scanner struct {
	escapeContractions bool
	allowNesting       bool
	detectInnerQuotes  bool
	patterns           []string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithEscapeContractions toggles contraction escaping (default true).
func WithEscapeContractions(on bool) Option {
	return func(s *Scanner) { s.escapeContractions = on }
}

// WithAllowNesting permits crossing single/double ranges (default false).
func WithAllowNesting(on bool) Option {
	return func(s *Scanner) { s.allowNesting = on }
}

// WithDetectInnerQuotes toggles tracking of quotes opened inside a
// quote of the other type (default true).
func WithDetectInnerQuotes(on bool) Option {
	return func(s *Scanner) { s.detectInnerQuotes = on }
}

// WithEscapePatterns replaces the default English contraction table.
func WithEscapePatterns(patterns []string) Option {
	return func(s *Scanner) { s.patterns = patterns }
}

// NewScanner creates a scanner. An invalid custom escape-pattern table
// (empty entry, or an entry without an apostrophe) is the only error
// surfaced here; per-scan conditions never fail.
func NewScanner(opts ...Option) (*Scanner, error) {
	s := &Scanner{
		escapeContractions: true,
		detectInnerQuotes:  true,
		patterns:           englishPatterns,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range s.patterns {
		if p == "" {
			return nil, fmt.Errorf("%w: empty pattern", ErrInvalidEscapePattern)
		}
		if !strings.ContainsRune(p, '\'') {
			return nil, fmt.Errorf("%w: %q has no apostrophe", ErrInvalidEscapePattern, p)
		}
	}
	return s, nil
}

// Scan returns a lookup from byte offset to Range. A closed range is
// stored under both its opening and closing offset so either boundary
// resolves the same range; an unclosed range is stored under its
// opening offset only.
func (s *Scanner) Scan(text string) map[int]Range {
	result := make(map[int]Range)

	// Open pointer per type, -1 when closed.
	open := [2]int{-1, -1}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\\' {
			i++ // escapes the next character unconditionally
			continue
		}

		var t Type
		switch c {
		case '\'':
			t = Single
		case '"':
			t = Double
		default:
			continue
		}
		other := 1 - t

		// With nesting disallowed and inner detection off, a quote
		// character inside the other type's open range is plain text.
		if !s.allowNesting && !s.detectInnerQuotes && open[other] >= 0 {
			continue
		}

		if t == Single && s.escapeContractions && s.isContraction(text, i) {
			continue
		}

		if open[t] >= 0 {
			// Closing quote. Forfeit a still-open inner quote of the
			// other type so no crossing range is ever produced.
			if !s.allowNesting && open[other] > open[t] {
				open[other] = -1
			}
			r := Range{
				Start:   open[t],
				End:     i,
				Type:    t,
				Content: text[open[t]+1 : i],
				Closed:  true,
			}
			result[r.Start] = r
			result[r.End] = r
			open[t] = -1
			continue
		}
		open[t] = i
	}

	for t := Single; t <= Double; t++ {
		if at := open[t]; at >= 0 {
			result[at] = Range{Start: at, End: -1, Type: t, Closed: false}
		}
	}
	return result
}

// isContraction reports whether the apostrophe at offset i matches one
// of the configured suffix patterns with a word character immediately
// before the suffix start.
func (s *Scanner) isContraction(text string, i int) bool {
	for _, p := range s.patterns {
		k := strings.IndexByte(p, '\'')
		start := i - k
		if start < 1 || start+len(p) > len(text) {
			continue
		}
		if text[start:start+len(p)] != p {
			continue
		}
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
