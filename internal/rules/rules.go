package rules

import (
	"fmt"

	"github.com/dshills/textmark/internal/annotation"
)

// Rule produces raw annotated ranges over flattened text.
type Rule interface {
	// Kind identifies the rule family.
	Kind() annotation.Kind

	// Match returns every range the rule produces for text, in
	// left-to-right discovery order. Intervals are half-open byte
	// ranges and must satisfy 0 <= Start < End <= len(text).
	Match(text string) []annotation.RawRange
}

// Matcher applies an ordered rule list.
type Matcher struct {
	rules []Rule
}

// NewMatcher creates a matcher over the given rules. Rule order is
// preserved and significant.
func NewMatcher(rules ...Rule) *Matcher {
	return &Matcher{rules: rules}
}

// Rules returns the configured rules in order.
func (m *Matcher) Rules() []Rule {
	return m.rules
}

// Match runs every rule against text and concatenates the results in
// rule order.
func (m *Matcher) Match(text string) []annotation.RawRange {
	var out []annotation.RawRange
	for _, r := range m.rules {
		out = append(out, r.Match(text)...)
	}
	return out
}

// codePoints returns the normalized code-point listing for s,
// one "U+XXXX" entry per rune.
func codePoints(s string) []string {
	pts := make([]string, 0, len(s))
	for _, r := range s {
		pts = append(pts, fmt.Sprintf("U+%04X", r))
	}
	return pts
}
