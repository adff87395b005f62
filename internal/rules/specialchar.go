package rules

import (
	"regexp"

	"github.com/dshills/textmark/internal/annotation"
)

// defaultSpecialCharPattern matches invisible characters that are
// easy to paste by accident: non-breaking space, zero-width space,
// zero-width (non-)joiner, BOM, soft hyphen.
const defaultSpecialCharPattern = "[\u00A0\u200B\u200C\u200D\uFEFF\u00AD]"

// SpecialCharRule flags invisible or otherwise suspicious characters,
// substituting a visible symbol and recording code points for
// inspection.
type SpecialCharRule struct {
	re     *regexp.Regexp
	Symbol string
}

// NewSpecialCharRule creates a special-char rule. An empty pattern
// selects the built-in invisible-character set; an invalid pattern
// contributes zero ranges.
func NewSpecialCharRule(pattern, symbol string) *SpecialCharRule {
	if pattern == "" {
		pattern = defaultSpecialCharPattern
	}
	if symbol == "" {
		symbol = "·"
	}
	re, _ := regexp.Compile(pattern)
	return &SpecialCharRule{re: re, Symbol: symbol}
}

// Kind returns annotation.KindSpecialChar.
func (r *SpecialCharRule) Kind() annotation.Kind { return annotation.KindSpecialChar }

// Match returns every special-character occurrence in text.
func (r *SpecialCharRule) Match(text string) []annotation.RawRange {
	if r.re == nil {
		return nil
	}
	var out []annotation.RawRange
	for _, loc := range r.re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start >= end {
			continue
		}
		match := text[start:end]
		out = append(out, annotation.RawRange{
			Start: start,
			End:   end,
			Annotation: annotation.Annotation{
				Kind:       annotation.KindSpecialChar,
				ID:         annotation.ID(annotation.KindSpecialChar, start, end),
				Match:      match,
				Symbol:     r.Symbol,
				CodePoints: codePoints(match),
			},
		})
	}
	return out
}
