package rules

import (
	"regexp"

	"github.com/dshills/textmark/internal/annotation"
)

// TagRule matches tag/placeholder markers by pattern. Nesting marks
// the tag as participating in nested styling; Collapse substitutes the
// Symbol for the raw match when rendered.
type TagRule struct {
	re       *regexp.Regexp
	Nesting  bool
	Collapse bool
	Symbol   string
}

// NewTagRule compiles a tag rule. An invalid pattern yields a rule
// that contributes zero ranges.
func NewTagRule(pattern string, nesting, collapse bool, symbol string) *TagRule {
	re, _ := regexp.Compile(pattern)
	return &TagRule{re: re, Nesting: nesting, Collapse: collapse, Symbol: symbol}
}

// Kind returns annotation.KindTag.
func (r *TagRule) Kind() annotation.Kind { return annotation.KindTag }

// Match returns every tag occurrence in text.
func (r *TagRule) Match(text string) []annotation.RawRange {
	if r.re == nil {
		return nil
	}
	var out []annotation.RawRange
	for _, loc := range r.re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start >= end {
			continue
		}
		ann := annotation.Annotation{
			Kind:  annotation.KindTag,
			ID:    annotation.ID(annotation.KindTag, start, end),
			Match: text[start:end],
		}
		if r.Collapse {
			ann.Symbol = r.Symbol
		}
		out = append(out, annotation.RawRange{Start: start, End: end, Annotation: ann})
	}
	return out
}
