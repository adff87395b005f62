package rules

import (
	"regexp"

	"github.com/dshills/textmark/internal/annotation"
)

// defaultLinkPattern matches bare http(s) URLs. Trailing sentence
// punctuation is excluded so "see https://x.dev." highlights the URL
// without the period.
const defaultLinkPattern = `https?://[^\s<>"']+[^\s<>"'.,;:!?)]`

// LinkRule matches URLs.
type LinkRule struct {
	re *regexp.Regexp
}

// NewLinkRule creates a link rule. An empty pattern selects the
// built-in URL pattern; an invalid pattern contributes zero ranges.
func NewLinkRule(pattern string) *LinkRule {
	if pattern == "" {
		pattern = defaultLinkPattern
	}
	re, _ := regexp.Compile(pattern)
	return &LinkRule{re: re}
}

// Kind returns annotation.KindLink.
func (r *LinkRule) Kind() annotation.Kind { return annotation.KindLink }

// Match returns every link occurrence in text.
func (r *LinkRule) Match(text string) []annotation.RawRange {
	if r.re == nil {
		return nil
	}
	var out []annotation.RawRange
	for _, loc := range r.re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start >= end {
			continue
		}
		out = append(out, annotation.RawRange{
			Start: start,
			End:   end,
			Annotation: annotation.Annotation{
				Kind:  annotation.KindLink,
				ID:    annotation.ID(annotation.KindLink, start, end),
				Match: text[start:end],
			},
		})
	}
	return out
}
