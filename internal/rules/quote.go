package rules

import (
	"regexp"
	"sort"

	"github.com/dshills/textmark/internal/annotation"
	"github.com/dshills/textmark/internal/quotes"
)

// QuoteRule highlights quoted spans. The standard apostrophe and
// double-quote pairs delegate to the quotes scanner, which knows about
// contractions and nesting policy; any other open/close pair is
// matched with a non-greedy compiled pattern.
type QuoteRule struct {
	open    string
	close   string
	scanner *quotes.Scanner
	want    quotes.Type
	re      *regexp.Regexp
}

// NewQuoteRule creates a quote rule for the given delimiter pair.
// scanner may be nil for standard pairs, in which case a default
// scanner is used.
func NewQuoteRule(open, close string, scanner *quotes.Scanner) *QuoteRule {
	r := &QuoteRule{open: open, close: close, scanner: scanner}
	switch {
	case open == `'` && close == `'`:
		r.want = quotes.Single
	case open == `"` && close == `"`:
		r.want = quotes.Double
	default:
		r.re, _ = regexp.Compile(regexp.QuoteMeta(open) + `(?s).*?` + regexp.QuoteMeta(close))
		return r
	}
	if r.scanner == nil {
		r.scanner, _ = quotes.NewScanner()
	}
	return r
}

// Kind returns annotation.KindQuote.
func (r *QuoteRule) Kind() annotation.Kind { return annotation.KindQuote }

// Match returns every closed quote range of the rule's pair. Unclosed
// ranges have no end offset and are not rendered.
func (r *QuoteRule) Match(text string) []annotation.RawRange {
	if r.re != nil {
		return r.matchPattern(text)
	}
	return r.matchScanner(text)
}

func (r *QuoteRule) matchScanner(text string) []annotation.RawRange {
	seen := make(map[int]bool)
	var out []annotation.RawRange
	for _, q := range r.scanner.Scan(text) {
		if !q.Closed || q.Type != r.want || seen[q.Start] {
			continue
		}
		seen[q.Start] = true
		start, end := q.Start, q.End+1
		out = append(out, annotation.RawRange{
			Start: start,
			End:   end,
			Annotation: annotation.Annotation{
				Kind:        annotation.KindQuote,
				ID:          annotation.ID(annotation.KindQuote, start, end),
				Match:       text[start:end],
				Description: q.Content,
			},
		})
	}
	// The scan result is keyed by offset; restore discovery order.
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (r *QuoteRule) matchPattern(text string) []annotation.RawRange {
	var out []annotation.RawRange
	for _, loc := range r.re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		out = append(out, annotation.RawRange{
			Start: start,
			End:   end,
			Annotation: annotation.Annotation{
				Kind:        annotation.KindQuote,
				ID:          annotation.ID(annotation.KindQuote, start, end),
				Match:       text[start:end],
				Description: text[start+len(r.open) : end-len(r.close)],
			},
		})
	}
	return out
}
