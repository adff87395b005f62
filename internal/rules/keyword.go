package rules

import (
	"regexp"

	"github.com/dshills/textmark/internal/annotation"
)

// KeywordEntry is one glossary term. Term is matched literally and
// case-insensitively; Pattern, when set, is a regular expression used
// instead of the literal. Atomic entries additionally record the code
// points of the matched text and may substitute a visible Symbol.
type KeywordEntry struct {
	Term        string
	Pattern     string
	Description string
	Atomic      bool
	Symbol      string
}

// compiledEntry pairs an entry with its regexp. A nil re means the
// entry's pattern failed to compile and it contributes nothing.
type compiledEntry struct {
	entry KeywordEntry
	re    *regexp.Regexp
}

// KeywordRule matches a labeled set of glossary entries.
type KeywordRule struct {
	label   string
	entries []compiledEntry
}

// NewKeywordRule compiles entries once. A literal term becomes a
// case-insensitive quoted pattern; matches never overlap because each
// scan resumes past the previous match. Entries whose regex fails to
// compile are kept but contribute zero ranges.
func NewKeywordRule(label string, entries []KeywordEntry) *KeywordRule {
	r := &KeywordRule{label: label}
	for _, e := range entries {
		ce := compiledEntry{entry: e}
		switch {
		case e.Pattern != "":
			ce.re, _ = regexp.Compile(e.Pattern)
		case e.Term != "":
			ce.re, _ = regexp.Compile("(?i)" + regexp.QuoteMeta(e.Term))
		}
		r.entries = append(r.entries, ce)
	}
	return r
}

// Label returns the rule's display label.
func (r *KeywordRule) Label() string { return r.label }

// Kind returns annotation.KindKeyword.
func (r *KeywordRule) Kind() annotation.Kind { return annotation.KindKeyword }

// Match scans every entry against text in entry order.
func (r *KeywordRule) Match(text string) []annotation.RawRange {
	var out []annotation.RawRange
	for _, ce := range r.entries {
		if ce.re == nil {
			continue
		}
		for _, loc := range ce.re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			if start >= end {
				continue
			}
			match := text[start:end]
			ann := annotation.Annotation{
				Kind:        annotation.KindKeyword,
				ID:          annotation.ID(annotation.KindKeyword, start, end),
				Match:       match,
				Label:       r.label,
				Term:        ce.entry.Term,
				Description: ce.entry.Description,
				Symbol:      ce.entry.Symbol,
			}
			if ce.entry.Atomic {
				ann.CodePoints = codePoints(match)
			}
			out = append(out, annotation.RawRange{Start: start, End: end, Annotation: ann})
		}
	}
	return out
}
