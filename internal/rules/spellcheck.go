package rules

import "github.com/dshills/textmark/internal/annotation"

// Validation is one externally supplied spellcheck finding.
type Validation struct {
	Start       int
	End         int
	Message     string
	Suggestions []string
}

// SpellcheckRule passes externally computed validations through as
// ranges, dropping entries that do not fit the current text.
type SpellcheckRule struct {
	validations []Validation
}

// NewSpellcheckRule creates a spellcheck rule from validations.
func NewSpellcheckRule(validations []Validation) *SpellcheckRule {
	return &SpellcheckRule{validations: validations}
}

// Kind returns annotation.KindSpellcheck.
func (r *SpellcheckRule) Kind() annotation.Kind { return annotation.KindSpellcheck }

// Match converts each in-bounds validation to a range. Entries with
// Start < 0, End > len(text), or Start >= End are silently dropped.
func (r *SpellcheckRule) Match(text string) []annotation.RawRange {
	var out []annotation.RawRange
	for _, v := range r.validations {
		if v.Start < 0 || v.End > len(text) || v.Start >= v.End {
			continue
		}
		out = append(out, annotation.RawRange{
			Start: v.Start,
			End:   v.End,
			Annotation: annotation.Annotation{
				Kind:        annotation.KindSpellcheck,
				ID:          annotation.ID(annotation.KindSpellcheck, v.Start, v.End),
				Match:       text[v.Start:v.End],
				Message:     v.Message,
				Suggestions: v.Suggestions,
			},
		})
	}
	return out
}
