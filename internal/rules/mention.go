package rules

import (
	"regexp"

	"github.com/dshills/textmark/internal/annotation"
)

// MentionRule matches trigger-prefixed user mentions (e.g. "@name").
// When a user directory is supplied, only names present in it produce
// ranges.
type MentionRule struct {
	trigger string
	re      *regexp.Regexp
	users   map[string]bool
}

// NewMentionRule creates a mention rule. An empty trigger defaults
// to "@".
func NewMentionRule(trigger string, users []string) *MentionRule {
	if trigger == "" {
		trigger = "@"
	}
	r := &MentionRule{trigger: trigger}
	r.re, _ = regexp.Compile(regexp.QuoteMeta(trigger) + `[\w.-]+`)
	if len(users) > 0 {
		r.users = make(map[string]bool, len(users))
		for _, u := range users {
			r.users[u] = true
		}
	}
	return r
}

// Kind returns annotation.KindMention.
func (r *MentionRule) Kind() annotation.Kind { return annotation.KindMention }

// Match returns every resolvable mention in text.
func (r *MentionRule) Match(text string) []annotation.RawRange {
	if r.re == nil {
		return nil
	}
	var out []annotation.RawRange
	for _, loc := range r.re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		name := text[start+len(r.trigger) : end]
		if r.users != nil && !r.users[name] {
			continue
		}
		out = append(out, annotation.RawRange{
			Start: start,
			End:   end,
			Annotation: annotation.Annotation{
				Kind:  annotation.KindMention,
				ID:    annotation.ID(annotation.KindMention, start, end),
				Match: text[start:end],
				User:  name,
			},
		})
	}
	return out
}
