package config

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// LoadJSON reads a JSON rule document of the form
// {"rules": [ {...}, ... ]}. A missing file is not an error.
func LoadJSON(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RuleSet{}, nil
		}
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}
	return ParseJSON(data)
}

// ParseJSON parses a JSON rule document.
func ParseJSON(data []byte) (*RuleSet, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	list := gjson.GetBytes(data, "rules")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: missing rules array", ErrInvalidJSON)
	}

	var specs []RuleSpec
	list.ForEach(func(_, item gjson.Result) bool {
		specs = append(specs, jsonSpec(item))
		return true
	})
	return buildRules(specs), nil
}

func jsonSpec(item gjson.Result) RuleSpec {
	spec := RuleSpec{
		Kind:         item.Get("kind").String(),
		Label:        item.Get("label").String(),
		Pattern:      item.Get("pattern").String(),
		Nesting:      item.Get("nesting").Bool(),
		Collapse:     item.Get("collapse").Bool(),
		Symbol:       item.Get("symbol").String(),
		Open:         item.Get("open").String(),
		Close:        item.Get("close").String(),
		AllowNesting: item.Get("allow_nesting").Bool(),
		Trigger:      item.Get("trigger").String(),
		Source:       item.Get("source").String(),
	}
	if v := item.Get("escape_contractions"); v.Exists() {
		b := v.Bool()
		spec.EscapeContractions = &b
	}
	if v := item.Get("detect_inner_quotes"); v.Exists() {
		b := v.Bool()
		spec.DetectInnerQuotes = &b
	}
	for _, p := range item.Get("escape_patterns").Array() {
		spec.EscapePatterns = append(spec.EscapePatterns, p.String())
	}
	for _, u := range item.Get("users").Array() {
		spec.Users = append(spec.Users, u.String())
	}
	for _, e := range item.Get("entries").Array() {
		spec.Entries = append(spec.Entries, EntrySpec{
			Term:        e.Get("term").String(),
			Pattern:     e.Get("pattern").String(),
			Description: e.Get("description").String(),
			Atomic:      e.Get("atomic").Bool(),
			Symbol:      e.Get("symbol").String(),
		})
	}
	return spec
}
