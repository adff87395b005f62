// Package config loads rule sets from TOML and JSON documents.
//
// A rule file is a list of rule tables, matched in file order:
//
//	[[rule]]
//	kind  = "keyword"
//	label = "glossary"
//	  [[rule.entry]]
//	  term        = "segment"
//	  description = "a non-overlapping highlight interval"
//
//	[[rule]]
//	kind     = "tag"
//	pattern  = '\{\{\w+\}\}'
//	collapse = true
//	symbol   = "⬚"
//
// Problems with individual rules (bad regex, bad script, bad escape
// table) are isolated: the rule is skipped and recorded, the rest of
// the set loads normally. Only an unreadable or unparseable document
// fails the load as a whole.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/textmark/internal/quotes"
	"github.com/dshills/textmark/internal/rules"
	"github.com/dshills/textmark/internal/script"
)

// EntrySpec describes one keyword/glossary entry.
type EntrySpec struct {
	Term        string `toml:"term" json:"term"`
	Pattern     string `toml:"pattern" json:"pattern"`
	Description string `toml:"description" json:"description"`
	Atomic      bool   `toml:"atomic" json:"atomic"`
	Symbol      string `toml:"symbol" json:"symbol"`
}

// RuleSpec describes one rule of any kind. Only the fields relevant
// to the kind are read.
type RuleSpec struct {
	Kind string `toml:"kind" json:"kind"`

	// keyword
	Label   string      `toml:"label" json:"label"`
	Entries []EntrySpec `toml:"entry" json:"entries"`

	// tag / link / specialchar
	Pattern  string `toml:"pattern" json:"pattern"`
	Nesting  bool   `toml:"nesting" json:"nesting"`
	Collapse bool   `toml:"collapse" json:"collapse"`
	Symbol   string `toml:"symbol" json:"symbol"`

	// quote
	Open               string   `toml:"open" json:"open"`
	Close              string   `toml:"close" json:"close"`
	EscapeContractions *bool    `toml:"escape_contractions" json:"escape_contractions"`
	EscapePatterns     []string `toml:"escape_patterns" json:"escape_patterns"`
	AllowNesting       bool     `toml:"allow_nesting" json:"allow_nesting"`
	DetectInnerQuotes  *bool    `toml:"detect_inner_quotes" json:"detect_inner_quotes"`

	// mention
	Trigger string   `toml:"trigger" json:"trigger"`
	Users   []string `toml:"users" json:"users"`

	// script
	Source string `toml:"source" json:"source"`
}

// ruleFile is the top-level TOML document.
type ruleFile struct {
	Rules []RuleSpec `toml:"rule"`
}

// RuleSet is the result of loading a rule document.
type RuleSet struct {
	Rules []rules.Rule

	// Problems lists per-rule issues that were isolated during the
	// load, in document order.
	Problems []error
}

// Matcher builds a matcher over the loaded rules, preserving order.
func (rs *RuleSet) Matcher() *rules.Matcher {
	return rules.NewMatcher(rs.Rules...)
}

// Close releases rules that hold resources (script rules).
func (rs *RuleSet) Close() {
	for _, r := range rs.Rules {
		if c, ok := r.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

// LoadTOML reads a TOML rule file. A missing file is not an error and
// yields an empty set.
func LoadTOML(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RuleSet{}, nil
		}
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}
	return ParseTOML(data)
}

// ParseTOML parses a TOML rule document.
func ParseTOML(data []byte) (*RuleSet, error) {
	var file ruleFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rule file: %w", err)
	}
	return buildRules(file.Rules), nil
}

// buildRules converts specs to rules, isolating per-rule failures.
func buildRules(specs []RuleSpec) *RuleSet {
	rs := &RuleSet{}
	for i, spec := range specs {
		rule, err := buildRule(spec)
		if err != nil {
			rs.Problems = append(rs.Problems, fmt.Errorf("rule %d (%s): %w", i, spec.Kind, err))
			continue
		}
		rs.Rules = append(rs.Rules, rule)
	}
	return rs
}

func buildRule(spec RuleSpec) (rules.Rule, error) {
	switch spec.Kind {
	case "keyword", "glossary":
		entries := make([]rules.KeywordEntry, len(spec.Entries))
		for i, e := range spec.Entries {
			entries[i] = rules.KeywordEntry{
				Term:        e.Term,
				Pattern:     e.Pattern,
				Description: e.Description,
				Atomic:      e.Atomic,
				Symbol:      e.Symbol,
			}
		}
		return rules.NewKeywordRule(spec.Label, entries), nil

	case "tag", "placeholder":
		return rules.NewTagRule(spec.Pattern, spec.Nesting, spec.Collapse, spec.Symbol), nil

	case "quote":
		scanner, err := buildScanner(spec)
		if err != nil {
			return nil, err
		}
		open, closing := spec.Open, spec.Close
		if open == "" {
			open, closing = `"`, `"`
		}
		return rules.NewQuoteRule(open, closing, scanner), nil

	case "link", "url":
		return rules.NewLinkRule(spec.Pattern), nil

	case "mention":
		return rules.NewMentionRule(spec.Trigger, spec.Users), nil

	case "specialchar", "special-char":
		return rules.NewSpecialCharRule(spec.Pattern, spec.Symbol), nil

	case "script", "lua":
		return script.NewRule(spec.Source)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleKind, spec.Kind)
	}
}

func buildScanner(spec RuleSpec) (*quotes.Scanner, error) {
	var opts []quotes.Option
	if spec.EscapeContractions != nil {
		opts = append(opts, quotes.WithEscapeContractions(*spec.EscapeContractions))
	}
	if len(spec.EscapePatterns) > 0 {
		opts = append(opts, quotes.WithEscapePatterns(spec.EscapePatterns))
	}
	if spec.AllowNesting {
		opts = append(opts, quotes.WithAllowNesting(true))
	}
	if spec.DetectInnerQuotes != nil {
		opts = append(opts, quotes.WithDetectInnerQuotes(*spec.DetectInnerQuotes))
	}
	return quotes.NewScanner(opts...)
}
