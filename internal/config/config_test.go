package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/textmark/internal/annotation"
)

const sampleTOML = `
[[rule]]
kind  = "keyword"
label = "glossary"
  [[rule.entry]]
  term        = "segment"
  description = "a highlight interval"

[[rule]]
kind     = "tag"
pattern  = '\{\{\w+\}\}'
collapse = true
symbol   = "⬚"

[[rule]]
kind = "quote"

[[rule]]
kind = "link"

[[rule]]
kind    = "mention"
trigger = "@"
users   = ["alice"]

[[rule]]
kind = "specialchar"
`

func TestParseTOML(t *testing.T) {
	rs, err := ParseTOML([]byte(sampleTOML))
	if err != nil {
		t.Fatalf("ParseTOML() error = %v", err)
	}
	if len(rs.Problems) != 0 {
		t.Fatalf("problems = %v", rs.Problems)
	}
	if len(rs.Rules) != 6 {
		t.Fatalf("got %d rules, want 6", len(rs.Rules))
	}

	wantKinds := []annotation.Kind{
		annotation.KindKeyword,
		annotation.KindTag,
		annotation.KindQuote,
		annotation.KindLink,
		annotation.KindMention,
		annotation.KindSpecialChar,
	}
	for i, r := range rs.Rules {
		if r.Kind() != wantKinds[i] {
			t.Errorf("rule %d kind = %v, want %v", i, r.Kind(), wantKinds[i])
		}
	}

	// The loaded set must actually match.
	got := rs.Matcher().Match(`the segment and {{name}} plus @alice`)
	if len(got) != 3 {
		t.Errorf("got %d ranges, want 3: %v", len(got), got)
	}
}

func TestParseTOMLBadDocument(t *testing.T) {
	if _, err := ParseTOML([]byte("not [ valid toml")); err == nil {
		t.Error("ParseTOML should fail on a malformed document")
	}
}

func TestParseTOMLIsolatesBadRules(t *testing.T) {
	doc := `
[[rule]]
kind = "mystery"

[[rule]]
kind   = "script"
source = "function match( broken"

[[rule]]
kind = "quote"
escape_patterns = ["no-apostrophe"]

[[rule]]
kind  = "keyword"
label = "ok"
  [[rule.entry]]
  term = "fox"
`
	rs, err := ParseTOML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseTOML() error = %v", err)
	}
	if len(rs.Rules) != 1 {
		t.Fatalf("got %d rules, want 1: problems=%v", len(rs.Rules), rs.Problems)
	}
	if len(rs.Problems) != 3 {
		t.Fatalf("got %d problems, want 3: %v", len(rs.Problems), rs.Problems)
	}
	if !errors.Is(rs.Problems[0], ErrUnknownRuleKind) {
		t.Errorf("first problem = %v, want ErrUnknownRuleKind", rs.Problems[0])
	}

	if got := rs.Matcher().Match("the fox"); len(got) != 1 {
		t.Errorf("surviving rule should match: %v", got)
	}
}

func TestLoadTOMLMissingFile(t *testing.T) {
	rs, err := LoadTOML(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadTOML() error = %v, missing file should not fail", err)
	}
	if len(rs.Rules) != 0 {
		t.Errorf("rules = %v, want empty", rs.Rules)
	}
}

func TestLoadTOMLFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	rs, err := LoadTOML(path)
	if err != nil {
		t.Fatalf("LoadTOML() error = %v", err)
	}
	if len(rs.Rules) != 6 {
		t.Errorf("got %d rules, want 6", len(rs.Rules))
	}
}

func TestParseJSON(t *testing.T) {
	doc := `{
	  "rules": [
	    {"kind": "keyword", "label": "g", "entries": [{"term": "fox", "atomic": true}]},
	    {"kind": "quote", "escape_contractions": false, "allow_nesting": true},
	    {"kind": "script", "source": "function match(text) return {} end"}
	  ]
	}`
	rs, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	defer rs.Close()

	if len(rs.Problems) != 0 {
		t.Fatalf("problems = %v", rs.Problems)
	}
	if len(rs.Rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(rs.Rules))
	}

	got := rs.Rules[0].Match("a fox")
	if len(got) != 1 || len(got[0].Annotation.CodePoints) == 0 {
		t.Errorf("atomic entry should carry code points: %v", got)
	}

	// escape_contractions=false makes the contraction apostrophe open
	// a quote; allow_nesting keeps crossing ranges.
	if got := rs.Rules[1].Match(`don't "x" stop'`); len(got) == 0 {
		t.Error("quote rule options not honored")
	}
}

func TestParseJSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"garbage", "{{{"},
		{"no rules key", `{"other": 1}`},
		{"rules not array", `{"rules": 7}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSON([]byte(tt.doc)); !errors.Is(err, ErrInvalidJSON) {
				t.Errorf("ParseJSON() error = %v, want ErrInvalidJSON", err)
			}
		})
	}
}

func TestRuleSetClose(t *testing.T) {
	rs, err := ParseTOML([]byte(`
[[rule]]
kind   = "script"
source = "function match(text) return { {start=0, finish=1} } end"
`))
	if err != nil {
		t.Fatalf("ParseTOML() error = %v", err)
	}
	if len(rs.Rules) != 1 {
		t.Fatalf("rules = %v, problems = %v", rs.Rules, rs.Problems)
	}
	rs.Close()
	if got := rs.Rules[0].Match("abc"); got != nil {
		t.Errorf("closed script rule returned %v", got)
	}
}
