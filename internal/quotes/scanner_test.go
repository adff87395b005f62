package quotes

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustScanner(t *testing.T, opts ...Option) *Scanner {
	t.Helper()
	s, err := NewScanner(opts...)
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}
	return s
}

// closedRanges returns the distinct closed ranges in a scan result,
// keyed by start offset.
func closedRanges(result map[int]Range) map[int]Range {
	out := make(map[int]Range)
	for _, r := range result {
		if r.Closed {
			out[r.Start] = r
		}
	}
	return out
}

func TestScanBasicPair(t *testing.T) {
	s := mustScanner(t)
	text := `She said "run away" and he replied 'OK fine' before leaving.`
	result := s.Scan(text)

	closed := closedRanges(result)
	if len(closed) != 2 {
		t.Fatalf("got %d closed ranges, want 2: %v", len(closed), closed)
	}

	d, ok := closed[strings.IndexByte(text, '"')]
	if !ok {
		t.Fatal("missing double-quote range")
	}
	if d.Type != Double || d.Content != "run away" {
		t.Errorf("double range = %+v, want content %q", d, "run away")
	}

	sq, ok := closed[strings.IndexByte(text, '\'')]
	if !ok {
		t.Fatal("missing single-quote range")
	}
	if sq.Type != Single || sq.Content != "OK fine" {
		t.Errorf("single range = %+v, want content %q", sq, "OK fine")
	}
}

func TestScanContractions(t *testing.T) {
	text := "don't stop"
	apos := strings.IndexByte(text, '\'')

	t.Run("escaped", func(t *testing.T) {
		s := mustScanner(t)
		if result := s.Scan(text); len(result) != 0 {
			t.Errorf("got %d ranges, want 0: %v", len(result), result)
		}
	})

	t.Run("unescaped", func(t *testing.T) {
		s := mustScanner(t, WithEscapeContractions(false))
		result := s.Scan(text)
		r, ok := result[apos]
		if !ok {
			t.Fatalf("no range at apostrophe offset %d", apos)
		}
		if r.Closed || r.End != -1 || r.Start != apos {
			t.Errorf("range = %+v, want unclosed at %d", r, apos)
		}
	})
}

func TestScanInnerQuotes(t *testing.T) {
	s := mustScanner(t)
	text := `He whispered "she told me 'run away' before dawn"`
	result := s.Scan(text)

	closed := closedRanges(result)
	if len(closed) != 2 {
		t.Fatalf("got %d closed ranges, want 2: %v", len(closed), closed)
	}

	outer := closed[strings.IndexByte(text, '"')]
	if outer.Type != Double || outer.Content != "she told me 'run away' before dawn" {
		t.Errorf("outer range = %+v", outer)
	}
	inner := closed[strings.IndexByte(text, '\'')]
	if inner.Type != Single || inner.Content != "run away" {
		t.Errorf("inner range = %+v", inner)
	}
}

func TestScanInnerQuotesDisabled(t *testing.T) {
	s := mustScanner(t, WithDetectInnerQuotes(false))
	text := `He whispered "she told me 'run away' before dawn"`
	result := s.Scan(text)

	closed := closedRanges(result)
	if len(closed) != 1 {
		t.Fatalf("got %d closed ranges, want 1: %v", len(closed), closed)
	}
	for _, r := range closed {
		if r.Type != Double {
			t.Errorf("range type = %v, want Double", r.Type)
		}
	}
}

func TestScanCrossingQuotes(t *testing.T) {
	text := `"text 'a b" c'`

	t.Run("nesting disallowed", func(t *testing.T) {
		s := mustScanner(t)
		result := s.Scan(text)

		closed := closedRanges(result)
		if len(closed) != 1 {
			t.Fatalf("got %d closed ranges, want 1: %v", len(closed), closed)
		}
		d := closed[0]
		if d.Type != Double || d.Content != "text 'a b" {
			t.Errorf("double range = %+v", d)
		}

		// The trailing apostrophe opens a fresh, unclosed range; the
		// inner pointer from offset 6 must have been forfeited.
		last := strings.LastIndexByte(text, '\'')
		r, ok := result[last]
		if !ok || r.Closed {
			t.Errorf("result[%d] = %+v, want unclosed single", last, r)
		}
		if _, ok := result[strings.IndexByte(text, '\'')]; ok {
			t.Error("forfeited inner quote should produce no range at its offset")
		}
	})

	t.Run("nesting allowed", func(t *testing.T) {
		s := mustScanner(t, WithAllowNesting(true))
		result := s.Scan(text)

		closed := closedRanges(result)
		if len(closed) != 2 {
			t.Fatalf("got %d closed ranges, want 2: %v", len(closed), closed)
		}
		d := closed[0]
		if d.Type != Double || d.Content != "text 'a b" {
			t.Errorf("double range = %+v", d)
		}
		sq := closed[6]
		if sq.Type != Single || sq.Content != `a b" c` {
			t.Errorf("single range = %+v", sq)
		}
	})
}

func TestScanBackslashEscape(t *testing.T) {
	s := mustScanner(t)
	text := `\"abc"`
	result := s.Scan(text)

	r, ok := result[5]
	if !ok {
		t.Fatalf("no range at offset 5: %v", result)
	}
	if r.Closed {
		t.Errorf("range = %+v, want unclosed (first quote is escaped)", r)
	}
}

func TestScanSameTypeNeverNests(t *testing.T) {
	s := mustScanner(t)
	result := s.Scan(`"a "b" c"`)

	closed := closedRanges(result)
	// Pairs close greedily: [0,3] and [5,8].
	if len(closed) != 2 {
		t.Fatalf("got %d closed ranges, want 2: %v", len(closed), closed)
	}
	if r := closed[0]; r.End != 3 {
		t.Errorf("first range end = %d, want 3", r.End)
	}
	if r := closed[5]; r.End != 8 {
		t.Errorf("second range end = %d, want 8", r.End)
	}
}

func TestScanSymmetry(t *testing.T) {
	s := mustScanner(t)
	result := s.Scan(`pre "mid" post 'tail'`)

	for _, r := range result {
		if !r.Closed {
			continue
		}
		if !reflect.DeepEqual(result[r.Start], result[r.End]) {
			t.Errorf("range at start %d and end %d differ", r.Start, r.End)
		}
	}
}

func TestScanIdempotent(t *testing.T) {
	s := mustScanner(t)
	text := `She said "run away" and 'left "quickly'`
	a := s.Scan(text)
	b := s.Scan(text)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated scans differ:\n%v\n%v", a, b)
	}
}

func TestNewScannerInvalidPatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
	}{
		{"empty entry", []string{"n't", ""}},
		{"no apostrophe", []string{"nt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScanner(WithEscapePatterns(tt.patterns))
			if !errors.Is(err, ErrInvalidEscapePattern) {
				t.Errorf("NewScanner() error = %v, want ErrInvalidEscapePattern", err)
			}
		})
	}
}

func TestCustomEscapePatterns(t *testing.T) {
	// A table that does not escape "n't" treats don't as a quote start.
	s := mustScanner(t, WithEscapePatterns([]string{"'s"}))
	result := s.Scan("don't stop")
	if _, ok := result[3]; !ok {
		t.Error("apostrophe should open a range when n't is not in the table")
	}

	if result := s.Scan("the dog's bone"); len(result) != 0 {
		t.Errorf("'s should stay escaped, got %v", result)
	}
}
