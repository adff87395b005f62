package document

import "testing"

func markedDoc() *Document {
	// Line 0: "hello " + annotated "world" + marker
	// Line 1: marker + annotated "again" + ", bye"
	return &Document{Lines: []Line{
		{Runs: []Run{
			{Kind: RunText, Text: "hello ", Splittable: true},
			{Kind: RunAnnotated, Text: "world", Splittable: true},
			{Kind: RunMarker, Symbol: "↵"},
		}},
		{Runs: []Run{
			{Kind: RunMarker, Symbol: "↵"},
			{Kind: RunAnnotated, Text: "again", Splittable: true},
			{Kind: RunText, Text: ", bye", Splittable: true},
		}},
	}}
}

func TestFlattenExcludesMarkers(t *testing.T) {
	d := markedDoc()
	want := "hello world\nagain, bye"
	if got := d.Flatten(); got != want {
		t.Errorf("Flatten() = %q, want %q", got, want)
	}
	if got := d.ContentLen(); got != len(want) {
		t.Errorf("ContentLen() = %d, want %d", got, len(want))
	}
}

func TestFromTextRoundTrip(t *testing.T) {
	tests := []string{
		"single line",
		"two\nlines",
		"",
		"trailing\n",
		"\nleading",
		"a\n\nb",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if got := FromText(text).Flatten(); got != text {
				t.Errorf("Flatten(FromText(%q)) = %q", text, got)
			}
		})
	}
}

func TestLineText(t *testing.T) {
	d := markedDoc()
	if got := d.Lines[0].Text(); got != "hello world" {
		t.Errorf("Line.Text() = %q", got)
	}
}

func TestRunLen(t *testing.T) {
	marker := Run{Kind: RunMarker, Symbol: "↵"}
	if marker.Len() != 0 {
		t.Errorf("marker Len() = %d, want 0", marker.Len())
	}
	text := Run{Kind: RunText, Text: "abc"}
	if text.Len() != 3 {
		t.Errorf("text Len() = %d, want 3", text.Len())
	}
}
