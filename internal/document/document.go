// Package document models the rendered line/run tree and the mapping
// between flat text offsets and structured positions within it.
//
// A document is a list of lines; a line is a list of runs. Runs are
// either real content (plain or annotated text) or decorative markers.
// Markers carry no semantic content: they are excluded from flattening
// and from offset counting, so the flat text and the tree always agree
// on offsets no matter how many markers a rebuild inserts.
package document

import (
	"strings"

	"github.com/dshills/textmark/internal/annotation"
)

// RunKind identifies the run flavor.
type RunKind int

// Run kinds.
const (
	// RunText is plain, unannotated content.
	RunText RunKind = iota

	// RunAnnotated is content covered by one or more annotations.
	RunAnnotated

	// RunMarker is a decorative inline unit (e.g. a line-break glyph)
	// with zero semantic content.
	RunMarker
)

// String returns the kind name.
func (k RunKind) String() string {
	switch k {
	case RunText:
		return "text"
	case RunAnnotated:
		return "annotated"
	case RunMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Run is one inline unit of a rendered line.
type Run struct {
	Kind RunKind

	// Text is the run's content. Empty for markers.
	Text string

	// Symbol is the visible substitute painted instead of Text for
	// markers and collapsed/atomic annotated runs.
	Symbol string

	// Annotations lists every range covering this run, outermost
	// first. Nil for plain text and markers.
	Annotations []annotation.RawRange

	// Splittable reports whether the editing surface may split the
	// run or type inside it. False for markers and atomic runs.
	Splittable bool
}

// Decorative reports whether the run is excluded from offset counting.
func (r Run) Decorative() bool { return r.Kind == RunMarker }

// Len returns the run's contribution to flat offsets in bytes.
func (r Run) Len() int {
	if r.Decorative() {
		return 0
	}
	return len(r.Text)
}

// Line is one rendered line.
type Line struct {
	Runs []Run
}

// ContentLen returns the line's flat length, markers excluded.
func (l Line) ContentLen() int {
	n := 0
	for _, r := range l.Runs {
		n += r.Len()
	}
	return n
}

// Text returns the line's content, markers excluded.
func (l Line) Text() string {
	var b strings.Builder
	for _, r := range l.Runs {
		if r.Decorative() {
			continue
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

// Document is the rendered line/run tree.
type Document struct {
	Lines []Line
}

// FromText builds an unannotated document: one splittable text run per
// line, empty lines included.
func FromText(text string) *Document {
	parts := strings.Split(text, "\n")
	d := &Document{Lines: make([]Line, len(parts))}
	for i, p := range parts {
		if p == "" {
			d.Lines[i] = Line{}
			continue
		}
		d.Lines[i] = Line{Runs: []Run{{Kind: RunText, Text: p, Splittable: true}}}
	}
	return d
}

// Flatten joins line contents with a single separator, excluding
// decorative markers. Offsets into the result line up with the
// position mapper: each line contributes ContentLen()+1 (the +1 is
// the separator), except the last.
func (d *Document) Flatten() string {
	var b strings.Builder
	for i, line := range d.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, r := range line.Runs {
			if r.Decorative() {
				continue
			}
			b.WriteString(r.Text)
		}
	}
	return b.String()
}

// ContentLen returns the flattened length of the whole document.
func (d *Document) ContentLen() int {
	n := 0
	for i, line := range d.Lines {
		if i > 0 {
			n++
		}
		n += line.ContentLen()
	}
	return n
}
