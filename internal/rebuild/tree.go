package rebuild

import (
	"fmt"
	"strings"

	"github.com/dshills/textmark/internal/annotation"
	"github.com/dshills/textmark/internal/document"
)

// DefaultMarkerSymbol is the glyph painted for line-break markers.
const DefaultMarkerSymbol = "↵"

// buildTree reconstructs a line/run tree from flattened text and its
// segments. Plain and annotated runs alternate at segment boundaries;
// a decorative marker run is placed on both sides of any line break
// that falls inside an active annotation span. A panic during
// construction is recovered and returned as an error so the caller can
// fall back to an unannotated render.
func buildTree(text string, segments []annotation.HighlightSegment, markerSymbol string) (doc *document.Document, err error) {
	defer func() {
		if p := recover(); p != nil {
			doc = nil
			err = fmt.Errorf("rebuilding run tree: %v", p)
		}
	}()

	for _, seg := range segments {
		if seg.Start < 0 || seg.End > len(text) || seg.Start >= seg.End {
			return nil, fmt.Errorf("segment [%d,%d) outside text of length %d", seg.Start, seg.End, len(text))
		}
	}

	lines := strings.Split(text, "\n")
	doc = &document.Document{Lines: make([]document.Line, len(lines))}

	lineStart := 0
	pendingLead := false
	for li, lineText := range lines {
		lineEnd := lineStart + len(lineText)

		var runs []document.Run
		if pendingLead {
			runs = append(runs, markerRun(markerSymbol))
			pendingLead = false
		}

		pos := lineStart
		for _, seg := range segments {
			if seg.End <= lineStart || seg.Start >= lineEnd {
				continue
			}
			s, e := seg.Start, seg.End
			if s < lineStart {
				s = lineStart
			}
			if e > lineEnd {
				e = lineEnd
			}
			if s > pos {
				runs = append(runs, textRun(text[pos:s]))
			}
			if e > s {
				runs = append(runs, annotatedRun(text[s:e], seg.Annotations))
			}
			pos = e
		}
		if pos < lineEnd {
			runs = append(runs, textRun(text[pos:lineEnd]))
		}

		// A segment containing the separator offset means the
		// annotation continues across the break; mark both sides.
		if li < len(lines)-1 && coversOffset(segments, lineEnd) {
			runs = append(runs, markerRun(markerSymbol))
			pendingLead = true
		}

		doc.Lines[li] = document.Line{Runs: runs}
		lineStart = lineEnd + 1
	}
	return doc, nil
}

func coversOffset(segments []annotation.HighlightSegment, offset int) bool {
	for _, seg := range segments {
		if seg.Start <= offset && offset < seg.End {
			return true
		}
	}
	return false
}

func textRun(text string) document.Run {
	return document.Run{Kind: document.RunText, Text: text, Splittable: true}
}

func markerRun(symbol string) document.Run {
	return document.Run{Kind: document.RunMarker, Symbol: symbol}
}

// annotatedRun builds a run covered by the given annotations. Atomic
// matches (those carrying code points) make the run unsplittable; the
// first annotation with a visible symbol supplies the substitute glyph.
func annotatedRun(text string, anns []annotation.RawRange) document.Run {
	run := document.Run{
		Kind:        document.RunAnnotated,
		Text:        text,
		Annotations: anns,
		Splittable:  true,
	}
	for _, a := range anns {
		if len(a.Annotation.CodePoints) > 0 {
			run.Splittable = false
		}
		if run.Symbol == "" && a.Annotation.Symbol != "" {
			run.Symbol = a.Annotation.Symbol
		}
	}
	return run
}
