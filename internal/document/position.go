package document

// Position is a structured address into the line/run tree.
//
// Run >= 0 addresses a byte offset within that run (a text position).
// Run == LineLevel addresses the line itself, with Offset counting
// child runs (an element position).
type Position struct {
	Line   int
	Run    int
	Offset int
}

// LineLevel marks a position that addresses a line rather than a run.
const LineLevel = -1

// PositionToOffset translates a structured position to a flat offset.
// Decorative marker runs contribute nothing; a position landing
// exactly on a marker clamps to the offset immediately before it.
// Out-of-range components clamp rather than fail.
func PositionToOffset(d *Document, p Position) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(d.Lines) {
		return d.ContentLen()
	}

	offset := 0
	for i := 0; i < p.Line; i++ {
		offset += d.Lines[i].ContentLen() + 1
	}
	line := d.Lines[p.Line]

	if p.Run == LineLevel {
		// Element position: Offset counts preceding child runs.
		n := p.Offset
		if n > len(line.Runs) {
			n = len(line.Runs)
		}
		for i := 0; i < n; i++ {
			offset += line.Runs[i].Len()
		}
		return offset
	}

	run := p.Run
	if run >= len(line.Runs) {
		return offset + line.ContentLen()
	}
	for i := 0; i < run; i++ {
		offset += line.Runs[i].Len()
	}
	target := line.Runs[run]
	if target.Decorative() {
		return offset // clamp to just before the marker
	}
	intra := p.Offset
	if intra > target.Len() {
		intra = target.Len()
	}
	if intra < 0 {
		intra = 0
	}
	return offset + intra
}

// OffsetToPosition translates a flat offset back into the tree,
// skipping decorative markers. An offset past the end of content
// clamps to the end of the last real run.
func OffsetToPosition(d *Document, offset int) Position {
	if offset < 0 {
		offset = 0
	}

	for li, line := range d.Lines {
		lineLen := line.ContentLen()
		if offset > lineLen {
			offset -= lineLen + 1 // line content plus separator
			continue
		}

		// Inside this line (offset == lineLen is the caret just
		// before the separator).
		residual := offset
		last := Position{Line: li, Run: LineLevel, Offset: 0}
		for ri, run := range line.Runs {
			if run.Decorative() {
				continue
			}
			if residual < run.Len() {
				return Position{Line: li, Run: ri, Offset: residual}
			}
			residual -= run.Len()
			last = Position{Line: li, Run: ri, Offset: run.Len()}
		}
		return last
	}

	return endPosition(d)
}

// endPosition returns the position of the last real run's end, or a
// line-level position when the document has no real runs.
func endPosition(d *Document) Position {
	for li := len(d.Lines) - 1; li >= 0; li-- {
		line := d.Lines[li]
		for ri := len(line.Runs) - 1; ri >= 0; ri-- {
			if line.Runs[ri].Decorative() {
				continue
			}
			return Position{Line: li, Run: ri, Offset: line.Runs[ri].Len()}
		}
		if li == len(d.Lines)-1 {
			return Position{Line: li, Run: LineLevel, Offset: 0}
		}
	}
	return Position{Line: 0, Run: LineLevel, Offset: 0}
}
