// Package segment merges raw, possibly overlapping annotated ranges
// into minimal non-overlapping highlight segments.
//
// Cut points are drawn only from existing range boundaries, so a
// segment is always fully inside or fully outside any given range.
// That property is what makes multi-annotation segments a correct
// representation of nesting: a renderer never has to split a range
// mid-segment.
package segment

import (
	"sort"

	"github.com/dshills/textmark/internal/annotation"
)

// Segments merges ranges into ordered, non-overlapping segments whose
// union of intervals equals the union of the input intervals.
//
// Determinism: segments are emitted left to right; within a segment,
// annotations keep the input slice order (rule order, then discovery
// order). Ranges with End <= Start are ignored.
func Segments(ranges []annotation.RawRange) []annotation.HighlightSegment {
	cuts := cutPoints(ranges)
	if len(cuts) < 2 {
		return nil
	}

	segments := make([]annotation.HighlightSegment, 0, len(cuts)-1)
	for i := 0; i < len(cuts)-1; i++ {
		segStart, segEnd := cuts[i], cuts[i+1]

		var covering []annotation.RawRange
		for _, r := range ranges {
			if r.End <= r.Start {
				continue
			}
			if r.Covers(segStart, segEnd) {
				covering = append(covering, r)
			}
		}
		if len(covering) == 0 {
			continue
		}
		segments = append(segments, annotation.HighlightSegment{
			Start:       segStart,
			End:         segEnd,
			Annotations: covering,
		})
	}
	return segments
}

// cutPoints returns the sorted distinct boundaries of all ranges.
func cutPoints(ranges []annotation.RawRange) []int {
	seen := make(map[int]bool, len(ranges)*2)
	cuts := make([]int, 0, len(ranges)*2)
	for _, r := range ranges {
		if r.End <= r.Start {
			continue
		}
		if !seen[r.Start] {
			seen[r.Start] = true
			cuts = append(cuts, r.Start)
		}
		if !seen[r.End] {
			seen[r.End] = true
			cuts = append(cuts, r.End)
		}
	}
	sort.Ints(cuts)
	return cuts
}

// AnnotationMap indexes every distinct annotation in segments by its
// stable identifier. The returned map is built fresh on every call and
// never mutated afterwards; callers treat it as immutable.
func AnnotationMap(segments []annotation.HighlightSegment) map[string]annotation.RawRange {
	out := make(map[string]annotation.RawRange)
	for _, seg := range segments {
		for _, r := range seg.Annotations {
			if _, ok := out[r.Annotation.ID]; !ok {
				out[r.Annotation.ID] = r
			}
		}
	}
	return out
}
