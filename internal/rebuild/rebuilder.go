// Package rebuild orchestrates the edit→recompute→rebuild→restore
// cycle: flatten the document, match rules, merge segments, rebuild
// the run tree, and land the caret back on the same logical character.
//
// Change notifications carry an EditSource tag. Only user-sourced
// edits schedule work; the rebuilder's own tree replacement is tagged
// SourceRebuild and must be echoed back with that tag by the host, or
// every rebuild would schedule the next one forever.
package rebuild

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textmark/internal/annotation"
	"github.com/dshills/textmark/internal/document"
	"github.com/dshills/textmark/internal/rules"
	"github.com/dshills/textmark/internal/segment"
)

// State is the rebuilder lifecycle state.
type State int

// Rebuilder states.
const (
	Idle State = iota
	Scheduled
	Rebuilding
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	case Rebuilding:
		return "rebuilding"
	default:
		return "unknown"
	}
}

// EditSource tags a change notification with its origin.
type EditSource int

// Edit sources.
const (
	// SourceUser is an edit made by the user; it schedules a rebuild.
	SourceUser EditSource = iota

	// SourceRebuild is the rebuilder's own tree replacement; ignored.
	SourceRebuild

	// SourceSuppressed is a programmatic replacement meant to bypass
	// scheduling (and typically history); ignored.
	SourceSuppressed
)

// Selection is a pair of structured positions in the run tree.
type Selection struct {
	Start document.Position
	End   document.Position
}

// Host is the text-editing surface the rebuilder drives. The core
// never owns the text; it reads the tree, recomputes, and hands a new
// tree back.
type Host interface {
	// Document returns the current run tree.
	Document() *document.Document

	// Selection returns the current selection, if any.
	Selection() (Selection, bool)

	// Apply replaces the run tree and, when sel is non-nil, restores
	// the selection. src tags the mutation; the host must carry the
	// tag into any change notification it emits for it.
	Apply(doc *document.Document, sel *Selection, src EditSource)
}

// Snapshot is the immutable result of one rebuild pass. It is built
// fully, published once, and never mutated; hover and popover lookups
// read it until the next rebuild supersedes it.
type Snapshot struct {
	ID          uuid.UUID
	Generation  uint64
	Text        string
	Segments    []annotation.HighlightSegment
	Annotations map[string]annotation.RawRange
}

// Rebuilder coalesces edit signals and runs the rebuild cycle.
type Rebuilder struct {
	host    Host
	matcher *rules.Matcher

	delay        time.Duration
	markerSymbol string
	logf         func(format string, args ...any)

	mu    sync.Mutex
	state State
	timer *time.Timer

	gen      atomic.Uint64
	snapshot atomic.Pointer[Snapshot]
}

// Option configures a Rebuilder.
type Option func(*Rebuilder)

// WithDelay sets the coalescing delay between an edit signal and the
// scheduled rebuild (default 150ms).
func WithDelay(d time.Duration) Option {
	return func(r *Rebuilder) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithMarkerSymbol sets the glyph for line-break marker runs.
func WithMarkerSymbol(symbol string) Option {
	return func(r *Rebuilder) {
		if symbol != "" {
			r.markerSymbol = symbol
		}
	}
}

// WithLogger sets the sink for recovered rebuild failures.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(r *Rebuilder) {
		if logf != nil {
			r.logf = logf
		}
	}
}

// New creates a rebuilder for the given host and matcher.
func New(host Host, matcher *rules.Matcher, opts ...Option) *Rebuilder {
	r := &Rebuilder{
		host:         host,
		matcher:      matcher,
		delay:        150 * time.Millisecond,
		markerSymbol: DefaultMarkerSymbol,
		logf:         func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Rebuilder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Snapshot returns the most recently published snapshot, or nil before
// the first rebuild.
func (r *Rebuilder) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

// NotifyEdit handles a change notification from the host. Self-sourced
// and suppressed edits are ignored; a user edit (re)starts the single
// coalescing timer. At most one rebuild is ever pending: a new signal
// while one is scheduled replaces it rather than queuing a second.
func (r *Rebuilder) NotifyEdit(src EditSource) {
	if src != SourceUser {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
	}
	r.state = Scheduled
	r.timer = time.AfterFunc(r.delay, r.runScheduled)
}

// SetMatcher swaps the rule set and schedules a rebuild, exactly as a
// user edit would: rule changes and text changes coalesce together.
func (r *Rebuilder) SetMatcher(m *rules.Matcher) {
	r.mu.Lock()
	r.matcher = m
	if r.timer != nil {
		r.timer.Stop()
	}
	r.state = Scheduled
	r.timer = time.AfterFunc(r.delay, r.runScheduled)
	r.mu.Unlock()
}

// Flush cancels any pending rebuild and runs one synchronously,
// returning the published snapshot.
func (r *Rebuilder) Flush() *Snapshot {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	snap := r.rebuildLocked()
	r.mu.Unlock()
	return snap
}

// Stop cancels any pending rebuild without running it.
func (r *Rebuilder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.state = Idle
}

func (r *Rebuilder) runScheduled() {
	r.mu.Lock()
	if r.state != Scheduled {
		// Superseded by Flush or Stop after the timer fired.
		r.mu.Unlock()
		return
	}
	r.rebuildLocked()
	r.mu.Unlock()
}

// rebuildLocked runs one full rebuild pass. The caller holds r.mu.
func (r *Rebuilder) rebuildLocked() *Snapshot {
	r.state = Rebuilding
	gen := r.gen.Add(1)

	doc := r.host.Document()
	text := doc.Flatten()

	raw := r.matcher.Match(text)
	segments := segment.Segments(raw)

	snap := &Snapshot{
		ID:          uuid.New(),
		Generation:  gen,
		Text:        text,
		Segments:    segments,
		Annotations: segment.AnnotationMap(segments),
	}

	// Capture the selection as flat offsets before the tree is torn
	// down; node identities will not survive.
	sel, hasSel := r.host.Selection()
	var startOff, endOff int
	if hasSel {
		startOff = document.PositionToOffset(doc, sel.Start)
		endOff = document.PositionToOffset(doc, sel.End)
	}

	newDoc, err := buildTree(text, segments, r.markerSymbol)
	if err != nil {
		r.logf("rebuild: falling back to plain render: %v", err)
		newDoc = document.FromText(text)
	}

	// A stale pass must never clobber a newer one's tree or caret.
	if r.gen.Load() != gen {
		r.state = Idle
		return r.snapshot.Load()
	}
	r.snapshot.Store(snap)

	var restored *Selection
	if hasSel {
		restored = &Selection{
			Start: document.OffsetToPosition(newDoc, startOff),
			End:   document.OffsetToPosition(newDoc, endOff),
		}
	}
	r.host.Apply(newDoc, restored, SourceRebuild)

	r.state = Idle
	return snap
}
