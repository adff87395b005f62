package main

import (
	"sync"

	"github.com/dshills/textmark/internal/document"
	"github.com/dshills/textmark/internal/rebuild"
)

// surface is a minimal in-memory editing surface. The viewer never
// edits, so it carries no selection; it exists to give the rebuilder a
// run tree to read and replace.
type surface struct {
	mu  sync.Mutex
	doc *document.Document
}

func newSurface(text string) *surface {
	return &surface{doc: document.FromText(text)}
}

func (s *surface) Document() *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *surface) Selection() (rebuild.Selection, bool) {
	return rebuild.Selection{}, false
}

func (s *surface) Apply(doc *document.Document, _ *rebuild.Selection, _ rebuild.EditSource) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}
