// Package outline holds the region outline of the active document and keeps
// it in step with editor events.
package outline

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/itsmostafa/regiontree/internal/region"
)

var (
	ErrNoActiveDocument = errors.New("no active document")
	ErrNoRegion         = errors.New("no region selected")
)

// Document is an open text document supplied by the host.
type Document interface {
	URI() string
	Text() string
}

// Target is a cursor position the host should move to and reveal.
type Target struct {
	URI      string          `json:"uri"`
	Position region.Position `json:"position"`
	Range    region.Range    `json:"range"`
}

// snapshot pairs a forest with the document it was extracted from.
type snapshot struct {
	uri     string
	regions region.Forest
}

// Session tracks the active document and its current region outline.
// Every refresh swaps in a new snapshot; readers never see a partial one.
type Session struct {
	ID string

	log *slog.Logger

	mu        sync.Mutex
	active    Document
	listeners []func()

	current atomic.Pointer[snapshot]
}

// NewSession creates a Session with an empty outline.
func NewSession(log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	s := &Session{ID: uuid.New().String()}
	s.log = log.With("session", s.ID)
	s.current.Store(&snapshot{regions: region.Forest{}})
	return s
}

// OnChange registers fn to be called after each refresh of the outline.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Focus handles an active-editor change. A nil doc clears the outline.
func (s *Session) Focus(doc Document) {
	s.mu.Lock()
	s.active = doc
	s.mu.Unlock()

	s.refresh(doc)
}

// Open handles a newly opened document. Only the active document refreshes the outline.
func (s *Session) Open(doc Document) {
	if s.isActive(doc) {
		s.refresh(doc)
	}
}

// Save handles a saved document. Only the active document refreshes the outline.
func (s *Session) Save(doc Document) {
	if s.isActive(doc) {
		s.refresh(doc)
	}
}

// Close handles a closed document and clears the outline.
func (s *Session) Close(doc Document) {
	if doc != nil {
		s.log.Info("document closed", "uri", doc.URI())
	}

	s.mu.Lock()
	if doc != nil && s.active != nil && s.active.URI() == doc.URI() {
		s.active = nil
	}
	s.mu.Unlock()

	s.publish(&snapshot{regions: region.Forest{}})
}

// Active returns the focused document, or nil.
func (s *Session) Active() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// URI returns the URI of the document the outline was built from.
func (s *Session) URI() string {
	return s.current.Load().uri
}

// Regions returns a copy of the current outline that the caller may modify.
func (s *Session) Regions() region.Forest {
	return s.current.Load().regions.Clone()
}

// Children returns the children of r, or the top-level regions when r is nil.
func (s *Session) Children(r *region.Region) []*region.Region {
	if r == nil {
		return s.Regions()
	}
	return r.Children
}

// Select translates a region into the cursor target for the active document.
func (s *Session) Select(r *region.Region) (Target, error) {
	if r == nil {
		return Target{}, ErrNoRegion
	}

	doc := s.Active()
	if doc == nil {
		return Target{}, ErrNoActiveDocument
	}

	rng := r.Range()
	return Target{
		URI:      doc.URI(),
		Position: rng.Start,
		Range:    rng,
	}, nil
}

func (s *Session) isActive(doc Document) bool {
	if doc == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil && s.active.URI() == doc.URI()
}

func (s *Session) refresh(doc Document) {
	if doc == nil {
		s.publish(&snapshot{regions: region.Forest{}})
		return
	}

	regions := region.Extract(doc.Text())
	s.log.Debug("outline refreshed", "uri", doc.URI(), "regions", regions.Count(), "depth", regions.Depth())
	s.publish(&snapshot{uri: doc.URI(), regions: regions})
}

func (s *Session) publish(snap *snapshot) {
	s.current.Store(snap)

	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
