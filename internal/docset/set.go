package docset

import (
	"sync"

	"github.com/futig/rag-assistant/internal/entity"
)

// Set holds the pages of one upload batch for a single ephemeral query.
// It is never persisted; Discard drops the pages and the set cannot be reused.
type Set struct {
	mu        sync.Mutex
	docs      []entity.Document
	discarded bool
}

func New() *Set {
	return &Set{}
}

// Add appends pages to the set.
func (s *Set) Add(docs ...entity.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discarded {
		return entity.ErrDocumentsDiscarded
	}
	s.docs = append(s.docs, docs...)
	return nil
}

// Documents returns a copy of the pages in upload order.
func (s *Set) Documents() []entity.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Sources returns the distinct filenames in first-seen order.
func (s *Set) Sources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var out []string
	for _, d := range s.docs {
		if _, ok := seen[d.Source]; ok {
			continue
		}
		seen[d.Source] = struct{}{}
		out = append(out, d.Source)
	}
	return out
}

// Discard releases the pages. Safe to call more than once and on nil.
func (s *Set) Discard() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = nil
	s.discarded = true
}

func (s *Set) Discarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discarded
}
