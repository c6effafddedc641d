package session

import (
	"sync"

	"github.com/futig/rag-assistant/internal/docset"
	"github.com/futig/rag-assistant/internal/entity"
)

// Session is the per-browser state kept between page views.
type Session struct {
	ID string

	mu       sync.Mutex
	settings entity.Settings
	example  int
	pending  *docset.Set
	redirect string

	lastQuestion string
	lastResult   *entity.QueryResult
}

func newSession(id string, defaults entity.Settings) *Session {
	return &Session{ID: id, settings: defaults}
}

func (s *Session) Settings() entity.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings replaces the sidebar settings. An empty APIKey keeps the
// previously entered key.
func (s *Session) UpdateSettings(settings entity.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.APIKey == "" {
		settings.APIKey = s.settings.APIKey
	}
	s.settings = settings
}

func (s *Session) ClearAPIKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.APIKey = ""
}

// NextExample returns the example index to show now and advances the rotation.
func (s *Session) NextExample(total int) int {
	if total <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.example % total
	s.example = (idx + 1) % total
	return idx
}

// SetDocuments parks a freshly uploaded set. Any earlier pending set is discarded.
func (s *Session) SetDocuments(set *docset.Set) {
	s.mu.Lock()
	prev := s.pending
	s.pending = set
	s.mu.Unlock()

	if prev != nil && prev != set {
		prev.Discard()
	}
}

// PendingDocuments reports the page count and filenames of the parked set.
func (s *Session) PendingDocuments() (pages int, sources []string) {
	s.mu.Lock()
	set := s.pending
	s.mu.Unlock()

	if set == nil {
		return 0, nil
	}
	return set.Len(), set.Sources()
}

// TakeDocuments hands the parked set to the caller, who becomes responsible
// for discarding it. Returns nil when nothing is parked.
func (s *Session) TakeDocuments() *docset.Set {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.pending
	s.pending = nil
	return set
}

func (s *Session) SetRedirect(page string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirect = page
}

// TakeRedirect returns the pending navigation target once.
func (s *Session) TakeRedirect() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.redirect
	s.redirect = ""
	return page
}

// SetLastAnswer keeps the latest answer in memory for export.
func (s *Session) SetLastAnswer(question string, res *entity.QueryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuestion = question
	s.lastResult = res
}

func (s *Session) LastAnswer() (string, *entity.QueryResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuestion, s.lastResult, s.lastResult != nil
}

func (s *Session) discard() {
	s.TakeDocuments().Discard()
}
