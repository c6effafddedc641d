package docset

import (
	"sync"
	"testing"

	"github.com/futig/rag-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_AddAndSources(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(
		entity.Document{Source: "b.pdf", Page: 1},
		entity.Document{Source: "a.pdf", Page: 1},
		entity.Document{Source: "b.pdf", Page: 2},
	))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"b.pdf", "a.pdf"}, s.Sources())
}

func TestSet_DocumentsReturnsCopy(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(entity.Document{Source: "a.pdf", Page: 1, Content: "original"}))

	docs := s.Documents()
	docs[0].Content = "changed"

	assert.Equal(t, "original", s.Documents()[0].Content)
}

func TestSet_Discard(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(entity.Document{Source: "a.pdf", Page: 1}))

	s.Discard()
	s.Discard()

	assert.True(t, s.Discarded())
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Documents())
	assert.ErrorIs(t, s.Add(entity.Document{Source: "a.pdf"}), entity.ErrDocumentsDiscarded)
}

func TestSet_DiscardNil(t *testing.T) {
	var s *Set
	assert.NotPanics(t, s.Discard)
}

func TestSet_ConcurrentAdd(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			_ = s.Add(entity.Document{Source: "a.pdf", Page: page})
		}(i + 1)
	}
	wg.Wait()

	assert.Equal(t, 20, s.Len())
}
