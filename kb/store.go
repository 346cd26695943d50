package kb

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/persona-rag/go-persona/core"
	"github.com/persona-rag/go-persona/embed"
)

// Entry is a raw ingestion record before normalization and embedding.
type Entry struct {
	Text     string
	Category Category
	Metadata map[string]string
}

// Store owns the document collection. Ingestion is serialized against
// concurrent queries with a single-writer, multiple-reader lock; documents
// and their embeddings are immutable once added.
type Store struct {
	mu       sync.RWMutex
	provider embed.Provider
	docs     []Document
}

// NewStore creates an empty store bound to an embedding provider.
func NewStore(provider embed.Provider) *Store {
	return &Store{provider: provider}
}

// AddDocuments normalizes, embeds, and appends a batch of entries.
// The whole batch is rejected if any entry has empty text after trimming.
// Embeddings are computed before anything is appended, so a provider
// failure leaves the store unchanged.
func (s *Store) AddDocuments(ctx context.Context, entries []Entry) error {
	normalized := make([]Entry, len(entries))
	for i, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			return fmt.Errorf("%w: entry %d has empty text", core.ErrValidation, i)
		}
		normalized[i] = Entry{Text: text, Category: e.Category, Metadata: e.Metadata}
	}

	embeddings := make([][]float64, len(normalized))
	for i, e := range normalized {
		vec, err := s.provider.Embed(ctx, e.Text)
		if err != nil {
			return fmt.Errorf("embed entry %d: %w", i, err)
		}
		embeddings[i] = vec
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range normalized {
		s.docs = append(s.docs, Document{
			ID:        fmt.Sprintf("doc-%d", len(s.docs)+1),
			Text:      e.Text,
			Category:  e.Category,
			Embedding: embeddings[i],
			Metadata:  e.Metadata,
		})
	}
	return nil
}

// Size returns the current document count.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Documents returns the collection in insertion order. The returned slice
// is a copy; the documents themselves are shared and must not be mutated.
func (s *Store) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, len(s.docs))
	copy(docs, s.docs)
	return docs
}

// CategoryStats returns the document count per category.
func (s *Store) CategoryStats() map[Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[Category]int)
	for _, d := range s.docs {
		stats[d.Category]++
	}
	return stats
}

// Provider returns the embedding provider the store is bound to.
func (s *Store) Provider() embed.Provider {
	return s.provider
}
