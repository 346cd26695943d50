// Package retrieval ranks knowledge-base documents against a query.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/persona-rag/go-persona/core"
	"github.com/persona-rag/go-persona/embed"
	"github.com/persona-rag/go-persona/kb"
)

// ScoredDocument pairs a document with its raw similarity score and its
// category-weighted adjusted score. Created per query, never persisted.
type ScoredDocument struct {
	Document kb.Document `json:"document"`
	Score    float64     `json:"score"`
	Weighted float64     `json:"weighted_score"`
}

// Result is an ordered retrieval outcome, highest adjusted score first.
type Result struct {
	Scored         []ScoredDocument `json:"scored"`
	K              int              `json:"k"`
	QueryEmbedding []float64        `json:"-"`
}

// TopScore returns the best adjusted score, or 0 for an empty result.
func (r *Result) TopScore() float64 {
	if len(r.Scored) == 0 {
		return 0
	}
	return r.Scored[0].Weighted
}

// Options tune the retriever. The zero value is usable.
type Options struct {
	// Weights adjusts similarity per category; nil means defaults.
	Weights kb.CategoryWeights

	// MinScore drops documents whose raw similarity falls below it.
	// Zero keeps everything.
	MinScore float64
}

// Retriever scores every stored document against a query and returns the
// top-k by adjusted score. Retrieval is a pure read over the store.
type Retriever struct {
	store    *kb.Store
	provider embed.Provider
	weights  kb.CategoryWeights
	minScore float64
}

// New creates a retriever over the given store and embedding provider.
func New(store *kb.Store, provider embed.Provider, opts Options) *Retriever {
	weights := opts.Weights
	if weights == nil {
		weights = kb.DefaultCategoryWeights()
	}
	return &Retriever{
		store:    store,
		provider: provider,
		weights:  weights,
		minScore: opts.MinScore,
	}
}

// Retrieve ranks all documents against the query and returns the first
// min(k, store size) by adjusted score. An empty store yields an empty
// result, not an error; an empty query or k < 1 is a usage error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (*Result, error) {
	if k < 1 {
		return nil, core.NewQueryError("retrieve", query, fmt.Errorf("%w: k must be >= 1, got %d", core.ErrValidation, k))
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, core.NewQueryError("retrieve", query, fmt.Errorf("%w: empty query", core.ErrValidation))
	}

	queryVec, err := r.provider.Embed(ctx, query)
	if err != nil {
		return nil, core.NewQueryError("retrieve", query, err)
	}

	docs := r.store.Documents()
	scored := make([]ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		raw := embed.CosineSimilarity(queryVec, doc.Embedding)
		// Cosine scores span [-1, 1]; the filter only applies when
		// explicitly enabled, so a zero MinScore keeps every document.
		if r.minScore > 0 && raw < r.minScore {
			continue
		}
		scored = append(scored, ScoredDocument{
			Document: doc,
			Score:    raw,
			Weighted: raw * r.weights.Weight(doc.Category),
		})
	}

	// Stable sort keeps insertion order on ties, so repeated identical
	// queries return identical orderings.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Weighted > scored[j].Weighted
	})

	if len(scored) > k {
		scored = scored[:k]
	}

	return &Result{Scored: scored, K: k, QueryEmbedding: queryVec}, nil
}
