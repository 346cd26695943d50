package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persona-rag/go-persona/core"
	"github.com/persona-rag/go-persona/kb"
)

// vecProvider returns a fixed vector per text so similarity scores are
// exact and rankings can be asserted precisely.
type vecProvider struct {
	vectors map[string][]float64
	err     error
}

func (p *vecProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if p.err != nil {
		return nil, p.err
	}
	if v, ok := p.vectors[text]; ok {
		return v, nil
	}
	return []float64{0, 0, 1}, nil
}

func (p *vecProvider) Dimensions() int { return 3 }
func (p *vecProvider) Name() string    { return "stub" }

func buildStore(t *testing.T, provider *vecProvider, entries []kb.Entry) *kb.Store {
	t.Helper()
	s := kb.NewStore(provider)
	require.NoError(t, s.AddDocuments(context.Background(), entries))
	return s
}

func TestRetrieveRanksByAdjustedScore(t *testing.T) {
	provider := &vecProvider{vectors: map[string][]float64{
		"query":    {1, 0, 0},
		"close":    {1, 0.2, 0},  // raw ~0.98
		"closer":   {1, 0.05, 0}, // raw ~0.999
		"far away": {0, 1, 0},    // raw 0
	}}
	store := buildStore(t, provider, []kb.Entry{
		{Text: "close", Category: kb.CategoryProjects},
		{Text: "closer", Category: kb.CategoryProjects},
		{Text: "far away", Category: kb.CategoryProjects},
	})
	r := New(store, provider, Options{})

	result, err := r.Retrieve(context.Background(), "query", 3)
	require.NoError(t, err)
	require.Len(t, result.Scored, 3)

	assert.Equal(t, "closer", result.Scored[0].Document.Text)
	assert.Equal(t, "close", result.Scored[1].Document.Text)
	assert.Equal(t, "far away", result.Scored[2].Document.Text)
	assert.Equal(t, result.Scored[0].Weighted, result.TopScore())
}

func TestRetrieveCategoryWeightReordersResults(t *testing.T) {
	// The FAQ document has slightly lower raw similarity but its 1.2
	// weight lifts it above the project document.
	provider := &vecProvider{vectors: map[string][]float64{
		"query":   {1, 0, 0},
		"faq doc": {1, 0.3, 0},  // raw 0.958
		"proj":    {1, 0.25, 0}, // raw 0.970
	}}
	store := buildStore(t, provider, []kb.Entry{
		{Text: "proj", Category: kb.CategoryProjects},
		{Text: "faq doc", Category: kb.CategoryFAQ},
	})
	r := New(store, provider, Options{Weights: kb.DefaultCategoryWeights()})

	result, err := r.Retrieve(context.Background(), "query", 2)
	require.NoError(t, err)
	require.Len(t, result.Scored, 2)

	assert.Equal(t, "faq doc", result.Scored[0].Document.Text)
	// Raw scores keep their true order; only the adjusted order changes.
	assert.Greater(t, result.Scored[1].Score, result.Scored[0].Score)
	assert.InDelta(t, result.Scored[0].Score*1.2, result.Scored[0].Weighted, 1e-9)
}

func TestRetrieveClampsKToStoreSize(t *testing.T) {
	provider := &vecProvider{vectors: map[string][]float64{}}
	store := buildStore(t, provider, []kb.Entry{
		{Text: "only one", Category: kb.CategoryAbout},
	})
	r := New(store, provider, Options{})

	result, err := r.Retrieve(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Len(t, result.Scored, 1)
	assert.Equal(t, 10, result.K)
}

func TestRetrieveEmptyStore(t *testing.T) {
	provider := &vecProvider{}
	r := New(kb.NewStore(provider), provider, Options{})

	result, err := r.Retrieve(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, result.Scored)
	assert.Zero(t, result.TopScore())
}

func TestRetrieveValidation(t *testing.T) {
	provider := &vecProvider{}
	r := New(kb.NewStore(provider), provider, Options{})

	_, err := r.Retrieve(context.Background(), "question", 0)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = r.Retrieve(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, core.ErrValidation)

	var qe *core.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "retrieve", qe.Op)
}

func TestRetrieveProviderErrorPropagates(t *testing.T) {
	provider := &vecProvider{err: errors.New("boom")}
	r := New(kb.NewStore(provider), provider, Options{})

	_, err := r.Retrieve(context.Background(), "question", 5)
	require.Error(t, err)

	var qe *core.QueryError
	assert.ErrorAs(t, err, &qe)
}

func TestRetrieveDeterministicOnTies(t *testing.T) {
	// All documents score identically; insertion order must hold across
	// repeated queries.
	provider := &vecProvider{vectors: map[string][]float64{
		"query": {1, 0, 0},
		"a":     {1, 0, 0},
		"b":     {1, 0, 0},
		"c":     {1, 0, 0},
	}}
	store := buildStore(t, provider, []kb.Entry{
		{Text: "a", Category: kb.CategoryOther},
		{Text: "b", Category: kb.CategoryOther},
		{Text: "c", Category: kb.CategoryOther},
	})
	r := New(store, provider, Options{})

	for i := 0; i < 5; i++ {
		result, err := r.Retrieve(context.Background(), "query", 3)
		require.NoError(t, err)
		assert.Equal(t, "a", result.Scored[0].Document.Text)
		assert.Equal(t, "b", result.Scored[1].Document.Text)
		assert.Equal(t, "c", result.Scored[2].Document.Text)
	}
}

func TestRetrieveKeepsNegativeScoresByDefault(t *testing.T) {
	// Semantic embeddings can score negatively; with no MinScore
	// configured every document still counts toward k.
	provider := &vecProvider{vectors: map[string][]float64{
		"query":    {1, 0, 0},
		"aligned":  {1, 0, 0},
		"opposite": {-1, 0, 0},
	}}
	store := buildStore(t, provider, []kb.Entry{
		{Text: "aligned", Category: kb.CategoryAbout},
		{Text: "opposite", Category: kb.CategoryAbout},
	})
	r := New(store, provider, Options{})

	result, err := r.Retrieve(context.Background(), "query", 2)
	require.NoError(t, err)
	require.Len(t, result.Scored, 2)
	assert.Equal(t, "aligned", result.Scored[0].Document.Text)
	assert.Equal(t, "opposite", result.Scored[1].Document.Text)
	assert.InDelta(t, -1, result.Scored[1].Score, 1e-9)
}

func TestRetrieveMinScoreFilters(t *testing.T) {
	provider := &vecProvider{vectors: map[string][]float64{
		"query": {1, 0, 0},
		"hit":   {1, 0.1, 0},
		"miss":  {0, 1, 0},
	}}
	store := buildStore(t, provider, []kb.Entry{
		{Text: "hit", Category: kb.CategoryAbout},
		{Text: "miss", Category: kb.CategoryAbout},
	})
	r := New(store, provider, Options{MinScore: 0.5})

	result, err := r.Retrieve(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, result.Scored, 1)
	assert.Equal(t, "hit", result.Scored[0].Document.Text)
}
