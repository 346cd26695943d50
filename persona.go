// Package persona answers questions about a person from a structured
// profile: the profile is flattened into an embedded knowledge base,
// each question retrieves the most relevant sections, and an answer is
// generated strictly from the retrieved context with an explicit
// confidence level.
//
// Example usage:
//
//	provider := persona.NewLexicalProvider(persona.LexicalConfig{})
//	store := persona.NewStore(provider)
//	_ = store.AddDocuments(ctx, profile.Flatten())
//
//	retriever := persona.NewRetriever(store, provider, persona.RetrievalOptions{})
//	assembler := persona.NewAssembler(persona.DefaultThresholds(), 0)
//	pipeline := persona.NewPipeline(retriever, assembler, persona.NewMockGenerator())
//
//	resp, err := pipeline.Query(ctx, "What are your main skills?", persona.QueryOptions{})
package persona

import (
	"github.com/persona-rag/go-persona/answer"
	"github.com/persona-rag/go-persona/embed"
	"github.com/persona-rag/go-persona/kb"
	"github.com/persona-rag/go-persona/monitor"
	"github.com/persona-rag/go-persona/retrieval"
	"github.com/persona-rag/go-persona/server"
)

// Knowledge base aliases
type (
	Document        = kb.Document
	Category        = kb.Category
	CategoryWeights = kb.CategoryWeights
	Entry           = kb.Entry
	Store           = kb.Store
	Profile         = kb.Profile
)

// NewStore creates an empty knowledge base backed by the given provider.
func NewStore(provider embed.Provider) *Store {
	return kb.NewStore(provider)
}

// LoadProfile reads a structured profile from a JSON file.
func LoadProfile(path string) (*Profile, error) {
	return kb.LoadProfile(path)
}

// DefaultCategoryWeights returns the standard retrieval weights.
func DefaultCategoryWeights() CategoryWeights {
	return kb.DefaultCategoryWeights()
}

// Embedding aliases
type (
	Provider      = embed.Provider
	OpenAIConfig  = embed.OpenAIConfig
	LexicalConfig = embed.LexicalConfig
)

// NewOpenAIProvider creates an embedding provider backed by the OpenAI API.
func NewOpenAIProvider(cfg OpenAIConfig) (*embed.OpenAIProvider, error) {
	return embed.NewOpenAIProvider(cfg)
}

// NewLexicalProvider creates a deterministic keyless embedding provider.
func NewLexicalProvider(cfg LexicalConfig) *embed.LexicalProvider {
	return embed.NewLexicalProvider(cfg)
}

// Retrieval aliases
type (
	Retriever        = retrieval.Retriever
	RetrievalOptions = retrieval.Options
	ScoredDocument   = retrieval.ScoredDocument
	RetrievalResult  = retrieval.Result
)

// NewRetriever creates a retriever over the store.
func NewRetriever(store *Store, provider Provider, opts RetrievalOptions) *Retriever {
	return retrieval.New(store, provider, opts)
}

// Answer aliases
type (
	ConfidenceLevel = answer.Level
	Thresholds      = answer.Thresholds
	Assembler       = answer.Assembler
	Payload         = answer.Payload
	Generator       = answer.Generator
	Pipeline        = answer.Pipeline
	QueryOptions    = answer.QueryOptions
	Response        = answer.Response
	Conversation    = answer.Conversation
)

// DefaultThresholds returns the standard confidence thresholds.
func DefaultThresholds() Thresholds {
	return answer.DefaultThresholds()
}

// NewAssembler creates a context assembler. Zero maxContextLen means
// the default budget.
func NewAssembler(thresholds Thresholds, maxContextLen int) *Assembler {
	return answer.NewAssembler(thresholds, maxContextLen)
}

// NewPipeline wires a retriever, assembler and generator together.
func NewPipeline(retriever *Retriever, assembler *Assembler, generator Generator) *Pipeline {
	return answer.NewPipeline(retriever, assembler, generator)
}

// NewConversation wraps a pipeline with bounded conversation memory.
func NewConversation(pipeline *Pipeline, memorySize int) *Conversation {
	return answer.NewConversation(pipeline, memorySize)
}

// NewMockGenerator creates a generator that answers from source previews
// without calling any external API.
func NewMockGenerator() *answer.MockGenerator {
	return answer.NewMockGenerator()
}

// NewOpenAIGenerator creates a generator backed by the OpenAI chat API.
func NewOpenAIGenerator(cfg answer.OpenAIGeneratorConfig) (*answer.OpenAIGenerator, error) {
	return answer.NewOpenAIGenerator(cfg)
}

// Monitor aliases
type (
	Collector         = monitor.Collector
	InMemoryCollector = monitor.InMemoryCollector
	QueryMetrics      = monitor.QueryMetrics
)

// NewInMemoryCollector creates a new in-memory metrics collector.
func NewInMemoryCollector() *InMemoryCollector {
	return monitor.NewInMemoryCollector()
}

// Server aliases
type (
	Server       = server.Server
	ServerConfig = server.Config
)
