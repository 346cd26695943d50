package embed

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

const defaultLexicalDimensions = 512

// Common English words excluded from lexical features.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "with": {}, "has": {}, "have": {},
	"from": {}, "this": {}, "that": {}, "what": {}, "your": {}, "more": {},
	"will": {}, "about": {}, "which": {}, "their": {}, "there": {},
	"been": {}, "many": {}, "some": {},
}

// LexicalConfig configures the lexical fallback provider.
type LexicalConfig struct {
	Dimensions  int // hash space size, default: 512
	MaxInputLen int // input truncation budget in runes, default: 8000
}

// LexicalProvider is a no-network fallback that hashes term frequencies
// into a fixed-dimension vector. Cosine similarity over these vectors
// approximates token overlap between texts.
type LexicalProvider struct {
	dimensions  int
	maxInputLen int
}

// NewLexicalProvider creates a lexical embedding provider.
func NewLexicalProvider(cfg LexicalConfig) *LexicalProvider {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = defaultLexicalDimensions
	}
	if cfg.MaxInputLen <= 0 {
		cfg.MaxInputLen = defaultMaxInputLen
	}
	return &LexicalProvider{dimensions: cfg.Dimensions, maxInputLen: cfg.MaxInputLen}
}

// Embed hashes the text's term frequencies into the feature space.
// Never fails; an input with no usable tokens yields the zero vector.
func (p *LexicalProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	vec := make([]float64, p.dimensions)
	for _, tok := range tokenize(Truncate(text, p.maxInputLen)) {
		vec[hashToken(tok)%uint32(p.dimensions)]++
	}
	return Normalize(vec), nil
}

// Dimensions returns the hash space size.
func (p *LexicalProvider) Dimensions() int {
	return p.dimensions
}

// Name identifies the provider configuration.
func (p *LexicalProvider) Name() string {
	return "lexical"
}

// tokenize lowercases the text and extracts alphabetic words of three or
// more letters, minus stopwords.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		if _, ok := stopwords[w]; ok {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

func hashToken(tok string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(tok))
	return h.Sum32()
}
