package answer

import (
	"fmt"
	"strings"

	"github.com/persona-rag/go-persona/retrieval"
)

const (
	defaultMaxContextLen = 4000
	previewLen           = 200
)

// Directives are the generator constraints carried in the payload. They
// enforce the anti-hallucination contract at the data level rather than
// relying solely on prompt wording.
type Directives struct {
	// ContextOnly instructs the generator to answer strictly from the
	// provided context. Always set.
	ContextOnly bool `json:"context_only"`

	// DeclareInsufficient instructs the generator to state that it lacks
	// the information to answer. Set whenever confidence is none.
	DeclareInsufficient bool `json:"declare_insufficient"`
}

// Attribution identifies one source document contributing to the context.
type Attribution struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Title    string  `json:"title,omitempty"`
	Score    float64 `json:"score"`
	Weighted float64 `json:"weighted_score"`
	Preview  string  `json:"preview"`
}

// Payload is the entire interface handed to the answer generator.
type Payload struct {
	Context    string        `json:"context"`
	Sources    []Attribution `json:"sources"`
	Confidence Level         `json:"confidence"`
	TopScore   float64       `json:"top_score"`
	Directives Directives    `json:"directives"`
}

// Assembler maps retrieval results to confidence and context payloads.
type Assembler struct {
	thresholds Thresholds
	maxLen     int
}

// NewAssembler creates an assembler. maxContextLen bounds the total context
// text length in runes; zero means the default budget.
func NewAssembler(thresholds Thresholds, maxContextLen int) *Assembler {
	if maxContextLen <= 0 {
		maxContextLen = defaultMaxContextLen
	}
	return &Assembler{thresholds: thresholds, maxLen: maxContextLen}
}

// Assemble builds the generator payload from a retrieval result. Documents
// are concatenated in rank order, each tagged with its source id and
// category; when the budget would overflow, lower-ranked documents are
// dropped whole, never truncated mid-document.
func (a *Assembler) Assemble(result *retrieval.Result) *Payload {
	assessment := a.thresholds.Assess(result)

	p := &Payload{
		Confidence: assessment.Level,
		TopScore:   assessment.TopScore,
		Directives: Directives{
			ContextOnly:         true,
			DeclareInsufficient: assessment.Level == LevelNone,
		},
	}
	if result == nil {
		return p
	}

	var b strings.Builder
	used := 0
	for _, sd := range result.Scored {
		block := fmt.Sprintf("[%s | %s]\n%s\n\n", sd.Document.ID, sd.Document.Category, sd.Document.Text)
		blockLen := len([]rune(block))
		if used+blockLen > a.maxLen {
			break
		}
		b.WriteString(block)
		used += blockLen

		p.Sources = append(p.Sources, Attribution{
			ID:       sd.Document.ID,
			Category: string(sd.Document.Category),
			Title:    sd.Document.Metadata["title"],
			Score:    sd.Score,
			Weighted: sd.Weighted,
			Preview:  preview(sd.Document.Text),
		})
	}

	p.Context = strings.TrimSuffix(b.String(), "\n")
	return p
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen]) + "..."
}
