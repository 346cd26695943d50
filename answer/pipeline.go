package answer

import (
	"context"
	"time"

	"github.com/persona-rag/go-persona/retrieval"
)

const defaultK = 5

// QueryOptions tune a single pipeline query.
type QueryOptions struct {
	// K is the number of documents to retrieve. Zero means the default (5).
	K int

	// Verify runs a second fact-check pass when the generator supports it.
	Verify bool
}

// Response is the full pipeline outcome returned to the serving layer.
type Response struct {
	Question        string        `json:"question"`
	Answer          string        `json:"answer"`
	Confidence      Level         `json:"confidence"`
	TopScore        float64       `json:"top_score"`
	Sources         []Attribution `json:"sources"`
	RetrievalScores []float64     `json:"retrieval_scores"`
	ElapsedMs       int64         `json:"elapsed_ms"`
	Model           string        `json:"model,omitempty"`
	Usage           Usage         `json:"usage,omitempty"`
	Verification    *Verification `json:"verification,omitempty"`
}

// Pipeline orchestrates retrieve, assess, assemble, and generate.
type Pipeline struct {
	retriever *retrieval.Retriever
	assembler *Assembler
	generator Generator
}

// NewPipeline wires a retriever, assembler, and generator together.
func NewPipeline(retriever *retrieval.Retriever, assembler *Assembler, generator Generator) *Pipeline {
	return &Pipeline{retriever: retriever, assembler: assembler, generator: generator}
}

// Query answers a question from the knowledge base. When retrieval finds
// nothing relevant enough, the canned insufficient-information answer is
// returned without a generation call.
func (p *Pipeline) Query(ctx context.Context, question string, opts QueryOptions) (*Response, error) {
	start := time.Now()

	k := opts.K
	if k <= 0 {
		k = defaultK
	}

	result, err := p.retriever.Retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}

	payload := p.assembler.Assemble(result)

	resp := &Response{
		Question:        question,
		Confidence:      payload.Confidence,
		TopScore:        payload.TopScore,
		Sources:         payload.Sources,
		RetrievalScores: scores(result),
	}

	if payload.Confidence == LevelNone {
		resp.Answer = InsufficientInformationText
		resp.ElapsedMs = time.Since(start).Milliseconds()
		return resp, nil
	}

	ans, err := p.generator.Answer(ctx, question, payload)
	if err != nil {
		return nil, err
	}
	resp.Answer = ans.Text
	resp.Model = ans.Model
	resp.Usage = ans.Usage

	if opts.Verify {
		if v, ok := p.generator.(Verifier); ok {
			verification, err := v.Verify(ctx, question, ans.Text, payload)
			if err != nil {
				// The answer itself is fine; report that the check did
				// not run rather than pretending it passed.
				resp.Verification = &Verification{
					Verified: false,
					Issues:   []string{"verification pass failed: " + err.Error()},
				}
			} else {
				resp.Verification = verification
				if !verification.Verified {
					resp.Answer += "\n\n[Note: Some content in this answer may need further verification]"
					resp.Confidence = LevelLow
				}
			}
		}
	}

	resp.ElapsedMs = time.Since(start).Milliseconds()
	return resp, nil
}

func scores(result *retrieval.Result) []float64 {
	out := make([]float64, len(result.Scored))
	for i, sd := range result.Scored {
		out[i] = sd.Score
	}
	return out
}
