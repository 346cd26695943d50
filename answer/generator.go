package answer

import "context"

// Usage reports token accounting from the generation call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Answer is the generator's output.
type Answer struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
	Usage Usage  `json:"usage,omitempty"`
}

// Generator produces a natural-language answer from the assembled payload
// and the original question. The payload contract is the entire interface;
// model choice and prompt wording belong to the implementation.
type Generator interface {
	Answer(ctx context.Context, question string, payload *Payload) (*Answer, error)
}

// Verifier is an optional second pass that checks a generated answer
// against its sources. Generators that cannot verify simply do not
// implement it.
type Verifier interface {
	Verify(ctx context.Context, question, answerText string, payload *Payload) (*Verification, error)
}

// Verification is the outcome of a fact-check pass.
type Verification struct {
	Verified bool     `json:"verified"`
	Issues   []string `json:"issues,omitempty"`
}
