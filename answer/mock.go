package answer

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator builds a template answer from the top sources without any
// network call. Used in mock mode and tests.
type MockGenerator struct{}

// NewMockGenerator creates a no-network generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Answer renders the top sources directly. When the payload directs it to
// declare insufficient information, it does exactly that.
func (g *MockGenerator) Answer(ctx context.Context, question string, payload *Payload) (*Answer, error) {
	if payload.Directives.DeclareInsufficient {
		return &Answer{
			Text:  InsufficientInformationText,
			Model: "mock",
		}, nil
	}

	var b strings.Builder
	b.WriteString("Based on my knowledge base, here's what I found:\n")
	for i, s := range payload.Sources {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "\nSource %d (%s):\n%s\n", i+1, s.Category, s.Preview)
	}
	return &Answer{Text: b.String(), Model: "mock"}, nil
}

// InsufficientInformationText is the canned reply when retrieval finds
// nothing relevant enough to answer from.
const InsufficientInformationText = "Sorry, I could not find relevant information in the knowledge base for your question. " +
	"You can try asking about my skills, project experience, education background, or contact information."
