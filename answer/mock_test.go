package answer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGeneratorRendersSources(t *testing.T) {
	g := NewMockGenerator()
	payload := &Payload{
		Confidence: LevelHigh,
		Directives: Directives{ContextOnly: true},
		Sources: []Attribution{
			{Category: "skills", Preview: "Go, Python, Kubernetes"},
			{Category: "projects", Preview: "Event streaming platform"},
			{Category: "faq", Preview: "Contact by email"},
			{Category: "blog", Preview: "should not appear"},
		},
	}

	ans, err := g.Answer(context.Background(), "what are your skills", payload)
	require.NoError(t, err)

	assert.Equal(t, "mock", ans.Model)
	assert.Contains(t, ans.Text, "Source 1 (skills)")
	assert.Contains(t, ans.Text, "Source 3 (faq)")
	assert.NotContains(t, ans.Text, "should not appear")
}

func TestMockGeneratorDeclaresInsufficient(t *testing.T) {
	g := NewMockGenerator()
	payload := &Payload{
		Confidence: LevelNone,
		Directives: Directives{ContextOnly: true, DeclareInsufficient: true},
	}

	ans, err := g.Answer(context.Background(), "anything", payload)
	require.NoError(t, err)
	assert.Equal(t, InsufficientInformationText, ans.Text)
}
