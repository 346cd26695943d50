package answer

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

const defaultMemorySize = 5

// Conversation wraps a pipeline with bounded multi-turn memory. Recent
// turns are prepended to the question so follow-ups resolve references.
type Conversation struct {
	mu       sync.Mutex
	pipeline *Pipeline
	history  []turn
	memory   int
}

type turn struct {
	question string
	answer   string
}

// NewConversation creates a conversational wrapper. memorySize bounds the
// number of remembered turns; zero means the default (5).
func NewConversation(pipeline *Pipeline, memorySize int) *Conversation {
	if memorySize <= 0 {
		memorySize = defaultMemorySize
	}
	return &Conversation{pipeline: pipeline, memory: memorySize}
}

// Query answers a question with conversation context and records the turn.
func (c *Conversation) Query(ctx context.Context, question string, opts QueryOptions) (*Response, error) {
	c.mu.Lock()
	enhanced := c.withHistory(question)
	c.mu.Unlock()

	resp, err := c.pipeline.Query(ctx, enhanced, opts)
	if err != nil {
		return nil, err
	}
	resp.Question = question

	c.mu.Lock()
	c.history = append(c.history, turn{question: question, answer: resp.Answer})
	if len(c.history) > c.memory {
		c.history = c.history[len(c.history)-c.memory:]
	}
	c.mu.Unlock()

	return resp, nil
}

// ClearHistory forgets all remembered turns.
func (c *Conversation) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

func (c *Conversation) withHistory(question string) string {
	if len(c.history) == 0 {
		return question
	}

	var b strings.Builder
	b.WriteString("=== Conversation History ===\n")
	for _, t := range c.history {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n\n", t.question, preview(t.answer))
	}
	fmt.Fprintf(&b, "Current Question: %s", question)
	return b.String()
}
