package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/persona-rag/go-persona/core"
)

const defaultChatBaseURL = "https://api.openai.com/v1"

// systemPrompt carries the anti-hallucination instructions for the
// generation model.
const systemPrompt = `You are an intelligent assistant for a personal website, specialized in answering questions about the website owner.

Important Rules:
1. Only use the provided context information to answer questions
2. If there is no relevant information in the context, explicitly state "Based on the information I have, I cannot answer this question"
3. Do not fabricate or speculate any information
4. If information is incomplete, honestly point this out
5. Use a friendly but professional tone
6. Keep answers concise and focused`

const verifySystemPrompt = "You are a fact-checking assistant specialized in verifying whether answers are consistent with source materials."

// OpenAIGeneratorConfig configures the OpenAI chat generator.
type OpenAIGeneratorConfig struct {
	APIKey  string
	BaseURL string           // default: https://api.openai.com/v1
	Model   core.ModelConfig // name, temperature, max tokens
	Timeout time.Duration    // default: 60s
}

// OpenAIGenerator generates answers via the OpenAI chat completions API.
type OpenAIGenerator struct {
	apiKey  string
	baseURL string
	model   core.ModelConfig
	client  *http.Client
}

// NewOpenAIGenerator creates an answer generator backed by OpenAI.
func NewOpenAIGenerator(cfg OpenAIGeneratorConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultChatBaseURL
	}
	if cfg.Model.Name == "" {
		cfg.Model = core.DefaultModelConfig("gpt-4o-mini")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenAIGenerator{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Answer generates an answer constrained to the payload's context.
func (g *OpenAIGenerator) Answer(ctx context.Context, question string, payload *Payload) (*Answer, error) {
	msgs := []core.Message{
		core.NewSystemMessage(systemPrompt),
		core.NewUserMessage(buildUserPrompt(question, payload)),
	}

	content, usage, err := g.chat(ctx, msgs, g.model.Temperature, g.model.MaxTokens)
	if err != nil {
		return nil, err
	}
	return &Answer{Text: content, Model: g.model.Name, Usage: usage}, nil
}

// Verify asks the model whether the answer is fully grounded in its sources.
func (g *OpenAIGenerator) Verify(ctx context.Context, question, answerText string, payload *Payload) (*Verification, error) {
	msgs := []core.Message{
		core.NewSystemMessage(verifySystemPrompt),
		core.NewUserMessage(buildVerifyPrompt(question, answerText, payload)),
	}

	content, _, err := g.chat(ctx, msgs, 0.1, 500)
	if err != nil {
		return nil, err
	}

	var v Verification
	if err := json.Unmarshal([]byte(extractJSON(content)), &v); err != nil {
		// A malformed verdict is treated as unverified rather than an error.
		return &Verification{Verified: false, Issues: []string{"unparseable verification response"}}, nil
	}
	return &v, nil
}

func buildUserPrompt(question string, payload *Payload) string {
	var b strings.Builder
	b.WriteString("Answer the user's question based on the following information.\n\n")
	b.WriteString("=== Reference Information ===\n")
	b.WriteString(payload.Context)
	b.WriteString("\n=== End of Reference Information ===\n\n")
	fmt.Fprintf(&b, "User Question: %s\n\n", question)

	if payload.Directives.DeclareInsufficient {
		b.WriteString("The knowledge base contains no sufficiently relevant information. State clearly that you cannot answer this question from the information you have.")
	} else {
		b.WriteString("Please provide an accurate and concise answer based on the above information. If the information is insufficient to fully answer the question, please indicate so.")
	}
	return b.String()
}

func buildVerifyPrompt(question, answerText string, payload *Payload) string {
	previews := make([]string, 0, len(payload.Sources))
	for i, s := range payload.Sources {
		if i == 3 {
			break
		}
		previews = append(previews, s.Preview)
	}

	return fmt.Sprintf(`Please verify whether the following answer is completely based on the provided information without adding extra content.

Original Question: %s

Generated Answer: %s

Reference Information Summary:
%s

Reply in JSON format: {"verified": true/false, "issues": ["list of issues"]}`,
		question, answerText, strings.Join(previews, "\n"))
}

// extractJSON pulls the first JSON object out of a model response that may
// wrap it in prose or a code fence.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

type chatRequest struct {
	Model       string         `json:"model"`
	Messages    []core.Message `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (g *OpenAIGenerator) chat(ctx context.Context, msgs []core.Message, temperature float64, maxTokens int) (string, Usage, error) {
	body, err := json.Marshal(chatRequest{
		Model:       g.model.Name,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", Usage{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", Usage{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", Usage{}, fmt.Errorf("%w: %v", core.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", Usage{}, fmt.Errorf("%w: status %d: %s", core.ErrGeneration, resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", Usage{}, fmt.Errorf("%w: decode response: %v", core.ErrGeneration, err)
	}
	if len(result.Choices) == 0 {
		return "", Usage{}, fmt.Errorf("%w: empty response", core.ErrGeneration)
	}

	usage := Usage{
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		TotalTokens:      result.Usage.TotalTokens,
	}
	return result.Choices[0].Message.Content, usage, nil
}
