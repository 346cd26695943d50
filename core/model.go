package core

type ModelConfig struct {
	Name        string  `json:"name"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// DefaultModelConfig returns settings tuned for factual answers.
func DefaultModelConfig(name string) ModelConfig {
	return ModelConfig{
		Name:        name,
		Temperature: 0.3,
		MaxTokens:   1000,
	}
}

func (m ModelConfig) WithTemperature(t float64) ModelConfig {
	m.Temperature = t
	return m
}

func (m ModelConfig) WithMaxTokens(t int) ModelConfig {
	m.MaxTokens = t
	return m
}
