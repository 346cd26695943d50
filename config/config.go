// Package config loads startup configuration from a TOML file and the
// environment. The resulting Config is built once and passed into
// constructors; nothing reads ambient state after startup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/persona-rag/go-persona/answer"
	"github.com/persona-rag/go-persona/kb"
)

// Config holds all process-wide settings.
type Config struct {
	Addr        string `toml:"addr"`
	Mock        bool   `toml:"mock"`
	OpenAIKey   string `toml:"-"` // environment only, never in the file
	DatabaseDSN string `toml:"database_dsn"`

	EmbedModel     string `toml:"embed_model"`
	GeneratorModel string `toml:"generator_model"`

	KnowledgePath string `toml:"knowledge_path"`
	SnapshotPath  string `toml:"snapshot_path"`

	DefaultK      int     `toml:"default_k"`
	MaxContextLen int     `toml:"max_context_len"`
	MinScore      float64 `toml:"min_score"`

	Thresholds answer.Thresholds  `toml:"thresholds"`
	Weights    map[string]float64 `toml:"weights"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Addr:           ":8000",
		Mock:           true,
		EmbedModel:     "text-embedding-3-small",
		GeneratorModel: "gpt-4o-mini",
		KnowledgePath:  "data/knowledge_base.json",
		SnapshotPath:   "data/snapshot.json",
		DefaultK:       5,
		MaxContextLen:  4000,
		Thresholds:     answer.DefaultThresholds(),
	}
}

// Load builds the configuration: defaults, overlaid by the TOML file at
// path (if it exists), overlaid by environment variables. An empty path
// skips the file step.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "ADDR")
	setString(&c.OpenAIKey, "OPENAI_API_KEY")
	setString(&c.DatabaseDSN, "DATABASE_DSN")
	setString(&c.EmbedModel, "EMBED_MODEL")
	setString(&c.GeneratorModel, "LLM_MODEL")
	setString(&c.KnowledgePath, "KNOWLEDGE_PATH")
	setString(&c.SnapshotPath, "SNAPSHOT_PATH")

	if v := os.Getenv("PERSONA_MOCK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Mock = b
		}
	}
}

// CategoryWeights converts the configured weight map, falling back to the
// defaults when none is configured.
func (c *Config) CategoryWeights() kb.CategoryWeights {
	if len(c.Weights) == 0 {
		return kb.DefaultCategoryWeights()
	}

	weights := make(kb.CategoryWeights, len(c.Weights))
	for category, weight := range c.Weights {
		weights[kb.Category(category)] = weight
	}
	return weights
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
