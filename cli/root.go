// Package cli implements the persona command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/persona-rag/go-persona/answer"
	"github.com/persona-rag/go-persona/config"
	"github.com/persona-rag/go-persona/core"
	"github.com/persona-rag/go-persona/embed"
)

var (
	configPath string
	mockFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "persona",
	Short: "Question answering over a personal knowledge base",
	Long: `persona answers questions about a person from a structured profile.
It embeds the profile into a searchable knowledge base, retrieves the
most relevant sections for each question, and generates an answer that
is grounded in the retrieved context.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	rootCmd.PersistentFlags().BoolVar(&mockFlag, "mock", false, "use the lexical provider and mock generator")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(rebuildCmd)
}

// Execute runs the root command and reports failures on stderr.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("mock") {
		cfg.Mock = mockFlag
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.Encoding = "console"
	return c.Build()
}

// buildProvider selects the embedding provider. Mock mode always uses
// the lexical provider; otherwise an API key is mandatory, there is no
// silent downgrade to lexical embeddings.
func buildProvider(cfg *config.Config) (embed.Provider, error) {
	if cfg.Mock {
		return embed.NewLexicalProvider(embed.LexicalConfig{}), nil
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set; use --mock for keyless operation")
	}
	return embed.NewOpenAIProvider(embed.OpenAIConfig{
		APIKey: cfg.OpenAIKey,
		Model:  cfg.EmbedModel,
	})
}

func buildGenerator(cfg *config.Config) (answer.Generator, error) {
	if cfg.Mock {
		return answer.NewMockGenerator(), nil
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set; use --mock for keyless operation")
	}
	return answer.NewOpenAIGenerator(answer.OpenAIGeneratorConfig{
		APIKey: cfg.OpenAIKey,
		Model:  core.DefaultModelConfig(cfg.GeneratorModel),
	})
}
