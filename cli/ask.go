package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/persona-rag/go-persona/answer"
	"github.com/persona-rag/go-persona/config"
	"github.com/persona-rag/go-persona/embed"
	"github.com/persona-rag/go-persona/kb"
	"github.com/persona-rag/go-persona/retrieval"
)

var (
	askK      int
	askJSON   bool
	askVerify bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question from the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		question := strings.Join(args, " ")

		pipeline, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		resp, err := pipeline.Query(cmd.Context(), question, answer.QueryOptions{
			K:      askK,
			Verify: askVerify,
		})
		if err != nil {
			return err
		}

		if askJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		fmt.Println(resp.Answer)
		fmt.Println()
		fmt.Printf("confidence: %s  top score: %.3f  sources: %d  elapsed: %dms\n",
			resp.Confidence, resp.TopScore, len(resp.Sources), resp.ElapsedMs)
		return nil
	},
}

func init() {
	askCmd.Flags().IntVarP(&askK, "k", "k", 0, "number of documents to retrieve")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
	askCmd.Flags().BoolVar(&askVerify, "verify", false, "run a verification pass on the answer")
}

// buildPipeline assembles an in-process pipeline without the HTTP layer.
func buildPipeline(ctx context.Context, cfg *config.Config) (*answer.Pipeline, error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}
	generator, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	st, err := loadStore(ctx, cfg, provider)
	if err != nil {
		return nil, err
	}

	retriever := retrieval.New(st, provider, retrieval.Options{
		Weights:  cfg.CategoryWeights(),
		MinScore: cfg.MinScore,
	})
	assembler := answer.NewAssembler(cfg.Thresholds, cfg.MaxContextLen)
	return answer.NewPipeline(retriever, assembler, generator), nil
}

// loadStore prefers a compatible snapshot and falls back to ingesting
// the profile. A dimension mismatch in the snapshot is an error, not a
// reason to re-embed.
func loadStore(ctx context.Context, cfg *config.Config, provider embed.Provider) (*kb.Store, error) {
	st := kb.NewStore(provider)

	if cfg.SnapshotPath != "" {
		if _, err := os.Stat(cfg.SnapshotPath); err == nil {
			if err := st.LoadSnapshot(cfg.SnapshotPath); err != nil {
				return nil, fmt.Errorf("load snapshot %s: %w", cfg.SnapshotPath, err)
			}
			return st, nil
		}
	}

	profile, err := kb.LoadProfile(cfg.KnowledgePath)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", cfg.KnowledgePath, err)
	}
	if err := st.AddDocuments(ctx, profile.Flatten()); err != nil {
		return nil, err
	}
	return st, nil
}
