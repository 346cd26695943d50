package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persona-rag/go-persona/kb"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the embedding snapshot from the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		provider, err := buildProvider(cfg)
		if err != nil {
			return err
		}

		profile, err := kb.LoadProfile(cfg.KnowledgePath)
		if err != nil {
			return fmt.Errorf("load profile %s: %w", cfg.KnowledgePath, err)
		}

		st := kb.NewStore(provider)
		if err := st.AddDocuments(cmd.Context(), profile.Flatten()); err != nil {
			return err
		}
		if err := st.SaveSnapshot(cfg.SnapshotPath); err != nil {
			return err
		}

		fmt.Printf("embedded %d documents with %s, snapshot written to %s\n",
			st.Size(), provider.Name(), cfg.SnapshotPath)
		return nil
	},
}
