package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/barista-ai/menu-ingest/internal/embeddings"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the pgvector extension, the table and its indexes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.db.Migrate(cmd.Context(), embeddings.Dimensions); err != nil {
			e.log.Error("migration failed", zap.Error(err))
			return err
		}

		e.log.Info("migrations completed", zap.String("table", e.db.Table()))
		cmd.Printf("Migrations completed successfully (table %s)\n", e.db.Table())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
