// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/plenum/internal/index"
	"github.com/pdiddy/plenum/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load parsed protocols into the search database",
	Long: `Index reads parsed protocol JSON files from the protocols directory and
loads them into a SQLite database with FTS5 full-text indexing over the
paragraph text. Unchanged protocols are skipped on subsequent runs;
changed protocols replace their earlier records.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("index-dir", "index", "directory holding the search database")
	indexCmd.Flags().String("protocols-dir", "protocols", "directory holding parsed JSON protocols")

	rootCmd.AddCommand(indexCmd)
}

func indexConfig(cmd *cobra.Command) types.IndexConfig {
	cfg := types.IndexConfig{
		IndexDir:     stringSetting(cmd, "index-dir", "index.index_dir"),
		ProtocolsDir: stringSetting(cmd, "protocols-dir", "index.protocols_dir"),
	}
	// Only the query commands register max-results; ingest has no use for it.
	if cmd.Flags().Lookup("max-results") != nil {
		cfg.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	return cfg
}

func runIndex(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.IngestDir(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d protocol(s) failed indexing", summary.Failed)
	}
	return nil
}
