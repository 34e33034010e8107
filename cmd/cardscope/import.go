package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abelbrown/cardscope/internal/otel"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a JSON card dump into the offline catalog",
	Long: `Reads a JSON array of cards, or a saved search response with a "data"
array, and upserts every card into the catalog keyed by set and number.
Search the catalog with --offline.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer cat.Close()

	events := openEvents(cfg)
	defer events.Close()

	start := time.Now()
	n, err := cat.ImportJSON(f)
	if err != nil {
		events.Error(otel.KindError, "catalog", err)
		return err
	}
	total, err := cat.Count()
	if err != nil {
		return err
	}

	events.Emit(otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindCatalogImport,
		Comp:   "catalog",
		Source: args[0],
		Count:  n,
		Dur:    time.Since(start),
	})
	logger.Info("catalog import complete",
		zap.String("file", args[0]),
		zap.String("catalog", cfg.Catalog.Path),
		zap.Int("imported", n),
		zap.Int("total", total))

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards (%d in catalog)\n", n, total)
	return nil
}
