// Command cardscope searches a trading card catalog and browses the results.
//
// Usage:
//
//	cardscope [term]          Interactive browser, optionally searching term
//	cardscope search <term>   Print matching cards
//	cardscope import <file>   Load a JSON card dump into the offline catalog
//	cardscope events          JSONL event log viewer
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	offline    bool
	sortFlag   string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "cardscope [term]",
	Short: "Search and browse trading cards",
	Long: `cardscope searches a card database by name and shows the matches as a
sortable list. Select a card to see all of its details.

Keys: / search, 1-4 sort, j/k move, enter open, esc close, r retry, q quit.`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive browser owns the terminal; it logs to the event file.
		if !cmd.HasParent() {
			return nil
		}

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}

		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runBrowser,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.cardscope/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Search the local catalog instead of the API")
	rootCmd.PersistentFlags().StringVarP(&sortFlag, "sort", "s", "", "Sort key: name, set, cost or power")

	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print cards as JSON")
	searchCmd.Flags().BoolVar(&searchFull, "full", false, "Print each card's full face")

	eventsCmd.Flags().IntVarP(&eventsTail, "tail", "n", 50, "Number of recent lines to show")
	eventsCmd.Flags().BoolVarP(&eventsFollow, "follow", "f", false, "Keep printing new events")
	eventsCmd.Flags().StringVar(&eventsKind, "kind", "", "Filter by event kind prefix (e.g. 'search')")
	eventsCmd.Flags().StringVar(&eventsLevel, "level", "", "Minimum level: debug, info, warn, error")
	eventsCmd.Flags().StringVar(&eventsComp, "comp", "", "Filter by component name")
	eventsCmd.Flags().StringVar(&eventsTerm, "term", "", "Filter by search term")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Output raw JSON lines")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(eventsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
