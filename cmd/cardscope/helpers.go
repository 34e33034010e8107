package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abelbrown/cardscope/internal/catalog"
	"github.com/abelbrown/cardscope/internal/config"
	"github.com/abelbrown/cardscope/internal/otel"
	"github.com/abelbrown/cardscope/internal/search"
)

// Search sources, as recorded on search events.
const (
	sourceAPI     = "api"
	sourceCatalog = "catalog"
)

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if offline {
		cfg.Catalog.Offline = true
	}
	if sortFlag != "" {
		cfg.UI.DefaultSort = sortFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openCatalog opens the offline catalog, creating its directory if needed.
func openCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Catalog.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
	return catalog.Open(cfg.Catalog.Path)
}

// openSearcher returns the configured searcher bounded by the search timeout,
// the source name for events, and a closer for any resources it holds (nil
// when there are none).
func openSearcher(cfg *config.Config) (search.Searcher, string, io.Closer, error) {
	timeout, err := cfg.SearchTimeout()
	if err != nil {
		return nil, "", nil, err
	}

	if cfg.Catalog.Offline {
		cat, err := openCatalog(cfg)
		if err != nil {
			return nil, "", nil, err
		}
		return search.WithTimeout(cat, timeout), sourceCatalog, cat, nil
	}

	client := search.NewClient(cfg.ClientOptions())
	return search.WithTimeout(client, timeout), sourceAPI, nil, nil
}

// openEvents opens the JSONL event log. A log that cannot be opened is not
// fatal; events are discarded instead.
func openEvents(cfg *config.Config) *otel.Logger {
	path := cfg.Log.EventsPath
	if path == "" {
		return otel.NewNullLogger()
	}
	events, err := otel.OpenFile(path)
	if err != nil {
		logger.Warn("event log disabled", zap.String("path", path), zap.Error(err))
		return otel.NewNullLogger()
	}
	return events
}

// cmdContext returns the command's context, or Background when it was run
// without one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
