package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/cardscope/internal/otel"
	"github.com/abelbrown/cardscope/internal/ui"
)

// runBrowser starts the interactive card browser. Any arguments form the
// initial search term.
func runBrowser(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sortKey, err := cfg.SortKey()
	if err != nil {
		return err
	}

	events := openEvents(cfg)
	defer events.Close()

	searcher, source, closer, err := openSearcher(cfg)
	if err != nil {
		events.Error(otel.KindError, "main", err)
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	events.Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindStartup,
		Comp:    "main",
		Source:  source,
		SortKey: string(sortKey),
		Msg:     "browser started",
	})

	ctx := cmdContext(cmd)
	app := ui.NewApp(ui.AppConfig{
		Search:      ui.SearchFunc(ctx, searcher, source),
		Logger:      events,
		Ring:        otel.NewRingBuffer(otel.DefaultRingSize),
		InitialTerm: strings.Join(args, " "),
		SortKey:     sortKey,
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	// Run UI (blocks until quit)
	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		events.Error(otel.KindError, "main", err)
		return fmt.Errorf("run browser: %w", err)
	}

	events.Info(otel.KindShutdown, "main", "browser exited")
	return nil
}
