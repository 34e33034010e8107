package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abelbrown/cardscope/internal/browse"
	"github.com/abelbrown/cardscope/internal/card"
	"github.com/abelbrown/cardscope/internal/otel"
	"github.com/abelbrown/cardscope/internal/ui"
)

var (
	searchJSON bool
	searchFull bool
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search for cards and print the matches",
	Long: `Runs one search and prints the matching cards in the configured sort
order, one per line. Use --full for every populated field or --json for
machine-readable output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// runSearch drives one fetch cycle of the browse controller and prints the
// resulting list.
func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sortKey, err := cfg.SortKey()
	if err != nil {
		return err
	}

	searcher, source, closer, err := openSearcher(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	events := openEvents(cfg)
	defer events.Close()

	state := browse.New(sortKey)
	req, ok := state.SetTerm(strings.Join(args, " "))
	if !ok {
		return errors.New("search term is empty")
	}

	logger.Debug("searching",
		zap.String("term", req.Term),
		zap.String("source", source),
		zap.String("sort", string(req.SortKey)))
	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchStart, Comp: "cli", Seq: req.Seq, Term: req.Term, Source: source})

	start := time.Now()
	res, err := searcher.Search(cmdContext(cmd), req.Term)
	dur := time.Since(start)
	if err != nil {
		state.FetchFailure(req.Seq, err)
		events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindSearchError, Comp: "cli", Seq: req.Seq, Term: req.Term, Source: source, Dur: dur, Err: state.Err})
		logger.Error("search failed", zap.String("term", req.Term), zap.Error(err))
		return fmt.Errorf("search %q: %s", req.Term, state.Err)
	}

	out, _ := state.FetchSuccess(req.Seq, res)
	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchComplete, Comp: "cli", Seq: req.Seq, Term: req.Term, Source: source, Dur: dur, Count: out.Count})
	if out.Collisions > 0 {
		logger.Warn("duplicate cards in result", zap.Int("collisions", out.Collisions))
	}
	logger.Info("search complete",
		zap.String("term", req.Term),
		zap.Int("count", out.Count),
		zap.Duration("dur", dur))

	return printCards(cmd, state.Cards)
}

func printCards(cmd *cobra.Command, cards []card.Record) error {
	w := cmd.OutOrStdout()

	if searchJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	}

	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards found.")
		return nil
	}

	for i, r := range cards {
		if searchFull {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, ui.RenderCard(r))
			continue
		}
		parts := []string{r.Name}
		for _, f := range card.Face(r) {
			if f.Label == "Name" {
				continue
			}
			parts = append(parts, f.String())
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}
	return nil
}
