package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abelbrown/cardscope/internal/otel"
)

var (
	eventsTail   int
	eventsFollow bool
	eventsKind   string
	eventsLevel  string
	eventsComp   string
	eventsTerm   string
	eventsJSON   bool
)

// followPoll backs up the file watcher in follow mode.
const followPoll = 100 * time.Millisecond

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the JSONL event log",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := otel.Level(eventsLevel)
	switch level {
	case "", otel.LevelDebug, otel.LevelInfo, otel.LevelWarn, otel.LevelError:
	default:
		return fmt.Errorf("unknown level %q", eventsLevel)
	}
	filter := otel.Filter{
		KindPrefix: eventsKind,
		MinLevel:   level,
		Comp:       eventsComp,
		Term:       eventsTerm,
	}

	f, err := os.Open(cfg.Log.EventsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no event log at %s; run the browser first to generate events", cfg.Log.EventsPath)
		}
		return err
	}
	defer f.Close()

	w := cmd.OutOrStdout()
	lines, err := otel.ReadTail(f, eventsTail, filter)
	for _, l := range lines {
		printEvent(w, l)
	}
	if err != nil || !eventsFollow {
		return err
	}

	return followEvents(cmdContext(cmd), f, w, filter)
}

// followEvents prints events appended to f until ctx is done. The tail read
// left f at EOF. A file watcher wakes the reader on writes and a ticker
// backs it up in case events are missed.
func followEvents(ctx context.Context, f *os.File, w io.Writer, filter otel.Filter) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := watcher.Add(f.Name()); err != nil {
		return fmt.Errorf("failed to watch event log: %w", err)
	}

	ticker := time.NewTicker(followPoll)
	defer ticker.Stop()

	reader := bufio.NewReader(f)
	var partial []byte
	drain := func() error {
		for {
			raw, err := reader.ReadBytes('\n')
			partial = append(partial, raw...)
			if errors.Is(err, io.EOF) {
				// A partial line waits for its newline.
				return nil
			}
			if err != nil {
				return err
			}
			if l, ok := otel.ParseLine(partial); ok && filter.Match(l.Event) {
				printEvent(w, l)
			}
			partial = partial[:0]
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-watcher.Events:
			if ev.Op&fsnotify.Write == fsnotify.Write {
				if err := drain(); err != nil {
					return err
				}
			}
		case err := <-watcher.Errors:
			logger.Warn("event log watcher error", zap.Error(err))
		case <-ticker.C:
			if err := drain(); err != nil {
				return err
			}
		}
	}
}

func printEvent(w io.Writer, l otel.Line) {
	if eventsJSON {
		fmt.Fprintln(w, string(l.Raw))
		return
	}
	fmt.Fprintln(w, otel.Format(l.Event))
}
