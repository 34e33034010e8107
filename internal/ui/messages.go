// Package ui provides the Bubble Tea TUI for cardscope.
package ui

import (
	"context"
	"time"

	"github.com/abelbrown/cardscope/internal/search"
	tea "github.com/charmbracelet/bubbletea"
)

// SearchCompleted is sent when a search issued through AppConfig.Search
// resolves. Seq is the request sequence the command was issued with.
type SearchCompleted struct {
	Seq    uint64
	Term   string
	Result search.Result
	Err    error
	Dur    time.Duration
	Source string // "api" or "catalog"
}

// SearchFunc adapts a Searcher to AppConfig.Search. Each command runs one
// search under ctx and reports it as SearchCompleted.
func SearchFunc(ctx context.Context, s search.Searcher, source string) func(seq uint64, term string) tea.Cmd {
	return func(seq uint64, term string) tea.Cmd {
		return func() tea.Msg {
			start := time.Now()
			res, err := s.Search(ctx, term)
			return SearchCompleted{
				Seq:    seq,
				Term:   term,
				Result: res,
				Err:    err,
				Dur:    time.Since(start),
				Source: source,
			}
		}
	}
}
