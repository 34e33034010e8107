// Package search provides the card search collaborator: the Searcher
// interface the list controller calls, the response envelope, an HTTP
// client for the public card API, and a deadline decorator.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abelbrown/cardscope/internal/card"
)

// Searcher runs one card search. Implementations must respect ctx.
type Searcher interface {
	Search(ctx context.Context, term string) (Result, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, term string) (Result, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, term string) (Result, error) {
	return f(ctx, term)
}

// Result is the response envelope. Data is kept raw because the API does
// not promise it is an array; Records decides.
type Result struct {
	Total int             `json:"total_cards"`
	Data  json.RawMessage `json:"data"`
}

// Records decodes Data. A Data value that is not a JSON array yields an
// empty slice rather than an error.
func (r Result) Records() []card.Raw {
	return card.DecodeList(r.Data)
}

// NewResult builds a Result around raw records.
func NewResult(raws []card.Raw) (Result, error) {
	if raws == nil {
		raws = []card.Raw{}
	}
	data, err := json.Marshal(raws)
	if err != nil {
		return Result{}, fmt.Errorf("search: encode records: %w", err)
	}
	return Result{Total: len(raws), Data: data}, nil
}

type timeoutSearcher struct {
	next    Searcher
	timeout time.Duration
}

// WithTimeout bounds every search made through s to d. A non-positive d
// returns s unchanged.
func WithTimeout(s Searcher, d time.Duration) Searcher {
	if d <= 0 {
		return s
	}
	return timeoutSearcher{next: s, timeout: d}
}

func (t timeoutSearcher) Search(ctx context.Context, term string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type outcome struct {
		res Result
		err error
	}
	// Buffered so a searcher that ignores ctx can still finish and exit.
	done := make(chan outcome, 1)
	go func() {
		res, err := t.next.Search(ctx, term)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		if o.err != nil && ctx.Err() == context.DeadlineExceeded {
			return Result{}, fmt.Errorf("search: timed out after %s: %w", t.timeout, o.err)
		}
		return o.res, o.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return Result{}, fmt.Errorf("search: timed out after %s", t.timeout)
		}
		return Result{}, fmt.Errorf("search: cancelled: %w", ctx.Err())
	}
}
