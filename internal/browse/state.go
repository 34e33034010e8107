// Package browse holds the card list controller: the search, sort, select,
// and overlay state of one browsing session and the transitions between
// them. Every method runs on the UI goroutine; State holds no locks.
package browse

import (
	"slices"
	"strings"

	"github.com/abelbrown/cardscope/internal/card"
	"github.com/abelbrown/cardscope/internal/search"
)

// UnknownError is shown when a failed search carries no message.
const UnknownError = "An unknown error occurred"

// ViewKind is the top-level view the controller is in.
type ViewKind int

const (
	ViewIdle ViewKind = iota // no term yet, nothing held
	ViewLoading
	ViewError
	ViewList
	ViewOverlay // list with the detail overlay on top
)

func (v ViewKind) String() string {
	switch v {
	case ViewIdle:
		return "idle"
	case ViewLoading:
		return "loading"
	case ViewError:
		return "error"
	case ViewList:
		return "list"
	case ViewOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Request describes one search the caller must issue. Seq identifies its
// completion.
type Request struct {
	Seq     uint64
	Term    string
	SortKey card.SortKey
}

// Outcome summarizes what an accepted completion did, for logging.
type Outcome struct {
	Count      int
	Collisions int
}

// State is the card list controller.
type State struct {
	Term         string
	Cards        []card.Record
	Loading      bool
	Err          string
	SortKey      card.SortKey
	Selected     *card.Record
	ModalVisible bool
	Cursor       int

	seq     uint64
	fetched bool
}

// New returns an idle controller sorting by key. Invalid keys use the default.
func New(key card.SortKey) *State {
	if !key.Valid() {
		key = card.DefaultSortKey
	}
	return &State{Cards: []card.Record{}, SortKey: key}
}

// SetTerm records a term from the host. An unchanged term does nothing. An
// empty term leaves everything but the term alone and issues no request.
func (s *State) SetTerm(term string) (Request, bool) {
	term = strings.TrimSpace(term)
	if term == s.Term {
		return Request{}, false
	}
	s.Term = term
	if term == "" {
		return Request{}, false
	}
	return s.FetchStart(term), true
}

// Refetch reissues the current term. Failures are terminal for their cycle,
// so this is how the user recovers without changing the term.
func (s *State) Refetch() (Request, bool) {
	if s.Term == "" {
		return Request{}, false
	}
	return s.FetchStart(s.Term), true
}

// FetchStart begins a new fetch cycle and supersedes any in flight.
func (s *State) FetchStart(term string) Request {
	s.seq++
	s.Loading = true
	s.Err = ""
	return Request{Seq: s.seq, Term: term, SortKey: s.SortKey}
}

// Seq returns the sequence number of the most recent request.
func (s *State) Seq() uint64 {
	return s.seq
}

// Stale reports whether seq belongs to a superseded request.
func (s *State) Stale(seq uint64) bool {
	return seq != s.seq
}

// FetchSuccess stores a completed search. Completions of superseded requests
// are ignored and ok is false. Data that is not an array yields no cards.
func (s *State) FetchSuccess(seq uint64, res search.Result) (Outcome, bool) {
	if s.Stale(seq) {
		return Outcome{}, false
	}
	records, collisions := card.Dedupe(card.NormalizeAll(res.Records()))
	card.Sort(records, s.SortKey)

	s.Cards = records
	s.Loading = false
	s.fetched = true
	s.Cursor = clamp(s.Cursor, len(s.Cards))
	return Outcome{Count: len(records), Collisions: collisions}, true
}

// FetchFailure records a failed search. Like FetchSuccess it ignores
// superseded requests.
func (s *State) FetchFailure(seq uint64, err error) bool {
	if s.Stale(seq) {
		return false
	}
	s.Err = Message(err)
	s.Cards = []card.Record{}
	s.Loading = false
	s.fetched = true
	s.Cursor = 0
	return true
}

// Message is the display text for a failed search.
func Message(err error) string {
	if err == nil {
		return UnknownError
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return UnknownError
	}
	return msg
}

// SortChanged switches the sort key and re-sorts the held cards without
// fetching. The cursor stays on the same card. Unknown keys are ignored.
func (s *State) SortChanged(key card.SortKey) bool {
	if !key.Valid() {
		return false
	}
	var current string
	if s.Cursor < len(s.Cards) {
		current = s.Cards[s.Cursor].ID
	}

	s.SortKey = key
	card.Sort(s.Cards, key)

	if current != "" {
		if i := slices.IndexFunc(s.Cards, func(r card.Record) bool { return r.ID == current }); i >= 0 {
			s.Cursor = i
		}
	}
	return true
}

// ItemSelected opens the overlay on Cards[index]. The selection is a copy, so
// later fetches never change what the overlay shows.
func (s *State) ItemSelected(index int) bool {
	if index < 0 || index >= len(s.Cards) {
		return false
	}
	rec := s.Cards[index]
	rec.Aspects = slices.Clone(rec.Aspects)
	rec.Traits = slices.Clone(rec.Traits)
	rec.Arenas = slices.Clone(rec.Arenas)
	s.Selected = &rec
	s.ModalVisible = true
	s.Cursor = index
	return true
}

// SelectCursor opens the overlay on the card under the cursor.
func (s *State) SelectCursor() bool {
	return s.ItemSelected(s.Cursor)
}

// OverlayClosed hides the overlay. Selected is kept.
func (s *State) OverlayClosed() {
	s.ModalVisible = false
}

// View returns the view to render. Loading wins over an error, which wins
// over the list.
func (s *State) View() ViewKind {
	switch {
	case s.Loading:
		return ViewLoading
	case s.Err != "":
		return ViewError
	case s.ModalVisible && s.Selected != nil:
		return ViewOverlay
	case s.Term == "" && !s.fetched:
		return ViewIdle
	default:
		return ViewList
	}
}

// MoveUp moves the cursor up one row.
func (s *State) MoveUp() {
	if s.Cursor > 0 {
		s.Cursor--
	}
}

// MoveDown moves the cursor down one row.
func (s *State) MoveDown() {
	if s.Cursor < len(s.Cards)-1 {
		s.Cursor++
	}
}

// Top moves the cursor to the first card.
func (s *State) Top() {
	s.Cursor = 0
}

// Bottom moves the cursor to the last card.
func (s *State) Bottom() {
	s.Cursor = max(len(s.Cards)-1, 0)
}

// CursorCard returns the card under the cursor.
func (s *State) CursorCard() (card.Record, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Cards) {
		return card.Record{}, false
	}
	return s.Cards[s.Cursor], true
}

func clamp(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
