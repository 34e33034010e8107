// Package otel provides structured observability for cardscope.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// events asynchronously via a buffered channel and background drain goroutine.
// An optional RingBuffer keeps recent events in memory for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// rank orders levels for minimum-level filtering.
func (l Level) rank() int {
	switch l {
	case LevelInfo:
		return 1
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	default:
		return 0
	}
}

// EventKind identifies the category of an observability event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Search lifecycle
	KindSearchStart    EventKind = "search.start"
	KindSearchComplete EventKind = "search.complete"
	KindSearchError    EventKind = "search.error"
	KindSearchStale    EventKind = "search.stale" // completion arrived after a newer request

	// Card data
	KindCardCollision EventKind = "card.collision"
	KindCatalogImport EventKind = "catalog.import"

	// UI
	KindSortChange EventKind = "sort.change"
	KindSelect     EventKind = "ui.select"
	KindClose      EventKind = "ui.close"
	KindKeyPress   EventKind = "ui.key"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace (CARDSCOPE_TRACE)
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is the universal observability record. Every field except Kind and
// Time is optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`       // "ui", "search", "catalog", "main"
	SessionID string         `json:"session_id,omitempty"` // random hex, same for the whole run
	Seq       uint64         `json:"seq,omitempty"`        // search request sequence number
	Term      string         `json:"term,omitempty"`
	SortKey   string         `json:"sort,omitempty"`
	CardID    string         `json:"card,omitempty"`
	Source    string         `json:"source,omitempty"` // "api" or "catalog"
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
