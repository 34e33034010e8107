package otel

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Filter selects events when reading a log back. Zero fields match all.
type Filter struct {
	KindPrefix string
	MinLevel   Level
	Comp       string
	Term       string
}

// Match reports whether ev passes the filter.
func (f Filter) Match(ev Event) bool {
	if f.KindPrefix != "" && !strings.HasPrefix(string(ev.Kind), f.KindPrefix) {
		return false
	}
	if f.MinLevel != "" && ev.Level.rank() < f.MinLevel.rank() {
		return false
	}
	if f.Comp != "" && ev.Comp != f.Comp {
		return false
	}
	if f.Term != "" && ev.Term != f.Term {
		return false
	}
	return true
}

// Line is one decoded event with its original JSON.
type Line struct {
	Event Event
	Raw   []byte
}

// ParseLine decodes one JSONL line. ok is false for blank or invalid lines.
func ParseLine(raw []byte) (Line, bool) {
	raw = []byte(strings.TrimRight(string(raw), "\r\n"))
	if len(raw) == 0 {
		return Line{}, false
	}
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Line{}, false
	}
	return Line{Event: ev, Raw: raw}, true
}

// ReadTail reads the whole log and returns the last n matching lines.
// Lines that are not valid events are skipped.
func ReadTail(r io.Reader, n int, f Filter) ([]Line, error) {
	if n <= 0 {
		return nil, nil
	}

	scanner := bufio.NewScanner(r)
	// Events with large Extra maps can exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	tail := make([]Line, 0, n)
	for scanner.Scan() {
		line, ok := ParseLine(scanner.Bytes())
		if !ok || !f.Match(line.Event) {
			continue
		}
		if len(tail) == n {
			copy(tail, tail[1:])
			tail = tail[:n-1]
		}
		tail = append(tail, line)
	}
	if err := scanner.Err(); err != nil {
		return tail, fmt.Errorf("otel: read event log: %w", err)
	}
	return tail, nil
}

// Format renders an event as one human-readable line.
func Format(ev Event) string {
	lvl := strings.ToUpper(string(ev.Level))
	if lvl == "" {
		lvl = "?"
	}
	parts := []string{fmt.Sprintf("%s %-5s [%-7s] %-18s", ev.Time.Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)}

	if ev.Msg != "" {
		parts = append(parts, "- "+ev.Msg)
	}
	if ev.Seq > 0 {
		parts = append(parts, fmt.Sprintf("seq=%d", ev.Seq))
	}
	if ev.Term != "" {
		parts = append(parts, fmt.Sprintf("term=%q", ev.Term))
	}
	if ev.SortKey != "" {
		parts = append(parts, "sort="+ev.SortKey)
	}
	if ev.CardID != "" {
		parts = append(parts, "card="+ev.CardID)
	}
	if ev.Source != "" {
		parts = append(parts, "src="+ev.Source)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	return strings.Join(parts, " ")
}

func durPrecision(ms float64) int {
	switch {
	case ms >= 100:
		return 0
	case ms >= 1:
		return 1
	default:
		return 2
	}
}
