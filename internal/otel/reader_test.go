package otel

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func writeLog(t *testing.T, events ...Event) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	l := NewLogger(&buf)
	for _, e := range events {
		l.Emit(e)
	}
	l.Close()
	buf.WriteString("not json\n\n")
	return &buf
}

func TestReadTailFilters(t *testing.T) {
	buf := writeLog(t,
		Event{Kind: KindSearchStart, Level: LevelInfo, Comp: "ui", Term: "luke"},
		Event{Kind: KindSearchComplete, Level: LevelInfo, Comp: "ui", Term: "luke", Count: 3},
		Event{Kind: KindSortChange, Level: LevelDebug, Comp: "ui", SortKey: "cost"},
		Event{Kind: KindSearchError, Level: LevelError, Comp: "search", Term: "vader", Err: "boom"},
	)
	data := buf.Bytes()

	tests := []struct {
		name   string
		filter Filter
		n      int
		want   []EventKind
	}{
		{"all", Filter{}, 10, []EventKind{KindSearchStart, KindSearchComplete, KindSortChange, KindSearchError}},
		{"tail", Filter{}, 2, []EventKind{KindSortChange, KindSearchError}},
		{"kind prefix", Filter{KindPrefix: "search"}, 10, []EventKind{KindSearchStart, KindSearchComplete, KindSearchError}},
		{"min level", Filter{MinLevel: LevelInfo}, 10, []EventKind{KindSearchStart, KindSearchComplete, KindSearchError}},
		{"errors", Filter{MinLevel: LevelError}, 10, []EventKind{KindSearchError}},
		{"comp", Filter{Comp: "search"}, 10, []EventKind{KindSearchError}},
		{"term", Filter{Term: "luke"}, 10, []EventKind{KindSearchStart, KindSearchComplete}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadTail(bytes.NewReader(data), tt.n, tt.filter)
			if err != nil {
				t.Fatalf("ReadTail: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(got), len(tt.want))
			}
			for i, line := range got {
				if line.Event.Kind != tt.want[i] {
					t.Errorf("line %d kind = %s, want %s", i, line.Event.Kind, tt.want[i])
				}
			}
		})
	}
}

func TestReadTailZero(t *testing.T) {
	got, err := ReadTail(strings.NewReader(""), 0, Filter{})
	if err != nil || got != nil {
		t.Errorf("ReadTail(n=0) = %v, %v", got, err)
	}
}

func TestFormat(t *testing.T) {
	ev := Event{
		Time:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Level: LevelInfo, Kind: KindSearchComplete, Comp: "ui",
		Seq: 2, Term: "leia", Count: 4, DurMs: 12.5, Source: "api",
	}
	got := Format(ev)
	for _, want := range []string{"03:04:05.000", "INFO", "search.complete", "seq=2", `term="leia"`, "n=4", "src=api", "(12.5ms)"} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() = %q, missing %q", got, want)
		}
	}
}
