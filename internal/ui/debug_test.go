package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/cardscope/internal/otel"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDebugOverlayNilRing(t *testing.T) {
	result := debugOverlay(nil, 80, 24)
	if result != "" {
		t.Errorf("debugOverlay(nil) should return empty string, got %q", result)
	}
}

func TestDebugOverlayRendersStats(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindSearchStart, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindSearchStart, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindSearchComplete, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindSearchStale, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindSortChange, Time: time.Now()})

	result := debugOverlay(ring, 80, 40)

	if !strings.Contains(result, "Session Stats") {
		t.Error("overlay should contain 'Session Stats' header")
	}
	if !strings.Contains(result, "2 started, 1 complete, 0 errors, 1 stale") {
		t.Errorf("overlay should show search stats, got:\n%s", result)
	}
	if !strings.Contains(result, "1 sorts") {
		t.Errorf("overlay should show ui stats, got:\n%s", result)
	}
	if !strings.Contains(result, "5 / 64 events") {
		t.Errorf("overlay should show buffer stats, got:\n%s", result)
	}
}

func TestDebugOverlayRecentEvents(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindStartup, Time: time.Now(), Msg: "hello world"})
	ring.Push(otel.Event{Kind: otel.KindSearchError, Time: time.Now(), Err: "timeout"})
	ring.Push(otel.Event{Kind: otel.KindSearchStart, Time: time.Now(), Seq: 12, Term: "vader"})

	result := debugOverlay(ring, 80, 40)

	if !strings.Contains(result, "Recent Events") {
		t.Error("overlay should contain 'Recent Events' header")
	}
	if !strings.Contains(result, "hello world") {
		t.Errorf("overlay should show event message, got:\n%s", result)
	}
	if !strings.Contains(result, "ERR:timeout") {
		t.Errorf("overlay should show error, got:\n%s", result)
	}
	if !strings.Contains(result, `#12  "vader"`) {
		t.Errorf("overlay should show seq and term, got:\n%s", result)
	}
}

func TestDebugOverlayTruncation(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	for i := 0; i < 30; i++ {
		ring.Push(otel.Event{Kind: otel.KindKeyPress, Time: time.Now()})
	}

	// Very small height should still render without panic
	result := debugOverlay(ring, 80, 10)
	if result == "" {
		t.Error("overlay should still render with small height")
	}

	lines := strings.Count(result, "\n")
	// With height=10, maxHeight=6, so at most ~6 content lines (plus border/padding)
	if lines > 20 { // generous bound accounting for lipgloss borders
		t.Errorf("overlay should be truncated, got %d lines", lines)
	}
}

func TestDebugToggle(t *testing.T) {
	ring := otel.NewRingBuffer(16)
	app := NewApp(AppConfig{Ring: ring})
	app = send(t, app, tea.WindowSizeMsg{Width: 80, Height: 24})

	if app.debugVisible {
		t.Error("debug should be hidden initially")
	}

	app = send(t, app, tea.KeyMsg{Type: tea.KeyCtrlD})
	if !app.debugVisible {
		t.Error("ctrl+d should show debug overlay")
	}

	view := app.View()
	if !strings.Contains(view, "[DEBUG]") {
		t.Errorf("debug view should contain '[DEBUG]', got:\n%s", view)
	}

	// Keys other than close are swallowed.
	app = send(t, app, runes("3"))
	if app.state.SortKey != "name" {
		t.Error("sort keys should not reach the list while debug is open")
	}

	app = send(t, app, tea.KeyMsg{Type: tea.KeyCtrlD})
	if app.debugVisible {
		t.Error("second ctrl+d should hide debug overlay")
	}
}

func TestDebugToggleWithoutRing(t *testing.T) {
	app := NewApp(AppConfig{})
	app = send(t, app, tea.KeyMsg{Type: tea.KeyCtrlD})
	if app.debugVisible {
		t.Error("debug overlay needs a ring buffer")
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		dur  time.Duration
		want string
	}{
		{0, "0ms"},
		{50 * time.Millisecond, "50ms"},
		{999 * time.Millisecond, "999ms"},
		{1500 * time.Millisecond, "1.5s"},
		{30 * time.Second, "30.0s"},
		{90 * time.Second, "2m"}, // 1.5 minutes rounds to 2 with %.0f
		{5 * time.Minute, "5m"},
	}
	for _, tt := range tests {
		got := formatAge(tt.dur)
		if got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.dur, got, tt.want)
		}
	}
}

func TestFormatAgeNegative(t *testing.T) {
	got := formatAge(-5 * time.Second)
	if got != "0ms" {
		t.Errorf("formatAge(-5s) = %q, want \"0ms\"", got)
	}
}
