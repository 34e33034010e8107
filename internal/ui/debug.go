package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/cardscope/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel showing session stats and recent events.
// Pure function with no side effects. Returns empty string if ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	// Keyed lookups, not map iteration, so the order is stable.
	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Session Stats"))
	lines = append(lines, fmt.Sprintf("  Searches:   %d started, %d complete, %d errors, %d stale",
		stats[otel.KindSearchStart], stats[otel.KindSearchComplete], stats[otel.KindSearchError], stats[otel.KindSearchStale]))
	lines = append(lines, fmt.Sprintf("  Cards:      %d collisions", stats[otel.KindCardCollision]))
	lines = append(lines, fmt.Sprintf("  UI:         %d sorts, %d opened, %d closed",
		stats[otel.KindSortChange], stats[otel.KindSelect], stats[otel.KindClose]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-18s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Seq > 0 {
			line += fmt.Sprintf("  #%d", e.Seq)
		}
		if e.Term != "" {
			line += "  " + fmt.Sprintf("%q", truncateRunes(e.Term, 20))
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		lines = append(lines, line)
	}

	// Truncate to fit terminal height (subtract chrome added by DebugPanel border/padding)
	maxHeight := max(height-debugPanelChrome, 1)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := max(min(76, width-4), 20)

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("ctrl+d") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
