package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abelbrown/cardscope/internal/card"
)

// nameColWidth is the width of the name column in list rows.
const nameColWidth = 28

// RenderList renders one row per card, scrolled so the cursor is visible.
func RenderList(cards []card.Record, cursor, width, height int) string {
	if height < 1 {
		height = 1
	}
	offset := calcScrollOffset(len(cards), cursor, height)
	end := min(offset+height, len(cards))

	rows := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		rows = append(rows, renderRow(cards[i], i == cursor, width))
	}
	return strings.Join(rows, "\n")
}

// calcScrollOffset returns the first visible row such that the cursor fits
// in height rows.
func calcScrollOffset(n, cursor, height int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		cursor = n - 1
	}
	if cursor >= height {
		return cursor - height + 1
	}
	return 0
}

// renderRow renders one card on a single line: the name column followed by
// the rest of its face.
func renderRow(r card.Record, selected bool, width int) string {
	fields := card.Face(r)

	name := truncateRunes(fields[0].Value, nameColWidth)
	name += strings.Repeat(" ", nameColWidth-utf8.RuneCountInString(name))

	rest := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		rest = append(rest, f.String())
	}
	detail := truncateRunes(strings.Join(rest, "  "), max(width-nameColWidth-6, 10))

	if selected {
		return SelectedRow.Render(name + "  " + detail)
	}
	return NormalRow.Render(name) + " " + RowFields.Render(detail)
}

// truncateRunes shortens s to at most n runes, marking the cut with an
// ellipsis.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// RenderSortBar renders the four sort buttons with the active one
// highlighted.
func RenderSortBar(active card.SortKey) string {
	var b strings.Builder
	for i, k := range card.SortKeys() {
		label := fmt.Sprintf("%d %s", i+1, k.Label())
		if k == active {
			b.WriteString(SortButtonActive(k).Render(label))
		} else {
			b.WriteString(SortButton(k).Render(label))
		}
	}
	return b.String()
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(cursor, total int, key card.SortKey, width int, loading bool) string {
	position := "0/0"
	if total > 0 {
		position = fmt.Sprintf("%d/%d", cursor+1, total)
	}

	hints := []string{
		StatusBarKey.Render("/") + StatusBarText.Render(":search"),
		StatusBarKey.Render("1-4") + StatusBarText.Render(":sort"),
		StatusBarKey.Render("enter") + StatusBarText.Render(":open"),
		StatusBarKey.Render("r") + StatusBarText.Render(":retry"),
		StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
	}

	left := position + "  sort:" + key.Label()
	if loading {
		left += "  searching…"
	}
	return StatusBar.Width(width).Render(left + "  " + strings.Join(hints, " "))
}
