package ui

import (
	"strings"

	"github.com/abelbrown/cardscope/internal/card"
	"github.com/charmbracelet/lipgloss"
)

// labelWidth aligns field values on a card face.
const labelWidth = 13

// RenderCard renders the face of r: the name, then each present face field
// on its own line.
func RenderCard(r card.Record) string {
	return renderFields(card.Face(r))
}

func renderFields(fields []card.Field) string {
	lines := make([]string, 0, len(fields))
	lines = append(lines, CardName.Render(fields[0].Value))
	for _, f := range fields[1:] {
		label := CardLabel.Width(labelWidth).Render(f.Label + ":")
		lines = append(lines, label+CardValue.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}

// detailContent is the scrollable body of the overlay: every present field
// and the front text wrapped to width.
func detailContent(r card.Record, width int) string {
	fields, text := card.Detail(r)
	body := renderFields(fields)
	if text != "" {
		body += "\n\n" + CardText.Width(max(width, 10)).Render(text)
	}
	return body
}

// overlayDims returns the overlay box size and the viewport size inside it
// for a terminal of width x height.
func overlayDims(width, height int) (boxW, vpW, vpH int) {
	boxW = min(max(width-8, 30), 72)
	// Border and horizontal padding of CardBox.
	vpW = boxW - 4
	// Border, hint line and the gap above it.
	vpH = max(height-8, 3)
	return boxW, vpW, vpH
}

// renderOverlay frames the viewport and centers it on the screen.
func renderOverlay(body string, width, height int) string {
	boxW, _, _ := overlayDims(width, height)
	hint := StatusBarKey.Render("esc") + StatusBarText.Render(":close  ") +
		StatusBarKey.Render("j/k") + StatusBarText.Render(":scroll")
	box := CardBox.Width(boxW).Render(body + "\n\n" + hint)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
