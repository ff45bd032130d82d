package main

import (
	"fmt"
	"strings"

	reflowtruncate "github.com/muesli/reflow/truncate"

	"github.com/mainbong/restaurant_finder/internal/places"
	"github.com/mainbong/restaurant_finder/internal/terminal"
)

const (
	linesPerPlace = 2
	mapPanelWidth = 36
	minListWidth  = 40
)

// chromeHeight is everything around the list: header, input, two dividers,
// status and hints.
const chromeHeight = 6

func (m *tuiModel) adjustViewport() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.viewport.Width = max(10, m.listWidth())
	m.viewport.Height = max(1, m.height-chromeHeight)
}

func (m tuiModel) mapVisible() bool {
	return m.showMap && m.width-mapPanelWidth >= minListWidth
}

func (m tuiModel) listWidth() int {
	if m.mapVisible() {
		return m.width - mapPanelWidth
	}
	return m.width
}

func (m *tuiModel) refreshViewport() {
	m.viewport.SetContent(renderList(m.state.Restaurants, m.cursor, m.viewport.Width, m.footer()))
	m.followCursor()
}

// followCursor scrolls just enough to keep both lines of the cursor entry on
// screen.
func (m *tuiModel) followCursor() {
	if m.viewport.Height <= 0 {
		return
	}
	top := m.cursor * linesPerPlace
	bottom := top + linesPerPlace - 1
	if m.cursor == len(m.state.Restaurants)-1 {
		// include the footer line
		bottom++
	}
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height + 1)
	}
}

func (m tuiModel) footer() string {
	switch {
	case len(m.state.Restaurants) == 0:
		return ""
	case m.state.NextCursor != "":
		return hintStyle.Render("  ↓ more results below")
	default:
		return hintStyle.Render(fmt.Sprintf("  end of results (%d)", len(m.state.Restaurants)))
	}
}

func renderList(list []places.Place, cursor, width int, footer string) string {
	if len(list) == 0 {
		return ""
	}
	width = max(10, width)
	var b strings.Builder
	for i, place := range list {
		name := truncate(fmt.Sprintf("%2d. %s", i+1, place.Name), width-2)
		summary := truncate(terminal.Summary(place), width-6)
		if i == cursor {
			b.WriteString(cursorStyle.Render(">"))
			b.WriteString(selectedItemStyle.Render(name))
		} else {
			b.WriteString(itemStyle.Render(name))
		}
		b.WriteString("\n")
		b.WriteString(summaryStyle.Render(summary))
		b.WriteString("\n")
	}
	b.WriteString(footer)
	return b.String()
}

// truncate shortens s to width cells, keeping ANSI styling intact.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return reflowtruncate.StringWithTail(s, uint(width), "…")
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
