package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mainbong/restaurant_finder/internal/geo"
	"github.com/mainbong/restaurant_finder/internal/places"
	"github.com/mainbong/restaurant_finder/internal/terminal"
)

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	divider := hintStyle.Render(strings.Repeat("─", m.width))
	bodyHeight := max(1, m.height-chromeHeight)

	var body string
	if modal := m.app.modal.State(); modal.IsOpen && m.state.Selected != nil {
		body = m.renderDetails(*m.state.Selected, bodyHeight)
	} else {
		body = m.renderBody(bodyHeight)
	}

	parts := []string{
		m.renderHeader(),
		m.input.View(),
		divider,
		lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body),
		divider,
		m.renderStatus(),
		m.renderHints(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m tuiModel) renderHeader() string {
	params := m.state.Params
	radius := radiusLabel(params.Radius)
	header := titleStyle.Render("restaurant-finder") + "  " +
		paramStyle.Render("near ") + paramValueStyle.Render(m.app.client.Center().String()) + "  " +
		paramStyle.Render("radius ") + paramValueStyle.Render(radius) + "  " +
		paramStyle.Render("sort ") + paramValueStyle.Render(params.Sort.Label())
	return truncate(header, m.width)
}

func (m tuiModel) renderBody(height int) string {
	if len(m.state.Restaurants) == 0 {
		msg := "No restaurants yet."
		switch {
		case m.loading():
			msg = "Searching..."
		case m.state.Error != "":
			msg = "Search failed. Press / to try again."
		}
		return hintStyle.Render("  " + msg)
	}

	list := m.viewport.View()
	if !m.mapVisible() {
		return list
	}
	lines := terminal.MapLines(m.app.client.Center(), m.state.Params.Radius, m.state.Restaurants, m.cursor, mapPanelWidth-2, max(3, height-2))
	panel := mapStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(m.listWidth()).Render(list), panel)
}

func (m tuiModel) renderDetails(place places.Place, height int) string {
	var rows []string
	row := func(label, value string) {
		if value == "" {
			return
		}
		rows = append(rows, labelStyle.Render(label)+value)
	}

	rows = append(rows, titleStyle.Render(place.Name))
	if cats := place.CategoryNames(); len(cats) > 0 {
		rows = append(rows, hintStyle.Render(strings.Join(cats, ", ")))
	}
	rows = append(rows, "")
	row("Address", place.Address())
	row("Distance", terminal.FormatDistance(place.Distance))
	if place.Rating > 0 {
		row("Rating", fmt.Sprintf("%.1f / 10", place.Rating))
	}
	row("Price", place.PriceText())
	row("Status", place.OpenStatus())
	row("Hours", place.Hours.Display)
	row("Phone", place.Tel)
	row("Website", place.Website)
	row("Menu", place.Menu)
	if len(place.Photos) > 0 {
		row("Photo", place.Photos[0].URL("original"))
	}
	if point := place.Point(); point != (geo.Point{}) {
		row("Map", geo.MapLink(m.app.cfg.Map.TileKey, point))
	}

	switch {
	case m.preview != nil:
		rows = append(rows, "")
		row("Site", m.preview.Title)
		row("About", m.preview.Description)
	case m.previewErr != "":
		rows = append(rows, "", hintStyle.Render(m.previewErr))
	case place.Website != "":
		rows = append(rows, "", hintStyle.Render("loading website preview..."))
	}

	for i, tip := range place.Tips {
		if i == 3 {
			break
		}
		if i == 0 {
			rows = append(rows, "")
		}
		rows = append(rows, tipStyle.Render("\""+strings.TrimSpace(tip.Text)+"\""))
	}

	width := min(m.width-2, 90)
	box := modalStyle.Width(max(20, width-4)).Render(strings.Join(rows, "\n"))
	if lineCount(box) > height {
		return box
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m tuiModel) renderStatus() string {
	var parts []string
	if m.loading() {
		parts = append(parts, m.spinner.View()+hintStyle.Render(" loading"))
	}
	if toast := m.app.toasts.Current(); toast.Visible {
		style := toastStyle
		if toast.IsError {
			style = toastErrorStyle
		}
		parts = append(parts, style.Render(toast.Message))
	}
	if len(parts) == 0 && len(m.state.Restaurants) > 0 {
		parts = append(parts, hintStyle.Render(fmt.Sprintf("%d / %d", m.cursor+1, len(m.state.Restaurants))))
	}
	return truncate(strings.Join(parts, "  "), m.width)
}

func (m tuiModel) renderHints() string {
	var hints []string
	switch {
	case m.editing:
		hints = []string{"enter search", "esc cancel"}
	case m.app.modal.State().IsOpen:
		hints = []string{"esc back", "r another", "q quit"}
	default:
		for _, b := range keys.shortHelp() {
			h := b.Help()
			hints = append(hints, h.Key+" "+h.Desc)
		}
	}
	return hintStyle.Render(truncate(strings.Join(hints, " · "), m.width))
}

var _ tea.Model = tuiModel{}
