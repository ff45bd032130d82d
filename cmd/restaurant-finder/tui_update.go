package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mainbong/restaurant_finder/internal/logger"
)

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.adjustViewport()
		m.refreshViewport()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.coordinator.Stop()
			return m, tea.Quit
		}
		if m.editing {
			return m.handleInputKey(msg)
		}
		if m.app.modal.State().IsOpen {
			return m.handleModalKey(msg)
		}
		return m.handleListKey(msg)
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			m.moveCursor(1)
		}
		return m, nil
	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case fetchDoneMsg:
		m.inFlight = max(0, m.inFlight-1)
		m.refresh()
		m.updateSentinel()
		return m, m.expireToast()
	case randomDoneMsg:
		m.inFlight = max(0, m.inFlight-1)
		m.refresh()
		if msg.err != nil || msg.place == nil {
			return m, m.expireToast()
		}
		m.preview = nil
		m.previewErr = ""
		m.app.modal.Open(msg.place.Name, msg.place.ID)
		m.updateSentinel()
		return m, tea.Batch(m.startPreview(msg.place.Website), m.expireToast())
	case previewMsg:
		if sel := m.state.Selected; sel == nil || sel.Website != msg.url {
			return m, nil
		}
		if msg.err != nil {
			logger.Warn("website preview failed: %v", msg.err)
			m.previewErr = "website preview unavailable"
			return m, nil
		}
		m.preview = msg.preview
		return m, nil
	case toastExpireMsg:
		m.app.toasts.Expire(msg.id)
		return m, nil
	case loadMoreMsg:
		// a search may have finished since the trigger was queued
		if !m.app.store.HasMore() || m.app.store.Loading() {
			logger.Debug("scroll trigger dropped: no next page or fetch in flight")
			return m, waitForEvent(m.events)
		}
		m.inFlight++
		return m, tea.Batch(m.loadMoreCmd(), m.spinner.Tick, waitForEvent(m.events))
	case configReloadedMsg:
		logger.Info("config reloaded")
		m.app.toasts.Show("Settings reloaded", false)
		cmds := []tea.Cmd{waitForEvent(m.events), m.expireToast()}
		if m.app.applyConfig(msg.cfg) {
			cmds = append(cmds, m.startFetch(""))
		}
		return m, tea.Batch(cmds...)
	case configErrorMsg:
		m.app.toasts.Show(fmt.Sprintf("Settings not applied: %v", msg.err), true)
		return m, tea.Batch(waitForEvent(m.events), m.expireToast())
	}
	return m, nil
}

func (m tuiModel) handleListKey(msg tea.KeyMsg) (tuiModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.coordinator.Stop()
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, keys.Top):
		m.moveCursor(-len(m.state.Restaurants))
	case key.Matches(msg, keys.Bottom):
		m.moveCursor(len(m.state.Restaurants))
	case key.Matches(msg, keys.Details):
		place, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.app.store.Select(place.ID)
		m.state = m.app.store.Snapshot()
		m.preview = nil
		m.previewErr = ""
		m.app.modal.Open(place.Name, place.ID)
		m.updateSentinel()
		return m, m.startPreview(place.Website)
	case key.Matches(msg, keys.Search):
		m.editing = true
		m.updateSentinel()
		m.adjustViewport()
		return m, m.input.Focus()
	case key.Matches(msg, keys.Sort):
		m.app.store.SetSort(m.app.store.Params().Sort.Next())
		return m.research()
	case key.Matches(msg, keys.Closer):
		m.app.store.SetRadius(stepRadius(m.app.store.Params().Radius, -1))
		return m.research()
	case key.Matches(msg, keys.Farther):
		m.app.store.SetRadius(stepRadius(m.app.store.Params().Radius, 1))
		return m.research()
	case key.Matches(msg, keys.Random):
		return m, m.startRandom()
	case key.Matches(msg, keys.Map):
		m.showMap = !m.showMap
		m.adjustViewport()
		m.refreshViewport()
	}
	return m, nil
}

func (m tuiModel) handleInputKey(msg tea.KeyMsg) (tuiModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.SetValue(m.app.store.Params().Query)
		m.input.Blur()
		m.editing = false
		m.adjustViewport()
		m.updateSentinel()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		m.editing = false
		m.adjustViewport()
		if value == "" {
			m.input.SetValue(m.app.store.Params().Query)
			m.updateSentinel()
			return m, nil
		}
		m.app.store.SetQuery(value)
		return m.research()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) handleModalKey(msg tea.KeyMsg) (tuiModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.coordinator.Stop()
		return m, tea.Quit
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Details):
		m.app.modal.Close(m.app.store.ClearSelection)
		m.state = m.app.store.Snapshot()
		m.preview = nil
		m.previewErr = ""
		m.updateSentinel()
	case key.Matches(msg, keys.Random):
		return m, m.startRandom()
	}
	return m, nil
}

// research starts over from the first page after a parameter change.
func (m tuiModel) research() (tuiModel, tea.Cmd) {
	m.cursor = 0
	m.viewport.GotoTop()
	m.atEnd = false
	m.coordinator.SetVisible(false)
	return m, m.startFetch("")
}

func (m *tuiModel) moveCursor(delta int) {
	n := len(m.state.Restaurants)
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.syncHover()
	m.refreshViewport()
	m.updateSentinel()
}

// stepRadius moves to the next radius step in direction dir.
func stepRadius(current, dir int) int {
	idx := 0
	for i, r := range radiusSteps {
		if r <= current {
			idx = i
		}
	}
	if dir < 0 && radiusSteps[idx] != current {
		// between two steps
		idx++
	}
	idx = min(max(idx+dir, 0), len(radiusSteps)-1)
	return radiusSteps[idx]
}
