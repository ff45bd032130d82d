package main

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mainbong/restaurant_finder/internal/config"
	"github.com/mainbong/restaurant_finder/internal/places"
	"github.com/mainbong/restaurant_finder/internal/scroll"
	"github.com/mainbong/restaurant_finder/internal/store"
	"github.com/mainbong/restaurant_finder/internal/website"
)

// radiusSteps are the radii cycled through with [ and ]; 0 lets the API pick.
var radiusSteps = []int{0, 250, 500, 1000, 2000, 5000, 10000}

type fetchDoneMsg struct {
	err error
}

type randomDoneMsg struct {
	place *places.Place
	err   error
}

type previewMsg struct {
	url     string
	preview *website.Preview
	err     error
}

type toastExpireMsg struct {
	id int
}

// loadMoreMsg is sent by the scroll coordinator when the end of the list
// should be extended.
type loadMoreMsg struct{}

type configReloadedMsg struct {
	cfg *config.Config
}

type configErrorMsg struct {
	err error
}

type tuiModel struct {
	app         *app
	ctx         context.Context
	input       textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model
	coordinator *scroll.Coordinator
	events      chan tea.Msg

	state      store.State
	cursor     int
	editing    bool
	showMap    bool
	atEnd      bool
	inFlight   int
	preview    *website.Preview
	previewErr string
	width      int
	height     int
}

func runTUI(a *app) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := newTUIModel(ctx, a)
	defer model.coordinator.Stop()

	go watchConfig(ctx, func(c *config.Config) {
		model.send(configReloadedMsg{cfg: c})
	}, func(err error) {
		model.send(configErrorMsg{err: err})
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}

func newTUIModel(ctx context.Context, a *app) tuiModel {
	input := textinput.New()
	input.Prompt = "search: "
	input.PromptStyle = promptStyle
	input.Placeholder = "ramen, sushi, cafe..."
	input.CharLimit = 80
	input.SetValue(a.store.Params().Query)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle

	m := tuiModel{
		app:      a,
		ctx:      ctx,
		input:    input,
		viewport: viewport.New(0, 0),
		spinner:  spin,
		events:   make(chan tea.Msg, 16),
		state:    a.store.Snapshot(),
		inFlight: 1,
	}
	events := m.events
	m.coordinator = scroll.NewCoordinator(a.store, func() {
		select {
		case events <- loadMoreMsg{}:
		default:
		}
	}, scroll.DefaultCooldown)
	return m
}

// send delivers msg to the update loop without blocking the caller.
func (m tuiModel) send(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(""), m.spinner.Tick, waitForEvent(m.events))
}

func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// startFetch runs a page fetch in the background.
func (m *tuiModel) startFetch(cursor string) tea.Cmd {
	m.inFlight++
	return tea.Batch(m.fetchCmd(cursor), m.spinner.Tick)
}

func (m tuiModel) fetchCmd(cursor string) tea.Cmd {
	st := m.app.store
	ctx := m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{err: st.FetchPlaces(ctx, cursor)}
	}
}

// loadMoreCmd appends the next page; it does nothing once the cursor is gone.
func (m tuiModel) loadMoreCmd() tea.Cmd {
	st := m.app.store
	ctx := m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{err: st.LoadMore(ctx)}
	}
}

func (m *tuiModel) startRandom() tea.Cmd {
	m.inFlight++
	st := m.app.store
	ctx := m.ctx
	pick := func() tea.Msg {
		place, err := st.RandomPick(ctx)
		return randomDoneMsg{place: place, err: err}
	}
	return tea.Batch(pick, m.spinner.Tick)
}

func (m *tuiModel) startPreview(url string) tea.Cmd {
	if url == "" {
		return nil
	}
	if cached, ok := m.app.previewer.Cached(url); ok {
		m.preview = cached
		return nil
	}
	previewer := m.app.previewer
	ctx := m.ctx
	return func() tea.Msg {
		preview, err := previewer.Preview(ctx, url)
		return previewMsg{url: url, preview: preview, err: err}
	}
}

// expireToast schedules hiding the current toast after its TTL.
func (m *tuiModel) expireToast() tea.Cmd {
	toast := m.app.toasts.Current()
	if !toast.Visible {
		return nil
	}
	return tea.Tick(m.app.toasts.TTL(), func(_ time.Time) tea.Msg {
		return toastExpireMsg{id: toast.ID}
	})
}

func (m *tuiModel) refresh() {
	m.state = m.app.store.Snapshot()
	if m.cursor >= len(m.state.Restaurants) {
		m.cursor = max(0, len(m.state.Restaurants)-1)
	}
	m.syncHover()
	m.refreshViewport()
}

func (m *tuiModel) syncHover() {
	if m.cursor < len(m.state.Restaurants) {
		m.app.store.Hover(m.state.Restaurants[m.cursor].ID)
		return
	}
	m.app.store.Hover("")
}

// updateSentinel tells the coordinator whether the end of the list is on
// screen. Only changes are reported.
func (m *tuiModel) updateSentinel() {
	n := len(m.state.Restaurants)
	atEnd := n > 0 && m.cursor >= n-1 && !m.editing && !m.app.modal.State().IsOpen
	if atEnd == m.atEnd {
		return
	}
	m.atEnd = atEnd
	m.coordinator.SetVisible(atEnd)
}

func (m tuiModel) loading() bool {
	return m.inFlight > 0
}

func (m tuiModel) selected() (places.Place, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Restaurants) {
		return places.Place{}, false
	}
	return m.state.Restaurants[m.cursor], true
}
