package layout

import (
	"sync"
	"time"
)

// DefaultToastTTL is how long a toast stays visible unless closed earlier.
const DefaultToastTTL = 4 * time.Second

// Toast is a transient notification.
type Toast struct {
	ID      int
	Message string
	IsError bool
	Visible bool
	ShownAt time.Time
}

// Toasts holds at most one toast; showing a new one replaces the old one.
// It satisfies store.Notifier.
type Toasts struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	current Toast
	nextID  int
}

func NewToasts(ttl time.Duration) *Toasts {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &Toasts{ttl: ttl, now: time.Now}
}

// SetClock replaces the time source (for testing).
func (t *Toasts) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// TTL returns the configured visibility duration.
func (t *Toasts) TTL() time.Duration {
	return t.ttl
}

// Notify shows message as a toast.
func (t *Toasts) Notify(message string, isError bool) {
	t.Show(message, isError)
}

// Show displays a toast and returns its ID.
func (t *Toasts) Show(message string, isError bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.current = Toast{
		ID:      t.nextID,
		Message: message,
		IsError: isError,
		Visible: message != "",
		ShownAt: t.now(),
	}
	return t.current.ID
}

// Close hides the current toast.
func (t *Toasts) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.Visible = false
}

// Expire hides the toast with the given ID if it is still the current one.
func (t *Toasts) Expire(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current.ID == id {
		t.current.Visible = false
	}
}

// Current returns the current toast; it is reported invisible once its TTL
// has passed.
func (t *Toasts) Current() Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	toast := t.current
	if toast.Visible && t.now().Sub(toast.ShownAt) >= t.ttl {
		toast.Visible = false
		t.current.Visible = false
	}
	return toast
}

// ModalState describes the details overlay.
type ModalState struct {
	IsOpen  bool
	Title   string
	PlaceID string
}

// Modal is the details overlay state.
type Modal struct {
	mu    sync.Mutex
	state ModalState
}

func NewModal() *Modal {
	return &Modal{}
}

func (m *Modal) Open(title, placeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = ModalState{IsOpen: true, Title: title, PlaceID: placeID}
}

// Close runs callback, if any, and closes the overlay.
func (m *Modal) Close(callback func()) {
	if callback != nil {
		callback()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = ModalState{}
}

func (m *Modal) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
