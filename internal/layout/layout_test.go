package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToasts_ShowAndExpire(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	toasts := NewToasts(2 * time.Second)
	toasts.SetClock(func() time.Time { return now })

	id := toasts.Show("Failed to fetch places", true)
	cur := toasts.Current()
	assert.True(t, cur.Visible)
	assert.True(t, cur.IsError)
	assert.Equal(t, id, cur.ID)

	now = now.Add(time.Second)
	assert.True(t, toasts.Current().Visible)

	now = now.Add(time.Second)
	assert.False(t, toasts.Current().Visible)
}

func TestToasts_ReplaceAndExpireByID(t *testing.T) {
	toasts := NewToasts(time.Hour)

	first := toasts.Show("first", false)
	second := toasts.Show("second", false)
	assert.NotEqual(t, first, second)

	// expiring a replaced toast leaves the newer one alone
	toasts.Expire(first)
	cur := toasts.Current()
	assert.True(t, cur.Visible)
	assert.Equal(t, "second", cur.Message)

	toasts.Expire(second)
	assert.False(t, toasts.Current().Visible)
}

func TestToasts_NotifyAndClose(t *testing.T) {
	toasts := NewToasts(0)
	assert.Equal(t, DefaultToastTTL, toasts.TTL())

	toasts.Notify("No restaurants found", false)
	assert.True(t, toasts.Current().Visible)

	toasts.Close()
	assert.False(t, toasts.Current().Visible)

	toasts.Notify("", false)
	assert.False(t, toasts.Current().Visible, "empty messages are never shown")
}

func TestModal_OpenClose(t *testing.T) {
	modal := NewModal()
	modal.Open("Sushi Dai", "abc")

	state := modal.State()
	assert.True(t, state.IsOpen)
	assert.Equal(t, "Sushi Dai", state.Title)
	assert.Equal(t, "abc", state.PlaceID)

	called := false
	modal.Close(func() { called = true })
	assert.True(t, called)
	assert.Equal(t, ModalState{}, modal.State())

	assert.NotPanics(t, func() { modal.Close(nil) })
}
