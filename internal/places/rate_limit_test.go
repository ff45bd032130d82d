package places

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestRateLimiter_MinInterval(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiter(time.Second, time.Minute, 10)
	limiter.SetClock(clock.Now)

	require.NoError(t, limiter.Allow())

	clock.Advance(500 * time.Millisecond)
	assert.ErrorIs(t, limiter.Allow(), ErrTooFrequent)
	assert.Equal(t, 500*time.Millisecond, limiter.Delay())

	clock.Advance(500 * time.Millisecond)
	assert.NoError(t, limiter.Allow())
	assert.Equal(t, clock.now, limiter.LastCall())
}

func TestRateLimiter_WindowCount(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiter(time.Second, time.Minute, 3)
	limiter.SetClock(clock.Now)

	first := clock.now
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(), "call %d", i)
		clock.Advance(2 * time.Second)
	}

	assert.ErrorIs(t, limiter.Allow(), ErrRateLimited)
	assert.Equal(t, first.Add(time.Minute).Sub(clock.now), limiter.Delay())

	// once the oldest call leaves the window a slot frees up
	clock.now = first.Add(time.Minute + time.Millisecond)
	assert.NoError(t, limiter.Allow())
	assert.ErrorIs(t, limiter.Allow(), ErrRateLimited)
}

func TestRateLimiter_Reset(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiter(time.Second, time.Minute, 1)
	limiter.SetClock(clock.Now)

	require.NoError(t, limiter.Allow())
	require.Error(t, limiter.Allow())

	limiter.Reset()
	assert.NoError(t, limiter.Allow())
}

func TestRateLimiter_NilAndZeroThresholds(t *testing.T) {
	var nilLimiter *RateLimiter
	assert.NoError(t, nilLimiter.Allow())
	assert.Zero(t, nilLimiter.Delay())

	limiter := NewRateLimiter(0, 0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Allow())
	}
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewRateLimiter(time.Hour, time.Hour, 10)
	require.NoError(t, limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, limiter.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_WaitDoesNotTakeTheSlot(t *testing.T) {
	limiter := NewRateLimiter(30*time.Millisecond, time.Minute, 10)
	require.NoError(t, limiter.Allow())
	assert.ErrorIs(t, limiter.Allow(), ErrTooFrequent)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, limiter.Wait(ctx))
	assert.Zero(t, limiter.Delay())
	assert.NoError(t, limiter.Allow(), "the call after Wait must be accepted")
}

func TestLimitedClient_RejectsWithoutNetwork(t *testing.T) {
	client, mock := newTestClient()
	mock.SetResponse(DefaultEndpoint, http.StatusOK, fakeResults, nil)

	clock := newFakeClock()
	limiter := NewDefaultRateLimiter()
	limiter.SetClock(clock.Now)
	safe := NewLimitedClient(client, limiter)

	_, err := safe.Search(context.Background(), SearchRequest{Query: "food"})
	require.NoError(t, err)

	clock.Advance(DefaultMinInterval / 2)
	page, err := safe.Search(context.Background(), SearchRequest{Query: "food"})
	assert.ErrorIs(t, err, ErrTooFrequent)
	assert.Nil(t, page)
	assert.Equal(t, 1, mock.CallCount(), "rejected call must not reach the network")

	safe.Limiter().Reset()
	_, err = safe.Search(context.Background(), SearchRequest{Query: "food"})
	assert.NoError(t, err)
	assert.Equal(t, 2, mock.CallCount())
}
