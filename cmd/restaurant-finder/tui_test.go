package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/mainbong/restaurant_finder/internal/places"
)

func TestStepRadius(t *testing.T) {
	tests := []struct {
		current int
		dir     int
		want    int
	}{
		{0, 1, 250},
		{0, -1, 0},
		{1000, 1, 2000},
		{1000, -1, 500},
		{300, 1, 500},
		{300, -1, 250},
		{10000, 1, 10000},
		{20000, -1, 10000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stepRadius(tt.current, tt.dir), "stepRadius(%d, %d)", tt.current, tt.dir)
	}
}

func TestRenderList(t *testing.T) {
	list := []places.Place{
		{ID: "a", Name: "Sushi Dai", Distance: 850},
		{ID: "b", Name: "Ichiran", Distance: 1800},
	}

	out := renderList(list, 1, 60, "footer")
	assert.Equal(t, len(list)*linesPerPlace+1, lineCount(out))
	assert.Contains(t, out, "1. Sushi Dai")
	assert.Contains(t, out, "2. Ichiran")
	assert.Contains(t, out, "850 m")
	assert.True(t, strings.HasSuffix(out, "footer"))

	assert.Empty(t, renderList(nil, 0, 60, "footer"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "abc", truncate("abc", 0))
}

func TestTruncate_KeepsStyling(t *testing.T) {
	out := truncate("\x1b[31mabcdefgh\x1b[0m", 5)
	assert.Equal(t, 5, lipgloss.Width(out))
	assert.True(t, strings.HasPrefix(out, "\x1b[31mabcd"), "%q", out)
	assert.True(t, strings.HasSuffix(out, "\x1b[0m"), "styling is reset after the tail: %q", out)
}

func TestWebsites(t *testing.T) {
	list := []places.Place{
		{ID: "a", Website: "https://sushi.example"},
		{ID: "b"},
		{ID: "c", Website: "https://ramen.example"},
		{ID: "d", Website: "https://sushi.example"},
	}
	assert.Equal(t, []string{"https://sushi.example", "https://ramen.example"}, websites(list))
	assert.Empty(t, websites(nil))
}

func TestLineCount(t *testing.T) {
	assert.Equal(t, 0, lineCount(""))
	assert.Equal(t, 1, lineCount("one"))
	assert.Equal(t, 3, lineCount("a\nb\nc"))
}
