package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainbong/restaurant_finder/internal/geo"
	"github.com/mainbong/restaurant_finder/internal/places"
	"github.com/mainbong/restaurant_finder/internal/website"
)

func withNoColor(t *testing.T, fn func()) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = prev
	})
	fn()
}

func samplePlaces() []places.Place {
	sushi := places.Place{
		ID:           "a",
		Name:         "Sushi Dai",
		Categories:   []places.Category{{ShortName: "Sushi"}},
		Distance:     1800,
		Rating:       9.1,
		Price:        3,
		ClosedBucket: "VeryLikelyOpen",
		Location:     places.Location{FormattedAddress: "5-2-1 Tsukiji, Chuo, Tokyo"},
		Tel:          "03-1234-5678",
		Tips:         []places.Tip{{Text: " Go early "}},
	}
	sushi.Geocodes.Main = places.LatLng{Latitude: geo.DefaultCenter.Lat, Longitude: geo.DefaultCenter.Lon}
	ramen := places.Place{ID: "b", Name: "Ichiran", Distance: 650}
	return []places.Place{sushi, ramen}
}

func TestPrinter_PrintList(t *testing.T) {
	withNoColor(t, func() {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintList(samplePlaces(), 9)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 2, buf.String())
		assert.True(t, strings.HasPrefix(lines[0], " 9. Sushi Dai"), "padded numbering: %q", lines[0])
		assert.Contains(t, lines[0], "Sushi · 1.8 km · ★ 9.1 · ¥ ¥ ¥ · open")
		assert.True(t, strings.HasPrefix(lines[1], "10. Ichiran  650 m"), "second line: %q", lines[1])
	})
}

func TestPrinter_PrintDetails(t *testing.T) {
	withNoColor(t, func() {
		var buf bytes.Buffer
		preview := &website.Preview{Title: "Sushi Dai | Tsukiji", Description: "Omakase"}
		NewPrinter(&buf).PrintDetails(samplePlaces()[0], preview)
		output := buf.String()

		for _, want := range []string{"Sushi Dai", "5-2-1 Tsukiji", "9.1 / 10", "03-1234-5678", "Omakase", `"Go early"`, "openstreetmap.org"} {
			assert.Contains(t, output, want)
		}
		assert.NotContains(t, output, "Website", "empty fields are skipped")
	})
}

func TestPrinter_PrintDetails_MapLink(t *testing.T) {
	withNoColor(t, func() {
		var buf bytes.Buffer
		printer := NewPrinter(&buf)
		printer.SetTileKey("tiles")
		printer.PrintDetails(samplePlaces()[0], nil)
		assert.Contains(t, buf.String(), "api.maptiler.com/maps/")
		assert.Contains(t, buf.String(), "key=tiles")

		buf.Reset()
		printer.PrintDetails(samplePlaces()[1], nil)
		assert.NotContains(t, buf.String(), "Map", "no link without coordinates")
	})
}

func TestFormatDistance(t *testing.T) {
	cases := map[int]string{0: "", -5: "", 999: "999 m", 1000: "1.0 km", 2450: "2.5 km"}
	for in, want := range cases {
		assert.Equal(t, want, FormatDistance(in), "FormatDistance(%d)", in)
	}
}

func TestMapLines(t *testing.T) {
	list := samplePlaces()
	list[1].Geocodes.Main = places.LatLng{Latitude: 10, Longitude: 10}

	lines := MapLines(geo.DefaultCenter, 1000, list, -1, 21, 11)
	require.Len(t, lines, 11)
	mid := []rune(lines[5])
	require.Len(t, mid, 21)
	assert.Equal(t, '1', mid[10], "first place at the center cell")

	joined := strings.Join(lines, "\n")
	assert.NotContains(t, joined, "2", "place outside the radius is not drawn")
	assert.Contains(t, joined, "·", "circle fill")
	assert.Contains(t, joined, "o", "circle edge")

	highlighted := MapLines(geo.DefaultCenter, 1000, list, 0, 21, 11)
	assert.Equal(t, '@', []rune(highlighted[5])[10])

	assert.Nil(t, MapLines(geo.DefaultCenter, 0, nil, -1, 0, 5))
}
