package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/mainbong/restaurant_finder/internal/geo"
	"github.com/mainbong/restaurant_finder/internal/places"
	"github.com/mainbong/restaurant_finder/internal/website"
)

// Printer writes search results for non-interactive output.
type Printer struct {
	writer  io.Writer
	tileKey string
}

func NewPrinter(writer io.Writer) *Printer {
	return &Printer{writer: writer}
}

// SetTileKey switches map links in PrintDetails to the keyed tile provider.
func (p *Printer) SetTileKey(key string) {
	p.tileKey = key
}

// PrintList writes one numbered line per place, numbering from start.
func (p *Printer) PrintList(list []places.Place, start int) {
	width := utf8.RuneCountInString(strconv.Itoa(start + len(list) - 1))
	for i, place := range list {
		num := fmt.Sprintf("%*d.", width, start+i)
		line := color.New(color.FgHiBlack).Sprint(num) + " " +
			color.New(color.FgHiWhite, color.Bold).Sprint(place.Name)
		if summary := Summary(place); summary != "" {
			line += color.New(color.FgHiBlack).Sprint("  " + summary)
		}
		p.printLine(line, nil)
	}
}

// PrintDetails writes the full record of one place. preview may be nil.
func (p *Printer) PrintDetails(place places.Place, preview *website.Preview) {
	p.printLine(place.Name, color.New(color.FgCyan, color.Bold))
	if cats := place.CategoryNames(); len(cats) > 0 {
		p.printLine(strings.Join(cats, ", "), color.New(color.FgHiBlack))
	}
	p.field("Address", place.Address())
	p.field("Distance", FormatDistance(place.Distance))
	if place.Rating > 0 {
		p.field("Rating", fmt.Sprintf("%.1f / 10", place.Rating))
	}
	p.field("Price", place.PriceText())
	p.field("Status", place.OpenStatus())
	p.field("Hours", place.Hours.Display)
	p.field("Phone", place.Tel)
	p.field("Website", place.Website)
	p.field("Menu", place.Menu)
	if len(place.Photos) > 0 {
		p.field("Photo", place.Photos[0].URL("original"))
	}
	if point := place.Point(); point != (geo.Point{}) {
		p.field("Map", geo.MapLink(p.tileKey, point))
	}
	if preview != nil {
		p.field("Site title", preview.Title)
		p.field("About", preview.Description)
	}
	for i, tip := range place.Tips {
		if i == 3 {
			break
		}
		p.printLine("  \""+strings.TrimSpace(tip.Text)+"\"", color.New(color.FgYellow))
	}
}

// PrintMap draws the places around center as a character map.
func (p *Printer) PrintMap(center geo.Point, radius int, list []places.Place, cols, rows int) {
	for _, line := range MapLines(center, radius, list, -1, cols, rows) {
		p.printLine(line, nil)
	}
}

func (p *Printer) field(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	p.printLine(color.New(color.FgHiBlack).Sprintf("  %-10s ", label)+value, nil)
}

func (p *Printer) printLine(text string, style *color.Color) {
	if style != nil {
		text = style.Sprint(text)
	}
	fmt.Fprintln(p.writer, text)
}

// Summary joins the short facts shown next to a place name.
func Summary(place places.Place) string {
	var parts []string
	if cats := place.CategoryNames(); len(cats) > 0 {
		parts = append(parts, cats[0])
	}
	if d := FormatDistance(place.Distance); d != "" {
		parts = append(parts, d)
	}
	if place.Rating > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f", place.Rating))
	}
	if price := place.PriceText(); price != "" {
		parts = append(parts, price)
	}
	if status := place.OpenStatus(); status != "" {
		parts = append(parts, status)
	}
	return strings.Join(parts, " · ")
}

// FormatDistance renders meters as "850 m" or "1.8 km"; zero is unknown.
func FormatDistance(meters int) string {
	switch {
	case meters <= 0:
		return ""
	case meters < 1000:
		return fmt.Sprintf("%d m", meters)
	default:
		return fmt.Sprintf("%.1f km", float64(meters)/1000)
	}
}

// DefaultMapRadius is used when no search radius is set.
const DefaultMapRadius = 1500

// MapLines renders a cols x rows map: '·' fills the search circle, 'o' traces
// its edge, '+' marks the center, digits 1-9 the places in list order and '*'
// any later ones. The place at index highlight is drawn as '@'.
func MapLines(center geo.Point, radius int, list []places.Place, highlight, cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	if radius <= 0 {
		radius = DefaultMapRadius
	}
	grid := geo.Grid{Center: center, Radius: float64(radius), Cols: cols, Rows: rows}

	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = make([]rune, cols)
		for c := range cells[r] {
			if grid.InsideRadius(c, r) {
				cells[r][c] = '·'
			} else {
				cells[r][c] = ' '
			}
		}
	}
	for _, p := range geo.Circle(center, float64(radius), 4*(cols+rows)) {
		if c, r, ok := grid.Project(p); ok {
			cells[r][c] = 'o'
		}
	}
	if c, r, ok := grid.Project(center); ok {
		cells[r][c] = '+'
	}
	// draw in reverse so earlier results win shared cells
	for i := len(list) - 1; i >= 0; i-- {
		c, r, ok := grid.Project(list[i].Point())
		if !ok {
			continue
		}
		mark := '*'
		if i < 9 {
			mark = rune('1' + i)
		}
		cells[r][c] = mark
	}
	if highlight >= 0 && highlight < len(list) {
		if c, r, ok := grid.Project(list[highlight].Point()); ok {
			cells[r][c] = '@'
		}
	}

	lines := make([]string, rows)
	for r := range cells {
		lines[r] = string(cells[r])
	}
	return lines
}
