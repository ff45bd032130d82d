package places

import (
	"fmt"
	"strings"

	"github.com/mainbong/restaurant_finder/internal/geo"
)

// SortKey is one of the orderings accepted by the search endpoint.
type SortKey string

const (
	SortRelevance  SortKey = "relevance"
	SortDistance   SortKey = "distance"
	SortRating     SortKey = "rating"
	SortPopularity SortKey = "popularity"
)

// SortKeys lists the sort keys in the order the UI cycles through them.
var SortKeys = []SortKey{SortRelevance, SortDistance, SortRating, SortPopularity}

// ParseSortKey validates a user supplied sort key. An empty string is allowed
// and means "let the API decide".
func ParseSortKey(value string) (SortKey, error) {
	v := SortKey(strings.ToLower(strings.TrimSpace(value)))
	if v == "" {
		return "", nil
	}
	for _, k := range SortKeys {
		if k == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid sort key: %s", value)
}

// Label returns the display label for a sort key.
func (k SortKey) Label() string {
	switch k {
	case SortDistance:
		return "Closest"
	case SortRating:
		return "Rating"
	case SortPopularity:
		return "Popularity"
	default:
		return "Relevance"
	}
}

// Next returns the sort key following k in SortKeys.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortKeys[0]
}

// Place mirrors the place object returned by the search endpoint. Only the
// fields requested through DefaultFields are populated.
type Place struct {
	ID           string            `json:"fsq_id"`
	Name         string            `json:"name"`
	Geocodes     Geocodes          `json:"geocodes"`
	Location     Location          `json:"location"`
	Categories   []Category        `json:"categories"`
	Distance     int               `json:"distance,omitempty"`
	Rating       float64           `json:"rating,omitempty"`
	Price        int               `json:"price,omitempty"`
	Hours        Hours             `json:"hours"`
	ClosedBucket string            `json:"closed_bucket,omitempty"`
	Photos       []Photo           `json:"photos"`
	Tel          string            `json:"tel,omitempty"`
	Website      string            `json:"website,omitempty"`
	Menu         string            `json:"menu,omitempty"`
	SocialMedia  map[string]string `json:"social_media,omitempty"`
	Tips         []Tip             `json:"tips,omitempty"`
}

type Geocodes struct {
	Main LatLng `json:"main"`
}

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Location struct {
	Address          string `json:"address,omitempty"`
	Locality         string `json:"locality,omitempty"`
	Region           string `json:"region,omitempty"`
	Postcode         string `json:"postcode,omitempty"`
	Country          string `json:"country,omitempty"`
	FormattedAddress string `json:"formatted_address,omitempty"`
}

type Category struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Icon      Icon   `json:"icon"`
}

type Icon struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

type Hours struct {
	Display        string `json:"display,omitempty"`
	IsLocalHoliday bool   `json:"is_local_holiday"`
	OpenNow        bool   `json:"open_now"`
}

type Photo struct {
	ID     string `json:"id"`
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// URL builds a sized photo URL, e.g. size "100x100" or "original".
func (p Photo) URL(size string) string {
	if p.Prefix == "" {
		return ""
	}
	return p.Prefix + size + p.Suffix
}

type Tip struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// PriceText renders the price tier as repeated yen signs.
func (p Place) PriceText() string {
	if p.Price <= 0 {
		return ""
	}
	return strings.TrimSpace(strings.Repeat("¥ ", p.Price))
}

// CategoryNames returns the short names of the place categories.
func (p Place) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		name := c.ShortName
		if name == "" {
			name = c.Name
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// OpenStatus turns the closed bucket into a short label.
func (p Place) OpenStatus() string {
	switch p.ClosedBucket {
	case "VeryLikelyOpen":
		return "open"
	case "LikelyOpen":
		return "likely open"
	case "LikelyClosed":
		return "likely closed"
	case "VeryLikelyClosed":
		return "closed"
	default:
		return ""
	}
}

// Address returns the best available one-line address.
func (p Place) Address() string {
	if p.Location.FormattedAddress != "" {
		return p.Location.FormattedAddress
	}
	return p.Location.Address
}

// Point returns the main geocode.
func (p Place) Point() geo.Point {
	return geo.Point{Lat: p.Geocodes.Main.Latitude, Lon: p.Geocodes.Main.Longitude}
}

// Page is one page of search results. NextCursor is empty on the last page.
type Page struct {
	Results    []Place `json:"results"`
	NextCursor string  `json:"-"`
}

// HasMore reports whether a continuation cursor is present.
func (p *Page) HasMore() bool {
	return p != nil && p.NextCursor != ""
}
