package geo

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
)

const earthRadiusMeters = 6371008.8

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat" toml:"lat"`
	Lon float64 `json:"lon" yaml:"lon" toml:"lon"`
}

// DefaultCenter is Tokyo Station.
var DefaultCenter = Point{Lat: 35.681236, Lon: 139.767125}

// FormatLL renders the "lat,lon" pair expected by the ll query parameter.
func FormatLL(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

// Valid reports whether p is inside the coordinate ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func (p Point) String() string {
	return FormatLL(p.Lat, p.Lon)
}

// Distance returns the great-circle distance in meters.
func Distance(a, b Point) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Destination returns the point reached by travelling distance meters from
// origin along bearing degrees.
func Destination(origin Point, distance, bearing float64) Point {
	lat1 := toRad(origin.Lat)
	lon1 := toRad(origin.Lon)
	brg := toRad(bearing)
	ang := distance / earthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ang) + math.Cos(lat1)*math.Sin(ang)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(math.Sin(brg)*math.Sin(ang)*math.Cos(lat1), math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2))
	return Point{Lat: toDeg(lat2), Lon: normalizeLon(toDeg(lon2))}
}

// Circle approximates the search radius as a closed ring of steps+1 points,
// the last equal to the first.
func Circle(center Point, radius float64, steps int) []Point {
	if steps < 3 {
		steps = 3
	}
	ring := make([]Point, 0, steps+1)
	for i := 0; i < steps; i++ {
		ring = append(ring, Destination(center, radius, float64(i)*360/float64(steps)))
	}
	return append(ring, ring[0])
}

const (
	mapLinkZoom   = 17
	mapTilerStyle = "jp-mierune-streets"
)

// MapLink returns a browser link centered on p: the MapTiler map viewer when
// a tile key is configured, OpenStreetMap otherwise.
func MapLink(tileKey string, p Point) string {
	lat := strconv.FormatFloat(p.Lat, 'f', 6, 64)
	lon := strconv.FormatFloat(p.Lon, 'f', 6, 64)
	if tileKey == "" {
		return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s#map=%d/%s/%s", lat, lon, mapLinkZoom, lat, lon)
	}
	return fmt.Sprintf("https://api.maptiler.com/maps/%s/?key=%s#%d/%s/%s", mapTilerStyle, url.QueryEscape(tileKey), mapLinkZoom, lat, lon)
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
