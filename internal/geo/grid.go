package geo

import "math"

// Grid maps coordinates around a center onto a character grid covering
// radius meters in every direction. Terminal cells are roughly twice as tall
// as they are wide, so callers pick Cols close to 2*Rows.
type Grid struct {
	Center Point
	Radius float64
	Cols   int
	Rows   int
}

// Project returns the cell for p and whether it lies inside the grid.
func (g Grid) Project(p Point) (col, row int, ok bool) {
	if g.Cols <= 0 || g.Rows <= 0 || g.Radius <= 0 {
		return 0, 0, false
	}
	// equirectangular approximation is fine at neighbourhood scale
	dx := toRad(p.Lon-g.Center.Lon) * math.Cos(toRad(g.Center.Lat)) * earthRadiusMeters
	dy := toRad(p.Lat-g.Center.Lat) * earthRadiusMeters

	fx := (dx/g.Radius + 1) / 2
	fy := (1 - dy/g.Radius) / 2
	col = int(math.Floor(fx * float64(g.Cols)))
	row = int(math.Floor(fy * float64(g.Rows)))
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return col, row, false
	}
	return col, row, true
}

// InsideRadius reports whether the center of cell (col,row) is within the
// radius, used to draw the search circle.
func (g Grid) InsideRadius(col, row int) bool {
	if g.Cols <= 0 || g.Rows <= 0 {
		return false
	}
	fx := (float64(col)+0.5)/float64(g.Cols)*2 - 1
	fy := (float64(row)+0.5)/float64(g.Rows)*2 - 1
	return fx*fx+fy*fy <= 1
}
