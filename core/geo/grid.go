package geo

import (
	"math"
	"sort"

	"github.com/kilianp07/soilmatch/core/model"
)

// milesPerDegreeLat is the length of one degree of latitude.
const milesPerDegreeLat = 69.0

type cell struct{ row, col int }

// Grid buckets point indices into cells so that neighbours within a radius
// can be found without comparing every pair. Columns wrap at the
// antimeridian.
type Grid struct {
	rowDeg float64
	colDeg float64
	cols   int
	radius float64
	cells  map[cell][]int
	points []model.Coordinates
}

// NewGrid indexes points using cells sized for radiusMiles lookups.
func NewGrid(points []model.Coordinates, radiusMiles float64) *Grid {
	deg := radiusMiles / milesPerDegreeLat
	if deg <= 0 {
		deg = 1
	}
	// Whole columns around the globe, each at least deg wide.
	cols := int(math.Floor(360 / deg))
	if cols < 1 {
		cols = 1
	}
	g := &Grid{
		rowDeg: deg,
		colDeg: 360 / float64(cols),
		cols:   cols,
		radius: radiusMiles,
		cells:  make(map[cell][]int),
		points: points,
	}
	for i, p := range points {
		c := g.cellOf(p)
		g.cells[c] = append(g.cells[c], i)
	}
	return g
}

func (g *Grid) cellOf(p model.Coordinates) cell {
	return cell{
		row: int(math.Floor(p.Lat / g.rowDeg)),
		col: g.wrap(int(math.Floor((p.Lng + 180) / g.colDeg))),
	}
}

func (g *Grid) wrap(col int) int {
	return ((col % g.cols) + g.cols) % g.cols
}

// Within returns, in ascending index order, the indices of all points lying
// at most radius miles from p.
func (g *Grid) Within(p model.Coordinates) []int {
	// Longitude degrees shrink with latitude; widen the column span for the
	// poleward edge of the search band.
	colSpan := g.cols
	lat := math.Min(90, math.Abs(p.Lat)+g.rowDeg)
	if cos := math.Cos(toRad(lat)); cos > 0.01 {
		colSpan = int(math.Ceil(1 / cos))
	}
	c := g.cellOf(p)
	cols := make([]int, 0, 2*colSpan+1)
	if 2*colSpan+1 >= g.cols {
		for col := 0; col < g.cols; col++ {
			cols = append(cols, col)
		}
	} else {
		for dc := -colSpan; dc <= colSpan; dc++ {
			cols = append(cols, g.wrap(c.col+dc))
		}
	}
	var out []int
	for dr := -1; dr <= 1; dr++ {
		for _, col := range cols {
			for _, i := range g.cells[cell{row: c.row + dr, col: col}] {
				if DistanceMiles(p, g.points[i]) <= g.radius {
					out = append(out, i)
				}
			}
		}
	}
	sort.Ints(out)
	return out
}
