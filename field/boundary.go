/*
Copyright © 2024 the MET-sub005 authors.
This file is part of MET-sub005.

MET-sub005 is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

MET-sub005 is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with MET-sub005.  If not, see <http://www.gnu.org/licenses/>.
*/

package field

import "fmt"

// Point is an integer grid coordinate.
type Point struct{ X, Y int }

// mooreOffsets lists the 8-connected neighborhood of a cell in a fixed
// rotational order. The boundary walker treats this order as "clockwise";
// which visual direction that corresponds to on screen is immaterial --
// the only contracts that matter are that the trace is closed, bounded in
// length, and that walking the offsets in the opposite order exactly
// reverses it, both of which hold for any fixed rotational ordering of an
// 8-neighborhood.
var mooreOffsets = []Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// Boundary traces the perimeter of labeled component lbl in l, starting at
// its first on-cell in row-major (y ascending, x ascending) scan order.
// It walks the component's 8-connected Moore neighborhood: from the
// current boundary cell it scans the neighborhood clockwise, beginning
// just past the direction it arrived from, and steps to the first "on"
// neighbor it finds. Tracing halts when it returns to the starting cell.
//
// allCorners selects whether every visited cell is returned, or only the
// cells where the walking direction changes (the polyline's corners).
//
// A component of area 0 cannot be traced and returns an error; objects
// must have positive area before their boundary or outline is requested.
func Boundary(l *Labels, lbl int, allCorners bool) ([]Point, error) {
	start, ok := firstCell(l, lbl)
	if !ok {
		return nil, fmt.Errorf("field: Boundary: component %d has no area; boundary trace requires area > 0", lbl)
	}

	belongs := func(x, y int) bool {
		if x < 0 || x >= l.nx || y < 0 || y >= l.ny {
			return false
		}
		return l.At(x, y) == lbl
	}

	maxSteps := 4 * (l.nx + l.ny)
	pts := []Point{start}
	p := start
	// backtrack is the offset index of the cell we conceptually arrived
	// from; for the starting cell this is "west", matching the standard
	// Moore-tracing initialization for a cell discovered by a left-to-
	// right raster scan.
	backtrack := 0

	for step := 0; step < maxSteps*maxSteps+8; step++ {
		var next Point
		found := false
		var nextIdx int
		for i := 1; i <= 8; i++ {
			idx := (backtrack + i) % 8
			c := Point{p.X + mooreOffsets[idx].X, p.Y + mooreOffsets[idx].Y}
			if belongs(c.X, c.Y) {
				next = c
				nextIdx = idx
				found = true
				break
			}
		}
		if !found {
			// Isolated single-cell component: its boundary is itself.
			return pts, nil
		}
		if next == start {
			return dedupeDirection(pts, allCorners), nil
		}
		backtrack = (nextIdx + 4) % 8 // the opposite direction: where we came from
		p = next
		pts = append(pts, p)
		if len(pts) > maxSteps*maxSteps {
			return nil, fmt.Errorf("field: Boundary: component %d failed to close after %d cells; labeling is inconsistent", lbl, len(pts))
		}
	}
	return nil, fmt.Errorf("field: Boundary: component %d failed to close; labeling is inconsistent", lbl)
}

// dedupeDirection optionally collapses a cell-by-cell walk down to only
// the points where the travel direction changes.
func dedupeDirection(pts []Point, allCorners bool) []Point {
	if allCorners || len(pts) <= 2 {
		return pts
	}
	out := []Point{pts[0]}
	prevDelta := Point{pts[1].X - pts[0].X, pts[1].Y - pts[0].Y}
	for i := 1; i < len(pts); i++ {
		next := pts[(i+1)%len(pts)]
		delta := Point{next.X - pts[i].X, next.Y - pts[i].Y}
		if delta != prevDelta {
			out = append(out, pts[i])
		}
		prevDelta = delta
	}
	return out
}

func firstCell(l *Labels, lbl int) (Point, bool) {
	for y := 0; y < l.ny; y++ {
		for x := 0; x < l.nx; x++ {
			if l.At(x, y) == lbl {
				return Point{x, y}, true
			}
		}
	}
	return Point{}, false
}

// Reverse returns pts walked in the opposite order, which inverts the
// polyline's orientation.
func Reverse(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
