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

import (
	"fmt"
	"math"
)

// arcLength returns the cumulative arc length at each vertex of the closed
// polyline pts (arcLength[0] == 0), plus the total perimeter.
func arcLength(pts []Point) ([]float64, float64) {
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + dist(pts[i-1], pts[i])
	}
	total := cum[len(cum)-1] + dist(pts[len(pts)-1], pts[0])
	return cum, total
}

func dist(a, b Point) float64 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return math.Hypot(dx, dy)
}

// pointAtArcLength returns the point at distance s (0 <= s < total
// perimeter) along the closed polyline pts, linearly interpolating
// between vertices.
func pointAtArcLength(pts []Point, cum []float64, total, s float64) (x, y float64) {
	for s < 0 {
		s += total
	}
	for s >= total {
		s -= total
	}
	n := len(pts)
	for i := 0; i < n; i++ {
		segStart := cum[i]
		var segEnd float64
		var next Point
		if i == n-1 {
			segEnd = total
			next = pts[0]
		} else {
			segEnd = cum[i+1]
			next = pts[i+1]
		}
		if s >= segStart && s <= segEnd {
			segLen := segEnd - segStart
			if segLen == 0 {
				return float64(pts[i].X), float64(pts[i].Y)
			}
			t := (s - segStart) / segLen
			return float64(pts[i].X) + t*float64(next.X-pts[i].X),
				float64(pts[i].Y) + t*float64(next.Y-pts[i].Y)
		}
	}
	last := pts[n-1]
	return float64(last.X), float64(last.Y)
}

// OutlineEqualArcLength samples n points around the closed polyline pts at
// equal arc-length spacing, starting at the vertex where the orientation
// axis intersects the boundary (startIdx, typically the boundary index
// nearest field.Moments().Orientation()'s axis).
func OutlineEqualArcLength(pts []Point, startIdx, n int) ([][2]float64, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("field: OutlineEqualArcLength: empty boundary")
	}
	if n <= 0 {
		return nil, fmt.Errorf("field: OutlineEqualArcLength: n must be positive")
	}
	rotated := rotate(pts, startIdx)
	cum, total := arcLength(rotated)
	out := make([][2]float64, n)
	step := total / float64(n)
	for i := 0; i < n; i++ {
		x, y := pointAtArcLength(rotated, cum, total, float64(i)*step)
		out[i] = [2]float64{x, y}
	}
	return out, nil
}

// OutlineFixedStep samples the closed polyline pts at fixed arc-length
// increments of step, returning a variable number of points that tile the
// perimeter (the final increment may be shorter than step).
func OutlineFixedStep(pts []Point, step float64) ([][2]float64, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("field: OutlineFixedStep: empty boundary")
	}
	if step <= 0 {
		return nil, fmt.Errorf("field: OutlineFixedStep: step must be positive")
	}
	cum, total := arcLength(pts)
	var out [][2]float64
	for s := 0.0; s < total; s += step {
		x, y := pointAtArcLength(pts, cum, total, s)
		out = append(out, [2]float64{x, y})
	}
	return out, nil
}

// OutlineEqualAngle samples n points around the closed polyline pts at
// equal rotational-angle increments, measured from centroid around the
// orientation axis. If a ray at a given angle misses the boundary (can
// happen for a non-convex shape's interior rays), the opposite ray
// (angle+pi) is tried before giving up on that sample.
func OutlineEqualAngle(pts []Point, centroid [2]float64, axisAngle float64, n int) ([][2]float64, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("field: OutlineEqualAngle: empty boundary")
	}
	if n <= 0 {
		return nil, fmt.Errorf("field: OutlineEqualAngle: n must be positive")
	}
	out := make([][2]float64, n)
	for i := 0; i < n; i++ {
		theta := axisAngle + 2*math.Pi*float64(i)/float64(n)
		p, ok := rayBoundaryIntersection(pts, centroid, theta)
		if !ok {
			p, ok = rayBoundaryIntersection(pts, centroid, theta+math.Pi)
			if !ok {
				return nil, fmt.Errorf("field: OutlineEqualAngle: ray at angle %g (and its opposite) missed the boundary", theta)
			}
		}
		out[i] = p
	}
	return out, nil
}

// rayBoundaryIntersection casts a ray from origin at angle theta and
// returns the farthest intersection with the closed polyline pts (the
// outer crossing), or ok=false if the ray misses every edge.
func rayBoundaryIntersection(pts []Point, origin [2]float64, theta float64) ([2]float64, bool) {
	dx, dy := math.Cos(theta), math.Sin(theta)
	var best [2]float64
	bestT := -1.0
	found := false
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		ax, ay := float64(a.X), float64(a.Y)
		bx, by := float64(b.X), float64(b.Y)
		ex, ey := bx-ax, by-ay
		// Solve origin + t*(dx,dy) = a + u*(ex,ey), t >= 0, 0 <= u <= 1.
		denom := dx*ey - dy*ex
		if math.Abs(denom) < 1e-12 {
			continue
		}
		wx, wy := ax-origin[0], ay-origin[1]
		t := (wx*ey - wy*ex) / denom
		u := (wx*dy - wy*dx) / denom
		if t >= 0 && u >= 0 && u <= 1 {
			if t > bestT {
				bestT = t
				best = [2]float64{origin[0] + t*dx, origin[1] + t*dy}
				found = true
			}
		}
	}
	return best, found
}

func rotate(pts []Point, start int) []Point {
	n := len(pts)
	if n == 0 {
		return pts
	}
	start = ((start % n) + n) % n
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		out[i] = pts[(start+i)%n]
	}
	return out
}
