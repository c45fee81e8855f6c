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
	"math"
	"testing"
)

func TestConvexHullSquare(t *testing.T) {
	pts := []Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("square hull should have 4 vertices, got %d: %v", len(hull), hull)
	}
	area := PolygonArea(hull)
	if math.Abs(area-1) > 1e-9 {
		t.Errorf("unit square hull area = %g, want 1", area)
	}
}

func TestComplexitySquareIsZero(t *testing.T) {
	pts := []Point{{0, 0}, {0, 2}, {2, 0}, {2, 2}}
	hull := ConvexHull(pts)
	c := Complexity(hull, 4)
	if c != 0 {
		t.Errorf("a convex square's complexity should be 0, got %g", c)
	}
}

func TestComplexityBounds(t *testing.T) {
	// An L-shaped component: its hull area exceeds its own cell area, so
	// complexity should be strictly positive but still below 1.
	f := New(6, 6)
	for _, c := range [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}} {
		f.Put(c[0], c[1], 1)
	}
	labels := ConnectedComponents(f)
	hull := FootprintHull(labels, 1)
	shapeArea := f.Moments().Area
	c := Complexity(hull, shapeArea)
	if c < 0 || c >= 1 {
		t.Errorf("complexity %g out of [0,1)", c)
	}
	if c <= 0 {
		t.Errorf("a concave L-shape should have positive complexity, got %g (hull area %g, shape area %g)", c, PolygonArea(hull), shapeArea)
	}
}
