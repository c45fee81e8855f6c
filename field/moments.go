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

import "math"

// Moments holds the raw geometric moments of a field's "on" cells. A
// field caches them and recomputes them on the first Moments call after
// the field has been mutated.
type Moments struct {
	Area                                       float64
	Sx, Sy, Sxx, Sxy, Syy, Sxxx, Sxxy, Sxyy, Syyy float64
}

// ComputeMoments scans every "on" cell of f and accumulates its raw
// geometric moments through third order. An empty field yields all-zero
// moments; that degenerate case is well-defined rather than an error.
func ComputeMoments(f *Field) Moments {
	var m Moments
	for y := 0; y < f.ny; y++ {
		fy := float64(y)
		for x := 0; x < f.nx; x++ {
			if !f.IsOn(x, y) {
				continue
			}
			fx := float64(x)
			m.Area++
			m.Sx += fx
			m.Sy += fy
			m.Sxx += fx * fx
			m.Sxy += fx * fy
			m.Syy += fy * fy
			m.Sxxx += fx * fx * fx
			m.Sxxy += fx * fx * fy
			m.Sxyy += fx * fy * fy
			m.Syyy += fy * fy * fy
		}
	}
	return m
}

// Moments returns the cached moments of f, recomputing them if the field
// has been mutated since the last call.
func (f *Field) Moments() Moments {
	if !f.momentsValid {
		f.moments = ComputeMoments(f)
		f.momentsValid = true
	}
	return f.moments
}

// Centroid returns the (x, y) centroid of the on-cells. Returns (0,0) for
// an empty (zero-area) field.
func (m Moments) Centroid() (x, y float64) {
	if m.Area == 0 {
		return 0, 0
	}
	return m.Sx / m.Area, m.Sy / m.Area
}

// central returns the second-order central moments mu20, mu02, mu11.
func (m Moments) central() (mu20, mu02, mu11 float64) {
	if m.Area == 0 {
		return 0, 0, 0
	}
	cx, cy := m.Centroid()
	mu20 = m.Sxx/m.Area - cx*cx
	mu02 = m.Syy/m.Area - cy*cy
	mu11 = m.Sxy/m.Area - cx*cy
	return
}

// Orientation returns the principal-axis angle (radians, in [-pi/2, pi/2])
// of the on-cells, based on the second-order central moments.
func (m Moments) Orientation() float64 {
	mu20, mu02, mu11 := m.central()
	if mu20 == mu02 && mu11 == 0 {
		return 0
	}
	return 0.5 * math.Atan2(2*mu11, mu20-mu02)
}

// LengthWidth returns the major- and minor-axis lengths of the on-cells'
// best-fit ellipse (4*sqrt(eigenvalue) convention).
func (m Moments) LengthWidth() (length, width float64) {
	mu20, mu02, mu11 := m.central()
	common := math.Sqrt(math.Max(0, (mu20-mu02)*(mu20-mu02)+4*mu11*mu11))
	lambda1 := (mu20 + mu02 + common) / 2
	lambda2 := (mu20 + mu02 - common) / 2
	length = 4 * math.Sqrt(math.Max(0, lambda1))
	width = 4 * math.Sqrt(math.Max(0, lambda2))
	return
}

// Curvature returns a scale-free measure of elongation derived from the
// second-order moments: 0 for a perfect circle, approaching 1 for an
// infinitely thin line.
func (m Moments) Curvature() float64 {
	length, width := m.LengthWidth()
	if length == 0 {
		return 0
	}
	return 1 - width/length
}
