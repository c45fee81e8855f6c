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

// Package field implements the quantized 2-D scalar grid that every other
// package in this module pairs, interpolates, and scores: affine
// encode/decode, a missing-data sentinel, geometric moments, connected-
// component labeling, and boundary/outline tracing.
package field

import (
	"fmt"
	"math"
	"time"

	"github.com/ctessum/sparse"
)

// Field is a rectangular nx*ny grid of decoded scalar samples, stored
// row-major (n = y*nx + x) over a sparse.DenseArray.
//
// Samples are held as decoded float64 values with math.NaN reserved as
// the missing sentinel. Encode/Decode expose the fixed-point (m*k+b)
// view, so callers still thinking in GRIB-derived codes get identical
// sentinel semantics without the container itself storing codes.
type Field struct {
	nx, ny  int
	data    *sparse.DenseArray
	m, b    float64 // quantization scale/offset; m > 0
	dataMax uint16  // maximum valid code
	badCode uint16  // reserved missing-data code, distinct from all valid codes

	ValidTime time.Time
	LeadTime  time.Duration
	AccumTime time.Duration
	Units     string
	GridName  string

	moments      Moments
	momentsValid bool
}

// New allocates an nx*ny field with all samples missing and an identity
// quantization (m=1, b=0, bad code = 65535).
func New(nx, ny int) *Field {
	if nx <= 0 || ny <= 0 {
		panic(fmt.Sprintf("field: invalid dimensions nx=%d ny=%d", nx, ny))
	}
	f := &Field{
		nx:      nx,
		ny:      ny,
		data:    sparse.ZerosDense(ny, nx),
		m:       1,
		b:       0,
		dataMax: 65534,
		badCode: 65535,
	}
	for i := range f.data.Elements {
		f.data.Elements[i] = math.NaN()
	}
	return f
}

// NewQuantized allocates an nx*ny field with the given affine decode
// parameters and bad-data code: value = m*k + b, with m > 0 and badCode
// distinct from every valid code in [0, dataMax].
func NewQuantized(nx, ny int, m, b float64, dataMax, badCode uint16) *Field {
	if m <= 0 {
		panic("field: quantization scale m must be > 0")
	}
	f := New(nx, ny)
	f.m, f.b, f.dataMax, f.badCode = m, b, dataMax, badCode
	return f
}

// NX returns the grid width.
func (f *Field) NX() int { return f.nx }

// NY returns the grid height.
func (f *Field) NY() int { return f.ny }

// Index returns the row-major storage index n = y*nx + x for (x, y).
func (f *Field) Index(x, y int) int { return y*f.nx + x }

func (f *Field) checkBounds(x, y int) {
	if x < 0 || x >= f.nx || y < 0 || y >= f.ny {
		panic(fmt.Sprintf("field: index (%d,%d) out of bounds for %dx%d grid", x, y, f.nx, f.ny))
	}
}

// Get returns the decoded value at (x, y), or NaN if missing.
func (f *Field) Get(x, y int) float64 {
	f.checkBounds(x, y)
	return f.data.Get(y, x)
}

// Put stores the decoded value v at (x, y). Use math.NaN() for missing.
// Invalidates the cached moments.
func (f *Field) Put(x, y int, v float64) {
	f.checkBounds(x, y)
	f.data.Set(v, y, x)
	f.momentsValid = false
}

// Decode converts a fixed-point code to its decoded value, or NaN if k is
// the bad-data code.
func (f *Field) Decode(k uint16) float64 {
	if k == f.badCode {
		return math.NaN()
	}
	return f.m*float64(k) + f.b
}

// Encode converts a decoded value to its nearest fixed-point code, or the
// bad-data code if v is NaN. It panics if v encodes to a code outside
// [0, dataMax].
func (f *Field) Encode(v float64) uint16 {
	if math.IsNaN(v) {
		return f.badCode
	}
	k := math.Round((v - f.b) / f.m)
	if k < 0 || k > float64(f.dataMax) {
		panic(fmt.Sprintf("field: value %g encodes to out-of-range code %g (dataMax=%d)", v, k, f.dataMax))
	}
	return uint16(k)
}

// PutCode stores the fixed-point code k at (x, y), decoding it first.
func (f *Field) PutCode(x, y int, k uint16) { f.Put(x, y, f.Decode(k)) }

// GetCode returns the fixed-point code at (x, y).
func (f *Field) GetCode(x, y int) uint16 { return f.Encode(f.Get(x, y)) }

// IsBad reports whether the sample at (x, y) is the missing sentinel.
func (f *Field) IsBad(x, y int) bool { return math.IsNaN(f.Get(x, y)) }

// IsValid is the complement of IsBad.
func (f *Field) IsValid(x, y int) bool { return !f.IsBad(x, y) }

// IsOn is the "structural on" predicate: valid and strictly greater than
// zero.
func (f *Field) IsOn(x, y int) bool {
	v := f.Get(x, y)
	return !math.IsNaN(v) && v > 0
}

// IsFat is the "fat" predicate used to give labeled objects the correct
// topological boundary: on at (x, y) or at any of the three lower-left
// neighbors (x-1,y), (x,y-1), (x-1,y-1).
func (f *Field) IsFat(x, y int) bool {
	if f.inBoundsOn(x, y) {
		return true
	}
	return f.inBoundsOn(x-1, y) || f.inBoundsOn(x, y-1) || f.inBoundsOn(x-1, y-1)
}

func (f *Field) inBoundsOn(x, y int) bool {
	if x < 0 || x >= f.nx || y < 0 || y >= f.ny {
		return false
	}
	return f.IsOn(x, y)
}

// Clone returns a deep copy of f, including header attributes.
func (f *Field) Clone() *Field {
	g := *f
	g.data = f.data.Copy()
	return &g
}
