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

// CombineOp selects the reduction applied by Combine.
type CombineOp int

const (
	CombineMax CombineOp = iota
	CombineMin
	CombineSum
)

// Combine reduces N same-shaped fields under op, with strict missing
// propagation: if any input is missing at (x, y), the output is missing
// at (x, y).
func Combine(op CombineOp, fields ...*Field) (*Field, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("field: Combine requires at least one field")
	}
	nx, ny := fields[0].nx, fields[0].ny
	for i, f := range fields[1:] {
		if f.nx != nx || f.ny != ny {
			return nil, fmt.Errorf("field: Combine: field %d has shape %dx%d, want %dx%d", i+1, f.nx, f.ny, nx, ny)
		}
	}
	out := New(nx, ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			var acc float64
			missing := false
			switch op {
			case CombineMax:
				acc = math.Inf(-1)
			case CombineMin:
				acc = math.Inf(1)
			case CombineSum:
				acc = 0
			}
			for _, f := range fields {
				v := f.Get(x, y)
				if math.IsNaN(v) {
					missing = true
					break
				}
				switch op {
				case CombineMax:
					acc = math.Max(acc, v)
				case CombineMin:
					acc = math.Min(acc, v)
				case CombineSum:
					acc += v
				}
			}
			if missing {
				out.Put(x, y, math.NaN())
			} else {
				out.Put(x, y, acc)
			}
		}
	}
	return out, nil
}

// ThresholdKind is the comparison a Threshold predicate applies.
type ThresholdKind int

const (
	ThresholdLT ThresholdKind = iota
	ThresholdLE
	ThresholdEQ
	ThresholdNE
	ThresholdGE
	ThresholdGT
)

// Satisfies reports whether v satisfies kind(v, operand). Missing (NaN) v
// never satisfies any kind.
func (kind ThresholdKind) Satisfies(v, operand float64) bool {
	if math.IsNaN(v) {
		return false
	}
	switch kind {
	case ThresholdLT:
		return v < operand
	case ThresholdLE:
		return v <= operand
	case ThresholdEQ:
		return v == operand
	case ThresholdNE:
		return v != operand
	case ThresholdGE:
		return v >= operand
	case ThresholdGT:
		return v > operand
	}
	return false
}

// Threshold produces a 0/1 mask field: 1 where the sample satisfies
// kind(value, operand), 0 otherwise. Missing in implies 0 out.
func Threshold(f *Field, kind ThresholdKind, operand float64) *Field {
	out := New(f.nx, f.ny)
	for y := 0; y < f.ny; y++ {
		for x := 0; x < f.nx; x++ {
			v := f.Get(x, y)
			if kind.Satisfies(v, operand) {
				out.Put(x, y, 1)
			} else {
				out.Put(x, y, 0)
			}
		}
	}
	return out
}

// Rescale re-quantizes f under a new (m, b) pair, preserving the missing
// sentinel and leaving the decoded values themselves unchanged -- only the
// encode/decode parameters (and therefore GetCode/PutCode round-tripping)
// change.
func (f *Field) Rescale(m, b float64, dataMax, badCode uint16) {
	if m <= 0 {
		panic("field: Rescale: scale m must be > 0")
	}
	f.m, f.b, f.dataMax, f.badCode = m, b, dataMax, badCode
}

// Expand performs morphological dilation by radius r in the 8-connected
// sense: a cell is "on" in the output if any cell within Chebyshev
// distance r is "on" in the input.
func Expand(f *Field, r int) *Field {
	out := New(f.nx, f.ny)
	for y := 0; y < f.ny; y++ {
		for x := 0; x < f.nx; x++ {
			on := false
			for dy := -r; dy <= r && !on; dy++ {
				for dx := -r; dx <= r; dx++ {
					xx, yy := x+dx, y+dy
					if xx < 0 || xx >= f.nx || yy < 0 || yy >= f.ny {
						continue
					}
					if f.IsOn(xx, yy) {
						on = true
						break
					}
				}
			}
			if on {
				out.Put(x, y, 1)
			} else {
				out.Put(x, y, 0)
			}
		}
	}
	return out
}

// ZeroBorder sets the outermost w cells on every edge of f to zero
// (modifying f in place) and returns f for chaining.
func (f *Field) ZeroBorder(w int) *Field {
	for y := 0; y < f.ny; y++ {
		for x := 0; x < f.nx; x++ {
			if x < w || x >= f.nx-w || y < w || y >= f.ny-w {
				f.Put(x, y, 0)
			}
		}
	}
	return f
}

// Translate shifts f by (dx, dy), filling vacated cells with zero.
func Translate(f *Field, dx, dy int) *Field {
	out := New(f.nx, f.ny)
	for y := 0; y < f.ny; y++ {
		for x := 0; x < f.nx; x++ {
			sx, sy := x-dx, y-dy
			if sx >= 0 && sx < f.nx && sy >= 0 && sy < f.ny {
				out.Put(x, y, f.Get(sx, sy))
			} else {
				out.Put(x, y, 0)
			}
		}
	}
	return out
}
