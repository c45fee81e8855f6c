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

package score

import (
	"math"

	"github.com/dtcenter/MET-sub005/field"
)

// windowOffset returns the constant per-axis offset from a cell (x, y) to
// the lower-left corner of its w*w neighborhood, matching
// interp.FootprintOrigin's odd/even rounding rule. Because grid
// coordinates are integers, the offset is the same for every cell, which
// is what lets FractionalCoverage use a running sliding-window sum
// instead of recomputing each neighborhood from scratch.
func windowOffset(w int) int {
	if w%2 == 1 {
		return -(w - 1) / 2
	}
	return -(w/2 - 1)
}

// FractionalCoverage returns a new field holding f's fractional coverage at
// neighborhood width w and threshold predicate kind(v, thr): the fraction
// of valid samples in the w*w window around (x, y) that satisfy the
// threshold, or missing if fewer than validFraction of the window is
// valid.
//
// It runs in O(w*(nx+ny) + nx*ny) via two successive 1-D sliding-window
// passes (vertical box-sum per column, then horizontal box-sum per row),
// well within an O(w*w*nx*ny) naive footprint scan.
func FractionalCoverage(f *field.Field, kind field.ThresholdKind, thr float64, w int, validFraction float64) *field.Field {
	nx, ny := f.NX(), f.NY()
	valid := make([]int, nx*ny)
	on := make([]int, nx*ny)
	idx := func(x, y int) int { return y*nx + x }
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			v := f.Get(x, y)
			if math.IsNaN(v) {
				continue
			}
			valid[idx(x, y)] = 1
			if kind.Satisfies(v, thr) {
				on[idx(x, y)] = 1
			}
		}
	}

	off := windowOffset(w)

	// Vertical box-sum per column: colValid[x][y], colOn[x][y] are sums
	// over rows [y+off, y+off+w-1] clipped to the grid.
	colValid := make([][]int, nx)
	colOn := make([][]int, nx)
	for x := 0; x < nx; x++ {
		colValid[x] = make([]int, ny)
		colOn[x] = make([]int, ny)
		var sumV, sumO int
		for dy := 0; dy < w; dy++ {
			yy := 0 + off + dy
			if yy >= 0 && yy < ny {
				sumV += valid[idx(x, yy)]
				sumO += on[idx(x, yy)]
			}
		}
		colValid[x][0] = sumV
		colOn[x][0] = sumO
		for y := 1; y < ny; y++ {
			leaving := y - 1 + off
			entering := y + off + w - 1
			if leaving >= 0 && leaving < ny {
				sumV -= valid[idx(x, leaving)]
				sumO -= on[idx(x, leaving)]
			}
			if entering >= 0 && entering < ny {
				sumV += valid[idx(x, entering)]
				sumO += on[idx(x, entering)]
			}
			colValid[x][y] = sumV
			colOn[x][y] = sumO
		}
	}

	out := field.New(nx, ny)
	for y := 0; y < ny; y++ {
		var sumV, sumO int
		for dx := 0; dx < w; dx++ {
			xx := 0 + off + dx
			if xx >= 0 && xx < nx {
				sumV += colValid[xx][y]
				sumO += colOn[xx][y]
			}
		}
		setFrac := func(x int) {
			denom := float64(w * w)
			if float64(sumV)/denom < validFraction || sumV == 0 {
				out.Put(x, y, math.NaN())
				return
			}
			out.Put(x, y, float64(sumO)/float64(sumV))
		}
		setFrac(0)
		for x := 1; x < nx; x++ {
			leaving := x - 1 + off
			entering := x + off + w - 1
			if leaving >= 0 && leaving < nx {
				sumV -= colValid[leaving][y]
				sumO -= colOn[leaving][y]
			}
			if entering >= 0 && entering < nx {
				sumV += colValid[entering][y]
				sumO += colOn[entering][y]
			}
			setFrac(x)
		}
	}
	return out
}

// NBRCNTInfo holds the Fractions Brier Score / Fractions Skill Score
// derived from a pair of fractional-coverage fields.
type NBRCNTInfo struct {
	N          int
	FBS, FSS   float64
}

// ComputeNBRCNT computes FBS and FSS over every grid cell where both
// fractional-coverage fields are valid.
func ComputeNBRCNT(fcstFrac, obsFrac *field.Field) NBRCNTInfo {
	var n int
	var sumF, sumO, sumFO, sumF2, sumO2 float64
	nx, ny := fcstFrac.NX(), fcstFrac.NY()
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			fv := fcstFrac.Get(x, y)
			ov := obsFrac.Get(x, y)
			if math.IsNaN(fv) || math.IsNaN(ov) {
				continue
			}
			n++
			sumF += fv
			sumO += ov
			sumFO += fv * ov
			sumF2 += fv * fv
			sumO2 += ov * ov
		}
	}
	info := NBRCNTInfo{N: n}
	if n == 0 {
		info.FBS, info.FSS = math.NaN(), math.NaN()
		return info
	}
	mF2, mO2, mFO := sumF2/float64(n), sumO2/float64(n), sumFO/float64(n)
	info.FBS = mF2 + mO2 - 2*mFO
	denom := mF2 + mO2
	if denom == 0 {
		info.FSS = math.NaN()
	} else {
		info.FSS = 1 - info.FBS/denom
	}
	return info
}

// BuildNBRCTS applies threshold kind(v, fracThr) to two fractional-
// coverage fields and accumulates a 2x2 contingency table, reusing the
// categorical machinery of CTS2x2.
func BuildNBRCTS(fcstFrac, obsFrac *field.Field, kind field.ThresholdKind, fracThr float64) CTS2x2 {
	var c CTS2x2
	nx, ny := fcstFrac.NX(), fcstFrac.NY()
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			fv := fcstFrac.Get(x, y)
			ov := obsFrac.Get(x, y)
			if math.IsNaN(fv) || math.IsNaN(ov) {
				continue
			}
			fy := kind.Satisfies(fv, fracThr)
			oy := kind.Satisfies(ov, fracThr)
			switch {
			case fy && oy:
				c.FYOY++
			case fy && !oy:
				c.FYON++
			case !fy && oy:
				c.FNOY++
			default:
				c.FNON++
			}
		}
	}
	return c
}
