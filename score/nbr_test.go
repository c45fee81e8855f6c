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
	"testing"

	"github.com/dtcenter/MET-sub005/field"
)

func checkerboard(n int) *field.Field {
	f := field.New(n, n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if (x+y)%2 == 0 {
				f.Put(x, y, 10)
			} else {
				f.Put(x, y, 0)
			}
		}
	}
	return f
}

func TestFractionalCoverageUniformFieldIsAllOnOrAllOff(t *testing.T) {
	f := field.New(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			f.Put(x, y, 10)
		}
	}
	frac := FractionalCoverage(f, field.ThresholdGE, 5, 3, 0.0)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if math.Abs(frac.Get(x, y)-1) > 1e-9 {
				t.Fatalf("uniform above-threshold field should have fractional coverage 1 everywhere, got %g at (%d,%d)", frac.Get(x, y), x, y)
			}
		}
	}
}

func TestFractionalCoverageCheckerboardIsHalf(t *testing.T) {
	f := checkerboard(6)
	frac := FractionalCoverage(f, field.ThresholdGE, 5, 2, 0.0)
	// Every 2x2 window on a checkerboard contains exactly two cells >= 5.
	if math.Abs(frac.Get(1, 1)-0.5) > 1e-9 {
		t.Errorf("checkerboard fractional coverage at (1,1) = %g, want 0.5", frac.Get(1, 1))
	}
}

// naiveFractionalCoverage is the reference O(w^2) footprint scan the
// sliding-window implementation must agree with cell for cell.
func naiveFractionalCoverage(f *field.Field, kind field.ThresholdKind, thr float64, w int, validFraction float64) *field.Field {
	nx, ny := f.NX(), f.NY()
	off := windowOffset(w)
	out := field.New(nx, ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			var valid, on int
			for dy := 0; dy < w; dy++ {
				for dx := 0; dx < w; dx++ {
					xx, yy := x+off+dx, y+off+dy
					if xx < 0 || xx >= nx || yy < 0 || yy >= ny {
						continue
					}
					v := f.Get(xx, yy)
					if math.IsNaN(v) {
						continue
					}
					valid++
					if kind.Satisfies(v, thr) {
						on++
					}
				}
			}
			if float64(valid)/float64(w*w) < validFraction || valid == 0 {
				out.Put(x, y, math.NaN())
				continue
			}
			out.Put(x, y, float64(on)/float64(valid))
		}
	}
	return out
}

func TestFractionalCoverageMatchesNaive(t *testing.T) {
	f := field.New(17, 11)
	for y := 0; y < 11; y++ {
		for x := 0; x < 17; x++ {
			switch {
			case (x*7+y*3)%5 == 0:
				f.Put(x, y, math.NaN())
			default:
				f.Put(x, y, float64((x*13+y*5)%9))
			}
		}
	}
	for _, w := range []int{3, 4, 5, 7} {
		fast := FractionalCoverage(f, field.ThresholdGT, 4, w, 0.5)
		slow := naiveFractionalCoverage(f, field.ThresholdGT, 4, w, 0.5)
		for y := 0; y < 11; y++ {
			for x := 0; x < 17; x++ {
				fv, sv := fast.Get(x, y), slow.Get(x, y)
				if math.IsNaN(fv) != math.IsNaN(sv) {
					t.Fatalf("w=%d (%d,%d): missing mismatch: sliding=%g naive=%g", w, x, y, fv, sv)
				}
				if !math.IsNaN(fv) && math.Abs(fv-sv) > 1e-12 {
					t.Fatalf("w=%d (%d,%d): sliding=%g naive=%g", w, x, y, fv, sv)
				}
				if !math.IsNaN(fv) && (fv < 0 || fv > 1) {
					t.Fatalf("w=%d (%d,%d): fractional coverage %g outside [0,1]", w, x, y, fv)
				}
			}
		}
	}
}

func TestComputeNBRCNTPerfectMatchIsZeroFBS(t *testing.T) {
	f := field.New(3, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			f.Put(x, y, float64(x+y)/4.0)
		}
	}
	info := ComputeNBRCNT(f, f)
	if math.Abs(info.FBS) > 1e-9 {
		t.Errorf("identical fractional fields should have FBS=0, got %g", info.FBS)
	}
	if math.Abs(info.FSS-1) > 1e-9 && info.FSS == info.FSS {
		// FSS is only defined (non-NaN) when mF2+mO2 != 0; a non-trivial
		// field here guarantees that, so it should equal 1.
		t.Errorf("identical fractional fields should have FSS=1, got %g", info.FSS)
	}
}

func TestComputeNBRCNTAllMissingIsNaN(t *testing.T) {
	f := field.New(2, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			f.Put(x, y, math.NaN())
		}
	}
	info := ComputeNBRCNT(f, f)
	if !math.IsNaN(info.FBS) {
		t.Errorf("all-missing fields should yield NaN FBS, got %g", info.FBS)
	}
	if info.N != 0 {
		t.Errorf("N = %d, want 0", info.N)
	}
}

func TestBuildNBRCTSCounts(t *testing.T) {
	fcst := field.New(2, 2)
	obs := field.New(2, 2)
	fcst.Put(0, 0, 0.8)
	fcst.Put(1, 0, 0.2)
	fcst.Put(0, 1, 0.8)
	fcst.Put(1, 1, 0.2)
	obs.Put(0, 0, 0.8)
	obs.Put(1, 0, 0.8)
	obs.Put(0, 1, 0.2)
	obs.Put(1, 1, 0.2)
	c := BuildNBRCTS(fcst, obs, field.ThresholdGE, 0.5)
	if c.FYOY != 1 || c.FYON != 1 || c.FNOY != 1 || c.FNON != 1 {
		t.Errorf("unexpected NBRCTS table: %+v", c)
	}
}
