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
	"fmt"
	"math"

	"github.com/dtcenter/MET-sub005/field"
)

// ISCScale holds one level of the intensity-scale decomposition: the mean
// squared error and the forecast/observation energy of the wavelet detail
// coefficients at that scale, plus the derived skill score.
type ISCScale struct {
	MSE, FcstEnergy, ObsEnergy, ISC float64
}

// ISCInfo is the full intensity-scale decomposition of a thresholded
// forecast/observation field pair.
type ISCInfo struct {
	Scales []ISCScale // one per dyadic scale, finest-detail first
	Whole  ISCScale
}

// ComputeISC thresholds fcst and obs into 0/1 event fields, decomposes
// their difference with a 2-D Haar-style dyadic wavelet transform over
// nScale levels, and derives the per-scale and whole-field skill scores.
// Both fields must be square with side length a power of two, at least
// 2^nScale.
func ComputeISC(fcst, obs *field.Field, kind field.ThresholdKind, thr float64, nScale int) (ISCInfo, error) {
	n := fcst.NX()
	if fcst.NX() != fcst.NY() || obs.NX() != n || obs.NY() != n {
		return ISCInfo{}, fmt.Errorf("score: ComputeISC: fields must be square and equal-sized")
	}
	if n&(n-1) != 0 {
		return ISCInfo{}, fmt.Errorf("score: ComputeISC: tile side %d is not a power of two", n)
	}
	if 1<<uint(nScale) > n {
		return ISCInfo{}, fmt.Errorf("score: ComputeISC: nScale=%d requires a tile of at least %d, got %d", nScale, 1<<uint(nScale), n)
	}

	bf := make([][]float64, n)
	bo := make([][]float64, n)
	var fyoy, fyon, fnoy, fnon float64
	for y := 0; y < n; y++ {
		bf[y] = make([]float64, n)
		bo[y] = make([]float64, n)
		for x := 0; x < n; x++ {
			fy := boolToFloat(kind.Satisfies(fcst.Get(x, y), thr))
			oy := boolToFloat(kind.Satisfies(obs.Get(x, y), thr))
			bf[y][x] = fy
			bo[y][x] = oy
			switch {
			case fy == 1 && oy == 1:
				fyoy++
			case fy == 1 && oy == 0:
				fyon++
			case fy == 0 && oy == 1:
				fnoy++
			default:
				fnon++
			}
		}
	}
	table := CTS2x2{FYOY: fyoy, FYON: fyon, FNOY: fnoy, FNON: fnon}.Compute()
	baser, fbias := table.BASER, table.FBIAS
	denomWhole := fbias*baser*(1-baser) + baser*(1-fbias*baser)

	N := float64(n * n)
	var mseWhole, fenWhole, oenWhole float64
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			d := bf[y][x] - bo[y][x]
			mseWhole += d * d
			fenWhole += bf[y][x] * bf[y][x]
			oenWhole += bo[y][x] * bo[y][x]
		}
	}
	mseWhole /= N
	fenWhole /= N
	oenWhole /= N

	info := ISCInfo{}
	info.Whole = ISCScale{MSE: mseWhole, FcstEnergy: fenWhole, ObsEnergy: oenWhole, ISC: safeDiv1Minus(mseWhole, denomWhole)}

	fApprox, oApprox := bf, bo
	denomScale := denomWhole / float64(nScale+1)
	for s := 0; s < nScale; s++ {
		var fNext, oNext [][]float64
		var fEnergy, oEnergy, mse float64
		fNext, fEnergy = haarLevel(fApprox)
		oNext, oEnergy = haarLevel(oApprox)
		// MSE of the detail coefficients of the forecast-minus-observation
		// field at this scale: since the wavelet transform is linear,
		// detail(f-o) = detail(f) - detail(o); recomputing directly avoids
		// building a third decomposition tree.
		diffApprox := make([][]float64, len(fApprox))
		for i := range fApprox {
			diffApprox[i] = make([]float64, len(fApprox[i]))
			for j := range fApprox[i] {
				diffApprox[i][j] = fApprox[i][j] - oApprox[i][j]
			}
		}
		_, mse = haarLevel(diffApprox)

		info.Scales = append(info.Scales, ISCScale{
			MSE:        mse / N,
			FcstEnergy: fEnergy / N,
			ObsEnergy:  oEnergy / N,
			ISC:        safeDiv1Minus(mse/N, denomScale),
		})
		fApprox, oApprox = fNext, oNext
	}
	return info, nil
}

func safeDiv1Minus(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return 1 - num/den
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// haarLevel performs one level of a separable 2-D Haar-style dyadic
// decomposition: each non-overlapping 2x2 block (a b / c d) yields an
// approximation value (a+b+c+d)/4 and three detail coefficients
// (vertical, horizontal, diagonal differences). It returns the halved
// approximation grid and the summed squared detail energy of this level.
func haarLevel(grid [][]float64) ([][]float64, float64) {
	m := len(grid)
	half := m / 2
	approx := make([][]float64, half)
	var energy float64
	for i := 0; i < half; i++ {
		approx[i] = make([]float64, half)
		for j := 0; j < half; j++ {
			a := grid[2*i][2*j]
			b := grid[2*i][2*j+1]
			c := grid[2*i+1][2*j]
			d := grid[2*i+1][2*j+1]
			approx[i][j] = (a + b + c + d) / 4
			lh := (a + b - c - d) / 4
			hl := (a - b + c - d) / 4
			hh := (a - b - c + d) / 4
			energy += lh*lh + hl*hl + hh*hh
		}
	}
	return approx, energy
}
