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

// Package interp implements the horizontal neighborhood interpolators and
// the vertical log-pressure interpolator.
package interp

import (
	"fmt"
	"math"
	"sort"

	"github.com/dtcenter/MET-sub005/field"
	"gonum.org/v1/gonum/mat"
)

// Method selects a horizontal interpolation operator.
type Method int

const (
	Min Method = iota
	Max
	Median
	UWMean
	DWMean
	LSFit
	Bilinear
)

// String renders the method's canonical short name, the form verification
// output rows use for the "interp method" header field.
func (m Method) String() string {
	switch m {
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	case Median:
		return "MEDIAN"
	case UWMean:
		return "UW_MEAN"
	case DWMean:
		return "DW_MEAN"
	case LSFit:
		return "LS_FIT"
	case Bilinear:
		return "BILIN"
	default:
		return "UNKNOWN"
	}
}

// FootprintOrigin returns the lower-left grid cell (x_ll, y_ll) of the
// w*w footprint centered on (obsX, obsY): for odd w the footprint is
// centered by rounding, for even w it is centered by flooring with an
// offset of w/2-1.
func FootprintOrigin(obsX, obsY float64, w int) (xll, yll int) {
	if w%2 == 1 {
		xll = int(math.Round(obsX)) - (w-1)/2
		yll = int(math.Round(obsY)) - (w-1)/2
	} else {
		xll = int(math.Floor(obsX)) - (w/2 - 1)
		yll = int(math.Floor(obsY)) - (w/2 - 1)
	}
	return
}

// footprintValues gathers the valid (non-missing, in-grid) values in the
// w*w footprint whose lower-left corner is (xll, yll), along with their
// grid coordinates. Out-of-grid cells are treated as missing: they count
// toward the footprint size but never contribute a value.
func footprintValues(f *field.Field, xll, yll, w int) (vals []float64, xs, ys []float64) {
	for dy := 0; dy < w; dy++ {
		y := yll + dy
		for dx := 0; dx < w; dx++ {
			x := xll + dx
			if x < 0 || x >= f.NX() || y < 0 || y >= f.NY() {
				continue
			}
			v := f.Get(x, y)
			if math.IsNaN(v) {
				continue
			}
			vals = append(vals, v)
			xs = append(xs, float64(x))
			ys = append(ys, float64(y))
		}
	}
	return
}

// Horizontal applies the named operator over the w*w footprint centered on
// the real-valued observation location (obsX, obsY), returning NaN if the
// fraction of valid cells in the footprint falls below tau. power is the
// inverse-distance exponent used by DWMean (default 2) and is ignored by
// the other methods.
func Horizontal(method Method, f *field.Field, obsX, obsY float64, w int, tau float64, power int) (float64, error) {
	if w <= 0 {
		return 0, fmt.Errorf("interp: Horizontal: width must be positive, got %d", w)
	}
	if method == Bilinear {
		return bilinear(f, obsX, obsY)
	}

	xll, yll := FootprintOrigin(obsX, obsY, w)
	vals, xs, ys := footprintValues(f, xll, yll, w)
	validFrac := float64(len(vals)) / float64(w*w)
	if validFrac < tau {
		return math.NaN(), nil
	}
	if len(vals) == 0 {
		return math.NaN(), nil
	}

	switch method {
	case Min:
		m := vals[0]
		for _, v := range vals[1:] {
			if v < m {
				m = v
			}
		}
		return m, nil
	case Max:
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return m, nil
	case Median:
		return median(vals), nil
	case UWMean:
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum / float64(len(vals)), nil
	case DWMean:
		return distanceWeightedMean(vals, xs, ys, obsX, obsY, power), nil
	case LSFit:
		if w < 2 {
			return 0, fmt.Errorf("interp: LSFit requires width >= 2, got %d", w)
		}
		return leastSquaresPlane(vals, xs, ys, obsX, obsY)
	default:
		return 0, fmt.Errorf("interp: unsupported horizontal method %d", method)
	}
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// distanceWeightedMean implements inverse-distance weighting with integer
// exponent p. If any sample lies at distance <= 0.001 of the query point,
// that sample's value is returned exactly, avoiding the 1/0 singularity.
func distanceWeightedMean(vals, xs, ys []float64, obsX, obsY float64, p int) float64 {
	var wsum, vsum float64
	for i, v := range vals {
		d := math.Hypot(xs[i]-obsX, ys[i]-obsY)
		if d <= 0.001 {
			return v
		}
		w := 1 / math.Pow(d, float64(p))
		wsum += w
		vsum += w * v
	}
	if wsum == 0 {
		return math.NaN()
	}
	return vsum / wsum
}

// leastSquaresPlane fits z = A*u + B*v + C over the footprint, with (u,v)
// centered on the mean of the valid sample coordinates, and evaluates the
// plane at the query point.
func leastSquaresPlane(vals, xs, ys []float64, obsX, obsY float64) (float64, error) {
	n := len(vals)
	if n < 3 {
		return math.NaN(), nil
	}
	var cx, cy float64
	for i := range vals {
		cx += xs[i]
		cy += ys[i]
	}
	cx /= float64(n)
	cy /= float64(n)

	design := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i := range vals {
		design.Set(i, 0, xs[i]-cx)
		design.Set(i, 1, ys[i]-cy)
		design.Set(i, 2, 1)
		b.SetVec(i, vals[i])
	}
	var ata mat.Dense
	ata.Mul(design.T(), design)
	var atb mat.VecDense
	atb.MulVec(design.T(), b)

	var coef mat.VecDense
	if err := coef.SolveVec(&ata, &atb); err != nil {
		return math.NaN(), fmt.Errorf("interp: ls_fit: singular normal equations: %w", err)
	}
	A, B, C := coef.AtVec(0), coef.AtVec(1), coef.AtVec(2)
	return A*(obsX-cx) + B*(obsY-cy) + C, nil
}

// bilinear performs classic 2x2 corner interpolation at (obsX, obsY).
// Missing corners propagate to a missing result.
func bilinear(f *field.Field, obsX, obsY float64) (float64, error) {
	x0 := int(math.Floor(obsX))
	y0 := int(math.Floor(obsY))
	x1, y1 := x0+1, y0+1
	if x0 < 0 || y0 < 0 || x1 >= f.NX() || y1 >= f.NY() {
		return math.NaN(), nil
	}
	v00, v10, v01, v11 := f.Get(x0, y0), f.Get(x1, y0), f.Get(x0, y1), f.Get(x1, y1)
	if math.IsNaN(v00) || math.IsNaN(v10) || math.IsNaN(v01) || math.IsNaN(v11) {
		return math.NaN(), nil
	}
	tx, ty := obsX-float64(x0), obsY-float64(y0)
	top := v00 + tx*(v10-v00)
	bot := v01 + tx*(v11-v01)
	return top + ty*(bot-top), nil
}
