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

package ci

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// BootstrapMethod selects the bootstrap interval-estimation method.
type BootstrapMethod int

const (
	Percentile BootstrapMethod = iota
	BCa
)

// StatFunc computes a score statistic from a subset of an n-sized pair
// array named by indices: a view over the full pair arrays plus an
// index list. It never allocates a copy of the underlying pairs; callers
// close over their own pair/field/value arrays and index into them
// directly.
type StatFunc func(indices []int) float64

// Spec configures one bootstrap run: the method, replicate count, the
// percentile method's subsample proportion, and a temp-directory field
// that the resampler does not read (replicate sets stay in memory).
type Spec struct {
	Method      BootstrapMethod
	Replicates  int
	Proportion  float64 // percentile-method subsample fraction; 1.0 = full size
	TempDir     string
	spillCeiling int // ceiling on replicates*n above which Spilled reports true; 0 = default
}

// DefaultSpillCeiling is the default ceiling on replicates*n. When
// replicate-count x pair-count exceeds it, the Resampler's Spilled
// reports true; all replicate indices are still kept in memory and
// Spec.TempDir is not read, since there is no on-disk replicate format
// to spill through here.
const DefaultSpillCeiling = 50_000_000

// Resampler draws the bootstrap replicate index sets once for a given
// sample size n, so that every score family's CI computed against the
// same Resampler instance shares identical resampling draws: the same
// random draw seeds all statistics of a replicate, preserving
// cross-statistic covariance.
type Resampler struct {
	n          int
	spec       Spec
	replicates [][]int // replicate index sets, drawn once
	spilled    bool
}

// NewResampler draws spec.Replicates replicate index sets over a sample
// of size n, using rng as the single owned RNG stream; no sharing.
func NewResampler(n int, spec Spec, rng *rand.Rand) (*Resampler, error) {
	if spec.Replicates < 1 {
		return nil, fmt.Errorf("ci: bootstrap replicate count must be >= 1, got %d", spec.Replicates)
	}
	if n < 1 {
		return nil, fmt.Errorf("ci: bootstrap sample size must be >= 1, got %d", n)
	}
	if spec.spillCeiling == 0 {
		spec.spillCeiling = DefaultSpillCeiling
	}

	sampleSize := n
	if spec.Method == Percentile {
		p := spec.Proportion
		if p <= 0 {
			p = 1.0
		}
		sampleSize = int(math.Round(float64(n) * p))
		if sampleSize < 1 {
			sampleSize = 1
		}
	}

	r := &Resampler{n: n, spec: spec}
	if spec.Replicates*n > spec.spillCeiling {
		// The out-of-core path is a diagnostic surface, not implemented
		// here: there is no on-disk replicate format to spill through.
		r.spilled = true
	}
	r.replicates = make([][]int, spec.Replicates)
	for i := range r.replicates {
		idx := make([]int, sampleSize)
		for j := range idx {
			idx[j] = rng.Intn(n)
		}
		r.replicates[i] = idx
	}
	return r, nil
}

// Spilled reports whether this resampler's replicate count x sample size
// exceeded DefaultSpillCeiling.
func (r *Resampler) Spilled() bool { return r.spilled }

// CI computes a bootstrap confidence interval for stat at the given
// two-sided alpha, using r's precomputed replicate draws.
func (r *Resampler) CI(alpha float64, stat StatFunc) Interval {
	values := make([]float64, len(r.replicates))
	for i, idx := range r.replicates {
		values[i] = stat(idx)
	}
	switch r.spec.Method {
	case BCa:
		return bcaInterval(r.n, values, alpha, stat)
	default:
		return percentileInterval(values, alpha)
	}
}

func fullIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// percentileInterval reports the empirical alpha/2 and 1-alpha/2
// quantiles of the replicate statistic values.
func percentileInterval(values []float64, alpha float64) Interval {
	clean := dropNaN(values)
	if len(clean) == 0 {
		return missingInterval()
	}
	sort.Float64s(clean)
	lo := quantile(clean, alpha/2)
	hi := quantile(clean, 1-alpha/2)
	return Interval{lo, hi}
}

// bcaInterval implements the bias-corrected and accelerated bootstrap:
// z0 from the replicate CDF at the observed statistic, acceleration from
// the jackknife, then adjusted quantile probabilities applied to the
// same replicate distribution.
func bcaInterval(n int, values []float64, alpha float64, stat StatFunc) Interval {
	clean := dropNaN(values)
	if len(clean) == 0 {
		return missingInterval()
	}
	thetaHat := stat(fullIndices(n))
	if math.IsNaN(thetaHat) {
		return missingInterval()
	}

	less := 0
	for _, v := range clean {
		if v < thetaHat {
			less++
		}
	}
	prop := float64(less) / float64(len(clean))
	// Clamp away from {0,1} so the normal quantile stays finite.
	prop = math.Min(math.Max(prop, 1e-6), 1-1e-6)
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	z0 := norm.Quantile(prop)

	jack := make([]float64, n)
	for i := 0; i < n; i++ {
		idx := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				idx = append(idx, j)
			}
		}
		jack[i] = stat(idx)
	}
	jackMean := 0.0
	valid := 0
	for _, v := range jack {
		if !math.IsNaN(v) {
			jackMean += v
			valid++
		}
	}
	if valid == 0 {
		return missingInterval()
	}
	jackMean /= float64(valid)

	var num, den float64
	for _, v := range jack {
		if math.IsNaN(v) {
			continue
		}
		d := jackMean - v
		num += d * d * d
		den += d * d
	}
	var accel float64
	if den > 0 {
		accel = num / (6 * math.Pow(den, 1.5))
	}

	zAlphaLo := norm.Quantile(alpha / 2)
	zAlphaHi := norm.Quantile(1 - alpha/2)

	adj := func(z float64) float64 {
		denom := 1 - accel*(z0+z)
		if denom == 0 {
			denom = 1e-12
		}
		return norm.CDF(z0 + (z0+z)/denom)
	}
	p1 := adj(zAlphaLo)
	p2 := adj(zAlphaHi)

	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)
	lo := quantile(sorted, p1)
	hi := quantile(sorted, p2)
	return Interval{lo, hi}
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// quantile returns the p-th empirical quantile of a sorted slice via
// linear interpolation between order statistics.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
