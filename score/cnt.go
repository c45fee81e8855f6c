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
	"sort"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/atmos/evalstats"
	"github.com/dtcenter/MET-sub005/pair"
	"gonum.org/v1/gonum/stat"
)

// CNT accumulates the raw forecast/observation samples of a Pair Set for
// continuous statistics.
type CNT struct {
	Fcst, Obs []float64
}

// BuildCNT extracts the forecast/observation sample arrays from ps.
func BuildCNT(ps *pair.PairSet) *CNT {
	c := &CNT{Fcst: make([]float64, len(ps.Pairs)), Obs: make([]float64, len(ps.Pairs))}
	for i, p := range ps.Pairs {
		c.Fcst[i] = p.FcstValue
		c.Obs[i] = p.ObsValue
	}
	return c
}

// CNTInfo holds the derived continuous statistics.
type CNTInfo struct {
	N                        int
	MeanF, MeanO             float64
	StdDevF, StdDevO         float64
	Pearson                  float64
	ME, MAE, MSE, RMSE       float64
	BCMSE                    float64
	MultiplicativeBias       float64
	// Mean fractional bias/error and mean ratio, the air-quality
	// evaluation trio.
	MFB, MFE, MR             float64
	ErrorPercentiles         map[int]float64
	Spearman, Kendall        float64
	RankCorrelationComputed  bool
	TiedRanksF, TiedRanksO   int
}

// Compute derives CNTInfo from the accumulated samples. If rankCorr is
// true, Spearman's rho and Kendall's tau are also computed; precipEpsilon,
// when non-nil, drops pairs where both forecast and observation are <=
// *precipEpsilon before ranking, the precipitation special case of
// treating both-near-zero as trivial agreement.
func (c *CNT) Compute(rankCorr bool, precipEpsilon *float64) CNTInfo {
	n := len(c.Fcst)
	info := CNTInfo{N: n}
	if n == 0 {
		info.MeanF, info.MeanO, info.StdDevF, info.StdDevO = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		info.Pearson, info.ME, info.MAE, info.MSE, info.RMSE, info.BCMSE, info.MultiplicativeBias =
			math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return info
	}

	info.MeanF = stat.Mean(c.Fcst, nil)
	info.MeanO = stat.Mean(c.Obs, nil)
	if n > 1 {
		info.StdDevF = stat.StdDev(c.Fcst, nil)
		info.StdDevO = stat.StdDev(c.Obs, nil)
	} else {
		info.StdDevF, info.StdDevO = math.NaN(), math.NaN()
	}

	// evalstats treats its first argument as the reference series: MB is
	// the signed mean of (second - first), ME the mean absolute difference.
	info.ME = evalstats.MB(c.Obs, c.Fcst)
	info.MAE = evalstats.ME(c.Obs, c.Fcst)
	info.MSE = meanSquaredError(c.Fcst, c.Obs)
	info.RMSE = math.Sqrt(info.MSE)
	bc := info.MSE - (info.MeanF-info.MeanO)*(info.MeanF-info.MeanO)
	if bc < 0 {
		bc = math.NaN()
	}
	info.BCMSE = bc
	info.MultiplicativeBias = safeDiv(info.MeanF, info.MeanO)
	info.MFB = evalstats.MFB(c.Obs, c.Fcst)
	info.MFE = evalstats.MFE(c.Obs, c.Fcst)
	info.MR = evalstats.MR(c.Obs, c.Fcst)

	slope, _, rsq, _, _, _ := stats.LinearRegression(c.Fcst, c.Obs)
	if n > 1 {
		sign := 1.0
		if slope < 0 {
			sign = -1.0
		}
		info.Pearson = sign * math.Sqrt(math.Max(rsq, 0))
	} else {
		info.Pearson = math.NaN()
	}

	errs := make([]float64, n)
	for i := range c.Fcst {
		errs[i] = c.Fcst[i] - c.Obs[i]
	}
	sort.Float64s(errs)
	info.ErrorPercentiles = map[int]float64{}
	for _, p := range []int{10, 25, 50, 75, 90} {
		info.ErrorPercentiles[p] = stat.Quantile(float64(p)/100, stat.LinInterp, errs, nil)
	}

	if rankCorr {
		f, o := c.Fcst, c.Obs
		if precipEpsilon != nil {
			f, o = dropTrivialZeros(f, o, *precipEpsilon)
		}
		rf, tiesF := averageRanks(f)
		ro, tiesO := averageRanks(o)
		info.TiedRanksF, info.TiedRanksO = tiesF, tiesO
		if len(rf) > 1 {
			info.Spearman = stat.Correlation(rf, ro, nil)
		} else {
			info.Spearman = math.NaN()
		}
		info.Kendall = kendallTau(f, o)
		info.RankCorrelationComputed = true
	}

	return info
}

func meanSquaredError(f, o []float64) float64 {
	var sum float64
	for i := range f {
		d := f[i] - o[i]
		sum += d * d
	}
	return sum / float64(len(f))
}

// dropTrivialZeros removes pairs where both values are <= eps, the
// precipitation special case of trivial agreement at zero.
func dropTrivialZeros(f, o []float64, eps float64) ([]float64, []float64) {
	var rf, ro []float64
	for i := range f {
		if f[i] <= eps && o[i] <= eps {
			continue
		}
		rf = append(rf, f[i])
		ro = append(ro, o[i])
	}
	return rf, ro
}

// averageRanks assigns fractional (average) ranks to x, returning the
// rank array and the count of values involved in a tie group of size > 1.
func averageRanks(x []float64) ([]float64, int) {
	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return x[idx[i]] < x[idx[j]] })

	ranks := make([]float64, n)
	tied := 0
	i := 0
	for i < n {
		j := i
		for j+1 < n && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avgRank := float64(i+j)/2 + 1
		if j > i {
			tied += j - i + 1
		}
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avgRank
		}
		i = j + 1
	}
	return ranks, tied
}

// kendallTau computes Kendall's tau-b by direct pair-concordance
// counting, correcting for ties in either series.
func kendallTau(f, o []float64) float64 {
	n := len(f)
	if n < 2 {
		return math.NaN()
	}
	var concordant, discordant, tiesF, tiesO, tiesBoth float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			df := f[i] - f[j]
			do := o[i] - o[j]
			switch {
			case df == 0 && do == 0:
				tiesBoth++
			case df == 0:
				tiesF++
			case do == 0:
				tiesO++
			case (df > 0) == (do > 0):
				concordant++
			default:
				discordant++
			}
		}
	}
	total := float64(n*(n-1)) / 2
	denom := math.Sqrt((total - tiesF - tiesBoth) * (total - tiesO - tiesBoth))
	if denom == 0 {
		return math.NaN()
	}
	return (concordant - discordant) / denom
}
