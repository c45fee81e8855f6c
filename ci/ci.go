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

// Package ci implements the confidence-interval machinery: normal-theory
// intervals for proportions, means, standard deviations, Pearson
// correlation, Hanssen-Kuipers, odds ratio, and the Brier score's
// closed-form half-width, plus the bootstrap percentile and BCa
// resampler shared across score families.
package ci

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Interval is a two-sided confidence interval. Either bound may be NaN,
// meaning missing: a CI on a missing or degenerate score is itself
// missing.
type Interval struct {
	Lower, Upper float64
}

func missingInterval() Interval { return Interval{math.NaN(), math.NaN()} }

// normalQuantile returns the standard normal's two-sided critical value
// z(alpha/2), i.e. the value z such that P(|Z| > z) = alpha.
func normalQuantile(alpha float64) float64 {
	n := distuv.Normal{Mu: 0, Sigma: 1}
	return n.Quantile(1 - alpha/2)
}

// ProportionCI is the Wilson-score interval for a proportion x/n, used for
// POD, POFD, FAR, CSI, ACC, and the other proportion-shaped CTS scores.
func ProportionCI(x, n, alpha float64) Interval {
	if n <= 0 || math.IsNaN(x) || math.IsNaN(n) {
		return missingInterval()
	}
	z := normalQuantile(alpha)
	phat := x / n
	denom := 1 + z*z/n
	center := phat + z*z/(2*n)
	half := z * math.Sqrt(phat*(1-phat)/n+z*z/(4*n*n))
	return Interval{(center - half) / denom, (center + half) / denom}
}

// largeSampleN is the threshold at which MeanCI switches from the
// Student-t quantile to the normal z quantile.
const largeSampleN = 30

// MeanCI is the classical x_bar +/- t(alpha/2, n-1) * s/sqrt(n) interval,
// switching to the normal z critical value once n reaches largeSampleN.
func MeanCI(mean, stddev float64, n int, alpha float64) Interval {
	if n < 2 || math.IsNaN(mean) || math.IsNaN(stddev) {
		return missingInterval()
	}
	se := stddev / math.Sqrt(float64(n))
	var crit float64
	if n >= largeSampleN {
		crit = normalQuantile(alpha)
	} else {
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
		crit = t.Quantile(1 - alpha/2)
	}
	return Interval{mean - crit*se, mean + crit*se}
}

// StdDevCI is the chi-square two-sided interval on (n-1)*s^2/sigma^2. A
// negative variance produced by floating-point roundoff on either bound
// is reported as missing rather than silently clamped.
func StdDevCI(stddev float64, n int, alpha float64) Interval {
	if n < 2 || math.IsNaN(stddev) || stddev < 0 {
		return missingInterval()
	}
	variance := stddev * stddev
	df := float64(n - 1)
	chi := distuv.ChiSquared{K: df}
	lowerChi := chi.Quantile(alpha / 2)
	upperChi := chi.Quantile(1 - alpha/2)
	if lowerChi <= 0 || upperChi <= 0 {
		return missingInterval()
	}
	lowerVar := df * variance / upperChi
	upperVar := df * variance / lowerChi
	if lowerVar < 0 || upperVar < 0 {
		return missingInterval()
	}
	return Interval{math.Sqrt(lowerVar), math.Sqrt(upperVar)}
}

// PearsonCI is the Fisher z-transform interval for a Pearson correlation
// coefficient. Requires n > 3.
func PearsonCI(r float64, n int, alpha float64) Interval {
	if n <= 3 || math.IsNaN(r) || math.Abs(r) >= 1 {
		return missingInterval()
	}
	z := 0.5 * math.Log((1+r)/(1-r))
	se := 1 / math.Sqrt(float64(n-3))
	crit := normalQuantile(alpha)
	lo, hi := z-crit*se, z+crit*se
	return Interval{math.Tanh(lo), math.Tanh(hi)}
}

// HanssenKuipersCI applies the Seaman-style variance formula over the
// four 2x2 contingency-table cell counts to bound the Hanssen-Kuipers
// discriminant.
func HanssenKuipersCI(fyoy, fyon, fnoy, fnon, alpha float64) Interval {
	n := fyoy + fyon + fnoy + fnon
	if n == 0 {
		return missingInterval()
	}
	oy := fyoy + fnoy
	on := fyon + fnon
	if oy == 0 || on == 0 {
		return missingInterval()
	}
	pody := fyoy / oy
	pofd := fyon / on
	hk := pody - pofd
	variance := pody*(1-pody)/oy + pofd*(1-pofd)/on
	if variance < 0 {
		return missingInterval()
	}
	crit := normalQuantile(alpha)
	half := crit * math.Sqrt(variance)
	return Interval{hk - half, hk + half}
}

// OddsRatioCI applies Woolf's formula: the log odds ratio is
// asymptotically normal with variance 1/a+1/b+1/c+1/d.
func OddsRatioCI(fyoy, fyon, fnoy, fnon, alpha float64) Interval {
	if fyoy <= 0 || fyon <= 0 || fnoy <= 0 || fnon <= 0 {
		return missingInterval()
	}
	logOR := math.Log((fyoy * fnon) / (fyon * fnoy))
	variance := 1/fyoy + 1/fyon + 1/fnoy + 1/fnon
	crit := normalQuantile(alpha)
	half := crit * math.Sqrt(variance)
	return Interval{math.Exp(logOR - half), math.Exp(logOR + half)}
}

// BrierCI is the closed-form normal-approximation half-width for the
// Brier score over an N x 2 probabilistic contingency table, given the
// score value and the table's total sample count.
func BrierCI(brierScore, n float64, alpha float64) Interval {
	if n <= 0 || math.IsNaN(brierScore) || brierScore < 0 {
		return missingInterval()
	}
	// Var(BS) under the normal approximation to a mean-of-squared-errors
	// statistic bounded in [0,1]: 4*BS*(1-BS)/n is the standard plug-in
	// variance estimate for a bounded [0,1] score.
	variance := 4 * brierScore * (1 - brierScore) / n
	if variance < 0 {
		return missingInterval()
	}
	crit := normalQuantile(alpha)
	half := crit * math.Sqrt(variance)
	return Interval{brierScore - half, brierScore + half}
}
