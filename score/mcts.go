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

	"github.com/dtcenter/MET-sub005/pair"
)

// MCTSTable is a K x K contingency table over a sorted list of K-1
// category thresholds, so K = len(thresholds)+1 categories. Table[i][j]
// counts pairs whose forecast fell in category i and observation fell
// in category j.
type MCTSTable struct {
	Thresholds []float64
	Table      [][]float64
}

func mctsCategory(v float64, thresholds []float64) int {
	n := 0
	for _, t := range thresholds {
		if v > t {
			n++
		}
	}
	return n
}

// BuildMCTS bins every pair in ps into K = len(thresholds)+1 categories
// using the shared threshold list for both forecast and observation, and
// accumulates the K x K table.
func BuildMCTS(ps *pair.PairSet, thresholds []float64) MCTSTable {
	k := len(thresholds) + 1
	table := make([][]float64, k)
	for i := range table {
		table[i] = make([]float64, k)
	}
	for _, p := range ps.Pairs {
		i := mctsCategory(p.FcstValue, thresholds)
		j := mctsCategory(p.ObsValue, thresholds)
		table[i][j]++
	}
	return MCTSTable{Thresholds: thresholds, Table: table}
}

// MCTSInfo holds the derived multi-category scores.
type MCTSInfo struct {
	Accuracy float64
	HK       float64
	HSS      float64
	Gerrity  float64
}

// Compute derives accuracy, the generalized Hanssen-Kuipers (Peirce) skill
// score, the generalized Heidke skill score, and the Gerrity skill score
// from an arbitrary K x K table, including the general-K Gerrity
// extension.
func (m MCTSTable) Compute() MCTSInfo {
	k := len(m.Table)
	var n float64
	rowTotal := make([]float64, k)
	colTotal := make([]float64, k)
	var diagSum float64
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			v := m.Table[i][j]
			n += v
			rowTotal[i] += v
			colTotal[j] += v
			if i == j {
				diagSum += v
			}
		}
	}
	info := MCTSInfo{}
	if n == 0 || k == 0 {
		info.Accuracy, info.HK, info.HSS, info.Gerrity = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return info
	}
	info.Accuracy = diagSum / n

	var sumRowColProd, sumColSq float64
	for i := 0; i < k; i++ {
		sumRowColProd += rowTotal[i] * colTotal[i]
		sumColSq += colTotal[i] * colTotal[i]
	}
	info.HK = safeDiv(n*diagSum-sumRowColProd, n*n-sumColSq)
	info.HSS = safeDiv(n*diagSum-sumRowColProd, n*n-sumRowColProd)
	info.Gerrity = gerrityScore(m.Table, colTotal, n)
	return info
}

// gerrityScore computes the Gerrity skill score for an arbitrary K x K
// table using the recursive scoring-matrix construction: cumulative
// column proportions D_i, base weights a_i = (1-D_i)/D_i, and the
// triangular scoring matrix s(i,j) built from running sums of a_i and
// 1/a_i.
func gerrityScore(table [][]float64, colTotal []float64, n float64) float64 {
	k := len(table)
	if k < 2 || n == 0 {
		return math.NaN()
	}
	// D_1..D_{k-1} (1-indexed in the classical derivation; here d[r] holds
	// D_{r+1} for r = 0..k-2).
	d := make([]float64, k-1)
	cum := 0.0
	for r := 0; r < k-1; r++ {
		cum += colTotal[r]
		d[r] = cum / n
	}
	a := make([]float64, k-1)
	for r := 0; r < k-1; r++ {
		if d[r] <= 0 || d[r] >= 1 {
			return math.NaN()
		}
		a[r] = (1 - d[r]) / d[r]
	}

	// Prefix sums of a and 1/a for O(1) range-sum lookups: sumA[i] = sum
	// a[0:i], sumInvA[i] = sum (1/a)[0:i].
	sumA := make([]float64, k)
	sumInvA := make([]float64, k)
	for r := 0; r < k-1; r++ {
		sumA[r+1] = sumA[r] + a[r]
		sumInvA[r+1] = sumInvA[r] + 1/a[r]
	}
	rangeSum := func(sum []float64, lo, hi int) float64 {
		// sum over indices [lo, hi) of the underlying series, 0-indexed.
		if lo >= hi {
			return 0
		}
		return sum[hi] - sum[lo]
	}

	s := make([][]float64, k)
	for i := range s {
		s[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			var val float64
			if i == j {
				val = rangeSum(sumInvA, 0, i) + rangeSum(sumA, i, k-1)
			} else {
				val = rangeSum(sumInvA, 0, i) - float64(j-i) + rangeSum(sumA, j, k-1)
			}
			val /= float64(k - 1)
			s[i][j] = val
			s[j][i] = val
		}
	}

	var gs float64
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			gs += table[i][j] * s[i][j]
		}
	}
	return gs / n
}
