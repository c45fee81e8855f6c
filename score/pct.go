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
	"github.com/dtcenter/MET-sub005/pair"
)

// PCTBin is one probability bin of a PCT table: the count of pairs whose
// forecast probability fell in the bin, split into event/non-event
// columns, plus the sum of forecast probabilities (for the reliability
// decomposition's bin mean).
type PCTBin struct {
	EventCount, NonEventCount float64
	SumProb                   float64
}

func (b PCTBin) n() float64 { return b.EventCount + b.NonEventCount }

// PCTTable bins a Pair Set's forecast probabilities against an
// observation-event threshold.
type PCTTable struct {
	Edges []float64 // interior bin edges in (0, 1), ascending
	Bins  []PCTBin
}

func pctBinIndex(p float64, edges []float64) int {
	n := 0
	for _, e := range edges {
		if p > e {
			n++
		}
	}
	return n
}

// BuildPCT partitions [0, 1] into len(edges)+1 bins and accumulates event
// counts for every pair whose observation satisfies oKind(obsValue, oThr).
func BuildPCT(ps *pair.PairSet, edges []float64, oKind field.ThresholdKind, oThr float64) PCTTable {
	bins := make([]PCTBin, len(edges)+1)
	for _, p := range ps.Pairs {
		i := pctBinIndex(p.FcstValue, edges)
		bins[i].SumProb += p.FcstValue
		if oKind.Satisfies(p.ObsValue, oThr) {
			bins[i].EventCount++
		} else {
			bins[i].NonEventCount++
		}
	}
	return PCTTable{Edges: edges, Bins: bins}
}

// PCTInfo holds the derived probabilistic scores, plus an RPS/RPSS
// supplement.
type PCTInfo struct {
	N                                 float64
	BrierScore                        float64
	Reliability, Resolution, Uncertainty float64
	RPS, RPSS                         float64
}

// Compute derives the Brier score and its reliability/resolution/
// uncertainty decomposition (Murphy 1973) from the binned table.
//
// RPS/RPSS: for a single binary event, the Ranked Probability Score over
// the two-category (event, non-event) outcome distribution reduces
// exactly to the Brier score, so RPS == BrierScore here; RPSS compares it
// against the Brier score of a constant climatological forecast.
func (t PCTTable) Compute() PCTInfo {
	var n, eventTotal float64
	for _, b := range t.Bins {
		n += b.n()
		eventTotal += b.EventCount
	}
	info := PCTInfo{N: n}
	if n == 0 {
		info.BrierScore, info.Reliability, info.Resolution, info.Uncertainty = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		info.RPS, info.RPSS = math.NaN(), math.NaN()
		return info
	}
	obar := eventTotal / n

	var reliability, resolution float64
	for _, b := range t.Bins {
		nk := b.n()
		if nk == 0 {
			continue
		}
		pbar := b.SumProb / nk
		obarK := b.EventCount / nk
		reliability += nk * (pbar - obarK) * (pbar - obarK)
		resolution += nk * (obarK - obar) * (obarK - obar)
	}
	reliability /= n
	resolution /= n
	uncertainty := obar * (1 - obar)

	info.Reliability = reliability
	info.Resolution = resolution
	info.Uncertainty = uncertainty
	info.BrierScore = reliability - resolution + uncertainty

	info.RPS = info.BrierScore
	climoBrier := uncertainty
	if climoBrier == 0 {
		info.RPSS = math.NaN()
	} else {
		info.RPSS = 1 - info.RPS/climoBrier
	}
	return info
}

// CalibrationBin is one row of the PJC (probability joint/calibration)
// output family: the mean forecast probability and observed relative
// frequency within a single bin, the reliability diagram's raw material.
type CalibrationBin struct {
	UpperEdge    float64 // 1.0 for the top bin
	N            float64
	ForecastMean float64
	ObservedFreq float64
}

// Calibration returns one CalibrationBin per probability bin, in
// ascending-probability order.
func (t PCTTable) Calibration() []CalibrationBin {
	out := make([]CalibrationBin, len(t.Bins))
	for i, b := range t.Bins {
		edge := 1.0
		if i < len(t.Edges) {
			edge = t.Edges[i]
		}
		n := b.n()
		cb := CalibrationBin{UpperEdge: edge, N: n}
		if n == 0 {
			cb.ForecastMean, cb.ObservedFreq = math.NaN(), math.NaN()
		} else {
			cb.ForecastMean = b.SumProb / n
			cb.ObservedFreq = b.EventCount / n
		}
		out[i] = cb
	}
	return out
}

// ROCPoint is one row of the PRC (ROC curve) output family: the
// probability-of-detection and probability-of-false-detection obtained
// by treating every bin at or above a cutoff as a "yes" forecast.
type ROCPoint struct {
	Cutoff     float64
	PODY, POFD float64
}

// ROCPoints sweeps the cutoff from the highest probability bin down to
// the lowest, accumulating event/non-event counts above each cutoff, and
// returns the resulting (PODY, POFD) pairs in descending-cutoff order,
// the standard ROC curve derived from a binned probability table.
func (t PCTTable) ROCPoints() []ROCPoint {
	n := len(t.Bins)
	var totalEvent, totalNonEvent float64
	for _, b := range t.Bins {
		totalEvent += b.EventCount
		totalNonEvent += b.NonEventCount
	}
	points := make([]ROCPoint, 0, n)
	var cumEvent, cumNonEvent float64
	for i := n - 1; i >= 0; i-- {
		cumEvent += t.Bins[i].EventCount
		cumNonEvent += t.Bins[i].NonEventCount
		cutoff := 0.0
		if i > 0 {
			cutoff = t.Edges[i-1]
		}
		pody, pofd := math.NaN(), math.NaN()
		if totalEvent > 0 {
			pody = cumEvent / totalEvent
		}
		if totalNonEvent > 0 {
			pofd = cumNonEvent / totalNonEvent
		}
		points = append(points, ROCPoint{Cutoff: cutoff, PODY: pody, POFD: pofd})
	}
	return points
}
