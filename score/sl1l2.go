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

// SL1L2 is the scalar partial-sum accumulator. Sums (not means) are
// stored internally so that Merge is exact addition; Mean* methods
// divide through on demand.
type SL1L2 struct {
	Count                         float64
	SumF, SumO, SumFO, SumF2, SumO2 float64
}

// BuildSL1L2 accumulates a Pair Set's forecast/observation sums. Any pair
// lacking climatology still contributes here.
func BuildSL1L2(ps *pair.PairSet) SL1L2 {
	var s SL1L2
	for _, p := range ps.Pairs {
		s.Count++
		s.SumF += p.FcstValue
		s.SumO += p.ObsValue
		s.SumFO += p.FcstValue * p.ObsValue
		s.SumF2 += p.FcstValue * p.FcstValue
		s.SumO2 += p.ObsValue * p.ObsValue
	}
	return s
}

// Merge combines two partial-sum blocks by addition; the result equals
// the block computed on the union of the underlying pairs.
func (s SL1L2) Merge(o SL1L2) SL1L2 {
	return SL1L2{
		Count: s.Count + o.Count,
		SumF:  s.SumF + o.SumF,
		SumO:  s.SumO + o.SumO,
		SumFO: s.SumFO + o.SumFO,
		SumF2: s.SumF2 + o.SumF2,
		SumO2: s.SumO2 + o.SumO2,
	}
}

// MeanF, MeanO, etc. are the count-weighted averages of the accumulated
// sums.
func (s SL1L2) MeanF() float64  { return safeDiv(s.SumF, s.Count) }
func (s SL1L2) MeanO() float64  { return safeDiv(s.SumO, s.Count) }
func (s SL1L2) MeanFO() float64 { return safeDiv(s.SumFO, s.Count) }
func (s SL1L2) MeanF2() float64 { return safeDiv(s.SumF2, s.Count) }
func (s SL1L2) MeanO2() float64 { return safeDiv(s.SumO2, s.Count) }

// CNTFromSL1L2 derives a CNTInfo (means, Pearson, MSE/RMSE/BCMSE, MBias)
// from an SL1L2 block alone, without retaining per-pair rank data.
func CNTFromSL1L2(s SL1L2) CNTInfo {
	info := CNTInfo{N: int(s.Count)}
	if s.Count == 0 {
		info.MeanF, info.MeanO = math.NaN(), math.NaN()
		info.Pearson, info.MSE, info.RMSE, info.BCMSE, info.MultiplicativeBias = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return info
	}
	mf, mo := s.MeanF(), s.MeanO()
	info.MeanF, info.MeanO = mf, mo
	varF := s.MeanF2() - mf*mf
	varO := s.MeanO2() - mo*mo
	covFO := s.MeanFO() - mf*mo
	info.MSE = s.MeanF2() - 2*s.MeanFO() + s.MeanO2()
	info.RMSE = math.Sqrt(math.Max(info.MSE, 0))
	bc := info.MSE - (mf-mo)*(mf-mo)
	if bc < 0 {
		bc = math.NaN()
	}
	info.BCMSE = bc
	info.MultiplicativeBias = safeDiv(mf, mo)
	if varF > 0 && varO > 0 {
		info.Pearson = covFO / math.Sqrt(varF*varO)
	} else {
		info.Pearson = math.NaN()
	}
	return info
}

// SAL1L2 is the scalar-anomaly partial-sum accumulator: the same sums as
// SL1L2 but over (F-C, O-C) anomalies against a climatology value C.
type SAL1L2 struct {
	Count                         float64
	SumFA, SumOA, SumFOA, SumFA2, SumOA2 float64
}

// BuildSAL1L2 accumulates anomaly sums for every pair that carries a
// climatology value.
func BuildSAL1L2(ps *pair.PairSet, hasClimo func(pair.MatchedPair) bool) SAL1L2 {
	var s SAL1L2
	for _, p := range ps.Pairs {
		if !hasClimo(p) {
			continue
		}
		fa := p.FcstValue - p.ClimoValue
		oa := p.ObsValue - p.ClimoValue
		s.Count++
		s.SumFA += fa
		s.SumOA += oa
		s.SumFOA += fa * oa
		s.SumFA2 += fa * fa
		s.SumOA2 += oa * oa
	}
	return s
}

// Merge combines two anomaly partial-sum blocks by addition.
func (s SAL1L2) Merge(o SAL1L2) SAL1L2 {
	return SAL1L2{
		Count:   s.Count + o.Count,
		SumFA:   s.SumFA + o.SumFA,
		SumOA:   s.SumOA + o.SumOA,
		SumFOA:  s.SumFOA + o.SumFOA,
		SumFA2:  s.SumFA2 + o.SumFA2,
		SumOA2:  s.SumOA2 + o.SumOA2,
	}
}

func (s SAL1L2) MeanFA() float64  { return safeDiv(s.SumFA, s.Count) }
func (s SAL1L2) MeanOA() float64  { return safeDiv(s.SumOA, s.Count) }
func (s SAL1L2) MeanFOA() float64 { return safeDiv(s.SumFOA, s.Count) }
func (s SAL1L2) MeanFA2() float64 { return safeDiv(s.SumFA2, s.Count) }
func (s SAL1L2) MeanOA2() float64 { return safeDiv(s.SumOA2, s.Count) }
