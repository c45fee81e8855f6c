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

	"github.com/dtcenter/MET-sub005/pair"
)

// VL1L2 is the vector partial-sum accumulator.
type VL1L2 struct {
	Count                     float64
	SumUF, SumVF, SumUO, SumVO float64
	SumDotFO                  float64 // Σ(u·u+v·v)_fo
	SumSpeed2F, SumSpeed2O    float64 // Σ(u²+v²)
}

// Merge combines two vector partial-sum blocks by addition.
func (s VL1L2) Merge(o VL1L2) VL1L2 {
	return VL1L2{
		Count:      s.Count + o.Count,
		SumUF:      s.SumUF + o.SumUF,
		SumVF:      s.SumVF + o.SumVF,
		SumUO:      s.SumUO + o.SumUO,
		SumVO:      s.SumVO + o.SumVO,
		SumDotFO:   s.SumDotFO + o.SumDotFO,
		SumSpeed2F: s.SumSpeed2F + o.SumSpeed2F,
		SumSpeed2O: s.SumSpeed2O + o.SumSpeed2O,
	}
}

func (s VL1L2) MeanUF() float64 { return safeDiv(s.SumUF, s.Count) }
func (s VL1L2) MeanVF() float64 { return safeDiv(s.SumVF, s.Count) }
func (s VL1L2) MeanUO() float64 { return safeDiv(s.SumUO, s.Count) }
func (s VL1L2) MeanVO() float64 { return safeDiv(s.SumVO, s.Count) }

// VAL1L2 is the vector-anomaly counterpart of VL1L2, accumulated over
// (u,v) anomalies against climatology.
type VAL1L2 = VL1L2

// BuildVL1L2 consumes synchronized (u, v) Pair Sets (equal length,
// index-paired), optionally gated by forecast-speed and/or
// observation-speed thresholds: if both are given, both must pass; if
// only one is given, only that one gates acceptance. It returns the
// plain VL1L2 block
// and, separately, the VAL1L2 anomaly block computed only over pairs
// where both u and v carry a climatology value.
func BuildVL1L2(uSet, vSet *pair.PairSet, fSpeedThr, oSpeedThr *float64) (VL1L2, VAL1L2, error) {
	if len(uSet.Pairs) != len(vSet.Pairs) {
		return VL1L2{}, VAL1L2{}, fmt.Errorf("score: BuildVL1L2: u/v pair set lengths differ (%d vs %d)", len(uSet.Pairs), len(vSet.Pairs))
	}
	var plain, anom VL1L2
	for i := range uSet.Pairs {
		u := uSet.Pairs[i]
		v := vSet.Pairs[i]
		uF, vF := u.FcstValue, v.FcstValue
		uO, vO := u.ObsValue, v.ObsValue
		speedF := math.Hypot(uF, vF)
		speedO := math.Hypot(uO, vO)
		if !passesSpeedGate(speedF, speedO, fSpeedThr, oSpeedThr) {
			continue
		}

		plain.Count++
		plain.SumUF += uF
		plain.SumVF += vF
		plain.SumUO += uO
		plain.SumVO += vO
		plain.SumDotFO += uF*uO + vF*vO
		plain.SumSpeed2F += uF*uF + vF*vF
		plain.SumSpeed2O += uO*uO + vO*vO

		if !math.IsNaN(u.ClimoValue) && !math.IsNaN(v.ClimoValue) {
			uFA, vFA := uF-u.ClimoValue, vF-v.ClimoValue
			uOA, vOA := uO-u.ClimoValue, vO-v.ClimoValue
			anom.Count++
			anom.SumUF += uFA
			anom.SumVF += vFA
			anom.SumUO += uOA
			anom.SumVO += vOA
			anom.SumDotFO += uFA*uOA + vFA*vOA
			anom.SumSpeed2F += uFA*uFA + vFA*vFA
			anom.SumSpeed2O += uOA*uOA + vOA*vOA
		}
	}
	return plain, anom, nil
}

func passesSpeedGate(speedF, speedO float64, fThr, oThr *float64) bool {
	switch {
	case fThr != nil && oThr != nil:
		return speedF >= *fThr && speedO >= *oThr
	case fThr != nil:
		return speedF >= *fThr
	case oThr != nil:
		return speedO >= *oThr
	default:
		return true
	}
}
