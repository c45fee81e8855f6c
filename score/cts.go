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

// Package score implements the verification score families: categorical
// (CTS), multi-category (MCTS), continuous (CNT), scalar/vector partial
// sums, probabilistic (PCT), neighborhood (NBRCTS/NBRCNT), and
// intensity-scale (ISC).
package score

import (
	"math"

	"github.com/dtcenter/MET-sub005/field"
	"github.com/dtcenter/MET-sub005/pair"
)

// CTS2x2 is a 2x2 contingency table over a single (forecast, observation)
// threshold pair.
type CTS2x2 struct {
	FYOY, FYON, FNOY, FNON float64
}

// N is the total sample count of the table.
func (c CTS2x2) N() float64 { return c.FYOY + c.FYON + c.FNOY + c.FNON }

// BuildCTS2x2 classifies every pair in ps against the forecast and
// observation threshold predicates, accumulating the contingency table.
func BuildCTS2x2(ps *pair.PairSet, fKind, oKind field.ThresholdKind, fThr, oThr float64) CTS2x2 {
	var c CTS2x2
	for _, p := range ps.Pairs {
		fy := fKind.Satisfies(p.FcstValue, fThr)
		oy := oKind.Satisfies(p.ObsValue, oThr)
		switch {
		case fy && oy:
			c.FYOY++
		case fy && !oy:
			c.FYON++
		case !fy && oy:
			c.FNOY++
		default:
			c.FNON++
		}
	}
	return c
}

// CTSInfo holds the derived categorical scores.
type CTSInfo struct {
	Table                                      CTS2x2
	BASER, FMEAN, ACC, FBIAS                   float64
	PODY, PODN, POFD, FAR, CSI                 float64
	GSS, HK, HSS                               float64
	OddsRatio                                  float64
}

// Compute derives the full set of categorical scores from the table.
// Any score whose denominator is zero or undefined is reported as NaN
// (missing).
func (c CTS2x2) Compute() CTSInfo {
	a, b, cc, d := c.FYOY, c.FYON, c.FNOY, c.FNON
	n := a + b + cc + d
	info := CTSInfo{Table: c}
	if n == 0 {
		info.BASER, info.FMEAN, info.ACC, info.FBIAS = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		info.PODY, info.PODN, info.POFD, info.FAR, info.CSI = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
		info.GSS, info.HK, info.HSS, info.OddsRatio = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return info
	}
	info.BASER = (a + cc) / n
	info.FMEAN = (a + b) / n
	info.ACC = (a + d) / n
	info.FBIAS = safeDiv(a+b, a+cc)
	info.PODY = safeDiv(a, a+cc)
	info.PODN = safeDiv(d, d+b)
	info.POFD = safeDiv(b, b+d)
	info.FAR = safeDiv(b, b+a)
	info.CSI = safeDiv(a, a+b+cc)

	hitsRandom := (a + b) * (a + cc) / n
	info.GSS = safeDiv(a-hitsRandom, a+b+cc-hitsRandom)
	info.HK = info.PODY - info.POFD
	info.HSS = safeDiv(2*(a*d-b*cc), (a+cc)*(cc+d)+(a+b)*(b+d))
	info.OddsRatio = safeDiv(a*d, b*cc)
	return info
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
