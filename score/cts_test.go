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
	"testing"

	"github.com/dtcenter/MET-sub005/field"
	"github.com/dtcenter/MET-sub005/pair"
)

func samplePairSet(fcst, obs []float64) *pair.PairSet {
	ps := &pair.PairSet{}
	for i := range fcst {
		ps.Pairs = append(ps.Pairs, pair.MatchedPair{FcstValue: fcst[i], ObsValue: obs[i], ClimoValue: math.NaN()})
	}
	return ps
}

func TestBuildCTS2x2Counts(t *testing.T) {
	ps := samplePairSet(
		[]float64{1, 1, 0, 0},
		[]float64{1, 0, 1, 0},
	)
	c := BuildCTS2x2(ps, field.ThresholdGE, field.ThresholdGE, 1, 1)
	if c.FYOY != 1 || c.FYON != 1 || c.FNOY != 1 || c.FNON != 1 {
		t.Errorf("table = %+v, want one of each cell", c)
	}
}

func TestCTSPerfectForecastScores(t *testing.T) {
	c := CTS2x2{FYOY: 8, FYON: 0, FNOY: 0, FNON: 2}
	info := c.Compute()
	if math.Abs(info.ACC-1) > 1e-9 {
		t.Errorf("ACC = %g, want 1", info.ACC)
	}
	if math.Abs(info.PODY-1) > 1e-9 {
		t.Errorf("PODY = %g, want 1", info.PODY)
	}
	if math.Abs(info.FAR-0) > 1e-9 {
		t.Errorf("FAR = %g, want 0", info.FAR)
	}
	if math.Abs(info.CSI-1) > 1e-9 {
		t.Errorf("CSI = %g, want 1", info.CSI)
	}
}

func TestCTSEmptyTableIsMissing(t *testing.T) {
	c := CTS2x2{}
	info := c.Compute()
	if !math.IsNaN(info.ACC) {
		t.Errorf("empty table ACC should be NaN, got %g", info.ACC)
	}
}

func TestCTSOddsRatioZeroDenominator(t *testing.T) {
	c := CTS2x2{FYOY: 5, FYON: 0, FNOY: 3, FNON: 2}
	info := c.Compute()
	if !math.IsNaN(info.OddsRatio) {
		t.Errorf("zero-denominator odds ratio should be NaN, got %g", info.OddsRatio)
	}
}
