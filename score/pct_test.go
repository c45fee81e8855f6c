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

func TestPCTPerfectForecastZeroBrier(t *testing.T) {
	ps := &pair.PairSet{}
	for _, v := range []float64{0, 0, 1, 1} {
		ps.Pairs = append(ps.Pairs, pair.MatchedPair{FcstValue: v, ObsValue: v})
	}
	table := BuildPCT(ps, []float64{0.5}, field.ThresholdGE, 1)
	info := table.Compute()
	if math.Abs(info.BrierScore) > 1e-9 {
		t.Errorf("perfect-certainty forecast should have zero Brier score, got %g", info.BrierScore)
	}
	if math.Abs(info.Reliability) > 1e-9 {
		t.Errorf("perfect-certainty forecast should have zero reliability term, got %g", info.Reliability)
	}
}

func TestPCTClimatologyHasZeroResolution(t *testing.T) {
	ps := &pair.PairSet{}
	for i := 0; i < 10; i++ {
		obs := 0.0
		if i%2 == 0 {
			obs = 1
		}
		ps.Pairs = append(ps.Pairs, pair.MatchedPair{FcstValue: 0.5, ObsValue: obs})
	}
	table := BuildPCT(ps, []float64{0.3, 0.7}, field.ThresholdGE, 1)
	info := table.Compute()
	if math.Abs(info.Resolution) > 1e-9 {
		t.Errorf("a single constant-probability bin should have zero resolution, got %g", info.Resolution)
	}
}

func TestPCTEmptyIsMissing(t *testing.T) {
	table := PCTTable{Bins: []PCTBin{{}}}
	info := table.Compute()
	if !math.IsNaN(info.BrierScore) {
		t.Errorf("empty table Brier score should be NaN, got %g", info.BrierScore)
	}
}

func TestPCTROCPointsMonotoneAndBounded(t *testing.T) {
	ps := &pair.PairSet{}
	for _, v := range []struct{ f, o float64 }{
		{0.1, 0}, {0.3, 0}, {0.5, 1}, {0.7, 0}, {0.9, 1}, {0.95, 1},
	} {
		ps.Pairs = append(ps.Pairs, pair.MatchedPair{FcstValue: v.f, ObsValue: v.o})
	}
	table := BuildPCT(ps, []float64{0.2, 0.4, 0.6, 0.8}, field.ThresholdGE, 1)
	points := table.ROCPoints()
	if len(points) != 5 {
		t.Fatalf("expected 5 ROC points for 5 bins, got %d", len(points))
	}
	var prevPody, prevPofd float64
	for i, p := range points {
		if p.PODY < prevPody-1e-12 || p.POFD < prevPofd-1e-12 {
			t.Errorf("ROC point %d not monotone non-decreasing: %+v (prev pody=%v pofd=%v)", i, p, prevPody, prevPofd)
		}
		if p.PODY < 0 || p.PODY > 1 || p.POFD < 0 || p.POFD > 1 {
			t.Errorf("ROC point %d out of [0,1]: %+v", i, p)
		}
		prevPody, prevPofd = p.PODY, p.POFD
	}
	last := points[len(points)-1]
	if math.Abs(last.PODY-1) > 1e-9 || math.Abs(last.POFD-1) > 1e-9 {
		t.Errorf("lowest cutoff should classify everything as yes (PODY=POFD=1), got %+v", last)
	}
}

func TestPCTCalibrationBins(t *testing.T) {
	ps := &pair.PairSet{}
	ps.Pairs = append(ps.Pairs,
		pair.MatchedPair{FcstValue: 0.2, ObsValue: 0},
		pair.MatchedPair{FcstValue: 0.2, ObsValue: 1},
		pair.MatchedPair{FcstValue: 0.8, ObsValue: 1},
	)
	table := BuildPCT(ps, []float64{0.5}, field.ThresholdGE, 1)
	bins := table.Calibration()
	if len(bins) != 2 {
		t.Fatalf("expected 2 calibration bins, got %d", len(bins))
	}
	if math.Abs(bins[0].ForecastMean-0.2) > 1e-9 {
		t.Errorf("bin 0 forecast mean = %v, want 0.2", bins[0].ForecastMean)
	}
	if math.Abs(bins[0].ObservedFreq-0.5) > 1e-9 {
		t.Errorf("bin 0 observed frequency = %v, want 0.5", bins[0].ObservedFreq)
	}
	if math.Abs(bins[1].ObservedFreq-1.0) > 1e-9 {
		t.Errorf("bin 1 observed frequency = %v, want 1.0", bins[1].ObservedFreq)
	}
}
