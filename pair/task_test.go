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

package pair

import (
	"math"
	"testing"
	"time"

	"github.com/dtcenter/MET-sub005/field"
	"github.com/dtcenter/MET-sub005/interp"
)

// identityProjector maps (lat, lon) directly onto grid coordinates,
// useful for tests that don't exercise real map projection arithmetic.
type identityProjector struct{ nx, ny int }

func (p identityProjector) ToGrid(lat, lon float64) (float64, float64, bool) {
	if lon < 0 || lon >= float64(p.nx) || lat < 0 || lat >= float64(p.ny) {
		return 0, 0, false
	}
	return lon, lat, true
}

func flatField(n int, v float64) *field.Field {
	f := field.New(n, n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			f.Put(x, y, v)
		}
	}
	return f
}

func newSurfaceTask(t *testing.T) *VerificationTask {
	t.Helper()
	fid := FieldIdentifier{Code: 11, LevelType: LevelAccum, LevelLow: 0, LevelHigh: 0}
	task, err := NewVerificationTask(fid, fid)
	if err != nil {
		t.Fatal(err)
	}
	task.BegUT = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task.EndUT = time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	task.InterpThreshold = 0
	task.FcstLevels = []*field.Field{flatField(9, 5)}
	task.ClimoLevels = []*field.Field{flatField(9, 4)}
	task.MessageTypes = []string{"ADPSFC"}
	task.Masks = []Mask{GridMask{Name: "FULL", Grid: allOnMask(9)}}
	task.InterpSpecs = []InterpSpec{{Method: interp.UWMean, Width: 3}}
	task.Projector = identityProjector{nx: 9, ny: 9}
	task.Init()
	return task
}

func allOnMask(n int) *field.Field {
	f := field.New(n, n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			f.Put(x, y, 1)
		}
	}
	return f
}

func TestAddObsAcceptsAndScores(t *testing.T) {
	task := newSurfaceTask(t)
	header := ObsHeader{Lat: 4, Lon: 4, MessageType: "ADPSFC", StationID: "KDEN",
		ValidTime: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	obs := ObsRecord{GribCode: 11, Level: 0, Value: 5.2}
	if err := task.AddObs(header, obs); err != nil {
		t.Fatal(err)
	}
	sets := task.PairSets()
	ps := sets[0][0][0]
	if len(ps.Pairs) != 1 {
		t.Fatalf("expected 1 matched pair, got %d", len(ps.Pairs))
	}
	p := ps.Pairs[0]
	if math.Abs(p.ObsValue-5.2) > 1e-9 {
		t.Errorf("ObsValue = %g, want 5.2", p.ObsValue)
	}
	if math.Abs(p.FcstValue-5) > 1e-9 {
		t.Errorf("FcstValue = %g, want 5", p.FcstValue)
	}
}

func TestAddObsRejectsWrongCode(t *testing.T) {
	task := newSurfaceTask(t)
	header := ObsHeader{Lat: 4, Lon: 4, MessageType: "ADPSFC",
		ValidTime: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	obs := ObsRecord{GribCode: 99, Level: 0, Value: 5.2}
	if err := task.AddObs(header, obs); err != nil {
		t.Fatal(err)
	}
	if task.Rejections[ReasonWrongCode] != 1 {
		t.Errorf("expected one wrong-code rejection, got %d", task.Rejections[ReasonWrongCode])
	}
	if len(task.PairSets()[0][0][0].Pairs) != 0 {
		t.Error("no pair should have been appended")
	}
}

func TestAddObsRejectsOutsideTimeWindow(t *testing.T) {
	task := newSurfaceTask(t)
	header := ObsHeader{Lat: 4, Lon: 4, MessageType: "ADPSFC",
		ValidTime: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)}
	obs := ObsRecord{GribCode: 11, Level: 0, Value: 5.2}
	if err := task.AddObs(header, obs); err != nil {
		t.Fatal(err)
	}
	if task.Rejections[ReasonOutsideTimeWindow] != 1 {
		t.Errorf("expected one time-window rejection, got %d", task.Rejections[ReasonOutsideTimeWindow])
	}
}

func TestAddObsRejectsBadObsValue(t *testing.T) {
	task := newSurfaceTask(t)
	header := ObsHeader{Lat: 4, Lon: 4, MessageType: "ADPSFC",
		ValidTime: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	obs := ObsRecord{GribCode: 11, Level: 0, Value: math.NaN()}
	if err := task.AddObs(header, obs); err != nil {
		t.Fatal(err)
	}
	if task.Rejections[ReasonBadObsValue] != 1 {
		t.Errorf("expected one bad-obs-value rejection, got %d", task.Rejections[ReasonBadObsValue])
	}
}

func TestAddObsRejectsOffGrid(t *testing.T) {
	task := newSurfaceTask(t)
	header := ObsHeader{Lat: 40, Lon: 40, MessageType: "ADPSFC",
		ValidTime: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	obs := ObsRecord{GribCode: 11, Level: 0, Value: 5.2}
	if err := task.AddObs(header, obs); err != nil {
		t.Fatal(err)
	}
	if task.Rejections[ReasonOffGrid] != 1 {
		t.Errorf("expected one off-grid rejection, got %d", task.Rejections[ReasonOffGrid])
	}
}

func TestFindBracketInterior(t *testing.T) {
	pressures := []float64{1000, 850, 700, 500, 300}
	low, high, err := findBracket(pressures, 600)
	if err != nil {
		t.Fatal(err)
	}
	if pressures[low] != 700 || pressures[high] != 500 {
		t.Errorf("bracket for 600 = (%g, %g), want (700, 500)", pressures[low], pressures[high])
	}
}

func TestFindBracketCollapsesAtEdges(t *testing.T) {
	pressures := []float64{1000, 850, 700, 500, 300}
	low, high, err := findBracket(pressures, 1100)
	if err != nil {
		t.Fatal(err)
	}
	if low != high || pressures[low] != 1000 {
		t.Errorf("above-range target should collapse to 1000, got (%d,%d)=%g,%g", low, high, pressures[low], pressures[high])
	}
	low, high, err = findBracket(pressures, 100)
	if err != nil {
		t.Fatal(err)
	}
	if low != high || pressures[low] != 300 {
		t.Errorf("below-range target should collapse to 300, got (%d,%d)=%g,%g", low, high, pressures[low], pressures[high])
	}
}

func TestPressureTaskVerticalInterpolation(t *testing.T) {
	fid := FieldIdentifier{Code: 11, LevelType: LevelPres, LevelLow: 300, LevelHigh: 1000}
	task, err := NewVerificationTask(fid, fid)
	if err != nil {
		t.Fatal(err)
	}
	task.BegUT = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task.EndUT = time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	task.FcstPressures = []float64{1000, 500}
	task.FcstLevels = []*field.Field{flatField(9, 10), flatField(9, 20)}
	task.ClimoPressures = task.FcstPressures
	task.ClimoLevels = task.FcstLevels
	task.MessageTypes = []string{"ADPUPA"}
	task.Masks = []Mask{GridMask{Name: "FULL", Grid: allOnMask(9)}}
	task.InterpSpecs = []InterpSpec{{Method: interp.UWMean, Width: 1}}
	task.Projector = identityProjector{nx: 9, ny: 9}
	task.Init()

	header := ObsHeader{Lat: 4, Lon: 4, MessageType: "ADPUPA",
		ValidTime: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	obs := ObsRecord{GribCode: 11, Level: 707.107, Value: 12}
	if err := task.AddObs(header, obs); err != nil {
		t.Fatal(err)
	}
	pairs := task.PairSets()[0][0][0].Pairs
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if math.Abs(pairs[0].FcstValue-15.0) > 1e-3 {
		t.Errorf("vertically-interpolated fcst value = %g, want ~15.0", pairs[0].FcstValue)
	}
}

func TestMessageTypeWildcards(t *testing.T) {
	if !matchesMessageType("ANYAIR", "ADPUPA", []string{"ADPUPA", "AIRCAR"}, nil, nil) {
		t.Error("ANYAIR should match a configured air type")
	}
	if matchesMessageType("ANYAIR", "ADPSFC", []string{"ADPUPA"}, nil, nil) {
		t.Error("ANYAIR should not match a non-member type")
	}
	if !matchesMessageType("ADPSFC", "ADPSFC", nil, nil, nil) {
		t.Error("an exact string pattern should match itself")
	}
}
