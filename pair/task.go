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
	"fmt"
	"math"
	"time"

	"github.com/dtcenter/MET-sub005/field"
	"github.com/dtcenter/MET-sub005/interp"
)

// InterpSpec names one horizontal interpolation method/width combination
// a task evaluates.
type InterpSpec struct {
	Method interp.Method
	Width  int
}

// Rejection reason tags, surfaced by VerificationTask.Rejections as
// per-task rejection counts.
const (
	ReasonWrongCode         = "wrong_code"
	ReasonOutsideTimeWindow = "outside_time_window"
	ReasonBadObsValue       = "bad_obs_value"
	ReasonOffGrid           = "off_grid"
	ReasonLevelMismatch     = "level_mismatch"
	ReasonWrongMessageType  = "wrong_message_type"
	ReasonOutsideMask       = "outside_mask"
	ReasonBadForecast       = "bad_forecast"
)

// VerificationTask owns one forecast/observation verification: the
// vertical-level arrays, the 3-D Pair Set array, and the rejection
// diagnostics accumulated by AddObs.
type VerificationTask struct {
	FcstFieldID FieldIdentifier
	ObsFieldID  FieldIdentifier

	BegUT, EndUT    time.Time
	InterpThreshold float64

	// FcstLevels/FcstPressures and ClimoLevels/ClimoPressures are
	// parallel arrays: one 2-D field and one pressure value per
	// vertical level, ordered arbitrarily (bracket search does not
	// assume monotonicity beyond what findBracket documents).
	FcstLevels     []*field.Field
	FcstPressures  []float64
	ClimoLevels    []*field.Field
	ClimoPressures []float64

	MessageTypes []string
	Masks        []Mask
	InterpSpecs  []InterpSpec

	// Configured message-type wildcard memberships.
	AirTypes     []string
	SfcTypes     []string
	OnlySfcTypes []string

	Projector Projector

	sets       [][][]*PairSet
	Rejections map[string]int
}

// NewVerificationTask allocates a task's 3-D Pair Set array, one entry
// per (message type, mask, interp spec) combination.
func NewVerificationTask(fcstID, obsID FieldIdentifier) (*VerificationTask, error) {
	if err := fcstID.Validate(); err != nil {
		return nil, fmt.Errorf("pair: forecast field identifier: %w", err)
	}
	if err := obsID.Validate(); err != nil {
		return nil, fmt.Errorf("pair: observation field identifier: %w", err)
	}
	return &VerificationTask{
		FcstFieldID: fcstID,
		ObsFieldID:  obsID,
		Rejections:  make(map[string]int),
	}, nil
}

// Init builds the 3-D Pair Set array from the task's configured message
// types, masks, and interp specs. Must be called after those fields are
// populated and before AddObs.
func (t *VerificationTask) Init() {
	t.sets = make([][][]*PairSet, len(t.MessageTypes))
	for i, mt := range t.MessageTypes {
		t.sets[i] = make([][]*PairSet, len(t.Masks))
		for j, m := range t.Masks {
			t.sets[i][j] = make([]*PairSet, len(t.InterpSpecs))
			for k, is := range t.InterpSpecs {
				t.sets[i][j][k] = &PairSet{ID: PairSetID{
					MessageType:  mt,
					MaskID:       m.ID(),
					InterpMethod: is.Method,
					InterpWidth:  is.Width,
				}}
			}
		}
	}
}

// PairSets returns the task's 3-D Pair Set array, indexed
// [message_type][mask][interp].
func (t *VerificationTask) PairSets() [][][]*PairSet { return t.sets }

func (t *VerificationTask) reject(reason string) {
	t.Rejections[reason]++
}

// AddObs drives the seven-step decision sequence for one observation,
// appending matched pairs to every (message_type, mask, interp)
// combination it satisfies.
func (t *VerificationTask) AddObs(header ObsHeader, obs ObsRecord) error {
	// 1. Code filter.
	if obs.GribCode != t.ObsFieldID.Code {
		t.reject(ReasonWrongCode)
		return nil
	}
	// 2. Time window.
	if header.ValidTime.Before(t.BegUT) || header.ValidTime.After(t.EndUT) {
		t.reject(ReasonOutsideTimeWindow)
		return nil
	}
	// 3. Value validity.
	if math.IsNaN(obs.Value) {
		t.reject(ReasonBadObsValue)
		return nil
	}
	// 4. Projection.
	if t.Projector == nil {
		return fmt.Errorf("pair: AddObs: task has no Projector configured")
	}
	x, y, ok := t.Projector.ToGrid(header.Lat, header.Lon)
	if !ok {
		t.reject(ReasonOffGrid)
		return nil
	}
	// 5. Level filter.
	switch t.ObsFieldID.LevelType {
	case LevelPres:
		if obs.Level < t.ObsFieldID.LevelLow || obs.Level > t.ObsFieldID.LevelHigh {
			t.reject(ReasonLevelMismatch)
			return nil
		}
	case LevelVert:
		if !contains(t.SfcTypes, header.MessageType) {
			t.reject(ReasonLevelMismatch)
			return nil
		}
	case LevelAccum:
		if obs.Level != t.ObsFieldID.LevelLow {
			t.reject(ReasonLevelMismatch)
			return nil
		}
	}
	// 6. Vertical bracket.
	var fcstLow, fcstHigh int
	var pLow, pHigh float64
	bracketed := t.ObsFieldID.LevelType == LevelPres
	if bracketed {
		var err error
		fcstLow, fcstHigh, err = findBracket(t.FcstPressures, obs.Level)
		if err != nil {
			return fmt.Errorf("pair: AddObs: %w", err)
		}
		pLow, pHigh = t.FcstPressures[fcstLow], t.FcstPressures[fcstHigh]
	}

	// 7. Message-type, mask, interp loop.
	for i, mt := range t.MessageTypes {
		if !matchesMessageType(mt, header.MessageType, t.AirTypes, t.SfcTypes, t.OnlySfcTypes) {
			t.reject(ReasonWrongMessageType)
			continue
		}
		for j, m := range t.Masks {
			if pm, isPolyline := m.(PolylineMask); isPolyline {
				if !pm.AcceptsLatLon(header.Lat, header.Lon) {
					t.reject(ReasonOutsideMask)
					continue
				}
			} else if !m.Accepts(x, y, header.StationID) {
				t.reject(ReasonOutsideMask)
				continue
			}
			for k, is := range t.InterpSpecs {
				fcstVal, ok := t.interpolate(t.FcstLevels, t.FcstPressures, fcstLow, fcstHigh, pLow, pHigh, bracketed, x, y, obs.Level, is)
				if !ok {
					t.reject(ReasonBadForecast)
					continue
				}
				climoVal, _ := t.interpolate(t.ClimoLevels, t.ClimoPressures, fcstLow, fcstHigh, pLow, pHigh, bracketed, x, y, obs.Level, is)

				t.sets[i][j][k].Pairs = append(t.sets[i][j][k].Pairs, MatchedPair{
					StationID:  header.StationID,
					Lat:        header.Lat,
					Lon:        header.Lon,
					Level:      obs.Level,
					Elevation:  obs.Elevation,
					FcstValue:  fcstVal,
					ClimoValue: climoVal,
					ObsValue:   obs.Value,
				})
			}
		}
	}
	return nil
}

// interpolate applies the horizontal operator at (x, y) to the
// bracketing levels of fields, then vertically interpolates to
// targetLevel. It returns ok=false if any required sample is missing.
func (t *VerificationTask) interpolate(fields []*field.Field, pressures []float64, lowIdx, highIdx int, pLow, pHigh float64, bracketed bool, x, y, targetLevel float64, is InterpSpec) (float64, bool) {
	if len(fields) == 0 {
		return 0, false
	}
	if !bracketed {
		v, err := interp.Horizontal(is.Method, fields[0], x, y, is.Width, t.InterpThreshold, 2)
		if err != nil || math.IsNaN(v) {
			return 0, false
		}
		return v, true
	}
	if lowIdx == highIdx {
		v, err := interp.Horizontal(is.Method, fields[lowIdx], x, y, is.Width, t.InterpThreshold, 2)
		if err != nil || math.IsNaN(v) {
			return 0, false
		}
		return v, true
	}
	v1, err := interp.Horizontal(is.Method, fields[lowIdx], x, y, is.Width, t.InterpThreshold, 2)
	if err != nil || math.IsNaN(v1) {
		return 0, false
	}
	v2, err := interp.Horizontal(is.Method, fields[highIdx], x, y, is.Width, t.InterpThreshold, 2)
	if err != nil || math.IsNaN(v2) {
		return 0, false
	}
	v, err := interp.Vertical(v1, pLow, v2, pHigh, targetLevel, t.ObsFieldID.SpecificHumidity)
	if err != nil {
		return 0, false
	}
	return v, true
}

// findBracket locates the forecast levels bracketing target within
// pressures, where pressures need not be sorted. The bracket consists of
// the nearest level at or above target (lower altitude, higher pressure)
// and the nearest level at or below target (higher altitude, lower
// pressure). If target lies outside the available range, both indices
// collapse to the single nearest level rather than extrapolating.
func findBracket(pressures []float64, target float64) (lowIdx, highIdx int, err error) {
	if len(pressures) == 0 {
		return 0, 0, fmt.Errorf("findBracket: no forecast pressure levels configured")
	}
	lowIdx, highIdx = -1, -1
	var lowP, highP float64
	for i, p := range pressures {
		if p >= target && (lowIdx == -1 || p < lowP) {
			lowIdx, lowP = i, p
		}
		if p <= target && (highIdx == -1 || p > highP) {
			highIdx, highP = i, p
		}
	}
	if lowIdx == -1 {
		// target above every available pressure: collapse to the highest.
		return highIdx, highIdx, nil
	}
	if highIdx == -1 {
		// target below every available pressure: collapse to the lowest.
		return lowIdx, lowIdx, nil
	}
	return lowIdx, highIdx, nil
}

func matchesMessageType(pattern, actual string, airTypes, sfcTypes, onlySfcTypes []string) bool {
	switch pattern {
	case "ANYAIR":
		return contains(airTypes, actual)
	case "ANYSFC":
		return contains(sfcTypes, actual)
	case "ONLYSF":
		return contains(onlySfcTypes, actual)
	default:
		return pattern == actual
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
