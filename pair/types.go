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

// Package pair implements the matched-pair construction that reconciles
// forecast grids, climatology grids, and scattered point observations
// across vertical levels, masking regions, message types, and
// interpolation methods.
package pair

import (
	"fmt"
	"math"
	"time"

	"github.com/ctessum/geom"
	"github.com/dtcenter/MET-sub005/field"
	"github.com/dtcenter/MET-sub005/interp"
)

// LevelType names the vertical-level convention a Field Identifier uses.
type LevelType int

const (
	LevelNone LevelType = iota
	LevelAccum
	LevelVert
	LevelPres
	LevelRecord
)

// FieldIdentifier names the physical variable to verify.
type FieldIdentifier struct {
	Code             int
	LevelType        LevelType
	LevelLow         float64
	LevelHigh        float64
	VectorFlag       bool
	ProbabilityFlag  bool
	SpecificHumidity bool
}

// String renders the canonical form, ordering high-pressure (lower
// altitude) first for pressure-level ranges.
func (fi FieldIdentifier) String() string {
	if fi.LevelType == LevelPres && fi.LevelLow != fi.LevelHigh {
		hi, lo := fi.LevelHigh, fi.LevelLow
		if hi < lo {
			hi, lo = lo, hi
		}
		return fmt.Sprintf("P%d-%d", int(hi), int(lo))
	}
	return fmt.Sprintf("L%d", int(fi.LevelLow))
}

// Validate enforces the Field Identifier invariants: pressure ranges
// require level_low <= level_high, and a range is only legal for a Pres
// level type.
func (fi FieldIdentifier) Validate() error {
	if fi.LevelLow != fi.LevelHigh && fi.LevelType != LevelPres {
		return fmt.Errorf("pair: level range given for non-pressure level type %v", fi.LevelType)
	}
	if fi.LevelType == LevelPres && fi.LevelLow > fi.LevelHigh {
		return fmt.Errorf("pair: pressure range requires level_low <= level_high, got [%g, %g]", fi.LevelLow, fi.LevelHigh)
	}
	return nil
}

// MatchedPair is one reconciled (forecast, climatology, observation)
// triple located at a station.
type MatchedPair struct {
	StationID  string
	Lat, Lon   float64
	Level      float64
	Elevation  float64
	FcstValue  float64
	ClimoValue float64
	ObsValue   float64
}

// PairSetID identifies a Pair Set within a Verification Task's 3-D array.
type PairSetID struct {
	MessageType  string
	MaskID       string
	InterpMethod interp.Method
	InterpWidth  int
}

// PairSet is an ordered collection of Matched Pairs sharing an identifier.
// Ingestion order is preserved.
type PairSet struct {
	ID    PairSetID
	Pairs []MatchedPair
}

// Append adds a pair, enforcing that neither its forecast nor its
// observation value is missing.
func (ps *PairSet) Append(p MatchedPair) {
	if math.IsNaN(p.FcstValue) || math.IsNaN(p.ObsValue) {
		panic("pair: attempted to append a matched pair with missing forecast or observation value")
	}
	ps.Pairs = append(ps.Pairs, p)
}

// ObsHeader is the per-report metadata shared by every observation
// belonging to one source record.
type ObsHeader struct {
	Lat, Lon    float64
	Elevation   float64
	MessageType string
	StationID   string
	ValidTime   time.Time
}

// ObsRecord is a single scattered point observation.
type ObsRecord struct {
	HeaderIndex int
	GribCode    int
	Level       float64
	Elevation   float64
	Value       float64
}

// Projector converts geographic coordinates to fractional grid
// coordinates. Implementations own the map projection and grid geometry;
// the pair package treats it as an opaque contract; real projection
// arithmetic lives with the caller.
type Projector interface {
	ToGrid(lat, lon float64) (x, y float64, ok bool)
}

// Mask selects which observations a Pair Set accepts, either by grid
// location or by station identity.
type Mask interface {
	ID() string
	Accepts(x, y float64, stationID string) bool
}

// GridMask wraps a 0/1 Quantized Field evaluated at the observation's
// grid location.
type GridMask struct {
	Name string
	Grid *field.Field
}

func (m GridMask) ID() string { return m.Name }

func (m GridMask) Accepts(x, y float64, _ string) bool {
	xi, yi := int(x+0.5), int(y+0.5)
	if xi < 0 || yi < 0 || xi >= m.Grid.NX() || yi >= m.Grid.NY() {
		return false
	}
	return m.Grid.IsOn(xi, yi)
}

// StationMask accepts an observation whose station ID matches exactly.
type StationMask struct {
	Name      string
	StationID string
}

func (m StationMask) ID() string { return m.Name }

func (m StationMask) Accepts(_, _ float64, stationID string) bool {
	return stationID == m.StationID
}

// PolylineMask accepts an observation whose (lat, lon) falls inside a
// named polygon, via a ray-casting inside-test. Longitude sign
// convention is the caller's responsibility; Polygon coordinates are
// taken verbatim as (lon, lat) pairs in geom.Point form.
type PolylineMask struct {
	Name    string
	Polygon geom.Polygon
}

func (m PolylineMask) ID() string { return m.Name }

// AcceptsLatLon reports whether (lat, lon) falls inside the polygon.
// PolylineMask is evaluated against geographic coordinates, not grid
// coordinates, so it does not implement Mask's (x, y) signature directly;
// the task's mask loop calls this variant when the mask is a
// PolylineMask.
func (m PolylineMask) AcceptsLatLon(lat, lon float64) bool {
	pt := geom.Point{X: lon, Y: lat}
	return pt.Within(m.Polygon) != geom.Outside
}

func (m PolylineMask) Accepts(_, _ float64, _ string) bool {
	panic("pair: PolylineMask.Accepts called directly; use AcceptsLatLon")
}
