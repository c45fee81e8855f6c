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
)

func fourByFour(vals [16]float64) *field.Field {
	f := field.New(4, 4)
	i := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			f.Put(x, y, vals[i])
			i++
		}
	}
	return f
}

func TestComputeISCIdenticalFieldsZeroMSE(t *testing.T) {
	vals := [16]float64{
		9, 2, 9, 2,
		2, 9, 2, 9,
		9, 2, 9, 2,
		2, 9, 2, 9,
	}
	f := fourByFour(vals)
	info, err := ComputeISC(f, f, field.ThresholdGE, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(info.Whole.MSE) > 1e-9 {
		t.Errorf("identical fields should have zero whole-field MSE, got %g", info.Whole.MSE)
	}
	for i, s := range info.Scales {
		if math.Abs(s.MSE) > 1e-9 {
			t.Errorf("scale %d: identical fields should have zero MSE, got %g", i, s.MSE)
		}
	}
}

func TestComputeISCRejectsNonSquare(t *testing.T) {
	f := field.New(4, 2)
	o := field.New(4, 2)
	if _, err := ComputeISC(f, o, field.ThresholdGE, 1, 1); err == nil {
		t.Error("expected an error for a non-square field")
	}
}

func TestComputeISCRejectsNonPowerOfTwo(t *testing.T) {
	f := field.New(6, 6)
	o := field.New(6, 6)
	if _, err := ComputeISC(f, o, field.ThresholdGE, 1, 1); err == nil {
		t.Error("expected an error for a tile side that isn't a power of two")
	}
}

func TestComputeISCRejectsScaleTooLarge(t *testing.T) {
	f := field.New(4, 4)
	o := field.New(4, 4)
	if _, err := ComputeISC(f, o, field.ThresholdGE, 1, 3); err == nil {
		t.Error("expected an error when 2^nScale exceeds the tile side")
	}
}

func TestComputeISCScaleCountMatchesNScale(t *testing.T) {
	fVals := [16]float64{
		9, 2, 9, 2,
		2, 9, 2, 9,
		9, 2, 9, 2,
		2, 9, 2, 9,
	}
	oVals := [16]float64{
		9, 9, 2, 2,
		9, 9, 2, 2,
		2, 2, 9, 9,
		2, 2, 9, 9,
	}
	f := fourByFour(fVals)
	o := fourByFour(oVals)
	info, err := ComputeISC(f, o, field.ThresholdGE, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(info.Scales) != 2 {
		t.Fatalf("expected 2 scales, got %d", len(info.Scales))
	}
	for i, s := range info.Scales {
		if math.IsNaN(s.MSE) {
			t.Errorf("scale %d MSE is NaN", i)
		}
	}
}
