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

package field

import "testing"

func TestLabelingConservation(t *testing.T) {
	f := New(6, 6)
	on := [][2]int{{0, 0}, {1, 0}, {3, 3}, {4, 3}, {4, 4}, {5, 5}}
	for _, c := range on {
		f.Put(c[0], c[1], 1)
	}
	labels := ConnectedComponents(f)
	total := 0
	for lbl := 1; lbl <= labels.N; lbl++ {
		total += labels.Area(lbl)
	}
	if total != len(on) {
		t.Errorf("labeling conservation violated: sum of component areas = %d, want %d", total, len(on))
	}
}

func TestConnectedComponentsMerging(t *testing.T) {
	f := New(4, 4)
	// An L-shape that is a single 8-connected (and 4-connected) component.
	for _, c := range [][2]int{{0, 0}, {1, 0}, {1, 1}, {1, 2}} {
		f.Put(c[0], c[1], 1)
	}
	labels := ConnectedComponents(f)
	if labels.N != 1 {
		t.Errorf("expected 1 connected component, got %d", labels.N)
	}
	l0 := labels.At(0, 0)
	for _, c := range [][2]int{{1, 0}, {1, 1}, {1, 2}} {
		if labels.At(c[0], c[1]) != l0 {
			t.Errorf("cell %v should share label %d with (0,0), got %d", c, l0, labels.At(c[0], c[1]))
		}
	}
}

func TestMomentsEmptyField(t *testing.T) {
	f := New(3, 3)
	m := f.Moments()
	if m.Area != 0 {
		t.Errorf("empty field should have area 0, got %g", m.Area)
	}
	cx, cy := m.Centroid()
	if cx != 0 || cy != 0 {
		t.Errorf("empty field centroid should be (0,0), got (%g,%g)", cx, cy)
	}
}

func TestMomentsSquare(t *testing.T) {
	f := New(4, 4)
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 2; x++ {
			f.Put(x, y, 1)
		}
	}
	m := f.Moments()
	if m.Area != 4 {
		t.Errorf("square area = %g, want 4", m.Area)
	}
	cx, cy := m.Centroid()
	if cx != 1.5 || cy != 1.5 {
		t.Errorf("square centroid = (%g,%g), want (1.5,1.5)", cx, cy)
	}
}
