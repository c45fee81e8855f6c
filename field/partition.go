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

// partition is a union-find (disjoint-set) structure used by the
// connected-component labeler to merge provisional labels discovered
// while scanning, by enumeration over the cells that turn out to belong
// to the same component.
type partition struct {
	parent []int
}

func newPartition(n int) *partition {
	p := &partition{parent: make([]int, n)}
	for i := range p.parent {
		p.parent[i] = i
	}
	return p
}

func (p *partition) grow(n int) {
	for len(p.parent) < n {
		p.parent = append(p.parent, len(p.parent))
	}
}

func (p *partition) find(i int) int {
	for p.parent[i] != i {
		p.parent[i] = p.parent[p.parent[i]]
		i = p.parent[i]
	}
	return i
}

// union merges the sets containing i and j. The smaller of the two
// representatives wins, so that the final dense relabeling is stable and
// ties resolve to the smallest merged representative.
func (p *partition) union(i, j int) {
	ri, rj := p.find(i), p.find(j)
	if ri == rj {
		return
	}
	if ri < rj {
		p.parent[rj] = ri
	} else {
		p.parent[ri] = rj
	}
}

// Labels is the output of ConnectedComponents: a same-shaped grid of dense
// component labels (1..N, 0 = not on) plus the component count.
type Labels struct {
	nx, ny int
	label  []int
	N      int
}

// NX returns the grid width.
func (l *Labels) NX() int { return l.nx }

// NY returns the grid height.
func (l *Labels) NY() int { return l.ny }

// At returns the component label (1..N) at (x, y), or 0 if the cell is not
// on.
func (l *Labels) At(x, y int) int { return l.label[y*l.nx+x] }

// Area returns the number of cells belonging to component lbl (1..N).
func (l *Labels) Area(lbl int) int {
	n := 0
	for _, v := range l.label {
		if v == lbl {
			n++
		}
	}
	return n
}

// ConnectedComponents performs two-pass 4-connected (with diagonal merge
// via IsOn neighbors) labeling of f's "on" cells: the first pass scans y
// descending, x descending, proposing labels from the four
// upward-and-right neighbors and recording merges in a partition; the
// second pass rewrites labels to a dense 1..N range.
func ConnectedComponents(f *Field) *Labels {
	nx, ny := f.nx, f.ny
	provisional := make([]int, nx*ny)
	next := 1
	p := newPartition(1)

	idx := func(x, y int) int { return y*nx + x }

	for y := ny - 1; y >= 0; y-- {
		for x := nx - 1; x >= 0; x-- {
			if !f.IsOn(x, y) {
				continue
			}
			// Four upward-and-right neighbors already visited in this
			// descending scan order: (x+1,y), (x,y+1), (x+1,y+1), (x-1,y+1).
			neighborLabels := []int{}
			for _, d := range [][2]int{{1, 0}, {0, 1}, {1, 1}, {-1, 1}} {
				nxp, nyp := x+d[0], y+d[1]
				if nxp < 0 || nxp >= nx || nyp < 0 || nyp >= ny {
					continue
				}
				if l := provisional[idx(nxp, nyp)]; l != 0 {
					neighborLabels = append(neighborLabels, l)
				}
			}
			var lbl int
			if len(neighborLabels) == 0 {
				lbl = next
				next++
				p.grow(next)
			} else {
				lbl = neighborLabels[0]
				for _, o := range neighborLabels[1:] {
					p.grow(len(p.parent))
					p.union(lbl, o)
				}
			}
			provisional[idx(x, y)] = lbl
		}
	}

	// Second pass: rewrite to dense 1..N, smallest representative wins.
	repToDense := make(map[int]int)
	final := make([]int, nx*ny)
	for i, l := range provisional {
		if l == 0 {
			continue
		}
		r := p.find(l)
		d, ok := repToDense[r]
		if !ok {
			d = len(repToDense) + 1
			repToDense[r] = d
		}
		final[i] = d
	}
	return &Labels{nx: nx, ny: ny, label: final, N: len(repToDense)}
}
