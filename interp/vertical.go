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

package interp

import (
	"fmt"
	"math"
)

// Vertical interpolates linearly in log-pressure space between level 1
// (v1 at pressure p1) and level 2 (v2 at pressure p2) to pressure pStar.
// specificHumidity selects an alternate mode: for specific humidity the
// values themselves are interpolated in log-space (log(v1), log(v2))
// rather than linearly, since specific humidity varies
// quasi-exponentially with pressure; every other variable interpolates
// linearly in v against log(p).
func Vertical(v1, p1, v2, p2, pStar float64, specificHumidity bool) (float64, error) {
	if p1 <= 0 || p2 <= 0 || pStar <= 0 {
		return 0, fmt.Errorf("interp: Vertical: pressures must be positive (p1=%g p2=%g pStar=%g)", p1, p2, pStar)
	}
	if p1 == p2 {
		return 0, fmt.Errorf("interp: Vertical: p1 and p2 must differ")
	}

	lp1, lp2, lpStar := math.Log(p1), math.Log(p2), math.Log(pStar)
	t := (lpStar - lp1) / (lp2 - lp1)

	if specificHumidity {
		if v1 <= 0 || v2 <= 0 {
			return 0, fmt.Errorf("interp: Vertical: specific humidity values must be positive for log-space interpolation")
		}
		lv := math.Log(v1) + t*(math.Log(v2)-math.Log(v1))
		return math.Exp(lv), nil
	}
	return v1 + t*(v2-v1), nil
}
