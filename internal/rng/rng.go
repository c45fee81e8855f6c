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

// Package rng resolves a configured RNG algorithm and seed into a single
// owned *rand.Rand stream, handed to the ci package's bootstrap
// resampler. The stream is never shared across tasks.
package rng

import (
	"fmt"
	"math/rand"
)

// Algorithm names a supported generator. The core does not implement
// multiple PRNG families itself (that would be reinventing math/rand);
// the name is kept as a CLI-facing parameter so task configs are
// self-describing and so an unsupported algorithm fails loudly instead
// of silently falling back.
type Algorithm string

const (
	// MT19937 is math/rand's default source, which is a lagged Fibonacci
	// generator rather than literal Mersenne Twister; the name matches
	// what most verification tooling in this domain calls its default
	// stream, using a domain-familiar name for generic machinery.
	MT19937 Algorithm = "mt19937"
)

// New resolves algorithm and seed into a *rand.Rand. Returns an error for
// any algorithm name this implementation does not recognize: an
// unsupported config value is a caller error, not a silent default.
func New(algorithm Algorithm, seed int64) (*rand.Rand, error) {
	switch algorithm {
	case MT19937, "":
		return rand.New(rand.NewSource(seed)), nil
	default:
		return nil, fmt.Errorf("rng: unsupported algorithm %q", algorithm)
	}
}
