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

package config

import (
	"testing"

	"github.com/dtcenter/MET-sub005/ci"
)

func TestCIAlphasDefault(t *testing.T) {
	cfg := InitializeConfig()
	alphas, err := cfg.CIAlphas()
	if err != nil {
		t.Fatal(err)
	}
	if len(alphas) != 1 || alphas[0] != 0.05 {
		t.Errorf("CIAlphas() = %v, want [0.05]", alphas)
	}
}

func TestCIAlphasCommaJoined(t *testing.T) {
	cfg := InitializeConfig()
	if err := cfg.Root.Flags().Set("ci_alphas", "0.05,0.10"); err != nil {
		t.Fatal(err)
	}
	alphas, err := cfg.CIAlphas()
	if err != nil {
		t.Fatal(err)
	}
	if len(alphas) != 2 || alphas[0] != 0.05 || alphas[1] != 0.10 {
		t.Errorf("CIAlphas() = %v, want [0.05 0.10]", alphas)
	}
}

func TestBootstrapSpecDisabledByDefault(t *testing.T) {
	cfg := InitializeConfig()
	spec, err := cfg.BootstrapSpec()
	if err != nil {
		t.Fatal(err)
	}
	if spec != nil {
		t.Errorf("BootstrapSpec() = %+v, want nil when bootstrap_replicates is unset", spec)
	}
}

func TestBootstrapSpecResolvesMethod(t *testing.T) {
	cfg := InitializeConfig()
	if err := cfg.Root.Flags().Set("bootstrap_replicates", "500"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Root.Flags().Set("bootstrap_method", "bca"); err != nil {
		t.Fatal(err)
	}
	spec, err := cfg.BootstrapSpec()
	if err != nil {
		t.Fatal(err)
	}
	if spec == nil || spec.Method != ci.BCa || spec.Replicates != 500 {
		t.Errorf("BootstrapSpec() = %+v, want {Method: BCa, Replicates: 500, ...}", spec)
	}
}

func TestBootstrapSpecRejectsUnknownMethod(t *testing.T) {
	cfg := InitializeConfig()
	if err := cfg.Root.Flags().Set("bootstrap_replicates", "100"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Root.Flags().Set("bootstrap_method", "nonsense"); err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.BootstrapSpec(); err == nil {
		t.Error("expected an error for an unrecognized bootstrap_method")
	}
}

func TestRNGDefaultAlgorithm(t *testing.T) {
	cfg := InitializeConfig()
	if _, err := cfg.RNG(); err != nil {
		t.Fatalf("RNG() with default algorithm: %v", err)
	}
}

func TestRNGRejectsUnknownAlgorithm(t *testing.T) {
	cfg := InitializeConfig()
	if err := cfg.Root.Flags().Set("rng_algorithm", "nonsense"); err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.RNG(); err == nil {
		t.Error("expected an error for an unrecognized rng_algorithm")
	}
}

func TestPrecipEpsilonDisabledByDefault(t *testing.T) {
	cfg := InitializeConfig()
	if eps := cfg.PrecipEpsilon(); eps != nil {
		t.Errorf("PrecipEpsilon() = %v, want nil", *eps)
	}
}
