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

// Package config is the ambient configuration layer that binds a
// verification run's knobs (CI alphas, bootstrap method, RNG seed)
// to a viper-backed configuration tree, the way inmaputil/config.go binds
// the model's own run parameters. Parsing the actual forecast/observation
// file formats (GRIB, NetCDF, ASCII point obs) remains out of scope;
// this package only resolves the knobs the verify package's Driver needs
// to run.
package config

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/dtcenter/MET-sub005/ci"
	"github.com/dtcenter/MET-sub005/internal/rng"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds the bound configuration tree plus the cobra command tree that
// populates it, mirroring inmaputil.Cfg's *viper.Viper embedding.
type Cfg struct {
	*viper.Viper

	Root *cobra.Command
}

var options = []struct {
	name, usage, shorthand string
	defaultVal             interface{}
}{
	{name: "task_name", usage: "name of the verification task to run", defaultVal: "vx"},
	{name: "ci_alphas", usage: "two-sided confidence-interval alpha levels, e.g. 0.05,0.10", defaultVal: []string{"0.05"}},
	{name: "rank_correlation", usage: "compute Spearman/Kendall rank correlation in CNT", defaultVal: false},
	{name: "precip_epsilon", usage: "precipitation trivial-zero epsilon for rank correlation (<=0 disables)", defaultVal: 0.0},
	{name: "bootstrap_method", usage: "bootstrap CI method: percentile or bca", defaultVal: "percentile"},
	{name: "bootstrap_replicates", usage: "number of bootstrap replicates", defaultVal: 0},
	{name: "bootstrap_proportion", usage: "percentile-method subsample proportion (1.0 = full size)", defaultVal: 1.0},
	{name: "bootstrap_temp_dir", usage: "temp-directory hint for out-of-core replicate spill", defaultVal: ""},
	{name: "rng_algorithm", usage: "named RNG algorithm for the bootstrap's single owned stream", defaultVal: string(rng.MT19937)},
	{name: "rng_seed", usage: "seed for the bootstrap RNG stream", defaultVal: int64(0)},
}

// InitializeConfig builds the cobra/viper configuration tree: a root
// "vxverify" command whose flags double as viper-bound configuration
// variables, readable from a config file, a "VXVERIFY_"-prefixed
// environment variable, or the command line, in that increasing order of
// precedence.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "vxverify",
		Short: "A gridded meteorological verification engine.",
		Long: `vxverify matches forecast grids against point observations and
computes the categorical, continuous, probabilistic, neighborhood, and
intensity-scale verification statistics, with normal-theory and
bootstrap confidence intervals.

Configuration can be set via a config file (--config), environment
variables prefixed VXVERIFY_, or command-line flags.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setConfig(cfg)
		},
	}

	cfg.Root.PersistentFlags().String("config", "", "path to a configuration file")
	cfg.SetEnvPrefix("VXVERIFY")
	cfg.AutomaticEnv()

	var flags *pflag.FlagSet = cfg.Root.Flags()
	for _, option := range options {
		switch v := option.defaultVal.(type) {
		case string:
			flags.String(option.name, v, option.usage)
		case []string:
			flags.StringSlice(option.name, v, option.usage)
		case bool:
			flags.Bool(option.name, v, option.usage)
		case int:
			flags.Int(option.name, v, option.usage)
		case int64:
			flags.Int64(option.name, v, option.usage)
		case float64:
			flags.Float64(option.name, v, option.usage)
		default:
			panic(fmt.Errorf("config: invalid default value type %T for option %q", v, option.name))
		}
		if err := cfg.BindPFlag(option.name, flags.Lookup(option.name)); err != nil {
			panic(fmt.Errorf("config: binding flag %q: %w", option.name, err))
		}
	}
	return cfg
}

// setConfig reads in the configuration file named by --config, if any.
func setConfig(cfg *Cfg) error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("vxverify: reading configuration file: %w", err)
		}
	}
	return nil
}

// CIAlphas parses the ci_alphas option into a []float64, accepting either
// a comma-joined string (as produced by a command-line flag) or a native
// string slice (as produced by a config file).
func (cfg *Cfg) CIAlphas() ([]float64, error) {
	raw := cfg.GetStringSlice("ci_alphas")
	if len(raw) == 1 && strings.Contains(raw[0], ",") {
		raw = strings.Split(raw[0], ",")
	}
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := cast.ToFloat64E(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("vxverify: parsing ci_alphas entry %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// PrecipEpsilon returns the configured precipitation epsilon, or nil if
// disabled (<=0), matching score.CNT.Compute's *float64 contract.
func (cfg *Cfg) PrecipEpsilon() *float64 {
	eps := cfg.GetFloat64("precip_epsilon")
	if eps <= 0 {
		return nil
	}
	return &eps
}

// BootstrapSpec builds a ci.Spec from the bound bootstrap options, or nil
// if bootstrap_replicates is unset (0), meaning bootstrap CIs are
// disabled for this run.
func (cfg *Cfg) BootstrapSpec() (*ci.Spec, error) {
	reps := cfg.GetInt("bootstrap_replicates")
	if reps <= 0 {
		return nil, nil
	}
	var method ci.BootstrapMethod
	switch strings.ToLower(cfg.GetString("bootstrap_method")) {
	case "percentile", "":
		method = ci.Percentile
	case "bca":
		method = ci.BCa
	default:
		return nil, fmt.Errorf("vxverify: unrecognized bootstrap_method %q", cfg.GetString("bootstrap_method"))
	}
	return &ci.Spec{
		Method:     method,
		Replicates: reps,
		Proportion: cfg.GetFloat64("bootstrap_proportion"),
		TempDir:    os.ExpandEnv(cfg.GetString("bootstrap_temp_dir")),
	}, nil
}

// RNG constructs the task's single owned RNG stream from the bound
// rng_algorithm/rng_seed options; the stream is never shared across
// tasks.
func (cfg *Cfg) RNG() (*rand.Rand, error) {
	return rng.New(rng.Algorithm(cfg.GetString("rng_algorithm")), cfg.GetInt64("rng_seed"))
}
