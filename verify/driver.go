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

package verify

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/dtcenter/MET-sub005/ci"
	"github.com/dtcenter/MET-sub005/field"
	"github.com/dtcenter/MET-sub005/pair"
	"github.com/dtcenter/MET-sub005/score"
	"github.com/sirupsen/logrus"
)

// CategoricalThreshold names one (forecast, observation) threshold pair
// the Driver evaluates CTS/FHO/CTC against.
type CategoricalThreshold struct {
	FKind, OKind field.ThresholdKind
	FThr, OThr   float64
	Label        string // canonical threshold string for the row's header
}

// VectorConfig pairs this task's u-component VerificationTask with its
// synchronized v-component counterpart for VL1L2/VAL1L2 scoring. VTask
// must share identical MessageTypes/Masks/InterpSpecs with the
// TaskConfig's own Task so that the 3-D Pair Set indices line up.
type VectorConfig struct {
	VTask                            *pair.VerificationTask
	FSpeedThreshold, OSpeedThreshold *float64
}

// NeighborhoodConfig drives NBRCTC/NBRCTS/NBRCNT scoring over whole
// forecast/observation fields at one or more neighborhood widths.
type NeighborhoodConfig struct {
	FcstField, ObsField *field.Field
	Widths              []int
	Kind                field.ThresholdKind
	Thr                 float64
	FracThr             float64
	ValidFraction       float64
}

// IntensityScaleConfig drives ISC scoring over a single whole-tile
// forecast/observation field pair.
type IntensityScaleConfig struct {
	FcstField, ObsField *field.Field
	Kind                field.ThresholdKind
	Thr                 float64
	NScale              int
}

// TaskConfig bundles a VerificationTask with the scoring configuration
// the Driver needs to route its Pair Sets through the score and CI
// engines: CI alpha levels and an optional bootstrap spec.
type TaskConfig struct {
	Name string
	Task *pair.VerificationTask

	CatThresholds  []CategoricalThreshold
	MCTSThresholds []float64

	RankCorrelation bool
	PrecipEpsilon   *float64

	ProbEdges []float64
	ProbOKind field.ThresholdKind
	ProbOThr  float64

	Vector         *VectorConfig
	Neighborhood   *NeighborhoodConfig
	IntensityScale *IntensityScaleConfig

	CIAlphas  []float64
	Bootstrap *ci.Spec
	RNG       *rand.Rand
}

// Driver iterates the verification task list, routes each task's Pair
// Sets through the score engine, applies the CI engine as requested, and
// emits rows to Sink.
type Driver struct {
	Sink RowSink
	Log  logrus.FieldLogger
}

// NewDriver constructs a Driver with the standard logrus logger.
func NewDriver(sink RowSink) *Driver {
	return &Driver{Sink: sink, Log: logrus.StandardLogger()}
}

// Run drives every configured task to completion. A fatal invariant
// violation inside a task (e.g. mismatched u/v pair counts) is raised as
// a panic at the point of discovery and converted to a returned error
// here, identifying the offending task via a panic-inside/recover-at-the-
// boundary convention.
func (d *Driver) Run(configs []TaskConfig) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("verify: driver aborted: %v", r)
		}
	}()
	for _, cfg := range configs {
		d.runTask(cfg)
	}
	return nil
}

func (d *Driver) runTask(cfg TaskConfig) {
	t := cfg.Task
	sets := t.PairSets()
	var vSets [][][]*pair.PairSet
	if cfg.Vector != nil {
		vSets = cfg.Vector.VTask.PairSets()
	}

	// Ordering guarantee: task, message-type, mask, interp, threshold, in
	// that nested order.
	for i, mt := range t.MessageTypes {
		for j, m := range t.Masks {
			for k, is := range t.InterpSpecs {
				ps := sets[i][j][k]
				header := HeaderContext{
					Model:         cfg.Name,
					FcstFieldName: t.FcstFieldID.String(),
					ObsFieldName:  t.ObsFieldID.String(),
					MessageType:   mt,
					MaskName:      m.ID(),
					InterpMethod:  is.Method.String(),
					InterpWidth:   is.Width,
				}
				d.scorePairSet(cfg, header, ps)

				if cfg.Vector != nil {
					d.scoreVector(cfg, header, ps, vSets[i][j][k])
				}
			}
		}
	}

	if cfg.Neighborhood != nil {
		d.scoreNeighborhood(cfg, HeaderContext{Model: cfg.Name, FcstFieldName: t.FcstFieldID.String(), ObsFieldName: t.ObsFieldID.String()})
	}
	if cfg.IntensityScale != nil {
		d.scoreISC(cfg, HeaderContext{Model: cfg.Name, FcstFieldName: t.FcstFieldID.String(), ObsFieldName: t.ObsFieldID.String()})
	}

	d.Log.WithFields(rejectionFields(t.Rejections)).WithField("task", cfg.Name).Info("verification task complete")
}

func rejectionFields(rejections map[string]int) logrus.Fields {
	f := make(logrus.Fields, len(rejections))
	for k, v := range rejections {
		f[k] = v
	}
	return f
}

func (d *Driver) scorePairSet(cfg TaskConfig, header HeaderContext, ps *pair.PairSet) {
	// One resampler per Pair Set: every bootstrap CI below shares the same
	// replicate draws, so cross-statistic covariance is preserved.
	rs := newResampler(cfg, ps)

	for _, p := range ps.Pairs {
		d.Sink.AppendMPR(MPRRow{
			Header:     header,
			StationID:  p.StationID,
			Lat:        p.Lat,
			Lon:        p.Lon,
			Level:      p.Level,
			Elevation:  p.Elevation,
			FcstValue:  p.FcstValue,
			ClimoValue: p.ClimoValue,
			ObsValue:   p.ObsValue,
		})
	}

	for _, th := range cfg.CatThresholds {
		d.scoreCategorical(cfg, header, ps, th, rs)
	}

	if len(cfg.MCTSThresholds) > 0 {
		d.scoreMultiCategory(cfg, header, ps)
	}

	d.scoreContinuous(cfg, header, ps, rs)
	d.scorePartialSums(cfg, header, ps)

	if len(cfg.ProbEdges) > 0 {
		d.scoreProbabilistic(cfg, header, ps, rs)
	}
}

func (d *Driver) scoreCategorical(cfg TaskConfig, header HeaderContext, ps *pair.PairSet, th CategoricalThreshold, rs *ci.Resampler) {
	table := score.BuildCTS2x2(ps, th.FKind, th.OKind, th.FThr, th.OThr)
	info := table.Compute()
	n := table.N()

	d.Sink.AppendFHO(FHORow{
		Header: header, Thresh: th.Label,
		FRate: safeDivLocal(table.FYOY+table.FYON, n),
		HRate: safeDivLocal(table.FYOY, n),
		ORate: safeDivLocal(table.FYOY+table.FNOY, n),
	})
	d.Sink.AppendCTC(CTCRow{Header: header, Thresh: th.Label, Table: table})

	row := CTSRow{Header: header, Thresh: th.Label, Info: info}
	for _, alpha := range cfg.CIAlphas {
		row.BaserCI = append(row.BaserCI, proportionScoreCI(rs, alpha, table.FYOY+table.FNOY, n, func(idx []int) float64 {
			return score.BuildCTS2x2(subsetPairSet(ps, idx), th.FKind, th.OKind, th.FThr, th.OThr).Compute().BASER
		}))
		row.PodyCI = append(row.PodyCI, proportionScoreCI(rs, alpha, table.FYOY, table.FYOY+table.FNOY, func(idx []int) float64 {
			return score.BuildCTS2x2(subsetPairSet(ps, idx), th.FKind, th.OKind, th.FThr, th.OThr).Compute().PODY
		}))
		row.PodnCI = append(row.PodnCI, proportionScoreCI(rs, alpha, table.FNON, table.FNON+table.FYON, func(idx []int) float64 {
			return score.BuildCTS2x2(subsetPairSet(ps, idx), th.FKind, th.OKind, th.FThr, th.OThr).Compute().PODN
		}))
		row.PofdCI = append(row.PofdCI, proportionScoreCI(rs, alpha, table.FYON, table.FYON+table.FNON, func(idx []int) float64 {
			return score.BuildCTS2x2(subsetPairSet(ps, idx), th.FKind, th.OKind, th.FThr, th.OThr).Compute().POFD
		}))
		row.FarCI = append(row.FarCI, proportionScoreCI(rs, alpha, table.FYON, table.FYON+table.FYOY, func(idx []int) float64 {
			return score.BuildCTS2x2(subsetPairSet(ps, idx), th.FKind, th.OKind, th.FThr, th.OThr).Compute().FAR
		}))
		row.CsiCI = append(row.CsiCI, proportionScoreCI(rs, alpha, table.FYOY, table.FYOY+table.FYON+table.FNOY, func(idx []int) float64 {
			return score.BuildCTS2x2(subsetPairSet(ps, idx), th.FKind, th.OKind, th.FThr, th.OThr).Compute().CSI
		}))
		row.AccCI = append(row.AccCI, proportionScoreCI(rs, alpha, table.FYOY+table.FNON, n, func(idx []int) float64 {
			return score.BuildCTS2x2(subsetPairSet(ps, idx), th.FKind, th.OKind, th.FThr, th.OThr).Compute().ACC
		}))
		row.HkCI = append(row.HkCI, ScoreCI{
			Alpha:     alpha,
			Normal:    ci.HanssenKuipersCI(table.FYOY, table.FYON, table.FNOY, table.FNON, alpha),
			Bootstrap: bootstrapCI(rs, alpha, func(idx []int) float64 {
				return score.BuildCTS2x2(subsetPairSet(ps, idx), th.FKind, th.OKind, th.FThr, th.OThr).Compute().HK
			}),
		})
		row.OddsRatioCI = append(row.OddsRatioCI, ScoreCI{
			Alpha:     alpha,
			Normal:    ci.OddsRatioCI(table.FYOY, table.FYON, table.FNOY, table.FNON, alpha),
			Bootstrap: bootstrapCI(rs, alpha, func(idx []int) float64 {
				return score.BuildCTS2x2(subsetPairSet(ps, idx), th.FKind, th.OKind, th.FThr, th.OThr).Compute().OddsRatio
			}),
		})
	}
	d.Sink.AppendCTS(row)
}

// proportionScoreCI builds the normal-theory proportion CI for an
// event-count/total pair plus the matching bootstrap CI over the same
// statistic functor, sharing the pair set's single resampler draw.
func proportionScoreCI(rs *ci.Resampler, alpha, x, n float64, stat ci.StatFunc) ScoreCI {
	return ScoreCI{
		Alpha:     alpha,
		Normal:    ci.ProportionCI(x, n, alpha),
		Bootstrap: bootstrapCI(rs, alpha, stat),
	}
}

// newResampler draws the bootstrap replicate index sets for one Pair Set,
// or returns nil when no bootstrap is configured or the set is empty. A
// malformed bootstrap spec (replicate count below 1) aborts the run.
func newResampler(cfg TaskConfig, ps *pair.PairSet) *ci.Resampler {
	if cfg.Bootstrap == nil || len(ps.Pairs) == 0 {
		return nil
	}
	r, err := ci.NewResampler(len(ps.Pairs), *cfg.Bootstrap, cfg.RNG)
	if err != nil {
		panic(fmt.Sprintf("verify: task %s: %v", cfg.Name, err))
	}
	return r
}

func bootstrapCI(rs *ci.Resampler, alpha float64, stat ci.StatFunc) ci.Interval {
	if rs == nil {
		return ci.Interval{Lower: math.NaN(), Upper: math.NaN()}
	}
	return rs.CI(alpha, stat)
}

// subsetPairSet builds a view of ps containing only the pairs named by
// indices, for use as the bootstrap statistic functor's pair-subset.
func subsetPairSet(ps *pair.PairSet, indices []int) *pair.PairSet {
	sub := &pair.PairSet{ID: ps.ID, Pairs: make([]pair.MatchedPair, len(indices))}
	for i, idx := range indices {
		sub.Pairs[i] = ps.Pairs[idx]
	}
	return sub
}

func (d *Driver) scoreMultiCategory(cfg TaskConfig, header HeaderContext, ps *pair.PairSet) {
	table := score.BuildMCTS(ps, cfg.MCTSThresholds)
	info := table.Compute()
	d.Sink.AppendMCTC(MCTCRow{Header: header, Thresholds: cfg.MCTSThresholds, Table: table})
	d.Sink.AppendMCTS(MCTSRow{Header: header, Thresholds: cfg.MCTSThresholds, Info: info})
}

func (d *Driver) scoreContinuous(cfg TaskConfig, header HeaderContext, ps *pair.PairSet, rs *ci.Resampler) {
	cnt := score.BuildCNT(ps)
	info := cnt.Compute(cfg.RankCorrelation, cfg.PrecipEpsilon)
	row := CNTRow{Header: header, Info: info}
	n := len(ps.Pairs)
	for _, alpha := range cfg.CIAlphas {
		row.MeanFCI = append(row.MeanFCI, ScoreCI{
			Alpha: alpha, Normal: ci.MeanCI(info.MeanF, info.StdDevF, n, alpha),
			Bootstrap: bootstrapCI(rs, alpha, func(idx []int) float64 {
				return score.BuildCNT(subsetPairSet(ps, idx)).Compute(false, nil).MeanF
			}),
		})
		row.MeanOCI = append(row.MeanOCI, ScoreCI{
			Alpha: alpha, Normal: ci.MeanCI(info.MeanO, info.StdDevO, n, alpha),
			Bootstrap: bootstrapCI(rs, alpha, func(idx []int) float64 {
				return score.BuildCNT(subsetPairSet(ps, idx)).Compute(false, nil).MeanO
			}),
		})
		row.StdDevFCI = append(row.StdDevFCI, ScoreCI{Alpha: alpha, Normal: ci.StdDevCI(info.StdDevF, n, alpha), Bootstrap: bootstrapCI(nil, alpha, nil)})
		row.StdDevOCI = append(row.StdDevOCI, ScoreCI{Alpha: alpha, Normal: ci.StdDevCI(info.StdDevO, n, alpha), Bootstrap: bootstrapCI(nil, alpha, nil)})
		row.PearsonCI = append(row.PearsonCI, ScoreCI{
			Alpha: alpha, Normal: ci.PearsonCI(info.Pearson, n, alpha),
			Bootstrap: bootstrapCI(rs, alpha, func(idx []int) float64 {
				return score.BuildCNT(subsetPairSet(ps, idx)).Compute(false, nil).Pearson
			}),
		})
	}
	d.Sink.AppendCNT(row)
}

func (d *Driver) scorePartialSums(cfg TaskConfig, header HeaderContext, ps *pair.PairSet) {
	d.Sink.AppendSL1L2(SL1L2Row{Header: header, Sums: score.BuildSL1L2(ps)})

	hasClimo := func(p pair.MatchedPair) bool { return !math.IsNaN(p.ClimoValue) }
	sal := score.BuildSAL1L2(ps, hasClimo)
	if sal.Count > 0 {
		d.Sink.AppendSAL1L2(SAL1L2Row{Header: header, Sums: sal})
	}
}

func (d *Driver) scoreProbabilistic(cfg TaskConfig, header HeaderContext, ps *pair.PairSet, rs *ci.Resampler) {
	table := score.BuildPCT(ps, cfg.ProbEdges, cfg.ProbOKind, cfg.ProbOThr)
	info := table.Compute()
	d.Sink.AppendPCT(PCTRow{Header: header, Table: table})

	row := PSTDRow{Header: header, Info: info}
	for _, alpha := range cfg.CIAlphas {
		row.BrierCI = append(row.BrierCI, ScoreCI{
			Alpha:  alpha,
			Normal: ci.BrierCI(info.BrierScore, info.N, alpha),
			Bootstrap: bootstrapCI(rs, alpha, func(idx []int) float64 {
				return score.BuildPCT(subsetPairSet(ps, idx), cfg.ProbEdges, cfg.ProbOKind, cfg.ProbOThr).Compute().BrierScore
			}),
		})
	}
	d.Sink.AppendPSTD(row)
	d.Sink.AppendPJC(PJCRow{Header: header, Bins: table.Calibration()})
	d.Sink.AppendPRC(PRCRow{Header: header, Points: table.ROCPoints()})
}

func (d *Driver) scoreVector(cfg TaskConfig, header HeaderContext, uSet, vSet *pair.PairSet) {
	plain, anom, err := score.BuildVL1L2(uSet, vSet, cfg.Vector.FSpeedThreshold, cfg.Vector.OSpeedThreshold)
	if err != nil {
		panic(fmt.Sprintf("verify: task %s: %v", cfg.Name, err))
	}
	d.Sink.AppendVL1L2(VL1L2Row{Header: header, Sums: plain})
	if anom.Count > 0 {
		d.Sink.AppendVAL1L2(VAL1L2Row{Header: header, Sums: anom})
	}
}

func (d *Driver) scoreNeighborhood(cfg TaskConfig, header HeaderContext) {
	nc := cfg.Neighborhood
	for _, w := range nc.Widths {
		fcstFrac := score.FractionalCoverage(nc.FcstField, nc.Kind, nc.Thr, w, nc.ValidFraction)
		obsFrac := score.FractionalCoverage(nc.ObsField, nc.Kind, nc.Thr, w, nc.ValidFraction)

		thresh := fmt.Sprintf("%v%g", thresholdSymbol(nc.Kind), nc.Thr)
		table := score.BuildNBRCTS(fcstFrac, obsFrac, nc.Kind, nc.FracThr)
		d.Sink.AppendNBRCTC(NBRCTCRow{Header: header, Width: w, Thresh: thresh, Table: table})
		d.Sink.AppendNBRCTS(NBRCTSRow{Header: header, Width: w, Thresh: thresh, Info: table.Compute()})
		d.Sink.AppendNBRCNT(NBRCNTRow{Header: header, Width: w, Thresh: thresh, Info: score.ComputeNBRCNT(fcstFrac, obsFrac)})
	}
}

func (d *Driver) scoreISC(cfg TaskConfig, header HeaderContext) {
	isc := cfg.IntensityScale
	info, err := score.ComputeISC(isc.FcstField, isc.ObsField, isc.Kind, isc.Thr, isc.NScale)
	if err != nil {
		panic(fmt.Sprintf("verify: task %s: %v", cfg.Name, err))
	}
	for s, scale := range info.Scales {
		d.Sink.AppendISC(ISCRow{Header: header, Scale: s, Info: scale})
	}
	d.Sink.AppendISC(ISCRow{Header: header, Scale: -1, Info: info.Whole})
}

func thresholdSymbol(kind field.ThresholdKind) string {
	switch kind {
	case field.ThresholdLT:
		return "<"
	case field.ThresholdLE:
		return "<="
	case field.ThresholdEQ:
		return "=="
	case field.ThresholdNE:
		return "!="
	case field.ThresholdGE:
		return ">="
	case field.ThresholdGT:
		return ">"
	}
	return "?"
}

func safeDivLocal(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
