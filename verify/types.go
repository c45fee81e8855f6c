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

// Package verify implements the Driver: it iterates the verification
// task list, routes matched pairs through the score engine and CI
// engine, and emits rows to a caller-supplied row-sink, one append
// method per output family.
package verify

import (
	"time"

	"github.com/dtcenter/MET-sub005/ci"
	"github.com/dtcenter/MET-sub005/score"
)

// HeaderContext is the header metadata every output row family carries
// alongside its score-specific payload: each row-sink method receives
// the corresponding Score Info block plus a header context.
type HeaderContext struct {
	Model         string
	FcstFieldName string
	ObsFieldName  string
	FcstLevel     string
	ObsLevel      string
	ValidTime     time.Time
	LeadTime      time.Duration
	MessageType   string
	MaskName      string
	InterpMethod  string
	InterpWidth   int
}

// ScoreCI holds the normal-theory and bootstrap confidence intervals for
// a single derived statistic at a single alpha level. Either Interval is
// {NaN,NaN} when that CI flavor was not requested or not computable: CI
// slices are filled only when alphas are requested, and Bootstrap is
// {NaN,NaN} unless a bootstrap spec is supplied.
type ScoreCI struct {
	Alpha     float64
	Normal    ci.Interval
	Bootstrap ci.Interval
}

// FHORow is the FHO (forecast/hit/observed rate) output family: the
// three marginal rates derived from a 2x2 table at one threshold.
type FHORow struct {
	Header            HeaderContext
	Thresh            string
	FRate, HRate, ORate float64
}

// CTCRow is the raw 2x2 contingency-count output family.
type CTCRow struct {
	Header HeaderContext
	Thresh string
	Table  score.CTS2x2
}

// CTSRow is the derived categorical-statistics output family, with
// per-alpha CIs on every score that has a normal-theory interval
// defined for it. GSS carries no CI; no formula for it is synthesized.
type CTSRow struct {
	Header   HeaderContext
	Thresh   string
	Info     score.CTSInfo
	BaserCI  []ScoreCI
	PodyCI   []ScoreCI
	PodnCI   []ScoreCI
	PofdCI   []ScoreCI
	FarCI    []ScoreCI
	CsiCI    []ScoreCI
	AccCI    []ScoreCI
	HkCI     []ScoreCI
	OddsRatioCI []ScoreCI
}

// MCTCRow is the raw K x K contingency-count output family.
type MCTCRow struct {
	Header     HeaderContext
	Thresholds []float64
	Table      score.MCTSTable
}

// MCTSRow is the derived multi-category-statistics output family.
type MCTSRow struct {
	Header     HeaderContext
	Thresholds []float64
	Info       score.MCTSInfo
}

// CNTRow is the continuous-statistics output family.
type CNTRow struct {
	Header      HeaderContext
	Info        score.CNTInfo
	MeanFCI     []ScoreCI
	MeanOCI     []ScoreCI
	StdDevFCI   []ScoreCI
	StdDevOCI   []ScoreCI
	PearsonCI   []ScoreCI
}

// SL1L2Row is the scalar partial-sum output family.
type SL1L2Row struct {
	Header HeaderContext
	Sums   score.SL1L2
}

// SAL1L2Row is the scalar-anomaly partial-sum output family.
type SAL1L2Row struct {
	Header HeaderContext
	Sums   score.SAL1L2
}

// VL1L2Row is the vector partial-sum output family.
type VL1L2Row struct {
	Header HeaderContext
	Sums   score.VL1L2
}

// VAL1L2Row is the vector-anomaly partial-sum output family.
type VAL1L2Row struct {
	Header HeaderContext
	Sums   score.VAL1L2
}

// PCTRow is the raw probabilistic-contingency-table output family.
type PCTRow struct {
	Header HeaderContext
	Table  score.PCTTable
}

// PSTDRow is the derived probabilistic-statistics output family (Brier
// score plus its reliability/resolution/uncertainty decomposition and
// RPS/RPSS), with the Brier score's closed-form normal-theory CI.
type PSTDRow struct {
	Header   HeaderContext
	Info     score.PCTInfo
	BrierCI  []ScoreCI
}

// PJCRow is the probability joint/calibration (reliability diagram)
// output family.
type PJCRow struct {
	Header HeaderContext
	Bins   []score.CalibrationBin
}

// PRCRow is the ROC-curve output family.
type PRCRow struct {
	Header HeaderContext
	Points []score.ROCPoint
}

// NBRCTCRow is the raw neighborhood contingency-count output family.
type NBRCTCRow struct {
	Header HeaderContext
	Width  int
	Thresh string
	Table  score.CTS2x2
}

// NBRCTSRow is the derived neighborhood categorical-statistics output
// family.
type NBRCTSRow struct {
	Header HeaderContext
	Width  int
	Thresh string
	Info   score.CTSInfo
}

// NBRCNTRow is the neighborhood continuous (Fractions Skill Score)
// output family.
type NBRCNTRow struct {
	Header HeaderContext
	Width  int
	Thresh string
	Info   score.NBRCNTInfo
}

// ISCRow is the intensity-scale output family, one row per decomposition
// level plus the whole-field row (Scale = -1).
type ISCRow struct {
	Header HeaderContext
	Scale  int
	Info   score.ISCScale
}

// MPRRow is the matched-pair-record output family: one row per matched
// pair, for downstream aggregation outside the core.
type MPRRow struct {
	Header     HeaderContext
	StationID  string
	Lat, Lon   float64
	Level      float64
	Elevation  float64
	FcstValue  float64
	ClimoValue float64
	ObsValue   float64
}

// RowSink is the narrow external contract the Driver writes its output
// rows to: one append method per output family.
type RowSink interface {
	AppendFHO(FHORow)
	AppendCTC(CTCRow)
	AppendCTS(CTSRow)
	AppendMCTC(MCTCRow)
	AppendMCTS(MCTSRow)
	AppendCNT(CNTRow)
	AppendSL1L2(SL1L2Row)
	AppendSAL1L2(SAL1L2Row)
	AppendVL1L2(VL1L2Row)
	AppendVAL1L2(VAL1L2Row)
	AppendPCT(PCTRow)
	AppendPSTD(PSTDRow)
	AppendPJC(PJCRow)
	AppendPRC(PRCRow)
	AppendNBRCTC(NBRCTCRow)
	AppendNBRCTS(NBRCTSRow)
	AppendNBRCNT(NBRCNTRow)
	AppendISC(ISCRow)
	AppendMPR(MPRRow)
}
