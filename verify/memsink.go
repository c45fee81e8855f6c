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

// MemorySink is a RowSink that simply collects every row in memory,
// ordered by arrival. It is the contract double the package's own tests
// use, and a reasonable starting point for a caller that wants to
// post-process rows in Go rather than handing them to an external
// text/table writer.
type MemorySink struct {
	FHO     []FHORow
	CTC     []CTCRow
	CTS     []CTSRow
	MCTC    []MCTCRow
	MCTS    []MCTSRow
	CNT     []CNTRow
	SL1L2   []SL1L2Row
	SAL1L2  []SAL1L2Row
	VL1L2   []VL1L2Row
	VAL1L2  []VAL1L2Row
	PCT     []PCTRow
	PSTD    []PSTDRow
	PJC     []PJCRow
	PRC     []PRCRow
	NBRCTC  []NBRCTCRow
	NBRCTS  []NBRCTSRow
	NBRCNT  []NBRCNTRow
	ISC     []ISCRow
	MPR     []MPRRow
}

func (s *MemorySink) AppendFHO(r FHORow)       { s.FHO = append(s.FHO, r) }
func (s *MemorySink) AppendCTC(r CTCRow)       { s.CTC = append(s.CTC, r) }
func (s *MemorySink) AppendCTS(r CTSRow)       { s.CTS = append(s.CTS, r) }
func (s *MemorySink) AppendMCTC(r MCTCRow)     { s.MCTC = append(s.MCTC, r) }
func (s *MemorySink) AppendMCTS(r MCTSRow)     { s.MCTS = append(s.MCTS, r) }
func (s *MemorySink) AppendCNT(r CNTRow)       { s.CNT = append(s.CNT, r) }
func (s *MemorySink) AppendSL1L2(r SL1L2Row)   { s.SL1L2 = append(s.SL1L2, r) }
func (s *MemorySink) AppendSAL1L2(r SAL1L2Row) { s.SAL1L2 = append(s.SAL1L2, r) }
func (s *MemorySink) AppendVL1L2(r VL1L2Row)   { s.VL1L2 = append(s.VL1L2, r) }
func (s *MemorySink) AppendVAL1L2(r VAL1L2Row) { s.VAL1L2 = append(s.VAL1L2, r) }
func (s *MemorySink) AppendPCT(r PCTRow)       { s.PCT = append(s.PCT, r) }
func (s *MemorySink) AppendPSTD(r PSTDRow)     { s.PSTD = append(s.PSTD, r) }
func (s *MemorySink) AppendPJC(r PJCRow)       { s.PJC = append(s.PJC, r) }
func (s *MemorySink) AppendPRC(r PRCRow)       { s.PRC = append(s.PRC, r) }
func (s *MemorySink) AppendNBRCTC(r NBRCTCRow) { s.NBRCTC = append(s.NBRCTC, r) }
func (s *MemorySink) AppendNBRCTS(r NBRCTSRow) { s.NBRCTS = append(s.NBRCTS, r) }
func (s *MemorySink) AppendNBRCNT(r NBRCNTRow) { s.NBRCNT = append(s.NBRCNT, r) }
func (s *MemorySink) AppendISC(r ISCRow)       { s.ISC = append(s.ISC, r) }
func (s *MemorySink) AppendMPR(r MPRRow)       { s.MPR = append(s.MPR, r) }
