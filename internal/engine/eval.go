// Package engine implements the search and evaluation kernel.
package engine

import (
	"github.com/Salsakeyy/EnzoChess/internal/board"
)

// Evaluation term weights, in centipawns.
const (
	bishopPairBonus     = 50
	doubledPawnPenalty  = 15
	isolatedPawnPenalty = 15
	rookOpenFileBonus   = 25
	rookSemiOpenBonus   = 15
	rookOnSeventhBonus  = 30
	mobilityWeight      = 3
)

// passedPawnBonus is indexed by the pawn's rank from its own side.
var passedPawnBonus = [8]int{0, 5, 10, 20, 40, 60, 100, 200}

// Game phase is derived from remaining non-king, non-pawn material.
// 24 is the full-material opening, 0 a pure endgame.
const maxPhase = 24

var phaseWeight = [7]int{0, 0, 1, 1, 2, 4, 0}

// Piece-square tables, indexed by the square as seen from white's side
// (a1 is the first entry, ranks ascend). Black pieces index by 63-sq.

var pawnPSTMg = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pawnPSTEg = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 5, 5, 5, 5, 5, 5, 5,
	10, 10, 10, 10, 10, 10, 10, 10,
	20, 20, 20, 20, 20, 20, 20, 20,
	35, 35, 35, 35, 35, 35, 35, 35,
	60, 60, 60, 60, 60, 60, 60, 60,
	100, 100, 100, 100, 100, 100, 100, 100,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingPSTMg = [64]int{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var kingPSTEg = [64]int{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50,
}

var pstMg = [7]*[64]int{nil, &pawnPSTMg, &knightPST, &bishopPST, &rookPST, &queenPST, &kingPSTMg}
var pstEg = [7]*[64]int{nil, &pawnPSTEg, &knightPST, &bishopPST, &rookPST, &queenPST, &kingPSTEg}

// Evaluate returns the static evaluation in centipawns from the
// side-to-move's perspective. The midgame and endgame components are
// interpolated by the material phase; structural terms and mobility are
// phase-independent.
func Evaluate(pos *board.Position) int {
	var (
		mg, eg, flat int
		phase        int
		bishops      [2]int
		// pawnRanks[c][f] has bit r set when color c has a pawn on
		// file f, rank r.
		pawnRanks [2][8]uint8
	)

	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.Squares[sq]
		if pc == board.NoPiece {
			continue
		}
		pt := pc.Type()
		c := pc.Color()
		phase += phaseWeight[pt]

		sign := 1
		idx := sq
		if c == board.Black {
			sign = -1
			idx = 63 - sq
		}

		v := board.PieceValue[pt]
		mg += sign * (v + pstMg[pt][idx])
		eg += sign * (v + pstEg[pt][idx])

		switch pt {
		case board.Bishop:
			bishops[c]++
		case board.Pawn:
			pawnRanks[c][sq.File()] |= 1 << uint(sq.Rank())
		}
	}

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		if bishops[c] >= 2 {
			flat += sign * bishopPairBonus
		}
		flat += sign * pawnStructure(c, &pawnRanks)
	}

	flat += rookTerms(pos, &pawnRanks)
	flat += passedPawns(pos, &pawnRanks)

	if phase > maxPhase {
		phase = maxPhase
	}
	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase
	score += flat

	score += mobilityWeight * mobility(pos)

	if pos.SideToMove == board.Black {
		score = -score
	}
	return score
}

// pawnStructure scores doubled and isolated pawns for one color.
func pawnStructure(c board.Color, pawnRanks *[2][8]uint8) int {
	score := 0
	for f := 0; f < 8; f++ {
		mask := pawnRanks[c][f]
		if mask == 0 {
			continue
		}
		n := popcount8(mask)
		if n > 1 {
			score -= doubledPawnPenalty * (n - 1)
		}

		var adjacent uint8
		if f > 0 {
			adjacent |= pawnRanks[c][f-1]
		}
		if f < 7 {
			adjacent |= pawnRanks[c][f+1]
		}
		if adjacent == 0 {
			score -= isolatedPawnPenalty * n
		}
	}
	return score
}

// passedPawns scores passed pawns for both sides, white-positive.
func passedPawns(pos *board.Position, pawnRanks *[2][8]uint8) int {
	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.Squares[sq]
		if pc.Type() != board.Pawn {
			continue
		}
		c := pc.Color()
		if !isPassed(sq, c, pawnRanks) {
			continue
		}
		bonus := passedPawnBonus[sq.RelativeRank(c)]
		if c == board.White {
			score += bonus
		} else {
			score -= bonus
		}
	}
	return score
}

// isPassed reports whether no enemy pawn sits on the pawn's file or an
// adjacent file ahead of it.
func isPassed(sq board.Square, c board.Color, pawnRanks *[2][8]uint8) bool {
	them := c.Other()
	rank := sq.Rank()

	var ahead uint8
	if c == board.White {
		ahead = ^uint8(0) << uint(rank+1)
	} else {
		ahead = (1 << uint(rank)) - 1
	}

	for f := sq.File() - 1; f <= sq.File()+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		if pawnRanks[them][f]&ahead != 0 {
			return false
		}
	}
	return true
}

// rookTerms scores rooks on open and semi-open files and on the seventh
// rank, white-positive.
func rookTerms(pos *board.Position, pawnRanks *[2][8]uint8) int {
	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.Squares[sq]
		if pc.Type() != board.Rook {
			continue
		}
		c := pc.Color()
		sign := 1
		if c == board.Black {
			sign = -1
		}

		f := sq.File()
		own := pawnRanks[c][f]
		enemy := pawnRanks[c.Other()][f]
		switch {
		case own == 0 && enemy == 0:
			score += sign * rookOpenFileBonus
		case own == 0:
			score += sign * rookSemiOpenBonus
		}

		if sq.RelativeRank(c) == 6 {
			score += sign * rookOnSeventhBonus
		}
	}
	return score
}

// mobility returns the legal move count difference, white-positive. The
// side to move is flipped to count the opponent and restored before
// returning, leaving the position untouched.
func mobility(pos *board.Position) int {
	stm := pos.SideToMove

	own := pos.GenerateLegalMoves().Len()
	pos.SideToMove = stm.Other()
	their := pos.GenerateLegalMoves().Len()
	pos.SideToMove = stm

	if stm == board.White {
		return own - their
	}
	return their - own
}

func popcount8(b uint8) int {
	n := 0
	for ; b != 0; b &= b - 1 {
		n++
	}
	return n
}
