package engine

import "github.com/Salsakeyy/EnzoChess/internal/board"

// Move ordering priorities. Higher scores are searched first.
const (
	ttMoveScore    = 2000000
	captureBase    = 1000000
	promotionBase  = 900000
	killerScore    = 800000
	historyCeiling = 1000000
)

// MoveOrderer holds the killer slots and the from-to history table used
// to order quiet moves.
type MoveOrderer struct {
	killers [MaxPly][2]board.Move
	history [64][64]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets killers and history for a new top-level search.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] = 0
		}
	}
}

// ScoreMoves assigns ordering scores to every move in the list.
func (mo *MoveOrderer) ScoreMoves(moves *board.MoveList, ply int, ttMove uint16) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(moves.Get(i), ply, ttMove)
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(m board.Move, ply int, ttMove uint16) int {
	if m.MatchesPacked(ttMove) {
		return ttMoveScore
	}

	if m.IsCapture() {
		return captureBase + 10*m.Captured.Value() - m.Piece.Value()
	}

	if m.Promotion != board.Empty {
		return promotionBase + board.PieceValue[m.Promotion]
	}

	if ply < MaxPly && (m.Same(mo.killers[ply][0]) || m.Same(mo.killers[ply][1])) {
		return killerScore
	}

	return mo.history[m.From][m.To]
}

// PickMove selects the best remaining move and swaps it to index. This
// lets the search sort lazily, only as far as it actually iterates.
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// RecordKiller stores a quiet move that caused a beta cutoff, shifting
// the previous killer into the second slot.
func (mo *MoveOrderer) RecordKiller(m board.Move, ply int) {
	if ply >= MaxPly || m.Same(mo.killers[ply][0]) {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// RecordHistory bumps the history score of a quiet cutoff move by
// depth squared, decaying the whole table when any entry crosses the
// ceiling.
func (mo *MoveOrderer) RecordHistory(m board.Move, depth int) {
	mo.history[m.From][m.To] += depth * depth
	if mo.history[m.From][m.To] <= historyCeiling {
		return
	}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] = mo.history[i][j] * 3 / 4
		}
	}
}
