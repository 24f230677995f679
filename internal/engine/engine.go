package engine

import (
	"sync/atomic"
	"time"

	"github.com/Salsakeyy/EnzoChess/internal/board"
)

// OpeningBook supplies a reply for a position before any search runs.
type OpeningBook interface {
	Probe(pos *board.Position) (board.Move, bool)
}

// Stats summarizes the most recent search.
type Stats struct {
	Evaluations uint64
	Nodes       uint64
	TimeElapsed time.Duration
	TTSize      int
}

// SearchInfo is reported after each completed deepening iteration.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []string
}

// Engine owns a board, a transposition table and a searcher, and exposes
// the public engine contract consumed by the shells.
type Engine struct {
	pos      *board.Position
	tt       *Table
	searcher *Searcher
	book     OpeningBook
	stop     atomic.Bool

	lastStats Stats

	// OnInfo, when set, receives a SearchInfo after every completed
	// iteration of the deepening loop.
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine at the starting position.
func NewEngine() *Engine {
	e := &Engine{
		pos: board.NewPosition(),
		tt:  NewTable(0),
	}
	e.searcher = NewSearcher(e.pos, e.tt, &e.stop)
	return e
}

// SetBook installs an opening book consulted before any search.
func (e *Engine) SetBook(b OpeningBook) {
	e.book = b
}

// Position returns the engine's current board.
func (e *Engine) Position() *board.Position {
	return e.pos
}

// Reset loads the standard starting position and clears the move history.
// The transposition table survives; use ClearTT for a fresh table.
func (e *Engine) Reset() {
	e.pos = board.NewPosition()
	e.searcher = NewSearcher(e.pos, e.tt, &e.stop)
}

// ClearTT empties the transposition table.
func (e *Engine) ClearTT() {
	e.tt.Clear()
}

// LoadFEN replaces the current position. On parse failure the engine's
// board is left untouched.
func (e *Engine) LoadFEN(fen string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	e.pos = pos
	e.searcher = NewSearcher(e.pos, e.tt, &e.stop)
	return nil
}

// ApplyMoveText applies a long-algebraic move. It returns false, without
// mutating the board, when the text is malformed or the move illegal.
func (e *Engine) ApplyMoveText(text string) bool {
	from, to, promo, err := board.ParseMoveText(text)
	if err != nil {
		return false
	}
	m, ok := e.pos.FindMove(from, to, promo)
	if !ok {
		return false
	}
	e.pos.MakeMove(m)
	return true
}

// UndoMove takes back the last applied move, if any.
func (e *Engine) UndoMove() bool {
	if e.pos.HistoryLen() == 0 {
		return false
	}
	e.pos.UnmakeMove()
	return true
}

// StaticEval returns the static evaluation in centipawns from the
// side-to-move's perspective.
func (e *Engine) StaticEval() int {
	return Evaluate(e.pos)
}

// Stats returns counters from the most recent search.
func (e *Engine) Stats() Stats {
	return e.lastStats
}

// Stop aborts a running search promptly through the same flag the time
// poll uses.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// BestMove runs the opening book and then iterative deepening under the
// given budget and returns the chosen move in long algebraic form. ok is
// false only when the side to move has no legal moves.
func (e *Engine) BestMove(timeLimit time.Duration, maxDepth int) (string, bool) {
	e.stop.Store(false)

	if maxDepth <= 0 || maxDepth >= MaxPly {
		maxDepth = MaxPly - 1
	}

	if e.book != nil {
		if m, ok := e.book.Probe(e.pos); ok {
			return m.String(), true
		}
	}

	e.searcher.Prepare(timeLimit)

	var (
		best      board.Move
		bestScore int
		haveMove  bool
	)

	for depth := 1; depth <= maxDepth; depth++ {
		m, score, ok := e.searcher.SearchRoot(depth)
		if !ok {
			// No legal moves: checkmate or stalemate at the root.
			e.captureStats()
			return "", false
		}
		if e.searcher.Aborted() {
			if !haveMove {
				best, bestScore, haveMove = m, score, true
			}
			break
		}

		best, bestScore, haveMove = m, score, true

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Score: bestScore,
				Nodes: e.searcher.Nodes(),
				Time:  e.searcher.Elapsed(),
				PV:    e.principalVariation(depth),
			})
		}

		if bestScore > MateThreshold || bestScore < -MateThreshold {
			break
		}
		if !shouldStartIteration(e.searcher.Elapsed(), timeLimit) {
			break
		}
	}

	e.captureStats()
	return best.String(), haveMove
}

func (e *Engine) captureStats() {
	e.lastStats = Stats{
		Evaluations: e.searcher.Evaluations(),
		Nodes:       e.searcher.Nodes(),
		TimeElapsed: e.searcher.Elapsed(),
		TTSize:      e.tt.Len(),
	}
}

// principalVariation walks transposition best-moves from the current
// position, re-validating each against the legal move list.
func (e *Engine) principalVariation(maxLen int) []string {
	pos := e.pos.Copy()
	var pv []string

	for len(pv) < maxLen {
		entry, found := e.tt.Probe(pos.Key())
		if !found || entry.BestMove == 0 {
			break
		}

		moves := pos.GenerateLegalMoves()
		var next board.Move
		ok := false
		for i := 0; i < moves.Len(); i++ {
			if moves.Get(i).MatchesPacked(entry.BestMove) {
				next = moves.Get(i)
				ok = true
				break
			}
		}
		if !ok {
			break
		}

		pv = append(pv, next.String())
		pos.MakeMove(next)
	}

	return pv
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func (e *Engine) Perft(depth int) uint64 {
	return perftCount(e.pos, depth)
}

func perftCount(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		pos.MakeMove(moves.Get(i))
		nodes += perftCount(pos, depth-1)
		pos.UnmakeMove()
	}
	return nodes
}
