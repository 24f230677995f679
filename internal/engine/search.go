package engine

import (
	"sync/atomic"
	"time"

	"github.com/Salsakeyy/EnzoChess/internal/board"
)

// Search constants. Mate scores are encoded as MateValue-ply so shorter
// mates dominate longer ones; anything above MateThreshold is a mate
// score rather than material.
const (
	Infinity      = 100000
	MateValue     = 20000
	MateThreshold = 19000
	MaxPly        = 64

	timeCheckInterval = 1000 // nodes between clock polls
)

// Searcher runs a single-threaded negamax search over one board,
// restoring it invariantly on every return.
type Searcher struct {
	pos     *board.Position
	tt      *Table
	orderer *MoveOrderer

	nodes uint64
	evals uint64

	start   time.Time
	limit   time.Duration
	aborted bool
	stop    *atomic.Bool // set externally through Engine.Stop
}

// NewSearcher creates a searcher over the given board and table.
func NewSearcher(pos *board.Position, tt *Table, stop *atomic.Bool) *Searcher {
	return &Searcher{
		pos:     pos,
		tt:      tt,
		orderer: NewMoveOrderer(),
		stop:    stop,
	}
}

// Prepare resets per-search state: node counters, the abort flag and the
// killer/history tables.
func (s *Searcher) Prepare(limit time.Duration) {
	s.nodes = 0
	s.evals = 0
	s.start = time.Now()
	s.limit = limit
	s.aborted = false
	s.orderer.Clear()
}

// Nodes returns the number of nodes visited so far.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Evaluations returns the number of static evaluations performed.
func (s *Searcher) Evaluations() uint64 {
	return s.evals
}

// Elapsed returns the time since Prepare.
func (s *Searcher) Elapsed() time.Duration {
	return time.Since(s.start)
}

// Aborted reports whether the current search hit its time limit or an
// external stop.
func (s *Searcher) Aborted() bool {
	return s.aborted
}

// checkTime latches the abort flag when the external stop is set or the
// time budget is spent; once set it stays set for the whole search.
func (s *Searcher) checkTime() {
	if s.aborted {
		return
	}
	if s.stop.Load() {
		s.aborted = true
		return
	}
	if s.limit > 0 && time.Since(s.start) > s.limit {
		s.aborted = true
	}
}

func (s *Searcher) evaluate() int {
	s.evals++
	return Evaluate(s.pos)
}

// isDraw detects the draws the search recognizes mid-tree: the fifty
// move rule and insufficient material. Threefold repetition is not
// tracked.
func (s *Searcher) isDraw() bool {
	return s.pos.HalfMoveClock >= 100 || s.pos.IsInsufficientMaterial()
}

// SearchRoot runs a fixed-depth search from the root and returns the
// best move with its score. ok is false when the side to move has no
// legal moves; the score is then 0 for stalemate or -MateValue for
// checkmate.
func (s *Searcher) SearchRoot(depth int) (best board.Move, score int, ok bool) {
	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if s.pos.InCheck() {
			return board.NoMove, -MateValue, false
		}
		return board.NoMove, 0, false
	}

	var ttMove uint16
	if e, found := s.tt.Probe(s.pos.Key()); found {
		ttMove = e.BestMove
	}
	scores := s.orderer.ScoreMoves(moves, 0, ttMove)

	alpha, beta := -Infinity, Infinity
	best = moves.Get(0)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		s.pos.MakeMove(m)
		v := -s.negamax(depth-1, 1, -beta, -alpha)
		s.pos.UnmakeMove()

		if s.aborted {
			return best, alpha, true
		}

		if v > alpha {
			alpha = v
			best = m
		}
	}

	s.tt.Store(s.pos.Key(), depth, alpha, FlagExact, best.Packed())
	return best, alpha, true
}

// negamax is the alpha-beta core with transposition cutoffs, null-move
// pruning and late move reductions.
func (s *Searcher) negamax(depth, ply, alpha, beta int) int {
	s.nodes++
	if s.nodes%timeCheckInterval == 0 {
		s.checkTime()
	}
	if s.aborted {
		return 0
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	if s.isDraw() {
		return 0
	}

	key := s.pos.Key()
	var ttMove uint16
	if e, found := s.tt.Probe(key); found {
		ttMove = e.BestMove
		if e.Depth >= depth {
			switch e.Flag {
			case FlagExact:
				return e.Score
			case FlagUpper:
				if e.Score <= alpha {
					return alpha
				}
			case FlagLower:
				if e.Score >= beta {
					return beta
				}
			}
		}
	}

	moves := s.pos.GenerateLegalMoves()
	inCheck := s.pos.InCheck()
	if moves.Len() == 0 {
		if inCheck {
			return -MateValue + ply
		}
		return 0
	}

	// Null move pruning: hand the opponent a free move with a reduced
	// zero-width search. Skipped in check and in pawn-only endings
	// where zugzwang makes the assumption unsound.
	if depth >= 3 && !inCheck && ply < MaxPly-1 && s.pos.HasNonPawnMaterial() {
		undo := s.pos.MakeNullMove()
		v := -s.negamax(depth-3, ply+1, -beta, -beta+1)
		s.pos.UnmakeNullMove(undo)
		if s.aborted {
			return 0
		}
		if v >= beta {
			return beta
		}
	}

	scores := s.orderer.ScoreMoves(moves, ply, ttMove)

	alphaIn := alpha
	bestScore := -Infinity
	bestMove := board.NoMove

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		s.pos.MakeMove(m)

		var v int
		// Late move reductions: late quiet moves that don't give check
		// get a reduced null-window look first.
		if i >= 4 && depth >= 3 && m.IsQuiet() && !s.pos.InCheck() && ply < MaxPly-1 {
			v = -s.negamax(depth-2, ply+1, -alpha-1, -alpha)
			if v > alpha && !s.aborted {
				v = -s.negamax(depth-1, ply+1, -beta, -alpha)
			}
		} else {
			v = -s.negamax(depth-1, ply+1, -beta, -alpha)
		}

		s.pos.UnmakeMove()

		if s.aborted {
			return 0
		}

		if v > bestScore {
			bestScore = v
			bestMove = m
		}
		if v > alpha {
			alpha = v
		}
		if alpha >= beta {
			if m.IsQuiet() {
				s.orderer.RecordKiller(m, ply)
				s.orderer.RecordHistory(m, depth)
			}
			break
		}
	}

	var flag Flag
	switch {
	case bestScore <= alphaIn:
		flag = FlagUpper
	case bestScore >= beta:
		flag = FlagLower
	default:
		flag = FlagExact
	}
	s.tt.Store(key, depth, bestScore, flag, bestMove.Packed())

	return bestScore
}

// quiescence resolves capture sequences so static evaluation only ever
// applies to quiet positions.
func (s *Searcher) quiescence(ply, alpha, beta int) int {
	s.nodes++
	s.checkTime()
	if s.aborted {
		return 0
	}

	standPat := s.evaluate()
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if ply >= MaxPly-1 {
		return alpha
	}

	captures := s.pos.GenerateCaptures()
	scores := s.orderer.ScoreMoves(captures, ply, 0)

	for i := 0; i < captures.Len(); i++ {
		PickMove(captures, scores, i)

		s.pos.MakeMove(captures.Get(i))
		v := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.UnmakeMove()

		if s.aborted {
			return 0
		}

		if v >= beta {
			return beta
		}
		if v > alpha {
			alpha = v
		}
	}

	return alpha
}
