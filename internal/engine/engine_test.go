package engine

import (
	"testing"
	"time"

	"github.com/Salsakeyy/EnzoChess/internal/board"
)

func TestSearchBasic(t *testing.T) {
	eng := NewEngine()

	move, ok := eng.BestMove(0, 3)
	if !ok || move == "" {
		t.Fatal("expected a move from the starting position")
	}
	t.Logf("best move: %s", move)

	stats := eng.Stats()
	if stats.Nodes == 0 || stats.Evaluations == 0 {
		t.Errorf("expected nonzero search stats, got %+v", stats)
	}
}

func TestMateInOne(t *testing.T) {
	eng := NewEngine()
	if err := eng.LoadFEN("6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1"); err != nil {
		t.Fatalf("LoadFEN: %v", err)
	}

	var lastScore int
	eng.OnInfo = func(info SearchInfo) { lastScore = info.Score }

	move, ok := eng.BestMove(0, 3)
	if !ok {
		t.Fatal("expected a move")
	}
	if move != "e1e8" {
		t.Errorf("best move = %s, want e1e8", move)
	}
	if lastScore <= MateThreshold {
		t.Errorf("score = %d, want > MateThreshold (%d)", lastScore, MateThreshold)
	}
}

func TestStalemateReturnsNoMove(t *testing.T) {
	eng := NewEngine()
	if err := eng.LoadFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"); err != nil {
		t.Fatalf("LoadFEN: %v", err)
	}

	if _, ok := eng.BestMove(0, 4); ok {
		t.Error("stalemate: BestMove should report no move")
	}
}

func TestCheckmateReturnsNoMove(t *testing.T) {
	eng := NewEngine()
	if err := eng.LoadFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1"); err != nil {
		t.Fatalf("LoadFEN: %v", err)
	}

	if _, ok := eng.BestMove(0, 2); ok {
		t.Error("checkmate: BestMove should report no move")
	}
}

func TestApplyMoveText(t *testing.T) {
	eng := NewEngine()

	if !eng.ApplyMoveText("e2e4") {
		t.Fatal("e2e4 should apply")
	}
	if eng.ApplyMoveText("e2e4") {
		t.Error("e2e4 twice should be illegal")
	}
	if eng.ApplyMoveText("not-a-move") {
		t.Error("malformed move text should be rejected")
	}
	if eng.ApplyMoveText("e7e6") == false {
		t.Error("e7e6 should apply for black")
	}

	fenBefore := eng.Position().ToFEN()
	if eng.ApplyMoveText("a1a8") {
		t.Error("a1a8 should be illegal")
	}
	if eng.Position().ToFEN() != fenBefore {
		t.Error("rejected move must not mutate the board")
	}
}

func TestLoadFENFailureLeavesBoard(t *testing.T) {
	eng := NewEngine()
	eng.ApplyMoveText("e2e4")
	before := eng.Position().ToFEN()

	if err := eng.LoadFEN("this is not a fen"); err == nil {
		t.Fatal("expected parse error")
	}
	if eng.Position().ToFEN() != before {
		t.Error("failed LoadFEN must leave the board untouched")
	}
}

// antisymmetryFENs have no en passant asymmetry and mirror cleanly.
var antisymmetryFENs = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r1bqkb1r/pppp1ppp/2n2n2/4p3/4P3/2N2N2/PPPP1PPP/R1BQKB1R w KQkq - 4 4",
	"4k3/8/8/3r4/3R4/8/8/4K3 w - - 0 1",
}

func TestEvaluateAntisymmetry(t *testing.T) {
	for _, fen := range antisymmetryFENs {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%s): %v", fen, err)
		}

		forward := Evaluate(pos)
		pos.SideToMove = pos.SideToMove.Other()
		flipped := Evaluate(pos)
		pos.SideToMove = pos.SideToMove.Other()

		if forward != -flipped {
			t.Errorf("%s: eval = %d, flipped = %d; want negation", fen, forward, flipped)
		}
	}
}

func TestEvaluateLeavesBoardUnchanged(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	before := pos.ToFEN()

	Evaluate(pos)

	if got := pos.ToFEN(); got != before {
		t.Errorf("Evaluate mutated the board: %s -> %s", before, got)
	}
}

func TestEvaluateBishopPair(t *testing.T) {
	single, _ := board.ParseFEN("4k3/8/8/8/8/8/8/2B1K3 w - - 0 1")
	pair, _ := board.ParseFEN("4k3/8/8/8/8/8/8/2BBK3 w - - 0 1")

	if Evaluate(pair) <= Evaluate(single) {
		t.Error("two bishops should evaluate above one")
	}
}

func TestTableStoresAndEvicts(t *testing.T) {
	tt := NewTable(8)

	for i := 0; i < 8; i++ {
		tt.Store(uint64(i), i, i*10, FlagExact, 0)
	}
	if tt.Len() != 8 {
		t.Fatalf("len = %d, want 8", tt.Len())
	}

	// The ninth insert evicts the shallower half.
	tt.Store(99, 20, 5, FlagLower, 0)
	if tt.Len() != 5 {
		t.Fatalf("after eviction len = %d, want 5", tt.Len())
	}

	if _, found := tt.Probe(0); found {
		t.Error("depth-0 entry should have been evicted")
	}
	e, found := tt.Probe(7)
	if !found {
		t.Fatal("deepest old entry should survive eviction")
	}
	if e.Age != 1 {
		t.Errorf("survivor age = %d, want 1", e.Age)
	}

	n, found := tt.Probe(99)
	if !found || n.Age != 0 {
		t.Error("fresh entry should be present at age 0")
	}
}

func TestOrderingPrefersTTMoveAndCaptures(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/3p4/8/4N3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	moves := pos.GenerateLegalMoves()
	mo := NewMoveOrderer()

	// Pick a quiet knight move as the TT move.
	var ttMove uint16
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.IsQuiet() && m.Piece.Type() == board.Knight {
			ttMove = m.Packed()
			break
		}
	}

	scores := mo.ScoreMoves(moves, 0, ttMove)
	PickMove(moves, scores, 0)
	if !moves.Get(0).MatchesPacked(ttMove) {
		t.Error("TT move should sort first")
	}

	PickMove(moves, scores, 1)
	if !moves.Get(1).IsCapture() {
		t.Errorf("capture should sort ahead of quiet moves, got %s", moves.Get(1))
	}
}

func TestKillerShiftAndHistoryDecay(t *testing.T) {
	mo := NewMoveOrderer()
	m1 := board.Move{From: board.B1, To: board.C3}
	m2 := board.Move{From: board.G1, To: board.F3}

	mo.RecordKiller(m1, 3)
	mo.RecordKiller(m2, 3)
	if !mo.killers[3][0].Same(m2) || !mo.killers[3][1].Same(m1) {
		t.Error("new killer should shift the old into the second slot")
	}

	mo.history[m1.From][m1.To] = historyCeiling
	mo.RecordHistory(m1, 4)
	if got := mo.history[m1.From][m1.To]; got > historyCeiling {
		t.Errorf("history should decay after crossing the ceiling, got %d", got)
	}
}

func TestStopAbortsSearch(t *testing.T) {
	eng := NewEngine()

	done := make(chan string, 1)
	go func() {
		move, _ := eng.BestMove(time.Minute, 40)
		done <- move
	}()

	time.Sleep(50 * time.Millisecond)
	eng.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("search did not stop promptly")
	}
}

func TestTimeLimitRespected(t *testing.T) {
	eng := NewEngine()

	start := time.Now()
	_, ok := eng.BestMove(150*time.Millisecond, 40)
	elapsed := time.Since(start)

	if !ok {
		t.Fatal("expected a move")
	}
	if elapsed > 2*time.Second {
		t.Errorf("search overran its budget: %v", elapsed)
	}
}

func TestDrawScoreInsufficientMaterial(t *testing.T) {
	eng := NewEngine()
	// Same-colored bishops: dead draw.
	if err := eng.LoadFEN("8/8/1b2k3/8/8/3KB3/8/8 w - - 0 1"); err != nil {
		t.Fatalf("LoadFEN: %v", err)
	}

	var lastScore = -1
	eng.OnInfo = func(info SearchInfo) { lastScore = info.Score }

	if _, ok := eng.BestMove(0, 3); !ok {
		t.Fatal("moves exist even in a dead draw")
	}
	if lastScore != 0 {
		t.Errorf("dead-draw score = %d, want 0", lastScore)
	}
}

func TestAllocateMoveTime(t *testing.T) {
	if got := AllocateMoveTime(30 * time.Second); got != time.Second {
		t.Errorf("30s clock: budget = %v, want 1s", got)
	}
	if got := AllocateMoveTime(10 * time.Minute); got != maxMoveTime {
		t.Errorf("long clock: budget = %v, want cap %v", got, maxMoveTime)
	}
}
