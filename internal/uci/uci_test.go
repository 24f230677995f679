package uci

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Salsakeyy/EnzoChess/internal/engine"
)

func newTestUCI() (*UCI, *bytes.Buffer) {
	u := New(engine.NewEngine())
	buf := &bytes.Buffer{}
	u.out = buf
	return u, buf
}

func (u *UCI) waitSearch(t *testing.T) {
	t.Helper()
	select {
	case <-u.searchDone:
	case <-time.After(30 * time.Second):
		t.Fatal("search did not finish")
	}
}

func TestHandshake(t *testing.T) {
	u, buf := newTestUCI()

	u.handle("uci")
	out := buf.String()
	if !strings.Contains(out, "id name EnzoChess") {
		t.Error("missing id line")
	}
	if !strings.Contains(out, "uciok") {
		t.Error("missing uciok")
	}

	buf.Reset()
	u.handle("isready")
	if !strings.Contains(buf.String(), "readyok") {
		t.Error("missing readyok")
	}
}

func TestPositionCommand(t *testing.T) {
	u, _ := newTestUCI()

	u.handle("position startpos moves e2e4 e7e5")
	fen := u.engine.Position().ToFEN()
	if !strings.HasPrefix(fen, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w") {
		t.Errorf("unexpected position after moves: %s", fen)
	}

	u.handle("position fen 6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1")
	if got := u.engine.Position().ToFEN(); got != "6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1" {
		t.Errorf("fen position not loaded: %s", got)
	}

	u.handle("position fen 8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1 moves e4e3")
	if got := u.engine.Position().ToFEN(); !strings.HasPrefix(got, "8/8/8/8/k2P3R/4p3/8/4K3 w") {
		t.Errorf("fen+moves position wrong: %s", got)
	}
}

func TestGoDepthProducesBestmove(t *testing.T) {
	u, buf := newTestUCI()

	u.handle("setoption name OwnBook value false")
	u.handle("position fen 6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1")
	u.handle("go depth 2")
	u.waitSearch(t)

	out := buf.String()
	if !strings.Contains(out, "bestmove e1e8") {
		t.Errorf("expected bestmove e1e8, got:\n%s", out)
	}
	if !strings.Contains(out, "score mate 1") {
		t.Errorf("expected mate score in info, got:\n%s", out)
	}
}

func TestGoUsesBookAtStart(t *testing.T) {
	u, buf := newTestUCI()

	u.handle("position startpos")
	u.handle("go depth 1")
	u.waitSearch(t)

	out := buf.String()
	if !strings.Contains(out, "bestmove e2e4") {
		t.Errorf("expected the book reply e2e4, got:\n%s", out)
	}
	if strings.Contains(out, "info depth") {
		t.Errorf("book reply should be returned without a search, got:\n%s", out)
	}
}

func TestStalemateBestmoveNone(t *testing.T) {
	u, buf := newTestUCI()

	u.handle("position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	u.handle("go depth 3")
	u.waitSearch(t)

	if !strings.Contains(buf.String(), "bestmove 0000") {
		t.Errorf("stalemate should answer bestmove 0000, got:\n%s", buf.String())
	}
}

func TestStopEndsSearch(t *testing.T) {
	u, buf := newTestUCI()

	u.handle("setoption name OwnBook value false")
	u.handle("position startpos")
	u.handle("go infinite")
	time.Sleep(50 * time.Millisecond)
	u.handle("stop")

	if !strings.Contains(buf.String(), "bestmove ") {
		t.Errorf("stop should still produce a bestmove, got:\n%s", buf.String())
	}
}

func TestParseGoOptions(t *testing.T) {
	opts := parseGoOptions(strings.Fields("wtime 60000 btime 45000 winc 1000 binc 1000 movestogo 20"))
	if opts.wtime != time.Minute || opts.btime != 45*time.Second {
		t.Errorf("clock parse wrong: %+v", opts)
	}

	opts = parseGoOptions(strings.Fields("movetime 2500"))
	if opts.moveTime != 2500*time.Millisecond {
		t.Errorf("movetime parse wrong: %+v", opts)
	}

	opts = parseGoOptions(strings.Fields("depth 7"))
	if opts.depth != 7 {
		t.Errorf("depth parse wrong: %+v", opts)
	}
}

func TestTimeAllocationFromClocks(t *testing.T) {
	// With only clock times, the budget is remaining/30 capped at 5s.
	if got := engine.AllocateMoveTime(60 * time.Second); got != 2*time.Second {
		t.Errorf("60s clock: budget = %v, want 2s", got)
	}
	if got := engine.AllocateMoveTime(time.Hour); got != 5*time.Second {
		t.Errorf("1h clock: budget = %v, want 5s", got)
	}
}

func TestParseOption(t *testing.T) {
	name, value := parseOption(strings.Fields("name Book File value /tmp/my book.bin"))
	if name != "Book File" {
		t.Errorf("name = %q", name)
	}
	if value != "/tmp/my book.bin" {
		t.Errorf("value = %q", value)
	}
}
