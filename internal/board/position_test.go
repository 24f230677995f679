package board

import "testing"

// roundTripFENs exercises make/unmake across castling, en passant,
// promotions, pins and underpromotion-rich middlegames.
var roundTripFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
	"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
	"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
	"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
}

// equalPositions compares every observable field, including history depth.
func equalPositions(a, b *Position) bool {
	if a.Squares != b.Squares ||
		a.SideToMove != b.SideToMove ||
		a.Castling != b.Castling ||
		a.EnPassant != b.EnPassant ||
		a.HalfMoveClock != b.HalfMoveClock ||
		a.FullMoveNumber != b.FullMoveNumber ||
		a.KingSquare != b.KingSquare {
		return false
	}
	return len(a.history) == len(b.history)
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	for _, fen := range roundTripFENs {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			before := pos.Copy()

			moves := pos.GenerateLegalMoves()
			for i := 0; i < moves.Len(); i++ {
				m := moves.Get(i)
				pos.MakeMove(m)
				pos.UnmakeMove()
				if !equalPositions(pos, before) {
					t.Fatalf("position not restored after %s:\nbefore: %s\nafter:  %s",
						m, before.ToFEN(), pos.ToFEN())
				}
			}
		})
	}
}

func TestMakeUnmakeRoundTripDeep(t *testing.T) {
	// Walk two plies deep from Kiwipete and verify restoration at every level.
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	root := pos.Copy()

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		pos.MakeMove(m)
		inner := pos.Copy()

		replies := pos.GenerateLegalMoves()
		for j := 0; j < replies.Len(); j++ {
			r := replies.Get(j)
			pos.MakeMove(r)
			pos.UnmakeMove()
			if !equalPositions(pos, inner) {
				t.Fatalf("inner position not restored after %s %s", m, r)
			}
		}

		pos.UnmakeMove()
		if !equalPositions(pos, root) {
			t.Fatalf("root position not restored after %s", m)
		}
	}
}

func TestKingInvariants(t *testing.T) {
	for _, fen := range roundTripFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%s): %v", fen, err)
		}

		moves := pos.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			pos.MakeMove(moves.Get(i))
			if err := pos.Validate(); err != nil {
				t.Errorf("after %s from %s: %v", moves.Get(i), fen, err)
			}
			pos.UnmakeMove()
		}
	}
}

func TestEnPassantCapture(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	m, ok := pos.FindMove(E5, D6, Empty)
	if !ok {
		t.Fatal("e5d6 should be legal")
	}
	if !m.EnPassant {
		t.Fatal("e5d6 should be flagged en passant")
	}

	pos.MakeMove(m)
	if pos.Squares[D5] != NoPiece {
		t.Errorf("pawn on d5 should be removed by en passant, got %s", pos.Squares[D5])
	}
	if pos.Squares[D6] != WhitePawn {
		t.Errorf("white pawn should land on d6, got %s", pos.Squares[D6])
	}
}

func TestEnPassantTargetClears(t *testing.T) {
	pos := NewPosition()

	m, _ := pos.FindMove(E2, E4, Empty)
	pos.MakeMove(m)
	if pos.EnPassant != E3 {
		t.Fatalf("en passant target = %s, want e3", pos.EnPassant)
	}

	m, _ = pos.FindMove(G8, F6, Empty)
	pos.MakeMove(m)
	if pos.EnPassant != NoSquare {
		t.Errorf("en passant target should clear after a quiet reply, got %s", pos.EnPassant)
	}
}

func TestCastlingBlockedByAttack(t *testing.T) {
	// White to castle kingside with a black rook watching f8..f1.
	pos, err := ParseFEN("r3kr2/8/8/8/8/8/8/R3K2R w KQq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	if _, ok := pos.FindMove(E1, G1, Empty); ok {
		t.Error("e1g1 should be illegal: f1 is attacked by the rook on f8")
	}
	if _, ok := pos.FindMove(E1, C1, Empty); !ok {
		t.Error("e1c1 should remain legal")
	}
}

func TestCastlingRookJump(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	m, ok := pos.FindMove(E1, G1, Empty)
	if !ok {
		t.Fatal("e1g1 should be legal")
	}
	pos.MakeMove(m)

	if pos.Squares[G1] != WhiteKing || pos.Squares[F1] != WhiteRook {
		t.Errorf("after O-O: g1=%s f1=%s", pos.Squares[G1], pos.Squares[F1])
	}
	if pos.Squares[H1] != NoPiece || pos.Squares[E1] != NoPiece {
		t.Error("h1 and e1 should be empty after O-O")
	}
	if pos.Castling&(WhiteKingSideCastle|WhiteQueenSideCastle) != 0 {
		t.Error("white castling rights should be gone after O-O")
	}

	pos.UnmakeMove()
	if pos.Squares[H1] != WhiteRook || pos.Squares[E1] != WhiteKing {
		t.Error("unmake should restore king and rook")
	}
	if pos.Castling != AllCastling {
		t.Errorf("unmake should restore castling rights, got %s", pos.Castling)
	}
}

func TestPromotionCaptureClearsEnemyRight(t *testing.T) {
	// A white pawn promoting with capture on a8 must clear black's
	// queenside right even though no rook move was involved.
	pos, err := ParseFEN("r3k3/1P6/8/8/8/8/8/4K3 w q - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	m, ok := pos.FindMove(B7, A8, Queen)
	if !ok {
		t.Fatal("b7a8q should be legal")
	}
	pos.MakeMove(m)
	if pos.Castling&BlackQueenSideCastle != 0 {
		t.Error("capturing the a8 rook by promotion must clear black's queenside right")
	}
	pos.UnmakeMove()
	if pos.Castling&BlackQueenSideCastle == 0 {
		t.Error("unmake should restore black's queenside right")
	}
}

func TestStalematePosition(t *testing.T) {
	pos, err := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	if pos.InCheck() {
		t.Error("black should not be in check")
	}
	if moves := pos.GenerateLegalMoves(); moves.Len() != 0 {
		t.Errorf("expected 0 legal moves, got %d", moves.Len())
	}
	if !pos.IsStalemate() {
		t.Error("position should be stalemate")
	}
}

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range roundTripFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%s): %v", fen, err)
		}
		if got := pos.ToFEN(); got != fen {
			t.Errorf("FEN round trip: got %q, want %q", got, fen)
		}
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KXkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",
		"8/8/8/8/8/8/8/8 w - - 0 1", // no kings
	}

	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) should fail", fen)
		}
	}
}

func TestKeyCoversIdentityFieldsOnly(t *testing.T) {
	a, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	b, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 42 9")
	if a.Key() != b.Key() {
		t.Error("clock fields must not affect the position key")
	}

	c, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if a.Key() == c.Key() {
		t.Error("side to move must affect the position key")
	}

	d, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w Qkq - 0 1")
	if a.Key() == d.Key() {
		t.Error("castling rights must affect the position key")
	}
}
