package board

// Position keys for the transposition table and opening book. The key
// covers exactly the four identity fields of the FEN form: placement,
// side to move, castling rights and en passant target. Halfmove clock and
// fullmove number are excluded. Keys are computed from scratch on demand;
// there is no incremental maintenance through make/unmake.
var (
	keyPiece      [2][7][64]uint64 // [Color][PieceType][Square]
	keyEnPassant  [8]uint64        // one per file
	keyCastling   [16]uint64       // all castling-rights combinations
	keySideToMove uint64           // xored in when black is to move
)

func init() {
	initKeys()
}

// prng is a small xorshift64* generator with a fixed seed so key tables
// are reproducible across runs.
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initKeys() {
	rng := prng{state: 0x9E3C5D1FAB27E041}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				keyPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for file := 0; file < 8; file++ {
		keyEnPassant[file] = rng.next()
	}
	for i := 0; i < 16; i++ {
		keyCastling[i] = rng.next()
	}
	keySideToMove = rng.next()
}

// Key computes the 64-bit identity key for the position.
func (p *Position) Key() uint64 {
	var key uint64

	for sq := A1; sq <= H8; sq++ {
		pc := p.Squares[sq]
		if pc == NoPiece {
			continue
		}
		key ^= keyPiece[pc.Color()][pc.Type()][sq]
	}

	if p.SideToMove == Black {
		key ^= keySideToMove
	}

	key ^= keyCastling[p.Castling]

	if p.EnPassant != NoSquare {
		key ^= keyEnPassant[p.EnPassant.File()]
	}

	return key
}
