package book

import "github.com/Salsakeyy/EnzoChess/internal/board"

// Book keys live in their own namespace, separate from the engine's
// transposition keys, so book files stay valid across engine-internal
// key changes. The tables follow the Polyglot layout: twelve piece
// kinds ordered black-pawn first, four castling flags, eight en passant
// files and a side-to-move key.
var (
	bookPieces     [12][64]uint64
	bookCastling   [4]uint64
	bookEnPassant  [8]uint64
	bookSideToMove uint64
)

func init() {
	var s uint64 = 0x37B4A4B3F0D1C0D0

	next := func() uint64 {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		return s * 0x2545F4914F6CDD1D
	}

	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			bookPieces[piece][sq] = next()
		}
	}
	for i := 0; i < 4; i++ {
		bookCastling[i] = next()
	}
	for i := 0; i < 8; i++ {
		bookEnPassant[i] = next()
	}
	bookSideToMove = next()
}

// pieceKind maps a board piece to the Polyglot kind index:
// bp=0, bn=1, bb=2, br=3, bq=4, bk=5, wp=6, wn=7, ..., wk=11.
func pieceKind(pc board.Piece) int {
	kind := int(pc.Type()) - 1
	if pc.Color() == board.White {
		kind += 6
	}
	return kind
}

// Key computes the book key for a position. The en passant file only
// participates when a capturing pawn actually stands next to the target,
// matching the Polyglot convention.
func Key(pos *board.Position) uint64 {
	var key uint64

	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.Squares[sq]
		if pc == board.NoPiece {
			continue
		}
		key ^= bookPieces[pieceKind(pc)][sq]
	}

	if pos.Castling&board.WhiteKingSideCastle != 0 {
		key ^= bookCastling[0]
	}
	if pos.Castling&board.WhiteQueenSideCastle != 0 {
		key ^= bookCastling[1]
	}
	if pos.Castling&board.BlackKingSideCastle != 0 {
		key ^= bookCastling[2]
	}
	if pos.Castling&board.BlackQueenSideCastle != 0 {
		key ^= bookCastling[3]
	}

	if pos.EnPassant != board.NoSquare && epCapturable(pos) {
		key ^= bookEnPassant[pos.EnPassant.File()]
	}

	if pos.SideToMove == board.White {
		key ^= bookSideToMove
	}

	return key
}

// epCapturable reports whether a pawn of the side to move stands beside
// the en passant target, ready to capture.
func epCapturable(pos *board.Position) bool {
	us := pos.SideToMove
	pawn := board.NewPiece(board.Pawn, us)

	// The capturing pawn sits on the rank the jumping pawn landed on,
	// one file to either side of the target.
	rank := 4
	if us == board.Black {
		rank = 3
	}

	file := pos.EnPassant.File()
	if file > 0 && pos.Squares[board.NewSquare(file-1, rank)] == pawn {
		return true
	}
	if file < 7 && pos.Squares[board.NewSquare(file+1, rank)] == pawn {
		return true
	}
	return false
}
