package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is wrapped by all position and move text parsing failures.
var ErrParse = errors.New("parse error")

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// castlingMask[sq] holds the rights that survive a piece moving from or
// arriving on sq. Any traffic touching a king or rook home square clears
// the associated rights, including a promotion capturing a rook at home.
var castlingMask = func() [64]CastlingRights {
	var m [64]CastlingRights
	for sq := A1; sq <= H8; sq++ {
		m[sq] = AllCastling
	}
	m[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	m[A1] &^= WhiteQueenSideCastle
	m[H1] &^= WhiteKingSideCastle
	m[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
	m[A8] &^= BlackQueenSideCastle
	m[H8] &^= BlackKingSideCastle
	return m
}()

// Position represents a complete chess position.
type Position struct {
	// Squares holds the piece on each square, indexed rank*8+file, a1=0.
	Squares [64]Piece

	// Game state
	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square // target square of a double push, NoSquare if none
	HalfMoveClock  int    // plies since last pawn move or capture
	FullMoveNumber int    // increments after black moves, starts at 1

	// King positions, maintained in lockstep with board mutation.
	KingSquare [2]Square

	// history is the LIFO of undo records for MakeMove/UnmakeMove.
	history []Move
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position with an independent history.
func (p *Position) Copy() *Position {
	np := *p
	np.history = make([]Move, len(p.history))
	copy(np.history, p.history)
	return &np
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Squares[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Squares[sq] == NoPiece
}

// HistoryLen returns the number of moves on the undo stack.
func (p *Position) HistoryLen() int {
	return len(p.history)
}

// LastMove returns the most recent move made, if any.
func (p *Position) LastMove() (Move, bool) {
	if len(p.history) == 0 {
		return NoMove, false
	}
	return p.history[len(p.history)-1], true
}

// epCaptureSquare returns the square of the pawn removed by an en passant
// capture landing on to.
func epCaptureSquare(to Square, mover Color) Square {
	if mover == White {
		return to - 8
	}
	return to + 8
}

// MakeMove applies a move and pushes an undo record onto the history
// stack. The move must be pseudo-legal for the side to move; legality
// filtering is the caller's responsibility.
func (p *Position) MakeMove(m Move) {
	us := p.SideToMove

	m.Piece = p.Squares[m.From]
	if m.EnPassant {
		m.Captured = p.Squares[epCaptureSquare(m.To, us)]
	} else {
		m.Captured = p.Squares[m.To]
	}
	m.savedCastling = p.Castling
	m.savedEnPassant = p.EnPassant
	m.savedHalfMove = p.HalfMoveClock
	p.history = append(p.history, m)

	if m.Piece.Type() == Pawn || m.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}
	p.EnPassant = NoSquare

	p.Squares[m.From] = NoPiece
	if m.Promotion != Empty {
		p.Squares[m.To] = NewPiece(m.Promotion, us)
	} else {
		p.Squares[m.To] = m.Piece
	}

	if m.EnPassant {
		p.Squares[epCaptureSquare(m.To, us)] = NoPiece
	}

	if m.Castle {
		rookFrom, rookTo := castleRookSquares(m.To)
		p.Squares[rookTo] = p.Squares[rookFrom]
		p.Squares[rookFrom] = NoPiece
	}

	if m.Piece.Type() == Pawn {
		if diff := int(m.To) - int(m.From); diff == 16 || diff == -16 {
			p.EnPassant = (m.From + m.To) / 2
		}
	}

	p.Castling &= castlingMask[m.From] & castlingMask[m.To]

	if m.Piece.Type() == King {
		p.KingSquare[us] = m.To
	}

	p.SideToMove = us.Other()
}

// UnmakeMove pops the most recent undo record and restores the position
// bit-identically, including castling rights, en passant, clocks, king
// caches and history depth.
func (p *Position) UnmakeMove() {
	if len(p.history) == 0 {
		return
	}
	m := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]

	us := p.SideToMove.Other() // the side that made the move
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}
	p.Castling = m.savedCastling
	p.EnPassant = m.savedEnPassant
	p.HalfMoveClock = m.savedHalfMove

	p.Squares[m.From] = m.Piece
	p.Squares[m.To] = NoPiece

	if m.EnPassant {
		p.Squares[epCaptureSquare(m.To, us)] = m.Captured
	} else if m.Captured != NoPiece {
		p.Squares[m.To] = m.Captured
	}

	if m.Castle {
		rookFrom, rookTo := castleRookSquares(m.To)
		p.Squares[rookFrom] = p.Squares[rookTo]
		p.Squares[rookTo] = NoPiece
	}

	if m.Piece.Type() == King {
		p.KingSquare[us] = m.From
	}
}

// castleRookSquares maps a king's castling destination to the rook's
// from/to squares.
func castleRookSquares(kingTo Square) (rookFrom, rookTo Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	}
	return NoSquare, NoSquare
}

// NullUndo stores state for unmaking a null move.
type NullUndo struct {
	EnPassant Square
}

// MakeNullMove passes the turn without moving, for null move pruning.
func (p *Position) MakeNullMove() NullUndo {
	undo := NullUndo{EnPassant: p.EnPassant}
	p.EnPassant = NoSquare
	p.SideToMove = p.SideToMove.Other()
	return undo
}

// UnmakeNullMove undoes a null move.
func (p *Position) UnmakeNullMove(undo NullUndo) {
	p.EnPassant = undo.EnPassant
	p.SideToMove = p.SideToMove.Other()
}

// HasNonPawnMaterial returns true if the side to move has at least one
// piece that is neither a king nor a pawn. Used as the null-move guard
// to avoid zugzwang-heavy endings.
func (p *Position) HasNonPawnMaterial() bool {
	us := p.SideToMove
	for sq := A1; sq <= H8; sq++ {
		pc := p.Squares[sq]
		if pc.IsColor(us) {
			switch pc.Type() {
			case Knight, Bishop, Rook, Queen:
				return true
			}
		}
	}
	return false
}

// IsInsufficientMaterial reports the dead draws the search recognizes:
// K vs K, K+minor vs K, and K+B vs K+B with both bishops on the same
// color complex.
func (p *Position) IsInsufficientMaterial() bool {
	var minors [2]int
	var bishopSquares []Square
	for sq := A1; sq <= H8; sq++ {
		pc := p.Squares[sq]
		switch pc.Type() {
		case Empty, King:
		case Knight:
			minors[pc.Color()]++
		case Bishop:
			minors[pc.Color()]++
			bishopSquares = append(bishopSquares, sq)
		default:
			return false
		}
	}

	total := minors[White] + minors[Black]
	if total <= 1 {
		return true
	}
	if total == 2 && minors[White] == 1 && minors[Black] == 1 && len(bishopSquares) == 2 {
		c0 := (bishopSquares[0].File() + bishopSquares[0].Rank()) & 1
		c1 := (bishopSquares[1].File() + bishopSquares[1].Rank()) & 1
		return c0 == c1
	}
	return false
}

// Validate checks basic position invariants.
func (p *Position) Validate() error {
	var kings [2]int
	for sq := A1; sq <= H8; sq++ {
		pc := p.Squares[sq]
		if pc.Type() == King {
			kings[pc.Color()]++
		}
		if pc.Type() == Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
			return fmt.Errorf("pawn on back rank %s", sq)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("need exactly one king per side, got %d white / %d black", kings[White], kings[Black])
	}
	if p.KingSquare[White].IsValid() && p.Squares[p.KingSquare[White]] != WhiteKing {
		return fmt.Errorf("white king cache points at %s", p.KingSquare[White])
	}
	if p.KingSquare[Black].IsValid() && p.Squares[p.KingSquare[Black]] != BlackKing {
		return fmt.Errorf("black king cache points at %s", p.KingSquare[Black])
	}
	return nil
}

// findKings locates and caches the king positions.
func (p *Position) findKings() {
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
	for sq := A1; sq <= H8; sq++ {
		switch p.Squares[sq] {
		case WhiteKing:
			p.KingSquare[White] = sq
		case BlackKing:
			p.KingSquare[Black] = sq
		}
	}
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(p.Squares[NewSquare(file, rank)].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	return sb.String()
}
