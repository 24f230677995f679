package board

import "fmt"

// Move describes a single move together with the state it has to restore
// on unmake. The saved* fields are filled in by MakeMove when the move is
// pushed onto the history stack; generated moves leave them zero.
//
// For en passant, Captured holds the enemy pawn even though the target
// square itself is empty.
type Move struct {
	From      Square
	To        Square
	Piece     Piece     // moving piece, before any promotion
	Captured  Piece     // NoPiece for quiet moves
	Promotion PieceType // Empty unless the move promotes
	EnPassant bool
	Castle    bool

	savedCastling  CastlingRights
	savedEnPassant Square
	savedHalfMove  int
}

// NoMove is the zero Move; no legal move has From == To.
var NoMove = Move{}

// IsZero reports whether m is the zero move.
func (m Move) IsZero() bool {
	return m.From == m.To && m.Piece == NoPiece
}

// IsCapture returns true if the move captures a piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// IsQuiet returns true if the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return m.Captured == NoPiece && m.Promotion == Empty
}

// Same reports whether two moves describe the same from/to/promotion
// triple, ignoring any saved undo state.
func (m Move) Same(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// Packed encodes the from/to/promotion triple into 16 bits for compact
// storage in the transposition table.
func (m Move) Packed() uint16 {
	return uint16(m.From) | uint16(m.To)<<6 | uint16(m.Promotion)<<12
}

// MatchesPacked reports whether the move corresponds to a packed encoding.
func (m Move) MatchesPacked(p uint16) bool {
	return p != 0 && m.Packed() == p
}

// String returns the long algebraic form of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsZero() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	switch m.Promotion {
	case Queen:
		s += "q"
	case Rook:
		s += "r"
	case Bishop:
		s += "b"
	case Knight:
		s += "n"
	}
	return s
}

// ParseMoveText parses a long algebraic move string into from, to and
// promotion components. It does not check legality.
func ParseMoveText(s string) (from, to Square, promo PieceType, err error) {
	if len(s) < 4 || len(s) > 5 {
		return NoSquare, NoSquare, Empty, fmt.Errorf("%w: invalid move %q", ErrParse, s)
	}
	from, err = ParseSquare(s[0:2])
	if err != nil {
		return NoSquare, NoSquare, Empty, err
	}
	to, err = ParseSquare(s[2:4])
	if err != nil {
		return NoSquare, NoSquare, Empty, err
	}
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return NoSquare, NoSquare, Empty, fmt.Errorf("%w: invalid promotion %q", ErrParse, s)
		}
	}
	return from, to, promo, nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Slice returns the moves as a slice backed by the list's array.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
