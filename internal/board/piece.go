package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the kind of a chess piece. Empty is the zero value.
type PieceType uint8

const (
	Empty PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "Empty"
	}
}

// PieceValue maps piece types to their material value in centipawns.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 20000}

// Piece packs a PieceType and a Color into a single value: the type lives
// in the low three bits, the color in one of the two flag bits above them.
// NoPiece (an empty square) carries neither color flag.
type Piece uint8

const (
	whiteFlag Piece = 8
	blackFlag Piece = 16

	NoPiece Piece = 0

	WhitePawn   = Piece(Pawn) | whiteFlag
	WhiteKnight = Piece(Knight) | whiteFlag
	WhiteBishop = Piece(Bishop) | whiteFlag
	WhiteRook   = Piece(Rook) | whiteFlag
	WhiteQueen  = Piece(Queen) | whiteFlag
	WhiteKing   = Piece(King) | whiteFlag
	BlackPawn   = Piece(Pawn) | blackFlag
	BlackKnight = Piece(Knight) | blackFlag
	BlackBishop = Piece(Bishop) | blackFlag
	BlackRook   = Piece(Rook) | blackFlag
	BlackQueen  = Piece(Queen) | blackFlag
	BlackKing   = Piece(King) | blackFlag
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == Empty || c >= NoColor {
		return NoPiece
	}
	if c == White {
		return Piece(pt) | whiteFlag
	}
	return Piece(pt) | blackFlag
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	return PieceType(p & 7)
}

// Color returns the Color of the piece. NoPiece has NoColor.
func (p Piece) Color() Color {
	switch {
	case p&whiteFlag != 0:
		return White
	case p&blackFlag != 0:
		return Black
	default:
		return NoColor
	}
}

// IsColor returns true if the piece belongs to the given color.
func (p Piece) IsColor(c Color) bool {
	return p != NoPiece && p.Color() == c
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black, "." for empty.
func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	chars := " PNBRQK"
	c := chars[p.Type()]
	if p.Color() == Black {
		c += 'a' - 'A'
	}
	return string(c)
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}
