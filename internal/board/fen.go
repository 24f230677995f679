package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position. The first four
// fields are required; the halfmove clock and fullmove number default to
// 0 and 1 when absent. On failure no partially-built state escapes.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: FEN needs at least 4 fields, got %d", ErrParse, len(parts))
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	pos.KingSquare[White] = NoSquare
	pos.KingSquare[Black] = NoSquare

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move %q", ErrParse, parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid en passant square %q", ErrParse, parts[3])
		}
		if r := sq.Rank(); r != 2 && r != 5 {
			return nil, fmt.Errorf("%w: en passant square %s not on rank 3 or 6", ErrParse, parts[3])
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("%w: invalid half-move clock %q", ErrParse, parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("%w: invalid full-move number %q", ErrParse, parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	pos.findKings()
	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrParse, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN lists rank 8 first
		file := 0

		for j := 0; j < len(rankStr); j++ {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrParse, rank+1)
			}
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(c)
				if piece == NoPiece {
					return fmt.Errorf("%w: invalid piece character %q", ErrParse, c)
				}
				pos.Squares[NewSquare(file, rank)] = piece
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("%w: rank %d covers %d squares", ErrParse, rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.Castling = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.Castling |= WhiteKingSideCastle
		case 'Q':
			pos.Castling |= WhiteQueenSideCastle
		case 'k':
			pos.Castling |= BlackKingSideCastle
		case 'q':
			pos.Castling |= BlackQueenSideCastle
		default:
			return fmt.Errorf("%w: invalid castling character %q", ErrParse, c)
		}
	}

	return nil
}

// ToFEN returns the canonical FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Squares[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.Castling.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}
