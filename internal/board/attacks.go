package board

// Step offsets on the rank*8+file mailbox. Wrap around the board edge is
// detected by comparing file deltas, not by the offset itself.
var (
	knightOffsets = [8]Square{17, 15, 10, 6, -6, -10, -15, -17}
	kingOffsets   = [8]Square{1, -1, 8, -8, 9, 7, -7, -9}
	bishopDirs    = [4]Square{9, 7, -7, -9}
	rookDirs      = [4]Square{8, -8, 1, -1}
	queenDirs     = [8]Square{9, 7, -7, -9, 8, -8, 1, -1}
)

func fileDelta(a, b Square) int {
	d := a.File() - b.File()
	if d < 0 {
		return -d
	}
	return d
}

// stepOK reports whether a single step from from to to stayed on the
// board: any one-square move changes the file by at most one.
func stepOK(from, to Square) bool {
	return to.IsValid() && fileDelta(from, to) <= 1
}

// knightStepOK reports whether a knight jump from from to to stayed on
// the board; a wrap shows up as a file delta greater than two.
func knightStepOK(from, to Square) bool {
	return to.IsValid() && fileDelta(from, to) <= 2
}

// SquareAttacked reports whether sq is attacked by any piece of the given
// color. Rays terminate at the first occupant; that occupant attacks iff
// its kind matches the ray family.
func (p *Position) SquareAttacked(sq Square, by Color) bool {
	// Pawns. A pawn of color by on one of the two squares diagonally
	// behind sq (from by's point of view) attacks it.
	pawn := NewPiece(Pawn, by)
	var back Square = -8
	if by == Black {
		back = 8
	}
	for _, side := range [2]Square{-1, 1} {
		from := sq + back + side
		if from.IsValid() && fileDelta(from, sq) == 1 && p.Squares[from] == pawn {
			return true
		}
	}

	// Knights.
	knight := NewPiece(Knight, by)
	for _, off := range knightOffsets {
		from := sq + off
		if knightStepOK(sq, from) && p.Squares[from] == knight {
			return true
		}
	}

	// Adjacent enemy king.
	king := NewPiece(King, by)
	for _, off := range kingOffsets {
		from := sq + off
		if stepOK(sq, from) && p.Squares[from] == king {
			return true
		}
	}

	// Sliders along the eight rays.
	for _, d := range queenDirs {
		diagonal := d == 9 || d == 7 || d == -7 || d == -9
		cur := sq
		for {
			next := cur + d
			if !stepOK(cur, next) {
				break
			}
			pc := p.Squares[next]
			if pc == NoPiece {
				cur = next
				continue
			}
			if pc.IsColor(by) {
				pt := pc.Type()
				if pt == Queen || (diagonal && pt == Bishop) || (!diagonal && pt == Rook) {
					return true
				}
			}
			break
		}
	}

	return false
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.InCheckColor(p.SideToMove)
}

// InCheckColor returns true if the given side's king is attacked.
func (p *Position) InCheckColor(c Color) bool {
	ksq := p.KingSquare[c]
	if !ksq.IsValid() {
		return true
	}
	return p.SquareAttacked(ksq, c.Other())
}
