package board

// promotionTypes is the expansion order for pawn promotions.
var promotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

// GenerateLegalMoves returns all legal moves for the side to move.
// Generation is pseudo-legal-then-filter: each candidate is played, the
// own king tested for attack, and the move unplayed.
func (p *Position) GenerateLegalMoves() *MoveList {
	return p.generateLegal(false)
}

// GenerateCaptures returns all legal capturing moves for the side to move.
func (p *Position) GenerateCaptures() *MoveList {
	return p.generateLegal(true)
}

func (p *Position) generateLegal(capturesOnly bool) *MoveList {
	us := p.SideToMove
	pseudo := &MoveList{}
	p.generatePseudoLegal(pseudo, capturesOnly)

	legal := &MoveList{}
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		p.MakeMove(m)
		if !p.InCheckColor(us) {
			legal.Add(m)
		}
		p.UnmakeMove()
	}
	return legal
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	us := p.SideToMove
	pseudo := &MoveList{}
	p.generatePseudoLegal(pseudo, false)
	for i := 0; i < pseudo.Len(); i++ {
		p.MakeMove(pseudo.Get(i))
		ok := !p.InCheckColor(us)
		p.UnmakeMove()
		if ok {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the side to move is in check with no legal moves.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move is not in check and has no
// legal moves.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

func (p *Position) generatePseudoLegal(list *MoveList, capturesOnly bool) {
	us := p.SideToMove
	for sq := A1; sq <= H8; sq++ {
		pc := p.Squares[sq]
		if !pc.IsColor(us) {
			continue
		}
		switch pc.Type() {
		case Pawn:
			p.generatePawnMoves(list, sq, capturesOnly)
		case Knight:
			p.generateKnightMoves(list, sq, capturesOnly)
		case Bishop:
			p.generateSliderMoves(list, sq, bishopDirs[:], capturesOnly)
		case Rook:
			p.generateSliderMoves(list, sq, rookDirs[:], capturesOnly)
		case Queen:
			p.generateSliderMoves(list, sq, queenDirs[:], capturesOnly)
		case King:
			p.generateKingMoves(list, sq, capturesOnly)
		}
	}
}

func (p *Position) generatePawnMoves(list *MoveList, sq Square, capturesOnly bool) {
	us := p.SideToMove
	var dir Square = 8
	startRank, promoRank := 1, 6
	if us == Black {
		dir = -8
		startRank, promoRank = 6, 1
	}

	pawn := p.Squares[sq]
	addPawnMove := func(to Square, captured Piece, enPassant bool) {
		if sq.Rank() == promoRank {
			for _, pt := range promotionTypes {
				list.Add(Move{From: sq, To: to, Piece: pawn, Captured: captured, Promotion: pt})
			}
			return
		}
		list.Add(Move{From: sq, To: to, Piece: pawn, Captured: captured, EnPassant: enPassant})
	}

	if !capturesOnly {
		fwd := sq + dir
		if fwd.IsValid() && p.Squares[fwd] == NoPiece {
			addPawnMove(fwd, NoPiece, false)
			if sq.Rank() == startRank {
				double := sq + 2*dir
				if p.Squares[double] == NoPiece {
					list.Add(Move{From: sq, To: double, Piece: pawn})
				}
			}
		}
	}

	for _, side := range [2]Square{-1, 1} {
		to := sq + dir + side
		if !to.IsValid() || fileDelta(sq, to) != 1 {
			continue
		}
		if p.Squares[to].IsColor(us.Other()) {
			addPawnMove(to, p.Squares[to], false)
		} else if to == p.EnPassant {
			addPawnMove(to, NewPiece(Pawn, us.Other()), true)
		}
	}
}

func (p *Position) generateKnightMoves(list *MoveList, sq Square, capturesOnly bool) {
	us := p.SideToMove
	for _, off := range knightOffsets {
		to := sq + off
		if !knightStepOK(sq, to) {
			continue
		}
		target := p.Squares[to]
		if target.IsColor(us) {
			continue
		}
		if capturesOnly && target == NoPiece {
			continue
		}
		list.Add(Move{From: sq, To: to, Piece: p.Squares[sq], Captured: target})
	}
}

func (p *Position) generateSliderMoves(list *MoveList, sq Square, dirs []Square, capturesOnly bool) {
	us := p.SideToMove
	for _, d := range dirs {
		cur := sq
		for {
			next := cur + d
			if !stepOK(cur, next) {
				break
			}
			target := p.Squares[next]
			if target == NoPiece {
				if !capturesOnly {
					list.Add(Move{From: sq, To: next, Piece: p.Squares[sq]})
				}
				cur = next
				continue
			}
			if target.IsColor(us.Other()) {
				list.Add(Move{From: sq, To: next, Piece: p.Squares[sq], Captured: target})
			}
			break
		}
	}
}

func (p *Position) generateKingMoves(list *MoveList, sq Square, capturesOnly bool) {
	us := p.SideToMove
	for _, off := range kingOffsets {
		to := sq + off
		if !stepOK(sq, to) {
			continue
		}
		target := p.Squares[to]
		if target.IsColor(us) {
			continue
		}
		if capturesOnly && target == NoPiece {
			continue
		}
		list.Add(Move{From: sq, To: to, Piece: p.Squares[sq], Captured: target})
	}

	if !capturesOnly {
		p.generateCastlingMoves(list, sq)
	}
}

// generateCastlingMoves adds castling when the right is held, the squares
// between king and rook are empty, the king is not in check, and neither
// transit nor destination square is attacked.
func (p *Position) generateCastlingMoves(list *MoveList, sq Square) {
	us := p.SideToMove
	them := us.Other()

	type castleSide struct {
		right  CastlingRights
		kingTo Square
		empty  []Square
		safe   []Square
	}

	var sides [2]castleSide
	if us == White {
		if sq != E1 {
			return
		}
		sides = [2]castleSide{
			{WhiteKingSideCastle, G1, []Square{F1, G1}, []Square{F1, G1}},
			{WhiteQueenSideCastle, C1, []Square{B1, C1, D1}, []Square{C1, D1}},
		}
	} else {
		if sq != E8 {
			return
		}
		sides = [2]castleSide{
			{BlackKingSideCastle, G8, []Square{F8, G8}, []Square{F8, G8}},
			{BlackQueenSideCastle, C8, []Square{B8, C8, D8}, []Square{C8, D8}},
		}
	}

	if p.Castling&(sides[0].right|sides[1].right) == 0 {
		return
	}
	if p.SquareAttacked(sq, them) {
		return
	}

	for _, cs := range sides {
		if p.Castling&cs.right == 0 {
			continue
		}
		clear := true
		for _, esq := range cs.empty {
			if p.Squares[esq] != NoPiece {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		safe := true
		for _, ssq := range cs.safe {
			if p.SquareAttacked(ssq, them) {
				safe = false
				break
			}
		}
		if !safe {
			continue
		}
		list.Add(Move{From: sq, To: cs.kingTo, Piece: p.Squares[sq], Castle: true})
	}
}

// FindMove locates a legal move matching the from/to/promotion triple.
// It returns the fully-flagged legal move (castle and en passant flags
// resolved) or false when no such move is legal.
func (p *Position) FindMove(from, to Square, promo PieceType) (Move, bool) {
	moves := p.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From == from && m.To == to && m.Promotion == promo {
			return m, true
		}
	}
	return NoMove, false
}
