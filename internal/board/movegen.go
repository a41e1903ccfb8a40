package board

// promotionPieces lists the promotion choices in generation order.
var promotionPieces = [4]PieceType{Queen, Rook, Bishop, Knight}

// PseudoLegalMoves appends all pseudo-legal moves for the side to move to
// dst and returns the extended slice. The moves may leave the king in check.
func (b *Board) PseudoLegalMoves(dst []Move) []Move {
	us := b.sideToMove
	for pt := Pawn; pt <= King; pt++ {
		for _, from := range b.lists.list(us, pt) {
			dst = b.appendPieceMoves(dst, from)
		}
	}
	return dst
}

// LegalMoves returns all legal moves for the side to move.
func (b *Board) LegalMoves() []Move {
	return b.LegalMovesInto(make([]Move, 0, 48))
}

// LegalMovesInto appends the legal moves for the side to move to dst.
func (b *Board) LegalMovesInto(dst []Move) []Move {
	start := len(dst)
	dst = b.PseudoLegalMoves(dst)
	return b.filterLegal(dst, start)
}

// LegalMovesForSquare returns the legal moves of the piece on sq. It returns
// nil when sq is empty or holds a piece of the side not to move, and panics
// when sq is off the board.
func (b *Board) LegalMovesForSquare(sq Square) []Move {
	mustBeValid(sq, "query")
	p := b.squares[sq]
	if p.IsEmpty() || p.Color != b.sideToMove {
		return nil
	}
	moves := b.appendPieceMoves(nil, sq)
	return b.filterLegal(moves, 0)
}

// HasLegalMoves returns true if the side to move has any legal move. It stops
// at the first one found.
func (b *Board) HasLegalMoves() bool {
	us := b.sideToMove
	var buf [32]Move
	for pt := Pawn; pt <= King; pt++ {
		for _, from := range b.lists.list(us, pt) {
			for _, m := range b.appendPieceMoves(buf[:0], from) {
				if b.leavesKingSafe(&m) {
					return true
				}
			}
		}
	}
	return false
}

// IsLegal reports whether m is a legal move for the side to move.
func (b *Board) IsLegal(m Move) bool {
	if !m.From.IsValid() || !m.To.IsValid() {
		return false
	}
	p := b.squares[m.From]
	if p.IsEmpty() || p.Color != b.sideToMove {
		return false
	}
	for _, c := range b.appendPieceMoves(nil, m.From) {
		if c.Same(m) {
			return b.leavesKingSafe(&c)
		}
	}
	return false
}

// filterLegal keeps the moves in dst[start:] that do not leave the mover's
// king attacked, compacting them in place.
func (b *Board) filterLegal(dst []Move, start int) []Move {
	n := start
	for i := start; i < len(dst); i++ {
		if b.leavesKingSafe(&dst[i]) {
			dst[n] = dst[i]
			n++
		}
	}
	return dst[:n]
}

// leavesKingSafe applies m, tests the mover's king and takes m back.
func (b *Board) leavesKingSafe(m *Move) bool {
	us := b.sideToMove
	b.ApplyMove(m)
	safe := !b.IsSquareAttacked(b.kingSquare[us], us.Other())
	b.UnapplyMove(m)
	return safe
}

// appendPieceMoves appends the pseudo-legal moves of the piece on from.
func (b *Board) appendPieceMoves(dst []Move, from Square) []Move {
	p := b.squares[from]
	switch p.Type {
	case Pawn:
		return b.appendPawnMoves(dst, from, p)
	case Knight:
		return b.appendLeaperMoves(dst, from, p.Color, knightTargets[from])
	case Bishop:
		return b.appendSliderMoves(dst, from, p.Color, dirNorthWest, 8)
	case Rook:
		return b.appendSliderMoves(dst, from, p.Color, 0, dirNorthWest)
	case Queen:
		return b.appendSliderMoves(dst, from, p.Color, 0, 8)
	case King:
		dst = b.appendLeaperMoves(dst, from, p.Color, kingTargets[from])
		return b.appendCastlingMoves(dst, from, p)
	}
	return dst
}

// appendSliderMoves walks the rays in [startDir, endDir) until blocked.
func (b *Board) appendSliderMoves(dst []Move, from Square, us Color, startDir, endDir int) []Move {
	for dir := startDir; dir < endDir; dir++ {
		to := int(from)
		for n := 0; n < numSquaresToEdge[from][dir]; n++ {
			to += directionOffsets[dir]
			target := b.squares[to]
			if !target.IsEmpty() && target.Color == us {
				break
			}
			dst = append(dst, NewMove(from, Square(to)))
			if !target.IsEmpty() {
				break
			}
		}
	}
	return dst
}

func (b *Board) appendLeaperMoves(dst []Move, from Square, us Color, targets []Square) []Move {
	for _, to := range targets {
		target := b.squares[to]
		if !target.IsEmpty() && target.Color == us {
			continue
		}
		dst = append(dst, NewMove(from, to))
	}
	return dst
}

func (b *Board) appendPawnMoves(dst []Move, from Square, p Piece) []Move {
	us := p.Color
	forward := 8 * pawnDirection(us)
	promoRank := 7
	if us == Black {
		promoRank = 0
	}

	// Pushes
	one := Square(int(from) + forward)
	if b.IsEmpty(one) {
		dst = appendPawnMove(dst, from, one, promoRank)
		if !p.HasMoved && from.RelativeRank(us) == 1 {
			two := Square(int(one) + forward)
			if b.IsEmpty(two) {
				dst = append(dst, NewMove(from, two))
			}
		}
	}

	// Captures, including en passant
	for _, to := range pawnCaptures[us][from] {
		target := b.squares[to]
		if (!target.IsEmpty() && target.Color != us) || to == b.enPassant {
			dst = appendPawnMove(dst, from, to, promoRank)
		}
	}
	return dst
}

// appendPawnMove adds a pawn move, expanded into the four promotion choices
// when it reaches the last rank.
func appendPawnMove(dst []Move, from, to Square, promoRank int) []Move {
	if to.Rank() != promoRank {
		return append(dst, NewMove(from, to))
	}
	for _, pt := range promotionPieces {
		dst = append(dst, NewPromotion(from, to, pt))
	}
	return dst
}

// castleSide describes one castling option relative to the king's file.
type castleSide struct {
	rookFile int
	between  []int // files that must be empty
	transit  int   // file the king passes through
	kingTo   int
}

var castleSides = [2]castleSide{
	{rookFile: 7, between: []int{5, 6}, transit: 5, kingTo: 6},
	{rookFile: 0, between: []int{1, 2, 3}, transit: 3, kingTo: 2},
}

// appendCastlingMoves adds castling candidates. The destination square is
// left to the legality filter.
func (b *Board) appendCastlingMoves(dst []Move, from Square, king Piece) []Move {
	us := king.Color
	back := 0
	if us == Black {
		back = 7
	}
	if king.HasMoved || from != NewSquare(4, back) {
		return dst
	}
	them := us.Other()
	inCheck := false
	checked := false

	for _, cs := range castleSides {
		rook := b.squares[NewSquare(cs.rookFile, back)]
		if rook.Type != Rook || rook.Color != us || rook.HasMoved {
			continue
		}
		clear := true
		for _, f := range cs.between {
			if !b.IsEmpty(NewSquare(f, back)) {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		if !checked {
			inCheck = b.IsSquareAttacked(from, them)
			checked = true
		}
		if inCheck {
			return dst
		}
		if b.IsSquareAttacked(NewSquare(cs.transit, back), them) {
			continue
		}
		dst = append(dst, NewCastling(from, NewSquare(cs.kingTo, back)))
	}
	return dst
}
