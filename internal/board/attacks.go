package board

// IsSquareAttacked returns true if sq is attacked by any piece of color by.
// Sliders are found by walking each ray outward from sq until the first
// occupied square, which either attacks along that ray or blocks it.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	// A pawn of color by attacks sq from the squares a pawn of the other
	// color on sq would capture on.
	for _, from := range pawnCaptures[by.Other()][sq] {
		if p := b.squares[from]; p.Type == Pawn && p.Color == by {
			return true
		}
	}

	for _, from := range knightTargets[sq] {
		if p := b.squares[from]; p.Type == Knight && p.Color == by {
			return true
		}
	}

	for _, from := range kingTargets[sq] {
		if p := b.squares[from]; p.Type == King && p.Color == by {
			return true
		}
	}

	for dir := 0; dir < 8; dir++ {
		target := int(sq)
		for n := 0; n < numSquaresToEdge[sq][dir]; n++ {
			target += directionOffsets[dir]
			p := b.squares[target]
			if p.IsEmpty() {
				continue
			}
			if p.Color == by && attacksAlong(p.Type, dir) {
				return true
			}
			break
		}
	}

	return false
}

// attacksAlong reports whether a slider of type pt moves in direction dir.
func attacksAlong(pt PieceType, dir int) bool {
	if !pt.IsSlider() {
		return false
	}
	switch pt {
	case Queen:
		return true
	case Rook:
		return dir < dirNorthWest
	case Bishop:
		return dir >= dirNorthWest
	}
	return false
}

// InCheck returns true if the side to move is in check.
func (b *Board) InCheck() bool {
	return b.IsSquareAttacked(b.kingSquare[b.sideToMove], b.sideToMove.Other())
}
