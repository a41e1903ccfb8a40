package board

import "fmt"

// maxPerType bounds a single list. A side never has more than 16 pieces.
const maxPerType = 16

// pieceLists is a secondary index of occupied squares per color and type.
// It is kept in lockstep with Board.squares by the placement primitives.
// Entries past count are always zero, so equal positions compare equal.
// Removal swaps the last entry into the hole and reports the slot so that
// insertAt can undo it exactly, which keeps list order stable across
// apply/unapply pairs.
type pieceLists struct {
	squares [2][7][maxPerType]Square
	count   [2][7]int
	slot    [64]int8
}

func (l *pieceLists) reset() {
	*l = pieceLists{}
	for i := range l.slot {
		l.slot[i] = -1
	}
}

// list returns the occupied squares of one color and type. The slice aliases
// internal storage and is only valid until the board changes.
func (l *pieceLists) list(c Color, pt PieceType) []Square {
	return l.squares[c][pt][:l.count[c][pt]]
}

func (l *pieceLists) add(p Piece, sq Square) {
	n := l.count[p.Color][p.Type]
	if n == maxPerType {
		panic(fmt.Sprintf("board: too many %v %vs", p.Color, p.Type))
	}
	l.squares[p.Color][p.Type][n] = sq
	l.slot[sq] = int8(n)
	l.count[p.Color][p.Type]++
}

func (l *pieceLists) remove(p Piece, sq Square) int {
	idx := int(l.slot[sq])
	last := l.count[p.Color][p.Type] - 1
	moved := l.squares[p.Color][p.Type][last]
	l.squares[p.Color][p.Type][idx] = moved
	l.squares[p.Color][p.Type][last] = 0
	l.slot[moved] = int8(idx)
	l.slot[sq] = -1
	l.count[p.Color][p.Type]--
	return idx
}

// insertAt is the inverse of remove: the entry now at idx goes back to the
// end of the list and sq takes its old slot.
func (l *pieceLists) insertAt(p Piece, sq Square, idx int) {
	n := l.count[p.Color][p.Type]
	if idx < n {
		displaced := l.squares[p.Color][p.Type][idx]
		l.squares[p.Color][p.Type][n] = displaced
		l.slot[displaced] = int8(n)
	}
	l.squares[p.Color][p.Type][idx] = sq
	l.slot[sq] = int8(idx)
	l.count[p.Color][p.Type]++
}

func (l *pieceLists) move(p Piece, from, to Square) {
	idx := l.slot[from]
	l.squares[p.Color][p.Type][idx] = to
	l.slot[to] = idx
	l.slot[from] = -1
}

// CheckPieceLists verifies that the piece lists describe exactly the pieces
// on the board.
func (b *Board) CheckPieceLists() error {
	var seen [64]bool
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for i, sq := range b.lists.list(c, pt) {
				p := b.squares[sq]
				if p.Type != pt || p.Color != c {
					return fmt.Errorf("list %v %v holds %v but square has %q", c, pt, sq, p.String())
				}
				if int(b.lists.slot[sq]) != i {
					return fmt.Errorf("slot of %v is %d, want %d", sq, b.lists.slot[sq], i)
				}
				if seen[sq] {
					return fmt.Errorf("square %v listed twice", sq)
				}
				seen[sq] = true
			}
			for i := b.lists.count[c][pt]; i < maxPerType; i++ {
				if sq := b.lists.squares[c][pt][i]; sq != 0 {
					return fmt.Errorf("list %v %v keeps stale %v past its end", c, pt, sq)
				}
			}
		}
	}
	for sq := A1; sq <= H8; sq++ {
		if !b.squares[sq].IsEmpty() && !seen[sq] {
			return fmt.Errorf("%v %v on %v missing from lists", b.squares[sq].Color, b.squares[sq].Type, sq)
		}
		if b.squares[sq].IsEmpty() && b.lists.slot[sq] != -1 {
			return fmt.Errorf("empty square %v has slot %d", sq, b.lists.slot[sq])
		}
	}
	return nil
}
