package board

import (
	"fmt"
	"log"
)

// DebugMoveValidation enables consistency checks after every ApplyMove and
// UnapplyMove. Mismatches are logged, not fatal. It must be set before any
// search starts.
var DebugMoveValidation = false

// ApplyMove plays m on the board and records in m what is needed to take it
// back. m must come from the move generator for this exact position; a move
// that does not fit the board panics.
func (b *Board) ApplyMove(m *Move) {
	mustBeValid(m.From, "from")
	mustBeValid(m.To, "to")
	if m.undo.applied {
		panic(fmt.Sprintf("board: move %v applied twice", m))
	}

	mover := b.squares[m.From]
	if mover.IsEmpty() {
		panic(fmt.Sprintf("board: move %v from empty square", m))
	}
	us := b.sideToMove
	if mover.Color != us {
		panic(fmt.Sprintf("board: move %v moves a %v piece but %v is to move", m, mover.Color, us))
	}
	target := b.squares[m.To]
	if !target.IsEmpty() && (target.Color == us || target.Type == King) {
		panic(fmt.Sprintf("board: move %v captures %q", m, target.String()))
	}

	u := undoRecord{
		applied:       true,
		captureSq:     NoSquare,
		rookFrom:      NoSquare,
		rookTo:        NoSquare,
		moverMoved:    mover.HasMoved,
		prevEnPassant: b.enPassant,
		prevHalfMove:  b.halfMoveClock,
		prevFullMove:  b.fullMoveNumber,
		prevHash:      b.hash,
	}
	oldRights := b.CastlingRights()

	// Classify the move before touching the board.
	isPawn := mover.Type == Pawn
	enPassant := isPawn && m.To == b.enPassant && target.IsEmpty() && m.From.File() != m.To.File()
	doubleStep := isPawn && abs(int(m.To)-int(m.From)) == 16
	if m.Castling {
		if mover.Type != King || abs(m.To.File()-m.From.File()) != 2 || m.To.Rank() != m.From.Rank() {
			panic(fmt.Sprintf("board: move %v is not a castling move", m))
		}
		u.rookFrom, u.rookTo = castlingRookSquares(m.To)
	}
	if m.Promotion != None {
		if !isPawn || m.To.RelativeRank(us) != 7 || m.Promotion == Pawn || m.Promotion == King {
			panic(fmt.Sprintf("board: move %v is not a valid promotion", m))
		}
	} else if isPawn && m.To.RelativeRank(us) == 7 {
		panic(fmt.Sprintf("board: pawn move %v reaches the last rank without promoting", m))
	}

	// Capture
	if enPassant {
		u.enPassantCap = true
		u.captureSq = Square(int(m.To) - 8*pawnDirection(us))
	} else if !target.IsEmpty() {
		u.captureSq = m.To
	}
	if u.captureSq != NoSquare {
		u.captured, u.captureSlot = b.removePiece(u.captureSq)
	}

	// Moving piece (kingSquare follows in relocate)
	b.relocate(m.From, m.To)
	b.squares[m.To].HasMoved = true

	if m.Castling {
		u.rookMoved = b.squares[u.rookFrom].HasMoved
		b.relocate(u.rookFrom, u.rookTo)
		b.squares[u.rookTo].HasMoved = true
	}

	if m.Promotion != None {
		_, u.promoSlot = b.removePiece(m.To)
		b.setPiece(Piece{Type: m.Promotion, Color: us, HasMoved: true}, m.To)
	}

	// En passant target
	if b.enPassant != NoSquare {
		b.hash ^= zobristEnPassant[b.enPassant.File()]
	}
	b.enPassant = NoSquare
	if doubleStep {
		b.enPassant = Square((int(m.From) + int(m.To)) / 2)
		b.hash ^= zobristEnPassant[b.enPassant.File()]
	}

	b.sideToMove = us.Other()
	b.hash ^= zobristSideToMove

	if isPawn || u.captureSq != NoSquare {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
	if us == Black {
		b.fullMoveNumber++
	}

	if newRights := b.CastlingRights(); newRights != oldRights {
		b.hash ^= zobristCastling[oldRights] ^ zobristCastling[newRights]
	}

	b.history[b.hash]++
	m.undo = u

	if DebugMoveValidation {
		b.validate("apply", m)
	}
}

// UnapplyMove takes back m, which must be the last move applied to b. It
// restores the board from the record kept in m without re-deriving anything.
func (b *Board) UnapplyMove(m *Move) {
	u := &m.undo
	if !u.applied {
		panic(fmt.Sprintf("board: unapply of move %v that was never applied", m))
	}

	if n := b.history[b.hash] - 1; n > 0 {
		b.history[b.hash] = n
	} else {
		delete(b.history, b.hash)
	}

	b.sideToMove = b.sideToMove.Other()
	us := b.sideToMove

	if m.Promotion != None {
		b.removePiece(m.To)
		pawn := Piece{Type: Pawn, Color: us, HasMoved: true}
		b.squares[m.To] = pawn
		b.lists.insertAt(pawn, m.To, u.promoSlot)
	}

	if u.rookFrom != NoSquare {
		b.relocate(u.rookTo, u.rookFrom)
		b.squares[u.rookFrom].HasMoved = u.rookMoved
	}

	b.relocate(m.To, m.From)
	b.squares[m.From].HasMoved = u.moverMoved

	if u.captureSq != NoSquare {
		b.squares[u.captureSq] = u.captured
		b.lists.insertAt(u.captured, u.captureSq, u.captureSlot)
	}

	b.enPassant = u.prevEnPassant
	b.halfMoveClock = u.prevHalfMove
	b.fullMoveNumber = u.prevFullMove
	b.hash = u.prevHash
	u.applied = false

	if DebugMoveValidation {
		b.validate("unapply", m)
	}
}

// castlingRookSquares returns the rook's origin and destination for a king
// landing on kingTo.
func castlingRookSquares(kingTo Square) (Square, Square) {
	back := kingTo.Rank()
	if kingTo.File() == 6 {
		return NewSquare(7, back), NewSquare(5, back)
	}
	return NewSquare(0, back), NewSquare(3, back)
}

// validate logs any disagreement between the board array and its caches.
func (b *Board) validate(op string, m *Move) {
	if err := b.CheckPieceLists(); err != nil {
		log.Printf("board: after %s %v: %v", op, m, err)
	}
	for _, c := range []Color{White, Black} {
		ksq := b.kingSquare[c]
		if !ksq.IsValid() || b.squares[ksq].Type != King || b.squares[ksq].Color != c {
			log.Printf("board: after %s %v: %v king not on cached square %v", op, m, c, ksq)
		}
	}
	if h := b.computeHash(); h != b.hash {
		log.Printf("board: after %s %v: hash %016x, recomputed %016x", op, m, b.hash, h)
	}
}
