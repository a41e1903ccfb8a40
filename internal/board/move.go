package board

import "fmt"

// Move is a candidate move produced by the move generator.
//
// ApplyMove fills the unexported undo record; UnapplyMove consumes it.
// Moves are plain values and may be copied freely before they are applied.
type Move struct {
	From, To  Square
	Castling  bool
	Promotion PieceType // None unless the pawn promotes

	undo undoRecord
}

// undoRecord holds everything ApplyMove destroys.
type undoRecord struct {
	applied bool

	captured     Piece
	captureSq    Square // differs from To for en passant
	captureSlot  int
	enPassantCap bool

	promoSlot int // list slot the promoting pawn occupied

	moverMoved bool
	rookFrom   Square
	rookTo     Square
	rookMoved  bool

	prevEnPassant Square
	prevHalfMove  int
	prevFullMove  int
	prevHash      uint64
}

// NullMove is returned when a side has no move to make.
var NullMove = Move{From: NoSquare, To: NoSquare}

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// NewCastling creates a castling move (king's movement).
func NewCastling(from, to Square) Move {
	return Move{From: from, To: to, Castling: true}
}

// IsNull reports whether m is the null move.
func (m Move) IsNull() bool {
	return m.From == NoSquare && m.To == NoSquare
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion != None
}

// IsEnPassant reports whether the move captured en passant. It is only
// meaningful after ApplyMove; use Board.IsEnPassant before that.
func (m Move) IsEnPassant() bool {
	return m.undo.enPassantCap
}

// Captured returns the piece removed by an applied move.
func (m Move) Captured() Piece {
	return m.undo.captured
}

// Same reports whether two moves describe the same action, ignoring undo data.
func (m Move) Same(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Castling == o.Castling && m.Promotion == o.Promotion
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// IsCapture returns true if m captures a piece on b.
func (b *Board) IsCapture(m Move) bool {
	return !b.IsEmpty(m.To) || b.IsEnPassant(m)
}

// IsEnPassant returns true if m is an en passant capture on b.
func (b *Board) IsEnPassant(m Move) bool {
	return b.enPassant != NoSquare && m.To == b.enPassant && b.squares[m.From].Type == Pawn
}

// ParseMove resolves a coordinate move string against the legal moves of b.
func ParseMove(s string, b *Board) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NullMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	promo := None
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NullMove, fmt.Errorf("%w: invalid promotion piece %q", ErrIllegalMove, s[4])
		}
	}

	for _, m := range b.LegalMovesForSquare(from) {
		if m.To == to && m.Promotion == promo {
			return m, nil
		}
	}
	return NullMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}
