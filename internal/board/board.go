package board

import (
	"fmt"
	"maps"
	"strings"
)

// CastlingRights represents the available castling options.
// They are derived from the moved-flags of kings and rooks, never stored.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// Board is a complete chess position on a 64-square array.
//
// A Board is mutated in place by ApplyMove/UnapplyMove pairs and is not safe
// for concurrent use; give each goroutine its own Clone.
type Board struct {
	squares [64]Piece

	sideToMove     Color
	enPassant      Square // Target square for en passant, NoSquare if none
	halfMoveClock  int    // Plies since last pawn move or capture (for 50-move rule)
	fullMoveNumber int    // Full move counter, starts at 1

	// King positions (cached for check detection)
	kingSquare [2]Square

	lists pieceLists

	// Zobrist key of the current position and how often each key occurred.
	hash    uint64
	history map[uint64]int
}

func newEmptyBoard() *Board {
	b := &Board{
		enPassant:      NoSquare,
		fullMoveNumber: 1,
		kingSquare:     [2]Square{NoSquare, NoSquare},
		history:        make(map[uint64]int),
	}
	b.lists.reset()
	return b
}

// NewBoard creates the starting position.
func NewBoard() *Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// Clone creates a deep copy of the board, including its repetition history.
func (b *Board) Clone() *Board {
	nb := *b
	nb.history = maps.Clone(b.history)
	return &nb
}

// PieceAt returns the piece at the given square.
func (b *Board) PieceAt(sq Square) Piece {
	return b.squares[sq]
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return b.squares[sq].Type == None
}

// SideToMove returns the color whose turn it is.
func (b *Board) SideToMove() Color {
	return b.sideToMove
}

// EnPassant returns the en-passant target square, NoSquare if none.
func (b *Board) EnPassant() Square {
	return b.enPassant
}

// HalfMoveClock returns the plies since the last pawn move or capture.
func (b *Board) HalfMoveClock() int {
	return b.halfMoveClock
}

// FullMoveNumber returns the full move counter.
func (b *Board) FullMoveNumber() int {
	return b.fullMoveNumber
}

// KingSquare returns the square of the given color's king.
func (b *Board) KingSquare(c Color) Square {
	return b.kingSquare[c]
}

// Hash returns the Zobrist key of the position.
func (b *Board) Hash() uint64 {
	return b.hash
}

// PieceSquares returns the squares holding pieces of one color and type.
func (b *Board) PieceSquares(c Color, pt PieceType) []Square {
	return append([]Square(nil), b.lists.list(c, pt)...)
}

// PieceCount returns how many pieces of one color and type are on the board.
func (b *Board) PieceCount(c Color, pt PieceType) int {
	return b.lists.count[c][pt]
}

// CastlingRights derives the castling rights from the moved-flags of the
// kings and rooks on their home squares.
func (b *Board) CastlingRights() CastlingRights {
	cr := NoCastling
	if b.unmoved(E1, King, White) {
		if b.unmoved(H1, Rook, White) {
			cr |= WhiteKingSideCastle
		}
		if b.unmoved(A1, Rook, White) {
			cr |= WhiteQueenSideCastle
		}
	}
	if b.unmoved(E8, King, Black) {
		if b.unmoved(H8, Rook, Black) {
			cr |= BlackKingSideCastle
		}
		if b.unmoved(A8, Rook, Black) {
			cr |= BlackQueenSideCastle
		}
	}
	return cr
}

func (b *Board) unmoved(sq Square, pt PieceType, c Color) bool {
	p := b.squares[sq]
	return p.Type == pt && p.Color == c && !p.HasMoved
}

// RepetitionCount returns how many times the current position has occurred.
func (b *Board) RepetitionCount() int {
	return b.history[b.hash]
}

// PositionKey returns the canonical encoding used for repetition detection:
// piece placement, side to move, castling rights and en-passant file.
func (b *Board) PositionKey() string {
	var sb strings.Builder
	b.writePlacement(&sb)
	if b.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(b.CastlingRights().String())
	sb.WriteByte(' ')
	if b.enPassant == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteByte(byte('a' + b.enPassant.File()))
	}
	return sb.String()
}

// setPiece places a piece on an empty square, updating lists and hash.
func (b *Board) setPiece(p Piece, sq Square) {
	b.squares[sq] = p
	b.lists.add(p, sq)
	b.hash ^= zobristPiece[p.Color][p.Type][sq]
	if p.Type == King {
		b.kingSquare[p.Color] = sq
	}
}

// removePiece empties a square and returns the piece and its list slot.
func (b *Board) removePiece(sq Square) (Piece, int) {
	p := b.squares[sq]
	b.squares[sq] = NoPiece
	idx := b.lists.remove(p, sq)
	b.hash ^= zobristPiece[p.Color][p.Type][sq]
	return p, idx
}

// relocate moves the piece on from to the empty square to.
func (b *Board) relocate(from, to Square) {
	p := b.squares[from]
	b.squares[to] = p
	b.squares[from] = NoPiece
	b.lists.move(p, from, to)
	b.hash ^= zobristPiece[p.Color][p.Type][from] ^ zobristPiece[p.Color][p.Type][to]
	if p.Type == King {
		b.kingSquare[p.Color] = to
	}
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := b.squares[NewSquare(file, rank)]
			if piece.IsEmpty() {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", b.sideToMove)
	s += fmt.Sprintf("Castling: %s\n", b.CastlingRights())
	s += fmt.Sprintf("En passant: %s\n", b.enPassant)
	s += fmt.Sprintf("Half-move clock: %d\n", b.halfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", b.fullMoveNumber)
	s += fmt.Sprintf("Hash: %016x\n", b.hash)
	return s
}
