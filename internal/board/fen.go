package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Board.
//
// Only the piece placement is mandatory. Missing trailing fields default to
// white to move, inferred castling rights, no en-passant square, a zero
// half-move clock and move number 1. Castling rights are not stored: they
// are turned into moved-flags on the home-square kings and rooks.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidFEN)
	}
	if len(parts) > 6 {
		return nil, fmt.Errorf("%w: need at most 6 fields, got %d", ErrInvalidFEN, len(parts))
	}

	b := newEmptyBoard()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	if len(parts) > 1 {
		switch parts[1] {
		case "w":
			b.sideToMove = White
		case "b":
			b.sideToMove = Black
		default:
			return nil, fmt.Errorf("%w: invalid side to move %q", ErrInvalidFEN, parts[1])
		}
	}

	// Parse castling rights (field 2)
	castling := ""
	if len(parts) > 2 {
		castling = parts[2]
	}
	if err := applyCastlingField(b, castling, len(parts) > 2); err != nil {
		return nil, err
	}

	// Parse en passant square (field 3)
	if len(parts) > 3 && parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant: %v", ErrInvalidFEN, err)
		}
		if err := validateEnPassant(b, sq); err != nil {
			return nil, err
		}
		b.enPassant = sq
	}

	// Parse half-move clock (field 4)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("%w: invalid half-move clock %q", ErrInvalidFEN, parts[4])
		}
		b.halfMoveClock = hmc
	}

	// Parse full-move number (field 5)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("%w: invalid full-move number %q", ErrInvalidFEN, parts[5])
		}
		b.fullMoveNumber = fmn
	}

	them := b.sideToMove.Other()
	if b.IsSquareAttacked(b.kingSquare[them], b.sideToMove) {
		return nil, fmt.Errorf("%w: %v king is in check but %v is to move", ErrInvalidFEN, them, b.sideToMove)
	}

	b.hash = b.computeHash()
	b.history[b.hash] = 1
	return b, nil
}

// LoadPosition builds a board from a position string. It accepts the same
// input as ParseFEN, including a bare piece placement.
func LoadPosition(s string) (*Board, error) {
	return ParseFEN(s)
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	var count [2]int
	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece.IsEmpty() || c > 'z' {
				return fmt.Errorf("%w: invalid piece character %q", ErrInvalidFEN, c)
			}
			if piece.Type == Pawn && (rank == 0 || rank == 7) {
				return fmt.Errorf("%w: pawn on rank %d", ErrInvalidFEN, rank+1)
			}
			if piece.Type == King && b.kingSquare[piece.Color] != NoSquare {
				return fmt.Errorf("%w: more than one %v king", ErrInvalidFEN, piece.Color)
			}
			count[piece.Color]++
			if count[piece.Color] > 16 {
				return fmt.Errorf("%w: more than 16 %v pieces", ErrInvalidFEN, piece.Color)
			}

			sq := NewSquare(file, rank)
			switch piece.Type {
			case Pawn:
				piece.HasMoved = sq.RelativeRank(piece.Color) != 1
			case King, Rook:
				// Settled by the castling field.
			default:
				piece.HasMoved = false
			}
			b.setPiece(piece, sq)
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}

	for _, c := range []Color{White, Black} {
		if b.kingSquare[c] == NoSquare {
			return fmt.Errorf("%w: no %v king", ErrInvalidFEN, c)
		}
	}
	return nil
}

// castlingSetup ties each right to the squares it depends on.
var castlingSetup = []struct {
	right      CastlingRights
	char       rune
	color      Color
	king, rook Square
}{
	{WhiteKingSideCastle, 'K', White, E1, H1},
	{WhiteQueenSideCastle, 'Q', White, E1, A1},
	{BlackKingSideCastle, 'k', Black, E8, H8},
	{BlackQueenSideCastle, 'q', Black, E8, A8},
}

// applyCastlingField sets the moved-flags of kings and rooks. Without a
// field, every king and rook on its home square counts as unmoved. With a
// field, a home-square king or rook keeps its unmoved flag only when some
// listed right needs it.
func applyCastlingField(b *Board, field string, present bool) error {
	var rights CastlingRights
	if !present {
		rights = AllCastling
	} else if field != "-" {
		for _, c := range field {
			found := false
			for _, cs := range castlingSetup {
				if cs.char != c {
					continue
				}
				found = true
				if rights&cs.right != 0 {
					return fmt.Errorf("%w: duplicate castling right %q", ErrInvalidFEN, c)
				}
				if !b.isHome(cs.king, King, cs.color) || !b.isHome(cs.rook, Rook, cs.color) {
					return fmt.Errorf("%w: castling right %q without king and rook on their home squares", ErrInvalidFEN, c)
				}
				rights |= cs.right
			}
			if !found {
				return fmt.Errorf("%w: invalid castling character %q", ErrInvalidFEN, c)
			}
		}
	}

	// Start from "everything moved" and clear the flags a right relies on.
	for c := White; c <= Black; c++ {
		for _, pt := range []PieceType{King, Rook} {
			for _, sq := range b.lists.list(c, pt) {
				b.squares[sq].HasMoved = true
			}
		}
	}
	for _, cs := range castlingSetup {
		if rights&cs.right == 0 {
			continue
		}
		if !b.isHome(cs.king, King, cs.color) || !b.isHome(cs.rook, Rook, cs.color) {
			continue
		}
		b.squares[cs.king].HasMoved = false
		b.squares[cs.rook].HasMoved = false
	}
	return nil
}

func (b *Board) isHome(sq Square, pt PieceType, c Color) bool {
	p := b.squares[sq]
	return p.Type == pt && p.Color == c
}

// validateEnPassant accepts sq only if a pawn of the side not to move could
// have just double-stepped over it.
func validateEnPassant(b *Board, sq Square) error {
	them := b.sideToMove.Other()
	if sq.RelativeRank(them) != 2 {
		return fmt.Errorf("%w: en passant square %v on the wrong rank", ErrInvalidFEN, sq)
	}
	dir := 8 * pawnDirection(them)
	pawnSq := Square(int(sq) + dir)
	origin := Square(int(sq) - dir)
	p := b.squares[pawnSq]
	if p.Type != Pawn || p.Color != them || !b.IsEmpty(sq) || !b.IsEmpty(origin) {
		return fmt.Errorf("%w: no double-stepped pawn behind en passant square %v", ErrInvalidFEN, sq)
	}
	return nil
}

// writePlacement writes the FEN piece placement field.
func (b *Board) writePlacement(sb *strings.Builder) {
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := b.squares[NewSquare(file, rank)]
			if piece.IsEmpty() {
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
}

// ToFEN returns the FEN representation of the board.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	b.writePlacement(&sb)

	// Side to move
	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.CastlingRights().String())

	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullMoveNumber))

	return sb.String()
}
