package board

import (
	"fmt"
	"strings"
)

const sanPieceChars = " NBRQK"

// ToSAN converts a legal move to Standard Algebraic Notation. Check and mate
// markers are found by playing the move on b and taking it back.
func (b *Board) ToSAN(m Move) string {
	if m.IsNull() {
		return "-"
	}

	piece := b.squares[m.From]
	if piece.IsEmpty() {
		return m.String()
	}

	var sb strings.Builder

	if m.Castling {
		if m.To > m.From {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type
		if pt != Pawn {
			sb.WriteByte(sanPieceChars[pt-Pawn])
			sb.WriteString(b.disambiguation(m, pt))
		}

		if b.IsCapture(m) {
			if pt == Pawn {
				sb.WriteByte('a' + byte(m.From.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(sanPieceChars[m.Promotion-Pawn])
		}
	}

	b.ApplyMove(&m)
	if b.InCheck() {
		if b.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	b.UnapplyMove(&m)

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same type can reach the same destination.
func (b *Board) disambiguation(m Move, pt PieceType) string {
	var candidates []Square
	for _, from := range b.lists.list(b.sideToMove, pt) {
		if from == m.From {
			continue
		}
		for _, o := range b.LegalMovesForSquare(from) {
			if o.To == m.To {
				candidates = append(candidates, from)
				break
			}
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + m.From.File()))
	}
	if !sameRank {
		return string(rune('1' + m.From.Rank()))
	}
	return m.From.String()
}

// ParseSAN parses a SAN string and returns the matching legal move.
func (b *Board) ParseSAN(s string) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		file := 6
		if len(s) == 5 {
			file = 2
		}
		ksq := b.kingSquare[b.sideToMove]
		for _, m := range b.LegalMovesForSquare(ksq) {
			if m.Castling && m.To.File() == file {
				return m, nil
			}
		}
		return NullMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
	}

	promo := None
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		if idx+1 >= len(s) {
			return NullMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
		}
		promo = sanPieceType(s[idx+1])
		if promo == None || promo == King {
			return NullMove, fmt.Errorf("%w: bad promotion in %q", ErrIllegalMove, orig)
		}
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt = sanPieceType(s[0])
		if pt == None {
			return NullMove, fmt.Errorf("%w: unknown piece in %q", ErrIllegalMove, orig)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NullMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		default:
			return NullMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
		}
	}

	for _, m := range b.LegalMoves() {
		if m.To != dest || m.Castling || b.squares[m.From].Type != pt {
			continue
		}
		if disambigFile >= 0 && m.From.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && m.From.Rank() != disambigRank {
			continue
		}
		if isCapture && !b.IsCapture(m) {
			continue
		}
		if m.Promotion != promo {
			continue
		}
		return m, nil
	}

	return NullMove, fmt.Errorf("%w: %q", ErrIllegalMove, orig)
}

func sanPieceType(c byte) PieceType {
	switch c {
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'R':
		return Rook
	case 'Q':
		return Queen
	case 'K':
		return King
	}
	return None
}

// MovesToSAN converts a sequence of moves played from b to SAN. b is not
// modified.
func MovesToSAN(b *Board, moves []Move) []string {
	result := make([]string, len(moves))
	c := b.Clone()

	for i, m := range moves {
		result[i] = c.ToSAN(m)
		c.ApplyMove(&m)
	}

	return result
}
