package engine

import (
	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
)

// centerBonus is added to moves landing on d4, e4, d5 or e5.
const centerBonus = 10

// ScoreMove returns the ordering score of a legal move on b. Captures score
// victim minus attacker value, promotions add the new piece's value.
func ScoreMove(b *board.Board, m board.Move) int {
	score := 0

	if b.IsCapture(m) {
		victim := b.PieceAt(m.To).Type
		if victim == board.None {
			victim = board.Pawn // en passant
		}
		attacker := b.PieceAt(m.From).Type
		score += PieceValues[victim] - PieceValues[attacker]
	}

	if m.IsPromotion() {
		score += PieceValues[m.Promotion]
	}

	switch m.To {
	case board.D4, board.E4, board.D5, board.E5:
		score += centerBonus
	}

	return score
}

// OrderMoves sorts moves by descending ScoreMove. Equal scores keep their
// generation order, so the search is deterministic.
func OrderMoves(b *board.Board, moves []board.Move) {
	if len(moves) < 2 {
		return
	}
	slices.SortStableFunc(moves, func(x, y board.Move) int {
		return ScoreMove(b, y) - ScoreMove(b, x)
	})
}
