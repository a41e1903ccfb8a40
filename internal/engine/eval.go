package engine

import (
	"golang.org/x/exp/constraints"

	"github.com/hailam/chesscore/internal/board"
)

// Score bounds. A finished game scores MateScore for the winner; the search
// adds the remaining depth so that faster mates score higher.
const (
	MateScore = 100000
	Infinity  = 1000000
)

// PieceValues holds the material value of each piece type in centipawns.
var PieceValues = [7]int{
	board.None:   0,
	board.Pawn:   100,
	board.Knight: 300,
	board.Bishop: 300,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   10000,
}

// Material returns White's material minus Black's.
func Material(b *board.Board) int {
	score := 0
	for pt := board.Pawn; pt <= board.King; pt++ {
		score += PieceValues[pt] * (b.PieceCount(board.White, pt) - b.PieceCount(board.Black, pt))
	}
	return score
}

// Evaluate returns the static score of b from White's point of view.
// A checkmate scores ±MateScore, stalemate and the draw rules score 0.
func Evaluate(b *board.Board) int {
	o := b.Outcome()
	switch {
	case o.Kind == board.Checkmate:
		if o.Loser == board.White {
			return -MateScore
		}
		return MateScore
	case o.IsDraw():
		return 0
	}
	return Material(b)
}

// IsMateScore reports whether score comes from a forced mate.
func IsMateScore(score int) bool {
	return score >= MateScore || score <= -MateScore
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
