package engine

import (
	"math/rand"

	"github.com/hailam/chesscore/internal/board"
)

// RandomMove picks a legal move uniformly at random. It returns
// board.NullMove when the game on b is over.
func RandomMove(b *board.Board, rng *rand.Rand) board.Move {
	if b.Outcome().IsTerminal() {
		return board.NullMove
	}
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return board.NullMove
	}
	return bare(moves[rng.Intn(len(moves))])
}
