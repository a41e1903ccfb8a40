package engine

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// Result is the outcome of a root search.
type Result struct {
	Move  board.Move // board.NullMove when the side to move has no move
	Score int        // from White's point of view
	Nodes uint64
	Depth int
}

// Searcher performs a fixed-depth alpha-beta search on a single board.
// It applies and unapplies moves on the board it is given, so a Searcher
// and its board belong to one goroutine.
type Searcher struct {
	nodes   uint64
	buffers [][]board.Move // one move buffer per remaining depth
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Nodes returns the number of nodes visited since the last ChooseMove.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// buffer returns the reusable move buffer for the given remaining depth.
func (s *Searcher) buffer(depth int) []board.Move {
	for len(s.buffers) <= depth {
		s.buffers = append(s.buffers, make([]board.Move, 0, 48))
	}
	return s.buffers[depth][:0]
}

// AlphaBeta returns the minimax value of b searched to depth plies. White
// maximizes. Every move applied here is unapplied before returning.
func (s *Searcher) AlphaBeta(b *board.Board, depth, alpha, beta int, maximizing bool) int {
	s.nodes++

	if depth <= 0 {
		return Evaluate(b)
	}

	moves := b.LegalMovesInto(s.buffer(depth))
	s.buffers[depth] = moves
	if len(moves) == 0 {
		if !b.InCheck() {
			return 0
		}
		if b.SideToMove() == board.White {
			return -(MateScore + depth)
		}
		return MateScore + depth
	}
	if b.HalfMoveClock() >= 100 || b.RepetitionCount() >= 3 {
		return 0
	}

	OrderMoves(b, moves)

	if maximizing {
		best := -Infinity
		for i := range moves {
			b.ApplyMove(&moves[i])
			score := s.AlphaBeta(b, depth-1, alpha, beta, false)
			b.UnapplyMove(&moves[i])

			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := Infinity
	for i := range moves {
		b.ApplyMove(&moves[i])
		score := s.AlphaBeta(b, depth-1, alpha, beta, true)
		b.UnapplyMove(&moves[i])

		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return best
}

// ChooseMove searches every legal move of side to depth plies and returns
// the best one. Among equally scored moves the first in search order wins.
// side must be the side to move on b.
func (s *Searcher) ChooseMove(b *board.Board, depth int, side board.Color) Result {
	if side != b.SideToMove() {
		panic(fmt.Sprintf("engine: ChooseMove for %v but %v is to move", side, b.SideToMove()))
	}
	depth = max(depth, 1)
	s.nodes = 0

	res := Result{Move: board.NullMove, Depth: depth}
	moves, ended := rootMoves(b)
	if ended {
		res.Score = Evaluate(b)
		return res
	}

	maximizing := side == board.White
	alpha, beta := -Infinity, Infinity
	best := Infinity
	if maximizing {
		best = -Infinity
	}

	for i := range moves {
		b.ApplyMove(&moves[i])
		score := s.AlphaBeta(b, depth-1, alpha, beta, !maximizing)
		b.UnapplyMove(&moves[i])

		if better(score, best, maximizing) {
			best = score
			res.Move = bare(moves[i])
		}
		if maximizing {
			alpha = max(alpha, best)
		} else {
			beta = min(beta, best)
		}
	}

	res.Score = best
	res.Nodes = s.nodes
	return res
}

// rootMoves returns the ordered legal moves at the root, or ended when the
// game on b is already over.
func rootMoves(b *board.Board) ([]board.Move, bool) {
	if b.Outcome().IsTerminal() {
		return nil, true
	}
	moves := b.LegalMoves()
	OrderMoves(b, moves)
	return moves, false
}

func better(score, best int, maximizing bool) bool {
	if maximizing {
		return score > best
	}
	return score < best
}

// bare strips the undo record from a move.
func bare(m board.Move) board.Move {
	return board.Move{From: m.From, To: m.To, Castling: m.Castling, Promotion: m.Promotion}
}
