package engine

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// ChooseMoveParallel searches the root moves of b concurrently, each on its
// own copy of the board, and picks the same move and score as ChooseMove.
// Cancellation is only observed between root moves. b is not modified.
func ChooseMoveParallel(ctx context.Context, b *board.Board, depth, workers int) (Result, error) {
	depth = max(depth, 1)
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := Result{Move: board.NullMove, Depth: depth}
	root := b.Clone()
	moves, ended := rootMoves(root)
	if ended {
		res.Score = Evaluate(root)
		return res, nil
	}

	maximizing := root.SideToMove() == board.White
	scores := make([]int, len(moves))
	var nodes atomic.Uint64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range moves {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			wb := root.Clone()
			m := bare(moves[i])
			wb.ApplyMove(&m)
			s := NewSearcher()
			scores[i] = s.AlphaBeta(wb, depth-1, -Infinity, Infinity, !maximizing)
			nodes.Add(s.Nodes())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for i, score := range scores {
		if better(score, best, maximizing) {
			best = score
			res.Move = bare(moves[i])
		}
	}
	res.Score = best
	res.Nodes = nodes.Load()
	return res, nil
}
