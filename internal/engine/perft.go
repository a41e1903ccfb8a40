package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// DivideEntry is the perft count below a single root move.
type DivideEntry struct {
	Move  board.Move
	SAN   string
	Nodes int64
}

// PerftDivide counts leaf nodes at depth below each legal root move, one
// root move per task on its own copy of b. Entries follow generation order.
func PerftDivide(ctx context.Context, b *board.Board, depth, workers int) ([]DivideEntry, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	root := b.Clone()
	moves := root.LegalMoves()
	entries := make([]DivideEntry, len(moves))
	for i, m := range moves {
		entries[i] = DivideEntry{Move: bare(m), SAN: root.ToSAN(m)}
	}
	if depth < 1 {
		return entries, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			wb := root.Clone()
			m := entries[i].Move
			wb.ApplyMove(&m)
			entries[i].Nodes = wb.Perft(depth - 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Perft counts leaf nodes at depth using PerftDivide.
func Perft(ctx context.Context, b *board.Board, depth, workers int) (int64, error) {
	if depth < 1 {
		return 1, nil
	}
	entries, err := PerftDivide(ctx, b, depth, workers)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.Nodes
	}
	return total, nil
}
