package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// MaxBenchDepth bounds the bench depth; deeper runs take minutes per position.
const MaxBenchDepth = 7

// BenchPosition is a named position searched by the bench.
type BenchPosition struct {
	Name string
	FEN  string
}

// BenchPositions are searched with White to move.
var BenchPositions = []BenchPosition{
	{"Starting Position", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"},
	{"Mid Game", "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R"},
	{"Endgame - Rook vs Pawns", "8/5pk1/6p1/8/8/6P1/5PKR/8"},
	{"Tactical - Fork Available", "rnbqkb1r/pppp1ppp/5n2/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R"},
	{"Scholar's Mate Position", "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR"},
	{"Open Position", "rnbqkb1r/ppp2ppp/4pn2/3p4/2PP4/2N2N2/PP2PPPP/R1BQKB1R"},
}

// BenchResult is one search of the bench.
type BenchResult struct {
	Position string        `json:"position"`
	Depth    int           `json:"depth"`
	Move     string        `json:"move"`
	Score    int           `json:"score"`
	Nodes    uint64        `json:"nodes"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// BenchProgress is reported before each search of RunBench.
type BenchProgress struct {
	Done, Total int
	Position    string
	Depth       int
}

// ClampBenchDepth limits depth to 1..MaxBenchDepth.
func ClampBenchDepth(depth int) int {
	return min(max(depth, 1), MaxBenchDepth)
}

// RunBench searches every position at depths 1..maxDepth. progress may be
// nil. The context is checked between searches.
func RunBench(ctx context.Context, positions []BenchPosition, maxDepth int, progress func(BenchProgress)) ([]BenchResult, error) {
	maxDepth = ClampBenchDepth(maxDepth)
	total := len(positions) * maxDepth
	results := make([]BenchResult, 0, total)
	s := NewSearcher()

	for _, pos := range positions {
		b, err := board.ParseFEN(pos.FEN)
		if err != nil {
			return nil, fmt.Errorf("bench position %q: %w", pos.Name, err)
		}
		for depth := 1; depth <= maxDepth; depth++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			if progress != nil {
				progress(BenchProgress{Done: len(results) + 1, Total: total, Position: pos.Name, Depth: depth})
			}

			start := time.Now()
			res := s.ChooseMove(b, depth, b.SideToMove())
			results = append(results, BenchResult{
				Position: pos.Name,
				Depth:    depth,
				Move:     res.Move.String(),
				Score:    res.Score,
				Nodes:    res.Nodes,
				Elapsed:  time.Since(start),
			})
		}
	}
	return results, nil
}

// DepthAverage is the mean search time over all positions at one depth.
type DepthAverage struct {
	Depth     int
	Average   time.Duration
	Positions int
}

// DepthAverages summarizes results per depth, shallowest first.
func DepthAverages(results []BenchResult) []DepthAverage {
	var out []DepthAverage
	for depth := 1; depth <= MaxBenchDepth; depth++ {
		var total time.Duration
		n := 0
		for _, r := range results {
			if r.Depth == depth {
				total += r.Elapsed
				n++
			}
		}
		if n > 0 {
			out = append(out, DepthAverage{Depth: depth, Average: total / time.Duration(n), Positions: n})
		}
	}
	return out
}

// BenchDelta compares one (position, depth) pair across two runs.
type BenchDelta struct {
	Position    string
	Depth       int
	PrevMove    string
	Move        string
	PrevScore   int
	Score       int
	PrevElapsed time.Duration
	Elapsed     time.Duration
}

// MoveChanged reports whether the two runs chose different moves.
func (d BenchDelta) MoveChanged() bool {
	return d.PrevMove != d.Move
}

// Speedup returns previous time over current time; above 1 is faster.
func (d BenchDelta) Speedup() float64 {
	if d.Elapsed <= 0 {
		return 0
	}
	return float64(d.PrevElapsed) / float64(d.Elapsed)
}

// CompareBench pairs the results of cur with those of prev by position and
// depth. Pairs missing from prev are skipped.
func CompareBench(prev, cur []BenchResult) []BenchDelta {
	type key struct {
		position string
		depth    int
	}
	old := make(map[key]BenchResult, len(prev))
	for _, r := range prev {
		old[key{r.Position, r.Depth}] = r
	}

	var deltas []BenchDelta
	for _, r := range cur {
		p, ok := old[key{r.Position, r.Depth}]
		if !ok {
			continue
		}
		deltas = append(deltas, BenchDelta{
			Position:    r.Position,
			Depth:       r.Depth,
			PrevMove:    p.Move,
			Move:        r.Move,
			PrevScore:   p.Score,
			Score:       r.Score,
			PrevElapsed: p.Elapsed,
			Elapsed:     r.Elapsed,
		})
	}
	return deltas
}
