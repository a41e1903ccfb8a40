package engine

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func mustParseFEN(t testing.TB, fen string) *board.Board {
	t.Helper()
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func mustMove(t testing.TB, b *board.Board, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(s, b)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		{"start", board.StartFEN, 0},
		{"extra queen", "4k3/8/8/8/8/8/8/3QK3 w - - 0 1", 900},
		{"black up a rook", "r3k3/8/8/8/8/8/8/4K3 w - - 0 1", -500},
		{"white mated", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", -MateScore},
		{"black mated", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", MateScore},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 0},
		{"fifty moves", "4k3/8/8/8/8/8/8/3QK3 w - - 100 80", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParseFEN(t, tc.fen)
			if got := Evaluate(b); got != tc.want {
				t.Errorf("Evaluate() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoreMove(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want int
	}{
		{"4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", "e4d5", 900 - 100 + centerBonus},
		{"4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", "e4e5", centerBonus},
		{"4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", "e1f1", 0},
		{"4k3/8/8/8/8/8/3q4/3QK3 w - - 0 1", "d1d2", 0},
		{"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", 0},
		{"4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8q", 900},
		{"4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8n", 300},
	}

	for _, tc := range tests {
		b := mustParseFEN(t, tc.fen)
		m := mustMove(t, b, tc.move)
		if got := ScoreMove(b, m); got != tc.want {
			t.Errorf("%s: ScoreMove(%s) = %d, want %d", tc.fen, tc.move, got, tc.want)
		}
	}
}

func TestOrderMoves(t *testing.T) {
	b := mustParseFEN(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	moves := b.LegalMoves()
	OrderMoves(b, moves)

	if got := moves[0].String(); got != "e4d5" {
		t.Errorf("first move = %s, want e4d5", got)
	}
	for i := 1; i < len(moves); i++ {
		if ScoreMove(b, moves[i-1]) < ScoreMove(b, moves[i]) {
			t.Errorf("moves not sorted at %d: %v before %v", i, moves[i-1], moves[i])
		}
	}
}

func TestChooseMoveFindsMate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want string
		sign int
	}{
		{"white back rank", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", 1},
		{"black back rank", "r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1", "a8a1", -1},
	}

	for _, tc := range tests {
		for depth := 1; depth <= 3; depth++ {
			b := mustParseFEN(t, tc.fen)
			res := NewSearcher().ChooseMove(b, depth, b.SideToMove())
			if res.Move.String() != tc.want {
				t.Errorf("%s depth %d: move %v, want %s", tc.name, depth, res.Move, tc.want)
			}
			if want := tc.sign * (MateScore + depth - 1); res.Score != want {
				t.Errorf("%s depth %d: score %d, want %d", tc.name, depth, res.Score, want)
			}
			if got := ScoreToString(res.Score, res.Depth); !strings.HasSuffix(got, "1") || got[0] != '#' {
				t.Errorf("%s depth %d: ScoreToString = %q, want mate in 1", tc.name, depth, got)
			}
		}
	}
}

func TestChooseMoveWinsMaterial(t *testing.T) {
	// The undefended queen on d5 is taken.
	b := mustParseFEN(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	res := NewSearcher().ChooseMove(b, 2, board.White)
	if res.Move.String() != "e4d5" {
		t.Errorf("move = %v, want e4d5", res.Move)
	}
	if res.Score != 100 {
		t.Errorf("score = %d, want 100", res.Score)
	}
	if res.Nodes == 0 {
		t.Error("no nodes counted")
	}
}

func TestChooseMoveGameOver(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		score int
	}{
		{"checkmated", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", -MateScore},
		{"stalemated", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 0},
		{"fifty moves", "4k3/8/8/8/8/8/8/3QK3 w - - 100 80", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParseFEN(t, tc.fen)
			res := NewSearcher().ChooseMove(b, 3, b.SideToMove())
			if !res.Move.IsNull() {
				t.Errorf("move = %v, want null move", res.Move)
			}
			if res.Score != tc.score {
				t.Errorf("score = %d, want %d", res.Score, tc.score)
			}
		})
	}
}

func TestChooseMoveWrongSidePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ChooseMove for the side not to move did not panic")
		}
	}()
	NewSearcher().ChooseMove(board.NewBoard(), 2, board.Black)
}

func TestSearchLeavesBoardUnchanged(t *testing.T) {
	for _, fen := range []string{board.StartFEN, kiwipete} {
		b := mustParseFEN(t, fen)
		before := b.Clone()
		NewSearcher().ChooseMove(b, 3, b.SideToMove())

		if b.ToFEN() != before.ToFEN() || b.Hash() != before.Hash() {
			t.Errorf("search changed %s to %s", fen, b.ToFEN())
		}
		if b.RepetitionCount() != 1 {
			t.Errorf("RepetitionCount() = %d after search", b.RepetitionCount())
		}
		if err := b.CheckPieceLists(); err != nil {
			t.Error(err)
		}
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	var minimax func(b *board.Board, depth int) int
	minimax = func(b *board.Board, depth int) int {
		if depth == 0 {
			return Evaluate(b)
		}
		moves := b.LegalMoves()
		if len(moves) == 0 || b.Outcome().IsTerminal() {
			if b.IsCheckmate() {
				if b.SideToMove() == board.White {
					return -(MateScore + depth)
				}
				return MateScore + depth
			}
			return 0
		}
		white := b.SideToMove() == board.White
		best := Infinity
		if white {
			best = -Infinity
		}
		for i := range moves {
			b.ApplyMove(&moves[i])
			s := minimax(b, depth-1)
			b.UnapplyMove(&moves[i])
			if white {
				best = max(best, s)
			} else {
				best = min(best, s)
			}
		}
		return best
	}

	fens := []string{
		board.StartFEN,
		"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		b := mustParseFEN(t, fen)
		want := minimax(b, 3)
		got := NewSearcher().AlphaBeta(b, 3, -Infinity, Infinity, b.SideToMove() == board.White)
		if got != want {
			t.Errorf("%s: AlphaBeta = %d, minimax = %d", fen, got, want)
		}
	}
}

func TestChooseMoveParallelMatchesSequential(t *testing.T) {
	fens := []string{
		board.StartFEN,
		kiwipete,
		"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 0 1",
		"4k3/8/8/3q4/4P3/8/8/4K3 b - - 0 1",
		"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
	}
	for _, fen := range fens {
		b := mustParseFEN(t, fen)
		want := NewSearcher().ChooseMove(b, 3, b.SideToMove())
		got, err := ChooseMoveParallel(context.Background(), b, 3, 4)
		if err != nil {
			t.Fatalf("%s: %v", fen, err)
		}
		if got.Move != want.Move || got.Score != want.Score {
			t.Errorf("%s: parallel %v (%d), sequential %v (%d)", fen, got.Move, got.Score, want.Move, want.Score)
		}
		if b.ToFEN() != mustParseFEN(t, fen).ToFEN() {
			t.Errorf("%s: parallel search modified the board", fen)
		}
	}
}

func TestChooseMoveParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ChooseMoveParallel(ctx, board.NewBoard(), 3, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRandomMove(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := board.NewBoard()
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		m := RandomMove(b, rng)
		if !b.IsLegal(m) {
			t.Fatalf("RandomMove returned illegal %v", m)
		}
		seen[m.String()] = true
	}
	if len(seen) < 15 {
		t.Errorf("only %d distinct moves out of 20", len(seen))
	}

	mated := mustParseFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if m := RandomMove(mated, rng); !m.IsNull() {
		t.Errorf("RandomMove on a mated board = %v", m)
	}
}

func TestEngine(t *testing.T) {
	var infos []SearchInfo
	var logged strings.Builder

	eng := NewEngine()
	eng.SetDifficulty(Easy)
	eng.SetLogger(log.New(&logged, "", 0))
	eng.OnInfo = func(info SearchInfo) { infos = append(infos, info) }

	b := mustParseFEN(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	if m := eng.Search(b); m.String() != "e4d5" {
		t.Errorf("Search() = %v, want e4d5", m)
	}
	if len(infos) != 1 || infos[0].Depth != DifficultySettings[Easy].Depth {
		t.Errorf("OnInfo calls = %+v", infos)
	}
	if !strings.Contains(logged.String(), "e4d5") {
		t.Errorf("log = %q", logged.String())
	}

	res := eng.SearchWithLimits(b, SearchLimits{Depth: 2, Workers: 3})
	if res.Move.String() != "e4d5" {
		t.Errorf("parallel SearchWithLimits = %v", res.Move)
	}

	eng.SetMode(ModeRandom)
	eng.SetSeed(7)
	for i := 0; i < 20; i++ {
		if m := eng.Search(b); !b.IsLegal(m) {
			t.Fatalf("random mode returned illegal %v", m)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for d := Easy; d <= Hard; d++ {
		got, err := ParseDifficulty(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDifficulty("grandmaster"); err == nil {
		t.Error("ParseDifficulty(grandmaster) succeeded")
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score, depth int
		want         string
	}{
		{0, 3, "+0.00"},
		{150, 3, "+1.50"},
		{-40, 3, "-0.40"},
		{-1205, 3, "-12.05"},
		{MateScore + 2, 3, "#1"},
		{-MateScore, 3, "#-2"},
		{MateScore, 4, "#2"},
	}
	for _, tc := range tests {
		if got := ScoreToString(tc.score, tc.depth); got != tc.want {
			t.Errorf("ScoreToString(%d, %d) = %q, want %q", tc.score, tc.depth, got, tc.want)
		}
	}
}

func TestPerftDivide(t *testing.T) {
	b := board.NewBoard()
	entries, err := PerftDivide(context.Background(), b, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 20 {
		t.Fatalf("%d root moves, want 20", len(entries))
	}

	var total int64
	bySAN := map[string]int64{}
	for _, e := range entries {
		total += e.Nodes
		bySAN[e.SAN] = e.Nodes
	}
	if total != 8902 {
		t.Errorf("total = %d, want 8902", total)
	}
	want := map[string]int64{"e4": 600, "e3": 599, "Nf3": 440, "a3": 380}
	for san, n := range want {
		if bySAN[san] != n {
			t.Errorf("%s: %d nodes, want %d", san, bySAN[san], n)
		}
	}

	n, err := Perft(context.Background(), mustParseFEN(t, kiwipete), 2, 2)
	if err != nil || n != 2039 {
		t.Errorf("Perft(kiwipete, 2) = %d, %v; want 2039", n, err)
	}
}

func TestRunBench(t *testing.T) {
	var progress []BenchProgress
	results, err := RunBench(context.Background(), BenchPositions[:2], 2, func(p BenchProgress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 || len(progress) != 4 {
		t.Fatalf("%d results, %d progress calls, want 4", len(results), len(progress))
	}
	if progress[3] != (BenchProgress{Done: 4, Total: 4, Position: "Mid Game", Depth: 2}) {
		t.Errorf("last progress = %+v", progress[3])
	}
	for _, r := range results {
		if r.Move == "" || r.Move == board.NullMove.String() {
			t.Errorf("%s depth %d: no move", r.Position, r.Depth)
		}
	}

	avgs := DepthAverages(results)
	if len(avgs) != 2 || avgs[0].Depth != 1 || avgs[1].Positions != 2 {
		t.Errorf("DepthAverages() = %+v", avgs)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunBench(ctx, BenchPositions, 1, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled bench err = %v", err)
	}
}

func TestBenchPositionsParse(t *testing.T) {
	for _, p := range BenchPositions {
		b := mustParseFEN(t, p.FEN)
		if b.SideToMove() != board.White {
			t.Errorf("%s: %v to move", p.Name, b.SideToMove())
		}
	}
	if ClampBenchDepth(0) != 1 || ClampBenchDepth(12) != MaxBenchDepth {
		t.Error("ClampBenchDepth does not clamp")
	}
}

func TestCompareBench(t *testing.T) {
	prev := []BenchResult{
		{Position: "A", Depth: 1, Move: "e2e4", Score: 10, Elapsed: 200},
		{Position: "A", Depth: 2, Move: "e2e4", Score: 0, Elapsed: 400},
	}
	cur := []BenchResult{
		{Position: "A", Depth: 1, Move: "d2d4", Score: 10, Elapsed: 100},
		{Position: "A", Depth: 2, Move: "e2e4", Score: 0, Elapsed: 400},
		{Position: "B", Depth: 1, Move: "g1f3", Score: 0, Elapsed: 50},
	}

	want := []BenchDelta{
		{Position: "A", Depth: 1, PrevMove: "e2e4", Move: "d2d4", PrevScore: 10, Score: 10, PrevElapsed: 200, Elapsed: 100},
		{Position: "A", Depth: 2, PrevMove: "e2e4", Move: "e2e4", PrevElapsed: 400, Elapsed: 400},
	}
	got := CompareBench(prev, cur)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CompareBench mismatch (-want +got):\n%s", diff)
	}
	if !got[0].MoveChanged() || got[1].MoveChanged() {
		t.Error("MoveChanged wrong")
	}
	if got[0].Speedup() != 2 {
		t.Errorf("Speedup() = %v, want 2", got[0].Speedup())
	}
}
