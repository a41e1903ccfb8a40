package board

import "testing"

func mustParseFEN(t testing.TB, fen string) *Board {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func TestPerft(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		depth    int
		expected int64
	}{
		{"start", StartFEN, 1, 20},
		{"start", StartFEN, 2, 400},
		{"start", StartFEN, 3, 8902},
		{"start", StartFEN, 4, 197281},

		// Kiwipete: castling, pins and en passant all at once.
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 1, 48},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 2, 2039},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 3, 97862},

		// Position 3: en passant discovered checks along the rank.
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 1, 14},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 2, 191},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 3, 2812},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 4, 43238},

		// Position 4: promotions with capture and castling rights lost to captures.
		{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 1, 6},
		{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 2, 264},
		{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},

		{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 1, 44},
		{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 2, 1486},
		{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 3, 62379},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if testing.Short() && tc.expected > 50000 {
				t.Skip("skipping deep perft in short mode")
			}
			b := mustParseFEN(t, tc.fen)
			fen := b.ToFEN()
			got := b.Perft(tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
			if b.ToFEN() != fen {
				t.Errorf("board changed by perft: %s, want %s", b.ToFEN(), fen)
			}
		})
	}
}

// TestPerftEnPassantPin covers the horizontal pin: the black pawn on e4 may
// not capture d3 en passant because that exposes the king on a4 to h4.
func TestPerftEnPassantPin(t *testing.T) {
	b := mustParseFEN(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")

	for _, m := range b.LegalMoves() {
		if m.From == E4 && m.To == D3 {
			t.Errorf("en passant e4d3 should be illegal (horizontal pin)")
		}
	}
	if !b.IsLegal(NewMove(E4, E3)) {
		t.Errorf("e4e3 should be legal")
	}
}

func TestPerftZeroDepth(t *testing.T) {
	b := NewBoard()
	if got := b.Perft(0); got != 1 {
		t.Errorf("perft(0) = %d, want 1", got)
	}
}

func BenchmarkPerft3(b *testing.B) {
	board := NewBoard()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		board.Perft(3)
	}
}

func BenchmarkLegalMoves(b *testing.B) {
	board, _ := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	buf := make([]Move, 0, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = board.LegalMovesInto(buf[:0])
	}
}
