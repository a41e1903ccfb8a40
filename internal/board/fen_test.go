package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 5 40",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 3 12",
	}

	for _, fen := range fens {
		b := mustParseFEN(t, fen)
		if got := b.ToFEN(); got != fen {
			t.Errorf("ToFEN() = %q, want %q", got, fen)
		}
		if err := b.CheckPieceLists(); err != nil {
			t.Errorf("%s: %v", fen, err)
		}
		if b.Hash() != b.computeHash() {
			t.Errorf("%s: hash mismatch", fen)
		}
		if b.RepetitionCount() != 1 {
			t.Errorf("%s: RepetitionCount() = %d, want 1", fen, b.RepetitionCount())
		}
	}
}

func TestParseFENDefaults(t *testing.T) {
	b := mustParseFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR")

	if b.SideToMove() != White {
		t.Errorf("side to move = %v, want White", b.SideToMove())
	}
	if got := b.CastlingRights(); got != AllCastling {
		t.Errorf("castling = %v, want KQkq", got)
	}
	if b.EnPassant() != NoSquare {
		t.Errorf("en passant = %v, want none", b.EnPassant())
	}
	if b.HalfMoveClock() != 0 || b.FullMoveNumber() != 1 {
		t.Errorf("clocks = %d/%d, want 0/1", b.HalfMoveClock(), b.FullMoveNumber())
	}
	if b.ToFEN() != StartFEN {
		t.Errorf("ToFEN() = %q, want %q", b.ToFEN(), StartFEN)
	}
}

func TestParseFENMovedFlags(t *testing.T) {
	// White may only castle kingside, black not at all.
	b := mustParseFEN(t, "r3k2r/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/R3K2R w K - 0 1")

	tests := []struct {
		sq    Square
		moved bool
	}{
		{E1, false},
		{H1, false},
		{A1, true},
		{E8, true},
		{A8, true},
		{H8, true},
		{D2, false},
		{E4, true},
		{E5, true},
		{D7, false},
	}
	for _, tc := range tests {
		if got := b.PieceAt(tc.sq).HasMoved; got != tc.moved {
			t.Errorf("%v HasMoved = %v, want %v", tc.sq, got, tc.moved)
		}
	}
	if got := b.CastlingRights(); got != WhiteKingSideCastle {
		t.Errorf("castling = %v, want K", got)
	}
}

func TestParseFENInferredCastling(t *testing.T) {
	// No castling field: only the king and rook still at home keep the right.
	b := mustParseFEN(t, "4k3/8/8/8/8/8/8/R3K1R1 w")
	if got := b.CastlingRights(); got != WhiteQueenSideCastle {
		t.Errorf("castling = %v, want Q", got)
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1"},
		{"long rank", "rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"short rank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"bad letter", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1"},
		{"no white king", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQQBNR w kq - 0 1"},
		{"two black kings", "rnbkkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQ - 0 1"},
		{"pawn on first rank", "4k3/8/8/8/8/8/8/P3K3 w - - 0 1"},
		{"pawn on eighth rank", "p3k3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling letter", "4k3/8/8/8/8/8/8/4K3 w X - 0 1"},
		{"castling without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1"},
		{"duplicate castling", "r3k2r/8/8/8/8/8/8/R3K2R w KK - 0 1"},
		{"bad en passant", "4k3/8/8/8/8/8/8/4K3 w - z9 0 1"},
		{"en passant without pawn", "4k3/8/8/8/8/8/8/4K3 w - e6 0 1"},
		{"en passant wrong rank", "4k3/8/8/4p3/8/8/8/4K3 w - e3 0 1"},
		{"bad half-move clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1"},
		{"negative half-move clock", "4k3/8/8/8/8/8/8/4K3 w - - -1 1"},
		{"zero full-move number", "4k3/8/8/8/8/8/8/4K3 w - - 0 0"},
		{"too many fields", "4k3/8/8/8/8/8/8/4K3 w - - 0 1 extra"},
		{"opponent in check", "4k3/8/8/8/8/8/8/4R1K1 w - - 0 1"},
		{"seventeen pieces", "4k3/8/8/8/8/NNNNNNNN/PPPPPPPP/4K3 w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err == nil {
				t.Fatalf("ParseFEN(%q) = %v, want error", tc.fen, b.ToFEN())
			}
			if !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("error %v does not wrap ErrInvalidFEN", err)
			}
			if b != nil {
				t.Errorf("ParseFEN returned a board along with error %v", err)
			}
		})
	}
}

func TestParseFENEnPassant(t *testing.T) {
	b := mustParseFEN(t, "rnbqkbnr/pppp1ppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR w KQkq e6 0 2")
	if b.EnPassant() != E6 {
		t.Errorf("en passant = %v, want e6", b.EnPassant())
	}
}

func TestLoadPosition(t *testing.T) {
	b, err := LoadPosition("8/8/8/8/8/8/8/K6k")
	if err != nil {
		t.Fatalf("LoadPosition: %v", err)
	}
	if b.KingSquare(White) != A1 || b.KingSquare(Black) != H1 {
		t.Errorf("king squares = %v %v, want a1 h1", b.KingSquare(White), b.KingSquare(Black))
	}
}

func TestPositionKey(t *testing.T) {
	b := mustParseFEN(t, "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 7 9")
	want := "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c"
	if got := b.PositionKey(); got != want {
		t.Errorf("PositionKey() = %q, want %q", got, want)
	}
}
