package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPieceListRemoveInsertAt(t *testing.T) {
	var l pieceLists
	l.reset()
	knight := NewPiece(Knight, White)
	for _, sq := range []Square{B1, G1, C3} {
		l.add(knight, sq)
	}
	want := l

	for _, sq := range []Square{B1, G1, C3} {
		idx := l.remove(knight, sq)
		if got := l.squares[White][Knight][2]; got != 0 {
			t.Errorf("remove(%v) left %v in the vacated slot", sq, got)
		}
		l.insertAt(knight, sq, idx)
		if diff := cmp.Diff(want, l, cmp.AllowUnexported(pieceLists{})); diff != "" {
			t.Errorf("remove/insertAt %v mismatch (-want +got):\n%s", sq, diff)
		}
	}
}

// A promotion empties the pawn list and a capture empties the captured
// piece's list; taking the move back must leave no trace in either.
func TestPromotionUnapplyLeavesNoStaleEntries(t *testing.T) {
	b := mustParseFEN(t, "1n2k3/P7/8/8/8/8/8/1N2K1N1 w - - 0 1")
	before := b.Clone()
	for _, s := range []string{"a7b8q", "a7b8n", "a7a8r"} {
		m := mustMove(t, b, s)
		b.ApplyMove(&m)
		if err := b.CheckPieceLists(); err != nil {
			t.Fatalf("after %s: %v", s, err)
		}
		b.UnapplyMove(&m)
		if err := b.CheckPieceLists(); err != nil {
			t.Fatalf("after undoing %s: %v", s, err)
		}
		if diff := cmp.Diff(before, b, boardCmp); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", s, diff)
		}
	}
}
