package board

// OutcomeKind classifies the state of a game.
type OutcomeKind uint8

const (
	Ongoing OutcomeKind = iota
	Checkmate
	Stalemate
	DrawFiftyMove
	DrawRepetition
)

// String returns a readable name for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawFiftyMove:
		return "draw by fifty-move rule"
	case DrawRepetition:
		return "draw by threefold repetition"
	default:
		return "unknown"
	}
}

// Outcome is the result of a status query. Loser is only meaningful for
// Checkmate.
type Outcome struct {
	Kind  OutcomeKind
	Loser Color
}

// IsTerminal reports whether the game is over.
func (o Outcome) IsTerminal() bool {
	return o.Kind != Ongoing
}

// IsDraw reports whether the game ended without a winner.
func (o Outcome) IsDraw() bool {
	return o.Kind == Stalemate || o.Kind == DrawFiftyMove || o.Kind == DrawRepetition
}

// String describes the outcome.
func (o Outcome) String() string {
	if o.Kind == Checkmate {
		return o.Loser.String() + " is checkmated"
	}
	return o.Kind.String()
}

// Outcome returns the state of the game on b. Checkmate and stalemate are
// reported before the draw rules.
func (b *Board) Outcome() Outcome {
	if !b.HasLegalMoves() {
		if b.InCheck() {
			return Outcome{Kind: Checkmate, Loser: b.sideToMove}
		}
		return Outcome{Kind: Stalemate}
	}
	if b.halfMoveClock >= 100 {
		return Outcome{Kind: DrawFiftyMove}
	}
	if b.RepetitionCount() >= 3 {
		return Outcome{Kind: DrawRepetition}
	}
	return Outcome{Kind: Ongoing}
}

// IsCheckmate returns true if the side to move is checkmated.
func (b *Board) IsCheckmate() bool {
	return b.InCheck() && !b.HasLegalMoves()
}

// IsStalemate returns true if the side to move has no legal move and is not
// in check.
func (b *Board) IsStalemate() bool {
	return !b.InCheck() && !b.HasLegalMoves()
}
