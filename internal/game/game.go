// Package game tracks a single game on top of the board: the moves played,
// the terminal outcome, and the computer opponent.
package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// ErrGameOver is returned when a move is played after the game has ended.
var ErrGameOver = errors.New("game is over")

// Game is a game in progress.
type Game struct {
	board    *board.Board
	startFEN string
	history  []board.Move // applied moves, undo records intact
	sans     []string
	outcome  board.Outcome

	engine *engine.Engine
	logger *log.Logger
}

// New creates a game from the standard starting position.
func New() *Game {
	g, err := LoadPosition(board.StartFEN)
	if err != nil {
		panic(err)
	}
	return g
}

// LoadPosition creates a game from a FEN string. Only the piece placement
// field is required.
func LoadPosition(fen string) (*Game, error) {
	b, err := board.LoadPosition(fen)
	if err != nil {
		return nil, err
	}
	g := &Game{
		board:  b,
		engine: engine.NewEngine(),
	}
	g.startFEN = b.ToFEN()
	g.outcome = b.Outcome()
	return g, nil
}

// SetLogger enables move logging. A nil logger disables it.
func (g *Game) SetLogger(l *log.Logger) {
	g.logger = l
	g.engine.SetLogger(l)
}

// Engine returns the computer opponent.
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

// Board returns a copy of the current position.
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

// FEN returns the current position in FEN.
func (g *Game) FEN() string {
	return g.board.ToFEN()
}

// StartFEN returns the position the game started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// SideToMove returns the color to move.
func (g *Game) SideToMove() board.Color {
	return g.board.SideToMove()
}

// Outcome returns the state of the game. A terminal outcome stays until
// Undo or Reset.
func (g *Game) Outcome() board.Outcome {
	return g.outcome
}

// GameOver returns true if the game is over.
func (g *Game) GameOver() bool {
	return g.outcome.IsTerminal()
}

// LegalMovesForSquare returns the legal moves of the piece on sq. It
// returns nil for an off-board square and once the game is over.
func (g *Game) LegalMovesForSquare(sq board.Square) []board.Move {
	if g.GameOver() || !sq.IsValid() {
		return nil
	}
	return g.board.LegalMovesForSquare(sq)
}

// LegalMovesForSide returns every legal move of the side to move, or nil
// once the game is over.
func (g *Game) LegalMovesForSide() []board.Move {
	if g.GameOver() {
		return nil
	}
	return g.board.LegalMoves()
}

// FindMove resolves a from/to gesture to a legal move. Dragging the king
// onto its own rook castles, and a promotion without a piece becomes a
// queen.
func (g *Game) FindMove(from, to board.Square, promo board.PieceType) (board.Move, error) {
	if g.GameOver() {
		return board.NullMove, ErrGameOver
	}
	if !from.IsValid() || !to.IsValid() {
		return board.NullMove, fmt.Errorf("%w: %v to %v", board.ErrIllegalMove, from, to)
	}
	for _, m := range g.board.LegalMovesForSquare(from) {
		dst := m.To
		if m.Castling && to != m.To && castlingRookSquare(m) == to {
			dst = to
		}
		if dst != to {
			continue
		}
		if m.IsPromotion() {
			want := promo
			if want == board.None {
				want = board.Queen
			}
			if m.Promotion != want {
				continue
			}
		}
		return m, nil
	}
	return board.NullMove, fmt.Errorf("%w: %v to %v", board.ErrIllegalMove, from, to)
}

// castlingRookSquare returns the corner the castling king moves towards.
func castlingRookSquare(m board.Move) board.Square {
	if m.To.File() > m.From.File() {
		return board.NewSquare(7, m.From.Rank())
	}
	return board.NewSquare(0, m.From.Rank())
}

// Play plays m if it is legal. The castling flag of m is not required.
func (g *Game) Play(m board.Move) error {
	if g.GameOver() {
		return fmt.Errorf("%w: %v", ErrGameOver, g.outcome)
	}
	if !m.From.IsValid() || !m.To.IsValid() {
		return fmt.Errorf("%w: %v", board.ErrIllegalMove, m)
	}
	for _, legal := range g.board.LegalMovesForSquare(m.From) {
		if legal.To == m.To && legal.Promotion == m.Promotion {
			g.apply(legal)
			return nil
		}
	}
	return fmt.Errorf("%w: %v", board.ErrIllegalMove, m)
}

// PlayUCI plays a move in coordinate notation such as "e2e4" or "e7e8q".
func (g *Game) PlayUCI(s string) error {
	if g.GameOver() {
		return fmt.Errorf("%w: %v", ErrGameOver, g.outcome)
	}
	m, err := board.ParseMove(s, g.board)
	if err != nil {
		return err
	}
	return g.Play(m)
}

// PlaySAN plays a move in standard algebraic notation such as "Nf3".
func (g *Game) PlaySAN(s string) error {
	if g.GameOver() {
		return fmt.Errorf("%w: %v", ErrGameOver, g.outcome)
	}
	m, err := g.board.ParseSAN(s)
	if err != nil {
		return err
	}
	return g.Play(m)
}

func (g *Game) apply(m board.Move) {
	san := g.board.ToSAN(m)
	g.board.ApplyMove(&m)
	g.history = append(g.history, m)
	g.sans = append(g.sans, san)
	g.outcome = g.board.Outcome()

	if g.logger != nil {
		g.logger.Printf("[MOVE] %s (%v), %v to move", san, m, g.board.SideToMove())
		if g.outcome.IsTerminal() {
			g.logger.Printf("[GAME] %v", g.outcome)
		}
	}
}

// Undo takes back the last move. It reports false when no move was played.
func (g *Game) Undo() (board.Move, bool) {
	n := len(g.history)
	if n == 0 {
		return board.NullMove, false
	}
	m := g.history[n-1]
	g.board.UnapplyMove(&m)
	g.history = g.history[:n-1]
	g.sans = g.sans[:n-1]
	g.outcome = g.board.Outcome()
	return board.Move{From: m.From, To: m.To, Castling: m.Castling, Promotion: m.Promotion}, true
}

// Reset returns to the starting position of the game.
func (g *Game) Reset() {
	b, err := board.ParseFEN(g.startFEN)
	if err != nil {
		panic(err) // startFEN came from ToFEN
	}
	g.board = b
	g.history = nil
	g.sans = nil
	g.outcome = b.Outcome()
}

// MoveHistory returns the moves played so far.
func (g *Game) MoveHistory() []board.Move {
	out := make([]board.Move, len(g.history))
	for i, m := range g.history {
		out[i] = board.Move{From: m.From, To: m.To, Castling: m.Castling, Promotion: m.Promotion}
	}
	return out
}

// SANHistory returns the moves played so far in SAN.
func (g *Game) SANHistory() []string {
	return append([]string(nil), g.sans...)
}

// ChooseMove asks the engine for a move at the given depth without playing
// it. The result carries board.NullMove once the game is over.
func (g *Game) ChooseMove(depth int) engine.Result {
	if g.GameOver() {
		return engine.Result{Move: board.NullMove, Score: engine.Evaluate(g.board), Depth: depth}
	}
	return g.engine.SearchWithLimits(g.board, engine.SearchLimits{Depth: depth})
}

// PlayComputer lets the engine move at its configured difficulty.
func (g *Game) PlayComputer() (board.Move, error) {
	if g.GameOver() {
		return board.NullMove, fmt.Errorf("%w: %v", ErrGameOver, g.outcome)
	}
	limits := engine.DifficultySettings[g.engine.Difficulty()]
	res := g.engine.SearchWithLimits(g.board, limits)
	if res.Move.IsNull() {
		return board.NullMove, fmt.Errorf("%w: no move found", ErrGameOver)
	}
	if err := g.Play(res.Move); err != nil {
		return board.NullMove, err
	}
	return res.Move, nil
}

// Result returns the PGN result tag: "1-0", "0-1", "1/2-1/2" or "*".
func (g *Game) Result() string {
	switch {
	case g.outcome.Kind == board.Checkmate && g.outcome.Loser == board.Black:
		return "1-0"
	case g.outcome.Kind == board.Checkmate:
		return "0-1"
	case g.outcome.IsDraw():
		return "1/2-1/2"
	}
	return "*"
}

// ResultText describes the outcome for display.
func (g *Game) ResultText() string {
	switch g.outcome.Kind {
	case board.Checkmate:
		if g.outcome.Loser == board.White {
			return "Black wins by checkmate!"
		}
		return "White wins by checkmate!"
	case board.Stalemate:
		return "Draw by stalemate"
	case board.DrawRepetition:
		return "Draw by threefold repetition"
	case board.DrawFiftyMove:
		return "Draw by 50-move rule"
	}
	return ""
}
