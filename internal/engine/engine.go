package engine

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth   int // Plies to search (minimum 1)
	Workers int // Root workers; 0 or 1 searches on the calling goroutine
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 3 ply
	Hard                     // 4 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2},
	Medium: {Depth: 3},
	Hard:   {Depth: 4},
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("engine: unknown difficulty %q", s)
}

// Mode selects how the engine picks its moves.
type Mode int

const (
	ModeSearch Mode = iota // alpha-beta search
	ModeRandom             // uniform random legal move
)

func (m Mode) String() string {
	if m == ModeRandom {
		return "random"
	}
	return "search"
}

// Engine is the chess AI engine.
type Engine struct {
	searcher   *Searcher
	difficulty Difficulty
	mode       Mode
	rng        *rand.Rand
	logger     *log.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new engine at Medium difficulty in search mode.
func NewEngine() *Engine {
	return &Engine{
		searcher:   NewSearcher(),
		difficulty: Medium,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// SetMode switches between search and random play.
func (e *Engine) SetMode(m Mode) {
	e.mode = m
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// SetSeed reseeds the generator used by ModeRandom.
func (e *Engine) SetSeed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// SetLogger enables a log line per search. A nil logger disables it.
func (e *Engine) SetLogger(l *log.Logger) {
	e.logger = l
}

// Search finds the best move for the side to move on b.
func (e *Engine) Search(b *board.Board) board.Move {
	limits := DifficultySettings[e.difficulty]
	return e.SearchWithLimits(b, limits).Move
}

// SearchWithLimits finds the best move with specific search limits. b is
// returned to its original state.
func (e *Engine) SearchWithLimits(b *board.Board, limits SearchLimits) Result {
	start := time.Now()

	var res Result
	switch {
	case e.mode == ModeRandom:
		res = Result{Move: RandomMove(b, e.rng), Score: Evaluate(b)}
	case limits.Workers > 1:
		var err error
		res, err = ChooseMoveParallel(context.Background(), b, limits.Depth, limits.Workers)
		if err != nil {
			// Only cancellation fails, and this context is never cancelled.
			panic(err)
		}
	default:
		res = e.searcher.ChooseMove(b, limits.Depth, b.SideToMove())
	}

	elapsed := time.Since(start)
	if e.logger != nil {
		e.logger.Printf("%s depth %d: %v score %s nodes %d in %v",
			e.mode, res.Depth, res.Move, ScoreToString(res.Score, res.Depth), res.Nodes, elapsed)
	}
	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: res.Depth,
			Score: res.Score,
			Nodes: res.Nodes,
			Time:  elapsed,
			Move:  res.Move,
		})
	}
	return res
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(b *board.Board) int {
	return Evaluate(b)
}

// ScoreToString converts a White-relative score from a search of the given
// depth to a human-readable string: "#3" when White mates in three moves,
// "#-2" when Black does, pawns otherwise.
func ScoreToString(score, depth int) string {
	if IsMateScore(score) {
		plies := depth - (abs(score) - MateScore)
		moves := (plies + 1) / 2
		if score < 0 {
			return fmt.Sprintf("#-%d", moves)
		}
		return fmt.Sprintf("#%d", moves)
	}

	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
