package game

import (
	"fmt"
	"strings"
	"time"

	chess "github.com/corentings/chess/v2"
	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
)

// sevenTagRoster is the PGN tag order; other tags follow alphabetically.
var sevenTagRoster = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

// PGN renders the game as PGN with the given extra tags. The moves are
// replayed through github.com/corentings/chess, and a disagreement about
// legality or the result is reported as an error. The movetext is the
// game's own SAN.
func (g *Game) PGN(tags map[string]string) (string, error) {
	result, err := g.crossCheck()
	if err != nil {
		return "", err
	}

	all := map[string]string{
		"Event": "chesscore game",
		"Site":  "?",
		"Date":  time.Now().Format("2006.01.02"),
		"Round": "?",
		"White": "?",
		"Black": "?",
	}
	if g.startFEN != board.StartFEN {
		all["SetUp"] = "1"
		all["FEN"] = g.startFEN
	}
	for k, v := range tags {
		all[k] = v
	}
	all["Result"] = result

	var sb strings.Builder
	for _, k := range sortedTags(all) {
		fmt.Fprintf(&sb, "[%s %q]\n", k, all[k])
	}
	sb.WriteByte('\n')

	start, err := board.ParseFEN(g.startFEN)
	if err != nil {
		return "", fmt.Errorf("pgn: start position: %w", err)
	}
	sb.WriteString(movetext(g.sans, start.FullMoveNumber(), start.SideToMove()))
	sb.WriteString(result)
	return sb.String(), nil
}

// crossCheck replays the game through corentings and returns the result
// tag. An unfinished game may still be adjudicated there, e.g. on
// insufficient material, which this package does not track.
func (g *Game) crossCheck() (string, error) {
	opt, err := chess.FEN(g.startFEN)
	if err != nil {
		return "", fmt.Errorf("pgn: start position: %w", err)
	}
	cg := chess.NewGame(opt)

	for i, san := range g.sans {
		if err := cg.PushMove(san, &chess.PushMoveOptions{}); err != nil {
			return "", fmt.Errorf("pgn: move %d %s: %w", i+1, san, err)
		}
	}

	switch g.outcome.Kind {
	case board.DrawRepetition:
		err = cg.Draw(chess.ThreefoldRepetition)
	case board.DrawFiftyMove:
		err = cg.Draw(chess.FiftyMoveRule)
	}
	if err != nil {
		return "", fmt.Errorf("pgn: %v: %w", g.outcome, err)
	}

	result := cg.Outcome().String()
	if g.Result() != "*" && result != g.Result() {
		return "", fmt.Errorf("pgn: result %s, want %s", result, g.Result())
	}
	return result, nil
}

func sortedTags(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	rank := func(k string) int {
		if i := slices.Index(sevenTagRoster, k); i >= 0 {
			return i
		}
		return len(sevenTagRoster)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
	return keys
}

// movetext numbers the moves, starting with "N..." when Black moves first.
// The result is followed by a space, ready for the result token.
func movetext(sans []string, moveNumber int, side board.Color) string {
	var sb strings.Builder
	for i, san := range sans {
		switch {
		case side == board.White:
			fmt.Fprintf(&sb, "%d. ", moveNumber)
		case i == 0:
			fmt.Fprintf(&sb, "%d... ", moveNumber)
		}
		sb.WriteString(san)
		sb.WriteByte(' ')
		if side == board.Black {
			moveNumber++
		}
		side = side.Other()
	}
	return sb.String()
}
