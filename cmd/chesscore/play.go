package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	fen := fs.String("fen", board.StartFEN, "starting position")
	depth := fs.Int("depth", 0, "search depth (0 = stored preference)")
	plies := fs.Int("plies", 200, "stop after this many plies")
	random := fs.Bool("random", false, "play uniformly random moves")
	seed := fs.Int64("seed", 0, "random seed (0 = time based)")
	workers := fs.Int("workers", 1, "parallel root moves")
	verbose := fs.Bool("v", false, "log every search")
	save := fs.Bool("save", false, "record the game in the database")
	dbDir := fs.String("dbdir", "", "database directory (default: user data dir)")
	vs := fs.Bool("vs", false, "play against the computer, reading moves from stdin")
	color := fs.String("color", "", "computer color with -vs (default: stored preference)")
	fs.Parse(args)

	var store *storage.Storage
	prefs := storage.DefaultPreferences()
	if *save || *depth == 0 || (*vs && *color == "") {
		var err error
		if store, err = openStore(*dbDir); err != nil {
			return err
		}
		defer store.Close()
		if prefs, err = store.LoadPreferences(); err != nil {
			return err
		}
	}

	g, err := game.LoadPosition(*fen)
	if err != nil {
		return err
	}
	if *verbose {
		g.SetLogger(log.New(os.Stderr, "", log.Ltime))
	}

	eng := g.Engine()
	if *random || prefs.ComputerMode == engine.ModeRandom.String() {
		eng.SetMode(engine.ModeRandom)
	}
	if *seed != 0 {
		eng.SetSeed(*seed)
	}
	limits := engine.SearchLimits{Depth: *depth, Workers: *workers}
	if limits.Depth == 0 {
		limits.Depth = prefs.DefaultDepth
	}

	tags := map[string]string{
		"White": eng.Mode().String(),
		"Black": eng.Mode().String(),
		"Round": "1",
	}

	start := time.Now()
	if *vs {
		if *color == "" {
			*color = prefs.ComputerColor
		}
		computer, err := parseColor(*color)
		if err != nil {
			return err
		}
		tags[computer.Other().String()] = "human"
		if err := versus(g, limits, computer, os.Stdin, os.Stdout); err != nil {
			return err
		}
	} else {
		for ply := 0; ply < *plies && !g.GameOver(); ply++ {
			res := eng.SearchWithLimits(g.Board(), limits)
			if res.Move.IsNull() {
				break
			}
			if err := g.Play(res.Move); err != nil {
				return err
			}
		}
	}

	sans := g.SANHistory()
	fmt.Println(strings.Join(sans, " "))
	fmt.Println()
	if text := g.ResultText(); text != "" {
		fmt.Println(text)
	} else {
		fmt.Printf("Stopped after %d plies\n", len(sans))
	}
	fmt.Printf("Played in %v\n\n", time.Since(start).Round(time.Millisecond))

	pgn, err := g.PGN(tags)
	if err != nil {
		return err
	}
	fmt.Println(pgn)

	if !*save {
		return nil
	}
	return store.RecordGame(&storage.GameRecord{
		StartFEN: g.StartFEN(),
		Moves:    sans,
		Result:   g.Result(),
		PGN:      pgn,
	})
}

func parseColor(s string) (board.Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return board.White, nil
	case "black", "b":
		return board.Black, nil
	}
	return board.White, fmt.Errorf("unknown color %q", s)
}

// versus alternates computer moves for the computer color with moves read
// from in, in SAN or coordinate notation. "undo" takes back the last move
// pair and "quit" ends the session.
func versus(g *game.Game, limits engine.SearchLimits, computer board.Color, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for !g.GameOver() {
		if g.SideToMove() == computer {
			res := g.ChooseMove(limits.Depth)
			if res.Move.IsNull() {
				break
			}
			b := g.Board()
			san := b.ToSAN(res.Move)
			if err := g.Play(res.Move); err != nil {
				return err
			}
			fmt.Fprintf(out, "computer: %s (%s)\n", san, engine.ScoreToString(res.Score, res.Depth))
			continue
		}

		fmt.Fprintf(out, "%v to move> ", g.SideToMove())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "quit":
			return nil
		case "undo":
			g.Undo()
			if g.SideToMove() == computer {
				g.Undo()
			}
			if g.SideToMove() == computer {
				// Nothing of ours left to take back; let the computer move again.
				continue
			}
			fmt.Fprintln(out, g.Board())
			continue
		}

		err := g.PlaySAN(input)
		if err != nil {
			if uciErr := g.PlayUCI(input); uciErr == nil {
				err = nil
			}
		}
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
		}
	}
	if text := g.ResultText(); text != "" {
		fmt.Fprintln(out, text)
	}
	return nil
}

func runPrefs(args []string) error {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	difficulty := fs.String("difficulty", "", "easy, medium or hard")
	mode := fs.String("mode", "", "search or random")
	color := fs.String("color", "", "computer color: white or black")
	depth := fs.Int("depth", 0, "default search depth")
	dbDir := fs.String("dbdir", "", "database directory (default: user data dir)")
	fs.Parse(args)

	store, err := openStore(*dbDir)
	if err != nil {
		return err
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		return err
	}

	changed := false
	if *difficulty != "" {
		d, err := engine.ParseDifficulty(*difficulty)
		if err != nil {
			return err
		}
		prefs.Difficulty = d.String()
		prefs.DefaultDepth = engine.DifficultySettings[d].Depth
		changed = true
	}
	if *mode != "" {
		if *mode != engine.ModeSearch.String() && *mode != engine.ModeRandom.String() {
			return fmt.Errorf("unknown mode %q", *mode)
		}
		prefs.ComputerMode = *mode
		changed = true
	}
	if *color != "" {
		if *color != "white" && *color != "black" {
			return fmt.Errorf("unknown color %q", *color)
		}
		prefs.ComputerColor = *color
		changed = true
	}
	if *depth > 0 {
		prefs.DefaultDepth = *depth
		changed = true
	}

	if changed {
		if err := store.SavePreferences(prefs); err != nil {
			return err
		}
	}

	fmt.Printf("difficulty:     %s\n", prefs.Difficulty)
	fmt.Printf("computer mode:  %s\n", prefs.ComputerMode)
	fmt.Printf("computer color: %s\n", prefs.ComputerColor)
	fmt.Printf("default depth:  %d\n", prefs.DefaultDepth)
	if !prefs.LastUsed.IsZero() {
		fmt.Printf("last used:      %s\n", prefs.LastUsed.Format(time.DateTime))
	}
	return nil
}
