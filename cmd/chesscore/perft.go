package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

func runPerft(args []string) error {
	fs := flag.NewFlagSet("perft", flag.ExitOnError)
	fen := fs.String("fen", board.StartFEN, "position to count from")
	depth := fs.Int("depth", 4, "depth in plies")
	divide := fs.Bool("divide", false, "print the count below each root move")
	workers := fs.Int("workers", 0, "parallel root moves (0 = GOMAXPROCS)")
	fs.Parse(args)

	b, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}

	start := time.Now()
	entries, err := engine.PerftDivide(context.Background(), b, *depth, *workers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var total int64
	for _, e := range entries {
		total += e.Nodes
		if *divide {
			fmt.Printf("%-6s %-8s %d\n", e.Move, e.SAN, e.Nodes)
		}
	}
	if *depth < 1 {
		total = 1
	}

	if *divide {
		fmt.Println()
	}
	fmt.Printf("Nodes: %d\n", total)
	fmt.Printf("Time:  %v\n", elapsed.Round(time.Millisecond))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Printf("NPS:   %.0f\n", float64(total)/secs)
	}
	return nil
}
