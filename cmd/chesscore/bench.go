package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	depth := fs.Int("depth", 4, "maximum search depth (1-7)")
	compare := fs.Bool("compare", false, "compare with the previous stored run")
	jsonPath := fs.String("json", "", "also write the results to this JSON file")
	useDB := fs.Bool("db", true, "store the run in the database")
	dbDir := fs.String("dbdir", "", "database directory (default: user data dir)")
	fs.Parse(args)

	maxDepth := engine.ClampBenchDepth(*depth)
	total := len(engine.BenchPositions) * maxDepth
	fmt.Printf("Testing %d positions at depths 1-%d...\n", len(engine.BenchPositions), maxDepth)
	fmt.Printf("(Total tests: %d)\n\n", total)

	started := time.Now()
	results, err := engine.RunBench(context.Background(), engine.BenchPositions, maxDepth, func(p engine.BenchProgress) {
		fmt.Fprintf(os.Stderr, "\rProgress: %d/%d (%d%%) - Testing: %s at depth %d        ",
			p.Done, p.Total, p.Done*100/p.Total, p.Position, p.Depth)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	printBenchResults(os.Stdout, results)
	run := &storage.BenchRun{Timestamp: started, MaxDepth: maxDepth, Results: results}

	if *jsonPath != "" {
		if err := writeBenchJSON(*jsonPath, run); err != nil {
			return err
		}
		fmt.Printf("Results written to %s\n", *jsonPath)
	}

	if !*useDB {
		return nil
	}
	store, err := openStore(*dbDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if *compare {
		prev, err := store.LatestBenchRun()
		switch {
		case errors.Is(err, storage.ErrNotFound):
			fmt.Println("No previous run to compare with.")
		case err != nil:
			return err
		default:
			fmt.Printf("Compared with run of %s:\n", prev.Timestamp.Format(time.DateTime))
			printBenchDeltas(os.Stdout, engine.CompareBench(prev.Results, results))
		}
	}
	return store.SaveBenchRun(run)
}

func printBenchResults(w io.Writer, results []engine.BenchResult) {
	fmt.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintln(w, "                            CHESS AI PERFORMANCE TEST RESULTS")
	fmt.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintf(w, "%-30s%-8s%-12s%-12s%-12s%-15s%-15s\n",
		"Position", "Depth", "Best Move", "Evaluation", "Nodes", "Time (ms)", "Time/Depth")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range results {
		ms := float64(r.Elapsed.Microseconds()) / 1000
		fmt.Fprintf(w, "%-30s%-8d%-12s%-12d%-12d%-15.2f%-15.2f\n",
			r.Position, r.Depth, r.Move, r.Score, r.Nodes, ms, ms/float64(r.Depth))
	}
	fmt.Fprintln(w, strings.Repeat("-", 100))

	fmt.Fprintln(w, "SUMMARY STATISTICS:")
	for _, a := range engine.DepthAverages(results) {
		fmt.Fprintf(w, "Depth %d: Average Time = %.2f ms (%d positions tested)\n",
			a.Depth, float64(a.Average.Microseconds())/1000, a.Positions)
	}
	fmt.Fprintln(w, strings.Repeat("=", 100))
}

func printBenchDeltas(w io.Writer, deltas []engine.BenchDelta) {
	fmt.Fprintf(w, "%-30s%-8s%-22s%-16s%-10s\n", "Position", "Depth", "Move (prev -> now)", "Score", "Speedup")
	for _, d := range deltas {
		move := d.Move
		if d.MoveChanged() {
			move = d.PrevMove + " -> " + d.Move
		}
		fmt.Fprintf(w, "%-30s%-8d%-22s%-16s%-10.2f\n",
			d.Position, d.Depth, move, fmt.Sprintf("%d -> %d", d.PrevScore, d.Score), d.Speedup())
	}
}

func writeBenchJSON(path string, run *storage.BenchRun) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func openStore(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}
