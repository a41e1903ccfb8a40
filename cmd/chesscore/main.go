// Command chesscore runs perft, the search bench and engine self-play from
// the console.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/board"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	debug      = flag.Bool("debug", false, "verify piece lists on every move")
)

var commands = map[string]func(args []string) error{
	"perft": runPerft,
	"bench": runBench,
	"play":  runPlay,
	"prefs": runPrefs,
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: chesscore [flags] <perft|bench|play|prefs> [command flags]\n\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		log.Printf("unknown command %q", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	board.DebugMoveValidation = *debug

	if err := cmd(flag.Args()[1:]); err != nil {
		pprof.StopCPUProfile()
		log.Fatal(err)
	}
}
