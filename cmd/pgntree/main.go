package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chessnotation/pgntree/pkg/engine"
	"github.com/chessnotation/pgntree/pkg/studio"
	"github.com/chessnotation/pgntree/pkg/studio/console"
	"github.com/seekerror/logw"
)

var (
	file = flag.String("pgn", "", "PGN file to load at startup (optional)")
	fen  = flag.String("fen", "", "Starting position in FEN (defaults to the standard initial position)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: pgntree [options]

PGNTREE loads PGN movetext into a navigable move tree.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	s, err := studio.New(ctx, "pgntree", "chessnotation", studio.WithOptions(studio.Options{StartingPosition: *fen}))
	if err != nil {
		logw.Exitf(ctx, "Invalid studio options: %v", err)
	}

	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			logw.Exitf(ctx, "Failed to read %v: %v", *file, err)
		}
		if _, _, err := s.Load(ctx, string(data)); err != nil {
			logw.Exitf(ctx, "Failed to load %v: %v", *file, err)
		}
	}

	in := engine.ReadStdinLines(ctx)
	driver, out := console.NewDriver(ctx, s, in)
	go engine.WriteStdoutLines(ctx, out)

	<-driver.Closed()
}
