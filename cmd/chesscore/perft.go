package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"time"
)

func runPerft(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		pos    positionFlags
		depth  = fs.Int("depth", 4, "perft depth")
		divide = fs.Bool("divide", false, "print the count below each root move")
	)
	pos.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *depth < 1 {
		return errors.New("perft needs -depth >= 1")
	}

	log, err := pos.logger(stderr)
	if err != nil {
		return err
	}
	b, _, err := pos.position()
	if err != nil {
		return err
	}

	start := time.Now()
	var nodes uint64
	if *divide {
		counts := b.Divide(*depth)
		moves := make([]string, 0, len(counts))
		for m := range counts {
			moves = append(moves, m)
		}
		slices.Sort(moves)
		for _, m := range moves {
			fmt.Fprintf(stdout, "%s: %d\n", m, counts[m])
			nodes += counts[m]
		}
		fmt.Fprintln(stdout)
	} else {
		nodes = b.Perft(*depth)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "nodes %d\n", nodes)
	log.Info().
		Int("depth", *depth).
		Uint64("nodes", nodes).
		Dur("elapsed", elapsed).
		Uint64("nps", uint64(float64(nodes)/max(elapsed.Seconds(), 1e-9))).
		Msg("perft")
	return nil
}
