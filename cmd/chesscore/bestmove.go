package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

func runBestMove(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bestmove", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		pos      positionFlags
		sf       storeFlags
		depth    = fs.Int("depth", 0, "maximum depth, 0 for unbounded")
		movetime = fs.Duration("movetime", 0, "time budget, 0 for unbounded")
		hashMB   = fs.Int("hash", 16, "transposition table size in MB")
		debug    = fs.Bool("debug-checks", false, "validate the position around the search")
		progress = fs.Duration("progress", 0, "log node counts at this interval while searching")
	)
	pos.register(fs)
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := pos.logger(stderr)
	if err != nil {
		return err
	}
	if *depth == 0 && *movetime == 0 {
		log.Warn().Msg("no -depth or -movetime, searching until interrupted")
	}
	b, history, err := pos.position()
	if err != nil {
		return err
	}

	store, err := sf.open()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	// A stored analysis knows nothing of the moves that led here, so it
	// only stands in when there are none.
	useCache := store != nil && len(history) == 0
	if useCache {
		if a, err := store.LoadAnalysis(b.Hash); err == nil && *depth > 0 && a.Depth >= *depth && a.FEN == b.FEN() {
			log.Info().Str("move", a.Move).Int("depth", a.Depth).Msg("cached analysis")
			fmt.Fprintf(stdout, "bestmove %s score %s depth %d nodes %d cached\n",
				a.Move, engine.ScoreString(a.Score), a.Depth, a.Nodes)
			return nil
		} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}

	bk, err := sf.loadBook(store)
	if err != nil {
		return err
	}

	opts := engine.DefaultOptions()
	opts.HashMB = *hashMB
	opts.DebugChecks = *debug
	opts.Logger = log
	opts.OnInfo = func(info engine.SearchInfo) {
		fmt.Fprintf(stdout, "info depth %d seldepth %d score %s nodes %d nps %d hashfull %d time %d pv %s\n",
			info.Depth, info.SelDepth, engine.ScoreString(info.Score), info.Nodes, info.NPS,
			info.HashFull, info.Time.Milliseconds(), moveText(info.PV))
	}
	eng := engine.NewEngine(opts)

	cfg := engine.SearchConfig{
		MaxDepth:    *depth,
		TimeBudget:  *movetime,
		BookMoves:   bk.Candidates(b),
		GameHistory: history,
	}

	res, err := search(ctx, eng, b, cfg, *progress, log)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case engine.Checkmate, engine.Stalemate:
		fmt.Fprintf(stdout, "bestmove (none) %s\n", res.Outcome)
		return nil
	}
	suffix := ""
	if res.FromBook {
		suffix = " book"
	} else if res.Interrupted {
		suffix = " interrupted"
	}
	fmt.Fprintf(stdout, "bestmove %s score %s depth %d nodes %d%s\n",
		res.Move, engine.ScoreString(res.Score), res.Depth, res.Nodes, suffix)
	if len(res.PV) > 0 {
		log.Info().Strs("pv", board.MovesToSAN(b, res.PV)).Msg("principal variation")
	}

	st := eng.Stats()
	log.Debug().
		Uint64("nodes", st.Nodes).
		Uint64("nps", st.NPS).
		Float64("tt_hit_rate", st.TTHitRate).
		Uint64("tt_bytes", st.TTSizeBytes).
		Int("hashfull", st.HashFull).
		Msg("search stats")

	if useCache && !res.FromBook && res.Depth > 0 {
		a := storage.Analysis{
			FEN:     b.FEN(),
			Move:    res.Move.String(),
			Score:   res.Score,
			Depth:   res.Depth,
			Nodes:   res.Nodes,
			PV:      strings.Fields(moveText(res.PV)),
			Elapsed: st.Elapsed,
		}
		if err := store.SaveAnalysis(b.Hash, a); err != nil {
			return fmt.Errorf("saving analysis: %w", err)
		}
	}
	return nil
}

// search runs BestMove next to a watcher that stops the engine when ctx is
// cancelled, and optionally a ticker that logs progress.
func search(ctx context.Context, eng *engine.Engine, b *board.Board, cfg engine.SearchConfig,
	every time.Duration, log zerolog.Logger) (engine.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var res engine.Result
	g.Go(func() error {
		defer cancel()
		var err error
		res, err = eng.BestMove(b, cfg)
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		eng.Stop()
		return nil
	})
	if every > 0 {
		g.Go(func() error {
			t := time.NewTicker(every)
			defer t.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-t.C:
					st := eng.Stats()
					log.Info().Uint64("nodes", st.Nodes).Uint64("nps", st.NPS).Msg("searching")
				}
			}
		})
	}
	err := g.Wait()
	return res, err
}

func moveText(moves []board.Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
