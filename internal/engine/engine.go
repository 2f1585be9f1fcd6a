package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

// ErrNilBoard is returned when BestMove is called without a position.
var ErrNilBoard = errors.New("engine: nil board")

// SearchInfo is reported after every completed iteration.
type SearchInfo struct {
	Depth    int
	SelDepth int
	Score    int
	Nodes    uint64
	NPS      uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // permille
}

// Options configure an Engine for its whole lifetime.
type Options struct {
	HashMB int
	// RepetitionThreshold is how many occurrences of a game position,
	// counting the one reached in search, make a draw.
	RepetitionThreshold int
	// DebugChecks validates the position before and after every search.
	DebugChecks bool
	Logger      zerolog.Logger
	OnInfo      func(SearchInfo)
}

// DefaultOptions returns a 16 MB table, threefold repetition and a silent
// logger.
func DefaultOptions() Options {
	return Options{
		HashMB:              16,
		RepetitionThreshold: 3,
		Logger:              zerolog.Nop(),
	}
}

// SearchConfig limits one BestMove call. Zero values mean unbounded.
type SearchConfig struct {
	MaxDepth   int
	TimeBudget time.Duration
	// BookMoves are candidates consulted before searching; the first one
	// that is legal in the position is played.
	BookMoves []board.Move
	// GameHistory holds the Zobrist hashes of the game's earlier positions,
	// oldest first, for repetition detection.
	GameHistory []uint64
}

// Outcome describes a position with no legal moves.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

// Result is the answer to BestMove.
type Result struct {
	Move  board.Move
	Score int // centipawns from the side to move, or a mate score
	// Depth is the deepest fully completed iteration, 0 for book moves
	// and terminal positions.
	Depth int
	Nodes uint64
	PV    []board.Move
	// Interrupted is set when the budget or Stop cut an iteration short.
	Interrupted bool
	FromBook    bool
	Outcome     Outcome
}

// Stats are read-only counters of the most recent search.
type Stats struct {
	Nodes       uint64
	TTHitRate   float64
	TTSizeBytes uint64
	TTEntries   int
	HashFull    int
	Elapsed     time.Duration
	NPS         uint64
}

// Engine owns the transposition table and heuristics that persist between
// searches of one game. Searches are serialized; Stop and Stats may be
// called from other goroutines.
type Engine struct {
	opts    Options
	log     zerolog.Logger
	tt      *TranspositionTable
	eval    *Evaluator
	orderer *MoveOrderer

	searchMu sync.Mutex
	stop     atomic.Bool

	statsMu sync.Mutex
	stats   Stats

	// Progress of the running search, published while it polls for stop.
	liveNodes atomic.Uint64
	liveStart atomic.Int64
}

// NewEngine creates an engine. Zero option fields take their defaults.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.HashMB <= 0 {
		opts.HashMB = def.HashMB
	}
	if opts.RepetitionThreshold <= 0 {
		opts.RepetitionThreshold = def.RepetitionThreshold
	}
	return &Engine{
		opts:    opts,
		log:     opts.Logger.With().Str("component", "engine").Logger(),
		tt:      NewTranspositionTable(opts.HashMB),
		eval:    NewEvaluator(1),
		orderer: NewMoveOrderer(),
	}
}

// NewGame forgets everything learned from earlier positions.
func (e *Engine) NewGame() {
	e.searchMu.Lock()
	defer e.searchMu.Unlock()
	e.tt.Clear()
	e.eval.pawns.Clear()
	e.orderer.Reset()
}

// SetHashSize reallocates the transposition table.
func (e *Engine) SetHashSize(mb int) {
	e.searchMu.Lock()
	defer e.searchMu.Unlock()
	e.tt.Resize(mb)
}

// Stop interrupts the running search, which then returns the result of its
// last completed iteration.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Stats returns the counters of the last or running search.
func (e *Engine) Stats() Stats {
	e.statsMu.Lock()
	s := e.stats
	e.statsMu.Unlock()
	if live := e.liveNodes.Load(); live > s.Nodes {
		s.Nodes = live
		s.Elapsed = time.Since(time.Unix(0, e.liveStart.Load()))
		s.NPS = nodesPerSecond(live, s.Elapsed)
	}
	s.TTHitRate = e.tt.HitRate()
	s.TTSizeBytes = e.tt.SizeBytes()
	s.TTEntries = e.tt.Len()
	s.HashFull = e.tt.HashFull()
	return s
}

// TT exposes the transposition table counters.
func (e *Engine) TT() *TranspositionTable { return e.tt }

// Evaluate returns the static evaluation of b from the side to move.
func (e *Engine) Evaluate(b *board.Board) int {
	return e.eval.Evaluate(b)
}

// BestMove searches b within cfg and returns the best move of the deepest
// completed iteration. b itself is not modified.
func (e *Engine) BestMove(b *board.Board, cfg SearchConfig) (Result, error) {
	if b == nil {
		return Result{}, ErrNilBoard
	}
	e.searchMu.Lock()
	defer e.searchMu.Unlock()
	e.stop.Store(false)

	if e.opts.DebugChecks {
		if err := b.Validate(); err != nil {
			return Result{}, fmt.Errorf("engine: invalid position: %w", err)
		}
	}

	pos := b.Copy()
	legal := pos.LegalMoves()
	if len(legal) == 0 {
		res := Result{Outcome: Stalemate, Score: DrawScore}
		if pos.InCheck() {
			res.Outcome, res.Score = Checkmate, -MateScore
		}
		return res, nil
	}

	if m, ok := bookMove(legal, cfg.BookMoves); ok {
		e.log.Info().Str("move", m.String()).Str("fen", pos.FEN()).Msg("book move")
		return Result{Move: m, Score: e.eval.Evaluate(pos), PV: []board.Move{m}, FromBook: true}, nil
	}

	res := e.iterate(pos, legal, cfg)

	if e.opts.DebugChecks {
		if err := pos.Validate(); err != nil {
			return res, fmt.Errorf("engine: position corrupted by search: %w", err)
		}
		if pos.Hash != b.Hash {
			return res, fmt.Errorf("engine: search did not restore hash %016x, got %016x", b.Hash, pos.Hash)
		}
	}
	return res, nil
}

// bookMove returns the first candidate that is legal, matched by squares
// and promotion so callers may build candidates from UCI text.
func bookMove(legal, candidates []board.Move) (board.Move, bool) {
	for _, c := range candidates {
		for _, m := range legal {
			if m.From() == c.From() && m.To() == c.To() && m.Promotion() == c.Promotion() {
				return m, true
			}
		}
	}
	return board.NoMove, false
}

func (e *Engine) iterate(pos *board.Board, legal []board.Move, cfg SearchConfig) Result {
	maxDepth := MaxPly - 1
	if cfg.MaxDepth > 0 {
		maxDepth = min(cfg.MaxDepth, maxDepth)
	}

	e.tt.NewSearch()
	e.orderer.Clear()
	tm := NewTimeManager(cfg.TimeBudget)
	s := NewSearcher(pos, e.tt, e.eval, e.orderer, cfg.GameHistory, e.opts.RepetitionThreshold, tm, &e.stop)
	s.progress = &e.liveNodes
	e.recordStats(0, 0)
	e.liveNodes.Store(0)
	e.liveStart.Store(time.Now().UnixNano())

	res := Result{Move: legal[0]}
	const window = 50

	for depth := 1; depth <= maxDepth; depth++ {
		// The first iteration always runs to completion unless stopped, so
		// a move is available however small the budget.
		s.useClock = depth > 1
		if depth > 1 && !tm.CanStartIteration() {
			break
		}

		var (
			move  board.Move
			score int
			ok    bool
		)
		if depth >= 5 && !IsMateScore(res.Score) {
			alpha, beta, delta := res.Score-window, res.Score+window, window
			for {
				move, score, ok = s.SearchDepth(depth, alpha, beta)
				if !ok {
					break
				}
				if score <= alpha {
					alpha = max(score-delta, -Infinity)
				} else if score >= beta {
					beta = min(score+delta, Infinity)
				} else {
					break
				}
				delta *= 2
			}
		} else {
			move, score, ok = s.SearchDepth(depth, -Infinity, Infinity)
		}

		if !ok {
			res.Interrupted = true
			e.log.Info().Int("depth", depth).Int("completed", res.Depth).Msg("iteration interrupted")
			break
		}

		res.Move, res.Score, res.Depth = move, score, depth
		res.PV = s.PV()
		e.report(s, tm, res)

		if IsMateScore(score) && MateScore-abs(score) <= depth {
			break
		}
		if len(legal) == 1 && depth >= 4 {
			break
		}
	}

	res.Nodes = s.Nodes()
	e.recordStats(s.Nodes(), tm.Elapsed())
	return res
}

func (e *Engine) report(s *Searcher, tm *TimeManager, res Result) {
	elapsed := tm.Elapsed()
	nodes := s.Nodes()
	nps := nodesPerSecond(nodes, elapsed)
	e.recordStats(nodes, elapsed)

	if ev := e.log.Debug(); ev.Enabled() {
		ev.Int("depth", res.Depth).
			Int("seldepth", s.selDepth).
			Str("score", ScoreString(res.Score)).
			Uint64("nodes", nodes).
			Uint64("nps", nps).
			Int("hashfull", e.tt.HashFull()).
			Stringer("pv", pvString(res.PV)).
			Dur("elapsed", elapsed).
			Msg("iteration")
	}
	if e.opts.OnInfo != nil {
		e.opts.OnInfo(SearchInfo{
			Depth:    res.Depth,
			SelDepth: s.selDepth,
			Score:    res.Score,
			Nodes:    nodes,
			NPS:      nps,
			Time:     elapsed,
			PV:       res.PV,
			HashFull: e.tt.HashFull(),
		})
	}
}

func (e *Engine) recordStats(nodes uint64, elapsed time.Duration) {
	e.statsMu.Lock()
	e.stats.Nodes = nodes
	e.stats.Elapsed = elapsed
	e.stats.NPS = nodesPerSecond(nodes, elapsed)
	e.statsMu.Unlock()
}

func nodesPerSecond(nodes uint64, elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return 0
	}
	return uint64(float64(nodes) / elapsed.Seconds())
}

type pvString []board.Move

func (pv pvString) String() string {
	out := make([]byte, 0, len(pv)*5)
	for i, m := range pv {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, m.String()...)
	}
	return string(out)
}

// ScoreString renders a score as "cp 25" or "mate 3" (negative when the
// side to move is being mated).
func ScoreString(score int) string {
	switch {
	case score > MateScore-MaxPly:
		return fmt.Sprintf("mate %d", (MateScore-score+1)/2)
	case score < -MateScore+MaxPly:
		return fmt.Sprintf("mate -%d", (MateScore+score)/2)
	}
	return fmt.Sprintf("cp %d", score)
}
