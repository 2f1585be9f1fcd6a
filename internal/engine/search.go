package engine

import (
	"math"
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
	DrawScore = 0
)

const (
	maxQuiescencePly = 32
	stopCheckMask    = 2047 // poll the clock every 2048 nodes
	deltaMargin      = 200
	nullMoveMinDepth = 3
)

// lmrReductions[depth][moveNumber], logarithmic in both.
var lmrReductions [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			lmrReductions[d][m] = int(0.75 + math.Log(float64(d))*math.Log(float64(m))/2.25)
		}
	}
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// PVTable stores the principal variation, triangular by ply.
type PVTable struct {
	length [MaxPly + 1]int
	moves  [MaxPly + 1][MaxPly + 1]board.Move
}

func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	for j := ply + 1; j < pv.length[ply+1]; j++ {
		pv.moves[ply][j] = pv.moves[ply+1][j]
	}
	pv.length[ply] = max(pv.length[ply+1], ply+1)
}

// Line returns a copy of the root variation.
func (pv *PVTable) Line() []board.Move {
	return append([]board.Move(nil), pv.moves[0][:pv.length[0]]...)
}

// Searcher runs alpha-beta on its own copy of a position. It is used for a
// single search and then discarded.
type Searcher struct {
	b         *board.Board
	tt        *TranspositionTable
	eval      *Evaluator
	orderer   *MoveOrderer
	history   *SearchHistory
	pathStart int
	threshold int

	tm       *TimeManager
	stop     *atomic.Bool
	useClock bool // false while the first iteration runs
	aborted  bool

	pv       PVTable
	nodes    uint64
	progress *atomic.Uint64 // receives the node count at every poll
	selDepth int
	rootBest board.Move
	rootDep  int
}

// NewSearcher prepares a search of b. game holds the hashes of the real
// game's positions before b, oldest first.
func NewSearcher(b *board.Board, tt *TranspositionTable, eval *Evaluator, orderer *MoveOrderer,
	game []uint64, threshold int, tm *TimeManager, stop *atomic.Bool) *Searcher {
	return &Searcher{
		b:         b,
		tt:        tt,
		eval:      eval,
		orderer:   orderer,
		history:   NewSearchHistory(game),
		pathStart: len(game),
		threshold: threshold,
		tm:        tm,
		stop:      stop,
	}
}

// Nodes returns the nodes visited so far, quiescence included.
func (s *Searcher) Nodes() uint64 { return s.nodes }

// SearchDepth runs one iteration at depth within [alpha, beta] and returns
// the root move and score. ok is false when the iteration was interrupted;
// its results must then be discarded.
func (s *Searcher) SearchDepth(depth, alpha, beta int) (m board.Move, score int, ok bool) {
	s.aborted = false
	s.rootBest = board.NoMove
	s.rootDep = depth
	score = s.negamax(depth, 0, alpha, beta, true)
	if s.aborted {
		return board.NoMove, 0, false
	}
	return s.rootBest, score, true
}

// PV returns the principal variation of the last completed iteration.
func (s *Searcher) PV() []board.Move {
	return s.pv.Line()
}

func (s *Searcher) stopped() bool {
	if s.aborted {
		return true
	}
	if s.nodes&stopCheckMask == 0 {
		if s.progress != nil {
			s.progress.Store(s.nodes)
		}
		if s.stop.Load() || (s.useClock && s.tm.Expired()) {
			s.aborted = true
		}
	}
	return s.aborted
}

// isDraw covers the fifty-move rule, dead positions and repetitions. It is
// never applied at the root.
func (s *Searcher) isDraw() bool {
	b := s.b
	if b.IsFiftyMoveDraw() && !b.InCheck() {
		return true
	}
	if b.IsInsufficientMaterial() {
		return true
	}
	return s.history.IsRepetition(b.Hash, b.HalfMoveClock, s.pathStart, s.threshold)
}

func (s *Searcher) negamax(depth, ply, alpha, beta int, allowNull bool) int {
	s.pv.length[ply] = ply
	if s.stopped() {
		return 0
	}

	b := s.b
	inCheck := b.InCheck()
	if inCheck && ply < 2*s.rootDep {
		depth++
	}
	if depth <= 0 {
		return s.quiescence(ply, 0, alpha, beta)
	}

	s.nodes++
	s.selDepth = max(s.selDepth, ply)

	if ply > 0 {
		if s.isDraw() {
			return DrawScore
		}
		// Mate distance pruning.
		alpha = max(alpha, -MateScore+ply)
		beta = min(beta, MateScore-ply-1)
		if alpha >= beta {
			return alpha
		}
	}
	if ply >= MaxPly-1 {
		return s.eval.Evaluate(b)
	}

	pvNode := beta-alpha > 1
	hash := b.Hash
	hashMove := board.NoMove
	if e, hit := s.tt.Probe(hash); hit {
		hashMove = e.Move
		if ply > 0 && int(e.Depth) >= depth {
			score := scoreFromTT(int(e.Score), ply)
			switch {
			case e.Bound == BoundExact,
				e.Bound == BoundLower && score >= beta,
				e.Bound == BoundUpper && score <= alpha:
				return score
			}
		}
	}

	us := b.SideToMove
	if allowNull && !pvNode && !inCheck && depth >= nullMoveMinDepth && ply > 0 &&
		b.HasNonPawnMaterial(us) && s.eval.Evaluate(b) >= beta {
		r := min(2+depth/4, depth-1)
		u := b.MakeNullMove()
		s.history.Push(nullHash)
		score := -s.negamax(depth-1-r, ply+1, -beta, -beta+1, false)
		s.history.Pop()
		b.UnmakeNullMove(u)
		if s.aborted {
			return 0
		}
		if score >= beta {
			if IsMateScore(score) {
				score = beta
			}
			return score
		}
	}

	var sm scoredMoves
	b.GenerateMoves(&sm.list)
	if sm.list.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return DrawScore
	}
	// A hint that is not among the legal moves is ignored.
	if hashMove != board.NoMove && !sm.list.Contains(hashMove) {
		hashMove = board.NoMove
	}
	s.orderer.score(b, &sm, ply, hashMove)

	best, bestMove := -Infinity, board.NoMove
	bound := BoundUpper
	var quiets [64]board.Move
	nq := 0

	for i := 0; ; i++ {
		m, ok := sm.pick()
		if !ok {
			break
		}
		u := b.MakeMove(m)
		s.history.Push(hash)
		givesCheck := b.InCheck()

		var score int
		if i == 0 {
			score = -s.negamax(depth-1, ply+1, -beta, -alpha, true)
		} else {
			r := 0
			if depth >= 3 && i >= 3 && m.IsQuiet() && !inCheck && !givesCheck {
				r = lmrReductions[min(depth, 63)][min(i, 63)]
				if pvNode {
					r--
				}
				r = min(max(r, 0), depth-2)
			}
			score = -s.negamax(depth-1-r, ply+1, -alpha-1, -alpha, true)
			if score > alpha && r > 0 {
				score = -s.negamax(depth-1, ply+1, -alpha-1, -alpha, true)
			}
			if score > alpha && score < beta {
				score = -s.negamax(depth-1, ply+1, -beta, -alpha, true)
			}
		}

		s.history.Pop()
		b.UnmakeMove(u)
		if s.aborted {
			return 0
		}

		if score > best {
			best, bestMove = score, m
			if ply == 0 {
				s.rootBest = m
			}
			if score > alpha {
				alpha = score
				bound = BoundExact
				s.pv.update(ply, m)
				if score >= beta {
					bound = BoundLower
					if m.IsQuiet() {
						s.orderer.cutoff(us, m, ply, depth, quiets[:nq])
					}
					break
				}
			}
		}
		if m.IsQuiet() && nq < len(quiets) {
			quiets[nq] = m
			nq++
		}
	}

	stored := bestMove
	if bound == BoundUpper {
		stored = board.NoMove
	}
	s.tt.Store(hash, depth, scoreToTT(best, ply), bound, stored)
	return best
}

// quiescence resolves captures (and every evasion when in check) until the
// position is quiet, so leaves are not scored in the middle of an exchange.
func (s *Searcher) quiescence(ply, qply, alpha, beta int) int {
	s.pv.length[ply] = ply
	if s.stopped() {
		return 0
	}
	s.nodes++
	s.selDepth = max(s.selDepth, ply)

	b := s.b
	inCheck := b.InCheck()
	if ply >= MaxPly-1 || qply >= maxQuiescencePly {
		return s.eval.Evaluate(b)
	}

	var sm scoredMoves
	best := -Infinity
	standPat := 0
	if inCheck {
		b.GenerateMoves(&sm.list)
		if sm.list.Len() == 0 {
			return -MateScore + ply
		}
	} else {
		standPat = s.eval.Evaluate(b)
		if standPat >= beta {
			return standPat
		}
		alpha = max(alpha, standPat)
		best = standPat
		b.GenerateCaptures(&sm.list)
	}
	s.orderer.score(b, &sm, MaxPly, board.NoMove)

	for {
		m, ok := sm.pick()
		if !ok {
			break
		}
		if !inCheck {
			gain := 0
			if m.IsCapture() {
				gain = pieceValue[m.Captured().Type()]
			}
			if m.IsPromotion() {
				gain += pieceValue[m.Promotion()] - PawnValue
			}
			if standPat+gain+deltaMargin < alpha {
				continue
			}
			if SEE(b, m) < 0 {
				continue
			}
		}

		u := b.MakeMove(m)
		score := -s.quiescence(ply+1, qply+1, -beta, -alpha)
		b.UnmakeMove(u)
		if s.aborted {
			return 0
		}

		if score > best {
			best = score
			if score > alpha {
				alpha = score
				if score >= beta {
					break
				}
			}
		}
	}
	return best
}
