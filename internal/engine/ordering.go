package engine

import "github.com/hailam/chesscore/internal/board"

// Ordering priorities; higher scores are searched first.
const (
	hashMoveScore   = 10_000_000
	goodCaptureBase = 1_000_000
	promotionBase   = 950_000
	killerScore1    = 900_000
	killerScore2    = 800_000
	badCaptureBase  = -100_000
	historyMax      = 1 << 14
)

// mvvLva[victim][attacker]: most valuable victim first, then least
// valuable attacker.
var mvvLva = [6][6]int{
	{15, 14, 14, 13, 12, 11},
	{25, 24, 24, 23, 22, 21},
	{35, 34, 34, 33, 32, 31},
	{45, 44, 44, 43, 42, 41},
	{55, 54, 54, 53, 52, 51},
	{0, 0, 0, 0, 0, 0},
}

// MoveOrderer holds the killer and history tables of one search.
type MoveOrderer struct {
	killers [MaxPly][2]board.Move
	history [2][64][64]int
}

// NewMoveOrderer returns an empty orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear drops the killers and halves the history so recent cutoffs dominate.
func (mo *MoveOrderer) Clear() {
	mo.killers = [MaxPly][2]board.Move{}
	for c := range mo.history {
		for i := range mo.history[c] {
			for j := range mo.history[c][i] {
				mo.history[c][i][j] /= 2
			}
		}
	}
}

// Reset forgets everything, for a new game.
func (mo *MoveOrderer) Reset() {
	*mo = MoveOrderer{}
}

// scoredMoves pairs a move list with ordering scores for lazy selection.
type scoredMoves struct {
	list   board.MoveList
	scores [256]int
	next   int
}

func (mo *MoveOrderer) score(b *board.Board, sm *scoredMoves, ply int, hashMove board.Move) {
	sm.next = 0
	us := b.SideToMove
	for i := 0; i < sm.list.Len(); i++ {
		m := sm.list.At(i)
		var s int
		switch {
		case m == hashMove:
			s = hashMoveScore
		case m.IsCapture():
			s = captureScore(b, m)
		case m.IsPromotion():
			s = promotionBase + pieceValue[m.Promotion()]
		case ply < MaxPly && m == mo.killers[ply][0]:
			s = killerScore1
		case ply < MaxPly && m == mo.killers[ply][1]:
			s = killerScore2
		default:
			s = mo.history[us][m.From()][m.To()]
		}
		sm.scores[i] = s
	}
}

// captureScore ranks captures by MVV-LVA, pushing those that lose material
// by SEE below the quiet moves.
func captureScore(b *board.Board, m board.Move) int {
	victim := m.Captured().Type()
	attacker := m.Piece().Type()
	s := mvvLva[victim][attacker] * 1000
	if m.IsPromotion() {
		s += pieceValue[m.Promotion()]
	}
	if pieceValue[attacker] <= pieceValue[victim] || SEE(b, m) >= 0 {
		return goodCaptureBase + s
	}
	return badCaptureBase + s
}

// pick moves the best remaining move to the front and returns it.
func (sm *scoredMoves) pick() (board.Move, bool) {
	n := sm.list.Len()
	if sm.next >= n {
		return board.NoMove, false
	}
	best := sm.next
	for j := best + 1; j < n; j++ {
		if sm.scores[j] > sm.scores[best] {
			best = j
		}
	}
	if best != sm.next {
		sm.list.Swap(sm.next, best)
		sm.scores[sm.next], sm.scores[best] = sm.scores[best], sm.scores[sm.next]
	}
	m := sm.list.At(sm.next)
	sm.next++
	return m, true
}

// cutoff records a quiet move that failed high: it becomes the first killer
// at ply and earns history proportional to depth squared. The quiet moves
// tried before it are penalized.
func (mo *MoveOrderer) cutoff(us board.Color, m board.Move, ply, depth int, tried []board.Move) {
	if ply < MaxPly && mo.killers[ply][0] != m {
		mo.killers[ply][1] = mo.killers[ply][0]
		mo.killers[ply][0] = m
	}
	bonus := min(depth*depth, 400)
	mo.updateHistory(us, m, bonus)
	for _, q := range tried {
		if q != m {
			mo.updateHistory(us, q, -bonus)
		}
	}
}

// updateHistory applies a gravity update that keeps entries within
// ±historyMax.
func (mo *MoveOrderer) updateHistory(us board.Color, m board.Move, bonus int) {
	h := &mo.history[us][m.From()][m.To()]
	*h += bonus - *h*abs(bonus)/historyMax
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
