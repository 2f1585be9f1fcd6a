// Package engine implements static evaluation, the transposition table and
// the iterative-deepening alpha-beta search.
package engine

import "github.com/hailam/chesscore/internal/board"

// Material values used by SEE, ordering and pruning margins.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

var pieceValue = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// Phase-dependent material. Pawns and rooks gain weight as pieces come off.
var (
	materialMG = [6]int{100, 320, 330, 490, 900, 0}
	materialEG = [6]int{120, 300, 320, 530, 950, 0}
)

// Phase weight per piece type; the start position sums to maxPhase.
var phaseWeight = [6]int{0, 1, 1, 2, 4, 0}

const maxPhase = 24

const tempoBonus = 12

// Piece-square tables, written as seen from White with rank 8 on the first
// row. White pieces index them through Square.Flip.
var (
	pawnMG = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		45, 50, 50, 55, 55, 50, 50, 45,
		12, 14, 22, 32, 32, 22, 14, 12,
		6, 6, 12, 26, 26, 12, 6, 6,
		0, 0, 6, 22, 22, 6, 0, 0,
		4, -4, -8, 2, 2, -8, -4, 4,
		4, 8, 8, -22, -22, 8, 8, 4,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	pawnEG = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		80, 80, 75, 70, 70, 75, 80, 80,
		45, 45, 40, 35, 35, 40, 45, 45,
		22, 20, 16, 12, 12, 16, 20, 22,
		10, 8, 4, 2, 2, 4, 8, 10,
		4, 2, 0, 0, 0, 0, 2, 4,
		4, 2, 2, 0, 0, 2, 2, 4,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	knightMG = [64]int{
		-55, -40, -30, -28, -28, -30, -40, -55,
		-40, -20, 0, 4, 4, 0, -20, -40,
		-30, 4, 12, 16, 16, 12, 4, -30,
		-28, 6, 16, 22, 22, 16, 6, -28,
		-28, 2, 16, 20, 20, 16, 2, -28,
		-30, 6, 12, 14, 14, 12, 6, -30,
		-40, -20, 0, 6, 6, 0, -20, -40,
		-55, -35, -30, -28, -28, -30, -35, -55,
	}
	knightEG = [64]int{
		-50, -35, -25, -20, -20, -25, -35, -50,
		-35, -15, -5, 0, 0, -5, -15, -35,
		-25, -5, 10, 12, 12, 10, -5, -25,
		-20, 0, 12, 18, 18, 12, 0, -20,
		-20, 0, 12, 18, 18, 12, 0, -20,
		-25, -5, 8, 12, 12, 8, -5, -25,
		-35, -15, -5, 0, 0, -5, -15, -35,
		-50, -35, -25, -20, -20, -25, -35, -50,
	}
	bishopMG = [64]int{
		-20, -10, -10, -8, -8, -10, -10, -20,
		-10, 2, 0, 0, 0, 0, 2, -10,
		-10, 0, 6, 10, 10, 6, 0, -10,
		-8, 6, 6, 12, 12, 6, 6, -8,
		-8, 2, 12, 12, 12, 12, 2, -8,
		-10, 10, 10, 8, 8, 10, 10, -10,
		-10, 8, 2, 2, 2, 2, 8, -10,
		-20, -10, -12, -10, -10, -12, -10, -20,
	}
	bishopEG = [64]int{
		-15, -10, -8, -6, -6, -8, -10, -15,
		-10, -2, 0, 2, 2, 0, -2, -10,
		-8, 0, 6, 8, 8, 6, 0, -8,
		-6, 2, 8, 12, 12, 8, 2, -6,
		-6, 2, 8, 12, 12, 8, 2, -6,
		-8, 0, 6, 8, 8, 6, 0, -8,
		-10, -2, 0, 2, 2, 0, -2, -10,
		-15, -10, -8, -6, -6, -8, -10, -15,
	}
	rookMG = [64]int{
		2, 4, 4, 6, 6, 4, 4, 2,
		10, 14, 14, 14, 14, 14, 14, 10,
		-4, 0, 0, 2, 2, 0, 0, -4,
		-6, 0, 0, 2, 2, 0, 0, -6,
		-6, 0, 0, 2, 2, 0, 0, -6,
		-6, 0, 0, 2, 2, 0, 0, -6,
		-8, -2, 0, 2, 2, 0, -2, -8,
		-2, 0, 2, 8, 8, 4, 0, -2,
	}
	rookEG = [64]int{
		8, 8, 8, 8, 8, 8, 8, 8,
		10, 12, 12, 12, 12, 12, 12, 10,
		4, 4, 4, 4, 4, 4, 4, 4,
		2, 2, 2, 2, 2, 2, 2, 2,
		0, 0, 0, 0, 0, 0, 0, 0,
		-2, -2, -2, -2, -2, -2, -2, -2,
		-4, -4, -4, -4, -4, -4, -4, -4,
		-6, -4, -2, 0, 0, -2, -4, -6,
	}
	queenMG = [64]int{
		-20, -12, -10, -6, -6, -10, -12, -20,
		-10, -4, 0, 0, 0, 0, -4, -10,
		-10, 0, 4, 4, 4, 4, 0, -10,
		-6, 0, 4, 6, 6, 4, 0, -6,
		-4, 0, 4, 6, 6, 4, 0, -4,
		-10, 4, 4, 4, 4, 4, 2, -10,
		-10, 0, 4, 2, 2, 0, 0, -10,
		-20, -12, -10, -2, -6, -10, -12, -20,
	}
	queenEG = [64]int{
		-20, -10, -8, -6, -6, -8, -10, -20,
		-10, 0, 4, 6, 6, 4, 0, -10,
		-8, 4, 10, 12, 12, 10, 4, -8,
		-6, 6, 12, 16, 16, 12, 6, -6,
		-6, 6, 12, 16, 16, 12, 6, -6,
		-8, 4, 10, 12, 12, 10, 4, -8,
		-10, 0, 4, 6, 6, 4, 0, -10,
		-20, -10, -8, -6, -6, -8, -10, -20,
	}
	// The middlegame king hides behind its pawns.
	kingMG = [64]int{
		-35, -42, -42, -52, -52, -42, -42, -35,
		-35, -42, -42, -52, -52, -42, -42, -35,
		-32, -40, -40, -50, -50, -40, -40, -32,
		-30, -38, -38, -48, -48, -38, -38, -30,
		-22, -30, -30, -40, -40, -30, -30, -22,
		-10, -20, -20, -22, -22, -20, -20, -10,
		18, 18, -2, -8, -8, -2, 18, 18,
		20, 32, 12, -4, 0, 8, 34, 20,
	}
	// The endgame king walks to the center.
	kingEG = [64]int{
		-50, -38, -28, -20, -20, -28, -38, -50,
		-30, -16, -6, 2, 2, -6, -16, -30,
		-28, -6, 18, 28, 28, 18, -6, -28,
		-26, -4, 28, 40, 40, 28, -4, -26,
		-26, -4, 28, 40, 40, 28, -4, -26,
		-28, -8, 16, 26, 26, 16, -8, -28,
		-32, -26, -4, 0, 0, -4, -26, -32,
		-50, -34, -30, -28, -28, -30, -34, -50,
	}

	pstMG = [6]*[64]int{&pawnMG, &knightMG, &bishopMG, &rookMG, &queenMG, &kingMG}
	pstEG = [6]*[64]int{&pawnEG, &knightEG, &bishopEG, &rookEG, &queenEG, &kingEG}
)

// pstIndex maps a square to its table slot for color c.
func pstIndex(sq board.Square, c board.Color) board.Square {
	if c == board.White {
		return sq.Flip()
	}
	return sq
}

// taper accumulates a middlegame and an endgame score from White's side.
type taper struct {
	mg, eg int
}

func (t *taper) add(c board.Color, mg, eg int) {
	if c == board.White {
		t.mg += mg
		t.eg += eg
	} else {
		t.mg -= mg
		t.eg -= eg
	}
}

// Evaluator scores positions statically. It owns a pawn-structure cache, so
// one Evaluator must not be shared between concurrent searches.
type Evaluator struct {
	pawns *PawnTable
}

// NewEvaluator returns an Evaluator with a pawn cache of the given size.
func NewEvaluator(pawnCacheMB int) *Evaluator {
	return &Evaluator{pawns: NewPawnTable(pawnCacheMB)}
}

// Evaluate scores b without a pawn cache.
func Evaluate(b *board.Board) int {
	var e Evaluator
	return e.Evaluate(b)
}

// Evaluate returns the score of b in centipawns from the side to move's
// point of view. The score is the tapered sum of independent terms.
func (e *Evaluator) Evaluate(b *board.Board) int {
	if b.IsInsufficientMaterial() {
		return 0
	}

	var t taper
	phase := 0
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			for bb := b.Pieces[c][pt]; bb != 0; {
				i := pstIndex(bb.Pop(), c)
				t.add(c, materialMG[pt]+pstMG[pt][i], materialEG[pt]+pstEG[pt][i])
				phase += phaseWeight[pt]
			}
		}
	}

	passed := e.pawnStructure(b, &t)

	at := newAttackMaps(b)
	for c := board.White; c <= board.Black; c++ {
		passerTerms(b, at, passed[c], c, &t)
		mobility(b, at, c, &t)
		kingSafety(b, at, c, &t)
		pieceTerms(b, at, c, &t)
		threats(b, at, c, &t)
		forks(b, at, c, &t)
		linePressure(b, c, &t)
	}

	phase = min(phase, maxPhase)
	score := (t.mg*phase + t.eg*(maxPhase-phase)) / maxPhase

	if b.SideToMove == board.Black {
		score = -score
	}
	return score + tempoBonus
}

// Phase returns the game phase, maxPhase for a full board down to 0.
func Phase(b *board.Board) int {
	phase := 0
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Knight; pt <= board.Queen; pt++ {
			phase += b.Pieces[c][pt].Count() * phaseWeight[pt]
		}
	}
	return min(phase, maxPhase)
}

// attackMaps caches per-color attack sets shared by several terms.
type attackMaps struct {
	all   [2]board.Bitboard    // every attacked square
	twice [2]board.Bitboard    // squares attacked at least twice
	by    [2][6]board.Bitboard // attacks per piece type
}

func newAttackMaps(b *board.Board) *attackMaps {
	at := &attackMaps{}
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			for bb := b.Pieces[c][pt]; bb != 0; {
				a := board.AttacksFrom(pt, c, bb.Pop(), b.All)
				at.twice[c] |= at.all[c] & a
				at.all[c] |= a
				at.by[c][pt] |= a
			}
		}
	}
	return at
}
