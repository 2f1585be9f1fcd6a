package engine

import "github.com/hailam/chesscore/internal/board"

// Passed pawn bonus by relative rank.
var (
	passedMG = [8]int{0, 5, 10, 18, 32, 55, 90, 0}
	passedEG = [8]int{0, 10, 18, 35, 60, 100, 160, 0}
)

const (
	doubledMG, doubledEG   = -12, -20
	isolatedMG, isolatedEG = -15, -20
	backwardMG, backwardEG = -10, -8
	connectedMG            = 6 // per relative rank of a phalanx or supported pawn
	connectedEG            = 4

	passedFreePathEG   = 25
	passedSupportedEG  = 12
	kingProximityEG    = 5 // per square of distance to a passer's stop square
	shieldPawn         = 12
	shieldPawnAdvanced = 6
	kingOpenFile       = -22
	kingSemiOpenFile   = -10
	kingStormPawn      = -8
)

// Mobility weight per reachable square, by piece type.
var (
	mobilityMG = [6]int{0, 4, 5, 2, 1, 0}
	mobilityEG = [6]int{0, 3, 4, 4, 2, 0}
)

// King attack units per attacking piece type, scaled by attackScale.
var (
	attackWeight = [6]int{0, 20, 20, 40, 80, 0}
	attackScale  = [8]int{0, 0, 50, 75, 88, 94, 97, 99}
)

const (
	bishopPairMG, bishopPairEG   = 25, 50
	rookOpenMG, rookOpenEG       = 22, 12
	rookSemiOpenMG, rookSemiEG   = 10, 6
	rookSeventhMG, rookSeventhEG = 20, 35
	outpostKnightMG, outpostKnEG = 25, 15
	outpostBishopMG, outpostBiEG = 15, 8
	outpostSupportedMG           = 10
	centerControlMG              = 3 // per attacked center square
	extendedCenterMG             = 1
)

// pawnStructure adds the pawn-only and king-shelter terms, through the pawn
// cache when the evaluator has one, and returns each side's passed pawns.
func (e *Evaluator) pawnStructure(b *board.Board, t *taper) [2]board.Bitboard {
	var ent *pawnEntry
	if e.pawns != nil {
		var hit bool
		if ent, hit = e.pawns.probe(b.PawnKey); hit {
			t.mg += int(ent.mg)
			t.eg += int(ent.eg)
			return ent.passed
		}
	}

	var p taper
	var passed [2]board.Bitboard
	for c := board.White; c <= board.Black; c++ {
		passed[c] = pawnTerms(b, c, &p)
		kingShelter(b, c, &p)
	}
	if ent != nil {
		*ent = pawnEntry{key: b.PawnKey, mg: int16(p.mg), eg: int16(p.eg), passed: passed}
	}
	t.mg += p.mg
	t.eg += p.eg
	return passed
}

func pawnTerms(b *board.Board, c board.Color, t *taper) board.Bitboard {
	them := c.Other()
	own := b.Pieces[c][board.Pawn]
	enemy := b.Pieces[them][board.Pawn]

	var ownAttacks, enemyAttacks board.Bitboard
	for bb := own; bb != 0; {
		ownAttacks |= board.PawnAttacks(bb.Pop(), c)
	}
	for bb := enemy; bb != 0; {
		enemyAttacks |= board.PawnAttacks(bb.Pop(), them)
	}

	for f := 0; f < 8; f++ {
		if n := (own & board.Files[f]).Count(); n > 1 {
			t.add(c, doubledMG*(n-1), doubledEG*(n-1))
		}
	}

	var passed board.Bitboard
	for bb := own; bb != 0; {
		sq := bb.Pop()
		s := board.BB(sq)
		rr := sq.RelativeRank(c)
		adjacent := own & s.Neighbors()

		stop := sq + board.Square(forwardDelta(c))
		switch {
		case adjacent == 0:
			t.add(c, isolatedMG, isolatedEG)
		case adjacent&^frontRanks(sq, c) == 0 && enemyAttacks.Has(stop):
			// Every neighbor has advanced past it and the stop square is
			// guarded by an enemy pawn.
			t.add(c, backwardMG, backwardEG)
		}

		if ownAttacks.Has(sq) || adjacent&board.Ranks[sq.Rank()] != 0 {
			t.add(c, connectedMG*rr, connectedEG*rr)
		}

		front := s.FrontSpan(c)
		if enemy&(front|front.Neighbors()&frontRanks(sq, c)) == 0 && own&front == 0 {
			passed |= s
			t.add(c, passedMG[rr], passedEG[rr])
		}
	}
	return passed
}

// forwardDelta is the square offset of one step toward the opponent.
func forwardDelta(c board.Color) int {
	if c == board.White {
		return 8
	}
	return -8
}

// frontRanks returns all ranks strictly ahead of sq from c's side.
func frontRanks(sq board.Square, c board.Color) board.Bitboard {
	return board.Ranks[sq.Rank()].FrontSpan(c)
}

func kingShelter(b *board.Board, c board.Color, t *taper) {
	ksq := b.King(c)
	own := b.Pieces[c][board.Pawn]
	enemy := b.Pieces[c.Other()][board.Pawn]

	center := min(max(ksq.File(), 1), 6)
	for f := center - 1; f <= center+1; f++ {
		file := board.Files[f]
		ahead := file & (frontRanks(ksq, c) | board.Ranks[ksq.Rank()])
		shield := own & ahead
		switch {
		case own&file == 0 && enemy&file == 0:
			t.add(c, kingOpenFile, 0)
		case own&file == 0:
			t.add(c, kingSemiOpenFile, 0)
		case shield != 0:
			nearest := shield.First()
			if c == board.Black {
				nearest = shield.Last()
			}
			if board.Distance(nearest, ksq) <= 1 {
				t.add(c, shieldPawn, 0)
			} else if board.Distance(nearest, ksq) == 2 {
				t.add(c, shieldPawnAdvanced, 0)
			}
		}
		// Enemy pawns within three ranks of the king.
		for storm := enemy & ahead; storm != 0; {
			if board.Distance(storm.Pop(), ksq) <= 3 {
				t.add(c, kingStormPawn, 0)
			}
		}
	}
}

// passerTerms scores passed pawns against the current piece placement.
func passerTerms(b *board.Board, at *attackMaps, passed board.Bitboard, c board.Color, t *taper) {
	them := c.Other()
	for bb := passed; bb != 0; {
		sq := bb.Pop()
		rr := sq.RelativeRank(c)
		if rr < 3 {
			continue
		}
		stop := sq + board.Square(forwardDelta(c))
		path := board.BB(sq).FrontSpan(c)
		if path&b.All == 0 && path&at.all[them] == 0 {
			t.add(c, 0, passedFreePathEG*rr/4)
		}
		if at.all[c].Has(stop) {
			t.add(c, 0, passedSupportedEG)
		}
		d := board.Distance(b.King(them), stop) - board.Distance(b.King(c), stop)
		t.add(c, 0, kingProximityEG*d*(rr-2)/2)
	}
}

// mobility counts squares each piece reaches that are neither occupied by
// its own side nor attacked by enemy pawns.
func mobility(b *board.Board, at *attackMaps, c board.Color, t *taper) {
	safe := ^b.Occupied[c] &^ at.by[c.Other()][board.Pawn]
	for pt := board.Knight; pt <= board.Queen; pt++ {
		for bb := b.Pieces[c][pt]; bb != 0; {
			n := (board.AttacksFrom(pt, c, bb.Pop(), b.All) & safe).Count()
			t.add(c, mobilityMG[pt]*n, mobilityEG[pt]*n)
		}
	}
}

// kingSafety scores enemy pressure on the zone around c's king. The
// shelter half lives in the pawn cache.
func kingSafety(b *board.Board, at *attackMaps, c board.Color, t *taper) {
	them := c.Other()
	if b.Pieces[them][board.Queen] == 0 && Phase(b) < 8 {
		return
	}
	ksq := b.King(c)
	zone := board.KingAttacks(ksq) | board.BB(ksq)
	zone |= zone.Forward(c)

	attackers, units := 0, 0
	for pt := board.Knight; pt <= board.Queen; pt++ {
		for bb := b.Pieces[them][pt]; bb != 0; {
			hits := board.AttacksFrom(pt, them, bb.Pop(), b.All) & zone
			if hits != 0 {
				attackers++
				units += attackWeight[pt] * hits.Count()
			}
		}
	}
	undefended := zone & at.all[them] &^ at.twice[c]
	units += 8 * undefended.Count()

	penalty := units * attackScale[min(attackers, 7)] / 100
	t.add(c, -penalty, -penalty/4)
}

func pieceTerms(b *board.Board, at *attackMaps, c board.Color, t *taper) {
	them := c.Other()
	own := b.Pieces[c][board.Pawn]
	enemy := b.Pieces[them][board.Pawn]

	if b.Pieces[c][board.Bishop].Several() {
		t.add(c, bishopPairMG, bishopPairEG)
	}

	seventh, eighth := board.Rank7, board.Rank8
	if c == board.Black {
		seventh, eighth = board.Rank2, board.Rank1
	}
	for bb := b.Pieces[c][board.Rook]; bb != 0; {
		sq := bb.Pop()
		file := board.Files[sq.File()]
		switch {
		case file&(own|enemy) == 0:
			t.add(c, rookOpenMG, rookOpenEG)
		case file&own == 0:
			t.add(c, rookSemiOpenMG, rookSemiEG)
		}
		if seventh.Has(sq) && (enemy&seventh != 0 || b.Pieces[them][board.King]&eighth != 0) {
			t.add(c, rookSeventhMG, rookSeventhEG)
		}
	}

	// Outposts: squares in the enemy half no enemy pawn can ever attack.
	var enemyHalf board.Bitboard
	if c == board.White {
		enemyHalf = board.Rank4 | board.Rank5 | board.Rank6
	} else {
		enemyHalf = board.Rank3 | board.Rank4 | board.Rank5
	}
	for pt := board.Knight; pt <= board.Bishop; pt++ {
		for bb := b.Pieces[c][pt] & enemyHalf; bb != 0; {
			sq := bb.Pop()
			s := board.BB(sq)
			if enemy&s.FrontSpan(c).Neighbors()&frontRanks(sq, c) != 0 {
				continue
			}
			if pt == board.Knight {
				t.add(c, outpostKnightMG, outpostKnEG)
			} else {
				t.add(c, outpostBishopMG, outpostBiEG)
			}
			if at.by[c][board.Pawn].Has(sq) {
				t.add(c, outpostSupportedMG, 0)
			}
		}
	}

	t.add(c, centerControlMG*(at.all[c]&board.Center).Count()+
		extendedCenterMG*(at.all[c]&board.ExtendedCenter).Count(), 0)
}
