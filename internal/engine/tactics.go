package engine

import "github.com/hailam/chesscore/internal/board"

// Threatened pieces lose a percentage of their value depending on how the
// attack count compares with the defence count.
const (
	threatHanging     = 20
	threatOutnumbered = 10
	threatEven        = 4
	threatDefended    = 1

	threatByPawnMG, threatByPawnEG = 30, 20
)

const (
	forkBase          = 15
	forkValueScale    = 30 // share of the second-best target, per queen
	forkCheapAttacker = 10
	forkExtraTarget   = 5
	forkKnight        = 5
	forkUndefended    = 10
)

const (
	relativePinBase = 20
	relativePinMax  = 40
	discoveredBase  = 20
	discoveredMax   = 50
	xrayBonus       = 15
	skewerBonus     = 15
)

// Bonus for pinning a piece of each type against its king.
var absolutePin = [6]int{40, 60, 60, 70, 100, 40}

// threats penalizes c's pieces that are under attack.
func threats(b *board.Board, at *attackMaps, c board.Color, t *taper) {
	them := c.Other()
	for bb := b.Occupied[c] &^ b.Pieces[c][board.King] & at.all[them]; bb != 0; {
		sq := bb.Pop()
		pt := b.PieceAt(sq).Type()
		attackers := b.AttackersOf(sq, them).Count()
		defenders := b.AttackersOf(sq, c).Count()

		var pct int
		switch {
		case defenders == 0:
			pct = threatHanging
		case attackers > defenders:
			pct = threatOutnumbered
		case attackers == defenders:
			pct = threatEven
		default:
			pct = threatDefended
		}
		p := pieceValue[pt] * pct / 100
		t.add(c, -p, -p)

		if pt != board.Pawn && at.by[them][board.Pawn].Has(sq) {
			t.add(them, threatByPawnMG, threatByPawnEG)
		}
	}
}

// forks rewards c's pieces that attack two or more enemy pieces at once.
func forks(b *board.Board, at *attackMaps, c board.Color, t *taper) {
	them := c.Other()
	for pt := board.Pawn; pt <= board.King; pt++ {
		for bb := b.Pieces[c][pt]; bb != 0; {
			targets := board.AttacksFrom(pt, c, bb.Pop(), b.All) & b.Occupied[them]
			if !targets.Several() {
				continue
			}
			s := forkScore(b, pt, targets, at.all[them])
			t.add(c, s, s)
		}
	}
}

func forkScore(b *board.Board, attacker board.PieceType, targets, defended board.Bitboard) int {
	best, second := 0, 0
	for bb := targets; bb != 0; {
		pt := b.PieceAt(bb.Pop()).Type()
		if pt == board.King {
			continue
		}
		v := pieceValue[pt]
		if v > best {
			best, second = v, best
		} else if v > second {
			second = v
		}
	}

	score := forkBase + second*forkValueScale/QueenValue
	av := pieceValue[attacker]
	if av < best && av < second {
		score += forkCheapAttacker
	}
	if n := targets.Count(); n > 2 {
		score += (n - 2) * forkExtraTarget
	}
	if attacker == board.Knight {
		score += forkKnight
	}
	if targets&^defended != 0 {
		score += forkUndefended
	}
	return score
}

// linePressure scores what each of c's sliders sees through the first piece
// on every ray: pins, skewers, discovered attacks and x-rays.
func linePressure(b *board.Board, c board.Color, t *taper) {
	for pt := board.Bishop; pt <= board.Queen; pt++ {
		for bb := b.Pieces[c][pt]; bb != 0; {
			sq := bb.Pop()
			attacks := board.AttacksFrom(pt, c, sq, b.All)
			for firsts := attacks & b.All; firsts != 0; {
				first := firsts.Pop()
				beyond := board.AttacksFrom(pt, c, sq, b.All.Without(first)) &^ attacks & board.Line(sq, first)
				second := beyond & b.All
				if second == 0 {
					continue
				}
				s := rayPressure(c, b.PieceAt(first), b.PieceAt(second.First()))
				t.add(c, s, s)
			}
		}
	}
}

func rayPressure(c board.Color, first, second board.Piece) int {
	if second.Color() == c {
		return 0
	}
	ft, st := first.Type(), second.Type()
	ownFirst := first.Color() == c

	score := 0
	switch {
	case !ownFirst && st == board.King:
		score += absolutePin[ft]
	case !ownFirst && st == board.Queen:
		score += min(relativePinBase+max(QueenValue-pieceValue[ft], 0)*relativePinMax/QueenValue, relativePinMax)
	case ownFirst:
		score += min(discoveredBase+pieceValue[st]*(discoveredMax-discoveredBase)/QueenValue, discoveredMax)
	case st == board.Rook:
		score += xrayBonus
	}
	if !ownFirst && (ft == board.King || ft == board.Queen) && pieceValue[ft] > pieceValue[st] {
		score += skewerBonus
	}
	return score
}
