package board

// Leaper attacks and line geometry, computed once at package init and
// read-only afterwards.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard

	between [64][64]Bitboard // squares strictly between two aligned squares
	line    [64][64]Bitboard // the full line through two aligned squares
)

func init() {
	initZobrist()
	initLeapers()
	initMagics()
	initLines()
}

func initLeapers() {
	knightSteps := [8]direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps := [8]direction{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

	step := func(sq Square, steps []direction) Bitboard {
		var bb Bitboard
		for _, d := range steps {
			f, r := sq.File()+d.df, sq.Rank()+d.dr
			if f >= 0 && f < 8 && r >= 0 && r < 8 {
				bb |= BB(NewSquare(f, r))
			}
		}
		return bb
	}

	for sq := A1; sq <= H8; sq++ {
		knightAttacks[sq] = step(sq, knightSteps[:])
		kingAttacks[sq] = step(sq, kingSteps[:])
		bb := BB(sq)
		pawnAttacks[White][sq] = bb.northEast() | bb.northWest()
		pawnAttacks[Black][sq] = bb.southEast() | bb.southWest()
	}
}

func initLines() {
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			if a == b {
				continue
			}
			ends := BB(a) | BB(b)
			switch {
			case RookAttacks(a, 0).Has(b):
				between[a][b] = RookAttacks(a, BB(b)) & RookAttacks(b, BB(a))
				line[a][b] = RookAttacks(a, 0)&RookAttacks(b, 0) | ends
			case BishopAttacks(a, 0).Has(b):
				between[a][b] = BishopAttacks(a, BB(b)) & BishopAttacks(b, BB(a))
				line[a][b] = BishopAttacks(a, 0)&BishopAttacks(b, 0) | ends
			}
		}
	}
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the squares a pawn of color c on sq captures on.
func PawnAttacks(sq Square, c Color) Bitboard { return pawnAttacks[c][sq] }

// Between returns the squares strictly between a and b, empty when unaligned.
func Between(a, b Square) Bitboard { return between[a][b] }

// Line returns the whole rank, file or diagonal through a and b.
func Line(a, b Square) Bitboard { return line[a][b] }

// Aligned reports whether c lies on the line through a and b.
func Aligned(a, b, c Square) bool { return line[a][b].Has(c) }

// AttacksFrom returns the attack set of piece type pt of color c on sq.
func AttacksFrom(pt PieceType, c Color, sq Square, occ Bitboard) Bitboard {
	switch pt {
	case Pawn:
		return pawnAttacks[c][sq]
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	case Queen:
		return QueenAttacks(sq, occ)
	case King:
		return kingAttacks[sq]
	}
	return 0
}

// AttackersTo returns pieces of both colors attacking sq under occupancy occ.
func (b *Board) AttackersTo(sq Square, occ Bitboard) Bitboard {
	return b.attackersOf(sq, White, occ) | b.attackersOf(sq, Black, occ)
}

// AttackersOf returns the pieces of color c attacking sq.
func (b *Board) AttackersOf(sq Square, c Color) Bitboard {
	return b.attackersOf(sq, c, b.All)
}

func (b *Board) attackersOf(sq Square, c Color, occ Bitboard) Bitboard {
	p := &b.Pieces[c]
	diag := p[Bishop] | p[Queen]
	orth := p[Rook] | p[Queen]
	return pawnAttacks[c.Other()][sq]&p[Pawn] |
		knightAttacks[sq]&p[Knight] |
		kingAttacks[sq]&p[King] |
		BishopAttacks(sq, occ)&diag |
		RookAttacks(sq, occ)&orth
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	p := &b.Pieces[by]
	if pawnAttacks[by.Other()][sq]&p[Pawn] != 0 ||
		knightAttacks[sq]&p[Knight] != 0 ||
		kingAttacks[sq]&p[King] != 0 {
		return true
	}
	if BishopAttacks(sq, b.All)&(p[Bishop]|p[Queen]) != 0 {
		return true
	}
	return RookAttacks(sq, b.All)&(p[Rook]|p[Queen]) != 0
}

// IsInCheck reports whether side's king is attacked.
func (b *Board) IsInCheck(side Color) bool {
	k := b.Pieces[side][King]
	if k == 0 {
		return false
	}
	return b.IsSquareAttacked(k.First(), side.Other())
}

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool {
	return b.checkers != 0
}

// Checkers returns the pieces giving check to the side to move.
func (b *Board) Checkers() Bitboard {
	return b.checkers
}

func (b *Board) updateCheckers() {
	us := b.SideToMove
	k := b.Pieces[us][King]
	if k == 0 {
		b.checkers = 0
		return
	}
	b.checkers = b.attackersOf(k.First(), us.Other(), b.All)
}

// Pinned returns c's pieces that are absolutely pinned to c's king.
func (b *Board) Pinned(c Color) Bitboard {
	k := b.Pieces[c][King]
	if k == 0 {
		return 0
	}
	ksq := k.First()
	them := &b.Pieces[c.Other()]
	snipers := RookAttacks(ksq, 0)&(them[Rook]|them[Queen]) |
		BishopAttacks(ksq, 0)&(them[Bishop]|them[Queen])

	var pinned Bitboard
	for snipers != 0 {
		s := snipers.Pop()
		blockers := between[ksq][s] & b.All
		if blockers != 0 && !blockers.Several() {
			pinned |= blockers & b.Occupied[c]
		}
	}
	return pinned
}
