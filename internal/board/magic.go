package board

// Sliding-piece attacks use fancy magic bitboards. The multipliers are found
// at start-up by trial from a fixed seed, so every run builds the same tables.

type magicEntry struct {
	mask  Bitboard   // relevant occupancy, board edges off the piece's line removed
	magic uint64     // multiplier
	shift uint8      // 64 - popcount(mask)
	table []Bitboard // window into rookTable or bishopTable
}

func (m *magicEntry) index(occ Bitboard) uint64 {
	return (uint64(occ&m.mask) * m.magic) >> m.shift
}

var (
	rookMagics   [64]magicEntry
	bishopMagics [64]magicEntry

	rookTable   [102400]Bitboard
	bishopTable [5248]Bitboard
)

type direction struct{ df, dr int }

var (
	rookDirections   = [4]direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirections = [4]direction{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
)

// slidingAttacks casts rays from sq until they leave the board or stop on a
// blocker. Blocker squares are included in the result.
func slidingAttacks(sq Square, occ Bitboard, dirs *[4]direction) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d.df, sq.Rank()+d.dr
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			s := NewSquare(f, r)
			attacks |= BB(s)
			if occ.Has(s) {
				break
			}
			f += d.df
			r += d.dr
		}
	}
	return attacks
}

// relevantMask keeps the ray squares whose occupancy can change the result.
// A ray's final square never matters, so edges are dropped unless the piece
// itself stands on that edge line.
func relevantMask(sq Square, dirs *[4]direction) Bitboard {
	edge := ((Rank1 | Rank8) &^ Ranks[sq.Rank()]) | ((FileA | FileH) &^ Files[sq.File()])
	return slidingAttacks(sq, 0, dirs) &^ edge
}

func initMagics() {
	rng := prng{s: magicSeed}
	rookOffset, bishopOffset := 0, 0
	for sq := A1; sq <= H8; sq++ {
		rookOffset += findMagic(&rookMagics[sq], sq, &rookDirections, rookTable[rookOffset:], &rng)
		bishopOffset += findMagic(&bishopMagics[sq], sq, &bishopDirections, bishopTable[bishopOffset:], &rng)
	}
}

// findMagic searches a multiplier that maps every occupancy subset of the
// square's mask to a slot holding the right attack set. Two subsets may share
// a slot only when their attack sets are equal. It returns the slot count.
func findMagic(m *magicEntry, sq Square, dirs *[4]direction, table []Bitboard, rng *prng) int {
	mask := relevantMask(sq, dirs)
	n := mask.Count()
	size := 1 << n

	occupancies := make([]Bitboard, size)
	attacks := make([]Bitboard, size)
	var subset Bitboard
	for i := 0; i < size; i++ {
		occupancies[i] = subset
		attacks[i] = slidingAttacks(sq, subset, dirs)
		subset = (subset - mask) & mask // carry-rippler: next subset of mask
	}

	m.mask = mask
	m.shift = uint8(64 - n)
	m.table = table[:size:size]

	used := make([]int, size)
	for try := 1; ; try++ {
		m.magic = rng.sparse()
		if Bitboard((uint64(mask)*m.magic)>>56).Count() < 6 {
			continue
		}
		ok := true
		for i := 0; i < size; i++ {
			idx := m.index(occupancies[i])
			if used[idx] != try {
				used[idx] = try
				m.table[idx] = attacks[i]
			} else if m.table[idx] != attacks[i] {
				ok = false
				break
			}
		}
		if ok {
			return size
		}
	}
}

// RookAttacks returns the squares a rook on sq attacks given occupancy occ.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	m := &rookMagics[sq]
	return m.table[m.index(occ)]
}

// BishopAttacks returns the squares a bishop on sq attacks given occupancy occ.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	m := &bishopMagics[sq]
	return m.table[m.index(occ)]
}

// QueenAttacks is the union of rook and bishop attacks.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}
