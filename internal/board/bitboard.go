package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, one bit per square.
// Bit 0 is a1, bit 7 is h1, bit 56 is a8 and bit 63 is h8.
type Bitboard uint64

const (
	FileA Bitboard = 0x0101010101010101
	FileB          = FileA << 1
	FileC          = FileA << 2
	FileD          = FileA << 3
	FileE          = FileA << 4
	FileF          = FileA << 5
	FileG          = FileA << 6
	FileH          = FileA << 7
)

const (
	Rank1 Bitboard = 0xFF
	Rank2          = Rank1 << (8 * 1)
	Rank3          = Rank1 << (8 * 2)
	Rank4          = Rank1 << (8 * 3)
	Rank5          = Rank1 << (8 * 4)
	Rank6          = Rank1 << (8 * 5)
	Rank7          = Rank1 << (8 * 6)
	Rank8          = Rank1 << (8 * 7)
)

const (
	Empty Bitboard = 0
	Full  Bitboard = ^Empty

	notFileA Bitboard = ^FileA
	notFileH Bitboard = ^FileH

	// Center is d4, e4, d5, e5.
	Center Bitboard = (FileD | FileE) & (Rank4 | Rank5)
	// ExtendedCenter is the 4x4 block c3-f6.
	ExtendedCenter Bitboard = (FileC | FileD | FileE | FileF) & (Rank3 | Rank4 | Rank5 | Rank6)

	edges = FileA | FileH | Rank1 | Rank8
)

var (
	// Files indexes file masks by file number (0 = a).
	Files = [8]Bitboard{FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH}
	// Ranks indexes rank masks by rank number (0 = first rank).
	Ranks = [8]Bitboard{Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8}
)

// BB returns a bitboard holding only sq.
func BB(sq Square) Bitboard {
	return 1 << sq
}

// Has reports whether sq is in the set.
func (b Bitboard) Has(sq Square) bool {
	return b&(1<<sq) != 0
}

// With returns b with sq added.
func (b Bitboard) With(sq Square) Bitboard {
	return b | 1<<sq
}

// Without returns b with sq removed.
func (b Bitboard) Without(sq Square) Bitboard {
	return b &^ (1 << sq)
}

// Count returns the number of squares in the set.
func (b Bitboard) Count() int {
	return bits.OnesCount64(uint64(b))
}

// First returns the lowest square in the set, or NoSquare when empty.
func (b Bitboard) First() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// Last returns the highest square in the set, or NoSquare when empty.
func (b Bitboard) Last() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(63 - bits.LeadingZeros64(uint64(b)))
}

// Pop removes the lowest square from the set and returns it.
func (b *Bitboard) Pop() Square {
	sq := Square(bits.TrailingZeros64(uint64(*b)))
	*b &= *b - 1
	return sq
}

// Several reports whether more than one square is set.
func (b Bitboard) Several() bool {
	return b&(b-1) != 0
}

func (b Bitboard) north() Bitboard     { return b << 8 }
func (b Bitboard) south() Bitboard     { return b >> 8 }
func (b Bitboard) east() Bitboard      { return (b << 1) & notFileA }
func (b Bitboard) west() Bitboard      { return (b >> 1) & notFileH }
func (b Bitboard) northEast() Bitboard { return (b << 9) & notFileA }
func (b Bitboard) northWest() Bitboard { return (b << 7) & notFileH }
func (b Bitboard) southEast() Bitboard { return (b >> 7) & notFileA }
func (b Bitboard) southWest() Bitboard { return (b >> 9) & notFileH }

// Forward shifts the set one rank toward the opponent of c.
func (b Bitboard) Forward(c Color) Bitboard {
	if c == White {
		return b.north()
	}
	return b.south()
}

// FrontSpan returns every square strictly in front of the set from c's side.
func (b Bitboard) FrontSpan(c Color) Bitboard {
	if c == White {
		b = b.north()
		b |= b << 8
		b |= b << 16
		b |= b << 32
		return b
	}
	b = b.south()
	b |= b >> 8
	b |= b >> 16
	b |= b >> 32
	return b
}

// FileSpan returns the union of the whole files touched by the set.
func (b Bitboard) FileSpan() Bitboard {
	return b.FrontSpan(White) | b.FrontSpan(Black) | b
}

// Neighbors returns the files adjacent to the files of the set.
func (b Bitboard) Neighbors() Bitboard {
	f := b.FileSpan()
	return f.east() | f.west()
}

// String draws the set with rank 8 on top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		for file := 0; file < 8; file++ {
			if b.Has(NewSquare(file, rank)) {
				sb.WriteString(" x")
			} else {
				sb.WriteString(" .")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
