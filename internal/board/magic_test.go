package board

import (
	"math/rand"
	"testing"
)

func TestMagicLookupsMatchRayCasting(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for sq := A1; sq <= H8; sq++ {
		for i := 0; i < 500; i++ {
			occ := Bitboard(rng.Uint64() & rng.Uint64())
			if got, want := RookAttacks(sq, occ), slidingAttacks(sq, occ, &rookDirections); got != want {
				t.Fatalf("rook on %s, occ %016x:\ngot\n%swant\n%s", sq, uint64(occ), got, want)
			}
			if got, want := BishopAttacks(sq, occ), slidingAttacks(sq, occ, &bishopDirections); got != want {
				t.Fatalf("bishop on %s, occ %016x:\ngot\n%swant\n%s", sq, uint64(occ), got, want)
			}
		}
	}
}

func TestRelevantMaskSizes(t *testing.T) {
	rookBits, bishopBits := 0, 0
	for sq := A1; sq <= H8; sq++ {
		rookBits += 1 << relevantMask(sq, &rookDirections).Count()
		bishopBits += 1 << relevantMask(sq, &bishopDirections).Count()
	}
	if rookBits != len(rookTable) || bishopBits != len(bishopTable) {
		t.Errorf("table sizes %d/%d, want %d/%d", rookBits, bishopBits, len(rookTable), len(bishopTable))
	}
}

func TestLeaperAndLineTables(t *testing.T) {
	if got := KnightAttacks(A1); got != BB(B3)|BB(C2) {
		t.Errorf("knight a1:\n%s", got)
	}
	if got := KingAttacks(H8).Count(); got != 3 {
		t.Errorf("king h8 attacks %d squares, want 3", got)
	}
	if got := PawnAttacks(E4, White); got != BB(D5)|BB(F5) {
		t.Errorf("white pawn e4:\n%s", got)
	}
	if got := PawnAttacks(A5, Black); got != BB(B4) {
		t.Errorf("black pawn a5:\n%s", got)
	}
	if got := Between(A1, D4); got != BB(B2)|BB(C3) {
		t.Errorf("between a1 d4:\n%s", got)
	}
	if Between(A1, B3) != 0 || Line(A1, B3) != 0 {
		t.Error("unaligned squares have a line")
	}
	if !Aligned(A1, H8, E5) || Aligned(A1, H8, E4) {
		t.Error("Aligned wrong on the long diagonal")
	}
	if Line(E1, E8) != FileE {
		t.Errorf("line e1 e8:\n%s", Line(E1, E8))
	}
}

func TestPinned(t *testing.T) {
	b, err := ParseFEN("4k3/4r3/8/8/8/8/4N3/4K1b1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Pinned(White); got != BB(E2) {
		t.Errorf("pinned:\n%s", got)
	}
	for _, m := range b.LegalMoves() {
		if m.From() == E2 {
			t.Errorf("pinned knight moved: %s", m)
		}
	}
}
