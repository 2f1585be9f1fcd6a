package board

import "testing"

type perftCase struct {
	depth int
	nodes uint64
}

func runPerft(t *testing.T, fen string, cases []perftCase) {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	for _, tc := range cases {
		if tc.nodes > 1_000_000 && testing.Short() {
			continue
		}
		before := *b
		if got := b.Perft(tc.depth); got != tc.nodes {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.nodes)
		}
		if *b != before {
			t.Errorf("perft(%d) left the board modified", tc.depth)
		}
	}
}

func TestPerftStartPosition(t *testing.T) {
	runPerft(t, StartFEN, []perftCase{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
	})
}

// Kiwipete exercises castling through attacked squares, promotions and pins.
func TestPerftKiwipete(t *testing.T) {
	runPerft(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", []perftCase{
		{1, 48},
		{2, 2039},
		{3, 97862},
	})
}

func TestPerftRookEndgame(t *testing.T) {
	runPerft(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", []perftCase{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	})
}

func TestPerftPromotions(t *testing.T) {
	runPerft(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []perftCase{
		{1, 6},
		{2, 264},
		{3, 9467},
	})
}

func TestPerftTalkchess(t *testing.T) {
	runPerft(t, "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []perftCase{
		{1, 44},
		{2, 1486},
		{3, 62379},
	})
}

// The e4 pawn may not take en passant: removing both pawns from the fourth
// rank would expose the a4 king to the h4 rook.
func TestPerftEnPassantPin(t *testing.T) {
	b, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if b.EnPassant != D3 {
		t.Fatalf("en passant square = %s, want d3", b.EnPassant)
	}
	for _, m := range b.LegalMoves() {
		if m.IsEnPassant() {
			t.Errorf("%s exposes the king and must not be generated", m)
		}
	}
	runPerft(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []perftCase{{1, 6}, {2, 94}})
}

func TestDivideSumsToPerft(t *testing.T) {
	b := NewBoard()
	var total uint64
	for _, n := range b.Divide(3) {
		total += n
	}
	if total != 8902 {
		t.Errorf("divide(3) sums to %d, want 8902", total)
	}
}
