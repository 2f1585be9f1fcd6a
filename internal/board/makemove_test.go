package board

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// boardState exposes the unexported fields so cmp can diff whole boards.
type boardState struct {
	Board    Board
	Squares  [64]Piece
	Checkers Bitboard
}

func snapshot(b *Board) boardState {
	return boardState{Board: *b, Squares: b.squares, Checkers: b.checkers}
}

func TestMakeUnmakeRestoresBoard(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	opt := cmp.AllowUnexported(Board{})
	for _, fen := range referenceFENs {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN: %v", err)
		}
		for ply := 0; ply < 80; ply++ {
			moves := b.LegalMoves()
			if len(moves) == 0 {
				break
			}
			before := snapshot(b)
			for _, m := range moves {
				u := b.MakeMove(m)
				if err := b.Validate(); err != nil {
					t.Fatalf("after %s from %q: %v", m, before.Board.FEN(), err)
				}
				b.UnmakeMove(u)
				if diff := cmp.Diff(before, snapshot(b), opt); diff != "" {
					t.Fatalf("unmake %s from %q did not restore (-want +got):\n%s", m, before.Board.FEN(), diff)
				}
			}
			b.MakeMove(moves[rng.Intn(len(moves))])
		}
	}
}

func TestMakeMoveUpdatesState(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
		want  string
	}{
		{
			name:  "double push sets capturable en passant",
			fen:   "4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1",
			moves: []string{"e2e4"},
			want:  "4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1",
		},
		{
			name:  "double push without a capturer leaves no target",
			fen:   StartFEN,
			moves: []string{"e2e4"},
			want:  "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1",
		},
		{
			name:  "en passant removes the passed pawn",
			fen:   "4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1",
			moves: []string{"d4e3"},
			want:  "4k3/8/8/8/8/4p3/8/4K3 w - - 0 2",
		},
		{
			name:  "king move drops both rights",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 3 10",
			moves: []string{"e1f1"},
			want:  "r3k2r/8/8/8/8/8/8/R4K1R b kq - 4 10",
		},
		{
			name:  "castle moves the rook",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
			moves: []string{"e8c8"},
			want:  "2kr3r/8/8/8/8/8/8/R3K2R w KQ - 1 2",
		},
		{
			name:  "capturing a home rook drops its right",
			fen:   "r3k2r/8/8/8/8/8/6b1/R3K2R b KQkq - 0 1",
			moves: []string{"g2h1"},
			want:  "r3k2r/8/8/8/8/8/8/R3K2b w Qkq - 0 2",
		},
		{
			name:  "capture promotion",
			fen:   "1r2k3/P7/8/8/8/8/8/4K3 w - - 5 40",
			moves: []string{"a7b8n"},
			want:  "1N2k3/8/8/8/8/8/8/4K3 b - - 0 40",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			for _, s := range tc.moves {
				if _, err := b.ApplyUCI(s); err != nil {
					t.Fatalf("ApplyUCI(%s): %v", s, err)
				}
			}
			if got := b.FEN(); got != tc.want {
				t.Errorf("FEN = %q, want %q", got, tc.want)
			}
			if err := b.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
			fresh, err := ParseFEN(tc.want)
			if err != nil {
				t.Fatalf("ParseFEN(want): %v", err)
			}
			if fresh.Hash != b.Hash {
				t.Errorf("incremental hash %016x, fresh %016x", b.Hash, fresh.Hash)
			}
		})
	}
}

func TestTranspositionsHashEqual(t *testing.T) {
	a, c := NewBoard(), NewBoard()
	for _, s := range []string{"g1f3", "g8f6", "b1c3", "b8c6"} {
		if _, err := a.ApplyUCI(s); err != nil {
			t.Fatal(err)
		}
	}
	for _, s := range []string{"b1c3", "b8c6", "g1f3", "g8f6"} {
		if _, err := c.ApplyUCI(s); err != nil {
			t.Fatal(err)
		}
	}
	if a.Hash != c.Hash {
		t.Errorf("transposed move orders hash %016x and %016x", a.Hash, c.Hash)
	}
	if a.Hash == NewBoard().Hash {
		t.Error("different positions share a hash")
	}
}

func TestNullMove(t *testing.T) {
	b, err := ParseFEN("4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	if err != nil {
		t.Fatal(err)
	}
	before := snapshot(b)
	u := b.MakeNullMove()
	if b.SideToMove != White || b.EnPassant != NoSquare {
		t.Errorf("null move: side %s ep %s", b.SideToMove, b.EnPassant)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate after null move: %v", err)
	}
	b.UnmakeNullMove(u)
	if diff := cmp.Diff(before, snapshot(b), cmp.AllowUnexported(Board{})); diff != "" {
		t.Errorf("null move not restored:\n%s", diff)
	}
}
