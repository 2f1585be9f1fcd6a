package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range append(referenceFENs,
		"4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1",
		"8/8/8/8/8/8/8/K6k w - - 99 120",
	) {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := b.FEN(); got != fen {
			t.Errorf("FEN() = %q, want %q", got, fen)
		}
		if err := b.Validate(); err != nil {
			t.Errorf("Validate(%q): %v", fen, err)
		}
	}
}

func TestParseFENRejectsMalformed(t *testing.T) {
	bad := map[string]string{
		"empty":              "",
		"too few fields":     "8/8/8/8/8/8/8/K6k w",
		"seven ranks":        "8/8/8/8/8/8/K6k w - - 0 1",
		"long rank":          "9/8/8/8/8/8/8/K6k w - - 0 1",
		"short rank":         "7/8/8/8/8/8/8/K6k w - - 0 1",
		"bad letter":         "8/8/8/8/8/8/8/K5xk w - - 0 1",
		"no black king":      "8/8/8/8/8/8/8/K7 w - - 0 1",
		"two white kings":    "8/8/8/8/8/8/8/KK5k w - - 0 1",
		"pawn on rank 8":     "P7/8/8/8/8/8/8/K6k w - - 0 1",
		"side to move":       "8/8/8/8/8/8/8/K6k x - - 0 1",
		"castling letter":    "8/8/8/8/8/8/8/K6k w X - 0 1",
		"en passant rank":    "8/8/8/8/8/8/8/K6k w - e4 0 1",
		"en passant no pawn": "4k3/8/8/8/8/8/8/4K3 w - e6 0 1",
		"halfmove":           "8/8/8/8/8/8/8/K6k w - - x 1",
		"fullmove zero":      "8/8/8/8/8/8/8/K6k w - - 0 0",
		"opponent in check":  "k7/8/8/8/8/8/8/R3K3 w - - 0 1",
	}
	for name, fen := range bad {
		t.Run(name, func(t *testing.T) {
			b, err := ParseFEN(fen)
			if !errors.Is(err, ErrInvalidFEN) {
				t.Fatalf("ParseFEN(%q) error = %v, want ErrInvalidFEN", fen, err)
			}
			if b != nil {
				t.Error("rejected FEN still produced a board")
			}
		})
	}
}

func TestParseFENNormalizes(t *testing.T) {
	// Castling rights without the rook at home are dropped, as is an
	// en passant target nobody can capture on.
	b, err := ParseFEN("4k3/8/8/4pP2/8/8/8/R3K3 w KQ - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if b.Castling != WhiteQueenSide {
		t.Errorf("castling = %s, want Q", b.Castling)
	}
	b, err = ParseFEN("4k3/8/8/4p3/8/8/8/4K3 w - e6 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if b.EnPassant != NoSquare {
		t.Errorf("uncapturable en passant kept as %s", b.EnPassant)
	}
}

func TestStartPosition(t *testing.T) {
	b := NewBoard()
	if b.FEN() != StartFEN {
		t.Errorf("NewBoard().FEN() = %q", b.FEN())
	}
	if b.Occupancy() != Rank1|Rank2|Rank7|Rank8 {
		t.Errorf("occupancy:\n%s", b.Occupancy())
	}
	if b.ZobristHash() == 0 || b.PawnKey == 0 {
		t.Error("start position has a zero hash")
	}
	if b.IsInCheck(White) || b.IsInCheck(Black) {
		t.Error("start position reports check")
	}
	if !b.IsSquareAttacked(F3, White) || b.IsSquareAttacked(E4, White) {
		t.Error("attack query wrong for f3/e4")
	}
}
