package book

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
)

func uciList(moves []board.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

func TestDefaultCandidates(t *testing.T) {
	bk := Default()
	b := board.NewBoard()

	if diff := cmp.Diff([]string{"d2d4", "e2e4"}, uciList(bk.Candidates(b))); diff != "" {
		t.Errorf("start candidates (-want +got):\n%s", diff)
	}

	if _, err := b.ApplyUCI("e2e4"); err != nil {
		t.Fatal(err)
	}
	want := []string{"e7e5", "c7c5", "c7c6", "e7e6"}
	if diff := cmp.Diff(want, uciList(bk.Candidates(b))); diff != "" {
		t.Errorf("replies to e4 (-want +got):\n%s", diff)
	}

	if _, err := b.ApplyUCI("a7a6"); err != nil {
		t.Fatal(err)
	}
	if got := bk.Candidates(b); len(got) != 0 {
		t.Errorf("out of book, got %v", got)
	}
}

func TestAddLine(t *testing.T) {
	bk := New()
	if err := bk.AddLine("", "e2e4", "e7e5", "g1f3"); err != nil {
		t.Fatal(err)
	}
	if err := bk.AddLine("", "e2e4", "c7c5"); err != nil {
		t.Fatal(err)
	}
	if bk.Size() != 3 {
		t.Errorf("Size = %d, want 3", bk.Size())
	}

	start := board.NewBoard()
	if diff := cmp.Diff([]Entry{{Move: "e2e4", Count: 2}}, bk.Entries(start.Hash)); diff != "" {
		t.Errorf("start entries (-want +got):\n%s", diff)
	}

	// An illegal move anywhere rejects the whole line.
	err := bk.AddLine("", "d2d4", "d7d5", "d4d5")
	if !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("err = %v, want ErrIllegalMove", err)
	}
	if len(bk.Entries(start.Hash)) != 1 {
		t.Error("partial line was added")
	}

	if err := bk.AddLine("not a fen", "e2e4"); !errors.Is(err, board.ErrInvalidFEN) {
		t.Errorf("err = %v, want ErrInvalidFEN", err)
	}
}

func TestAddLineFromFEN(t *testing.T) {
	const fen = "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	bk := New()
	if err := bk.AddLine(fen, "f1b5"); err != nil {
		t.Fatal(err)
	}
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	if got := uciList(bk.Candidates(b)); len(got) != 1 || got[0] != "f1b5" {
		t.Errorf("candidates = %v", got)
	}
}

func TestPick(t *testing.T) {
	bk := New()
	b := board.NewBoard()
	bk.Add(b.Hash, "e2e4", 3)
	bk.Add(b.Hash, "d2d4", 1)
	// Stale or colliding entries are never returned.
	bk.Add(b.Hash, "e7e5", 100)

	if m, ok := bk.Pick(b, nil); !ok || m.String() != "e2e4" {
		t.Errorf("Pick(nil) = %s, %v", m, ok)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	seen := map[string]int{}
	for i := 0; i < 400; i++ {
		m, ok := bk.Pick(b, rng)
		if !ok {
			t.Fatal("no pick")
		}
		seen[m.String()]++
	}
	if len(seen) != 2 || seen["e2e4"] <= seen["d2d4"] {
		t.Errorf("weighted picks: %v", seen)
	}

	var empty *Book
	if _, ok := empty.Pick(b, rng); ok {
		t.Error("nil book picked a move")
	}
}

func TestFileRoundTrip(t *testing.T) {
	bk := Default()
	bk.Add(0x1234, "a7a8q", 2)

	var buf bytes.Buffer
	n, err := bk.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) || n%recordSize != 0 {
		t.Fatalf("wrote %d bytes, buffer holds %d", n, buf.Len())
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Size() != bk.Size() {
		t.Fatalf("Size = %d, want %d", got.Size(), bk.Size())
	}
	bk.Each(func(hash uint64, want []Entry) {
		if diff := cmp.Diff(want, got.Entries(hash)); diff != "" {
			t.Errorf("hash %016x (-want +got):\n%s", hash, diff)
		}
	})

	path := t.TempDir() + "/book.bin"
	if err := bk.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != bk.Size() {
		t.Errorf("loaded %d positions, want %d", loaded.Size(), bk.Size())
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Error("truncated record accepted")
	}
	// from == to
	if _, err := Read(bytes.NewReader(make([]byte, recordSize))); !errors.Is(err, ErrBadRecord) {
		t.Errorf("err = %v, want ErrBadRecord", err)
	}
	if _, err := encodeMove("e7e8k"); !errors.Is(err, ErrBadRecord) {
		t.Errorf("err = %v, want ErrBadRecord", err)
	}
}

func TestMergeAndSet(t *testing.T) {
	a, b := New(), New()
	a.Add(1, "e2e4", 1)
	b.Add(1, "e2e4", 2)
	b.Add(2, "d2d4", 1)
	a.Merge(b)
	if diff := cmp.Diff([]Entry{{"e2e4", 3}}, a.Entries(1)); diff != "" {
		t.Errorf("merged (-want +got):\n%s", diff)
	}
	a.Set(2, nil)
	if a.Size() != 1 {
		t.Errorf("Size = %d after clearing a position", a.Size())
	}
}
