package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/book"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestBookEntries(t *testing.T) {
	s := openTemp(t)
	hash := board.NewBoard().Hash

	if _, err := s.LoadBookEntries(hash); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	want := []book.Entry{{Move: "e2e4", Count: 4}, {Move: "d2d4", Count: 2}}
	if err := s.SaveBookEntries(hash, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadBookEntries(hash)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
}

func TestBookRoundTrip(t *testing.T) {
	s := openTemp(t)

	empty, err := s.LoadBook()
	if err != nil {
		t.Fatal(err)
	}
	if empty.Size() != 0 {
		t.Errorf("fresh store holds %d positions", empty.Size())
	}

	bk := book.Default()
	if err := s.SaveBook(bk); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadBook()
	if err != nil {
		t.Fatal(err)
	}
	if got.Size() != bk.Size() {
		t.Fatalf("loaded %d positions, want %d", got.Size(), bk.Size())
	}
	bk.Each(func(hash uint64, want []book.Entry) {
		if diff := cmp.Diff(want, got.Entries(hash)); diff != "" {
			t.Errorf("hash %016x (-want +got):\n%s", hash, diff)
		}
	})

	b := board.NewBoard()
	if diff := cmp.Diff(bk.Candidates(b), got.Candidates(b)); diff != "" {
		t.Errorf("candidates differ (-saved +loaded):\n%s", diff)
	}
}

func TestAnalysis(t *testing.T) {
	s := openTemp(t)
	b := board.NewBoard()

	if _, err := s.LoadAnalysis(b.Hash); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	want := Analysis{
		FEN:   b.FEN(),
		Move:  "e2e4",
		Score: 25,
		Depth: 9,
		Nodes: 123456,
		PV:    []string{"e2e4", "e7e5", "g1f3"},
	}
	if err := s.SaveAnalysis(b.Hash, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadAnalysis(b.Hash)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stored.IsZero() {
		t.Error("Stored not set")
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Analysis{}, "Stored")); diff != "" {
		t.Errorf("analysis (-want +got):\n%s", diff)
	}

	if err := s.DeleteAnalysis(b.Hash); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadAnalysis(b.Hash); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete err = %v", err)
	}
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAnalysis(42, Analysis{Move: "g1f3", Depth: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	a, err := s.LoadAnalysis(42)
	if err != nil {
		t.Fatal(err)
	}
	if a.Move != "g1f3" || a.Depth != 3 {
		t.Errorf("reopened analysis = %+v", a)
	}
}

func TestDataDir(t *testing.T) {
	if testing.Short() {
		t.Skip("touches the home directory layout")
	}
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)
	t.Setenv("APPDATA", base)
	t.Setenv("HOME", base)

	dir, err := DatabaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(dir) != "db" || filepath.Base(filepath.Dir(dir)) != appName {
		t.Errorf("DatabaseDir = %s", dir)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}
