// Package book is an in-memory opening book keyed by Zobrist hash. It turns
// the current position into an ordered list of candidate moves for the
// engine.
package book

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// Entry is one book move for a position. Count is how many book lines play
// it.
type Entry struct {
	Move  string `json:"move"`
	Count uint32 `json:"count"`
}

// Book maps position hashes to their book moves.
type Book struct {
	entries map[uint64][]Entry
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]Entry),
	}
}

// Add records count more plays of uci in the position with the given hash.
func (bk *Book) Add(hash uint64, uci string, count uint32) {
	list := bk.entries[hash]
	for i := range list {
		if list[i].Move == uci {
			list[i].Count += count
			return
		}
	}
	bk.entries[hash] = append(list, Entry{Move: uci, Count: count})
}

// AddLine plays moves from fen, or from the start position when fen is
// empty, and counts each one in the position it was played from. Nothing is
// added unless the whole line is legal.
func (bk *Book) AddLine(fen string, moves ...string) error {
	if fen == "" {
		fen = board.StartFEN
	}
	b, err := board.ParseFEN(fen)
	if err != nil {
		return fmt.Errorf("book line: %w", err)
	}

	type step struct {
		hash uint64
		move string
	}
	steps := make([]step, 0, len(moves))
	for _, s := range moves {
		hash := b.Hash
		m, err := b.ApplyUCI(s)
		if err != nil {
			return fmt.Errorf("book line %q: %w", strings.Join(moves, " "), err)
		}
		steps = append(steps, step{hash, m.String()})
	}
	for _, st := range steps {
		bk.Add(st.hash, st.move, 1)
	}
	return nil
}

// Entries returns the moves stored for hash, most played first and ties by
// move text.
func (bk *Book) Entries(hash uint64) []Entry {
	list := slices.Clone(bk.entries[hash])
	slices.SortFunc(list, func(a, b Entry) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Move, b.Move)
	})
	return list
}

// Set replaces the moves stored for hash.
func (bk *Book) Set(hash uint64, entries []Entry) {
	if len(entries) == 0 {
		delete(bk.entries, hash)
		return
	}
	bk.entries[hash] = slices.Clone(entries)
}

// Candidates returns the book moves that are legal in b, in book order.
// Entries that do not parse in b (a hash collision) are skipped.
func (bk *Book) Candidates(b *board.Board) []board.Move {
	if bk == nil {
		return nil
	}
	var moves []board.Move
	for _, e := range bk.Entries(b.Hash) {
		if m, err := board.ParseUCI(b, e.Move); err == nil {
			moves = append(moves, m)
		}
	}
	return moves
}

// Pick chooses a book move for b with probability proportional to its
// count. A nil rng always picks the most played move.
func (bk *Book) Pick(b *board.Board, rng *rand.Rand) (board.Move, bool) {
	if bk == nil {
		return board.NoMove, false
	}
	var (
		moves  []board.Move
		counts []uint32
		total  uint32
	)
	for _, e := range bk.Entries(b.Hash) {
		if m, err := board.ParseUCI(b, e.Move); err == nil {
			moves = append(moves, m)
			counts = append(counts, e.Count)
			total += e.Count
		}
	}
	if len(moves) == 0 {
		return board.NoMove, false
	}
	if rng == nil || total == 0 {
		return moves[0], true
	}

	r := rng.Uint32N(total)
	for i, c := range counts {
		if r < c {
			return moves[i], true
		}
		r -= c
	}
	return moves[0], true
}

// Each calls fn for every position in the book, in ascending hash order.
func (bk *Book) Each(fn func(hash uint64, entries []Entry)) {
	hashes := make([]uint64, 0, len(bk.entries))
	for h := range bk.entries {
		hashes = append(hashes, h)
	}
	slices.Sort(hashes)
	for _, h := range hashes {
		fn(h, bk.Entries(h))
	}
}

// Merge adds every count of other into bk.
func (bk *Book) Merge(other *Book) {
	for h, list := range other.entries {
		for _, e := range list {
			bk.Add(h, e.Move, e.Count)
		}
	}
}

// Size returns the number of unique positions in the book.
func (bk *Book) Size() int {
	if bk == nil {
		return 0
	}
	return len(bk.entries)
}
