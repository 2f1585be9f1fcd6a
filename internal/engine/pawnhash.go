package engine

import (
	"unsafe"

	"github.com/hailam/chesscore/internal/board"
)

// pawnEntry caches the pawn-and-king-shield terms for one PawnKey.
type pawnEntry struct {
	key    uint64
	mg, eg int16
	passed [2]board.Bitboard // reused by the piece terms
}

// PawnTable is a direct-mapped cache of pawn structure scores.
type PawnTable struct {
	entries []pawnEntry
	mask    uint64
}

// NewPawnTable sizes the table to the largest power of two that fits in
// sizeMB megabytes.
func NewPawnTable(sizeMB int) *PawnTable {
	n := max(sizeMB, 1) * 1024 * 1024 / int(unsafe.Sizeof(pawnEntry{}))
	size := 1
	for size*2 <= n {
		size *= 2
	}
	return &PawnTable{
		entries: make([]pawnEntry, size),
		mask:    uint64(size - 1),
	}
}

func (pt *PawnTable) probe(key uint64) (*pawnEntry, bool) {
	e := &pt.entries[key&pt.mask]
	return e, e.key == key && key != 0
}

// Clear empties the table.
func (pt *PawnTable) Clear() {
	clear(pt.entries)
}
