package engine

import (
	"math"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/hailam/chesscore/internal/board"
)

// Bound tells how a stored score relates to the true value of the node.
type Bound uint8

const (
	BoundNone  Bound = iota // empty slot
	BoundExact              // score is exact
	BoundLower              // failed high: true value >= score
	BoundUpper              // failed low: true value <= score
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	}
	return "none"
}

// Shards for the entry locks; a power of two.
const (
	ttShardCount = 256
	ttShardMask  = ttShardCount - 1
)

// TTEntry is one slot of the transposition table.
type TTEntry struct {
	Key   uint64     // full Zobrist key; a mismatch is a miss
	Move  board.Move // best or refutation move, NoMove if unknown
	Score int16      // mate scores are stored relative to this node
	Depth int8
	Bound Bound
	Age   uint8 // search generation that wrote the slot
}

// ttSlots is one allocation of the table. Resize swaps in a new one.
type ttSlots struct {
	entries []TTEntry
	mask    uint64
}

// TranspositionTable caches search results by Zobrist key. Probes and stores
// take a per-shard lock so Stats can be read while a search runs.
type TranspositionTable struct {
	slots  atomic.Pointer[ttSlots]
	shards [ttShardCount]sync.RWMutex
	age    atomic.Uint32

	probes atomic.Uint64
	hits   atomic.Uint64
	stores atomic.Uint64
}

// NewTranspositionTable creates a table of at most sizeMB megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(sizeMB)
	return tt
}

var entrySize = uint64(unsafe.Sizeof(TTEntry{}))

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Resize reallocates the table, dropping every entry and counter.
func (tt *TranspositionTable) Resize(sizeMB int) {
	n := roundDownToPowerOf2(uint64(max(sizeMB, 1)) * 1024 * 1024 / entrySize)
	tt.lockAll()
	tt.slots.Store(&ttSlots{entries: make([]TTEntry, n), mask: n - 1})
	tt.unlockAll()
	tt.resetCounters()
	tt.age.Store(0)
}

func (tt *TranspositionTable) shard(idx uint64) *sync.RWMutex {
	return &tt.shards[idx&ttShardMask]
}

func (tt *TranspositionTable) lockAll() {
	for i := range tt.shards {
		tt.shards[i].Lock()
	}
}

func (tt *TranspositionTable) unlockAll() {
	for i := range tt.shards {
		tt.shards[i].Unlock()
	}
}

// Probe returns the entry for hash if the slot holds that exact key.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes.Add(1)

	s := tt.slots.Load()
	idx := hash & s.mask
	mu := tt.shard(idx)
	mu.RLock()
	e := s.entries[idx]
	mu.RUnlock()

	if e.Bound == BoundNone || e.Key != hash {
		return TTEntry{}, false
	}
	tt.hits.Add(1)
	return e, true
}

// Store writes a search result. The slot is replaced when it is empty, holds
// the same key, was written by an earlier search, or is not deeper than the
// new result. A same-key store without a move keeps the old move. Depths
// outside the int8 range are clamped.
func (tt *TranspositionTable) Store(hash uint64, depth, score int, bound Bound, move board.Move) {
	depth = max(min(depth, math.MaxInt8), math.MinInt8)
	s := tt.slots.Load()
	idx := hash & s.mask
	mu := tt.shard(idx)
	age := uint8(tt.age.Load())

	mu.Lock()
	defer mu.Unlock()

	e := &s.entries[idx]
	sameKey := e.Key == hash && e.Bound != BoundNone
	if e.Bound != BoundNone && !sameKey && e.Age == age && depth < int(e.Depth) {
		return
	}
	if move == board.NoMove && sameKey {
		move = e.Move
	}
	*e = TTEntry{
		Key:   hash,
		Move:  move,
		Score: int16(score),
		Depth: int8(depth),
		Bound: bound,
		Age:   age,
	}
	tt.stores.Add(1)
}

// NewSearch starts a new generation so stale entries lose their priority.
func (tt *TranspositionTable) NewSearch() {
	tt.age.Add(1)
}

// Clear empties every slot and resets the counters.
func (tt *TranspositionTable) Clear() {
	tt.lockAll()
	clear(tt.slots.Load().entries)
	tt.unlockAll()
	tt.age.Store(0)
	tt.resetCounters()
}

func (tt *TranspositionTable) resetCounters() {
	tt.probes.Store(0)
	tt.hits.Store(0)
	tt.stores.Store(0)
}

// HashFull returns the permille of sampled slots written by the current
// search generation.
func (tt *TranspositionTable) HashFull() int {
	s := tt.slots.Load()
	n := min(len(s.entries), 1000)
	age := uint8(tt.age.Load())
	used := 0
	for i := 0; i < n; i++ {
		mu := tt.shard(uint64(i))
		mu.RLock()
		e := s.entries[i]
		mu.RUnlock()
		if e.Bound != BoundNone && e.Age == age {
			used++
		}
	}
	return used * 1000 / n
}

// HitRate returns hits per probe as a fraction in [0, 1].
func (tt *TranspositionTable) HitRate() float64 {
	probes := tt.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(tt.hits.Load()) / float64(probes)
}

// Probes returns the number of lookups since the last reset.
func (tt *TranspositionTable) Probes() uint64 { return tt.probes.Load() }

// Hits returns the number of successful lookups since the last reset.
func (tt *TranspositionTable) Hits() uint64 { return tt.hits.Load() }

// Stores returns the number of accepted writes since the last reset.
func (tt *TranspositionTable) Stores() uint64 { return tt.stores.Load() }

// Len returns the number of slots.
func (tt *TranspositionTable) Len() int { return len(tt.slots.Load().entries) }

// SizeBytes returns the memory held by the slots.
func (tt *TranspositionTable) SizeBytes() uint64 {
	return uint64(tt.Len()) * entrySize
}

// scoreToTT makes a mate score relative to the node at ply.
func scoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

// scoreFromTT converts a stored mate score back to distance from the root.
func scoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}
