package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
)

func TestTTRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	b := board.NewBoard()
	m := mustMove(t, b, "e2e4")

	tt.Store(b.Hash, 5, 123, BoundExact, m)
	got, ok := tt.Probe(b.Hash)
	if !ok {
		t.Fatal("stored entry not found")
	}
	want := TTEntry{Key: b.Hash, Move: m, Score: 123, Depth: 5, Bound: BoundExact, Age: got.Age}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
	if tt.Probes() != 1 || tt.Hits() != 1 || tt.Stores() != 1 {
		t.Errorf("counters probes=%d hits=%d stores=%d", tt.Probes(), tt.Hits(), tt.Stores())
	}
}

func TestTTKeyCollisionIsMiss(t *testing.T) {
	tt := NewTranspositionTable(1)
	const key = 0x1234_5678_9abc_def1
	// Same slot, different key.
	other := uint64(key) ^ 1<<60

	tt.Store(key, 3, 10, BoundLower, board.NoMove)
	if _, ok := tt.Probe(other); ok {
		t.Error("probe with a different key in the same slot reported a hit")
	}
	if _, ok := tt.Probe(0xdead); ok {
		t.Error("probe of an empty slot reported a hit")
	}
	if got := tt.HitRate(); got != 0 {
		t.Errorf("HitRate = %f after two misses", got)
	}
}

func TestTTReplacement(t *testing.T) {
	tt := NewTranspositionTable(1)
	const deep = 0x0abc_0000_0000_0042
	shallow := uint64(deep) ^ 1<<50

	tt.NewSearch()
	tt.Store(deep, 8, 50, BoundExact, board.NoMove)

	// A shallower result for another key does not evict a deeper one of the
	// same search.
	tt.Store(shallow, 3, -20, BoundUpper, board.NoMove)
	if e, ok := tt.Probe(deep); !ok || e.Depth != 8 {
		t.Fatalf("deep entry evicted: %+v ok=%v", e, ok)
	}

	// Equal depth replaces.
	tt.Store(shallow, 8, -20, BoundUpper, board.NoMove)
	if _, ok := tt.Probe(shallow); !ok {
		t.Fatal("equal-depth store was rejected")
	}

	// Entries from an earlier search are always replaceable.
	tt.NewSearch()
	tt.Store(deep, 1, 7, BoundLower, board.NoMove)
	if e, ok := tt.Probe(deep); !ok || e.Depth != 1 || e.Score != 7 {
		t.Errorf("stale entry kept: %+v ok=%v", e, ok)
	}
}

func TestTTSameKeyKeepsMove(t *testing.T) {
	tt := NewTranspositionTable(1)
	b := board.NewBoard()
	m := mustMove(t, b, "g1f3")

	tt.Store(b.Hash, 6, 30, BoundLower, m)
	tt.Store(b.Hash, 2, -5, BoundUpper, board.NoMove)

	e, ok := tt.Probe(b.Hash)
	if !ok {
		t.Fatal("entry missing")
	}
	if e.Move != m || e.Depth != 2 || e.Bound != BoundUpper {
		t.Errorf("got move=%s depth=%d bound=%s", e.Move, e.Depth, e.Bound)
	}
}

func TestTTClearAndSize(t *testing.T) {
	tt := NewTranspositionTable(2)
	if tt.SizeBytes() > 2<<20 || tt.Len()&(tt.Len()-1) != 0 {
		t.Fatalf("len=%d bytes=%d", tt.Len(), tt.SizeBytes())
	}
	for i := uint64(1); i <= 5000; i++ {
		tt.Store(i*0x9e37_79b9_7f4a_7c15, 1, 0, BoundExact, board.NoMove)
	}
	if tt.HashFull() == 0 {
		t.Error("HashFull = 0 after 5000 stores")
	}
	tt.Clear()
	if tt.HashFull() != 0 || tt.Stores() != 0 {
		t.Errorf("after Clear hashfull=%d stores=%d", tt.HashFull(), tt.Stores())
	}

	tt.Resize(1)
	if tt.SizeBytes() > 1<<20 {
		t.Errorf("Resize(1) holds %d bytes", tt.SizeBytes())
	}
}

func TestMateScoreAdjustment(t *testing.T) {
	tests := []struct{ score, ply int }{
		{MateScore - 5, 3},
		{-MateScore + 4, 4},
		{150, 7},
		{-80, 2},
	}
	for _, tc := range tests {
		stored := scoreToTT(tc.score, tc.ply)
		if got := scoreFromTT(stored, tc.ply); got != tc.score {
			t.Errorf("score %d at ply %d came back as %d", tc.score, tc.ply, got)
		}
	}
	// Mate five plies from the root, seen at ply 3, is stored as two plies
	// from the node.
	if got := scoreToTT(MateScore-5, 3); got != MateScore-2 {
		t.Errorf("scoreToTT = %d, want %d", got, MateScore-2)
	}
	// The same entry reached at ply 5 is a mate seven plies from the root.
	if got := scoreFromTT(MateScore-2, 5); got != MateScore-7 {
		t.Errorf("scoreFromTT = %d, want %d", got, MateScore-7)
	}
}

func TestTTDepthClamped(t *testing.T) {
	tt := NewTranspositionTable(1)
	const key = 0xabcdef
	tt.Store(key, 130, 7, BoundExact, board.NoMove)
	got, ok := tt.Probe(key)
	if !ok {
		t.Fatal("stored entry not found")
	}
	if got.Depth != 127 {
		t.Errorf("Depth = %d, want 127", got.Depth)
	}
}

func TestTTResizeWhileReading(t *testing.T) {
	tt := NewTranspositionTable(1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = tt.HashFull()
			_ = tt.SizeBytes()
			tt.Probe(uint64(i))
		}
	}()
	for i := 0; i < 20; i++ {
		tt.Resize(1 + i%2)
		tt.Store(uint64(i), 1, 0, BoundExact, board.NoMove)
	}
	<-done
	if tt.Len() == 0 {
		t.Error("empty table after resize")
	}
}
