package engine

import (
	"testing"
	"time"
)

func TestIsRepetition(t *testing.T) {
	const a, b, c, d = 0xa, 0xb, 0xc, 0xd

	tests := []struct {
		name      string
		hashes    []uint64
		hash      uint64
		halfmove  int
		pathStart int
		threshold int
		want      bool
	}{
		{
			name:   "third occurrence in the game",
			hashes: []uint64{a, b, c, d, a, b, c, d}, hash: a,
			halfmove: 8, pathStart: 8, threshold: 3, want: true,
		},
		{
			name:   "second occurrence in the game",
			hashes: []uint64{a, b, c, d}, hash: a,
			halfmove: 4, pathStart: 4, threshold: 3, want: false,
		},
		{
			name:   "twofold threshold",
			hashes: []uint64{a, b, c, d}, hash: a,
			halfmove: 4, pathStart: 4, threshold: 2, want: true,
		},
		{
			name:   "one repeat on the search path",
			hashes: []uint64{a, b, c, d}, hash: a,
			halfmove: 4, pathStart: 0, threshold: 3, want: true,
		},
		{
			name:   "irreversible move in between",
			hashes: []uint64{a, b, c, d, a, b, c, d}, hash: a,
			halfmove: 3, pathStart: 8, threshold: 3, want: false,
		},
		{
			name:   "null move barrier",
			hashes: []uint64{a, b, nullHash, c}, hash: a,
			halfmove: 4, pathStart: 0, threshold: 3, want: false,
		},
		{
			name:   "other side to move",
			hashes: []uint64{b, c, a}, hash: a,
			halfmove: 3, pathStart: 0, threshold: 3, want: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewSearchHistory(tc.hashes)
			if got := h.IsRepetition(tc.hash, tc.halfmove, tc.pathStart, tc.threshold); got != tc.want {
				t.Errorf("IsRepetition = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSearchHistoryStack(t *testing.T) {
	h := NewSearchHistory([]uint64{1, 2})
	h.Push(3)
	h.Push(2)
	if h.Len() != 4 || h.Count(2) != 2 || !h.Contains(3) {
		t.Fatalf("len=%d count=%d", h.Len(), h.Count(2))
	}
	h.Pop()
	h.Pop()
	if h.Len() != 2 || h.Contains(3) {
		t.Errorf("after Pop len=%d", h.Len())
	}
}

func TestTimeManager(t *testing.T) {
	tm := NewTimeManager(0)
	if tm.Expired() || !tm.CanStartIteration() {
		t.Error("an unbounded budget expired")
	}

	tm = NewTimeManager(20 * time.Millisecond)
	if tm.Expired() || tm.Budget() != 20*time.Millisecond {
		t.Error("fresh budget already expired")
	}
	time.Sleep(30 * time.Millisecond)
	if !tm.Expired() || tm.CanStartIteration() {
		t.Error("budget did not expire")
	}
}
