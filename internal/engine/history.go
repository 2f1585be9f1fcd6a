package engine

// nullHash marks a null move in the history. Repetition scans stop there
// because a passed turn cannot recreate an earlier game position.
const nullHash = 0

// SearchHistory is the stack of Zobrist hashes leading to the current node:
// first the real game, then the positions on the search path.
type SearchHistory struct {
	hashes []uint64
}

// NewSearchHistory returns a history seeded with the game's earlier
// positions, oldest first.
func NewSearchHistory(game []uint64) *SearchHistory {
	h := &SearchHistory{hashes: make([]uint64, 0, len(game)+MaxPly)}
	h.hashes = append(h.hashes, game...)
	return h
}

// Push appends the hash of a position being left.
func (h *SearchHistory) Push(hash uint64) {
	h.hashes = append(h.hashes, hash)
}

// Pop removes the most recent hash.
func (h *SearchHistory) Pop() {
	h.hashes = h.hashes[:len(h.hashes)-1]
}

// Len returns the number of stored hashes.
func (h *SearchHistory) Len() int { return len(h.hashes) }

// Count returns how many times hash occurs.
func (h *SearchHistory) Count(hash uint64) int {
	n := 0
	for _, x := range h.hashes {
		if x == hash {
			n++
		}
	}
	return n
}

// Contains reports whether hash occurs at all.
func (h *SearchHistory) Contains(hash uint64) bool {
	for _, x := range h.hashes {
		if x == hash {
			return true
		}
	}
	return false
}

// IsRepetition reports whether the position hash, reached after halfmove
// reversible plies, is a draw by repetition. Entries at index pathStart and
// later belong to the search path, where one earlier occurrence is enough;
// occurrences in the game part count toward threshold, which includes the
// current position.
func (h *SearchHistory) IsRepetition(hash uint64, halfmove, pathStart, threshold int) bool {
	n := len(h.hashes)
	stop := max(n-halfmove, 0)
	seen := 1
	for i := n - 1; i >= stop; i-- {
		if h.hashes[i] == nullHash {
			break
		}
		// Only positions with the same side to move can match.
		if (n-i)%2 != 0 || h.hashes[i] != hash {
			continue
		}
		if i >= pathStart {
			return true
		}
		seen++
		if seen >= threshold {
			return true
		}
	}
	return false
}
