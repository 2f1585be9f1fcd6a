package board

// Zobrist keys. They come from a fixed-seed generator so hashes are stable
// across runs and can be persisted.
var (
	pieceKeys     [12][64]uint64
	enPassantKeys [8]uint64
	castlingKeys  [16]uint64
	sideKey       uint64
)

const (
	zobristSeed = 0x3C6EF372FE94F82B
	magicSeed   = 0x9E3779B97F4A7C15
)

// xorshift64* generator.
type prng struct {
	s uint64
}

func (p *prng) next() uint64 {
	p.s ^= p.s >> 12
	p.s ^= p.s << 25
	p.s ^= p.s >> 27
	return p.s * 2685821657736338717
}

// sparse returns a value with roughly an eighth of its bits set, which makes
// a good magic multiplier candidate.
func (p *prng) sparse() uint64 {
	return p.next() & p.next() & p.next()
}

func initZobrist() {
	rng := prng{s: zobristSeed}
	for p := range pieceKeys {
		for sq := range pieceKeys[p] {
			pieceKeys[p][sq] = rng.next()
		}
	}
	for f := range enPassantKeys {
		enPassantKeys[f] = rng.next()
	}
	for cr := range castlingKeys {
		castlingKeys[cr] = rng.next()
	}
	sideKey = rng.next()
}

// PieceKey returns the Zobrist key of piece p standing on sq.
func PieceKey(p Piece, sq Square) uint64 {
	return pieceKeys[p][sq]
}

// computeHash derives the full Zobrist hash from scratch. Make and unmake
// maintain it incrementally; this is the reference used by Validate.
func (b *Board) computeHash() uint64 {
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		if p := b.squares[sq]; p != NoPiece {
			h ^= pieceKeys[p][sq]
		}
	}
	h ^= castlingKeys[b.Castling]
	if b.EnPassant != NoSquare {
		h ^= enPassantKeys[b.EnPassant.File()]
	}
	if b.SideToMove == Black {
		h ^= sideKey
	}
	return h
}

// computePawnKey hashes pawns and kings only; it keys the pawn structure cache.
func (b *Board) computePawnKey() uint64 {
	var h uint64
	for _, p := range [...]Piece{WhitePawn, BlackPawn, WhiteKing, BlackKing} {
		for bb := b.pieceBB(p); bb != 0; {
			h ^= pieceKeys[p][bb.Pop()]
		}
	}
	return h
}
