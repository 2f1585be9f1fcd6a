package board

import (
	"fmt"
	"strings"
)

// CastlingRights holds the four independent castling permissions.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AnyCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// castleMask[sq] is ANDed into the rights whenever a move leaves or lands on
// sq, so moving a king or rook, or capturing a rook at home, drops the right.
var castleMask [64]CastlingRights

func init() {
	for sq := range castleMask {
		castleMask[sq] = AnyCastling
	}
	castleMask[A1] &^= WhiteQueenSide
	castleMask[H1] &^= WhiteKingSide
	castleMask[E1] &^= WhiteKingSide | WhiteQueenSide
	castleMask[A8] &^= BlackQueenSide
	castleMask[H8] &^= BlackKingSide
	castleMask[E8] &^= BlackKingSide | BlackQueenSide
}

// Board is a chess position: one bitboard per piece, aggregate occupancy,
// a square-indexed mailbox and the state needed to continue the game.
// Hash and PawnKey are maintained incrementally by MakeMove and UnmakeMove.
type Board struct {
	Pieces   [2][6]Bitboard
	Occupied [2]Bitboard
	All      Bitboard

	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int

	Hash    uint64
	PawnKey uint64

	squares  [64]Piece
	checkers Bitboard
}

func emptyBoard() *Board {
	b := &Board{EnPassant: NoSquare, FullMoveNumber: 1}
	for i := range b.squares {
		b.squares[i] = NoPiece
	}
	return b
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// Copy returns an independent copy of the board.
func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// PieceAt returns the piece on sq, or NoPiece.
func (b *Board) PieceAt(sq Square) Piece {
	return b.squares[sq]
}

// ZobristHash returns the incrementally maintained position hash.
func (b *Board) ZobristHash() uint64 {
	return b.Hash
}

// Occupancy returns every occupied square.
func (b *Board) Occupancy() Bitboard {
	return b.All
}

// King returns the square of c's king, NoSquare if it has none.
func (b *Board) King(c Color) Square {
	return b.Pieces[c][King].First()
}

func (b *Board) pieceBB(p Piece) Bitboard {
	return b.Pieces[p.Color()][p.Type()]
}

func (b *Board) put(p Piece, sq Square) {
	bb := BB(sq)
	c := p.Color()
	b.Pieces[c][p.Type()] |= bb
	b.Occupied[c] |= bb
	b.All |= bb
	b.squares[sq] = p
}

func (b *Board) lift(sq Square) Piece {
	p := b.squares[sq]
	bb := BB(sq)
	c := p.Color()
	b.Pieces[c][p.Type()] &^= bb
	b.Occupied[c] &^= bb
	b.All &^= bb
	b.squares[sq] = NoPiece
	return p
}

func (b *Board) shift(from, to Square) {
	p := b.squares[from]
	fromTo := BB(from) | BB(to)
	c := p.Color()
	b.Pieces[c][p.Type()] ^= fromTo
	b.Occupied[c] ^= fromTo
	b.All ^= fromTo
	b.squares[from] = NoPiece
	b.squares[to] = p
}

// toggleKeys flips p on sq in both hashes.
func (b *Board) toggleKeys(p Piece, sq Square) {
	k := pieceKeys[p][sq]
	b.Hash ^= k
	if pt := p.Type(); pt == Pawn || pt == King {
		b.PawnKey ^= k
	}
}

// HasNonPawnMaterial reports whether c has any knight, bishop, rook or queen.
func (b *Board) HasNonPawnMaterial(c Color) bool {
	p := &b.Pieces[c]
	return p[Knight]|p[Bishop]|p[Rook]|p[Queen] != 0
}

// IsInsufficientMaterial reports positions where neither side can mate:
// bare kings, a single minor piece, or same-colored bishops only.
func (b *Board) IsInsufficientMaterial() bool {
	w, k := &b.Pieces[White], &b.Pieces[Black]
	if w[Pawn]|k[Pawn]|w[Rook]|k[Rook]|w[Queen]|k[Queen] != 0 {
		return false
	}
	minors := w[Knight] | k[Knight] | w[Bishop] | k[Bishop]
	if minors.Count() <= 1 {
		return true
	}
	const darkSquares Bitboard = 0xAA55AA55AA55AA55
	if w[Knight]|k[Knight] == 0 {
		bishops := w[Bishop] | k[Bishop]
		return bishops&darkSquares == 0 || bishops&^darkSquares == 0
	}
	return false
}

// IsFiftyMoveDraw reports whether the halfmove clock has reached 100 plies.
func (b *Board) IsFiftyMoveDraw() bool {
	return b.HalfMoveClock >= 100
}

// NullUndo restores the state changed by MakeNullMove.
type NullUndo struct {
	enPassant Square
	hash      uint64
	checkers  Bitboard
}

// MakeNullMove passes the turn. Only valid when not in check.
func (b *Board) MakeNullMove() NullUndo {
	u := NullUndo{enPassant: b.EnPassant, hash: b.Hash, checkers: b.checkers}
	if b.EnPassant != NoSquare {
		b.Hash ^= enPassantKeys[b.EnPassant.File()]
		b.EnPassant = NoSquare
	}
	b.SideToMove = b.SideToMove.Other()
	b.Hash ^= sideKey
	b.updateCheckers()
	return u
}

// UnmakeNullMove reverts MakeNullMove.
func (b *Board) UnmakeNullMove(u NullUndo) {
	b.SideToMove = b.SideToMove.Other()
	b.EnPassant = u.enPassant
	b.Hash = u.hash
	b.checkers = u.checkers
}

// Validate checks the internal invariants: disjoint piece sets, consistent
// aggregate occupancy and mailbox, one king per side and hashes that match a
// from-scratch recomputation.
func (b *Board) Validate() error {
	var union [2]Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := b.Pieces[c][pt]
			if union[White]&bb != 0 || union[Black]&bb != 0 {
				return fmt.Errorf("%s %s overlaps another piece set", c, pt)
			}
			union[c] |= bb
			for s := bb; s != 0; {
				sq := s.Pop()
				if b.squares[sq] != MakePiece(pt, c) {
					return fmt.Errorf("mailbox disagrees on %s", sq)
				}
			}
		}
		if union[c] != b.Occupied[c] {
			return fmt.Errorf("%s occupancy out of sync", c)
		}
		if n := b.Pieces[c][King].Count(); n != 1 {
			return fmt.Errorf("%s has %d kings", c, n)
		}
	}
	if b.All != union[White]|union[Black] {
		return fmt.Errorf("total occupancy out of sync")
	}
	if (b.All.Count()) != 64-countEmpty(b) {
		return fmt.Errorf("mailbox holds stray pieces")
	}
	if h := b.computeHash(); h != b.Hash {
		return fmt.Errorf("hash %016x, want %016x", b.Hash, h)
	}
	if k := b.computePawnKey(); k != b.PawnKey {
		return fmt.Errorf("pawn key %016x, want %016x", b.PawnKey, k)
	}
	return nil
}

func countEmpty(b *Board) int {
	n := 0
	for _, p := range b.squares {
		if p == NoPiece {
			n++
		}
	}
	return n
}

// String draws the board with rank 8 on top followed by its FEN.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			sb.WriteByte(b.squares[NewSquare(file, rank)].Char())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	sb.WriteString(b.FEN())
	return sb.String()
}
