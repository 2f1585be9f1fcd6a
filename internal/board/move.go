package board

// Move packs everything needed to apply and order a move into 32 bits:
//
//	bits  0-5   from square
//	bits  6-11  to square
//	bits 12-15  moving piece
//	bits 16-19  captured piece, NoPiece for non-captures
//	bits 20-22  promotion piece type, NoPieceType when not promoting
//	bits 23-24  kind
//
// Moves are created by the generator for one specific position and are only
// meaningful there.
type Move uint32

// MoveKind distinguishes moves with side effects beyond from/to.
type MoveKind uint8

const (
	KindNormal MoveKind = iota
	KindPromotion
	KindEnPassant
	KindCastle
)

// NoMove is the zero move. It never matches a generated move because its
// origin and destination coincide.
const NoMove Move = 0

func newMove(from, to Square, moved, captured Piece, kind MoveKind, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(moved)<<12 | Move(captured)<<16 |
		Move(promo)<<20 | Move(kind)<<23
}

func (m Move) From() Square          { return Square(m & 0x3F) }
func (m Move) To() Square            { return Square(m >> 6 & 0x3F) }
func (m Move) Piece() Piece          { return Piece(m >> 12 & 0xF) }
func (m Move) Captured() Piece       { return Piece(m >> 16 & 0xF) }
func (m Move) Promotion() PieceType  { return PieceType(m >> 20 & 0x7) }
func (m Move) Kind() MoveKind        { return MoveKind(m >> 23 & 0x3) }
func (m Move) IsCapture() bool       { return m.Captured() != NoPiece }
func (m Move) IsPromotion() bool     { return m.Kind() == KindPromotion }
func (m Move) IsEnPassant() bool     { return m.Kind() == KindEnPassant }
func (m Move) IsCastle() bool        { return m.Kind() == KindCastle }
func (m Move) IsQuiet() bool         { return !m.IsCapture() && !m.IsPromotion() }

// String returns the move in UCI long algebraic form, e.g. "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// MoveList is a fixed-capacity move buffer that lives on the stack.
type MoveList struct {
	moves [256]Move
	n     int
}

func (ml *MoveList) add(m Move) {
	ml.moves[ml.n] = m
	ml.n++
}

// Len returns the number of moves held.
func (ml *MoveList) Len() int { return ml.n }

// At returns move i.
func (ml *MoveList) At(i int) Move { return ml.moves[i] }

// Swap exchanges moves i and j.
func (ml *MoveList) Swap(i, j int) { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }

// Reset empties the list.
func (ml *MoveList) Reset() { ml.n = 0 }

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.moves[:ml.n] {
		if x == m {
			return true
		}
	}
	return false
}

// Slice returns the held moves. The slice aliases the list.
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.n] }

// UndoInfo holds what MakeMove cannot recompute on the way back.
type UndoInfo struct {
	Move          Move
	Captured      Piece
	Castling      CastlingRights
	EnPassant     Square
	HalfMoveClock int
	Hash          uint64
	PawnKey       uint64
	checkers      Bitboard
}
