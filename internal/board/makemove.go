package board

// castleRook returns the rook's origin and destination for a castle whose
// king lands on kingTo.
func castleRook(kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default:
		return A8, D8
	}
}

// MakeMove applies m, which must be legal in this position, and returns the
// information UnmakeMove needs to restore the board exactly.
func (b *Board) MakeMove(m Move) UndoInfo {
	u := UndoInfo{
		Move:          m,
		Captured:      m.Captured(),
		Castling:      b.Castling,
		EnPassant:     b.EnPassant,
		HalfMoveClock: b.HalfMoveClock,
		Hash:          b.Hash,
		PawnKey:       b.PawnKey,
		checkers:      b.checkers,
	}

	us := b.SideToMove
	from, to, moved := m.From(), m.To(), m.Piece()

	if b.EnPassant != NoSquare {
		b.Hash ^= enPassantKeys[b.EnPassant.File()]
		b.EnPassant = NoSquare
	}
	b.HalfMoveClock++

	switch m.Kind() {
	case KindCastle:
		rookFrom, rookTo := castleRook(to)
		rook := MakePiece(Rook, us)
		b.shift(from, to)
		b.shift(rookFrom, rookTo)
		b.toggleKeys(moved, from)
		b.toggleKeys(moved, to)
		b.toggleKeys(rook, rookFrom)
		b.toggleKeys(rook, rookTo)

	case KindEnPassant:
		// The captured pawn sits beside the origin, on the destination file.
		victim := to ^ 8
		b.toggleKeys(b.lift(victim), victim)
		b.shift(from, to)
		b.toggleKeys(moved, from)
		b.toggleKeys(moved, to)
		b.HalfMoveClock = 0

	case KindPromotion:
		if m.IsCapture() {
			b.toggleKeys(b.lift(to), to)
		}
		promoted := MakePiece(m.Promotion(), us)
		b.lift(from)
		b.put(promoted, to)
		b.toggleKeys(moved, from)
		b.toggleKeys(promoted, to)
		b.HalfMoveClock = 0

	default:
		if m.IsCapture() {
			b.toggleKeys(b.lift(to), to)
			b.HalfMoveClock = 0
		}
		b.shift(from, to)
		b.toggleKeys(moved, from)
		b.toggleKeys(moved, to)
		if moved.Type() == Pawn {
			b.HalfMoveClock = 0
			if int(to)-int(from) == 16 || int(from)-int(to) == 16 {
				// Only record a target the opponent can actually use, so that
				// transpositions hash identically.
				ep := (from + to) / 2
				if pawnAttacks[us][ep]&b.Pieces[us.Other()][Pawn] != 0 {
					b.EnPassant = ep
					b.Hash ^= enPassantKeys[ep.File()]
				}
			}
		}
	}

	if rights := b.Castling & castleMask[from] & castleMask[to]; rights != b.Castling {
		b.Hash ^= castlingKeys[b.Castling] ^ castlingKeys[rights]
		b.Castling = rights
	}

	if us == Black {
		b.FullMoveNumber++
	}
	b.SideToMove = us.Other()
	b.Hash ^= sideKey
	b.updateCheckers()
	return u
}

// UnmakeMove reverts the move recorded in u. Moves must be unmade in the
// reverse order they were made.
func (b *Board) UnmakeMove(u UndoInfo) {
	m := u.Move
	b.SideToMove = b.SideToMove.Other()
	us := b.SideToMove
	if us == Black {
		b.FullMoveNumber--
	}

	from, to := m.From(), m.To()
	switch m.Kind() {
	case KindCastle:
		rookFrom, rookTo := castleRook(to)
		b.shift(rookTo, rookFrom)
		b.shift(to, from)
	case KindEnPassant:
		b.shift(to, from)
		b.put(MakePiece(Pawn, us.Other()), to^8)
	case KindPromotion:
		b.lift(to)
		b.put(m.Piece(), from)
		if u.Captured != NoPiece {
			b.put(u.Captured, to)
		}
	default:
		b.shift(to, from)
		if u.Captured != NoPiece {
			b.put(u.Captured, to)
		}
	}

	b.Castling = u.Castling
	b.EnPassant = u.EnPassant
	b.HalfMoveClock = u.HalfMoveClock
	b.Hash = u.Hash
	b.PawnKey = u.PawnKey
	b.checkers = u.checkers
}

// ApplyMove makes m after checking it against the legal move list. An
// illegal move leaves the board untouched and returns ErrIllegalMove.
func (b *Board) ApplyMove(m Move) error {
	var ml MoveList
	b.GenerateMoves(&ml)
	if !ml.Contains(m) {
		return &MoveError{Move: m.String(), FEN: b.FEN(), Err: ErrIllegalMove}
	}
	b.MakeMove(m)
	return nil
}

// ApplyUCI parses s against the current position and applies it.
func (b *Board) ApplyUCI(s string) (Move, error) {
	m, err := ParseUCI(b, s)
	if err != nil {
		return NoMove, err
	}
	b.MakeMove(m)
	return m, nil
}

// ParseUCI resolves a UCI move string such as "e2e4" or "a7a8q" to the
// matching legal move of b.
func ParseUCI(b *Board, s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, &MoveError{Move: s, FEN: b.FEN(), Err: ErrInvalidMove}
	}
	if _, err := ParseSquare(s[:2]); err != nil {
		return NoMove, &MoveError{Move: s, FEN: b.FEN(), Err: ErrInvalidMove}
	}
	if _, err := ParseSquare(s[2:4]); err != nil {
		return NoMove, &MoveError{Move: s, FEN: b.FEN(), Err: ErrInvalidMove}
	}
	if len(s) == 5 && pieceFromChar(s[4]) == NoPiece {
		return NoMove, &MoveError{Move: s, FEN: b.FEN(), Err: ErrInvalidMove}
	}

	var ml MoveList
	b.GenerateMoves(&ml)
	for _, m := range ml.Slice() {
		if m.String() == s {
			return m, nil
		}
	}
	return NoMove, &MoveError{Move: s, FEN: b.FEN(), Err: ErrIllegalMove}
}
