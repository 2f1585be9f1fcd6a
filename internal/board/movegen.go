package board

type genMode uint8

const (
	genAll genMode = iota
	genNoisy
)

// GenerateMoves fills ml with every legal move. Order is not significant.
func (b *Board) GenerateMoves(ml *MoveList) {
	ml.Reset()
	b.generate(ml, genAll)
	b.filterLegal(ml)
}

// GenerateCaptures fills ml with legal captures (en passant included) and
// queen promotions. Quiescence search uses it for quiet-position probing.
func (b *Board) GenerateCaptures(ml *MoveList) {
	ml.Reset()
	b.generate(ml, genNoisy)
	b.filterLegal(ml)
}

// LegalMoves returns the legal moves as a fresh slice.
func (b *Board) LegalMoves() []Move {
	var ml MoveList
	b.GenerateMoves(&ml)
	return append([]Move(nil), ml.Slice()...)
}

// HasLegalMoves reports whether the side to move can move at all.
func (b *Board) HasLegalMoves() bool {
	var ml MoveList
	b.GenerateMoves(&ml)
	return ml.Len() > 0
}

// IsCheckmate reports whether the side to move is mated.
func (b *Board) IsCheckmate() bool {
	return b.InCheck() && !b.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no moves but is not in check.
func (b *Board) IsStalemate() bool {
	return !b.InCheck() && !b.HasLegalMoves()
}

func (b *Board) generate(ml *MoveList, mode genMode) {
	us := b.SideToMove
	them := us.Other()
	own := b.Occupied[us]
	enemies := b.Occupied[them]

	targets := ^own
	if mode == genNoisy {
		targets = enemies
	}

	b.generatePawnMoves(ml, mode)

	for pt := Knight; pt <= King; pt++ {
		moved := MakePiece(pt, us)
		for pieces := b.Pieces[us][pt]; pieces != 0; {
			from := pieces.Pop()
			for to := AttacksFrom(pt, us, from, b.All) & targets; to != 0; {
				sq := to.Pop()
				ml.add(newMove(from, sq, moved, b.squares[sq], KindNormal, NoPieceType))
			}
		}
	}

	if mode == genAll {
		b.generateCastles(ml)
	}
}

func (b *Board) generatePawnMoves(ml *MoveList, mode genMode) {
	us := b.SideToMove
	them := us.Other()
	pawn := MakePiece(Pawn, us)
	empty := ^b.All
	enemies := b.Occupied[them]

	promoRank, startRank := Rank8, Rank2
	if us == Black {
		promoRank, startRank = Rank1, Rank7
	}

	for pawns := b.Pieces[us][Pawn]; pawns != 0; {
		from := pawns.Pop()
		fromBB := BB(from)

		if push := fromBB.Forward(us) & empty; push != 0 {
			to := push.First()
			switch {
			case push&promoRank != 0:
				addPromotions(ml, from, to, pawn, NoPiece, mode)
			case mode == genAll:
				ml.add(newMove(from, to, pawn, NoPiece, KindNormal, NoPieceType))
				if fromBB&startRank != 0 {
					if double := push.Forward(us) & empty; double != 0 {
						ml.add(newMove(from, double.First(), pawn, NoPiece, KindNormal, NoPieceType))
					}
				}
			}
		}

		for caps := pawnAttacks[us][from] & enemies; caps != 0; {
			to := caps.Pop()
			if BB(to)&promoRank != 0 {
				addPromotions(ml, from, to, pawn, b.squares[to], mode)
			} else {
				ml.add(newMove(from, to, pawn, b.squares[to], KindNormal, NoPieceType))
			}
		}

		if b.EnPassant != NoSquare && pawnAttacks[us][from].Has(b.EnPassant) {
			ml.add(newMove(from, b.EnPassant, pawn, MakePiece(Pawn, them), KindEnPassant, NoPieceType))
		}
	}
}

// addPromotions adds all four promotions, or only the queen in noisy mode.
func addPromotions(ml *MoveList, from, to Square, pawn, captured Piece, mode genMode) {
	if mode == genNoisy {
		ml.add(newMove(from, to, pawn, captured, KindPromotion, Queen))
		return
	}
	for _, pt := range [...]PieceType{Queen, Knight, Rook, Bishop} {
		ml.add(newMove(from, to, pawn, captured, KindPromotion, pt))
	}
}

type castleSpec struct {
	right  CastlingRights
	from   Square
	to     Square
	empty  Bitboard // must be vacant
	safe   Bitboard // must not be attacked, king square excluded
	player Color
}

var castles = [4]castleSpec{
	{WhiteKingSide, E1, G1, BB(F1) | BB(G1), BB(F1) | BB(G1), White},
	{WhiteQueenSide, E1, C1, BB(B1) | BB(C1) | BB(D1), BB(C1) | BB(D1), White},
	{BlackKingSide, E8, G8, BB(F8) | BB(G8), BB(F8) | BB(G8), Black},
	{BlackQueenSide, E8, C8, BB(B8) | BB(C8) | BB(D8), BB(C8) | BB(D8), Black},
}

func (b *Board) generateCastles(ml *MoveList) {
	us := b.SideToMove
	if b.Castling == NoCastling || b.checkers != 0 {
		return
	}
	king := MakePiece(King, us)
	for _, cs := range castles {
		if cs.player != us || b.Castling&cs.right == 0 || b.All&cs.empty != 0 {
			continue
		}
		ok := true
		for s := cs.safe; s != 0; {
			if b.IsSquareAttacked(s.Pop(), us.Other()) {
				ok = false
				break
			}
		}
		if ok {
			ml.add(newMove(cs.from, cs.to, king, NoPiece, KindCastle, NoPieceType))
		}
	}
}

// filterLegal drops pseudo-legal moves that leave the mover's king attacked.
func (b *Board) filterLegal(ml *MoveList) {
	pinned := b.Pinned(b.SideToMove)
	n := 0
	for i := 0; i < ml.n; i++ {
		m := ml.moves[i]
		if b.isLegal(m, pinned) {
			ml.moves[n] = m
			n++
		}
	}
	ml.n = n
}

// isLegal decides legality of a pseudo-legal move. Most moves are settled from
// the pin and check sets; en passant, which can expose the king along the
// rank of the two pawns, is played out and tested directly.
func (b *Board) isLegal(m Move, pinned Bitboard) bool {
	us := b.SideToMove
	from, to := m.From(), m.To()

	if m.Piece().Type() == King {
		if m.IsCastle() {
			return true
		}
		return b.attackersOf(to, us.Other(), b.All.Without(from)) == 0
	}

	if m.IsEnPassant() {
		return b.leavesKingSafe(m)
	}

	ksq := b.Pieces[us][King].First()
	if b.checkers != 0 {
		if b.checkers.Several() {
			return false
		}
		c := b.checkers.First()
		if to != c && !between[ksq][c].Has(to) {
			return false
		}
	}
	if pinned.Has(from) {
		return line[from][ksq].Has(to)
	}
	return true
}

func (b *Board) leavesKingSafe(m Move) bool {
	us := b.SideToMove
	u := b.MakeMove(m)
	safe := !b.IsInCheck(us)
	b.UnmakeMove(u)
	return safe
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func (b *Board) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var ml MoveList
	b.GenerateMoves(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}
	var nodes uint64
	for _, m := range ml.Slice() {
		u := b.MakeMove(m)
		nodes += b.Perft(depth - 1)
		b.UnmakeMove(u)
	}
	return nodes
}

// Divide returns the perft count below each root move.
func (b *Board) Divide(depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth < 1 {
		return out
	}
	var ml MoveList
	b.GenerateMoves(&ml)
	for _, m := range ml.Slice() {
		u := b.MakeMove(m)
		out[m.String()] = b.Perft(depth - 1)
		b.UnmakeMove(u)
	}
	return out
}
