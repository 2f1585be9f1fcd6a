package engine

import "github.com/hailam/chesscore/internal/board"

// SEE returns the static exchange value of m for the side making it: the
// material balance after both sides keep recapturing on the target square
// with their least valuable attacker for as long as it pays. Quiet moves
// score the loss of the moving piece if the square is not defended enough.
func SEE(b *board.Board, m board.Move) int {
	from, to := m.From(), m.To()
	us := m.Piece().Color()

	var gain [32]int
	if m.IsCapture() {
		gain[0] = pieceValue[m.Captured().Type()]
	}
	next := pieceValue[m.Piece().Type()]
	if m.IsPromotion() {
		gain[0] += pieceValue[m.Promotion()] - PawnValue
		next = pieceValue[m.Promotion()]
	}

	occ := b.All.Without(from)
	if m.IsEnPassant() {
		occ = occ.Without(to ^ 8)
	}
	attackers := b.AttackersTo(to, occ) & occ
	side := us.Other()

	d := 0
	for {
		d++
		gain[d] = next - gain[d-1]
		if max(-gain[d-1], gain[d]) < 0 {
			break
		}
		sq, pt, ok := leastValuable(b, attackers&b.Occupied[side])
		if !ok {
			break
		}
		occ = occ.Without(sq)
		// Sliders behind the piece that just captured join in.
		attackers = b.AttackersTo(to, occ) & occ
		next = pieceValue[pt]
		side = side.Other()
		if d == len(gain)-1 {
			break
		}
	}
	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}

func leastValuable(b *board.Board, set board.Bitboard) (board.Square, board.PieceType, bool) {
	if set == 0 {
		return board.NoSquare, board.NoPieceType, false
	}
	for pt := board.Pawn; pt <= board.King; pt++ {
		if bb := set & (b.Pieces[board.White][pt] | b.Pieces[board.Black][pt]); bb != 0 {
			return bb.First(), pt, true
		}
	}
	return board.NoSquare, board.NoPieceType, false
}
