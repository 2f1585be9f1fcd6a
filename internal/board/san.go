package board

import (
	"strings"
)

// SAN converts a legal move of b to Standard Algebraic Notation.
func (m Move) SAN(b *Board) string {
	if m == NoMove {
		return "-"
	}
	if m.IsCastle() {
		if m.To() > m.From() {
			return withCheckMark(b, m, "O-O")
		}
		return withCheckMark(b, m, "O-O-O")
	}

	from, to := m.From(), m.To()
	pt := m.Piece().Type()

	var sb strings.Builder
	if pt != Pawn {
		sb.WriteByte("PNBRQK"[pt])
		sb.WriteString(disambiguation(b, m, pt))
	}
	if m.IsCapture() {
		if pt == Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}
	sb.WriteString(to.String())
	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte("PNBRQK"[m.Promotion()])
	}
	return withCheckMark(b, m, sb.String())
}

func withCheckMark(b *Board, m Move, s string) string {
	u := b.MakeMove(m)
	defer b.UnmakeMove(u)
	switch {
	case b.IsCheckmate():
		return s + "#"
	case b.InCheck():
		return s + "+"
	}
	return s
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other pieces of the same type reaching the same square.
func disambiguation(b *Board, m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	sameFile, sameRank, ambiguous := false, false, false

	var ml MoveList
	b.GenerateMoves(&ml)
	for _, o := range ml.Slice() {
		if o.To() != to || o.From() == from || o.Piece().Type() != pt {
			continue
		}
		ambiguous = true
		if o.From().File() == from.File() {
			sameFile = true
		}
		if o.From().Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ParseSAN resolves a SAN move such as "Nbd7", "exd5", "e8=Q+" or "O-O" to
// the matching legal move of b.
func ParseSAN(b *Board, s string) (Move, error) {
	orig := s
	s = strings.TrimRight(strings.TrimSpace(s), "+#!?")
	fail := func(err error) (Move, error) {
		return NoMove, &MoveError{Move: orig, FEN: b.FEN(), Err: err}
	}

	var ml MoveList
	b.GenerateMoves(&ml)

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		long := len(s) == 5
		for _, m := range ml.Slice() {
			if m.IsCastle() && (m.To() < m.From()) == long {
				return m, nil
			}
		}
		return fail(ErrIllegalMove)
	}

	promo := NoPieceType
	if i := strings.IndexByte(s, '='); i >= 0 {
		if i+1 >= len(s) {
			return fail(ErrInvalidMove)
		}
		promo = pieceTypeFromLetter(s[i+1])
		if promo == NoPieceType || promo == Pawn || promo == King {
			return fail(ErrInvalidMove)
		}
		s = s[:i]
	} else if n := len(s); n > 2 && s[n-1] >= 'A' && s[n-1] <= 'Z' {
		// "e8Q"
		promo = pieceTypeFromLetter(s[n-1])
		s = s[:n-1]
	}

	capture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		if pt = pieceTypeFromLetter(s[0]); pt == NoPieceType {
			return fail(ErrInvalidMove)
		}
		s = s[1:]
	}
	if len(s) < 2 {
		return fail(ErrInvalidMove)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return fail(ErrInvalidMove)
	}

	file, rank := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		default:
			return fail(ErrInvalidMove)
		}
	}

	found := NoMove
	for _, m := range ml.Slice() {
		from := m.From()
		switch {
		case m.To() != dest, m.Piece().Type() != pt, m.IsCastle():
			continue
		case file >= 0 && from.File() != file, rank >= 0 && from.Rank() != rank:
			continue
		case capture && !m.IsCapture():
			continue
		case promo != NoPieceType && m.Promotion() != promo,
			promo == NoPieceType && m.IsPromotion():
			continue
		}
		if found != NoMove {
			return fail(ErrInvalidMove) // ambiguous
		}
		found = m
	}
	if found == NoMove {
		return fail(ErrIllegalMove)
	}
	return found, nil
}

func pieceTypeFromLetter(c byte) PieceType {
	switch c {
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'R':
		return Rook
	case 'Q':
		return Queen
	case 'K':
		return King
	}
	return NoPieceType
}

// MovesToSAN converts a line of moves starting at b to SAN. b is unchanged.
func MovesToSAN(b *Board, moves []Move) []string {
	result := make([]string, len(moves))
	p := b.Copy()
	for i, m := range moves {
		result[i] = m.SAN(p)
		p.MakeMove(m)
	}
	return result
}
