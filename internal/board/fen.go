package board

import (
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a Board from Forsyth-Edwards Notation. The halfmove and
// fullmove fields may be omitted. Errors wrap ErrInvalidFEN and no Board is
// returned for rejected input.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fenError("want 4 to 6 fields, got %d", len(fields))
	}

	b := emptyBoard()
	if err := b.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		b.SideToMove = White
	case "b":
		b.SideToMove = Black
	default:
		return nil, fenError("side to move %q", fields[1])
	}

	if err := b.parseCastling(fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fenError("en passant square %q", fields[3])
		}
		want := 5
		if b.SideToMove == Black {
			want = 2
		}
		if sq.Rank() != want {
			return nil, fenError("en passant square %s on wrong rank", sq)
		}
		// Keep the target only when a pawn can capture onto it, matching
		// what MakeMove records.
		them := b.SideToMove.Other()
		if b.squares[sq^8] != MakePiece(Pawn, them) || b.All.Has(sq) {
			return nil, fenError("en passant square %s without a pushed pawn", sq)
		}
		if pawnAttacks[them][sq]&b.Pieces[b.SideToMove][Pawn] != 0 {
			b.EnPassant = sq
		}
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fenError("halfmove clock %q", fields[4])
		}
		b.HalfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fenError("fullmove number %q", fields[5])
		}
		b.FullMoveNumber = n
	}

	for c := White; c <= Black; c++ {
		if n := b.Pieces[c][King].Count(); n != 1 {
			return nil, fenError("%s has %d kings", c, n)
		}
	}
	if (b.Pieces[White][Pawn]|b.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return nil, fenError("pawn on a back rank")
	}
	if b.IsInCheck(b.SideToMove.Other()) {
		return nil, fenError("side not to move is in check")
	}

	b.Hash = b.computeHash()
	b.PawnKey = b.computePawnKey()
	b.updateCheckers()
	return b, nil
}

func (b *Board) parsePlacement(s string) error {
	rows := strings.Split(s, "/")
	if len(rows) != 8 {
		return fenError("want 8 ranks, got %d", len(rows))
	}
	for i, row := range rows {
		rank, file := 7-i, 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := pieceFromChar(ch)
			if p == NoPiece {
				return fenError("piece letter %q", ch)
			}
			if file > 7 {
				return fenError("rank %d overflows", rank+1)
			}
			b.put(p, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fenError("rank %d has %d files", rank+1, file)
		}
	}
	return nil
}

// parseCastling reads the rights field. A right whose king or rook is not on
// its home square is dropped rather than rejected.
func (b *Board) parseCastling(s string) error {
	if s == "-" {
		return nil
	}
	homes := [4]struct{ king, rook Square }{{E1, H1}, {E1, A1}, {E8, H8}, {E8, A8}}
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte("KQkq", s[i])
		if idx < 0 {
			return fenError("castling letter %q", s[i])
		}
		c := Color(idx / 2)
		h := homes[idx]
		if b.squares[h.king] == MakePiece(King, c) && b.squares[h.rook] == MakePiece(Rook, c) {
			b.Castling |= 1 << idx
		}
	}
	return nil
}

// FEN serializes the board.
func (b *Board) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		gap := 0
		for file := 0; file < 8; file++ {
			p := b.squares[NewSquare(file, rank)]
			if p == NoPiece {
				gap++
				continue
			}
			if gap > 0 {
				sb.WriteByte(byte('0' + gap))
				gap = 0
			}
			sb.WriteByte(p.Char())
		}
		if gap > 0 {
			sb.WriteByte(byte('0' + gap))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	if b.SideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(b.Castling.String())
	sb.WriteByte(' ')
	sb.WriteString(b.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.FullMoveNumber))
	return sb.String()
}
