package board

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is a kind of piece regardless of color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// Piece is a colored piece: White pieces are 0-5, Black pieces 6-11.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

const pieceLetters = "PNBRQKpnbrqk"

// MakePiece combines a type and a color.
func MakePiece(pt PieceType, c Color) Piece {
	return Piece(pt) + Piece(c)*6
}

// Type returns the piece's type, NoPieceType for NoPiece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the piece's color. Undefined for NoPiece.
func (p Piece) Color() Color {
	return Color(p / 6)
}

// Char returns the FEN letter, uppercase for White.
func (p Piece) Char() byte {
	if p >= NoPiece {
		return '.'
	}
	return pieceLetters[p]
}

func (p Piece) String() string { return string(p.Char()) }

// pieceFromChar is the inverse of Char.
func pieceFromChar(ch byte) Piece {
	for i := 0; i < len(pieceLetters); i++ {
		if pieceLetters[i] == ch {
			return Piece(i)
		}
	}
	return NoPiece
}

// Char returns the lowercase letter used in UCI promotion suffixes.
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return 0
	}
	return "pnbrqk"[pt]
}

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}
