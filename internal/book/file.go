package book

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hailam/chesscore/internal/board"
)

// ErrBadRecord is returned for a book record whose move cannot be decoded.
var ErrBadRecord = errors.New("book: bad record")

// Book files are a sequence of 16-byte records:
//
//	8 bytes: position hash (big-endian)
//	2 bytes: move, to | from<<6 | promotion<<12 (big-endian)
//	4 bytes: count (big-endian)
//	2 bytes: reserved
const recordSize = 16

// Promotion codes: 0 none, 1 knight, 2 bishop, 3 rook, 4 queen.
const promoLetters = " nbrq"

// Load reads a book file.
func Load(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(bufio.NewReader(file))
}

// Read decodes book records from r until EOF.
func Read(r io.Reader) (*Book, error) {
	bk := New()
	var rec [recordSize]byte
	for {
		_, err := io.ReadFull(r, rec[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("book: reading record %d: %w", bk.Size(), err)
		}

		hash := binary.BigEndian.Uint64(rec[0:8])
		uci, err := decodeMove(binary.BigEndian.Uint16(rec[8:10]))
		if err != nil {
			return nil, err
		}
		bk.Add(hash, uci, binary.BigEndian.Uint32(rec[10:14]))
	}
	return bk, nil
}

// Save writes the book to filename, replacing it.
func (bk *Book) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if _, err := bk.WriteTo(w); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteTo writes every entry as a record, positions in ascending hash order.
func (bk *Book) WriteTo(w io.Writer) (int64, error) {
	var (
		n   int64
		err error
	)
	bk.Each(func(hash uint64, entries []Entry) {
		for _, e := range entries {
			if err != nil {
				return
			}
			var code uint16
			if code, err = encodeMove(e.Move); err != nil {
				return
			}
			var rec [recordSize]byte
			binary.BigEndian.PutUint64(rec[0:8], hash)
			binary.BigEndian.PutUint16(rec[8:10], code)
			binary.BigEndian.PutUint32(rec[10:14], e.Count)
			var k int
			k, err = w.Write(rec[:])
			n += int64(k)
		}
	})
	return n, err
}

func encodeMove(uci string) (uint16, error) {
	if len(uci) != 4 && len(uci) != 5 {
		return 0, fmt.Errorf("%w: move %q", ErrBadRecord, uci)
	}
	from, err := board.ParseSquare(uci[0:2])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	to, err := board.ParseSquare(uci[2:4])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	code := uint16(to) | uint16(from)<<6
	if len(uci) == 5 {
		p := -1
		for i := 1; i < len(promoLetters); i++ {
			if promoLetters[i] == uci[4] {
				p = i
			}
		}
		if p < 0 {
			return 0, fmt.Errorf("%w: promotion in %q", ErrBadRecord, uci)
		}
		code |= uint16(p) << 12
	}
	return code, nil
}

func decodeMove(code uint16) (string, error) {
	to := board.Square(code & 0x3F)
	from := board.Square(code >> 6 & 0x3F)
	promo := int(code >> 12 & 0x7)
	if from == to || promo >= len(promoLetters) {
		return "", fmt.Errorf("%w: move code %#04x", ErrBadRecord, code)
	}
	s := from.String() + to.String()
	if promo > 0 {
		s += string(promoLetters[promo])
	}
	return s, nil
}
