package board

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFEN is wrapped by every FEN parsing failure.
	ErrInvalidFEN = errors.New("invalid FEN")

	// ErrIllegalMove reports a move that is not in the legal move list.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidMove reports move text that is not well-formed UCI.
	ErrInvalidMove = errors.New("malformed move")
)

// MoveError carries the rejected move and the position it was tried in.
type MoveError struct {
	Move string
	FEN  string
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%v: %s in %q", e.Err, e.Move, e.FEN)
}

func (e *MoveError) Unwrap() error { return e.Err }

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}
