package board

import "errors"

var (
	// ErrInvalidFEN is returned for malformed position strings.
	ErrInvalidFEN = errors.New("invalid FEN")

	// ErrIllegalMove is returned when a move string does not name a legal move.
	ErrIllegalMove = errors.New("illegal move")
)
