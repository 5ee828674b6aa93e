package baker

import "errors"

// Any of these aborts the whole bake. Use errors.Is to test for them; the
// returned errors are wrapped with the position that caused them.
var (
	ErrEmptySequence    = errors.New("sequence has no values")
	ErrInvalidSequence  = errors.New("invalid sequence value")
	ErrInvalidSongIndex = errors.New("invalid song index")
	ErrNoOrders         = errors.New("song has no orders")
	ErrInvalidEffect    = errors.New("invalid effect")
	ErrFrameBudget      = errors.New("frame budget exhausted")
)
