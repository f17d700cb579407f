package game

import "errors"

var (
	// ErrMalformedResponse marks draw data that cannot be verified at all:
	// missing fields, bad hex, or a broken sequence.
	ErrMalformedResponse = errors.New("malformed verification data")

	// ErrPoolExhausted is returned when a derivation is attempted with no
	// numbers left in the pool.
	ErrPoolExhausted = errors.New("pool exhausted")

	ErrShortSeed = errors.New("seed shorter than 4 bytes")
)
