package service

import "errors"

var (
	// ErrTextNotFound means no active record exists for the requested hash.
	ErrTextNotFound = errors.New("text not found")

	// ErrReservationExhausted means every reservation attempt failed to
	// produce a token. No token is held when this is returned.
	ErrReservationExhausted = errors.New("hash reservation exhausted")

	// ErrUnknownReservationOutcome means the atomic reservation step returned
	// a status outside the defined set. Treated as a programmer error and
	// never retried.
	ErrUnknownReservationOutcome = errors.New("unknown reservation outcome")

	// ErrPartialCreationFailure means a token was reserved but a later
	// creation step failed; compensations have been attempted.
	ErrPartialCreationFailure = errors.New("partial text creation failure")
)
