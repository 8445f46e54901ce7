package battle

import "errors"

// Battle operation errors.
var (
	ErrInvalidState     = errors.New("operation not valid in current battle state")
	ErrCapacityExceeded = errors.New("team is full")
	ErrAlreadyMember    = errors.New("participant already in a battle")
	ErrConfiguration    = errors.New("invalid battle configuration")
	ErrNotFound         = errors.New("battle, team or participant not found")
)
