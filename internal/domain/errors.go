package domain

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomFull     = errors.New("room is full")
	ErrNotInRoom    = errors.New("player not in room")
	ErrUnauthorized = errors.New("only the host can do that")
	ErrInvalidPhase = errors.New("invalid phase for action")
	ErrSelfVote     = errors.New("hot-seat player cannot vote")

	// ErrStaleState is returned by a room repository when a write lost a
	// race with a concurrent writer. Callers retry against a fresh read.
	ErrStaleState = errors.New("stale room state")
)

// ValidationError covers malformed payloads and out-of-range settings.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}
