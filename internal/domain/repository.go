package domain

import "context"

// RoomRepository is the room store port. Implementations must detect
// lost updates: Set compares the room's Version against the stored one
// and returns ErrStaleState on mismatch, bumping it on success.
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	Get(ctx context.Context, id string) (*Room, error)
	Set(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Room, error)
}
