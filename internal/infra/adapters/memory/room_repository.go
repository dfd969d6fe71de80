package memory

import (
	"context"
	"sync"

	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
)

// roomRepository keeps room snapshots in process memory. Reads and
// writes exchange deep copies, so callers can never mutate stored state
// behind the version check.
type roomRepository struct {
	rooms map[string]*domain.Room
	mu    sync.RWMutex
}

func NewRoomRepository() domain.RoomRepository {
	return &roomRepository{
		rooms: make(map[string]*domain.Room),
	}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := domain.NormalizeID(room.ID)
	if _, exists := r.rooms[id]; exists {
		return domain.ErrRoomExists
	}

	stored := room.Clone()
	stored.Version = 1
	r.rooms[id] = stored
	room.Version = stored.Version

	return nil
}

func (r *roomRepository) Get(ctx context.Context, id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[domain.NormalizeID(id)]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}

	return room.Clone(), nil
}

func (r *roomRepository) Set(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := domain.NormalizeID(room.ID)
	stored, exists := r.rooms[id]
	if !exists {
		return domain.ErrRoomNotFound
	}

	if stored.Version != room.Version {
		return domain.ErrStaleState
	}

	next := room.Clone()
	next.Version = stored.Version + 1
	r.rooms[id] = next
	room.Version = next.Version

	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, domain.NormalizeID(id))

	return nil
}

func (r *roomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room.Clone())
	}

	return rooms, nil
}
