package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
)

// roomRepo persists room snapshots as jsonb rows. The version column
// backs the optimistic concurrency check: an update that does not match
// the expected version touches zero rows and surfaces ErrStaleState.
type roomRepo struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) domain.RoomRepository {
	return &roomRepo{db: db}
}

type roomRow struct {
	ID      string `db:"id"`
	Data    []byte `db:"data"`
	Version int64  `db:"version"`
}

func (r *roomRepo) Create(ctx context.Context, room *domain.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room: %w", err)
	}

	res, err := r.db.ExecContext(
		ctx,
		"INSERT INTO rooms (id, data, version) VALUES ($1, $2, 1) ON CONFLICT (id) DO NOTHING",
		domain.NormalizeID(room.ID),
		data,
	)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	if aff, err := res.RowsAffected(); err != nil || aff == 0 {
		return domain.ErrRoomExists
	}

	room.Version = 1

	return nil
}

func (r *roomRepo) Get(ctx context.Context, id string) (*domain.Room, error) {
	var row roomRow

	err := r.db.GetContext(ctx, &row, "SELECT id, data, version FROM rooms WHERE id = $1", domain.NormalizeID(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}

	return unmarshalRoom(row)
}

func (r *roomRepo) Set(ctx context.Context, room *domain.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room: %w", err)
	}

	res, err := r.db.ExecContext(
		ctx,
		"UPDATE rooms SET data = $1, version = version + 1, updated_at = now() WHERE id = $2 AND version = $3",
		data,
		domain.NormalizeID(room.ID),
		room.Version,
	)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update room rows affected: %w", err)
	}
	if aff == 0 {
		// Either a concurrent writer got there first or the room is gone.
		var exists bool
		if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)", domain.NormalizeID(room.ID)); err != nil {
			return fmt.Errorf("check room existence: %w", err)
		}
		if !exists {
			return domain.ErrRoomNotFound
		}
		return domain.ErrStaleState
	}

	room.Version++

	return nil
}

func (r *roomRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = $1", domain.NormalizeID(id))
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	return nil
}

func (r *roomRepo) List(ctx context.Context) ([]*domain.Room, error) {
	var rows []roomRow

	err := r.db.SelectContext(ctx, &rows, "SELECT id, data, version FROM rooms ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms := make([]*domain.Room, 0, len(rows))
	for _, row := range rows {
		room, err := unmarshalRoom(row)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

func unmarshalRoom(row roomRow) (*domain.Room, error) {
	var room domain.Room

	if err := json.Unmarshal(row.Data, &room); err != nil {
		return nil, fmt.Errorf("unmarshal room %s: %w", row.ID, err)
	}

	room.Version = row.Version

	return &room, nil
}
