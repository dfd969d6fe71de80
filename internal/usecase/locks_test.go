package usecase

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex(t *testing.T) {
	t.Parallel()

	t.Run("unlock survives forgetting the key while held", func(t *testing.T) {
		t.Parallel()
		km := newKeyedMutex()

		lock := km.Lock("ROOM22")
		km.Forget("ROOM22")

		// The held instance is still the one being released, not a fresh
		// mutex resolved through the map.
		assert.NotPanics(t, func() { lock.Unlock() })

		// The key is immediately usable again.
		relock := km.Lock("ROOM22")
		relock.Unlock()
	})

	t.Run("waiters on a forgotten key are released", func(t *testing.T) {
		t.Parallel()
		km := newKeyedMutex()

		lock := km.Lock("ROOM23")

		done := make(chan struct{})
		go func() {
			km.Lock("ROOM23").Unlock()
			close(done)
		}()

		km.Forget("ROOM23")
		lock.Unlock()

		<-done
	})

	t.Run("different keys never contend", func(t *testing.T) {
		t.Parallel()
		km := newKeyedMutex()

		lockA := km.Lock("ROOMA2")
		lockB := km.Lock("ROOMB2")
		lockB.Unlock()
		lockA.Unlock()
	})
}

// Deleting a room mid-operation must not corrupt the lock table; a full
// create/leave cycle repeated on the live usecases exercises the
// Forget-then-unlock path end to end.
func TestRoomDeletionReleasesLock(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	for range 3 {
		room, err := f.rooms.CreateRoom(t.Context(), "p1", "Alice")
		require.NoError(t, err)

		_, err = f.rooms.JoinRoom(t.Context(), "p2", "Bob", room.ID)
		require.NoError(t, err)

		require.NoError(t, f.rooms.LeaveRoom(t.Context(), "p2", room.ID))
		require.NoError(t, f.rooms.LeaveRoom(t.Context(), "p1", room.ID))
	}

	var wg sync.WaitGroup
	room, err := f.rooms.CreateRoom(t.Context(), "p1", "Alice")
	require.NoError(t, err)

	// Concurrent leavers racing the deletion must all come back.
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = f.rooms.JoinRoom(t.Context(), "p2", "Bob", room.ID)
		_ = f.rooms.LeaveRoom(t.Context(), "p2", room.ID)
	}()
	go func() {
		defer wg.Done()
		_ = f.rooms.LeaveRoom(t.Context(), "p1", room.ID)
	}()
	wg.Wait()
}
