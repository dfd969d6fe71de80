package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain/events"
)

// playingRoom drives a fresh room into QUESTIONING.
func playingRoom(t *testing.T, f *fixture, hostID string, joinerIDs ...string) *domain.Room {
	t.Helper()

	room := f.createWithPlayers(t, hostID, joinerIDs...)
	require.NoError(t, f.games.StartGame(t.Context(), hostID, room.ID))

	all := append([]string{hostID}, joinerIDs...)
	for _, id := range all {
		require.NoError(t, f.games.SubmitStories(t.Context(), id, room.ID, []string{"one", "two", "three"}, 0))
	}
	return room
}

func (f *fixture) status(t *testing.T, roomID string) domain.Status {
	t.Helper()

	room, err := f.rooms.RoomState(t.Context(), roomID)
	require.NoError(t, err)
	return room.Status
}

func TestStartGame(t *testing.T) {
	t.Parallel()

	t.Run("host starts story submission", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		room := f.createWithPlayers(t, "p1", "p2")

		require.NoError(t, f.games.StartGame(t.Context(), "p1", room.ID))

		assert.Equal(t, domain.StatusStorySubmission, f.status(t, room.ID))
		assert.Contains(t, f.notifier.typesFor("p2"), events.EventStorySubmissionStarted)
	})

	t.Run("non host cannot start", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		room := f.createWithPlayers(t, "p1", "p2")

		err := f.games.StartGame(t.Context(), "p2", room.ID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestSubmitStoriesFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	room := f.createWithPlayers(t, "p1", "p2")
	require.NoError(t, f.games.StartGame(t.Context(), "p1", room.ID))

	require.NoError(t, f.games.SubmitStories(t.Context(), "p2", room.ID, []string{"a", "b", "c"}, 1))
	assert.Equal(t, domain.StatusStorySubmission, f.status(t, room.ID))

	require.NoError(t, f.games.SubmitStories(t.Context(), "p1", room.ID, []string{"a", "b", "c"}, 0))
	assert.Equal(t, domain.StatusQuestioning, f.status(t, room.ID))
	assert.Contains(t, f.notifier.typesFor("p2"), events.EventGameStarted)
}

func TestVotingFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	room := playingRoom(t, f, "p1", "p2", "p3")

	f.games.PhaseExpired(t.Context(), room.ID, domain.StatusQuestioning)
	require.Equal(t, domain.StatusVoting, f.status(t, room.ID))
	assert.Contains(t, f.notifier.typesFor("p2"), events.EventVotingStarted)

	require.NoError(t, f.games.SubmitVote(t.Context(), "p2", room.ID, 0))
	assert.Equal(t, domain.StatusVoting, f.status(t, room.ID))
	assert.Contains(t, f.notifier.typesFor("p3"), events.EventVoteSubmitted)

	// The final vote resolves the round without waiting for the timer.
	require.NoError(t, f.games.SubmitVote(t.Context(), "p3", room.ID, 1))
	assert.Equal(t, domain.StatusReveal, f.status(t, room.ID))
	assert.Contains(t, f.notifier.typesFor("p1"), events.EventRevealResults)
}

func TestPhaseExpiry(t *testing.T) {
	t.Parallel()

	t.Run("voting expiry resolves with partial votes", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		room := playingRoom(t, f, "p1", "p2", "p3")

		f.games.PhaseExpired(t.Context(), room.ID, domain.StatusQuestioning)
		require.NoError(t, f.games.SubmitVote(t.Context(), "p2", room.ID, 0))

		f.games.PhaseExpired(t.Context(), room.ID, domain.StatusVoting)
		assert.Equal(t, domain.StatusReveal, f.status(t, room.ID))
	})

	t.Run("reveal expiry advances the hot seat", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		room := playingRoom(t, f, "p1", "p2")

		f.games.PhaseExpired(t.Context(), room.ID, domain.StatusQuestioning)
		f.games.PhaseExpired(t.Context(), room.ID, domain.StatusVoting)
		f.games.PhaseExpired(t.Context(), room.ID, domain.StatusReveal)

		state, err := f.rooms.RoomState(t.Context(), room.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusQuestioning, state.Status)
		assert.Equal(t, "p2", state.CurrentPlayerID)
		assert.Contains(t, f.notifier.typesFor("p1"), events.EventNextRound)
	})

	t.Run("final reveal expiry ends the game", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		room := playingRoom(t, f, "p1", "p2")

		for range 2 {
			f.games.PhaseExpired(t.Context(), room.ID, domain.StatusQuestioning)
			f.games.PhaseExpired(t.Context(), room.ID, domain.StatusVoting)
			f.games.PhaseExpired(t.Context(), room.ID, domain.StatusReveal)
		}

		assert.Equal(t, domain.StatusGameOver, f.status(t, room.ID))
		assert.Contains(t, f.notifier.typesFor("p2"), events.EventGameOver)
	})

	t.Run("stale expiry is dropped", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		room := playingRoom(t, f, "p1", "p2")

		// Voting expiry arrives while the room is still questioning.
		f.games.PhaseExpired(t.Context(), room.ID, domain.StatusVoting)
		assert.Equal(t, domain.StatusQuestioning, f.status(t, room.ID))

		// Expiry for a deleted room is equally harmless.
		f.games.PhaseExpired(t.Context(), "GONE22", domain.StatusQuestioning)
	})
}

func TestResetGame(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	room := playingRoom(t, f, "p1", "p2")

	require.NoError(t, f.games.ResetGame(t.Context(), "p1", room.ID))

	state, err := f.rooms.RoomState(t.Context(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaiting, state.Status)
	assert.Contains(t, f.notifier.typesFor("p2"), events.EventGameReset)
}

func TestHotSeatDeparture(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	room := playingRoom(t, f, "p1", "p2", "p3")

	require.NoError(t, f.rooms.LeaveRoom(t.Context(), "p1", room.ID))

	state, err := f.rooms.RoomState(t.Context(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQuestioning, state.Status)
	assert.Equal(t, "p2", state.CurrentPlayerID)
	assert.Contains(t, f.notifier.typesFor("p3"), events.EventNextRound)
}
