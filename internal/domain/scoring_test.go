package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scoringRoom builds a VOTING room where the hot seat p1's true story
// sits at the given index.
func scoringRoom(t *testing.T, players int, truth int) *Room {
	t.Helper()

	room := roomWithPlayers(t, players)
	require.NoError(t, room.Start("p1"))

	for _, p := range room.Players {
		idx := 0
		if p.ID == "p1" {
			idx = truth
		}
		_, err := room.SubmitStories(p.ID, []string{"one", "two", "three"}, idx)
		require.NoError(t, err)
	}
	require.NoError(t, room.BeginVoting())

	return room
}

func TestScoring(t *testing.T) {
	t.Parallel()

	t.Run("correct voter earns a point", func(t *testing.T) {
		t.Parallel()
		room := scoringRoom(t, 3, 1)

		_, err := room.SubmitVote("p2", 1)
		require.NoError(t, err)
		_, err = room.SubmitVote("p3", 0)
		require.NoError(t, err)

		assert.Equal(t, 1, room.Player("p2").Score)
		assert.Equal(t, 0, room.Player("p3").Score)
		// One fooled voter, one correct: no bonus.
		assert.Equal(t, 1, room.Player("p1").Score)
	})

	t.Run("fooling everyone pays the bonus", func(t *testing.T) {
		t.Parallel()
		room := scoringRoom(t, 3, 1)

		_, err := room.SubmitVote("p2", 0)
		require.NoError(t, err)
		_, err = room.SubmitVote("p3", 2)
		require.NoError(t, err)

		// Two fooled voters plus the clean-sweep bonus.
		assert.Equal(t, 4, room.Player("p1").Score)
		assert.Equal(t, 0, room.Player("p2").Score)
		assert.Equal(t, 0, room.Player("p3").Score)
	})

	t.Run("no votes means no points", func(t *testing.T) {
		t.Parallel()
		room := scoringRoom(t, 3, 0)

		require.NoError(t, room.BeginReveal())

		for _, p := range room.Players {
			assert.Equal(t, 0, p.Score)
		}
	})

	t.Run("abstainers are skipped", func(t *testing.T) {
		t.Parallel()
		room := scoringRoom(t, 3, 2)

		_, err := room.SubmitVote("p2", 2)
		require.NoError(t, err)

		// Timer fires before p3 votes.
		require.NoError(t, room.BeginReveal())

		assert.Equal(t, 1, room.Player("p2").Score)
		assert.Equal(t, 0, room.Player("p3").Score)
		assert.Equal(t, 0, room.Player("p1").Score)
	})

	t.Run("round is settled exactly once", func(t *testing.T) {
		t.Parallel()
		room := scoringRoom(t, 3, 1)

		_, err := room.SubmitVote("p2", 1)
		require.NoError(t, err)
		_, err = room.SubmitVote("p3", 1)
		require.NoError(t, err)
		require.Equal(t, StatusReveal, room.Status)

		// A late timer expiry cannot re-apply the round.
		assert.ErrorIs(t, room.BeginReveal(), ErrInvalidPhase)
		assert.Equal(t, 1, room.Player("p2").Score)
		assert.Equal(t, 1, room.Player("p3").Score)
		assert.Equal(t, 0, room.Player("p1").Score)
	})
}
