package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vanshsehgal08/Lie-Hard/internal/application/constant"
	"github.com/vanshsehgal08/Lie-Hard/internal/application/metric"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain/events"
)

// GameUsecase drives the round state machine: starting games, story
// submission, voting, resets, and the timer-forced transitions.
type GameUsecase interface {
	StartGame(ctx context.Context, playerID, roomID string) error
	SubmitStories(ctx context.Context, playerID, roomID string, stories []string, isTruth int) error
	SubmitVote(ctx context.Context, playerID, roomID string, guessedIndex int) error
	ResetGame(ctx context.Context, playerID, roomID string) error

	PhaseExpirer
}

type gameUsecase struct {
	*State
}

func NewGameUsecase(state *State) GameUsecase {
	return &gameUsecase{State: state}
}

func (u *gameUsecase) StartGame(ctx context.Context, playerID, roomID string) error {
	_, err := u.update(ctx, roomID, func(room *domain.Room) error {
		return room.Start(playerID)
	}, func(room *domain.Room) {
		u.broadcast(room, events.EventStorySubmissionStarted, map[string]any{"room": room})
	})
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	return nil
}

func (u *gameUsecase) SubmitStories(ctx context.Context, playerID, roomID string, stories []string, isTruth int) error {
	var started bool

	_, err := u.update(ctx, roomID, func(room *domain.Room) error {
		var err error
		started, err = room.SubmitStories(playerID, stories, isTruth)
		return err
	}, func(room *domain.Room) {
		u.broadcast(room, events.EventStoriesSubmitted, events.StoriesSubmittedPayload{PlayerID: playerID, Room: room})

		if started {
			metric.IncrementGamesStarted()
			u.broadcast(room, events.EventGameStarted, map[string]any{"room": room})
			u.startQuestioningTimer(room)
		}
	})
	if err != nil {
		return fmt.Errorf("submit stories: %w", err)
	}

	return nil
}

func (u *gameUsecase) SubmitVote(ctx context.Context, playerID, roomID string, guessedIndex int) error {
	var revealed bool

	_, err := u.update(ctx, roomID, func(room *domain.Room) error {
		var err error
		revealed, err = room.SubmitVote(playerID, guessedIndex)
		return err
	}, func(room *domain.Room) {
		u.broadcast(room, events.EventVoteSubmitted, events.VoteSubmittedPayload{PlayerID: playerID, Room: room})

		if revealed {
			// The all-voted path won the race; the voting countdown is
			// replaced by the reveal countdown.
			u.announceReveal(room)
		}
	})
	if err != nil {
		return fmt.Errorf("submit vote: %w", err)
	}

	return nil
}

func (u *gameUsecase) ResetGame(ctx context.Context, playerID, roomID string) error {
	_, err := u.update(ctx, roomID, func(room *domain.Room) error {
		return room.Reset(playerID)
	}, func(room *domain.Room) {
		u.timers.Cancel(room.ID)
		u.broadcast(room, events.EventGameReset, map[string]any{"room": room})
	})
	if err != nil {
		return fmt.Errorf("reset game: %w", err)
	}

	return nil
}

// PhaseExpired handles a countdown running out. A room that was deleted
// or already moved past the expected phase is dropped silently; no
// client is waiting on the expiry.
func (u *gameUsecase) PhaseExpired(ctx context.Context, roomID string, phase domain.Status) {
	var err error

	switch phase {
	case domain.StatusQuestioning:
		err = u.expireQuestioning(ctx, roomID)
	case domain.StatusVoting:
		err = u.expireVoting(ctx, roomID)
	case domain.StatusReveal:
		err = u.expireReveal(ctx, roomID)
	default:
		return
	}

	if err == nil {
		return
	}
	if errors.Is(err, domain.ErrRoomNotFound) || errors.Is(err, domain.ErrInvalidPhase) {
		slog.Debug(
			"dropped stale phase expiry",
			slog.String(constant.RoomID, roomID),
			slog.String(constant.Phase, string(phase)),
		)
		return
	}

	slog.Error(
		"phase expiry",
		slog.Any(constant.Error, err),
		slog.String(constant.RoomID, roomID),
		slog.String(constant.Phase, string(phase)),
	)
}

func (u *gameUsecase) expireQuestioning(ctx context.Context, roomID string) error {
	_, err := u.update(ctx, roomID, func(room *domain.Room) error {
		return room.BeginVoting()
	}, func(room *domain.Room) {
		u.broadcast(room, events.EventVotingStarted, map[string]any{"room": room})
		u.startVotingTimer(room)
	})

	return err
}

func (u *gameUsecase) expireVoting(ctx context.Context, roomID string) error {
	_, err := u.update(ctx, roomID, func(room *domain.Room) error {
		return room.BeginReveal()
	}, u.announceReveal)

	return err
}

func (u *gameUsecase) expireReveal(ctx context.Context, roomID string) error {
	_, err := u.update(ctx, roomID, func(room *domain.Room) error {
		_, err := room.AdvanceRound()
		return err
	}, func(room *domain.Room) {
		metric.IncrementRoundsPlayed()
		u.announceRoundState(room)
	})

	return err
}
