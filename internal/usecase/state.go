package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain/events"
)

// State is the shared core both usecases mutate rooms through: the
// store port, the per-room locks, the notifier and the timers.
type State struct {
	repo   domain.RoomRepository
	locks  *keyedMutex
	conns  Notifier
	timers *TimerCoordinator
}

func NewState(repo domain.RoomRepository, conns Notifier, timers *TimerCoordinator) *State {
	return &State{
		repo:   repo,
		locks:  newKeyedMutex(),
		conns:  conns,
		timers: timers,
	}
}

// mutate runs one serialized read-modify-write against a room. fn
// returns remove=true to delete the room instead of writing it back. A
// write that still lost a race with an out-of-process writer is retried
// once against a fresh read. announce, when set, runs once on success
// before the room lock is released, so each player sees snapshots in
// version order.
func (s *State) mutate(
	ctx context.Context,
	roomID string,
	fn func(room *domain.Room) (remove bool, err error),
	announce func(room *domain.Room),
) (room *domain.Room, removed bool, err error) {
	id := domain.NormalizeID(roomID)

	lock := s.locks.Lock(id)
	defer lock.Unlock()

	err = retry.Do(ctx, retry.WithMaxRetries(1, retry.NewConstant(10*time.Millisecond)), func(ctx context.Context) error {
		r, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}

		remove, err := fn(r)
		if err != nil {
			return err
		}

		if remove {
			if err := s.repo.Delete(ctx, id); err != nil {
				return err
			}
			s.locks.Forget(id)
			room, removed = r, true
			return nil
		}

		if err := s.repo.Set(ctx, r); err != nil {
			if errors.Is(err, domain.ErrStaleState) {
				return retry.RetryableError(err)
			}
			return err
		}

		room, removed = r, false
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if announce != nil {
		announce(room)
	}

	return room, removed, nil
}

// update is mutate without the delete path.
func (s *State) update(
	ctx context.Context,
	roomID string,
	fn func(room *domain.Room) error,
	announce func(room *domain.Room),
) (*domain.Room, error) {
	room, _, err := s.mutate(ctx, roomID, func(room *domain.Room) (bool, error) {
		return false, fn(room)
	}, announce)
	return room, err
}

func (s *State) broadcast(room *domain.Room, eventType string, data any) {
	s.conns.WriteMany(room.PlayerIDs(), events.Event{Type: eventType, Data: data})
}

func (s *State) startQuestioningTimer(room *domain.Room) {
	s.timers.StartPhase(room.ID, domain.StatusQuestioning, room.Settings.RoundTime, room.CurrentPlayerID, room.PlayerIDs())
}

func (s *State) startVotingTimer(room *domain.Room) {
	s.timers.StartPhase(room.ID, domain.StatusVoting, room.Settings.QuestionTime, room.CurrentPlayerID, room.PlayerIDs())
}

func (s *State) startRevealTimer(room *domain.Room) {
	s.timers.StartPhase(room.ID, domain.StatusReveal, room.Settings.ResultTime, room.CurrentPlayerID, room.PlayerIDs())
}

// announceReveal fires the reveal broadcast and its timer; scores were
// already settled inside the VOTING exit transition.
func (s *State) announceReveal(room *domain.Room) {
	s.broadcast(room, events.EventRevealResults, map[string]any{"room": room})
	s.startRevealTimer(room)
}

// announceRoundState reports where a round advance landed: a fresh
// questioning phase or the end of the game.
func (s *State) announceRoundState(room *domain.Room) {
	if room.Status == domain.StatusGameOver {
		s.timers.Cancel(room.ID)
		s.broadcast(room, events.EventGameOver, map[string]any{"room": room})
		return
	}

	s.broadcast(room, events.EventNextRound, map[string]any{"room": room})
	s.startQuestioningTimer(room)
}
