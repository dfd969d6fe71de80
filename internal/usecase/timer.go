package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain/events"
)

// PhaseExpirer is told when a phase countdown ran out. The callee
// re-fetches the room and no-ops if the phase already moved on.
type PhaseExpirer interface {
	PhaseExpired(ctx context.Context, roomID string, phase domain.Status)
}

// TimerCoordinator drives the per-room phase countdowns. One timer per
// room at most; starting a phase replaces whatever countdown the room
// had, and ticks are broadcast-only so they never block a transition.
type TimerCoordinator struct {
	conns Notifier

	// tick is one countdown second; tests shrink it.
	tick time.Duration

	mu      sync.Mutex
	timers  map[string]*phaseTimer
	expirer PhaseExpirer
}

type phaseTimer struct {
	phase  domain.Status
	cancel chan struct{}
}

func NewTimerCoordinator(conns Notifier) *TimerCoordinator {
	return &TimerCoordinator{
		conns:  conns,
		tick:   time.Second,
		timers: make(map[string]*phaseTimer),
	}
}

// SetExpirer breaks the construction cycle with the game usecase.
func (t *TimerCoordinator) SetExpirer(e PhaseExpirer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expirer = e
}

// StartPhase arms the countdown for a phase just entered, cancelling
// the room's previous countdown if one is still pending.
func (t *TimerCoordinator) StartPhase(roomID string, phase domain.Status, seconds int, currentPlayerID string, playerIDs []string) {
	id := domain.NormalizeID(roomID)

	t.mu.Lock()
	if prev, ok := t.timers[id]; ok {
		close(prev.cancel)
	}
	pt := &phaseTimer{phase: phase, cancel: make(chan struct{})}
	t.timers[id] = pt
	t.mu.Unlock()

	go t.run(id, pt, phase, seconds, currentPlayerID, playerIDs)
}

// Cancel clears the room's pending countdown, if any.
func (t *TimerCoordinator) Cancel(roomID string) {
	id := domain.NormalizeID(roomID)

	t.mu.Lock()
	defer t.mu.Unlock()

	if pt, ok := t.timers[id]; ok {
		close(pt.cancel)
		delete(t.timers, id)
	}
}

func (t *TimerCoordinator) run(roomID string, pt *phaseTimer, phase domain.Status, seconds int, currentPlayerID string, playerIDs []string) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	remaining := seconds
	for {
		select {
		case <-pt.cancel:
			return
		case <-ticker.C:
			remaining--
			t.broadcastTick(phase, remaining, currentPlayerID, playerIDs)

			if remaining <= 0 {
				if !t.clear(roomID, pt) {
					// A newer countdown replaced this one mid-tick.
					return
				}

				if expirer := t.currentExpirer(); expirer != nil {
					expirer.PhaseExpired(context.Background(), roomID, phase)
				}
				return
			}
		}
	}
}

func (t *TimerCoordinator) broadcastTick(phase domain.Status, remaining int, currentPlayerID string, playerIDs []string) {
	payload := events.TimerUpdatePayload{SecondsLeft: remaining}

	var eventType string
	switch phase {
	case domain.StatusQuestioning:
		eventType = events.EventTimerUpdate
		payload.CurrentPlayerID = currentPlayerID
	case domain.StatusVoting:
		eventType = events.EventVotingTimerUpdate
	case domain.StatusReveal:
		eventType = events.EventResultTimerUpdate
	default:
		return
	}

	t.conns.WriteMany(playerIDs, events.Event{Type: eventType, Data: payload})
}

// clear removes the entry only when it is still the room's current
// timer, so an expiry cannot cancel its own replacement.
func (t *TimerCoordinator) clear(roomID string, pt *phaseTimer) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if current, ok := t.timers[roomID]; ok && current == pt {
		delete(t.timers, roomID)
		return true
	}
	return false
}

func (t *TimerCoordinator) currentExpirer() PhaseExpirer {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.expirer
}
