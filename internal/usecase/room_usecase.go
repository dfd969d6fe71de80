package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vanshsehgal08/Lie-Hard/internal/application/constant"
	"github.com/vanshsehgal08/Lie-Hard/internal/application/metric"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain/events"
)

const createRoomAttempts = 5

// RoomUsecase owns room lifecycle: creation, membership, settings,
// chat and the voice-signal relay.
type RoomUsecase interface {
	CreateRoom(ctx context.Context, playerID, playerName string) (*domain.Room, error)
	JoinRoom(ctx context.Context, playerID, playerName, roomID string) (*domain.Room, error)
	LeaveRoom(ctx context.Context, playerID, roomID string) error
	Disconnect(ctx context.Context, playerID string)
	RoomState(ctx context.Context, roomID string) (*domain.Room, error)
	UpdateSettings(ctx context.Context, playerID, roomID string, patch domain.SettingsPatch) error
	Chat(ctx context.Context, playerID, roomID, text string) error
	VoiceSignal(ctx context.Context, playerID, roomID, targetPlayerID string, payload json.RawMessage) error
	OpenRooms(ctx context.Context) ([]*domain.Room, error)
}

type roomUsecase struct {
	*State
}

func NewRoomUsecase(state *State) RoomUsecase {
	return &roomUsecase{State: state}
}

func (u *roomUsecase) CreateRoom(ctx context.Context, playerID, playerName string) (*domain.Room, error) {
	for range createRoomAttempts {
		room := domain.NewRoom(randomCode(roomCodeLength), playerID, playerName)

		err := u.repo.Create(ctx, room)
		if errors.Is(err, domain.ErrRoomExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create room: %w", err)
		}

		metric.IncrementActiveRooms()

		u.conns.Write(playerID, events.Event{Type: events.EventRoomJoined, Data: room})

		return room, nil
	}

	return nil, fmt.Errorf("create room: %w", domain.ErrRoomExists)
}

func (u *roomUsecase) JoinRoom(ctx context.Context, playerID, playerName, roomID string) (*domain.Room, error) {
	var autoStarted bool

	room, err := u.update(ctx, roomID, func(room *domain.Room) error {
		var err error
		autoStarted, err = room.AddPlayer(playerID, playerName)
		return err
	}, func(room *domain.Room) {
		u.conns.Write(playerID, events.Event{Type: events.EventRoomJoined, Data: room})
		u.broadcast(room, events.EventPlayerJoined, events.PlayerJoinedPayload{
			RoomID:  room.ID,
			Player:  room.Player(playerID),
			Players: room.Players,
		})

		if autoStarted {
			u.broadcast(room, events.EventStorySubmissionStarted, map[string]any{"room": room})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("join room: %w", err)
	}

	return room, nil
}

func (u *roomUsecase) LeaveRoom(ctx context.Context, playerID, roomID string) error {
	var dep *domain.Departure

	_, _, err := u.mutate(ctx, roomID, func(room *domain.Room) (bool, error) {
		var err error
		dep, err = room.RemovePlayer(playerID)
		if err != nil {
			return false, err
		}
		return dep.Empty, nil
	}, func(room *domain.Room) {
		if dep.Empty {
			u.timers.Cancel(room.ID)
			metric.DecrementActiveRooms()
			u.conns.Write(playerID, events.Event{
				Type: events.EventRoomClosed,
				Data: events.RoomClosedPayload{Message: "Room has been closed."},
			})
			return
		}

		u.broadcast(room, events.EventPlayerLeft, events.PlayerLeftPayload{
			PlayerID:   dep.PlayerID,
			PlayerName: dep.PlayerName,
			Players:    room.Players,
			HostID:     room.HostID,
		})

		switch {
		case dep.RoundAdvanced:
			u.announceRoundState(room)
		case dep.SubmissionComplete:
			metric.IncrementGamesStarted()
			u.broadcast(room, events.EventGameStarted, map[string]any{"room": room})
			u.startQuestioningTimer(room)
		case dep.RevealStarted:
			u.announceReveal(room)
		}
	})
	if err != nil {
		return fmt.Errorf("leave room: %w", err)
	}

	return nil
}

// Disconnect mirrors the explicit leave path for every room the player
// is a member of.
func (u *roomUsecase) Disconnect(ctx context.Context, playerID string) {
	rooms, err := u.repo.List(ctx)
	if err != nil {
		slog.Error("list rooms on disconnect", slog.Any(constant.Error, err), slog.String(constant.PlayerID, playerID))
		return
	}

	for _, room := range rooms {
		if room.Player(playerID) == nil {
			continue
		}

		if err := u.LeaveRoom(ctx, playerID, room.ID); err != nil && !errors.Is(err, domain.ErrNotInRoom) {
			slog.Error(
				"remove disconnected player",
				slog.Any(constant.Error, err),
				slog.String(constant.RoomID, room.ID),
				slog.String(constant.PlayerID, playerID),
			)
		}
	}
}

func (u *roomUsecase) RoomState(ctx context.Context, roomID string) (*domain.Room, error) {
	room, err := u.repo.Get(ctx, domain.NormalizeID(roomID))
	if err != nil {
		return nil, fmt.Errorf("get room state: %w", err)
	}

	return room, nil
}

func (u *roomUsecase) UpdateSettings(ctx context.Context, playerID, roomID string, patch domain.SettingsPatch) error {
	_, err := u.update(ctx, roomID, func(room *domain.Room) error {
		return room.UpdateSettings(playerID, patch)
	}, func(room *domain.Room) {
		u.broadcast(room, events.EventSettingsUpdated, map[string]any{"room": room})
	})
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	return nil
}

func (u *roomUsecase) Chat(ctx context.Context, playerID, roomID, text string) error {
	var msg domain.ChatMessage

	_, err := u.update(ctx, roomID, func(room *domain.Room) error {
		p := room.Player(playerID)
		if p == nil {
			return domain.ErrNotInRoom
		}

		msg = domain.ChatMessage{
			ID:        uuid.NewString(),
			PlayerID:  p.ID,
			Name:      p.Name,
			Text:      text,
			Timestamp: time.Now().UTC(),
		}

		return room.AppendChat(msg)
	}, func(room *domain.Room) {
		u.broadcast(room, events.EventChatMessage, msg)
	})
	if err != nil {
		return fmt.Errorf("chat message: %w", err)
	}

	return nil
}

// VoiceSignal relays an opaque payload from one member to another. The
// server never interprets it.
func (u *roomUsecase) VoiceSignal(ctx context.Context, playerID, roomID, targetPlayerID string, payload json.RawMessage) error {
	room, err := u.repo.Get(ctx, domain.NormalizeID(roomID))
	if err != nil {
		return fmt.Errorf("voice signal: %w", err)
	}

	if !room.Settings.AllowVoiceChat {
		return domain.NewValidationError("voice chat is disabled in this room")
	}
	if room.Player(playerID) == nil || room.Player(targetPlayerID) == nil {
		return domain.ErrNotInRoom
	}

	u.conns.Write(targetPlayerID, events.Event{
		Type: events.EventVoiceSignal,
		Data: events.VoiceSignalPayload{FromID: playerID, Payload: payload},
	})

	return nil
}

func (u *roomUsecase) OpenRooms(ctx context.Context) ([]*domain.Room, error) {
	rooms, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	open := make([]*domain.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Open() {
			open = append(open, room)
		}
	}

	return open, nil
}
