package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/vanshsehgal08/Lie-Hard/internal/application/config"
	"github.com/vanshsehgal08/Lie-Hard/internal/application/constant"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain/events"
	"github.com/vanshsehgal08/Lie-Hard/internal/infra/adapters/memory"
	"github.com/vanshsehgal08/Lie-Hard/internal/usecase"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second

	maxMessageSize = 64 << 10
	maxNameLength  = 32
)

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	conns       memory.ConnectionRepository
	roomUsecase usecase.RoomUsecase
	gameUsecase usecase.GameUsecase
}

func NewWebSocketHandler(
	cfg *config.Config,
	conns memory.ConnectionRepository,
	roomUsecase usecase.RoomUsecase,
	gameUsecase usecase.GameUsecase,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		conns:       conns,
		roomUsecase: roomUsecase,
		gameUsecase: gameUsecase,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	name = truncateName(name, maxNameLength)

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return err
	}
	defer ws.Close()

	playerID := uuid.NewString()

	h.conns.Add(playerID, ws)
	defer func() {
		h.conns.Remove(playerID)
		h.roomUsecase.Disconnect(context.Background(), playerID)
	}()

	h.conns.Write(playerID, events.Event{
		Type: events.EventConnected,
		Data: events.ConnectedPayload{PlayerID: playerID},
	})

	ws.SetReadLimit(maxMessageSize)
	if err = ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			case <-c.Request().Context().Done():
				return
			}
		}
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error(
					"webSocket read error",
					slog.Any(constant.Error, err),
					slog.String(constant.PlayerID, playerID),
				)
			}

			return nil
		}

		msg := new(events.Message)
		if err = json.Unmarshal(raw, msg); err != nil {
			h.writeError(playerID, domain.NewValidationError("malformed message"))
			continue
		}

		if err = h.handleMessage(c.Request().Context(), playerID, name, msg); err != nil {
			h.writeError(playerID, err)
		}
	}
}

func (h *WebSocketHandler) handleMessage(
	ctx context.Context,
	playerID string,
	playerName string,
	msg *events.Message,
) error {
	switch msg.Type {
	case events.ActionCreateRoom:
		_, err := h.roomUsecase.CreateRoom(ctx, playerID, playerName)
		return err

	case events.ActionJoinRoom:
		var req events.JoinRoomRequest

		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fmt.Errorf("unmarshal join room: %w", err)
		}

		_, err := h.roomUsecase.JoinRoom(ctx, playerID, playerName, req.RoomID)
		return err

	case events.ActionGetRoomState:
		var req events.RoomRequest

		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fmt.Errorf("unmarshal room state: %w", err)
		}

		room, err := h.roomUsecase.RoomState(ctx, req.RoomID)
		if err != nil {
			return err
		}

		h.conns.Write(playerID, events.Event{Type: events.EventRoomJoined, Data: room})
		return nil

	case events.ActionUpdateSettings:
		var req events.UpdateSettingsRequest

		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fmt.Errorf("unmarshal settings: %w", err)
		}

		return h.roomUsecase.UpdateSettings(ctx, playerID, req.RoomID, req.Settings)

	case events.ActionStartGame:
		var req events.RoomRequest

		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fmt.Errorf("unmarshal start game: %w", err)
		}

		return h.gameUsecase.StartGame(ctx, playerID, req.RoomID)

	case events.ActionSubmitStories:
		var req events.SubmitStoriesRequest

		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fmt.Errorf("unmarshal stories: %w", err)
		}

		return h.gameUsecase.SubmitStories(ctx, playerID, req.RoomID, req.Stories, req.IsTruth)

	case events.ActionSubmitVote:
		var req events.SubmitVoteRequest

		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fmt.Errorf("unmarshal vote: %w", err)
		}

		return h.gameUsecase.SubmitVote(ctx, playerID, req.RoomID, req.GuessedIndex)

	case events.ActionResetGame:
		var req events.RoomRequest

		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fmt.Errorf("unmarshal reset game: %w", err)
		}

		return h.gameUsecase.ResetGame(ctx, playerID, req.RoomID)

	case events.ActionChatMessage:
		var req events.ChatMessageRequest

		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fmt.Errorf("unmarshal chat message: %w", err)
		}

		return h.roomUsecase.Chat(ctx, playerID, req.RoomID, req.Text)

	case events.ActionVoiceSignal:
		var req events.VoiceSignalRequest

		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fmt.Errorf("unmarshal voice signal: %w", err)
		}

		return h.roomUsecase.VoiceSignal(ctx, playerID, req.RoomID, req.TargetPlayerID, req.Payload)

	case events.ActionLeaveRoom:
		var req events.RoomRequest

		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fmt.Errorf("unmarshal leave room: %w", err)
		}

		return h.roomUsecase.LeaveRoom(ctx, playerID, req.RoomID)

	default:
		return domain.NewValidationError("unknown message type")
	}
}

// writeError reports a failed action to the player who sent it. Domain
// errors travel as-is; anything else is masked as a generic failure.
func (h *WebSocketHandler) writeError(playerID string, err error) {
	msg := "internal error"

	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrRoomExists),
		errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrNotInRoom),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidPhase),
		errors.Is(err, domain.ErrSelfVote):
		msg = err.Error()
	default:
		slog.Error(
			"handle message",
			slog.Any(constant.Error, err),
			slog.String(constant.PlayerID, playerID),
		)
	}

	h.conns.Write(playerID, events.Event{
		Type: events.EventRoomError,
		Data: events.RoomErrorPayload{Message: msg},
	})
}

// truncateName caps a display name at n runes, never splitting a
// multi-byte character.
func truncateName(name string, n int) string {
	runes := []rune(name)
	if len(runes) <= n {
		return name
	}
	return string(runes[:n])
}
