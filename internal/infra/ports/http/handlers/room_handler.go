package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vanshsehgal08/Lie-Hard/internal/application/constant"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
	"github.com/vanshsehgal08/Lie-Hard/internal/usecase"
)

// RoomHandler serves the read-only REST view of rooms. All mutation
// happens over the WebSocket.
type RoomHandler struct {
	roomUsecase usecase.RoomUsecase
}

func NewRoomHandler(roomUsecase usecase.RoomUsecase) *RoomHandler {
	return &RoomHandler{roomUsecase: roomUsecase}
}

func (h *RoomHandler) ListRoomsHandler(c echo.Context) error {
	rooms, err := h.roomUsecase.OpenRooms(c.Request().Context())
	if err != nil {
		slog.Error("list open rooms", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list rooms"})
	}

	return c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) GetRoomHandler(c echo.Context) error {
	room, err := h.roomUsecase.RoomState(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
		}

		slog.Error("get room", slog.Any(constant.Error, err), slog.String(constant.RoomID, c.Param("id")))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get room"})
	}

	return c.JSON(http.StatusOK, room)
}
