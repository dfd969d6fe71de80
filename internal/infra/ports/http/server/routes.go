package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vanshsehgal08/Lie-Hard/internal/infra/ports/http/handlers"
	"github.com/vanshsehgal08/Lie-Hard/internal/infra/ports/http/middleware"
)

func New(
	roomHandler *handlers.RoomHandler,
	iceHandler *handlers.IceHandler,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())

	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	e.GET("/ws", wsHandler.Handle)

	v1 := e.Group("/api/v1")
	{
		v1.GET("/rooms", roomHandler.ListRoomsHandler)
		v1.GET("/rooms/:id", roomHandler.GetRoomHandler)

		v1.GET("/ice", iceHandler.IceServers)
	}

	return e
}
