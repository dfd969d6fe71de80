package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/vanshsehgal08/Lie-Hard/internal/application/config"
	"github.com/vanshsehgal08/Lie-Hard/internal/application/constant"
	"github.com/vanshsehgal08/Lie-Hard/internal/application/metric"
	"github.com/vanshsehgal08/Lie-Hard/internal/domain"
	"github.com/vanshsehgal08/Lie-Hard/internal/infra/adapters/memory"
	"github.com/vanshsehgal08/Lie-Hard/internal/infra/adapters/postgres"
	"github.com/vanshsehgal08/Lie-Hard/internal/infra/adapters/postgres/repository"
	"github.com/vanshsehgal08/Lie-Hard/internal/infra/ports/http/handlers"
	"github.com/vanshsehgal08/Lie-Hard/internal/infra/ports/http/server"
	"github.com/vanshsehgal08/Lie-Hard/internal/usecase"
)

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: logLevel},
			),
		),
	)

	slog.Info("Running app", slog.Bool("debug", cfg.Debug), slog.String("store", cfg.Store))

	var roomRepo domain.RoomRepository

	switch cfg.Store {
	case config.StorePostgres:
		dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
		if err != nil {
			slog.Error("connect to postgres", slog.Any(constant.Error, err))
			os.Exit(1)
		}
		defer dbConn.Close()

		roomRepo = repository.NewRoomRepo(dbConn)
	default:
		roomRepo = memory.NewRoomRepository()
	}

	connRepo := memory.NewConnectionRepository()
	timers := usecase.NewTimerCoordinator(connRepo)

	state := usecase.NewState(roomRepo, connRepo, timers)
	roomUsecase := usecase.NewRoomUsecase(state)
	gameUsecase := usecase.NewGameUsecase(state)

	// Expired countdowns feed back into the game usecase.
	timers.SetExpirer(gameUsecase)

	roomHandler := handlers.NewRoomHandler(roomUsecase)
	iceHandler := handlers.NewIceHandler(cfg)
	wsHandler := handlers.NewWebSocketHandler(cfg, connRepo, roomUsecase, gameUsecase)

	echoSrv := server.New(roomHandler, iceHandler, wsHandler)

	metricsSrv := metric.NewServer()

	echoSrvCh := make(chan error, 1)
	metricsSrvCh := make(chan error, 1)

	go func() {
		echoSrvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	go func() {
		metricsSrvCh <- metricsSrv.Start(":" + cfg.MetricPort)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down servers due to context cancel")
	case err := <-echoSrvCh:
		slog.Error(
			"HTTP server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	case err := <-metricsSrvCh:
		slog.Error(
			"Metrics server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
	}

	if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
	}
}
