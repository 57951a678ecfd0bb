package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/Fanyuxuan0817/StudySync/internal/application/config"
	"github.com/Fanyuxuan0817/StudySync/internal/application/constant"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/adapters/memory"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/adapters/postgres"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/adapters/postgres/repository"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/ports/http/handlers"
	"github.com/Fanyuxuan0817/StudySync/internal/infra/ports/http/server"
	"github.com/Fanyuxuan0817/StudySync/internal/usecase"
)

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: slog.LevelInfo},
			),
		),
	)

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	slog.Info("running app", slog.Bool("debug", cfg.Debug))

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		slog.Error("connect to postgres", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	defer dbConn.Close()

	userRepo := repository.NewUserRepo(dbConn)
	groupRepo := repository.NewGroupRepo(dbConn)
	roomRepo := repository.NewRoomRepo(dbConn)
	memberRepo := repository.NewMemberRepo(dbConn)
	joinRequestRepo := repository.NewJoinRequestRepo(dbConn)
	messageRepo := repository.NewMessageRepo(dbConn)

	registry := memory.NewConnectionRegistry()

	userUsecase := usecase.NewUserUsecase([]byte(cfg.JWTSecret), userRepo)
	roomUsecase := usecase.NewRoomUsecase(roomRepo, memberRepo, joinRequestRepo, userRepo, groupRepo)
	messageUsecase := usecase.NewMessageUsecase(roomRepo, memberRepo, messageRepo)
	sessionUsecase := usecase.NewSessionUsecase(userUsecase, roomRepo, memberRepo, messageUsecase, registry)

	authHandler := handlers.NewAuthHandler(userUsecase)
	roomHandler := handlers.NewRoomHandler(roomUsecase)
	messageHandler := handlers.NewMessageHandler(messageUsecase)
	wsHandler := handlers.NewWebSocketHandler(cfg, sessionUsecase)

	echoSrv := server.New(cfg, authHandler, roomHandler, messageHandler, wsHandler)

	srvCh := make(chan error, 1)
	go func() {
		srvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server due to context cancel")
	case err = <-srvCh:
		slog.Error("HTTP server failed", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.Any(constant.Error, err))
	}
}
