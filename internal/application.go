package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/arcade-backend/internal/config"
	"github.com/rocketscienceinc/arcade-backend/internal/repository"
	"github.com/rocketscienceinc/arcade-backend/internal/repository/storage"
	"github.com/rocketscienceinc/arcade-backend/internal/usecase"
	"github.com/rocketscienceinc/arcade-backend/internal/variant"
	"github.com/rocketscienceinc/arcade-backend/transport/rest"
	"github.com/rocketscienceinc/arcade-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type snapshotReader interface {
	GetByID(ctx context.Context, id string) ([]byte, error)
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	registry := repository.NewSessionRegistry()
	validators := variant.NewSet(variant.Options{
		DotsSize:    conf.Game.DotsSize,
		MemoryPairs: conf.Game.MemoryPairs,
	})

	scheduler := usecase.NewTimerScheduler()
	defer scheduler.Stop()

	hub := websocket.NewHub(logger)
	rules := usecase.Rules{
		WinScore:    conf.Game.WinScore,
		RevealDelay: conf.Game.RevealDelay,
	}

	var (
		snapshots snapshotReader = repository.NewMemorySnapshots(registry)
		opts      []usecase.Option
	)

	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		snapshotRepo := repository.NewSnapshotRepository(redisStorage, conf.Redis.SnapshotTTL)
		mirror := usecase.NewSnapshotMirror(logger, snapshotRepo, 0)
		go mirror.Run(ctx)

		snapshots = snapshotRepo
		opts = append(opts, usecase.WithMirror(mirror))
	}

	gameManager := usecase.NewGameManager(logger, registry, validators, hub, scheduler, rules, opts...)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewHandlers(logger, snapshots)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, hub, gameManager, conf.Socket.AllowedOrigin)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
