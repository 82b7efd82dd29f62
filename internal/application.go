package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/config"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/repository"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/transport/rest"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/transport/socket"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/usecase"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	results := repository.NewNopResultRepository()

	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		results = repository.NewResultRepository(redisStorage.Connection, conf.Redis.HistorySize)
		log.Info("Recording game results in redis", "addr", conf.Redis.GetRedisAddr())
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	broadcaster := socket.NewBroadcaster(logger, conf.Socket.WriteTimeout)
	gameManager := usecase.NewGameManager(logger, broadcaster, results, appMetrics)
	socketServer := socket.New(logger, conf.Socket, gameManager, broadcaster, appMetrics)

	if err := socketServer.Listen(); err != nil {
		return fmt.Errorf("socket server error: %w", err)
	}

	errCh := make(chan error, 2)

	var wg sync.WaitGroup
	wg.Add(2)

	// run HTTP server
	go func() {
		defer wg.Done()

		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if err := rest.New(logger, conf.HTTPPort, results, registry).Start(ctx); err != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// run game socket server
	go func() {
		defer wg.Done()

		log.Info("Starting socket server", "addr", socketServer.Addr())
		if err := socketServer.Serve(ctx); err != nil {
			errCh <- fmt.Errorf("socket server error: %w", err)
		}
	}()

	var runErr error
	select {
	case runErr = <-errCh:
		cancel()
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	wg.Wait()

	return runErr
}
