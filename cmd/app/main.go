package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"activityboard/internal/app/config"
	httpapi "activityboard/internal/app/http"
	"activityboard/internal/app/http/handler"
	"activityboard/internal/app/session"
	"activityboard/internal/board"
	"activityboard/internal/infrastructure/async"
	"activityboard/internal/infrastructure/backend"
	"activityboard/internal/infrastructure/logging"
	"activityboard/internal/infrastructure/tracing"
	"activityboard/internal/infrastructure/view"
)

const serviceName = "activityboard"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		log.Fatal("tracing setup error", zap.Error(err))
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("tracing shutdown error", zap.Error(err))
		}
	}()

	client, err := backend.NewClient(cfg.BackendURL, backend.WithTimeout(cfg.BackendTimeout))
	if err != nil {
		log.Fatal("backend client error", zap.Error(err))
	}

	eventBus := async.NewAsyncEventBus(ctx, 2, log)
	defer eventBus.Close()

	pool := async.NewWorkerPool(ctx, cfg.WorkerPoolSize, log, async.WithTaskTimeout(cfg.BackendTimeout))
	defer pool.Shutdown()

	sessions := session.NewRegistry(func(id string, page *view.Page) *board.Board {
		return board.New(client, page,
			board.WithID(id),
			board.WithLogger(log),
			board.WithEventBus(eventBus),
			board.WithFeedbackDelays(cfg.SignupFeedbackDelay, cfg.RemovalFeedbackDelay),
		)
	}, cfg.SessionTTL, log)
	go sessions.Run(ctx, time.Minute)

	h := handler.New(sessions, pool, log)
	router := httpapi.NewRouter(h, log)

	// event streams never go idle, so requests share a context that is
	// cancelled before the server shuts down
	streamCtx, stopStreams := context.WithCancel(ctx)
	defer stopStreams()

	srv := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     router,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return streamCtx },
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("backend", cfg.BackendURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down...")
	stopStreams()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
