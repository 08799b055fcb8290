// Command hub-mirror serves Hub payloads from a YAML fixture file.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"colortrainer/internal/mirror"
	"colortrainer/pkg/logger"
	"colortrainer/pkg/utils"
)

func main() {
	cfg, err := utils.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config(cfg.Log))
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	fixtures, err := mirror.Load(cfg.Mirror.Fixtures)
	if err != nil {
		log.Fatal("load fixtures", zap.String("path", cfg.Mirror.Fixtures), zap.Error(err))
	}

	router := mirror.NewRouter(fixtures,
		logger.RequestID(),
		logger.GinMiddleware(log.Named("mirror")),
		logger.Recovery(log),
	)
	srv := &http.Server{Addr: cfg.Mirror.Addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info("hub mirror listening",
			zap.String("addr", cfg.Mirror.Addr),
			zap.Int("routes", len(fixtures.Routes)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("mirror error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
