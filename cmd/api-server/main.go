package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"colortrainer/internal/app"
	"colortrainer/internal/broadcast"
	"colortrainer/internal/reconcile"
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

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := cfg.Hub.RequireHub(); err != nil {
		log.Warn("hub not configured, sync runs will fail", zap.Error(err))
	}

	db, dbPath, err := app.OpenDB(cfg.Database, log)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	events := broadcast.NewHub(log.Named("ws"))
	engine := reconcile.NewEngine(
		app.NewHubClient(cfg.Hub, log),
		app.NewStore(db),
		reconcile.WithLogger(log.Named("sync")),
		reconcile.WithPublisher(events),
	)

	router := app.NewRouter(app.RouterDeps{
		DB:        db,
		DBPath:    dbPath,
		Engine:    engine,
		Broadcast: events,
		Tokens:    app.NewTokens(cfg.Auth),
		Logger:    log,
	})

	httpSrv := &http.Server{
		Addr:              cfg.App.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP API server listening", zap.String("addr", cfg.App.Addr), zap.String("db", dbPath))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}
	events.Close()
	log.Info("server stopped")
}
