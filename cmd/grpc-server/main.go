package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"colortrainer/internal/app"
	"colortrainer/internal/grpcserver"
	"colortrainer/internal/reconcile"
	"colortrainer/internal/subtype"
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

	db, _, err := app.OpenDB(cfg.Database, log)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	listener, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Fatal("grpc listen failed", zap.Error(err))
	}

	engine := reconcile.NewEngine(
		app.NewHubClient(cfg.Hub, log),
		app.NewStore(db),
		reconcile.WithLogger(log.Named("sync")),
	)
	svc := grpcserver.NewServer(engine, subtype.NewRepo(db), log.Named("grpc"))

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcserver.LoggingInterceptor(log.Named("grpc")),
		grpcserver.OperatorInterceptor(app.NewTokens(cfg.Auth)),
	))
	grpcserver.RegisterHubSyncServer(grpcServer, svc)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		grpcServer.GracefulStop()
	}()

	log.Info("gRPC server listening", zap.String("addr", cfg.GRPC.Addr))
	if err := grpcServer.Serve(listener); err != nil {
		log.Fatal("grpc server stopped", zap.Error(err))
	}
}
