package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cimhub-go/internal/config"
	"cimhub-go/internal/database"
	"cimhub-go/internal/graph"
	"cimhub-go/internal/logger"
	"cimhub-go/internal/routes"
	"cimhub-go/internal/services"
	"cimhub-go/internal/xfmr"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	mode, err := xfmr.ParseReactanceMode(cfg.ReactanceMode)
	if err != nil {
		logr.Fatal("invalid reactance mode", zap.Error(err))
	}

	var db *bun.DB
	if cfg.RowSource == "postgres" || cfg.AuthEnabled {
		db, err = database.New(cfg.DatabaseURL, cfg)
		if err != nil {
			logr.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
	}

	var src services.RowSource
	switch cfg.RowSource {
	case "postgres":
		src = services.NewPostgresSource(db)
	case "graph":
		client, err := graph.NewClient(graph.Config{
			Host:     cfg.GraphHost,
			Port:     cfg.GraphPort,
			Username: cfg.GraphUsername,
			Password: cfg.GraphPassword,
		}, logr)
		if err != nil {
			logr.Fatal("failed to create graph client", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err = client.VerifyConnectivity(ctx)
		cancel()
		if err != nil {
			logr.Fatal("failed to reach graph database", zap.Error(err))
		}
		defer client.Close(context.Background())
		src = graph.NewSource(client)
	default:
		logr.Fatal("unknown row source", zap.String("row_source", cfg.RowSource))
	}

	exportSvc := services.NewExportService(src, cfg.RowSource, cfg.ExportWorkers, xfmr.Options{Reactance: mode}, logr)
	r := routes.NewRouter(db, exportSvc, cfg, logr)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port), zap.String("row_source", cfg.RowSource))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	logr.Info("server exited gracefully")
}
