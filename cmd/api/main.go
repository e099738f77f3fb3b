package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/tweet-service/internal/config"
	"github.com/Dan9191/tweet-service/internal/feed"
	"github.com/Dan9191/tweet-service/internal/handler"
	"github.com/Dan9191/tweet-service/internal/repository"
	"github.com/Dan9191/tweet-service/internal/scheduler"
	"github.com/Dan9191/tweet-service/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeStore()

	// Initialize layers
	svc := service.NewService(store, logger, cfg)
	h := handler.NewHandler(svc, logger, feed.Channel{
		Title:       cfg.FeedTitle,
		Link:        cfg.FeedLink,
		Description: "Most recent posts",
	})
	r := handler.NewRouter(h, svc)

	var sched *scheduler.Scheduler
	if cfg.SweepEnabled() {
		sched, err = scheduler.New(cfg.SweepSchedule, svc, logger)
		if err != nil {
			logger.Fatalf("Failed to create scheduler: %v", err)
		}
		sched.Start()
	} else if cfg.SweepSchedule != "" {
		logger.Info("Orphan comment sweep disabled, REQUIRE_PARENT_POST is off")
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}

// openStore returns the configured store and a function releasing it
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (service.Store, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := repository.Open(openCtx, cfg.DBDriver, cfg.DBConn)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewRepository(db)

	if cfg.Migrate {
		if err := repo.Migrate(openCtx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Database schema is up to date")
	}

	return repo, func() {
		if err := db.Close(); err != nil {
			logger.Errorf("Failed to close database: %v", err)
		}
	}, nil
}
