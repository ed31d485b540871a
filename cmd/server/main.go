package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/draftboard/draftboard/internal/api/http"
	"github.com/draftboard/draftboard/internal/application/collab"
	"github.com/draftboard/draftboard/internal/config"
	"github.com/draftboard/draftboard/internal/console"
	"github.com/draftboard/draftboard/internal/domain/draft"
	"github.com/draftboard/draftboard/internal/infrastructure/checkpoint"
	"github.com/draftboard/draftboard/internal/infrastructure/postgres"
	"github.com/draftboard/draftboard/internal/transport/tcp"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, "internal/migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	directory := postgres.NewDirectoryRepository(pool)

	store := checkpoint.NewFileStore(cfg.DraftFile, logger)
	if err := store.Ensure(); err != nil {
		log.Fatalf("checkpoint error: %v", err)
	}
	draftLog := draft.NewLog(store)
	if err := draftLog.Restore(ctx); err != nil {
		log.Fatalf("draft history error: %v", err)
	}
	logger.Info().Int("committed", draftLog.CommittedLen()).Msg("draft history loaded")

	collabSvc := collab.NewService(draftLog, directory, cfg.ShutdownGrace, logger)

	tcpServer := tcp.NewServer(collabSvc, logger)
	if err := tcpServer.Listen(cfg.ListenAddr); err != nil {
		log.Fatalf("listen error: %v", err)
	}

	adminServer := &http.Server{
		Addr:         cfg.AdminAddr,
		Handler:      httpapi.NewServer(collabSvc, directory).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := tcpServer.Serve(ctx); err != nil {
			logger.Fatal().Err(err).Msg("tcp server failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", cfg.AdminAddr).Msg("admin server started")
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("admin server failed")
		}
	}()

	// Operator console: "stop server" is refused while a client is editing.
	stopped := make(chan struct{})
	go func() {
		console.New(os.Stdin, func() error {
			if err := collabSvc.Shutdown(ctx, false); err != nil {
				return err
			}
			close(stopped)
			return nil
		}, logger).Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		// OS-level termination cannot be refused; an active editor's
		// uncommitted work is discarded.
		if err := collabSvc.Shutdown(ctx, true); err != nil {
			logger.Error().Err(err).Msg("forced shutdown incomplete")
		}
	case <-stopped:
	}

	tcpServer.Shutdown()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = adminServer.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
