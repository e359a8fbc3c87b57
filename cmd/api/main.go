package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type store interface {
	book.Repository
	pinger
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Format: cfg.LogFormat,
		Level:  logger.ParseLevel(cfg.LogLevel),
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info("database connection OK", "driver", cfg.StoreDriver, "dsn", redactDSN(cfg.DatabaseDSN))

	service := book.NewService(repo, log)
	router := newRouter(book.NewHTTPHandler(service), repo)
	limiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withMiddleware(router, cfg, log, limiter),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore connects the repository selected by STORE_DRIVER and checks the
// database answers before the server starts.
func openStore(ctx context.Context, cfg config.Config) (store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverGorm:
		db, err := book.OpenGorm(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := book.NewGormRepo(db, cfg.DBTimeout)
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		if err := pingStore(ctx, repo); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(cfg.DatabaseDSN), err)
		}
		return repo, closeFn, nil
	default:
		pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot create db pool: %w", err)
		}
		repo := book.NewPostgresRepo(pool, cfg.DBTimeout)
		if err := pingStore(ctx, repo); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(cfg.DatabaseDSN), err)
		}
		return repo, pool.Close, nil
	}
}

func pingStore(ctx context.Context, p pinger) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.Ping(pingCtx)
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
