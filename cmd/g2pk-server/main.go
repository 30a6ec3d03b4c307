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

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"

	"github.com/jusunglee/g2pk/internal/db"
	"github.com/jusunglee/g2pk/internal/db/postgres"
	"github.com/jusunglee/g2pk/internal/g2p"
	"github.com/jusunglee/g2pk/internal/logger"
	"github.com/jusunglee/g2pk/internal/metrics"
	"github.com/jusunglee/g2pk/internal/store"
	"github.com/jusunglee/g2pk/internal/web"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	_ = godotenv.Load()

	fs_ := ff.NewFlagSet("g2pk-server")

	var (
		port           = fs_.Int64Long("port", 3000, "HTTP server port")
		databaseURL    = fs_.StringLong("database-url", "", "sqlite:// or postgres:// URL for stored transcriptions")
		allowedOrigins = fs_.StringLong("allowed-origins", "", "Comma-separated list of allowed CORS origins")
		dataDir        = fs_.StringLong("data-dir", "", "Load rule tables and dictionaries from a directory")
	)

	if err := ff.Parse(fs_, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs_))
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.Init()

	var (
		engine *g2p.Engine
		err    error
	)
	if *dataDir != "" {
		engine, err = g2p.LoadFS(os.DirFS(*dataDir), log)
	} else {
		engine, err = g2p.Load(log)
	}
	if err != nil {
		return fmt.Errorf("loading engine: %w", err)
	}

	ctx, cancel := context.WithCancelCause(context.Background())

	var repo db.Repository
	if *databaseURL != "" {
		repo, err = store.Open(ctx, *databaseURL)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer repo.Close()
		log.InfoContext(ctx, "opened transcription store", "postgres", store.IsPostgres(*databaseURL))
	} else {
		log.WarnContext(ctx, "no database-url, transcriptions will not be stored")
	}

	// Periodically export pgxpool stats as Prometheus gauges
	if pg, ok := repo.(*postgres.Repository); ok {
		go exportPoolStats(ctx, pg)
	}

	origins := lo.Filter(
		lo.Map(strings.Split(*allowedOrigins, ","), func(o string, _ int) string { return strings.TrimSpace(o) }),
		func(o string, _ int) bool { return o != "" },
	)

	transcriber := g2p.NewCachedTranscriber(engine, repo, log)
	router := web.NewRouter(transcriber, repo, log, origins)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.InfoContext(ctx, "received signal, shutting down gracefully", "signal", sig)
		cancel(errors.New("signal received"))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(ctx, "server shutdown error", "error", err)
		}
	}()

	log.InfoContext(ctx, "starting web server", "port", *port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func exportPoolStats(ctx context.Context, repo *postgres.Repository) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s := repo.PoolStats()
			metrics.DBPoolTotalConns.Set(float64(s.TotalConns()))
			metrics.DBPoolIdleConns.Set(float64(s.IdleConns()))
			metrics.DBPoolAcquiredConns.Set(float64(s.AcquiredConns()))
			metrics.DBPoolMaxConns.Set(float64(s.MaxConns()))
		case <-ctx.Done():
			return
		}
	}
}
