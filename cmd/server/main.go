package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bclick/internal/config"
	"bclick/internal/infra"
	"bclick/internal/repository"
	"bclick/internal/router"
	"bclick/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "bclick-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	shutdownTracing, err := infra.InitTracing(cfg.OTelEnabled, serviceName, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init tracing")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background work (notifications, PDFs, DLQ re-drive) is wired here so
	// the pool has every infrastructure dependency it needs.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	dispatcher := worker.NewDispatcher(rdb)

	pool := worker.NewPool(rdb, map[string]worker.Processor{
		worker.JobOrderEvent: worker.NewOrderEventWorker(
			repository.NewOrderRepository(db),
			repository.NewUserRepository(db),
			dispatcher,
			cfg.PDFStoragePath,
		),
		worker.JobEmail: worker.NewEmailWorker(mailer, mailCB),
	})
	pool.Start(ctx, cfg.WorkerPoolSize)
	worker.StartRedriveCron(ctx, worker.RedriveCronConfig{RDB: rdb, CB: mailCB})

	var h http.Handler = router.New(ctx, cfg, db, rdb, mailCB, dispatcher)
	if cfg.OTelEnabled {
		h = infra.WrapHTTP(h, serviceName)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("bclick backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("tracing shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}
