package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"javopos/internal/config"
	"javopos/internal/infra"
	"javopos/internal/ledger"
	"javopos/internal/repository"
	"javopos/internal/router"
	"javopos/internal/store"
	"javopos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The dispatcher enqueues audit and alert jobs; the worker pool drains
	// them. Wired here (composition root) so the pool has full access to
	// all infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)
	auditRepo := repository.NewAuditRepository(db)

	workerHandlers := &worker.WorkerHandlers{
		Audit: worker.NewAuditWorker(auditRepo),
		Alert: worker.NewAlertWorker(mailer, smtpCB, cfg.PriceAlertEmail),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	// Adjustment ledger — history lives in a flat file, current prices in
	// postgres. The scheduler goroutine shares the same ledger instance.
	productRepo := repository.NewProductRepository(db)
	led := ledger.New(ledger.Config{
		Products:  productRepo,
		Store:     store.NewAdjustmentFile(cfg.AdjustmentsFile),
		Publisher: dispatcher,
	})

	worker.StartPriceScheduler(ctx, worker.SchedulerConfig{
		Ledger:   led,
		Interval: cfg.SchedulerInterval(),
	})

	r := router.New(cfg, db, rdb, led)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("javopos backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
