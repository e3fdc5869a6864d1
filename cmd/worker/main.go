package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"travelshot/internal/bootstrap"
	"travelshot/internal/infra"
)

func main() {
	infra.LoadEnvFiles()
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("component", "worker").Logger()

	if cfg.RecordStore == infra.RecordStoreMemory {
		logger.Fatal().Msg("worker: memory record store only works in the api process; set RECORD_STORE=postgres")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: open runtime failed")
	}
	defer rt.Close()

	orch, err := rt.Orchestrator(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: build pipeline failed")
	}
	dispatcher, source := rt.Trigger(orch)

	logger.Info().
		Str("backends", rt.String()).
		Int("max_concurrent", cfg.MaxConcurrentJobs).
		Dur("job_timeout", cfg.JobTimeout).
		Msg("worker: started")

	if err := bootstrap.RunTrigger(ctx, dispatcher, source); err != nil {
		logger.Error().Err(err).Msg("worker: stopped with error")
		return
	}
	logger.Info().Msg("worker: stopped")
}
