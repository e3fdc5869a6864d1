package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"travelshot/internal/bootstrap"
	"travelshot/internal/http/handlers"
	httpapi "travelshot/internal/http/httpapi"
	"travelshot/internal/infra"
	"travelshot/internal/infra/google"
	"travelshot/internal/trigger"
)

func main() {
	infra.LoadEnvFiles()
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("component", "api").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: open runtime failed")
	}
	defer rt.Close()

	app := handlers.NewApp(rt.Jobs, rt.Store, logger)
	app.MaxUploadBytes = cfg.MaxUploadBytes
	app.Ready = rt.Ready

	g, gctx := errgroup.WithContext(ctx)

	if cfg.EmbeddedWorker {
		orch, err := rt.Orchestrator(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: build pipeline failed")
		}
		dispatcher, source := rt.Trigger(orch)
		app.Events = dispatcher
		g.Go(func() error {
			return bootstrap.RunTrigger(gctx, dispatcher, source)
		})
		logger.Info().Int("max_concurrent", cfg.MaxConcurrentJobs).Msg("api: embedded worker enabled")
	} else if rt.Runner != nil {
		app.Events = trigger.NewPGNotifier(rt.Runner)
	}

	opts := httpapi.Options{
		AllowedOrigins:      cfg.CORSAllowedOrigins,
		SubmitRatePerMinute: cfg.SubmitRatePerMinute,
	}
	if cfg.EventsAudience != "" {
		opts.EventVerifier = google.NewVerifier(cfg.EventsAudience, cfg.EventsEmail, "")
	}
	router := httpapi.NewRouter(app, opts)
	server := infra.NewHTTPServer(cfg, router)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr()).Str("backends", rt.String()).Msg("api: listening")
		return server.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("api: stopped with error")
		return
	}
	logger.Info().Msg("api: stopped")
}
