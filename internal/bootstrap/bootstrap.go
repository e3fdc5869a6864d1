// Package bootstrap wires configuration into the concrete stores, providers
// and the pipeline shared by the api and worker binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"travelshot/internal/adapter/repo"
	"travelshot/internal/domain"
	"travelshot/internal/infra"
	"travelshot/internal/infra/credentials"
	"travelshot/internal/pipeline"
	"travelshot/internal/providers/genai"
	"travelshot/internal/providers/image"
	"travelshot/internal/sqlinline"
	"travelshot/internal/storage"
	"travelshot/internal/trigger"
)

// Runtime holds everything built from one Config.
type Runtime struct {
	Config *infra.Config
	Logger infra.Logger

	Pool   *pgxpool.Pool
	Runner *infra.SQLRunner
	Jobs   domain.PhotoJobRepository
	Store  pipeline.ObjectStore

	memory *repo.MemoryStore
}

// Open connects the record and object stores. Close releases them.
func Open(ctx context.Context, cfg *infra.Config, logger infra.Logger) (*Runtime, error) {
	rt := &Runtime{Config: cfg, Logger: logger}

	switch cfg.RecordStore {
	case infra.RecordStoreMemory:
		rt.memory = repo.NewMemoryStore()
		rt.Jobs = rt.memory
	default:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		rt.Pool = pool
		rt.Runner = infra.NewSQLRunner(pool, logger)
		if cfg.AutoMigrate {
			for _, script := range []string{sqlinline.QCreatePhotoJobsSchema, sqlinline.QCreateIntegrationTokensSchema} {
				if err := infra.Migrate(ctx, rt.Runner, script); err != nil {
					pool.Close()
					return nil, err
				}
			}
			logger.Info().Msg("bootstrap: schema applied")
		}
		rt.Jobs = repo.NewPhotoJobRepository(rt.Runner)
	}

	store, err := openObjectStore(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Store = store
	return rt, nil
}

func openObjectStore(ctx context.Context, cfg *infra.Config) (pipeline.ObjectStore, error) {
	if cfg.ObjectStore == infra.ObjectStoreS3 {
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			ForcePathStyle:  cfg.S3ForcePathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	}
	return storage.NewFileStore(cfg.StoragePath)
}

// Ready pings the database when there is one.
func (rt *Runtime) Ready(ctx context.Context) error {
	if rt.Pool == nil {
		return nil
	}
	return rt.Pool.Ping(ctx)
}

// Close releases the pool and memory subscriptions.
func (rt *Runtime) Close() {
	if rt.memory != nil {
		rt.memory.Close()
	}
	if rt.Pool != nil {
		rt.Pool.Close()
	}
}

// Orchestrator builds the providers and the pipeline state machine.
func (rt *Runtime) Orchestrator(ctx context.Context) (*pipeline.Orchestrator, error) {
	cfg := rt.Config

	var creds *credentials.Store
	if rt.Runner != nil {
		creds = credentials.NewStore(rt.Runner)
	}
	apiKey, err := creds.ResolveGeminiAPIKey(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	logger := rt.Logger
	client, err := genai.NewClient(genai.Options{
		APIKey:            apiKey,
		BaseURL:           cfg.GeminiBaseURL,
		VisionModel:       cfg.GeminiVisionModel,
		ImageModel:        cfg.GeminiImageModel,
		Logger:            &logger,
		RequestsPerMinute: cfg.GeminiRPM,
	})
	if err != nil {
		return nil, err
	}

	backends := image.Backends{Gemini: client}
	if cfg.ImageProvider == infra.ImageProviderImagen {
		imagen, err := image.NewImagenGenerator(ctx, image.ImagenOptions{
			ProjectID: cfg.VertexProjectID,
			Location:  cfg.VertexLocation,
			Model:     cfg.VertexModel,
			Logger:    &logger,
		})
		if err != nil {
			return nil, err
		}
		backends.Imagen = imagen
	}
	generator, err := image.New(cfg.ImageProvider, backends)
	if err != nil {
		return nil, err
	}

	pcfg := pipeline.DefaultConfig()
	pcfg.VariantCount = cfg.VariantCount
	pcfg.Spacing = cfg.VariantSpacing
	pcfg.Retry.MaxAttempts = cfg.RetryMaxAttempts
	pcfg.Retry.InitialDelay = cfg.RetryInitialDelay
	pcfg.PromptStyle = cfg.PromptStyle

	return pipeline.NewOrchestrator(pcfg, pipeline.Deps{
		Jobs:      rt.Jobs,
		Store:     rt.Store,
		Fetcher:   storage.NewHTTPFetcher(cfg.ReferenceFetchTimeout, cfg.MaxUploadBytes),
		Vision:    client,
		Generator: generator,
		Logger:    logger,
	})
}

// Trigger returns the dispatcher for h and the event source matching the
// record store: the in-process subscription or Postgres LISTEN.
func (rt *Runtime) Trigger(h trigger.Handler) (*trigger.Dispatcher, trigger.Source) {
	cfg := rt.Config
	dispatcher := trigger.NewDispatcher(h, cfg.MaxConcurrentJobs, cfg.JobTimeout, rt.Logger)

	sweeper := trigger.NewSweeper(rt.Jobs, cfg.PendingSweepInterval, rt.Logger)
	if rt.memory != nil {
		return dispatcher, trigger.NewMemorySource(rt.memory.Subscribe(64), sweeper)
	}
	return dispatcher, trigger.NewPGSource(cfg.DatabaseURL, sweeper, rt.Logger)
}

// RunTrigger feeds src into d until ctx is done, then waits for in-flight
// jobs to finish.
func RunTrigger(ctx context.Context, d *trigger.Dispatcher, src trigger.Source) error {
	keys := make(chan domain.JobKey)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(keys)
		return src.Run(gctx, keys)
	})
	g.Go(func() error {
		return d.Run(gctx, keys)
	})
	err := g.Wait()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// String describes the configured backends for the startup log line.
func (rt *Runtime) String() string {
	return fmt.Sprintf("records=%s objects=%s images=%s", rt.Config.RecordStore, rt.Config.ObjectStore, rt.Config.ImageProvider)
}
