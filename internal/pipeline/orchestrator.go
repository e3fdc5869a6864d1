package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"travelshot/internal/composer"
	"travelshot/internal/descriptor"
	"travelshot/internal/domain"
	"travelshot/internal/infra"
)

// Config is resolved once at startup and fixed for the orchestrator's life.
type Config struct {
	VariantCount        int
	Spacing             time.Duration
	Retry               RetryPolicy
	DescribeInstruction string
	PromptStyle         string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		VariantCount: 4,
		Spacing:      DefaultSpacing,
		Retry:        DefaultRetryPolicy(),
		PromptStyle:  composer.StyleDetailed,
	}
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Jobs      domain.PhotoJobRepository
	Store     ObjectStore
	Fetcher   ReferenceFetcher
	Vision    Vision
	Generator ImageGenerator
	// Composer overrides the style picked by Config.PromptStyle.
	Composer composer.Composer
	Logger   infra.Logger
	// VariantOptions are forwarded to the variant generator.
	VariantOptions []VariantOption
}

// Orchestrator owns the job state machine.
type Orchestrator struct {
	jobs      domain.PhotoJobRepository
	store     ObjectStore
	fetcher   ReferenceFetcher
	describer *Describer
	composer  composer.Composer
	variants  *VariantGenerator
	total     int
	logger    infra.Logger
}

// NewOrchestrator validates deps and applies config defaults.
func NewOrchestrator(cfg Config, deps Deps) (*Orchestrator, error) {
	if deps.Jobs == nil {
		return nil, errors.New("pipeline: job repository is required")
	}
	if deps.Store == nil {
		return nil, errors.New("pipeline: object store is required")
	}
	if deps.Vision == nil {
		return nil, errors.New("pipeline: vision capability is required")
	}
	if deps.Generator == nil {
		return nil, errors.New("pipeline: image generator is required")
	}
	if cfg.VariantCount <= 0 {
		cfg.VariantCount = DefaultConfig().VariantCount
	}
	logger := deps.Logger
	comp := deps.Composer
	if comp == nil {
		comp = composer.New(cfg.PromptStyle)
	}
	opts := append([]VariantOption{WithLogger(logger)}, deps.VariantOptions...)
	return &Orchestrator{
		jobs:      deps.Jobs,
		store:     deps.Store,
		fetcher:   deps.Fetcher,
		describer: NewDescriber(deps.Vision, cfg.DescribeInstruction),
		composer:  comp,
		variants:  NewVariantGenerator(deps.Generator, deps.Store, cfg.Retry, cfg.Spacing, opts...),
		total:     cfg.VariantCount,
		logger:    logger,
	}, nil
}

// Handle processes one creation event. Records that are no longer pending
// are left alone, so redelivery is harmless. The returned error is the
// job's failure after it has been recorded, or an infrastructure error that
// prevented the job from starting.
func (o *Orchestrator) Handle(ctx context.Context, key domain.JobKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	log := o.logger.With().Str("owner_id", key.OwnerID).Str("job_id", key.JobID).Logger()

	job, err := o.jobs.Update(ctx, key, domain.JobPatch{
		ExpectStatus: domain.JobStatusPending,
		Status:       domain.JobStatusDescribing,
	})
	switch {
	case errors.Is(err, domain.ErrStaleUpdate), errors.Is(err, domain.ErrInvalidTransition):
		log.Debug().Msg("orchestrator: job not pending, skipping")
		return nil
	case errors.Is(err, domain.ErrNotFound):
		log.Warn().Msg("orchestrator: job not found, skipping")
		return nil
	case err != nil:
		return fmt.Errorf("claim job: %w", err)
	}
	log.Info().Msg("orchestrator: job started")

	if err := o.run(ctx, job, log); err != nil {
		return o.fail(ctx, key, err, log)
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, job *domain.PhotoJob, log zerolog.Logger) error {
	key := job.Key()

	ref, err := o.loadReference(ctx, job)
	if err != nil {
		return err
	}

	subject, err := o.describer.Describe(ctx, ref)
	if err != nil {
		return err
	}
	log.Info().Str("subject", subject).Msg("orchestrator: subject described")

	prefs := resolvePreferences(job.Preferences)
	prompt := o.composer.Compose(composer.Input{
		SubjectDescription: subject,
		SceneDescription:   prefs.Place,
		SceneType:          prefs.SceneType,
		TimeOfDay:          prefs.TimeOfDay,
		ShotType:           prefs.ShotType,
	})

	total := o.total
	if _, err := o.jobs.Update(ctx, key, domain.JobPatch{
		ExpectStatus:       domain.JobStatusDescribing,
		Status:             domain.JobStatusGenerating,
		SubjectDescription: &subject,
		FullPrompt:         &prompt,
		Preferences:        &prefs,
		VariantsTotal:      &total,
		ResetVariants:      true,
	}); err != nil {
		return domain.Fatal("start generation", err)
	}

	sum, err := o.variants.Run(ctx, Plan{
		Key:   key,
		Total: total,
		Request: GenerateRequest{
			Prompt:             prompt,
			SubjectDescription: subject,
			Reference:          ref,
		},
	}, func(ctx context.Context, _ int, ref string) error {
		_, err := o.jobs.Update(ctx, key, domain.JobPatch{
			ExpectStatus: domain.JobStatusGenerating,
			AppendRef:    &ref,
		})
		return err
	})
	if err != nil {
		return err
	}
	if sum.Succeeded == 0 {
		return fmt.Errorf("%w: %d requested; %s", domain.ErrNoVariants, total, sum.Detail())
	}

	if _, err := o.jobs.Update(ctx, key, domain.JobPatch{
		ExpectStatus:       domain.JobStatusGenerating,
		Status:             domain.JobStatusCompleted,
		SubjectDescription: &subject,
		FullPrompt:         &prompt,
		Preferences:        &prefs,
	}); err != nil {
		return domain.Fatal("complete job", err)
	}
	log.Info().Int("variants_completed", sum.Succeeded).Int("variants_total", total).Msg("orchestrator: job completed")
	return nil
}

// fail records the terminal failure. A done context still gets its failure
// written through a detached context.
func (o *Orchestrator) fail(ctx context.Context, key domain.JobKey, cause error, log zerolog.Logger) error {
	detail := cause.Error()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			detail = "execution deadline exceeded: " + detail
		} else {
			detail = "execution cancelled: " + detail
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
	}

	if _, err := o.jobs.Update(ctx, key, domain.JobPatch{
		Status:      domain.JobStatusFailed,
		ErrorDetail: &detail,
	}); err != nil {
		log.Error().Err(err).AnErr("cause", cause).Msg("orchestrator: failed to record job failure")
		return errors.Join(cause, err)
	}
	log.Error().Err(cause).Msg("orchestrator: job failed")
	return cause
}

func (o *Orchestrator) loadReference(ctx context.Context, job *domain.PhotoJob) (Image, error) {
	path := strings.TrimSpace(job.ReferencePath)
	url := strings.TrimSpace(job.ReferenceURL)

	var data []byte
	var err error
	switch {
	case path != "" && url != "":
		return Image{}, domain.Fatal("load reference", domain.ErrAmbiguousReference)
	case path != "":
		data, err = o.store.Get(ctx, path)
	case url != "":
		if o.fetcher == nil {
			return Image{}, domain.Fatal("load reference", errors.New("no reference fetcher configured for url references"))
		}
		data, err = o.fetcher.Fetch(ctx, url)
	default:
		return Image{}, domain.Fatal("load reference", domain.ErrMissingReference)
	}
	if err != nil {
		return Image{}, domain.Fatal("load reference", err)
	}
	if len(data) == 0 {
		return Image{}, domain.Fatal("load reference", errors.New("reference image is empty"))
	}
	return Image{Data: data, MIMEType: referenceMIME(data)}, nil
}

func referenceMIME(data []byte) string {
	if m := mimetype.Detect(data); strings.HasPrefix(m.String(), "image/") {
		return m.String()
	}
	return "image/jpeg"
}

// resolvePreferences maps user choices onto known descriptor keys so the
// record shows what was actually used.
func resolvePreferences(p domain.Preferences) domain.Preferences {
	return domain.Preferences{
		SceneType: descriptor.ResolveScene(p.SceneType),
		ShotType:  descriptor.ResolveShot(p.ShotType),
		TimeOfDay: descriptor.ResolveTime(p.TimeOfDay),
		Place:     strings.TrimSpace(p.Place),
	}
}
