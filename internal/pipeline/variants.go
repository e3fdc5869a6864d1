package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"travelshot/internal/domain"
	"travelshot/internal/infra"
)

// DefaultSpacing separates successive generation calls of one job.
const DefaultSpacing = 7 * time.Second

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Attempt is the outcome of one generation call including its retries.
type Attempt struct {
	Image    *Image
	Attempts int
	Err      error
}

// Plan describes the variants to produce for one job.
type Plan struct {
	Key     domain.JobKey
	Total   int
	Request GenerateRequest
}

// VariantFailure records a skipped variant.
type VariantFailure struct {
	Index    int
	Attempts int
	Err      error
}

// Summary reports the outcome of a Run.
type Summary struct {
	Succeeded int
	Failures  []VariantFailure
}

// Detail renders the failures as one human readable line.
func (s Summary) Detail() string {
	if len(s.Failures) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.Failures))
	for _, f := range s.Failures {
		parts = append(parts, fmt.Sprintf("variant %d after %d attempt(s): %v", f.Index, f.Attempts, f.Err))
	}
	return strings.Join(parts, "; ")
}

// RecordFunc persists one uploaded variant before the next one starts.
type RecordFunc func(ctx context.Context, index int, ref string) error

// VariantGenerator drives the image generator sequentially for one job.
type VariantGenerator struct {
	gen     ImageGenerator
	store   ObjectStore
	retry   RetryPolicy
	spacing time.Duration
	sleep   Sleeper
	timer   func() backoff.Timer
	logger  infra.Logger
}

// VariantOption customizes a VariantGenerator.
type VariantOption func(*VariantGenerator)

// WithSleeper replaces the spacing sleeper.
func WithSleeper(s Sleeper) VariantOption {
	return func(g *VariantGenerator) {
		if s != nil {
			g.sleep = s
		}
	}
}

// WithRetryTimer replaces the backoff timer, one per call.
func WithRetryTimer(newTimer func() backoff.Timer) VariantOption {
	return func(g *VariantGenerator) {
		g.timer = newTimer
	}
}

// WithLogger sets the logger.
func WithLogger(l infra.Logger) VariantOption {
	return func(g *VariantGenerator) {
		g.logger = l
	}
}

// NewVariantGenerator wires a generator against the storage for uploads.
func NewVariantGenerator(gen ImageGenerator, store ObjectStore, retry RetryPolicy, spacing time.Duration, opts ...VariantOption) *VariantGenerator {
	if spacing < 0 {
		spacing = 0
	}
	g := &VariantGenerator{
		gen:     gen,
		store:   store,
		retry:   retry.normalized(),
		spacing: spacing,
		sleep:   sleepContext,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateOnce performs one generation call with retries.
func (g *VariantGenerator) GenerateOnce(ctx context.Context, req GenerateRequest) Attempt {
	var img *Image
	var timer backoff.Timer
	if g.timer != nil {
		timer = g.timer()
	}
	attempts, err := g.retry.retry(ctx, timer, func(int) error {
		out, err := g.gen.Generate(ctx, req)
		if err != nil {
			return err
		}
		img = out
		return nil
	}, func(err error, next time.Duration, attempt int) {
		g.logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", next).Msg("variants: retrying generation")
	})
	if err != nil {
		return Attempt{Attempts: attempts, Err: err}
	}
	if img.Empty() {
		return Attempt{Attempts: attempts, Err: domain.ErrNoImage}
	}
	return Attempt{Image: img, Attempts: attempts}
}

// Run generates plan.Total variants in order. Each uploaded variant is handed
// to record before the next starts. Failed variants are skipped; a record
// failure or a done context ends the run with an error.
func (g *VariantGenerator) Run(ctx context.Context, plan Plan, record RecordFunc) (Summary, error) {
	var sum Summary
	for i := 1; i <= plan.Total; i++ {
		log := g.logger.With().Str("owner_id", plan.Key.OwnerID).Str("job_id", plan.Key.JobID).Int("variant", i).Logger()
		if i > 1 {
			if err := g.sleep(ctx, g.spacing); err != nil {
				return sum, err
			}
		}

		attempt := g.GenerateOnce(ctx, plan.Request)
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if attempt.Err != nil {
			log.Warn().Err(attempt.Err).Int("attempt", attempt.Attempts).Msg("variants: variant skipped")
			sum.Failures = append(sum.Failures, VariantFailure{Index: i, Attempts: attempt.Attempts, Err: attempt.Err})
			continue
		}

		contentType, ext := detectImageType(attempt.Image)
		key := VariantKey(plan.Key, i, ext)
		ref, err := g.store.Put(ctx, key, attempt.Image.Data, contentType)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("variants: upload failed, variant skipped")
			sum.Failures = append(sum.Failures, VariantFailure{Index: i, Attempts: attempt.Attempts, Err: fmt.Errorf("upload: %w", err)})
			continue
		}

		if err := record(ctx, i, ref); err != nil {
			return sum, domain.Fatal("record variant", err)
		}
		sum.Succeeded++
		log.Info().Str("ref", ref).Int("attempt", attempt.Attempts).Msg("variants: variant stored")
	}
	return sum, nil
}

// VariantKey is the deterministic object key of a generated variant.
func VariantKey(key domain.JobKey, index int, ext string) string {
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("generated/%s/%s_variant_%d%s", key.OwnerID, key.JobID, index, ext)
}

// detectImageType sniffs the payload and falls back to the declared type,
// then to PNG.
func detectImageType(img *Image) (string, string) {
	if m := mimetype.Detect(img.Data); strings.HasPrefix(m.String(), "image/") {
		return m.String(), m.Extension()
	}
	if declared := strings.TrimSpace(img.MIMEType); strings.HasPrefix(declared, "image/") {
		if m := mimetype.Lookup(declared); m != nil {
			return m.String(), m.Extension()
		}
		return declared, ".png"
	}
	return "image/png", ".png"
}
