package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelshot/internal/domain"
)

func newTestVariants(gen ImageGenerator, store ObjectStore, sleeper *recordingSleeper, timer *fakeTimer) *VariantGenerator {
	return NewVariantGenerator(gen, store, DefaultRetryPolicy(), DefaultSpacing,
		WithSleeper(sleeper.Sleep),
		WithRetryTimer(func() backoff.Timer { return timer }),
	)
}

func TestGenerateOnceRetriesTransientFailures(t *testing.T) {
	gen := &scriptedGenerator{script: func(n int) (*Image, error) {
		if n < 3 {
			return nil, fmt.Errorf("upstream: %w", domain.ErrTransient)
		}
		return alwaysImage(n)
	}}
	timer := &fakeTimer{}
	v := newTestVariants(gen, newMemObjects(), &recordingSleeper{}, timer)

	got := v.GenerateOnce(context.Background(), GenerateRequest{Prompt: "p"})
	require.NoError(t, got.Err)
	assert.Equal(t, 3, got.Attempts)
	assert.Equal(t, 3, gen.Calls())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.Delays())
}

func TestGenerateOnceGivesUpAfterMaxAttempts(t *testing.T) {
	gen := &scriptedGenerator{script: func(int) (*Image, error) {
		return nil, domain.ErrRateLimited
	}}
	v := newTestVariants(gen, newMemObjects(), &recordingSleeper{}, &fakeTimer{})

	got := v.GenerateOnce(context.Background(), GenerateRequest{})
	assert.ErrorIs(t, got.Err, domain.ErrRateLimited)
	assert.Equal(t, 3, got.Attempts)
	assert.Equal(t, 3, gen.Calls())
}

func TestGenerateOnceDoesNotRetryFatal(t *testing.T) {
	gen := &scriptedGenerator{script: func(int) (*Image, error) {
		return nil, errors.New("invalid argument")
	}}
	timer := &fakeTimer{}
	v := newTestVariants(gen, newMemObjects(), &recordingSleeper{}, timer)

	got := v.GenerateOnce(context.Background(), GenerateRequest{})
	assert.EqualError(t, got.Err, "invalid argument")
	assert.Equal(t, 1, got.Attempts)
	assert.Empty(t, timer.Delays())
}

func TestGenerateOnceEmptyPayload(t *testing.T) {
	gen := &scriptedGenerator{script: func(int) (*Image, error) { return nil, nil }}
	v := newTestVariants(gen, newMemObjects(), &recordingSleeper{}, &fakeTimer{})

	got := v.GenerateOnce(context.Background(), GenerateRequest{})
	assert.ErrorIs(t, got.Err, domain.ErrNoImage)
	assert.Equal(t, 1, got.Attempts)
}

func TestRunSpacesCallsButNotTheFirst(t *testing.T) {
	sleeper := &recordingSleeper{}
	gen := &scriptedGenerator{script: alwaysImage}
	store := newMemObjects()
	v := newTestVariants(gen, store, sleeper, &fakeTimer{})

	var recorded []string
	sum, err := v.Run(context.Background(), Plan{Key: domain.JobKey{OwnerID: "u1", JobID: "p1"}, Total: 3},
		func(ctx context.Context, i int, ref string) error {
			recorded = append(recorded, ref)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Succeeded)
	assert.Equal(t, []time.Duration{DefaultSpacing, DefaultSpacing}, sleeper.slept)
	assert.Equal(t, []string{
		"mem://generated/u1/p1_variant_1.png",
		"mem://generated/u1/p1_variant_2.png",
		"mem://generated/u1/p1_variant_3.png",
	}, recorded)
	assert.Equal(t, "image/png", store.types["generated/u1/p1_variant_1.png"])
}

func TestRunRecordsEachVariantBeforeTheNextStarts(t *testing.T) {
	var events []string
	gen := &scriptedGenerator{script: alwaysImage, events: &events}
	v := newTestVariants(gen, newMemObjects(), &recordingSleeper{}, &fakeTimer{})

	_, err := v.Run(context.Background(), Plan{Key: domain.JobKey{OwnerID: "u", JobID: "j"}, Total: 2},
		func(ctx context.Context, i int, ref string) error {
			events = append(events, fmt.Sprintf("record %d", i))
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"generate 1", "record 1", "generate 2", "record 2"}, events)
}

func TestRunSkipsFailedVariantsAndUploads(t *testing.T) {
	gen := &scriptedGenerator{script: func(n int) (*Image, error) {
		if n == 2 {
			return nil, errors.New("blocked")
		}
		return alwaysImage(n)
	}}
	store := newMemObjects()
	store.failPut["generated/u/j_variant_3.png"] = true
	v := newTestVariants(gen, store, &recordingSleeper{}, &fakeTimer{})

	var indices []int
	sum, err := v.Run(context.Background(), Plan{Key: domain.JobKey{OwnerID: "u", JobID: "j"}, Total: 4},
		func(ctx context.Context, i int, ref string) error {
			indices = append(indices, i)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, []int{1, 4}, indices)
	require.Len(t, sum.Failures, 2)
	assert.Equal(t, 2, sum.Failures[0].Index)
	assert.Equal(t, 3, sum.Failures[1].Index)
	assert.Contains(t, sum.Detail(), "variant 2 after 1 attempt(s): blocked")
	assert.Contains(t, sum.Detail(), "variant 3 after 1 attempt(s): upload: bucket unavailable")
}

func TestRunRecordFailureIsFatal(t *testing.T) {
	gen := &scriptedGenerator{script: alwaysImage}
	v := newTestVariants(gen, newMemObjects(), &recordingSleeper{}, &fakeTimer{})

	_, err := v.Run(context.Background(), Plan{Key: domain.JobKey{OwnerID: "u", JobID: "j"}, Total: 3},
		func(ctx context.Context, i int, ref string) error {
			return errors.New("db down")
		})
	require.Error(t, err)
	assert.True(t, domain.IsFatal(err))
	assert.Equal(t, 1, gen.Calls())
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	gen := &scriptedGenerator{script: alwaysImage}
	ctx, cancel := context.WithCancel(context.Background())
	sleeper := &recordingSleeper{}
	v := newTestVariants(gen, newMemObjects(), sleeper, &fakeTimer{})

	_, err := v.Run(ctx, Plan{Key: domain.JobKey{OwnerID: "u", JobID: "j"}, Total: 3},
		func(context.Context, int, string) error {
			cancel()
			return nil
		})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, gen.Calls())
}

func TestVariantKey(t *testing.T) {
	k := domain.JobKey{OwnerID: "user-1", JobID: "photo-9"}
	assert.Equal(t, "generated/user-1/photo-9_variant_2.png", VariantKey(k, 2, ""))
	assert.Equal(t, "generated/user-1/photo-9_variant_1.jpg", VariantKey(k, 1, ".jpg"))
}

func TestDetectImageType(t *testing.T) {
	ct, ext := detectImageType(&Image{Data: pngBytes})
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, ".png", ext)

	ct, ext = detectImageType(&Image{Data: []byte("opaque"), MIMEType: "image/jpeg"})
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, ".jpg", ext)

	ct, ext = detectImageType(&Image{Data: []byte("opaque")})
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, ".png", ext)
}
