package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelshot/internal/domain"
	"travelshot/internal/infra"
	"travelshot/internal/infra/credentials"
	"travelshot/internal/trigger"
)

func memoryConfig(t *testing.T) *infra.Config {
	t.Helper()
	return &infra.Config{
		RecordStore:          infra.RecordStoreMemory,
		ObjectStore:          infra.ObjectStoreFilesystem,
		StoragePath:          t.TempDir(),
		ImageProvider:        infra.ImageProviderGemini,
		VariantCount:         2,
		RetryMaxAttempts:     3,
		RetryInitialDelay:    time.Millisecond,
		MaxConcurrentJobs:    2,
		JobTimeout:           time.Second,
		PendingSweepInterval: time.Hour,
	}
}

func TestOpenMemoryRuntime(t *testing.T) {
	rt, err := Open(context.Background(), memoryConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Pool)
	assert.NoError(t, rt.Ready(context.Background()))

	_, err = rt.Store.Put(context.Background(), "uploads/u1/p1.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "records=memory objects=filesystem images=gemini", rt.String())
}

func TestOrchestratorNeedsGeminiKey(t *testing.T) {
	rt, err := Open(context.Background(), memoryConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer rt.Close()

	_, err = rt.Orchestrator(context.Background())
	assert.True(t, errors.Is(err, credentials.ErrNoCredential))

	rt.Config.GeminiAPIKey = "key"
	orch, err := rt.Orchestrator(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orch)
}

func TestRunTriggerDeliversCreatedJobs(t *testing.T) {
	rt, err := Open(context.Background(), memoryConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer rt.Close()

	var (
		mu   sync.Mutex
		seen []domain.JobKey
		done = make(chan struct{})
	)
	d, src := rt.Trigger(trigger.HandlerFunc(func(ctx context.Context, key domain.JobKey) error {
		mu.Lock()
		seen = append(seen, key)
		mu.Unlock()
		close(done)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- RunTrigger(ctx, d, src) }()

	require.NoError(t, rt.Jobs.Create(context.Background(), &domain.PhotoJob{OwnerID: "u1", JobID: "p1", ReferencePath: "a.jpg"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not dispatched")
	}
	cancel()
	require.NoError(t, <-errCh)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.JobKey{{OwnerID: "u1", JobID: "p1"}}, seen)
}
