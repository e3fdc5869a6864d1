package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"travelshot/internal/adapter/repo"
	"travelshot/internal/domain"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// fakeTimer fires immediately and records every requested delay.
type fakeTimer struct {
	mu     sync.Mutex
	delays []time.Duration
	c      chan time.Time
}

func (t *fakeTimer) Start(d time.Duration) {
	t.mu.Lock()
	t.delays = append(t.delays, d)
	t.mu.Unlock()
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}

func (t *fakeTimer) Stop() {}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

func (t *fakeTimer) Delays() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.delays...)
}

// recordingSleeper records spacing sleeps without waiting.
type recordingSleeper struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.slept = append(s.slept, d)
	s.mu.Unlock()
	return ctx.Err()
}

// scriptedGenerator answers call n with script(n). Calls are 1-based.
type scriptedGenerator struct {
	mu     sync.Mutex
	calls  int
	script func(call int) (*Image, error)
	events *[]string
}

func (g *scriptedGenerator) Generate(ctx context.Context, req GenerateRequest) (*Image, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	if g.events != nil {
		*g.events = append(*g.events, fmt.Sprintf("generate %d", n))
	}
	g.mu.Unlock()
	return g.script(n)
}

func (g *scriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func alwaysImage(int) (*Image, error) {
	return &Image{Data: pngBytes, MIMEType: "image/png"}, nil
}

// memObjects is an in-memory ObjectStore.
type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failPut map[string]bool
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, types: map[string]string{}, failPut: map[string]bool{}}
}

func (m *memObjects) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (m *memObjects) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut[key] {
		return "", errors.New("bucket unavailable")
	}
	m.objects[key] = data
	m.types[key] = contentType
	return "mem://" + key, nil
}

type stubVision struct {
	candidates []string
	err        error
	calls      int
}

func (v *stubVision) Describe(ctx context.Context, img Image, instruction string) ([]string, error) {
	v.calls++
	return v.candidates, v.err
}

type stubFetcher struct {
	data []byte
	err  error
	urls []string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return f.data, f.err
}

// checkedJobs wraps the memory store and asserts the record invariants after
// every successful write.
type checkedJobs struct {
	*repo.MemoryStore
	t        *testing.T
	mu       sync.Mutex
	statuses []domain.JobStatus
	failOn   func(patch domain.JobPatch) error
}

func newCheckedJobs(t *testing.T) *checkedJobs {
	return &checkedJobs{MemoryStore: repo.NewMemoryStore(), t: t}
}

func (c *checkedJobs) Update(ctx context.Context, key domain.JobKey, patch domain.JobPatch) (*domain.PhotoJob, error) {
	if c.failOn != nil {
		if err := c.failOn(patch); err != nil {
			return nil, err
		}
	}
	job, err := c.MemoryStore.Update(ctx, key, patch)
	if err != nil {
		return nil, err
	}
	assert.Equal(c.t, job.VariantsCompleted, len(job.GeneratedRefs))
	assert.LessOrEqual(c.t, job.VariantsCompleted, job.VariantsTotal)
	c.mu.Lock()
	if n := len(c.statuses); n == 0 || c.statuses[n-1] != job.Status {
		c.statuses = append(c.statuses, job.Status)
	}
	c.mu.Unlock()
	return job, nil
}

func (c *checkedJobs) Statuses() []domain.JobStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.JobStatus(nil), c.statuses...)
}
