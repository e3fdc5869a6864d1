package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"travelshot/internal/domain"
)

// MemoryStore is an in-process PhotoJobRepository for development and tests.
// It applies patches with the same rules as the Postgres store and announces
// newly created pending jobs to subscribers.
type MemoryStore struct {
	mu   sync.Mutex
	jobs map[domain.JobKey]*domain.PhotoJob
	subs []chan domain.JobKey
	now  func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[domain.JobKey]*domain.PhotoJob),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe returns a channel receiving the key of every pending job created
// afterwards. Sends never block; a full buffer drops the event and the
// pending sweep picks the job up instead.
func (s *MemoryStore) Subscribe(buffer int) <-chan domain.JobKey {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan domain.JobKey, buffer)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Close closes every subscription channel.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

func (s *MemoryStore) Create(ctx context.Context, job *domain.PhotoJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job is required")
	}
	key := job.Key()
	if err := key.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[key]; ok {
		return fmt.Errorf("%w: job %s", domain.ErrConflict, key)
	}
	stored := job.Clone()
	if stored.Status == "" {
		stored.Status = domain.JobStatusPending
	}
	if stored.GeneratedRefs == nil {
		stored.GeneratedRefs = []string{}
	}
	now := s.now()
	stored.CreatedAt, stored.UpdatedAt = now, now
	if err := stored.Validate(); err != nil {
		return err
	}
	s.jobs[key] = stored

	if stored.Status == domain.JobStatusPending {
		for _, ch := range s.subs {
			select {
			case ch <- key:
			default:
			}
		}
	}
	job.CreatedAt, job.UpdatedAt, job.Status = stored.CreatedAt, stored.UpdatedAt, stored.Status
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key domain.JobKey) (*domain.PhotoJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job.Clone(), nil
}

// Update applies patch to a copy and swaps it in only when every rule holds.
func (s *MemoryStore) Update(ctx context.Context, key domain.JobKey, patch domain.JobPatch) (*domain.PhotoJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.jobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := current.Clone()
	if err := patch.Apply(next, s.now()); err != nil {
		return nil, err
	}
	s.jobs[key] = next
	return next.Clone(), nil
}

func (s *MemoryStore) ListPending(ctx context.Context, limit int) ([]domain.JobKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	pending := make([]*domain.PhotoJob, 0)
	for _, job := range s.jobs {
		if job.Status == domain.JobStatusPending {
			pending = append(pending, job)
		}
	}
	s.mu.Unlock()

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	keys := make([]domain.JobKey, 0, len(pending))
	for _, job := range pending {
		keys = append(keys, job.Key())
	}
	return keys, nil
}

var _ domain.PhotoJobRepository = (*MemoryStore)(nil)
