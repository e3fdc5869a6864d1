package trigger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"travelshot/internal/domain"
	"travelshot/internal/infra"
	"travelshot/internal/sqlinline"
)

const sweepBatch = 100

// Source emits keys of jobs that may need processing. Keys can repeat; the
// orchestrator's guarded claim makes redelivery harmless.
type Source interface {
	Run(ctx context.Context, out chan<- domain.JobKey) error
}

// PendingLister lists jobs still waiting to be claimed.
type PendingLister interface {
	ListPending(ctx context.Context, limit int) ([]domain.JobKey, error)
}

// Sweeper periodically re-emits every pending job. It covers events lost
// while no worker was listening.
type Sweeper struct {
	jobs     PendingLister
	interval time.Duration
	logger   infra.Logger
}

func NewSweeper(jobs PendingLister, interval time.Duration, logger infra.Logger) *Sweeper {
	return &Sweeper{jobs: jobs, interval: interval, logger: logger}
}

// Sweep emits the current pending set once.
func (s *Sweeper) Sweep(ctx context.Context, out chan<- domain.JobKey) error {
	keys, err := s.jobs.ListPending(ctx, sweepBatch)
	if err != nil {
		s.logger.Warn().Err(err).Msg("trigger: pending sweep failed")
		return nil
	}
	for _, key := range keys {
		if err := emit(ctx, out, key); err != nil {
			return err
		}
	}
	if len(keys) > 0 {
		s.logger.Debug().Int("count", len(keys)).Msg("trigger: swept pending jobs")
	}
	return nil
}

// ticker returns a nil channel when sweeping is disabled.
func (s *Sweeper) ticker() (<-chan time.Time, func()) {
	if s == nil || s.interval <= 0 {
		return nil, func() {}
	}
	t := time.NewTicker(s.interval)
	return t.C, t.Stop
}

// MemorySource forwards in-process create events and sweeps.
type MemorySource struct {
	events <-chan domain.JobKey
	sweep  *Sweeper
}

func NewMemorySource(events <-chan domain.JobKey, sweep *Sweeper) *MemorySource {
	return &MemorySource{events: events, sweep: sweep}
}

func (s *MemorySource) Run(ctx context.Context, out chan<- domain.JobKey) error {
	tick, stop := s.sweep.ticker()
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case key, ok := <-s.events:
			if !ok {
				return nil
			}
			if err := emit(ctx, out, key); err != nil {
				return err
			}
		case <-tick:
			if err := s.sweep.Sweep(ctx, out); err != nil {
				return err
			}
		}
	}
}

// PGSource LISTENs on the pending-jobs channel populated by the insert
// trigger and sweeps on reconnect and on every tick.
type PGSource struct {
	dsn    string
	sweep  *Sweeper
	logger infra.Logger
}

func NewPGSource(dsn string, sweep *Sweeper, logger infra.Logger) *PGSource {
	return &PGSource{dsn: dsn, sweep: sweep, logger: logger}
}

type pendingPayload struct {
	OwnerID string `json:"owner_id"`
	JobID   string `json:"job_id"`
}

func (s *PGSource) Run(ctx context.Context, out chan<- domain.JobKey) error {
	listener := pq.NewListener(s.dsn, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			s.logger.Warn().Err(err).Int("event", int(ev)).Msg("trigger: listener event")
		}
	})
	defer listener.Close()

	if err := listener.Listen(sqlinline.PhotoJobsPendingChannel); err != nil {
		return err
	}
	s.logger.Info().Str("channel", sqlinline.PhotoJobsPendingChannel).Msg("trigger: listening")

	if s.sweep != nil {
		if err := s.sweep.Sweep(ctx, out); err != nil {
			return err
		}
	}

	tick, stop := s.sweep.ticker()
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-listener.Notify:
			if n == nil {
				// Reconnected; notifications sent meanwhile are lost.
				if s.sweep != nil {
					if err := s.sweep.Sweep(ctx, out); err != nil {
						return err
					}
				}
				continue
			}
			key, ok := s.decode(n.Extra)
			if !ok {
				continue
			}
			if err := emit(ctx, out, key); err != nil {
				return err
			}
		case <-tick:
			if err := s.sweep.Sweep(ctx, out); err != nil {
				return err
			}
		}
	}
}

func (s *PGSource) decode(extra string) (domain.JobKey, bool) {
	var p pendingPayload
	if err := json.Unmarshal([]byte(extra), &p); err != nil {
		s.logger.Warn().Err(err).Str("payload", extra).Msg("trigger: bad notification payload")
		return domain.JobKey{}, false
	}
	key := domain.JobKey{OwnerID: p.OwnerID, JobID: p.JobID}
	if err := key.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("payload", extra).Msg("trigger: bad notification payload")
		return domain.JobKey{}, false
	}
	return key, true
}

func emit(ctx context.Context, out chan<- domain.JobKey, key domain.JobKey) error {
	select {
	case out <- key:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PGNotifier re-sends the pending notification so a listening worker picks
// the job up. The api uses it as its event sink when no worker is embedded.
type PGNotifier struct {
	sql infra.SQLExecutor
}

func NewPGNotifier(sql infra.SQLExecutor) *PGNotifier {
	return &PGNotifier{sql: sql}
}

func (n *PGNotifier) Dispatch(ctx context.Context, key domain.JobKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if _, err := n.sql.Exec(ctx, sqlinline.QNotifyPhotoJobPending, key.OwnerID, key.JobID); err != nil {
		return fmt.Errorf("trigger: notify %s: %w", key, err)
	}
	return nil
}
