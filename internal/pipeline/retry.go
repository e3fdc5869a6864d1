package pipeline

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"travelshot/internal/domain"
)

// RetryPolicy bounds the attempts spent on one generation call.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// DefaultRetryPolicy is three attempts waiting 1s then 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Multiplier:   2,
		MaxDelay:     30 * time.Second,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = def.InitialDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	if p.MaxDelay < p.InitialDelay {
		p.MaxDelay = p.InitialDelay
	}
	return p
}

// backOff builds a deterministic exponential schedule: no jitter and no
// elapsed-time cap, only the attempt ceiling.
func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOffContext {
	p = p.normalized()
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialDelay
	eb.RandomizationFactor = 0
	eb.Multiplier = p.Multiplier
	eb.MaxInterval = p.MaxDelay
	eb.MaxElapsedTime = 0
	eb.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(p.MaxAttempts-1)), ctx)
}

// retry runs op under the policy. Only errors classified retryable by
// domain.IsRetryable are attempted again. It returns the number of attempts
// made and the last error.
func (p RetryPolicy) retry(ctx context.Context, timer backoff.Timer, op func(attempt int) error, notify func(err error, next time.Duration, attempt int)) (int, error) {
	attempts := 0
	err := backoff.RetryNotifyWithTimer(func() error {
		attempts++
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		err := op(attempts)
		if err != nil && !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, p.backOff(ctx), func(err error, next time.Duration) {
		if notify != nil {
			notify(err, next, attempts)
		}
	}, timer)
	return attempts, err
}
