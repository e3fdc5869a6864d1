package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelshot/internal/domain"
)

func TestDescriberPicksFirstUsableCandidate(t *testing.T) {
	v := &stubVision{candidates: []string{"  ", `"older man with   a grey beard and round glasses."`}}
	got, err := NewDescriber(v, "").Describe(context.Background(), Image{Data: pngBytes})
	require.NoError(t, err)
	assert.Equal(t, "older man with a grey beard and round glasses", got)
	assert.Equal(t, 1, v.calls)
}

func TestDescriberFailures(t *testing.T) {
	_, err := NewDescriber(&stubVision{}, "").Describe(context.Background(), Image{Data: pngBytes})
	assert.ErrorIs(t, err, domain.ErrNoCandidates)
	assert.True(t, domain.IsFatal(err))

	_, err = NewDescriber(&stubVision{candidates: []string{"\n"}}, "").Describe(context.Background(), Image{Data: pngBytes})
	assert.ErrorIs(t, err, domain.ErrNoCandidates)

	_, err = NewDescriber(&stubVision{err: domain.ErrRateLimited}, "").Describe(context.Background(), Image{Data: pngBytes})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.True(t, domain.IsFatal(err))

	v := &stubVision{candidates: []string{"x"}}
	_, err = NewDescriber(v, "").Describe(context.Background(), Image{})
	assert.Error(t, err)
	assert.Equal(t, 0, v.calls)
}

func TestRetryPolicyNormalized(t *testing.T) {
	p := RetryPolicy{}.normalized()
	assert.Equal(t, DefaultRetryPolicy(), p)

	p = RetryPolicy{MaxAttempts: 5, InitialDelay: 500 * time.Millisecond, MaxDelay: time.Millisecond}.normalized()
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, float64(2), p.Multiplier)
	assert.Equal(t, p.InitialDelay, p.MaxDelay)
}
