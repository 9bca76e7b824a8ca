package expiry

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
)

type countingExpirer struct {
	calls atomic.Int32
}

func (c *countingExpirer) ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestSweeperDisabledByZeroTTL(t *testing.T) {
	expirer := &countingExpirer{}
	s := NewSweeper(expirer, 0, 15*time.Minute, logger.NewNop())

	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, expirer.calls.Load())
}

func TestSweeperIntervalConfigurable(t *testing.T) {
	// The cron spec is built from the configured duration; an accepted
	// AddFunc means the schedule parsed.
	s := NewSweeper(&countingExpirer{}, 24*time.Hour, 5*time.Minute, logger.NewNop())
	require.NoError(t, s.Start())
	s.Stop()

	s = NewSweeper(&countingExpirer{}, 24*time.Hour, 0, logger.NewNop())
	assert.Error(t, s.Start())
}

func TestSweepUsesTTLCutoff(t *testing.T) {
	expirer := &countingExpirer{}
	s := NewSweeper(expirer, time.Hour, time.Minute, logger.NewNop())

	s.sweep()
	assert.Equal(t, int32(1), expirer.calls.Load())
}
