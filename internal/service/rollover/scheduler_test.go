package rollover

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRollover struct {
	calls    int
	deadline bool
	now      time.Time
}

func (r *recordingRollover) RunMonthlyRollover(ctx context.Context, now time.Time) *RolloverResponse {
	r.calls++
	_, r.deadline = ctx.Deadline()
	r.now = now
	return &RolloverResponse{}
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Schedule = "every first of the month"

	_, err := NewScheduler(&recordingRollover{}, cfg)
	assert.Error(t, err)
}

func TestScheduler_RunOnce(t *testing.T) {
	svc := &recordingRollover{}
	s, err := NewScheduler(svc, testConfig())
	require.NoError(t, err)
	s.now = func() time.Time { return sweepNow }

	s.RunOnce()

	assert.Equal(t, 1, svc.calls)
	assert.True(t, svc.deadline)
	assert.Equal(t, sweepNow, svc.now)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler(&recordingRollover{}, testConfig())
	require.NoError(t, err)

	s.Start()
	require.Len(t, s.cron.Entries(), 1)
	assert.Equal(t, 1, s.cron.Entries()[0].Next.Day())

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
