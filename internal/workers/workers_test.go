package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReminders struct {
	calls atomic.Int32
	err   error
}

func (f *fakeReminders) SendDailyReminders(context.Context) (int, error) {
	f.calls.Add(1)
	return 3, f.err
}

func TestScheduler_RunsJobsOnDemand(t *testing.T) {
	reminders := &fakeReminders{}
	var sweeps atomic.Int32
	var seenIdle atomic.Int64
	cleanup := func(maxIdle time.Duration) int {
		sweeps.Add(1)
		seenIdle.Store(int64(maxIdle))
		return 0
	}

	s, err := NewScheduler(reminders, "0 20 * * *", cleanup)
	require.NoError(t, err)
	s.Start()
	t.Cleanup(func() { _ = s.Shutdown() })

	require.NoError(t, s.RunNow(reminderJobName))
	require.NoError(t, s.RunNow(visitorJobName))

	assert.Eventually(t, func() bool { return reminders.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return sweeps.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(visitorMaxIdle), seenIdle.Load())

	assert.Error(t, s.RunNow("missing"))
}

func TestScheduler_ReminderErrorDoesNotStopScheduler(t *testing.T) {
	reminders := &fakeReminders{err: errors.New("boom")}

	s, err := NewScheduler(reminders, "0 20 * * *", func(time.Duration) int { return 0 })
	require.NoError(t, err)
	s.Start()
	t.Cleanup(func() { _ = s.Shutdown() })

	require.NoError(t, s.RunNow(reminderJobName))
	require.Eventually(t, func() bool { return reminders.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.RunNow(reminderJobName))
	assert.Eventually(t, func() bool { return reminders.calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestNewScheduler_InvalidCron(t *testing.T) {
	_, err := NewScheduler(&fakeReminders{}, "every evening", func(time.Duration) int { return 0 })
	assert.ErrorContains(t, err, "invalid reminder schedule")
}
