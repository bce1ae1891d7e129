package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"taxclarity/internal/logger"
	"taxclarity/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before hour", time.Date(2026, 3, 10, 6, 30, 0, 0, lagos), time.Date(2026, 3, 10, 9, 0, 0, 0, lagos)},
		{"exactly at hour", time.Date(2026, 3, 10, 9, 0, 0, 0, lagos), time.Date(2026, 3, 11, 9, 0, 0, 0, lagos)},
		{"after hour", time.Date(2026, 3, 10, 22, 0, 0, 0, lagos), time.Date(2026, 3, 11, 9, 0, 0, 0, lagos)},
		{"month end", time.Date(2026, 3, 31, 10, 0, 0, 0, lagos), time.Date(2026, 4, 1, 9, 0, 0, 0, lagos)},
		// 07:30 UTC is 08:30 in Lagos, so the run is still today.
		{"utc input", time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC), time.Date(2026, 3, 10, 9, 0, 0, 0, lagos)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.want.Equal(nextRun(tc.now, 9, lagos)), "got %s", nextRun(tc.now, 9, lagos))
		})
	}
}

type countingReminders struct{ runs atomic.Int32 }

func (c *countingReminders) Run(context.Context) (service.ReminderSummary, error) {
	c.runs.Add(1)
	return service.ReminderSummary{}, nil
}

func TestDaily_StopsOnCancel(t *testing.T) {
	rem := &countingReminders{}
	// Half a day away, so the timer cannot fire during the test.
	hour := (time.Now().UTC().Hour() + 12) % 24
	d := NewDaily(rem, hour, time.UTC, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, int32(0), rem.runs.Load())
}
