package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	mu   sync.Mutex
	runs map[string]int
}

func (o *countingObserver) ObserveJob(jobType, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.runs == nil {
		o.runs = map[string]int{}
	}
	o.runs[jobType+"/"+status]++
}

func (o *countingObserver) count(key string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runs[key]
}

func TestRunNowReportsOutcome(t *testing.T) {
	obs := &countingObserver{}
	svc := New(obs)

	details, err := svc.RunNow(context.Background(), JobSessionSweep, func(context.Context) (any, error) {
		return 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, details)

	_, err = svc.RunNow(context.Background(), JobSessionSweep, func(context.Context) (any, error) {
		return nil, errors.New("db down")
	})
	require.Error(t, err)
	assert.Equal(t, 1, obs.count("session_sweep/completed"))
	assert.Equal(t, 1, obs.count("session_sweep/failed"))
}

func TestScheduledJobRunsUntilCancelled(t *testing.T) {
	obs := &countingObserver{}
	svc := New(obs)
	ran := make(chan struct{}, 8)
	svc.Every(JobSessionSweep, 5*time.Millisecond, func(context.Context) (any, error) {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil, nil
	})
	svc.Every("disabled", 0, func(context.Context) (any, error) {
		t.Error("disabled schedule ran")
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled job never ran")
	}
	cancel()
	svc.Wait()
	assert.GreaterOrEqual(t, obs.count("session_sweep/completed"), 1)
}
