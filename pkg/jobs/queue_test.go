package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	seen := make([]string, 0)
	done := make(chan struct{}, 2)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		mu.Lock()
		seen = append(seen, job.ID)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 1})

	require.Error(t, q.Enqueue(Job{ID: "early"}))

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a"}))
	require.NoError(t, q.Enqueue(Job{ID: "b"}))
	waitFor(t, done, 2)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b"}, seen)
}

func TestQueueRetriesThenReportsFailure(t *testing.T) {
	var attempts atomic.Int32
	failed := make(chan Job, 1)
	q := NewQueue("test", func(context.Context, Job) error {
		attempts.Add(1)
		return errors.New("boom")
	}, QueueConfig{
		Workers:    1,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		OnFailure:  func(job Job, _ error) { failed <- job },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "x"}))

	select {
	case job := <-failed:
		assert.Equal(t, "x", job.ID)
		assert.Equal(t, 3, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("failure hook not invoked")
	}
	assert.Equal(t, int32(3), attempts.Load())
}

func TestQueueRecoversPanickingHandler(t *testing.T) {
	failed := make(chan error, 1)
	q := NewQueue("test", func(context.Context, Job) error {
		panic("renderer exploded")
	}, QueueConfig{
		Workers:   1,
		OnFailure: func(_ Job, err error) { failed <- err },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "p"}))

	select {
	case err := <-failed:
		assert.Contains(t, err.Error(), "renderer exploded")
	case <-time.After(2 * time.Second):
		t.Fatal("panic was not reported as a failure")
	}
}

func TestQueueJobTimeout(t *testing.T) {
	failed := make(chan error, 1)
	q := NewQueue("test", func(ctx context.Context, _ Job) error {
		<-ctx.Done()
		return ctx.Err()
	}, QueueConfig{
		Workers:    1,
		JobTimeout: 10 * time.Millisecond,
		OnFailure:  func(_ Job, err error) { failed <- err },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "slow"}))

	select {
	case err := <-failed:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout was not enforced")
	}
}

func TestQueueBackoff(t *testing.T) {
	q := NewQueue("test", nil, QueueConfig{RetryDelay: time.Second, MaxRetryDelay: 5 * time.Second})

	assert.Equal(t, time.Second, q.Backoff(1))
	assert.Equal(t, 2*time.Second, q.Backoff(2))
	assert.Equal(t, 4*time.Second, q.Backoff(3))
	assert.Equal(t, 5*time.Second, q.Backoff(4))
	assert.Equal(t, 5*time.Second, q.Backoff(10))
}

func TestEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", nil, QueueConfig{})
	assert.ErrorIs(t, q.Enqueue(Job{ID: "x"}), ErrNotStarted)
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d jobs", i, n)
		}
	}
}
