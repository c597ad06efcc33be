package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJob(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("test", func(ctx context.Context, j Job) error {
		done <- j
		return nil
	}, QueueConfig{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "unit", Payload: 42}))

	select {
	case j := <-done:
		assert.Equal(t, "unit", j.Type)
		assert.NotEmpty(t, j.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueRetriesFailedJob(t *testing.T) {
	var calls int32
	done := make(chan struct{})
	q := NewQueue("test", func(ctx context.Context, j Job) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("boom")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "unit"}))

	select {
	case <-done:
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, j Job) error { return nil }, QueueConfig{})
	err := q.Enqueue(Job{Type: "unit"})
	require.Error(t, err)
}
