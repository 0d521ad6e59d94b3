package vault

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitDuration(t *testing.T) {
	s := NewScheduler(3*time.Second, time.Second)

	assert.Equal(t, 10*time.Second, s.WaitDuration(7, 10), "three remaining blocks plus margin")
	assert.Equal(t, time.Second, s.WaitDuration(10, 10), "at the deadline only the margin remains")
	assert.Equal(t, time.Second, s.WaitDuration(15, 10), "past the deadline only the margin remains")
}

func TestWaitUntilElapses(t *testing.T) {
	s := NewScheduler(time.Millisecond, time.Millisecond)

	start := time.Now()
	err := s.WaitUntil(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 6*time.Millisecond)
}

func TestWaitUntilHonorsCancellation(t *testing.T) {
	s := NewScheduler(time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.WaitUntil(ctx, 0, 100)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("WaitUntil did not return after cancellation")
	}
}
