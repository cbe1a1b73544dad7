package sweep

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) SweepExpired(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestStart_RunsImmediatelyAndOnInterval(t *testing.T) {
	s := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Start(ctx, s, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStart_ContinuesAfterFailure(t *testing.T) {
	s := &countingSweeper{err: errors.New("store unavailable")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Start(ctx, s, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return s.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
