package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
}

func (f *fakeDeleter) DeleteOrphans(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.deleted, f.err
}

func (f *fakeDeleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestSweepOnce_UsesGraceCutoff(t *testing.T) {
	deleter := &fakeDeleter{deleted: 4}
	s := NewOrphanSweeper(deleter, time.Minute, 10*time.Minute, nil, nil)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	require.Len(t, deleter.cutoffs, 1)
	assert.Equal(t, now.Add(-10*time.Minute), deleter.cutoffs[0])
}

func TestSweepOnce_PropagatesError(t *testing.T) {
	deleter := &fakeDeleter{err: errors.New("db down")}
	s := NewOrphanSweeper(deleter, time.Minute, time.Minute, nil, nil)

	_, err := s.SweepOnce(context.Background())
	require.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	deleter := &fakeDeleter{}
	s := NewOrphanSweeper(deleter, 5*time.Millisecond, time.Minute, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return deleter.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestRun_DisabledWithoutInterval(t *testing.T) {
	deleter := &fakeDeleter{}
	s := NewOrphanSweeper(deleter, 0, time.Minute, nil, nil)

	s.Run(context.Background())
	assert.Zero(t, deleter.calls())
}
