package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireReleaseRoundTrip(t *testing.T) {
	m := New(t.TempDir(), time.Second)
	guard, err := m.Acquire(context.Background(), "fmt-go", "task-1")
	require.NoError(t, err)
	guard.Release()
}

func TestAcquireReentrantSameTask(t *testing.T) {
	m := New(t.TempDir(), time.Second)
	g1, err := m.Acquire(context.Background(), "fmt-go", "task-1")
	require.NoError(t, err)

	g2, err := m.Acquire(context.Background(), "fmt-go", "task-1")
	require.NoError(t, err)

	g2.Release()
	g1.Release()
}

func TestAcquireExclusiveAcrossTasksTimesOut(t *testing.T) {
	m := New(t.TempDir(), 100*time.Millisecond)
	g1, err := m.Acquire(context.Background(), "fmt-go", "task-1")
	require.NoError(t, err)
	defer g1.Release()

	_, err = m.Acquire(context.Background(), "fmt-go", "task-2")
	require.Error(t, err)
	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestAcquireGrantedAfterRelease(t *testing.T) {
	m := New(t.TempDir(), time.Second)
	g1, err := m.Acquire(context.Background(), "fmt-go", "task-1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(20 * time.Millisecond)
		g1.Release()
	}()

	g2, err := m.Acquire(context.Background(), "fmt-go", "task-2")
	require.NoError(t, err)
	g2.Release()
	wg.Wait()
}

func TestReleaseIsIdempotent(t *testing.T) {
	m := New(t.TempDir(), time.Second)
	g, err := m.Acquire(context.Background(), "fmt-go", "task-1")
	require.NoError(t, err)
	g.Release()
	assert.NotPanics(t, func() { g.Release() })
}

func TestIndependentHooksDoNotContend(t *testing.T) {
	m := New(t.TempDir(), 50*time.Millisecond)
	g1, err := m.Acquire(context.Background(), "fmt-go", "task-1")
	require.NoError(t, err)
	defer g1.Release()

	g2, err := m.Acquire(context.Background(), "md-format", "task-2")
	require.NoError(t, err)
	g2.Release()
}
