// Package lock provides per-hook advisory locking so two concurrent
// invocations of a file-mutating hook never step on each other
// (spec.md §4.5). Locks are reentrant within one task (e.g. one
// autofix iteration) and exclusive across tasks, both within this
// process (a channel-backed semaphore) and across processes (an
// OS-level file lock via gofrs/flock).
package lock

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/crackerjack-ci/crackerjack/pkg/logger"
	"github.com/gofrs/flock"
)

var log = logger.New("lock")

// TimeoutError is returned by Acquire when the configured timeout
// elapses before the lock is granted.
type TimeoutError struct {
	HookName string
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("lock: timed out after %s waiting for hook %q", e.Timeout, e.HookName)
}

// Guard is released when a task is done holding a hook's lock.
// Release is idempotent; calling it more than once is a no-op.
type Guard struct {
	release func()
	once    sync.Once
}

// Release gives up this guard's hold on the lock. If this was a
// reentrant acquisition, the underlying lock is only actually freed
// once every nested Guard for the same task has been released.
func (g *Guard) Release() {
	g.once.Do(g.release)
}

type namedLock struct {
	sem   chan struct{} // capacity 1: in-process exclusion across tasks
	file  *flock.Flock
	mu    sync.Mutex // protects owner/depth
	owner string
	depth int
}

// Manager hands out per-hook-name locks backed by files under Dir.
type Manager struct {
	Dir     string
	Timeout time.Duration

	mu    sync.Mutex
	locks map[string]*namedLock
}

// New constructs a Manager whose lock files live under dir, with
// timeout bounding how long Acquire will wait for contention to clear.
func New(dir string, timeout time.Duration) *Manager {
	return &Manager{Dir: dir, Timeout: timeout, locks: make(map[string]*namedLock)}
}

func (m *Manager) namedLockFor(hookName string) *namedLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	if nl, ok := m.locks[hookName]; ok {
		return nl
	}
	path := filepath.Join(m.Dir, hookName+".lock")
	nl := &namedLock{
		sem:  make(chan struct{}, 1),
		file: flock.New(path),
	}
	m.locks[hookName] = nl
	return nl
}

// Acquire blocks until the lock for hookName is granted to taskID, or
// the manager's timeout elapses (returning *TimeoutError). Calling
// Acquire again with the same taskID before releasing the first guard
// is reentrant: it succeeds immediately and increments a nesting
// depth, exactly as a same-task formatter and its retry would expect.
func (m *Manager) Acquire(ctx context.Context, hookName, taskID string) (*Guard, error) {
	nl := m.namedLockFor(hookName)

	nl.mu.Lock()
	if nl.depth > 0 && nl.owner == taskID {
		nl.depth++
		nl.mu.Unlock()
		log.Printf("reentrant lock for hook %q (task %q), depth=%d", hookName, taskID, nl.depth)
		return &Guard{release: func() { m.releaseNested(nl, taskID) }}, nil
	}
	nl.mu.Unlock()

	deadline := m.Timeout
	if deadline <= 0 {
		deadline = 30 * time.Second
	}
	lockCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	select {
	case nl.sem <- struct{}{}:
	case <-lockCtx.Done():
		return nil, &TimeoutError{HookName: hookName, Timeout: deadline}
	}

	locked, err := nl.file.TryLockContext(lockCtx, 20*time.Millisecond)
	if err != nil || !locked {
		<-nl.sem
		if err != nil && lockCtx.Err() == nil {
			return nil, fmt.Errorf("lock: acquiring lock file for hook %q: %w", hookName, err)
		}
		return nil, &TimeoutError{HookName: hookName, Timeout: deadline}
	}

	nl.mu.Lock()
	nl.owner = taskID
	nl.depth = 1
	nl.mu.Unlock()

	return &Guard{release: func() { m.releaseNested(nl, taskID) }}, nil
}

func (m *Manager) releaseNested(nl *namedLock, taskID string) {
	nl.mu.Lock()
	defer nl.mu.Unlock()

	if nl.owner != taskID || nl.depth == 0 {
		return
	}
	nl.depth--
	if nl.depth > 0 {
		return
	}

	nl.owner = ""
	if err := nl.file.Unlock(); err != nil {
		log.Printf("failed to release OS lock: %v", err)
	}
	<-nl.sem
}
