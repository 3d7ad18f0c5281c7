package redmock

import (
	"sync"
	"time"
)

// lockTable hands out one token channel per key. A buffered channel of
// capacity one acts as the mutex: send acquires, receive releases, and
// waiters park on the send instead of polling.
type lockTable struct {
	mu    sync.Mutex
	chans map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{chans: make(map[string]chan struct{})}
}

func (t *lockTable) channel(key string) chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.chans[key]
	if !ok {
		ch = make(chan struct{}, 1)
		t.chans[key] = ch
	}
	return ch
}

// Lock is an advisory per-key mutual exclusion guard. Unlike the
// reference server's lock, which enforced nothing, Acquire really does
// exclude other holders of the same key.
type Lock struct {
	key     string
	timeout time.Duration
	ch      chan struct{}
	held    bool
}

// Lock returns a guard for key. Acquire waits up to timeout; a zero or
// negative timeout makes Acquire a non-blocking attempt.
func (c *Client) Lock(key string, timeout time.Duration) *Lock {
	return &Lock{key: key, timeout: timeout, ch: c.locks.channel(key)}
}

// Acquire takes the lock, failing with ErrLockTimeout once the timeout
// elapses. Re-acquiring a guard that is already held is a usage error.
func (l *Lock) Acquire() error {
	if l.held {
		return newUsageError("lock on " + l.key + " is already held")
	}

	if l.timeout <= 0 {
		select {
		case l.ch <- struct{}{}:
			l.held = true
			return nil
		default:
			return ErrLockTimeout
		}
	}

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()
	select {
	case l.ch <- struct{}{}:
		l.held = true
		return nil
	case <-timer.C:
		return ErrLockTimeout
	}
}

// Release drops the lock. Releasing a guard that is not held is a
// no-op.
func (l *Lock) Release() {
	if !l.held {
		return
	}
	l.held = false
	<-l.ch
}
