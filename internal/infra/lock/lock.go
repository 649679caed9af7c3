package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrLockNotAcquired = errors.New("agenda lock not acquired")

// Locker serializa as escritas de uma mesma agenda (chave por dia).
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// AgendaKey monta a chave de lock para o dia local de t.
func AgendaKey(t time.Time, loc *time.Location) string {
	return fmt.Sprintf("agenda:%s", t.In(loc).Format("2006-01-02"))
}

// ======================================================
// LOCAL (processo único)
// ======================================================

type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &LocalLocker{
		slots: make(map[string]chan struct{}),
		wait:  wait,
	}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *LocalLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	ch := l.slot(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
	case <-timer.C:
		return ErrLockNotAcquired
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-ch }()

	return fn(ctx)
}
