package hub

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// transitionLock serialises state transitions across goroutines while letting
// the goroutine that owns a notification round re-enter it. A listener that
// writes back into the hub it is being notified by recurses depth-first
// instead of deadlocking.
type transitionLock struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

func (l *transitionLock) lock() {
	gid := goid.Get()
	if l.owner.Load() == gid {
		l.depth++
		return
	}
	l.mu.Lock()
	l.owner.Store(gid)
	l.depth = 1
}

func (l *transitionLock) unlock() {
	l.depth--
	if l.depth == 0 {
		l.owner.Store(0)
		l.mu.Unlock()
	}
}
