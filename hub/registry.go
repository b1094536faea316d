package hub

import (
	"errors"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// Listener is a handle for a state callback. Hubs key their registries by the
// handle, so attaching the same handle twice is a no-op and detaching it once
// removes it.
type Listener[T any] struct {
	fn func(T)
}

// NewListener wraps fn in an attachable handle.
func NewListener[T any](fn func(T)) *Listener[T] {
	return &Listener[T]{fn: fn}
}

// ChangeListener is a handle for the lightweight "something changed" channel.
// Dependents pull the new value themselves. A returned error is handed back to
// whoever triggered the update.
type ChangeListener struct {
	fn func() error
}

// NewChangeListener wraps fn in an attachable handle.
func NewChangeListener(fn func() error) *ChangeListener {
	return &ChangeListener{fn: fn}
}

type registry[H comparable] struct {
	set mapset.Set[H]
}

func newRegistry[H comparable]() registry[H] {
	return registry[H]{set: mapset.NewThreadUnsafeSet[H]()}
}

// broadcaster owns both registries of a hub and runs notification rounds.
// Rounds iterate over a snapshot, and every handle is re-checked right before
// it is invoked so one detached mid-round is never called again.
type broadcaster[T any] struct {
	mu        sync.Mutex
	listeners registry[*Listener[T]]
	changes   registry[*ChangeListener]
}

func newBroadcaster[T any]() *broadcaster[T] {
	return &broadcaster[T]{
		listeners: newRegistry[*Listener[T]](),
		changes:   newRegistry[*ChangeListener](),
	}
}

func (b *broadcaster[T]) attach(l *Listener[T]) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners.set.Add(l)
}

func (b *broadcaster[T]) detach(l *Listener[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners.set.Remove(l)
}

func (b *broadcaster[T]) onChange(c *ChangeListener) {
	if c == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes.set.Add(c)
}

func (b *broadcaster[T]) removeOnChange(c *ChangeListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes.set.Remove(c)
}

func (b *broadcaster[T]) count() (listeners, changes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listeners.set.Cardinality(), b.changes.set.Cardinality()
}

func (b *broadcaster[T]) snapshot() ([]*Listener[T], []*ChangeListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listeners.set.ToSlice(), b.changes.set.ToSlice()
}

func (b *broadcaster[T]) hasListener(l *Listener[T]) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listeners.set.Contains(l)
}

func (b *broadcaster[T]) hasChange(c *ChangeListener) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.changes.set.Contains(c)
}

// broadcast delivers v to every state listener, then runs every change
// listener. Panics are contained per callback. Errors returned by change
// listeners are joined and returned.
func (b *broadcaster[T]) broadcast(o *options, v T) error {
	listeners, changes := b.snapshot()

	for _, l := range listeners {
		if !b.hasListener(l) {
			continue
		}
		o.guard("listener", func() error {
			l.fn(v)
			return nil
		})
	}

	var errs []error
	for _, c := range changes {
		if !b.hasChange(c) {
			continue
		}
		if err := o.guard("change", c.fn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
