package hub

import (
	"fmt"
	"log/slog"
	"sync"
)

// Source is anything a computed hub can derive from.
type Source[S any] interface {
	State() S
	OnChange(c *ChangeListener)
	RemoveOnChange(c *ChangeListener)
}

// Hub is a mutable state container that synchronously notifies its listeners
// on every update. All notifications for one update complete before the
// update returns.
type Hub[T any] struct {
	opts       *options
	transition transitionLock
	bc         *broadcaster[T]

	mu    sync.RWMutex
	state T
}

// New creates a hub holding initial.
func New[T any](initial T, opts ...Option) *Hub[T] {
	return &Hub[T]{
		opts:  newOptions(opts),
		bc:    newBroadcaster[T](),
		state: initial,
	}
}

// NewFunc creates a hub whose initial value is produced by init, which is
// called exactly once. A failing or panicking init aborts construction.
func NewFunc[T any](init func() (T, error), opts ...Option) (*Hub[T], error) {
	initial, err := runInit(init)
	if err != nil {
		return nil, err
	}
	return New(initial, opts...), nil
}

func runInit[T any](init func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrInitializer, r)
		}
	}()
	v, err = init()
	if err != nil {
		return v, fmt.Errorf("%w: %w", ErrInitializer, err)
	}
	return v, nil
}

// Name returns the name used in logs and error reports.
func (h *Hub[T]) Name() string {
	return h.opts.name
}

// State returns the current value.
func (h *Hub[T]) State() T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// SetState replaces the value and notifies state listeners, then change
// listeners. The returned error joins whatever change listeners reported,
// typically compute failures of derived hubs.
//
// Calling SetState from a listener of the same hub on the notifying goroutine
// is allowed and is processed depth-first: the nested round completes before
// the outer round moves on to its remaining listeners, which still receive the
// outer value. Updates from other goroutines wait until the round completes,
// so a listener that blocks on another goroutine updating the same hub
// deadlocks.
func (h *Hub[T]) SetState(next T) error {
	h.transition.lock()
	defer h.transition.unlock()

	h.mu.Lock()
	h.state = next
	h.mu.Unlock()

	return h.publish(next)
}

// Update replaces the value with fn(prev). The read and the write happen in
// the same transition so concurrent updates do not lose writes.
func (h *Hub[T]) Update(fn func(prev T) T) error {
	h.transition.lock()
	defer h.transition.unlock()

	next := fn(h.State())
	h.mu.Lock()
	h.state = next
	h.mu.Unlock()

	return h.publish(next)
}

func (h *Hub[T]) publish(v T) error {
	err := h.bc.broadcast(h.opts, v)
	if err != nil {
		h.opts.logger.Debug("update reported errors", slog.Any("err", err))
	}
	return err
}

// Attach registers l. Attaching an already attached listener is a no-op.
func (h *Hub[T]) Attach(l *Listener[T]) {
	h.bc.attach(l)
}

// Detach removes l. A detached listener is never called again, even if it is
// detached halfway through a notification round.
func (h *Hub[T]) Detach(l *Listener[T]) {
	h.bc.detach(l)
}

// Subscribe attaches fn and returns a function that detaches it.
func (h *Hub[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	l := NewListener(fn)
	h.Attach(l)
	return func() { h.Detach(l) }
}

func (h *Hub[T]) OnChange(c *ChangeListener) {
	h.bc.onChange(c)
}

func (h *Hub[T]) RemoveOnChange(c *ChangeListener) {
	h.bc.removeOnChange(c)
}

// ListenerCount reports how many state and change listeners are attached.
func (h *Hub[T]) ListenerCount() (listeners, changes int) {
	return h.bc.count()
}
