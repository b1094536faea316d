package hub

import (
	"fmt"
	"log/slog"
	"sync"
)

// Computed holds a value derived from a single source. It is recomputed, and
// its own listeners notified, inside the source's update, so by the time any
// listener of the computed hub runs its value already matches the source.
//
// A Computed has no exported write path; only its source drives it.
type Computed[T any] struct {
	hub *Hub[T]

	closeOnce sync.Once
	release   func()
}

// NewComputed derives a hub from src through compute. The initial value is
// computed immediately and a failure aborts construction.
//
// When a later recompute fails, the previous value is kept, the computed
// hub's listeners are not notified and the error is returned from the
// source's SetState.
func NewComputed[S, T any](src Source[S], compute func(S) (T, error), opts ...Option) (*Computed[T], error) {
	initial, err := runCompute(compute, src.State())
	if err != nil {
		return nil, err
	}

	c := &Computed[T]{hub: New(initial, opts...)}
	cl := NewChangeListener(func() error {
		next, err := runCompute(compute, src.State())
		if err != nil {
			c.hub.opts.logger.Warn("recompute failed, keeping previous value", slog.Any("err", err))
			return fmt.Errorf("%s: %w", c.hub.Name(), err)
		}
		return c.hub.SetState(next)
	})
	src.OnChange(cl)
	c.release = func() { src.RemoveOnChange(cl) }

	return c, nil
}

// Derive is NewComputed for transforms that cannot fail. It panics if compute
// panics on the initial value; use NewComputed to get that failure as an
// error instead.
func Derive[S, T any](src Source[S], compute func(S) T, opts ...Option) *Computed[T] {
	c, err := NewComputed(src, func(s S) (T, error) {
		return compute(s), nil
	}, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func runCompute[S, T any](compute func(S) (T, error), s S) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrCompute, r)
		}
	}()
	v, err = compute(s)
	if err != nil {
		return v, fmt.Errorf("%w: %w", ErrCompute, err)
	}
	return v, nil
}

func (c *Computed[T]) Name() string {
	return c.hub.Name()
}

func (c *Computed[T]) State() T {
	return c.hub.State()
}

func (c *Computed[T]) Attach(l *Listener[T]) {
	c.hub.Attach(l)
}

func (c *Computed[T]) Detach(l *Listener[T]) {
	c.hub.Detach(l)
}

func (c *Computed[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return c.hub.Subscribe(fn)
}

func (c *Computed[T]) OnChange(cl *ChangeListener) {
	c.hub.OnChange(cl)
}

func (c *Computed[T]) RemoveOnChange(cl *ChangeListener) {
	c.hub.RemoveOnChange(cl)
}

func (c *Computed[T]) ListenerCount() (listeners, changes int) {
	return c.hub.ListenerCount()
}

// Close detaches the computed hub from its source. The value is frozen
// afterwards. Close is idempotent.
func (c *Computed[T]) Close() {
	c.closeOnce.Do(c.release)
}
