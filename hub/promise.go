package hub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Action produces the next value of a Promise from the previous one.
type Action[R any] func(ctx context.Context, prev R) (R, error)

// Snapshot is the composite state a Promise delivers to its listeners.
type Snapshot[R any] struct {
	Value   R
	Pending bool
	Err     error
}

// Outcome is what Trigger delivers once its invocation settles.
type Outcome[R any] struct {
	Value R
	OK    bool
}

// Promise tracks the lifecycle of a retriggerable asynchronous action.
//
// Each invocation runs through separate notifications: pending becomes true,
// then either the value or the error changes, then pending becomes false.
// Action failures are never returned to the caller; they are only visible
// through Err. An invocation started from a listener while another one is
// settling keeps pending true until that newer invocation settles.
//
// Listeners run while the Promise holds its transition lock. Blocking in a
// listener on work that touches the same Promise from another goroutine, such
// as receiving from Trigger or calling WaitIfPending, deadlocks.
type Promise[R any] struct {
	opts       *options
	action     Action[R]
	transition transitionLock
	bc         *broadcaster[Snapshot[R]]

	mu      sync.RWMutex
	value   R
	pending bool
	err     error
	latest  uint64
	settled chan struct{}
}

// NewPromise creates a Promise holding initial until action first succeeds.
func NewPromise[R any](initial R, action Action[R], opts ...Option) *Promise[R] {
	return &Promise[R]{
		opts:    newOptions(opts),
		action:  action,
		bc:      newBroadcaster[Snapshot[R]](),
		value:   initial,
		settled: closedChan,
	}
}

// NewPromiseFunc is NewPromise with an initializer called exactly once.
func NewPromiseFunc[R any](init func() (R, error), action Action[R], opts ...Option) (*Promise[R], error) {
	initial, err := runInit(init)
	if err != nil {
		return nil, err
	}
	return NewPromise(initial, action, opts...), nil
}

func (p *Promise[R]) Name() string {
	return p.opts.name
}

// State returns the last committed value.
func (p *Promise[R]) State() R {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

func (p *Promise[R]) Pending() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pending
}

// Err returns the error of the most recent failed invocation.
func (p *Promise[R]) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

func (p *Promise[R]) Snapshot() Snapshot[R] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

func (p *Promise[R]) snapshotLocked() Snapshot[R] {
	return Snapshot[R]{Value: p.value, Pending: p.pending, Err: p.err}
}

// ReAction runs the action once and blocks until it settles. ok reports
// whether the result was committed; it is false when the action failed or,
// under OverlapLatest, when a newer invocation superseded this one.
func (p *Promise[R]) ReAction(ctx context.Context) (value R, ok bool) {
	token, prev := p.begin()
	result, err := p.run(ctx, prev)
	return p.settle(token, result, err)
}

// Trigger starts an invocation and returns without waiting for it. The
// pending notification has been delivered by the time Trigger returns. The
// channel receives one Outcome and is then closed.
func (p *Promise[R]) Trigger(ctx context.Context) <-chan Outcome[R] {
	token, prev := p.begin()
	out := make(chan Outcome[R], 1)
	go func() {
		defer close(out)
		result, err := p.run(ctx, prev)
		v, ok := p.settle(token, result, err)
		out <- Outcome[R]{Value: v, OK: ok}
	}()
	return out
}

func (p *Promise[R]) begin() (token uint64, prev R) {
	p.transition.lock()
	defer p.transition.unlock()

	p.mu.Lock()
	p.latest++
	token = p.latest
	if !p.pending {
		p.pending = true
		p.settled = make(chan struct{})
	}
	if p.opts.clearErrorOnRetry {
		p.err = nil
	}
	prev = p.value
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.opts.logger.Debug("action started", slog.Uint64("token", token))
	p.publish(snap)
	return token, prev
}

func (p *Promise[R]) run(ctx context.Context, prev R) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrActionPanic, r)
		}
	}()
	return p.action(ctx, prev)
}

func (p *Promise[R]) settle(token uint64, result R, err error) (R, bool) {
	var zero R

	p.transition.lock()
	defer p.transition.unlock()

	p.mu.Lock()
	latest := p.latest
	if p.opts.overlap == OverlapLatest && token != latest {
		p.mu.Unlock()
		p.opts.logger.Debug("discarding superseded settlement",
			slog.Uint64("token", token), slog.Uint64("latest", latest))
		return zero, false
	}
	if err != nil {
		p.err = err
	} else {
		p.value = result
	}
	snap := p.snapshotLocked()
	p.mu.Unlock()

	if err != nil {
		p.opts.logger.Warn("action failed", slog.Uint64("token", token), slog.Any("err", err))
	}
	p.publish(snap)

	p.mu.Lock()
	if newer := p.latest; newer != latest {
		// A listener started another invocation; it owns pending now.
		p.mu.Unlock()
		p.opts.logger.Debug("settled while a newer invocation is in flight",
			slog.Uint64("token", token), slog.Uint64("latest", newer))
		return p.outcome(result, err)
	}
	p.pending = false
	if p.settled != closedChan {
		close(p.settled)
		p.settled = closedChan
	}
	snap = p.snapshotLocked()
	p.mu.Unlock()
	p.publish(snap)

	return p.outcome(result, err)
}

func (p *Promise[R]) outcome(result R, err error) (R, bool) {
	if err != nil {
		var zero R
		return zero, false
	}
	return result, true
}

func (p *Promise[R]) publish(snap Snapshot[R]) {
	if err := p.bc.broadcast(p.opts, snap); err != nil {
		// Nobody to return change errors to from an async settlement.
		p.opts.logger.Warn("change listener failed", slog.Any("err", err))
		p.opts.report(err)
	}
}

func (p *Promise[R]) Attach(l *Listener[Snapshot[R]]) {
	p.bc.attach(l)
}

func (p *Promise[R]) Detach(l *Listener[Snapshot[R]]) {
	p.bc.detach(l)
}

func (p *Promise[R]) Subscribe(fn func(Snapshot[R])) (unsubscribe func()) {
	l := NewListener(fn)
	p.Attach(l)
	return func() { p.Detach(l) }
}

// OnChange registers c for every transition. With it a Promise can act as
// the Source of a computed hub, which then derives from the committed value.
func (p *Promise[R]) OnChange(c *ChangeListener) {
	p.bc.onChange(c)
}

func (p *Promise[R]) RemoveOnChange(c *ChangeListener) {
	p.bc.removeOnChange(c)
}

func (p *Promise[R]) ListenerCount() (listeners, changes int) {
	return p.bc.count()
}
