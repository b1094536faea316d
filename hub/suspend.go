package hub

import "context"

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Suspender is implemented by hubs a consumer can defer on while they are
// pending.
type Suspender interface {
	ShouldSuspend() bool
	Settled() <-chan struct{}
}

// ShouldSuspend reports whether an invocation is in flight.
func (p *Promise[R]) ShouldSuspend() bool {
	return p.Pending()
}

// Settled returns a channel closed on the next transition of pending to
// false. If nothing is pending the channel is already closed.
func (p *Promise[R]) Settled() <-chan struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settled
}

// WaitIfPending blocks until the pending invocation settles or ctx is done.
// It returns immediately when nothing is pending.
func (p *Promise[R]) WaitIfPending(ctx context.Context) error {
	return WaitForSettle(ctx, p)
}

// ShouldSuspend reports whether a consumer of s should defer.
func ShouldSuspend(s Suspender) bool {
	return s.ShouldSuspend()
}

// WaitForSettle blocks until s settles or ctx is done.
func WaitForSettle(ctx context.Context, s Suspender) error {
	select {
	case <-s.Settled():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
