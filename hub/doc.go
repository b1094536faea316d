// Package hub provides small in-process state containers with synchronous
// listener notification.
//
// A Hub holds one value. A Computed derives its value from another hub and
// is refreshed inside that hub's update. A Promise tracks the value, pending
// flag and error of a retriggerable asynchronous action and lets consumers
// wait for it to settle.
//
//	count := hub.New(1)
//	double := hub.Derive(count, func(c int) int { return c * 2 })
//	count.SetState(2) // double.State() == 4 before any of its listeners run
//
// Derive suits transforms that cannot fail. Transforms that can, including
// ones that may panic on the initial value, belong in NewComputed, which
// returns the failure instead of panicking.
//
// Listeners run while the notifying hub holds its transition lock. A listener
// may update the same hub on its own goroutine, but it must not wait for
// another goroutine that touches that hub.
//
// Hubs are meant to be constructed once and passed to whoever needs them.
// All methods are safe for concurrent use.
package hub
