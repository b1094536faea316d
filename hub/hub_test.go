package hub_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/delaneyj/statehub/hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() hub.Option {
	return hub.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHubBasicUsage(t *testing.T) {
	h := hub.New(0, quiet())

	var got []int
	h.Attach(hub.NewListener(func(v int) {
		got = append(got, v)
	}))

	require.NoError(t, h.SetState(5))
	assert.Equal(t, []int{5}, got)
	assert.Equal(t, 5, h.State())
}

func TestHubListenerFidelity(t *testing.T) {
	h := hub.New("a", quiet())
	calls := 0
	l := hub.NewListener(func(string) { calls++ })

	h.Attach(l)
	h.SetState("b")
	assert.Equal(t, 1, calls)

	h.Detach(l)
	h.SetState("c")
	assert.Equal(t, 1, calls)
}

func TestHubIdempotentAttachDetach(t *testing.T) {
	h := hub.New(0, quiet())
	calls := 0
	l := hub.NewListener(func(int) { calls++ })

	h.Attach(l)
	h.Attach(l)
	listeners, _ := h.ListenerCount()
	assert.Equal(t, 1, listeners)

	h.SetState(1)
	assert.Equal(t, 1, calls)

	h.Detach(l)
	h.Detach(l)
	h.SetState(2)
	assert.Equal(t, 1, calls)

	// never attached
	h.Detach(hub.NewListener(func(int) {}))
	h.Attach(nil)
	listeners, _ = h.ListenerCount()
	assert.Equal(t, 0, listeners)
}

func TestHubSubscribe(t *testing.T) {
	h := hub.New(0, quiet())
	calls := 0
	unsubscribe := h.Subscribe(func(int) { calls++ })

	h.SetState(1)
	unsubscribe()
	unsubscribe()
	h.SetState(2)
	assert.Equal(t, 1, calls)
}

func TestHubNotificationOrder(t *testing.T) {
	h := hub.New(0, quiet())
	var order []string
	h.Attach(hub.NewListener(func(int) { order = append(order, "listener") }))
	h.OnChange(hub.NewChangeListener(func() error {
		order = append(order, "change")
		return nil
	}))

	h.SetState(1)
	assert.Equal(t, []string{"listener", "change"}, order)
}

func TestHubDetachDuringNotification(t *testing.T) {
	h := hub.New(0, quiet())

	var a, b *hub.Listener[int]
	calls := 0
	a = hub.NewListener(func(int) {
		calls++
		h.Detach(b)
	})
	b = hub.NewListener(func(int) {
		calls++
		h.Detach(a)
	})
	h.Attach(a)
	h.Attach(b)

	// whichever runs first detaches the other before it gets its turn
	h.SetState(1)
	assert.Equal(t, 1, calls)

	h.SetState(2)
	assert.Equal(t, 2, calls)
}

func TestHubAttachDuringNotification(t *testing.T) {
	h := hub.New(0, quiet())
	late := 0
	lateListener := hub.NewListener(func(int) { late++ })
	h.Attach(hub.NewListener(func(int) {
		h.Attach(lateListener)
	}))

	h.SetState(1)
	assert.Equal(t, 0, late, "listeners attached mid-round wait for the next round")

	h.SetState(2)
	assert.Equal(t, 1, late)
}

func TestHubReentrantSetState(t *testing.T) {
	h := hub.New(0, quiet())
	var seen []int
	h.Attach(hub.NewListener(func(v int) {
		seen = append(seen, v)
		if v < 3 {
			require.NoError(t, h.SetState(v+1))
		}
	}))

	require.NoError(t, h.SetState(0))
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
	assert.Equal(t, 3, h.State())
}

func TestHubListenerPanicIsContained(t *testing.T) {
	var reported []error
	h := hub.New(0, quiet(), hub.WithName("counter"), hub.WithErrorHandler(func(name string, err error) {
		assert.Equal(t, "counter", name)
		reported = append(reported, err)
	}))

	calls := 0
	h.Attach(hub.NewListener(func(int) { panic("nope") }))
	h.Attach(hub.NewListener(func(int) { calls++ }))

	require.NoError(t, h.SetState(1))
	assert.Equal(t, 1, calls)
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], hub.ErrListenerPanic)

	listeners, _ := h.ListenerCount()
	assert.Equal(t, 2, listeners)
}

func TestHubChangeListenerErrors(t *testing.T) {
	h := hub.New(0, quiet())
	boom := errors.New("boom")
	h.OnChange(hub.NewChangeListener(func() error { return boom }))
	h.OnChange(hub.NewChangeListener(func() error { return nil }))

	err := h.SetState(1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, h.State())
}

func TestHubRemoveOnChange(t *testing.T) {
	h := hub.New(0, quiet())
	calls := 0
	c := hub.NewChangeListener(func() error {
		calls++
		return nil
	})
	h.OnChange(c)
	h.OnChange(c)
	h.SetState(1)
	h.RemoveOnChange(c)
	h.RemoveOnChange(c)
	h.SetState(2)
	assert.Equal(t, 1, calls)
}

func TestHubUpdate(t *testing.T) {
	h := hub.New([]string{"a"}, quiet())
	var got []string
	h.Subscribe(func(v []string) { got = v })

	require.NoError(t, h.Update(func(prev []string) []string {
		next := make([]string, len(prev), len(prev)+1)
		copy(next, prev)
		return append(next, "b")
	}))
	assert.Equal(t, []string{"a", "b"}, h.State())
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestHubConcurrentUpdates(t *testing.T) {
	h := hub.New(0, quiet())
	notified := 0
	h.Subscribe(func(int) { notified++ })

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Update(func(prev int) int { return prev + 1 })
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, h.State())
	assert.Equal(t, 100, notified)
}

func TestNewFunc(t *testing.T) {
	t.Run("calls the initializer once", func(t *testing.T) {
		calls := 0
		h, err := hub.NewFunc(func() (int, error) {
			calls++
			return 42, nil
		}, quiet())
		require.NoError(t, err)
		assert.Equal(t, 42, h.State())
		assert.Equal(t, 1, calls)
	})

	t.Run("initializer error aborts", func(t *testing.T) {
		boom := errors.New("boom")
		h, err := hub.NewFunc(func() (int, error) { return 0, boom }, quiet())
		assert.Nil(t, h)
		assert.ErrorIs(t, err, hub.ErrInitializer)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("initializer panic aborts", func(t *testing.T) {
		h, err := hub.NewFunc(func() (int, error) { panic("bad") }, quiet())
		assert.Nil(t, h)
		assert.ErrorIs(t, err, hub.ErrInitializer)
	})
}

func TestHubNames(t *testing.T) {
	named := hub.New(0, hub.WithName("settings"))
	assert.Equal(t, "settings", named.Name())

	a, b := hub.New(0), hub.New(0)
	assert.NotEmpty(t, a.Name())
	assert.NotEqual(t, a.Name(), b.Name())
}
