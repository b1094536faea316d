package hubsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/delaneyj/statehub/hub"
	"github.com/google/uuid"
)

// Target is the part of a hub a Binding needs.
type Target[T any] interface {
	Name() string
	State() T
	SetState(v T) error
	Attach(l *hub.Listener[T])
	Detach(l *hub.Listener[T])
}

type config struct {
	logger  *slog.Logger
	onError hub.ErrorHandler
	now     func() time.Time
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithErrorHandler receives save failures, which happen inside notification
// rounds and cannot be returned.
func WithErrorHandler(fn hub.ErrorHandler) Option {
	return func(c *config) {
		c.onError = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// Binding writes every new value of a hub to a Store.
type Binding[T any] struct {
	target   Target[T]
	store    Store
	key      string
	codec    Codec[T]
	cfg      config
	ctx      context.Context
	listener *hub.Listener[T]

	mu       sync.Mutex
	lastETag string
	lastMeta Meta
	writes   int

	closeOnce sync.Once
	stop      func() bool
}

// Bind restores the value stored under key into target, or stores the current
// value when nothing is there yet, then saves every later value. Identical
// payloads are not written twice in a row. A nil codec means JSON.
//
// ctx bounds the binding: saves use it and the binding closes itself when it
// is done.
func Bind[T any](ctx context.Context, target Target[T], store Store, key string, codec Codec[T], opts ...Option) (*Binding[T], error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	if store == nil {
		return nil, fmt.Errorf("hubsync: store is required")
	}
	if codec == nil {
		codec = JSONCodec[T]{}
	}
	cfg := config{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.logger = cfg.logger.With(slog.String("hub", target.Name()), slog.String("key", key))

	b := &Binding[T]{
		target: target,
		store:  store,
		key:    key,
		codec:  codec,
		cfg:    cfg,
		ctx:    ctx,
	}

	data, meta, ok, err := store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("hubsync: load %q: %w", key, err)
	}
	if ok {
		v, err := codec.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("hubsync: decode %q: %w", key, err)
		}
		if meta.ETag == "" {
			meta.ETag = ETag(data)
		}
		b.lastETag = meta.ETag
		b.lastMeta = meta
		if err := target.SetState(v); err != nil {
			return nil, fmt.Errorf("hubsync: restore %q: %w", key, err)
		}
		cfg.logger.Debug("restored value", slog.String("snapshot", meta.SnapshotID))
	} else if err := b.save(target.State()); err != nil {
		return nil, err
	}

	b.listener = hub.NewListener(func(v T) {
		if err := b.save(v); err != nil {
			cfg.logger.Error("save failed", slog.Any("err", err))
			if cfg.onError != nil {
				cfg.onError(target.Name(), err)
			}
		}
	})
	target.Attach(b.listener)
	stop := context.AfterFunc(ctx, b.Close)
	b.mu.Lock()
	b.stop = stop
	b.mu.Unlock()

	return b, nil
}

func (b *Binding[T]) save(v T) error {
	data, err := b.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("hubsync: encode %q: %w", b.key, err)
	}
	etag := ETag(data)

	b.mu.Lock()
	defer b.mu.Unlock()
	if etag == b.lastETag {
		return nil
	}
	meta, err := b.store.Save(b.ctx, b.key, data, Meta{
		SnapshotID: uuid.NewString(),
		ETag:       etag,
		UpdatedAt:  b.cfg.now(),
	})
	if err != nil {
		return fmt.Errorf("hubsync: save %q: %w", b.key, err)
	}
	b.lastETag = etag
	b.lastMeta = meta
	b.writes++
	return nil
}

// Writes reports how many saves reached the store.
func (b *Binding[T]) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// Meta returns the metadata of the last loaded or saved snapshot.
func (b *Binding[T]) Meta() Meta {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastMeta
}

// Close stops saving. It is idempotent.
func (b *Binding[T]) Close() {
	b.closeOnce.Do(func() {
		b.target.Detach(b.listener)
		b.mu.Lock()
		stop := b.stop
		b.mu.Unlock()
		if stop != nil {
			stop()
		}
	})
}
