package hub

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Overlap selects how a Promise treats ReAction calls that overlap.
type Overlap uint8

const (
	// OverlapLatest commits only the most recently started invocation.
	// Settlements of superseded invocations are discarded without notifying.
	OverlapLatest Overlap = iota
	// OverlapRace lets every invocation commit when it settles, so whichever
	// settles last wins. Each settlement flips pending back to false.
	OverlapRace
)

func (o Overlap) String() string {
	switch o {
	case OverlapLatest:
		return "latest"
	case OverlapRace:
		return "race"
	default:
		return fmt.Sprintf("overlap(%d)", uint8(o))
	}
}

type options struct {
	name    string
	logger  *slog.Logger
	onError ErrorHandler

	// Promise only.
	overlap           Overlap
	clearErrorOnRetry bool
}

// Option configures a Hub, Computed or Promise. Promise-only options are
// ignored by the other kinds.
type Option func(*options)

// WithName sets the name used in log records and error reports.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the structured logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithErrorHandler registers a callback for contained failures.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithOverlap sets the overlapping ReAction policy of a Promise.
func WithOverlap(overlap Overlap) Option {
	return func(o *options) {
		o.overlap = overlap
	}
}

// WithClearErrorOnRetry makes a Promise clear its error when a new
// invocation starts instead of keeping it until the next failure.
func WithClearErrorOnRetry() Option {
	return func(o *options) {
		o.clearErrorOnRetry = true
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.name == "" {
		o.name = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.logger = o.logger.With(slog.String("hub", o.name))
	return o
}

// guard runs fn and contains a panic: it is logged, reported to the error
// handler and swallowed so the rest of the round still runs.
func (o *options) guard(kind string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr := fmt.Errorf("%w: %s: %v", ErrListenerPanic, kind, r)
			o.logger.Error("listener panicked", slog.String("kind", kind), slog.Any("panic", r))
			o.report(perr)
			err = nil
		}
	}()
	return fn()
}

func (o *options) report(err error) {
	if o.onError != nil {
		o.onError(o.name, err)
	}
}
