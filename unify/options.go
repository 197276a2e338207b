package unify

import (
	"io"
	"log/slog"

	"github.com/smasher164/tyeq/unionfind"
)

type Option func(*config)

type config struct {
	log    *slog.Logger
	arena  []unionfind.Option
	occurs bool
}

func newConfig(opts []Option) *config {
	c := &config{occurs: true}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// WithLogger traces subsystem lifetimes and unification steps at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) { c.log = log }
}

func WithArena(opts ...unionfind.Option) Option {
	return func(c *config) { c.arena = append(c.arena, opts...) }
}

// WithoutOccursCheck lets a variable be solved to a head that contains it.
// Equality on the resulting cyclic types may not terminate.
func WithoutOccursCheck() Option {
	return func(c *config) { c.occurs = false }
}
