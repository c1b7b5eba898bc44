package rbac

import (
	"log/slog"

	"github.com/mztlive/rbac/store"
)

// Option is a functional option for constructing an Engine.
type Option func(*Engine)

// WithStore sets the backing store. Required — NewEngine returns
// ErrStoreRequired if no store is supplied.
func WithStore(s store.Store) Option { return func(e *Engine) { e.store = s } }

// WithCache overrides the default sharded cache. Pass a no-op Cache
// implementation to disable caching.
func WithCache(c Cache) Option { return func(e *Engine) { e.cache = c } }

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithConfig sets the engine configuration. Defaults to DefaultConfig().
func WithConfig(c Config) Option { return func(e *Engine) { e.config = c } }
