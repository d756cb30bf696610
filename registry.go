// Copyright (c) 2026 Statekit (https://github.com/statekit)
//
// registry.go — converter registry: descriptor→factory table with union
// reduction, generic-origin unwrapping, subclass fallback, and an LRU
// resolution cache purged on every registration.

package statepack

import (
	"fmt"
	"sync"

	"github.com/statekit/statepack/internal/lru"
	"github.com/statekit/statepack/internal/metrics"
)

// resolutionCacheSize bounds the resolution cache.
const resolutionCacheSize = 128

type registration struct {
	factory          ConverterFactory
	supportsSubclass bool
}

// cacheEntry stores a resolved factory and the descriptor it binds, never a
// converter instance, so every Resolve yields an independent converter.
type cacheEntry struct {
	factory ConverterFactory
	bound   Type
}

// Registry maps type descriptors to converter factories and resolves the
// converter for any type hint. Registration is expected at start-up;
// resolution is the hot path and is cached.
type Registry struct {
	mu      sync.RWMutex
	regs    map[string]registration
	order   []string
	types   map[string]Type
	cache   *lru.Cache
	logger  Logger
	metrics metrics.Recorder
}

// NewRegistry returns a registry with the built-in converters registered:
// float, int, and string with subclass support, literal mapped to the string
// converter, enum with subclass support, bool, uuid, and blob.
func NewRegistry() *Registry {
	r := &Registry{
		regs:    make(map[string]registration),
		types:   make(map[string]Type),
		cache:   lru.New(resolutionCacheSize),
		logger:  noopLogger{},
		metrics: metrics.Noop{},
	}
	r.Register(Float, NewFloatConverter, true)
	r.Register(Int, NewIntConverter, true)
	r.Register(Str, NewStringConverter, true)
	r.Register(Literal, NewStringConverter, false)
	r.Register(AnyEnum(), NewEnumConverter, true)
	r.Register(Bool, NewBoolConverter, false)
	r.Register(UUID, NewUUIDConverter, false)
	r.Register(Blob, NewBlobConverter, false)
	return r
}

// SetLogger routes registry log lines to l.
func (r *Registry) SetLogger(l Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l != nil {
		r.logger = l
	}
}

// SetMetrics routes resolution metrics to m.
func (r *Registry) SetMetrics(m MetricsRecorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m != nil {
		r.metrics = m
	}
}

// Register inserts or overwrites the factory for descriptor t and purges the
// resolution cache. Overwriting keeps the descriptor's original position in
// the subclass scan order. With supportsSubclass, t also matches descendants
// of t during the scan.
func (r *Registry) Register(t Type, factory ConverterFactory, supportsSubclass bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tok := t.Token()
	if _, exists := r.regs[tok]; !exists {
		r.order = append(r.order, tok)
	}
	r.regs[tok] = registration{factory: factory, supportsSubclass: supportsSubclass}
	r.types[tok] = t
	r.cache.Purge()
	r.logger.Debug("statepack: converter registered", "type", t.Name(), "subclasses", supportsSubclass)
}

// Resolve returns a fresh converter for hint. Unions reduce to their
// leftmost alternative, parameterized forms dispatch on their origin, and
// descriptors with no exact registration fall back to the first registered
// ancestor with subclass support.
func (r *Registry) Resolve(hint Type) (Converter, error) {
	e, ok := r.resolveEntry(hint)
	if !ok {
		return nil, fmt.Errorf("%w `%s`", ErrConverterNotFound, hint.Name())
	}
	return e.factory(e.bound, r), nil
}

func (r *Registry) resolveEntry(hint Type) (cacheEntry, bool) {
	key := hint.Token()

	r.mu.RLock()
	defer r.mu.RUnlock()

	if v, ok := r.cache.Get(key); ok {
		r.metrics.RecordResolve(key, true)
		return v.(cacheEntry), true
	}
	r.metrics.RecordResolve(key, false)

	e, ok := r.lookup(hint)
	if ok {
		r.cache.Set(key, e)
	}
	return e, ok
}

// lookup runs the reduction and scan steps. The caller holds at least a read
// lock.
func (r *Registry) lookup(hint Type) (cacheEntry, bool) {
	resolved := hint
	if u, ok := resolved.(Alternatives); ok {
		if alts := u.Alternatives(); len(alts) > 0 {
			resolved = alts[0]
		}
	}
	if g, ok := resolved.(Parameterized); ok {
		resolved = g.Origin()
	}

	if reg, ok := r.regs[resolved.Token()]; ok {
		return cacheEntry{factory: reg.factory, bound: resolved}, true
	}
	for _, tok := range r.order {
		reg := r.regs[tok]
		if !reg.supportsSubclass {
			continue
		}
		if descendsFrom(resolved, r.types[tok]) {
			return cacheEntry{factory: reg.factory, bound: resolved}, true
		}
	}
	return cacheEntry{}, false
}

// descendsFrom reports whether t is a strict descendant of ancestor in the
// Super chain.
func descendsFrom(t, ancestor Type) bool {
	h, ok := t.(Hierarchical)
	for ok {
		super := h.Super()
		if super == nil {
			return false
		}
		if super.Token() == ancestor.Token() {
			return true
		}
		h, ok = super.(Hierarchical)
	}
	return false
}

// ────────────────────────────────────────────────────────────────────────────
// Default registry
// ────────────────────────────────────────────────────────────────────────────

// DefaultRegistry is the process-wide registry used by the package-level
// Register and Resolve functions and by converters constructed without a
// registry.
var DefaultRegistry = NewRegistry()

// Register adds a converter factory to DefaultRegistry.
func Register(t Type, factory ConverterFactory, supportsSubclass bool) {
	DefaultRegistry.Register(t, factory, supportsSubclass)
}

// Resolve resolves a converter for hint from DefaultRegistry.
func Resolve(hint Type) (Converter, error) {
	return DefaultRegistry.Resolve(hint)
}
