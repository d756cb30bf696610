// Copyright (c) 2026 Statekit (https://github.com/statekit)
//
// statepack.go — Serializer entry-point, Config with defaults, operational
// Stats, and re-exports of the internal component interfaces.

package statepack

import (
	"sync/atomic"

	"github.com/statekit/statepack/internal/clock"
	"github.com/statekit/statepack/internal/codec"
	"github.com/statekit/statepack/internal/metrics"
)

// Re-export types so callers only import this package.
type MetricsRecorder = metrics.Recorder
type BlobCodec = codec.Codec
type Clock = clock.Clock

// Concrete blob codecs for Config and BlobConverterUsing.
type JSONCodec = codec.JSON
type MsgPackCodec = codec.MsgPack
type CBORCodec = codec.CBOR

// MaxIdentifierLen is the hard ceiling on an encoded identifier's length in
// bytes, cookie prefix included.
const MaxIdentifierLen = 100

// ────────────────────────────────────────────────────────────────────────────
// Config
// ────────────────────────────────────────────────────────────────────────────

// Config contains Serializer configuration.
type Config struct {
	// Optional overrideable components
	Registry *Registry
	Logger   Logger
	Metrics  MetricsRecorder
	Clock    Clock
}

func (c *Config) defaults() {
	if c.Registry == nil {
		c.Registry = DefaultRegistry
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Noop{}
	}
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Stats
// ────────────────────────────────────────────────────────────────────────────

type serdeStats struct {
	Serializes   atomic.Int64
	Deserializes atomic.Int64
	Errors       atomic.Int64
}

// Stats is the snapshot returned by Serializer.Stats().
type Stats struct {
	Serializes   int64
	Deserializes int64
	Errors       int64
	CacheHits    int64
	CacheMisses  int64
	CacheEntries int64
}

// ────────────────────────────────────────────────────────────────────────────
// Serializer
// ────────────────────────────────────────────────────────────────────────────

// Serializer packs component state into bounded identifiers and back. It is
// safe for concurrent use.
type Serializer struct {
	cfg     Config
	reg     *Registry
	stats   serdeStats
	metrics MetricsRecorder
	logger  Logger
}

// NewSerializer creates a Serializer from the provided Config.
func NewSerializer(cfg Config) *Serializer {
	cfg.defaults()
	return &Serializer{
		cfg:     cfg,
		reg:     cfg.Registry,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

// Registry returns the registry this serializer resolves converters against.
func (sz *Serializer) Registry() *Registry { return sz.reg }

// Stats returns a snapshot of operational counters, including the resolution
// cache of the serializer's registry.
func (sz *Serializer) Stats() Stats {
	st := Stats{
		Serializes:   sz.stats.Serializes.Load(),
		Deserializes: sz.stats.Deserializes.Load(),
		Errors:       sz.stats.Errors.Load(),
	}
	cs := sz.reg.cache.Stats()
	st.CacheHits = cs.Hits
	st.CacheMisses = cs.Misses
	st.CacheEntries = cs.Entries
	return st
}
