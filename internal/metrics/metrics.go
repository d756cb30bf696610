// Package metrics provides the Recorder interface and a noop implementation.
package metrics

import "time"

// Recorder is the interface for recording codec operation metrics.
type Recorder interface {
	// RecordResolve records one converter resolution and whether it was
	// served from the resolution cache.
	RecordResolve(hint string, cacheHit bool)
	// RecordLatency records the duration of one operation
	// ("serialize" or "deserialize") for the given cookie.
	RecordLatency(op, cookie string, d time.Duration)
	// RecordError records a failed operation
	// ("resolve", "serialize" or "deserialize").
	RecordError(op, cookie string)
}

// Noop is a Recorder that discards all data.
type Noop struct{}

func (Noop) RecordResolve(hint string, cacheHit bool)         {}
func (Noop) RecordLatency(op, cookie string, d time.Duration) {}
func (Noop) RecordError(op, cookie string)                    {}
