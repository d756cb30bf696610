// Copyright (c) 2026 Statekit (https://github.com/statekit)
//
// logger.go — Logger interface and noop implementation used internally by
// statepack for structured logging, plus a zap adapter; swap in slog or
// logrus by passing a custom implementation to Config.Logger.

package statepack

import "go.uber.org/zap"

// Logger is the logging interface used internally by statepack.
// Implement this to route logs to zap, slog, logrus, etc.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Info(_ string, _ ...any)  {}
func (noopLogger) Warn(_ string, _ ...any)  {}
func (noopLogger) Error(_ string, _ ...any) {}
func (noopLogger) Debug(_ string, _ ...any) {}

// zapLogger adapts a *zap.SugaredLogger to Logger.
type zapLogger struct{ s *zap.SugaredLogger }

// NewZapLogger wraps l so it satisfies Logger. Pass the result in
// Config.Logger or Registry.SetLogger.
func NewZapLogger(l *zap.Logger) Logger { return &zapLogger{s: l.Sugar()} }

func (z *zapLogger) Info(msg string, keysAndValues ...any)  { z.s.Infow(msg, keysAndValues...) }
func (z *zapLogger) Warn(msg string, keysAndValues ...any)  { z.s.Warnw(msg, keysAndValues...) }
func (z *zapLogger) Error(msg string, keysAndValues ...any) { z.s.Errorw(msg, keysAndValues...) }
func (z *zapLogger) Debug(msg string, keysAndValues ...any) { z.s.Debugw(msg, keysAndValues...) }
