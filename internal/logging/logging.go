/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging builds the logr loggers used across the module.
package logging

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V(...).
const (
	// DEBUG is for per-run detail: configuration, terminal states.
	DEBUG = 1
	// TRACE is for per-sweep and per-user detail.
	TRACE = 2
)

var (
	mu  sync.RWMutex
	log = logr.Discard()
)

// NewLogger builds a zap-backed logr.Logger that emits messages up to verbosity.
// Development mode selects the console encoder and stack traces on warnings.
func NewLogger(verbosity int, development bool) (logr.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if verbosity < 0 {
		verbosity = 0
	}
	// logr V(n) maps onto zap level -n
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zl), nil
}

// NewTestLogger installs a development logger at TRACE verbosity as the package
// logger and returns it.
func NewTestLogger() logr.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-TRACE))
	l := zapr.NewLogger(zap.Must(cfg.Build()))
	SetLogger(l)
	return l
}

// SetLogger replaces the package logger returned by Log and used as the
// FromContext fallback.
func SetLogger(l logr.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// Log returns the package logger.
func Log() logr.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// FromContext returns the logger carried by ctx, or the package logger.
func FromContext(ctx context.Context) logr.Logger {
	if l, err := logr.FromContext(ctx); err == nil {
		return l
	}
	return Log()
}

// IntoContext returns a copy of ctx carrying l.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}
