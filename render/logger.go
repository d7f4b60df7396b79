// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package render

import (
	"log/slog"
	"sync/atomic"

	"github.com/karnpapon/vedajs/internal/noplog"
)

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(noplog.New())
}

// SetLogger configures logging for the render engine. By default the
// engine produces no output. Pass nil to restore the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = noplog.New()
	}
	loggerPtr.Store(l)
}

// Logger returns the active logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
