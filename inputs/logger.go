// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"log/slog"
	"sync/atomic"

	"github.com/karnpapon/vedajs/internal/noplog"
)

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(noplog.New())
}

// SetLogger configures logging for all providers. Pass nil to restore
// the silent default.
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
