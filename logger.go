// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package vedajs

import (
	"log/slog"

	"github.com/karnpapon/vedajs/inputs"
	"github.com/karnpapon/vedajs/render"
)

// SetLogger configures logging for the whole host, the render engine
// included. By default nothing is logged. Pass nil to restore the
// silent default.
func SetLogger(l *slog.Logger) {
	render.SetLogger(l)
	inputs.SetLogger(l)
}
