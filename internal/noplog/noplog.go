// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

// Package noplog provides the silent default logger shared by all vedajs
// packages. Logging is opt-in: until a caller installs a real logger, the
// nop handler reports itself disabled so log sites skip formatting.
package noplog

import (
	"context"
	"log/slog"
)

type handler struct{}

func (handler) Enabled(context.Context, slog.Level) bool  { return false }
func (handler) Handle(context.Context, slog.Record) error { return nil }
func (handler) WithAttrs([]slog.Attr) slog.Handler        { return handler{} }
func (handler) WithGroup(string) slog.Handler             { return handler{} }

// New creates a logger that silently discards all output.
func New() *slog.Logger { return slog.New(handler{}) }
