// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

// Package render implements the render-graph execution engine: ordered
// shader passes, double-buffered (ping-pong) render targets shared by
// name, and whole-pipeline build/dispose semantics.
//
// The package talks to the GPU only through the Device interface, so the
// engine's state machine — swap ordering, resize coherence, disposal —
// can be exercised against an in-memory device (see render/rendertest)
// while backend/wgpu provides the real one.
package render
