// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package render

import (
	"math"

	"github.com/karnpapon/vedajs/scene"
	"github.com/karnpapon/vedajs/sizeexpr"
	"github.com/karnpapon/vedajs/uniform"
)

// PassSpec describes one pass of a pipeline build. Field names follow the
// user-facing pass blocks, so a spec list round-trips through JSON.
type PassSpec struct {
	// Fragment is the fragment shader source. Optional if Vertex is set.
	Fragment string `json:"fs,omitempty"`

	// Vertex is the vertex shader source. Its presence selects the
	// procedural-geometry path.
	Vertex string `json:"vs,omitempty"`

	// Target names a shared, double-buffered offscreen target this pass
	// writes to instead of the display. Passes declaring the same name
	// share one physical pair.
	Target string `json:"TARGET,omitempty"`

	// FloatTexture requests a floating-point target.
	FloatTexture bool `json:"FLOAT,omitempty"`

	// Width and Height are size expressions over $WIDTH/$HEIGHT,
	// evaluated against the live canvas every frame. Empty or invalid
	// expressions fall back to the identity for that axis.
	Width  string `json:"WIDTH,omitempty"`
	Height string `json:"HEIGHT,omitempty"`
}

// valid reports whether the spec names at least one shader source.
func (s PassSpec) valid() bool {
	return s.Fragment != "" || s.Vertex != ""
}

// Pass is one executable node of the pipeline: a scene and camera drawn
// with a compiled program into an optional named target pair. Passes are
// created by Build and own their program; the target pair is owned by the
// pipeline and only referenced here.
type Pass struct {
	scene    *scene.Scene
	camera   *scene.Camera
	program  Program
	target   *TargetPair
	widthFn  sizeexpr.Func
	heightFn sizeexpr.Func
}

// Target returns the pair this pass writes to, or nil for display-bound
// passes.
func (p *Pass) Target() *TargetPair { return p.target }

// Program returns the compiled program.
func (p *Pass) Program() Program { return p.program }

// ResolveSize evaluates the pass's size expressions against the live
// canvas dimensions scaled by the pixel ratio. The result is clamped to a
// positive integer per axis, so a degenerate expression cannot produce an
// uncreatable framebuffer.
func (p *Pass) ResolveSize(canvasWidth, canvasHeight, pixelRatio float64) (int, int) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	bw := canvasWidth / pixelRatio
	bh := canvasHeight / pixelRatio

	w := int(math.Floor(p.widthFn(bw, bh)))
	h := int(math.Floor(p.heightFn(bw, bh)))
	w, h = clampSize(w, h)
	return w, h
}

// Execute draws the pass into target (nil renders onto the display). The
// uniform table is read-only for the duration of the call.
func (p *Pass) Execute(dev Device, table *uniform.Table, target Framebuffer) error {
	return dev.Render(p.scene, p.camera, p.program, table, target)
}

func compileSizeFunc(src string, fallback sizeexpr.Func, axis string) sizeexpr.Func {
	if src == "" {
		return fallback
	}
	fn, err := sizeexpr.Compile(src)
	if err != nil {
		// An unparsable size expression is a configuration slip, not a
		// build-stopper: the axis falls back to identity.
		Logger().Warn("invalid size expression, using identity",
			"axis", axis, "expr", src, "error", err)
		return fallback
	}
	return fn
}
