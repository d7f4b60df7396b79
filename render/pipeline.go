// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/karnpapon/vedajs/scene"
	"github.com/karnpapon/vedajs/sizeexpr"
	"github.com/karnpapon/vedajs/uniform"
)

// Config carries the build-time parameters of a pipeline.
type Config struct {
	// CanvasWidth and CanvasHeight are the display dimensions in pixels
	// at build time. Named pairs are initially sized from them; per-frame
	// resizes keep them current afterward.
	CanvasWidth  int
	CanvasHeight int

	// PixelRatio divides the canvas dimensions to get the render-buffer
	// base size. Values <= 0 are treated as 1.
	PixelRatio float64

	// VertexCount is the vertex count for procedural-geometry passes.
	VertexCount int

	// VertexMode is the draw primitive for procedural-geometry passes.
	VertexMode scene.Primitive

	// DefaultVertexSource fills in for passes that supply only a
	// fragment shader, and DefaultFragmentSource for vertex-only passes.
	DefaultVertexSource   string
	DefaultFragmentSource string
}

func (c Config) pixelRatio() float64 {
	if c.PixelRatio <= 0 {
		return 1
	}
	return c.PixelRatio
}

// Pipeline is an ordered sequence of passes plus the named target pairs
// they share. A pipeline is immutable once built: shader edits rebuild
// the whole thing, because inter-pass target sharing and ordering make
// partial updates unsafe to reason about.
type Pipeline struct {
	passes  []*Pass
	targets map[string]*TargetPair
	order   []string
}

// Build constructs a pipeline from specs in declaration order. The first
// pass declaring a target name creates the pair; later passes declaring
// the same name share it by reference. On any error the partially built
// pipeline is disposed and the error returned, so a caller's previously
// installed pipeline stays live untouched.
func Build(dev Device, specs []PassSpec, table *uniform.Table, cfg Config) (*Pipeline, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}

	// Reject invalid specs before allocating anything.
	for i, spec := range specs {
		if !spec.valid() {
			return nil, fmt.Errorf("pass %d: %w", i, ErrNoShaderSource)
		}
	}

	p := &Pipeline{targets: make(map[string]*TargetPair)}

	for i, spec := range specs {
		pass, err := p.buildPass(dev, spec, table, cfg)
		if err != nil {
			p.Dispose()
			return nil, fmt.Errorf("pass %d: %w", i, err)
		}
		p.passes = append(p.passes, pass)
	}

	Logger().Info("pipeline built", "passes", len(p.passes), "targets", len(p.targets))
	return p, nil
}

func (p *Pipeline) buildPass(dev Device, spec PassSpec, table *uniform.Table, cfg Config) (*Pass, error) {
	vsrc := spec.Vertex
	fsrc := spec.Fragment
	var mesh *scene.Mesh
	if spec.Vertex != "" {
		mesh = scene.Procedural(cfg.VertexCount, cfg.VertexMode)
		if fsrc == "" {
			fsrc = cfg.DefaultFragmentSource
		}
	} else {
		mesh = scene.FullScreenQuad()
		vsrc = cfg.DefaultVertexSource
	}

	prog, err := dev.CompileProgram(vsrc, fsrc)
	if err != nil {
		return nil, err
	}
	if err := ValidateBindings(prog, table); err != nil {
		prog.Dispose()
		return nil, err
	}

	pass := &Pass{
		scene:    scene.New(mesh),
		camera:   scene.NewDefault(),
		program:  prog,
		widthFn:  compileSizeFunc(spec.Width, sizeexpr.Width, "width"),
		heightFn: compileSizeFunc(spec.Height, sizeexpr.Height, "height"),
	}

	if spec.Target != "" {
		pair, ok := p.targets[spec.Target]
		if !ok {
			w, h := pass.ResolveSize(float64(cfg.CanvasWidth), float64(cfg.CanvasHeight), cfg.pixelRatio())
			pair, err = NewTargetPair(dev, spec.Target, w, h, FramebufferOptions{
				FloatTexture: spec.FloatTexture,
				Label:        spec.Target,
			})
			if err != nil {
				prog.Dispose()
				return nil, err
			}
			p.targets[spec.Target] = pair
			p.order = append(p.order, spec.Target)
		}
		pass.target = pair
	}

	return pass, nil
}

// Passes returns the passes in execution order. The slice is owned by the
// pipeline and must not be mutated.
func (p *Pipeline) Passes() []*Pass { return p.passes }

// Target returns the pair registered under name, or nil.
func (p *Pipeline) Target(name string) *TargetPair { return p.targets[name] }

// TargetNames returns the declared target names in first-declaration order.
func (p *Pipeline) TargetNames() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// LastPass returns the final pass, or nil for an empty pipeline.
func (p *Pipeline) LastPass() *Pass {
	if len(p.passes) == 0 {
		return nil
	}
	return p.passes[len(p.passes)-1]
}

// Dispose releases every target pair the pipeline created and every
// compiled program its passes own. Safe to call on a partially built
// pipeline and idempotent.
func (p *Pipeline) Dispose() {
	for _, pass := range p.passes {
		if pass.program != nil {
			pass.program.Dispose()
			pass.program = nil
		}
		pass.target = nil
	}
	for name, pair := range p.targets {
		pair.Dispose()
		delete(p.targets, name)
	}
	p.order = nil
}
