// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package render_test

import (
	"errors"
	"testing"

	"github.com/karnpapon/vedajs/render"
	"github.com/karnpapon/vedajs/render/rendertest"
	"github.com/karnpapon/vedajs/uniform"
)

func newTable() *uniform.Table {
	return uniform.NewTable()
}

func testConfig() render.Config {
	return render.Config{
		CanvasWidth:           800,
		CanvasHeight:          600,
		PixelRatio:            1,
		VertexCount:           100,
		DefaultVertexSource:   "void main() {}",
		DefaultFragmentSource: "void main() {}",
	}
}

func TestBuildOrdersPassesAndCreatesTargets(t *testing.T) {
	dev := &rendertest.Device{}
	specs := []render.PassSpec{
		{Fragment: "frag a", Target: "A"},
		{Fragment: "frag b", Target: "B"},
		{Fragment: "frag out"},
	}

	p, err := render.Build(dev, specs, newTable(), testConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := len(p.Passes()); got != 3 {
		t.Fatalf("passes = %d, want 3", got)
	}
	if p.Passes()[0].Target() == nil || p.Passes()[0].Target().Name() != "A" {
		t.Error("pass 0 should be bound to A")
	}
	if p.Passes()[2].Target() != nil {
		t.Error("pass 2 should be display-bound")
	}
	names := p.TargetNames()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("TargetNames() = %v, want [A B]", names)
	}
	// Two pairs, two framebuffers each.
	if got := dev.LiveFramebuffers(); got != 4 {
		t.Errorf("live framebuffers = %d, want 4", got)
	}
}

func TestBuildSharesNamedTargets(t *testing.T) {
	dev := &rendertest.Device{}
	specs := []render.PassSpec{
		{Fragment: "writer", Target: "shared"},
		{Fragment: "second writer", Target: "shared"},
	}

	p, err := render.Build(dev, specs, newTable(), testConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if p.Passes()[0].Target() != p.Passes()[1].Target() {
		t.Error("passes declaring the same target name must share one physical pair")
	}
	if got := dev.LiveFramebuffers(); got != 2 {
		t.Errorf("live framebuffers = %d, want 2 (one pair)", got)
	}
}

func TestBuildRejectsSourcelessSpec(t *testing.T) {
	dev := &rendertest.Device{}
	specs := []render.PassSpec{
		{Fragment: "ok", Target: "A"},
		{}, // neither fragment nor vertex
	}

	_, err := render.Build(dev, specs, newTable(), testConfig())
	if !errors.Is(err, render.ErrNoShaderSource) {
		t.Fatalf("Build error = %v, want ErrNoShaderSource", err)
	}
	// Validation precedes allocation: nothing may leak.
	if got := dev.LiveFramebuffers(); got != 0 {
		t.Errorf("live framebuffers = %d, want 0 after rejected build", got)
	}
	if len(dev.Programs) != 0 {
		t.Errorf("programs compiled = %d, want 0 after rejected build", len(dev.Programs))
	}
}

func TestBuildCompileFailureDisposesPartialWork(t *testing.T) {
	dev := &rendertest.Device{}
	// The first pass compiles and creates pair A; the second compile fails.
	dev.CompileErr = errors.New("compile failed")
	dev.CompileErrAfter = 1

	_, err := render.Build(dev, []render.PassSpec{
		{Fragment: "ok", Target: "A"},
		{Fragment: "broken"},
	}, newTable(), testConfig())
	if err == nil {
		t.Fatal("Build should propagate compile errors")
	}

	// The partially built pipeline was disposed: no framebuffer and no
	// program survives.
	if got := dev.LiveFramebuffers(); got != 0 {
		t.Errorf("live framebuffers = %d, want 0 after failed build", got)
	}
	for i, prog := range dev.Programs {
		if !prog.Disposed {
			t.Errorf("program %d not disposed after failed build", i)
		}
	}
}

func TestBuildValidatesUniformTags(t *testing.T) {
	dev := &rendertest.Device{}
	table := newTable()
	table.Set("volume", uniform.Float(0.5))

	// The program declares "volume" as a texture slot: mismatch.
	dev.ProgramTags = map[string]uniform.Type{"volume": uniform.TypeTexture}

	_, err := render.Build(dev, []render.PassSpec{{Fragment: "f"}}, table, testConfig())
	var be *render.BindingError
	if !errors.As(err, &be) {
		t.Fatalf("Build error = %v, want BindingError", err)
	}
	if be.Name != "volume" {
		t.Errorf("BindingError.Name = %q, want volume", be.Name)
	}
}

func TestDisposeReleasesExactlyOwnedPairs(t *testing.T) {
	dev := &rendertest.Device{}
	keep, err := render.NewTargetPair(dev, "external", 8, 8, render.FramebufferOptions{})
	if err != nil {
		t.Fatal(err)
	}

	p, err := render.Build(dev, []render.PassSpec{
		{Fragment: "a", Target: "A"},
		{Fragment: "b", Target: "B"},
		{Fragment: "b2", Target: "B"},
	}, newTable(), testConfig())
	if err != nil {
		t.Fatal(err)
	}

	if got := dev.LiveFramebuffers(); got != 6 {
		t.Fatalf("live framebuffers = %d, want 6 (external pair + A + B)", got)
	}

	p.Dispose()

	// Exactly the pipeline's pairs are gone; the external pair survives.
	if got := dev.LiveFramebuffers(); got != 2 {
		t.Errorf("live framebuffers = %d, want 2 after Dispose", got)
	}
	keep.Swap() // must not panic

	// Programs are disposed with the pipeline.
	for i, prog := range dev.Programs {
		if !prog.Disposed {
			t.Errorf("program %d not disposed", i)
		}
	}

	// Idempotent.
	p.Dispose()
}

func TestRebuildCreatesOnePairPerDistinctName(t *testing.T) {
	dev := &rendertest.Device{}
	specs := []render.PassSpec{
		{Fragment: "a", Target: "A"},
		{Fragment: "b", Target: "B"},
		{Fragment: "b2", Target: "B"},
		{Fragment: "out"},
	}

	old, err := render.Build(dev, specs, newTable(), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	created := len(dev.Framebuffers)
	if created != 4 {
		t.Fatalf("framebuffers created = %d, want 4 (pairs A and B)", created)
	}

	// Reload: build the replacement, then dispose the old instance.
	next, err := render.Build(dev, specs, newTable(), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	old.Dispose()

	if got := len(dev.Framebuffers) - created; got != 4 {
		t.Errorf("framebuffers created by rebuild = %d, want 4", got)
	}
	if got := dev.LiveFramebuffers(); got != 4 {
		t.Errorf("live framebuffers = %d, want 4 (no leaks, no duplicates)", got)
	}
	next.Dispose()
}

func TestPassSizeExpressions(t *testing.T) {
	tests := []struct {
		name       string
		spec       render.PassSpec
		pixelRatio float64
		wantW      int
		wantH      int
	}{
		{
			"identity default",
			render.PassSpec{Fragment: "f", Target: "A"},
			1, 800, 600,
		},
		{
			"identity with pixel ratio",
			render.PassSpec{Fragment: "f", Target: "A"},
			2, 400, 300,
		},
		{
			"half width",
			render.PassSpec{Fragment: "f", Target: "A", Width: "$WIDTH/2", Height: "$HEIGHT/2"},
			2, 200, 150,
		},
		{
			"constant",
			render.PassSpec{Fragment: "f", Target: "A", Width: "256", Height: "256"},
			1, 256, 256,
		},
		{
			"invalid falls back to identity",
			render.PassSpec{Fragment: "f", Target: "A", Width: "$WIDTH +", Height: "bogus("},
			1, 800, 600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &rendertest.Device{}
			cfg := testConfig()
			cfg.PixelRatio = tt.pixelRatio

			p, err := render.Build(dev, []render.PassSpec{tt.spec}, newTable(), cfg)
			if err != nil {
				t.Fatal(err)
			}
			w, h := p.Passes()[0].ResolveSize(800, 600, tt.pixelRatio)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ResolveSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			// The pair was created at the resolved size.
			pair := p.Passes()[0].Target()
			if pair.Width() != tt.wantW || pair.Height() != tt.wantH {
				t.Errorf("pair size = %dx%d, want %dx%d", pair.Width(), pair.Height(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestBuildSelectsGeometryPath(t *testing.T) {
	dev := &rendertest.Device{}
	cfg := testConfig()
	cfg.VertexCount = 50

	p, err := render.Build(dev, []render.PassSpec{
		{Fragment: "frag only"},
		{Vertex: "vert", Fragment: "frag"},
	}, newTable(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	quad := p.Passes()[0]
	if got := quad.Program().(*rendertest.Program).Vertex; got != cfg.DefaultVertexSource {
		t.Errorf("fragment-only pass vertex source = %q, want default", got)
	}

	proc := p.Passes()[1]
	if got := proc.Program().(*rendertest.Program).Vertex; got != "vert" {
		t.Errorf("vertex pass vertex source = %q, want supplied source", got)
	}
}
