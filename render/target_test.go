// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package render_test

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/karnpapon/vedajs/render"
	"github.com/karnpapon/vedajs/render/rendertest"
)

func newPair(t *testing.T, dev *rendertest.Device, w, h int) *render.TargetPair {
	t.Helper()
	pair, err := render.NewTargetPair(dev, "t", w, h, render.FramebufferOptions{})
	if err != nil {
		t.Fatalf("NewTargetPair: %v", err)
	}
	return pair
}

func TestNewTargetPair(t *testing.T) {
	dev := &rendertest.Device{}
	pair := newPair(t, dev, 320, 240)

	if pair.Width() != 320 || pair.Height() != 240 {
		t.Errorf("size = %dx%d, want 320x240", pair.Width(), pair.Height())
	}
	if got := dev.LiveFramebuffers(); got != 2 {
		t.Errorf("live framebuffers = %d, want 2", got)
	}
	if pair.Texture() == nil {
		t.Error("Texture() should not be nil")
	}
}

func TestNewTargetPairClampsDegenerateSizes(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero", 0, 0},
		{"negative", -4, -4},
		{"mixed", 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &rendertest.Device{}
			pair, err := render.NewTargetPair(dev, "t", tt.w, tt.h, render.FramebufferOptions{})
			if err != nil {
				t.Fatalf("NewTargetPair(%d, %d): %v", tt.w, tt.h, err)
			}
			if pair.Width() < 1 || pair.Height() < 1 {
				t.Errorf("size = %dx%d, want both >= 1", pair.Width(), pair.Height())
			}
		})
	}
}

func TestSwapExchangesRoles(t *testing.T) {
	dev := &rendertest.Device{}
	pair := newPair(t, dev, 64, 64)

	front := pair.Texture()
	back := pair.Back().Texture()
	if front == back {
		t.Fatal("front and back must be distinct textures")
	}

	pair.Swap()
	if pair.Texture() != back {
		t.Error("after Swap the old back must be front")
	}
	if pair.Back().Texture() != front {
		t.Error("after Swap the old front must be back")
	}
}

func TestDoubleSwapIsIdentity(t *testing.T) {
	dev := &rendertest.Device{}
	pair := newPair(t, dev, 64, 64)

	front := pair.Texture()
	pair.Swap()
	pair.Swap()

	if pair.Texture() != front {
		t.Error("swapping twice must restore the original front/back assignment")
	}
}

func TestSwapPublishesLastWrite(t *testing.T) {
	dev := &rendertest.Device{}
	pair := newPair(t, dev, 64, 64)

	// Render into the back buffer, then swap: the write must be readable
	// as the front texture.
	if err := dev.Render(nil, nil, &rendertest.Program{}, newTable(), pair.Back()); err != nil {
		t.Fatal(err)
	}
	stamp := pair.Back().Texture().(*rendertest.Texture).Stamp
	pair.Swap()

	if got := pair.Texture().(*rendertest.Texture).Stamp; got != stamp {
		t.Errorf("front stamp = %d, want %d (the render just completed)", got, stamp)
	}
}

func TestResize(t *testing.T) {
	dev := &rendertest.Device{}
	pair := newPair(t, dev, 100, 100)

	if err := pair.Resize(200, 150); err != nil {
		t.Fatal(err)
	}
	if pair.Width() != 200 || pair.Height() != 150 {
		t.Errorf("size = %dx%d, want 200x150", pair.Width(), pair.Height())
	}
	if pair.Back().Width() != 200 {
		t.Error("resize must reach both framebuffers")
	}

	// Unchanged dimensions must be a no-op: the driver calls Resize
	// every frame.
	tex := pair.Texture()
	if err := pair.Resize(200, 150); err != nil {
		t.Fatal(err)
	}
	if pair.Texture() != tex {
		t.Error("no-op resize must not disturb the pair")
	}

	// Degenerate sizes clamp to one.
	if err := pair.Resize(0, -3); err != nil {
		t.Fatal(err)
	}
	if pair.Width() != 1 || pair.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", pair.Width(), pair.Height())
	}
}

func TestResizePreservesRoles(t *testing.T) {
	dev := &rendertest.Device{}
	pair := newPair(t, dev, 64, 64)

	pair.Swap()
	front := pair.Texture()

	if err := pair.Resize(128, 128); err != nil {
		t.Fatal(err)
	}
	if pair.Texture() != front {
		t.Error("resize must preserve front/back roles")
	}
}

func TestFloatTextureFormat(t *testing.T) {
	dev := &rendertest.Device{}
	pair, err := render.NewTargetPair(dev, "t", 8, 8, render.FramebufferOptions{FloatTexture: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := pair.Back().Format(); got != gputypes.TextureFormatRGBA32Float {
		t.Errorf("Format() = %v, want RGBA32Float", got)
	}
}

func TestDisposeReleasesBoth(t *testing.T) {
	dev := &rendertest.Device{}
	pair := newPair(t, dev, 64, 64)

	pair.Dispose()
	if got := dev.LiveFramebuffers(); got != 0 {
		t.Errorf("live framebuffers = %d, want 0", got)
	}

	// Idempotent.
	pair.Dispose()
}

func TestUseAfterDisposePanics(t *testing.T) {
	tests := []struct {
		name string
		op   func(p *render.TargetPair)
	}{
		{"Swap", func(p *render.TargetPair) { p.Swap() }},
		{"Texture", func(p *render.TargetPair) { p.Texture() }},
		{"Back", func(p *render.TargetPair) { p.Back() }},
		{"Resize", func(p *render.TargetPair) { _ = p.Resize(1, 1) }},
		{"Width", func(p *render.TargetPair) { p.Width() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &rendertest.Device{}
			pair := newPair(t, dev, 8, 8)
			pair.Dispose()

			defer func() {
				r := recover()
				if r == nil {
					t.Fatalf("%s after Dispose must panic", tt.name)
				}
				err, ok := r.(error)
				if !ok || !errors.Is(err, render.ErrDisposed) {
					t.Fatalf("panic value = %v, want ErrDisposed", r)
				}
			}()
			tt.op(pair)
		})
	}
}
