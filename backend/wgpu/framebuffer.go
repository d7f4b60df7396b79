// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"github.com/gogpu/gputypes"

	"github.com/karnpapon/vedajs/render"
)

// framebuffer is an offscreen render target whose color texture can be
// sampled by later passes.
type framebuffer struct {
	dev  *Device
	tex  *texture
	opts render.FramebufferOptions

	disposed bool
}

var _ render.Framebuffer = (*framebuffer)(nil)

const framebufferUsage = gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopySrc

// CreateFramebuffer allocates a render target of the requested size.
func (d *Device) CreateFramebuffer(width, height int, opts render.FramebufferOptions) (render.Framebuffer, error) {
	label := opts.Label
	if label == "" {
		label = "veda_target"
	}
	tex, err := d.createTexture(label, width, height, opts.Format(), framebufferUsage)
	if err != nil {
		return nil, err
	}
	return &framebuffer{dev: d, tex: tex, opts: opts}, nil
}

// Texture returns the sampled handle. It stays valid across Resize.
func (f *framebuffer) Texture() render.Texture { return f.tex }

func (f *framebuffer) Width() int  { return f.tex.width }
func (f *framebuffer) Height() int { return f.tex.height }

func (f *framebuffer) Format() gputypes.TextureFormat { return f.opts.Format() }

// Resize reallocates the GPU storage at the new size. The texture
// handle is preserved; its previous contents are not.
func (f *framebuffer) Resize(width, height int) error {
	if f.disposed {
		panic(render.ErrDisposed)
	}
	if width == f.tex.width && height == f.tex.height {
		return nil
	}
	label := f.opts.Label
	if label == "" {
		label = "veda_target"
	}
	fresh, err := f.dev.createTexture(label, width, height, f.opts.Format(), framebufferUsage)
	if err != nil {
		return err
	}
	f.dev.destroyTexture(f.tex)
	f.tex.tex, f.tex.view = fresh.tex, fresh.view
	f.tex.width, f.tex.height = fresh.width, fresh.height
	return nil
}

// Dispose releases the GPU storage. Safe to call more than once.
func (f *framebuffer) Dispose() {
	if f.disposed {
		return
	}
	f.disposed = true
	f.dev.destroyTexture(f.tex)
}
