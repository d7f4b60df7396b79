// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

// Package inputs implements the texture and input providers the frame
// driver pulls once per frame: media loaders (video, animated image,
// audio file, static image) and input loaders (audio capture, camera,
// pointer, keyboard, gamepad, MIDI).
//
// Providers decode asynchronously on their own goroutines; the frame
// driver only ever observes already-decoded state through Update, which
// must never block. A provider with nothing ready leaves its texture
// untouched — the handle is stable, so shaders implicitly reuse the
// previous frame.
package inputs

import (
	"image"

	"github.com/karnpapon/vedajs/uniform"
)

// Params are per-load playback parameters. Repeat loads of the same
// source update the params of the existing decode session instead of
// opening a second one.
type Params struct {
	// Speed is the playback-rate multiplier for time-based media.
	// Zero means 1.
	Speed float64
}

func (p Params) speed() float64 {
	if p.Speed == 0 {
		return 1
	}
	return p.Speed
}

// TextureFactory is the slice of the GPU device providers need to turn
// decoded frames and sample buffers into textures. render.Device
// satisfies it.
type TextureFactory interface {
	CreateImageTexture(img image.Image) (uniform.Texture, error)
	UpdateImageTexture(t uniform.Texture, img image.Image) error
	CreateDataTexture(data []float32, width, height int) (uniform.Texture, error)
	UpdateDataTexture(t uniform.Texture, data []float32) error
	DisposeTexture(t uniform.Texture)
}

// Loader is a media texture provider. Implementations memoize decode
// sessions by source locator: loading the same source twice reuses the
// session and only adjusts its params.
type Loader interface {
	// Load resolves src into a texture handle. Idempotent by src.
	Load(key, src string, p Params) (uniform.Texture, error)

	// Update advances decode/playback state by one tick. Non-blocking;
	// a no-op when nothing new has been decoded.
	Update()

	// Unload releases the decode session and GPU texture for src.
	// Unloading an unknown source is a no-op.
	Unload(src string)
}

// InputLoader is an input-device provider producing uniforms rather than
// loaded media. Enable starts OS capture where the provider has any;
// the frame driver checks IsEnabled before pulling state.
type InputLoader interface {
	Enable() error
	Disable()
	IsEnabled() bool

	// Update advances internal state. Called once per frame while
	// enabled. Non-blocking.
	Update()

	// Apply writes the provider's current uniforms into the table.
	Apply(table *uniform.Table)
}
