// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package vedajs

import (
	"time"

	"github.com/karnpapon/vedajs/scene"
)

// Option configures a Veda host during creation.
//
// Example:
//
//	v, err := vedajs.New(dev,
//		vedajs.WithCanvasSize(1280, 720),
//		vedajs.WithPixelRatio(2),
//	)
type Option func(*options)

type options struct {
	width        int
	height       int
	pixelRatio   float64
	frameskip    int
	vertexCount  int
	vertexMode   scene.Primitive
	fftSize      int
	fftSmoothing float64
	soundLength  float64
	clock        func() time.Time
}

func defaultOptions() options {
	return options{
		width:        640,
		height:       480,
		pixelRatio:   1,
		frameskip:    1,
		vertexCount:  3000,
		vertexMode:   scene.PrimitiveTriangles,
		fftSize:      2048,
		fftSmoothing: 0.8,
		soundLength:  30,
		clock:        time.Now,
	}
}

// WithCanvasSize sets the initial display dimensions in pixels.
func WithCanvasSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithPixelRatio sets the display-to-render-buffer scale divisor. A
// ratio of 2 renders offscreen targets at half the display resolution.
func WithPixelRatio(ratio float64) Option {
	return func(o *options) {
		if ratio > 0 {
			o.pixelRatio = ratio
		}
	}
}

// WithFrameskip sets the GPU work stride: passes execute only on ticks
// whose counter is divisible by n, while time still advances every tick.
func WithFrameskip(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.frameskip = n
		}
	}
}

// WithVertexCount sets the vertex count for procedural-geometry passes.
func WithVertexCount(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.vertexCount = n
		}
	}
}

// WithVertexMode sets the draw primitive for procedural-geometry passes.
func WithVertexMode(p scene.Primitive) Option {
	return func(o *options) {
		o.vertexMode = p
	}
}

// WithFftSize sets the audio analysis FFT window size.
func WithFftSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.fftSize = n
		}
	}
}

// WithFftSmoothingTimeConstant sets the spectrum smoothing constant
// in [0, 1).
func WithFftSmoothingTimeConstant(s float64) Option {
	return func(o *options) {
		if s >= 0 && s < 1 {
			o.fftSmoothing = s
		}
	}
}

// WithSoundLength sets how many seconds of an audio file are decoded
// into the sound texture.
func WithSoundLength(seconds float64) Option {
	return func(o *options) {
		if seconds > 0 {
			o.soundLength = seconds
		}
	}
}

// WithClock injects the time source driving the elapsed-time uniform.
// Tests use a deterministic clock; the default is time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}
