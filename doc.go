// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

// Package vedajs is a live shader-art host. It compiles user-supplied
// fragment and vertex shader sources into a multi-pass GPU pipeline,
// feeds it time, input, audio, and media textures every frame, and
// hot-swaps the pipeline when shader source changes.
//
// The host is driven one frame at a time:
//
//	dev, err := wgpu.New()
//	v, err := vedajs.New(dev, vedajs.WithCanvasSize(1280, 720))
//	v.LoadFragmentShader(src)
//	v.Play()
//	for range ticker.C {
//		if err := v.Tick(); err != nil { ... }
//	}
//
// Passes may write to named, double-buffered offscreen targets that
// later passes (and the pass itself, on the next frame) sample as
// uniforms; the previous composite is always available under the
// backbuffer uniform. See the render package for the pipeline engine
// and the inputs package for the texture and input providers.
package vedajs
