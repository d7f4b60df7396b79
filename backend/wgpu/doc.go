// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

// Package wgpu implements the render device on gogpu/wgpu's hardware
// abstraction layer.
//
// The device renders into offscreen textures via Vulkan (or whatever
// backend the HAL selects), compiles WGSL shader pairs with naga, and
// reflects their uniform declarations so the engine can validate bound
// values before the first frame.
//
// A device can own its GPU resources (New) or borrow a device and queue
// from a host application through a gpucontext provider
// (NewWithProvider), which avoids a second GPU instance when the engine
// runs embedded in a larger program.
package wgpu
