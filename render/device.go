// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/karnpapon/vedajs/scene"
	"github.com/karnpapon/vedajs/uniform"
)

// Texture is the opaque GPU texture handle flowing between the engine,
// the uniform table, and texture providers.
type Texture = uniform.Texture

// FramebufferOptions configures framebuffer creation.
type FramebufferOptions struct {
	// FloatTexture requests a floating-point color attachment, needed by
	// feedback buffers that accumulate values outside [0, 1].
	FloatTexture bool

	// Label is an optional debug label.
	Label string
}

// Format returns the texture format the options resolve to.
func (o FramebufferOptions) Format() gputypes.TextureFormat {
	if o.FloatTexture {
		return gputypes.TextureFormatRGBA32Float
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// Framebuffer is one offscreen color attachment plus its texture.
type Framebuffer interface {
	// Texture returns the handle for sampling this framebuffer's contents.
	// The handle identity is stable across Resize.
	Texture() Texture

	// Width returns the attachment width in pixels.
	Width() int

	// Height returns the attachment height in pixels.
	Height() int

	// Format returns the color attachment format.
	Format() gputypes.TextureFormat

	// Resize reallocates the attachment. Contents are not preserved.
	Resize(width, height int) error

	// Dispose releases the GPU objects. The framebuffer must not be used
	// afterward.
	Dispose()
}

// Program is a compiled vertex+fragment shader pair.
type Program interface {
	// UniformTags reports the program's declared uniform slots. Names
	// absent from the map are unchecked at bind time; an empty map means
	// the backend performs no reflection.
	UniformTags() map[string]uniform.Type

	// Dispose releases the compiled program.
	Dispose()
}

// Device is the GPU abstraction the engine runs against. A Device is
// single-threaded: all calls happen on the frame driver's goroutine.
type Device interface {
	// CreateFramebuffer allocates an offscreen framebuffer. Dimensions
	// must be positive.
	CreateFramebuffer(width, height int, opts FramebufferOptions) (Framebuffer, error)

	// CompileProgram compiles and links a vertex+fragment program.
	// Compilation errors surface here, at pipeline-build time.
	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)

	// Render draws s through cam with prog, reading uniform values from
	// table, into target. A nil target renders onto the display.
	Render(s *scene.Scene, cam *scene.Camera, prog Program, table *uniform.Table, target Framebuffer) error

	// CreateImageTexture uploads a decoded image as a new texture.
	CreateImageTexture(img image.Image) (Texture, error)

	// UpdateImageTexture re-uploads pixels into an existing texture,
	// reallocating if the dimensions changed. The handle stays stable.
	UpdateImageTexture(t Texture, img image.Image) error

	// CreateDataTexture uploads a float buffer as a width x height
	// single-channel texture (used for spectrum, waveform, and input
	// state textures).
	CreateDataTexture(data []float32, width, height int) (Texture, error)

	// UpdateDataTexture re-uploads the float buffer of an existing data
	// texture. len(data) must match the texture's width*height.
	UpdateDataTexture(t Texture, data []float32) error

	// DisposeTexture releases a texture created by this device.
	DisposeTexture(t Texture)
}

// ValidateBindings checks every uniform slot the program declares against
// the table's current tags. A mismatch is a configuration error: the tag
// of a name is fixed when the name enters a program's binding table, so
// the check runs once at pipeline-build time, never per frame.
func ValidateBindings(prog Program, table *uniform.Table) error {
	for name, tag := range prog.UniformTags() {
		v, ok := table.Get(name)
		if !ok {
			continue
		}
		if v.Type() != tag {
			return &BindingError{Name: name, Declared: tag, Bound: v.Type()}
		}
	}
	return nil
}
