// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

// Package rendertest provides an in-memory render.Device for exercising
// the engine's ordering, swap, resize, and disposal behavior without a
// GPU. Every render call is stamped with a sequence number, so tests can
// assert which draw most recently landed in which texture.
package rendertest

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/karnpapon/vedajs/render"
	"github.com/karnpapon/vedajs/scene"
	"github.com/karnpapon/vedajs/uniform"
)

// Texture is a fake texture handle. Stamp records the sequence number of
// the last render or upload that wrote it.
type Texture struct {
	W, H     int
	Stamp    int
	Data     []float32
	Disposed bool
}

// Width returns the texture width.
func (t *Texture) Width() int { return t.W }

// Height returns the texture height.
func (t *Texture) Height() int { return t.H }

// Framebuffer is a fake framebuffer. The texture handle stays stable
// across Resize, matching the contract real backends provide.
type Framebuffer struct {
	tex      *Texture
	format   gputypes.TextureFormat
	Label    string
	Disposed bool
}

// Texture returns the framebuffer's stable texture handle.
func (f *Framebuffer) Texture() render.Texture { return f.tex }

// Width returns the current width.
func (f *Framebuffer) Width() int { return f.tex.W }

// Height returns the current height.
func (f *Framebuffer) Height() int { return f.tex.H }

// Format returns the color attachment format.
func (f *Framebuffer) Format() gputypes.TextureFormat { return f.format }

// Resize reallocates the fake attachment.
func (f *Framebuffer) Resize(width, height int) error {
	if f.Disposed {
		return errors.New("rendertest: resize of disposed framebuffer")
	}
	f.tex.W, f.tex.H = width, height
	return nil
}

// Dispose marks the framebuffer disposed.
func (f *Framebuffer) Dispose() {
	f.Disposed = true
	f.tex.Disposed = true
}

// Program is a fake compiled program.
type Program struct {
	Vertex   string
	Fragment string
	Tags     map[string]uniform.Type
	Disposed bool
}

// UniformTags returns the declared slots configured via Device.ProgramTags.
func (p *Program) UniformTags() map[string]uniform.Type { return p.Tags }

// Dispose marks the program disposed.
func (p *Program) Dispose() { p.Disposed = true }

// RenderCall records one Device.Render invocation.
type RenderCall struct {
	Seq     int
	Scene   *scene.Scene
	Program *Program
	// Target is nil for display renders.
	Target *Framebuffer
	// PassIndex is the PASSINDEX uniform at the time of the call, or -1
	// if the uniform was unset.
	PassIndex int
}

// Device is the fake. The zero value is ready to use.
type Device struct {
	// CompileErr, when set, fails the next CompileProgram call after
	// CompileErrAfter successful ones.
	CompileErr      error
	CompileErrAfter int

	// ProgramTags, when set, is installed as the next compiled program's
	// declared uniform slots.
	ProgramTags map[string]uniform.Type

	// Calls records every render in order.
	Calls []RenderCall

	// Framebuffers tracks every framebuffer ever created.
	Framebuffers []*Framebuffer

	// Programs tracks every program ever compiled.
	Programs []*Program

	// Textures tracks every standalone texture created.
	Textures []*Texture

	seq int
}

func (d *Device) next() int {
	d.seq++
	return d.seq
}

// CreateFramebuffer allocates a fake framebuffer.
func (d *Device) CreateFramebuffer(width, height int, opts render.FramebufferOptions) (render.Framebuffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("rendertest: invalid framebuffer size %dx%d", width, height)
	}
	fb := &Framebuffer{
		tex:    &Texture{W: width, H: height},
		format: opts.Format(),
		Label:  opts.Label,
	}
	d.Framebuffers = append(d.Framebuffers, fb)
	return fb, nil
}

// CompileProgram records a fake program, or fails with CompileErr.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (render.Program, error) {
	if d.CompileErr != nil {
		if d.CompileErrAfter > 0 {
			d.CompileErrAfter--
		} else {
			err := d.CompileErr
			d.CompileErr = nil
			return nil, err
		}
	}
	p := &Program{Vertex: vertexSrc, Fragment: fragmentSrc, Tags: d.ProgramTags}
	d.ProgramTags = nil
	d.Programs = append(d.Programs, p)
	return p, nil
}

// Render records the call and stamps the target's texture.
func (d *Device) Render(s *scene.Scene, _ *scene.Camera, prog render.Program, table *uniform.Table, target render.Framebuffer) error {
	seq := d.next()
	call := RenderCall{Seq: seq, Scene: s, PassIndex: -1}
	if p, ok := prog.(*Program); ok {
		call.Program = p
	}
	if v, ok := table.Get("PASSINDEX"); ok {
		call.PassIndex = v.Int()
	}
	if target != nil {
		fb := target.(*Framebuffer)
		if fb.Disposed {
			return errors.New("rendertest: render into disposed framebuffer")
		}
		fb.tex.Stamp = seq
		call.Target = fb
	}
	d.Calls = append(d.Calls, call)
	return nil
}

// CreateImageTexture allocates a fake texture sized like img.
func (d *Device) CreateImageTexture(img image.Image) (render.Texture, error) {
	b := img.Bounds()
	t := &Texture{W: b.Dx(), H: b.Dy(), Stamp: d.next()}
	d.Textures = append(d.Textures, t)
	return t, nil
}

// UpdateImageTexture restamps the texture and tracks dimension changes.
func (d *Device) UpdateImageTexture(t render.Texture, img image.Image) error {
	ft := t.(*Texture)
	if ft.Disposed {
		return errors.New("rendertest: update of disposed texture")
	}
	b := img.Bounds()
	ft.W, ft.H = b.Dx(), b.Dy()
	ft.Stamp = d.next()
	return nil
}

// CreateDataTexture allocates a fake float texture sharing the caller's
// buffer, matching how real backends observe in-place provider updates.
func (d *Device) CreateDataTexture(data []float32, width, height int) (render.Texture, error) {
	if len(data) != width*height {
		return nil, fmt.Errorf("rendertest: data length %d does not match %dx%d", len(data), width, height)
	}
	t := &Texture{W: width, H: height, Data: data, Stamp: d.next()}
	d.Textures = append(d.Textures, t)
	return t, nil
}

// UpdateDataTexture restamps the texture.
func (d *Device) UpdateDataTexture(t render.Texture, data []float32) error {
	ft := t.(*Texture)
	if ft.Disposed {
		return errors.New("rendertest: update of disposed texture")
	}
	if len(data) != ft.W*ft.H {
		return fmt.Errorf("rendertest: data length %d does not match %dx%d", len(data), ft.W, ft.H)
	}
	ft.Data = data
	ft.Stamp = d.next()
	return nil
}

// DisposeTexture marks the texture disposed.
func (d *Device) DisposeTexture(t render.Texture) {
	if ft, ok := t.(*Texture); ok {
		ft.Disposed = true
	}
}

// LiveFramebuffers counts framebuffers not yet disposed.
func (d *Device) LiveFramebuffers() int {
	n := 0
	for _, fb := range d.Framebuffers {
		if !fb.Disposed {
			n++
		}
	}
	return n
}

// DisplayRenders returns the calls that drew onto the display.
func (d *Device) DisplayRenders() []RenderCall {
	var out []RenderCall
	for _, c := range d.Calls {
		if c.Target == nil {
			out = append(out, c)
		}
	}
	return out
}

var _ render.Device = (*Device)(nil)
