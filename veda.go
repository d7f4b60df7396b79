// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package vedajs

import (
	"fmt"
	"time"

	"github.com/karnpapon/vedajs/inputs"
	"github.com/karnpapon/vedajs/render"
	"github.com/karnpapon/vedajs/scene"
	"github.com/karnpapon/vedajs/uniform"
)

// defaultVertexSource drives full-screen fragment-only passes: the quad
// positions pass straight through in clip space.
const defaultVertexSource = `
@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) vertexId: f32) -> @builtin(position) vec4<f32> {
	return vec4<f32>(position, 1.0);
}
`

// defaultFragmentSource fills in for vertex-only passes.
const defaultFragmentSource = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
	return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`

// Veda is the host: it owns the uniform table, the loader registry, the
// backbuffer, and the current pipeline, and drives them one Tick at a
// time. All methods must be called from the same goroutine.
type Veda struct {
	dev      render.Device
	table    *uniform.Table
	registry *inputs.Registry

	pipeline   *render.Pipeline
	backbuffer *render.TargetPair

	opts options

	start   time.Time
	playing bool
	tick    int
	frame   int

	textures map[string]loadedTexture
}

type loadedTexture struct {
	src  string
	kind inputs.Kind
}

// New creates a host rendering through dev.
func New(dev render.Device, opt ...Option) (*Veda, error) {
	if dev == nil {
		return nil, render.ErrNilDevice
	}

	o := defaultOptions()
	for _, fn := range opt {
		fn(&o)
	}

	v := &Veda{
		dev:      dev,
		table:    uniform.NewTable(),
		opts:     o,
		textures: make(map[string]loadedTexture),
	}
	v.registry = inputs.NewRegistry(dev, inputs.Config{
		FftSize:      o.fftSize,
		FftSmoothing: o.fftSmoothing,
		SoundLength:  o.soundLength,
	})

	bw, bh := v.bufferSize()
	bb, err := render.NewTargetPair(dev, "", bw, bh, render.FramebufferOptions{Label: "backbuffer"})
	if err != nil {
		return nil, fmt.Errorf("vedajs: create backbuffer: %w", err)
	}
	v.backbuffer = bb

	v.table.Set("time", uniform.Float(0))
	v.table.Set("frame", uniform.Int(0))
	v.table.Set("resolution", uniform.Vec2(float32(bw), float32(bh)))
	v.table.Set("vertexCount", uniform.Float(float32(o.vertexCount)))
	v.table.Set("PASSINDEX", uniform.Int(0))
	v.table.Set("backbuffer", uniform.Tex(bb.Texture()))

	// The pointer needs no OS capture; it is always on.
	if err := v.registry.Pointer().Enable(); err != nil {
		bb.Dispose()
		return nil, err
	}

	v.start = o.clock()
	return v, nil
}

// Inputs exposes the loader registry so the window layer can push
// pointer, keyboard, and MIDI events and inject capture sources.
func (v *Veda) Inputs() *inputs.Registry { return v.registry }

// Uniforms exposes the shared uniform table. Callers may install their
// own values; the standard names are overwritten every frame.
func (v *Veda) Uniforms() *uniform.Table { return v.table }

// bufferSize is the render-buffer size: canvas divided by pixel ratio,
// clamped to at least one pixel per axis.
func (v *Veda) bufferSize() (int, int) {
	w := int(float64(v.opts.width) / v.opts.pixelRatio)
	h := int(float64(v.opts.height) / v.opts.pixelRatio)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func (v *Veda) renderConfig() render.Config {
	return render.Config{
		CanvasWidth:           v.opts.width,
		CanvasHeight:          v.opts.height,
		PixelRatio:            v.opts.pixelRatio,
		VertexCount:           v.opts.vertexCount,
		VertexMode:            v.opts.vertexMode,
		DefaultVertexSource:   defaultVertexSource,
		DefaultFragmentSource: defaultFragmentSource,
	}
}

// LoadShader builds a pipeline from pass specs and installs it. On
// build failure the previously installed pipeline keeps running and the
// error is returned. A successful build starts a fresh visual epoch:
// the frame index resets to zero.
func (v *Veda) LoadShader(specs []render.PassSpec) error {
	p, err := render.Build(v.dev, specs, v.table, v.renderConfig())
	if err != nil {
		return err
	}
	if v.pipeline != nil {
		v.pipeline.Dispose()
	}
	v.pipeline = p
	v.frame = 0
	v.table.Set("frame", uniform.Int(0))
	v.table.Set("PASSINDEX", uniform.Int(0))
	return nil
}

// LoadFragmentShader builds a single-pass pipeline from one fragment
// source.
func (v *Veda) LoadFragmentShader(source string) error {
	return v.LoadShader([]render.PassSpec{{Fragment: source}})
}

// LoadVertexShader builds a single-pass procedural-geometry pipeline
// from one vertex source.
func (v *Veda) LoadVertexShader(source string) error {
	return v.LoadShader([]render.PassSpec{{Vertex: source}})
}

// Play starts ticking. The first Play after New or Stop leaves the
// clock running from where it was; use ResetTime for a fresh origin.
func (v *Veda) Play() {
	v.playing = true
}

// Stop halts ticking and releases OS capture held by input providers.
// Pipeline GPU objects stay valid, so playback can resume.
func (v *Veda) Stop() {
	v.playing = false
	v.registry.DisableInputs()
}

// Playing reports whether Tick currently executes frames.
func (v *Veda) Playing() bool { return v.playing }

// ResetTime restarts the clock and the frame index.
func (v *Veda) ResetTime() {
	v.start = v.opts.clock()
	v.frame = 0
	v.tick = 0
	v.table.Set("time", uniform.Float(0))
	v.table.Set("frame", uniform.Int(0))
}

// Frame returns the current frame index.
func (v *Veda) Frame() int { return v.frame }

// Resize sets the canvas dimensions. The backbuffer resizes now; named
// target pairs follow on the next executed frame via their size
// expressions.
func (v *Veda) Resize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("vedajs: invalid canvas size %dx%d", width, height)
	}
	v.opts.width, v.opts.height = width, height
	return v.applyBufferSize()
}

func (v *Veda) applyBufferSize() error {
	bw, bh := v.bufferSize()
	if err := v.backbuffer.Resize(bw, bh); err != nil {
		return err
	}
	v.table.Set("resolution", uniform.Vec2(float32(bw), float32(bh)))
	return nil
}

// SetPixelRatio changes the display-to-render-buffer divisor.
func (v *Veda) SetPixelRatio(ratio float64) error {
	if ratio <= 0 {
		return fmt.Errorf("vedajs: invalid pixel ratio %v", ratio)
	}
	v.opts.pixelRatio = ratio
	return v.applyBufferSize()
}

// SetFrameskip changes the GPU work stride.
func (v *Veda) SetFrameskip(n int) {
	if n > 0 {
		v.opts.frameskip = n
	}
}

// SetVertexCount changes the procedural-geometry vertex count. It
// applies to the next shader load.
func (v *Veda) SetVertexCount(n int) {
	if n > 0 {
		v.opts.vertexCount = n
		v.table.Set("vertexCount", uniform.Float(float32(n)))
	}
}

// SetVertexMode changes the procedural-geometry draw primitive. It
// applies to the next shader load.
func (v *Veda) SetVertexMode(name string) {
	v.opts.vertexMode = scene.ParsePrimitive(name)
}

// SetFftSize reconfigures the audio analysis window. An enabled audio
// loader keeps running with reallocated analysis textures.
func (v *Veda) SetFftSize(n int) error {
	if n <= 0 {
		return nil
	}
	v.opts.fftSize = n
	return v.registry.Audio().Configure(n, v.opts.fftSmoothing)
}

// SetFftSmoothingTimeConstant reconfigures spectrum smoothing.
func (v *Veda) SetFftSmoothingTimeConstant(s float64) error {
	if s < 0 || s >= 1 {
		return nil
	}
	v.opts.fftSmoothing = s
	return v.registry.Audio().Configure(v.opts.fftSize, s)
}

// SetSoundLength changes the audio-file decode limit for future loads.
func (v *Veda) SetSoundLength(seconds float64) {
	if seconds > 0 {
		v.opts.soundLength = seconds
		v.registry.AudioFile().SetSoundLength(seconds)
	}
}

// LoadTexture resolves src to a media provider, decodes it, and binds
// the resulting texture in the uniform table under name. Loading the
// same src again reuses the provider's decode session and only adjusts
// playback speed.
func (v *Veda) LoadTexture(name, src string, speed float64) error {
	tex, kind, err := v.registry.Load(name, src, inputs.Params{Speed: speed})
	if err != nil {
		return err
	}
	v.table.Set(name, uniform.Tex(tex))
	v.textures[name] = loadedTexture{src: src, kind: kind}
	return nil
}

// UnloadTexture removes the binding for name. With release set, the
// owning provider also drops its decode session and GPU texture for the
// underlying source.
func (v *Veda) UnloadTexture(name string, release bool) {
	lt, ok := v.textures[name]
	if !ok {
		return
	}
	delete(v.textures, name)
	v.table.Delete(name)
	if release {
		v.registry.Unload(lt.src, lt.kind)
	}
}

// ToggleAudio enables or disables microphone analysis.
func (v *Veda) ToggleAudio(on bool) error {
	return toggleInput(v.registry.Audio(), on)
}

// ToggleCamera enables or disables camera capture.
func (v *Veda) ToggleCamera(on bool) error {
	return toggleInput(v.registry.Camera(), on)
}

// ToggleKeyboard enables or disables the keyboard state texture.
func (v *Veda) ToggleKeyboard(on bool) error {
	return toggleInput(v.registry.Keyboard(), on)
}

// ToggleGamepad enables or disables gamepad polling.
func (v *Veda) ToggleGamepad(on bool) error {
	return toggleInput(v.registry.Gamepad(), on)
}

// ToggleMidi enables or disables MIDI state textures.
func (v *Veda) ToggleMidi(on bool) error {
	return toggleInput(v.registry.Midi(), on)
}

func toggleInput(l inputs.InputLoader, on bool) error {
	if on == l.IsEnabled() {
		return nil
	}
	if on {
		return l.Enable()
	}
	l.Disable()
	return nil
}

// Dispose releases the pipeline, the backbuffer, and input capture. The
// host must not be used afterward.
func (v *Veda) Dispose() {
	v.Stop()
	if v.pipeline != nil {
		v.pipeline.Dispose()
		v.pipeline = nil
	}
	if v.backbuffer != nil {
		v.backbuffer.Dispose()
		v.backbuffer = nil
	}
}
