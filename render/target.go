// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package render

// TargetPair is a double-buffered offscreen target. Exactly one
// framebuffer is the front (last completed write, readable by later
// passes and the next frame) and one is the back (next write target).
// Swap inverts the roles atomically with no GPU work, so a pass can read
// its own previous output while writing the next one.
type TargetPair struct {
	name     string
	front    Framebuffer
	back     Framebuffer
	width    int
	height   int
	opts     FramebufferOptions
	disposed bool
}

// NewTargetPair allocates both framebuffers of a pair. Dimensions below
// one are clamped to one so framebuffer creation cannot fail on degenerate
// sizes.
func NewTargetPair(dev Device, name string, width, height int, opts FramebufferOptions) (*TargetPair, error) {
	width, height = clampSize(width, height)

	front, err := dev.CreateFramebuffer(width, height, opts)
	if err != nil {
		return nil, err
	}
	back, err := dev.CreateFramebuffer(width, height, opts)
	if err != nil {
		front.Dispose()
		return nil, err
	}

	return &TargetPair{
		name:   name,
		front:  front,
		back:   back,
		width:  width,
		height: height,
		opts:   opts,
	}, nil
}

func clampSize(width, height int) (int, int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

func (p *TargetPair) checkLive() {
	if p.disposed {
		panic(ErrDisposed)
	}
}

// Name returns the name the pair is registered under, or "" for the
// backbuffer.
func (p *TargetPair) Name() string {
	p.checkLive()
	return p.name
}

// Width returns the current width of both framebuffers.
func (p *TargetPair) Width() int {
	p.checkLive()
	return p.width
}

// Height returns the current height of both framebuffers.
func (p *TargetPair) Height() int {
	p.checkLive()
	return p.height
}

// Resize reallocates both framebuffers, preserving front/back roles.
// Unchanged dimensions are a no-op, so the frame driver may call Resize
// every frame. Sizes below one are clamped to one.
func (p *TargetPair) Resize(width, height int) error {
	p.checkLive()
	width, height = clampSize(width, height)
	if width == p.width && height == p.height {
		return nil
	}

	if err := p.front.Resize(width, height); err != nil {
		return err
	}
	if err := p.back.Resize(width, height); err != nil {
		return err
	}
	p.width = width
	p.height = height
	return nil
}

// Swap exchanges the front and back roles. O(1), no GPU work. No pass may
// observe a half-swapped pair: the exchange is a single pointer swap on
// the frame driver's goroutine.
func (p *TargetPair) Swap() {
	p.checkLive()
	p.front, p.back = p.back, p.front
}

// Texture returns the front texture, valid for the remainder of the frame
// in which it was read.
func (p *TargetPair) Texture() Texture {
	p.checkLive()
	return p.front.Texture()
}

// Back returns the framebuffer currently in the back (write) role. The
// caller must not retain it across a Swap.
func (p *TargetPair) Back() Framebuffer {
	p.checkLive()
	return p.back
}

// Dispose releases both framebuffers. Any later method call on the pair
// panics with ErrDisposed. Dispose itself is idempotent.
func (p *TargetPair) Dispose() {
	if p.disposed {
		return
	}
	p.front.Dispose()
	p.back.Dispose()
	p.front = nil
	p.back = nil
	p.disposed = true
}
