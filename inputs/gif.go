// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"fmt"
	"image"
	"image/gif"
	"os"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/karnpapon/vedajs/uniform"
)

// AnimatedImageLoader provides GIF textures. All frames are composed up
// front so Update only picks the frame for the current wall-clock
// position and uploads it when it changed.
type AnimatedImageLoader struct {
	factory   TextureFactory
	sequences map[string]*gifSequence
}

// NewAnimatedImageLoader creates an animated-image loader on the given
// texture factory.
func NewAnimatedImageLoader(factory TextureFactory) *AnimatedImageLoader {
	return &AnimatedImageLoader{
		factory:   factory,
		sequences: make(map[string]*gifSequence),
	}
}

type gifSequence struct {
	frames []*image.RGBA
	delays []time.Duration
	total  time.Duration
	speed  float64

	tex     uniform.Texture
	started time.Time
	shown   int
}

// Load decodes src (once per source) and returns a texture holding its
// first frame.
func (l *AnimatedImageLoader) Load(_, src string, p Params) (uniform.Texture, error) {
	if s, ok := l.sequences[src]; ok {
		s.speed = p.speed()
		return s.tex, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("inputs: open gif %q: %w", src, err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("inputs: decode gif %q: %w", src, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("inputs: gif %q has no frames", src)
	}

	s := &gifSequence{
		speed:   p.speed(),
		started: time.Now(),
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	// GIF frames are deltas over the previous canvas; compose each one
	// into a full frame so playback is a plain lookup.
	canvas := image.NewRGBA(bounds)
	for i, frame := range g.Image {
		xdraw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, xdraw.Over)
		full := image.NewRGBA(bounds)
		copy(full.Pix, canvas.Pix)
		s.frames = append(s.frames, full)

		// Delays are in hundredths of a second; zero means "as fast as
		// possible", which in practice renders as 100ms.
		d := time.Duration(g.Delay[i]) * 10 * time.Millisecond
		if d == 0 {
			d = 100 * time.Millisecond
		}
		s.delays = append(s.delays, d)
		s.total += d
	}

	tex, err := l.factory.CreateImageTexture(s.frames[0])
	if err != nil {
		return nil, err
	}
	s.tex = tex
	l.sequences[src] = s
	return tex, nil
}

// frameAt maps an elapsed wall-clock duration onto a frame index.
func (s *gifSequence) frameAt(elapsed time.Duration) int {
	if s.total <= 0 {
		return 0
	}
	if s.speed > 0 {
		elapsed = time.Duration(float64(elapsed) * s.speed)
	}
	elapsed %= s.total
	for i, d := range s.delays {
		if elapsed < d {
			return i
		}
		elapsed -= d
	}
	return len(s.frames) - 1
}

// Update uploads the current frame of every sequence that moved on.
func (l *AnimatedImageLoader) Update() {
	now := time.Now()
	for src, s := range l.sequences {
		idx := s.frameAt(now.Sub(s.started))
		if idx == s.shown {
			continue
		}
		s.shown = idx
		if err := l.factory.UpdateImageTexture(s.tex, s.frames[idx]); err != nil {
			Logger().Warn("gif texture upload failed", "src", src, "error", err)
		}
	}
}

// Unload disposes the texture and drops the sequence for src.
func (l *AnimatedImageLoader) Unload(src string) {
	s, ok := l.sequences[src]
	if !ok {
		return
	}
	l.factory.DisposeTexture(s.tex)
	delete(l.sequences, src)
}
