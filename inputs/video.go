// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/zergon321/reisen"

	"github.com/karnpapon/vedajs/uniform"
)

// VideoLoader provides motion-video textures. Each source gets one
// decode session running on its own goroutine; the frame driver's Update
// only ever swaps in frames the session has already decoded. Sessions
// are memoized by source, so repeated loads of the same file reuse the
// decoder and merely adjust playback speed.
type VideoLoader struct {
	factory  TextureFactory
	sessions map[string]*videoSession
}

// NewVideoLoader creates a video loader on the given texture factory.
func NewVideoLoader(factory TextureFactory) *VideoLoader {
	return &VideoLoader{
		factory:  factory,
		sessions: make(map[string]*videoSession),
	}
}

type videoSession struct {
	mu     sync.Mutex
	speed  float64
	latest *image.RGBA

	tex  uniform.Texture
	stop chan struct{}
	dead bool
}

func (s *videoSession) setSpeed(v float64) {
	s.mu.Lock()
	s.speed = v
	s.mu.Unlock()
}

func (s *videoSession) currentSpeed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

func (s *videoSession) publish(img *image.RGBA) {
	s.mu.Lock()
	s.latest = img
	s.mu.Unlock()
}

func (s *videoSession) take() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := s.latest
	s.latest = nil
	return img
}

// Load opens (or reuses) the decode session for src and returns its
// stable texture handle.
func (l *VideoLoader) Load(_, src string, p Params) (uniform.Texture, error) {
	if s, ok := l.sessions[src]; ok {
		s.setSpeed(p.speed())
		return s.tex, nil
	}

	media, err := reisen.NewMedia(src)
	if err != nil {
		return nil, fmt.Errorf("inputs: open video %q: %w", src, err)
	}
	streams := media.VideoStreams()
	if len(streams) == 0 {
		media.Close()
		return nil, fmt.Errorf("inputs: %q has no video stream", src)
	}
	stream := streams[0]

	if err := media.OpenDecode(); err != nil {
		media.Close()
		return nil, fmt.Errorf("inputs: start decode of %q: %w", src, err)
	}
	if err := stream.Open(); err != nil {
		media.CloseDecode()
		media.Close()
		return nil, fmt.Errorf("inputs: open video stream of %q: %w", src, err)
	}

	// A placeholder frame sizes the texture before the first decode
	// lands; the handle must be valid immediately after Load.
	placeholder := image.NewRGBA(image.Rect(0, 0, stream.Width(), stream.Height()))
	tex, err := l.factory.CreateImageTexture(placeholder)
	if err != nil {
		stream.Close()
		media.CloseDecode()
		media.Close()
		return nil, err
	}

	s := &videoSession{
		speed: p.speed(),
		tex:   tex,
		stop:  make(chan struct{}),
	}
	l.sessions[src] = s

	go l.decodeLoop(src, stream, s, func() {
		stream.Close()
		media.CloseDecode()
		media.Close()
	})
	return tex, nil
}

// videoStream is the slice of the reisen stream API the decode loop
// reads from.
type videoStream interface {
	ReadVideoFrame() (*reisen.VideoFrame, bool, error)
	Rewind(offset time.Duration) error
	FrameRate() (int, int)
}

// decodeLoop runs off the frame driver's goroutine, pacing decoded
// frames at the stream's rate scaled by the session speed.
func (l *VideoLoader) decodeLoop(src string, stream videoStream, s *videoSession, cleanup func()) {
	defer cleanup()

	num, den := stream.FrameRate()
	if num <= 0 {
		num = 30
	}
	if den <= 0 {
		den = 1
	}
	base := time.Duration(float64(time.Second) * float64(den) / float64(num))

	for {
		// The rewind and nil-frame branches continue without sleeping,
		// so Unload must be able to break the loop here.
		select {
		case <-s.stop:
			return
		default:
		}

		frame, gotFrame, err := stream.ReadVideoFrame()
		if err != nil {
			Logger().Warn("video decode failed, provider disabled for source",
				"src", src, "error", err)
			return
		}
		if !gotFrame {
			// End of stream: loop playback from the start.
			if err := stream.Rewind(0); err != nil {
				Logger().Warn("video rewind failed", "src", src, "error", err)
				return
			}
			continue
		}
		if frame == nil {
			continue
		}
		s.publish(frame.Image())

		delay := base
		if sp := s.currentSpeed(); sp > 0 {
			delay = time.Duration(float64(base) / sp)
		}
		select {
		case <-s.stop:
			return
		case <-time.After(delay):
		}
	}
}

// Update uploads the most recently decoded frame of every live session.
func (l *VideoLoader) Update() {
	for src, s := range l.sessions {
		img := s.take()
		if img == nil {
			continue
		}
		if err := l.factory.UpdateImageTexture(s.tex, img); err != nil {
			Logger().Warn("video texture upload failed", "src", src, "error", err)
		}
	}
}

// Unload stops the decode session for src and disposes its texture.
func (l *VideoLoader) Unload(src string) {
	s, ok := l.sessions[src]
	if !ok {
		return
	}
	if !s.dead {
		close(s.stop)
		s.dead = true
	}
	l.factory.DisposeTexture(s.tex)
	delete(l.sessions, src)
}
