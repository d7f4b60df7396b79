// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"image"

	"github.com/karnpapon/vedajs/uniform"
)

// FrameSource supplies camera frames. Frame returns the most recent
// frame, or nil when nothing new arrived; it must not block.
type FrameSource interface {
	Frame() image.Image
}

// CameraLoader binds the camera uniform from a live frame source.
type CameraLoader struct {
	factory TextureFactory
	source  FrameSource

	enabled bool
	tex     uniform.Texture
}

// NewCameraLoader creates a camera loader on the given texture factory.
func NewCameraLoader(factory TextureFactory) *CameraLoader {
	return &CameraLoader{factory: factory}
}

// SetSource installs the frame source. Without one the loader stays
// black even when enabled.
func (l *CameraLoader) SetSource(s FrameSource) { l.source = s }

// Enable starts accepting frames. The texture is created lazily from
// the first frame so its size matches the source.
func (l *CameraLoader) Enable() error {
	l.enabled = true
	return nil
}

// Disable releases the camera texture.
func (l *CameraLoader) Disable() {
	l.enabled = false
	if l.tex != nil {
		l.factory.DisposeTexture(l.tex)
		l.tex = nil
	}
}

// IsEnabled reports whether the loader accepts frames.
func (l *CameraLoader) IsEnabled() bool { return l.enabled }

// Update uploads the newest camera frame, if any.
func (l *CameraLoader) Update() {
	if !l.enabled || l.source == nil {
		return
	}
	frame := l.source.Frame()
	if frame == nil {
		return
	}
	if l.tex == nil {
		tex, err := l.factory.CreateImageTexture(frame)
		if err != nil {
			Logger().Warn("camera texture creation failed", "error", err)
			return
		}
		l.tex = tex
		return
	}
	if err := l.factory.UpdateImageTexture(l.tex, frame); err != nil {
		Logger().Warn("camera texture upload failed", "error", err)
	}
}

// Apply binds the camera uniform once a frame has arrived.
func (l *CameraLoader) Apply(table *uniform.Table) {
	if !l.enabled || l.tex == nil {
		return
	}
	table.Set("camera", uniform.Tex(l.tex))
}
