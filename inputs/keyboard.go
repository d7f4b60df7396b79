// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import "github.com/karnpapon/vedajs/uniform"

// keyTexWidth covers one cell per key code.
const keyTexWidth = 256

// KeyboardLoader binds the key uniform, a 256x1 texture with one cell
// per key code holding 1 while the key is down.
type KeyboardLoader struct {
	factory TextureFactory

	enabled bool
	state   []float32
	dirty   bool
	tex     uniform.Texture
}

// NewKeyboardLoader creates a keyboard loader on the given texture
// factory.
func NewKeyboardLoader(factory TextureFactory) *KeyboardLoader {
	return &KeyboardLoader{
		factory: factory,
		state:   make([]float32, keyTexWidth),
	}
}

// Enable allocates the key-state texture.
func (l *KeyboardLoader) Enable() error {
	if l.enabled {
		return nil
	}
	if l.tex == nil {
		tex, err := l.factory.CreateDataTexture(make([]float32, keyTexWidth), keyTexWidth, 1)
		if err != nil {
			return err
		}
		l.tex = tex
	}
	l.enabled = true
	return nil
}

// Disable releases the key-state texture and clears held keys.
func (l *KeyboardLoader) Disable() {
	l.enabled = false
	for i := range l.state {
		l.state[i] = 0
	}
	if l.tex != nil {
		l.factory.DisposeTexture(l.tex)
		l.tex = nil
	}
}

// IsEnabled reports whether key state is published.
func (l *KeyboardLoader) IsEnabled() bool { return l.enabled }

// KeyDown records a key press.
func (l *KeyboardLoader) KeyDown(code int) { l.setKey(code, 1) }

// KeyUp records a key release.
func (l *KeyboardLoader) KeyUp(code int) { l.setKey(code, 0) }

func (l *KeyboardLoader) setKey(code int, v float32) {
	if code < 0 || code >= len(l.state) {
		return
	}
	if l.state[code] != v {
		l.state[code] = v
		l.dirty = true
	}
}

// Update uploads the key state when it changed since the last frame.
func (l *KeyboardLoader) Update() {
	if !l.enabled || !l.dirty || l.tex == nil {
		return
	}
	l.dirty = false
	if err := l.factory.UpdateDataTexture(l.tex, l.state); err != nil {
		Logger().Warn("key texture upload failed", "error", err)
	}
}

// Apply binds the key uniform.
func (l *KeyboardLoader) Apply(table *uniform.Table) {
	if !l.enabled || l.tex == nil {
		return
	}
	table.Set("key", uniform.Tex(l.tex))
}
