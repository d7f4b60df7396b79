// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import "github.com/karnpapon/vedajs/uniform"

// gamepadTexWidth holds button states followed by remapped axis values.
const gamepadTexWidth = 128

// PadSource supplies gamepad state. Both slices may be shorter than the
// device supports; missing entries read as released or centered.
type PadSource interface {
	Buttons() []bool
	Axes() []float64
}

// GamepadLoader binds the gamepad uniform, a 128x1 texture with button
// states in the low cells and axis values, remapped from [-1, 1] to
// [0, 1], behind them.
type GamepadLoader struct {
	factory TextureFactory
	source  PadSource

	enabled bool
	state   []float32
	tex     uniform.Texture
}

// NewGamepadLoader creates a gamepad loader on the given texture
// factory.
func NewGamepadLoader(factory TextureFactory) *GamepadLoader {
	return &GamepadLoader{
		factory: factory,
		state:   make([]float32, gamepadTexWidth),
	}
}

// SetSource installs the pad source.
func (l *GamepadLoader) SetSource(s PadSource) { l.source = s }

// Enable allocates the gamepad texture.
func (l *GamepadLoader) Enable() error {
	if l.enabled {
		return nil
	}
	if l.tex == nil {
		tex, err := l.factory.CreateDataTexture(make([]float32, gamepadTexWidth), gamepadTexWidth, 1)
		if err != nil {
			return err
		}
		l.tex = tex
	}
	l.enabled = true
	return nil
}

// Disable releases the gamepad texture.
func (l *GamepadLoader) Disable() {
	l.enabled = false
	if l.tex != nil {
		l.factory.DisposeTexture(l.tex)
		l.tex = nil
	}
}

// IsEnabled reports whether gamepad state is published.
func (l *GamepadLoader) IsEnabled() bool { return l.enabled }

// Update polls the source and uploads the packed state.
func (l *GamepadLoader) Update() {
	if !l.enabled || l.source == nil || l.tex == nil {
		return
	}
	for i := range l.state {
		l.state[i] = 0
	}
	buttons := l.source.Buttons()
	for i, pressed := range buttons {
		if i >= len(l.state) {
			break
		}
		l.state[i] = boolToFloat(pressed)
	}
	for i, v := range l.source.Axes() {
		idx := len(buttons) + i
		if idx >= len(l.state) {
			break
		}
		l.state[idx] = float32(v)/2 + 0.5
	}
	if err := l.factory.UpdateDataTexture(l.tex, l.state); err != nil {
		Logger().Warn("gamepad texture upload failed", "error", err)
	}
}

// Apply binds the gamepad uniform.
func (l *GamepadLoader) Apply(table *uniform.Table) {
	if !l.enabled || l.tex == nil {
		return
	}
	table.Set("gamepad", uniform.Tex(l.tex))
}
