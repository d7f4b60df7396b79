// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import "github.com/karnpapon/vedajs/uniform"

// PointerLoader binds the mouse position and button uniforms. The host
// feeds it events from whatever windowing layer it runs under.
type PointerLoader struct {
	enabled bool
	x, y    float32
	buttons [3]bool
}

// NewPointerLoader creates a pointer loader.
func NewPointerLoader() *PointerLoader {
	return &PointerLoader{}
}

// Enable starts publishing pointer state.
func (l *PointerLoader) Enable() error {
	l.enabled = true
	return nil
}

// Disable stops publishing pointer state.
func (l *PointerLoader) Disable() { l.enabled = false }

// IsEnabled reports whether pointer uniforms are published.
func (l *PointerLoader) IsEnabled() bool { return l.enabled }

// SetPosition records the pointer position in pixels.
func (l *PointerLoader) SetPosition(x, y float32) {
	l.x, l.y = x, y
}

// SetButton records the pressed state of button (0 left, 1 middle,
// 2 right).
func (l *PointerLoader) SetButton(button int, pressed bool) {
	if button < 0 || button >= len(l.buttons) {
		return
	}
	l.buttons[button] = pressed
}

// Update is a no-op; state arrives via SetPosition and SetButton.
func (l *PointerLoader) Update() {}

// Apply binds the mouse and mouseButtons uniforms.
func (l *PointerLoader) Apply(table *uniform.Table) {
	if !l.enabled {
		return
	}
	table.Set("mouse", uniform.Vec2(l.x, l.y))
	table.Set("mouseButtons", uniform.Vec3(
		boolToFloat(l.buttons[0]),
		boolToFloat(l.buttons[1]),
		boolToFloat(l.buttons[2]),
	))
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
