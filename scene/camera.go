// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package scene

import "github.com/chewxy/math32"

// Camera produces the view-projection matrix a pass renders through.
// Fragment-only passes use the default orthographic camera, which maps
// clip space onto itself; vertex-shader passes may swap in a perspective
// camera for depth effects.
type Camera struct {
	proj [16]float32
}

// NewOrthographic creates an orthographic camera over the given box.
func NewOrthographic(left, right, top, bottom, near, far float32) *Camera {
	w := right - left
	h := top - bottom
	d := far - near

	var c Camera
	c.proj = [16]float32{
		2 / w, 0, 0, 0,
		0, 2 / h, 0, 0,
		0, 0, -2 / d, 0,
		-(right + left) / w, -(top + bottom) / h, -(far + near) / d, 1,
	}
	return &c
}

// NewDefault creates the unit orthographic camera used by full-screen
// quad passes: clip-space positions pass through unchanged.
func NewDefault() *Camera {
	return NewOrthographic(-1, 1, 1, -1, -1, 1)
}

// NewPerspective creates a perspective camera. fovy is the vertical field
// of view in radians, aspect the width/height ratio.
func NewPerspective(fovy, aspect, near, far float32) *Camera {
	f := 1 / math32.Tan(fovy/2)
	d := near - far

	var c Camera
	c.proj = [16]float32{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / d, -1,
		0, 0, 2 * far * near / d, 0,
	}
	return &c
}

// Projection returns the column-major view-projection matrix.
func (c *Camera) Projection() [16]float32 { return c.proj }
