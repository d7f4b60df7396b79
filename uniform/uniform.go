// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

// Package uniform implements the shared uniform table that carries shader
// inputs across every pass of a pipeline.
//
// A Value is a tagged union over the GLSL-facing types the engine supports.
// The tag of a uniform name is fixed at the point the name is introduced
// into a program's binding table; changing a name's tag requires rebuilding
// that binding table (enforced at pipeline-build time, not per frame).
package uniform

import "fmt"

// Type tags a Value with its shader-facing type.
type Type int

const (
	// TypeFloat is a scalar float uniform.
	TypeFloat Type = iota

	// TypeInt is a scalar integer uniform.
	TypeInt

	// TypeVec2 is a 2-component float vector.
	TypeVec2

	// TypeVec3 is a 3-component float vector.
	TypeVec3

	// TypeVec4 is a 4-component float vector.
	TypeVec4

	// TypeMat3 is a 3x3 float matrix, column-major.
	TypeMat3

	// TypeMat4 is a 4x4 float matrix, column-major.
	TypeMat4

	// TypeTexture is a GPU texture handle.
	TypeTexture

	// TypeFloatArray is an array of scalar floats.
	TypeFloatArray

	// TypeVecArray is an array of float vectors.
	TypeVecArray
)

// String returns the GLSL-flavored name of the type tag.
func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeInt:
		return "int"
	case TypeVec2:
		return "vec2"
	case TypeVec3:
		return "vec3"
	case TypeVec4:
		return "vec4"
	case TypeMat3:
		return "mat3"
	case TypeMat4:
		return "mat4"
	case TypeTexture:
		return "sampler2D"
	case TypeFloatArray:
		return "float[]"
	case TypeVecArray:
		return "vec[]"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Texture is an opaque GPU texture reference stored in a Value.
// Backends provide concrete implementations; the engine only needs the
// dimensions for resolution uniforms.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int
}

// Value is a tagged uniform value. The zero Value is a float 0.
type Value struct {
	typ Type
	num float32
	i   int
	vec []float32
	tex Texture
	arr [][]float32
}

// Float creates a scalar float value.
func Float(v float32) Value { return Value{typ: TypeFloat, num: v} }

// Int creates a scalar integer value.
func Int(v int) Value { return Value{typ: TypeInt, i: v} }

// Vec2 creates a 2-component vector value.
func Vec2(x, y float32) Value { return Value{typ: TypeVec2, vec: []float32{x, y}} }

// Vec3 creates a 3-component vector value.
func Vec3(x, y, z float32) Value { return Value{typ: TypeVec3, vec: []float32{x, y, z}} }

// Vec4 creates a 4-component vector value.
func Vec4(x, y, z, w float32) Value { return Value{typ: TypeVec4, vec: []float32{x, y, z, w}} }

// Mat3 creates a 3x3 matrix value from 9 column-major elements.
func Mat3(m [9]float32) Value { return Value{typ: TypeMat3, vec: m[:]} }

// Mat4 creates a 4x4 matrix value from 16 column-major elements.
func Mat4(m [16]float32) Value { return Value{typ: TypeMat4, vec: m[:]} }

// Tex creates a texture value. A nil texture is legal and denotes a
// binding whose provider has produced nothing yet.
func Tex(t Texture) Value { return Value{typ: TypeTexture, tex: t} }

// Floats creates an array-of-scalar value. The slice is referenced, not
// copied, so a provider can update it in place between frames.
func Floats(v []float32) Value { return Value{typ: TypeFloatArray, vec: v} }

// Vecs creates an array-of-vector value. The slice is referenced, not copied.
func Vecs(v [][]float32) Value { return Value{typ: TypeVecArray, arr: v} }

// Type returns the value's type tag.
func (v Value) Type() Type { return v.typ }

// Float returns the scalar float payload.
func (v Value) Float() float32 { return v.num }

// Int returns the scalar integer payload.
func (v Value) Int() int { return v.i }

// Vec returns the vector, matrix, or float-array payload.
func (v Value) Vec() []float32 { return v.vec }

// Texture returns the texture payload, or nil for non-texture values.
func (v Value) Texture() Texture { return v.tex }

// VecArray returns the array-of-vector payload.
func (v Value) VecArray() [][]float32 { return v.arr }
