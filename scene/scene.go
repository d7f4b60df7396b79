// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

// Package scene holds the minimal scene model a shader pass renders: one
// mesh viewed through one camera. Geometry is either a full-screen quad
// for fragment-only effects or a procedural placeholder mesh whose vertex
// shader synthesizes positions from a per-vertex index attribute.
package scene

import "fmt"

// Primitive selects the draw primitive for a mesh.
type Primitive int

const (
	// PrimitiveTriangles draws independent triangles.
	PrimitiveTriangles Primitive = iota

	// PrimitivePoints draws one point per vertex.
	PrimitivePoints

	// PrimitiveLines draws independent line segments.
	PrimitiveLines

	// PrimitiveLineStrip draws a connected polyline.
	PrimitiveLineStrip

	// PrimitiveLineLoop draws a closed polyline.
	PrimitiveLineLoop

	// PrimitiveTriangleStrip draws a triangle strip.
	PrimitiveTriangleStrip

	// PrimitiveTriangleFan draws a triangle fan.
	PrimitiveTriangleFan
)

// ParsePrimitive maps the user-facing vertex-mode names to primitives.
// Unknown names fall back to triangles.
func ParsePrimitive(name string) Primitive {
	switch name {
	case "POINTS":
		return PrimitivePoints
	case "LINES":
		return PrimitiveLines
	case "LINE_STRIP":
		return PrimitiveLineStrip
	case "LINE_LOOP":
		return PrimitiveLineLoop
	case "TRI_STRIP", "TRIANGLE_STRIP":
		return PrimitiveTriangleStrip
	case "TRI_FAN", "TRIANGLE_FAN":
		return PrimitiveTriangleFan
	default:
		return PrimitiveTriangles
	}
}

// String returns the user-facing name of the primitive.
func (p Primitive) String() string {
	switch p {
	case PrimitivePoints:
		return "POINTS"
	case PrimitiveLines:
		return "LINES"
	case PrimitiveLineStrip:
		return "LINE_STRIP"
	case PrimitiveLineLoop:
		return "LINE_LOOP"
	case PrimitiveTriangleStrip:
		return "TRI_STRIP"
	case PrimitiveTriangleFan:
		return "TRI_FAN"
	case PrimitiveTriangles:
		return "TRIANGLES"
	default:
		return fmt.Sprintf("Primitive(%d)", int(p))
	}
}

// Mesh is a vertex buffer plus its draw primitive. Positions are xyz
// triples in clip space; Index carries the per-vertex index attribute the
// procedural-geometry path exposes to vertex shaders.
type Mesh struct {
	Positions []float32
	Index     []float32
	Primitive Primitive
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Scene is the root a pass renders. It holds exactly one mesh today; the
// slice form keeps room for layered passes without changing callers.
type Scene struct {
	Meshes []*Mesh
}

// New creates a scene holding the given mesh.
func New(m *Mesh) *Scene {
	return &Scene{Meshes: []*Mesh{m}}
}
