// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package scene

// FullScreenQuad builds the two-triangle clip-space quad that drives
// fragment-only passes.
func FullScreenQuad() *Mesh {
	return &Mesh{
		Positions: []float32{
			-1, -1, 0,
			1, -1, 0,
			-1, 1, 0,
			-1, 1, 0,
			1, -1, 0,
			1, 1, 0,
		},
		Index:     []float32{0, 1, 2, 3, 4, 5},
		Primitive: PrimitiveTriangles,
	}
}

// Procedural builds a mesh of count placeholder vertices for the
// vertex-shader geometry path. Positions are all zero; the shader is
// expected to synthesize geometry from the vertexId attribute alone.
// A count below 1 yields a single vertex.
func Procedural(count int, prim Primitive) *Mesh {
	if count < 1 {
		count = 1
	}
	m := &Mesh{
		Positions: make([]float32, count*3),
		Index:     make([]float32, count),
		Primitive: prim,
	}
	for i := 0; i < count; i++ {
		m.Index[i] = float32(i)
	}
	return m
}
