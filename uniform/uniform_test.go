// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package uniform

import "testing"

func TestValueTags(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want Type
	}{
		{"float", Float(1.5), TypeFloat},
		{"int", Int(7), TypeInt},
		{"vec2", Vec2(1, 2), TypeVec2},
		{"vec3", Vec3(1, 2, 3), TypeVec3},
		{"vec4", Vec4(1, 2, 3, 4), TypeVec4},
		{"mat3", Mat3([9]float32{}), TypeMat3},
		{"mat4", Mat4([16]float32{}), TypeMat4},
		{"texture", Tex(nil), TypeTexture},
		{"floats", Floats([]float32{1, 2}), TypeFloatArray},
		{"vecs", Vecs([][]float32{{1, 2}}), TypeVecArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Type(); got != tt.want {
				t.Errorf("Type() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValuePayloads(t *testing.T) {
	if got := Float(2.5).Float(); got != 2.5 {
		t.Errorf("Float() = %v, want 2.5", got)
	}
	if got := Int(-3).Int(); got != -3 {
		t.Errorf("Int() = %d, want -3", got)
	}
	v := Vec3(1, 2, 3).Vec()
	if len(v) != 3 || v[0] != 1 || v[1] != 2 || v[2] != 3 {
		t.Errorf("Vec() = %v, want [1 2 3]", v)
	}
}

func TestFloatsSharesBacking(t *testing.T) {
	buf := []float32{0, 0}
	v := Floats(buf)
	buf[0] = 42

	if got := v.Vec()[0]; got != 42 {
		t.Errorf("Vec()[0] = %v, want 42 (in-place provider updates must be visible)", got)
	}
}

func TestTableSetGetDelete(t *testing.T) {
	tbl := NewTable()

	tbl.Set("time", Float(1))
	tbl.Set("time", Float(2))

	v, ok := tbl.Get("time")
	if !ok || v.Float() != 2 {
		t.Fatalf("Get(time) = %v, %v; want 2, true", v.Float(), ok)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}

	tbl.Delete("time")
	if _, ok := tbl.Get("time"); ok {
		t.Error("Get(time) after Delete should report absent")
	}

	// Deleting an absent name is a no-op.
	tbl.Delete("time")
}

type stubTexture struct{ w, h int }

func (s stubTexture) Width() int  { return s.w }
func (s stubTexture) Height() int { return s.h }

func TestTableTexture(t *testing.T) {
	tbl := NewTable()

	if tex := tbl.Texture("missing"); tex != nil {
		t.Errorf("Texture(missing) = %v, want nil", tex)
	}

	tbl.Set("scalar", Float(1))
	if tex := tbl.Texture("scalar"); tex != nil {
		t.Errorf("Texture(scalar) = %v, want nil for non-texture binding", tex)
	}

	tbl.Set("tex", Tex(stubTexture{64, 32}))
	tex := tbl.Texture("tex")
	if tex == nil || tex.Width() != 64 || tex.Height() != 32 {
		t.Errorf("Texture(tex) = %v, want 64x32", tex)
	}
}
