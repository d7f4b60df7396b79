// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/karnpapon/vedajs/render"
	"github.com/karnpapon/vedajs/scene"
	"github.com/karnpapon/vedajs/uniform"
)

// vertexStride is vec3 position plus one float vertex index.
const vertexStride = 16

const fenceTimeout = 5 * time.Second

// ConfigureDisplay sets the size of the device's display target, the
// framebuffer that receives draws when a pass has no named target. A
// headless device renders the "screen" into this texture; ReadPixels
// retrieves it.
func (d *Device) ConfigureDisplay(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.display == nil {
		fb, err := d.CreateFramebuffer(width, height, render.FramebufferOptions{Label: "veda_display"})
		if err != nil {
			return err
		}
		d.display = fb.(*framebuffer)
		return nil
	}
	return d.display.Resize(width, height)
}

// Render draws the scene with prog into target. A nil target draws into
// the display framebuffer; the call is a no-op when no display has been
// configured.
func (d *Device) Render(s *scene.Scene, cam *scene.Camera, prog render.Program, table *uniform.Table, target render.Framebuffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	p, ok := prog.(*program)
	if !ok {
		return fmt.Errorf("wgpu: foreign program %T", prog)
	}

	var fb *framebuffer
	if target == nil {
		if d.display == nil {
			return nil
		}
		fb = d.display
	} else {
		fb, ok = target.(*framebuffer)
		if !ok {
			return fmt.Errorf("wgpu: foreign framebuffer %T", target)
		}
	}

	sampler, err := d.ensureSampler()
	if err != nil {
		return err
	}

	frame := &frameResources{}
	defer frame.destroy(d.device)

	bindGroup, err := d.buildBindGroup(p, cam, table, sampler, frame)
	if err != nil {
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "veda_encoder"})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("veda_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "veda_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       fb.tex.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})

	for _, mesh := range s.Meshes {
		data, count, topology := expandMesh(mesh)
		if count == 0 {
			continue
		}
		pl, perr := p.pipeline(topology, fb.Format())
		if perr != nil {
			err = perr
			break
		}
		vertBuf, verr := d.createAndUploadBuffer("veda_verts", data,
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if verr != nil {
			err = verr
			break
		}
		frame.buffers = append(frame.buffers, vertBuf)

		rp.SetPipeline(pl)
		rp.SetBindGroup(0, bindGroup, nil)
		rp.SetVertexBuffer(0, vertBuf, 0)
		rp.Draw(count, 1, 0, 0)
	}

	rp.End()

	if err != nil {
		encoder.DiscardEncoding()
		return err
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// frameResources holds per-draw GPU objects released after submission.
type frameResources struct {
	buffers   []hal.Buffer
	bindGroup hal.BindGroup
}

func (f *frameResources) destroy(device hal.Device) {
	if f.bindGroup != nil {
		device.DestroyBindGroup(f.bindGroup)
	}
	for _, b := range f.buffers {
		device.DestroyBuffer(b)
	}
}

// buildBindGroup creates the uniform buffers and bind group for one
// draw. Unbound uniform slots read as zero.
func (d *Device) buildBindGroup(p *program, cam *scene.Camera, table *uniform.Table, sampler hal.Sampler, frame *frameResources) (hal.BindGroup, error) {
	entries := make([]gputypes.BindGroupEntry, 0, len(p.bindings))

	for _, b := range p.bindings {
		switch b.kind {
		case bindUniformBuffer:
			data := uniformBytes(b, cam, table)
			buf, err := d.createAndUploadBuffer("veda_uniform_"+b.name, data,
				gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
			if err != nil {
				return nil, err
			}
			frame.buffers = append(frame.buffers, buf)
			entries = append(entries, gputypes.BindGroupEntry{
				Binding: b.binding,
				Resource: gputypes.BufferBinding{
					Buffer: buf.NativeHandle(),
					Offset: 0,
					Size:   uint64(len(data)),
				},
			})

		case bindTexture:
			view, err := d.resolveTextureView(b.name, table)
			if err != nil {
				return nil, err
			}
			entries = append(entries, gputypes.BindGroupEntry{
				Binding:  b.binding,
				Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()},
			})

		case bindSampler:
			entries = append(entries, gputypes.BindGroupEntry{
				Binding:  b.binding,
				Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()},
			})
		}
	}

	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "veda_bind",
		Layout:  p.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group: %w", err)
	}
	frame.bindGroup = bindGroup
	return bindGroup, nil
}

// resolveTextureView finds the HAL view behind a bound texture uniform.
func (d *Device) resolveTextureView(name string, table *uniform.Table) (hal.TextureView, error) {
	v, ok := table.Get(name)
	if !ok || v.Type() != uniform.TypeTexture || v.Texture() == nil {
		return nil, fmt.Errorf("wgpu: texture uniform %q not bound", name)
	}
	t, ok := v.Texture().(*texture)
	if !ok {
		return nil, fmt.Errorf("wgpu: texture uniform %q is foreign type %T", name, v.Texture())
	}
	return t.view, nil
}

// uniformBytes packs one uniform slot's value in std140 layout.
// The camera projection backs any mat4 slot named projection.
func uniformBytes(b shaderBinding, cam *scene.Camera, table *uniform.Table) []byte {
	if b.typ == uniform.TypeMat4 && b.name == "projection" && cam != nil {
		m := cam.Projection()
		return floatBytes(m[:])
	}

	v, bound := table.Get(b.name)
	switch b.typ {
	case uniform.TypeFloat:
		out := make([]byte, 16)
		if bound {
			putFloat(out, 0, v.Float())
		}
		return out
	case uniform.TypeInt:
		out := make([]byte, 16)
		if bound {
			binary.LittleEndian.PutUint32(out, uint32(int32(v.Int())))
		}
		return out
	case uniform.TypeVec2, uniform.TypeVec3, uniform.TypeVec4:
		out := make([]byte, 16)
		if bound {
			for i, f := range v.Vec() {
				putFloat(out, i*4, f)
			}
		}
		return out
	case uniform.TypeMat3:
		// std140 mat3 columns are padded to vec4.
		out := make([]byte, 48)
		if bound {
			m := v.Vec()
			for col := 0; col < 3; col++ {
				for row := 0; row < 3; row++ {
					putFloat(out, col*16+row*4, m[col*3+row])
				}
			}
		}
		return out
	case uniform.TypeMat4:
		out := make([]byte, 64)
		if bound {
			for i, f := range v.Vec() {
				putFloat(out, i*4, f)
			}
		}
		return out
	case uniform.TypeFloatArray:
		// std140 array elements are padded to 16 bytes.
		vals := v.Vec()
		out := make([]byte, max(len(vals), 1)*16)
		for i, f := range vals {
			putFloat(out, i*16, f)
		}
		return out
	case uniform.TypeVecArray:
		vecs := v.VecArray()
		out := make([]byte, max(len(vecs), 1)*16)
		for i, vec := range vecs {
			for j, f := range vec {
				if j >= 4 {
					break
				}
				putFloat(out, i*16+j*4, f)
			}
		}
		return out
	}
	return make([]byte, 16)
}

func putFloat(out []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v))
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (d *Device) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	if err := d.queue.WriteBuffer(buf, 0, data); err != nil {
		d.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("wgpu: upload %s: %w", label, err)
	}
	return buf, nil
}

// expandMesh converts a mesh to the interleaved vertex stream and a
// topology the GPU understands. Line loops close themselves with an
// extra vertex and triangle fans are rewritten as triangle lists, since
// neither topology exists in WebGPU.
func expandMesh(m *scene.Mesh) ([]byte, uint32, gputypes.PrimitiveTopology) {
	n := m.VertexCount()
	if n == 0 {
		return nil, 0, gputypes.PrimitiveTopologyTriangleList
	}

	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		order = append(order, i)
	}

	topology := gputypes.PrimitiveTopologyTriangleList
	switch m.Primitive {
	case scene.PrimitivePoints:
		topology = gputypes.PrimitiveTopologyPointList
	case scene.PrimitiveLines:
		topology = gputypes.PrimitiveTopologyLineList
	case scene.PrimitiveLineStrip:
		topology = gputypes.PrimitiveTopologyLineStrip
	case scene.PrimitiveLineLoop:
		topology = gputypes.PrimitiveTopologyLineStrip
		order = append(order, 0)
	case scene.PrimitiveTriangleStrip:
		topology = gputypes.PrimitiveTopologyTriangleStrip
	case scene.PrimitiveTriangleFan:
		fan := make([]int, 0, (n-2)*3)
		for i := 2; i < n; i++ {
			fan = append(fan, 0, i-1, i)
		}
		order = fan
	case scene.PrimitiveTriangles:
		topology = gputypes.PrimitiveTopologyTriangleList
	}

	data := make([]byte, len(order)*vertexStride)
	for out, idx := range order {
		off := out * vertexStride
		if base := idx * 3; base+2 < len(m.Positions) {
			putFloat(data, off, m.Positions[base])
			putFloat(data, off+4, m.Positions[base+1])
			putFloat(data, off+8, m.Positions[base+2])
		}
		if idx < len(m.Index) {
			putFloat(data, off+12, m.Index[idx])
		}
	}
	return data, uint32(len(order)), topology
}
