// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/wgpu/hal"

	"github.com/karnpapon/vedajs/render"
	"github.com/karnpapon/vedajs/uniform"
)

// bindingKind classifies one @group(0) @binding(n) declaration.
type bindingKind int

const (
	bindUniformBuffer bindingKind = iota
	bindTexture
	bindSampler
)

// shaderBinding is one reflected resource slot of a program.
type shaderBinding struct {
	name    string
	binding uint32
	kind    bindingKind
	typ     uniform.Type
	size    uint64 // uniform buffer byte size, 0 for arrays
}

// program is a compiled vertex/fragment shader pair plus its reflected
// resource layout and a pipeline cache keyed by topology and target
// format.
type program struct {
	dev *Device

	vertModule hal.ShaderModule
	fragModule hal.ShaderModule
	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout

	bindings []shaderBinding
	tags     map[string]uniform.Type

	pipelines map[pipelineKey]hal.RenderPipeline

	disposed bool
}

var _ render.Program = (*program)(nil)

type pipelineKey struct {
	topology gputypes.PrimitiveTopology
	format   gputypes.TextureFormat
}

// CompileProgram validates both WGSL sources with naga, compiles them to
// SPIR-V modules, and reflects their uniform declarations. The vertex
// entry point must be vs_main and the fragment entry point fs_main.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (render.Program, error) {
	bindings, err := reflectBindings(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	vertModule, err := d.compileModule("veda_vs", vertexSrc)
	if err != nil {
		return nil, fmt.Errorf("wgpu: vertex shader: %w", err)
	}
	fragModule, err := d.compileModule("veda_fs", fragmentSrc)
	if err != nil {
		d.device.DestroyShaderModule(vertModule)
		return nil, fmt.Errorf("wgpu: fragment shader: %w", err)
	}

	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "veda_bind_layout",
		Entries: layoutEntries(bindings),
	})
	if err != nil {
		d.device.DestroyShaderModule(fragModule)
		d.device.DestroyShaderModule(vertModule)
		return nil, fmt.Errorf("wgpu: create bind group layout: %w", err)
	}

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "veda_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{layout},
	})
	if err != nil {
		d.device.DestroyBindGroupLayout(layout)
		d.device.DestroyShaderModule(fragModule)
		d.device.DestroyShaderModule(vertModule)
		return nil, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}

	tags := make(map[string]uniform.Type)
	for _, b := range bindings {
		if b.kind != bindSampler {
			tags[b.name] = b.typ
		}
	}

	return &program{
		dev:        d,
		vertModule: vertModule,
		fragModule: fragModule,
		layout:     layout,
		pipeLayout: pipeLayout,
		bindings:   bindings,
		tags:       tags,
		pipelines:  make(map[pipelineKey]hal.RenderPipeline),
	}, nil
}

// compileModule runs WGSL through naga and hands the SPIR-V to the HAL.
func (d *Device) compileModule(label, src string) (hal.ShaderModule, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	ir, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	spv, err := spirv.NewBackend(spirv.DefaultOptions()).Compile(ir)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spv)/4)
	for i := range code {
		code[i] = uint32(spv[i*4]) |
			uint32(spv[i*4+1])<<8 |
			uint32(spv[i*4+2])<<16 |
			uint32(spv[i*4+3])<<24
	}

	return d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: code},
	})
}

// UniformTags reports the program's declared uniform slots by name.
func (p *program) UniformTags() map[string]uniform.Type { return p.tags }

// pipeline returns the cached render pipeline for a topology and target
// format, creating it on first use.
func (p *program) pipeline(topology gputypes.PrimitiveTopology, format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	key := pipelineKey{topology: topology, format: format}
	if pl, ok := p.pipelines[key]; ok {
		return pl, nil
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	pl, err := p.dev.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "veda_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vertModule,
			EntryPoint: "vs_main",
			Buffers:    vedaVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.fragModule,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline: %w", err)
	}
	p.pipelines[key] = pl
	return pl, nil
}

// Dispose releases the program's GPU objects. Safe to call more than
// once.
func (p *program) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	dev := p.dev.device
	for _, pl := range p.pipelines {
		dev.DestroyRenderPipeline(pl)
	}
	p.pipelines = nil
	dev.DestroyPipelineLayout(p.pipeLayout)
	dev.DestroyBindGroupLayout(p.layout)
	dev.DestroyShaderModule(p.fragModule)
	dev.DestroyShaderModule(p.vertModule)
}

// vedaVertexLayout is the fixed vertex stream: a vec3 position and a
// scalar vertex index, interleaved at a 16-byte stride.
func vedaVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32, Offset: 12, ShaderLocation: 1}, // index
			},
		},
	}
}

func layoutEntries(bindings []shaderBinding) []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(bindings))
	for _, b := range bindings {
		e := gputypes.BindGroupLayoutEntry{
			Binding:    b.binding,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		}
		switch b.kind {
		case bindUniformBuffer:
			e.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
		case bindTexture:
			e.Texture = &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		case bindSampler:
			e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
		}
		entries = append(entries, e)
	}
	return entries
}

// declRe matches one group-0 resource declaration, e.g.
//
//	@group(0) @binding(2) var<uniform> time: f32;
//	@group(0) @binding(3) var backbuffer: texture_2d<f32>;
var declRe = regexp.MustCompile(`@group\(0\)\s*@binding\((\d+)\)\s*var(?:<uniform>)?\s+(\w+)\s*:\s*([\w<>,\s]+?)\s*;`)

// reflectBindings scans both shader sources for resource declarations.
// naga's public IR exposes names and bindings but not resolved value
// types, so the value type comes from the declaration text. A name
// declared in both stages must agree on binding and type.
func reflectBindings(sources ...string) ([]shaderBinding, error) {
	byName := make(map[string]shaderBinding)
	var order []string

	for _, src := range sources {
		for _, m := range declRe.FindAllStringSubmatch(src, -1) {
			var idx uint32
			fmt.Sscanf(m[1], "%d", &idx)
			name, wgslType := m[2], strings.Join(strings.Fields(m[3]), "")

			b := shaderBinding{name: name, binding: idx}
			if err := classifyType(wgslType, &b); err != nil {
				return nil, fmt.Errorf("wgpu: uniform %q: %w", name, err)
			}

			if prev, ok := byName[name]; ok {
				if prev.binding != b.binding || prev.kind != b.kind || prev.typ != b.typ {
					return nil, fmt.Errorf("wgpu: uniform %q declared twice with different layouts", name)
				}
				continue
			}
			byName[name] = b
			order = append(order, name)
		}
	}

	bindings := make([]shaderBinding, 0, len(order))
	for _, name := range order {
		bindings = append(bindings, byName[name])
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].binding < bindings[j].binding })
	for i := 1; i < len(bindings); i++ {
		if bindings[i].binding == bindings[i-1].binding {
			return nil, fmt.Errorf("wgpu: binding %d used by both %q and %q",
				bindings[i].binding, bindings[i-1].name, bindings[i].name)
		}
	}
	return bindings, nil
}

// classifyType maps a WGSL declaration type onto a uniform slot.
func classifyType(wgslType string, b *shaderBinding) error {
	switch {
	case wgslType == "f32":
		b.kind, b.typ, b.size = bindUniformBuffer, uniform.TypeFloat, 16
	case wgslType == "i32" || wgslType == "u32":
		b.kind, b.typ, b.size = bindUniformBuffer, uniform.TypeInt, 16
	case wgslType == "vec2<f32>":
		b.kind, b.typ, b.size = bindUniformBuffer, uniform.TypeVec2, 16
	case wgslType == "vec3<f32>":
		b.kind, b.typ, b.size = bindUniformBuffer, uniform.TypeVec3, 16
	case wgslType == "vec4<f32>":
		b.kind, b.typ, b.size = bindUniformBuffer, uniform.TypeVec4, 16
	case wgslType == "mat3x3<f32>":
		b.kind, b.typ, b.size = bindUniformBuffer, uniform.TypeMat3, 48
	case wgslType == "mat4x4<f32>":
		b.kind, b.typ, b.size = bindUniformBuffer, uniform.TypeMat4, 64
	case strings.HasPrefix(wgslType, "array<f32"):
		b.kind, b.typ = bindUniformBuffer, uniform.TypeFloatArray
	case strings.HasPrefix(wgslType, "array<vec"):
		b.kind, b.typ = bindUniformBuffer, uniform.TypeVecArray
	case wgslType == "texture_2d<f32>":
		b.kind, b.typ = bindTexture, uniform.TypeTexture
	case wgslType == "sampler":
		b.kind = bindSampler
	default:
		return fmt.Errorf("unsupported type %q", wgslType)
	}
	return nil
}
