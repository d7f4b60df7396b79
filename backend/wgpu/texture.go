// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/karnpapon/vedajs/render"
)

// texture is a sampled GPU texture. The struct is the stable handle the
// engine holds; Resize and updates swap the underlying HAL objects
// behind it.
type texture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
	format gputypes.TextureFormat
}

func (t *texture) Width() int  { return t.width }
func (t *texture) Height() int { return t.height }

// createTexture allocates a sampled, writable 2D texture with its view.
func (d *Device) createTexture(label string, width, height int, format gputypes.TextureFormat, usage gputypes.TextureUsage) (*texture, error) {
	w, h := uint32(width), uint32(height)
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view %q: %w", label, err)
	}
	return &texture{tex: tex, view: view, width: width, height: height, format: format}, nil
}

func (d *Device) destroyTexture(t *texture) {
	if t.view != nil {
		d.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		d.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// writeTexture uploads tightly packed texel data.
func (d *Device) writeTexture(t *texture, data []byte, bytesPerPixel int) error {
	w, h := uint32(t.width), uint32(t.height)
	err := d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * uint32(bytesPerPixel),
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpu: write texture: %w", err)
	}
	return nil
}

// CreateImageTexture uploads img into a new RGBA texture.
func (d *Device) CreateImageTexture(img image.Image) (render.Texture, error) {
	bounds := img.Bounds()
	t, err := d.createTexture("veda_image", bounds.Dx(), bounds.Dy(),
		gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	if err := d.writeTexture(t, rgbaPixels(img), 4); err != nil {
		d.destroyTexture(t)
		return nil, err
	}
	return t, nil
}

// UpdateImageTexture uploads a new frame into an existing image texture.
// A frame with different dimensions reallocates the GPU storage but
// keeps the handle.
func (d *Device) UpdateImageTexture(tex render.Texture, img image.Image) error {
	t, ok := tex.(*texture)
	if !ok {
		return fmt.Errorf("wgpu: foreign texture %T", tex)
	}
	bounds := img.Bounds()
	if bounds.Dx() != t.width || bounds.Dy() != t.height {
		fresh, err := d.createTexture("veda_image", bounds.Dx(), bounds.Dy(), t.format,
			gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
		if err != nil {
			return err
		}
		d.destroyTexture(t)
		t.tex, t.view = fresh.tex, fresh.view
		t.width, t.height = fresh.width, fresh.height
	}
	return d.writeTexture(t, rgbaPixels(img), 4)
}

// CreateDataTexture uploads raw floats into a new R32Float texture.
// Shaders read one value per texel from the red channel.
func (d *Device) CreateDataTexture(data []float32, width, height int) (render.Texture, error) {
	if len(data) != width*height {
		return nil, fmt.Errorf("wgpu: data length %d does not match %dx%d", len(data), width, height)
	}
	t, err := d.createTexture("veda_data", width, height,
		gputypes.TextureFormatR32Float,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	if err := d.writeTexture(t, floatBytes(data), 4); err != nil {
		d.destroyTexture(t)
		return nil, err
	}
	return t, nil
}

// UpdateDataTexture replaces the contents of a data texture.
func (d *Device) UpdateDataTexture(tex render.Texture, data []float32) error {
	t, ok := tex.(*texture)
	if !ok {
		return fmt.Errorf("wgpu: foreign texture %T", tex)
	}
	if len(data) != t.width*t.height {
		return fmt.Errorf("wgpu: data length %d does not match %dx%d", len(data), t.width, t.height)
	}
	return d.writeTexture(t, floatBytes(data), 4)
}

// DisposeTexture releases a texture's GPU storage.
func (d *Device) DisposeTexture(tex render.Texture) {
	if t, ok := tex.(*texture); ok {
		d.destroyTexture(t)
	}
}

// rgbaPixels returns img's pixels as tightly packed RGBA bytes.
func rgbaPixels(img image.Image) []byte {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Bounds().Dx()*4 {
		return rgba.Pix
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba.Pix
}

// floatBytes returns data as little-endian IEEE 754 bytes.
func floatBytes(data []float32) []byte {
	out := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}
