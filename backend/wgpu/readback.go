// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ReadPixels copies the display framebuffer back to the CPU. It returns
// an error when no display has been configured.
func (d *Device) ReadPixels() (*image.RGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if d.display == nil {
		return nil, fmt.Errorf("wgpu: no display configured")
	}

	t := d.display.tex
	width, height := t.width, t.height

	// Copy rows must be 256-byte aligned.
	bytesPerRow := uint32(width * 4)
	if rem := bytesPerRow % 256; rem != 0 {
		bytesPerRow += 256 - rem
	}
	bufSize := uint64(bytesPerRow) * uint64(height)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "veda_readback",
		Size:  bufSize,
		Usage: gputypes.BufferUsageCopyDst | gputypes.BufferUsageMapRead,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create readback buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "veda_readback"})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("veda_readback"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  bytesPerRow,
			RowsPerImage: uint32(height),
		},
		TextureBase: hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		Size:        hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("wgpu: submit readback: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return nil, fmt.Errorf("wgpu: wait for readback: ok=%v err=%w", ok, err)
	}

	raw := make([]byte, bufSize)
	if err := d.queue.ReadBuffer(staging, 0, raw); err != nil {
		return nil, fmt.Errorf("wgpu: read readback buffer: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := raw[uint64(y)*uint64(bytesPerRow):]
		copy(img.Pix[y*img.Stride:(y+1)*img.Stride], src[:width*4])
	}
	return img, nil
}
