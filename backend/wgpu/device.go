// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/karnpapon/vedajs/render"
)

var (
	// ErrNoGPU is returned when no usable GPU backend or adapter exists.
	ErrNoGPU = errors.New("wgpu: no usable GPU")

	// ErrClosed is returned when the device is used after Close.
	ErrClosed = errors.New("wgpu: device closed")
)

// Device renders into offscreen textures through the wgpu HAL.
// It implements render.Device.
type Device struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// ownsDevice is false when device and queue were borrowed from an
	// external provider; borrowed resources are never destroyed here.
	ownsDevice bool

	sampler hal.Sampler

	// display receives draws from passes without a named target.
	display *framebuffer

	adapterName string
	closed      bool
}

var _ render.Device = (*Device)(nil)

// New creates a standalone device with its own GPU instance. It selects
// a discrete or integrated adapter when one is available.
func New() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no adapters found", ErrNoGPU)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	d := &Device{
		instance:    instance,
		device:      openDev.Device,
		queue:       openDev.Queue,
		ownsDevice:  true,
		adapterName: selected.Info.Name,
	}
	render.Logger().Info("wgpu: device ready", "adapter", d.adapterName)
	return d, nil
}

// NewWithProvider creates a device that shares the GPU device and queue
// of a host application. The provider must expose raw HAL handles via
// HalDevice and HalQueue.
func NewWithProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("wgpu: provider does not expose HAL handles")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("wgpu: provider HalQueue is not hal.Queue")
	}

	d := &Device{
		device:     device,
		queue:      queue,
		ownsDevice: false,
	}
	render.Logger().Info("wgpu: using shared device from host")
	return d, nil
}

// AdapterName reports the selected adapter, or "" for shared devices.
func (d *Device) AdapterName() string { return d.adapterName }

// ensureSampler lazily creates the shared linear clamp sampler used for
// every sampled texture binding.
func (d *Device) ensureSampler() (hal.Sampler, error) {
	if d.sampler != nil {
		return d.sampler, nil
	}
	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "veda_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler: %w", err)
	}
	d.sampler = sampler
	return sampler, nil
}

// Close releases owned GPU resources. Borrowed devices are left alive.
// Safe to call more than once.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true

	if d.display != nil {
		d.display.Dispose()
		d.display = nil
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
	if d.ownsDevice {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
}
