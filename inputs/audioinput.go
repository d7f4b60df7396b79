// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"math/cmplx"

	"github.com/chewxy/math32"
	"github.com/mjibson/go-dsp/fft"

	"github.com/karnpapon/vedajs/uniform"
)

// SampleSource supplies live audio samples. Read fills dst with the
// most recent mono samples and reports how many were written; it must
// not block.
type SampleSource interface {
	Read(dst []float64) int
}

// AudioInputLoader analyses a live audio source and binds the volume,
// spectrum and samples uniforms. The spectrum is smoothed across frames
// with an exponential moving average.
type AudioInputLoader struct {
	factory   TextureFactory
	source    SampleSource
	fftSize   int
	smoothing float32

	enabled  bool
	window   []float64
	spectrum []float32
	samples  []float32
	volume   float32

	spectrumTex uniform.Texture
	samplesTex  uniform.Texture
}

// NewAudioInputLoader creates an audio-input loader with the given FFT
// window size and smoothing constant in [0, 1).
func NewAudioInputLoader(factory TextureFactory, fftSize int, smoothing float64) *AudioInputLoader {
	return &AudioInputLoader{
		factory:   factory,
		fftSize:   fftSize,
		smoothing: float32(smoothing),
		window:    make([]float64, fftSize),
		spectrum:  make([]float32, fftSize/2),
		samples:   make([]float32, fftSize),
	}
}

// SetSource installs the live sample source. Without one the loader
// stays silent even when enabled.
func (l *AudioInputLoader) SetSource(s SampleSource) { l.source = s }

// Configure resizes the analysis window and resets the smoothed state.
// An enabled loader keeps analysing at the new size.
func (l *AudioInputLoader) Configure(fftSize int, smoothing float64) error {
	if fftSize < 2 {
		fftSize = 2
	}
	l.fftSize = fftSize
	l.smoothing = float32(smoothing)
	l.window = make([]float64, fftSize)
	l.spectrum = make([]float32, fftSize/2)
	l.samples = make([]float32, fftSize)
	l.disposeTextures()
	if !l.enabled {
		return nil
	}
	l.enabled = false
	return l.Enable()
}

// Enable allocates the spectrum and samples textures.
func (l *AudioInputLoader) Enable() error {
	if l.enabled {
		return nil
	}
	var err error
	if l.spectrumTex == nil {
		l.spectrumTex, err = l.factory.CreateDataTexture(make([]float32, l.fftSize/2), l.fftSize/2, 1)
		if err != nil {
			return err
		}
	}
	if l.samplesTex == nil {
		l.samplesTex, err = l.factory.CreateDataTexture(make([]float32, l.fftSize), l.fftSize, 1)
		if err != nil {
			l.disposeTextures()
			return err
		}
	}
	l.enabled = true
	return nil
}

// Disable releases the analysis textures.
func (l *AudioInputLoader) Disable() {
	l.enabled = false
	l.disposeTextures()
}

func (l *AudioInputLoader) disposeTextures() {
	if l.spectrumTex != nil {
		l.factory.DisposeTexture(l.spectrumTex)
		l.spectrumTex = nil
	}
	if l.samplesTex != nil {
		l.factory.DisposeTexture(l.samplesTex)
		l.samplesTex = nil
	}
}

// IsEnabled reports whether the loader is analysing input.
func (l *AudioInputLoader) IsEnabled() bool { return l.enabled }

// Update pulls fresh samples, runs the FFT and uploads the textures.
func (l *AudioInputLoader) Update() {
	if !l.enabled || l.source == nil {
		return
	}
	n := l.source.Read(l.window)
	if n == 0 {
		return
	}
	for i := n; i < len(l.window); i++ {
		l.window[i] = 0
	}

	var sum float32
	for i, v := range l.window {
		f := float32(v)
		l.samples[i] = f
		sum += f * f
	}
	l.volume = math32.Sqrt(sum / float32(len(l.window)))

	bins := fft.FFTReal(l.window)
	scale := float32(len(l.window))
	for i := range l.spectrum {
		mag := float32(cmplx.Abs(bins[i])) / scale
		l.spectrum[i] = l.smoothing*l.spectrum[i] + (1-l.smoothing)*mag
	}

	if err := l.factory.UpdateDataTexture(l.spectrumTex, l.spectrum); err != nil {
		Logger().Warn("spectrum texture upload failed", "error", err)
	}
	if err := l.factory.UpdateDataTexture(l.samplesTex, l.samples); err != nil {
		Logger().Warn("samples texture upload failed", "error", err)
	}
}

// Apply binds the analysis uniforms on the table.
func (l *AudioInputLoader) Apply(table *uniform.Table) {
	if !l.enabled || l.spectrumTex == nil || l.samplesTex == nil {
		return
	}
	table.Set("volume", uniform.Float(l.volume))
	table.Set("spectrum", uniform.Tex(l.spectrumTex))
	table.Set("samples", uniform.Tex(l.samplesTex))
}
