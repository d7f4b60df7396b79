// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	"github.com/karnpapon/vedajs/uniform"
)

// soundTexWidth is the row width of decoded waveform textures. Shaders
// address samples as index = y*width + x.
const soundTexWidth = 1280

// AudioFileLoader provides waveform textures decoded from audio files.
// At most soundLength seconds are decoded; the samples are downmixed to
// mono and uploaded once, so Update has nothing to do.
type AudioFileLoader struct {
	factory     TextureFactory
	soundLength float64
	sounds      map[string]*decodedSound
}

// NewAudioFileLoader creates an audio-file loader that decodes up to
// soundLength seconds per file.
func NewAudioFileLoader(factory TextureFactory, soundLength float64) *AudioFileLoader {
	return &AudioFileLoader{
		factory:     factory,
		soundLength: soundLength,
		sounds:      make(map[string]*decodedSound),
	}
}

// SetSoundLength changes the decode limit for sounds loaded afterward.
// Already-decoded sounds are unaffected until reloaded.
func (l *AudioFileLoader) SetSoundLength(seconds float64) {
	if seconds > 0 {
		l.soundLength = seconds
	}
}

type decodedSound struct {
	tex        uniform.Texture
	sampleRate int
	samples    int
}

// SampleRate reports the native rate of a loaded sound, or 0 when src
// is not loaded.
func (l *AudioFileLoader) SampleRate(src string) int {
	if s, ok := l.sounds[src]; ok {
		return s.sampleRate
	}
	return 0
}

// Load decodes src (once per source) into a mono waveform texture.
func (l *AudioFileLoader) Load(_, src string, _ Params) (uniform.Texture, error) {
	if s, ok := l.sounds[src]; ok {
		return s.tex, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("inputs: open audio %q: %w", src, err)
	}

	streamer, format, err := decodeAudio(f, src)
	if err != nil {
		f.Close()
		return nil, err
	}
	defer streamer.Close()

	limit := int(l.soundLength * float64(format.SampleRate))
	mono := drainMono(streamer, limit)

	// Pad the tail row so the texture stays rectangular.
	width := soundTexWidth
	if len(mono) < width {
		width = len(mono)
	}
	if width == 0 {
		return nil, fmt.Errorf("inputs: audio %q decoded to no samples", src)
	}
	height := (len(mono) + width - 1) / width
	padded := make([]float32, width*height)
	copy(padded, mono)

	tex, err := l.factory.CreateDataTexture(padded, width, height)
	if err != nil {
		return nil, err
	}
	l.sounds[src] = &decodedSound{
		tex:        tex,
		sampleRate: int(format.SampleRate),
		samples:    len(mono),
	}
	return tex, nil
}

// decodeAudio picks the decoder from the file extension.
func decodeAudio(f *os.File, src string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(src)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".flac":
		return flac.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("inputs: unsupported audio format %q", src)
	}
}

// drainMono pulls up to limit frames from the streamer, averaging the
// stereo pair into one channel.
func drainMono(streamer beep.Streamer, limit int) []float32 {
	mono := make([]float32, 0, limit)
	buf := make([][2]float64, 512)
	for len(mono) < limit {
		n, ok := streamer.Stream(buf)
		for i := 0; i < n && len(mono) < limit; i++ {
			mono = append(mono, float32((buf[i][0]+buf[i][1])/2))
		}
		if !ok {
			break
		}
	}
	return mono
}

// Update is a no-op; waveforms are uploaded at load time.
func (l *AudioFileLoader) Update() {}

// Unload disposes the waveform texture held for src.
func (l *AudioFileLoader) Unload(src string) {
	s, ok := l.sounds[src]
	if !ok {
		return
	}
	l.factory.DisposeTexture(s.tex)
	delete(l.sounds, src)
}
