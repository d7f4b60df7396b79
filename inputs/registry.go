// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"github.com/karnpapon/vedajs/uniform"
)

// Kind identifies which media provider serves a source.
type Kind int

const (
	// KindUnknown means no provider matched.
	KindUnknown Kind = iota

	// KindVideo is motion video (mp4, webm, ...).
	KindVideo

	// KindAnimatedImage is an animated image (gif).
	KindAnimatedImage

	// KindAudioFile is an audio file rendered as a sound texture.
	KindAudioFile

	// KindImage is a static image.
	KindImage
)

// String returns the provider name for the kind.
func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAnimatedImage:
		return "animated-image"
	case KindAudioFile:
		return "audio-file"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Config carries the provider options of the host's configuration
// surface.
type Config struct {
	// FftSize is the audio analysis FFT window size. Zero means 2048.
	FftSize int

	// FftSmoothing is the spectrum smoothing constant in [0, 1).
	// Zero means 0.8.
	FftSmoothing float64

	// SoundLength is the audio-file sound texture length in seconds.
	// Zero means 30.
	SoundLength float64
}

func (c Config) withDefaults() Config {
	if c.FftSize == 0 {
		c.FftSize = 2048
	}
	if c.FftSmoothing == 0 {
		c.FftSmoothing = 0.8
	}
	if c.SoundLength == 0 {
		c.SoundLength = 30
	}
	return c
}

// Registry owns one provider per media kind plus the input loaders, and
// routes loads to the provider a source resolves to.
type Registry struct {
	video     *VideoLoader
	anim      *AnimatedImageLoader
	audioFile *AudioFileLoader
	image     *ImageLoader

	audio    *AudioInputLoader
	camera   *CameraLoader
	pointer  *PointerLoader
	keyboard *KeyboardLoader
	gamepad  *GamepadLoader
	midi     *MidiLoader
}

// NewRegistry creates a registry with the default providers.
func NewRegistry(factory TextureFactory, cfg Config) *Registry {
	cfg = cfg.withDefaults()
	return &Registry{
		video:     NewVideoLoader(factory),
		anim:      NewAnimatedImageLoader(factory),
		audioFile: NewAudioFileLoader(factory, cfg.SoundLength),
		image:     NewImageLoader(factory),
		audio:     NewAudioInputLoader(factory, cfg.FftSize, cfg.FftSmoothing),
		camera:    NewCameraLoader(factory),
		pointer:   NewPointerLoader(),
		keyboard:  NewKeyboardLoader(factory),
		gamepad:   NewGamepadLoader(factory),
		midi:      NewMidiLoader(factory),
	}
}

// Resolve maps a source locator to the provider that serves it, by file
// extension first and content signature second.
func (r *Registry) Resolve(src string) Kind {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(src), ".")) {
	case "mp4", "webm", "mov", "avi", "mkv", "m4v", "mpg":
		return KindVideo
	case "gif":
		return KindAnimatedImage
	case "mp3", "wav", "ogg", "flac":
		return KindAudioFile
	case "png", "jpg", "jpeg", "bmp", "webp", "tif", "tiff":
		return KindImage
	}
	return sniffKind(src)
}

// sniffKind falls back to content signature matching for extensionless
// sources. A source that cannot be read resolves to KindUnknown.
func sniffKind(src string) Kind {
	f, err := os.Open(src)
	if err != nil {
		return KindUnknown
	}
	defer f.Close()

	// filetype needs at most 262 bytes to match any signature.
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && n == 0 {
		return KindUnknown
	}
	head = head[:n]

	if t, err := filetype.Match(head); err == nil && t == matchers.TypeGif {
		return KindAnimatedImage
	}
	switch {
	case filetype.IsVideo(head):
		return KindVideo
	case filetype.IsAudio(head):
		return KindAudioFile
	case filetype.IsImage(head):
		return KindImage
	}
	return KindUnknown
}

// Loader returns the provider serving kind, or nil for KindUnknown.
func (r *Registry) Loader(k Kind) Loader {
	switch k {
	case KindVideo:
		return r.video
	case KindAnimatedImage:
		return r.anim
	case KindAudioFile:
		return r.audioFile
	case KindImage:
		return r.image
	default:
		return nil
	}
}

// Load resolves src and forwards to its provider.
func (r *Registry) Load(key, src string, p Params) (uniform.Texture, Kind, error) {
	k := r.Resolve(src)
	l := r.Loader(k)
	if l == nil {
		return nil, KindUnknown, fmt.Errorf("inputs: no provider for %q", src)
	}
	tex, err := l.Load(key, src, p)
	if err != nil {
		return nil, k, err
	}
	return tex, k, nil
}

// Unload forwards to the provider that owns src.
func (r *Registry) Unload(src string, k Kind) {
	if l := r.Loader(k); l != nil {
		l.Unload(src)
	}
}

// Update advances every media provider by one tick.
func (r *Registry) Update() {
	r.video.Update()
	r.anim.Update()
	r.audioFile.Update()
	r.image.Update()
}

// UpdateInputs advances and applies every enabled input loader.
func (r *Registry) UpdateInputs(table *uniform.Table) {
	for _, l := range r.inputLoaders() {
		if l.IsEnabled() {
			l.Update()
			l.Apply(table)
		}
	}
}

// DisableInputs stops OS capture on every input loader. Called when
// playback stops. The pointer loader holds no capture and stays
// enabled so the mouse uniform survives a stop/resume cycle.
func (r *Registry) DisableInputs() {
	for _, l := range []InputLoader{r.audio, r.camera, r.keyboard, r.gamepad, r.midi} {
		if l.IsEnabled() {
			l.Disable()
		}
	}
}

func (r *Registry) inputLoaders() []InputLoader {
	return []InputLoader{r.audio, r.camera, r.pointer, r.keyboard, r.gamepad, r.midi}
}

// AudioFile returns the audio-file loader.
func (r *Registry) AudioFile() *AudioFileLoader { return r.audioFile }

// Audio returns the audio-capture loader.
func (r *Registry) Audio() *AudioInputLoader { return r.audio }

// Camera returns the camera loader.
func (r *Registry) Camera() *CameraLoader { return r.camera }

// Pointer returns the pointer loader.
func (r *Registry) Pointer() *PointerLoader { return r.pointer }

// Keyboard returns the keyboard loader.
func (r *Registry) Keyboard() *KeyboardLoader { return r.keyboard }

// Gamepad returns the gamepad loader.
func (r *Registry) Gamepad() *GamepadLoader { return r.gamepad }

// Midi returns the MIDI loader.
func (r *Registry) Midi() *MidiLoader { return r.midi }
