// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs_test

import (
	"testing"

	"github.com/karnpapon/vedajs/inputs"
	"github.com/karnpapon/vedajs/render/rendertest"
)

func TestResolveByExtension(t *testing.T) {
	r := inputs.NewRegistry(&rendertest.Device{}, inputs.Config{})

	tests := []struct {
		src  string
		want inputs.Kind
	}{
		{"clips/loop.mp4", inputs.KindVideo},
		{"clips/loop.webm", inputs.KindVideo},
		{"clips/LOOP.MOV", inputs.KindVideo},
		{"art/sprite.gif", inputs.KindAnimatedImage},
		{"music/track.mp3", inputs.KindAudioFile},
		{"music/track.flac", inputs.KindAudioFile},
		{"tex/noise.png", inputs.KindImage},
		{"tex/photo.jpeg", inputs.KindImage},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := r.Resolve(tt.src); got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestResolveUnknownExtension(t *testing.T) {
	r := inputs.NewRegistry(&rendertest.Device{}, inputs.Config{})
	// No such file, no recognizable extension.
	if got := r.Resolve("mystery.bin"); got != inputs.KindUnknown {
		t.Errorf("Resolve = %v, want KindUnknown", got)
	}
}

func TestConfigDefaults(t *testing.T) {
	r := inputs.NewRegistry(&rendertest.Device{}, inputs.Config{})
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
}

func TestLoadUnknownKindFails(t *testing.T) {
	r := inputs.NewRegistry(&rendertest.Device{}, inputs.Config{})
	if _, _, err := r.Load("tex", "mystery.bin", inputs.Params{}); err == nil {
		t.Fatal("Load of unknown kind succeeded, want error")
	}
}
