// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"image"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/karnpapon/vedajs/render/rendertest"
)

func writeTestGif(t *testing.T) string {
	t.Helper()
	frame := image.NewPaletted(image.Rect(0, 0, 4, 4), palette.Plan9)
	g := &gif.GIF{
		Image: []*image.Paletted{frame, frame},
		Delay: []int{5, 5},
	}
	path := filepath.Join(t.TempDir(), "anim.gif")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp gif: %v", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, g); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return path
}

func TestAnimatedImageMemoizesBySource(t *testing.T) {
	dev := &rendertest.Device{}
	l := NewAnimatedImageLoader(dev)
	path := writeTestGif(t)

	tex1, err := l.Load("a", path, Params{Speed: 1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	created := len(dev.Textures)

	// Loading the same source again only adjusts playback speed: same
	// handle, no second decode session or texture.
	tex2, err := l.Load("b", path, Params{Speed: 2})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if tex1 != tex2 {
		t.Error("second load returned a different handle")
	}
	if len(dev.Textures) != created {
		t.Errorf("second load created %d new textures", len(dev.Textures)-created)
	}

	l.Unload(path)
	if tex3, err := l.Load("c", path, Params{}); err != nil {
		t.Fatalf("load after unload: %v", err)
	} else if tex3 == tex1 {
		t.Error("load after unload reused the disposed session")
	}
}
