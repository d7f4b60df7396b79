// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"fmt"
	"image"
	"os"

	// Codecs for the still-image formats the registry routes here.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/karnpapon/vedajs/uniform"
)

// ImageLoader provides still-image textures. Images are uploaded once
// at load time; Update has nothing to do.
type ImageLoader struct {
	factory  TextureFactory
	textures map[string]uniform.Texture
}

// NewImageLoader creates a still-image loader on the given texture
// factory.
func NewImageLoader(factory TextureFactory) *ImageLoader {
	return &ImageLoader{
		factory:  factory,
		textures: make(map[string]uniform.Texture),
	}
}

// Load decodes src (once per source) and returns its texture.
func (l *ImageLoader) Load(_, src string, _ Params) (uniform.Texture, error) {
	if tex, ok := l.textures[src]; ok {
		return tex, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("inputs: open image %q: %w", src, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("inputs: decode image %q: %w", src, err)
	}

	tex, err := l.factory.CreateImageTexture(img)
	if err != nil {
		return nil, err
	}
	l.textures[src] = tex
	return tex, nil
}

// Update is a no-op for still images.
func (l *ImageLoader) Update() {}

// Unload disposes the texture held for src.
func (l *ImageLoader) Unload(src string) {
	tex, ok := l.textures[src]
	if !ok {
		return
	}
	l.factory.DisposeTexture(tex)
	delete(l.textures, src)
}
