// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

// Command veda runs shader files through the vedajs host: it watches a
// shader for edits, hot-swaps the pipeline, and ticks the frame driver
// headlessly, optionally capturing frames to disk.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gogpu/naga"
	"github.com/urfave/cli"

	"github.com/karnpapon/vedajs"
	"github.com/karnpapon/vedajs/backend/wgpu"
	"github.com/karnpapon/vedajs/render"
)

func main() {
	app := cli.NewApp()
	app.Name = "veda"
	app.Usage = "run live shader art"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "run a shader, watching it for edits",
			Description: `
Load a shader file and tick the frame driver until interrupted. The file
is watched; saving it rebuilds the pipeline in place, and a rebuild
failure keeps the previous pipeline running.

A .json file is read as an ordered list of pass specifications; any
other extension is treated as a single fragment shader.`,
			ArgsUsage: "shader.wgsl | pipeline.json",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 640,
					Usage: "canvas width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 480,
					Usage: "canvas height",
				},
				cli.Float64Flag{
					Name:  "pixel-ratio",
					Value: 1,
					Usage: "display-to-render-buffer scale divisor",
				},
				cli.IntFlag{
					Name:  "frameskip",
					Value: 1,
					Usage: "execute GPU work every n-th tick",
				},
				cli.IntFlag{
					Name:  "fps",
					Value: 60,
					Usage: "tick rate",
				},
				cli.IntFlag{
					Name:  "vertex-count",
					Value: 3000,
					Usage: "procedural geometry vertex count",
				},
				cli.StringFlag{
					Name:  "vertex-mode",
					Value: "TRIANGLES",
					Usage: "procedural geometry primitive",
				},
				cli.StringFlag{
					Name:  "capture",
					Usage: "write a PNG of the display after --capture-frame frames and exit",
				},
				cli.IntFlag{
					Name:  "capture-frame",
					Value: 60,
					Usage: "frame index to capture",
				},
			},
			Action: runShader,
		},
		{
			Name:      "check",
			Usage:     "validate a shader without a GPU",
			ArgsUsage: "shader.wgsl",
			Action:    checkShader,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "veda:", err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		vedajs.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
}

func runShader(ctx *cli.Context) error {
	setupLogging(ctx)
	if ctx.NArg() != 1 {
		return errors.New("missing shader file argument")
	}
	path := ctx.Args().First()

	dev, err := wgpu.New()
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := dev.ConfigureDisplay(ctx.Int("width"), ctx.Int("height")); err != nil {
		return err
	}

	v, err := vedajs.New(dev,
		vedajs.WithCanvasSize(ctx.Int("width"), ctx.Int("height")),
		vedajs.WithPixelRatio(ctx.Float64("pixel-ratio")),
		vedajs.WithFrameskip(ctx.Int("frameskip")),
		vedajs.WithVertexCount(ctx.Int("vertex-count")),
	)
	if err != nil {
		return err
	}
	defer v.Dispose()
	v.SetVertexMode(ctx.String("vertex-mode"))

	if err := loadFile(v, path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	fps := ctx.Int("fps")
	if fps < 1 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	capture := ctx.String("capture")
	captureFrame := ctx.Int("capture-frame")

	v.Play()
	for {
		select {
		case <-sig:
			v.Stop()
			return nil

		case ev := <-watcher.Events:
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := loadFile(v, path); err != nil {
				fmt.Fprintln(os.Stderr, "veda: reload failed:", err)
			}

		case err := <-watcher.Errors:
			fmt.Fprintln(os.Stderr, "veda: watch:", err)

		case <-ticker.C:
			if err := v.Tick(); err != nil {
				return err
			}
			if capture != "" && v.Frame() >= captureFrame {
				v.Stop()
				return writeCapture(dev, capture)
			}
		}
	}
}

// loadFile builds a pipeline from a shader or pipeline file.
func loadFile(v *vedajs.Veda, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var specs []render.PassSpec
		if err := json.Unmarshal(data, &specs); err != nil {
			return fmt.Errorf("parse pass specs: %w", err)
		}
		return v.LoadShader(specs)
	}
	return v.LoadFragmentShader(string(data))
}

func writeCapture(dev *wgpu.Device, path string) error {
	img, err := dev.ReadPixels()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func checkShader(ctx *cli.Context) error {
	setupLogging(ctx)
	if ctx.NArg() != 1 {
		return errors.New("missing shader file argument")
	}
	path := ctx.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ast, err := naga.Parse(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := naga.Lower(ast); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Println(path, "ok")
	return nil
}
