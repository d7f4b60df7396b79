// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package vedajs

import (
	"testing"
	"time"

	"github.com/karnpapon/vedajs/render"
	"github.com/karnpapon/vedajs/render/rendertest"
	"github.com/karnpapon/vedajs/uniform"
)

// testClock is a manual clock: each Advance moves it forward.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestHost(t *testing.T, dev *rendertest.Device, opt ...Option) (*Veda, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Unix(1000, 0)}
	v, err := New(dev, append([]Option{WithClock(clock.Now)}, opt...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v, clock
}

func TestTwoPassTargetFreshness(t *testing.T) {
	dev := &rendertest.Device{}
	v, _ := newTestHost(t, dev)
	defer v.Dispose()

	err := v.LoadShader([]render.PassSpec{
		{Fragment: "pass one", Target: "A"},
		{Fragment: "pass two"},
	})
	if err != nil {
		t.Fatalf("LoadShader: %v", err)
	}

	v.Play()
	if err := v.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	// Frame 1: pass 1 into A, pass 2 onto the display, then the last
	// pass again into the backbuffer.
	if len(dev.Calls) != 3 {
		t.Fatalf("frame 1 made %d render calls, want 3", len(dev.Calls))
	}
	if dev.Calls[0].Target == nil || dev.Calls[0].Target.Label != "A" {
		t.Errorf("call 0 target = %+v, want pair A", dev.Calls[0].Target)
	}
	if dev.Calls[1].Target != nil {
		t.Errorf("call 1 should be a display render")
	}
	if dev.Calls[2].Target == nil || dev.Calls[2].Target.Label != "backbuffer" {
		t.Errorf("call 2 target = %+v, want backbuffer", dev.Calls[2].Target)
	}
	if got := []int{dev.Calls[0].PassIndex, dev.Calls[1].PassIndex, dev.Calls[2].PassIndex}; got[0] != 0 || got[1] != 1 || got[2] != 1 {
		t.Errorf("pass indices = %v, want [0 1 1]", got)
	}

	// Uniform A holds pass 1's frame-1 output, not a stale default.
	av, ok := v.Uniforms().Get("A")
	if !ok || av.Type() != uniform.TypeTexture {
		t.Fatalf("uniform A not bound as texture after frame 1")
	}
	if stamp := av.Texture().(*rendertest.Texture).Stamp; stamp != dev.Calls[0].Seq {
		t.Errorf("uniform A stamp = %d, want %d (pass 1 frame 1)", stamp, dev.Calls[0].Seq)
	}

	if err := v.Tick(); err != nil {
		t.Fatalf("Tick 2: %v", err)
	}
	av, _ = v.Uniforms().Get("A")
	if stamp := av.Texture().(*rendertest.Texture).Stamp; stamp != dev.Calls[3].Seq {
		t.Errorf("uniform A stamp after frame 2 = %d, want %d", stamp, dev.Calls[3].Seq)
	}
}

func TestLastPassWithTargetRendersThreeTimes(t *testing.T) {
	dev := &rendertest.Device{}
	v, _ := newTestHost(t, dev)
	defer v.Dispose()

	if err := v.LoadShader([]render.PassSpec{{Fragment: "fb", Target: "A"}}); err != nil {
		t.Fatalf("LoadShader: %v", err)
	}
	v.Play()
	if err := v.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(dev.Calls) != 3 {
		t.Fatalf("made %d render calls, want 3", len(dev.Calls))
	}
	if dev.Calls[0].Target.Label != "A" {
		t.Errorf("render 1 into %q, want A", dev.Calls[0].Target.Label)
	}
	if dev.Calls[1].Target != nil {
		t.Errorf("render 2 should hit the display")
	}
	if dev.Calls[2].Target.Label != "backbuffer" {
		t.Errorf("render 3 into %q, want backbuffer", dev.Calls[2].Target.Label)
	}
}

func TestBackbufferCarriesPreviousComposite(t *testing.T) {
	dev := &rendertest.Device{}
	v, _ := newTestHost(t, dev)
	defer v.Dispose()

	if err := v.LoadFragmentShader("solo"); err != nil {
		t.Fatalf("LoadFragmentShader: %v", err)
	}
	v.Play()

	if err := v.Tick(); err != nil {
		t.Fatalf("Tick 1: %v", err)
	}
	bbWrite := dev.Calls[len(dev.Calls)-1]
	if bbWrite.Target.Label != "backbuffer" {
		t.Fatalf("last call of frame 1 into %q, want backbuffer", bbWrite.Target.Label)
	}

	if err := v.Tick(); err != nil {
		t.Fatalf("Tick 2: %v", err)
	}
	bv, ok := v.Uniforms().Get("backbuffer")
	if !ok {
		t.Fatal("backbuffer uniform unbound")
	}
	if stamp := bv.Texture().(*rendertest.Texture).Stamp; stamp != bbWrite.Seq {
		t.Errorf("frame 2 backbuffer stamp = %d, want %d (frame 1's composite)", stamp, bbWrite.Seq)
	}
}

func TestFrameSkip(t *testing.T) {
	dev := &rendertest.Device{}
	v, clock := newTestHost(t, dev, WithFrameskip(3))
	defer v.Dispose()

	if err := v.LoadFragmentShader("skip"); err != nil {
		t.Fatalf("LoadFragmentShader: %v", err)
	}
	v.Play()

	var times []float32
	for i := 0; i < 10; i++ {
		clock.Advance(16 * time.Millisecond)
		if err := v.Tick(); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
		tv, _ := v.Uniforms().Get("time")
		times = append(times, tv.Float())
	}

	// 10 ticks at stride 3 execute exactly 3 frames.
	if v.Frame() != 3 {
		t.Errorf("executed %d frames over 10 ticks at stride 3, want 3", v.Frame())
	}
	// Each frame is one display render plus one backbuffer render.
	if got := len(dev.Calls); got != 6 {
		t.Errorf("made %d render calls, want 6", got)
	}
	// Time advances monotonically on every tick, skipped or not.
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Fatalf("time did not advance at tick %d: %v", i, times)
		}
	}
}

func TestResizePropagatesToTargetPairs(t *testing.T) {
	dev := &rendertest.Device{}
	v, _ := newTestHost(t, dev, WithCanvasSize(640, 480), WithPixelRatio(2))
	defer v.Dispose()

	err := v.LoadShader([]render.PassSpec{
		{Fragment: "full", Target: "A"},
		{Fragment: "half", Target: "B", Width: "$WIDTH/2"},
	})
	if err != nil {
		t.Fatalf("LoadShader: %v", err)
	}
	v.Play()
	if err := v.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	assertPairSize := func(label string, w, h int) {
		t.Helper()
		for _, fb := range dev.Framebuffers {
			if fb.Label == label && !fb.Disposed {
				if fb.Width() != w || fb.Height() != h {
					t.Errorf("pair %s = %dx%d, want %dx%d", label, fb.Width(), fb.Height(), w, h)
				}
			}
		}
	}
	assertPairSize("A", 320, 240)
	assertPairSize("B", 160, 240)

	if err := v.Resize(800, 600); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := v.Tick(); err != nil {
		t.Fatalf("Tick after resize: %v", err)
	}
	assertPairSize("A", 400, 300)
	assertPairSize("B", 200, 300)
	assertPairSize("backbuffer", 400, 300)

	rv, _ := v.Uniforms().Get("resolution")
	if vec := rv.Vec(); vec[0] != 400 || vec[1] != 300 {
		t.Errorf("resolution uniform = %v, want [400 300]", vec)
	}
}

func TestTickWhileStoppedIsNoop(t *testing.T) {
	dev := &rendertest.Device{}
	v, _ := newTestHost(t, dev)
	defer v.Dispose()

	if err := v.LoadFragmentShader("idle"); err != nil {
		t.Fatalf("LoadFragmentShader: %v", err)
	}
	if err := v.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(dev.Calls) != 0 {
		t.Errorf("tick before Play made %d render calls, want 0", len(dev.Calls))
	}

	v.Play()
	_ = v.Tick()
	v.Stop()
	n := len(dev.Calls)
	_ = v.Tick()
	if len(dev.Calls) != n {
		t.Errorf("tick after Stop made render calls")
	}
}
