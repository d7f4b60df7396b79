// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"testing"
	"time"

	"github.com/zergon321/reisen"
)

// frameLessStream never yields a frame, so the decode loop keeps
// rewinding without reaching the pacing sleep.
type frameLessStream struct {
	rewinds chan struct{}
}

func (f *frameLessStream) ReadVideoFrame() (*reisen.VideoFrame, bool, error) {
	return nil, false, nil
}

func (f *frameLessStream) Rewind(time.Duration) error {
	select {
	case f.rewinds <- struct{}{}:
	default:
	}
	return nil
}

func (f *frameLessStream) FrameRate() (int, int) { return 30, 1 }

func TestDecodeLoopStopsDuringRewind(t *testing.T) {
	l := &VideoLoader{}
	s := &videoSession{speed: 1, stop: make(chan struct{})}
	stream := &frameLessStream{rewinds: make(chan struct{}, 1)}

	done := make(chan struct{})
	go l.decodeLoop("empty.mp4", stream, s, func() { close(done) })

	// Wait until the loop is cycling through the rewind branch.
	select {
	case <-stream.rewinds:
	case <-time.After(time.Second):
		t.Fatal("decode loop never rewound")
	}

	close(s.stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("decode loop kept running after stop")
	}
}
