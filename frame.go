// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package vedajs

import (
	"github.com/karnpapon/vedajs/render"
	"github.com/karnpapon/vedajs/uniform"
)

// Tick runs one frame. The caller schedules ticks, typically from a
// display-synchronized callback; nothing here blocks on I/O.
//
// Every tick advances the elapsed-time uniform and the media decoders.
// GPU work runs only on ticks whose counter is divisible by the
// frameskip stride, so a stride of 2 halves the render rate without
// breaking time continuity.
func (v *Veda) Tick() error {
	if !v.playing {
		return nil
	}

	elapsed := v.opts.clock().Sub(v.start).Seconds()
	v.table.Set("time", uniform.Float(float32(elapsed)))
	v.registry.Update()

	v.tick++
	if v.tick%v.opts.frameskip != 0 {
		return nil
	}

	return v.executeFrame()
}

// executeFrame is steps 2 through 6 of the frame protocol. The ordering
// is load-bearing: the backbuffer swap must precede pass execution so
// every pass samples the previous composite, and each named pair swaps
// immediately after its pass so later passes and the next frame read
// fresh output.
func (v *Veda) executeFrame() error {
	v.backbuffer.Swap()
	v.table.Set("backbuffer", uniform.Tex(v.backbuffer.Texture()))

	v.registry.UpdateInputs(v.table)

	if v.pipeline == nil {
		v.frame++
		v.table.Set("frame", uniform.Int(v.frame))
		return nil
	}

	passes := v.pipeline.Passes()
	cw, ch := float64(v.opts.width), float64(v.opts.height)

	for i, pass := range passes {
		v.table.Set("PASSINDEX", uniform.Int(i))

		pair := pass.Target()
		if pair == nil {
			if err := pass.Execute(v.dev, v.table, nil); err != nil {
				return err
			}
			continue
		}

		w, h := pass.ResolveSize(cw, ch, v.opts.pixelRatio)
		if err := pair.Resize(w, h); err != nil {
			return err
		}
		if err := pass.Execute(v.dev, v.table, pair.Back()); err != nil {
			return err
		}
		pair.Swap()
		v.table.Set(pair.Name(), uniform.Tex(pair.Texture()))
	}

	if err := v.renderLastPass(passes); err != nil {
		return err
	}

	v.frame++
	v.table.Set("frame", uniform.Int(v.frame))
	return nil
}

// renderLastPass finishes the frame: a target-bound final pass renders
// a second time onto the display so its output is actually visible, and
// the final pass always renders once more into the backbuffer's back
// buffer for the next frame. A target-bound final pass therefore draws
// three times per frame; downstream visuals depend on exactly that.
func (v *Veda) renderLastPass(passes []*render.Pass) error {
	last := v.pipeline.LastPass()
	if last == nil {
		return nil
	}
	v.table.Set("PASSINDEX", uniform.Int(len(passes)-1))

	if last.Target() != nil {
		if err := last.Execute(v.dev, v.table, nil); err != nil {
			return err
		}
	}
	return last.Execute(v.dev, v.table, v.backbuffer.Back())
}
