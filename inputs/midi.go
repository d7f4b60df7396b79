// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package inputs

import (
	"github.com/karnpapon/vedajs/uniform"

	"gitlab.com/gomidi/midi/v2"
)

// Layout of the midi texture: control-change values occupy the low 128
// cells, per-channel pitch bend and channel pressure sit behind them.
const (
	midiTexWidth    = 256
	midiPitchBase   = 128
	midiPressBase   = 144
	noteTexWidth    = 128
	midiValueScale  = 1.0 / 127
	pitchValueScale = 1.0 / 16383
)

// MidiLoader binds the midi and note uniforms from a stream of MIDI
// messages. The host feeds messages in via Feed; Update uploads the
// accumulated state each frame.
type MidiLoader struct {
	factory TextureFactory

	enabled bool
	state   []float32
	notes   []float32
	dirty   bool

	midiTex uniform.Texture
	noteTex uniform.Texture
}

// NewMidiLoader creates a MIDI loader on the given texture factory.
func NewMidiLoader(factory TextureFactory) *MidiLoader {
	return &MidiLoader{
		factory: factory,
		state:   make([]float32, midiTexWidth),
		notes:   make([]float32, noteTexWidth),
	}
}

// Enable allocates the midi and note textures.
func (l *MidiLoader) Enable() error {
	if l.enabled {
		return nil
	}
	var err error
	if l.midiTex == nil {
		l.midiTex, err = l.factory.CreateDataTexture(make([]float32, midiTexWidth), midiTexWidth, 1)
		if err != nil {
			return err
		}
	}
	if l.noteTex == nil {
		l.noteTex, err = l.factory.CreateDataTexture(make([]float32, noteTexWidth), noteTexWidth, 1)
		if err != nil {
			l.factory.DisposeTexture(l.midiTex)
			l.midiTex = nil
			return err
		}
	}
	l.enabled = true
	return nil
}

// Disable releases the textures and clears held state.
func (l *MidiLoader) Disable() {
	l.enabled = false
	for i := range l.state {
		l.state[i] = 0
	}
	for i := range l.notes {
		l.notes[i] = 0
	}
	if l.midiTex != nil {
		l.factory.DisposeTexture(l.midiTex)
		l.midiTex = nil
	}
	if l.noteTex != nil {
		l.factory.DisposeTexture(l.noteTex)
		l.noteTex = nil
	}
}

// IsEnabled reports whether MIDI state is published.
func (l *MidiLoader) IsEnabled() bool { return l.enabled }

// Feed folds one MIDI message into the state. Unrecognized messages
// are ignored.
func (l *MidiLoader) Feed(msg midi.Message) {
	var (
		ch, key, vel uint8
		cc, val      uint8
		press        uint8
		rel          int16
		abs          uint16
	)
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		l.notes[key%noteTexWidth] = float32(vel) * midiValueScale
	case msg.GetNoteOff(&ch, &key, &vel):
		l.notes[key%noteTexWidth] = 0
	case msg.GetControlChange(&ch, &cc, &val):
		l.state[cc%midiPitchBase] = float32(val) * midiValueScale
	case msg.GetPitchBend(&ch, &rel, &abs):
		l.state[midiPitchBase+int(ch%16)] = float32(abs) * pitchValueScale
	case msg.GetAfterTouch(&ch, &press):
		l.state[midiPressBase+int(ch%16)] = float32(press) * midiValueScale
	default:
		return
	}
	l.dirty = true
}

// Update uploads the state when messages arrived since the last frame.
func (l *MidiLoader) Update() {
	if !l.enabled || !l.dirty {
		return
	}
	l.dirty = false
	if err := l.factory.UpdateDataTexture(l.midiTex, l.state); err != nil {
		Logger().Warn("midi texture upload failed", "error", err)
	}
	if err := l.factory.UpdateDataTexture(l.noteTex, l.notes); err != nil {
		Logger().Warn("note texture upload failed", "error", err)
	}
}

// Apply binds the midi and note uniforms.
func (l *MidiLoader) Apply(table *uniform.Table) {
	if !l.enabled || l.midiTex == nil {
		return
	}
	table.Set("midi", uniform.Tex(l.midiTex))
	table.Set("note", uniform.Tex(l.noteTex))
}
