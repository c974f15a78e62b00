// Package midiecho renders a matched chord progression back out as a
// scratch Standard MIDI File, adapting the teacher's SMF-writing pattern
// (absolute-tick events sorted and diffed into deltas, one program-change
// per channel, NoteOn/NoteOff pairs per chord) to echo an analysis result
// rather than a full backing track.
package midiecho

import (
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/theory"
)

const (
	ticksPerQuarter = 480
	ticksPerChord   = ticksPerQuarter * 4 // one bar of 4/4 per chord
	pianoProgram    = 0
	baseOctaveMIDI  = 60 // middle C
	velocity        = 80
)

type midiEvent struct {
	tick    uint32
	message midi.Message
}

// Write renders chords as a simple block-chord progression into an SMF
// file at path, one bar per chord, and returns the path written.
func Write(path string, chords []theory.Chord, tempoBPM float64) (string, error) {
	if len(chords) == 0 {
		return "", fmt.Errorf("midiecho: no chords to render")
	}
	if tempoBPM <= 0 {
		tempoBPM = 120
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaTempo(tempoBPM))
	tempoTrack.Close(0)
	s.Add(tempoTrack)

	var chordTrack smf.Track
	chordTrack.Add(0, midi.ProgramChange(0, pianoProgram))

	var events []midiEvent
	for i, c := range chords {
		start := uint32(i) * ticksPerChord
		end := start + ticksPerChord
		for _, pc := range c.ChordTones() {
			note := uint8(baseOctaveMIDI + int(pc.Norm()))
			events = append(events, midiEvent{tick: start, message: midi.NoteOn(0, note, velocity)})
			events = append(events, midiEvent{tick: end, message: midi.NoteOff(0, note)})
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].tick < events[j].tick })

	var prevTick uint32
	for _, evt := range events {
		chordTrack.Add(evt.tick-prevTick, evt.message)
		prevTick = evt.tick
	}
	chordTrack.Close(0)
	s.Add(chordTrack)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("midiecho: creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := s.WriteTo(f); err != nil {
		return "", fmt.Errorf("midiecho: writing %s: %w", path, err)
	}
	return path, nil
}
