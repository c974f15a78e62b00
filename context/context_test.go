package context

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildFromChordsPAC(t *testing.T) {
	ctx, err := Build(Input{Chords: []string{"Dm", "G7", "C"}, KeyHint: "C major"})
	require.NoError(t, err)
	require.Equal(t, InputChords, ctx.Kind)
	require.Len(t, ctx.Romans, 3)
	require.Equal(t, "ii", ctx.Romans[0].String())
	require.Equal(t, "V7", ctx.Romans[1].String())
	require.Equal(t, "I", ctx.Romans[2].String())
}

func TestBuildFromRomansCanonical(t *testing.T) {
	ctx, err := Build(Input{Romans: []string{"V/ii", "ii6", "V/ii6/4", "ii", "I6/4", "V", "I"}, KeyHint: "F major"})
	require.NoError(t, err)
	require.Len(t, ctx.Chords, 7)
	require.Equal(t, "D", ctx.Chords[0].String())
}

func TestBuildAmbiguousInput(t *testing.T) {
	_, err := Build(Input{Chords: []string{"C"}, Romans: []string{"I"}})
	require.Error(t, err)
	var ae *AmbiguousInputError
	require.ErrorAs(t, err, &ae)
}

func TestBuildMissingKey(t *testing.T) {
	_, err := Build(Input{Romans: []string{"I"}})
	require.Error(t, err)
	var me *MissingKeyError
	require.ErrorAs(t, err, &me)
}

func TestBuildFromNotesDorian(t *testing.T) {
	ctx, err := Build(Input{Notes: []string{"D", "E", "F", "G", "A", "B", "C"}, KeyHint: "D dorian"})
	require.NoError(t, err)
	require.Len(t, ctx.ScaleDegrees, 7)
}

func TestBuildFromMelody(t *testing.T) {
	ctx, err := Build(Input{Melody: []string{"C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5"}, KeyHint: "C major"})
	require.NoError(t, err)
	require.Len(t, ctx.Melody, 8)
	require.Equal(t, 4, ctx.Melody[0].Octave)
	require.Equal(t, 5, ctx.Melody[7].Octave)
}

func TestInferKeyPrefersDiatonicCoverage(t *testing.T) {
	ctx, err := Build(Input{Chords: []string{"Dm", "G7", "C", "C"}})
	require.NoError(t, err)
	require.True(t, ctx.KeyWasInferred)
	require.Equal(t, "C major", ctx.Key.Name())
}
