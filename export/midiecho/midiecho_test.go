package midiecho

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/theory"
)

func TestWriteProducesNonEmptyFile(t *testing.T) {
	chords := []theory.Chord{
		{Root: theory.PitchClass(2), Quality: theory.QualMin},
		{Root: theory.PitchClass(7), Quality: theory.QualDom7},
		{Root: theory.PitchClass(0), Quality: theory.QualMaj},
	}
	path := filepath.Join(t.TempDir(), "echo.mid")
	out, err := Write(path, chords, 120)
	require.NoError(t, err)
	require.Equal(t, path, out)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestWriteRejectsEmptyProgression(t *testing.T) {
	_, err := Write(filepath.Join(t.TempDir(), "echo.mid"), nil, 120)
	require.Error(t, err)
}
