package tokens

import (
	"testing"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/stretchr/testify/require"
)

func TestConvertHarmonic(t *testing.T) {
	ctx, err := context.Build(context.Input{Chords: []string{"Dm", "G7", "C"}, KeyHint: "C major"})
	require.NoError(t, err)

	toks := Convert(ctx)
	require.Len(t, toks, 3)
	require.Equal(t, 2, toks[0].Degree) // ii
	require.True(t, toks[0].IsDiatonic)
	require.Equal(t, 5, toks[1].RootMotionToNext) // G(7) -> C(0): -7 normalized to +5
}

func TestConvertEmptyContext(t *testing.T) {
	require.Nil(t, Convert(&context.Context{}))
}
