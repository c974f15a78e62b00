package glossary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnrichKnownKey(t *testing.T) {
	terms := Enrich(Default(), []string{"tonal_clarity"})
	require.Len(t, terms, 1)
	require.Equal(t, "Tonal clarity", terms[0].Label)
	require.NotEmpty(t, terms[0].Tooltip)
}

func TestEnrichUnknownKeyPassesThrough(t *testing.T) {
	terms := Enrich(Default(), []string{"totally_made_up_feature"})
	require.Len(t, terms, 1)
	require.Equal(t, "totally_made_up_feature", terms[0].Label)
	require.Empty(t, terms[0].Tooltip)
}
