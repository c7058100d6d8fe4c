package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnakeCase(t *testing.T) {
	require.Equal(t, "area_in_km2", SnakeCase("Area in km2"))
	require.Equal(t, "population", SnakeCase(" Population "))
	require.Equal(t, "iso-3166_alpha2", SnakeCase("ISO-3166 alpha2"))
	require.Equal(t, "a_b", SnakeCase("a \t\n b"))
}

func TestNormalizeCode(t *testing.T) {
	require.Equal(t, "US", NormalizeCode(" us "))
	require.Equal(t, "FR", NormalizeCode("FR"))
	require.Equal(t, "", NormalizeCode("  "))
}
