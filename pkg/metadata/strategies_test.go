package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStrategy_Valid(t *testing.T) {
	s, ok := ParseStrategy("full")
	require.True(t, ok)
	require.Equal(t, StrategyFull, s)

	s, ok = ParseStrategy("selective")
	require.True(t, ok)
	require.Equal(t, StrategySelective, s)
}

func TestParseStrategy_Invalid(t *testing.T) {
	_, ok := ParseStrategy("bogus")
	require.False(t, ok)
}

func TestSupportedExtensions_CombinesImageAndVideo(t *testing.T) {
	exts := SupportedExtensions()
	require.Contains(t, exts, "jpg")
	require.Contains(t, exts, "mp4")
	require.Len(t, exts, len(SupportedImageExtensions)+len(SupportedVideoExtensions))
}
