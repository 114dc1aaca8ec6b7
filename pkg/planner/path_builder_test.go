package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTargetFolder_NoAnnotation(t *testing.T) {
	require.Equal(t, "2023/2023_05/20230514", BuildTargetFolder(20230514, ""))
}

func TestBuildTargetFolder_WithAnnotation(t *testing.T) {
	require.Equal(t, "2023/2023_05/20230514-a7iv", BuildTargetFolder(20230514, "a7iv"))
}

func TestBuildBucketPath(t *testing.T) {
	require.Equal(t, "_mixed_dates/a/b/c", BuildBucketPath("mixed_dates", "a/b/c"))
}

func TestExtractAnnotation_DateOnlyYieldsNoAnnotation(t *testing.T) {
	require.Equal(t, "", ExtractAnnotation("20230514", 20230514))
	require.Equal(t, "", ExtractAnnotation("2023_05_14", 20230514))
	require.Equal(t, "", ExtractAnnotation("2023-05-14", 20230514))
}

func TestExtractAnnotation_PrefixStripped(t *testing.T) {
	require.Equal(t, "a7iv", ExtractAnnotation("2023_05_14_a7iv", 20230514))
	require.Equal(t, "a7iv", ExtractAnnotation("20230514-a7iv", 20230514))
}

func TestExtractAnnotation_TruncatesToTenRunes(t *testing.T) {
	require.Equal(t, "abcdefghij", ExtractAnnotation("20230514-abcdefghijklmnop", 20230514))
}

func TestExtractAnnotation_NoDatePrefixUsesWholeName(t *testing.T) {
	require.Equal(t, "wedding", ExtractAnnotation("wedding", 20230514))
}

func TestExtractAnnotation_EmptyAfterTrimYieldsNoAnnotation(t *testing.T) {
	require.Equal(t, "", ExtractAnnotation("20230514-", 20230514))
}

func TestResolveFilenameDuplicate_NoCollision(t *testing.T) {
	existing := map[string]bool{}
	res := ResolveFilenameDuplicate("IMG.jpg", "b", existing)
	require.False(t, res.IsDuplicate)
	require.Equal(t, "IMG.jpg", res.Filename)
}

func TestResolveFilenameDuplicate_CollisionHashesSourceFolder(t *testing.T) {
	existing := map[string]bool{"IMG.jpg": true}
	res := ResolveFilenameDuplicate("IMG.jpg", "b", existing)
	require.True(t, res.IsDuplicate)
	require.Equal(t, shortHash("b", 6), res.SourceHash)
	require.Equal(t, "pot_dupe_"+res.SourceHash+"_IMG.jpg", res.Filename)
}
