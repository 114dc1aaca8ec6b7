package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectSidecar_MatchesImageSibling(t *testing.T) {
	folder := []folderFileInfo{
		{FilenameBase: "IMG_001", Extension: "xmp"},
		{FilenameBase: "IMG_001", Extension: "arw"},
	}
	require.True(t, DetectSidecar("IMG_001", "xmp", folder))
}

func TestDetectSidecar_NonSidecarExtensionIsFalse(t *testing.T) {
	folder := []folderFileInfo{
		{FilenameBase: "IMG_001", Extension: "arw"},
	}
	require.False(t, DetectSidecar("IMG_001", "arw", folder))
}

func TestDetectSidecar_NoMatchingImageIsFalse(t *testing.T) {
	folder := []folderFileInfo{
		{FilenameBase: "IMG_001", Extension: "xmp"},
	}
	require.False(t, DetectSidecar("IMG_001", "xmp", folder))
}

func TestDetectSidecar_EmptyExtensionIsFalse(t *testing.T) {
	require.False(t, DetectSidecar("IMG_001", "", nil))
}
