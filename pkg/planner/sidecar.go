package planner

import "strings"

// sidecarExtensions is the set spec.md §4.4 names for sidecar detection.
var sidecarExtensions = map[string]bool{
	"xmp": true, "json": true, "xml": true, "thm": true, "aae": true,
}

// folderFileInfo is the minimal shape DetectSidecar needs from every other
// file sharing the candidate's source folder.
type folderFileInfo struct {
	FilenameBase string
	Extension    string
}

// DetectSidecar reports whether a file is a sidecar: its own extension is
// in sidecarExtensions, and another file in the same folder shares its
// filename_base with an image extension.
func DetectSidecar(filenameBase, extension string, folderFiles []folderFileInfo) bool {
	if extension == "" {
		return false
	}
	extLower := strings.ToLower(extension)
	if !sidecarExtensions[extLower] {
		return false
	}

	for _, other := range folderFiles {
		if other.FilenameBase == filenameBase && strings.ToLower(other.Extension) == extLower {
			continue
		}
		if other.FilenameBase == filenameBase && IsImageExtension(other.Extension) {
			return true
		}
	}
	return false
}
