package scanner

import "strings"

// ParsedFilename splits a filename into its base and lowercased extension,
// grounded on photosort/scanner/filesystem.py's parse_filename: a leading
// dot (dotfile) or a trailing dot never counts as an extension separator.
type ParsedFilename struct {
	Full      string
	Base      string
	Extension string // empty when the file has no recognized extension
}

func ParseFilename(filename string) ParsedFilename {
	if filename == "" {
		return ParsedFilename{Full: filename, Base: filename}
	}

	dotIndex := strings.LastIndex(filename, ".")
	if dotIndex <= 0 || dotIndex == len(filename)-1 {
		return ParsedFilename{
			Full: filename,
			Base: strings.TrimRight(filename, "."),
		}
	}

	return ParsedFilename{
		Full:      filename,
		Base:      filename[:dotIndex],
		Extension: strings.ToLower(filename[dotIndex+1:]),
	}
}
