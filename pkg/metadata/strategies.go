package metadata

// Strategy selects which Files MetadataExtractor processes in one run,
// grounded on photosort/extractor/strategies.py's closed strategy set —
// spec.md §9 calls for a closed variant here rather than dynamic plugins.
type Strategy string

const (
	// StrategyFull processes every File with a supported extension that
	// has no file_metadata row yet.
	StrategyFull Strategy = "full"
	// StrategySelective additionally restricts to Files lacking both
	// date_path_folder and date_path_filename — the files PathDateExtractor
	// could not already place, where EXIF is the only remaining signal.
	StrategySelective Strategy = "selective"
)

// SupportedImageExtensions is the extension set MetadataExtractor will
// invoke exiftool against for still images, compared lowercase and without
// the leading dot.
var SupportedImageExtensions = []string{
	"arw", "jpg", "jpeg", "nef", "dng", "tif", "tiff", "heic", "cr2", "srw",
}

// SupportedVideoExtensions is the corresponding set for video containers.
var SupportedVideoExtensions = []string{
	"mp4", "m4v", "mov", "mkv", "avi",
}

// SupportedExtensions is the full set a Strategy selects against.
func SupportedExtensions() []string {
	return append(append([]string{}, SupportedImageExtensions...), SupportedVideoExtensions...)
}

func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyFull:
		return StrategyFull, true
	case StrategySelective:
		return StrategySelective, true
	default:
		return "", false
	}
}
