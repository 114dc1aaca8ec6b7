// Package planner implements the catalog pipeline's fourth stage: it reads
// scanned Files and their resolved per-file dates, decides a target folder
// for every source folder in the scan, and writes the decision as
// FolderPlan/FilePlan rows. It never touches the filesystem.
package planner

import "strings"

// imageExtensions is the folder-coverage classification set, grounded on
// photosort/planner/analyzer.py's IMAGE_EXTENSIONS but narrowed to the set
// this catalog's Planner actually classifies against — broader than
// MetadataExtractor's supported-extension set because classification here
// is purely structural (an extension string), not content-capable.
var imageExtensions = map[string]bool{
	"arw": true, "jpg": true, "jpeg": true, "nef": true, "dng": true,
	"tif": true, "tiff": true, "heic": true, "cr2": true, "srw": true,
	"png": true, "psd": true, "bmp": true, "gif": true,
}

// IsImageExtension reports whether ext (lowercase, no leading dot) counts
// toward a folder's image coverage statistics.
func IsImageExtension(ext string) bool {
	if ext == "" {
		return false
	}
	return imageExtensions[strings.ToLower(ext)]
}

// FolderDateAnalysis is the statistical summary FolderResolution rules are
// applied against, grounded on photosort/planner/analyzer.py's
// FolderDateAnalysis.
type FolderDateAnalysis struct {
	TotalFiles      int64
	ImageFiles      int64
	ImagesWithDate  int64
	DateCoveragePct float64

	PrevalentDate    *int64
	PrevalentCount   int64
	PrevalentDatePct float64

	MinDate        *int64
	MaxDate        *int64
	DateSpanMonths int64

	UniqueDateCount int64
}

// fileForAnalysis is one file's classification input: its resolved date (if
// any) and whether it counts as an image for coverage purposes.
type fileForAnalysis struct {
	Date    *int64
	IsImage bool
}

// AnalyzeFolder computes date statistics over one folder's files, counting
// coverage and prevalence only among files classified as images.
func AnalyzeFolder(files []fileForAnalysis) FolderDateAnalysis {
	var imageFiles, imagesWithDate int64
	var imageDates []int64

	for _, f := range files {
		if !f.IsImage {
			continue
		}
		imageFiles++
		if f.Date != nil {
			imagesWithDate++
			imageDates = append(imageDates, *f.Date)
		}
	}

	analysis := FolderDateAnalysis{
		TotalFiles:     int64(len(files)),
		ImageFiles:     imageFiles,
		ImagesWithDate: imagesWithDate,
	}
	if imageFiles > 0 {
		analysis.DateCoveragePct = float64(imagesWithDate) / float64(imageFiles)
	}

	if len(imageDates) == 0 {
		return analysis
	}

	counts := make(map[int64]int64, len(imageDates))
	var order []int64
	minDate, maxDate := imageDates[0], imageDates[0]
	for _, d := range imageDates {
		if _, seen := counts[d]; !seen {
			order = append(order, d)
		}
		counts[d]++
		if d < minDate {
			minDate = d
		}
		if d > maxDate {
			maxDate = d
		}
	}

	// Ties go to whichever date was encountered first in file order
	// (ascending file ID), matching the first-seen-wins behavior of
	// iterating an insertion-ordered map.
	var prevalent int64
	var prevalentCount int64
	for _, d := range order {
		if counts[d] > prevalentCount {
			prevalent = d
			prevalentCount = counts[d]
		}
	}

	analysis.PrevalentDate = &prevalent
	analysis.PrevalentCount = prevalentCount
	analysis.PrevalentDatePct = float64(prevalentCount) / float64(imagesWithDate)
	analysis.MinDate = &minDate
	analysis.MaxDate = &maxDate
	analysis.DateSpanMonths = monthSpan(minDate, maxDate)
	analysis.UniqueDateCount = int64(len(counts))

	return analysis
}

// monthSpan returns the calendar-month distance between two YYYYMMDD
// integers, per spec.md §4.4's definition: (max.year-min.year)*12 +
// (max.month-min.month).
func monthSpan(minDate, maxDate int64) int64 {
	minYear, minMonth := minDate/10000, (minDate/100)%100
	maxYear, maxMonth := maxDate/10000, (maxDate/100)%100
	return (maxYear-minYear)*12 + (maxMonth - minMonth)
}
