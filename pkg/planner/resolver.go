package planner

import (
	"time"

	"github.com/photosort/photosort/internal/config"
	"github.com/photosort/photosort/pkg/db/models"
)

// FileDateResult is one file's resolved date and the signal it came from,
// grounded on photosort/planner/resolver.py's FileDateResult.
type FileDateResult struct {
	Date   *int64
	Source models.FileDateSource
}

// ResolveFileDate applies the per-file priority order from spec.md §4.4:
// path folder date, then path filename date, then EXIF date_original, then
// filesystem modified time. date_path_hierarchy deliberately plays no part
// here — see DESIGN.md.
func ResolveFileDate(datePathFolder, datePathFilename, dateOriginal, fsModifiedAtUnix *int64) FileDateResult {
	if datePathFolder != nil {
		return FileDateResult{Date: datePathFolder, Source: models.FileDateSourcePathFolder}
	}
	if datePathFilename != nil {
		return FileDateResult{Date: datePathFilename, Source: models.FileDateSourcePathFilename}
	}
	if dateOriginal != nil {
		return FileDateResult{Date: dateOriginal, Source: models.FileDateSourceExif}
	}
	if fsModifiedAtUnix != nil {
		d := unixToYYYYMMDD(*fsModifiedAtUnix)
		return FileDateResult{Date: &d, Source: models.FileDateSourceFSModified}
	}
	return FileDateResult{Date: nil, Source: models.FileDateSourceNone}
}

func unixToYYYYMMDD(unixSec int64) int64 {
	t := time.Unix(unixSec, 0).UTC()
	return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
}

// FolderResolution is the Planner's decision for one source folder: either
// a concrete resolved date, or a fallback bucket.
type FolderResolution struct {
	Bucket       *models.FolderBucket
	ResolvedDate *int64
	Source       models.FolderResolutionSource
}

// ResolveFolder applies the statistical consensus rules of spec.md §4.4
// steps 2-8 to a folder with no path-derived date.
func ResolveFolder(analysis FolderDateAnalysis, cfg config.PlannerConfig) FolderResolution {
	if analysis.ImageFiles == 0 {
		return bucketResolution(models.BucketNonMedia, models.ResolutionSourceNoImages)
	}

	if analysis.DateCoveragePct < cfg.MinCoverageThreshold {
		return bucketResolution(models.BucketMixedDates, models.ResolutionSourceLowCoverage)
	}

	if analysis.DateSpanMonths >= int64(cfg.MaxDateSpanMonths) {
		return bucketResolution(models.BucketMixedDates, models.ResolutionSourceWideSpread)
	}

	if analysis.PrevalentDatePct >= cfg.MinPrevalenceThreshold {
		return FolderResolution{ResolvedDate: analysis.PrevalentDate, Source: models.ResolutionSourceMetadataPrevalent}
	}

	if analysis.UniqueDateCount == 1 && analysis.PrevalentDate != nil {
		return FolderResolution{ResolvedDate: analysis.PrevalentDate, Source: models.ResolutionSourceMetadataUnanimous}
	}

	return bucketResolution(models.BucketMixedDates, models.ResolutionSourceNoConsensus)
}

// ResolveFolderWithPathDate handles step 1 of §4.4: a folder carrying a
// path-derived date always wins over statistical analysis.
func ResolveFolderWithPathDate(pathDate int64) FolderResolution {
	return FolderResolution{ResolvedDate: &pathDate, Source: models.ResolutionSourcePathFolder}
}

func bucketResolution(bucket models.FolderBucket, source models.FolderResolutionSource) FolderResolution {
	return FolderResolution{Bucket: &bucket, Source: source}
}
