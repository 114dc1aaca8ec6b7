package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dustin/go-humanize"
	"github.com/sony/gobreaker/v2"

	"github.com/photosort/photosort/internal/config"
	"github.com/photosort/photosort/pkg/db/models"
	"github.com/photosort/photosort/pkg/db/store"
	"github.com/photosort/photosort/pkg/log"
	"github.com/photosort/photosort/pkg/metrics"
)

// Stats mirrors photosort/extractor/extractor.py's MetadataExtractorStats.
type Stats struct {
	TotalFiles            int64
	FilesExtracted        int64
	FilesWithDateOriginal int64
	FilesWithGPS          int64
	FilesFailed           int64
	FilesSkipped          int64
	StartedAt             time.Time
}

// Extractor runs stage 3 of the pipeline: it invokes the external metadata
// tool over selected Files and writes exactly one file_metadata row per
// input File, never raising a per-file error past its own batch.
type Extractor struct {
	store   store.CatalogStore
	invoker Invoker
	logger  log.LoggerService
	metrics *metrics.Registry
	breaker *gobreaker.CircuitBreaker[[]Result]

	batchSize        int
	minFileSizeBytes int64
	batchTimeout     time.Duration

	version string
}

// New probes the invoker for its version string once — absence is fatal,
// per spec.md §4.3's preflight contract — before returning a ready
// Extractor.
func New(ctx context.Context, catalogStore store.CatalogStore, invoker Invoker, logger log.LoggerService, registry *metrics.Registry, cfg config.MetadataConfig) (*Extractor, error) {
	version, err := invoker.Version(ctx)
	if err != nil {
		return nil, err
	}

	breakerTimeout := time.Duration(cfg.BreakerOpenSeconds) * time.Second
	if breakerTimeout <= 0 {
		breakerTimeout = 30 * time.Second
	}
	consecutive := cfg.BreakerConsecutiveFailures
	if consecutive == 0 {
		consecutive = 3
	}

	breaker := gobreaker.NewCircuitBreaker[[]Result](gobreaker.Settings{
		Name:    "exiftool",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutive
		},
	})

	batchTimeout := time.Duration(cfg.BatchTimeoutSeconds) * time.Second

	return &Extractor{
		store:            catalogStore,
		invoker:          invoker,
		logger:           logger.Named("metadata"),
		metrics:          registry,
		breaker:          breaker,
		batchSize:        cfg.BatchSize,
		minFileSizeBytes: cfg.MinFileSizeBytes,
		batchTimeout:     batchTimeout,
		version:          version,
	}, nil
}

// ExtractAll processes every File selected by strategy for scanSessionID,
// up to limit (0 = unbounded), in batches of the configured size.
func (e *Extractor) ExtractAll(ctx context.Context, scanSessionID uint, strategy Strategy, limit int) (Stats, error) {
	stats := Stats{StartedAt: time.Now()}

	files, err := e.store.ListFilesForMetadataExtraction(ctx, scanSessionID, string(strategy), limit)
	if err != nil {
		return stats, fmt.Errorf("listing files for metadata extraction: %w", err)
	}

	e.logger.Info("starting metadata extraction (strategy: %s, files: %s)", strategy, humanize.Comma(int64(len(files))))

	for i := 0; i < len(files); i += e.batchSize {
		end := i + e.batchSize
		if end > len(files) {
			end = len(files)
		}

		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if err := e.processBatch(ctx, files[i:end], &stats); err != nil {
			return stats, err
		}

		rate := float64(stats.TotalFiles) / maxFloat(1, time.Since(stats.StartedAt).Seconds())
		e.logger.Info("[%s/%s] processed (%.1f files/sec)", humanize.Comma(stats.TotalFiles), humanize.Comma(int64(len(files))), rate)
	}

	return stats, nil
}

func (e *Extractor) processBatch(ctx context.Context, batch []models.File, stats *Stats) error {
	var toExtract []models.File

	for _, f := range batch {
		stats.TotalFiles++
		if f.Size < e.minFileSizeBytes {
			meta := e.buildSkip(f.ID, fmt.Sprintf("file_too_small:%d_bytes", f.Size))
			if err := e.store.UpsertFileMetadata(ctx, meta); err != nil {
				return fmt.Errorf("recording skip for file %d: %w", f.ID, err)
			}
			stats.FilesSkipped++
			continue
		}
		toExtract = append(toExtract, f)
	}

	if len(toExtract) == 0 {
		return nil
	}

	paths := make([]string, len(toExtract))
	for i, f := range toExtract {
		abs, err := e.store.GetAbsoluteSourcePath(ctx, &toExtract[i])
		if err != nil {
			return fmt.Errorf("resolving absolute path for file %d: %w", f.ID, err)
		}
		paths[i] = abs
	}

	results, err := e.extractBatchProtected(ctx, paths)
	if err != nil {
		e.logger.Warn("batch of %d files crashed (%v), falling back to single-file extraction", len(toExtract), err)
		results = e.extractOneByOne(ctx, paths)
	}

	byPath := make(map[string]Result, len(results))
	for _, r := range results {
		byPath[r.SourceFile] = r
	}

	for i, f := range toExtract {
		r, ok := byPath[paths[i]]
		var meta *models.FileMetadata
		if !ok {
			meta = e.buildError(f.ID, "no exiftool result")
			stats.FilesFailed++
			if e.metrics != nil {
				e.metrics.ExtractionErrors.Inc()
			}
		} else if r.Error != "" {
			meta = e.buildError(f.ID, r.Error)
			stats.FilesFailed++
			if e.metrics != nil {
				e.metrics.ExtractionErrors.Inc()
			}
		} else {
			meta = e.buildSuccess(f.ID, r)
			stats.FilesExtracted++
			if e.metrics != nil {
				e.metrics.FilesExtracted.Inc()
			}
			if meta.DateOriginal != nil {
				stats.FilesWithDateOriginal++
			}
			if meta.GPSLatitude != nil {
				stats.FilesWithGPS++
			}
		}
		if err := e.store.UpsertFileMetadata(ctx, meta); err != nil {
			return fmt.Errorf("recording metadata for file %d: %w", f.ID, err)
		}
	}

	return nil
}

// extractBatchProtected wraps one ExtractBatch call with a per-attempt
// timeout, a single retry via exponential backoff, and a circuit breaker
// that opens after repeated whole-batch crashes so a persistently broken
// exiftool stops being retried on every subsequent batch.
func (e *Extractor) extractBatchProtected(ctx context.Context, paths []string) ([]Result, error) {
	operation := func() ([]Result, error) {
		batchCtx, cancel := withBatchDeadline(ctx, e.batchTimeout)
		defer cancel()
		return e.breaker.Execute(func() ([]Result, error) {
			return e.invoker.ExtractBatch(batchCtx, paths)
		})
	}

	return backoff.Retry(ctx, operation, backoff.WithMaxTries(2))
}

func (e *Extractor) extractOneByOne(ctx context.Context, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		single, err := e.invoker.ExtractBatch(ctx, []string{p})
		if err != nil || len(single) == 0 {
			results = append(results, Result{SourceFile: p, Error: fmt.Sprintf("single-file fallback failed: %v", err)})
			continue
		}
		results = append(results, single[0])
	}
	return results
}

func (e *Extractor) buildSuccess(fileID uint, r Result) *models.FileMetadata {
	now := time.Now()
	nowUnix := float64(now.UnixNano()) / 1e9

	dateOriginalUnix, dateOriginal := ParseExifDate(GetFirstString(r.Fields, "EXIF:DateTimeOriginal", "QuickTime:CreateDate", "XMP:DateTimeOriginal"))
	dateDigitizedUnix, dateDigitized := ParseExifDate(GetFirstString(r.Fields, "EXIF:DateTimeDigitized", "QuickTime:MediaCreateDate", "XMP:CreateDate"))
	dateModifyUnix, dateModify := ParseExifDate(GetFirstString(r.Fields, "EXIF:ModifyDate", "QuickTime:ModifyDate", "XMP:ModifyDate"))

	metaJSON, _ := MetadataToJSON(r.Fields)
	families := ExtractMetadataFamilies(r.Fields)

	meta := &models.FileMetadata{
		FileID:            fileID,
		DateOriginalUnix:  dateOriginalUnix,
		DateOriginal:      dateOriginal,
		DateDigitizedUnix: dateDigitizedUnix,
		DateDigitized:     dateDigitized,
		DateModifyUnix:    dateModifyUnix,
		DateModify:        dateModify,
		Make:              firstStringPtr(GetFirstValue(r.Fields, "EXIF:Make", "QuickTime:Make", "XMP:Make")),
		Model:             firstStringPtr(GetFirstValue(r.Fields, "EXIF:Model", "QuickTime:Model", "XMP:Model")),
		LensModel:         firstStringPtr(GetFirstValue(r.Fields, "EXIF:LensModel", "EXIF:Lens", "XMP:Lens")),
		MimeType:          firstStringPtr(GetFirstValue(r.Fields, "File:MIMEType")),
		MetadataFamilies:  &families,
		MetadataJSON:      &metaJSON,
		ExtractedAtUnix:   nowUnix,
		ExtractedAt:       now.Unix(),
		ExtractorVersion:  &e.version,
	}

	if v, ok := GetFirstFloat64(r.Fields, "EXIF:ImageWidth", "EXIF:ExifImageWidth", "QuickTime:ImageWidth"); ok {
		iv := int(v)
		meta.ImageWidth = &iv
	}
	if v, ok := GetFirstFloat64(r.Fields, "EXIF:ImageHeight", "EXIF:ExifImageHeight", "QuickTime:ImageHeight"); ok {
		iv := int(v)
		meta.ImageHeight = &iv
	}
	if v, ok := GetFirstFloat64(r.Fields, "EXIF:Orientation"); ok {
		iv := int(v)
		meta.Orientation = &iv
	}
	if v, ok := GetFirstFloat64(r.Fields, "QuickTime:Duration", "Matroska:Duration"); ok {
		meta.DurationSeconds = &v
	}
	if v, ok := GetFirstFloat64(r.Fields, "QuickTime:VideoFrameRate", "Matroska:FrameRate"); ok {
		meta.VideoFrameRate = &v
	}
	if v, ok := GetFirstFloat64(r.Fields, "EXIF:GPSLatitude", "Composite:GPSLatitude"); ok {
		meta.GPSLatitude = &v
	}
	if v, ok := GetFirstFloat64(r.Fields, "EXIF:GPSLongitude", "Composite:GPSLongitude"); ok {
		meta.GPSLongitude = &v
	}
	if v, ok := GetFirstFloat64(r.Fields, "EXIF:GPSAltitude"); ok {
		meta.GPSAltitude = &v
	}

	return meta
}

func (e *Extractor) buildError(fileID uint, errMsg string) *models.FileMetadata {
	now := time.Now()
	nowUnix := float64(now.UnixNano()) / 1e9
	return &models.FileMetadata{
		FileID:           fileID,
		ExtractedAtUnix:  nowUnix,
		ExtractedAt:      now.Unix(),
		ExtractorVersion: &e.version,
		ExtractionError:  &errMsg,
	}
}

func (e *Extractor) buildSkip(fileID uint, reason string) *models.FileMetadata {
	now := time.Now()
	nowUnix := float64(now.UnixNano()) / 1e9
	return &models.FileMetadata{
		FileID:           fileID,
		ExtractedAtUnix:  nowUnix,
		ExtractedAt:      now.Unix(),
		ExtractorVersion: &e.version,
		SkipReason:       &reason,
	}
}

func firstStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
