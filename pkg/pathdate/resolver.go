package pathdate

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/photosort/photosort/internal/config"
	"github.com/photosort/photosort/pkg/db/store"
	"github.com/photosort/photosort/pkg/log"
	"github.com/photosort/photosort/pkg/metrics"
)

// Stats mirrors photosort/resolver/resolver.py's ResolverStats.
type Stats struct {
	TotalFiles         int64
	FilesWithHierarchy int64
	FilesWithFolder    int64
	FilesWithFilename  int64
	FilesResolved      int64
}

// Resolver runs PathDateExtractor: the three lexical strategies over every
// selected File's relative path, recording each signal independently.
type Resolver struct {
	store     store.CatalogStore
	logger    log.LoggerService
	metrics   *metrics.Registry
	batchSize int
}

func New(catalogStore store.CatalogStore, logger log.LoggerService, registry *metrics.Registry, cfg config.PathDateConfig) *Resolver {
	return &Resolver{
		store:     catalogStore,
		logger:    logger.Named("pathdate"),
		metrics:   registry,
		batchSize: cfg.BatchSize,
	}
}

// Resolve processes every File of scanSessionID whose path dates are
// unresolved (or, with reprocess=true, every File), in batches, and returns
// the aggregate counts across the whole run.
func (r *Resolver) Resolve(ctx context.Context, scanSessionID uint, reprocess bool) (Stats, error) {
	var stats Stats
	offset := 0

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		limit := r.batchSize
		files, err := r.store.ListFilesForPathDate(ctx, scanSessionID, reprocess, offset, limit)
		if err != nil {
			return stats, fmt.Errorf("listing files for path-date extraction: %w", err)
		}
		if len(files) == 0 {
			break
		}

		now := time.Now()
		nowUnix := float64(now.UnixNano()) / 1e9
		nowSec := now.Unix()

		for i := range files {
			f := &files[i]
			stats.TotalFiles++

			hierarchy := ExtractHierarchyDate(f.SourcePath)
			folder := ExtractFolderDate(f.SourcePath)
			filename := ExtractFilenameDate(f.FilenameFull)

			if hierarchy.Found {
				stats.FilesWithHierarchy++
				v := hierarchy.DateInt
				f.DatePathHierarchy = &v
				f.DatePathHierarchySource = &hierarchy.Source
				if r.metrics != nil {
					r.metrics.PathDatesResolved.WithLabelValues("hierarchy").Inc()
				}
			} else {
				f.DatePathHierarchy = nil
				f.DatePathHierarchySource = nil
			}

			if folder.Found {
				stats.FilesWithFolder++
				v := folder.DateInt
				f.DatePathFolder = &v
				f.DatePathFolderSource = &folder.Source
				if r.metrics != nil {
					r.metrics.PathDatesResolved.WithLabelValues("folder").Inc()
				}
			} else {
				f.DatePathFolder = nil
				f.DatePathFolderSource = nil
			}

			if filename.Found {
				stats.FilesWithFilename++
				v := filename.DateInt
				f.DatePathFilename = &v
				f.DatePathFilenameSource = &filename.Source
				if r.metrics != nil {
					r.metrics.PathDatesResolved.WithLabelValues("filename").Inc()
				}
			} else {
				f.DatePathFilename = nil
				f.DatePathFilenameSource = nil
			}

			if hierarchy.Found || folder.Found || filename.Found {
				stats.FilesResolved++
			}

			f.PathDateResolvedAtUnix = &nowUnix
			f.PathDateResolvedAt = &nowSec

			if err := r.store.UpdateFilePathDates(ctx, f); err != nil {
				return stats, fmt.Errorf("updating path dates for file %d (%s): %w", f.ID, path.Base(f.SourcePath), err)
			}
		}

		r.logger.Info("processed %s files, %s resolved so far", humanize.Comma(stats.TotalFiles), humanize.Comma(stats.FilesResolved))

		if reprocess {
			offset += limit
		}
	}

	return stats, nil
}
