package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/photosort/photosort/internal/config"
	"github.com/photosort/photosort/pkg/db/models"
	"github.com/photosort/photosort/pkg/db/store"
	"github.com/photosort/photosort/pkg/log"
	"github.com/photosort/photosort/pkg/metrics"
)

// Stats mirrors photosort/scanner/progress.py's ScanStats: the running
// totals a Scan reports during and at the end of a run.
type Stats struct {
	FilesScanned       int64
	DirectoriesScanned int64
	TotalBytes         int64
	StartedAt          time.Time
}

func (s Stats) Elapsed() time.Duration {
	return time.Since(s.StartedAt)
}

// Scanner performs stage 1 of the pipeline: a deterministic, resumable
// inventory of a source root into the catalog's files/scan_sessions tables.
// It never reads file content and never mutates anything under sourceRoot.
type Scanner struct {
	fs             afero.Fs
	store          store.CatalogStore
	uuidOracle     DriveUUIDOracle
	logger         log.LoggerService
	metrics        *metrics.Registry
	progressEvery  int64
	maxPathLength  int
	statRetryCount uint
}

func New(fs afero.Fs, catalogStore store.CatalogStore, uuidOracle DriveUUIDOracle, logger log.LoggerService, registry *metrics.Registry, cfg config.ScannerConfig) *Scanner {
	return &Scanner{
		fs:             fs,
		store:          catalogStore,
		uuidOracle:     uuidOracle,
		logger:         logger.Named("scanner"),
		metrics:        registry,
		progressEvery:  int64(cfg.ProgressInterval),
		maxPathLength:  cfg.MaxPathLength,
		statRetryCount: uint(cfg.StatRetryCount),
	}
}

// Scan walks sourceRoot and records every regular file it finds. With
// resume=true, it continues an interrupted ScanSession for sourceRoot rather
// than starting a fresh one, skipping directories already committed.
func (s *Scanner) Scan(ctx context.Context, sourceRoot string, resume bool) (Stats, error) {
	absRoot, err := filepath.Abs(sourceRoot)
	if err != nil {
		return Stats{}, fmt.Errorf("resolving source root: %w", err)
	}

	driveUUID, err := s.uuidOracle.UUID(ctx, absRoot)
	if err != nil {
		return Stats{}, fmt.Errorf("resolving drive uuid: %w", err)
	}

	s.logger.Info("starting scan of %s", absRoot)
	s.logger.Info("drive uuid: %s", driveUUID)

	var session *models.ScanSession
	var stats Stats
	completedDirs := map[string]bool{}

	if resume {
		session, err = s.store.GetResumableScanSession(ctx, absRoot)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Stats{}, fmt.Errorf("no running or interrupted scan found for %s", absRoot)
			}
			return Stats{}, fmt.Errorf("looking up resumable scan: %w", err)
		}

		dirs, err := s.completedDirectoriesFor(ctx, session.ID)
		if err != nil {
			return Stats{}, err
		}
		completedDirs = dirs

		stats = Stats{
			FilesScanned:       session.FilesScanned,
			DirectoriesScanned: session.DirectoriesScanned,
			TotalBytes:         session.TotalBytes,
			StartedAt:          time.Unix(session.StartedAt, 0),
		}
		s.logger.Info("previous progress: %d files in %d directories", stats.FilesScanned, stats.DirectoriesScanned)
		s.logger.Info("skipping %d completed directories", len(completedDirs))
	} else {
		existing, err := s.store.GetScanSessionByRoot(ctx, absRoot)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return Stats{}, fmt.Errorf("checking for previous scan session: %w", err)
		}
		if existing != nil {
			if err := s.store.DeleteScanSession(ctx, existing.ID); err != nil {
				return Stats{}, fmt.Errorf("clearing previous scan session: %w", err)
			}
		}

		now := time.Now()
		session = &models.ScanSession{
			SourceRoot:      absRoot,
			SourceDriveUUID: driveUUID,
			StartedAtUnix:   float64(now.UnixNano()) / 1e9,
			StartedAt:       now.Unix(),
			Status:          models.ScanStatusRunning,
		}
		if err := s.store.CreateScanSession(ctx, session); err != nil {
			return Stats{}, fmt.Errorf("creating scan session: %w", err)
		}
		stats = Stats{StartedAt: now}
		s.logger.Info("previous scan data for this root, if any, has been cleared")
	}

	if err := s.scanFilesystem(ctx, absRoot, session, completedDirs, &stats); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			session.Status = models.ScanStatusInterrupted
		} else {
			session.Status = models.ScanStatusFailed
		}
		session.ErrorMessage = err.Error()
		if uerr := s.store.UpdateScanSession(context.WithoutCancel(ctx), session); uerr != nil {
			s.logger.Error("failed to record interrupted session: %v", uerr)
		}
		return stats, err
	}

	now := time.Now()
	nowUnix := float64(now.UnixNano()) / 1e9
	completedAt := now.Unix()
	session.Status = models.ScanStatusCompleted
	session.CompletedAtUnix = &nowUnix
	session.CompletedAt = &completedAt
	session.FilesScanned = stats.FilesScanned
	session.DirectoriesScanned = stats.DirectoriesScanned
	session.TotalBytes = stats.TotalBytes
	if err := s.store.UpdateScanSession(ctx, session); err != nil {
		return stats, fmt.Errorf("recording scan completion: %w", err)
	}

	s.logger.Info("scan complete: %d files in %d directories (%s)", stats.FilesScanned, stats.DirectoriesScanned, stats.Elapsed().Round(time.Second))
	s.logger.Info("total size: %s", humanize.Bytes(uint64(stats.TotalBytes)))

	return stats, nil
}

func (s *Scanner) completedDirectoriesFor(ctx context.Context, sessionID uint) (map[string]bool, error) {
	session, err := s.store.GetScanSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	dirs := make(map[string]bool, len(session.CompletedDirectories))
	for _, d := range session.CompletedDirectories {
		dirs[d.DirectoryPath] = true
	}
	return dirs, nil
}

func (s *Scanner) scanFilesystem(ctx context.Context, sourceRoot string, session *models.ScanSession, completedDirs map[string]bool, stats *Stats) error {
	warn := func(format string, args ...any) {
		s.logger.Warn(format, args...)
	}

	return Walk(s.fs, sourceRoot, completedDirs, s.maxPathLength, warn, func(batch DirectoryBatch) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		files := make([]models.File, 0, len(batch.Files))
		var batchBytes int64
		now := time.Now()
		nowUnix := float64(now.UnixNano()) / 1e9

		for _, fi := range batch.Files {
			info, ok := s.statWithRetry(ctx, fi)
			if !ok {
				continue
			}

			files = append(files, models.File{
				ScanSessionID:    session.ID,
				SourcePath:       info.RelativePath,
				DirectoryPath:    info.DirectoryPath,
				FilenameFull:     info.Parsed.Full,
				FilenameBase:     info.Parsed.Base,
				Extension:        info.Parsed.Extension,
				Size:             info.Size,
				FSModifiedAtUnix: floatPtr(info.ModifiedAtUnix),
				FSModifiedAt:     intPtr(int64(info.ModifiedAtUnix)),
				FSChangedAtUnix:  info.ChangedAtUnix,
				FSChangedAt:      intFromFloatPtr(info.ChangedAtUnix),
				FSCreatedAtUnix:  info.CreatedAtUnix,
				FSCreatedAt:      intFromFloatPtr(info.CreatedAtUnix),
				FSAccessedAtUnix: info.AccessedAtUnix,
				FSAccessedAt:     intFromFloatPtr(info.AccessedAtUnix),
				ScannedAtUnix:    nowUnix,
				ScannedAt:        now.Unix(),
			})
			batchBytes += info.Size
		}

		if err := s.store.CommitDirectoryBatch(ctx, session.ID, batch.DirectoryPath, files, int64(len(files)), batchBytes, nowUnix); err != nil {
			return fmt.Errorf("committing directory %q: %w", batch.DirectoryPath, err)
		}

		stats.FilesScanned += int64(len(files))
		stats.DirectoriesScanned++
		stats.TotalBytes += batchBytes
		if s.metrics != nil {
			s.metrics.FilesScanned.Add(float64(len(files)))
		}

		session.FilesScanned = stats.FilesScanned
		session.DirectoriesScanned = stats.DirectoriesScanned
		session.TotalBytes = stats.TotalBytes
		if err := s.store.UpdateScanSession(ctx, session); err != nil {
			return fmt.Errorf("updating session progress: %w", err)
		}

		if s.progressEvery > 0 && stats.FilesScanned%s.progressEvery < int64(len(files)) {
			display := batch.DirectoryPath
			if display == "" {
				display = "/"
			}
			s.logger.Info("[%s files] scanning: %s/", humanize.Comma(stats.FilesScanned), display)
		}

		return nil
	})
}

// statWithRetry re-stats a file once on transient I/O error before giving up
// and skipping it, per the "one retry, then skip" failure policy.
func (s *Scanner) statWithRetry(ctx context.Context, fi FileInfo) (FileInfo, bool) {
	err := retry.Do(
		func() error {
			_, err := s.fs.Stat(fi.AbsolutePath)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(s.statRetryCount+1),
		retry.Delay(0),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("skipping %s: file vanished before it could be stat'd", fi.AbsolutePath)
		} else {
			s.logger.Warn("skipping %s after stat failure: %v", fi.AbsolutePath, err)
		}
		return FileInfo{}, false
	}
	return fi, true
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int64) *int64       { return &v }

func intFromFloatPtr(v *float64) *int64 {
	if v == nil {
		return nil
	}
	i := int64(*v)
	return &i
}
