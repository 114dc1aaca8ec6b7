package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/photosort/photosort/pkg/db/models"
)

// SQLiteStore implements CatalogStore using SQLite through GORM, exactly
// as the teacher's pkg/db/store.SQLiteStore wraps gorm.Open(sqlite.Open).
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// DB returns the underlying GORM database instance, for packages (like
// pkg/db/migrations) that need direct schema access.
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// SQLiteConfig holds SQLite-specific configuration.
type SQLiteConfig struct {
	Path         string
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// NewSQLiteStore creates a new SQLite-backed catalog store.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return &SQLiteStore{db: db, path: cfg.Path}, nil
}

func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// SQLite only supports a single writer; the whole pipeline is a
	// single-process offline tool, so one connection is never a bottleneck.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.db.Exec("PRAGMA foreign_keys = ON")

	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}


func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Scan sessions

func (s *SQLiteStore) CreateScanSession(ctx context.Context, session *models.ScanSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *SQLiteStore) GetScanSession(ctx context.Context, id uint) (*models.ScanSession, error) {
	var session models.ScanSession
	if err := s.db.WithContext(ctx).Preload("CompletedDirectories").First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetScanSessionByRoot returns the most recent session for sourceRoot
// regardless of status, or ErrRecordNotFound if none exists. Used when
// starting a fresh scan, which must replace whatever session — running,
// interrupted, completed, or failed — already occupies this root, since
// SourceRoot is uniquely indexed.
func (s *SQLiteStore) GetScanSessionByRoot(ctx context.Context, sourceRoot string) (*models.ScanSession, error) {
	var session models.ScanSession
	err := s.db.WithContext(ctx).
		Where("source_root = ?", sourceRoot).
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetResumableScanSession returns sourceRoot's most recent running or
// interrupted session, or ErrRecordNotFound if none exists. Both statuses
// are resumable: running means the process died without ever reaching the
// interrupted/completed transition, interrupted means it recorded a clean
// cancellation. A catalog-write failure is recorded as failed and is not
// resumable.
func (s *SQLiteStore) GetResumableScanSession(ctx context.Context, sourceRoot string) (*models.ScanSession, error) {
	var session models.ScanSession
	err := s.db.WithContext(ctx).
		Where("source_root = ? AND status IN ?", sourceRoot, []models.ScanStatus{models.ScanStatusRunning, models.ScanStatusInterrupted}).
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SQLiteStore) GetLastRunningScanSession(ctx context.Context) (*models.ScanSession, error) {
	var session models.ScanSession
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ScanStatusRunning).
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SQLiteStore) ListScanSessions(ctx context.Context) ([]models.ScanSession, error) {
	var sessions []models.ScanSession
	err := s.db.WithContext(ctx).Order("started_at DESC").Find(&sessions).Error
	return sessions, err
}

func (s *SQLiteStore) UpdateScanSession(ctx context.Context, session *models.ScanSession) error {
	return s.db.WithContext(ctx).Save(session).Error
}

func (s *SQLiteStore) DeleteScanSession(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.ScanSession{}, id).Error
}

// Completed directories / resumable batch commit

func (s *SQLiteStore) IsDirectoryCompleted(ctx context.Context, scanSessionID uint, directoryPath string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CompletedDirectory{}).
		Where("scan_session_id = ? AND directory_path = ?", scanSessionID, directoryPath).
		Count(&count).Error
	return count > 0, err
}

func (s *SQLiteStore) MarkDirectoryComplete(ctx context.Context, dir *models.CompletedDirectory) error {
	return s.db.WithContext(ctx).Create(dir).Error
}

func (s *SQLiteStore) DeletePartialDirectory(ctx context.Context, scanSessionID uint, directoryPath string) error {
	return s.db.WithContext(ctx).
		Where("scan_session_id = ? AND directory_path = ?", scanSessionID, directoryPath).
		Delete(&models.File{}).Error
}

// CommitDirectoryBatch performs the Scanner's one-transaction-per-directory
// commit: clear any partial insert left by a prior crash, insert the fresh
// batch, then record completion — all inside a single transaction so a
// crash between these steps can never leave the directory half-recorded.
func (s *SQLiteStore) CommitDirectoryBatch(ctx context.Context, scanSessionID uint, directoryPath string, files []models.File, fileCount int64, totalBytes int64, nowUnix float64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scan_session_id = ? AND directory_path = ?", scanSessionID, directoryPath).
			Delete(&models.File{}).Error; err != nil {
			return err
		}

		if len(files) > 0 {
			if err := tx.Create(&files).Error; err != nil {
				return err
			}
		}

		completed := models.CompletedDirectory{
			ScanSessionID:   scanSessionID,
			DirectoryPath:   directoryPath,
			FileCount:       fileCount,
			TotalBytes:      totalBytes,
			CompletedAtUnix: nowUnix,
			CompletedAt:     int64(nowUnix),
		}

		return tx.Where("scan_session_id = ? AND directory_path = ?", scanSessionID, directoryPath).
			Assign(completed).
			FirstOrCreate(&models.CompletedDirectory{}).Error
	})
}

// Files

func (s *SQLiteStore) InsertFiles(ctx context.Context, files []models.File) error {
	if len(files) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&files).Error
}

func (s *SQLiteStore) GetFile(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	if err := s.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *SQLiteStore) ListFilesForPathDate(ctx context.Context, scanSessionID uint, reprocess bool, offset, limit int) ([]models.File, error) {
	var files []models.File
	q := s.db.WithContext(ctx).Where("scan_session_id = ?", scanSessionID)
	if !reprocess {
		q = q.Where("path_date_resolved_at_unix IS NULL")
	} else if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Order("id").Find(&files).Error
	return files, err
}

func (s *SQLiteStore) UpdateFilePathDates(ctx context.Context, file *models.File) error {
	return s.db.WithContext(ctx).Model(&models.File{}).Where("id = ?", file.ID).
		Select(
			"date_path_hierarchy", "date_path_hierarchy_source",
			"date_path_folder", "date_path_folder_source",
			"date_path_filename", "date_path_filename_source",
			"path_date_resolved_at_unix", "path_date_resolved_at",
		).
		Updates(file).Error
}

func (s *SQLiteStore) ListFilesForMetadataExtraction(ctx context.Context, scanSessionID uint, strategy string, limit int) ([]models.File, error) {
	var files []models.File
	q := s.db.WithContext(ctx).
		Where("scan_session_id = ?", scanSessionID).
		Where("extension IN ?", supportedExtensions()).
		Where("id NOT IN (?)", s.db.Model(&models.FileMetadata{}).Select("file_id"))

	if strategy == "selective" {
		q = q.Where("date_path_folder IS NULL AND date_path_filename IS NULL")
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	err := q.Order("id").Find(&files).Error
	return files, err
}

func (s *SQLiteStore) GetAbsoluteSourcePath(ctx context.Context, file *models.File) (string, error) {
	var session models.ScanSession
	if err := s.db.WithContext(ctx).Select("source_root").First(&session, file.ScanSessionID).Error; err != nil {
		return "", err
	}
	return filepath.Join(session.SourceRoot, file.SourcePath), nil
}

// File metadata

func (s *SQLiteStore) UpsertFileMetadata(ctx context.Context, meta *models.FileMetadata) error {
	return s.db.WithContext(ctx).
		Where("file_id = ?", meta.FileID).
		Assign(*meta).
		FirstOrCreate(&models.FileMetadata{FileID: meta.FileID}).Error
}

func (s *SQLiteStore) GetMetadataStats(ctx context.Context) (map[string]int64, error) {
	stats := map[string]int64{}

	var total, errors, skipped, withDate, withGPS int64
	db := s.db.WithContext(ctx).Model(&models.FileMetadata{})

	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.FileMetadata{}).Where("extraction_error IS NOT NULL").Count(&errors).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.FileMetadata{}).Where("skip_reason IS NOT NULL").Count(&skipped).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.FileMetadata{}).Where("date_original IS NOT NULL").Count(&withDate).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.FileMetadata{}).Where("gps_latitude IS NOT NULL").Count(&withGPS).Error; err != nil {
		return nil, err
	}

	stats["total"] = total
	stats["errors"] = errors
	stats["skipped"] = skipped
	stats["success"] = total - errors - skipped
	stats["with_date"] = withDate
	stats["with_gps"] = withGPS
	return stats, nil
}

// Planning

func (s *SQLiteStore) ListDistinctDirectories(ctx context.Context, scanSessionID uint) ([]string, error) {
	var dirs []string
	err := s.db.WithContext(ctx).Model(&models.File{}).
		Where("scan_session_id = ?", scanSessionID).
		Distinct("directory_path").
		Pluck("directory_path", &dirs).Error
	return dirs, err
}

func (s *SQLiteStore) ListFolderFiles(ctx context.Context, scanSessionID uint, directoryPath string) ([]FolderFileRow, error) {
	var rows []FolderFileRow
	err := s.db.WithContext(ctx).Table("files AS f").
		Select(`f.id AS file_id, f.source_path, f.filename_full, f.filename_base, f.extension,
			f.date_path_folder, f.date_path_filename, f.fs_modified_at AS fs_modified_at,
			fm.date_original`).
		Joins("LEFT JOIN file_metadata fm ON f.id = fm.file_id").
		Where("f.scan_session_id = ? AND f.directory_path = ?", scanSessionID, directoryPath).
		Order("f.id").
		Scan(&rows).Error
	return rows, err
}

func (s *SQLiteStore) ClearExistingPlan(ctx context.Context, scanSessionID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var folderPlanIDs []uint
		if err := tx.Model(&models.FolderPlan{}).
			Where("scan_session_id = ?", scanSessionID).
			Pluck("id", &folderPlanIDs).Error; err != nil {
			return err
		}

		if len(folderPlanIDs) > 0 {
			if err := tx.Where("folder_plan_id IN ?", folderPlanIDs).Delete(&models.FilePlan{}).Error; err != nil {
				return err
			}
		}

		return tx.Where("scan_session_id = ?", scanSessionID).Delete(&models.FolderPlan{}).Error
	})
}

func (s *SQLiteStore) CreateFolderPlan(ctx context.Context, plan *models.FolderPlan) error {
	return s.db.WithContext(ctx).Create(plan).Error
}

func (s *SQLiteStore) GetFolderPlanByPath(ctx context.Context, scanSessionID uint, sourceFolder string) (*models.FolderPlan, error) {
	var plan models.FolderPlan
	err := s.db.WithContext(ctx).
		Where("scan_session_id = ? AND source_folder = ?", scanSessionID, sourceFolder).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (s *SQLiteStore) CreateFilePlans(ctx context.Context, plans []models.FilePlan) error {
	if len(plans) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&plans).Error
}

func supportedExtensions() []string {
	return []string{
		"arw", "jpg", "jpeg", "nef", "dng", "tif", "tiff", "heic", "cr2", "srw",
		"mp4", "m4v", "mov", "mkv", "avi",
	}
}
