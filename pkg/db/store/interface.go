package store

import (
	"context"

	"github.com/photosort/photosort/pkg/db/models"
)

// CatalogStore is the persistence boundary every pipeline stage talks
// through. None of the four stages touch *gorm.DB directly outside this
// package, so the catalog schema can evolve without the stages caring how
// rows are stored.
type CatalogStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Health(ctx context.Context) error

	// Scan sessions
	CreateScanSession(ctx context.Context, session *models.ScanSession) error
	GetScanSession(ctx context.Context, id uint) (*models.ScanSession, error)
	GetScanSessionByRoot(ctx context.Context, sourceRoot string) (*models.ScanSession, error)
	GetResumableScanSession(ctx context.Context, sourceRoot string) (*models.ScanSession, error)
	GetLastRunningScanSession(ctx context.Context) (*models.ScanSession, error)
	ListScanSessions(ctx context.Context) ([]models.ScanSession, error)
	UpdateScanSession(ctx context.Context, session *models.ScanSession) error
	DeleteScanSession(ctx context.Context, id uint) error

	// Completed directories (scanner resumability)
	IsDirectoryCompleted(ctx context.Context, scanSessionID uint, directoryPath string) (bool, error)
	MarkDirectoryComplete(ctx context.Context, dir *models.CompletedDirectory) error
	DeletePartialDirectory(ctx context.Context, scanSessionID uint, directoryPath string) error
	CommitDirectoryBatch(ctx context.Context, scanSessionID uint, directoryPath string, files []models.File, fileCount int64, totalBytes int64, nowUnix float64) error

	// Files
	InsertFiles(ctx context.Context, files []models.File) error
	GetFile(ctx context.Context, id uint) (*models.File, error)
	ListFilesForPathDate(ctx context.Context, scanSessionID uint, reprocess bool, offset, limit int) ([]models.File, error)
	UpdateFilePathDates(ctx context.Context, file *models.File) error
	ListFilesForMetadataExtraction(ctx context.Context, scanSessionID uint, strategy string, limit int) ([]models.File, error)
	GetAbsoluteSourcePath(ctx context.Context, file *models.File) (string, error)

	// File metadata
	UpsertFileMetadata(ctx context.Context, meta *models.FileMetadata) error
	GetMetadataStats(ctx context.Context) (map[string]int64, error)

	// Planning
	ListDistinctDirectories(ctx context.Context, scanSessionID uint) ([]string, error)
	ListFolderFiles(ctx context.Context, scanSessionID uint, directoryPath string) ([]FolderFileRow, error)
	ClearExistingPlan(ctx context.Context, scanSessionID uint) error
	CreateFolderPlan(ctx context.Context, plan *models.FolderPlan) error
	GetFolderPlanByPath(ctx context.Context, scanSessionID uint, parentPath string) (*models.FolderPlan, error)
	CreateFilePlans(ctx context.Context, plans []models.FilePlan) error
}

// FolderFileRow is the join of a File with its (possibly absent)
// FileMetadata, scoped to one directory — the shape the Planner consumes.
type FolderFileRow struct {
	FileID           uint
	SourcePath       string
	FilenameFull     string
	FilenameBase     string
	Extension        string
	DatePathFolder   *int64
	DatePathFilename *int64
	FSModifiedAt     *int64
	DateOriginal     *int64
}
