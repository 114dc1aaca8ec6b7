package models

// File is one inventoried filesystem entry from a ScanSession. A File is
// never moved or mutated on disk by this catalog; every column here is
// either a fact observed at scan time or a value a later stage attaches.
type File struct {
	ID uint `gorm:"primaryKey"`

	ScanSessionID uint   `gorm:"not null;uniqueIndex:idx_files_session_source_path"`
	SourcePath    string `gorm:"type:text;not null;uniqueIndex:idx_files_session_source_path"`
	DirectoryPath string `gorm:"type:text;not null;index:idx_files_directory"`
	FilenameFull  string `gorm:"type:text;not null"`
	FilenameBase  string `gorm:"type:text;not null"`
	Extension     string `gorm:"type:text;index:idx_files_extension"`

	Size int64 `gorm:"not null;index:idx_files_size"`

	FSModifiedAtUnix *float64
	FSModifiedAt     *int64
	FSChangedAtUnix  *float64
	FSChangedAt      *int64
	FSCreatedAtUnix  *float64
	FSCreatedAt      *int64
	FSAccessedAtUnix *float64
	FSAccessedAt     *int64

	// Content-hash columns reserved for a future dedup stage; never
	// written by Scan/PathDateExtract/MetadataExtract/Plan.
	HashQuickStart *string `gorm:"index:idx_files_hash_quick,where:hash_quick_start IS NOT NULL"`
	HashQuickEnd   *string
	HashFull       *string `gorm:"index:idx_files_hash_full,where:hash_full IS NOT NULL"`

	// Path-based date extraction (PathDateExtractor). PathDateResolvedAt is
	// bookkeeping only — it marks "this file has been through extraction",
	// independent of whether any of the three signals below found a date,
	// so a file with no path-date signal at all is never reselected by a
	// non-reprocess run.
	DatePathHierarchy       *int64 `gorm:"index:idx_files_date_path_hierarchy"`
	DatePathHierarchySource *string
	DatePathFolder          *int64 `gorm:"index:idx_files_date_path_folder"`
	DatePathFolderSource    *string
	DatePathFilename        *int64 `gorm:"index:idx_files_date_path_filename"`
	DatePathFilenameSource  *string
	PathDateResolvedAtUnix  *float64
	PathDateResolvedAt      *int64

	// Reserved for a future device-classification stage; never written here.
	ClassifiedAtUnix *float64
	ClassifiedAt     *int64

	ScannedAtUnix float64 `gorm:"not null"`
	ScannedAt     int64   `gorm:"not null"`

	MetadataExtractedAtUnix *float64
	MetadataExtractedAt     *int64

	Metadata  *FileMetadata `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
	FilePlan  *FilePlan     `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}

func (File) TableName() string { return "files" }
