package models

// CompletedDirectory marks a directory whose files were fully inserted and
// committed within a ScanSession. The Scanner treats the presence of a row
// here as the sole authority for "already scanned" on resume; it never
// infers completion from the files table.
type CompletedDirectory struct {
	ID uint `gorm:"primaryKey"`

	ScanSessionID uint   `gorm:"not null;uniqueIndex:idx_completed_dir_session_path"`
	DirectoryPath string `gorm:"type:text;not null;uniqueIndex:idx_completed_dir_session_path"`

	FileCount  int64 `gorm:"not null"`
	TotalBytes int64 `gorm:"not null"`

	CompletedAtUnix float64 `gorm:"not null"`
	CompletedAt     int64   `gorm:"not null"`
}

func (CompletedDirectory) TableName() string { return "completed_directories" }
