package models

// ScanStatus is the lifecycle state of a ScanSession.
type ScanStatus string

const (
	ScanStatusRunning     ScanStatus = "running"
	ScanStatusCompleted   ScanStatus = "completed"
	ScanStatusFailed      ScanStatus = "failed"
	ScanStatusInterrupted ScanStatus = "interrupted"
)

// ScanSession records one Scanner run over a source root. Exactly one
// non-terminal (running) session may exist per source_root at a time.
type ScanSession struct {
	ID uint `gorm:"primaryKey"`

	SourceRoot      string `gorm:"type:text;not null;uniqueIndex"`
	SourceDriveUUID string `gorm:"type:text;not null"`

	StartedAtUnix   float64 `gorm:"not null"`
	StartedAt       int64   `gorm:"not null"`
	CompletedAtUnix *float64
	CompletedAt     *int64

	Status       ScanStatus `gorm:"type:text;not null;index"`
	ErrorMessage string     `gorm:"type:text"`

	FilesScanned       int64 `gorm:"default:0"`
	DirectoriesScanned int64 `gorm:"default:0"`
	TotalBytes         int64 `gorm:"default:0"`

	CompletedDirectories []CompletedDirectory `gorm:"foreignKey:ScanSessionID;constraint:OnDelete:CASCADE"`
	Files                []File               `gorm:"foreignKey:ScanSessionID;constraint:OnDelete:CASCADE"`
}

func (ScanSession) TableName() string { return "scan_sessions" }
