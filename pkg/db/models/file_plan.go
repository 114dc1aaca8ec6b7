package models

// FileDateSource records which per-file signal FilePlan.FileResolvedDate
// came from, in the spec's literal priority order: path folder date beats
// path filename date beats exif date beats filesystem mtime.
type FileDateSource string

const (
	FileDateSourcePathFolder   FileDateSource = "path_folder"
	FileDateSourcePathFilename FileDateSource = "path_filename"
	FileDateSourceExif         FileDateSource = "exif"
	FileDateSourceFSModified   FileDateSource = "fs_modified"
	FileDateSourceNone         FileDateSource = "none"
)

// FilePlan is the Planner's decision for one File: its target path within
// the canonical archive layout, and whether it was flagged as a potential
// duplicate or a sidecar of another file in the same folder.
type FilePlan struct {
	ID uint `gorm:"primaryKey"`

	FileID       uint `gorm:"not null;uniqueIndex"`
	FolderPlanID uint `gorm:"not null;index"`

	SourcePath     string `gorm:"type:text;not null"`
	SourceFilename string `gorm:"type:text;not null"`

	FileResolvedDate *int64
	FileDateSource   *FileDateSource `gorm:"type:text"`

	TargetFolder   string `gorm:"type:text;not null"`
	TargetPath     string `gorm:"type:text;not null;index:idx_file_plan_target"`
	TargetFilename string `gorm:"type:text;not null"`

	IsPotentialDuplicate bool    `gorm:"default:false;index:idx_file_plan_duplicates"`
	DuplicateSourceHash  *string
	IsSidecar            bool `gorm:"default:false;index:idx_file_plan_sidecars"`

	ResolutionReason *string

	PlannedAtUnix float64 `gorm:"not null"`
	PlannedAt     int64   `gorm:"not null"`
}

func (FilePlan) TableName() string { return "file_plan" }
