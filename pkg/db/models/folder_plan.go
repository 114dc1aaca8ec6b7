package models

// FolderResolutionSource explains how FolderPlan.ResolvedDate (or Bucket)
// was decided, grounded on photosort/planner/resolver.py's source strings.
type FolderResolutionSource string

const (
	ResolutionSourcePathFolder        FolderResolutionSource = "path_folder"
	ResolutionSourceMetadataPrevalent FolderResolutionSource = "metadata_prevalent"
	ResolutionSourceMetadataUnanimous FolderResolutionSource = "metadata_unanimous"
	ResolutionSourceInherited         FolderResolutionSource = "inherited"
	ResolutionSourceLowCoverage       FolderResolutionSource = "low_coverage"
	ResolutionSourceWideSpread        FolderResolutionSource = "wide_spread"
	ResolutionSourceNoConsensus       FolderResolutionSource = "no_consensus"
	ResolutionSourceNoImages          FolderResolutionSource = "no_images"
)

// FolderBucket is the fallback target when a folder can't resolve to a
// single calendar day.
type FolderBucket string

const (
	BucketMixedDates FolderBucket = "mixed_dates"
	BucketNonMedia   FolderBucket = "non_media"
)

// FolderPlan is the Planner's per-source-folder decision: either a single
// resolved YYYYMMDD date (giving a dated target folder) or a bucket (giving
// a fixed fallback target folder), plus the statistics that justified it.
type FolderPlan struct {
	ID uint `gorm:"primaryKey"`

	ScanSessionID uint   `gorm:"not null;uniqueIndex:idx_folder_plan_session_folder"`
	SourceFolder  string `gorm:"type:text;not null;uniqueIndex:idx_folder_plan_session_folder"`

	ResolvedDate       *int64
	ResolvedDateSource *FolderResolutionSource `gorm:"type:text"`
	TargetFolder       string                  `gorm:"type:text;not null"`
	Bucket             *FolderBucket           `gorm:"type:text;index:idx_folder_plan_bucket"`
	Annotation         *string

	TotalFileCount      int64 `gorm:"not null"`
	ImageFileCount      int64 `gorm:"not null"`
	ImagesWithDateCount int64 `gorm:"not null"`

	DateCoveragePct *float64

	PrevalentDate      *int64
	PrevalentDateCount *int64
	PrevalentDatePct   *float64
	UniqueDateCount    *int64
	MinDate            *int64
	MaxDate            *int64
	DateSpanMonths     *int64

	InheritedFromFolderID *uint `gorm:"index"`
	IsSubfolder           bool  `gorm:"default:false"`

	ConfigMinCoverage   *float64
	ConfigMinPrevalence *float64
	ConfigMaxSpanMonths *int64

	PlannedAtUnix float64 `gorm:"not null"`
	PlannedAt     int64   `gorm:"not null"`

	FilePlans []FilePlan `gorm:"foreignKey:FolderPlanID;constraint:OnDelete:CASCADE"`
}

func (FolderPlan) TableName() string { return "folder_plan" }
