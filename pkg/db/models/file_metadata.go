package models

// FileMetadata holds the exiftool extraction result for one File. A row
// exists after MetadataExtractor processes the file, whether the outcome
// was a successful extraction, a too-small skip, or an extraction error —
// ExtractionError and SkipReason are mutually exclusive.
type FileMetadata struct {
	ID     uint `gorm:"primaryKey"`
	FileID uint `gorm:"not null;uniqueIndex"`

	DateOriginalUnix  *float64
	DateOriginal      *int64 `gorm:"index:idx_file_metadata_date_original"`
	DateDigitizedUnix *float64
	DateDigitized     *int64
	DateModifyUnix    *float64
	DateModify        *int64

	Make      *string `gorm:"index:idx_file_metadata_make_model"`
	Model     *string `gorm:"index:idx_file_metadata_make_model"`
	LensModel *string

	ImageWidth  *int
	ImageHeight *int
	Orientation *int

	DurationSeconds *float64
	VideoFrameRate  *float64

	GPSLatitude  *float64 `gorm:"index:idx_file_metadata_has_gps"`
	GPSLongitude *float64
	GPSAltitude  *float64

	MimeType          *string
	MetadataFamilies  *string
	MetadataJSON      *string

	ExtractedAtUnix  float64 `gorm:"not null"`
	ExtractedAt      int64   `gorm:"not null"`
	ExtractorVersion *string

	ExtractionError *string `gorm:"index:idx_file_metadata_errors"`
	SkipReason      *string `gorm:"index:idx_file_metadata_skipped"`
}

func (FileMetadata) TableName() string { return "file_metadata" }
