package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/photosort/photosort/internal/config"
	"github.com/photosort/photosort/pkg/db/models"
	"github.com/photosort/photosort/pkg/db/store"
	"github.com/photosort/photosort/pkg/log"
)

// fakeStore implements only the CatalogStore methods ExtractAll exercises;
// every other method panics via the embedded nil interface if ever called.
type fakeStore struct {
	store.CatalogStore
	files    []models.File
	upserts  []*models.FileMetadata
	pathsFor map[uint]string
}

func (f *fakeStore) ListFilesForMetadataExtraction(ctx context.Context, scanSessionID uint, strategy string, limit int) ([]models.File, error) {
	return f.files, nil
}

func (f *fakeStore) GetAbsoluteSourcePath(ctx context.Context, file *models.File) (string, error) {
	return f.pathsFor[file.ID], nil
}

func (f *fakeStore) UpsertFileMetadata(ctx context.Context, meta *models.FileMetadata) error {
	f.upserts = append(f.upserts, meta)
	return nil
}

type fakeInvoker struct {
	version string
	results map[string]Result
	err     error
}

func (f *fakeInvoker) Version(ctx context.Context) (string, error) { return f.version, f.err }

func (f *fakeInvoker) ExtractBatch(ctx context.Context, paths []string) ([]Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Result, 0, len(paths))
	for _, p := range paths {
		out = append(out, f.results[p])
	}
	return out, nil
}

func (f *fakeInvoker) Close() error { return nil }

func testLogger() log.LoggerService {
	return log.NewLoggerService("test", config.LogConfig{Level: "error", NoTerminal: true})
}

func testConfig() config.MetadataConfig {
	return config.MetadataConfig{
		BatchSize:                  10,
		MinFileSizeBytes:           1024,
		BatchTimeoutSeconds:        30,
		BreakerConsecutiveFailures: 3,
		BreakerOpenSeconds:         30,
	}
}

func TestExtractAll_SkipsTooSmallFiles(t *testing.T) {
	fs := &fakeStore{
		files: []models.File{
			{ID: 1, Size: 100},
		},
	}
	inv := &fakeInvoker{version: "12.70"}

	extractor, err := New(context.Background(), fs, inv, testLogger(), nil, testConfig())
	require.NoError(t, err)

	stats, err := extractor.ExtractAll(context.Background(), 1, StrategyFull, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalFiles)
	require.Equal(t, int64(1), stats.FilesSkipped)
	require.Len(t, fs.upserts, 1)
	require.NotNil(t, fs.upserts[0].SkipReason)
	require.Equal(t, "file_too_small:100_bytes", *fs.upserts[0].SkipReason)
}

func TestExtractAll_SuccessfulExtraction(t *testing.T) {
	fs := &fakeStore{
		files: []models.File{
			{ID: 1, Size: 5000},
		},
		pathsFor: map[uint]string{1: "/photos/IMG_0001.CR2"},
	}
	inv := &fakeInvoker{
		version: "12.70",
		results: map[string]Result{
			"/photos/IMG_0001.CR2": {
				SourceFile: "/photos/IMG_0001.CR2",
				Fields: map[string]any{
					"EXIF:DateTimeOriginal": "2023:05:14 10:00:00",
					"EXIF:Make":             "Canon",
					"EXIF:GPSLatitude":      float64(48.8),
				},
			},
		},
	}

	extractor, err := New(context.Background(), fs, inv, testLogger(), nil, testConfig())
	require.NoError(t, err)

	stats, err := extractor.ExtractAll(context.Background(), 1, StrategyFull, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.FilesExtracted)
	require.Equal(t, int64(1), stats.FilesWithDateOriginal)
	require.Equal(t, int64(1), stats.FilesWithGPS)
	require.Len(t, fs.upserts, 1)
	require.Nil(t, fs.upserts[0].ExtractionError)
	require.NotNil(t, fs.upserts[0].DateOriginal)
	require.Equal(t, int64(20230514), *fs.upserts[0].DateOriginal)
}

func TestExtractAll_MissingResultBecomesError(t *testing.T) {
	fs := &fakeStore{
		files: []models.File{
			{ID: 1, Size: 5000},
		},
		pathsFor: map[uint]string{1: "/photos/missing.CR2"},
	}
	inv := &fakeInvoker{version: "12.70", results: map[string]Result{}}

	extractor, err := New(context.Background(), fs, inv, testLogger(), nil, testConfig())
	require.NoError(t, err)

	stats, err := extractor.ExtractAll(context.Background(), 1, StrategyFull, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.FilesFailed)
	require.NotNil(t, fs.upserts[0].ExtractionError)
	require.Nil(t, fs.upserts[0].SkipReason)
}

func TestNew_FailsWhenToolMissing(t *testing.T) {
	fs := &fakeStore{}
	inv := &fakeInvoker{err: &ToolNotFoundError{}}

	_, err := New(context.Background(), fs, inv, testLogger(), nil, testConfig())
	require.Error(t, err)
}
