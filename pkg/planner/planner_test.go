package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/photosort/photosort/internal/config"
	"github.com/photosort/photosort/pkg/db/models"
	"github.com/photosort/photosort/pkg/db/store"
	"github.com/photosort/photosort/pkg/log"
)

type fakePlannerStore struct {
	store.CatalogStore

	dirs        []string
	filesByDir  map[string][]store.FolderFileRow
	cleared     bool
	folderPlans []models.FolderPlan
	filePlans   []models.FilePlan
}

func (f *fakePlannerStore) ClearExistingPlan(ctx context.Context, scanSessionID uint) error {
	f.cleared = true
	return nil
}

func (f *fakePlannerStore) ListDistinctDirectories(ctx context.Context, scanSessionID uint) ([]string, error) {
	return f.dirs, nil
}

func (f *fakePlannerStore) ListFolderFiles(ctx context.Context, scanSessionID uint, directoryPath string) ([]store.FolderFileRow, error) {
	return f.filesByDir[directoryPath], nil
}

func (f *fakePlannerStore) CreateFolderPlan(ctx context.Context, plan *models.FolderPlan) error {
	plan.ID = uint(len(f.folderPlans) + 1)
	f.folderPlans = append(f.folderPlans, *plan)
	return nil
}

func (f *fakePlannerStore) CreateFilePlans(ctx context.Context, plans []models.FilePlan) error {
	f.filePlans = append(f.filePlans, plans...)
	return nil
}

func testLogger() log.LoggerService {
	return log.NewLoggerService("test", config.LogConfig{Level: "error", NoTerminal: true})
}

func testCfg() config.PlannerConfig {
	return config.PlannerConfig{MinCoverageThreshold: 0.30, MinPrevalenceThreshold: 0.80, MaxDateSpanMonths: 3}
}

func TestPlan_FolderWithPathDateResolvesDirectly(t *testing.T) {
	fs := &fakePlannerStore{
		dirs: []string{"2023/05/14/raw"},
		filesByDir: map[string][]store.FolderFileRow{
			"2023/05/14/raw": {
				{FileID: 1, SourcePath: "2023/05/14/raw/IMG_001.arw", FilenameFull: "IMG_001.arw", FilenameBase: "IMG_001", Extension: "arw", DatePathFolder: d(20230514)},
			},
		},
	}

	p := New(fs, testLogger(), nil, testCfg())
	stats, err := p.Plan(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, fs.cleared)
	require.Equal(t, int64(1), stats.FoldersPlanned)
	require.Len(t, fs.folderPlans, 1)
	// "raw" doesn't match the resolved date, so it becomes the annotation.
	require.Equal(t, "2023/2023_05/20230514-raw", fs.folderPlans[0].TargetFolder)
	require.Equal(t, models.ResolutionSourcePathFolder, *fs.folderPlans[0].ResolvedDateSource)
}

func TestPlan_FolderWithoutImagesBucketsNonMedia(t *testing.T) {
	fs := &fakePlannerStore{
		dirs: []string{"docs"},
		filesByDir: map[string][]store.FolderFileRow{
			"docs": {
				{FileID: 1, SourcePath: "docs/readme.txt", FilenameFull: "readme.txt", FilenameBase: "readme", Extension: "txt"},
			},
		},
	}

	p := New(fs, testLogger(), nil, testCfg())
	_, err := p.Plan(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.BucketNonMedia, *fs.folderPlans[0].Bucket)
	require.Equal(t, "_non_media/docs", fs.folderPlans[0].TargetFolder)
}

func TestPlan_ChildInheritsParentDate(t *testing.T) {
	fs := &fakePlannerStore{
		dirs: []string{"trip", "trip/raws"},
		filesByDir: map[string][]store.FolderFileRow{
			"trip": {
				{FileID: 1, SourcePath: "trip/IMG_001.arw", FilenameFull: "IMG_001.arw", FilenameBase: "IMG_001", Extension: "arw", DatePathFolder: d(20230514)},
			},
			"trip/raws": {
				{FileID: 2, SourcePath: "trip/raws/RAW_001.dng", FilenameFull: "RAW_001.dng", FilenameBase: "RAW_001", Extension: "dng"},
			},
		},
	}

	p := New(fs, testLogger(), nil, testCfg())
	_, err := p.Plan(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, fs.folderPlans, 2)

	var child models.FolderPlan
	for _, fp := range fs.folderPlans {
		if fp.SourceFolder == "trip/raws" {
			child = fp
		}
	}
	require.Equal(t, models.ResolutionSourceInherited, *child.ResolvedDateSource)
	require.True(t, child.IsSubfolder)
	// parent's own annotation ("trip" doesn't match the resolved date) carries into the child path.
	require.Equal(t, "2023/2023_05/20230514-trip/raws", child.TargetFolder)
}

func TestPlan_DuplicateFilenameAcrossSourceFoldersGetsRenamed(t *testing.T) {
	// Both source folders share the basename "20230514", so neither gets an
	// annotation and both resolve to the exact same target folder.
	fs := &fakePlannerStore{
		dirs: []string{"x/20230514", "y/20230514"},
		filesByDir: map[string][]store.FolderFileRow{
			"x/20230514": {
				{FileID: 1, SourcePath: "x/20230514/IMG.jpg", FilenameFull: "IMG.jpg", FilenameBase: "IMG", Extension: "jpg", DatePathFolder: d(20230514)},
			},
			"y/20230514": {
				{FileID: 2, SourcePath: "y/20230514/IMG.jpg", FilenameFull: "IMG.jpg", FilenameBase: "IMG", Extension: "jpg", DatePathFolder: d(20230514)},
			},
		},
	}

	p := New(fs, testLogger(), nil, testCfg())
	stats, err := p.Plan(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.PotentialDuplicates)

	var names []string
	for _, fp := range fs.filePlans {
		names = append(names, fp.TargetFilename)
	}
	require.Contains(t, names, "IMG.jpg")
	require.Contains(t, names, "pot_dupe_"+shortHash("y/20230514", 6)+"_IMG.jpg")
}

func TestPlan_SidecarFlaggedInFilePlan(t *testing.T) {
	fs := &fakePlannerStore{
		dirs: []string{"trip"},
		filesByDir: map[string][]store.FolderFileRow{
			"trip": {
				{FileID: 1, SourcePath: "trip/IMG_001.arw", FilenameFull: "IMG_001.arw", FilenameBase: "IMG_001", Extension: "arw", DatePathFolder: d(20230514)},
				{FileID: 2, SourcePath: "trip/IMG_001.xmp", FilenameFull: "IMG_001.xmp", FilenameBase: "IMG_001", Extension: "xmp", DatePathFolder: d(20230514)},
			},
		},
	}

	p := New(fs, testLogger(), nil, testCfg())
	stats, err := p.Plan(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Sidecars)
}
