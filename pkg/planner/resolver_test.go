package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/photosort/photosort/internal/config"
	"github.com/photosort/photosort/pkg/db/models"
)

func TestResolveFileDate_Priority(t *testing.T) {
	r := ResolveFileDate(d(20230514), d(20230601), d(20230701), nil)
	require.Equal(t, int64(20230514), *r.Date)
	require.Equal(t, models.FileDateSourcePathFolder, r.Source)

	r = ResolveFileDate(nil, d(20230601), d(20230701), nil)
	require.Equal(t, int64(20230601), *r.Date)
	require.Equal(t, models.FileDateSourcePathFilename, r.Source)

	r = ResolveFileDate(nil, nil, d(20230701), nil)
	require.Equal(t, int64(20230701), *r.Date)
	require.Equal(t, models.FileDateSourceExif, r.Source)
}

func TestResolveFileDate_FallsBackToFSModified(t *testing.T) {
	ts := int64(1684065600) // 2023-05-14T12:00:00Z
	r := ResolveFileDate(nil, nil, nil, &ts)
	require.NotNil(t, r.Date)
	require.Equal(t, int64(20230514), *r.Date)
	require.Equal(t, models.FileDateSourceFSModified, r.Source)
}

func TestResolveFileDate_NoneWhenAllAbsent(t *testing.T) {
	r := ResolveFileDate(nil, nil, nil, nil)
	require.Nil(t, r.Date)
	require.Equal(t, models.FileDateSourceNone, r.Source)
}

func testPlannerConfig() config.PlannerConfig {
	return config.PlannerConfig{
		MinCoverageThreshold:   0.30,
		MinPrevalenceThreshold: 0.80,
		MaxDateSpanMonths:      3,
	}
}

func TestResolveFolder_NoImagesBucketsNonMedia(t *testing.T) {
	res := ResolveFolder(FolderDateAnalysis{ImageFiles: 0}, testPlannerConfig())
	require.NotNil(t, res.Bucket)
	require.Equal(t, models.BucketNonMedia, *res.Bucket)
	require.Equal(t, models.ResolutionSourceNoImages, res.Source)
}

func TestResolveFolder_LowCoverageBucketsMixedDates(t *testing.T) {
	res := ResolveFolder(FolderDateAnalysis{ImageFiles: 100, DateCoveragePct: 0.1}, testPlannerConfig())
	require.Equal(t, models.BucketMixedDates, *res.Bucket)
	require.Equal(t, models.ResolutionSourceLowCoverage, res.Source)
}

func TestResolveFolder_WideSpreadBucketsMixedDates(t *testing.T) {
	res := ResolveFolder(FolderDateAnalysis{ImageFiles: 10, DateCoveragePct: 1.0, DateSpanMonths: 5}, testPlannerConfig())
	require.Equal(t, models.BucketMixedDates, *res.Bucket)
	require.Equal(t, models.ResolutionSourceWideSpread, res.Source)
}

func TestResolveFolder_HighPrevalenceAdoptsDate(t *testing.T) {
	res := ResolveFolder(FolderDateAnalysis{
		ImageFiles: 10, DateCoveragePct: 1.0, DateSpanMonths: 0,
		PrevalentDate: d(20230514), PrevalentDatePct: 0.9,
	}, testPlannerConfig())
	require.Nil(t, res.Bucket)
	require.Equal(t, int64(20230514), *res.ResolvedDate)
	require.Equal(t, models.ResolutionSourceMetadataPrevalent, res.Source)
}

func TestResolveFolder_UnanimousAdoptsDate(t *testing.T) {
	res := ResolveFolder(FolderDateAnalysis{
		ImageFiles: 10, DateCoveragePct: 1.0, DateSpanMonths: 0,
		PrevalentDate: d(20230514), PrevalentDatePct: 0.5, UniqueDateCount: 1,
	}, testPlannerConfig())
	require.Equal(t, models.ResolutionSourceMetadataUnanimous, res.Source)
}

func TestResolveFolder_NoConsensusFallsBackToMixedDates(t *testing.T) {
	res := ResolveFolder(FolderDateAnalysis{
		ImageFiles: 10, DateCoveragePct: 1.0, DateSpanMonths: 0,
		PrevalentDate: d(20230514), PrevalentDatePct: 0.5, UniqueDateCount: 2,
	}, testPlannerConfig())
	require.Equal(t, models.BucketMixedDates, *res.Bucket)
	require.Equal(t, models.ResolutionSourceNoConsensus, res.Source)
}

func TestResolveFolderWithPathDate(t *testing.T) {
	res := ResolveFolderWithPathDate(20230514)
	require.Equal(t, int64(20230514), *res.ResolvedDate)
	require.Equal(t, models.ResolutionSourcePathFolder, res.Source)
}
