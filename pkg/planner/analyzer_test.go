package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func d(v int64) *int64 { return &v }

func TestAnalyzeFolder_NoImages(t *testing.T) {
	a := AnalyzeFolder([]fileForAnalysis{{IsImage: false}})
	require.Equal(t, int64(0), a.ImageFiles)
	require.Nil(t, a.PrevalentDate)
}

func TestAnalyzeFolder_CoverageAndPrevalence(t *testing.T) {
	files := []fileForAnalysis{
		{Date: d(20230514), IsImage: true},
		{Date: d(20230514), IsImage: true},
		{Date: d(20230601), IsImage: true},
		{Date: nil, IsImage: true},
	}
	a := AnalyzeFolder(files)
	require.Equal(t, int64(4), a.ImageFiles)
	require.Equal(t, int64(3), a.ImagesWithDate)
	require.InDelta(t, 0.75, a.DateCoveragePct, 0.0001)
	require.Equal(t, int64(20230514), *a.PrevalentDate)
	require.Equal(t, int64(2), a.PrevalentCount)
	require.InDelta(t, 2.0/3.0, a.PrevalentDatePct, 0.0001)
	require.Equal(t, int64(2), a.UniqueDateCount)
	require.Equal(t, int64(20230514), *a.MinDate)
	require.Equal(t, int64(20230601), *a.MaxDate)
}

func TestAnalyzeFolder_MonthSpan(t *testing.T) {
	files := []fileForAnalysis{
		{Date: d(20230101), IsImage: true},
		{Date: d(20230601), IsImage: true},
	}
	a := AnalyzeFolder(files)
	require.Equal(t, int64(5), a.DateSpanMonths)
}

func TestAnalyzeFolder_PrevalentTieBreaksToFirstSeen(t *testing.T) {
	files := []fileForAnalysis{
		{Date: d(20230601), IsImage: true},
		{Date: d(20230514), IsImage: true},
	}
	a := AnalyzeFolder(files)
	require.Equal(t, int64(20230601), *a.PrevalentDate)
}

func TestIsImageExtension(t *testing.T) {
	require.True(t, IsImageExtension("JPG"))
	require.True(t, IsImageExtension("arw"))
	require.False(t, IsImageExtension("mp4"))
	require.False(t, IsImageExtension(""))
}
