package pathdate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractHierarchyDate_DeepestWins(t *testing.T) {
	e := ExtractHierarchyDate("backup/2023/05/14/archive/2024/01/15/IMG.arw")
	require.True(t, e.Found)
	require.Equal(t, int64(20240115), e.DateInt)
}

func TestExtractHierarchyDate_NeedsFourParts(t *testing.T) {
	e := ExtractHierarchyDate("2023/05/14")
	require.False(t, e.Found)
}

func TestExtractFolderDate_DeepestFolderWins(t *testing.T) {
	e := ExtractFolderDate("trip_2022-01-01/2023_05_14_a7iv/IMG.arw")
	require.True(t, e.Found)
	require.Equal(t, int64(20230514), e.DateInt)
	require.Equal(t, "2023_05_14_a7iv", e.Source)
}

func TestExtractFolderDate_RejectsUnboundedDigitRun(t *testing.T) {
	e := ExtractFolderDate("v20230514/IMG.arw")
	require.False(t, e.Found)
}

func TestExtractFilenameDate_LeftmostWins(t *testing.T) {
	e := ExtractFilenameDate("20230514_IMG_20240101_001.arw")
	require.True(t, e.Found)
	require.Equal(t, int64(20230514), e.DateInt)
}

func TestIsValidDate_LeapYear(t *testing.T) {
	require.True(t, IsValidDate(2024, 2, 29))
	require.False(t, IsValidDate(2023, 2, 29))
	require.False(t, IsValidDate(2023, 13, 1))
	require.False(t, IsValidDate(2023, 5, 32))
}

func TestDatePattern_YearBoundaries(t *testing.T) {
	require.True(t, extractFromString("1900-01-01").Found)
	require.True(t, extractFromString("2099-12-31").Found)
	require.False(t, extractFromString("1899-12-31").Found)
	require.False(t, extractFromString("2100-01-01").Found)
}
