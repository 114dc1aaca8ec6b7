package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseExifDate_WithTimezone(t *testing.T) {
	unix, di := ParseExifDate("2023:05:14 12:30:00+02:00")
	require.NotNil(t, unix)
	require.NotNil(t, di)
	require.Equal(t, int64(20230514), *di)
}

func TestParseExifDate_NoTimezone(t *testing.T) {
	unix, di := ParseExifDate("2023:05:14 12:30:00")
	require.NotNil(t, unix)
	require.Equal(t, int64(20230514), *di)
}

func TestParseExifDate_ZeroDateIsNil(t *testing.T) {
	unix, di := ParseExifDate("0000:00:00 00:00:00")
	require.Nil(t, unix)
	require.Nil(t, di)
}

func TestParseExifDate_EmptyIsNil(t *testing.T) {
	unix, di := ParseExifDate("")
	require.Nil(t, unix)
	require.Nil(t, di)
}

func TestParseExifDate_Unparseable(t *testing.T) {
	unix, di := ParseExifDate("not a date")
	require.Nil(t, unix)
	require.Nil(t, di)
}

func TestGetFirstValue_Priority(t *testing.T) {
	fields := map[string]any{
		"XMP:CreateDate":  "2020:01:01 00:00:00",
		"EXIF:CreateDate": "2021:02:02 00:00:00",
	}
	v := GetFirstValue(fields, "EXIF:CreateDate", "XMP:CreateDate")
	require.Equal(t, "2021:02:02 00:00:00", v)
}

func TestGetFirstValue_SkipsMissingKeys(t *testing.T) {
	fields := map[string]any{
		"XMP:CreateDate": "2020:01:01 00:00:00",
	}
	v := GetFirstValue(fields, "EXIF:CreateDate", "XMP:CreateDate")
	require.Equal(t, "2020:01:01 00:00:00", v)
}

func TestGetFirstValue_NilWhenNoneFound(t *testing.T) {
	v := GetFirstValue(map[string]any{}, "EXIF:CreateDate")
	require.Nil(t, v)
}

func TestExtractMetadataFamilies_SortedAndDeduped(t *testing.T) {
	fields := map[string]any{
		"EXIF:Make":        "Canon",
		"EXIF:Model":       "R5",
		"File:MIMEType":    "image/x-canon-cr2",
		"XMP:CreatorTool":  "Lightroom",
		"SourceFile":       "/path/to/file",
	}
	require.Equal(t, "EXIF,File,XMP", ExtractMetadataFamilies(fields))
}

func TestFilterMetadataForJSON_DropsExcludedAndBinary(t *testing.T) {
	fields := map[string]any{
		"EXIF:Make":           "Canon",
		"EXIF:ThumbnailImage": "base64:AAAA",
		"File:FileName":       "IMG_0001.CR2",
		"SourceFile":          "/abs/path",
		"EXIF:PreviewImage":   "(Binary data 12345 bytes, use -b option to extract)",
	}
	filtered := FilterMetadataForJSON(fields)
	require.Equal(t, map[string]any{"EXIF:Make": "Canon"}, filtered)
}

func TestMetadataToJSON_RoundTrips(t *testing.T) {
	fields := map[string]any{"EXIF:Make": "Canon"}
	js, err := MetadataToJSON(fields)
	require.NoError(t, err)
	require.JSONEq(t, `{"EXIF:Make":"Canon"}`, js)
}
