package metadata

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// excludedFields is the static denylist of binary/thumbnail tags and
// path-identifying fields spec.md §4.3 requires dropped from metadata_json,
// grounded on photosort/extractor/parser.py's EXCLUDED_FIELDS.
var excludedFields = map[string]bool{
	"EXIF:ThumbnailImage":        true,
	"EXIF:ThumbnailTIFF":         true,
	"EXIF:PreviewImage":          true,
	"EXIF:JpgFromRaw":            true,
	"EXIF:OtherImage":            true,
	"ICC_Profile:ProfileCMMType": true,
	"File:Directory":             true,
	"File:FileName":              true,
	"SourceFile":                 true,
}

var exifDateLayouts = []string{
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05Z",
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
}

// ParseExifDate parses an EXIF-style date string into a fractional unix
// timestamp and a YYYYMMDD calendar integer. Any timezone suffix present is
// honored; an absent one is treated as UTC, matching exiftool's default of
// reporting local-camera time without an offset.
func ParseExifDate(raw string) (unixSec *float64, dateInt *int64) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0000:00:00 00:00:00" {
		return nil, nil
	}

	for _, layout := range exifDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		sec := float64(t.Unix()) + float64(t.Nanosecond())/1e9
		di := int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
		return &sec, &di
	}

	return nil, nil
}

// GetFirstValue returns the first non-nil field value found under keys, in
// order — the priority-list pattern every normalized metadata column uses.
func GetFirstValue(fields map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// GetFirstString is GetFirstValue narrowed to the string case, used for the
// date-priority columns before ParseExifDate.
func GetFirstString(fields map[string]any, keys ...string) string {
	v := GetFirstValue(fields, keys...)
	s, _ := v.(string)
	return s
}

// GetFirstFloat64 is GetFirstValue narrowed to numeric fields (dimensions,
// GPS, orientation). It accepts float64 and json.Number values; any other
// type, strings included, reports false.
func GetFirstFloat64(fields map[string]any, keys ...string) (float64, bool) {
	v := GetFirstValue(fields, keys...)
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ExtractMetadataFamilies returns the sorted, comma-joined set of group-0
// tag prefixes present in fields (e.g. "EXIF,File,XMP").
func ExtractMetadataFamilies(fields map[string]any) string {
	seen := map[string]bool{}
	for key := range fields {
		if idx := strings.Index(key, ":"); idx > 0 {
			seen[key[:idx]] = true
		}
	}

	families := make([]string, 0, len(seen))
	for f := range seen {
		families = append(families, f)
	}
	sort.Strings(families)
	return strings.Join(families, ",")
}

// FilterMetadataForJSON drops the excluded fields plus any binary-looking
// value (base64: payloads or exiftool's "(Binary data ...)" placeholders)
// before the remainder is serialized into metadata_json.
func FilterMetadataForJSON(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		if excludedFields[k] {
			continue
		}
		if s, ok := v.(string); ok {
			if strings.HasPrefix(s, "base64:") || strings.HasPrefix(s, "(Binary data") {
				continue
			}
		}
		filtered[k] = v
	}
	return filtered
}

// MetadataToJSON serializes the filtered field map into the compact JSON
// text stored in file_metadata.metadata_json.
func MetadataToJSON(fields map[string]any) (string, error) {
	filtered := FilterMetadataForJSON(fields)
	b, err := json.Marshal(filtered)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
