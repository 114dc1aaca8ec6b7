// Package pathdate implements the three independent, purely lexical
// date-extraction strategies PathDateExtractor runs over a File's relative
// path and filename, grounded on photosort/resolver/__init__.py.
package pathdate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Extraction is the result of one strategy attempt: either a YYYYMMDD
// integer with the literal substring that produced it, or both nil/empty.
type Extraction struct {
	DateInt int64
	Source  string
	Found   bool
}

// datePattern requires the matched date to begin and end at a string
// boundary or a {-, _} separator — not merely any non-digit — so
// "v20230514" and "photo20230514.jpg" are rejected for lacking a real
// boundary, while "IMG_20230514_143052.jpg" and "20230514-sunset" match.
var datePattern = regexp.MustCompile(`(?:^|[-_])(19\d{2}|20\d{2})[-_]?(0[1-9]|1[0-2])[-_]?(0[1-9]|[12]\d|3[01])(?:[-_]|$)`)

// IsValidDate reports whether year/month/day form a real calendar date,
// including leap-year handling, the way time.Date's normalization would
// silently mask if used directly for validation.
func IsValidDate(year, month, day int) bool {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

func toDateInt(year, month, day int) int64 {
	return int64(year)*10000 + int64(month)*100 + int64(day)
}

// ExtractHierarchyDate looks for three consecutive path components that are
// exactly yyyy, mm, dd (fixed width, no separators within a component) and
// together validate as a calendar date. When multiple triples are present,
// the deepest one wins.
func ExtractHierarchyDate(path string) Extraction {
	parts := splitPath(path)
	if len(parts) < 4 {
		return Extraction{}
	}

	for i := len(parts) - 4; i >= 0; i-- {
		yearStr, monthStr, dayStr := parts[i], parts[i+1], parts[i+2]
		if !isYearFolder(yearStr) || !isMonthFolder(monthStr) || !isDayFolder(dayStr) {
			continue
		}

		year, _ := strconv.Atoi(yearStr)
		month, _ := strconv.Atoi(monthStr)
		day, _ := strconv.Atoi(dayStr)
		if IsValidDate(year, month, day) {
			return Extraction{
				DateInt: toDateInt(year, month, day),
				Source:  yearStr + "/" + monthStr + "/" + dayStr,
				Found:   true,
			}
		}
	}

	return Extraction{}
}

// ExtractFolderDate scans each directory component (excluding the filename)
// from deepest to shallowest for a bounded date substring.
func ExtractFolderDate(path string) Extraction {
	parts := splitPath(path)
	if len(parts) < 2 {
		return Extraction{}
	}

	folders := parts[:len(parts)-1]
	for i := len(folders) - 1; i >= 0; i-- {
		if e := extractFromString(folders[i]); e.Found {
			return e
		}
	}
	return Extraction{}
}

// ExtractFilenameDate scans the filename itself, returning the leftmost
// match when more than one date-shaped substring is present.
func ExtractFilenameDate(filename string) Extraction {
	return extractFromString(filename)
}

func extractFromString(text string) Extraction {
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return Extraction{}
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if !IsValidDate(year, month, day) {
		return Extraction{}
	}

	return Extraction{DateInt: toDateInt(year, month, day), Source: text, Found: true}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func isYearFolder(s string) bool {
	if len(s) != 4 || !isAllDigits(s) {
		return false
	}
	year, _ := strconv.Atoi(s)
	return year >= 1900 && year <= 2099
}

func isMonthFolder(s string) bool {
	if len(s) != 2 || !isAllDigits(s) {
		return false
	}
	month, _ := strconv.Atoi(s)
	return month >= 1 && month <= 12
}

func isDayFolder(s string) bool {
	if len(s) != 2 || !isAllDigits(s) {
		return false
	}
	day, _ := strconv.Atoi(s)
	return day >= 1 && day <= 31
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
