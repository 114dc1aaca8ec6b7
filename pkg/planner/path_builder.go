package planner

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// maxAnnotationLength is the §9 configuration default for annotation
// truncation.
const maxAnnotationLength = 10

// BuildTargetFolder constructs the dated archive path yyyy/yyyy_mm/yyyymmdd
// (optionally suffixed -annotation) from a resolved YYYYMMDD date.
func BuildTargetFolder(resolvedDate int64, annotation string) string {
	year := resolvedDate / 10000
	month := (resolvedDate / 100) % 100

	folderName := fmt.Sprintf("%d", resolvedDate)
	if annotation != "" {
		folderName = fmt.Sprintf("%d-%s", resolvedDate, annotation)
	}

	return fmt.Sprintf("%d/%d_%02d/%s", year, year, month, folderName)
}

// BuildBucketPath constructs a bucket target, preserving the original
// source folder path verbatim beneath it.
func BuildBucketPath(bucket, sourceFolder string) string {
	return fmt.Sprintf("_%s/%s", bucket, sourceFolder)
}

var (
	dateOnlyPatterns = func(resolvedDate, year, month, day int64) []*regexp.Regexp {
		return []*regexp.Regexp{
			regexp.MustCompile(fmt.Sprintf(`^%d$`, resolvedDate)),
			regexp.MustCompile(fmt.Sprintf(`^%d_%02d_%02d$`, year, month, day)),
			regexp.MustCompile(fmt.Sprintf(`^%d-%02d-%02d$`, year, month, day)),
		}
	}
	datePrefixPatterns = func(resolvedDate, year, month, day int64) []*regexp.Regexp {
		return []*regexp.Regexp{
			regexp.MustCompile(fmt.Sprintf(`^%d[-_\s]+`, resolvedDate)),
			regexp.MustCompile(fmt.Sprintf(`^%d_%02d_%02d[-_\s]+`, year, month, day)),
			regexp.MustCompile(fmt.Sprintf(`^%d-%02d-%02d[-_\s]+`, year, month, day)),
		}
	}
)

// ExtractAnnotation derives the annotation suffix for a folder name, per
// spec.md §4.4: strip a date-token prefix matching resolvedDate in any of
// YYYYMMDD/YYYY_MM_DD/YYYY-MM-DD form plus its adjacent separator, then
// truncate the remainder to maxAnnotationLength runes. An empty result, or
// a folder name that is exactly the date, yields no annotation.
func ExtractAnnotation(folderName string, resolvedDate int64) string {
	year := resolvedDate / 10000
	month := (resolvedDate / 100) % 100
	day := resolvedDate % 100

	for _, pat := range dateOnlyPatterns(resolvedDate, year, month, day) {
		if pat.MatchString(folderName) {
			return ""
		}
	}

	for _, pat := range datePrefixPatterns(resolvedDate, year, month, day) {
		if loc := pat.FindStringIndex(folderName); loc != nil {
			rest := strings.Trim(folderName[loc[1]:], "-_ ")
			return truncateRunes(rest, maxAnnotationLength)
		}
	}

	rest := strings.Trim(folderName, "-_ ")
	return truncateRunes(rest, maxAnnotationLength)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// DuplicateResult is the outcome of checking a filename against the set
// already claimed within one target folder.
type DuplicateResult struct {
	Filename    string
	IsDuplicate bool
	SourceHash  string
}

// ResolveFilenameDuplicate renames filename to
// pot_dupe_<hash6>_<original> when it collides with a filename already
// placed in the same target folder, where hash6 is the first six hex
// characters of SHA-256 over the newcomer's source *folder* path — not the
// full file path, per spec.md §4.4's duplicate-handling rule.
func ResolveFilenameDuplicate(filename, sourceFolderPath string, existingFilenames map[string]bool) DuplicateResult {
	if !existingFilenames[filename] {
		return DuplicateResult{Filename: filename}
	}

	hash := shortHash(sourceFolderPath, 6)
	return DuplicateResult{
		Filename:    fmt.Sprintf("pot_dupe_%s_%s", hash, filename),
		IsDuplicate: true,
		SourceHash:  hash,
	}
}

func shortHash(s string, length int) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:length]
}
