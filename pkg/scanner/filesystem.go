package scanner

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// FileInfo is one file discovered while walking a directory, carrying both
// the path bookkeeping and the raw stat result the scanner persists.
type FileInfo struct {
	AbsolutePath  string
	RelativePath  string
	DirectoryPath string
	Parsed        ParsedFilename
	Size          int64

	ModifiedAtUnix float64
	// ChangedAtUnix and AccessedAtUnix require a platform stat_t, not the
	// portable os.FileInfo afero exposes; populated by statExtra on real
	// filesystems, left nil when walking an afero.MemMapFs in tests.
	ChangedAtUnix  *float64
	AccessedAtUnix *float64
	CreatedAtUnix  *float64
}

// DirectoryBatch is everything WalkDirectory reports for one directory in
// a single step: its files, ready for a single transactional commit.
type DirectoryBatch struct {
	DirectoryPath string
	Files         []FileInfo
}

// BatchFunc is invoked once per directory in pre-order: a parent directory
// is always yielded before its children's subtrees are descended into,
// matching photosort/scanner/filesystem.py's walk. Returning an error
// aborts the walk.
type BatchFunc func(batch DirectoryBatch) error

// Warnf receives non-fatal per-entry warnings (permission denied, path too
// long, symlink skipped) so the caller can log them without the walker
// depending on a logger directly.
type Warnf func(format string, args ...any)

// Walk performs a deterministic, byte-wise-ascending, pre-order traversal
// of sourceRoot, calling fn once per directory not already marked complete
// (completedDirs) — a directory already complete is skipped but still
// recursed into, so a resumed scan never reprocesses finished work but
// still reaches subdirectories it hadn't gotten to yet.
func Walk(fs afero.Fs, sourceRoot string, completedDirs map[string]bool, maxPathLength int, warn Warnf, fn BatchFunc) error {
	return walkRecursive(fs, sourceRoot, sourceRoot, completedDirs, maxPathLength, warn, fn)
}

func walkRecursive(fs afero.Fs, currentDir, sourceRoot string, completedDirs map[string]bool, maxPathLength int, warn Warnf, fn BatchFunc) error {
	relativeDir := relativePath(currentDir, sourceRoot)

	if completedDirs[relativeDir] {
		subdirs, err := listSubdirectories(fs, currentDir, warn)
		if err != nil {
			return err
		}
		for _, subdir := range subdirs {
			if err := walkRecursive(fs, subdir, sourceRoot, completedDirs, maxPathLength, warn, fn); err != nil {
				return err
			}
		}
		return nil
	}

	files, err := scanDirectoryFiles(fs, currentDir, sourceRoot, maxPathLength, warn)
	if err != nil {
		return err
	}

	subdirs, err := listSubdirectories(fs, currentDir, warn)
	if err != nil {
		return err
	}

	if err := fn(DirectoryBatch{DirectoryPath: relativeDir, Files: files}); err != nil {
		return err
	}

	for _, subdir := range subdirs {
		if err := walkRecursive(fs, subdir, sourceRoot, completedDirs, maxPathLength, warn, fn); err != nil {
			return err
		}
	}

	return nil
}

func relativePath(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if rel == "." {
		return ""
	}
	return rel
}

func listSubdirectories(fs afero.Fs, dir string, warn Warnf) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsPermission(err) {
			warn("permission denied listing directory: %s", dir)
			return nil, nil
		}
		warn("error listing directory %s: %v", dir, err)
		return nil, nil
	}

	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(subdirs)
	return subdirs, nil
}

func scanDirectoryFiles(fs afero.Fs, dir, sourceRoot string, maxPathLength int, warn Warnf) ([]FileInfo, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsPermission(err) {
			warn("permission denied scanning directory: %s", dir)
			return nil, nil
		}
		warn("error scanning directory %s: %v", dir, err)
		return nil, nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []FileInfo
	for _, e := range entries {
		info, ok := processEntry(fs, dir, e, sourceRoot, maxPathLength, warn)
		if ok {
			files = append(files, info)
		}
	}
	return files, nil
}

func processEntry(fs afero.Fs, dir string, e os.FileInfo, sourceRoot string, maxPathLength int, warn Warnf) (FileInfo, bool) {
	if e.Mode()&os.ModeSymlink != 0 {
		return FileInfo{}, false
	}
	if e.IsDir() || !e.Mode().IsRegular() {
		return FileInfo{}, false
	}

	absPath := filepath.Join(dir, e.Name())
	if len(absPath) > maxPathLength {
		warn("path too long, skipping: %s", absPath)
		return FileInfo{}, false
	}

	relPath := relativePath(absPath, sourceRoot)
	dirPath := relativePath(dir, sourceRoot)

	modUnix := float64(e.ModTime().Unix())
	var created *float64
	if sec, ok := birthtime(absPath); ok {
		created = &sec
	}
	changed, accessed := statExtra(e)

	return FileInfo{
		AbsolutePath:   absPath,
		RelativePath:   relPath,
		DirectoryPath:  dirPath,
		Parsed:         ParseFilename(e.Name()),
		Size:           e.Size(),
		ModifiedAtUnix: modUnix,
		ChangedAtUnix:  changed,
		AccessedAtUnix: accessed,
		CreatedAtUnix:  created,
	}, true
}
