package scanner

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path string, contents string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(contents), 0o644))
}

func TestWalk_DeterministicOrderAndBatching(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/b.jpg", "bb")
	writeFile(t, fs, "/root/a.jpg", "a")
	writeFile(t, fs, "/root/sub/c.jpg", "ccc")

	var batches []DirectoryBatch
	warn := func(format string, args ...any) {}

	err := Walk(fs, "/root", map[string]bool{}, 4096, warn, func(b DirectoryBatch) error {
		batches = append(batches, b)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, batches, 2)

	require.Equal(t, "", batches[0].DirectoryPath)
	require.Len(t, batches[0].Files, 2)
	require.Equal(t, "a.jpg", batches[0].Files[0].Parsed.Full)
	require.Equal(t, "b.jpg", batches[0].Files[1].Parsed.Full)

	require.Equal(t, "sub", batches[1].DirectoryPath)
	require.Len(t, batches[1].Files, 1)
	require.Equal(t, int64(3), batches[1].Files[0].Size)
}

func TestWalk_SkipsCompletedDirectoriesButStillRecurses(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/a.jpg", "a")
	writeFile(t, fs, "/root/sub/c.jpg", "ccc")

	var visited []string
	warn := func(format string, args ...any) {}

	err := Walk(fs, "/root", map[string]bool{"": true}, 4096, warn, func(b DirectoryBatch) error {
		visited = append(visited, b.DirectoryPath)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"sub"}, visited)
}

func TestWalk_SkipsPathsLongerThanMax(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/a.jpg", "a")

	var warned []string
	warn := func(format string, args ...any) {
		warned = append(warned, format)
	}

	var batches []DirectoryBatch
	err := Walk(fs, "/root", map[string]bool{}, 5, warn, func(b DirectoryBatch) error {
		batches = append(batches, b)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Empty(t, batches[0].Files)
	require.NotEmpty(t, warned)
}
