package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{1}{}{x}"), 0o644))
}

func TestWalkFindsMsgFilesCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "MAP.MSG"))
	writeFile(t, filepath.Join(root, "quests.msg"))
	writeFile(t, filepath.Join(root, "sub", "dialog", "GENERIC.Msg"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, "readme"))

	files, err := Walk(root)
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, f := range files {
		require.NotContains(t, f, "notes.txt")
	}
}

func TestWalkEmptyTree(t *testing.T) {
	files, err := Walk(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestWalkRejectsFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "MAP.MSG")
	writeFile(t, path)

	_, err := Walk(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a directory")
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
