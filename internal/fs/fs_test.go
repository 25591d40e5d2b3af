package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sokinpui/diffadd/internal/fs"
	"github.com/sokinpui/diffadd/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputDirName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "/repos/app", want: "app"},
		{path: "/repos/app/", want: "app"},
		{path: "relative/dir/project", want: "project"},
	}
	for _, tt := range tests {
		got, err := fs.OutputDirName(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := fs.OutputDirName("/")
	require.Error(t, err)
}

func TestNewWriter_RejectsBadNames(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", ".", "..", "a/b"} {
		_, err := fs.NewWriter(t.TempDir(), name)
		assert.Error(t, err, name)
	}
}

func TestWriter_Path(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	w, err := fs.NewWriter(work, "app")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "app"), w.Root())

	p, err := w.Path("dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "app", "dir", "file.txt"), p)

	for _, bad := range []string{"../escape.txt", "dir/../../escape.txt", ""} {
		_, err := w.Path(bad)
		assert.ErrorIs(t, err, fs.ErrOutsideOutputDir, bad)
	}
}

func TestWriter_Write(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	w, err := fs.NewWriter(work, "app")
	require.NoError(t, err)

	p, err := w.Write(model.ExtractedFile{Path: "src/util.js", Content: "console.log('x')"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "app", "src", "util.js"), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "console.log('x')", string(data))

	p, err = w.Write(model.ExtractedFile{Path: "empty.txt"})
	require.NoError(t, err)
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestWriter_ResetReplacesPreviousOutput(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	stale := filepath.Join(work, "app", "stale", "old.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	w, err := fs.NewWriter(work, "app")
	require.NoError(t, err)
	_, err = w.Write(model.ExtractedFile{Path: "new.txt", Content: "new"})
	require.NoError(t, err)
	_, err = w.Write(model.ExtractedFile{Path: "second.txt", Content: "2"})
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale output should be removed")
	assert.FileExists(t, filepath.Join(work, "app", "new.txt"))
	assert.FileExists(t, filepath.Join(work, "app", "second.txt"))
}

func TestWriter_ResetCreatesEmptyDir(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	w, err := fs.NewWriter(work, "app")
	require.NoError(t, err)
	require.NoError(t, w.Reset())
	assert.DirExists(t, filepath.Join(work, "app"))
}
