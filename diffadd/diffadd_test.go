package diffadd_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/diffadd/cli"
	"github.com/sokinpui/diffadd/diffadd"
	"github.com/sokinpui/diffadd/internal/gittest"
	"github.com/sokinpui/diffadd/internal/source"
	"github.com/sokinpui/diffadd/internal/validate"
)

// fixedClient serves canned branches and diff text.
type fixedClient struct {
	branches []string
	diff     string
	diffErr  error
}

func (c *fixedClient) ListBranches(context.Context, string) ([]string, error) {
	return c.branches, nil
}

func (c *fixedClient) Diff(context.Context, string, string, string) (string, error) {
	return c.diff, c.diffErr
}

func newApp(t *testing.T, cfg *cli.Config) (*diffadd.App, string) {
	t.Helper()
	if cfg.Backend == "" {
		cfg.Backend = "go-git"
	}
	app, err := diffadd.New(cfg)
	require.NoError(t, err)
	work := t.TempDir()
	app.SetWorkDir(work)
	return app, work
}

func fakeRepo(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func TestExecute_ConcreteScenario(t *testing.T) {
	t.Parallel()

	diff := `diff --git a/src/util.js b/src/util.js
--- a/src/util.js
+++ b/src/util.js
@@ -0,0 +1 @@
+console.log('x')
`
	app, work := newApp(t, &cli.Config{BaseBranch: "main", CompareBranch: "feature", RepoPath: fakeRepo(t, "app")})
	app.SetClient(&fixedClient{branches: []string{"main", "feature"}, diff: diff})

	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "app"), summary.OutputDir)
	assert.Equal(t, []string{"src/util.js"}, summary.Written)

	data, err := os.ReadFile(filepath.Join(work, "app", "src", "util.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log('x')", string(data))
}

func TestExecute_ProgressReported(t *testing.T) {
	t.Parallel()

	repo := gittest.Feature(t, filepath.Join(t.TempDir(), "app"))
	app, _ := newApp(t, &cli.Config{BaseBranch: "main", CompareBranch: "feature", RepoPath: repo.Dir})

	var calls [][2]int
	app.SetProgressCallback(func(current, total int) {
		calls = append(calls, [2]int{current, total})
	})

	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/new.txt", "src/util.js"}, summary.Written)
	assert.Equal(t, []string{"docs/old.md"}, summary.Skipped)
	assert.Equal(t, [][2]int{{0, 2}, {1, 2}, {2, 2}}, calls)
}

func TestExecute_ValidationErrorWritesNothing(t *testing.T) {
	t.Parallel()

	app, work := newApp(t, &cli.Config{BaseBranch: "main", CompareBranch: "nope", RepoPath: fakeRepo(t, "app")})
	app.SetClient(&fixedClient{branches: []string{"main"}})

	_, err := app.Execute(context.Background())
	require.ErrorIs(t, err, validate.ErrBranchNotFound)
	var pe *diffadd.PipelineError
	assert.False(t, errors.As(err, &pe))
	assert.NoDirExists(t, filepath.Join(work, "app"))
}

func TestExecute_DiffErrorIsPipelineError(t *testing.T) {
	t.Parallel()

	app, _ := newApp(t, &cli.Config{BaseBranch: "main", CompareBranch: "feature", RepoPath: fakeRepo(t, "app")})
	app.SetClient(&fixedClient{branches: []string{"main", "feature"}, diffErr: errors.New("object not found")})

	_, err := app.Execute(context.Background())
	var pe *diffadd.PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "diff", pe.Stage)
	assert.Contains(t, err.Error(), "object not found")
}

func TestExecute_EmptyDiff(t *testing.T) {
	t.Parallel()

	app, work := newApp(t, &cli.Config{BaseBranch: "main", CompareBranch: "main", RepoPath: fakeRepo(t, "app")})
	app.SetClient(&fixedClient{branches: []string{"main"}})

	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Written)
	assert.NotEmpty(t, summary.Message)
	assert.DirExists(t, filepath.Join(work, "app"))
}

func TestExecute_OutputOverride(t *testing.T) {
	t.Parallel()

	diff := "diff --git a/a.txt b/a.txt\n--- a/a.txt\n+++ b/a.txt\n@@ -1 +1,2 @@\n x\n+y\n"
	app, work := newApp(t, &cli.Config{BaseBranch: "main", CompareBranch: "f", RepoPath: fakeRepo(t, "app"), Output: "custom"})
	app.SetClient(&fixedClient{branches: []string{"main", "f"}, diff: diff})

	_, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(work, "custom", "a.txt"))
	assert.NoDirExists(t, filepath.Join(work, "app"))
}

func TestExecute_PartialWriteKeepsEarlierFiles(t *testing.T) {
	t.Parallel()

	// "a" is written as a file, so "a/b" cannot get its parent directory.
	diff := "diff --git a/a b/a\nnew file mode 100644\n--- /dev/null\n+++ b/a\n@@ -0,0 +1 @@\n+first\n" +
		"diff --git a/a/b b/a/b\nnew file mode 100644\n--- /dev/null\n+++ b/a/b\n@@ -0,0 +1 @@\n+second\n"

	app, work := newApp(t, &cli.Config{Patch: "-", Output: "out"})
	app.SetSourceProvider(&source.SourceProvider{Stdin: strings.NewReader(diff)})

	summary, err := app.Execute(context.Background())
	var pe *diffadd.PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "write", pe.Stage)
	assert.Equal(t, []string{"a"}, summary.Written)
	assert.Equal(t, []string{"a/b"}, summary.Failed)
	assert.FileExists(t, filepath.Join(work, "out", "a"))
}

func TestExecute_PatchOutputNames(t *testing.T) {
	t.Parallel()

	diff := "diff --git a/a.txt b/a.txt\n--- a/a.txt\n+++ b/a.txt\n@@ -1 +1,2 @@\n x\n+y\n"
	patchFile := filepath.Join(t.TempDir(), "feature-123.patch")
	require.NoError(t, os.WriteFile(patchFile, []byte(diff), 0o644))

	app, work := newApp(t, &cli.Config{Patch: patchFile})
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "feature-123"), summary.OutputDir)

	app, work = newApp(t, &cli.Config{Clipboard: true})
	app.SetSourceProvider(&source.SourceProvider{ReadClipboard: func() (string, error) { return diff, nil }})
	summary, err = app.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "patch"), summary.OutputDir)
}

func TestExecute_CopyPath(t *testing.T) {
	t.Parallel()

	repo := gittest.Feature(t, filepath.Join(t.TempDir(), "app"))
	app, work := newApp(t, &cli.Config{BaseBranch: "main", CompareBranch: "feature", RepoPath: repo.Dir, CopyPath: true})

	var copied string
	app.SetClipboardWriter(func(s string) error {
		copied = s
		return nil
	})

	_, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "app"), copied)
}

func TestExtract_Library(t *testing.T) {
	t.Parallel()

	repo := gittest.Feature(t, filepath.Join(t.TempDir(), "app"))
	work := t.TempDir()

	summary, err := diffadd.Extract(context.Background(), "main", "feature", repo.Dir, diffadd.Options{WorkDir: work})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "app"), summary.OutputDir)
	assert.FileExists(t, filepath.Join(work, "app", "src", "new.txt"))
}

func TestNew_UnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := diffadd.New(&cli.Config{Backend: "svn"})
	require.Error(t, err)
}
