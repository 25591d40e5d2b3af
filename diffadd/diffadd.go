package diffadd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/diffadd/cli"
	"github.com/sokinpui/diffadd/internal/extract"
	"github.com/sokinpui/diffadd/internal/fs"
	"github.com/sokinpui/diffadd/internal/git/client"
	"github.com/sokinpui/diffadd/internal/parser"
	"github.com/sokinpui/diffadd/internal/source"
	"github.com/sokinpui/diffadd/internal/ui"
	"github.com/sokinpui/diffadd/internal/validate"
	"github.com/sokinpui/diffadd/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// App orchestrates one extraction run.
type App struct {
	cfg              *cli.Config
	client           client.Client
	sourceProvider   *source.SourceProvider
	workDir          string
	progressCallback ProgressUpdate
	writeClipboard   func(string) error
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

// PipelineError is a failure after validation succeeded: reading or
// computing the diff, parsing it, or writing output. Files written before
// the failure stay on disk.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// New creates a new App instance writing into the current directory.
func New(cfg *cli.Config) (*App, error) {
	c, err := client.New(cfg.Backend, cfg.GitBin)
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not get current working directory: %w", err)
	}

	return &App{
		cfg:            cfg,
		client:         c,
		sourceProvider: source.New(),
		workDir:        wd,
		writeClipboard: clipboard.WriteAll,
	}, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// SetWorkDir changes the directory the output directory is created in.
func (a *App) SetWorkDir(dir string) {
	a.workDir = dir
}

// SetClient replaces the git client.
func (a *App) SetClient(c client.Client) {
	a.client = c
}

// SetSourceProvider replaces where patch mode reads its diff from.
func (a *App) SetSourceProvider(sp *source.SourceProvider) {
	a.sourceProvider = sp
}

// SetClipboardWriter replaces the function used by --copy-path.
func (a *App) SetClipboardWriter(fn func(string) error) {
	a.writeClipboard = fn
}

// Execute runs validation, diff retrieval, parsing, extraction and writing,
// in that order. Validation failures are returned unwrapped and nothing is
// written; later failures are returned as *PipelineError.
func (a *App) Execute(ctx context.Context) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	if a.cfg.PatchMode() {
		return a.extractFromSource()
	}
	return a.extractFromRepo(ctx)
}

// extractFromRepo asks git for the diff between the two branches.
func (a *App) extractFromRepo(ctx context.Context) (model.Summary, error) {
	target := validate.Target{
		RepoPath:      a.cfg.RepoPath,
		BaseBranch:    a.cfg.BaseBranch,
		CompareBranch: a.cfg.CompareBranch,
	}
	if err := validate.Validate(ctx, a.client, target); err != nil {
		return model.Summary{}, err
	}

	name := a.cfg.Output
	if name == "" {
		n, err := fs.OutputDirName(a.cfg.RepoPath)
		if err != nil {
			return model.Summary{}, err
		}
		name = n
	}

	ui.Debug("Computing diff %s..%s in %s", target.BaseBranch, target.CompareBranch, target.RepoPath)
	diff, err := a.client.Diff(ctx, target.RepoPath, target.BaseBranch, target.CompareBranch)
	if err != nil {
		return model.Summary{}, &PipelineError{Stage: "diff", Err: err}
	}
	patches, err := parser.Parse(diff)
	if err != nil {
		return model.Summary{}, &PipelineError{Stage: "parse", Err: err}
	}
	return a.materialize(name, patches)
}

// extractFromSource reads saved diff text (file, stdin or clipboard).
func (a *App) extractFromSource() (model.Summary, error) {
	content, err := a.sourceProvider.GetContent(a.cfg.Patch, a.cfg.Clipboard)
	if err != nil {
		return model.Summary{}, &PipelineError{Stage: "read", Err: err}
	}
	patches, err := parser.ParseSource(content)
	if err != nil {
		return model.Summary{}, &PipelineError{Stage: "parse", Err: err}
	}
	return a.materialize(a.patchOutputName(), patches)
}

// patchOutputName is --output, else the patch file name without its
// extension, else "patch".
func (a *App) patchOutputName() string {
	if a.cfg.Output != "" {
		return a.cfg.Output
	}
	if a.cfg.Patch != "" && a.cfg.Patch != source.StdinPath {
		base := filepath.Base(a.cfg.Patch)
		if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" && name != "." {
			return name
		}
	}
	return "patch"
}

// materialize replaces the output directory and writes one file per patch
// with a new path. It stops at the first write failure.
func (a *App) materialize(name string, patches []model.FilePatch) (model.Summary, error) {
	writer, err := fs.NewWriter(a.workDir, name)
	if err != nil {
		return model.Summary{}, &PipelineError{Stage: "prepare", Err: err}
	}

	files, skipped := extract.Files(patches)
	summary := model.Summary{OutputDir: writer.Root(), Skipped: skipped}
	for _, s := range skipped {
		ui.Debug("Skipping %s: no new file path", s)
	}

	if err := writer.Reset(); err != nil {
		return summary, &PipelineError{Stage: "write", Err: err}
	}

	total := len(files)
	a.reportProgress(0, total)
	for i, f := range files {
		if _, err := writer.Write(f); err != nil {
			summary.Failed = append(summary.Failed, f.Path)
			return summary, &PipelineError{Stage: "write", Err: err}
		}
		summary.Written = append(summary.Written, f.Path)
		a.reportProgress(i+1, total)
	}

	if total == 0 {
		summary.Message = "No changed files with a new path. Nothing to write."
	}

	if a.cfg.CopyPath && a.writeClipboard != nil {
		if err := a.writeClipboard(summary.OutputDir); err != nil {
			ui.Warning("Could not copy output path to clipboard: %v", err)
		}
	}
	return summary, nil
}

func (a *App) reportProgress(current, total int) {
	if a.progressCallback != nil {
		a.progressCallback(current, total)
	}
}
