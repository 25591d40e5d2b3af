package diffadd

import (
	"context"
	"fmt"

	"github.com/sokinpui/diffadd/cli"
	"github.com/sokinpui/diffadd/model"
)

// Options for using diffadd as a library.
type Options struct {
	// Backend is "go-git" (default) or "exec".
	Backend string
	// GitBin is the git binary for the exec backend.
	GitBin string
	// Output overrides the output directory name.
	Output string
	// WorkDir is where the output directory is created (default: current directory).
	WorkDir string
}

// Extract writes the added lines of every file changed between baseBranch
// and compareBranch in repoPath, and returns what was written.
func Extract(ctx context.Context, baseBranch, compareBranch, repoPath string, opts Options) (model.Summary, error) {
	cfg := &cli.Config{
		BaseBranch:    baseBranch,
		CompareBranch: compareBranch,
		RepoPath:      repoPath,
		Backend:       opts.Backend,
		GitBin:        opts.GitBin,
		Output:        opts.Output,
	}

	app, err := New(cfg)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize diffadd app: %w", err)
	}
	if opts.WorkDir != "" {
		app.SetWorkDir(opts.WorkDir)
	}
	return app.Execute(ctx)
}
