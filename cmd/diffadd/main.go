package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/sokinpui/diffadd/cli"
	"github.com/sokinpui/diffadd/diffadd"
	"github.com/sokinpui/diffadd/internal/config"
	"github.com/sokinpui/diffadd/internal/source"
	"github.com/sokinpui/diffadd/internal/tui"
	"github.com/sokinpui/diffadd/internal/ui"
	"github.com/sokinpui/diffadd/model"
)

// Exit codes.
const (
	exitOK       = 0
	exitUsage    = 1 // bad flags, bad config, failed validation
	exitPipeline = 2 // diff, parse or write failure after validation
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cfg, err := cli.ParseFlags(args, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		ui.Error("%v", err)
		return exitUsage
	}
	if cfg.Version {
		cli.PrintVersion(os.Stdout)
		return exitOK
	}

	fileCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		ui.Error("%v", err)
		return exitUsage
	}
	cfg.ApplyDefaults(fileCfg)
	ui.Verbose = cfg.Verbose

	app, err := diffadd.New(cfg)
	if err != nil {
		ui.Error("Failed to initialize application: %v", err)
		return exitUsage
	}

	// The spinner needs the terminal, and stdin may be the patch itself.
	plain := cfg.NoAnimation || cfg.Patch == source.StdinPath || !isatty.IsTerminal(os.Stderr.Fd())

	var summary model.Summary
	if plain {
		summary, err = runPlain(ctx, app)
	} else {
		summary, err = runTUI(ctx, app)
	}
	if err == nil {
		return exitOK
	}

	if plain {
		reportError(summary, err)
	}
	var pe *diffadd.PipelineError
	var de *diffadd.DetailedError
	if errors.As(err, &pe) || errors.As(err, &de) {
		return exitPipeline
	}
	return exitUsage
}

func runTUI(ctx context.Context, app *diffadd.App) (model.Summary, error) {
	p := tea.NewProgram(tui.New(ctx, app), tea.WithOutput(os.Stderr))
	app.SetProgressCallback(func(current, total int) {
		p.Send(tui.ProgressMsg{Current: current, Total: total})
	})

	final, err := p.Run()
	if err != nil {
		return model.Summary{}, fmt.Errorf("error running program: %w", err)
	}
	m := final.(tui.Model)
	return m.Summary(), m.Err()
}

func runPlain(ctx context.Context, app *diffadd.App) (model.Summary, error) {
	ui.Header("⌛ Generating...")
	var progress *ui.Progress
	app.SetProgressCallback(func(current, total int) {
		if progress == nil {
			progress = ui.NewProgress(total, "Writing files")
		}
		progress.Set(current)
	})

	summary, err := app.Execute(ctx)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return summary, err
	}

	if summary.Message != "" {
		ui.Info("%s", summary.Message)
	}
	ui.PrintSummary(summary.OutputDir, summary.Written, summary.Skipped, summary.Failed)
	return summary, nil
}

func reportError(summary model.Summary, err error) {
	var de *diffadd.DetailedError
	if errors.As(err, &de) {
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", de.Stack)
	}
	ui.Error("Error: %v", err)
	if len(summary.Written) > 0 {
		ui.Warning("%d file(s) were written to %s before the failure.", len(summary.Written), summary.OutputDir)
	}
}
