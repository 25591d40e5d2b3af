package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	DebugColor   = color.New(color.Faint)
)

// Output is where every helper writes. Tests swap it for a buffer.
var Output io.Writer = os.Stderr

// Verbose enables Debug output.
var Verbose bool

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Output, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Output, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Output, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Output, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Output, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(Output, "  "+format+"\n", a...)
}

func Debug(format string, a ...interface{}) {
	if !Verbose {
		return
	}
	DebugColor.Fprintf(Output, format+"\n", a...)
}

// --- Summaries ---

// PrintSummary reports the outcome of an extraction in plain (non-TUI) mode.
func PrintSummary(outputDir string, written, skipped, failed []string) {
	if len(written) > 0 {
		Info("Wrote %d file(s):", len(written))
		for _, f := range written {
			Path("- %s", f)
		}
	}
	if len(skipped) > 0 {
		Warning("Skipped %d deleted file(s):", len(skipped))
		for _, f := range skipped {
			Path("- %s", f)
		}
	}
	if len(failed) > 0 {
		Error("Failed to write %d file(s):", len(failed))
		for _, f := range failed {
			Path("- %s", f)
		}
		return
	}
	Success("✅ Successfully. Please open %s to confirm!", outputDir)
}

// --- Progress ---

// Progress draws a single "[n/total]" status line, redrawn in place.
type Progress struct {
	total   int
	prefix  string
	current int
}

func NewProgress(total int, prefix string) *Progress {
	return &Progress{total: total, prefix: prefix}
}

func (p *Progress) Set(current int) {
	p.current = current
	p.draw()
}

func (p *Progress) Finish() {
	if p.total > 0 {
		fmt.Fprintln(Output)
	}
}

func (p *Progress) draw() {
	if p.total == 0 {
		return
	}
	fmt.Fprintf(Output, "\r%s [%d/%d]", p.prefix, p.current, p.total)
}
