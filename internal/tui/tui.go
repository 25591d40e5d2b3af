package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/diffadd/diffadd"
	"github.com/sokinpui/diffadd/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))           // Orange
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))           // Yellow
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Executor runs one extraction. *diffadd.App satisfies it.
type Executor interface {
	Execute(ctx context.Context) (model.Summary, error)
}

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct {
	summary model.Summary
	err     error
}

func (e errorMsg) Error() string { return e.err.Error() }

// ProgressMsg reports how many files have been written so far.
type ProgressMsg struct {
	Current int
	Total   int
}

// --- Model ---
type Model struct {
	ctx      context.Context
	app      Executor
	spinner  spinner.Model
	state    state
	progress ProgressMsg
	summary  model.Summary
	err      error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(ctx context.Context, app Executor) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33")) // Blue
	return Model{
		ctx:     ctx,
		app:     app,
		spinner: s,
		state:   stateProcessing,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.state = stateError
			m.err = fmt.Errorf("interrupted")
			return m, tea.Quit
		}

	case ProgressMsg:
		m.progress = msg
		return m, nil

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg.Summary
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.summary = msg.summary
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		status := pendingStyle.Render("Generating...")
		if m.progress.Total > 0 {
			status += faintStyle.Render(fmt.Sprintf(" [%d/%d]", m.progress.Current, m.progress.Total))
		}
		return fmt.Sprintf("%s ⌛ %s", m.spinner.View(), status)
	case stateError:
		return m.renderError()
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

// Err is the failure the run ended with, if any.
func (m Model) Err() error { return m.err }

// Summary is what the run wrote.
func (m Model) Summary() model.Summary { return m.summary }

func (m *Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n")
	}
	if len(m.summary.Written) > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("Wrote %d file(s)", len(m.summary.Written))))
		b.WriteString("\n")
	}
	if len(m.summary.Skipped) > 0 {
		b.WriteString(warnStyle.Render("Skipped (deleted):"))
		b.WriteString("\n")
		for _, f := range m.summary.Skipped {
			b.WriteString(fmt.Sprintf("  %s\n", f))
		}
	}

	b.WriteString("✅ ")
	b.WriteString(successStyle.Render("Successfully."))
	b.WriteString(fmt.Sprintf(" Please open %s to confirm!\n", m.summary.OutputDir))
	return b.String()
}

func (m *Model) renderError() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	b.WriteString("\n")
	if len(m.summary.Written) > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("%d file(s) were written to %s before the failure.",
			len(m.summary.Written), m.summary.OutputDir)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) runApp() tea.Msg {
	summary, err := m.app.Execute(m.ctx)
	if err != nil {
		// Check for detailed error to print stack
		if e, ok := err.(*diffadd.DetailedError); ok {
			// The TUI will exit, so we can print to stderr here for the stack trace.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
		}
		return errorMsg{summary: summary, err: err}
	}
	return summaryMsg{Summary: summary}
}
