package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/diffadd/internal/ui"
)

// StdinPath is the patch path that means "read standard input".
const StdinPath = "-"

// SourceProvider retrieves saved diff text for patch mode.
type SourceProvider struct {
	Stdin         io.Reader
	ReadClipboard func() (string, error)
}

// New creates a SourceProvider reading from os.Stdin and the system clipboard.
func New() *SourceProvider {
	return &SourceProvider{Stdin: os.Stdin, ReadClipboard: clipboard.ReadAll}
}

// GetContent returns the diff text from the clipboard when fromClipboard is
// set, otherwise from path ("-" reads stdin).
func (sp *SourceProvider) GetContent(path string, fromClipboard bool) (string, error) {
	if fromClipboard {
		ui.Debug("Reading diff from clipboard")
		content, err := sp.ReadClipboard()
		if err != nil {
			return "", fmt.Errorf("failed to read from clipboard: %w", err)
		}
		if strings.TrimSpace(content) == "" {
			ui.Warning("Clipboard is empty. Nothing to process.")
		}
		return content, nil
	}

	if path == StdinPath {
		ui.Debug("Reading diff from stdin")
		content, err := io.ReadAll(sp.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}

	ui.Debug("Reading diff from %s", path)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read patch file: %w", err)
	}
	return string(content), nil
}
