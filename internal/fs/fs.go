package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sokinpui/diffadd/model"
)

// ErrOutsideOutputDir is returned for diff paths that would be written
// outside the output directory.
var ErrOutsideOutputDir = errors.New("path escapes output directory")

// OutputDirName returns the final path segment of repoPath, ignoring a
// trailing separator. Relative paths such as "." are resolved first.
func OutputDirName(repoPath string) (string, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", repoPath, err)
	}
	name := filepath.Base(abs)
	if name == string(filepath.Separator) || name == "." || name == "" {
		return "", fmt.Errorf("cannot derive an output directory name from %q", repoPath)
	}
	return name, nil
}

// Writer materializes extracted files under one output directory.
type Writer struct {
	root     string
	prepared bool
}

// NewWriter returns a Writer for workDir/name.
func NewWriter(workDir, name string) (*Writer, error) {
	if strings.ContainsRune(name, filepath.Separator) || name == "" || name == "." || name == ".." {
		return nil, fmt.Errorf("invalid output directory name %q", name)
	}
	abs, err := filepath.Abs(filepath.Join(workDir, name))
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	return &Writer{root: abs}, nil
}

// Root is the absolute output directory.
func (w *Writer) Root() string { return w.root }

// Reset removes any existing output directory, with everything in it, and
// creates it again empty. It runs at most once per Writer.
func (w *Writer) Reset() error {
	if w.prepared {
		return nil
	}
	if _, err := os.Stat(w.root); err == nil {
		if err := os.RemoveAll(w.root); err != nil {
			return fmt.Errorf("remove previous output %s: %w", w.root, err)
		}
	}
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", w.root, err)
	}
	w.prepared = true
	return nil
}

// Path re-roots a slash-separated diff path under the output directory.
func (w *Writer) Path(diffPath string) (string, error) {
	p := filepath.Join(w.root, filepath.FromSlash(diffPath))
	rel, err := filepath.Rel(w.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideOutputDir, diffPath)
	}
	return p, nil
}

// Write creates the parent directories of f and writes its content,
// replacing any file already at that path. It returns the absolute path.
func (w *Writer) Write(f model.ExtractedFile) (string, error) {
	if err := w.Reset(); err != nil {
		return "", err
	}
	p, err := w.Path(f.Path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", f.Path, err)
	}
	if err := os.WriteFile(p, []byte(f.Content), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", f.Path, err)
	}
	return p, nil
}
