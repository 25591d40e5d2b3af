// Package validate checks the repository path and branch names before any
// diff work starts.
package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sokinpui/diffadd/internal/git/client"
)

var (
	ErrPathNotFound   = errors.New("path not found")
	ErrNotRepository  = errors.New("not a git repository")
	ErrBranchNotFound = errors.New("branch not found")
)

// BranchError reports a branch missing from the repository's branch list.
type BranchError struct {
	Side      string // "source" or "target"
	Branch    string
	Available []string
}

func (e *BranchError) Error() string {
	return fmt.Sprintf("%s branch not found: %s\navailable branches: %s",
		e.Side, e.Branch, strings.Join(e.Available, ", "))
}

func (e *BranchError) Unwrap() error { return ErrBranchNotFound }

// Target is what the user asked to compare.
type Target struct {
	RepoPath      string
	BaseBranch    string
	CompareBranch string
}

// Validate checks, in order, that the path exists, that it holds a .git
// marker, and that both branches exist. It stops at the first failure.
func Validate(ctx context.Context, c client.Client, t Target) error {
	if _, err := os.Stat(t.RepoPath); err != nil {
		return fmt.Errorf("%w: %s\nplease check that the path is correct and readable", ErrPathNotFound, t.RepoPath)
	}
	if _, err := os.Stat(filepath.Join(t.RepoPath, ".git")); err != nil {
		return fmt.Errorf("%w: %s\nplease make sure the directory contains a .git folder", ErrNotRepository, t.RepoPath)
	}

	branches, err := c.ListBranches(ctx, t.RepoPath)
	if err != nil {
		return fmt.Errorf("list branches: %w", err)
	}
	if !slices.Contains(branches, t.BaseBranch) {
		return &BranchError{Side: "source", Branch: t.BaseBranch, Available: branches}
	}
	if !slices.Contains(branches, t.CompareBranch) {
		return &BranchError{Side: "target", Branch: t.CompareBranch, Available: branches}
	}
	return nil
}
