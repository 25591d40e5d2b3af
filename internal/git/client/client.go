package client

import (
	"context"
	"fmt"
	"strings"
)

// Client provides the read-only git queries the extractor needs.
// Implementations may use the git binary or a pure-Go library.
type Client interface {
	// ListBranches returns every branch name known to the repository at root:
	// local branches by short name, remote-tracking ones as "remotes/<remote>/<name>".
	ListBranches(ctx context.Context, root string) ([]string, error)
	// Diff returns the unified diff text from base to compare.
	Diff(ctx context.Context, root, base, compare string) (string, error)
}

// Backend names accepted by New.
const (
	BackendGoGit = "go-git"
	BackendExec  = "exec"
)

// New returns the client for the named backend. gitBin only applies to the
// exec backend.
func New(backend, gitBin string) (Client, error) {
	switch strings.TrimSpace(backend) {
	case "", BackendGoGit:
		return NewGoGitClient(), nil
	case BackendExec:
		return NewExecClient(gitBin), nil
	default:
		return nil, fmt.Errorf("unknown git backend %q (want %q or %q)", backend, BackendGoGit, BackendExec)
	}
}

const (
	headsPrefix   = "refs/heads/"
	remotesPrefix = "refs/remotes/"
)

// branchName maps a full reference name to the name "git branch -a" shows.
// ok is false for references that are not branches.
func branchName(ref string) (name string, ok bool) {
	switch {
	case strings.HasPrefix(ref, headsPrefix):
		return strings.TrimPrefix(ref, headsPrefix), true
	case strings.HasPrefix(ref, remotesPrefix):
		return "remotes/" + strings.TrimPrefix(ref, remotesPrefix), true
	default:
		return "", false
	}
}
