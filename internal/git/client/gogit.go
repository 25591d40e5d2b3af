package client

import (
	"context"
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GoGitClient implements Client with go-git, without a git binary.
type GoGitClient struct{}

func NewGoGitClient() *GoGitClient { return &GoGitClient{} }

func (g *GoGitClient) ListBranches(ctx context.Context, root string) ([]string, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer refs.Close()

	var local, remote []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		short, ok := branchName(name.String())
		if !ok {
			return nil
		}
		if name.IsRemote() {
			remote = append(remote, short)
		} else {
			local = append(local, short)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	// git sorts by full refname, so heads come before remotes
	sort.Strings(local)
	sort.Strings(remote)
	return append(local, remote...), nil
}

func (g *GoGitClient) Diff(ctx context.Context, root, base, compare string) (string, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}
	from, err := resolveCommit(repo, base)
	if err != nil {
		return "", err
	}
	to, err := resolveCommit(repo, compare)
	if err != nil {
		return "", err
	}
	patch, err := from.PatchContext(ctx, to)
	if err != nil {
		return "", fmt.Errorf("diff %s..%s: %w", base, compare, err)
	}
	return patch.String(), nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", rev, err)
	}
	return commit, nil
}
