// Package gittest builds throwaway git repositories for tests with go-git,
// so tests do not depend on a git binary.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a non-bare repository with a worktree.
type Repo struct {
	Dir string

	t    testing.TB
	repo *git.Repository
	wt   *git.Worktree
}

// New initialises a repository at dir whose default branch is "main".
func New(t testing.TB, dir string) *Repo {
	t.Helper()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	return &Repo{Dir: dir, t: t, repo: repo, wt: wt}
}

// Write creates or replaces path (slash separated) and stages it.
func (r *Repo) Write(path, content string) {
	r.t.Helper()
	abs := filepath.Join(r.Dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		r.t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", path, err)
	}
	if _, err := r.wt.Add(path); err != nil {
		r.t.Fatalf("add %s: %v", path, err)
	}
}

// Remove deletes path from the worktree and the index.
func (r *Repo) Remove(path string) {
	r.t.Helper()
	if _, err := r.wt.Remove(path); err != nil {
		r.t.Fatalf("remove %s: %v", path, err)
	}
}

// Commit records the staged changes on the current branch.
func (r *Repo) Commit(msg string) plumbing.Hash {
	r.t.Helper()
	hash, err := r.wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Unix(1700000000, 0)},
	})
	if err != nil {
		r.t.Fatalf("commit: %v", err)
	}
	return hash
}

// Branch creates name at HEAD and checks it out.
func (r *Repo) Branch(name string) {
	r.t.Helper()
	err := r.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
	if err != nil {
		r.t.Fatalf("create branch %s: %v", name, err)
	}
}

// Checkout switches to an existing branch.
func (r *Repo) Checkout(name string) {
	r.t.Helper()
	err := r.wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name)})
	if err != nil {
		r.t.Fatalf("checkout %s: %v", name, err)
	}
}

// RemoteBranch points refs/remotes/<remote>/<name> at the current HEAD.
func (r *Repo) RemoteBranch(remote, name string) {
	r.t.Helper()
	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("head: %v", err)
	}
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(remote, name), head.Hash())
	if err := r.repo.Storer.SetReference(ref); err != nil {
		r.t.Fatalf("set remote ref: %v", err)
	}
}

// Feature builds the common fixture: "main" with src/util.js and
// docs/old.md, and "feature" that adds a line to src/util.js, adds
// src/new.txt and deletes docs/old.md. HEAD is left on main.
func Feature(t testing.TB, dir string) *Repo {
	t.Helper()
	r := New(t, dir)
	r.Write("src/util.js", "module.exports = {}\n")
	r.Write("docs/old.md", "# old\n")
	r.Commit("initial")

	r.Branch("feature")
	r.Write("src/util.js", "module.exports = {}\nconsole.log('x')\n")
	r.Write("src/new.txt", "hello\nworld\n")
	r.Remove("docs/old.md")
	r.Commit("feature work")

	r.Checkout("main")
	return r
}
