package client

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/sokinpui/diffadd/internal/git/runner"
)

// ExecClient implements Client using the git binary.
type ExecClient struct{ r runner.Runner }

func NewExecClient(bin string) *ExecClient { return &ExecClient{r: runner.NewExecRunner(bin)} }

func (c *ExecClient) ListBranches(ctx context.Context, root string) ([]string, error) {
	output, err := c.r.Run(ctx, root, "branch", "-a", "--format=%(refname)")
	if err != nil {
		return nil, err
	}
	var branches []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		if name, ok := branchName(strings.TrimSpace(scanner.Text())); ok {
			branches = append(branches, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan git branch: %w", err)
	}
	return branches, nil
}

func (c *ExecClient) Diff(ctx context.Context, root, base, compare string) (string, error) {
	return c.r.Run(ctx, root, "diff", "--no-color", "--no-ext-diff", base, compare, "--")
}
