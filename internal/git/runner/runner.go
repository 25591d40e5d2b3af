package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Runner executes git subcommands inside a repository.
type Runner interface {
	Run(ctx context.Context, root string, args ...string) (string, error)
}

// ExecRunner executes the configured git binary.
type ExecRunner struct {
	GitBin string
}

func NewExecRunner(gitBin string) *ExecRunner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &ExecRunner{GitBin: gitBin}
}

func (e *ExecRunner) Run(ctx context.Context, root string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, e.GitBin, args...)
	if strings.TrimSpace(root) != "" {
		cmd.Dir = root
	}
	var out bytes.Buffer
	var errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errb.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", subcommand(args), redactCredentials(msg))
	}
	return out.String(), nil
}

var safeWord = regexp.MustCompile(`^[a-z][a-z-]*$`)

// subcommand keeps at most the first two plain-word arguments so paths and
// URLs stay out of error messages.
func subcommand(args []string) string {
	safe := make([]string, 0, 2)
	for _, a := range args {
		if !safeWord.MatchString(a) {
			break
		}
		safe = append(safe, a)
		if len(safe) == 2 {
			break
		}
	}
	if len(safe) == 0 {
		return "<redacted>"
	}
	return strings.Join(safe, " ")
}

var (
	urlCredentials = regexp.MustCompile(`https?://[^\s@]+@`)
	tokenAssign    = regexp.MustCompile(`(?i)(token|secret|password|passwd|bearer)=[^\s]+`)
)

func redactCredentials(s string) string {
	s = urlCredentials.ReplaceAllString(s, "https://<redacted>@")
	return tokenAssign.ReplaceAllString(s, "$1=<redacted>")
}
