package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/sokinpui/diffadd/internal/config"
)

// Version is reported by --version.
const Version = "1.0.0"

// Config holds all the command-line values.
type Config struct {
	BaseBranch    string
	CompareBranch string
	RepoPath      string

	Output      string
	Patch       string
	Clipboard   bool
	CopyPath    bool
	Backend     string
	GitBin      string
	NoAnimation bool
	Verbose     bool
	ConfigPath  string
	Version     bool

	changed map[string]bool
}

// PatchMode reports whether the diff comes from saved text instead of git.
func (c *Config) PatchMode() bool {
	return c.Patch != "" || c.Clipboard
}

// ParseFlags defines and parses command-line flags using pflag. Positional
// arguments fill the branches and the repository path in order; missing ones
// stay empty and are reported by validation. pflag.ErrHelp is returned after
// usage is printed for -h/--help.
func ParseFlags(args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("diffadd", pflag.ContinueOnError)
	flags.SetOutput(out)

	flags.StringVarP(&cfg.Output, "output", "o", "", "Name of the output directory (default: repository directory name).")
	flags.StringVarP(&cfg.Patch, "patch", "p", "", "Read a saved diff from FILE instead of asking git ('-' reads stdin).")
	flags.BoolVarP(&cfg.Clipboard, "clipboard", "c", false, "Read the diff from the clipboard instead of asking git.")
	flags.BoolVar(&cfg.CopyPath, "copy-path", false, "Copy the absolute output path to the clipboard when done.")
	flags.StringVar(&cfg.Backend, "backend", "go-git", "Git access backend: 'go-git' or 'exec'.")
	flags.StringVar(&cfg.GitBin, "git-bin", "", "git binary used by the exec backend (default: git from PATH).")
	flags.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the spinner and print plain progress lines.")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "Print debug output.")
	flags.StringVar(&cfg.ConfigPath, "config", "", "Path to a TOML config file.")
	flags.BoolVarP(&cfg.Version, "version", "v", false, "Print the version and exit.")

	flags.Usage = func() {
		fmt.Fprintln(out, "Usage: diffadd [flags] [baseBranch] [compareBranch] [repoPath]")
		fmt.Fprintln(out, "\nWrite the added lines of every file changed between two branches into a")
		fmt.Fprintln(out, "directory named after the repository.")
		fmt.Fprintln(out, "\nExample: diffadd main feature ~/src/app")
		fmt.Fprintln(out, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	positional := flags.Args()
	if len(positional) > 3 {
		return nil, fmt.Errorf("error: expected at most 3 arguments, got %d", len(positional))
	}
	targets := []*string{&cfg.BaseBranch, &cfg.CompareBranch, &cfg.RepoPath}
	for i, arg := range positional {
		*targets[i] = arg
	}

	if cfg.Patch != "" && cfg.Clipboard {
		return nil, fmt.Errorf("error: --patch and --clipboard are mutually exclusive")
	}

	cfg.changed = make(map[string]bool)
	flags.Visit(func(f *pflag.Flag) { cfg.changed[f.Name] = true })
	return cfg, nil
}

// ApplyDefaults fills every flag the user did not set explicitly from file.
func (c *Config) ApplyDefaults(file *config.Config) {
	if !c.changed["backend"] {
		c.Backend = file.Backend
	}
	if !c.changed["git-bin"] {
		c.GitBin = file.GitBin
	}
	if !c.changed["no-animation"] {
		c.NoAnimation = file.NoAnimation
	}
	if !c.changed["copy-path"] {
		c.CopyPath = file.CopyPath
	}
	if !c.changed["verbose"] {
		c.Verbose = file.Verbose
	}
}

// PrintVersion writes the version line.
func PrintVersion(out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "diffadd %s\n", Version)
}
