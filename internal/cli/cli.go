// Package cli implements the command surface: argv parsing per subcommand
// and dispatch to the library packages.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/shards-pm/shards/lockfile"
	"github.com/shards-pm/shards/log"
)

// ErrMissingLockfile is surfaced as "Missing lockfile. Run install."
var ErrMissingLockfile = errors.New("Missing lockfile. Run install.")

// Shared holds the common output flags (--format, --output, --no-color,
// --strict); each command declares the ones it supports in its own flag set.
type Shared struct {
	Format  string
	Output  string
	NoColor bool
	Strict  bool
}

// Colorize reports whether terminal styling should be applied: explicit
// --no-color wins, otherwise auto-detect via go-isatty on stdout.
func (s Shared) Colorize() bool {
	if s.NoColor {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// Command is the contract every subcommand implements.
type Command interface {
	Name() string
	Run(ctx *Context, args []string) int
}

// Context bundles what every command needs to do its work.
type Context struct {
	ProjectRoot string
}

// LoadLockfile reads the lockfile at ctx.ProjectRoot, translating a missing
// file into the documented error message.
func (c *Context) LoadLockfile() ([]*lockfile.Package, error) {
	pkgs, err := lockfile.Load(filepath.Join(c.ProjectRoot, lockfile.FileName))
	if err != nil {
		if errors.Is(err, lockfile.ErrMissingLockfile) {
			return nil, ErrMissingLockfile
		}
		return nil, err
	}
	return pkgs, nil
}

// ResolveInstallPaths sets each package's InstallPath to
// <project-root>/<lib>/<name>, the conventional layout the installer
// produces.
func (c *Context) ResolveInstallPaths(pkgs []*lockfile.Package) {
	for _, p := range pkgs {
		p.InstallPath = filepath.Join(c.ProjectRoot, lockfile.LibDir, p.Name)
	}
}

// Fatalf prints a fatal error to stderr and returns the process exit code.
func Fatalf(format string, args ...any) int {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return 1
}

// Run dispatches argv (excluding the program name) to the named subcommand.
func Run(argv []string) int {
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "usage: shards-compliance <audit|licenses|policy|diff|compliance-report|install-hooks> [flags]")
		return 1
	}

	root, err := os.Getwd()
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	ctx := &Context{ProjectRoot: root}

	name, rest := argv[0], argv[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "shards-compliance: unknown command %q\n", name)
		return 1
	}
	return cmd.Run(ctx, rest)
}

var commands = map[string]Command{}

func register(c Command) { commands[c.Name()] = c }

func init() {
	log.SetLogger(&log.DefaultLogger{})
}
