package cli

import (
	"flag"

	"github.com/shards-pm/shards/diff"
)

type diffCommand struct{}

func (diffCommand) Name() string { return "diff" }

func init() { register(diffCommand{}) }

// Run implements `shards-compliance diff <from> <to>`. Refs accepted:
// "current", "last-install", a lockfile path, or a VCS revision.
func (diffCommand) Run(ctx *Context, args []string) int {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	format := fs.String("format", "terminal", "output format: terminal|json|markdown")
	output := fs.String("output", "-", "output path, - for stdout")
	noColor := fs.Bool("no-color", false, "disable colored terminal output")
	showUnchanged := fs.Bool("show-unchanged", false, "include unchanged packages in terminal/markdown output")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return Fatalf("usage: shards-compliance diff [flags] <from> <to>")
	}
	shared := Shared{Format: *format, Output: *output, NoColor: *noColor}
	fromRef, toRef := rest[0], rest[1]

	from, err := diff.ResolvePackages(ctx.ProjectRoot, fromRef)
	if err != nil {
		return Fatalf("shards-compliance: diff: resolve %q: %v", fromRef, err)
	}
	to, err := diff.ResolvePackages(ctx.ProjectRoot, toRef)
	if err != nil {
		return Fatalf("shards-compliance: diff: resolve %q: %v", toRef, err)
	}

	changes := diff.Diff(from, to)
	report := diff.NewReport(fromRef, toRef, changes)

	var rendered []byte
	switch shared.Format {
	case "json":
		rendered, err = report.RenderJSON()
	case "markdown":
		rendered = []byte(report.RenderMarkdown())
	default:
		rendered = []byte(report.RenderTerminal(shared.Colorize(), *showUnchanged))
	}
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	if err := writeOutput(*output, rendered); err != nil {
		return Fatalf("shards-compliance: %v", err)
	}

	if report.Summary.Added+report.Summary.Removed+report.Summary.Updated > 0 {
		return 1
	}
	return 0
}
