package cli

import (
	"encoding/json"
	"flag"
	"path/filepath"

	"github.com/shards-pm/shards/license"
	"github.com/shards-pm/shards/lockfile"
)

type licensesCommand struct{}

func (licensesCommand) Name() string { return "licenses" }

func init() { register(licensesCommand{}) }

// Run implements `shards-compliance licenses`: evaluate every locked
// package's license against the configured allow/deny policy, falling back
// to on-disk detection when a package declares none.
func (licensesCommand) Run(ctx *Context, args []string) int {
	fs := flag.NewFlagSet("licenses", flag.ContinueOnError)
	format := fs.String("format", "terminal", "output format: terminal|json")
	output := fs.String("output", "-", "output path, - for stdout")
	noColor := fs.Bool("no-color", false, "disable colored terminal output")
	noDetect := fs.Bool("no-detect", false, "skip on-disk license detection for undeclared licenses")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	shared := Shared{Format: *format, Output: *output, NoColor: *noColor}

	pkgs, err := ctx.LoadLockfile()
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	ctx.ResolveInstallPaths(pkgs)

	root, err := lockfile.LoadRootSpec(filepath.Join(ctx.ProjectRoot, lockfile.ManifestFileName))
	if err != nil {
		return Fatalf("shards-compliance: read %s: %v", lockfile.ManifestFileName, err)
	}

	policy, err := license.Load(filepath.Join(ctx.ProjectRoot, license.FileName))
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}

	var detect func(string) license.ScanResult
	if !*noDetect {
		detect = license.Scan
	}

	evals := make([]license.Evaluation, len(pkgs))
	for i, pkg := range pkgs {
		evals[i] = policy.Evaluate(pkg, detect)
	}
	report := license.Aggregate(root, evals, true)

	switch shared.Format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return Fatalf("shards-compliance: %v", err)
		}
		if err := writeOutput(*output, data); err != nil {
			return Fatalf("shards-compliance: %v", err)
		}
	default:
		if err := printlnOutput(*output, renderLicenseTerminal(report, shared.Colorize())); err != nil {
			return Fatalf("shards-compliance: %v", err)
		}
	}

	if report.Summary.Denied > 0 || report.Summary.Unlicensed > 0 {
		return 1
	}
	return 0
}
