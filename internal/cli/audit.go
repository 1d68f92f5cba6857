package cli

import (
	"context"
	"encoding/json"
	"flag"
	"path/filepath"
	"time"

	"github.com/shards-pm/shards/lockfile"
	"github.com/shards-pm/shards/purl"
	"github.com/shards-pm/shards/vuln"
)

type auditCommand struct{}

func (auditCommand) Name() string { return "audit" }

func init() { register(auditCommand{}) }

// Run implements `shards-compliance audit`: resolve each package's purl,
// query (and cache) the vulnerability database, apply ignore rules and a
// severity floor, and render the result. --json-lines overrides --format
// with a newline-delimited per-package stream, for CI log ingestion.
func (auditCommand) Run(ctx *Context, args []string) int {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	format := fs.String("format", "terminal", "output format: terminal|json")
	output := fs.String("output", "-", "output path, - for stdout")
	noColor := fs.Bool("no-color", false, "disable colored terminal output")
	failAbove := fs.String("fail-above", string(vuln.Low), "minimum severity that fails the audit")
	updateDB := fs.Bool("update-db", false, "clear the vulnerability cache before scanning")
	jsonLines := fs.Bool("json-lines", false, "emit one newline-delimited JSON object per scanned package instead of a single report")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	shared := Shared{Format: *format, Output: *output, NoColor: *noColor}

	floor, ok := vuln.ParseSeverity(*failAbove)
	if !ok {
		return Fatalf("shards-compliance: --fail-above: unrecognized severity %q", *failAbove)
	}

	pkgs, err := ctx.LoadLockfile()
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	ctx.ResolveInstallPaths(pkgs)

	if *updateDB {
		if err := vuln.ClearCache(ctx.ProjectRoot); err != nil {
			return Fatalf("shards-compliance: clear vulnerability cache: %v", err)
		}
	}

	now := time.Now()
	raw, err := scanPackages(ctx.ProjectRoot, pkgs, now)
	if err != nil {
		return Fatalf("shards-compliance: audit: %v", err)
	}

	rules, err := vuln.LoadIgnoreRules(filepath.Join(ctx.ProjectRoot, vuln.IgnoreFileName))
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}

	report := vuln.Aggregate(raw, rules, floor, now)

	switch {
	case *jsonLines:
		if err := writeJSONLines(*output, report.Results); err != nil {
			return Fatalf("shards-compliance: %v", err)
		}
	case shared.Format == "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return Fatalf("shards-compliance: %v", err)
		}
		if err := writeOutput(*output, data); err != nil {
			return Fatalf("shards-compliance: %v", err)
		}
	default:
		if err := printlnOutput(*output, renderAuditTerminal(report, shared.Colorize())); err != nil {
			return Fatalf("shards-compliance: %v", err)
		}
	}

	return report.ExitCode(floor)
}

// scanPackages derives a purl per package and delegates to the vulnerability
// client, which handles per-purl caching internally.
func scanPackages(projectRoot string, pkgs []*lockfile.Package, now time.Time) ([]vuln.PackageScanResult, error) {
	purls := make([]string, len(pkgs))
	for i, p := range pkgs {
		semverPart, _ := lockfile.SplitVersion(p.Version)
		if pPurl, ok := purl.Derive(string(p.Resolver), p.Source, p.Name, semverPart); ok {
			purls[i] = pPurl
		}
	}

	client := vuln.NewClient()
	found, err := client.ScanPurls(context.Background(), projectRoot, purls, now)
	if err != nil {
		return nil, err
	}

	results := make([]vuln.PackageScanResult, len(pkgs))
	for i, p := range pkgs {
		results[i] = vuln.PackageScanResult{PackageName: p.Name, Purl: purls[i], Vulnerabilities: found[i]}
	}
	return results, nil
}
