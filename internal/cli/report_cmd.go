package cli

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/shards-pm/shards/license"
	"github.com/shards-pm/shards/lockfile"
	"github.com/shards-pm/shards/policy"
	"github.com/shards-pm/shards/report"
	"github.com/shards-pm/shards/vuln"
)

type reportCommand struct{}

func (reportCommand) Name() string { return "compliance-report" }

func init() { register(reportCommand{}) }

// Run implements `shards-compliance compliance-report`. Each section is
// collected in-process and independently isolated from the others'
// failures; a missing license or policy configuration simply omits that
// section rather than failing the whole report.
func (reportCommand) Run(ctx *Context, args []string) int {
	fs := flag.NewFlagSet("compliance-report", flag.ContinueOnError)
	format := fs.String("format", "json", "output format: json|html|markdown")
	output := fs.String("output", "-", "output path, - for stdout")
	sbomFormat := fs.String("sbom-format", "spdx", "sbom encoding: spdx|cyclonedx")
	archive := fs.Bool("archive", false, "copy the written report into .shards/audit/reports")
	signer := fs.String("signer", "", "external signer binary; when set, a detached signature is written alongside the report")
	secretKey := fs.String("secret-key", "", "signer secret key path, required with --signer")
	noColor := fs.Bool("no-color", false, "accepted for consistency with other commands; has no effect on report output")
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

	now := time.Now()

	licensePolicy, err := license.Load(filepath.Join(ctx.ProjectRoot, license.FileName))
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	depPolicy, err := policy.Load(filepath.Join(ctx.ProjectRoot, policy.FileName))
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}

	project := report.NewProject(root.Name, root.Version, root.LanguageVersion, len(pkgs), len(root.Dependencies))

	inputs := report.Inputs{
		ProjectRoot: ctx.ProjectRoot,
		Project:     project,
		CollectSBOM: func() (any, error) {
			if *sbomFormat == "cyclonedx" {
				return report.BuildCycloneDXSBOM(root, pkgs, now), nil
			}
			return report.BuildSBOM(root, pkgs, now), nil
		},
		CollectVulns: func() (any, error) {
			raw, err := scanPackages(ctx.ProjectRoot, pkgs, now)
			if err != nil {
				return nil, err
			}
			rules, err := vuln.LoadIgnoreRules(filepath.Join(ctx.ProjectRoot, vuln.IgnoreFileName))
			if err != nil {
				return nil, err
			}
			return vuln.Aggregate(raw, rules, "", now), nil
		},
		CollectIntegrity: func() (any, error) {
			return report.CollectIntegrity(ctx.ProjectRoot, pkgs)
		},
	}
	if _, err := os.Stat(filepath.Join(ctx.ProjectRoot, license.FileName)); err == nil {
		inputs.CollectLicenses = func() (any, error) {
			evals := make([]license.Evaluation, len(pkgs))
			for i, pkg := range pkgs {
				evals[i] = licensePolicy.Evaluate(pkg, license.Scan)
			}
			return license.Aggregate(root, evals, true), nil
		}
	}
	if depPolicy != nil {
		inputs.CollectPolicy = func() (any, error) {
			r := depPolicy.EvaluateAll(pkgs, policy.SatisfiesMinimum)
			return r, nil
		}
	}

	data := report.Build(inputs, now)

	rendered, err := report.Render(data, shared.Format)
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	if err := writeOutput(*output, rendered); err != nil {
		return Fatalf("shards-compliance: %v", err)
	}

	if *output != "-" && *output != "" {
		if *archive {
			report.Archive(ctx.ProjectRoot, *output, now)
		}
		if *signer != "" {
			if *secretKey == "" {
				return Fatalf("shards-compliance: --signer requires --secret-key")
			}
			report.Sign(*signer, *output, *secretKey)
		}
	}

	switch data.Summary.OverallStatus {
	case "fail":
		return 1
	case "action_required":
		return 2
	default:
		return 0
	}
}
