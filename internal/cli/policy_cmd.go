package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shards-pm/shards/policy"
)

type policyCommand struct{}

func (policyCommand) Name() string { return "policy" }

func init() { register(policyCommand{}) }

// Run dispatches `shards-compliance policy <check|init|show>`.
func (policyCommand) Run(ctx *Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: shards-compliance policy <check|init|show> [flags]")
		return 1
	}
	switch args[0] {
	case "check":
		return policyCheck(ctx, args[1:])
	case "init":
		return policyInit(ctx, args[1:])
	case "show":
		return policyShow(ctx, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "shards-compliance: policy: unknown subcommand %q\n", args[0])
		return 1
	}
}

func policyCheck(ctx *Context, args []string) int {
	fs := flag.NewFlagSet("policy check", flag.ContinueOnError)
	format := fs.String("format", "terminal", "output format: terminal|json")
	output := fs.String("output", "-", "output path, - for stdout")
	noColor := fs.Bool("no-color", false, "disable colored terminal output")
	strict := fs.Bool("strict", false, "treat warnings as failures")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	shared := Shared{Format: *format, Output: *output, NoColor: *noColor, Strict: *strict}

	pkgs, err := ctx.LoadLockfile()
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	ctx.ResolveInstallPaths(pkgs)

	p, err := policy.Load(filepath.Join(ctx.ProjectRoot, policy.FileName))
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	if p == nil {
		if err := printlnOutput(*output, "no dependency policy configured; run `policy init` to create one"); err != nil {
			return Fatalf("shards-compliance: %v", err)
		}
		return 0
	}

	report := p.EvaluateAll(pkgs, policy.SatisfiesMinimum)

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
		if err := printlnOutput(*output, renderPolicyTerminal(report, shared.Colorize())); err != nil {
			return Fatalf("shards-compliance: %v", err)
		}
	}

	return report.ExitCode(shared.Strict)
}

func policyInit(ctx *Context, args []string) int {
	fs := flag.NewFlagSet("policy init", flag.ContinueOnError)
	force := fs.Bool("force", false, "overwrite an existing policy file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	path := filepath.Join(ctx.ProjectRoot, policy.FileName)
	if !*force {
		if _, err := os.Stat(path); err == nil {
			return Fatalf("shards-compliance: %s already exists; use --force to overwrite", policy.FileName)
		}
	}
	if err := os.WriteFile(path, []byte(policy.StarterTemplate), 0o644); err != nil {
		return Fatalf("shards-compliance: write %s: %v", policy.FileName, err)
	}
	fmt.Printf("wrote %s\n", path)
	return 0
}

func policyShow(ctx *Context, args []string) int {
	fs := flag.NewFlagSet("policy show", flag.ContinueOnError)
	output := fs.String("output", "-", "output path, - for stdout")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	p, err := policy.Load(filepath.Join(ctx.ProjectRoot, policy.FileName))
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	if p == nil {
		if err := printlnOutput(*output, "no dependency policy configured"); err != nil {
			return Fatalf("shards-compliance: %v", err)
		}
		return 0
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	if err := writeOutput(*output, data); err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	return 0
}
