package cli

import (
	"errors"
	"flag"

	"github.com/shards-pm/shards/installhook"
	"github.com/shards-pm/shards/log"
)

type installHooksCommand struct{}

func (installHooksCommand) Name() string { return "install-hooks" }

func init() { register(installHooksCommand{}) }

// Run implements `shards-compliance install-hooks`: a standalone way to
// exercise the checksum-verify and policy-gate hooks an external installer
// would otherwise call inline during its own pipeline, useful for
// diagnosing a lockfile without re-running a full install.
func (installHooksCommand) Run(ctx *Context, args []string) int {
	fs := flag.NewFlagSet("install-hooks", flag.ContinueOnError)
	skipVerify := fs.Bool("skip-verify", false, "overwrite mismatched checksums instead of failing")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	pkgs, err := ctx.LoadLockfile()
	if err != nil {
		return Fatalf("shards-compliance: %v", err)
	}
	ctx.ResolveInstallPaths(pkgs)

	exitCode := 0
	for _, pkg := range pkgs {
		if err := installhook.VerifyOrCompute(pkg, *skipVerify); err != nil {
			log.Errorf("install-hooks: %v", err)
			exitCode = 1
		}
	}

	if _, err := installhook.Gate(ctx.ProjectRoot, pkgs); err != nil {
		if errors.Is(err, installhook.ErrPolicyViolation) {
			exitCode = 1
		} else {
			return Fatalf("shards-compliance: %v", err)
		}
	}

	return exitCode
}
