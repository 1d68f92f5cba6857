// Package installhook exposes the two install-pipeline hooks the
// compliance subsystem owns — checksum verify-or-compute and the policy
// gate — for an external resolver/installer to call in sequence during its
// own install pipeline, since that installer itself lives outside this
// subsystem.
package installhook

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/shards-pm/shards/checksum"
	"github.com/shards-pm/shards/lockfile"
	"github.com/shards-pm/shards/log"
	"github.com/shards-pm/shards/policy"
)

// ErrChecksumMismatch is returned by VerifyOrCompute when an installed
// tree's checksum no longer matches the lockfile.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ErrPolicyViolation is returned by Gate when the policy report contains
// any Error-severity finding.
var ErrPolicyViolation = errors.New("policy violation")

// VerifyOrCompute runs the per-package install step: if pkg.Checksum is
// empty (fresh install or pre-feature lockfile), compute and set it. If
// present, recompute and compare; a mismatch returns ErrChecksumMismatch
// unless skipVerify is set, in which case the checksum is recomputed and
// replaced with a logged warning.
func VerifyOrCompute(pkg *lockfile.Package, skipVerify bool) error {
	actual, err := checksum.Compute(pkg.InstallPath)
	if err != nil {
		return fmt.Errorf("installhook: compute checksum for %s: %w", pkg.Name, err)
	}

	if pkg.Checksum == "" {
		pkg.Checksum = actual
		return nil
	}

	if actual == pkg.Checksum {
		return nil
	}

	if skipVerify {
		log.Warnf("installhook: %s checksum mismatch (expected %s, got %s); overwriting due to --skip-verify", pkg.Name, pkg.Checksum, actual)
		pkg.Checksum = actual
		return nil
	}

	return fmt.Errorf("installhook: %s: %w: expected %s, got %s", pkg.Name, ErrChecksumMismatch, pkg.Checksum, actual)
}

// Gate evaluates the dependency policy as an install hook: if a policy file
// exists at projectRoot, evaluate every package and return ErrPolicyViolation
// when any finding is Error-severity. Warnings are logged but never block. A
// missing policy file is a no-op (nil report, nil error).
func Gate(projectRoot string, pkgs []*lockfile.Package) (*policy.Report, error) {
	p, err := policy.Load(filepath.Join(projectRoot, policy.FileName))
	if err != nil {
		return nil, fmt.Errorf("installhook: load policy: %w", err)
	}
	if p == nil {
		return nil, nil
	}

	report := p.EvaluateAll(pkgs, policy.SatisfiesMinimum)
	hasError := false
	for _, f := range report.Findings {
		if f.Severity == policy.Error {
			hasError = true
			log.Errorf("installhook: %s: %s: %s", f.Package, f.Rule, f.Message)
		} else {
			log.Warnf("installhook: %s: %s: %s", f.Package, f.Rule, f.Message)
		}
	}
	if hasError {
		return &report, fmt.Errorf("installhook: %w; run `policy check` for detail", ErrPolicyViolation)
	}
	return &report, nil
}
