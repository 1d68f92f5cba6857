package policy

import (
	"regexp"
	"testing"

	"github.com/shards-pm/shards/lockfile"
)

func TestEvaluateBlockedDependency(t *testing.T) {
	p := &Policy{Dependencies: dependenciesPolicy{
		Blocked: []BlockedDependency{{Name: "evil", Reason: "known malware"}},
	}}
	findings := p.Evaluate(&lockfile.Package{Name: "evil"}, nil)
	if len(findings) != 1 || findings[0].Rule != RuleBlockedDependency || findings[0].Severity != Error {
		t.Fatalf("expected one blocked_dependency error, got %+v", findings)
	}
}

func TestEvaluateDenyPathDependencies(t *testing.T) {
	p := &Policy{Sources: sourcesPolicy{DenyPathDependencies: true}}
	pkg := &lockfile.Package{Name: "local", Resolver: lockfile.Path, Source: "../local"}
	findings := p.Evaluate(pkg, nil)
	if len(findings) != 1 || findings[0].Rule != RuleDenyPathDependency {
		t.Fatalf("expected deny_path_dependencies finding, got %+v", findings)
	}
}

func TestEvaluateAllowedHosts(t *testing.T) {
	p := &Policy{Sources: sourcesPolicy{AllowedHosts: []string{"github.com"}}}
	pkg := &lockfile.Package{Name: "pkg", Resolver: lockfile.Git, Source: "https://gitlab.com/org/pkg.git"}
	findings := p.Evaluate(pkg, nil)
	if len(findings) != 1 || findings[0].Rule != RuleAllowedHosts {
		t.Fatalf("expected allowed_hosts finding, got %+v", findings)
	}
}

func TestEvaluateAllowedOrgs(t *testing.T) {
	p := &Policy{Sources: sourcesPolicy{
		AllowedHosts: []string{"github.com"},
		AllowedOrgs:  map[string][]string{"github.com": {"trusted-org"}},
	}}
	pkg := &lockfile.Package{Name: "pkg", Resolver: lockfile.Git, Source: "https://github.com/other-org/pkg.git"}
	findings := p.Evaluate(pkg, nil)
	if len(findings) != 1 || findings[0].Rule != RuleAllowedOrgs {
		t.Fatalf("expected allowed_orgs finding, got %+v", findings)
	}
}

func TestEvaluateMinimumVersion(t *testing.T) {
	p := &Policy{Dependencies: dependenciesPolicy{MinimumVersions: map[string]string{"pkg": ">= 2.0.0"}}}
	pkg := &lockfile.Package{Name: "pkg", Version: "1.5.0"}
	findings := p.Evaluate(pkg, SatisfiesMinimum)
	if len(findings) != 1 || findings[0].Rule != RuleMinimumVersion {
		t.Fatalf("expected minimum_version finding, got %+v", findings)
	}

	pkg.Version = "2.1.0"
	if findings := p.Evaluate(pkg, SatisfiesMinimum); len(findings) != 0 {
		t.Fatalf("expected no finding for satisfying version, got %+v", findings)
	}
}

func TestEvaluateCustomRule(t *testing.T) {
	p := &Policy{Custom: []CustomRule{{Name: "no-unstable", Pattern: "^unstable-", Action: "block"}}}
	p.Custom[0].compiled = regexp.MustCompile(p.Custom[0].Pattern)
	findings := p.Evaluate(&lockfile.Package{Name: "unstable-thing"}, nil)
	if len(findings) != 1 || findings[0].Severity != Error {
		t.Fatalf("expected custom block finding, got %+v", findings)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		findings []Finding
		strict   bool
		want     int
	}{
		{nil, false, 0},
		{[]Finding{{Severity: Warning}}, false, 2},
		{[]Finding{{Severity: Warning}}, true, 1},
		{[]Finding{{Severity: Error}}, false, 1},
	}
	for _, c := range cases {
		r := Report{Findings: c.findings}
		if got := r.ExitCode(c.strict); got != c.want {
			t.Fatalf("ExitCode(%v, strict=%v) = %d, want %d", c.findings, c.strict, got, c.want)
		}
	}
}
