// Package policy implements the dependency policy engine: loading
// `.shards-policy.yml`, evaluating packages against its rules, and rendering
// the resulting report.
package policy

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/shards-pm/shards/lockfile"
)

// FileName is the project-relative dependency policy path.
const FileName = ".shards-policy.yml"

// Rule names as they appear in a PolicyReport entry.
const (
	RuleBlockedDependency   = "blocked_dependency"
	RuleDenyPathDependency  = "deny_path_dependencies"
	RuleAllowedHosts        = "allowed_hosts"
	RuleAllowedOrgs         = "allowed_orgs"
	RuleMinimumVersion      = "minimum_version"
	RuleRequireLicense      = "require_license"
	RuleBlockPostinstall    = "block_postinstall"
	RuleAuditPostinstall    = "audit_postinstall"
)

// Severity is the per-finding severity.
type Severity string

const (
	Error   Severity = "Error"
	Warning Severity = "Warning"
)

// BlockedDependency names a package disallowed outright.
type BlockedDependency struct {
	Name   string `yaml:"name"`
	Reason string `yaml:"reason,omitempty"`
}

// CustomRule matches package names by regex and maps to an action.
type CustomRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Action  string `yaml:"action"` // "warn" | "block"
	Reason  string `yaml:"reason,omitempty"`

	compiled *regexp.Regexp
}

type sourcesPolicy struct {
	AllowedHosts         []string            `yaml:"allowed_hosts"`
	AllowedOrgs          map[string][]string `yaml:"allowed_orgs"`
	DenyPathDependencies bool                `yaml:"deny_path_dependencies"`
}

type dependenciesPolicy struct {
	Blocked          []BlockedDependency `yaml:"blocked"`
	MinimumVersions  map[string]string   `yaml:"minimum_versions"`
}

type securityPolicy struct {
	RequireLicense   bool `yaml:"require_license"`
	RequireChecksum  bool `yaml:"require_checksum"`
	BlockPostinstall bool `yaml:"block_postinstall"`
	AuditPostinstall bool `yaml:"audit_postinstall"`
}

// freshnessPolicy is reserved for a future release (not yet evaluated by
// Evaluate): parsed so a policy file declaring it round-trips cleanly, but
// it contributes no findings.
type freshnessPolicy struct {
	MaxAgeDays          int `yaml:"max_age_days"`
	RequireRecentCommit int `yaml:"require_recent_commit"`
}

type rawRules struct {
	Sources      sourcesPolicy      `yaml:"sources"`
	Dependencies dependenciesPolicy `yaml:"dependencies"`
	Freshness    freshnessPolicy    `yaml:"freshness"`
	Security     securityPolicy     `yaml:"security"`
	Custom       []CustomRule       `yaml:"custom"`
}

type rawPolicy struct {
	Version string   `yaml:"version"`
	Rules   rawRules `yaml:"rules"`
}

// Policy is the parsed dependency policy.
type Policy struct {
	Version      string
	Sources      sourcesPolicy
	Dependencies dependenciesPolicy
	Security     securityPolicy
	Custom       []CustomRule
}

// Load reads the dependency policy at path. A missing file is not an error:
// the install/update path treats it as "no policy configured".
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("policy: read %s: %w", path, err)
	}

	var raw rawPolicy
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("policy: parse %s: %w", path, err)
	}

	for i := range raw.Rules.Custom {
		re, err := regexp.Compile("(?i)" + raw.Rules.Custom[i].Pattern)
		if err != nil {
			return nil, fmt.Errorf("policy: custom rule %q: invalid pattern: %w", raw.Rules.Custom[i].Name, err)
		}
		raw.Rules.Custom[i].compiled = re
	}

	return &Policy{
		Version:      raw.Version,
		Sources:      raw.Rules.Sources,
		Dependencies: raw.Rules.Dependencies,
		Security:     raw.Rules.Security,
		Custom:       raw.Rules.Custom,
	}, nil
}

// Finding is one policy report entry.
type Finding struct {
	Package  string
	Rule     string
	Severity Severity
	Message  string
}

// Report is the ordered list of findings from an evaluation run.
type Report struct {
	Findings []Finding
}

// ExitCode maps a report to the command's exit status: 1 if any finding is
// Error-severity, 1 if strict and any finding is Warning-severity, 2 if any
// finding is Warning-severity, 0 otherwise.
func (r Report) ExitCode(strict bool) int {
	hasError, hasWarning := false, false
	for _, f := range r.Findings {
		switch f.Severity {
		case Error:
			hasError = true
		case Warning:
			hasWarning = true
		}
	}
	switch {
	case hasError:
		return 1
	case hasWarning && strict:
		return 1
	case hasWarning:
		return 2
	default:
		return 0
	}
}

// hasPostinstall reports whether pkg's manifest declares a postinstall
// script, tolerating a missing/unreadable spec.
func hasPostinstall(pkg *lockfile.Package) bool {
	spec, err := pkg.LoadSpec()
	if err != nil || spec == nil {
		return false
	}
	return spec.HasPostinstall()
}

// hostAndOwner parses a package source URL into (host, owner). A
// non-parseable source returns ok=false and every host/org check is
// skipped for that package.
func hostAndOwner(source string) (host, owner string, ok bool) {
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return "", "", false
	}
	host = strings.ToLower(u.Host)
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == "" {
			continue
		}
		owner = strings.TrimSuffix(seg, ".git")
		break
	}
	return host, owner, true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Evaluate scores a single package against p, appending findings in rule
// table order. satisfiesMinimum decides whether a package's version meets a
// minimum-version requirement string; callers normally pass
// SatisfiesMinimum, and a nil func skips the minimum_versions check.
func (p *Policy) Evaluate(pkg *lockfile.Package, satisfiesMinimum func(version, requirement string) bool) []Finding {
	var findings []Finding

	for _, b := range p.Dependencies.Blocked {
		if b.Name == pkg.Name {
			msg := fmt.Sprintf("%s is blocked by policy", pkg.Name)
			if b.Reason != "" {
				msg += ": " + b.Reason
			}
			findings = append(findings, Finding{pkg.Name, RuleBlockedDependency, Error, msg})
		}
	}

	if pkg.Resolver.IsPath() && p.Sources.DenyPathDependencies {
		findings = append(findings, Finding{pkg.Name, RuleDenyPathDependency, Error,
			fmt.Sprintf("%s is a path dependency; path dependencies are denied by policy", pkg.Name)})
	}

	if !pkg.Resolver.IsPath() {
		host, owner, ok := hostAndOwner(pkg.Source)
		if ok {
			if len(p.Sources.AllowedHosts) > 0 && !contains(p.Sources.AllowedHosts, host) {
				findings = append(findings, Finding{pkg.Name, RuleAllowedHosts, Error,
					fmt.Sprintf("%s is hosted on %s, which is not in allowed_hosts", pkg.Name, host)})
			} else if orgs, defined := p.Sources.AllowedOrgs[host]; defined && !contains(orgs, owner) {
				findings = append(findings, Finding{pkg.Name, RuleAllowedOrgs, Error,
					fmt.Sprintf("%s is owned by %s on %s, which is not in allowed_orgs", pkg.Name, owner, host)})
			}
		}
	}

	if req, ok := p.Dependencies.MinimumVersions[pkg.Name]; ok && satisfiesMinimum != nil {
		if !satisfiesMinimum(pkg.Version, req) {
			findings = append(findings, Finding{pkg.Name, RuleMinimumVersion, Error,
				fmt.Sprintf("%s@%s does not satisfy minimum version %s", pkg.Name, pkg.Version, req)})
		}
	}

	if p.Security.RequireLicense {
		spec, err := pkg.LoadSpec()
		missing := err != nil || spec == nil
		if !missing {
			_, ok := spec.EffectiveLicense()
			missing = !ok
		}
		if missing {
			findings = append(findings, Finding{pkg.Name, RuleRequireLicense, Warning,
				fmt.Sprintf("%s declares no license", pkg.Name)})
		}
	}

	if hasPostinstall(pkg) {
		if p.Security.BlockPostinstall {
			findings = append(findings, Finding{pkg.Name, RuleBlockPostinstall, Error,
				fmt.Sprintf("%s has a postinstall script, which is blocked by policy", pkg.Name)})
		} else if p.Security.AuditPostinstall {
			findings = append(findings, Finding{pkg.Name, RuleAuditPostinstall, Warning,
				fmt.Sprintf("%s has a postinstall script", pkg.Name)})
		}
	}

	for _, c := range p.Custom {
		if c.compiled == nil || !c.compiled.MatchString(pkg.Name) {
			continue
		}
		sev := Warning
		if c.Action == "block" {
			sev = Error
		}
		msg := fmt.Sprintf("%s matched custom rule %q", pkg.Name, c.Name)
		if c.Reason != "" {
			msg += ": " + c.Reason
		}
		findings = append(findings, Finding{pkg.Name, "custom:" + c.Name, sev, msg})
	}

	return findings
}

// EvaluateAll evaluates every package in pkgs, preserving package order and
// concatenating each package's findings.
func (p *Policy) EvaluateAll(pkgs []*lockfile.Package, satisfiesMinimum func(version, requirement string) bool) Report {
	var report Report
	for _, pkg := range pkgs {
		report.Findings = append(report.Findings, p.Evaluate(pkg, satisfiesMinimum)...)
	}
	return report
}
