package license

import (
	"fmt"
	"os"

	"bitbucket.org/creachadair/stringset"
	"github.com/thoas/go-funk"
	yaml "go.yaml.in/yaml/v3"

	"github.com/shards-pm/shards/lockfile"
	"github.com/shards-pm/shards/spdx"
)

// FileName is the conventional project-relative path for the license policy.
const FileName = ".shards-license-policy.yml"

// Override pins a package's license, bypassing detection.
type Override struct {
	License string `yaml:"license"`
	Reason  string `yaml:"reason,omitempty"`
}

// Policy is the loaded license policy.
type Policy struct {
	Allowed        stringset.Set
	Denied         stringset.Set
	RequireLicense bool
	Overrides      map[string]Override
}

type rawPolicy struct {
	Policy struct {
		Allowed        []string             `yaml:"allowed"`
		Denied         []string             `yaml:"denied"`
		RequireLicense bool                 `yaml:"require_license"`
		Overrides      map[string]Override  `yaml:"overrides"`
	} `yaml:"policy"`
}

// Load reads the license policy at path. A missing file means "reporting
// only": an empty Policy with no allow/deny filter.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Policy{Allowed: stringset.New(), Denied: stringset.New(), Overrides: map[string]Override{}}, nil
		}
		return nil, fmt.Errorf("license policy: read %s: %w", path, err)
	}
	var raw rawPolicy
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("license policy: parse %s: %w", path, err)
	}
	if raw.Policy.Overrides == nil {
		raw.Policy.Overrides = map[string]Override{}
	}
	return &Policy{
		Allowed:        stringset.New(raw.Policy.Allowed...),
		Denied:         stringset.New(raw.Policy.Denied...),
		RequireLicense: raw.Policy.RequireLicense,
		Overrides:      raw.Policy.Overrides,
	}, nil
}

// Verdict is the per-package license policy outcome.
type Verdict string

const (
	Allowed     Verdict = "Allowed"
	Denied      Verdict = "Denied"
	Unlicensed  Verdict = "Unlicensed"
	Unknown     Verdict = "Unknown"
	Overridden  Verdict = "Overridden"
)

// Source records where the effective license string came from.
type Source string

const (
	SourceDeclared Source = "Declared"
	SourceDetected Source = "Detected"
	SourceOverride Source = "Override"
	SourceNone     Source = "None"
)

// Evaluation is the full per-package evaluation result.
type Evaluation struct {
	Package    string
	Effective  string
	Source     Source
	Verdict    Verdict
	Reason     string
	SPDXValid  bool
}

// Evaluate scores one package against p, in override, declared, detected,
// then unknown order.
// detect, when non-nil, is called to obtain a detected license for packages
// with no declared license (callers that don't want filesystem scanning,
// e.g. `licenses --no-detect`, pass nil).
func (p *Policy) Evaluate(pkg *lockfile.Package, detect func(installPath string) ScanResult) Evaluation {
	if ov, ok := p.Overrides[pkg.Name]; ok {
		return Evaluation{
			Package:   pkg.Name,
			Effective: ov.License,
			Source:    SourceOverride,
			Verdict:   Overridden,
			Reason:    ov.Reason,
			SPDXValid: true,
		}
	}

	var effective string
	var source Source
	spec, _ := pkg.LoadSpec()
	if declared, ok := spec.EffectiveLicense(); ok {
		effective, source = declared, SourceDeclared
	} else if detect != nil && pkg.InstallPath != "" {
		if r := detect(pkg.InstallPath); r.ID != "" {
			effective, source = r.ID, SourceDetected
		}
	}

	if effective == "" {
		verdict := Unknown
		if p.RequireLicense {
			verdict = Unlicensed
		}
		return Evaluation{Package: pkg.Name, Source: SourceNone, Verdict: verdict}
	}

	expr, err := spdx.Parse(effective)
	if err != nil {
		// Parse failure: fall back to plain identifier membership.
		verdict := Unknown
		switch {
		case p.Denied.Contains(effective):
			verdict = Denied
		case p.Allowed.Empty() || p.Allowed.Contains(effective):
			verdict = Allowed
		}
		return Evaluation{Package: pkg.Name, Effective: effective, Source: source, Verdict: verdict, SPDXValid: false}
	}

	ids := expr.LicenseIDs()
	verdict := Unknown
	switch {
	case idsIntersect(ids, p.Denied):
		verdict = Denied
	case p.Allowed.Empty():
		verdict = Allowed
	case expr.SatisfiedBy(p.Allowed):
		verdict = Allowed
	}
	return Evaluation{Package: pkg.Name, Effective: effective, Source: source, Verdict: verdict, SPDXValid: true}
}

func idsIntersect(ids, denied stringset.Set) bool {
	found := false
	ids.Each(func(id string) bool {
		if denied.Contains(id) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Summary tallies verdicts across a dependency set.
type Summary struct {
	Total      int
	Allowed    int
	Denied     int
	Unlicensed int
	Unknown    int
	Overridden int
}

// Report is the aggregate license audit.
type Report struct {
	RootName       string
	RootVersion    string
	RootLicense    string
	Dependencies   []Evaluation
	Summary        Summary
	PolicyLoaded   bool
}

// Aggregate builds a Report from per-package evaluations, preserving
// evaluation order.
func Aggregate(root *lockfile.RootSpec, evals []Evaluation, policyLoaded bool) Report {
	r := Report{
		RootName:     root.Name,
		RootVersion:  root.Version,
		RootLicense:  root.License,
		Dependencies: evals,
		PolicyLoaded: policyLoaded,
	}
	r.Summary.Total = len(evals)
	for _, e := range evals {
		switch e.Verdict {
		case Allowed:
			r.Summary.Allowed++
		case Denied:
			r.Summary.Denied++
		case Unlicensed:
			r.Summary.Unlicensed++
		case Unknown:
			r.Summary.Unknown++
		case Overridden:
			r.Summary.Overridden++
		}
	}
	return r
}

// NamesWithVerdict lists the packages in evals carrying verdict v, in
// evaluation order.
func NamesWithVerdict(evals []Evaluation, v Verdict) []string {
	filtered := funk.Filter(evals, func(e Evaluation) bool { return e.Verdict == v }).([]Evaluation)
	return funk.Map(filtered, func(e Evaluation) string { return e.Package }).([]string)
}
