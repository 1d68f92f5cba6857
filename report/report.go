// Package report composes the compliance report: SBOM, vulnerability audit,
// license audit, policy compliance, integrity, and change history sections,
// each independently isolated so one failure doesn't sink the rest.
package report

import (
	"time"

	"github.com/shards-pm/shards/changelog"
	"github.com/shards-pm/shards/log"
)

// Generator identifies the tool that produced a report.
const Generator = "shards-compliance"

// Version is the report schema version.
const Version = "1.0"

// Project identifies the audited project in a report.
type Project struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	LanguageVersion string `json:"language_version"`

	// totalDependencyCount and directDependencyCount feed the summary's
	// total/direct/transitive rollup but aren't part of the report's
	// "project" JSON object.
	totalDependencyCount   int
	directDependencyCount  int
}

// NewProject builds a Project, including the dependency counts the summary
// computation needs but the report schema doesn't surface directly.
// totalDependencies is |packages| across the resolved lockfile;
// directDependencies is |root.spec.dependencies|.
func NewProject(name, version, languageVersion string, totalDependencies, directDependencies int) Project {
	return Project{
		Name: name, Version: version, LanguageVersion: languageVersion,
		totalDependencyCount: totalDependencies, directDependencyCount: directDependencies,
	}
}

// Summary is the report's top-level rollup.
type Summary struct {
	TotalDependencies      int            `json:"total_dependencies"`
	DirectDependencies     int            `json:"direct_dependencies"`
	TransitiveDependencies int            `json:"transitive_dependencies"`
	VulnerabilityCounts    map[string]int `json:"vulnerability_counts"`
	LicenseStatus          string         `json:"license_status"`
	PolicyStatus           string         `json:"policy_status"`
	IntegrityVerified      *bool          `json:"integrity_verified,omitempty"`
	OverallStatus          string         `json:"overall_status"`
}

// Attestation records a human reviewer's sign-off.
type Attestation struct {
	Reviewer   string    `json:"reviewer"`
	ReviewedAt time.Time `json:"reviewed_at"`
	Notes      string    `json:"notes,omitempty"`
}

// Sections holds each collected section, any of which may be nil when its
// collection failed or was skipped.
type Sections struct {
	SBOM                any `json:"sbom,omitempty"`
	VulnerabilityAudit   any `json:"vulnerability_audit,omitempty"`
	LicenseAudit         any `json:"license_audit,omitempty"`
	PolicyCompliance     any `json:"policy_compliance,omitempty"`
	Integrity            any `json:"integrity,omitempty"`
	ChangeHistory        any `json:"change_history,omitempty"`
}

// Data is the full compliance report.
type Data struct {
	Version     string       `json:"version"`
	GeneratedAt time.Time    `json:"generated_at"`
	Generator   string       `json:"generator"`
	Project     Project      `json:"project"`
	Summary     Summary      `json:"summary"`
	Sections    Sections     `json:"sections"`
	Reviewer    string       `json:"reviewer,omitempty"`
	Attestation *Attestation `json:"attestation,omitempty"`
	Signature   string       `json:"signature,omitempty"`
}

// tryCollect runs fn and converts a panic or error into a logged warning and
// a nil result, so one section's failure never aborts the rest of the
// report.
func tryCollect(label string, fn func() (any, error)) (result any) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("report: section %q panicked: %v", label, r)
			result = nil
		}
	}()
	v, err := fn()
	if err != nil {
		log.Warnf("report: section %q failed: %v", label, err)
		return nil
	}
	return v
}

// Inputs bundles the optional collaborators Build draws sections from. A nil
// field means that section is skipped (e.g. no license policy configured).
type Inputs struct {
	ProjectRoot string
	Project     Project

	CollectSBOM        func() (any, error)
	CollectVulns       func() (any, error)
	CollectLicenses    func() (any, error)
	CollectPolicy      func() (any, error) // nil when no policy file exists
	CollectIntegrity   func() (any, error)
}

// Build collects every configured section and computes the summary.
func Build(in Inputs, now time.Time) Data {
	data := Data{
		Version:     Version,
		GeneratedAt: now,
		Generator:   Generator + "/1",
		Project:     in.Project,
	}

	if in.CollectSBOM != nil {
		data.Sections.SBOM = tryCollect("sbom", in.CollectSBOM)
	}
	if in.CollectVulns != nil {
		data.Sections.VulnerabilityAudit = tryCollect("vulnerability_audit", in.CollectVulns)
	}
	if in.CollectLicenses != nil {
		data.Sections.LicenseAudit = tryCollect("license_audit", in.CollectLicenses)
	}
	if in.CollectPolicy != nil {
		data.Sections.PolicyCompliance = tryCollect("policy_compliance", in.CollectPolicy)
	}
	if in.CollectIntegrity != nil {
		data.Sections.Integrity = tryCollect("integrity", in.CollectIntegrity)
	}

	history, err := changelog.ReadHistory(in.ProjectRoot)
	if err != nil {
		log.Warnf("report: section %q failed: %v", "change_history", err)
	} else if history != nil {
		data.Sections.ChangeHistory = history
	}

	data.Summary = computeSummary(in.Project, data.Sections)
	return data
}
