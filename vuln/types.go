// Package vuln implements the batched vulnerability audit: mapping locked
// packages to purls, querying (and caching) a public vulnerability database,
// and aggregating the results against ignore rules and severity filters.
package vuln

import (
	"strings"
	"time"
)

// Severity is the normalized severity level.
type Severity string

const (
	Unknown  Severity = "Unknown"
	Low      Severity = "Low"
	Medium   Severity = "Medium"
	High     Severity = "High"
	Critical Severity = "Critical"
)

var severityRank = map[Severity]int{
	Unknown:  0,
	Low:      1,
	Medium:   2,
	High:     3,
	Critical: 4,
}

// Less reports whether s is strictly less severe than other.
func (s Severity) Less(other Severity) bool { return severityRank[s] < severityRank[other] }

// ParseSeverity normalizes a severity spelling to the canonical enum,
// case-insensitively, accepting the OSV/GHSA database_specific.severity
// values ("LOW", "MODERATE", "HIGH", "CRITICAL") as well as this package's
// own names. ok is false when s matches none of them.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UNKNOWN":
		return Unknown, true
	case "LOW":
		return Low, true
	case "MEDIUM", "MODERATE":
		return Medium, true
	case "HIGH":
		return High, true
	case "CRITICAL":
		return Critical, true
	default:
		return Unknown, false
	}
}

// SeverityFromCVSS maps a numeric CVSS base score to a severity level.
func SeverityFromCVSS(score float64) Severity {
	switch {
	case score >= 9.0:
		return Critical
	case score >= 7.0:
		return High
	case score >= 4.0:
		return Medium
	case score >= 0.0 && score <= 3.9:
		return Low
	default:
		return Unknown
	}
}

// Vulnerability is a single advisory affecting a package.
type Vulnerability struct {
	ID                string
	Summary           string
	Details           string
	Severity          Severity
	CVSSScore         *float64
	Aliases           []string
	References        []string
	Published         *time.Time
	Modified          *time.Time
	AffectedVersions  []string
}

// PackageScanResult ties a resolved package to its purl (if any) and the
// vulnerabilities found for it.
type PackageScanResult struct {
	PackageName string
	Purl        string // empty for path dependencies
	Vulnerabilities []Vulnerability
}

// IgnoreRule suppresses a vulnerability id/alias from reports.
type IgnoreRule struct {
	ID      string
	Reason  string
	Expires *time.Time
}

// Active reports whether the rule still applies at t (expired rules let the
// vulnerability resurface).
func (r IgnoreRule) Active(t time.Time) bool {
	return r.Expires == nil || t.Before(*r.Expires)
}
