package vuln

import "time"

// Report is the aggregated result of an audit run across all scanned
// packages.
type Report struct {
	Results          []PackageScanResult
	VulnerabilityCount int // remaining after ignore/severity filtering
	IgnoredCount     int
	FilteredCount    int // suppressed by MinSeverity, not by an ignore rule
}

// Aggregate applies ignore rules and a minimum severity filter to raw
// per-package scan results, in that order, and tallies the outcome.
//
// MinSeverity of "" disables severity filtering.
func Aggregate(raw []PackageScanResult, rules []IgnoreRule, minSeverity Severity, now time.Time) Report {
	var report Report

	for _, pkg := range raw {
		var kept []Vulnerability
		for _, v := range pkg.Vulnerabilities {
			if ignored(v, rules, now) {
				report.IgnoredCount++
				continue
			}
			if minSeverity != "" && v.Severity.Less(minSeverity) {
				report.FilteredCount++
				continue
			}
			kept = append(kept, v)
		}
		report.Results = append(report.Results, PackageScanResult{
			PackageName:     pkg.PackageName,
			Purl:            pkg.Purl,
			Vulnerabilities: kept,
		})
		report.VulnerabilityCount += len(kept)
	}

	return report
}

func ignored(v Vulnerability, rules []IgnoreRule, now time.Time) bool {
	for _, r := range rules {
		if r.Active(now) && r.matches(v) {
			return true
		}
	}
	return false
}

// ExitCode returns 1 iff any remaining vulnerability meets or exceeds
// failAbove (default Low), else 0.
func (r Report) ExitCode(failAbove Severity) int {
	if failAbove == "" {
		failAbove = Low
	}
	for _, pkg := range r.Results {
		for _, v := range pkg.Vulnerabilities {
			if !v.Severity.Less(failAbove) {
				return 1
			}
		}
	}
	return 0
}
