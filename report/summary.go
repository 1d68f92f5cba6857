package report

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

var severityLevels = []string{"Critical", "High", "Medium", "Low", "Unknown"}

// computeSummary derives the report's rollup from its collected sections.
func computeSummary(project Project, sections Sections) Summary {
	s := Summary{
		VulnerabilityCounts: map[string]int{},
		LicenseStatus:       sectionStatus(sections.LicenseAudit),
		PolicyStatus:        sectionStatus(sections.PolicyCompliance),
	}

	for _, level := range severityLevels {
		s.VulnerabilityCounts[level] = 0
	}

	if sections.VulnerabilityAudit != nil {
		countSeverities(sections.VulnerabilityAudit, s.VulnerabilityCounts)
	}

	s.TotalDependencies = project.totalDependencyCount
	s.DirectDependencies = project.directDependencyCount
	if s.TotalDependencies > s.DirectDependencies {
		s.TransitiveDependencies = s.TotalDependencies - s.DirectDependencies
	}

	switch integrity := sections.Integrity.(type) {
	case IntegritySection:
		v := integrity.AllVerified
		s.IntegrityVerified = &v
	case map[string]any:
		if v, ok := integrity["all_verified"].(bool); ok {
			s.IntegrityVerified = &v
		}
	}

	s.OverallStatus = overallStatus(s)
	return s
}

// sectionStatus reports "pass" when a section was collected, regardless of
// its content, and "unavailable" when it wasn't collected at all. A
// stricter, violation-aware mapping is a defensible future strengthening,
// not adopted here.
func sectionStatus(section any) string {
	if section == nil {
		return "unavailable"
	}
	return "pass"
}

// countSeverities marshals the collected vulnerability-audit section to JSON
// and tallies every object's "Severity" value that names a known level,
// walking the tree at any depth rather than assuming a fixed path. Any
// value whose JSON encoding carries those keys works (a vuln.Report or a
// parsed map); a section that is itself a JSON string is not parsed.
func countSeverities(section any, counts map[string]int) {
	data, err := json.Marshal(section)
	if err != nil {
		return
	}
	walkSeverities(gjson.ParseBytes(data), counts)
}

func walkSeverities(v gjson.Result, counts map[string]int) {
	if v.IsObject() {
		if sev := v.Get("Severity"); sev.Exists() {
			if _, known := counts[sev.String()]; known {
				counts[sev.String()]++
			}
		}
		v.ForEach(func(_, child gjson.Result) bool {
			walkSeverities(child, counts)
			return true
		})
		return
	}
	if v.IsArray() {
		v.ForEach(func(_, child gjson.Result) bool {
			walkSeverities(child, counts)
			return true
		})
	}
}

// overallStatus rolls the section statuses up into one fixed verdict.
func overallStatus(s Summary) string {
	fail := s.VulnerabilityCounts["Critical"] > 0 ||
		s.VulnerabilityCounts["High"] > 0 ||
		s.LicenseStatus == "fail" ||
		s.PolicyStatus == "fail"
	if fail {
		return "fail"
	}

	actionRequired := s.VulnerabilityCounts["Medium"] > 0 ||
		s.LicenseStatus == "warning" ||
		s.PolicyStatus == "warning" ||
		(s.IntegrityVerified != nil && !*s.IntegrityVerified)
	if actionRequired {
		return "action_required"
	}

	return "pass"
}
