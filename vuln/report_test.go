package vuln

import (
	"testing"
	"time"
)

func TestExitCodeSeverityThreshold(t *testing.T) {
	cases := []struct {
		name      string
		severity  Severity
		failAbove Severity
		want      int
	}{
		{"below threshold passes", Medium, High, 0},
		{"at threshold fails", High, High, 1},
		{"above threshold fails", Critical, High, 1},
		{"default floor is Low", Low, "", 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := Report{Results: []PackageScanResult{{Vulnerabilities: []Vulnerability{{ID: "GHSA-1", Severity: c.severity}}}}}
			if got := r.ExitCode(c.failAbove); got != c.want {
				t.Errorf("ExitCode(%s) with severity %s = %d, want %d", c.failAbove, c.severity, got, c.want)
			}
		})
	}
}

func TestExitCodeNeedsNormalizedFailAbove(t *testing.T) {
	// A raw cast of "critical" (lowercase) into Severity ranks as Unknown
	// (0), inverting the threshold; callers must run flag values through
	// ParseSeverity first rather than casting them directly.
	raw := Severity("critical")
	r := Report{Results: []PackageScanResult{{Vulnerabilities: []Vulnerability{{ID: "GHSA-1", Severity: High}}}}}
	if got := r.ExitCode(raw); got != 1 {
		t.Fatalf("ExitCode with unnormalized floor = %d, want 1 (demonstrates why callers must normalize)", got)
	}

	floor, ok := ParseSeverity("critical")
	if !ok {
		t.Fatal("ParseSeverity(\"critical\") should succeed")
	}
	if got := r.ExitCode(floor); got != 0 {
		t.Errorf("ExitCode with normalized floor = %d, want 0", got)
	}
}

func TestAggregateIgnoreRules(t *testing.T) {
	raw := []PackageScanResult{{
		PackageName:     "left-pad",
		Vulnerabilities: []Vulnerability{{ID: "GHSA-1", Severity: High}, {ID: "GHSA-2", Severity: Low}},
	}}
	rules := []IgnoreRule{{ID: "GHSA-1"}}
	report := Aggregate(raw, rules, "", time.Now())

	if report.IgnoredCount != 1 {
		t.Errorf("IgnoredCount = %d, want 1", report.IgnoredCount)
	}
	if report.VulnerabilityCount != 1 {
		t.Errorf("VulnerabilityCount = %d, want 1", report.VulnerabilityCount)
	}
	if len(report.Results[0].Vulnerabilities) != 1 || report.Results[0].Vulnerabilities[0].ID != "GHSA-2" {
		t.Errorf("unexpected surviving vulnerabilities: %+v", report.Results[0].Vulnerabilities)
	}
}

func TestAggregateMinSeverityFilter(t *testing.T) {
	raw := []PackageScanResult{{
		PackageName:     "left-pad",
		Vulnerabilities: []Vulnerability{{ID: "GHSA-1", Severity: High}, {ID: "GHSA-2", Severity: Low}},
	}}
	report := Aggregate(raw, nil, Medium, time.Now())

	if report.FilteredCount != 1 {
		t.Errorf("FilteredCount = %d, want 1", report.FilteredCount)
	}
	if report.VulnerabilityCount != 1 {
		t.Errorf("VulnerabilityCount = %d, want 1", report.VulnerabilityCount)
	}
}

func TestIgnoreRuleExpiry(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	rule := IgnoreRule{ID: "GHSA-1", Expires: &past}
	if rule.Active(now) {
		t.Fatal("expected expired rule to be inactive")
	}

	future := now.Add(time.Hour)
	rule.Expires = &future
	if !rule.Active(now) {
		t.Fatal("expected unexpired rule to be active")
	}
}
