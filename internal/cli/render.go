package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shards-pm/shards/license"
	"github.com/shards-pm/shards/policy"
	"github.com/shards-pm/shards/vuln"
)

var (
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func severityStyle(s vuln.Severity) lipgloss.Style {
	switch s {
	case vuln.Critical:
		return criticalStyle
	case vuln.High:
		return highStyle
	case vuln.Medium:
		return mediumStyle
	default:
		return lowStyle
	}
}

func maybeRender(style lipgloss.Style, colorize bool, s string) string {
	if !colorize {
		return s
	}
	return style.Render(s)
}

// renderAuditTerminal lists each package's remaining vulnerabilities,
// grouped by package, with a trailing tally.
func renderAuditTerminal(r vuln.Report, colorize bool) string {
	var b strings.Builder
	any := false
	for _, pkg := range r.Results {
		if len(pkg.Vulnerabilities) == 0 {
			continue
		}
		any = true
		fmt.Fprintf(&b, "%s (%s)\n", pkg.PackageName, pkg.Purl)
		for _, v := range pkg.Vulnerabilities {
			sev := maybeRender(severityStyle(v.Severity), colorize, string(v.Severity))
			fmt.Fprintf(&b, "  [%s] %s: %s\n", sev, v.ID, v.Summary)
		}
	}
	if !any {
		b.WriteString("no vulnerabilities found\n")
	}
	fmt.Fprintf(&b, "\n%d vulnerabilities, %d ignored, %d filtered by severity\n",
		r.VulnerabilityCount, r.IgnoredCount, r.FilteredCount)
	return b.String()
}

// renderLicenseTerminal lists each dependency's license verdict.
func renderLicenseTerminal(r license.Report, colorize bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)\n\n", r.RootName, r.RootVersion, licenseOrNone(r.RootLicense))
	for _, e := range r.Dependencies {
		verdict := string(e.Verdict)
		if colorize && (e.Verdict == license.Denied || e.Verdict == license.Unlicensed) {
			verdict = errorStyle.Render(verdict)
		} else if colorize && e.Verdict == license.Unknown {
			verdict = warnStyle.Render(verdict)
		}
		fmt.Fprintf(&b, "  %-30s %-20s %s (%s)\n", e.Package, licenseOrNone(e.Effective), verdict, e.Source)
	}
	fmt.Fprintf(&b, "\n%d total: %d allowed, %d denied, %d unlicensed, %d unknown, %d overridden\n",
		r.Summary.Total, r.Summary.Allowed, r.Summary.Denied, r.Summary.Unlicensed, r.Summary.Unknown, r.Summary.Overridden)
	return b.String()
}

func licenseOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// renderPolicyTerminal lists each finding with its severity.
func renderPolicyTerminal(r policy.Report, colorize bool) string {
	var b strings.Builder
	if len(r.Findings) == 0 {
		b.WriteString("no policy violations\n")
		return b.String()
	}
	for _, f := range r.Findings {
		sev := string(f.Severity)
		if colorize {
			if f.Severity == policy.Error {
				sev = errorStyle.Render(sev)
			} else {
				sev = warnStyle.Render(sev)
			}
		}
		fmt.Fprintf(&b, "[%s] %s: %s (%s)\n", sev, f.Package, f.Message, f.Rule)
	}
	return b.String()
}
