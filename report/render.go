package report

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrUnknownFormat is returned by Render for a format not in {json, html,
// markdown}.
var ErrUnknownFormat = fmt.Errorf("unknown report format")

var statusStyle = map[string]lipgloss.Style{
	"pass":            lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"action_required": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	"fail":            lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

// Render dispatches to the requested format. It takes no color toggle: JSON
// and HTML output are never styled, and markdown styles only the overall
// status through lipgloss, which emits color codes only when it detects a
// color-capable terminal.
func Render(data Data, format string) ([]byte, error) {
	switch format {
	case "json":
		return renderJSON(data)
	case "html":
		return []byte(renderHTML(data)), nil
	case "markdown":
		return []byte(renderMarkdown(data)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// renderJSON pretty-prints the report nested under a top-level "report" key.
func renderJSON(data Data) ([]byte, error) {
	wrapped := struct {
		Report Data `json:"report"`
	}{data}
	return json.MarshalIndent(wrapped, "", "  ")
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Compliance report: {{PROJECT_NAME}}</title></head>
<body>
<h1>Compliance report: {{PROJECT_NAME}} {{PROJECT_VERSION}}</h1>
<p>Generated {{GENERATED_AT}} by {{GENERATOR}}</p>
<h2>Summary</h2>
<table border="1" cellpadding="4">
<tr><td>Overall status</td><td>{{OVERALL_STATUS}}</td></tr>
<tr><td>Total dependencies</td><td>{{TOTAL_DEPS}}</td></tr>
<tr><td>Direct</td><td>{{DIRECT_DEPS}}</td></tr>
<tr><td>Transitive</td><td>{{TRANSITIVE_DEPS}}</td></tr>
<tr><td>License status</td><td>{{LICENSE_STATUS}}</td></tr>
<tr><td>Policy status</td><td>{{POLICY_STATUS}}</td></tr>
</table>
<h2>Vulnerability counts</h2>
<table border="1" cellpadding="4">
{{VULN_ROWS}}
</table>
</body>
</html>
`

// renderHTML substitutes {{PLACEHOLDER}} tokens into an embedded template,
// HTML-escaping every user-derived string.
func renderHTML(data Data) string {
	var vulnRows strings.Builder
	for _, level := range severityLevels {
		fmt.Fprintf(&vulnRows, "<tr><td>%s</td><td>%d</td></tr>\n", html.EscapeString(level), data.Summary.VulnerabilityCounts[level])
	}

	out := htmlTemplate
	replacements := map[string]string{
		"{{PROJECT_NAME}}":     html.EscapeString(data.Project.Name),
		"{{PROJECT_VERSION}}":  html.EscapeString(data.Project.Version),
		"{{GENERATED_AT}}":     html.EscapeString(data.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")),
		"{{GENERATOR}}":        html.EscapeString(data.Generator),
		"{{OVERALL_STATUS}}":   html.EscapeString(data.Summary.OverallStatus),
		"{{TOTAL_DEPS}}":       fmt.Sprint(data.Summary.TotalDependencies),
		"{{DIRECT_DEPS}}":      fmt.Sprint(data.Summary.DirectDependencies),
		"{{TRANSITIVE_DEPS}}":  fmt.Sprint(data.Summary.TransitiveDependencies),
		"{{LICENSE_STATUS}}":   html.EscapeString(data.Summary.LicenseStatus),
		"{{POLICY_STATUS}}":    html.EscapeString(data.Summary.PolicyStatus),
		"{{VULN_ROWS}}":        vulnRows.String(),
	}
	for token, value := range replacements {
		out = strings.ReplaceAll(out, token, value)
	}
	return out
}

// renderMarkdown renders headed sections with summary/vulnerability tables.
func renderMarkdown(data Data) string {
	var b strings.Builder

	style := statusStyle[data.Summary.OverallStatus]
	fmt.Fprintf(&b, "# Compliance report: %s %s\n\n", data.Project.Name, data.Project.Version)
	fmt.Fprintf(&b, "Generated %s by %s\n\n", data.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"), data.Generator)
	fmt.Fprintf(&b, "**Overall status:** %s\n\n", style.Render(data.Summary.OverallStatus))

	b.WriteString("## Summary\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total dependencies | %d |\n", data.Summary.TotalDependencies)
	fmt.Fprintf(&b, "| Direct | %d |\n", data.Summary.DirectDependencies)
	fmt.Fprintf(&b, "| Transitive | %d |\n", data.Summary.TransitiveDependencies)
	fmt.Fprintf(&b, "| License status | %s |\n", data.Summary.LicenseStatus)
	fmt.Fprintf(&b, "| Policy status | %s |\n\n", data.Summary.PolicyStatus)

	b.WriteString("## Vulnerabilities\n\n")
	b.WriteString("| Severity | Count |\n|---|---|\n")
	for _, level := range severityLevels {
		fmt.Fprintf(&b, "| %s | %d |\n", level, data.Summary.VulnerabilityCounts[level])
	}

	if data.Attestation != nil {
		fmt.Fprintf(&b, "\n## Attestation\n\nReviewed by %s at %s\n", data.Attestation.Reviewer,
			data.Attestation.ReviewedAt.Format("2006-01-02T15:04:05Z07:00"))
	}

	return b.String()
}
