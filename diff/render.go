package diff

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	addedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	updatedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func glyph(s Status) string {
	switch s {
	case Added:
		return "+"
	case Removed:
		return "-"
	case Updated:
		return "~"
	default:
		return " "
	}
}

func style(s Status, colorize bool) func(string) string {
	if !colorize {
		return func(s string) string { return s }
	}
	var st lipgloss.Style
	switch s {
	case Added:
		st = addedStyle
	case Removed:
		st = removedStyle
	case Updated:
		st = updatedStyle
	default:
		st = unchangedStyle
	}
	return st.Render
}

// Report is a rendering-ready diff between two labelled lockfile states.
type Report struct {
	FromLabel string
	ToLabel   string
	Changes   []Change
	Summary   Summary
}

// NewReport builds a Report from a computed change list.
func NewReport(fromLabel, toLabel string, changes []Change) Report {
	return Report{FromLabel: fromLabel, ToLabel: toLabel, Changes: changes, Summary: Summarize(changes)}
}

// RenderTerminal writes a glyph/color annotated listing, omitting Unchanged
// entries by default since they add no signal to an interactive diff.
func (r Report) RenderTerminal(colorize bool, showUnchanged bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -> %s\n", r.FromLabel, r.ToLabel)
	for _, c := range r.Changes {
		if c.Status == Unchanged && !showUnchanged {
			continue
		}
		line := fmt.Sprintf("%s %s", glyph(c.Status), describe(c))
		b.WriteString(wordwrap.String(style(c.Status, colorize)(line), 100))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\n%d added, %d removed, %d updated, %d unchanged (%d license changes)\n",
		r.Summary.Added, r.Summary.Removed, r.Summary.Updated, r.Summary.Unchanged, r.Summary.LicenseChangeCount)
	return b.String()
}

func describe(c Change) string {
	switch c.Status {
	case Added:
		return fmt.Sprintf("%s %s", c.Name, c.ToVersion)
	case Removed:
		return fmt.Sprintf("%s %s", c.Name, c.FromVersion)
	case Updated:
		return fmt.Sprintf("%s %s -> %s", c.Name, c.FromVersion, c.ToVersion)
	default:
		return fmt.Sprintf("%s %s", c.Name, c.ToVersion)
	}
}

type jsonChange struct {
	Name        string `json:"name"`
	FromVersion string `json:"from_version,omitempty"`
	ToVersion   string `json:"to_version,omitempty"`
	FromCommit  string `json:"from_commit,omitempty"`
	ToCommit    string `json:"to_commit,omitempty"`
}

// RenderJSON renders `{from_label, to_label, changes: {added, removed,
// updated}, summary}`.
func (r Report) RenderJSON() ([]byte, error) {
	grouped := struct {
		Added   []jsonChange `json:"added"`
		Removed []jsonChange `json:"removed"`
		Updated []jsonChange `json:"updated"`
	}{}
	for _, c := range r.Changes {
		jc := jsonChange{Name: c.Name, FromVersion: c.FromVersion, ToVersion: c.ToVersion, FromCommit: c.FromCommit, ToCommit: c.ToCommit}
		switch c.Status {
		case Added:
			grouped.Added = append(grouped.Added, jc)
		case Removed:
			grouped.Removed = append(grouped.Removed, jc)
		case Updated:
			grouped.Updated = append(grouped.Updated, jc)
		}
	}

	out := struct {
		FromLabel string `json:"from_label"`
		ToLabel   string `json:"to_label"`
		Changes   any    `json:"changes"`
		Summary   Summary `json:"summary"`
	}{r.FromLabel, r.ToLabel, grouped, r.Summary}

	return json.MarshalIndent(out, "", "  ")
}

// RenderMarkdown renders a table suitable for a pull-request description.
func (r Report) RenderMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Dependency changes: `%s` -> `%s`\n\n", r.FromLabel, r.ToLabel)
	b.WriteString("| | Package | From | To |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, c := range r.Changes {
		if c.Status == Unchanged {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", glyph(c.Status), c.Name, c.FromVersion, c.ToVersion)
	}
	fmt.Fprintf(&b, "\n%d added, %d removed, %d updated, %d license changes\n",
		r.Summary.Added, r.Summary.Removed, r.Summary.Updated, r.Summary.LicenseChangeCount)
	return b.String()
}
