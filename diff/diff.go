// Package diff computes and renders the difference between two lockfile
// package lists.
package diff

import (
	"sort"

	"github.com/shards-pm/shards/lockfile"
)

// Status is the per-package diff outcome.
type Status string

const (
	Added     Status = "Added"
	Removed   Status = "Removed"
	Updated   Status = "Updated"
	Unchanged Status = "Unchanged"
)

var statusRank = map[Status]int{
	Added:     0,
	Updated:   1,
	Removed:   2,
	Unchanged: 3,
}

// Change records one package's before/after state. From* and To* fields are
// empty on the side the package was absent.
type Change struct {
	Name   string
	Status Status

	FromVersion  string
	FromCommit   string
	FromSource   string
	FromResolver lockfile.ResolverKind
	FromLicense  string

	ToVersion  string
	ToCommit   string
	ToSource   string
	ToResolver lockfile.ResolverKind
	ToLicense  string
}

func license(pkg *lockfile.Package) string {
	if pkg == nil {
		return ""
	}
	spec, err := pkg.LoadSpec()
	if err != nil || spec == nil {
		return ""
	}
	l, _ := spec.EffectiveLicense()
	return l
}

// Diff computes the ordered change list between from and to, sorted by
// status rank then name.
func Diff(from, to []*lockfile.Package) []Change {
	fromByName := make(map[string]*lockfile.Package, len(from))
	for _, p := range from {
		fromByName[p.Name] = p
	}
	toByName := make(map[string]*lockfile.Package, len(to))
	for _, p := range to {
		toByName[p.Name] = p
	}

	names := make(map[string]struct{}, len(fromByName)+len(toByName))
	for n := range fromByName {
		names[n] = struct{}{}
	}
	for n := range toByName {
		names[n] = struct{}{}
	}

	changes := make([]Change, 0, len(names))
	for name := range names {
		f, hasFrom := fromByName[name]
		t, hasTo := toByName[name]

		c := Change{Name: name}
		if hasFrom {
			sv, commit := lockfile.SplitVersion(f.Version)
			c.FromVersion, c.FromCommit = sv, commit
			c.FromSource, c.FromResolver = f.Source, f.Resolver
			c.FromLicense = license(f)
		}
		if hasTo {
			sv, commit := lockfile.SplitVersion(t.Version)
			c.ToVersion, c.ToCommit = sv, commit
			c.ToSource, c.ToResolver = t.Source, t.Resolver
			c.ToLicense = license(t)
		}

		switch {
		case hasTo && !hasFrom:
			c.Status = Added
		case hasFrom && !hasTo:
			c.Status = Removed
		default:
			if c.FromVersion != c.ToVersion || c.FromCommit != c.ToCommit ||
				c.FromSource != c.ToSource || c.FromResolver != c.ToResolver ||
				c.FromLicense != c.ToLicense {
				c.Status = Updated
			} else {
				c.Status = Unchanged
			}
		}
		changes = append(changes, c)
	}

	sort.Slice(changes, func(i, j int) bool {
		ri, rj := statusRank[changes[i].Status], statusRank[changes[j].Status]
		if ri != rj {
			return ri < rj
		}
		return changes[i].Name < changes[j].Name
	})
	return changes
}

// Summary tallies a change list for report/JSON output.
type Summary struct {
	Added            int
	Removed          int
	Updated          int
	Unchanged        int
	LicenseChangeCount int
}

// Summarize counts changes by status and license transitions.
func Summarize(changes []Change) Summary {
	var s Summary
	for _, c := range changes {
		switch c.Status {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Updated:
			s.Updated++
		case Unchanged:
			s.Unchanged++
		}
		if c.FromLicense != c.ToLicense {
			s.LicenseChangeCount++
		}
	}
	return s
}
