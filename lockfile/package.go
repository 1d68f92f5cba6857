// Package lockfile models the resolved dependency graph the compliance
// subsystem reads and (for the checksum field) writes. Resolution itself,
// and the rest of the lockfile grammar, belong to the package manager's core;
// this package defines only the fields the compliance layer needs.
package lockfile

import (
	"regexp"
)

// ResolverKind is the tagged variant of where a dependency's source comes
// from.
type ResolverKind string

const (
	Git     ResolverKind = "git"
	Path    ResolverKind = "path"
	Hg      ResolverKind = "hg"
	Fossil  ResolverKind = "fossil"
)

// IsPath reports whether this resolver reads from a local directory rather
// than a version-control remote.
func (k ResolverKind) IsPath() bool { return k == Path }

// Package is a single resolved dependency entry.
//
// Identity is over (Name, Resolver, Source, Version); Checksum is metadata,
// not identity.
type Package struct {
	Name     string
	Resolver ResolverKind
	Source   string
	Version  string
	Checksum string // "" means absent (fresh install or pre-feature lockfile)

	// InstallPath is the on-disk location of the installed source tree, used
	// by checksum verification and license detection. It's not persisted to
	// the lockfile; callers set it after resolving the project's library
	// directory layout (conventionally "<lib>/<Name>").
	InstallPath string

	spec     *Spec
	specErr  error
	specLoad bool
}

// Identity returns the tuple the data model defines equality over.
func (p Package) Identity() [4]string {
	return [4]string{p.Name, string(p.Resolver), p.Source, p.Version}
}

var commitPinRe = regexp.MustCompile(`^(.*)\+(git|hg|fossil)\.commit\.([0-9a-fA-F]+)$`)

// SplitVersion splits a version string of the form "<semver>+<vcs>.commit.<hex>"
// into its semver and commit-hex components. Versions without the suffix
// return (version, "").
func SplitVersion(version string) (semverPart, commitHex string) {
	m := commitPinRe.FindStringSubmatch(version)
	if m == nil {
		return version, ""
	}
	return m[1], m[3]
}
