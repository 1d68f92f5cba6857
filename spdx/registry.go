// Package spdx implements a small registry of canonical SPDX license
// identifiers and a parser/evaluator for SPDX license expressions.
package spdx

// Category classifies a license's general obligations.
type Category string

const (
	Permissive     Category = "Permissive"
	WeakCopyleft   Category = "WeakCopyleft"
	StrongCopyleft Category = "StrongCopyleft"
	NonCommercial  Category = "NonCommercial"
	PublicDomain   Category = "PublicDomain"
	Proprietary    Category = "Proprietary"
	UnknownCat     Category = "Unknown"
)

// License is a registry entry.
type License struct {
	ID          string
	Name        string
	OSIApproved bool
	Category    Category
}

// LicenseRefPrefix marks an identifier as a non-registry reference, valid
// without being a registered SPDX id.
const LicenseRefPrefix = "LicenseRef-"

// registry holds the ~50 canonical identifiers the subsystem recognizes.
var registry = map[string]License{
	"MIT":               {"MIT", "MIT License", true, Permissive},
	"Apache-2.0":        {"Apache-2.0", "Apache License 2.0", true, Permissive},
	"BSD-2-Clause":      {"BSD-2-Clause", "BSD 2-Clause License", true, Permissive},
	"BSD-3-Clause":      {"BSD-3-Clause", "BSD 3-Clause License", true, Permissive},
	"BSD-4-Clause":      {"BSD-4-Clause", "BSD 4-Clause License", false, Permissive},
	"ISC":               {"ISC", "ISC License", true, Permissive},
	"Zlib":              {"Zlib", "zlib License", true, Permissive},
	"Unlicense":         {"Unlicense", "The Unlicense", true, PublicDomain},
	"CC0-1.0":           {"CC0-1.0", "Creative Commons Zero v1.0 Universal", true, PublicDomain},
	"WTFPL":             {"WTFPL", "Do What The F*ck You Want To Public License", true, Permissive},
	"0BSD":              {"0BSD", "BSD Zero Clause License", true, Permissive},
	"BSL-1.0":           {"BSL-1.0", "Boost Software License 1.0", true, Permissive},
	"NCSA":              {"NCSA", "University of Illinois/NCSA Open Source License", true, Permissive},
	"PostgreSQL":        {"PostgreSQL", "PostgreSQL License", true, Permissive},
	"Python-2.0":        {"Python-2.0", "Python License 2.0", true, Permissive},
	"MPL-1.1":           {"MPL-1.1", "Mozilla Public License 1.1", true, WeakCopyleft},
	"MPL-2.0":           {"MPL-2.0", "Mozilla Public License 2.0", true, WeakCopyleft},
	"EPL-1.0":           {"EPL-1.0", "Eclipse Public License 1.0", true, WeakCopyleft},
	"EPL-2.0":           {"EPL-2.0", "Eclipse Public License 2.0", true, WeakCopyleft},
	"CDDL-1.0":          {"CDDL-1.0", "Common Development and Distribution License 1.0", true, WeakCopyleft},
	"CDDL-1.1":          {"CDDL-1.1", "Common Development and Distribution License 1.1", false, WeakCopyleft},
	"LGPL-2.0-only":     {"LGPL-2.0-only", "GNU Library General Public License v2 only", true, WeakCopyleft},
	"LGPL-2.0-or-later": {"LGPL-2.0-or-later", "GNU Library General Public License v2 or later", true, WeakCopyleft},
	"LGPL-2.1-only":     {"LGPL-2.1-only", "GNU Lesser General Public License v2.1 only", true, WeakCopyleft},
	"LGPL-2.1-or-later": {"LGPL-2.1-or-later", "GNU Lesser General Public License v2.1 or later", true, WeakCopyleft},
	"LGPL-3.0-only":     {"LGPL-3.0-only", "GNU Lesser General Public License v3.0 only", true, WeakCopyleft},
	"LGPL-3.0-or-later": {"LGPL-3.0-or-later", "GNU Lesser General Public License v3.0 or later", true, WeakCopyleft},
	"GPL-1.0-only":      {"GPL-1.0-only", "GNU General Public License v1.0 only", false, StrongCopyleft},
	"GPL-2.0-only":      {"GPL-2.0-only", "GNU General Public License v2.0 only", true, StrongCopyleft},
	"GPL-2.0-or-later":  {"GPL-2.0-or-later", "GNU General Public License v2.0 or later", true, StrongCopyleft},
	"GPL-3.0-only":      {"GPL-3.0-only", "GNU General Public License v3.0 only", true, StrongCopyleft},
	"GPL-3.0-or-later":  {"GPL-3.0-or-later", "GNU General Public License v3.0 or later", true, StrongCopyleft},
	"AGPL-1.0-only":     {"AGPL-1.0-only", "Affero General Public License v1.0", false, StrongCopyleft},
	"AGPL-3.0-only":     {"AGPL-3.0-only", "GNU Affero General Public License v3.0 only", true, StrongCopyleft},
	"AGPL-3.0-or-later": {"AGPL-3.0-or-later", "GNU Affero General Public License v3.0 or later", true, StrongCopyleft},
	"OSL-3.0":           {"OSL-3.0", "Open Software License 3.0", true, StrongCopyleft},
	"EUPL-1.2":          {"EUPL-1.2", "European Union Public License 1.2", true, WeakCopyleft},
	"Artistic-2.0":      {"Artistic-2.0", "Artistic License 2.0", true, Permissive},
	"Vim":               {"Vim", "Vim License", false, Permissive},
	"Ruby":              {"Ruby", "Ruby License", false, WeakCopyleft},
	"CC-BY-4.0":         {"CC-BY-4.0", "Creative Commons Attribution 4.0", true, Permissive},
	"CC-BY-SA-4.0":      {"CC-BY-SA-4.0", "Creative Commons Attribution Share Alike 4.0", false, WeakCopyleft},
	"CC-BY-NC-4.0":      {"CC-BY-NC-4.0", "Creative Commons Attribution Non Commercial 4.0", false, NonCommercial},
	"JSON":              {"JSON", "JSON License", false, Permissive},
	"OpenSSL":           {"OpenSSL", "OpenSSL License", false, Permissive},
	"Beerware":          {"Beerware", "Beerware License", false, Permissive},
	"X11":               {"X11", "X11 License", true, Permissive},
	"Sleepycat":         {"Sleepycat", "Sleepycat License", true, StrongCopyleft},
	"curl":              {"curl", "curl License", true, Permissive},
	"blessing":          {"blessing", "SQLite Blessing", false, PublicDomain},
	"Apache-1.1":        {"Apache-1.1", "Apache License 1.1", true, Permissive},
	"W3C":               {"W3C", "W3C Software Notice and License", true, Permissive},
	"Libpng":            {"Libpng", "libpng License", false, Permissive},
}

// Lookup returns the registry entry for id, if any.
func Lookup(id string) (License, bool) {
	l, ok := registry[id]
	return l, ok
}

// ValidID reports whether id is a registered identifier or a well-formed
// LicenseRef-* reference.
func ValidID(id string) bool {
	if _, ok := registry[id]; ok {
		return true
	}
	return len(id) > len(LicenseRefPrefix) && id[:len(LicenseRefPrefix)] == LicenseRefPrefix
}

// All returns every registered license, for listing/documentation use.
func All() []License {
	out := make([]License, 0, len(registry))
	for _, l := range registry {
		out = append(out, l)
	}
	return out
}
