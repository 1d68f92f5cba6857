// Package purl derives canonical package-URL identifiers (see
// https://github.com/package-url/purl-spec) for resolved dependencies, for use
// in vulnerability lookups and SBOM emission.
package purl

import (
	"net/url"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
)

// hostType maps a substring found in a source URL's host to the purl type it
// should be emitted as. Order doesn't matter; matching is by substring
// containment.
var hostType = map[string]string{
	"github":    "github",
	"gitlab":    "gitlab",
	"bitbucket": "bitbucket",
	"codeberg":  "codeberg",
}

// Derive maps a resolved package to its canonical purl string. It returns
// ("", false) for path dependencies, which have no purl by definition.
func Derive(resolverKind, source, name, version string) (string, bool) {
	if resolverKind == "path" {
		return "", false
	}

	if t, owner, repo, ok := parseHostedRepo(source); ok {
		p := packageurl.PackageURL{
			Type:      t,
			Namespace: owner,
			Name:      repo,
			Version:   version,
		}
		return p.String(), true
	}

	p := packageurl.PackageURL{
		Type:    "generic",
		Name:    url.QueryEscape(name),
		Version: version,
		Qualifiers: packageurl.QualifiersFromMap(map[string]string{
			"download_url": source,
		}),
	}
	return p.String(), true
}

// parseHostedRepo recognizes github/gitlab/bitbucket/codeberg source URLs and
// extracts (type, owner, repo). It requires at least two non-empty path
// segments; the repo's trailing ".git" is stripped.
func parseHostedRepo(source string) (kind, owner, repo string, ok bool) {
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return "", "", "", false
	}
	host := strings.ToLower(u.Host)
	var matched string
	for substr, t := range hostType {
		if strings.Contains(host, substr) {
			matched = t
			break
		}
	}
	if matched == "" {
		return "", "", "", false
	}

	segments := splitNonEmpty(u.Path)
	if len(segments) < 2 {
		return "", "", "", false
	}
	owner = segments[0]
	repo = strings.TrimSuffix(segments[len(segments)-1], ".git")
	return matched, owner, repo, true
}

func splitNonEmpty(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
