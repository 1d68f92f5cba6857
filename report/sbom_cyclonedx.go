package report

import (
	"time"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"

	"github.com/shards-pm/shards/lockfile"
	"github.com/shards-pm/shards/purl"
)

// BuildCycloneDXSBOM synthesises a CycloneDX BOM as an alternate SBOM
// encoding alongside the default SPDX document, for
// `compliance-report --sbom-format=cyclonedx`.
func BuildCycloneDXSBOM(root *lockfile.RootSpec, pkgs []*lockfile.Package, now time.Time) *cyclonedx.BOM {
	bom := cyclonedx.NewBOM()
	bom.Metadata = &cyclonedx.Metadata{
		Timestamp: now.UTC().Format("2006-01-02T15:04:05Z"),
		Component: &cyclonedx.Component{
			Name:    root.Name,
			Version: root.Version,
			BOMRef:  uuid.New().String(),
		},
		Tools: &cyclonedx.ToolsChoice{
			Tools: &[]cyclonedx.Tool{{Name: Generator}},
		},
	}

	comps := make([]cyclonedx.Component, 0, len(pkgs))
	for _, p := range pkgs {
		semverPart, _ := lockfile.SplitVersion(p.Version)
		comp := cyclonedx.Component{
			BOMRef:  uuid.New().String(),
			Type:    cyclonedx.ComponentTypeLibrary,
			Name:    p.Name,
			Version: semverPart,
		}
		if pkgPurl, ok := purl.Derive(string(p.Resolver), p.Source, p.Name, semverPart); ok {
			comp.PackageURL = pkgPurl
		}
		comps = append(comps, comp)
	}
	bom.Components = &comps

	return bom
}
