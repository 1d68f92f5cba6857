package report

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/spdx/tools-golang/spdx/v2/common"
	"github.com/spdx/tools-golang/spdx/v2/v2_3"

	"github.com/shards-pm/shards/lockfile"
	"github.com/shards-pm/shards/purl"
)

const (
	noAssertion    = "NOASSERTION"
	spdxRefPrefix  = "SPDXRef-"
	spdxDocumentID = "SPDXRef-DOCUMENT"
)

var spdxIDInvalidCharRe = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

func sanitizeSPDXID(id string) string {
	return spdxIDInvalidCharRe.ReplaceAllString(id, "-")
}

func docElementID(id string) common.DocElementID {
	return common.DocElementID{ElementRefID: common.ElementID(id)}
}

// BuildSBOM synthesises an in-memory SPDX-2.3 document for the locked
// package set, including the root package and DEPENDS_ON relationships
// derived from each package's manifest, restricted to names present in the
// lockfile.
func BuildSBOM(root *lockfile.RootSpec, pkgs []*lockfile.Package, now time.Time) *v2_3.Document {
	locked := make(map[string]struct{}, len(pkgs))
	for _, p := range pkgs {
		locked[p.Name] = struct{}{}
	}

	rootID := spdxRefPrefix + "Package-" + sanitizeSPDXID(root.Name)
	spdxPackages := []*v2_3.Package{{
		PackageName:               root.Name,
		PackageSPDXIdentifier:     common.ElementID(rootID),
		PackageVersion:            root.Version,
		PackageDownloadLocation:   noAssertion,
		PackageLicenseConcluded:   licenseOrNoAssertion(root.License),
		PackageLicenseDeclared:    licenseOrNoAssertion(root.License),
		IsFilesAnalyzedTagPresent: false,
	}}

	relationships := []*v2_3.Relationship{{
		RefA:         docElementID(spdxDocumentID),
		RefB:         docElementID(rootID),
		Relationship: "DESCRIBES",
	}}

	idByName := map[string]string{root.Name: rootID}
	for _, p := range pkgs {
		id := spdxRefPrefix + "Package-" + sanitizeSPDXID(p.Name)
		idByName[p.Name] = id

		semverPart, _ := lockfile.SplitVersion(p.Version)
		license := ""
		if spec, err := p.LoadSpec(); err == nil && spec != nil {
			license, _ = spec.EffectiveLicense()
		}

		pkgPurl, hasPurl := purl.Derive(string(p.Resolver), p.Source, p.Name, semverPart)
		externalRefs := []*v2_3.PackageExternalReference{}
		if hasPurl {
			externalRefs = append(externalRefs, &v2_3.PackageExternalReference{
				Category: "PACKAGE-MANAGER",
				RefType:  "purl",
				Locator:  pkgPurl,
			})
		}

		spdxPackages = append(spdxPackages, &v2_3.Package{
			PackageName:               p.Name,
			PackageSPDXIdentifier:     common.ElementID(id),
			PackageVersion:            semverPart,
			PackageDownloadLocation:   downloadLocation(p),
			PackageLicenseConcluded:   licenseOrNoAssertion(license),
			PackageLicenseDeclared:    licenseOrNoAssertion(license),
			IsFilesAnalyzedTagPresent: false,
			PackageExternalReferences: externalRefs,
		})

		relationships = append(relationships, &v2_3.Relationship{
			RefA:         docElementID(rootID),
			RefB:         docElementID(id),
			Relationship: "CONTAINS",
		})
	}

	// DEPENDS_ON, restricted to names present in the locked set.
	for _, p := range pkgs {
		spec, err := p.LoadSpec()
		if err != nil || spec == nil {
			continue
		}
		for _, dep := range spec.Dependencies {
			if _, ok := locked[dep]; !ok {
				continue
			}
			relationships = append(relationships, &v2_3.Relationship{
				RefA:         docElementID(idByName[p.Name]),
				RefB:         docElementID(idByName[dep]),
				Relationship: "DEPENDS_ON",
			})
		}
	}

	return &v2_3.Document{
		SPDXVersion:       "SPDX-2.3",
		DataLicense:       "CC0-1.0",
		SPDXIdentifier:    "DOCUMENT",
		DocumentName:      root.Name + " SBOM",
		DocumentNamespace: "https://shards-pm.example/spdx/" + uuid.New().String(),
		CreationInfo: &v2_3.CreationInfo{
			Creators: []common.Creator{{CreatorType: "Tool", Creator: Generator}},
			Created:  now.UTC().Format("2006-01-02T15:04:05Z"),
		},
		Packages:      spdxPackages,
		Relationships: relationships,
	}
}

func licenseOrNoAssertion(license string) string {
	if license == "" {
		return noAssertion
	}
	return license
}

func downloadLocation(p *lockfile.Package) string {
	if p.Resolver.IsPath() {
		return noAssertion
	}
	if p.Source == "" {
		return noAssertion
	}
	return fmt.Sprintf("%s@%s", p.Source, p.Version)
}
