package report

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/shards-pm/shards/checksum"
	"github.com/shards-pm/shards/lockfile"
)

// IntegrityEntry is one package's verification outcome.
type IntegrityEntry struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Verified bool   `json:"verified"`
	Reason   string `json:"reason"`
}

// IntegritySection is the full integrity report.
type IntegritySection struct {
	Entries     []IntegrityEntry `json:"entries"`
	AllVerified bool             `json:"all_verified"`
}

const (
	reasonMatch       = "checksum match"
	reasonMismatch    = "checksum mismatch"
	reasonNoChecksum  = "no checksum in lock"
	reasonNotInstalled = "not installed"
	reasonCouldNotCompute = "could not compute checksum"
)

// CollectIntegrity enumerates the locked packages and reports whether each
// installed tree still matches its locked checksum.
func CollectIntegrity(projectRoot string, pkgs []*lockfile.Package) (IntegritySection, error) {
	section := IntegritySection{AllVerified: true}

	for _, p := range pkgs {
		entry := IntegrityEntry{Name: p.Name, Version: p.Version}

		if p.Checksum == "" {
			entry.Reason = reasonNoChecksum
			section.Entries = append(section.Entries, entry)
			continue
		}

		installPath := p.InstallPath
		if installPath == "" {
			installPath = filepath.Join(projectRoot, lockfile.LibDir, p.Name)
		}

		ok, err := checksum.Verify(installPath, p.Checksum)
		switch {
		case err != nil:
			entry.Reason = reasonCouldNotCompute
			if errors.Is(err, fs.ErrNotExist) {
				entry.Reason = reasonNotInstalled
			}
			section.AllVerified = false
		case ok:
			entry.Verified = true
			entry.Reason = reasonMatch
		default:
			entry.Reason = reasonMismatch
			section.AllVerified = false
		}

		section.Entries = append(section.Entries, entry)
	}

	return section, nil
}
