package lockfile

import (
	"os"
	"path/filepath"

	yaml "go.yaml.in/yaml/v3"
)

// Spec is a package's own manifest, read lazily from its installed tree.
// Failures loading it are non-fatal; callers should treat the package as
// having no spec (no license, no dependencies, no postinstall).
type Spec struct {
	Name         string            `yaml:"name"`
	Version      string            `yaml:"version"`
	License      string            `yaml:"license"`
	Dependencies []string          `yaml:"dependencies"`
	Scripts      map[string]string `yaml:"scripts"`
}

// HasPostinstall reports whether the spec declares a postinstall script.
func (s *Spec) HasPostinstall() bool {
	if s == nil {
		return false
	}
	_, ok := s.Scripts["postinstall"]
	return ok
}

// EffectiveLicense returns the declared license, treating an empty string as
// absent (per the data model's "never conflate empty string and absent").
func (s *Spec) EffectiveLicense() (string, bool) {
	if s == nil || s.License == "" {
		return "", false
	}
	return s.License, true
}

// manifestFileName is the per-package manifest file read from the installed
// tree. The package manager's own manifest grammar lives elsewhere; this is
// the minimal subset the compliance layer needs.
const manifestFileName = "shard.yml"

// LoadSpec lazily loads and caches p's manifest from its InstallPath. A
// missing manifest is not an error: it yields (nil, nil). An unparseable
// manifest yields (nil, err). Either outcome is cached so repeated calls
// don't re-attempt the read.
func (p *Package) LoadSpec() (*Spec, error) {
	if p.specLoad {
		return p.spec, p.specErr
	}
	p.specLoad = true

	if p.InstallPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(filepath.Join(p.InstallPath, manifestFileName))
	if err != nil {
		// Not installed, or manifest absent: treated as "no spec", not an error.
		return nil, nil
	}
	// On disk, dependencies are a map of name -> source spec; only the
	// names are kept.
	var raw struct {
		Name         string            `yaml:"name"`
		Version      string            `yaml:"version"`
		License      string            `yaml:"license"`
		Dependencies map[string]any    `yaml:"dependencies"`
		Scripts      map[string]string `yaml:"scripts"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		p.specErr = err
		return nil, err
	}
	s := Spec{Name: raw.Name, Version: raw.Version, License: raw.License, Scripts: raw.Scripts}
	for name := range raw.Dependencies {
		s.Dependencies = append(s.Dependencies, name)
	}
	p.spec = &s
	return p.spec, nil
}

// SetSpec pins p's spec directly, bypassing the on-disk lookup. Used when a
// caller already has the manifest in hand (e.g. the resolver, or a test).
func (p *Package) SetSpec(s *Spec) {
	p.spec = s
	p.specErr = nil
	p.specLoad = true
}
