package lockfile

import (
	"os"

	yaml "go.yaml.in/yaml/v3"
)

// ManifestFileName is the project's own manifest, conventionally at the
// project root.
const ManifestFileName = "shard.yml"

// RootSpec is the subset of the project manifest the compliance layer reads:
// its own name/version/language target and declared (direct) dependencies.
type RootSpec struct {
	Name            string
	Version         string
	LanguageVersion string
	Dependencies    []string
	License         string
}

// rawRootSpec mirrors the on-disk shape, where dependencies are a map of
// name -> source spec rather than a list; only the names are needed here.
type rawRootSpec struct {
	Name            string         `yaml:"name"`
	Version         string         `yaml:"version"`
	LanguageVersion string         `yaml:"language_version"`
	License         string         `yaml:"license"`
	Dependencies    map[string]any `yaml:"dependencies"`
}

// LoadRootSpec reads the project manifest at path.
func LoadRootSpec(path string) (*RootSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw rawRootSpec
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(raw.Dependencies))
	for name := range raw.Dependencies {
		names = append(names, name)
	}
	return &RootSpec{
		Name:            raw.Name,
		Version:         raw.Version,
		LanguageVersion: raw.LanguageVersion,
		License:         raw.License,
		Dependencies:    names,
	}, nil
}
