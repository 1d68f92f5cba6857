package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	yaml "go.yaml.in/yaml/v3"
)

// ErrMissingLockfile is returned by Load when no lockfile exists at path.
// Commands surface this as "Missing lockfile. Run install."
var ErrMissingLockfile = errors.New("missing lockfile")

// FileName is the lockfile's conventional name at the project root.
const FileName = "shards.lock"

// LibDir is the project-local directory installed source trees live under.
const LibDir = "lib"

// entry is the on-disk shape of a single lockfile package.
type entry struct {
	Resolver string `yaml:"resolver"`
	Source   string `yaml:"source"`
	Version  string `yaml:"version"`
	Checksum string `yaml:"checksum,omitempty"`
}

// document is the on-disk shape of the whole lockfile. The compliance layer
// only adds "checksum" under each package entry; everything else is
// read/written as opaque strings so an older shards binary ignoring this
// field round-trips cleanly.
type document struct {
	Version  string           `yaml:"version"`
	Packages map[string]entry `yaml:"packages"`
}

// Load reads and parses the lockfile at path. It returns ErrMissingLockfile
// if the file doesn't exist.
func Load(path string) ([]*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMissingLockfile
		}
		return nil, fmt.Errorf("lockfile: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes lockfile bytes into packages, sorted by Name.
func Parse(data []byte) ([]*Package, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("lockfile: parse: %w", err)
	}
	out := make([]*Package, 0, len(doc.Packages))
	for name, e := range doc.Packages {
		out = append(out, &Package{
			Name:     name,
			Resolver: ResolverKind(e.Resolver),
			Source:   e.Source,
			Version:  e.Version,
			Checksum: e.Checksum,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// NeedsMigration reports whether any package is missing a checksum, which
// forces an out-of-date lockfile condition so the next install rewrites it
// transparently.
func NeedsMigration(pkgs []*Package) bool {
	for _, p := range pkgs {
		if p.Checksum == "" {
			return true
		}
	}
	return false
}

// Write serializes packages back to the lockfile at path using an atomic
// temp-file-plus-rename. schemaVersion is passed through unchanged; the
// compliance layer never bumps it, since checksum is a strictly additive
// field.
func Write(path, schemaVersion string, pkgs []*Package) error {
	doc := document{Version: schemaVersion, Packages: make(map[string]entry, len(pkgs))}
	for _, p := range pkgs {
		doc.Packages[p.Name] = entry{
			Resolver: string(p.Resolver),
			Source:   p.Source,
			Version:  p.Version,
			Checksum: p.Checksum,
		}
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("lockfile: marshal: %w", err)
	}
	return atomicWrite(path, data, 0o644)
}

// atomicWrite writes data to path via a temp file in the same directory
// followed by a rename, so readers never observe a partial write.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
