package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/shards-pm/shards/lockfile"
)

// LastInstallFileName records the lockfile state as of the previous
// successful install, read by the "last-install" ref.
const LastInstallFileName = ".shards/audit/last-install.lock"

// ResolvePackages resolves a diff CLI ref into a package list:
//   - "current": the project's current lockfile
//   - "last-install": the installation-state snapshot
//   - a filesystem path: parsed directly as a lockfile
//   - anything else: a VCS ref, from which the lockfile blob is extracted
func ResolvePackages(projectRoot, ref string) ([]*lockfile.Package, error) {
	switch ref {
	case "current":
		doc, err := lockfile.Load(filepath.Join(projectRoot, lockfile.FileName))
		if err != nil {
			return nil, err
		}
		return doc, nil
	case "last-install":
		path := filepath.Join(projectRoot, LastInstallFileName)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("diff: read last-install snapshot: %w", err)
		}
		return lockfile.Parse(data)
	}

	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("diff: read %s: %w", ref, err)
		}
		return lockfile.Parse(data)
	}

	return resolveFromVCSRef(projectRoot, ref)
}

// resolveFromVCSRef opens the repository at projectRoot and extracts the
// lockfile blob as it existed at the given ref (branch, tag, or commit).
func resolveFromVCSRef(projectRoot, ref string) ([]*lockfile.Package, error) {
	repo, err := git.PlainOpen(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("diff: open repository: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("diff: resolve ref %q: %w", ref, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("diff: read commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("diff: read tree at %s: %w", hash, err)
	}

	file, err := tree.File(lockfile.FileName)
	if err != nil {
		return nil, fmt.Errorf("diff: %s not found at %s: %w", lockfile.FileName, ref, err)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("diff: read %s blob: %w", lockfile.FileName, err)
	}

	return lockfile.Parse([]byte(contents))
}
