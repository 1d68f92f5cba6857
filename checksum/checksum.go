// Package checksum computes and verifies the deterministic content hash over
// an installed dependency's source tree.
package checksum

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	digest "github.com/opencontainers/go-digest"
)

// excludedDirs are skipped at any depth.
var excludedDirs = map[string]bool{
	".git":     true,
	".hg":      true,
	".fossil":  true,
	".fslckout": true,
	"_FOSSIL_": true,
}

// topLevelExcludedDirs are skipped only when they are a direct child of the
// root (the project-local library directory is a sibling symlink back into
// itself, so this prevents infinite recursion through it).
var topLevelExcludedDirs = map[string]bool{
	"lib": true,
}

// Compute enumerates files under root (excluding VCS metadata directories at
// any depth and a top-level "lib" directory), sorts them by relative path,
// and streams a SHA-256 over path+NUL+size+NUL+content for each file in
// order. It returns "sha256:<hex>".
func Compute(root string) (string, error) {
	files, err := collect(root)
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	h := sha256.New()
	for _, rel := range files {
		full := filepath.Join(root, rel)
		info, err := os.Lstat(full)
		if err != nil {
			return "", fmt.Errorf("checksum: stat %s: %w", rel, err)
		}
		data, size, err := readFileContent(full, info)
		if err != nil {
			return "", fmt.Errorf("checksum: read %s: %w", rel, err)
		}
		h.Write([]byte(rel))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatInt(size, 10)))
		h.Write([]byte{0})
		h.Write(data)
	}
	return "sha256:" + fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Verify recomputes the checksum of root and compares it against expected.
func Verify(root, expected string) (bool, error) {
	actual, err := Compute(root)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

// collect walks root and returns the relative, slash-joined paths of every
// regular file (and symlink-to-file) that survives the exclusion rules.
// Symlinks to directories are never recursed into.
func collect(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			name := d.Name()
			if excludedDirs[name] {
				return filepath.SkipDir
			}
			if filepath.Dir(rel) == "." && topLevelExcludedDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Stat(path) // follows the link
			if err != nil {
				// Dangling symlink: nothing to hash, skip it.
				return nil
			}
			if target.IsDir() {
				return nil // symlink-to-directory: don't recurse, don't hash.
			}
		}

		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// readFileContent returns the file's bytes (following a symlink-to-file) and
// its size.
func readFileContent(path string, info fs.FileInfo) ([]byte, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return data, int64(len(data)), nil
}

// ParseDigest validates that s has the "sha256:<64 hex>" shape required by
// the lockfile invariant, returning the parsed digest.
func ParseDigest(s string) (digest.Digest, error) {
	d := digest.Digest(s)
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("invalid checksum %q: %w", s, err)
	}
	if d.Algorithm() != digest.SHA256 {
		return "", fmt.Errorf("unsupported checksum algorithm in %q", s)
	}
	return d, nil
}
