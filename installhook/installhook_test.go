package installhook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shards-pm/shards/lockfile"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestVerifyOrComputeFreshInstall(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"shard.yml": "name: a\n"})

	pkg := &lockfile.Package{Name: "a", InstallPath: dir}
	if err := VerifyOrCompute(pkg, false); err != nil {
		t.Fatal(err)
	}
	if pkg.Checksum == "" {
		t.Fatalf("expected checksum to be computed")
	}
}

func TestVerifyOrComputeMismatch(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"shard.yml": "name: a\n"})

	pkg := &lockfile.Package{Name: "a", InstallPath: dir, Checksum: "sha256:0000000000000000000000000000000000000000000000000000000000000000"}
	err := VerifyOrCompute(pkg, false)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestVerifyOrComputeSkipVerify(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"shard.yml": "name: a\n"})

	pkg := &lockfile.Package{Name: "a", InstallPath: dir, Checksum: "sha256:0000000000000000000000000000000000000000000000000000000000000000"}
	if err := VerifyOrCompute(pkg, true); err != nil {
		t.Fatal(err)
	}
	if pkg.Checksum == "sha256:0000000000000000000000000000000000000000000000000000000000000000" {
		t.Fatalf("expected checksum to be overwritten")
	}
}

func TestGateNoPolicyFile(t *testing.T) {
	report, err := Gate(t.TempDir(), nil)
	if err != nil || report != nil {
		t.Fatalf("expected no-op for missing policy file, got report=%v err=%v", report, err)
	}
}

func TestGateBlocksOnError(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".shards-policy.yml": "version: \"1\"\nrules:\n  dependencies:\n    blocked:\n      - name: evil\n",
	})

	pkgs := []*lockfile.Package{{Name: "evil"}}
	report, err := Gate(dir, pkgs)
	if !errors.Is(err, ErrPolicyViolation) {
		t.Fatalf("expected ErrPolicyViolation, got %v", err)
	}
	if report == nil || len(report.Findings) != 1 {
		t.Fatalf("expected one finding, got %+v", report)
	}
}
