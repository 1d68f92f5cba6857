package checksum

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestComputeDeterministic(t *testing.T) {
	files := map[string]string{
		"a.txt":        "hello",
		"dir/b.txt":    "world",
		"dir/sub/c.go": "package x",
	}
	root := writeTree(t, files)

	c1, err := Compute(root)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := Compute(root)
	if err != nil {
		t.Fatal(err)
	}
	if c1 != c2 {
		t.Fatalf("checksum not deterministic: %s != %s", c1, c2)
	}
	if len(c1) != len("sha256:")+64 {
		t.Fatalf("unexpected checksum shape: %s", c1)
	}
}

func TestComputeDetectsRename(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "same content"})
	before, err := Compute(root)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Rename(filepath.Join(root, "a.txt"), filepath.Join(root, "b.txt")); err != nil {
		t.Fatal(err)
	}
	after, err := Compute(root)
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Fatal("rename with unchanged content should change the checksum")
	}
}

func TestComputeExcludesVCSAndLib(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt":            "a",
		".git/HEAD":        "ref: refs/heads/main",
		"lib/dep/pkg.txt":  "dependency source",
		"sub/lib/keep.txt": "not top-level, must be kept",
	})
	withAll, err := Compute(root)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.RemoveAll(filepath.Join(root, ".git")); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(filepath.Join(root, "lib")); err != nil {
		t.Fatal(err)
	}
	withoutExcluded, err := Compute(root)
	if err != nil {
		t.Fatal(err)
	}
	if withAll != withoutExcluded {
		t.Fatal(".git and top-level lib/ should not affect the checksum")
	}
}

func TestVerify(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "content"})
	sum, err := Compute(root)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := Verify(root, sum)
	if err != nil || !ok {
		t.Fatalf("expected verify to succeed, got ok=%v err=%v", ok, err)
	}
	ok, err = Verify(root, "sha256:0000000000000000000000000000000000000000000000000000000000000000")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected mismatch")
	}
}
