package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shards-pm/shards/lockfile"
)

func TestDiffAddedRemovedUpdated(t *testing.T) {
	from := []*lockfile.Package{
		{Name: "a", Resolver: lockfile.Git, Source: "https://example.com/a.git", Version: "1.0.0"},
		{Name: "b", Resolver: lockfile.Git, Source: "https://example.com/b.git", Version: "2.0.0"},
	}
	to := []*lockfile.Package{
		{Name: "b", Resolver: lockfile.Git, Source: "https://example.com/b.git", Version: "2.1.0"},
		{Name: "c", Resolver: lockfile.Git, Source: "https://example.com/c.git", Version: "1.0.0"},
	}

	changes := Diff(from, to)

	want := []Status{Added, Updated, Removed}
	if len(changes) != len(want) {
		t.Fatalf("got %d changes, want %d: %+v", len(changes), len(want), changes)
	}
	for i, c := range changes {
		if c.Status != want[i] {
			t.Errorf("change %d: got status %v, want %v (%s)", i, c.Status, want[i], c.Name)
		}
	}
	if changes[0].Name != "c" {
		t.Errorf("expected Added change to be c, got %s", changes[0].Name)
	}
}

func TestDiffUnchanged(t *testing.T) {
	pkg := &lockfile.Package{Name: "a", Resolver: lockfile.Git, Source: "https://example.com/a.git", Version: "1.0.0"}
	changes := Diff([]*lockfile.Package{pkg}, []*lockfile.Package{pkg})
	if len(changes) != 1 || changes[0].Status != Unchanged {
		t.Fatalf("expected single Unchanged change, got %+v", changes)
	}
}

func TestDiffCommitPinUpdate(t *testing.T) {
	from := []*lockfile.Package{{Name: "a", Version: "1.0.0+git.commit.abc123"}}
	to := []*lockfile.Package{{Name: "a", Version: "1.0.0+git.commit.def456"}}
	changes := Diff(from, to)
	if len(changes) != 1 || changes[0].Status != Updated {
		t.Fatalf("expected force-push to surface as Updated, got %+v", changes)
	}
	if diff := cmp.Diff("abc123", changes[0].FromCommit); diff != "" {
		t.Errorf("FromCommit mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	changes := []Change{
		{Status: Added},
		{Status: Removed},
		{Status: Updated, FromLicense: "MIT", ToLicense: "Apache-2.0"},
		{Status: Unchanged},
	}
	s := Summarize(changes)
	if s.Added != 1 || s.Removed != 1 || s.Updated != 1 || s.Unchanged != 1 || s.LicenseChangeCount != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
