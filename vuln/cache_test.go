package vuln

import (
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	purl := "pkg:npm/left-pad@1.0.0"
	now := time.Now()

	if _, ok := readCache(dir, purl, now); ok {
		t.Fatal("expected cache miss before any write")
	}

	want := []Vulnerability{{ID: "GHSA-1", Severity: High}}
	if err := writeCache(dir, purl, want); err != nil {
		t.Fatalf("writeCache: %v", err)
	}

	got, ok := readCache(dir, purl, now)
	if !ok {
		t.Fatal("expected cache hit after write")
	}
	if len(got) != 1 || got[0].ID != "GHSA-1" || got[0].Severity != High {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	dir := t.TempDir()
	purl := "pkg:npm/left-pad@1.0.0"
	now := time.Now()

	if err := writeCache(dir, purl, []Vulnerability{{ID: "GHSA-1"}}); err != nil {
		t.Fatalf("writeCache: %v", err)
	}

	if _, ok := readCache(dir, purl, now.Add(cacheTTL+time.Minute)); ok {
		t.Fatal("expected cache miss once TTL has elapsed")
	}
	if _, ok := readCache(dir, purl, now.Add(cacheTTL-time.Minute)); !ok {
		t.Fatal("expected cache hit just under the TTL")
	}
}

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	purl := "pkg:npm/left-pad@1.0.0"
	now := time.Now()

	if err := writeCache(dir, purl, []Vulnerability{{ID: "GHSA-1"}}); err != nil {
		t.Fatalf("writeCache: %v", err)
	}
	if err := ClearCache(dir); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if _, ok := readCache(dir, purl, now); ok {
		t.Fatal("expected cache miss after ClearCache")
	}
}

func TestClearCacheMissingDir(t *testing.T) {
	if err := ClearCache(t.TempDir()); err != nil {
		t.Fatalf("ClearCache on an empty project root should be a no-op, got: %v", err)
	}
}
