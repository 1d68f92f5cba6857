package license

import (
	"bitbucket.org/creachadair/stringset"
	"testing"

	"github.com/shards-pm/shards/lockfile"
)

func pkgWithLicense(name, license string) *lockfile.Package {
	p := &lockfile.Package{Name: name}
	p.SetSpec(&lockfile.Spec{Name: name, License: license})
	return p
}

func TestDominance(t *testing.T) {
	p := &Policy{
		Allowed: stringset.New("MIT"),
		Denied:  stringset.New("GPL-3.0-only"),
	}
	eval := p.Evaluate(pkgWithLicense("a", "MIT OR GPL-3.0-only"), nil)
	if eval.Verdict != Denied {
		t.Fatalf("expected Denied (deny dominates), got %v", eval.Verdict)
	}
}

func TestAllowedWithoutDeny(t *testing.T) {
	p := &Policy{Allowed: stringset.New("MIT")}
	eval := p.Evaluate(pkgWithLicense("a", "MIT OR GPL-3.0-only"), nil)
	if eval.Verdict != Allowed {
		t.Fatalf("expected Allowed, got %v", eval.Verdict)
	}
}

func TestUnlicensedWhenRequired(t *testing.T) {
	p := &Policy{Allowed: stringset.New(), Denied: stringset.New(), RequireLicense: true}
	eval := p.Evaluate(pkgWithLicense("a", ""), nil)
	if eval.Verdict != Unlicensed {
		t.Fatalf("expected Unlicensed, got %v", eval.Verdict)
	}
}

func TestUnknownWhenNotRequired(t *testing.T) {
	p := &Policy{Allowed: stringset.New(), Denied: stringset.New()}
	eval := p.Evaluate(pkgWithLicense("a", ""), nil)
	if eval.Verdict != Unknown {
		t.Fatalf("expected Unknown, got %v", eval.Verdict)
	}
}

func TestOverrideWins(t *testing.T) {
	p := &Policy{
		Allowed:   stringset.New(),
		Denied:    stringset.New("MIT"),
		Overrides: map[string]Override{"a": {License: "MIT", Reason: "legal sign-off"}},
	}
	eval := p.Evaluate(pkgWithLicense("a", "GPL-3.0-only"), nil)
	if eval.Verdict != Overridden {
		t.Fatalf("expected Overridden, got %v", eval.Verdict)
	}
	if eval.Effective != "MIT" {
		t.Fatalf("expected override license MIT, got %s", eval.Effective)
	}
}

func TestEmptyAllowedMeansNoFilter(t *testing.T) {
	p := &Policy{Allowed: stringset.New(), Denied: stringset.New()}
	eval := p.Evaluate(pkgWithLicense("a", "Zlib"), nil)
	if eval.Verdict != Allowed {
		t.Fatalf("expected Allowed when allowlist is empty, got %v", eval.Verdict)
	}
}
