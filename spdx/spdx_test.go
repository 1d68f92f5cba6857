package spdx

import (
	"testing"

	"bitbucket.org/creachadair/stringset"
)

func TestRegistryRoundTrip(t *testing.T) {
	for _, l := range All() {
		if !ValidID(l.ID) {
			t.Errorf("ValidID(%q) = false, want true", l.ID)
		}
		expr, err := Parse(l.ID)
		if err != nil {
			t.Fatalf("Parse(%q): %v", l.ID, err)
		}
		ids := expr.LicenseIDs()
		if ids.Len() != 1 || !ids.Contains(l.ID) {
			t.Errorf("Parse(%q).LicenseIDs() = %v, want {%s}", l.ID, ids, l.ID)
		}
	}
}

func TestValidIDAcceptsLicenseRef(t *testing.T) {
	if !ValidID("LicenseRef-my-custom-license") {
		t.Error("LicenseRef-* should be accepted without registry membership")
	}
	if ValidID("totally-made-up") {
		t.Error("unregistered non-LicenseRef identifier should be invalid")
	}
}

func TestSatisfactionLaws(t *testing.T) {
	a := Simple{ID: "MIT"}
	b := Simple{ID: "GPL-3.0-only"}
	setA := stringset.New("MIT")
	setB := stringset.New("GPL-3.0-only")
	setNeither := stringset.New("Apache-2.0")

	or := Or{Left: a, Right: b}
	if got, want := or.SatisfiedBy(setA), a.SatisfiedBy(setA) || b.SatisfiedBy(setA); got != want {
		t.Errorf("OR satisfaction law violated for setA")
	}
	if !or.SatisfiedBy(setB) {
		t.Error("OR(MIT, GPL) should be satisfied by {GPL}")
	}
	if or.SatisfiedBy(setNeither) {
		t.Error("OR(MIT, GPL) should not be satisfied by {Apache-2.0}")
	}

	and := And{Left: a, Right: b}
	if got, want := and.SatisfiedBy(setA), a.SatisfiedBy(setA) && b.SatisfiedBy(setA); got != want {
		t.Errorf("AND satisfaction law violated")
	}
	bothSet := stringset.New("MIT", "GPL-3.0-only")
	if !and.SatisfiedBy(bothSet) {
		t.Error("AND(MIT, GPL) should be satisfied by {MIT, GPL}")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{"", "AND MIT", "MIT AND", "(MIT", "MIT)"}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", c)
		}
	}
}

func TestParseWith(t *testing.T) {
	expr, err := Parse("Apache-2.0 WITH LLVM-exception")
	if err != nil {
		t.Fatal(err)
	}
	w, ok := expr.(With)
	if !ok {
		t.Fatalf("expected With, got %T", expr)
	}
	if w.Exception != "LLVM-exception" {
		t.Errorf("exception = %q", w.Exception)
	}
	if !w.SatisfiedBy(stringset.New("Apache-2.0")) {
		t.Error("WITH should delegate satisfaction to the underlying license")
	}
}

func TestParsePrecedence(t *testing.T) {
	// AND binds tighter than OR: "A OR B AND C" == "A OR (B AND C)".
	expr, err := Parse("MIT OR Apache-2.0 AND GPL-3.0-only")
	if err != nil {
		t.Fatal(err)
	}
	or, ok := expr.(Or)
	if !ok {
		t.Fatalf("expected top-level Or, got %T", expr)
	}
	if _, ok := or.Right.(And); !ok {
		t.Errorf("expected right side of Or to be And, got %T", or.Right)
	}
}
