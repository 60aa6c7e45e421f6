package graph

import (
	"errors"
	"strings"
	"testing"
)

func TestStdMapOwner(t *testing.T) {
	t.Parallel()

	m := DefaultStdMap()

	cases := []struct {
		module string
		owner  string
	}{
		{"fmt", "core"},
		{"option", "core"},
		{"vec", "alloc"},
		{"sync", "alloc"},
		{"boxed", "alloc"},
		{"fs", "std"},
		{"thread", "std"},
	}
	for _, tc := range cases {
		owner, ok := m.Owner(tc.module)
		if !ok {
			t.Errorf("no owner for %q", tc.module)
			continue
		}
		if owner != tc.owner {
			t.Errorf("owner(%q) = %q, want %q", tc.module, owner, tc.owner)
		}
	}

	if _, ok := m.Owner("serde"); ok {
		t.Error("serde is not a standard library module")
	}
}

func TestCheckCrateNameSuggestsStdPath(t *testing.T) {
	t.Parallel()

	m := DefaultStdMap()

	err := m.CheckCrateName("fmt")
	if err == nil {
		t.Fatal("expected error for std module used as a crate name")
	}
	var ambiguous *AmbiguousModuleError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("error = %v, want *AmbiguousModuleError", err)
	}
	if ambiguous.Suggestion != "std::fmt" {
		t.Errorf("suggestion = %q, want std::fmt", ambiguous.Suggestion)
	}

	if err := m.CheckCrateName("serde"); err != nil {
		t.Errorf("unexpected error for a real crate name: %v", err)
	}
	if err := m.CheckCrateName("std"); err != nil {
		t.Errorf("std itself is a valid target: %v", err)
	}
}

func TestResolveCrate(t *testing.T) {
	t.Parallel()

	m := DefaultStdMap()

	if got := m.ResolveCrate("vec"); got != "alloc" {
		t.Errorf("ResolveCrate(vec) = %q, want alloc", got)
	}
	if got := m.ResolveCrate("fmt"); got != "core" {
		t.Errorf("ResolveCrate(fmt) = %q, want core", got)
	}
	if got := m.ResolveCrate("env"); got != "std" {
		t.Errorf("ResolveCrate(env) = %q, want std", got)
	}
}

func TestDisplayPathRewritesPartitions(t *testing.T) {
	t.Parallel()

	m := DefaultStdMap()

	cases := []struct {
		in   []string
		want string
	}{
		{[]string{"core", "fmt", "Debug"}, "std::fmt::Debug"},
		{[]string{"alloc", "vec", "Vec"}, "std::vec::Vec"},
		{[]string{"std", "fs", "File"}, "std::fs::File"},
		{[]string{"serde", "de"}, "serde::de"},
	}
	for _, tc := range cases {
		got := strings.Join(m.DisplayPath(tc.in), "::")
		if got != tc.want {
			t.Errorf("DisplayPath(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
