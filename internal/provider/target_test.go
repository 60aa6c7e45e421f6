package provider

import (
	"errors"
	"testing"

	"github.com/jcdickinson/crateskel/internal/graph"
)

func TestParseTarget(t *testing.T) {
	t.Parallel()

	std := graph.DefaultStdMap()

	cases := []struct {
		spec       string
		crate      string
		version    string
		filter     string
	}{
		{"serde", "serde", "", ""},
		{"serde@1.0.160", "serde", "1.0.160", ""},
		{"serde::de::Deserialize", "serde", "", "serde::de::Deserialize"},
		{"tokio@1.38::sync::mpsc", "tokio", "1.38", "tokio::sync::mpsc"},
		{"actix-web::web", "actix-web", "", "actix_web::web"},
		{"std", "std", "", ""},
		{"std::vec::Vec", "alloc", "", "alloc::vec::Vec"},
		{"std::fmt::Debug", "core", "", "core::fmt::Debug"},
		{"std::fs::File", "std", "", "std::fs::File"},
		{"core::mem", "core", "", "core::mem"},
	}
	for _, tc := range cases {
		got, err := ParseTarget(tc.spec, std)
		if err != nil {
			t.Errorf("ParseTarget(%q): %v", tc.spec, err)
			continue
		}
		if got.Crate != tc.crate || got.Version != tc.version || got.Filter != tc.filter {
			t.Errorf("ParseTarget(%q) = crate %q version %q filter %q, want %q %q %q",
				tc.spec, got.Crate, got.Version, got.Filter, tc.crate, tc.version, tc.filter)
		}
	}
}

func TestParseTargetErrors(t *testing.T) {
	t.Parallel()

	std := graph.DefaultStdMap()

	for _, spec := range []string{
		"",
		"   ",
		"serde::",
		"::de",
		"serde::de@1.0",
		"@1.0",
		"serde@",
	} {
		if _, err := ParseTarget(spec, std); err == nil {
			t.Errorf("ParseTarget(%q) succeeded, want error", spec)
		}
	}
}

func TestParseTargetRejectsBareStdModule(t *testing.T) {
	t.Parallel()

	_, err := ParseTarget("vec::Vec", graph.DefaultStdMap())
	if err == nil {
		t.Fatal("expected error for bare std module name")
	}
	var ambiguous *graph.AmbiguousModuleError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("error = %v, want *AmbiguousModuleError", err)
	}
	if ambiguous.Suggestion != "std::vec" {
		t.Errorf("suggestion = %q, want std::vec", ambiguous.Suggestion)
	}
}
