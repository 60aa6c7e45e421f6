// Package provider locates and loads rustdoc JSON for a target
// specification, from the on-disk cache or from docs.rs.
package provider

import (
	"fmt"
	"strings"

	"github.com/jcdickinson/crateskel/internal/graph"
)

// Target is a parsed `entrypoint[@version][::path...]` specification.
type Target struct {
	// Entrypoint is the first path component as written, without version.
	Entrypoint string
	// Version is the requested version, or "" for latest.
	Version string
	// Crate is the package whose rustdoc JSON must be fetched. Differs
	// from Entrypoint for standard-library targets, where std modules
	// map onto the core/alloc/std partition crates.
	Crate string
	// Filter is the `::`-separated path to render within the crate, or
	// "" for the whole crate.
	Filter string
}

// ParseTarget parses and resolves a target spec. The std map translates
// standard-library paths to the partition crate that defines them and
// rejects bare std module names used as crate names.
func ParseTarget(spec string, std *graph.StdMap) (*Target, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty target specification")
	}

	components := strings.Split(spec, "::")
	for i, c := range components {
		if c == "" {
			return nil, fmt.Errorf("empty path component in target %q", spec)
		}
		if i > 0 && strings.Contains(c, "@") {
			return nil, fmt.Errorf("version in target %q must follow the entrypoint, not %q", spec, c)
		}
	}

	entry := components[0]
	version := ""
	if at := strings.Index(entry, "@"); at >= 0 {
		entry, version = entry[:at], entry[at+1:]
		if entry == "" {
			return nil, fmt.Errorf("missing crate name before version in target %q", spec)
		}
		if version == "" {
			return nil, fmt.Errorf("missing version after @ in target %q", spec)
		}
	}

	t := &Target{Entrypoint: entry, Version: version}
	rest := components[1:]

	switch {
	case entry == "std":
		// std::vec::Vec lives in the alloc crate's vec module.
		if len(rest) == 0 {
			t.Crate = "std"
			break
		}
		t.Crate = std.ResolveCrate(rest[0])
		t.Filter = strings.Join(append([]string{t.Crate}, rest...), "::")
		return t, nil
	case std.IsPartition(entry):
		t.Crate = entry
	default:
		if err := std.CheckCrateName(entry); err != nil {
			return nil, err
		}
		t.Crate = entry
	}

	if len(rest) > 0 {
		// docs.rs knows crates by their package name; rustdoc paths use
		// the lib name with dashes normalized.
		libName := strings.ReplaceAll(t.Crate, "-", "_")
		t.Filter = strings.Join(append([]string{libName}, rest...), "::")
	}
	return t, nil
}
