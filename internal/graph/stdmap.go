package graph

import "fmt"

// AmbiguousModuleError reports a bare standard-library module name used
// where a crate name was expected. The bare name resolves to an internal
// partition crate, which is almost never what the caller wants.
type AmbiguousModuleError struct {
	Module     string
	Suggestion string
}

func (e *AmbiguousModuleError) Error() string {
	return fmt.Sprintf("%q is a standard library module, not a crate; use %q", e.Module, e.Suggestion)
}

// StdMap records which physical crate (core, alloc or std) owns each
// top-level standard-library module. The std crate re-exports core and
// alloc, so a user asking for std::vec actually needs items defined in
// alloc. The table is static lookup data, injected rather than read as a
// global so tests can substitute their own.
type StdMap struct {
	owner map[string]string
}

// DefaultStdMap returns the built-in module ownership table.
func DefaultStdMap() *StdMap {
	owner := make(map[string]string, len(coreModules)+len(allocModules)+len(stdOnlyModules))
	for _, m := range coreModules {
		owner[m] = "core"
	}
	for _, m := range allocModules {
		owner[m] = "alloc"
	}
	for _, m := range stdOnlyModules {
		owner[m] = "std"
	}
	return &StdMap{owner: owner}
}

// Owner reports the crate that physically defines a std module.
func (m *StdMap) Owner(module string) (string, bool) {
	crate, ok := m.owner[module]
	return crate, ok
}

// IsPartition reports whether name is one of the standard library's
// physical crates.
func (m *StdMap) IsPartition(name string) bool {
	return name == "core" || name == "alloc" || name == "std"
}

// CheckCrateName rejects a bare std module name used as a crate name,
// suggesting the std-prefixed form instead. "vec" is not a crate; the
// caller meant "std::vec".
func (m *StdMap) CheckCrateName(name string) error {
	if _, ok := m.owner[name]; ok {
		return &AmbiguousModuleError{Module: name, Suggestion: "std::" + name}
	}
	return nil
}

// ResolveCrate maps a std-prefixed module path to the crate that must be
// fetched and the path within it. std::vec::Vec needs the alloc crate's
// vec module; std::fs stays in std.
func (m *StdMap) ResolveCrate(module string) string {
	if crate, ok := m.owner[module]; ok {
		return crate
	}
	return "std"
}

// DisplayPath rewrites a path rooted in core or alloc to the std prefix
// when the module is part of std's unified namespace. Paths outside the
// standard library pass through unchanged.
func (m *StdMap) DisplayPath(segments []string) []string {
	if len(segments) < 2 {
		return segments
	}
	if segments[0] != "core" && segments[0] != "alloc" {
		return segments
	}
	if crate, ok := m.owner[segments[1]]; !ok || crate != segments[0] {
		return segments
	}
	out := make([]string, len(segments))
	copy(out, segments)
	out[0] = "std"
	return out
}

var coreModules = []string{
	"any", "array", "ascii", "cell", "char", "clone", "cmp", "convert",
	"default", "error", "f32", "f64", "ffi", "fmt", "future", "hash",
	"hint", "i8", "i16", "i32", "i64", "i128", "isize", "iter", "marker",
	"mem", "num", "ops", "option", "panic", "pin", "primitive", "ptr",
	"result", "slice", "str", "task", "time", "u8", "u16", "u32", "u64",
	"u128", "usize",
}

var allocModules = []string{
	"alloc", "borrow", "boxed", "collections", "rc", "string", "sync", "vec",
}

var stdOnlyModules = []string{
	"backtrace", "env", "fs", "io", "net", "os", "path", "process", "thread",
}
