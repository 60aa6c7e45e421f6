package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemNotFoundError reports an id referenced by the graph that is absent
// from the item table. This usually means the input graph was partial:
// re-export edges can point at items in external crates that were never
// expanded into the index.
type ItemNotFoundError struct {
	ID int
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %d not found in graph index", e.ID)
}

// ModuleNotFoundError reports a requested module path that does not exist
// in the graph. User-facing, not a bug.
type ModuleNotFoundError struct {
	Path string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module %q not found", e.Path)
}

// Graph owns a parsed item graph. Once built it is immutable and may be
// shared by concurrent render and search passes without synchronization.
type Graph struct {
	crate       *Crate
	packageName string
}

// Build parses rustdoc JSON bytes and validates the root item. The root
// must exist and be a module.
func Build(data []byte) (*Graph, error) {
	var crate Crate
	if err := json.Unmarshal(data, &crate); err != nil {
		return nil, fmt.Errorf("unmarshaling rustdoc JSON: %w", err)
	}
	return FromCrate(&crate)
}

// FromCrate wraps an already-decoded crate, validating the root item.
func FromCrate(crate *Crate) (*Graph, error) {
	root, ok := crate.Index[key(crate.Root)]
	if !ok {
		return nil, fmt.Errorf("validating graph root: %w", &ItemNotFoundError{ID: crate.Root})
	}
	if root.Inner.Module == nil {
		return nil, fmt.Errorf("graph root %d is a %s, want module", crate.Root, root.Inner.Kind())
	}

	name := ""
	if root.Name != nil {
		name = *root.Name
	}
	return &Graph{crate: crate, packageName: name}, nil
}

// Crate returns the underlying decoded crate data.
func (g *Graph) Crate() *Crate { return g.crate }

// PackageName returns the name of the analyzed package's root module.
func (g *Graph) PackageName() string { return g.packageName }

// RootID returns the id of the root module.
func (g *Graph) RootID() int { return g.crate.Root }

// Item looks up an item by id. The boolean is false when the id is not in
// the index, which callers must tolerate: the graph never assumes
// referential integrity holds universally.
func (g *Graph) Item(id int) (*Item, bool) {
	item, ok := g.crate.Index[key(id)]
	if !ok {
		return nil, false
	}
	return &item, true
}

// MustItem looks up an item by id, returning ItemNotFoundError when the
// referenced id is missing from the index.
func (g *Graph) MustItem(id int) (*Item, error) {
	item, ok := g.Item(id)
	if !ok {
		return nil, &ItemNotFoundError{ID: id}
	}
	return item, nil
}

// Summary looks up an entry in the paths table by id.
func (g *Graph) Summary(id int) (ItemSummary, bool) {
	s, ok := g.crate.Paths[key(id)]
	return s, ok
}

// SummaryPath returns the canonical `::`-joined path for an id from the
// paths table, or "" when the id has no entry.
func (g *Graph) SummaryPath(id int) string {
	s, ok := g.Summary(id)
	if !ok {
		return ""
	}
	return strings.Join(s.Path, "::")
}

func key(id int) string {
	return strconv.Itoa(id)
}
