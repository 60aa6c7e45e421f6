// Package merge groups capability implementations that target the same
// (type, trait) pair so the renderer emits one block per pair even when a
// type is reachable through several re-export paths.
package merge

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/jcdickinson/crateskel/internal/graph"
)

// Options control which impl blocks participate in merging.
type Options struct {
	// AutoImpls includes compiler-synthesized marker trait impls.
	AutoImpls bool
	// BlanketImpls includes impls produced by blanket trait coverage.
	BlanketImpls bool
	// TypeKey renders a type expression to a stable identity string, used
	// only when an impl target has no defining id. Supplied by the
	// renderer so merging and rendering agree on type spelling.
	TypeKey func(*graph.Type) string
}

// Key identifies one rendering unit: a target type and the trait it
// implements, or the inherent block when Trait is empty.
type Key struct {
	Target string
	Trait  string
}

// Group is the merged set of members for one key. Impl is the first
// implementation encountered and supplies generics and the impl header;
// Members is the name-deduplicated union across every merged impl.
type Group struct {
	Key     Key
	Impl    *graph.Item
	Members []int
	// Sources lists the item ids of every impl folded into this group,
	// in encounter order. The first entry is Impl's id.
	Sources []int
}

// filteredTraits are blanket-implemented traits that add noise rather
// than information. Their blanket impls are skipped unless auto impls
// were requested.
var filteredTraits = map[string]struct{}{
	"Any": {}, "Send": {}, "Sync": {}, "Unpin": {}, "UnwindSafe": {},
	"RefUnwindSafe": {}, "Borrow": {}, "BorrowMut": {}, "From": {},
	"Into": {}, "TryFrom": {}, "TryInto": {}, "AsRef": {}, "AsMut": {},
	"Default": {}, "Debug": {}, "PartialEq": {}, "Eq": {}, "PartialOrd": {},
	"Ord": {}, "Hash": {}, "Deref": {}, "DerefMut": {}, "Drop": {},
	"IntoIterator": {}, "CloneToUninit": {}, "ToOwned": {},
}

// Include reports whether an impl block should appear in output at all,
// applying the auto and blanket impl switches.
func Include(imp *graph.Impl, opts Options) bool {
	if imp.IsSynthetic && !opts.AutoImpls {
		return false
	}
	isBlanket := imp.BlanketImpl != nil
	if isBlanket && !opts.BlanketImpls {
		return false
	}
	if !opts.AutoImpls && imp.Trait != nil && isBlanket {
		name := imp.Trait.Path
		if idx := strings.LastIndex(name, "::"); idx >= 0 {
			name = name[idx+2:]
		}
		if _, filtered := filteredTraits[name]; filtered {
			return false
		}
	}
	return true
}

// Groups merges the given impl ids into one group per (target, trait)
// key, preserving first-encounter order. Member names that appear in
// several impls of the same group keep the first definition; divergent
// signatures under the same name produce a warning, not an error, since
// conditional compilation legitimately yields both.
func Groups(g *graph.Graph, implIDs []int, opts Options) ([]Group, []string) {
	var (
		groups   []Group
		order    = make(map[Key]int)
		warnings []string
	)

	for _, id := range implIDs {
		item, ok := g.Item(id)
		if !ok || item.Inner.Impl == nil {
			continue
		}
		imp := item.Inner.Impl
		if !Include(imp, opts) {
			continue
		}

		key := Key{Target: targetKey(&imp.For, opts), Trait: traitKey(imp.Trait)}
		idx, seen := order[key]
		if !seen {
			order[key] = len(groups)
			groups = append(groups, Group{
				Key:     key,
				Impl:    item,
				Members: append([]int(nil), imp.Items...),
				Sources: []int{id},
			})
			continue
		}

		groups[idx].Sources = append(groups[idx].Sources, id)
		groups[idx].Members, warnings = unionMembers(g, groups[idx].Members, imp.Items, key, warnings)
	}

	return groups, warnings
}

func unionMembers(g *graph.Graph, have, add []int, key Key, warnings []string) ([]int, []string) {
	byName := make(map[string]int, len(have))
	for _, id := range have {
		if item, ok := g.Item(id); ok && item.Name != nil {
			byName[*item.Name] = id
		}
	}
	for _, id := range add {
		item, ok := g.Item(id)
		if !ok {
			continue
		}
		if item.Name == nil {
			have = append(have, id)
			continue
		}
		existing, dup := byName[*item.Name]
		if !dup {
			byName[*item.Name] = id
			have = append(have, id)
			continue
		}
		if prior, ok := g.Item(existing); ok && !reflect.DeepEqual(prior.Inner, item.Inner) {
			warnings = append(warnings, fmt.Sprintf(
				"conflicting definitions of %s in merged impl for %s; keeping the first",
				*item.Name, key.Target))
		}
	}
	return have, warnings
}

func targetKey(t *graph.Type, opts Options) string {
	// A resolved path carries the defining item id, which is stable
	// across aliasing and generic argument spelling.
	if t.ResolvedPath != nil {
		return strconv.Itoa(t.ResolvedPath.ID)
	}
	if opts.TypeKey != nil {
		return opts.TypeKey(t)
	}
	return fmt.Sprintf("%#v", *t)
}

func traitKey(trait *graph.PathRef) string {
	if trait == nil {
		return ""
	}
	return strconv.Itoa(trait.ID)
}
