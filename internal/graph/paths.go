package graph

import (
	"slices"
	"strings"
)

// Path is one named route from the package root to an item. An item has
// exactly one primary path and zero or more alias paths reached through
// re-exports.
type Path struct {
	Segments []string
	Primary  bool
}

// String renders the path as a `::`-separated string.
func (p Path) String() string {
	return strings.Join(p.Segments, "::")
}

// PathTable maps item ids to every path under which they are reachable
// from the root module.
type PathTable struct {
	paths map[int][]Path
}

// ResolvePaths walks the module tree from the root, following both
// declared children and `use` re-export edges, and records every distinct
// path to every reachable item.
//
// A module is visited once per distinct incoming path, not once per
// graph, since the same module can be reachable under several names.
// Cycles formed by re-exports are broken by refusing to re-enter a module
// whose id already occurs on the incoming path.
func ResolvePaths(g *Graph) *PathTable {
	t := &PathTable{paths: make(map[int][]Path)}

	type visit struct {
		moduleID int
		segments []string
		onPath   []int
	}

	rootSeg := []string{g.PackageName()}
	t.record(g.RootID(), rootSeg)
	queue := []visit{{moduleID: g.RootID(), segments: rootSeg, onPath: []int{g.RootID()}}}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		mod, ok := g.Item(v.moduleID)
		if !ok || mod.Inner.Module == nil {
			continue
		}

		for _, childID := range mod.Inner.Module.Items {
			child, ok := g.Item(childID)
			if !ok {
				// Re-export edges may point outside the received
				// graph slice; skip rather than fail.
				continue
			}

			if child.Inner.Use != nil {
				use := child.Inner.Use
				if use.ID == nil {
					continue
				}
				target, ok := g.Item(*use.ID)
				if !ok {
					continue
				}
				if use.IsGlob {
					// Glob re-export: the target module's children
					// appear directly under the current path.
					if target.Inner.Module != nil && !slices.Contains(v.onPath, *use.ID) {
						queue = append(queue, visit{
							moduleID: *use.ID,
							segments: v.segments,
							onPath:   appendCopy(v.onPath, *use.ID),
						})
					}
					continue
				}
				seg := appendSeg(v.segments, use.Name)
				t.record(*use.ID, seg)
				if target.Inner.Module != nil && !slices.Contains(v.onPath, *use.ID) {
					queue = append(queue, visit{
						moduleID: *use.ID,
						segments: seg,
						onPath:   appendCopy(v.onPath, *use.ID),
					})
				}
				continue
			}

			if child.Name == nil {
				continue
			}
			seg := appendSeg(v.segments, *child.Name)
			t.record(childID, seg)
			if child.Inner.Module != nil && !slices.Contains(v.onPath, childID) {
				queue = append(queue, visit{
					moduleID: childID,
					segments: seg,
					onPath:   appendCopy(v.onPath, childID),
				})
			}
		}
	}

	t.markPrimaries()
	return t
}

// Paths returns every recorded path for an item, primary first.
func (t *PathTable) Paths(id int) []Path {
	return t.paths[id]
}

// Primary returns the primary path for an item, or ok=false when the item
// is not reachable from the root.
func (t *PathTable) Primary(id int) (Path, bool) {
	ps := t.paths[id]
	if len(ps) == 0 {
		return Path{}, false
	}
	return ps[0], true
}

// MatchesFilter reports whether any of the item's paths has the filter as
// a segment-wise prefix. The filter is `::`-separated and may omit the
// leading package name.
func (t *PathTable) MatchesFilter(id int, filter string) bool {
	if filter == "" {
		return true
	}
	want := strings.Split(filter, "::")
	for _, p := range t.paths[id] {
		segs := p.Segments
		// Allow filters written without the package-name prefix.
		if len(segs) > 0 && len(want) > 0 && segs[0] != want[0] {
			segs = segs[1:]
		}
		if hasPrefix(segs, want) {
			return true
		}
	}
	return false
}

// FindModule resolves a `::`-separated path to a reachable item id. When
// several ids share the path, the smallest wins, so resolution never
// depends on map iteration order.
func (t *PathTable) FindModule(path string) (int, error) {
	want := strings.Split(path, "::")
	found, ok := 0, false
	for id, ps := range t.paths {
		for _, p := range ps {
			if !slices.Equal(p.Segments, want) &&
				!(len(p.Segments) > 1 && slices.Equal(p.Segments[1:], want)) {
				continue
			}
			if !ok || id < found {
				found, ok = id, true
			}
		}
	}
	if !ok {
		return 0, &ModuleNotFoundError{Path: path}
	}
	return found, nil
}

// ResolveChain resolves a filter path to the id chain from the root to
// the matched item, inclusive. The filter may omit the leading package
// name. Among several reachable matches the primary path ordering
// decides.
func (t *PathTable) ResolveChain(filter string) ([]int, bool) {
	want := strings.Split(filter, "::")
	var best *Path
	for _, ps := range t.paths {
		for i := range ps {
			segs := ps[i].Segments
			if !slices.Equal(segs, want) &&
				!(len(segs) > 1 && slices.Equal(segs[1:], want)) {
				continue
			}
			if best == nil || comparePaths(ps[i], *best) < 0 {
				p := ps[i]
				best = &p
			}
		}
	}
	if best == nil {
		return nil, false
	}
	chain := make([]int, 0, len(best.Segments))
	for k := 1; k <= len(best.Segments); k++ {
		id, err := t.FindModule(strings.Join(best.Segments[:k], "::"))
		if err != nil {
			return nil, false
		}
		chain = append(chain, id)
	}
	return chain, true
}

func (t *PathTable) record(id int, segments []string) {
	for _, existing := range t.paths[id] {
		if slices.Equal(existing.Segments, segments) {
			return
		}
	}
	t.paths[id] = append(t.paths[id], Path{Segments: segments})
}

// markPrimaries orders each item's paths deterministically and flags the
// first as primary: shortest wins, ties broken by lexicographic segment
// comparison. The ordering must not depend on traversal order.
func (t *PathTable) markPrimaries() {
	for id, ps := range t.paths {
		slices.SortFunc(ps, comparePaths)
		for i := range ps {
			ps[i].Primary = i == 0
		}
		t.paths[id] = ps
	}
}

func comparePaths(a, b Path) int {
	if len(a.Segments) != len(b.Segments) {
		return len(a.Segments) - len(b.Segments)
	}
	return slices.Compare(a.Segments, b.Segments)
}

func hasPrefix(segs, prefix []string) bool {
	if len(prefix) > len(segs) {
		return false
	}
	return slices.Equal(segs[:len(prefix)], prefix)
}

func appendSeg(segs []string, s string) []string {
	out := make([]string, len(segs)+1)
	copy(out, segs)
	out[len(segs)] = s
	return out
}

func appendCopy(ids []int, id int) []int {
	out := make([]int, len(ids)+1)
	copy(out, ids)
	out[len(ids)] = id
	return out
}
