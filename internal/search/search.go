// Package search builds a per-domain index over a crate's items and
// answers substring queries against it.
package search

import (
	"fmt"
	"strings"

	"github.com/jcdickinson/crateskel/internal/graph"
	"github.com/jcdickinson/crateskel/internal/render"
)

// Domain is a set of the searchable facets of an item.
type Domain uint8

const (
	// DomainName matches against item names.
	DomainName Domain = 1 << iota
	// DomainDoc matches against documentation strings.
	DomainDoc
	// DomainPath matches against canonical module paths.
	DomainPath
	// DomainSignature matches against rendered one-line signatures.
	DomainSignature
)

// DefaultDomains is the facet set used when the caller selects none.
// Paths are excluded by default; they produce noisy matches for short
// queries.
func DefaultDomains() Domain {
	return DomainName | DomainDoc | DomainSignature
}

// Has reports whether d includes every facet of x.
func (d Domain) Has(x Domain) bool {
	return d&x == x
}

// Labels returns the human-readable names of the selected facets, in
// fixed order.
func (d Domain) Labels() []string {
	var labels []string
	if d.Has(DomainName) {
		labels = append(labels, "name")
	}
	if d.Has(DomainDoc) {
		labels = append(labels, "doc")
	}
	if d.Has(DomainPath) {
		labels = append(labels, "path")
	}
	if d.Has(DomainSignature) {
		labels = append(labels, "signature")
	}
	return labels
}

// InvalidDomainError reports an unrecognized domain token.
type InvalidDomainError struct {
	Token string
}

func (e *InvalidDomainError) Error() string {
	return fmt.Sprintf("invalid search domain %q (valid: name, doc, path, signature)", e.Token)
}

// ParseDomains converts domain tokens to a Domain set. An empty token
// list yields the default set.
func ParseDomains(tokens []string) (Domain, error) {
	var d Domain
	for _, tok := range tokens {
		switch strings.ToLower(strings.TrimSpace(tok)) {
		case "name", "names":
			d |= DomainName
		case "doc", "docs":
			d |= DomainDoc
		case "path", "paths":
			d |= DomainPath
		case "signature", "signatures":
			d |= DomainSignature
		default:
			return 0, &InvalidDomainError{Token: tok}
		}
	}
	if d == 0 {
		d = DefaultDomains()
	}
	return d, nil
}

// Kind classifies an indexed item for display.
type Kind string

const (
	KindCrate       Kind = "crate"
	KindModule      Kind = "module"
	KindStruct      Kind = "struct"
	KindUnion       Kind = "union"
	KindEnum        Kind = "enum"
	KindEnumVariant Kind = "enum variant"
	KindField       Kind = "field"
	KindTrait       Kind = "trait"
	KindTraitAlias  Kind = "trait alias"
	KindFunction    Kind = "function"
	KindMethod      Kind = "method"
	KindTraitMethod Kind = "trait method"
	KindAssocConst  Kind = "assoc const"
	KindAssocType   Kind = "assoc type"
	KindConstant    Kind = "constant"
	KindStatic      Kind = "static"
	KindTypeAlias   Kind = "type alias"
	KindUse         Kind = "use"
	KindMacro       Kind = "macro"
	KindProcMacro   Kind = "proc macro"
	KindPrimitive   Kind = "primitive"
	KindImplTarget  Kind = "impl target"
)

// Options control how a query is evaluated.
type Options struct {
	// Query is the raw substring to look for.
	Query string
	// Domains selects the facets to match; zero means the default set.
	Domains Domain
	// CaseSensitive disables case folding during matching.
	CaseSensitive bool
}

// Entry is one indexed item, including everything the query domains can
// match against.
type Entry struct {
	ID          int
	Kind        Kind
	Path        []string
	PathString  string
	RawName     string
	DisplayName string
	Docs        string
	Signature   string
	// Ancestors is the id chain that must render for this item to be
	// syntactically reachable, outermost first.
	Ancestors []int
	// Matched records which domains hit during the last query.
	Matched Domain
}

// Index is a prepared view of a crate's items for query evaluation.
type Index struct {
	entries []Entry
	byID    map[int]int
}

// Build traverses the graph and indexes every reachable item.
func Build(g *graph.Graph, includePrivate bool) *Index {
	b := &indexBuilder{g: g, includePrivate: includePrivate, visited: make(map[int]bool)}
	if root, ok := g.Item(g.RootID()); ok {
		b.visitRoot(root)
	}
	byID := make(map[int]int, len(b.entries))
	for i := range b.entries {
		byID[b.entries[i].ID] = i
	}
	return &Index{entries: b.entries, byID: byID}
}

// Entries returns the indexed items in traversal order.
func (ix *Index) Entries() []Entry {
	return ix.entries
}

// Get looks up an entry by item id.
func (ix *Index) Get(id int) (*Entry, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return nil, false
	}
	return &ix.entries[i], true
}

// Search evaluates a query and returns the matching entries with their
// Matched sets populated. An item matches when any selected domain
// contains the query as a substring.
func (ix *Index) Search(opts Options) []Entry {
	domains := opts.Domains
	if domains == 0 {
		domains = DefaultDomains()
	}
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil
	}
	if !opts.CaseSensitive {
		query = strings.ToLower(query)
	}

	var results []Entry
	for i := range ix.entries {
		entry := &ix.entries[i]
		var matched Domain
		if domains.Has(DomainName) && contains(entry.RawName, query, opts.CaseSensitive) {
			matched |= DomainName
		}
		if domains.Has(DomainDoc) && entry.Docs != "" && contains(entry.Docs, query, opts.CaseSensitive) {
			matched |= DomainDoc
		}
		if domains.Has(DomainPath) && contains(entry.PathString, query, opts.CaseSensitive) {
			matched |= DomainPath
		}
		if domains.Has(DomainSignature) && entry.Signature != "" && contains(entry.Signature, query, opts.CaseSensitive) {
			matched |= DomainSignature
		}
		if matched != 0 {
			hit := *entry
			hit.Matched = matched
			results = append(results, hit)
		}
	}
	return results
}

func contains(haystack, needle string, caseSensitive bool) bool {
	if needle == "" {
		return false
	}
	if caseSensitive {
		return strings.Contains(haystack, needle)
	}
	return strings.Contains(strings.ToLower(haystack), needle)
}

// BuildSelection converts query results into a render selection: the
// matches themselves, the ancestor chain of each as context, and, when
// container expansion is on, the matched containers plus every
// intermediate container down to their indexed descendants as expanded.
func BuildSelection(ix *Index, results []Entry, expandContainers bool) *render.Selection {
	var matches, context, expanded []int
	seenMatch := make(map[int]bool)
	seenContext := make(map[int]bool)

	addContext := func(id int) {
		if !seenContext[id] {
			seenContext[id] = true
			context = append(context, id)
		}
	}

	for i := range results {
		r := &results[i]
		if !seenMatch[r.ID] {
			seenMatch[r.ID] = true
			matches = append(matches, r.ID)
		}
		addContext(r.ID)
		for _, anc := range r.Ancestors {
			addContext(anc)
		}
	}

	if expandContainers {
		containers := make(map[int]bool)
		for i := range results {
			// Enums are deliberately not in this set: a matched enum
			// already shows its variants through the direct-match rule.
			switch results[i].Kind {
			case KindCrate, KindModule, KindStruct, KindTrait:
				containers[results[i].ID] = true
			}
		}
		if len(containers) > 0 {
			seenExpanded := make(map[int]bool)
			addExpanded := func(id int) {
				if !seenExpanded[id] {
					seenExpanded[id] = true
					expanded = append(expanded, id)
				}
			}
			for id := range containers {
				addExpanded(id)
			}
			for i := range ix.entries {
				entry := &ix.entries[i]
				pos := -1
				for j, anc := range entry.Ancestors {
					if containers[anc] {
						pos = j
						break
					}
				}
				if pos < 0 {
					continue
				}
				addContext(entry.ID)
				for _, desc := range entry.Ancestors[pos+1:] {
					addContext(desc)
					addExpanded(desc)
				}
			}
		}
	}

	return render.NewSelection(matches, context, expanded)
}

type stackEntry struct {
	id    int
	hasID bool
	name  string
}

type indexBuilder struct {
	g              *graph.Graph
	includePrivate bool
	stack          []stackEntry
	entries        []Entry
	visited        map[int]bool
}

func (b *indexBuilder) visitRoot(item *graph.Item) {
	if item.Inner.Module == nil {
		return
	}
	b.visited[item.ID] = true
	b.record(item, KindCrate, true, nil)
	b.push(item)
	for _, child := range item.Inner.Module.Items {
		b.visit(child)
	}
	b.pop()
}

func (b *indexBuilder) visit(id int) {
	if b.visited[id] {
		return
	}
	b.visited[id] = true
	item, ok := b.g.Item(id)
	if !ok {
		return
	}
	switch {
	case item.Inner.Module != nil:
		b.visitModule(item)
	case item.Inner.Struct != nil:
		b.visitStruct(item)
	case item.Inner.Union != nil:
		b.visitUnion(item)
	case item.Inner.Enum != nil:
		b.visitEnum(item)
	case item.Inner.Variant != nil:
		b.visitVariant(item)
	case item.Inner.Trait != nil:
		b.visitTrait(item)
	case item.Inner.Impl != nil:
		b.visitImpl(item)
	case item.Inner.Function != nil:
		b.record(item, KindFunction, false, nil)
	case item.Inner.TypeAlias != nil:
		b.record(item, KindTypeAlias, false, nil)
	case item.Inner.Constant != nil:
		b.record(item, KindConstant, false, nil)
	case item.Inner.Static != nil:
		b.record(item, KindStatic, false, nil)
	case item.Inner.Macro != nil:
		b.record(item, KindMacro, false, nil)
	case item.Inner.ProcMacro != nil:
		b.record(item, KindProcMacro, false, nil)
	case item.Inner.TraitAlias != nil:
		b.record(item, KindTraitAlias, false, nil)
	case item.Inner.Use != nil:
		b.record(item, KindUse, false, nil)
	case item.Inner.Primitive != nil:
		b.record(item, KindPrimitive, false, nil)
	case item.Inner.StructField != nil:
		b.record(item, KindField, false, nil)
	case item.Inner.AssocConst != nil:
		b.record(item, KindAssocConst, false, nil)
	case item.Inner.AssocType != nil:
		b.record(item, KindAssocType, false, nil)
	}
}

func (b *indexBuilder) visitModule(item *graph.Item) {
	b.record(item, KindModule, false, nil)
	b.push(item)
	for _, child := range item.Inner.Module.Items {
		b.visit(child)
	}
	b.pop()
}

func (b *indexBuilder) visitStruct(item *graph.Item) {
	st := item.Inner.Struct
	included := b.record(item, KindStruct, false, nil)
	b.push(item)
	if included {
		switch {
		case st.Kind.Tuple != nil:
			for _, fieldID := range st.Kind.Tuple {
				if fieldID != nil {
					b.visit(*fieldID)
				}
			}
		case st.Kind.Plain != nil:
			for _, fieldID := range st.Kind.Plain.Fields {
				b.visit(fieldID)
			}
		}
	}
	for _, implID := range st.Impls {
		b.visit(implID)
	}
	b.pop()
}

func (b *indexBuilder) visitUnion(item *graph.Item) {
	un := item.Inner.Union
	included := b.record(item, KindUnion, false, nil)
	b.push(item)
	if included {
		for _, fieldID := range un.Fields {
			b.visit(fieldID)
		}
	}
	for _, implID := range un.Impls {
		b.visit(implID)
	}
	b.pop()
}

func (b *indexBuilder) visitEnum(item *graph.Item) {
	en := item.Inner.Enum
	included := b.record(item, KindEnum, false, nil)
	b.push(item)
	if included {
		for _, variantID := range en.Variants {
			b.visit(variantID)
		}
	}
	for _, implID := range en.Impls {
		b.visit(implID)
	}
	b.pop()
}

func (b *indexBuilder) visitVariant(item *graph.Item) {
	variant := item.Inner.Variant
	included := b.record(item, KindEnumVariant, false, nil)
	b.push(item)
	if included {
		switch {
		case variant.Kind.Tuple != nil:
			for _, fieldID := range variant.Kind.Tuple {
				if fieldID != nil {
					b.visit(*fieldID)
				}
			}
		case variant.Kind.Struct != nil:
			for _, fieldID := range variant.Kind.Struct.Fields {
				b.visit(fieldID)
			}
		}
	}
	b.pop()
}

func (b *indexBuilder) visitTrait(item *graph.Item) {
	tr := item.Inner.Trait
	included := b.record(item, KindTrait, false, nil)
	b.push(item)
	if included {
		for _, memberID := range tr.Items {
			member, ok := b.g.Item(memberID)
			if !ok {
				continue
			}
			switch {
			case member.Inner.Function != nil:
				b.record(member, KindTraitMethod, false, nil)
			case member.Inner.AssocConst != nil:
				b.record(member, KindAssocConst, false, nil)
			case member.Inner.AssocType != nil:
				b.record(member, KindAssocType, false, nil)
			default:
				b.visit(memberID)
			}
		}
	}
	for _, implID := range tr.Implementations {
		b.visit(implID)
	}
	b.pop()
}

// visitImpl records impl members under synthetic path segments for the
// target type and, for trait impls, the trait. The target segment is
// skipped when the target is already on the stack (inherent impls
// reached through their own type).
func (b *indexBuilder) visitImpl(item *graph.Item) {
	imp := item.Inner.Impl
	if imp.IsSynthetic {
		return
	}

	pushed := 0
	if entry, ok := b.implTargetEntry(&imp.For); ok {
		onStack := false
		if entry.hasID {
			for _, se := range b.stack {
				if se.hasID && se.id == entry.id {
					onStack = true
					break
				}
			}
		}
		if !onStack {
			b.stack = append(b.stack, entry)
			pushed++
		}
	}
	if imp.Trait != nil {
		b.stack = append(b.stack, b.implTraitEntry(imp.Trait))
		pushed++
	}

	for _, memberID := range imp.Items {
		member, ok := b.g.Item(memberID)
		if !ok {
			continue
		}
		switch {
		case member.Inner.Function != nil:
			b.record(member, KindMethod, false, []int{item.ID})
		case member.Inner.AssocConst != nil:
			b.record(member, KindAssocConst, false, []int{item.ID})
		case member.Inner.AssocType != nil:
			b.record(member, KindAssocType, false, []int{item.ID})
		case member.Inner.TypeAlias != nil:
			b.record(member, KindTypeAlias, false, []int{item.ID})
		case member.Inner.Constant != nil:
			b.record(member, KindConstant, false, []int{item.ID})
		}
	}

	b.stack = b.stack[:len(b.stack)-pushed]
}

func (b *indexBuilder) implTargetEntry(t *graph.Type) (stackEntry, bool) {
	name := render.FormatType(t)
	if name == "" {
		return stackEntry{}, false
	}
	if t.ResolvedPath != nil {
		if _, ok := b.g.Item(t.ResolvedPath.ID); ok {
			return stackEntry{id: t.ResolvedPath.ID, hasID: true, name: name}, true
		}
	}
	return stackEntry{name: name}, true
}

func (b *indexBuilder) implTraitEntry(trait *graph.PathRef) stackEntry {
	name := strings.ReplaceAll(trait.Path, "$crate::", "")
	if _, ok := b.g.Item(trait.ID); ok {
		return stackEntry{id: trait.ID, hasID: true, name: name}
	}
	return stackEntry{name: name}
}

func (b *indexBuilder) push(item *graph.Item) {
	name := "?"
	if item.Name != nil {
		name = *item.Name
	} else if item.Inner.Module != nil && item.Inner.Module.IsCrate {
		name = "crate"
	}
	b.stack = append(b.stack, stackEntry{id: item.ID, hasID: true, name: name})
}

func (b *indexBuilder) pop() {
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *indexBuilder) record(item *graph.Item, kind Kind, alwaysInclude bool, extraAncestors []int) bool {
	if !alwaysInclude && !b.shouldInclude(item) {
		return false
	}

	rawName := "?"
	if item.Name != nil {
		rawName = *item.Name
	} else if kind == KindCrate {
		rawName = "crate"
	}
	displayName := rawName
	if item.Name != nil {
		displayName = render.EscapeName(*item.Name)
	}

	path := make([]string, 0, len(b.stack)+1)
	ancestors := make([]int, 0, len(b.stack)+len(extraAncestors))
	for _, se := range b.stack {
		path = append(path, se.name)
		if se.hasID {
			ancestors = append(ancestors, se.id)
		}
	}
	path = append(path, rawName)
	ancestors = append(ancestors, extraAncestors...)

	signature, _ := render.Signature(b.g, item)
	docs := ""
	if item.Docs != nil {
		docs = *item.Docs
	}

	b.entries = append(b.entries, Entry{
		ID:          item.ID,
		Kind:        kind,
		Path:        path,
		PathString:  strings.Join(path, "::"),
		RawName:     rawName,
		DisplayName: displayName,
		Docs:        docs,
		Signature:   signature,
		Ancestors:   ancestors,
	})
	return true
}

func (b *indexBuilder) shouldInclude(item *graph.Item) bool {
	if b.includePrivate {
		return true
	}
	return item.Visibility.IsPublic()
}
