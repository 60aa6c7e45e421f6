// Package render emits deterministic, implementation-free Rust source
// skeletons from a parsed rustdoc item graph.
package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jcdickinson/crateskel/internal/graph"
	"github.com/jcdickinson/crateskel/internal/merge"
)

// Options control what a render pass includes.
type Options struct {
	// IncludePrivate renders non-public items as well.
	IncludePrivate bool
	// AutoImpls renders compiler-synthesized marker trait impls.
	AutoImpls bool
	// BlanketImpls renders blanket trait impls.
	BlanketImpls bool
	// RewriteDocs, when set, transforms an item's documentation before
	// emission, e.g. to canonicalize intra-doc links.
	RewriteDocs func(item *graph.Item, docs string) string
}

// Error wraps a failure to format a specific item.
type Error struct {
	ID   int
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rendering item %d (%s): %v", e.ID, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FilterNotMatchedError reports a filter path that selected nothing.
type FilterNotMatchedError struct {
	Filter string
}

func (e *FilterNotMatchedError) Error() string {
	return fmt.Sprintf("filter %q matched no items", e.Filter)
}

// ErrUnknownType reports a type expression with no recognized variant.
var ErrUnknownType = errors.New("unrecognized type expression")

// Renderer produces skeleton output from item graphs. A single renderer
// can serve multiple passes; warnings accumulate across them.
type Renderer struct {
	opts     Options
	warnings []string
}

// New returns a renderer with the given options.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Warnings returns the non-fatal diagnostics collected so far, such as
// divergent member signatures found while merging impls.
func (r *Renderer) Warnings() []string {
	return r.warnings
}

// Render emits the whole graph starting at the root module.
func (r *Renderer) Render(g *graph.Graph) (string, error) {
	return r.RenderSelection(g, nil)
}

// RenderWithFilter restricts output to the subtree at the `::`-separated
// filter path, resolved against the full path table so re-exported
// aliases match too. The ancestors of the subtree render as minimal
// shells so the path stays syntactically valid.
func (r *Renderer) RenderWithFilter(g *graph.Graph, filter string) (string, error) {
	if filter == "" {
		return r.Render(g)
	}
	chain, ok := graph.ResolvePaths(g).ResolveChain(filter)
	if !ok {
		return "", &FilterNotMatchedError{Filter: filter}
	}
	target := chain[len(chain)-1]
	sel := NewSelection([]int{target}, chain[:len(chain)-1], []int{target})
	return r.RenderSelection(g, sel)
}

// RenderSelection emits the graph restricted to a selection; a nil
// selection renders everything the visibility options allow.
func (r *Renderer) RenderSelection(g *graph.Graph, sel *Selection) (string, error) {
	root, err := g.MustItem(g.RootID())
	if err != nil {
		return "", err
	}
	rn := &run{r: r, g: g, sel: sel, inlining: make(map[int]bool)}
	rn.sites = rn.definitionSites()
	rn.item(root, sel == nil, false)
	if rn.err != nil {
		return "", rn.err
	}
	return rn.buf.String(), nil
}

// kindPrecedence fixes the order of distinct kinds within a container so
// output never depends on index map iteration.
func kindPrecedence(kind string) int {
	switch kind {
	case "extern_crate":
		return 0
	case "use":
		return 1
	case "macro":
		return 2
	case "proc_macro":
		return 3
	case "primitive":
		return 4
	case "constant":
		return 5
	case "static":
		return 6
	case "type_alias":
		return 7
	case "trait_alias":
		return 8
	case "trait":
		return 9
	case "struct":
		return 10
	case "union":
		return 11
	case "enum":
		return 12
	case "function":
		return 13
	case "module":
		return 15
	default:
		return 14
	}
}

type run struct {
	r   *Renderer
	g   *graph.Graph
	sel *Selection
	buf strings.Builder
	err error

	indent int
	// inlining tracks use targets currently being inlined, so re-export
	// cycles degrade to a plain `pub use` line instead of recursing.
	inlining map[int]bool
	// sites holds ids that render at their own declaration, so public
	// re-exports of them become `pub use` lines instead of a second
	// inlined copy.
	sites map[int]bool
}

// definitionSites walks the module tree with the same visibility and
// selection gates as rendering, collecting every id that will appear at
// its declaration. Use and impl children are skipped: they never declare.
func (rn *run) definitionSites() map[int]bool {
	sites := make(map[int]bool)
	var walk func(id int, full bool)
	walk = func(id int, full bool) {
		item, ok := rn.g.Item(id)
		if !ok || item.Inner.Module == nil || sites[id] {
			return
		}
		sites[id] = true
		childrenFull := rn.childFull(id, full)
		for _, childID := range item.Inner.Module.Items {
			child, ok := rn.g.Item(childID)
			if !ok || child.Inner.Use != nil || child.Inner.Impl != nil {
				continue
			}
			if !rn.visible(child, false) || !rn.selected(child, childrenFull) {
				continue
			}
			if child.Inner.Module != nil {
				walk(childID, childrenFull)
				continue
			}
			sites[childID] = true
		}
	}
	walk(rn.g.RootID(), rn.sel == nil)
	return sites
}

func (rn *run) line(s string) {
	for range rn.indent {
		rn.buf.WriteString("    ")
	}
	rn.buf.WriteString(s)
	rn.buf.WriteString("\n")
}

func (rn *run) blank() {
	rn.buf.WriteString("\n")
}

func (rn *run) docs(item *graph.Item, inner bool) {
	if item.Docs == nil || *item.Docs == "" {
		return
	}
	marker := "///"
	if inner {
		marker = "//!"
	}
	text := *item.Docs
	if rn.r.opts.RewriteDocs != nil {
		text = rn.r.opts.RewriteDocs(item, text)
	}
	for _, l := range strings.Split(text, "\n") {
		if l == "" {
			rn.line(marker)
		} else {
			rn.line(marker + " " + l)
		}
	}
}

// typeOf formats a type appearing in an item's declaration, recording a
// render error for expressions with no recognized variant.
func (rn *run) typeOf(item *graph.Item, t *graph.Type) string {
	s := FormatType(t)
	if s == "" {
		if rn.err == nil {
			rn.err = &Error{ID: item.ID, Kind: item.Inner.Kind(), Err: ErrUnknownType}
		}
		return "_"
	}
	return s
}

func (rn *run) attrs(item *graph.Item) {
	for _, a := range item.Attrs {
		for _, l := range strings.Split(a, "\n") {
			rn.line(l)
		}
	}
}

// visible applies the module-level visibility gate. Only items declared
// `pub` render by default; trait members, variants, and fields are gated
// by their own rules elsewhere.
func (rn *run) visible(item *graph.Item, forcePrivate bool) bool {
	if forcePrivate || rn.r.opts.IncludePrivate {
		return true
	}
	return item.Visibility.Kind == "public"
}

// selected applies the selection gate for items outside fully rendered
// subtrees.
func (rn *run) selected(item *graph.Item, full bool) bool {
	if full || rn.sel == nil {
		return true
	}
	return rn.sel.Contains(item.ID)
}

// childFull reports whether a container's children render without
// individual selection checks.
func (rn *run) childFull(id int, full bool) bool {
	if full || rn.sel == nil {
		return true
	}
	return rn.sel.IsExpanded(id)
}

// declFull is like childFull but also treats direct matches as complete,
// so a matched type renders its own fields and variants even when its
// subtree is not expanded.
func (rn *run) declFull(id int, full bool) bool {
	if rn.childFull(id, full) {
		return true
	}
	return rn.sel.IsMatch(id)
}

func (rn *run) item(item *graph.Item, full, forcePrivate bool) {
	if rn.err != nil {
		return
	}
	if !rn.visible(item, forcePrivate) || !rn.selected(item, full) {
		return
	}
	switch {
	case item.Inner.Module != nil:
		rn.module(item, full)
	case item.Inner.Struct != nil:
		rn.structItem(item, full)
	case item.Inner.Union != nil:
		rn.unionItem(item, full)
	case item.Inner.Enum != nil:
		rn.enumItem(item, full)
	case item.Inner.Trait != nil:
		rn.traitItem(item, full)
	case item.Inner.TraitAlias != nil:
		rn.traitAlias(item)
	case item.Inner.Use != nil:
		rn.useItem(item, full)
	case item.Inner.Function != nil:
		rn.function(item, false)
	case item.Inner.Constant != nil:
		rn.constant(item)
	case item.Inner.Static != nil:
		rn.static_(item)
	case item.Inner.TypeAlias != nil:
		rn.typeAlias(item)
	case item.Inner.Macro != nil:
		rn.macroItem(item)
	case item.Inner.ProcMacro != nil:
		rn.procMacro(item)
	}
}

// orderedChildren resolves and sorts a container's child ids by kind
// precedence, then name, then id.
func (rn *run) orderedChildren(ids []int) []*graph.Item {
	items := make([]*graph.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := rn.g.Item(id); ok {
			items = append(items, item)
		}
	}
	slices.SortStableFunc(items, func(a, b *graph.Item) int {
		if d := kindPrecedence(a.Inner.Kind()) - kindPrecedence(b.Inner.Kind()); d != 0 {
			return d
		}
		an, bn := "", ""
		if a.Name != nil {
			an = *a.Name
		}
		if b.Name != nil {
			bn = *b.Name
		}
		if d := strings.Compare(an, bn); d != 0 {
			return d
		}
		return a.ID - b.ID
	})
	return items
}

func (rn *run) module(item *graph.Item, full bool) {
	vis := Vis(item)
	rn.line(fmt.Sprintf("%smod %s {", vis, Name(item)))
	rn.indent++
	rn.docs(item, true)
	if item.Docs != nil && *item.Docs != "" {
		rn.blank()
	}
	childrenFull := rn.childFull(item.ID, full)
	for _, child := range rn.orderedChildren(item.Inner.Module.Items) {
		if child.Inner.Use != nil && child.Visibility.Kind == "public" {
			if rn.selected(child, childrenFull) {
				rn.useItem(child, childrenFull)
			}
			continue
		}
		if child.Inner.Impl != nil {
			// Impl blocks render from their target type's impl list.
			continue
		}
		rn.item(child, childrenFull, false)
	}
	rn.indent--
	rn.line("}")
	rn.blank()
}

func (rn *run) useItem(item *graph.Item, full bool) {
	use := item.Inner.Use

	if use.IsGlob {
		if use.ID != nil && !rn.inlining[*use.ID] && !rn.sites[*use.ID] {
			if target, ok := rn.g.Item(*use.ID); ok && target.Inner.Module != nil {
				rn.inlining[*use.ID] = true
				for _, child := range rn.orderedChildren(target.Inner.Module.Items) {
					if child.Visibility.Kind == "public" && rn.selected(child, full) {
						rn.item(child, full, true)
					}
				}
				delete(rn.inlining, *use.ID)
				return
			}
		}
		rn.line(fmt.Sprintf("pub use %s::*;", use.Source))
		return
	}

	if use.ID != nil && !rn.inlining[*use.ID] && !rn.sites[*use.ID] {
		if target, ok := rn.g.Item(*use.ID); ok {
			rn.inlining[*use.ID] = true
			rn.item(target, full, true)
			delete(rn.inlining, *use.ID)
			return
		}
	}

	rn.docs(item, false)
	last := use.Source
	if idx := strings.LastIndex(last, "::"); idx >= 0 {
		last = last[idx+2:]
	}
	if use.Name != last {
		rn.line(fmt.Sprintf("pub use %s as %s;", use.Source, use.Name))
	} else {
		rn.line(fmt.Sprintf("pub use %s;", use.Source))
	}
}

func (rn *run) structItem(item *graph.Item, full bool) {
	st := item.Inner.Struct
	rn.docs(item, false)
	rn.attrs(item)

	generics := FormatGenerics(&st.Generics)
	where := FormatWhereClause(&st.Generics)
	declFull := rn.declFull(item.ID, full)

	switch {
	case st.Kind.Unit:
		rn.line(fmt.Sprintf("%sstruct %s%s%s;", Vis(item), Name(item), generics, where))
	case st.Kind.Tuple != nil:
		fields := make([]string, 0, len(st.Kind.Tuple))
		for _, fieldID := range st.Kind.Tuple {
			if fieldID == nil {
				fields = append(fields, "_")
				continue
			}
			field, ok := rn.g.Item(*fieldID)
			if !ok || field.Inner.StructField == nil {
				continue
			}
			fields = append(fields, Vis(field)+FormatType(field.Inner.StructField))
		}
		rn.line(fmt.Sprintf("%sstruct %s%s(%s)%s;", Vis(item), Name(item), generics, strings.Join(fields, ", "), where))
	case st.Kind.Plain != nil:
		rn.line(fmt.Sprintf("%sstruct %s%s%s {", Vis(item), Name(item), generics, where))
		rn.indent++
		if declFull {
			for _, fieldID := range st.Kind.Plain.Fields {
				rn.structField(fieldID)
			}
		}
		rn.indent--
		rn.line("}")
	}
	rn.blank()

	rn.implBlocks(st.Impls, full, item.ID)
}

func (rn *run) structField(fieldID int) {
	field, ok := rn.g.Item(fieldID)
	if !ok || field.Inner.StructField == nil {
		return
	}
	rn.docs(field, false)
	rn.line(fmt.Sprintf("%s%s: %s,", Vis(field), Name(field), rn.typeOf(field, field.Inner.StructField)))
}

func (rn *run) unionItem(item *graph.Item, full bool) {
	un := item.Inner.Union
	rn.docs(item, false)
	rn.attrs(item)
	rn.line(fmt.Sprintf("%sunion %s%s%s {", Vis(item), Name(item), FormatGenerics(&un.Generics), FormatWhereClause(&un.Generics)))
	rn.indent++
	if rn.declFull(item.ID, full) {
		for _, fieldID := range un.Fields {
			rn.structField(fieldID)
		}
	}
	rn.indent--
	rn.line("}")
	rn.blank()

	rn.implBlocks(un.Impls, full, item.ID)
}

func (rn *run) enumItem(item *graph.Item, full bool) {
	en := item.Inner.Enum
	rn.docs(item, false)
	rn.attrs(item)
	rn.line(fmt.Sprintf("%senum %s%s%s {", Vis(item), Name(item), FormatGenerics(&en.Generics), FormatWhereClause(&en.Generics)))
	rn.indent++
	if rn.declFull(item.ID, full) {
		for _, variantID := range en.Variants {
			rn.variant(variantID)
		}
	}
	rn.indent--
	rn.line("}")
	rn.blank()

	rn.implBlocks(en.Impls, full, item.ID)
}

func (rn *run) variant(variantID int) {
	item, ok := rn.g.Item(variantID)
	if !ok || item.Inner.Variant == nil {
		return
	}
	variant := item.Inner.Variant
	rn.docs(item, false)

	if variant.Kind.Struct != nil {
		rn.line(Name(item) + " {")
		rn.indent++
		for _, fieldID := range variant.Kind.Struct.Fields {
			rn.structField(fieldID)
		}
		rn.indent--
		rn.line("},")
		return
	}

	decl := Name(item)
	if variant.Kind.Tuple != nil {
		fields := make([]string, 0, len(variant.Kind.Tuple))
		for _, fieldID := range variant.Kind.Tuple {
			if fieldID == nil {
				continue
			}
			if field, ok := rn.g.Item(*fieldID); ok && field.Inner.StructField != nil {
				fields = append(fields, FormatType(field.Inner.StructField))
			}
		}
		decl += "(" + strings.Join(fields, ", ") + ")"
	}
	if variant.Discriminant != nil {
		decl += " = " + variant.Discriminant.Expr
	}
	rn.line(decl + ",")
}

func (rn *run) traitItem(item *graph.Item, full bool) {
	tr := item.Inner.Trait
	rn.docs(item, false)
	rn.attrs(item)

	bounds := ""
	if len(tr.Bounds) > 0 {
		bounds = ": " + FormatGenericBounds(tr.Bounds)
	}
	unsafePrefix := ""
	if tr.IsUnsafe {
		unsafePrefix = "unsafe "
	}
	rn.line(fmt.Sprintf("%s%strait %s%s%s%s {", Vis(item), unsafePrefix, Name(item),
		FormatGenerics(&tr.Generics), bounds, FormatWhereClause(&tr.Generics)))
	rn.indent++
	if rn.declFull(item.ID, full) {
		for _, memberID := range tr.Items {
			member, ok := rn.g.Item(memberID)
			if !ok {
				continue
			}
			switch {
			case member.Inner.Function != nil:
				rn.function(member, true)
			case member.Inner.AssocConst != nil:
				rn.assocConst(member)
			case member.Inner.AssocType != nil:
				rn.assocType(member)
			}
		}
	} else {
		for _, memberID := range tr.Items {
			member, ok := rn.g.Item(memberID)
			if !ok || !rn.selected(member, false) {
				continue
			}
			switch {
			case member.Inner.Function != nil:
				rn.function(member, true)
			case member.Inner.AssocConst != nil:
				rn.assocConst(member)
			case member.Inner.AssocType != nil:
				rn.assocType(member)
			}
		}
	}
	rn.indent--
	rn.line("}")
	rn.blank()
}

func (rn *run) traitAlias(item *graph.Item) {
	ta := item.Inner.TraitAlias
	rn.docs(item, false)
	rn.line(fmt.Sprintf("%strait %s%s = %s%s;", Vis(item), Name(item),
		FormatGenerics(&ta.Generics), FormatGenericBounds(ta.Params), FormatWhereClause(&ta.Generics)))
	rn.blank()
}

// implBlocks renders the merged impl groups for a type. When the owner is
// only selection context, groups render only if one of their source impls
// is itself selected.
func (rn *run) implBlocks(implIDs []int, full bool, ownerID int) {
	if len(implIDs) == 0 {
		return
	}
	groups, warnings := merge.Groups(rn.g, implIDs, merge.Options{
		AutoImpls:    rn.r.opts.AutoImpls,
		BlanketImpls: rn.r.opts.BlanketImpls,
		TypeKey:      FormatType,
	})
	rn.r.warnings = append(rn.r.warnings, warnings...)

	slices.SortStableFunc(groups, func(a, b merge.Group) int {
		if d := strings.Compare(a.Key.Trait, b.Key.Trait); d != 0 {
			return d
		}
		if d := strings.Compare(a.Key.Target, b.Key.Target); d != 0 {
			return d
		}
		return a.Impl.ID - b.Impl.ID
	})

	ownerFull := rn.childFull(ownerID, full)
	for i := range groups {
		group := &groups[i]
		if !ownerFull && rn.sel != nil && !slices.ContainsFunc(group.Sources, rn.sel.Contains) {
			continue
		}
		rn.implGroup(group, ownerFull)
	}
}

func (rn *run) implGroup(group *merge.Group, full bool) {
	imp := group.Impl.Inner.Impl

	unsafePrefix := ""
	if imp.IsUnsafe {
		unsafePrefix = "unsafe "
	}
	traitPart := ""
	if imp.Trait != nil {
		if traitPath := formatPathRef(imp.Trait); traitPath != "" {
			traitPart = traitPath + " for "
		}
	}
	header := fmt.Sprintf("%simpl%s %s%s", unsafePrefix, FormatGenerics(&imp.Generics), traitPart, FormatType(&imp.For))
	if where := FormatWhereClause(&imp.Generics); where != "" {
		header += where
	}
	rn.line(header + " {")
	rn.indent++

	isTraitImpl := imp.Trait != nil
	for _, member := range rn.orderedChildren(group.Members) {
		if !isTraitImpl && !rn.visible(member, false) {
			continue
		}
		if rn.sel != nil && !full && !rn.sel.Contains(member.ID) {
			continue
		}
		switch {
		case member.Inner.Function != nil:
			rn.function(member, false)
		case member.Inner.Constant != nil:
			rn.constant(member)
		case member.Inner.AssocConst != nil:
			rn.assocConst(member)
		case member.Inner.AssocType != nil:
			rn.assocType(member)
		case member.Inner.TypeAlias != nil:
			rn.typeAlias(member)
		}
	}

	rn.indent--
	rn.line("}")
	rn.blank()
}

func (rn *run) function(item *graph.Item, isTraitMethod bool) {
	fn := item.Inner.Function
	rn.docs(item, false)
	rn.attrs(item)

	var qualifiers []string
	if fn.Header.IsConst {
		qualifiers = append(qualifiers, "const")
	}
	if fn.Header.IsUnsafe {
		qualifiers = append(qualifiers, "unsafe")
	}
	if fn.Header.IsAsync {
		qualifiers = append(qualifiers, "async")
	}
	prefix := ""
	if len(qualifiers) > 0 {
		prefix = strings.Join(qualifiers, " ") + " "
	}

	decl := fmt.Sprintf("%s%sfn %s%s(%s)%s%s",
		Vis(item), prefix, Name(item), FormatGenerics(&fn.Generics),
		FormatFunctionArgs(&fn.Sig), FormatReturnType(&fn.Sig), FormatWhereClause(&fn.Generics))

	if isTraitMethod && !fn.HasBody {
		rn.line(decl + ";")
	} else {
		rn.line(decl + " {}")
	}
	rn.blank()
}

func (rn *run) constant(item *graph.Item) {
	c := item.Inner.Constant
	rn.docs(item, false)
	rn.line(fmt.Sprintf("%sconst %s: %s = %s;", Vis(item), Name(item), rn.typeOf(item, &c.Type), c.Const.Expr))
	rn.blank()
}

func (rn *run) static_(item *graph.Item) {
	st := item.Inner.Static
	rn.docs(item, false)
	mut := ""
	if st.IsMutable {
		mut = "mut "
	}
	rn.line(fmt.Sprintf("%sstatic %s%s: %s = %s;", Vis(item), mut, Name(item), rn.typeOf(item, &st.Type), st.Expr))
	rn.blank()
}

func (rn *run) typeAlias(item *graph.Item) {
	ta := item.Inner.TypeAlias
	rn.docs(item, false)
	rn.line(fmt.Sprintf("%stype %s%s%s = %s;", Vis(item), Name(item),
		FormatGenerics(&ta.Generics), FormatWhereClause(&ta.Generics), rn.typeOf(item, &ta.Type)))
	rn.blank()
}

func (rn *run) macroItem(item *graph.Item) {
	rn.docs(item, false)
	if item.Visibility.Kind == "public" {
		rn.line("#[macro_export]")
	}
	for _, l := range strings.Split(*item.Inner.Macro, "\n") {
		rn.line(l)
	}
	rn.blank()
}

func (rn *run) procMacro(item *graph.Item) {
	pm := item.Inner.ProcMacro
	rn.docs(item, false)
	name := Name(item)
	args, ret := "input: proc_macro::TokenStream", "proc_macro::TokenStream"
	switch pm.Kind {
	case "derive":
		if len(pm.Helpers) > 0 {
			rn.line(fmt.Sprintf("#[proc_macro_derive(%s, attributes(%s))]", name, strings.Join(pm.Helpers, ", ")))
		} else {
			rn.line(fmt.Sprintf("#[proc_macro_derive(%s)]", name))
		}
	case "attr":
		rn.line("#[proc_macro_attribute]")
		args = "attr: proc_macro::TokenStream, item: proc_macro::TokenStream"
	default:
		rn.line("#[proc_macro]")
	}
	rn.line(fmt.Sprintf("pub fn %s(%s) -> %s {}", name, args, ret))
	rn.blank()
}

func (rn *run) assocConst(item *graph.Item) {
	ac := item.Inner.AssocConst
	rn.docs(item, false)
	decl := fmt.Sprintf("const %s: %s", Name(item), rn.typeOf(item, &ac.Type))
	if ac.Value != nil {
		decl += " = " + *ac.Value
	}
	rn.line(decl + ";")
}

func (rn *run) assocType(item *graph.Item) {
	at := item.Inner.AssocType
	rn.docs(item, false)
	decl := "type " + Name(item) + FormatGenerics(&at.Generics)
	if len(at.Bounds) > 0 {
		decl += ": " + FormatGenericBounds(at.Bounds)
	}
	if at.Type != nil {
		decl += " = " + FormatType(at.Type)
	}
	rn.line(decl + ";")
}
