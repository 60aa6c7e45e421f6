package render

import (
	"fmt"
	"strings"

	"github.com/jcdickinson/crateskel/internal/graph"
)

// Signature produces the one-line declaration used by the search index's
// signature domain. It is a reduced form of the full renderer: no docs,
// no bodies, no members. Returns ok=false for kinds that have no useful
// signature, such as impl blocks.
func Signature(g *graph.Graph, item *graph.Item) (string, bool) {
	switch {
	case item.Inner.Function != nil:
		fn := item.Inner.Function
		var parts []string
		if vis := strings.TrimSpace(Vis(item)); vis != "" {
			parts = append(parts, vis)
		}
		var qualifiers []string
		if fn.Header.IsConst {
			qualifiers = append(qualifiers, "const")
		}
		if fn.Header.IsAsync {
			qualifiers = append(qualifiers, "async")
		}
		if fn.Header.IsUnsafe {
			qualifiers = append(qualifiers, "unsafe")
		}
		if len(qualifiers) > 0 {
			parts = append(parts, strings.Join(qualifiers, " "))
		}
		parts = append(parts, "fn")
		return fmt.Sprintf("%s %s%s(%s)%s%s",
			strings.Join(parts, " "), Name(item), FormatGenerics(&fn.Generics),
			FormatFunctionArgs(&fn.Sig), FormatReturnType(&fn.Sig), FormatWhereClause(&fn.Generics)), true

	case item.Inner.StructField != nil:
		var b strings.Builder
		if vis := strings.TrimSpace(Vis(item)); vis != "" {
			b.WriteString(vis)
			b.WriteString(" ")
		}
		if item.Name != nil {
			b.WriteString(*item.Name)
			b.WriteString(": ")
		}
		b.WriteString(FormatType(item.Inner.StructField))
		return b.String(), true

	case item.Inner.Struct != nil:
		st := item.Inner.Struct
		return strings.TrimSpace(fmt.Sprintf("%sstruct %s%s%s",
			Vis(item), Name(item), FormatGenerics(&st.Generics), FormatWhereClause(&st.Generics))), true

	case item.Inner.Union != nil:
		un := item.Inner.Union
		return strings.TrimSpace(fmt.Sprintf("%sunion %s%s%s",
			Vis(item), Name(item), FormatGenerics(&un.Generics), FormatWhereClause(&un.Generics))), true

	case item.Inner.Enum != nil:
		en := item.Inner.Enum
		return strings.TrimSpace(fmt.Sprintf("%senum %s%s%s",
			Vis(item), Name(item), FormatGenerics(&en.Generics), FormatWhereClause(&en.Generics))), true

	case item.Inner.Trait != nil:
		tr := item.Inner.Trait
		var b strings.Builder
		b.WriteString(Vis(item))
		if tr.IsUnsafe {
			b.WriteString("unsafe ")
		}
		b.WriteString("trait ")
		b.WriteString(Name(item))
		b.WriteString(FormatGenerics(&tr.Generics))
		if len(tr.Bounds) > 0 {
			if bounds := FormatGenericBounds(tr.Bounds); bounds != "" {
				b.WriteString(": ")
				b.WriteString(bounds)
			}
		}
		b.WriteString(FormatWhereClause(&tr.Generics))
		return strings.TrimSpace(b.String()), true

	case item.Inner.TraitAlias != nil:
		ta := item.Inner.TraitAlias
		var b strings.Builder
		b.WriteString(Vis(item))
		b.WriteString("trait ")
		b.WriteString(Name(item))
		b.WriteString(FormatGenerics(&ta.Generics))
		if bounds := FormatGenericBounds(ta.Params); bounds != "" {
			b.WriteString(" = ")
			b.WriteString(bounds)
		}
		b.WriteString(FormatWhereClause(&ta.Generics))
		return strings.TrimSpace(b.String()), true

	case item.Inner.TypeAlias != nil:
		ta := item.Inner.TypeAlias
		return strings.TrimSpace(fmt.Sprintf("%stype %s%s%s = %s",
			Vis(item), Name(item), FormatGenerics(&ta.Generics),
			FormatWhereClause(&ta.Generics), FormatType(&ta.Type))), true

	case item.Inner.Constant != nil:
		c := item.Inner.Constant
		return strings.TrimSpace(fmt.Sprintf("%sconst %s: %s",
			Vis(item), Name(item), FormatType(&c.Type))), true

	case item.Inner.Static != nil:
		st := item.Inner.Static
		return strings.TrimSpace(fmt.Sprintf("%sstatic %s: %s",
			Vis(item), Name(item), FormatType(&st.Type))), true

	case item.Inner.AssocConst != nil:
		return fmt.Sprintf("const %s: %s", Name(item), FormatType(&item.Inner.AssocConst.Type)), true

	case item.Inner.AssocType != nil:
		at := item.Inner.AssocType
		if at.Type != nil {
			return fmt.Sprintf("type %s = %s", Name(item), FormatType(at.Type)), true
		}
		if len(at.Bounds) > 0 {
			return fmt.Sprintf("type %s: %s", Name(item), FormatGenericBounds(at.Bounds)), true
		}
		return "type " + Name(item), true

	case item.Inner.Macro != nil:
		return "macro " + Name(item), true

	case item.Inner.ProcMacro != nil:
		prefix := "#[proc_macro]"
		switch item.Inner.ProcMacro.Kind {
		case "derive":
			prefix = "#[proc_macro_derive]"
		case "attr":
			prefix = "#[proc_macro_attribute]"
		}
		return prefix + " " + Name(item), true

	case item.Inner.Use != nil:
		use := item.Inner.Use
		var b strings.Builder
		b.WriteString(Vis(item))
		b.WriteString("use ")
		b.WriteString(use.Source)
		last := use.Source
		if idx := strings.LastIndex(last, "::"); idx >= 0 {
			last = last[idx+2:]
		}
		if use.Name != last {
			b.WriteString(" as ")
			b.WriteString(use.Name)
		}
		if use.IsGlob {
			b.WriteString("::*")
		}
		return strings.TrimSpace(b.String()), true

	case item.Inner.Primitive != nil:
		return "primitive " + item.Inner.Primitive.Name, true

	case item.Inner.Module != nil:
		if item.Inner.Module.IsCrate {
			return Name(item), true
		}
		return strings.TrimSpace(Vis(item) + "mod " + Name(item)), true

	case item.Inner.Variant != nil:
		variant := item.Inner.Variant
		var b strings.Builder
		b.WriteString(Name(item))
		switch {
		case variant.Kind.Tuple != nil:
			var parts []string
			for _, fieldID := range variant.Kind.Tuple {
				if fieldID == nil {
					continue
				}
				if field, ok := g.Item(*fieldID); ok && field.Inner.StructField != nil {
					parts = append(parts, FormatType(field.Inner.StructField))
				}
			}
			b.WriteString("(" + strings.Join(parts, ", ") + ")")
		case variant.Kind.Struct != nil:
			var parts []string
			for _, fieldID := range variant.Kind.Struct.Fields {
				if field, ok := g.Item(fieldID); ok && field.Inner.StructField != nil {
					name := "_"
					if field.Name != nil {
						name = *field.Name
					}
					parts = append(parts, name+": "+FormatType(field.Inner.StructField))
				}
			}
			b.WriteString(" { " + strings.Join(parts, ", ") + " }")
		}
		return b.String(), true
	}
	return "", false
}
