package render

import (
	"fmt"
	"strings"

	"github.com/jcdickinson/crateskel/internal/graph"
)

// Name renders an item's identifier with keyword escaping applied.
// Unnamed items (impl blocks, some fields) render as "?".
func Name(item *graph.Item) string {
	if item.Name == nil {
		return "?"
	}
	return EscapeName(*item.Name)
}

// Vis renders the visibility prefix for an item, including the trailing
// space when non-empty.
func Vis(item *graph.Item) string {
	if item.Visibility.Kind == "public" {
		return "pub "
	}
	return ""
}

// FormatType renders a type expression as source text.
func FormatType(t *graph.Type) string {
	return formatType(t, false)
}

func formatType(t *graph.Type, nested bool) string {
	switch {
	case t.ResolvedPath != nil:
		return formatPathRef(t.ResolvedPath)
	case t.DynTrait != nil:
		traits := make([]string, 0, len(t.DynTrait.Traits))
		for i := range t.DynTrait.Traits {
			traits = append(traits, formatPolyTrait(&t.DynTrait.Traits[i]))
		}
		inner := "dyn " + strings.Join(traits, " + ")
		if t.DynTrait.Lifetime != nil {
			inner += " + " + *t.DynTrait.Lifetime
			if nested {
				return "(" + inner + ")"
			}
		}
		return inner
	case t.Generic != nil:
		return *t.Generic
	case t.Primitive != nil:
		return *t.Primitive
	case t.FunctionPointer != nil:
		return formatFunctionPointer(t.FunctionPointer)
	case t.Tuple != nil:
		parts := make([]string, 0, len(t.Tuple))
		for i := range t.Tuple {
			parts = append(parts, formatType(&t.Tuple[i], true))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case t.Slice != nil:
		return "[" + formatType(t.Slice, true) + "]"
	case t.Array != nil:
		return fmt.Sprintf("[%s; %s]", formatType(&t.Array.Type, true), t.Array.Len)
	case t.ImplTrait != nil:
		return "impl " + FormatGenericBounds(t.ImplTrait)
	case t.Infer:
		return "_"
	case t.RawPointer != nil:
		mutability := "const"
		if t.RawPointer.IsMutable {
			mutability = "mut"
		}
		return fmt.Sprintf("*%s %s", mutability, formatType(&t.RawPointer.Type, true))
	case t.BorrowedRef != nil:
		var b strings.Builder
		b.WriteString("&")
		if t.BorrowedRef.Lifetime != nil {
			b.WriteString(*t.BorrowedRef.Lifetime)
			b.WriteString(" ")
		}
		if t.BorrowedRef.IsMutable {
			b.WriteString("mut ")
		}
		b.WriteString(formatType(&t.BorrowedRef.Type, true))
		return b.String()
	case t.QualifiedPath != nil:
		qp := t.QualifiedPath
		selfType := formatType(&qp.SelfType, true)
		args := ""
		if qp.Args != nil {
			args = formatGenericArgs(qp.Args)
		}
		if qp.Trait != nil {
			if traitPath := formatPathRef(qp.Trait); traitPath != "" {
				return fmt.Sprintf("<%s as %s>::%s%s", selfType, traitPath, qp.Name, args)
			}
		}
		return fmt.Sprintf("%s::%s%s", selfType, qp.Name, args)
	case t.Pat != nil:
		return "/* pattern */"
	}
	// No recognized variant, usually a newer rustdoc format.
	return ""
}

func formatPathRef(p *graph.PathRef) string {
	args := ""
	if p.Args != nil {
		args = formatGenericArgs(p.Args)
	}
	return strings.ReplaceAll(p.Path, "$crate::", "") + args
}

func formatPolyTrait(pt *graph.PolyTrait) string {
	prefix := ""
	if len(pt.GenericParams) > 0 {
		params := formatGenericParamDefs(pt.GenericParams)
		if len(params) > 0 {
			prefix = "for<" + strings.Join(params, ", ") + "> "
		}
	}
	return prefix + formatPathRef(&pt.Trait)
}

func formatFunctionPointer(f *graph.FunctionPointer) string {
	args := FormatFunctionArgs(&f.Sig)
	ret := FormatReturnType(&f.Sig)
	if ret == "" {
		return fmt.Sprintf("fn(%s)", args)
	}
	return fmt.Sprintf("fn(%s) -> %s", args, ret)
}

// FormatFunctionArgs renders a signature's parameter list, with the usual
// shorthand for self receivers.
func FormatFunctionArgs(sig *graph.FunctionSignature) string {
	parts := make([]string, 0, len(sig.Inputs))
	for i := range sig.Inputs {
		input := &sig.Inputs[i]
		if input.Name == "self" {
			parts = append(parts, formatSelfArg(&input.Type))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", input.Name, FormatType(&input.Type)))
	}
	return strings.Join(parts, ", ")
}

func formatSelfArg(t *graph.Type) string {
	switch {
	case t.BorrowedRef != nil:
		if inner := t.BorrowedRef.Type; inner.Generic != nil && *inner.Generic == "Self" {
			if t.BorrowedRef.IsMutable {
				return "&mut self"
			}
			return "&self"
		}
	case t.ResolvedPath != nil:
		if t.ResolvedPath.Path == "Self" && t.ResolvedPath.Args == nil {
			return "self"
		}
	case t.Generic != nil:
		if *t.Generic == "Self" {
			return "self"
		}
	}
	return "self: " + FormatType(t)
}

// FormatReturnType renders " -> T" for a signature's output, or the empty
// string when the function returns unit.
func FormatReturnType(sig *graph.FunctionSignature) string {
	if sig.Output == nil {
		return ""
	}
	return " -> " + FormatType(sig.Output)
}

// FormatGenerics renders the angle-bracketed parameter list, or the empty
// string when the item takes no visible parameters.
func FormatGenerics(g *graph.Generics) string {
	params := formatGenericParamDefs(g.Params)
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

func formatGenericParamDefs(params []graph.GenericParamDef) []string {
	out := make([]string, 0, len(params))
	for i := range params {
		if s, ok := formatGenericParamDef(&params[i]); ok {
			out = append(out, s)
		}
	}
	return out
}

func formatGenericParamDef(param *graph.GenericParamDef) (string, bool) {
	switch {
	case param.Kind.Lifetime != nil:
		if len(param.Kind.Lifetime.Outlives) == 0 {
			return param.Name, true
		}
		return param.Name + ": " + strings.Join(param.Kind.Lifetime.Outlives, " + "), true
	case param.Kind.Type != nil:
		tp := param.Kind.Type
		if tp.IsSynthetic {
			return "", false
		}
		var b strings.Builder
		b.WriteString(param.Name)
		if len(tp.Bounds) > 0 {
			b.WriteString(": ")
			b.WriteString(FormatGenericBounds(tp.Bounds))
		}
		if tp.Default != nil {
			b.WriteString(" = ")
			b.WriteString(FormatType(tp.Default))
		}
		return b.String(), true
	case param.Kind.Const != nil:
		cp := param.Kind.Const
		s := fmt.Sprintf("const %s: %s", param.Name, FormatType(&cp.Type))
		if cp.Default != nil {
			s += " = " + *cp.Default
		}
		return s, true
	}
	return "", false
}

// FormatWhereClause renders " where ..." for an item's predicates, or the
// empty string when there are none visible.
func FormatWhereClause(g *graph.Generics) string {
	preds := make([]string, 0, len(g.WherePredicates))
	for i := range g.WherePredicates {
		if s, ok := formatWherePredicate(&g.WherePredicates[i]); ok {
			preds = append(preds, s)
		}
	}
	if len(preds) == 0 {
		return ""
	}
	return " where " + strings.Join(preds, ", ")
}

func formatWherePredicate(p *graph.WherePredicate) (string, bool) {
	switch {
	case p.Bound != nil:
		// Predicates introduced by impl-Trait desugaring are synthetic
		// and must not be printed.
		if p.Bound.Type.Generic != nil {
			for i := range p.Bound.GenericParams {
				if tp := p.Bound.GenericParams[i].Kind.Type; tp != nil && tp.IsSynthetic {
					return "", false
				}
			}
		}
		hrtb := ""
		if len(p.Bound.GenericParams) > 0 {
			params := formatGenericParamDefs(p.Bound.GenericParams)
			if len(params) > 0 {
				hrtb = "for<" + strings.Join(params, ", ") + "> "
			}
		}
		return fmt.Sprintf("%s%s: %s", hrtb, FormatType(&p.Bound.Type), FormatGenericBounds(p.Bound.Bounds)), true
	case p.Lifetime != nil:
		if len(p.Lifetime.Outlives) == 0 {
			return p.Lifetime.Lifetime, true
		}
		return p.Lifetime.Lifetime + ": " + strings.Join(p.Lifetime.Outlives, " + "), true
	case p.Eq != nil:
		return fmt.Sprintf("%s = %s", FormatType(&p.Eq.Lhs), formatTerm(&p.Eq.Rhs)), true
	}
	return "", false
}

// FormatGenericBounds renders a `+`-joined bound list.
func FormatGenericBounds(bounds []graph.GenericBound) string {
	parts := make([]string, 0, len(bounds))
	for i := range bounds {
		parts = append(parts, formatGenericBound(&bounds[i]))
	}
	return strings.Join(parts, " + ")
}

func formatGenericBound(b *graph.GenericBound) string {
	switch {
	case b.TraitBound != nil:
		modifier := ""
		switch b.TraitBound.Modifier {
		case "maybe":
			modifier = "?"
		case "maybe_const":
			modifier = "~const"
		}
		pt := graph.PolyTrait{Trait: b.TraitBound.Trait, GenericParams: b.TraitBound.GenericParams}
		return modifier + formatPolyTrait(&pt)
	case b.Outlives != nil:
		return *b.Outlives
	}
	return ""
}

func formatGenericArgs(args *graph.GenericArgs) string {
	switch {
	case args.AngleBracketed != nil:
		ab := args.AngleBracketed
		if len(ab.Args) == 0 && len(ab.Constraints) == 0 {
			return ""
		}
		parts := make([]string, 0, len(ab.Args)+len(ab.Constraints))
		for i := range ab.Args {
			parts = append(parts, formatGenericArg(&ab.Args[i]))
		}
		for i := range ab.Constraints {
			parts = append(parts, formatAssocConstraint(&ab.Constraints[i]))
		}
		return "<" + strings.Join(parts, ", ") + ">"
	case args.Parenthesized != nil:
		p := args.Parenthesized
		inputs := make([]string, 0, len(p.Inputs))
		for i := range p.Inputs {
			inputs = append(inputs, FormatType(&p.Inputs[i]))
		}
		out := "(" + strings.Join(inputs, ", ") + ")"
		if p.Output != nil {
			out += " -> " + FormatType(p.Output)
		}
		return out
	}
	return ""
}

func formatGenericArg(a *graph.GenericArg) string {
	switch {
	case a.Lifetime != nil:
		return *a.Lifetime
	case a.Type != nil:
		return FormatType(a.Type)
	case a.Const != nil:
		return a.Const.Expr
	case a.Infer:
		return "_"
	}
	return ""
}

func formatTerm(t *graph.Term) string {
	switch {
	case t.Type != nil:
		return FormatType(t.Type)
	case t.Constant != nil:
		return t.Constant.Expr
	}
	return ""
}

func formatAssocConstraint(c *graph.AssocConstraint) string {
	switch {
	case c.Binding.Equality != nil:
		return fmt.Sprintf("%s = %s", c.Name, formatTerm(c.Binding.Equality))
	case c.Binding.Constraint != nil:
		return fmt.Sprintf("%s: %s", c.Name, FormatGenericBounds(c.Binding.Constraint))
	}
	return c.Name
}
