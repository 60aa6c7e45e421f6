package graph

import (
	"encoding/json"
	"fmt"
)

// Generics carries an item's generic parameters and where predicates.
type Generics struct {
	Params          []GenericParamDef `json:"params"`
	WherePredicates []WherePredicate  `json:"where_predicates"`
}

// GenericParamDef is a single generic parameter (lifetime, type, or const).
type GenericParamDef struct {
	Name string              `json:"name"`
	Kind GenericParamDefKind `json:"kind"`
}

// GenericParamDefKind is the tagged payload for a generic parameter.
type GenericParamDefKind struct {
	Lifetime *LifetimeParam
	Type     *TypeParam
	Const    *ConstParam
}

// LifetimeParam is a lifetime parameter with optional outlives bounds.
type LifetimeParam struct {
	Outlives []string `json:"outlives"`
}

// TypeParam is a type parameter with bounds and an optional default.
type TypeParam struct {
	Bounds      []GenericBound `json:"bounds"`
	Default     *Type          `json:"default"`
	IsSynthetic bool           `json:"is_synthetic"`
}

// ConstParam is a const generic parameter.
type ConstParam struct {
	Type    Type    `json:"type"`
	Default *string `json:"default"`
}

func (k *GenericParamDefKind) UnmarshalJSON(data []byte) error {
	var obj struct {
		Lifetime *LifetimeParam `json:"lifetime"`
		Type     *TypeParam     `json:"type"`
		Const    *ConstParam    `json:"const"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling generic param kind: %w", err)
	}
	k.Lifetime = obj.Lifetime
	k.Type = obj.Type
	k.Const = obj.Const
	return nil
}

// WherePredicate is one predicate of a where clause.
type WherePredicate struct {
	Bound    *BoundPredicate
	Lifetime *LifetimePredicate
	Eq       *EqPredicate
}

// BoundPredicate constrains a type with trait bounds.
type BoundPredicate struct {
	Type          Type              `json:"type"`
	Bounds        []GenericBound    `json:"bounds"`
	GenericParams []GenericParamDef `json:"generic_params"`
}

// LifetimePredicate constrains a lifetime with outlives bounds.
type LifetimePredicate struct {
	Lifetime string   `json:"lifetime"`
	Outlives []string `json:"outlives"`
}

// EqPredicate equates an lhs type with an rhs term.
type EqPredicate struct {
	Lhs Type `json:"lhs"`
	Rhs Term `json:"rhs"`
}

func (p *WherePredicate) UnmarshalJSON(data []byte) error {
	var obj struct {
		Bound    *BoundPredicate    `json:"bound_predicate"`
		Lifetime *LifetimePredicate `json:"lifetime_predicate"`
		Eq       *EqPredicate       `json:"eq_predicate"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling where predicate: %w", err)
	}
	p.Bound = obj.Bound
	p.Lifetime = obj.Lifetime
	p.Eq = obj.Eq
	return nil
}

// GenericBound is a trait bound or an outlives bound.
type GenericBound struct {
	TraitBound *TraitBound
	Outlives   *string
}

// TraitBound is a trait bound with optional HRTB parameters and modifier.
type TraitBound struct {
	Trait         PathRef           `json:"trait"`
	GenericParams []GenericParamDef `json:"generic_params"`
	Modifier      string            `json:"modifier"` // "none", "maybe", "maybe_const"
}

func (b *GenericBound) UnmarshalJSON(data []byte) error {
	var obj struct {
		TraitBound *TraitBound `json:"trait_bound"`
		Outlives   *string     `json:"outlives"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling generic bound: %w", err)
	}
	b.TraitBound = obj.TraitBound
	b.Outlives = obj.Outlives
	return nil
}

// Term is the right-hand side of an equality constraint.
type Term struct {
	Type     *Type
	Constant *Constant
}

func (t *Term) UnmarshalJSON(data []byte) error {
	var obj struct {
		Type     *Type     `json:"type"`
		Constant *Constant `json:"constant"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling term: %w", err)
	}
	t.Type = obj.Type
	t.Constant = obj.Constant
	return nil
}

// PathRef is a named reference to another item, e.g. a trait in an impl
// header or a resolved type path. Older rustdoc formats call the path
// field "name"; both spellings are accepted.
type PathRef struct {
	Path string
	ID   int
	Args *GenericArgs
}

func (p *PathRef) UnmarshalJSON(data []byte) error {
	var obj struct {
		Path string       `json:"path"`
		Name string       `json:"name"`
		ID   int          `json:"id"`
		Args *GenericArgs `json:"args"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling path ref: %w", err)
	}
	p.Path = obj.Path
	if p.Path == "" {
		p.Path = obj.Name
	}
	p.ID = obj.ID
	p.Args = obj.Args
	return nil
}

// GenericArgs is either angle-bracketed or parenthesized (Fn-sugar) args.
type GenericArgs struct {
	AngleBracketed *AngleBracketedArgs
	Parenthesized  *ParenthesizedArgs
}

// AngleBracketedArgs is the common `<T, 'a, N, Assoc = U>` argument form.
type AngleBracketedArgs struct {
	Args        []GenericArg      `json:"args"`
	Constraints []AssocConstraint `json:"constraints"`
}

// ParenthesizedArgs is the `Fn(A, B) -> C` sugar form.
type ParenthesizedArgs struct {
	Inputs []Type `json:"inputs"`
	Output *Type  `json:"output"`
}

func (a *GenericArgs) UnmarshalJSON(data []byte) error {
	var obj struct {
		AngleBracketed *AngleBracketedArgs `json:"angle_bracketed"`
		Parenthesized  *ParenthesizedArgs  `json:"parenthesized"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling generic args: %w", err)
	}
	a.AngleBracketed = obj.AngleBracketed
	a.Parenthesized = obj.Parenthesized
	return nil
}

// GenericArg is one argument inside angle brackets.
type GenericArg struct {
	Lifetime *string
	Type     *Type
	Const    *Constant
	Infer    bool
}

func (a *GenericArg) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "infer" {
			return fmt.Errorf("unexpected generic arg %q", s)
		}
		a.Infer = true
		return nil
	}
	var obj struct {
		Lifetime *string   `json:"lifetime"`
		Type     *Type     `json:"type"`
		Const    *Constant `json:"const"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling generic arg: %w", err)
	}
	a.Lifetime = obj.Lifetime
	a.Type = obj.Type
	a.Const = obj.Const
	return nil
}

// AssocConstraint is an associated item constraint such as `Item = T` or
// `Item: Bound`.
type AssocConstraint struct {
	Name    string           `json:"name"`
	Args    *GenericArgs     `json:"args"`
	Binding AssocItemBinding `json:"binding"`
}

// AssocItemBinding is either an equality to a term or a set of bounds.
type AssocItemBinding struct {
	Equality   *Term
	Constraint []GenericBound
}

func (b *AssocItemBinding) UnmarshalJSON(data []byte) error {
	var obj struct {
		Equality   *Term          `json:"equality"`
		Constraint []GenericBound `json:"constraint"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling assoc item binding: %w", err)
	}
	b.Equality = obj.Equality
	b.Constraint = obj.Constraint
	return nil
}

// Type is the tagged variant for rustdoc type expressions.
type Type struct {
	ResolvedPath    *PathRef
	DynTrait        *DynTrait
	Generic         *string
	Primitive       *string
	FunctionPointer *FunctionPointer
	Tuple           []Type
	Slice           *Type
	Array           *ArrayType
	ImplTrait       []GenericBound
	Infer           bool
	RawPointer      *RawPointer
	BorrowedRef     *BorrowedRef
	QualifiedPath   *QualifiedPath
	Pat             json.RawMessage
}

// DynTrait is a `dyn Trait + ...` type.
type DynTrait struct {
	Traits   []PolyTrait `json:"traits"`
	Lifetime *string     `json:"lifetime"`
}

// PolyTrait is a trait reference with optional HRTB parameters.
type PolyTrait struct {
	Trait         PathRef           `json:"trait"`
	GenericParams []GenericParamDef `json:"generic_params"`
}

// FunctionPointer is an `fn(...) -> ...` type.
type FunctionPointer struct {
	Sig           FunctionSignature `json:"sig"`
	GenericParams []GenericParamDef `json:"generic_params"`
	Header        FunctionHeader    `json:"header"`
}

// ArrayType is a `[T; N]` type.
type ArrayType struct {
	Type Type   `json:"type"`
	Len  string `json:"len"`
}

// RawPointer is a `*const T` or `*mut T` type.
type RawPointer struct {
	IsMutable bool `json:"is_mutable"`
	Type      Type `json:"type"`
}

// BorrowedRef is a `&'a mut T` type.
type BorrowedRef struct {
	Lifetime  *string `json:"lifetime"`
	IsMutable bool    `json:"is_mutable"`
	Type      Type    `json:"type"`
}

// QualifiedPath is a `<T as Trait>::Assoc` type.
type QualifiedPath struct {
	Name     string       `json:"name"`
	Args     *GenericArgs `json:"args"`
	SelfType Type         `json:"self_type"`
	Trait    *PathRef     `json:"trait"`
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "infer" {
			return fmt.Errorf("unexpected type variant %q", s)
		}
		t.Infer = true
		return nil
	}
	var obj struct {
		ResolvedPath    *PathRef         `json:"resolved_path"`
		DynTrait        *DynTrait        `json:"dyn_trait"`
		Generic         *string          `json:"generic"`
		Primitive       *string          `json:"primitive"`
		FunctionPointer *FunctionPointer `json:"function_pointer"`
		Tuple           []Type           `json:"tuple"`
		Slice           *Type            `json:"slice"`
		Array           *ArrayType       `json:"array"`
		ImplTrait       []GenericBound   `json:"impl_trait"`
		RawPointer      *RawPointer      `json:"raw_pointer"`
		BorrowedRef     *BorrowedRef     `json:"borrowed_ref"`
		QualifiedPath   *QualifiedPath   `json:"qualified_path"`
		Pat             json.RawMessage  `json:"pat"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling type: %w", err)
	}
	t.ResolvedPath = obj.ResolvedPath
	t.DynTrait = obj.DynTrait
	t.Generic = obj.Generic
	t.Primitive = obj.Primitive
	t.FunctionPointer = obj.FunctionPointer
	t.Tuple = obj.Tuple
	t.Slice = obj.Slice
	t.Array = obj.Array
	t.ImplTrait = obj.ImplTrait
	t.RawPointer = obj.RawPointer
	t.BorrowedRef = obj.BorrowedRef
	t.QualifiedPath = obj.QualifiedPath
	t.Pat = obj.Pat
	return nil
}
