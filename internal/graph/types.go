package graph

import (
	"encoding/json"
	"fmt"
)

// Crate is the top-level structure of rustdoc JSON output.
type Crate struct {
	Root            int                      `json:"root"`
	CrateVersion    *string                  `json:"crate_version"`
	IncludesPrivate bool                     `json:"includes_private"`
	Index           map[string]Item          `json:"index"`
	Paths           map[string]ItemSummary   `json:"paths"`
	ExternalCrates  map[string]ExternalCrate `json:"external_crates"`
	FormatVersion   int                      `json:"format_version"`
}

// ExternalCrate identifies a dependency crate by name.
type ExternalCrate struct {
	Name        string `json:"name"`
	HTMLRootURL string `json:"html_root_url"`
}

// ItemSummary provides the canonical path and kind for an item in the paths table.
type ItemSummary struct {
	CrateID int      `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    string   `json:"kind"`
}

// Item is a single item in the rustdoc index. Exactly one of the Inner
// payload pointers is non-nil, matching the item's kind.
type Item struct {
	ID          int            `json:"id"`
	CrateID     int            `json:"crate_id"`
	Name        *string        `json:"name"`
	Visibility  Visibility     `json:"visibility"`
	Docs        *string        `json:"docs"`
	Links       map[string]int `json:"links"`
	Attrs       []string       `json:"attrs"`
	Deprecation *Deprecation   `json:"deprecation"`
	Inner       Inner          `json:"inner"`
}

// Deprecation carries an optional deprecation notice attached to an item.
type Deprecation struct {
	Since *string `json:"since"`
	Note  *string `json:"note"`
}

// Visibility is the item's declared visibility. Rustdoc serializes it as
// either a bare string ("public", "default", "crate") or an object for
// restricted paths.
type Visibility struct {
	Kind       string // "public", "default", "crate", "restricted"
	Restricted *RestrictedVisibility
}

// RestrictedVisibility names the module a pub(in ...) item is restricted to.
type RestrictedVisibility struct {
	Parent int    `json:"parent"`
	Path   string `json:"path"`
}

// IsPublic reports whether the item is visible outside its own module.
// Rustdoc uses "default" for items whose visibility is implied by context,
// such as trait members and enum variants.
func (v Visibility) IsPublic() bool {
	return v.Kind == "public" || v.Kind == "default"
}

func (v *Visibility) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Kind = s
		return nil
	}
	var obj struct {
		Restricted *RestrictedVisibility `json:"restricted"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling visibility: %w", err)
	}
	v.Kind = "restricted"
	v.Restricted = obj.Restricted
	return nil
}

// Inner holds the kind-specific payload of an item. Rustdoc serializes it
// as a single-key object keyed by the kind name.
type Inner struct {
	Module      *Module          `json:"module"`
	ExternCrate *ExternCrateItem `json:"extern_crate"`
	Use         *Use             `json:"use"`
	Struct      *Struct          `json:"struct"`
	StructField *Type            `json:"struct_field"`
	Union       *Union           `json:"union"`
	Enum        *Enum            `json:"enum"`
	Variant     *Variant         `json:"variant"`
	Function    *Function        `json:"function"`
	Trait       *Trait           `json:"trait"`
	TraitAlias  *TraitAlias      `json:"trait_alias"`
	Impl        *Impl            `json:"impl"`
	TypeAlias   *TypeAlias       `json:"type_alias"`
	Constant    *ConstantItem    `json:"constant"`
	Static      *Static          `json:"static"`
	Macro       *string          `json:"macro"`
	ProcMacro   *ProcMacro       `json:"proc_macro"`
	Primitive   *Primitive       `json:"primitive"`
	AssocConst  *AssocConst      `json:"assoc_const"`
	AssocType   *AssocType       `json:"assoc_type"`
}

// Kind returns the canonical kind name for the populated payload.
func (in Inner) Kind() string {
	switch {
	case in.Module != nil:
		return "module"
	case in.ExternCrate != nil:
		return "extern_crate"
	case in.Use != nil:
		return "use"
	case in.Struct != nil:
		return "struct"
	case in.StructField != nil:
		return "struct_field"
	case in.Union != nil:
		return "union"
	case in.Enum != nil:
		return "enum"
	case in.Variant != nil:
		return "variant"
	case in.Function != nil:
		return "function"
	case in.Trait != nil:
		return "trait"
	case in.TraitAlias != nil:
		return "trait_alias"
	case in.Impl != nil:
		return "impl"
	case in.TypeAlias != nil:
		return "type_alias"
	case in.Constant != nil:
		return "constant"
	case in.Static != nil:
		return "static"
	case in.Macro != nil:
		return "macro"
	case in.ProcMacro != nil:
		return "proc_macro"
	case in.Primitive != nil:
		return "primitive"
	case in.AssocConst != nil:
		return "assoc_const"
	case in.AssocType != nil:
		return "assoc_type"
	default:
		return "unknown"
	}
}

// Module is a collection of child items.
type Module struct {
	IsCrate    bool  `json:"is_crate"`
	Items      []int `json:"items"`
	IsStripped bool  `json:"is_stripped"`
}

// ExternCrateItem is an `extern crate` declaration.
type ExternCrateItem struct {
	Name   string  `json:"name"`
	Rename *string `json:"rename"`
}

// Use is a `use` declaration, possibly re-exporting its target.
type Use struct {
	Source string `json:"source"`
	Name   string `json:"name"`
	ID     *int   `json:"id"`
	IsGlob bool   `json:"is_glob"`
}

// Struct is a struct definition.
type Struct struct {
	Kind     StructKind `json:"kind"`
	Generics Generics   `json:"generics"`
	Impls    []int      `json:"impls"`
}

// StructKind discriminates unit, tuple, and plain struct layouts.
type StructKind struct {
	Unit  bool
	Tuple []*int
	Plain *PlainFields
}

// PlainFields lists the named fields of a plain struct or struct variant.
type PlainFields struct {
	Fields            []int `json:"fields"`
	HasStrippedFields bool  `json:"has_stripped_fields"`
}

func (k *StructKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "unit" {
			return fmt.Errorf("unexpected struct kind %q", s)
		}
		k.Unit = true
		return nil
	}
	var obj struct {
		Tuple []*int       `json:"tuple"`
		Plain *PlainFields `json:"plain"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling struct kind: %w", err)
	}
	k.Tuple = obj.Tuple
	k.Plain = obj.Plain
	return nil
}

// Union is a union definition.
type Union struct {
	Generics          Generics `json:"generics"`
	HasStrippedFields bool     `json:"has_stripped_fields"`
	Fields            []int    `json:"fields"`
	Impls             []int    `json:"impls"`
}

// Enum is an enum definition.
type Enum struct {
	Generics            Generics `json:"generics"`
	Variants            []int    `json:"variants"`
	HasStrippedVariants bool     `json:"has_stripped_variants"`
	Impls               []int    `json:"impls"`
}

// Variant is a single enum variant.
type Variant struct {
	Kind         VariantKind   `json:"kind"`
	Discriminant *Discriminant `json:"discriminant"`
}

// VariantKind discriminates plain, tuple, and struct variants.
type VariantKind struct {
	Plain  bool
	Tuple  []*int
	Struct *PlainFields
}

func (k *VariantKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "plain" {
			return fmt.Errorf("unexpected variant kind %q", s)
		}
		k.Plain = true
		return nil
	}
	var obj struct {
		Tuple  []*int       `json:"tuple"`
		Struct *PlainFields `json:"struct"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshaling variant kind: %w", err)
	}
	k.Tuple = obj.Tuple
	k.Struct = obj.Struct
	return nil
}

// Discriminant is an explicit enum discriminant value.
type Discriminant struct {
	Expr  string `json:"expr"`
	Value string `json:"value"`
}

// Function is a free function, method, or trait method.
type Function struct {
	Sig      FunctionSignature `json:"sig"`
	Generics Generics          `json:"generics"`
	Header   FunctionHeader    `json:"header"`
	HasBody  bool              `json:"has_body"`
}

// FunctionSignature is a function's inputs and output.
type FunctionSignature struct {
	Inputs      []FunctionInput `json:"inputs"`
	Output      *Type           `json:"output"`
	IsCVariadic bool            `json:"is_c_variadic"`
}

// FunctionInput is a (name, type) parameter pair. Rustdoc serializes each
// input as a two-element array.
type FunctionInput struct {
	Name string
	Type Type
}

func (p *FunctionInput) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("unmarshaling function input: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("function input has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.Name); err != nil {
		return fmt.Errorf("unmarshaling input name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &p.Type); err != nil {
		return fmt.Errorf("unmarshaling input type: %w", err)
	}
	return nil
}

// FunctionHeader carries const/unsafe/async qualifiers.
type FunctionHeader struct {
	IsConst  bool `json:"is_const"`
	IsUnsafe bool `json:"is_unsafe"`
	IsAsync  bool `json:"is_async"`
}

// Trait is a trait definition.
type Trait struct {
	IsAuto          bool           `json:"is_auto"`
	IsUnsafe        bool           `json:"is_unsafe"`
	Items           []int          `json:"items"`
	Generics        Generics       `json:"generics"`
	Bounds          []GenericBound `json:"bounds"`
	Implementations []int          `json:"implementations"`
}

// TraitAlias is a trait alias definition.
type TraitAlias struct {
	Generics Generics       `json:"generics"`
	Params   []GenericBound `json:"params"`
}

// Impl associates a set of members with a target type and optionally a trait.
type Impl struct {
	IsUnsafe    bool     `json:"is_unsafe"`
	Generics    Generics `json:"generics"`
	Trait       *PathRef `json:"trait"`
	For         Type     `json:"for"`
	Items       []int    `json:"items"`
	IsNegative  bool     `json:"is_negative"`
	IsSynthetic bool     `json:"is_synthetic"`
	BlanketImpl *Type    `json:"blanket_impl"`
}

// TypeAlias is a `type X = Y` declaration.
type TypeAlias struct {
	Type     Type     `json:"type"`
	Generics Generics `json:"generics"`
}

// ConstantItem is a top-level constant.
type ConstantItem struct {
	Type  Type     `json:"type"`
	Const Constant `json:"const"`
}

// Constant holds the constant expression and its evaluated value.
type Constant struct {
	Expr      string  `json:"expr"`
	Value     *string `json:"value"`
	IsLiteral bool    `json:"is_literal"`
}

// Static is a static item.
type Static struct {
	Type      Type   `json:"type"`
	IsMutable bool   `json:"is_mutable"`
	Expr      string `json:"expr"`
}

// ProcMacro is a procedural macro entrypoint.
type ProcMacro struct {
	Kind    string   `json:"kind"` // "bang", "attr", "derive"
	Helpers []string `json:"helpers"`
}

// Primitive is a primitive type description (std-only).
type Primitive struct {
	Name  string `json:"name"`
	Impls []int  `json:"impls"`
}

// AssocConst is an associated constant inside a trait or impl.
type AssocConst struct {
	Type  Type    `json:"type"`
	Value *string `json:"value"`
}

// AssocType is an associated type inside a trait or impl.
type AssocType struct {
	Generics Generics       `json:"generics"`
	Bounds   []GenericBound `json:"bounds"`
	Type     *Type          `json:"type"`
}
