package graph

import (
	"errors"
	"testing"
)

func buildGraph(t *testing.T, data string) *Graph {
	t.Helper()
	g, err := Build([]byte(data))
	if err != nil {
		t.Fatalf("building graph: %v", err)
	}
	return g
}

const pointCrate = `{
	"root": 0,
	"crate_version": "1.2.3",
	"index": {
		"0": {"id": 0, "name": "testcrate", "visibility": "public", "docs": "Test crate.", "inner": {"module": {"is_crate": true, "items": [1], "is_stripped": false}}},
		"1": {"id": 1, "name": "Point", "visibility": "public", "docs": "A point.", "inner": {"struct": {"kind": {"plain": {"fields": [2, 3], "has_stripped_fields": false}}, "generics": {"params": [], "where_predicates": []}, "impls": [10]}}},
		"2": {"id": 2, "name": "x", "visibility": "public", "inner": {"struct_field": {"primitive": "f64"}}},
		"3": {"id": 3, "name": "y", "visibility": "default", "inner": {"struct_field": {"primitive": "f64"}}},
		"4": {"id": 4, "name": "len", "visibility": "default", "inner": {"function": {"sig": {"inputs": [["self", {"borrowed_ref": {"lifetime": null, "is_mutable": false, "type": {"generic": "Self"}}}]], "output": {"primitive": "f64"}, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": false}, "has_body": true}}},
		"10": {"id": 10, "visibility": "default", "inner": {"impl": {"is_unsafe": false, "generics": {"params": [], "where_predicates": []}, "trait": null, "for": {"resolved_path": {"path": "Point", "id": 1, "args": null}}, "items": [4], "is_negative": false, "is_synthetic": false, "blanket_impl": null}}}
	},
	"paths": {
		"1": {"crate_id": 0, "path": ["testcrate", "Point"], "kind": "struct"}
	},
	"external_crates": {},
	"format_version": 43
}`

func TestBuildDecodesTaggedInner(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, pointCrate)

	if got := g.PackageName(); got != "testcrate" {
		t.Errorf("package name = %q, want testcrate", got)
	}

	point, ok := g.Item(1)
	if !ok {
		t.Fatal("expected item 1")
	}
	if point.Inner.Kind() != "struct" {
		t.Errorf("kind = %q, want struct", point.Inner.Kind())
	}
	if point.Inner.Struct.Kind.Plain == nil {
		t.Fatal("expected plain struct kind")
	}
	if got := point.Inner.Struct.Kind.Plain.Fields; len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("fields = %v, want [2 3]", got)
	}

	length, _ := g.Item(4)
	if length.Inner.Function == nil {
		t.Fatal("expected function payload")
	}
	inputs := length.Inner.Function.Sig.Inputs
	if len(inputs) != 1 || inputs[0].Name != "self" {
		t.Fatalf("inputs = %+v, want a single self arg", inputs)
	}
	if inputs[0].Type.BorrowedRef == nil {
		t.Error("expected borrowed_ref self type")
	}
}

func TestBuildDecodesVisibilityForms(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, `{
		"root": 0,
		"crate_version": null,
		"index": {
			"0": {"id": 0, "name": "c", "visibility": "public", "inner": {"module": {"is_crate": true, "items": [1, 2], "is_stripped": false}}},
			"1": {"id": 1, "name": "open", "visibility": "public", "inner": {"function": {"sig": {"inputs": [], "output": null, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": false}, "has_body": true}}},
			"2": {"id": 2, "name": "hidden", "visibility": {"restricted": {"parent": 0, "path": "crate"}}, "inner": {"function": {"sig": {"inputs": [], "output": null, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": false}, "has_body": true}}}
		},
		"paths": {},
		"external_crates": {},
		"format_version": 43
	}`)

	open, _ := g.Item(1)
	if !open.Visibility.IsPublic() {
		t.Error("expected public visibility")
	}

	hidden, _ := g.Item(2)
	if hidden.Visibility.IsPublic() {
		t.Error("restricted visibility reported public")
	}
	if hidden.Visibility.Kind != "restricted" || hidden.Visibility.Restricted == nil {
		t.Errorf("visibility = %+v, want restricted with payload", hidden.Visibility)
	}
}

func TestBuildDecodesUnitStructKind(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, `{
		"root": 0,
		"crate_version": null,
		"index": {
			"0": {"id": 0, "name": "c", "visibility": "public", "inner": {"module": {"is_crate": true, "items": [1], "is_stripped": false}}},
			"1": {"id": 1, "name": "Marker", "visibility": "public", "inner": {"struct": {"kind": "unit", "generics": {"params": [], "where_predicates": []}, "impls": []}}}
		},
		"paths": {},
		"external_crates": {},
		"format_version": 43
	}`)

	marker, _ := g.Item(1)
	if !marker.Inner.Struct.Kind.Unit {
		t.Error("expected unit struct kind from bare string")
	}
}

func TestMustItemReturnsTypedError(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, pointCrate)

	if _, err := g.MustItem(999); err == nil {
		t.Fatal("expected error for missing id")
	} else {
		var notFound *ItemNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("error = %v, want *ItemNotFoundError", err)
		}
		if notFound.ID != 999 {
			t.Errorf("id = %d, want 999", notFound.ID)
		}
	}
}
