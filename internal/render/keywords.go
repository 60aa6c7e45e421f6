package render

// reservedWords are the Rust keywords that collide with item names and
// need raw identifier escaping. Shared by every rendering path; keep the
// list in one place.
var reservedWords = map[string]struct{}{
	"abstract": {}, "as": {}, "become": {}, "box": {}, "break": {},
	"const": {}, "continue": {}, "crate": {}, "do": {}, "else": {},
	"enum": {}, "extern": {}, "false": {}, "final": {}, "fn": {},
	"for": {}, "if": {}, "impl": {}, "in": {}, "let": {}, "loop": {},
	"macro": {}, "match": {}, "mod": {}, "move": {}, "mut": {},
	"override": {}, "priv": {}, "pub": {}, "ref": {}, "return": {},
	"self": {}, "Self": {}, "static": {}, "struct": {}, "super": {},
	"trait": {}, "true": {}, "try": {}, "type": {}, "typeof": {},
	"unsafe": {}, "unsized": {}, "use": {}, "virtual": {}, "where": {},
	"while": {}, "yield": {},
}

// IsReservedWord reports whether ident is a Rust keyword.
func IsReservedWord(ident string) bool {
	_, ok := reservedWords[ident]
	return ok
}

// EscapeName prefixes reserved words with r# so the rendered identifier
// stays syntactically valid.
func EscapeName(name string) string {
	if IsReservedWord(name) {
		return "r#" + name
	}
	return name
}
