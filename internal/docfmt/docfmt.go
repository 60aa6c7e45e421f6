// Package docfmt canonicalizes intra-doc links in documentation strings.
// Rustdoc resolves links like [Vec] or [crate::io::Error] to item ids and
// records them on the item; rewriting the destinations to canonical paths
// keeps the emitted doc comments meaningful outside the original crate.
package docfmt

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"

	"github.com/jcdickinson/crateskel/internal/graph"
)

// LinkMap builds destination replacements for one item's doc links. Ids
// that resolve inside the rendered graph use their primary path; ids known
// only through the paths table fall back to the recorded summary path,
// with core and alloc prefixes rewritten to std for display.
func LinkMap(g *graph.Graph, table *graph.PathTable, std *graph.StdMap, item *graph.Item) map[string]string {
	if len(item.Links) == 0 {
		return nil
	}
	out := make(map[string]string, len(item.Links))
	for dest, id := range item.Links {
		canonical := canonicalPath(g, table, std, id)
		if canonical == "" || canonical == dest {
			continue
		}
		out[dest] = canonical
	}
	return out
}

func canonicalPath(g *graph.Graph, table *graph.PathTable, std *graph.StdMap, id int) string {
	var segs []string
	if table != nil {
		if p, ok := table.Primary(id); ok {
			segs = p.Segments
		}
	}
	if segs == nil {
		s, ok := g.Summary(id)
		if !ok {
			return ""
		}
		segs = s.Path
	}
	if std != nil {
		segs = std.DisplayPath(segs)
	}
	return strings.Join(segs, "::")
}

// RewriteLinks rewrites markdown link destinations using the provided
// replacement map. The source is parsed to AST only to discover which
// destinations occur; the rewrite itself is a targeted string replacement
// so the original formatting survives untouched.
func RewriteLinks(src string, linkMap map[string]string) string {
	if len(linkMap) == 0 {
		return src
	}

	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	seen := make(map[string]bool)
	type replacement struct {
		oldDest string
		newDest string
	}
	var replacements []replacement

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if link, ok := node.(*ast.Link); ok {
			dest := string(link.Destination)
			if newDest, ok := linkMap[dest]; ok && !seen[dest] {
				seen[dest] = true
				replacements = append(replacements, replacement{dest, newDest})
			}
		}
		return ast.GoToNext
	})

	if len(replacements) == 0 {
		return src
	}

	result := src

	// Inline links: [text](destination)
	for _, r := range replacements {
		result = strings.ReplaceAll(result, "]("+r.oldDest+")", "]("+r.newDest+")")
	}

	// Reference-style definitions: [ref]: destination
	refMap := make(map[string]string, len(replacements))
	for _, r := range replacements {
		refMap["]: "+r.oldDest] = "]: " + r.newDest
	}
	lines := strings.Split(result, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for oldSuffix, newSuffix := range refMap {
			if strings.HasSuffix(trimmed, oldSuffix) {
				lines[i] = strings.Replace(line, oldSuffix, newSuffix, 1)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}
