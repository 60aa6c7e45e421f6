package search

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/jcdickinson/crateskel/internal/graph"
)

// ListRow is one line of listing output.
type ListRow struct {
	Kind Kind
	Path string
}

// List returns a row per indexed item, sorted by path then kind.
// Import rows are dropped; a use shows up as noise next to the item it
// re-exports.
func (ix *Index) List() []ListRow {
	return ix.ListUnder(nil, "")
}

// ListUnder restricts List to items reachable under the `::`-separated
// filter, matched against the path table. Impl members have no table
// paths of their own; they keep their row when an ancestor matches.
func (ix *Index) ListUnder(table *graph.PathTable, filter string) []ListRow {
	rows := make([]ListRow, 0, len(ix.entries))
	for i := range ix.entries {
		entry := &ix.entries[i]
		if entry.Kind == KindUse {
			continue
		}
		if filter != "" && !ix.underFilter(entry, table, filter) {
			continue
		}
		rows = append(rows, ListRow{Kind: entry.Kind, Path: entry.PathString})
	}
	slices.SortStableFunc(rows, func(a, b ListRow) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(string(a.Kind), string(b.Kind))
	})
	return rows
}

func (ix *Index) underFilter(entry *Entry, table *graph.PathTable, filter string) bool {
	if table.MatchesFilter(entry.ID, filter) {
		return true
	}
	for _, anc := range entry.Ancestors {
		if table.MatchesFilter(anc, filter) {
			return true
		}
	}
	return false
}

// FormatList renders rows as an aligned two-column table.
func FormatList(rows []ListRow) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\n", row.Kind, row.Path)
	}
	w.Flush()
	return sb.String()
}
