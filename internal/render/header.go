package render

import (
	"fmt"
	"strings"
)

// Header configures the metadata comment block emitted ahead of skeleton
// output. The zero value renders nothing.
type Header struct {
	// Enabled switches the header on; default for CLI output.
	Enabled bool
	// Target is the original target specification the user requested.
	Target string
	// Filter is the canonical module path selected during resolution.
	Filter string
	// Search summarizes a search-driven render, if any.
	Search *HeaderSearch
}

// HeaderSearch describes the query behind a search-driven render.
type HeaderSearch struct {
	Query            string
	Domains          []string
	CaseSensitive    bool
	ExpandContainers bool
	Hits             []HeaderHit
}

// HeaderHit is one matched item listed in the header.
type HeaderHit struct {
	Path    string
	Domains []string
}

// HeaderFor returns an enabled header for the given target spec.
func HeaderFor(target string) Header {
	return Header{Enabled: true, Target: target}
}

// Render formats the header comment block, or returns the empty string
// when disabled.
func (h Header) Render(opts Options) string {
	if !h.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("// Crateskel skeleton - syntactically valid Rust with implementation omitted.\n")

	var settings []string
	if h.Target != "" {
		settings = append(settings, "target="+h.Target)
	}
	if h.Filter != "" {
		settings = append(settings, "path="+h.Filter)
	}
	visibility := "public"
	if opts.IncludePrivate {
		visibility = "private"
	}
	settings = append(settings,
		"visibility="+visibility,
		fmt.Sprintf("auto_impls=%t", opts.AutoImpls),
		fmt.Sprintf("blanket_impls=%t", opts.BlanketImpls),
	)
	fmt.Fprintf(&b, "// settings: %s\n", strings.Join(settings, ", "))

	if h.Search != nil {
		b.WriteString("\n")
		h.Search.write(&b)
	}
	b.WriteString("\n")
	return b.String()
}

func (s *HeaderSearch) write(b *strings.Builder) {
	details := fmt.Sprintf("case_sensitive=%t", s.CaseSensitive)
	if len(s.Domains) > 0 {
		details += "; domains=" + strings.Join(s.Domains, ", ")
	}
	details += fmt.Sprintf("; expand_containers=%t", s.ExpandContainers)
	fmt.Fprintf(b, "// search: query=%q; %s\n", s.Query, details)

	if len(s.Hits) == 0 {
		return
	}
	fmt.Fprintf(b, "// hits (%d):\n", len(s.Hits))
	for _, hit := range s.Hits {
		if len(hit.Domains) == 0 {
			fmt.Fprintf(b, "//   - %s\n", hit.Path)
		} else {
			fmt.Fprintf(b, "//   - %s [%s]\n", hit.Path, strings.Join(hit.Domains, ", "))
		}
	}
}
