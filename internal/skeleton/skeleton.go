// Package skeleton ties target resolution, fetching, search, and
// rendering into the operations the CLI and the MCP server expose.
package skeleton

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jcdickinson/crateskel/internal/docfmt"
	"github.com/jcdickinson/crateskel/internal/graph"
	"github.com/jcdickinson/crateskel/internal/provider"
	"github.com/jcdickinson/crateskel/internal/render"
	"github.com/jcdickinson/crateskel/internal/search"
)

// Request describes one skeleton or search render.
type Request struct {
	// Target is the raw `entrypoint[@version][::path]` specification.
	Target string
	// Query, when non-empty, switches to search-driven rendering.
	Query string
	// Domains are search domain tokens; empty means the default set.
	Domains []string
	// CaseSensitive disables query case folding.
	CaseSensitive bool
	// DirectMatchOnly renders matched containers as shells instead of
	// expanding their contents, which is the default.
	DirectMatchOnly bool

	Private      bool
	AutoImpls    bool
	BlanketImpls bool
	// NoHeader suppresses the metadata comment block.
	NoHeader bool
}

// Service resolves targets and renders skeletons. Parsed graphs are
// cached per crate version; graphs are immutable so the cache is shared
// freely across concurrent requests.
type Service struct {
	provider *provider.Provider
	std      *graph.StdMap

	mu     sync.Mutex
	graphs map[string]*graph.Graph
}

// NewService returns a service over the given provider.
func NewService(p *provider.Provider) *Service {
	return &Service{
		provider: p,
		std:      graph.DefaultStdMap(),
		graphs:   make(map[string]*graph.Graph),
	}
}

// Resolve parses a target spec against the std module map.
func (s *Service) Resolve(spec string) (*provider.Target, error) {
	return provider.ParseTarget(spec, s.std)
}

// Graph loads and caches the item graph for a target.
func (s *Service) Graph(ctx context.Context, target *provider.Target) (*graph.Graph, error) {
	key := target.Crate + "@" + target.Version

	s.mu.Lock()
	g, ok := s.graphs[key]
	s.mu.Unlock()
	if ok {
		return g, nil
	}

	g, err := s.provider.LoadGraph(ctx, target)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.graphs[key] = g
	s.mu.Unlock()
	return g, nil
}

// RawJSON returns the unparsed rustdoc JSON for a target.
func (s *Service) RawJSON(ctx context.Context, spec string) ([]byte, error) {
	target, err := s.Resolve(spec)
	if err != nil {
		return nil, err
	}
	return s.provider.LoadBytes(ctx, target.Crate, target.Version)
}

// Render produces the skeleton for a request, with the metadata header
// unless suppressed. Non-fatal warnings are returned alongside.
func (s *Service) Render(ctx context.Context, req Request) (string, []string, error) {
	target, err := s.Resolve(req.Target)
	if err != nil {
		return "", nil, err
	}
	g, err := s.Graph(ctx, target)
	if err != nil {
		return "", nil, err
	}

	opts := render.Options{
		IncludePrivate: req.Private,
		AutoImpls:      req.AutoImpls,
		BlanketImpls:   req.BlanketImpls,
	}
	table := graph.ResolvePaths(g)
	opts.RewriteDocs = func(item *graph.Item, docs string) string {
		return docfmt.RewriteLinks(docs, docfmt.LinkMap(g, table, s.std, item))
	}
	r := render.New(opts)

	spec := target.Entrypoint
	if target.Version != "" {
		spec += "@" + target.Version
	}
	header := render.HeaderFor(spec)
	header.Enabled = !req.NoHeader
	header.Filter = s.displayFilter(target.Filter)

	var body string
	if req.Query != "" {
		body, header.Search, err = s.renderSearch(g, r, req)
	} else if target.Filter != "" {
		body, err = r.RenderWithFilter(g, target.Filter)
	} else {
		body, err = r.Render(g)
	}
	if err != nil {
		return "", nil, err
	}

	return header.Render(opts) + body, r.Warnings(), nil
}

func (s *Service) renderSearch(g *graph.Graph, r *render.Renderer, req Request) (string, *render.HeaderSearch, error) {
	domains, err := search.ParseDomains(req.Domains)
	if err != nil {
		return "", nil, err
	}

	ix := search.Build(g, req.Private)
	results := ix.Search(search.Options{
		Query:         req.Query,
		Domains:       domains,
		CaseSensitive: req.CaseSensitive,
	})
	if len(results) == 0 {
		return "", nil, fmt.Errorf("no matches for %q in %s", req.Query, strings.Join(domains.Labels(), ", "))
	}

	hs := &render.HeaderSearch{
		Query:            req.Query,
		Domains:          domains.Labels(),
		CaseSensitive:    req.CaseSensitive,
		ExpandContainers: !req.DirectMatchOnly,
	}
	for _, hit := range results {
		hs.Hits = append(hs.Hits, render.HeaderHit{
			Path:    hit.PathString,
			Domains: hit.Matched.Labels(),
		})
	}

	sel := search.BuildSelection(ix, results, !req.DirectMatchOnly)
	body, err := r.RenderSelection(g, sel)
	if err != nil {
		return "", nil, err
	}
	return body, hs, nil
}

// displayFilter rewrites core and alloc filter prefixes to std, matching
// how the standard library documents itself.
func (s *Service) displayFilter(filter string) string {
	if filter == "" {
		return ""
	}
	return strings.Join(s.std.DisplayPath(strings.Split(filter, "::")), "::")
}

// List returns the (kind, path) listing rows for a target. A path in
// the target restricts rows to that subtree.
func (s *Service) List(ctx context.Context, spec string, includePrivate bool) ([]search.ListRow, error) {
	target, err := s.Resolve(spec)
	if err != nil {
		return nil, err
	}
	g, err := s.Graph(ctx, target)
	if err != nil {
		return nil, err
	}
	ix := search.Build(g, includePrivate)
	if target.Filter == "" {
		return ix.List(), nil
	}
	return ix.ListUnder(graph.ResolvePaths(g), target.Filter), nil
}
