package provider

import (
	"context"
	"fmt"

	"github.com/jcdickinson/crateskel/internal/graph"
)

// Options configure a Provider.
type Options struct {
	// Offline serves only the on-disk cache, never the network.
	Offline bool
	// NoCache skips reading and writing the on-disk cache.
	NoCache bool
}

// Provider loads rustdoc JSON for targets, consulting the cache before
// the network. Graphs it builds are immutable and safe to share.
type Provider struct {
	client *Client
	opts   Options
}

// New returns a provider using the given client.
func New(client *Client, opts Options) *Provider {
	return &Provider{client: client, opts: opts}
}

// LoadBytes returns the raw rustdoc JSON for a crate version.
func (p *Provider) LoadBytes(ctx context.Context, name, version string) ([]byte, error) {
	if !p.opts.NoCache && HasCrateCache(name, version) {
		return LoadCrateCache(name, version)
	}

	if p.opts.Offline {
		return nil, fmt.Errorf("no cached rustdoc JSON for %s@%s and offline mode is on", name, displayVersion(version))
	}

	data, err := p.client.FetchRustdocJSON(ctx, name, version)
	if err != nil {
		return nil, err
	}
	if !p.opts.NoCache {
		if err := SaveCrateCache(data, name, version); err != nil {
			return nil, fmt.Errorf("caching %s@%s: %w", name, displayVersion(version), err)
		}
	}
	return data, nil
}

// LoadGraph fetches and parses the item graph for a target.
func (p *Provider) LoadGraph(ctx context.Context, target *Target) (*graph.Graph, error) {
	data, err := p.LoadBytes(ctx, target.Crate, target.Version)
	if err != nil {
		return nil, err
	}
	return graph.Build(data)
}

func displayVersion(version string) string {
	if version == "" {
		return "latest"
	}
	return version
}
