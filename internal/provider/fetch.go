package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/zstd"
)

const userAgent = "crateskel/0.1.0"

// Client talks to docs.rs and crates.io. Timeouts live on the embedded
// http.Client.
type Client struct {
	http *http.Client
}

// NewClient returns a client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// FetchRustdocJSON downloads and decompresses rustdoc JSON from docs.rs.
// The version "latest" is resolved by docs.rs via redirect.
func (c *Client) FetchRustdocJSON(ctx context.Context, name, version string) ([]byte, error) {
	if version == "" {
		version = "latest"
	}

	url := fmt.Sprintf("https://docs.rs/crate/%s/%s/json", name, version)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("docs.rs returned %d for %s/%s: %s", resp.StatusCode, name, version, string(body))
	}

	// docs.rs returns zstd-compressed JSON
	decoder, err := zstd.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decompressing rustdoc JSON: %w", err)
	}

	return data, nil
}
