// Package stashbox holds the client for the community stash-box performer
// registry. Lookups are a reserved extension point: the client keeps its
// place in the generator merge order but returns no matches until the remote
// query is wired up.
package stashbox

import (
	"context"
	"log/slog"
	"strings"
)

// PerformerMatch is a registry hit compatible with the linker's candidate
// shape.
type PerformerMatch struct {
	Name    string
	Aliases []string
	Score   float64
}

// Client queries a stash-box GraphQL endpoint.
type Client struct {
	endpoint string
	apiKey   string
	logger   *slog.Logger
}

// New creates a stash-box client. The endpoint may be empty; the stub never
// dials it.
func New(endpoint, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		apiKey:   strings.TrimSpace(apiKey),
		logger:   logger,
	}
}

// FindPerformers searches the registry for performers related to the query.
// The remote query is not implemented yet; the call logs and returns no
// matches so callers need no special casing when it lands.
func (c *Client) FindPerformers(ctx context.Context, query string) ([]PerformerMatch, error) {
	c.logger.DebugContext(ctx, "stash-box lookup not yet implemented",
		slog.String("query", query),
		slog.String("endpoint", c.endpoint),
	)
	return nil, nil
}
