package stash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Gateway defines the store operations the linking engine uses. It is the
// narrow seam between the engine and the remote Stash instance; tests supply
// an in-memory implementation.
type Gateway interface {
	Version(ctx context.Context) (string, error)
	FindGalleries(ctx context.Context) ([]Gallery, error)
	FindGallery(ctx context.Context, id string) (*Gallery, error)
	FindScenes(ctx context.Context) ([]Scene, error)
	FindPerformers(ctx context.Context) ([]Performer, error)
	CreatePerformer(ctx context.Context, name string, tagIDs []string) (*Performer, error)
	FindOrCreateTag(ctx context.Context, name string) (*Tag, error)
	AddGalleryPerformers(ctx context.Context, galleryID string, performerIDs []string) error
	AddSceneGalleries(ctx context.Context, sceneID string, galleryIDs []string) error
}

// Client talks to a Stash server's GraphQL endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

var _ Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a Stash client for the given base URL. The API key may be empty
// for unauthenticated local instances.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("stash base url required")
	}
	client := &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + "/graphql",
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// execute posts one GraphQL operation and decodes the data payload into out.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("ApiKey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stash returned status %d", resp.StatusCode)
	}

	var decoded graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return fmt.Errorf("stash query failed: %s", decoded.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(decoded.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// Version probes connectivity and returns the server version string. A
// failure here means the store is unreachable and nothing should be
// attempted.
func (c *Client) Version(ctx context.Context) (string, error) {
	const query = `query Version { version { version } }`
	var result struct {
		Version struct {
			Version string `json:"version"`
		} `json:"version"`
	}
	if err := c.execute(ctx, query, nil, &result); err != nil {
		return "", fmt.Errorf("stash version: %w", err)
	}
	return result.Version.Version, nil
}
