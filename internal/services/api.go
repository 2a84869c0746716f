package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/moviex/internal/shared"
)

const defaultBaseURL = "http://localhost:8080"

// CatalogClient talks to the movie catalog REST API.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewCatalogClient creates a client for the backend at baseURL.
//
// baseURL defaults to http://localhost:8080 and client to [http.DefaultClient].
func NewCatalogClient(baseURL string, client *http.Client) *CatalogClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &CatalogClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     shared.DiscardLogger(),
	}
}

// WithLogger sets the logger used for request tracing and returns c.
func (c *CatalogClient) WithLogger(l *log.Logger) *CatalogClient {
	if l != nil {
		c.logger = l
	}
	return c
}

// BaseURL returns the backend root without a trailing slash.
func (c *CatalogClient) BaseURL() string {
	return c.baseURL
}

// HTTPClient exposes the underlying client so the change feed shares its transport and credentials.
func (c *CatalogClient) HTTPClient() *http.Client {
	return c.httpClient
}

// NewHTTPClient builds the client used for every backend call.
//
// A non-empty token is attached as a bearer token through [oauth2.StaticTokenSource].
// timeout applies per request; zero disables it and must be used for streaming clients.
func NewHTTPClient(ctx context.Context, token string, timeout time.Duration) *http.Client {
	client := &http.Client{}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		client = oauth2.NewClient(ctx, src)
	}
	client.Timeout = timeout
	return client
}

// doRequest performs a JSON request against the backend.
//
// body, when non-nil, is encoded as JSON. result, when non-nil, receives the decoded response.
// Non-2xx answers are returned as [*APIError] or [*ValidationError]; transport failures wrap
// [shared.ErrServiceUnavailable].
func (c *CatalogClient) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", shared.ErrInvalidInput, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

func (c *CatalogClient) do(req *http.Request, result any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return fmt.Errorf("%w: request failed: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "elapsed", time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}
	return nil
}
