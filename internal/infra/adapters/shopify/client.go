// Package shopify implements ports.OrderGateway on top of the Shopify Admin
// GraphQL API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

const (
	headerAccessToken = "X-Shopify-Access-Token"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// TokenSource yields the Admin API access token for each request.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// ClientConfig locates the store's Admin API.
type ClientConfig struct {
	StoreDomain string
	APIVersion  string
	Timeout     time.Duration
	// Endpoint overrides the URL derived from StoreDomain and APIVersion.
	Endpoint string
}

// Client posts GraphQL documents to a single store. It never retries.
type Client struct {
	endpoint string
	tokens   TokenSource
	http     *http.Client
}

func NewClient(cfg ClientConfig, tokens TokenSource) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s/admin/api/%s/graphql.json", cfg.StoreDomain, cfg.APIVersion)
	}
	return &Client{
		endpoint: endpoint,
		tokens:   tokens,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
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

// Do executes query with variables and decodes the "data" member into out.
// HTTP failures, non-2xx statuses, top-level GraphQL errors and a missing data
// member all wrap domain.ErrRemoteTransport.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("shopify: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shopify: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAccessToken, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("shopify: %w: %w", domain.ErrRemoteTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("shopify: %w: failed to read response: %v", domain.ErrRemoteTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("shopify: %w: API error: %d %s", domain.ErrRemoteTransport, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("shopify: %w: invalid response body: %v", domain.ErrRemoteTransport, err)
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("shopify: %w: GraphQL errors: %s", domain.ErrRemoteTransport, strings.Join(msgs, "; "))
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("shopify: %w: response missing data", domain.ErrRemoteTransport)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("shopify: %w: failed to decode data: %v", domain.ErrRemoteTransport, err)
	}
	return nil
}
