package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiVersion = "2024-01"
	pageSize   = 250

	// requestTimeout is deliberately shorter than the batch budget so a
	// single stuck call cannot stall an entire run.
	requestTimeout = 8 * time.Second

	defaultPageDelay = 500 * time.Millisecond
)

type Client struct {
	shopDomain  string
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
	pageDelay   time.Duration
}

// NewClient creates a new Shopify REST Admin API client
func NewClient(shopDomain, accessToken string, logger *zap.Logger) *Client {
	// Normalize shop domain - remove https://, http://, and trailing slashes
	shopDomain = strings.TrimPrefix(shopDomain, "https://")
	shopDomain = strings.TrimPrefix(shopDomain, "http://")
	shopDomain = strings.TrimSuffix(shopDomain, "/")
	if !strings.Contains(shopDomain, ".myshopify.com") {
		shopDomain = shopDomain + ".myshopify.com"
	}

	return &Client{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		baseURL:     fmt.Sprintf("https://%s/admin/api/%s", shopDomain, apiVersion),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger:    logger,
		pageDelay: defaultPageDelay,
	}
}

// ShopDomain returns the normalized shop domain the client talks to
func (c *Client) ShopDomain() string {
	return c.shopDomain
}

// buildURL inserts the .json suffix before any query string:
// products?limit=250 becomes products.json?limit=250.
func (c *Client) buildURL(endpoint string) string {
	if path, query, ok := strings.Cut(endpoint, "?"); ok {
		return fmt.Sprintf("%s/%s.json?%s", c.baseURL, path, query)
	}
	return fmt.Sprintf("%s/%s.json", c.baseURL, endpoint)
}

// Request issues one authenticated call and returns the raw response body.
// Non-2xx statuses are classified into an *APIError; unresolvable hosts
// become a *DomainError.
func (c *Client) Request(ctx context.Context, endpoint, method string, body interface{}) ([]byte, error) {
	url := c.buildURL(endpoint)

	var reqBody io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch) {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return nil, &DomainError{Domain: c.shopDomain, Err: err}
		}
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := classifyStatus(resp.StatusCode, respBody)
		c.logger.Warn("Shopify API error",
			zap.String("shop", c.shopDomain),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("kind", string(apiErr.Kind)),
		)
		return nil, apiErr
	}

	return respBody, nil
}
