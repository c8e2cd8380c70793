package dropship

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP
// basic auth against the portal.
type HTTPAPIClient struct {
	name       string
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	Name     string // supplier name, used in error reporting
	BaseURL  string // e.g. "https://b2b.vidaxl.com/api_customer"
	Email    string
	APIToken string
	Timeout  time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		name:     cfg.Name,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		email:    cfg.Email,
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListOrders fetches orders submitted at or after since. The portal takes
// the cutoff as a date, not a timestamp.
func (c *HTTPAPIClient) ListOrders(ctx context.Context, since time.Time) ([]OrderEnvelope, error) {
	path := fmt.Sprintf("/orders?submitted_at_gteq=%s", since.Format("2006-01-02"))

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var orders []OrderEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("decoding orders response: %w", err)
	}
	return orders, nil
}

// CreateOrder places a new drop-ship order.
func (c *HTTPAPIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderEnvelope, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/orders", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.parseError(resp)
	}

	var envelope OrderEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding order response: %w", err)
	}
	return &envelope, nil
}

func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		// Network retries against the portal must not place the order twice.
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, supplier.NewSupplierError(c.name, "REQUEST_FAILED", "request failed").
			WithCause(err).WithRetryable(true)
	}
	return resp, nil
}

func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	body := string(raw)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return supplier.NewSupplierError(c.name, "AUTH_FAILED", body).
			WithStatusCode(resp.StatusCode).WithCause(supplier.ErrAuthenticationFailed)
	case strings.Contains(body, "Product is not active"):
		// The portal rejects whole orders over one discontinued product;
		// the raw message names which.
		return supplier.NewSupplierError(c.name, "PRODUCT_NOT_ACTIVE", body).
			WithStatusCode(resp.StatusCode).WithCause(supplier.ErrProductNotActive)
	case resp.StatusCode >= http.StatusInternalServerError:
		return supplier.NewSupplierError(c.name, "SERVICE_ERROR", body).
			WithStatusCode(resp.StatusCode).WithRetryable(true).
			WithCause(supplier.ErrServiceUnavailable)
	default:
		return supplier.NewSupplierError(c.name, "API_ERROR",
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, body)).
			WithStatusCode(resp.StatusCode)
	}
}
