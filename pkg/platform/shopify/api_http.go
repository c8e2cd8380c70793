package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
)

// HTTPAPIClient is the production implementation of APIClient using the
// Shopify REST and GraphQL admin APIs.
type HTTPAPIClient struct {
	storeURL    string // store host, e.g. "example.myshopify.com"
	accessToken string
	apiVersion  string
	httpClient  *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	StoreURL    string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2024-01"
	}

	return &HTTPAPIClient{
		storeURL:    cfg.StoreURL,
		accessToken: cfg.AccessToken,
		apiVersion:  apiVersion,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchOrders searches orders by name.
// GET /admin/api/{version}/orders.json?name={name}&status=any&limit=250
func (c *HTTPAPIClient) SearchOrders(ctx context.Context, name string) ([]RESTOrder, error) {
	path := fmt.Sprintf("/orders.json?name=%s&status=any&limit=250", url.QueryEscape(name))

	var envelope ordersEnvelope
	if err := c.doREST(ctx, http.MethodGet, path, &envelope); err != nil {
		return nil, err
	}
	return envelope.Orders, nil
}

// GetOrder fetches one order by numeric id.
// GET /admin/api/{version}/orders/{id}.json
func (c *HTTPAPIClient) GetOrder(ctx context.Context, id string) (*RESTOrder, error) {
	path := fmt.Sprintf("/orders/%s.json", url.PathEscape(id))

	var envelope orderEnvelope
	if err := c.doREST(ctx, http.MethodGet, path, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Order, nil
}

func (c *HTTPAPIClient) doREST(ctx context.Context, method, path string, out any) error {
	endpoint := fmt.Sprintf("https://%s/admin/api/%s%s", c.storeURL, c.apiVersion, path)

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return platform.NewPlatformError("REQUEST_FAILED", "REST request failed").WithCause(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return platform.ErrOrderNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return platform.ErrAuthenticationFailed
	case resp.StatusCode == http.StatusTooManyRequests:
		return platform.ErrRateLimitExceeded
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return platform.NewPlatformError("HTTP_ERROR",
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, body)).
			WithStatusCode(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// ============================================================================
// GraphQL admin API
// ============================================================================

const fulfillmentOrdersQuery = `
query getFulfillmentOrders($orderId: ID!) {
  order(id: $orderId) {
    fulfillmentOrders(first: 10) {
      edges {
        node {
          id
          status
          lineItems(first: 50) {
            edges {
              node {
                id
                remainingQuantity
                lineItem {
                  id
                  sku
                  vendor
                  name
                }
              }
            }
          }
        }
      }
    }
  }
}`

const fulfillmentCreateMutation = `
mutation fulfillmentCreateV2($fulfillment: FulfillmentV2Input!) {
  fulfillmentCreateV2(fulfillment: $fulfillment) {
    fulfillment {
      id
      status
    }
    userErrors {
      field
      message
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// connection decode types for the fulfillment orders query.
type gqlFOResponse struct {
	Order *struct {
		FulfillmentOrders struct {
			Edges []struct {
				Node struct {
					ID        string `json:"id"`
					Status    string `json:"status"`
					LineItems struct {
						Edges []struct {
							Node struct {
								ID                string `json:"id"`
								RemainingQuantity int    `json:"remainingQuantity"`
								LineItem          struct {
									SKU    string `json:"sku"`
									Vendor string `json:"vendor"`
									Name   string `json:"name"`
								} `json:"lineItem"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"lineItems"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"fulfillmentOrders"`
	} `json:"order"`
}

type gqlFulfillmentCreateResponse struct {
	FulfillmentCreateV2 struct {
		Fulfillment *struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"fulfillment"`
		UserErrors []UserError `json:"userErrors"`
	} `json:"fulfillmentCreateV2"`
}

// FulfillmentOrders fetches the fulfillment orders for an order.
func (c *HTTPAPIClient) FulfillmentOrders(ctx context.Context, orderGID string) (*FulfillmentOrdersPayload, error) {
	var decoded gqlFOResponse
	if err := c.doGraphQL(ctx, fulfillmentOrdersQuery, map[string]any{"orderId": orderGID}, &decoded); err != nil {
		return nil, err
	}
	if decoded.Order == nil {
		return nil, platform.ErrOrderNotFound
	}

	payload := &FulfillmentOrdersPayload{}
	for _, edge := range decoded.Order.FulfillmentOrders.Edges {
		fo := GQLFulfillmentOrder{
			ID:     edge.Node.ID,
			Status: edge.Node.Status,
		}
		for _, itemEdge := range edge.Node.LineItems.Edges {
			fo.LineItems = append(fo.LineItems, GQLFulfillmentLineItem{
				ID:                itemEdge.Node.ID,
				RemainingQuantity: itemEdge.Node.RemainingQuantity,
				SKU:               itemEdge.Node.LineItem.SKU,
				Vendor:            itemEdge.Node.LineItem.Vendor,
				Name:              itemEdge.Node.LineItem.Name,
			})
		}
		payload.FulfillmentOrders = append(payload.FulfillmentOrders, fo)
	}
	return payload, nil
}

// CreateFulfillment runs the fulfillmentCreateV2 mutation.
func (c *HTTPAPIClient) CreateFulfillment(ctx context.Context, input FulfillmentV2Input) (*FulfillmentCreatePayload, error) {
	var decoded gqlFulfillmentCreateResponse
	if err := c.doGraphQL(ctx, fulfillmentCreateMutation, map[string]any{"fulfillment": input}, &decoded); err != nil {
		return nil, err
	}

	payload := &FulfillmentCreatePayload{
		UserErrors: decoded.FulfillmentCreateV2.UserErrors,
	}
	if f := decoded.FulfillmentCreateV2.Fulfillment; f != nil {
		payload.FulfillmentID = f.ID
		payload.Status = f.Status
	}
	return payload, nil
}

func (c *HTTPAPIClient) doGraphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	endpoint := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.storeURL, c.apiVersion)

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return platform.NewPlatformError("REQUEST_FAILED", "GraphQL request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return platform.NewPlatformError("HTTP_ERROR",
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, raw)).
			WithStatusCode(resp.StatusCode)
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		raw, _ := json.Marshal(envelope.Errors)
		return platform.NewPlatformError("GRAPHQL_ERROR", string(raw))
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding graphql data: %w", err)
	}
	return nil
}
