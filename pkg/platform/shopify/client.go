// Package shopify provides the Shopify implementation of the commerce
// platform abstraction.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds Shopify configuration.
type Config struct {
	StoreURL    string // store host, e.g. "example.myshopify.com"
	AccessToken string
	APIVersion  string
	UseMock     bool // When true, uses mock API client
}

// Client is the Shopify platform client.
// It implements the platform.Client interface and delegates
// API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Shopify client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			StoreURL:    cfg.StoreURL,
			AccessToken: cfg.AccessToken,
			APIVersion:  cfg.APIVersion,
			Timeout:     30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Shopify client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// FindOrdersByName searches orders by display name.
func (c *Client) FindOrdersByName(ctx context.Context, name string) ([]platform.Order, error) {
	c.logger.Info("Searching Shopify orders", zap.String("name", name))

	restOrders, err := c.apiClient.SearchOrders(ctx, name)
	if err != nil {
		c.logger.Error("Shopify API error", zap.Error(err))
		return nil, err
	}

	orders := make([]platform.Order, len(restOrders))
	for i, o := range restOrders {
		orders[i] = restOrderToPlatform(&o)
	}
	return orders, nil
}

// GetOrderByID fetches one order by its opaque numeric identity.
func (c *Client) GetOrderByID(ctx context.Context, id string) (*platform.Order, error) {
	c.logger.Info("Fetching Shopify order", zap.String("id", id))

	restOrder, err := c.apiClient.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order := restOrderToPlatform(restOrder)
	return &order, nil
}

// FulfillableLineItems returns the first fulfillment order for an order.
// Shopify splits an order into fulfillment orders per location; this store
// ships from one location, so the first open one carries everything.
func (c *Client) FulfillableLineItems(ctx context.Context, orderID int64) (*platform.FulfillmentOrder, error) {
	gid := orderGID(orderID)

	payload, err := c.apiClient.FulfillmentOrders(ctx, gid)
	if err != nil {
		c.logger.Error("Shopify API error", zap.Error(err))
		return nil, err
	}
	if len(payload.FulfillmentOrders) == 0 {
		return nil, platform.ErrNoFulfillmentOrders
	}

	fo := payload.FulfillmentOrders[0]
	result := &platform.FulfillmentOrder{
		ID:     fo.ID,
		Status: fo.Status,
	}
	for _, item := range fo.LineItems {
		result.LineItems = append(result.LineItems, platform.FulfillmentLineItem{
			ID:                item.ID,
			SKU:               item.SKU,
			Vendor:            item.Vendor,
			Name:              item.Name,
			RemainingQuantity: item.RemainingQuantity,
		})
	}
	return result, nil
}

// SubmitFulfillment runs the fulfillmentCreateV2 mutation. A userErrors
// response becomes a RejectionError carrying the platform's detail
// verbatim.
func (c *Client) SubmitFulfillment(ctx context.Context, req *platform.FulfillmentRequest) (string, error) {
	c.logger.Info("Creating Shopify fulfillment",
		zap.Int64("order_id", req.OrderID),
		zap.String("fulfillment_order_id", req.FulfillmentOrderID),
		zap.String("carrier", req.Tracking.Company),
		zap.Int("items", len(req.LineItems)),
	)

	input := FulfillmentV2Input{
		LineItemsByFulfillmentOrder: []LineItemsByFulfillmentOrder{
			{
				FulfillmentOrderID:        req.FulfillmentOrderID,
				FulfillmentOrderLineItems: make([]FulfillmentOrderLineItem, 0, len(req.LineItems)),
			},
		},
		NotifyCustomer: req.NotifyCustomer,
		TrackingInfo: TrackingInfoInput{
			Company: req.Tracking.Company,
			Numbers: req.Tracking.Numbers,
			URLs:    req.Tracking.URLs,
		},
	}
	for _, item := range req.LineItems {
		input.LineItemsByFulfillmentOrder[0].FulfillmentOrderLineItems = append(
			input.LineItemsByFulfillmentOrder[0].FulfillmentOrderLineItems,
			FulfillmentOrderLineItem{ID: item.ID, Quantity: item.Quantity},
		)
	}

	payload, err := c.apiClient.CreateFulfillment(ctx, input)
	if err != nil {
		c.logger.Error("Shopify API error", zap.Error(err))
		return "", err
	}

	if len(payload.UserErrors) > 0 {
		detail, _ := json.Marshal(payload.UserErrors)
		return "", &platform.RejectionError{Detail: string(detail)}
	}

	return payload.FulfillmentID, nil
}

func orderGID(id int64) string {
	return fmt.Sprintf("gid://shopify/Order/%d", id)
}

func restOrderToPlatform(o *RESTOrder) platform.Order {
	order := platform.Order{
		ID:                o.ID,
		Name:              o.Name,
		Email:             o.Email,
		Note:              o.Note,
		FulfillmentStatus: restStatusToPlatform(o.FulfillmentStatus),
		ShippingAddress: platform.Address{
			Name:        o.ShippingAddress.Name,
			Line1:       o.ShippingAddress.Address1,
			Line2:       o.ShippingAddress.Address2,
			City:        o.ShippingAddress.City,
			Province:    o.ShippingAddress.Province,
			PostalCode:  o.ShippingAddress.Zip,
			CountryCode: o.ShippingAddress.CountryCode,
			Phone:       o.ShippingAddress.Phone,
		},
	}
	for _, item := range o.LineItems {
		order.LineItems = append(order.LineItems, platform.LineItem{
			ID:                  item.ID,
			SKU:                 item.SKU,
			Vendor:              item.Vendor,
			Name:                item.Name,
			Quantity:            item.Quantity,
			FulfillableQuantity: item.FulfillableQuantity,
		})
	}
	return order
}

// restStatusToPlatform maps the REST fulfillment_status field, which is
// null for unfulfilled orders.
func restStatusToPlatform(s string) platform.FulfillmentStatus {
	switch s {
	case "fulfilled":
		return platform.StatusFulfilled
	case "partial":
		return platform.StatusPartiallyFulfilled
	default:
		return platform.StatusUnfulfilled
	}
}
