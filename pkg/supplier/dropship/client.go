// Package dropship provides integration with the B2B customer portal API
// shared by the VidaXL and DropXL drop-ship programs. One Client instance
// is created per supplier, differing only in credentials, base URL and
// vendor allowlist.
package dropship

import (
	"context"
	"time"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds portal configuration for one supplier.
type Config struct {
	Name     string   // supplier identifier, e.g. "vidaxl", "dropxl"
	BaseURL  string   // e.g. "https://b2b.vidaxl.com/api_customer"
	Email    string
	APIToken string
	Vendors  []string // brand allowlist this supplier handles
	UseMock  bool     // When true, uses mock API client
}

// Client is a drop-ship portal supplier client.
// It implements the supplier.Supplier interface and delegates
// API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new portal client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			Name:     cfg.Name,
			BaseURL:  cfg.BaseURL,
			Email:    cfg.Email,
			APIToken: cfg.APIToken,
			Timeout:  30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new portal client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the supplier name.
func (c *Client) Name() string {
	return c.config.Name
}

// Vendors returns the brand allowlist this supplier handles.
func (c *Client) Vendors() []string {
	return c.config.Vendors
}

// ListOrders returns orders submitted at or after since.
func (c *Client) ListOrders(ctx context.Context, since time.Time) ([]supplier.Order, error) {
	c.logger.Info("Listing supplier orders",
		zap.String("supplier", c.config.Name),
		zap.Time("since", since),
	)

	envelopes, err := c.apiClient.ListOrders(ctx, since)
	if err != nil {
		c.logger.Error("Supplier API error", zap.String("supplier", c.config.Name), zap.Error(err))
		return nil, err
	}

	orders := make([]supplier.Order, 0, len(envelopes))
	for _, env := range envelopes {
		orders = append(orders, apiOrderToSupplier(&env.Order))
	}
	return orders, nil
}

// CreateOrder places a new drop-ship order with the supplier.
func (c *Client) CreateOrder(ctx context.Context, req *supplier.CreateOrderRequest) (*supplier.CreateOrderResponse, error) {
	c.logger.Info("Creating supplier order",
		zap.String("supplier", c.config.Name),
		zap.String("reference", req.Reference),
		zap.Int("products", len(req.Products)),
	)

	apiReq := &OrderRequest{
		CustomerOrderReference: req.Reference,
		AddressBook:            AddressBook{Country: req.Country},
		OrderProducts:          make([]RequestProduct, 0, len(req.Products)),
	}
	for _, p := range req.Products {
		apiReq.OrderProducts = append(apiReq.OrderProducts, RequestProduct{
			ProductCode: p.SKU,
			Quantity:    p.Quantity,
			AddressBook: addressToAPI(p.Address),
		})
	}

	envelope, err := c.apiClient.CreateOrder(ctx, apiReq)
	if err != nil {
		c.logger.Error("Supplier API error", zap.String("supplier", c.config.Name), zap.Error(err))
		return nil, err
	}

	return &supplier.CreateOrderResponse{
		OrderID: envelope.Order.ID,
		Status:  supplier.OrderStatus(envelope.Order.StatusOrderName),
	}, nil
}

// ============================================================================
// Conversion helpers
// ============================================================================

func addressToAPI(a supplier.AddressBook) AddressBook {
	return AddressBook{
		Name:       a.Name,
		Address:    a.Address,
		Address2:   a.Address2,
		City:       a.City,
		Province:   a.Province,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Email:      a.Email,
		Phone:      a.Phone,
		Comments:   a.Comments,
	}
}

func apiOrderToSupplier(o *APIOrder) supplier.Order {
	order := supplier.Order{
		ID:          o.ID,
		Number:      o.OrderNumber,
		Reference:   o.CustomerOrderReference,
		Status:      supplier.OrderStatus(o.StatusOrderName),
		Tracking:    o.ShippingTracking,
		TrackingURL: o.ShippingTrackingURL,
		CarrierHint: o.ShippingOptionName,
	}
	if t, err := time.Parse("2006-01-02", o.SubmittedAt); err == nil {
		order.SubmittedAt = t
	} else if t, err := time.Parse(time.RFC3339, o.SubmittedAt); err == nil {
		order.SubmittedAt = t
	}
	for _, env := range o.OrderProducts {
		order.Products = append(order.Products, supplier.Product{
			SKU:      env.OrderProduct.ProductCode,
			Quantity: env.OrderProduct.Quantity,
		})
	}
	return order
}
