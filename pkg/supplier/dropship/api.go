package dropship

import (
	"context"
	"time"
)

// APIClient defines the interface for the B2B customer-portal API both
// VidaXL and DropXL expose. This abstraction allows for mock
// implementations during testing and real implementations in production.
type APIClient interface {
	// ListOrders fetches orders submitted at or after since.
	// GET /orders?submitted_at_gteq=YYYY-MM-DD
	ListOrders(ctx context.Context, since time.Time) ([]OrderEnvelope, error)

	// CreateOrder places a new drop-ship order.
	// POST /orders
	CreateOrder(ctx context.Context, req *OrderRequest) (*OrderEnvelope, error)
}

// ============================================================================
// API types (match the b2b portal "api_customer" JSON structure)
// ============================================================================

// OrderEnvelope wraps each order in the portal's list response.
type OrderEnvelope struct {
	Order APIOrder `json:"order"`
}

// APIOrder is one order as the portal reports it.
type APIOrder struct {
	ID                     int64                  `json:"id"`
	OrderNumber            string                 `json:"order_number"`
	CustomerOrderReference string                 `json:"customer_order_reference"`
	StatusOrderName        string                 `json:"status_order_name"` // Draft, Submitted, Sent, Cancelled
	ShippingTracking       string                 `json:"shipping_tracking"` // comma-delimited numbers
	ShippingTrackingURL    string                 `json:"shipping_tracking_url"`
	ShippingOptionName     string                 `json:"shipping_option_name"`
	SubmittedAt            string                 `json:"submitted_at"`
	OrderProducts          []OrderProductEnvelope `json:"order_products"`
}

// OrderProductEnvelope wraps each product line.
type OrderProductEnvelope struct {
	OrderProduct APIOrderProduct `json:"order_product"`
}

// APIOrderProduct is one product line on a portal order.
type APIOrderProduct struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// AddressBook is the portal's delivery address record.
type AddressBook struct {
	Name       string `json:"name,omitempty"`
	Address    string `json:"address,omitempty"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Comments   string `json:"comments,omitempty"`
}

// RequestProduct is one product line on an outgoing order.
type RequestProduct struct {
	ProductCode string      `json:"product_code"`
	Quantity    int         `json:"quantity"`
	AddressBook AddressBook `json:"addressbook"`
}

// OrderRequest creates a new order on the portal.
type OrderRequest struct {
	CustomerOrderReference string           `json:"customer_order_reference"`
	AddressBook            AddressBook      `json:"addressbook"`
	OrderProducts          []RequestProduct `json:"order_products"`
}
