// Package supplier provides an abstraction layer for drop-ship suppliers.
package supplier

import (
	"context"
	"time"
)

// Supplier defines the interface that all drop-ship suppliers must implement.
type Supplier interface {
	// Name returns the supplier identifier (e.g. "vidaxl", "dropxl").
	Name() string

	// Vendors returns the brand allowlist this supplier handles. Line items
	// whose vendor is not in this list are never sent to or claimed by the
	// supplier.
	Vendors() []string

	// ListOrders returns the supplier's orders submitted at or after since.
	ListOrders(ctx context.Context, since time.Time) ([]Order, error)

	// CreateOrder places a new drop-ship order with the supplier.
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)
}
