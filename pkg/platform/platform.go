// Package platform provides an abstraction layer for the commerce platform
// that owns the canonical order records.
package platform

import (
	"context"
)

// Client defines the operations the reconciliation core needs from the
// commerce platform. Implementations live in subpackages (e.g. shopify).
type Client interface {
	// FindOrdersByName searches orders by their human-facing name
	// (e.g. "#362673"). The search may return zero or more candidates;
	// callers must not assume the first result is the right one.
	FindOrdersByName(ctx context.Context, name string) ([]Order, error)

	// GetOrderByID fetches a single order by its opaque numeric identity.
	// Returns ErrOrderNotFound if no such order exists.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// FulfillableLineItems returns the platform's fulfillment-order view of
	// an order: the line items that can still be shipped and their
	// remaining quantities.
	FulfillableLineItems(ctx context.Context, orderID int64) (*FulfillmentOrder, error)

	// SubmitFulfillment marks a subset of a fulfillment order's line items
	// as shipped, attaching tracking information. Returns the created
	// fulfillment's identifier.
	SubmitFulfillment(ctx context.Context, req *FulfillmentRequest) (string, error)
}
