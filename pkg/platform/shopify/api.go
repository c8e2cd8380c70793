package shopify

import (
	"context"
)

// APIClient defines the interface for Shopify Admin API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// SearchOrders searches orders by display name via the REST admin API.
	// Shopify's name search is fuzzy and may return several candidates.
	SearchOrders(ctx context.Context, name string) ([]RESTOrder, error)

	// GetOrder fetches one order by its numeric id via the REST admin API.
	GetOrder(ctx context.Context, id string) (*RESTOrder, error)

	// FulfillmentOrders fetches the fulfillment orders for an order via
	// the GraphQL admin API.
	FulfillmentOrders(ctx context.Context, orderGID string) (*FulfillmentOrdersPayload, error)

	// CreateFulfillment runs the fulfillmentCreateV2 mutation.
	CreateFulfillment(ctx context.Context, input FulfillmentV2Input) (*FulfillmentCreatePayload, error)
}

// ============================================================================
// REST API types (admin/api orders.json)
// ============================================================================

// RESTOrder is an order as returned by the REST admin API.
type RESTOrder struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Note              string         `json:"note"`
	FulfillmentStatus string         `json:"fulfillment_status"` // "", "partial", "fulfilled"
	LineItems         []RESTLineItem `json:"line_items"`
	ShippingAddress   RESTAddress    `json:"shipping_address"`
}

// RESTLineItem is one sold line item on a REST order.
type RESTLineItem struct {
	ID                  int64  `json:"id"`
	SKU                 string `json:"sku"`
	Vendor              string `json:"vendor"`
	Name                string `json:"name"`
	Quantity            int    `json:"quantity"`
	FulfillableQuantity int    `json:"fulfillable_quantity"`
}

// RESTAddress is the REST shipping address.
type RESTAddress struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	Province    string `json:"province"`
	Zip         string `json:"zip"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

// ordersEnvelope wraps the orders.json search response.
type ordersEnvelope struct {
	Orders []RESTOrder `json:"orders"`
}

// orderEnvelope wraps the orders/{id}.json response.
type orderEnvelope struct {
	Order RESTOrder `json:"order"`
}

// ============================================================================
// GraphQL API types (admin/api graphql.json)
// ============================================================================

// FulfillmentOrdersPayload is the shape of the getFulfillmentOrders query
// result, with connection edges already flattened by the decoder types.
type FulfillmentOrdersPayload struct {
	FulfillmentOrders []GQLFulfillmentOrder
}

// GQLFulfillmentOrder is one fulfillment order node.
type GQLFulfillmentOrder struct {
	ID        string
	Status    string
	LineItems []GQLFulfillmentLineItem
}

// GQLFulfillmentLineItem is one fulfillment-order line item node, joined
// with its sold line item for SKU and vendor.
type GQLFulfillmentLineItem struct {
	ID                string
	RemainingQuantity int
	SKU               string
	Vendor            string
	Name              string
}

// FulfillmentV2Input is the variables payload for fulfillmentCreateV2.
type FulfillmentV2Input struct {
	LineItemsByFulfillmentOrder []LineItemsByFulfillmentOrder `json:"lineItemsByFulfillmentOrder"`
	NotifyCustomer              bool                          `json:"notifyCustomer"`
	TrackingInfo                TrackingInfoInput             `json:"trackingInfo"`
}

// LineItemsByFulfillmentOrder scopes fulfillment line items to one
// fulfillment order.
type LineItemsByFulfillmentOrder struct {
	FulfillmentOrderID        string                     `json:"fulfillmentOrderId"`
	FulfillmentOrderLineItems []FulfillmentOrderLineItem `json:"fulfillmentOrderLineItems"`
}

// FulfillmentOrderLineItem selects one line item and quantity.
type FulfillmentOrderLineItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// TrackingInfoInput is the tracking record on a fulfillment.
type TrackingInfoInput struct {
	Company string   `json:"company"`
	Numbers []string `json:"numbers"`
	URLs    []string `json:"urls"`
}

// UserError is a Shopify mutation user error.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// FulfillmentCreatePayload is the fulfillmentCreateV2 mutation result.
type FulfillmentCreatePayload struct {
	FulfillmentID string
	Status        string
	UserErrors    []UserError
}
