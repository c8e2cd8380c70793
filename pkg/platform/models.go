package platform

// FulfillmentStatus represents the platform's fulfillment state of an order.
type FulfillmentStatus string

const (
	StatusUnfulfilled        FulfillmentStatus = "unfulfilled"
	StatusPartiallyFulfilled FulfillmentStatus = "partial"
	StatusFulfilled          FulfillmentStatus = "fulfilled"
)

// Order is the canonical commerce order as the platform reports it.
// The reconciliation core only reads it; all state change goes through
// Client.SubmitFulfillment.
type Order struct {
	ID                int64
	Name              string // human-facing identifier, e.g. "#362673"
	Email             string
	Note              string
	FulfillmentStatus FulfillmentStatus
	LineItems         []LineItem
	ShippingAddress   Address
}

// LineItem is one order line as sold.
type LineItem struct {
	ID                  int64
	SKU                 string // empty disqualifies the item from supplier matching
	Vendor              string // brand attribution
	Name                string
	Quantity            int
	FulfillableQuantity int // 0 with Quantity > 0 means refunded or cancelled
}

// Address is the order's shipping destination, used when forwarding
// orders to a supplier.
type Address struct {
	Name        string
	Line1       string
	Line2       string
	City        string
	Province    string
	PostalCode  string
	CountryCode string
	Phone       string
}

// FulfillmentOrder is the platform's internal unit of "quantity still
// shippable". Fulfillments are submitted against its line items, not the
// order's.
type FulfillmentOrder struct {
	ID        string // opaque platform identifier (GraphQL gid)
	Status    string
	LineItems []FulfillmentLineItem
}

// FulfillmentLineItem carries the remaining shippable quantity for one
// line item, together with enough of the sold line item to filter on.
type FulfillmentLineItem struct {
	ID                string // fulfillment-order line item id
	SKU               string
	Vendor            string
	Name              string
	RemainingQuantity int
}

// TrackingInfo is the carrier record attached to a fulfillment.
// Numbers and URLs are index-aligned.
type TrackingInfo struct {
	Company string
	Numbers []string
	URLs    []string
}

// FulfillmentRequestItem selects one fulfillment-order line item and the
// quantity to mark shipped.
type FulfillmentRequestItem struct {
	ID       string
	Quantity int
}

// FulfillmentRequest asks the platform to mark a subset of a fulfillment
// order as shipped.
type FulfillmentRequest struct {
	OrderID            int64
	FulfillmentOrderID string
	LineItems          []FulfillmentRequestItem
	NotifyCustomer     bool
	Tracking           TrackingInfo
}
