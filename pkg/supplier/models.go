package supplier

import (
	"time"
)

// OrderStatus represents the supplier's state of a drop-ship order.
type OrderStatus string

const (
	StatusDraft     OrderStatus = "Draft"
	StatusSubmitted OrderStatus = "Submitted"
	StatusSent      OrderStatus = "Sent"
	StatusCancelled OrderStatus = "Cancelled"
)

// Order is one shipment notification from a supplier. It is immutable once
// read; the reconciliation cycle consumes it and never writes it back.
type Order struct {
	ID          int64
	Number      string // the supplier's own order number
	Reference   string // correlates to a platform order, e.g. "#362673"
	Status      OrderStatus
	Tracking    string // comma-delimited tracking numbers as shipped on the wire
	TrackingURL string
	CarrierHint string // shipping option name, when the supplier declares one
	Products    []Product
	SubmittedAt time.Time
}

// Product is one SKU line on a supplier order.
type Product struct {
	SKU      string
	Quantity int
}

// SKUs returns the set of product codes on the order, in order of appearance.
func (o *Order) SKUs() []string {
	skus := make([]string, 0, len(o.Products))
	for _, p := range o.Products {
		skus = append(skus, p.SKU)
	}
	return skus
}

// AddressBook is the supplier's delivery address record. Suppliers require
// a phone number on every entry.
type AddressBook struct {
	Name       string
	Address    string
	Address2   string
	City       string
	Province   string
	PostalCode string
	Country    string
	Email      string
	Phone      string
	Comments   string
}

// OrderProduct is one product line on an outgoing supplier order, with its
// own delivery address entry.
type OrderProduct struct {
	SKU      string
	Quantity int
	Address  AddressBook
}

// CreateOrderRequest places a drop-ship order with a supplier.
type CreateOrderRequest struct {
	Reference string // the platform order name, echoed back on shipment notices
	Country   string
	Products  []OrderProduct
}

// CreateOrderResponse is the supplier's acknowledgement of a new order.
type CreateOrderResponse struct {
	OrderID int64
	Status  OrderStatus
}
