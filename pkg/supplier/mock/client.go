// Package mock provides a mock supplier implementation for testing.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
)

// Client is a mock supplier for testing.
type Client struct {
	name    string
	vendors []string

	// ListErr, when set, is returned by ListOrders.
	ListErr error

	// CreateErr, when set, is returned by CreateOrder.
	CreateErr error

	mu      sync.Mutex
	orders  []supplier.Order
	created []supplier.CreateOrderRequest
	nextID  int64
}

// New creates a new mock supplier.
func New(name string, vendors ...string) *Client {
	return &Client{
		name:    name,
		vendors: vendors,
		nextID:  1000,
	}
}

// Name returns the supplier name.
func (c *Client) Name() string {
	return c.name
}

// Vendors returns the configured brand allowlist.
func (c *Client) Vendors() []string {
	return c.vendors
}

// Seed appends orders to the mock listing.
func (c *Client) Seed(orders ...supplier.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = append(c.orders, orders...)
}

// ListOrders returns all seeded orders regardless of since.
func (c *Client) ListOrders(ctx context.Context, since time.Time) ([]supplier.Order, error) {
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]supplier.Order, len(c.orders))
	copy(out, c.orders)
	return out, nil
}

// CreateOrder records the request and acknowledges it.
func (c *Client) CreateOrder(ctx context.Context, req *supplier.CreateOrderRequest) (*supplier.CreateOrderResponse, error) {
	if c.CreateErr != nil {
		return nil, c.CreateErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, *req)
	c.nextID++
	return &supplier.CreateOrderResponse{
		OrderID: c.nextID,
		Status:  supplier.StatusSubmitted,
	}, nil
}

// Created returns every order request the mock accepted.
func (c *Client) Created() []supplier.CreateOrderRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]supplier.CreateOrderRequest, len(c.created))
	copy(out, c.created)
	return out
}
