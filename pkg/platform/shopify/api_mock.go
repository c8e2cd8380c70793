package shopify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	// Orders seeds the mock store; Search and Get resolve against it.
	Orders []RESTOrder

	OnSearchOrders      func(ctx context.Context, name string) ([]RESTOrder, error)
	OnGetOrder          func(ctx context.Context, id string) (*RESTOrder, error)
	OnFulfillmentOrders func(ctx context.Context, orderGID string) (*FulfillmentOrdersPayload, error)
	OnCreateFulfillment func(ctx context.Context, input FulfillmentV2Input) (*FulfillmentCreatePayload, error)

	// CreatedFulfillments records every mutation input the mock accepted.
	CreatedFulfillments []FulfillmentV2Input
}

// NewMockAPIClient creates a new mock API client with a small seeded store.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{
		Orders: []RESTOrder{
			{
				ID:    5580000000001,
				Name:  "#362673",
				Email: "kunde@example.dk",
				LineItems: []RESTLineItem{
					{ID: 1, SKU: "8718475508556", Vendor: "vidaXL", Name: "Havebord", Quantity: 1, FulfillableQuantity: 1},
					{ID: 2, SKU: "3253924779737", Vendor: "Keter", Name: "Opbevaringsboks", Quantity: 2, FulfillableQuantity: 2},
				},
				ShippingAddress: RESTAddress{
					Name: "Test Kunde", Address1: "Testvej 1", City: "Aarhus",
					Zip: "8000", CountryCode: "DK", Phone: "70701870",
				},
			},
		},
	}
}

func (m *MockAPIClient) pause() error {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return platform.NewPlatformError("MOCK_ERROR", "Simulated API error")
	}
	return nil
}

// SearchOrders returns seeded orders whose name shares the query's digits.
// Like the real search it may return near matches, not just exact ones.
func (m *MockAPIClient) SearchOrders(ctx context.Context, name string) ([]RESTOrder, error) {
	if err := m.pause(); err != nil {
		return nil, err
	}
	if m.OnSearchOrders != nil {
		return m.OnSearchOrders(ctx, name)
	}

	prefix := strings.TrimPrefix(name, "#")
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}

	var out []RESTOrder
	for _, o := range m.Orders {
		if strings.HasPrefix(strings.TrimPrefix(o.Name, "#"), prefix) {
			out = append(out, o)
		}
	}
	return out, nil
}

// GetOrder resolves an order by id from the seeded store.
func (m *MockAPIClient) GetOrder(ctx context.Context, id string) (*RESTOrder, error) {
	if err := m.pause(); err != nil {
		return nil, err
	}
	if m.OnGetOrder != nil {
		return m.OnGetOrder(ctx, id)
	}

	for i := range m.Orders {
		if strconv.FormatInt(m.Orders[i].ID, 10) == id {
			return &m.Orders[i], nil
		}
	}
	return nil, platform.ErrOrderNotFound
}

// FulfillmentOrders derives a single open fulfillment order from the
// seeded order's line items.
func (m *MockAPIClient) FulfillmentOrders(ctx context.Context, orderGID string) (*FulfillmentOrdersPayload, error) {
	if err := m.pause(); err != nil {
		return nil, err
	}
	if m.OnFulfillmentOrders != nil {
		return m.OnFulfillmentOrders(ctx, orderGID)
	}

	for _, o := range m.Orders {
		if orderGID != fmt.Sprintf("gid://shopify/Order/%d", o.ID) {
			continue
		}
		fo := GQLFulfillmentOrder{
			ID:     "gid://shopify/FulfillmentOrder/" + uuid.New().String()[:8],
			Status: "OPEN",
		}
		for _, item := range o.LineItems {
			fo.LineItems = append(fo.LineItems, GQLFulfillmentLineItem{
				ID:                fmt.Sprintf("gid://shopify/FulfillmentOrderLineItem/%d", item.ID),
				RemainingQuantity: item.FulfillableQuantity,
				SKU:               item.SKU,
				Vendor:            item.Vendor,
				Name:              item.Name,
			})
		}
		return &FulfillmentOrdersPayload{FulfillmentOrders: []GQLFulfillmentOrder{fo}}, nil
	}
	return nil, platform.ErrOrderNotFound
}

// CreateFulfillment accepts the mutation and records its input.
func (m *MockAPIClient) CreateFulfillment(ctx context.Context, input FulfillmentV2Input) (*FulfillmentCreatePayload, error) {
	if err := m.pause(); err != nil {
		return nil, err
	}
	if m.OnCreateFulfillment != nil {
		return m.OnCreateFulfillment(ctx, input)
	}

	m.CreatedFulfillments = append(m.CreatedFulfillments, input)
	return &FulfillmentCreatePayload{
		FulfillmentID: "gid://shopify/Fulfillment/" + uuid.New().String()[:8],
		Status:        "SUCCESS",
	}, nil
}
