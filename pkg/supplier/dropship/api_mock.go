package dropship

import (
	"context"
	"time"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	// Envelopes seeds the mock listing.
	Envelopes []OrderEnvelope

	OnListOrders  func(ctx context.Context, since time.Time) ([]OrderEnvelope, error)
	OnCreateOrder func(ctx context.Context, req *OrderRequest) (*OrderEnvelope, error)

	// CreatedOrders records every order the mock accepted.
	CreatedOrders []OrderRequest

	nextID int64
}

// NewMockAPIClient creates a new mock API client with one seeded order
// that is sent and carries tracking.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{
		Envelopes: []OrderEnvelope{
			{
				Order: APIOrder{
					ID:                     900001,
					OrderNumber:            "VX-900001",
					CustomerOrderReference: "#362673",
					StatusOrderName:        "Sent",
					ShippingTracking:       "01475240430954",
					ShippingTrackingURL:    "https://tracking.dpd.de/parcelstatus?query=01475240430954",
					ShippingOptionName:     "DPD",
					SubmittedAt:            time.Now().AddDate(0, 0, -2).Format("2006-01-02"),
					OrderProducts: []OrderProductEnvelope{
						{OrderProduct: APIOrderProduct{ProductCode: "8718475508556", Quantity: 1}},
					},
				},
			},
		},
		nextID: 900100,
	}
}

func (m *MockAPIClient) pause() error {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return supplier.NewSupplierError("mock", "MOCK_ERROR", "Simulated API error")
	}
	return nil
}

// ListOrders returns the seeded envelopes.
func (m *MockAPIClient) ListOrders(ctx context.Context, since time.Time) ([]OrderEnvelope, error) {
	if err := m.pause(); err != nil {
		return nil, err
	}
	if m.OnListOrders != nil {
		return m.OnListOrders(ctx, since)
	}
	return m.Envelopes, nil
}

// CreateOrder accepts the order and records it.
func (m *MockAPIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderEnvelope, error) {
	if err := m.pause(); err != nil {
		return nil, err
	}
	if m.OnCreateOrder != nil {
		return m.OnCreateOrder(ctx, req)
	}

	m.CreatedOrders = append(m.CreatedOrders, *req)
	m.nextID++
	return &OrderEnvelope{
		Order: APIOrder{
			ID:                     m.nextID,
			CustomerOrderReference: req.CustomerOrderReference,
			StatusOrderName:        "Submitted",
		},
	}, nil
}
